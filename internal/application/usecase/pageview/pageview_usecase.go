package pageview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
	"github.com/khoahotran/coding-portfolio/internal/domain/pageview"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/apperror"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

// RecordPageViewUseCase runs on the page server. Publishing is best effort: a page
// always renders even when the broker is down.
type RecordPageViewUseCase struct {
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewRecordPageViewUseCase(pub service.EventPublisher, log logger.Logger) *RecordPageViewUseCase {
	return &RecordPageViewUseCase{publisher: pub, logger: log}
}

type RecordPageViewInput struct {
	Path    string
	Handles stats.Handles
}

func (uc *RecordPageViewUseCase) Execute(ctx context.Context, input RecordPageViewInput) pageview.PageView {
	view := pageview.PageView{
		ID:       uuid.New(),
		Path:     input.Path,
		Handles:  input.Handles,
		ViewedAt: time.Now().UTC(),
	}
	if err := uc.publisher.PublishPageView(ctx, view); err != nil {
		uc.logger.Warn("Failed to publish page view", zap.String("path", view.Path), zap.Error(err))
	}
	return view
}

// ProcessEventsUseCase runs on the worker and stores consumed events.
type ProcessEventsUseCase struct {
	pageViewRepo pageview.Repository
	snapshotRepo pageview.SnapshotRepository
	logger       logger.Logger
}

func NewProcessEventsUseCase(pvRepo pageview.Repository, snapRepo pageview.SnapshotRepository, log logger.Logger) *ProcessEventsUseCase {
	return &ProcessEventsUseCase{pageViewRepo: pvRepo, snapshotRepo: snapRepo, logger: log}
}

var ErrInvalidEvent = errors.New("invalid event")

func (uc *ProcessEventsUseCase) ExecutePageView(ctx context.Context, view pageview.PageView) error {
	if view.Path == "" || view.ViewedAt.IsZero() {
		return ErrInvalidEvent
	}
	if err := uc.pageViewRepo.Increment(ctx, view); err != nil {
		return err
	}
	uc.logger.Info("Page view stored", zap.String("path", view.Path), zap.String("view_id", view.ID.String()))
	return nil
}

func (uc *ProcessEventsUseCase) ExecuteStatsSettled(ctx context.Context, s stats.Settled) error {
	if s.Cycle == 0 || s.SettledAt.IsZero() {
		return ErrInvalidEvent
	}
	if err := uc.snapshotRepo.SaveSettled(ctx, s); err != nil {
		return err
	}
	uc.logger.Info("Stats snapshot stored",
		zap.Uint64("cycle", s.Cycle),
		zap.String("leetcode", s.Handles.LeetCode),
		zap.String("github", s.Handles.GitHub),
		zap.Bool("failed", s.Error != ""),
	)
	return nil
}

// DefaultDailyLimit is how many days ExecuteDailyViews returns when asked for none.
const DefaultDailyLimit = 30

const maxDailyLimit = 366

// InsightsUseCase reads back what the worker stored.
type InsightsUseCase struct {
	pageViewRepo pageview.Repository
	snapshotRepo pageview.SnapshotRepository
	logger       logger.Logger
}

func NewInsightsUseCase(pvRepo pageview.Repository, snapRepo pageview.SnapshotRepository, log logger.Logger) *InsightsUseCase {
	return &InsightsUseCase{pageViewRepo: pvRepo, snapshotRepo: snapRepo, logger: log}
}

// ExecuteDailyViews lists the view counts of path, newest day first.
func (uc *InsightsUseCase) ExecuteDailyViews(ctx context.Context, path string, limit int) ([]pageview.DailyCount, error) {
	if path == "" {
		path = "/"
	}
	switch {
	case limit <= 0:
		limit = DefaultDailyLimit
	case limit > maxDailyLimit:
		return nil, apperror.NewInvalidInput(fmt.Sprintf("limit must be at most %d", maxDailyLimit), nil)
	}
	return uc.pageViewRepo.ListDaily(ctx, path, limit)
}

// ExecuteLatestSnapshot returns the most recent stored settlement for the handle pair.
func (uc *InsightsUseCase) ExecuteLatestSnapshot(ctx context.Context, h stats.Handles) (*stats.Settled, error) {
	if h.LeetCode == "" || h.GitHub == "" {
		return nil, apperror.NewInvalidInput("both leetcode and github handles are required", nil)
	}
	return uc.snapshotRepo.Latest(ctx, h)
}
