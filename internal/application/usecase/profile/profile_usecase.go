package profile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
	statsUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/stats"
	"github.com/khoahotran/coding-portfolio/internal/domain/profile"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

// StatsWidget is the part of a widget the profile page needs once it is activated.
type StatsWidget interface {
	Refresh(ctx context.Context) uint64
	Snapshot() stats.Snapshot
	Wait(ctx context.Context) error
}

// StatsWidgets hands out one activated widget per handle pair and reports whether
// handing it out started a cycle. It returns a nil widget once shut down.
type StatsWidgets interface {
	Widget(ctx context.Context, h stats.Handles) (StatsWidget, bool)
}

type poolWidgets struct {
	pool *statsUC.Pool
}

func FromPool(pool *statsUC.Pool) StatsWidgets {
	return poolWidgets{pool: pool}
}

func (p poolWidgets) Widget(ctx context.Context, h stats.Handles) (StatsWidget, bool) {
	w, started := p.pool.Widget(ctx, h)
	if w == nil {
		return nil, false
	}
	return w, started
}

var ErrWidgetsClosed = errors.New("stats widgets are shut down")

type ProfileUseCase struct {
	widgets    StatsWidgets
	owner      profile.Profile
	renderWait time.Duration
	logger     logger.Logger
}

func NewProfileUseCase(widgets StatsWidgets, owner profile.Profile, renderWait time.Duration, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		widgets:    widgets,
		owner:      owner,
		renderWait: renderWait,
		logger:     log,
	}
}

type GetProfileInput struct {
	LeetCodeHandle string
	GitHubHandle   string
	// Wait bounds how long to wait for a fresh cycle to settle before rendering.
	// Zero uses the configured render wait; negative does not wait.
	Wait time.Duration
}

type GetProfileOutput struct {
	Profile profile.Profile
	Stats   stats.Rendered
	Cycle   uint64
}

// ExecuteGetProfile renders the stats of the requested handles, falling back to the
// owner's. Fetch failures never surface here; they show up as markers.
func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	p := uc.owner.WithOverrides(input.LeetCodeHandle, input.GitHubHandle)
	w, _ := uc.widgets.Widget(ctx, p.Handles)
	if w == nil {
		return nil, ErrWidgetsClosed
	}

	wait := input.Wait
	if wait == 0 {
		wait = uc.renderWait
	}
	if wait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, wait)
		err := w.Wait(waitCtx)
		cancel()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if err != nil {
			uc.logger.Info("Rendering profile before stats settled", zap.Duration("wait", wait))
		}
	}

	snap := w.Snapshot()
	if snap.Handles.FetchKey() != p.Handles.FetchKey() {
		uc.logger.Warn("Widget holds other handles, rendering as pending",
			zap.String("requested_github", p.Handles.GitHub),
			zap.String("widget_github", snap.Handles.GitHub),
		)
		snap.Stats = stats.ProfileStats{Loading: true}
	}
	snap.Handles = p.Handles

	return &GetProfileOutput{
		Profile: p,
		Stats:   stats.Render(snap, p.TUFSolved),
		Cycle:   snap.Cycle,
	}, nil
}

type RefreshStatsOutput struct {
	Cycle   uint64
	Started bool
}

// ExecuteRefreshStats forces a new fetch cycle for the owner's handles. The cycle
// bypasses any stats cache.
func (uc *ProfileUseCase) ExecuteRefreshStats(ctx context.Context) (*RefreshStatsOutput, error) {
	ctx = service.WithFreshStats(ctx)

	w, started := uc.widgets.Widget(ctx, uc.owner.Handles)
	if w == nil {
		return nil, ErrWidgetsClosed
	}
	if started {
		return &RefreshStatsOutput{Cycle: w.Snapshot().Cycle, Started: true}, nil
	}
	cycle := w.Refresh(ctx)
	return &RefreshStatsOutput{Cycle: cycle, Started: cycle != 0}, nil
}
