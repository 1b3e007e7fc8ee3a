package pageview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/coding-portfolio/internal/domain/pageview"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/apperror"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishPageView(ctx context.Context, view pageview.PageView) error {
	return m.Called(ctx, view).Error(0)
}

func (m *mockPublisher) PublishStatsSettled(ctx context.Context, s stats.Settled) error {
	return m.Called(ctx, s).Error(0)
}

type mockPageViewRepo struct {
	mock.Mock
}

func (m *mockPageViewRepo) Increment(ctx context.Context, view pageview.PageView) error {
	return m.Called(ctx, view).Error(0)
}

func (m *mockPageViewRepo) ListDaily(ctx context.Context, path string, limit int) ([]pageview.DailyCount, error) {
	args := m.Called(ctx, path, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pageview.DailyCount), args.Error(1)
}

type mockSnapshotRepo struct {
	mock.Mock
}

func (m *mockSnapshotRepo) SaveSettled(ctx context.Context, s stats.Settled) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSnapshotRepo) Latest(ctx context.Context, h stats.Handles) (*stats.Settled, error) {
	args := m.Called(ctx, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stats.Settled), args.Error(1)
}

func TestRecordPageViewUseCase_PublishFailureIsSwallowed(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishPageView", mock.Anything, mock.MatchedBy(func(v pageview.PageView) bool {
		return v.Path == "/" && v.Handles.GitHub == "gh"
	})).Return(errors.New("broker down"))

	uc := NewRecordPageViewUseCase(pub, logger.NewNopLogger())
	view := uc.Execute(context.Background(), RecordPageViewInput{Path: "/", Handles: stats.Handles{GitHub: "gh"}})

	assert.Equal(t, "/", view.Path)
	assert.False(t, view.ViewedAt.IsZero())
	pub.AssertExpectations(t)
}

func TestProcessEventsUseCase_ExecutePageView(t *testing.T) {
	repo := new(mockPageViewRepo)
	uc := NewProcessEventsUseCase(repo, new(mockSnapshotRepo), logger.NewNopLogger())

	view := pageview.PageView{Path: "/", ViewedAt: time.Now()}
	repo.On("Increment", mock.Anything, view).Return(nil).Once()

	require.NoError(t, uc.ExecutePageView(context.Background(), view))
	assert.ErrorIs(t, uc.ExecutePageView(context.Background(), pageview.PageView{}), ErrInvalidEvent)
	repo.AssertExpectations(t)
}

func TestProcessEventsUseCase_ExecuteStatsSettled(t *testing.T) {
	snapshots := new(mockSnapshotRepo)
	uc := NewProcessEventsUseCase(new(mockPageViewRepo), snapshots, logger.NewNopLogger())

	settled := stats.Settled{Cycle: 4, Handles: stats.Handles{LeetCode: "lc"}, SettledAt: time.Now()}
	snapshots.On("SaveSettled", mock.Anything, settled).Return(errors.New("db down")).Once()

	assert.EqualError(t, uc.ExecuteStatsSettled(context.Background(), settled), "db down")
	assert.ErrorIs(t, uc.ExecuteStatsSettled(context.Background(), stats.Settled{}), ErrInvalidEvent)
	snapshots.AssertExpectations(t)
}

func TestInsightsUseCase_ExecuteDailyViews(t *testing.T) {
	repo := new(mockPageViewRepo)
	uc := NewInsightsUseCase(repo, new(mockSnapshotRepo), logger.NewNopLogger())

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	want := []pageview.DailyCount{{Path: "/", Day: day, Count: 3}}
	repo.On("ListDaily", mock.Anything, "/", DefaultDailyLimit).Return(want, nil).Once()

	got, err := uc.ExecuteDailyViews(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = uc.ExecuteDailyViews(context.Background(), "/", 1000)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	repo.AssertExpectations(t)
}

func TestInsightsUseCase_ExecuteLatestSnapshot(t *testing.T) {
	snapshots := new(mockSnapshotRepo)
	uc := NewInsightsUseCase(new(mockPageViewRepo), snapshots, logger.NewNopLogger())

	h := stats.Handles{LeetCode: "lc", GitHub: "gh"}
	solved := 412
	snapshots.On("Latest", mock.Anything, h).Return(&stats.Settled{Cycle: 9, Handles: h, Solved: &solved}, nil).Once()

	got, err := uc.ExecuteLatestSnapshot(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got.Cycle)

	_, err = uc.ExecuteLatestSnapshot(context.Background(), stats.Handles{GitHub: "gh"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	snapshots.AssertExpectations(t)
}
