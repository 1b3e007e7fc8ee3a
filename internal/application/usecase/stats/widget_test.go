package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/khoahotran/coding-portfolio/internal/domain/pageview"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/apperror"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

type mockSolvedProvider struct {
	mock.Mock
}

func (m *mockSolvedProvider) SolvedCount(ctx context.Context, handle string) (int, error) {
	args := m.Called(ctx, handle)
	return args.Int(0), args.Error(1)
}

type mockContributionProvider struct {
	mock.Mock
}

func (m *mockContributionProvider) LastYearContributions(ctx context.Context, handle string) (int, error) {
	args := m.Called(ctx, handle)
	return args.Int(0), args.Error(1)
}

type recordingPublisher struct {
	mu      sync.Mutex
	settled []stats.Settled
}

func (p *recordingPublisher) PublishPageView(ctx context.Context, view pageview.PageView) error {
	return nil
}

func (p *recordingPublisher) PublishStatsSettled(ctx context.Context, s stats.Settled) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settled = append(p.settled, s)
	return nil
}

var (
	handlesA = stats.Handles{LeetCode: "lc-a", GitHub: "gh-a", TUF: "tuf"}
	handlesB = stats.Handles{LeetCode: "lc-b", GitHub: "gh-b", TUF: "tuf"}
)

func newTestWidget(t *testing.T) (*Widget, *mockSolvedProvider, *mockContributionProvider) {
	t.Helper()
	solved := new(mockSolvedProvider)
	contribs := new(mockContributionProvider)
	w := NewWidget(solved, contribs, nil, logger.NewNopLogger())
	t.Cleanup(w.Close)
	return w, solved, contribs
}

func waitSettled(t *testing.T, w *Widget) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Wait(ctx))
}

func TestWidget_ResolvesBothStats(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, solved, contribs := newTestWidget(t)
	solved.On("SolvedCount", mock.Anything, "lc-a").Return(412, nil).Once()
	contribs.On("LastYearContributions", mock.Anything, "gh-a").Return(987, nil).Once()

	assert.True(t, w.Activate(context.Background(), handlesA))
	waitSettled(t, w)

	r := stats.Render(w.Snapshot(), 50)
	assert.Equal(t, "412", r.Solved)
	assert.Equal(t, "987", r.Contributions)
	assert.False(t, r.Loading)
	assert.Empty(t, r.Error)

	solved.AssertExpectations(t)
	contribs.AssertExpectations(t)
	w.Close()
}

func TestWidget_PendingUntilSettled(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, solved, contribs := newTestWidget(t)
	release := make(chan time.Time)
	solved.On("SolvedCount", mock.Anything, "lc-a").Return(1, nil).WaitUntil(release)
	contribs.On("LastYearContributions", mock.Anything, "gh-a").Return(2, nil).WaitUntil(release)

	w.Activate(context.Background(), handlesA)

	snap := w.Snapshot()
	assert.True(t, snap.Stats.Loading)
	r := stats.Render(snap, 50)
	assert.Equal(t, stats.PendingMarker, r.Solved)
	assert.Equal(t, stats.PendingMarker, r.Contributions)
	assert.Equal(t, "50", r.TUFSolved)

	close(release)
	waitSettled(t, w)

	r = stats.Render(w.Snapshot(), 50)
	assert.Equal(t, "1", r.Solved)
	assert.Equal(t, "2", r.Contributions)
	assert.Equal(t, "50", r.TUFSolved)
	w.Close()
}

func TestWidget_AnyFailureMasksEveryStat(t *testing.T) {
	defer goleak.VerifyNone(t)

	notFound := apperror.NewAppError(stats.ErrNotFoundFailure, "LeetCode user not found", "status 404", nil)

	testCases := []struct {
		name        string
		solvedErr   error
		contribsErr error
	}{
		{name: "leetcode not found", solvedErr: notFound},
		{name: "github transport failure", contribsErr: errors.New("connection refused")},
		{name: "both fail", solvedErr: notFound, contribsErr: errors.New("boom")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, solved, contribs := newTestWidget(t)
			solved.On("SolvedCount", mock.Anything, "lc-a").Return(7, tc.solvedErr)
			contribs.On("LastYearContributions", mock.Anything, "gh-a").Return(9, tc.contribsErr)

			w.Activate(context.Background(), handlesA)
			waitSettled(t, w)

			snap := w.Snapshot()
			assert.False(t, snap.Stats.Loading)
			assert.Equal(t, stats.DisplayErrorMessage, snap.Stats.ErrorMessage)

			r := stats.Render(snap, 50)
			assert.Equal(t, stats.NotAvailableMarker, r.Solved)
			assert.Equal(t, stats.NotAvailableMarker, r.Contributions)
			assert.Equal(t, "50", r.TUFSolved)
			w.Close()
		})
	}
}

func TestWidget_HandleChangeStartsExactlyTwoFetches(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, solved, contribs := newTestWidget(t)
	solved.On("SolvedCount", mock.Anything, "lc-a").Return(1, nil)
	contribs.On("LastYearContributions", mock.Anything, "gh-a").Return(1, nil)

	w.Activate(context.Background(), handlesA)
	waitSettled(t, w)

	assert.False(t, w.Activate(context.Background(), handlesA), "same handles must not refetch")

	release := make(chan time.Time)
	solved.On("SolvedCount", mock.Anything, "lc-b").Return(5, nil).WaitUntil(release)
	contribs.On("LastYearContributions", mock.Anything, "gh-b").Return(6, nil).WaitUntil(release)

	assert.True(t, w.Activate(context.Background(), handlesB))
	assert.True(t, w.Snapshot().Stats.Loading)

	close(release)
	waitSettled(t, w)

	solved.AssertNumberOfCalls(t, "SolvedCount", 2)
	contribs.AssertNumberOfCalls(t, "LastYearContributions", 2)
	solved.AssertCalled(t, "SolvedCount", mock.Anything, "lc-b")
	contribs.AssertCalled(t, "LastYearContributions", mock.Anything, "gh-b")

	snap := w.Snapshot()
	assert.Equal(t, handlesB, snap.Handles)
	assert.Equal(t, uint64(2), snap.Cycle)
	w.Close()
}

func TestWidget_StaleCycleIsDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, solved, contribs := newTestWidget(t)
	staleRelease := make(chan time.Time)
	solved.On("SolvedCount", mock.Anything, "lc-a").Return(111, nil).WaitUntil(staleRelease)
	contribs.On("LastYearContributions", mock.Anything, "gh-a").Return(222, nil).WaitUntil(staleRelease)
	solved.On("SolvedCount", mock.Anything, "lc-b").Return(5, nil)
	contribs.On("LastYearContributions", mock.Anything, "gh-b").Return(6, nil)

	w.Activate(context.Background(), handlesA)
	w.Activate(context.Background(), handlesB)
	waitSettled(t, w)

	close(staleRelease)
	w.Close()

	r := stats.Render(w.Snapshot(), 50)
	assert.Equal(t, "5", r.Solved)
	assert.Equal(t, "6", r.Contributions)
}

func TestWidget_TUFHandleChangeDoesNotRefetch(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, solved, contribs := newTestWidget(t)
	solved.On("SolvedCount", mock.Anything, "lc-a").Return(1, nil).Once()
	contribs.On("LastYearContributions", mock.Anything, "gh-a").Return(1, nil).Once()

	w.Activate(context.Background(), handlesA)
	waitSettled(t, w)

	moved := handlesA
	moved.TUF = "someone-else"
	assert.False(t, w.Activate(context.Background(), moved))
	assert.Equal(t, "someone-else", w.Snapshot().Handles.TUF)
	w.Close()
}

func TestWidget_RefreshStartsNewCycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, solved, contribs := newTestWidget(t)
	assert.Zero(t, w.Refresh(context.Background()), "refresh before activation is a no-op")

	solved.On("SolvedCount", mock.Anything, "lc-a").Return(1, nil)
	contribs.On("LastYearContributions", mock.Anything, "gh-a").Return(1, nil)

	w.Activate(context.Background(), handlesA)
	waitSettled(t, w)

	assert.Equal(t, uint64(2), w.Refresh(context.Background()))
	waitSettled(t, w)

	solved.AssertNumberOfCalls(t, "SolvedCount", 2)
	contribs.AssertNumberOfCalls(t, "LastYearContributions", 2)
	w.Close()
}

func TestWidget_PublishesSettledCycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	solved := new(mockSolvedProvider)
	contribs := new(mockContributionProvider)
	pub := &recordingPublisher{}
	w := NewWidget(solved, contribs, pub, logger.NewNopLogger())
	defer w.Close()

	solved.On("SolvedCount", mock.Anything, "lc-a").Return(10, nil)
	contribs.On("LastYearContributions", mock.Anything, "gh-a").Return(20, nil)

	w.Activate(context.Background(), handlesA)
	waitSettled(t, w)
	w.Close()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.settled, 1)
	got := pub.settled[0]
	assert.Equal(t, uint64(1), got.Cycle)
	assert.Equal(t, handlesA, got.Handles)
	require.NotNil(t, got.Solved)
	require.NotNil(t, got.Contributions)
	assert.Equal(t, 10, *got.Solved)
	assert.Equal(t, 20, *got.Contributions)
	assert.Empty(t, got.Error)
}

func TestWidget_WaitHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, solved, contribs := newTestWidget(t)
	release := make(chan time.Time)
	solved.On("SolvedCount", mock.Anything, "lc-a").Return(1, nil).WaitUntil(release)
	contribs.On("LastYearContributions", mock.Anything, "gh-a").Return(1, nil).WaitUntil(release)

	w.Activate(context.Background(), handlesA)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Wait(ctx), context.DeadlineExceeded)

	close(release)
	w.Close()
}

// blockingPublisher holds every settlement until release closes.
type blockingPublisher struct {
	release chan struct{}
}

func (p *blockingPublisher) PublishPageView(ctx context.Context, view pageview.PageView) error {
	return nil
}

func (p *blockingPublisher) PublishStatsSettled(ctx context.Context, s stats.Settled) error {
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestWidget_WaitDoesNotBlockOnSlowPublisher(t *testing.T) {
	defer goleak.VerifyNone(t)

	solved := new(mockSolvedProvider)
	contribs := new(mockContributionProvider)
	pub := &blockingPublisher{release: make(chan struct{})}
	w := NewWidget(solved, contribs, pub, logger.NewNopLogger())

	solved.On("SolvedCount", mock.Anything, "lc-a").Return(3, nil)
	contribs.On("LastYearContributions", mock.Anything, "gh-a").Return(4, nil)

	w.Activate(context.Background(), handlesA)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	require.NoError(t, w.Wait(ctx))

	snap := w.Snapshot()
	assert.False(t, snap.Stats.Loading)
	require.NotNil(t, snap.Stats.SolvedCount)
	assert.Equal(t, 3, *snap.Stats.SolvedCount)

	close(pub.release)
	w.Close()
}
