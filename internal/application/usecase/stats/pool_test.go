package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

func newTestPool(t *testing.T, size int) (*Pool, *mockSolvedProvider, *mockContributionProvider) {
	t.Helper()
	solved := new(mockSolvedProvider)
	contribs := new(mockContributionProvider)
	p := NewPool(solved, contribs, nil, handlesA, size, logger.NewNopLogger())

	var tick int64
	p.now = func() time.Time {
		tick++
		return time.Unix(tick, 0)
	}
	return p, solved, contribs
}

func TestPool_HandlePairsDoNotShareCycles(t *testing.T) {
	defer goleak.VerifyNone(t)

	p, solved, contribs := newTestPool(t, 4)
	release := make(chan time.Time)
	solved.On("SolvedCount", mock.Anything, "lc-a").Return(1, nil).WaitUntil(release)
	contribs.On("LastYearContributions", mock.Anything, "gh-a").Return(2, nil).WaitUntil(release)
	solved.On("SolvedCount", mock.Anything, "lc-b").Return(10, nil)
	contribs.On("LastYearContributions", mock.Anything, "gh-b").Return(20, nil)

	wa, started := p.Widget(context.Background(), handlesA)
	require.True(t, started)
	wb, started := p.Widget(context.Background(), handlesB)
	require.True(t, started)
	require.NotSame(t, wa, wb)

	waitSettled(t, wb)
	close(release)
	waitSettled(t, wa)

	a, b := wa.Snapshot(), wb.Snapshot()
	assert.Equal(t, handlesA, a.Handles)
	assert.Equal(t, 1, *a.Stats.SolvedCount)
	assert.Empty(t, a.Stats.ErrorMessage)
	assert.Equal(t, handlesB, b.Handles)
	assert.Equal(t, 20, *b.Stats.ContributionCount)

	again, started := p.Widget(context.Background(), handlesA)
	assert.Same(t, wa, again)
	assert.False(t, started)

	p.Close()
	solved.AssertNumberOfCalls(t, "SolvedCount", 2)
}

func TestPool_EvictsLeastRecentlyUsedButKeepsOwner(t *testing.T) {
	defer goleak.VerifyNone(t)

	p, solved, contribs := newTestPool(t, 2)
	solved.On("SolvedCount", mock.Anything, mock.Anything).Return(1, nil)
	contribs.On("LastYearContributions", mock.Anything, mock.Anything).Return(1, nil)

	owner, _ := p.Widget(context.Background(), handlesA)
	first, _ := p.Widget(context.Background(), stats.Handles{LeetCode: "x", GitHub: "1"})
	p.Widget(context.Background(), stats.Handles{LeetCode: "x", GitHub: "2"})
	p.Widget(context.Background(), stats.Handles{LeetCode: "x", GitHub: "3"})

	assert.Equal(t, 3, p.Len())

	again, _ := p.Widget(context.Background(), handlesA)
	assert.Same(t, owner, again)

	replaced, started := p.Widget(context.Background(), stats.Handles{LeetCode: "x", GitHub: "1"})
	assert.True(t, started)
	assert.NotSame(t, first, replaced)
	assert.Equal(t, 3, p.Len())

	p.Close()
}

func TestPool_ClosedPoolHandsOutNothing(t *testing.T) {
	defer goleak.VerifyNone(t)

	p, _, _ := newTestPool(t, 2)
	p.Close()

	w, started := p.Widget(context.Background(), handlesA)
	assert.Nil(t, w)
	assert.False(t, started)
}

func TestWidget_ClosedWidgetStartsNoCycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, _, _ := newTestWidget(t)
	w.Close()

	assert.False(t, w.Activate(context.Background(), handlesA))
	assert.Zero(t, w.Refresh(context.Background()))
	assert.Zero(t, w.Snapshot().Cycle)
}
