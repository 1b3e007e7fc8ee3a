// Package stats holds the profile widget: the fetch cycle that resolves the
// LeetCode solved count and GitHub contributions for a pair of handles.
package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

const publishTimeout = 5 * time.Second

var tracer = otel.Tracer("stats_usecase")

// Widget owns one ProfileStats record. Every activation starts a numbered cycle;
// results of a cycle are applied only while it is still the latest one.
type Widget struct {
	solved    service.SolvedCountProvider
	contribs  service.ContributionProvider
	publisher service.EventPublisher
	logger    logger.Logger

	mu      sync.Mutex
	seq     uint64
	active  bool
	closed  bool
	handles stats.Handles
	state   stats.ProfileStats
	cancel  context.CancelFunc
	settled chan struct{}

	wg sync.WaitGroup
}

// NewWidget wires the widget. publisher may be nil.
func NewWidget(
	solved service.SolvedCountProvider,
	contribs service.ContributionProvider,
	publisher service.EventPublisher,
	log logger.Logger,
) *Widget {
	return &Widget{
		solved:    solved,
		contribs:  contribs,
		publisher: publisher,
		logger:    log,
	}
}

// Activate starts a fetch cycle when the LeetCode or GitHub handle differs from the
// active one, or when nothing was activated yet. It reports whether a cycle started.
// The cycle outlives ctx cancellation but keeps its values (trace, request IDs).
func (w *Widget) Activate(ctx context.Context, h stats.Handles) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}
	if w.active && w.handles.FetchKey() == h.FetchKey() {
		w.handles.TUF = h.TUF
		return false
	}
	w.startLocked(ctx, h)
	return true
}

// Refresh starts a new cycle with the current handles and returns its number,
// or 0 when the widget was never activated.
func (w *Widget) Refresh(ctx context.Context) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.active || w.closed {
		return 0
	}
	w.startLocked(ctx, w.handles)
	return w.seq
}

func (w *Widget) Snapshot() stats.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	return stats.Snapshot{
		Cycle:   w.seq,
		Handles: w.handles,
		Stats:   copyStats(w.state),
	}
}

// Wait blocks until the latest cycle settles or ctx ends. A cycle superseded while
// waiting is followed to its successor.
func (w *Widget) Wait(ctx context.Context) error {
	for {
		w.mu.Lock()
		done, seq := w.settled, w.seq
		w.mu.Unlock()

		if done == nil {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}

		w.mu.Lock()
		current := w.seq
		w.mu.Unlock()
		if current == seq {
			return nil
		}
	}
}

// Close cancels the running cycle and waits for every fetch goroutine to return.
// A closed widget starts no further cycles.
func (w *Widget) Close() {
	w.mu.Lock()
	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *Widget) startLocked(ctx context.Context, h stats.Handles) {
	if w.cancel != nil {
		w.cancel()
	}
	w.seq++
	seq := w.seq

	cycleCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	w.cancel = cancel
	w.active = true
	w.handles = h
	w.state = stats.ProfileStats{Loading: true}
	w.settled = done

	w.logger.Info("Starting stats fetch cycle",
		zap.Uint64("cycle", seq),
		zap.String("leetcode", h.LeetCode),
		zap.String("github", h.GitHub),
	)

	w.wg.Add(1)
	go w.run(cycleCtx, cancel, seq, h, done)
}

func (w *Widget) run(ctx context.Context, cancel context.CancelFunc, seq uint64, h stats.Handles, done chan struct{}) {
	defer w.wg.Done()
	defer cancel()

	ctx, span := tracer.Start(ctx, "FetchCycle", trace.WithAttributes(
		attribute.Int64("cycle", int64(seq)),
		attribute.String("leetcode", h.LeetCode),
		attribute.String("github", h.GitHub),
	))
	defer span.End()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := w.solved.SolvedCount(gctx, h.LeetCode)
		if err != nil {
			return fmt.Errorf("leetcode stats for %q: %w", h.LeetCode, err)
		}
		w.apply(seq, func(s *stats.ProfileStats) { s.SolvedCount = &n })
		return nil
	})

	g.Go(func() error {
		n, err := w.contribs.LastYearContributions(gctx, h.GitHub)
		if err != nil {
			return fmt.Errorf("github contributions for %q: %w", h.GitHub, err)
		}
		w.apply(seq, func(s *stats.ProfileStats) { s.ContributionCount = &n })
		return nil
	})

	err := g.Wait()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stats fetch failed")
	}

	settled, ok := w.settle(seq, h, err)
	// Waiters are released before the event goes out.
	close(done)
	if !ok || w.publisher == nil {
		return
	}

	pubCtx, pubCancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer pubCancel()
	if err := w.publisher.PublishStatsSettled(pubCtx, settled); err != nil {
		w.logger.Warn("Failed to publish stats settled event", zap.Uint64("cycle", seq), zap.Error(err))
	}
}

func (w *Widget) apply(seq uint64, mutate func(*stats.ProfileStats)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if seq != w.seq {
		return
	}
	mutate(&w.state)
}

func (w *Widget) settle(seq uint64, h stats.Handles, err error) (stats.Settled, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if seq != w.seq {
		w.logger.Info("Discarding superseded stats cycle", zap.Uint64("cycle", seq), zap.Uint64("active_cycle", w.seq))
		return stats.Settled{}, false
	}

	w.state.Loading = false
	if err != nil {
		w.logger.Error("Failed to fetch coding stats", err, zap.Uint64("cycle", seq))
		w.state.ErrorMessage = stats.DisplayErrorMessage
	}

	out := stats.Settled{
		Cycle:     seq,
		Handles:   h,
		Error:     w.state.ErrorMessage,
		SettledAt: time.Now().UTC(),
	}
	if err == nil {
		out.Solved = w.state.SolvedCount
		out.Contributions = w.state.ContributionCount
	}
	return out, true
}

func copyStats(s stats.ProfileStats) stats.ProfileStats {
	out := s
	if s.SolvedCount != nil {
		v := *s.SolvedCount
		out.SolvedCount = &v
	}
	if s.ContributionCount != nil {
		v := *s.ContributionCount
		out.ContributionCount = &v
	}
	return out
}
