package stats

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

// DefaultPoolSize bounds how many handle pairs keep a live widget besides the owner's.
const DefaultPoolSize = 32

type poolEntry struct {
	widget   *Widget
	lastUsed time.Time
}

// Pool keeps one Widget per LeetCode/GitHub handle pair so that renders for different
// handles never share, or cancel, each other's cycles. The owner's widget is never
// evicted; other entries are evicted least recently used first.
type Pool struct {
	solved    service.SolvedCountProvider
	contribs  service.ContributionProvider
	publisher service.EventPublisher
	logger    logger.Logger

	ownerKey string
	size     int

	mu      sync.Mutex
	closed  bool
	widgets map[string]*poolEntry
	now     func() time.Time

	closing sync.WaitGroup
}

func NewPool(
	solved service.SolvedCountProvider,
	contribs service.ContributionProvider,
	publisher service.EventPublisher,
	owner stats.Handles,
	size int,
	log logger.Logger,
) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	return &Pool{
		solved:    solved,
		contribs:  contribs,
		publisher: publisher,
		logger:    log,
		ownerKey:  owner.FetchKey(),
		size:      size,
		widgets:   make(map[string]*poolEntry),
		now:       time.Now,
	}
}

// Widget returns the widget for h, creating and activating it when needed, and
// reports whether that started a cycle. It returns nil after Close.
func (p *Pool) Widget(ctx context.Context, h stats.Handles) (*Widget, bool) {
	key := h.FetchKey()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, false
	}
	e, ok := p.widgets[key]
	if !ok {
		e = &poolEntry{widget: NewWidget(p.solved, p.contribs, p.publisher, p.logger)}
		p.widgets[key] = e
	}
	e.lastUsed = p.now()
	started := e.widget.Activate(ctx, h)
	evicted := p.evictLocked()
	p.closing.Add(len(evicted))
	p.mu.Unlock()

	for _, w := range evicted {
		w := w
		go func() {
			defer p.closing.Done()
			w.Close()
		}()
	}
	return e.widget, started
}

// Len reports how many widgets the pool holds.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.widgets)
}

func (p *Pool) evictLocked() []*Widget {
	var evicted []*Widget
	for len(p.widgets) > p.size+1 {
		var oldestKey string
		var oldest time.Time
		for k, e := range p.widgets {
			if k == p.ownerKey {
				continue
			}
			if oldestKey == "" || e.lastUsed.Before(oldest) {
				oldestKey, oldest = k, e.lastUsed
			}
		}
		if oldestKey == "" {
			break
		}
		evicted = append(evicted, p.widgets[oldestKey].widget)
		delete(p.widgets, oldestKey)
		p.logger.Info("Evicted stats widget", zap.Int("pool_size", len(p.widgets)))
	}
	return evicted
}

// Close stops every widget and waits for their fetches to return.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	widgets := p.widgets
	p.widgets = make(map[string]*poolEntry)
	p.mu.Unlock()

	for _, e := range widgets {
		e.widget.Close()
	}
	p.closing.Wait()
}
