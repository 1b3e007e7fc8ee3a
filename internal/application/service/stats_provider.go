package service

import "context"

// SolvedCountProvider returns the number of problems a code-judge user has solved.
type SolvedCountProvider interface {
	SolvedCount(ctx context.Context, handle string) (int, error)
}

// ContributionProvider returns a source-hosting user's contributions over the last year.
type ContributionProvider interface {
	LastYearContributions(ctx context.Context, handle string) (int, error)
}

// StatsCache stores resolved counts by key. A miss is reported with ok=false, not an error.
type StatsCache interface {
	GetCount(ctx context.Context, key string) (value int, ok bool, err error)
	SetCount(ctx context.Context, key string, value int) error
}

type freshStatsKey struct{}

// WithFreshStats marks ctx so that cached providers skip their cache read and load
// from upstream. The loaded value still refreshes the cache.
func WithFreshStats(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshStatsKey{}, true)
}

// FreshStatsRequested reports whether ctx carries the WithFreshStats mark.
func FreshStatsRequested(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshStatsKey{}).(bool)
	return fresh
}
