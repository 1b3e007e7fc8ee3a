package statsapi

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

// Only successful lookups are cached; a failing upstream is asked again next cycle.
// Cache errors are logged and fall through to the upstream.

type cachingSolvedProvider struct {
	next   service.SolvedCountProvider
	cache  service.StatsCache
	logger logger.Logger
}

func NewCachingSolvedProvider(next service.SolvedCountProvider, cache service.StatsCache, log logger.Logger) service.SolvedCountProvider {
	return &cachingSolvedProvider{next: next, cache: cache, logger: log}
}

func (p *cachingSolvedProvider) SolvedCount(ctx context.Context, handle string) (int, error) {
	return cached(ctx, p.cache, p.logger, "stats:leetcode:"+handle, func() (int, error) {
		return p.next.SolvedCount(ctx, handle)
	})
}

type cachingContributionProvider struct {
	next   service.ContributionProvider
	cache  service.StatsCache
	logger logger.Logger
}

func NewCachingContributionProvider(next service.ContributionProvider, cache service.StatsCache, log logger.Logger) service.ContributionProvider {
	return &cachingContributionProvider{next: next, cache: cache, logger: log}
}

func (p *cachingContributionProvider) LastYearContributions(ctx context.Context, handle string) (int, error) {
	return cached(ctx, p.cache, p.logger, "stats:github:"+handle, func() (int, error) {
		return p.next.LastYearContributions(ctx, handle)
	})
}

// cached serves key from cache unless ctx asks for fresh stats, in which case the
// upstream value replaces the cached one.
func cached(ctx context.Context, cache service.StatsCache, log logger.Logger, key string, load func() (int, error)) (int, error) {
	if !service.FreshStatsRequested(ctx) {
		v, ok, err := cache.GetCount(ctx, key)
		if err != nil {
			log.Warn("Stats cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return v, nil
		}
	}

	v, err := load()
	if err != nil {
		return 0, err
	}

	if err := cache.SetCount(ctx, key, v); err != nil {
		log.Warn("Stats cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}
