package service

import (
	"context"

	"github.com/khoahotran/coding-portfolio/internal/domain/pageview"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
)

type EventPublisher interface {
	PublishPageView(ctx context.Context, view pageview.PageView) error
	PublishStatsSettled(ctx context.Context, s stats.Settled) error
}
