package pageview

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
)

type PageView struct {
	ID       uuid.UUID     `json:"id"`
	Path     string        `json:"path"`
	Handles  stats.Handles `json:"handles"`
	ViewedAt time.Time     `json:"viewed_at"`
}

// DailyCount is the number of views of one path on one UTC day.
type DailyCount struct {
	Path  string    `json:"path"`
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

type Repository interface {
	Increment(ctx context.Context, view PageView) error
	ListDaily(ctx context.Context, path string, limit int) ([]DailyCount, error)
}

type SnapshotRepository interface {
	SaveSettled(ctx context.Context, s stats.Settled) error
	Latest(ctx context.Context, handles stats.Handles) (*stats.Settled, error)
}
