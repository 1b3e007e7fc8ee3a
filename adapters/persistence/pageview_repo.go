package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/coding-portfolio/internal/domain/pageview"
	"github.com/khoahotran/coding-portfolio/pkg/apperror"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

type postgresPageViewRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPageViewRepo(db *pgxpool.Pool, logger logger.Logger) pageview.Repository {
	return &postgresPageViewRepo{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *postgresPageViewRepo) Increment(ctx context.Context, v pageview.PageView) error {
	query := `
		INSERT INTO page_views (path, day, count)
		VALUES ($1, $2::date, 1)
		ON CONFLICT (path, day) DO UPDATE SET count = page_views.count + 1
	`
	_, err := r.db.Exec(ctx, query, v.Path, v.ViewedAt.UTC().Format("2006-01-02"))
	if err != nil {
		return apperror.NewInternal("failed to increment page view", err)
	}
	return nil
}

func (r *postgresPageViewRepo) ListDaily(ctx context.Context, path string, limit int) ([]pageview.DailyCount, error) {
	if limit <= 0 {
		limit = 30
	}
	builder := psql.Select("path, day, count").
		From("page_views").
		Where(sq.Eq{"path": path}).
		OrderBy("day DESC").
		Limit(uint64(limit))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build page view query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query page views", err)
	}

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (pageview.DailyCount, error) {
		var c pageview.DailyCount
		err := row.Scan(&c.Path, &c.Day, &c.Count)
		return c, err
	})
	if err != nil {
		return nil, apperror.NewInternal("failed to scan page view rows", err)
	}
	return counts, nil
}
