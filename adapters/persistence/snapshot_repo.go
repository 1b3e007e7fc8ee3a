package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/coding-portfolio/internal/domain/pageview"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/apperror"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

type postgresSnapshotRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresSnapshotRepo(db *pgxpool.Pool, logger logger.Logger) pageview.SnapshotRepository {
	return &postgresSnapshotRepo{db: db, logger: logger}
}

func (r *postgresSnapshotRepo) SaveSettled(ctx context.Context, s stats.Settled) error {
	var errMsg *string
	if s.Error != "" {
		errMsg = &s.Error
	}

	sql, args, err := psql.Insert("stats_snapshots").
		Columns("cycle", "leetcode_handle", "github_handle", "solved", "contributions", "error", "settled_at").
		Values(s.Cycle, s.Handles.LeetCode, s.Handles.GitHub, s.Solved, s.Contributions, errMsg, s.SettledAt).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build snapshot insert", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return apperror.NewInternal("failed to save stats snapshot", err)
	}
	return nil
}

func (r *postgresSnapshotRepo) Latest(ctx context.Context, h stats.Handles) (*stats.Settled, error) {
	sql, args, err := psql.Select("cycle, leetcode_handle, github_handle, solved, contributions, error, settled_at").
		From("stats_snapshots").
		Where(sq.Eq{"leetcode_handle": h.LeetCode, "github_handle": h.GitHub}).
		OrderBy("settled_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build latest snapshot query", err)
	}

	var (
		s      stats.Settled
		errMsg *string
	)
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&s.Cycle,
		&s.Handles.LeetCode,
		&s.Handles.GitHub,
		&s.Solved,
		&s.Contributions,
		&errMsg,
		&s.SettledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("stats snapshot", h.FetchKey())
		}
		return nil, apperror.NewInternal("failed to scan stats snapshot", err)
	}
	if errMsg != nil {
		s.Error = *errMsg
	}
	return &s, nil
}
