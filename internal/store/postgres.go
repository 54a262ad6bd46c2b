package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"go.uber.org/zap"
)

// NewPostgresStore connects to PostgreSQL through a pgx pool.
func NewPostgresStore(ctx context.Context, url string, log *logger.Logger) (*SQLStore, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid postgres url", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to create postgres pool", err)
	}

	db := stdlib.OpenDBFromPool(pool)

	s, err := newSQLStore(ctx, db, postgresDialect, log)
	if err != nil {
		db.Close()
		pool.Close()

		return nil, err
	}

	s.onClose = pool.Close

	log.Debug("Opened Postgres store",
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.String("database", poolConfig.ConnConfig.Database),
	)

	return s, nil
}
