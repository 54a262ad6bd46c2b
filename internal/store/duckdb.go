package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"go.uber.org/zap"
)

// NewDuckDBStore opens (or creates) a DuckDB database file. Use ":memory:" for an in-process database.
func NewDuckDBStore(ctx context.Context, path string, log *logger.Logger) (*SQLStore, error) {
	dsn := path
	if path == ":memory:" {
		dsn = ""
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to create database directory", err)
		}
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	s, err := newSQLStore(ctx, db, duckdbDialect, log)
	if err != nil {
		db.Close()

		return nil, err
	}

	log.Debug("Opened DuckDB store", zap.String("path", path))

	return s, nil
}
