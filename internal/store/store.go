// Package store persists instruments, price bars and indicator rows.
//
// Two SQL backends share one implementation: an embedded DuckDB file (the
// default) and PostgreSQL through a pgx connection pool.
package store

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// Store is the storage boundary used by the pipeline, classifier and API.
type Store interface {
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// ListInstruments returns every instrument ordered by ticker.
	ListInstruments(ctx context.Context) ([]types.Instrument, error)
	// UpsertInstrument inserts or renames an instrument.
	UpsertInstrument(ctx context.Context, instrument types.Instrument) error
	// LoadBars returns the full bar history of ticker ascending by time.
	LoadBars(ctx context.Context, ticker string) ([]types.PriceBar, error)
	// LoadRecentBars returns the latest limit bars ascending by time.
	LoadRecentBars(ctx context.Context, ticker string, limit int) ([]types.PriceBar, error)
	// WriteBars upserts bars keyed by ticker and time.
	WriteBars(ctx context.Context, bars []types.PriceBar) error
	// ReplaceIndicators atomically replaces every indicator row of ticker.
	ReplaceIndicators(ctx context.Context, ticker string, rows []types.IndicatorRow) error
	// LoadIndicators returns rows ascending by time. A limit of zero loads the full history,
	// otherwise only the latest limit rows.
	LoadIndicators(ctx context.Context, ticker string, limit int) ([]types.IndicatorRow, error)
	// LatestIndicator returns the newest indicator row of ticker, if any.
	LatestIndicator(ctx context.Context, ticker string) (optional.Option[types.IndicatorRow], error)
	Close() error
}

// Driver names a storage backend.
type Driver string

const (
	DriverDuckDB   Driver = "duckdb"
	DriverPostgres Driver = "postgres"
)

// Config selects and locates the storage backend.
type Config struct {
	// Driver is duckdb or postgres.
	Driver Driver `yaml:"driver" json:"driver" jsonschema:"title=Driver,description=Storage backend,enum=duckdb,enum=postgres,default=duckdb" validate:"required,oneof=duckdb postgres"`
	// DSN is the DuckDB file path (":memory:" for tests) or the PostgreSQL connection URL.
	DSN string `yaml:"dsn" json:"dsn" jsonschema:"title=DSN,description=DuckDB file path or PostgreSQL URL" validate:"required"`
}

// DefaultConfig stores everything in a local DuckDB file.
func DefaultConfig() Config {
	return Config{
		Driver: DriverDuckDB,
		DSN:    "data/screener.duckdb",
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid store config", err)
	}

	return nil
}

// Open connects to the configured backend and creates the schema.
func Open(ctx context.Context, config Config, log *logger.Logger) (Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Driver {
	case DriverDuckDB:
		return NewDuckDBStore(ctx, config.DSN, log)
	case DriverPostgres:
		return NewPostgresStore(ctx, config.DSN, log)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported store driver %q", config.Driver)
	}
}
