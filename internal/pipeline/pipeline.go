// Package pipeline recomputes the indicator tables of many instruments in parallel.
package pipeline

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-screener/internal/indicator"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/metrics"
	"github.com/rxtech-lab/argo-screener/internal/store"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config controls the batch run.
type Config struct {
	// Workers is the number of instruments processed concurrently.
	Workers int `yaml:"workers" json:"workers" jsonschema:"title=Workers,description=Instruments processed concurrently,minimum=1,default=4" validate:"min=1"`
}

// DefaultConfig processes four instruments at a time.
func DefaultConfig() Config {
	return Config{Workers: 4}
}

// Validate checks the config.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid pipeline config", err)
	}

	return nil
}

// Report summarizes a batch run.
type Report struct {
	Processed []string
	Failed    map[string]error
	Rows      int
	Duration  time.Duration
}

func newReport() *Report {
	return &Report{Failed: make(map[string]error)}
}

// Runner loads bars, computes indicators and replaces the stored table of each instrument.
type Runner struct {
	store   store.Store
	engine  *indicator.Engine
	metrics *metrics.Metrics
	logger  *logger.Logger
	config  Config
}

// NewRunner creates a runner.
func NewRunner(s store.Store, engine *indicator.Engine, m *metrics.Metrics, log *logger.Logger, config Config) *Runner {
	return &Runner{
		store:   s,
		engine:  engine,
		metrics: m,
		logger:  log,
		config:  config,
	}
}

// Run processes tickers, or every listed instrument when tickers is empty.
// A failing instrument is logged and recorded in the report; it never aborts
// the batch. Only an unreachable store or a cancelled context fail the run.
func (r *Runner) Run(ctx context.Context, tickers []string) (*Report, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	if len(tickers) == 0 {
		instruments, err := r.store.ListInstruments(ctx)
		if err != nil {
			return nil, err
		}

		for _, instrument := range instruments {
			tickers = append(tickers, instrument.Ticker)
		}
	}

	report := newReport()

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)

	for _, ticker := range tickers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rows, err := r.ProcessTicker(gctx, ticker)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				report.Failed[ticker] = err

				return nil
			}

			report.Processed = append(report.Processed, ticker)
			report.Rows += rows

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.Sort(report.Processed)
	report.Duration = time.Since(start)

	r.metrics.LastRunTimestamp.SetToCurrentTime()

	r.logger.Info("Indicator batch finished",
		zap.Int("processed", len(report.Processed)),
		zap.Int("failed", len(report.Failed)),
		zap.Int("rows", report.Rows),
		zap.Duration("duration", report.Duration),
	)

	return report, nil
}

// ProcessTicker recomputes one instrument and returns the number of rows written.
func (r *Runner) ProcessTicker(ctx context.Context, ticker string) (int, error) {
	start := time.Now()
	log := r.logger.WithTicker(ticker)

	bars, err := r.store.LoadBars(ctx, ticker)
	if err != nil {
		return 0, r.fail(log, err)
	}

	rows, err := r.engine.Compute(ticker, bars)
	if err != nil {
		return 0, r.fail(log, err)
	}

	if err := r.store.ReplaceIndicators(ctx, ticker, rows); err != nil {
		return 0, r.fail(log, err)
	}

	r.metrics.InstrumentsProcessed.Inc()
	r.metrics.IndicatorRowsWritten.Add(float64(len(rows)))
	r.metrics.ComputeDuration.Observe(time.Since(start).Seconds())

	log.Debug("Replaced indicator table", zap.Int("rows", len(rows)))

	return len(rows), nil
}

func (r *Runner) fail(log *logger.Logger, err error) error {
	reason := failureReason(err)
	r.metrics.InstrumentsFailed.WithLabelValues(reason).Inc()

	log.Warn("Skipping instrument", zap.String("reason", reason), zap.Error(err))

	return err
}

func failureReason(err error) string {
	switch {
	case errors.IsInsufficientDataError(err):
		return "insufficient_data"
	case errors.IsMalformedData(err):
		return "malformed_data"
	case errors.IsUpstreamUnavailable(err):
		return "upstream_unavailable"
	case errors.HasCode(err, errors.ErrCodeWriteFailed):
		return "write_failed"
	default:
		return "other"
	}
}
