// Package marketdata downloads daily aggregates from Polygon.io into the store.
package marketdata

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/metrics"
	"github.com/rxtech-lab/argo-screener/internal/store"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata/writer"
)

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Ticker     string          `validate:"required"`
	StartDate  time.Time       `validate:"required"`
	EndDate    time.Time       `validate:"required,gtfield=StartDate"`
	Multiplier int             `validate:"required,min=1"`
	Timespan   models.Timespan `validate:"required"`
}

// FetchReport summarizes a multi-ticker fetch.
type FetchReport struct {
	// Fetched maps each successful ticker to the number of bars written.
	Fetched map[string]int
	Failed  map[string]error
}

// Client downloads bars from a provider and stores them.
type Client struct {
	provider provider.Provider
	store    store.Store
	metrics  *metrics.Metrics
	log      *logger.Logger
	config   Config
	validate *validator.Validate
	output   io.Writer
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client backed by the Polygon REST API.
func NewClient(config Config, s store.Store, m *metrics.Metrics, log *logger.Logger) (*Client, error) {
	polygonClient, err := provider.NewPolygonClient(config.ApiKey, log)
	if err != nil {
		return nil, err
	}

	return NewClientWithProvider(polygonClient, config, s, m, log)
}

// NewClientWithProvider creates a client on top of any provider.
func NewClientWithProvider(p provider.Provider, config Config, s store.Store, m *metrics.Metrics, log *logger.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	if m == nil {
		m = metrics.NewMetrics()
	}

	return &Client{
		provider: p,
		store:    s,
		metrics:  m,
		log:      log,
		config:   config,
		validate: validator.New(),
		output:   os.Stderr,
		sleep:    sleepContext,
	}, nil
}

// Download fetches one ticker and writes its bars, returning how many were stored.
// The context can be used to cancel the download operation.
func (c *Client) Download(ctx context.Context, params DownloadParams) (int, error) {
	if err := c.validate.Struct(params); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	w := writer.NewStoreWriter(c.store, c.config.BatchSize)

	fetched, err := c.provider.Download(ctx, params.Ticker, params.StartDate, params.EndDate, params.Multiplier, params.Timespan, w, nil)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}

		if errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed) {
			return 0, err
		}

		return 0, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "download failed for %s", params.Ticker)
	}

	written, err := w.Flush(ctx)
	if err != nil {
		return written, err
	}

	c.metrics.BarsFetched.WithLabelValues(params.Ticker).Add(float64(fetched))

	return written, nil
}

// FetchAll downloads every ticker in turn, pausing RateLimit between requests.
// With no tickers it fetches every listed instrument; explicit tickers are
// registered as instruments first. A failing ticker is recorded and skipped.
func (c *Client) FetchAll(ctx context.Context, tickers []string, now time.Time) (*FetchReport, error) {
	tickers, err := c.resolveTickers(ctx, tickers)
	if err != nil {
		return nil, err
	}

	report := &FetchReport{
		Fetched: make(map[string]int, len(tickers)),
		Failed:  make(map[string]error),
	}

	bar := c.newProgressBar(len(tickers))
	defer bar.Finish() //nolint:errcheck

	for i, ticker := range tickers {
		if i > 0 && c.config.RateLimit > 0 {
			if err := c.sleep(ctx, c.config.RateLimit); err != nil {
				return report, err
			}
		}

		log := c.log.WithTicker(ticker)
		bar.Describe("Downloading " + ticker)

		params, err := c.config.ToDownloadParams(ticker, now)
		if err != nil {
			return report, err
		}

		written, err := c.Download(ctx, params)
		_ = bar.Add(1)

		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}

			log.Warn("Failed to fetch bars", zap.Error(err))
			report.Failed[ticker] = err

			continue
		}

		if written == 0 {
			log.Info("No data returned")
		} else {
			log.Info("Fetched bars", zap.Int("bars", written))
		}

		report.Fetched[ticker] = written
	}

	return report, nil
}

func (c *Client) resolveTickers(ctx context.Context, tickers []string) ([]string, error) {
	instruments, err := c.store.ListInstruments(ctx)
	if err != nil {
		return nil, err
	}

	if len(tickers) == 0 {
		resolved := make([]string, 0, len(instruments))
		for _, instrument := range instruments {
			resolved = append(resolved, instrument.Ticker)
		}

		return resolved, nil
	}

	known := make(map[string]bool, len(instruments))
	for _, instrument := range instruments {
		known[instrument.Ticker] = true
	}

	resolved := make([]string, 0, len(tickers))

	for _, ticker := range tickers {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if ticker == "" {
			continue
		}

		if !known[ticker] {
			if err := c.store.UpsertInstrument(ctx, types.Instrument{Ticker: ticker, Name: ticker}); err != nil {
				return nil, err
			}

			known[ticker] = true
		}

		resolved = append(resolved, ticker)
	}

	return resolved, nil
}

func (c *Client) newProgressBar(total int) *progressbar.ProgressBar {
	output := c.output
	if !c.config.ShowProgress {
		output = io.Discard
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionShowCount(),
	)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
