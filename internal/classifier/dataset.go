package classifier

import (
	"context"

	"github.com/rxtech-lab/argo-screener/internal/feature"
	"github.com/rxtech-lab/argo-screener/internal/label"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"go.uber.org/zap"
)

// Source loads the per-instrument history the classifier trains and predicts on.
type Source interface {
	LoadBars(ctx context.Context, ticker string) ([]types.PriceBar, error)
	// LoadIndicators returns rows ascending by time. A limit of zero loads the full history.
	LoadIndicators(ctx context.Context, ticker string, limit int) ([]types.IndicatorRow, error)
}

// DatasetConfig controls which instruments and rows enter training.
type DatasetConfig struct {
	// PerTickerMinRows skips instruments with fewer indicator rows.
	PerTickerMinRows int `yaml:"per_ticker_min_rows" json:"per_ticker_min_rows" jsonschema:"title=Per Ticker Min Rows,minimum=1,default=100" validate:"min=1"`
	// MinEligibleRows keeps an instrument only with more eligible rows than this.
	MinEligibleRows int `yaml:"min_eligible_rows" json:"min_eligible_rows" jsonschema:"title=Min Eligible Rows,minimum=0,default=50" validate:"min=0"`
	// MaxTickers caps how many instruments are used for training. Zero means all.
	MaxTickers int `yaml:"max_tickers" json:"max_tickers" jsonschema:"title=Max Tickers,minimum=0,default=10" validate:"min=0"`
}

// DefaultDatasetConfig returns the thresholds 100/50 over at most 10 instruments.
func DefaultDatasetConfig() DatasetConfig {
	return DatasetConfig{
		PerTickerMinRows: 100,
		MinEligibleRows:  50,
		MaxTickers:       10,
	}
}

// Dataset is an aligned feature matrix and label vector.
type Dataset struct {
	X       [][]float64
	Y       []types.Label
	Tickers []string
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Y)
}

// Append adds one sample.
func (d *Dataset) Append(v feature.Vector, l types.Label) {
	row := make([]float64, len(v))
	copy(row, v[:])

	d.X = append(d.X, row)
	d.Y = append(d.Y, l)
}

// TickerSamples returns the trainable samples of one instrument: rows with
// an eligible feature vector and an observable outcome.
func TickerSamples(rows []types.IndicatorRow, bars []types.PriceBar, labelConfig label.Config) ([]feature.Vector, []types.Label, error) {
	labels, err := label.Generate(rows, labelConfig)
	if err != nil {
		return nil, nil, err
	}

	samples := feature.Build(rows, bars)
	vectors := make([]feature.Vector, 0, len(samples))
	kept := make([]types.Label, 0, len(samples))

	for _, s := range samples {
		l := labels[s.Index]
		if !l.IsKnown() {
			continue
		}

		vectors = append(vectors, s.Vector)
		kept = append(kept, l)
	}

	return vectors, kept, nil
}

// BuildDataset assembles training data from the given instruments.
// Instruments that fail to load or fall under the thresholds are skipped
// and logged; the batch continues.
func BuildDataset(ctx context.Context, source Source, tickers []string, config DatasetConfig, labelConfig label.Config, log *logger.Logger) (*Dataset, error) {
	if config.MaxTickers > 0 && len(tickers) > config.MaxTickers {
		tickers = tickers[:config.MaxTickers]
	}

	dataset := &Dataset{}

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := source.LoadIndicators(ctx, ticker, 0)
		if err != nil {
			if errors.IsUpstreamUnavailable(err) {
				return nil, err
			}

			log.Warn("Skipping ticker: failed to load indicators", zap.String("ticker", ticker), zap.Error(err))

			continue
		}

		if len(rows) < config.PerTickerMinRows {
			log.Info("Skipping ticker: not enough indicator rows",
				zap.String("ticker", ticker),
				zap.Int("rows", len(rows)),
				zap.Int("required", config.PerTickerMinRows),
			)

			continue
		}

		bars, err := source.LoadBars(ctx, ticker)
		if err != nil {
			if errors.IsUpstreamUnavailable(err) {
				return nil, err
			}

			log.Warn("Skipping ticker: failed to load bars", zap.String("ticker", ticker), zap.Error(err))

			continue
		}

		vectors, labels, err := TickerSamples(rows, bars, labelConfig)
		if err != nil {
			return nil, err
		}

		if len(vectors) <= config.MinEligibleRows {
			log.Info("Skipping ticker: not enough eligible rows",
				zap.String("ticker", ticker),
				zap.Int("eligible", len(vectors)),
				zap.Int("required", config.MinEligibleRows+1),
			)

			continue
		}

		for i := range vectors {
			dataset.Append(vectors[i], labels[i])
		}

		dataset.Tickers = append(dataset.Tickers, ticker)

		log.Debug("Added ticker to dataset", zap.String("ticker", ticker), zap.Int("samples", len(vectors)))
	}

	if dataset.Len() == 0 {
		return nil, errors.NewInsufficientDataErrorf(config.MinEligibleRows+1, 0, "", "no instrument produced enough eligible rows for training")
	}

	return dataset, nil
}
