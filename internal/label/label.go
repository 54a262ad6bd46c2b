// Package label assigns Buy/Sell/Hold classes from forward returns.
package label

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// epsilon absorbs floating point noise so a return sitting on the threshold stays Hold.
const epsilon = 1e-9

// Config controls how forward returns map to classes.
type Config struct {
	// LookforwardDays is how many rows ahead the outcome is measured.
	LookforwardDays int `yaml:"lookforward_days" json:"lookforward_days" jsonschema:"title=Lookforward Days,description=Rows ahead used for the forward return,minimum=1,default=5" validate:"required,min=1"`
	// Threshold is the absolute forward return separating Buy/Sell from Hold.
	Threshold float64 `yaml:"threshold" json:"threshold" jsonschema:"title=Threshold,description=Forward return separating Buy and Sell from Hold,exclusiveMinimum=0,default=0.02" validate:"gt=0,lt=1"`
	// Legacy labels rows without an observable outcome as Hold instead of Unknown.
	Legacy bool `yaml:"legacy" json:"legacy" jsonschema:"title=Legacy,description=Label trailing rows Hold instead of Unknown"`
}

// DefaultConfig returns a five day lookforward with a 2% threshold.
func DefaultConfig() Config {
	return Config{
		LookforwardDays: 5,
		Threshold:       0.02,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidThreshold, "invalid label config", err)
	}

	return nil
}

// ForwardReturn returns close[t+n]/close[t]-1 and whether it is observable.
func ForwardReturn(rows []types.IndicatorRow, t, n int) (float64, bool) {
	if t < 0 || t+n >= len(rows) || rows[t].Close == 0 {
		return 0, false
	}

	return rows[t+n].Close/rows[t].Close - 1, true
}

// Classify maps one forward return to a class.
func Classify(futureReturn, threshold float64) types.Label {
	switch {
	case futureReturn > threshold+epsilon:
		return types.LabelBuy
	case futureReturn < -threshold-epsilon:
		return types.LabelSell
	default:
		return types.LabelHold
	}
}

// Generate returns one label per row. Rows whose outcome lies beyond the
// end of the sequence are Unknown, or Hold in legacy mode.
func Generate(rows []types.IndicatorRow, cfg Config) ([]types.Label, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	unknown := types.LabelUnknown
	if cfg.Legacy {
		unknown = types.LabelHold
	}

	labels := make([]types.Label, len(rows))

	for t := range rows {
		ret, ok := ForwardReturn(rows, t, cfg.LookforwardDays)
		if !ok {
			labels[t] = unknown

			continue
		}

		labels[t] = Classify(ret, cfg.Threshold)
	}

	return labels, nil
}

// Counts tallies labels per class.
func Counts(labels []types.Label) map[types.Label]int {
	counts := make(map[types.Label]int, 4)
	for _, l := range labels {
		counts[l]++
	}

	return counts
}
