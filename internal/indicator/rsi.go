package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// RSI represents the Relative Strength Index indicator using simple rolling
// means of gains and losses (not Wilder smoothing).
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := toInt(params[0])
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	r.period = period

	return nil
}

// Compute writes RSI for every row from index period onward.
func (r *RSI) Compute(frame *Frame) error {
	values := relativeStrength(frame.Closes, r.period)

	for i := range frame.Rows {
		frame.Rows[i].RSI = option(values[i])
	}

	return nil
}

// relativeStrength returns the RSI series, NaN where undefined.
// Row t averages the gains and losses of the period price changes ending at t,
// so the first defined row is t = period.
// With no losses the RSI is 100; with neither gains nor losses it is undefined.
func relativeStrength(closes []float64, period int) []float64 {
	out := nanSeries(len(closes))
	if len(closes) <= period {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))

	for t := 1; t < len(closes); t++ {
		delta := closes[t] - closes[t-1]
		gains[t] = math.Max(delta, 0)
		losses[t] = math.Max(-delta, 0)
	}

	for t := period; t < len(closes); t++ {
		var sumGain, sumLoss float64
		for i := t - period + 1; i <= t; i++ {
			sumGain += gains[i]
			sumLoss += losses[i]
		}

		avgGain := sumGain / float64(period)
		avgLoss := sumLoss / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			continue
		case avgLoss == 0:
			out[t] = 100
		default:
			rs := avgGain / avgLoss
			out[t] = 100 - 100/(1+rs)
		}
	}

	return out
}
