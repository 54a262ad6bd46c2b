package indicator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

var emaFields = map[int]rowField{
	12: func(r *types.IndicatorRow) *optional.Option[float64] { return &r.EMA12 },
	26: func(r *types.IndicatorRow) *optional.Option[float64] { return &r.EMA26 },
}

// EMA indicator implements the adjusted Exponential Moving Average.
//
// Each value is the weighted mean of every close seen so far with weights
// (1-alpha)^(t-i), normalised by the sum of the weights, alpha = 2/(span+1).
// The first span-1 rows are then suppressed.
type EMA struct {
	spans []int
}

// NewEMA creates a new EMA indicator with the 12 and 26 day spans.
func NewEMA() Indicator {
	return &EMA{
		spans: []int{12, 26},
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: one or more spans (int), 12 or 26.
func (e *EMA) Config(params ...any) error {
	if len(params) == 0 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects at least 1 parameter: span (int)")
	}

	spans := make([]int, 0, len(params))

	for _, param := range params {
		span, ok := toInt(param)
		if !ok {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for span parameter, expected int")
		}

		if _, ok := emaFields[span]; !ok {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "unsupported EMA span %d, expected 12 or 26", span)
		}

		spans = append(spans, span)
	}

	e.spans = spans

	return nil
}

// Compute writes the rounded EMA for every span.
func (e *EMA) Compute(frame *Frame) error {
	for _, span := range e.spans {
		field := emaFields[span]

		values := adjustedEMA(frame.Closes, span)
		suppressLeading(values, span-1)

		for i := range frame.Rows {
			*field(&frame.Rows[i]) = option(values[i])
		}
	}

	return nil
}

// adjustedEMA computes the growing-normalisation EMA over values.
// NaN inputs are missing observations: leading NaNs are skipped, later ones
// still decay the weight of the history, and the output is NaN until the
// first observation.
//
// The running form below is algebraically equal to
// sum((1-a)^(t-i) * x_i) / sum((1-a)^(t-i)) and keeps the same operation order
// as pandas' ewm(adjust=True).mean().
func adjustedEMA(values []float64, span int) []float64 {
	out := nanSeries(len(values))
	if len(values) == 0 || span < 1 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)
	decay := 1.0 - alpha

	weighted := values[0]
	weight := 1.0
	out[0] = weighted

	for i := 1; i < len(values); i++ {
		cur := values[i]
		observed := !math.IsNaN(cur)

		if !math.IsNaN(weighted) {
			weight *= decay

			if observed {
				// a constant series must stay exactly constant
				if weighted != cur {
					weighted = (weight*weighted + cur) / (weight + 1.0)
				}

				weight += 1.0
			}
		} else if observed {
			weighted = cur
		}

		out[i] = weighted
	}

	return out
}

// suppressLeading blanks the first n values of the series.
func suppressLeading(values []float64, n int) {
	for i := 0; i < n && i < len(values); i++ {
		values[i] = math.NaN()
	}
}
