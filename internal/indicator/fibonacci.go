package indicator

import (
	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// Retracement ratios measured down from the rolling high.
const (
	Fib236 = 0.236
	Fib382 = 0.382
	Fib500 = 0.5
	Fib618 = 0.618
)

// Fibonacci computes retracement levels between the rolling high and low of the close.
type Fibonacci struct {
	window int
	// extraWarmup also blanks the first row where the rolling window is full.
	extraWarmup bool
}

// NewFibonacci creates a Fibonacci retracement indicator over a 60 day window.
func NewFibonacci() Indicator {
	return &Fibonacci{
		window:      60,
		extraWarmup: false,
	}
}

// Name returns the name of the indicator.
func (f *Fibonacci) Name() types.IndicatorType {
	return types.IndicatorTypeFibonacci
}

// Config configures the indicator. Expected parameters: window (int), optional extraWarmup (bool).
func (f *Fibonacci) Config(params ...any) error {
	if len(params) < 1 || len(params) > 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 or 2 parameters: window (int), extraWarmup (bool)")
	}

	window, ok := toInt(params[0])
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for window parameter, expected int")
	}

	if window < 2 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "window must be at least 2, got %d", window)
	}

	f.window = window

	if len(params) == 2 {
		extra, ok := params[1].(bool)
		if !ok {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for extraWarmup parameter, expected bool")
		}

		f.extraWarmup = extra
	}

	return nil
}

// Compute writes Fib_0 (rolling low), Fib_100 (rolling high) and the
// intermediate levels high - p*(high-low).
func (f *Fibonacci) Compute(frame *Frame) error {
	n := frame.Len()
	if n < f.window {
		return nil
	}

	high := talib.Max(frame.Closes, f.window)
	low := talib.Min(frame.Closes, f.window)

	start := f.window - 1
	if f.extraWarmup {
		start++
	}

	for i := start; i < n; i++ {
		hi, lo := high[i], low[i]
		span := hi - lo

		row := &frame.Rows[i]
		row.Fib0 = option(lo)
		row.Fib236 = option(hi - Fib236*span)
		row.Fib382 = option(hi - Fib382*span)
		row.Fib500 = option(hi - Fib500*span)
		row.Fib618 = option(hi - Fib618*span)
		row.Fib100 = option(hi)
	}

	return nil
}
