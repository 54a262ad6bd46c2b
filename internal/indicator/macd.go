package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// DefaultSignalWarmup is the number of leading defined-MACD rows whose signal line is suppressed.
const DefaultSignalWarmup = 9

// MACD represents the Moving Average Convergence Divergence indicator and its signal line.
// It reads EMA12 and EMA26 from the frame, so it must run after the EMA indicator.
type MACD struct {
	signalPeriod int
	signalWarmup int
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACD{
		signalPeriod: 9, // Default signal period
		signalWarmup: DefaultSignalWarmup,
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator. Expected parameters: signalPeriod (int), optional signalWarmup (int).
func (m *MACD) Config(params ...any) error {
	if len(params) < 1 || len(params) > 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 or 2 parameters: signalPeriod (int), signalWarmup (int)")
	}

	signalPeriod, ok := toInt(params[0])
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for signalPeriod parameter, expected int")
	}

	if signalPeriod <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "signalPeriod must be a positive integer, got %d", signalPeriod)
	}

	signalWarmup := m.signalWarmup

	if len(params) == 2 {
		signalWarmup, ok = toInt(params[1])
		if !ok {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for signalWarmup parameter, expected int")
		}

		if signalWarmup < 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "signalWarmup must not be negative, got %d", signalWarmup)
		}
	}

	m.signalPeriod = signalPeriod
	m.signalWarmup = signalWarmup

	return nil
}

// Compute writes MACD = EMA12 - EMA26 where both are defined, and the
// signal line as the adjusted EMA of the defined MACD values.
func (m *MACD) Compute(frame *Frame) error {
	macd := nanSeries(frame.Len())

	for i, row := range frame.Rows {
		if row.EMA12.IsNone() || row.EMA26.IsNone() {
			continue
		}

		macd[i] = Round2(row.EMA12.Unwrap() - row.EMA26.Unwrap())
	}

	signal := adjustedEMA(macd, m.signalPeriod)

	suppressed := 0
	for i := range signal {
		if suppressed >= m.signalWarmup {
			break
		}

		signal[i] = math.NaN()

		if !math.IsNaN(macd[i]) {
			suppressed++
		}
	}

	for i := range frame.Rows {
		frame.Rows[i].MACD = option(macd[i])
		frame.Rows[i].SignalLine = option(signal[i])
	}

	return nil
}
