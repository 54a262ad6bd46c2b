package indicator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// rowField points at one optional column of an indicator row.
type rowField func(row *types.IndicatorRow) *optional.Option[float64]

var maFields = map[int]rowField{
	5:   func(r *types.IndicatorRow) *optional.Option[float64] { return &r.MA5 },
	20:  func(r *types.IndicatorRow) *optional.Option[float64] { return &r.MA20 },
	50:  func(r *types.IndicatorRow) *optional.Option[float64] { return &r.MA50 },
	200: func(r *types.IndicatorRow) *optional.Option[float64] { return &r.MA200 },
}

// MA indicator implements Simple Moving Average calculation over several windows.
type MA struct {
	periods []int
}

// NewMA creates a new MA indicator with the 5, 20, 50 and 200 day windows.
func NewMA() Indicator {
	return &MA{
		periods: []int{5, 20, 50, 200},
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Config replaces the window list. Expected parameters: one or more periods (int),
// each of which must have a column on the indicator row (5, 20, 50, 200).
func (m *MA) Config(params ...any) error {
	if len(params) == 0 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects at least 1 parameter: period (int)")
	}

	periods := make([]int, 0, len(params))

	for _, param := range params {
		period, ok := toInt(param)
		if !ok {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int or float")
		}

		if _, ok := maFields[period]; !ok {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "unsupported MA period %d, expected one of 5, 20, 50, 200", period)
		}

		periods = append(periods, period)
	}

	m.periods = periods

	return nil
}

// Compute writes the rounded arithmetic mean of the trailing closes.
// Rows before index period-1 stay None.
func (m *MA) Compute(frame *Frame) error {
	for _, period := range m.periods {
		field := maFields[period]

		values := rollingMean(frame.Closes, period)
		for i := range frame.Rows {
			*field(&frame.Rows[i]) = option(values[i])
		}
	}

	return nil
}

// rollingMean returns the trailing mean over period values, NaN during warm-up.
// The window sum matches pandas rolling().mean() bit for bit so that
// half-cent averages round the same way. Entering and leaving values carry
// separate Kahan compensation.
func rollingMean(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var window meanWindow
	for i, value := range values {
		if i >= period {
			window.remove(values[i-period])
		}

		window.add(value)

		if i >= period-1 {
			out[i] = window.mean()
		}
	}

	return out
}

// meanWindow is a running sum over the values currently inside a rolling window.
type meanWindow struct {
	count      int
	sum        float64
	negatives  int
	addComp    float64
	removeComp float64
	// run counts consecutive equal values ending at last.
	run  int
	last float64
}

func (w *meanWindow) add(value float64) {
	w.count++

	y := value - w.addComp
	t := w.sum + y
	w.addComp = t - w.sum - y
	w.sum = t

	if math.Signbit(value) {
		w.negatives++
	}

	if w.run > 0 && value == w.last {
		w.run++
	} else {
		w.run = 1
	}

	w.last = value
}

func (w *meanWindow) remove(value float64) {
	w.count--

	y := -value - w.removeComp
	t := w.sum + y
	w.removeComp = t - w.sum - y
	w.sum = t

	if math.Signbit(value) {
		w.negatives--
	}
}

func (w *meanWindow) mean() float64 {
	if w.count == 0 {
		return math.NaN()
	}

	if w.run >= w.count {
		return w.last
	}

	result := w.sum / float64(w.count)

	switch {
	case w.negatives == 0 && result < 0:
		return 0
	case w.negatives == w.count && result > 0:
		return 0
	}

	return result
}
