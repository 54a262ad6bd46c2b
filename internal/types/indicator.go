package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type IndicatorType string

const (
	IndicatorTypeMA        IndicatorType = "ma"
	IndicatorTypeEMA       IndicatorType = "ema"
	IndicatorTypeMACD      IndicatorType = "macd"
	IndicatorTypeRSI       IndicatorType = "rsi"
	IndicatorTypeFibonacci IndicatorType = "fibonacci"
)

// IndicatorRow holds the derived indicator values for one PriceBar.
// Rows are aligned 1:1 with the bars they were computed from and each
// value is None while the indicator is warming up.
type IndicatorRow struct {
	Symbol string
	Time   time.Time
	Close  float64

	MA5   optional.Option[float64]
	MA20  optional.Option[float64]
	MA50  optional.Option[float64]
	MA200 optional.Option[float64]

	EMA12 optional.Option[float64]
	EMA26 optional.Option[float64]

	MACD       optional.Option[float64]
	SignalLine optional.Option[float64]

	RSI optional.Option[float64]

	Fib0   optional.Option[float64]
	Fib236 optional.Option[float64]
	Fib382 optional.Option[float64]
	Fib500 optional.Option[float64]
	Fib618 optional.Option[float64]
	Fib100 optional.Option[float64]
}

// NewIndicatorRow creates a row for the bar with every indicator unset.
func NewIndicatorRow(bar PriceBar) IndicatorRow {
	return IndicatorRow{
		Symbol:     bar.Symbol,
		Time:       bar.Time,
		Close:      bar.Close,
		MA5:        optional.None[float64](),
		MA20:       optional.None[float64](),
		MA50:       optional.None[float64](),
		MA200:      optional.None[float64](),
		EMA12:      optional.None[float64](),
		EMA26:      optional.None[float64](),
		MACD:       optional.None[float64](),
		SignalLine: optional.None[float64](),
		RSI:        optional.None[float64](),
		Fib0:       optional.None[float64](),
		Fib236:     optional.None[float64](),
		Fib382:     optional.None[float64](),
		Fib500:     optional.None[float64](),
		Fib618:     optional.None[float64](),
		Fib100:     optional.None[float64](),
	}
}
