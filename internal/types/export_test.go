package types

import "github.com/moznion/go-optional"

func (r IndicatorRow) values() []optional.Option[float64] {
	return []optional.Option[float64]{
		r.MA5, r.MA20, r.MA50, r.MA200,
		r.EMA12, r.EMA26, r.MACD, r.SignalLine, r.RSI,
		r.Fib0, r.Fib236, r.Fib382, r.Fib500, r.Fib618, r.Fib100,
	}
}
