// Package feature turns indicator rows into the fixed-width vectors the classifier is trained on.
package feature

import (
	"math"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-screener/internal/types"
)

// Width is the number of features in a vector.
const Width = 14

// VolatilityWindow is the trailing window of the volatility_20d feature.
const VolatilityWindow = 20

// Names lists the features in vector order. The classifier is position
// sensitive, so this order must never change between training and serving.
var Names = [Width]string{
	"price_change",
	"volume_change",
	"ma5_ratio",
	"ma20_ratio",
	"ma50_ratio",
	"ma200_ratio",
	"macd",
	"signal_line",
	"macd_histogram",
	"rsi_norm",
	"fib_position",
	"fib618_ratio",
	"fib382_ratio",
	"volatility_20d",
}

// Vector is one feature row in Names order.
type Vector [Width]float64

// Finite reports whether every feature is a finite number.
func (v Vector) Finite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}

// Sample is an eligible feature vector and the indicator row it came from.
type Sample struct {
	// Index is the position of the source row in the indicator sequence.
	Index  int
	Time   time.Time
	Vector Vector
}

// Series returns one vector per indicator row, None where any feature is
// undefined or not finite. Volume is joined from bars by timestamp.
func Series(rows []types.IndicatorRow, bars []types.PriceBar) []optional.Option[Vector] {
	out := make([]optional.Option[Vector], len(rows))
	if len(rows) == 0 {
		return out
	}

	volumes := make(map[int64]int64, len(bars))
	for _, bar := range bars {
		volumes[bar.Time.UnixNano()] = bar.Volume
	}

	closes := make([]float64, len(rows))
	for i, row := range rows {
		closes[i] = row.Close
	}

	volatility := rollingSampleStdDev(closes, VolatilityWindow)

	for i, row := range rows {
		v := Vector{}

		if i == 0 {
			v[0] = math.NaN()
			v[1] = math.NaN()
		} else {
			v[0] = pctChange(rows[i-1].Close, row.Close)
			v[1] = volumeChange(volumes, rows[i-1].Time, row.Time)
		}

		v[2] = ratio(row.MA5, row.Close)
		v[3] = ratio(row.MA20, row.Close)
		v[4] = ratio(row.MA50, row.Close)
		v[5] = ratio(row.MA200, row.Close)
		v[6] = value(row.MACD)
		v[7] = value(row.SignalLine)
		v[8] = v[6] - v[7]
		v[9] = value(row.RSI) / 100
		v[10] = (row.Close - value(row.Fib0)) / (value(row.Fib100) - value(row.Fib0))
		v[11] = row.Close/value(row.Fib618) - 1
		v[12] = row.Close/value(row.Fib382) - 1
		v[13] = volatility[i] / row.Close

		if v.Finite() {
			out[i] = optional.Some(v)
		} else {
			out[i] = optional.None[Vector]()
		}
	}

	return out
}

// Build returns the eligible samples of the sequence in row order.
func Build(rows []types.IndicatorRow, bars []types.PriceBar) []Sample {
	series := Series(rows, bars)
	samples := make([]Sample, 0, len(series))

	for i, v := range series {
		if v.IsNone() {
			continue
		}

		samples = append(samples, Sample{Index: i, Time: rows[i].Time, Vector: v.Unwrap()})
	}

	return samples
}

// Latest returns the sample for the last row of the sequence, or None when
// that row is not eligible. Earlier rows are never substituted.
func Latest(rows []types.IndicatorRow, bars []types.PriceBar) optional.Option[Sample] {
	if len(rows) == 0 {
		return optional.None[Sample]()
	}

	series := Series(rows, bars)
	last := len(series) - 1

	if series[last].IsNone() {
		return optional.None[Sample]()
	}

	return optional.Some(Sample{Index: last, Time: rows[last].Time, Vector: series[last].Unwrap()})
}

func value(o optional.Option[float64]) float64 {
	return o.TakeOr(math.NaN())
}

// ratio is indicator/close - 1.
func ratio(o optional.Option[float64], close float64) float64 {
	return value(o)/close - 1
}

func pctChange(prev, cur float64) float64 {
	return cur/prev - 1
}

func volumeChange(volumes map[int64]int64, prevTime, curTime time.Time) float64 {
	prev, ok := volumes[prevTime.UnixNano()]
	if !ok {
		return math.NaN()
	}

	cur, ok := volumes[curTime.UnixNano()]
	if !ok {
		return math.NaN()
	}

	return pctChange(float64(prev), float64(cur))
}

// rollingSampleStdDev is the trailing standard deviation with one degree of
// freedom removed, NaN for the first window-1 rows.
func rollingSampleStdDev(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}

	if window < 2 || len(values) < window {
		return out
	}

	population := talib.StdDev(values, window, 1.0)
	correction := math.Sqrt(float64(window) / float64(window-1))

	for i := window - 1; i < len(values); i++ {
		out[i] = population[i] * correction
	}

	return out
}
