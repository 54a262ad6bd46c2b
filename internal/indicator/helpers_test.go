package indicator

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-screener/internal/types"
)

var testStart = time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC)

// barsFromCloses builds daily bars for the closes starting at testStart.
func barsFromCloses(symbol string, closes []float64) []types.PriceBar {
	bars := make([]types.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = types.PriceBar{
			Symbol: symbol,
			Time:   testStart.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
			OTC:    optional.None[bool](),
		}
	}

	return bars
}

// frameFromCloses builds a frame for direct indicator tests.
func frameFromCloses(closes []float64) *Frame {
	return NewFrame("TEST", barsFromCloses("TEST", closes))
}

// linear returns n closes start, start+step, ...
func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}

	return out
}

// wave returns n closes oscillating around base, used where gains and losses are both needed.
func wave(n int, base float64) []float64 {
	pattern := []float64{0, 1.5, -0.75, 2.25, -1.25, 0.5, -2, 1}
	out := make([]float64, n)
	level := base

	for i := range out {
		level += pattern[i%len(pattern)] + 0.1
		out[i] = level
	}

	return out
}
