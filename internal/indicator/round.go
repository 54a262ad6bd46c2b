package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// Round2 rounds to two decimals the way numpy does: scale, round half to even, unscale.
func Round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}

// option converts a NaN-marked value into an optional, rounding defined values.
func option(x float64) optional.Option[float64] {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return optional.None[float64]()
	}

	return optional.Some(Round2(x))
}

// nanSeries returns a series of length n filled with NaN.
func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

// toInt extracts an int period from a Config parameter, accepting float64 from decoded JSON/YAML.
func toInt(param any) (int, bool) {
	switch p := param.(type) {
	case int:
		return p, true
	case float64:
		return int(p), true
	default:
		return 0, false
	}
}
