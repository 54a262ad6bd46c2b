package feature

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-screener/internal/indicator"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/stretchr/testify/suite"
)

type FeatureTestSuite struct {
	suite.Suite
}

func TestFeatureSuite(t *testing.T) {
	suite.Run(t, new(FeatureTestSuite))
}

var start = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// fixture builds bars and fully populated rows for the closes.
// Every indicator is fixed so the expected features are easy to derive.
func fixture(closes []float64) ([]types.IndicatorRow, []types.PriceBar) {
	bars := make([]types.PriceBar, len(closes))
	rows := make([]types.IndicatorRow, len(closes))

	for i, c := range closes {
		bars[i] = types.PriceBar{
			Symbol: "TEST",
			Time:   start.AddDate(0, 0, i),
			Close:  c,
			Volume: int64(1000 + 100*i),
		}

		row := types.NewIndicatorRow(bars[i])
		row.MA5 = optional.Some(c * 1.1)
		row.MA20 = optional.Some(c * 1.2)
		row.MA50 = optional.Some(c * 0.9)
		row.MA200 = optional.Some(c * 0.8)
		row.MACD = optional.Some(1.5)
		row.SignalLine = optional.Some(0.5)
		row.RSI = optional.Some(60.0)
		row.Fib0 = optional.Some(50.0)
		row.Fib236 = optional.Some(138.2)
		row.Fib382 = optional.Some(123.6)
		row.Fib500 = optional.Some(100.0)
		row.Fib618 = optional.Some(88.2)
		row.Fib100 = optional.Some(150.0)
		rows[i] = row
	}

	return rows, bars
}

func closesFrom(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i%7) - float64(i%3)*0.5
	}

	return out
}

func (suite *FeatureTestSuite) TestNamesOrder() {
	suite.Len(Names, 14)
	suite.Equal("price_change", Names[0])
	suite.Equal("volume_change", Names[1])
	suite.Equal("macd_histogram", Names[8])
	suite.Equal("volatility_20d", Names[13])
}

func (suite *FeatureTestSuite) TestVectorValues() {
	closes := closesFrom(25)
	rows, bars := fixture(closes)

	series := Series(rows, bars)
	suite.Require().Len(series, len(rows))

	i := 22
	suite.Require().True(series[i].IsSome())
	v := series[i].Unwrap()
	c := closes[i]

	suite.InDelta(c/closes[i-1]-1, v[0], 1e-12)
	suite.InDelta(float64(1000+100*i)/float64(1000+100*(i-1))-1, v[1], 1e-12)
	suite.InDelta(0.1, v[2], 1e-12)
	suite.InDelta(0.2, v[3], 1e-12)
	suite.InDelta(-0.1, v[4], 1e-12)
	suite.InDelta(-0.2, v[5], 1e-12)
	suite.Equal(1.5, v[6])
	suite.Equal(0.5, v[7])
	suite.Equal(1.0, v[8])
	suite.InDelta(0.6, v[9], 1e-12)
	suite.InDelta((c-50)/100, v[10], 1e-12)
	suite.InDelta(c/88.2-1, v[11], 1e-12)
	suite.InDelta(c/123.6-1, v[12], 1e-12)

	window := closes[i-19 : i+1]
	mean := 0.0
	for _, x := range window {
		mean += x
	}
	mean /= float64(len(window))

	ss := 0.0
	for _, x := range window {
		ss += (x - mean) * (x - mean)
	}

	suite.InDelta(math.Sqrt(ss/19)/c, v[13], 1e-9)
}

func (suite *FeatureTestSuite) TestVolatilityWarmup() {
	rows, bars := fixture(closesFrom(25))
	series := Series(rows, bars)

	for i := 0; i < 19; i++ {
		suite.True(series[i].IsNone(), "index %d", i)
	}

	suite.True(series[19].IsSome())
}

func (suite *FeatureTestSuite) TestDegenerateFibonacciExcludesRow() {
	rows, bars := fixture(closesFrom(25))
	rows[21].Fib100 = optional.Some(50.0)

	series := Series(rows, bars)
	suite.True(series[21].IsNone())
	suite.True(series[20].IsSome())
	suite.True(series[22].IsSome())
}

func (suite *FeatureTestSuite) TestMissingIndicatorExcludesRow() {
	rows, bars := fixture(closesFrom(25))
	rows[23].MA200 = optional.None[float64]()

	samples := Build(rows, bars)
	for _, s := range samples {
		suite.NotEqual(23, s.Index)
		suite.True(s.Vector.Finite())
	}

	suite.Len(samples, 25-19-1)
}

func (suite *FeatureTestSuite) TestMissingVolumeExcludesNeighbours() {
	rows, bars := fixture(closesFrom(25))
	bars = append(bars[:20], bars[21:]...)

	series := Series(rows, bars)
	suite.True(series[19].IsSome())
	suite.True(series[20].IsNone())
	suite.True(series[21].IsNone())
	suite.True(series[22].IsSome())
}

func (suite *FeatureTestSuite) TestZeroVolumeIsNotFinite() {
	rows, bars := fixture(closesFrom(25))
	bars[20].Volume = 0
	bars[21].Volume = 0

	series := Series(rows, bars)
	suite.True(series[20].IsSome())
	suite.True(series[21].IsNone())
}

func (suite *FeatureTestSuite) TestLatest() {
	rows, bars := fixture(closesFrom(25))

	latest := Latest(rows, bars)
	suite.Require().True(latest.IsSome())
	suite.Equal(24, latest.Unwrap().Index)
	suite.Equal(rows[24].Time, latest.Unwrap().Time)

	rows[24].RSI = optional.None[float64]()
	suite.True(Latest(rows, bars).IsNone())

	suite.True(Latest(nil, nil).IsNone())
}

func (suite *FeatureTestSuite) TestFromEngineOutput() {
	engine, err := indicator.NewEngine(indicator.DefaultConfig(), logger.NewNopLogger())
	suite.Require().NoError(err)

	bars := make([]types.PriceBar, 260)
	level := 80.0
	for i := range bars {
		level += math.Sin(float64(i)/3) + 0.05
		bars[i] = types.PriceBar{Symbol: "SIN", Time: start.AddDate(0, 0, i), Close: level, Volume: int64(5000 + i)}
	}

	rows, err := engine.Compute("SIN", bars)
	suite.Require().NoError(err)

	samples := Build(rows, bars)
	suite.Require().NotEmpty(samples)
	suite.Equal(199, samples[0].Index)

	for _, s := range samples {
		suite.True(s.Vector.Finite())
	}

	latest := Latest(rows, bars)
	suite.Require().True(latest.IsSome())
	suite.Equal(samples[len(samples)-1], latest.Unwrap())
}
