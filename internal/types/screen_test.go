package types

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type ScreenTestSuite struct {
	suite.Suite
	candidate ScreenCandidate
}

func TestScreenSuite(t *testing.T) {
	suite.Run(t, new(ScreenTestSuite))
}

func (suite *ScreenTestSuite) SetupTest() {
	row := NewIndicatorRow(PriceBar{Symbol: "MSFT", Close: 410.0})
	row.RSI = optional.Some(28.5)
	row.MA20 = optional.Some(400.0)
	row.MA50 = optional.Some(390.0)
	row.MACD = optional.Some(1.2)
	row.SignalLine = optional.Some(0.8)

	suite.candidate = ScreenCandidate{Row: row, Volume: 2_000_000}
}

func ptr[T any](v T) *T {
	return &v
}

func (suite *ScreenTestSuite) TestEmptyCriteriaMatches() {
	suite.True(ScreenCriteria{}.Matches(suite.candidate))
}

func (suite *ScreenTestSuite) TestPriceBounds() {
	suite.True(ScreenCriteria{MinPrice: ptr(400.0), MaxPrice: ptr(420.0)}.Matches(suite.candidate))
	suite.False(ScreenCriteria{MinPrice: ptr(411.0)}.Matches(suite.candidate))
	suite.False(ScreenCriteria{MaxPrice: ptr(409.99)}.Matches(suite.candidate))
}

func (suite *ScreenTestSuite) TestMinVolume() {
	suite.True(ScreenCriteria{MinVolume: ptr(int64(2_000_000))}.Matches(suite.candidate))
	suite.False(ScreenCriteria{MinVolume: ptr(int64(2_000_001))}.Matches(suite.candidate))
}

func (suite *ScreenTestSuite) TestRSIThresholds() {
	suite.True(ScreenCriteria{RSIOversold: ptr(30.0)}.Matches(suite.candidate))
	suite.False(ScreenCriteria{RSIOverbought: ptr(70.0)}.Matches(suite.candidate))

	suite.candidate.Row.RSI = optional.None[float64]()
	suite.False(ScreenCriteria{RSIOversold: ptr(30.0)}.Matches(suite.candidate))
}

func (suite *ScreenTestSuite) TestMACrossover() {
	suite.True(ScreenCriteria{MACrossover: true}.Matches(suite.candidate))

	suite.candidate.Row.MA50 = optional.Some(405.0)
	suite.False(ScreenCriteria{MACrossover: true}.Matches(suite.candidate))
}

func (suite *ScreenTestSuite) TestMACDBullish() {
	suite.True(ScreenCriteria{MACDBullish: true}.Matches(suite.candidate))

	suite.candidate.Row.SignalLine = optional.Some(1.2)
	suite.False(ScreenCriteria{MACDBullish: true}.Matches(suite.candidate))
}

func (suite *ScreenTestSuite) TestNewScreenResult() {
	result := NewScreenResult(suite.candidate)

	suite.Equal("MSFT", result.Ticker)
	suite.Equal(410.0, result.Close)
	suite.Equal(int64(2_000_000), result.Volume)
	suite.Require().NotNil(result.RSI)
	suite.Equal(28.5, *result.RSI)
	suite.Require().NotNil(result.MA50Day)
	suite.Equal(390.0, *result.MA50Day)
}

func (suite *ScreenTestSuite) TestOptionPtrNone() {
	suite.Nil(OptionPtr(optional.None[float64]()))
}
