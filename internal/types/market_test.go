package types

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) TestPriceBarStruct() {
	now := time.Now().UTC()
	bar := PriceBar{
		Symbol:       "AAPL",
		Time:         now,
		Open:         150.0,
		High:         155.0,
		Low:          148.0,
		Close:        152.5,
		Volume:       1000000,
		VWAP:         151.2,
		Transactions: 4200,
		OTC:          optional.None[bool](),
	}

	suite.Equal("AAPL", bar.Symbol)
	suite.Equal(now, bar.Time)
	suite.Equal(152.5, bar.Close)
	suite.Equal(int64(1000000), bar.Volume)
	suite.True(bar.OTC.IsNone())
}

func (suite *MarketTestSuite) TestPriceBarZeroValues() {
	bar := PriceBar{}

	suite.Empty(bar.Symbol)
	suite.True(bar.Time.IsZero())
	suite.Equal(0.0, bar.Close)
	suite.Equal(int64(0), bar.Volume)
}
