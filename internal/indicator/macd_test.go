package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

// computeMACD runs EMA then MACD on a fresh frame.
func (suite *MACDTestSuite) computeMACD(closes []float64, macd Indicator) *Frame {
	frame := frameFromCloses(closes)
	suite.Require().NoError(NewEMA().Compute(frame))
	suite.Require().NoError(macd.Compute(frame))

	return frame
}

func (suite *MACDTestSuite) TestNewMACD() {
	macd := NewMACD()
	suite.Equal(types.IndicatorTypeMACD, macd.Name())
	suite.Equal(9, macd.(*MACD).signalPeriod)
	suite.Equal(DefaultSignalWarmup, macd.(*MACD).signalWarmup)
}

func (suite *MACDTestSuite) TestMACDIsDifferenceOfRoundedEMAs() {
	frame := suite.computeMACD(wave(60, 100), NewMACD())

	for i, row := range frame.Rows {
		if i < 25 {
			suite.True(row.MACD.IsNone(), "index %d", i)

			continue
		}

		suite.Require().True(row.MACD.IsSome(), "index %d", i)
		suite.Equal(Round2(row.EMA12.Unwrap()-row.EMA26.Unwrap()), row.MACD.Unwrap(), "index %d", i)
	}
}

func (suite *MACDTestSuite) TestSignalWarmup() {
	frame := suite.computeMACD(wave(60, 100), NewMACD())

	for i, row := range frame.Rows {
		suite.Equal(i >= 34, row.SignalLine.IsSome(), "index %d", i)
	}
}

func (suite *MACDTestSuite) TestSignalWithoutWarmupStartsAtMACD() {
	macd := NewMACD()
	suite.Require().NoError(macd.Config(9, 0))

	frame := suite.computeMACD(wave(60, 100), macd)

	suite.True(frame.Rows[24].SignalLine.IsNone())
	suite.Require().True(frame.Rows[25].SignalLine.IsSome())
	suite.Equal(frame.Rows[25].MACD.Unwrap(), frame.Rows[25].SignalLine.Unwrap())
}

func (suite *MACDTestSuite) TestSignalIsEMAOfDefinedMACD() {
	frame := suite.computeMACD(wave(80, 100), NewMACD())

	defined := make([]float64, 0, len(frame.Rows))
	for _, row := range frame.Rows[25:] {
		defined = append(defined, row.MACD.Unwrap())
	}

	expected := adjustedEMA(defined, 9)
	for i := 34; i < len(frame.Rows); i++ {
		suite.Equal(Round2(expected[i-25]), frame.Rows[i].SignalLine.Unwrap(), "index %d", i)
	}
}

func (suite *MACDTestSuite) TestShortSeriesHasNoMACD() {
	frame := suite.computeMACD(wave(20, 100), NewMACD())

	for _, row := range frame.Rows {
		suite.True(row.MACD.IsNone())
		suite.True(row.SignalLine.IsNone())
	}
}

func (suite *MACDTestSuite) TestConfig() {
	macd := NewMACD()

	suite.NoError(macd.Config(5))
	suite.Equal(5, macd.(*MACD).signalPeriod)
	suite.Equal(DefaultSignalWarmup, macd.(*MACD).signalWarmup)

	suite.NoError(macd.Config(9, 3))
	suite.Equal(3, macd.(*MACD).signalWarmup)

	err := macd.Config()
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	err = macd.Config(0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	err = macd.Config(9, -1)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	err = macd.Config("nine")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidType))
}
