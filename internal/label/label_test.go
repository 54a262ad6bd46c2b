package label

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type LabelTestSuite struct {
	suite.Suite
}

func TestLabelSuite(t *testing.T) {
	suite.Run(t, new(LabelTestSuite))
}

func rowsFromCloses(closes ...float64) []types.IndicatorRow {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]types.IndicatorRow, len(closes))

	for i, c := range closes {
		rows[i] = types.NewIndicatorRow(types.PriceBar{Symbol: "TEST", Time: start.AddDate(0, 0, i), Close: c})
	}

	return rows
}

func (suite *LabelTestSuite) TestBoundary() {
	tests := []struct {
		name     string
		last     float64
		expected types.Label
	}{
		{name: "exactly at threshold", last: 102, expected: types.LabelHold},
		{name: "above threshold", last: 103, expected: types.LabelBuy},
		{name: "exactly at negative threshold", last: 98, expected: types.LabelHold},
		{name: "below negative threshold", last: 97, expected: types.LabelSell},
		{name: "flat", last: 100, expected: types.LabelHold},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			labels, err := Generate(rowsFromCloses(100, 100, 100, 100, 100, tc.last), DefaultConfig())
			suite.Require().NoError(err)
			suite.Equal(tc.expected, labels[0])
		})
	}
}

func (suite *LabelTestSuite) TestTrailingRowsAreUnknown() {
	labels, err := Generate(rowsFromCloses(100, 101, 102, 103, 104, 110, 111, 90), DefaultConfig())
	suite.Require().NoError(err)
	suite.Require().Len(labels, 8)

	suite.Equal(types.LabelBuy, labels[0])
	suite.Equal(types.LabelBuy, labels[1])
	suite.Equal(types.LabelSell, labels[2])

	for _, l := range labels[3:] {
		suite.Equal(types.LabelUnknown, l)
		suite.False(l.IsKnown())
	}
}

func (suite *LabelTestSuite) TestLegacyFoldsUnknownIntoHold() {
	cfg := DefaultConfig()
	cfg.Legacy = true

	labels, err := Generate(rowsFromCloses(100, 101, 102), cfg)
	suite.Require().NoError(err)

	for _, l := range labels {
		suite.Equal(types.LabelHold, l)
	}
}

func (suite *LabelTestSuite) TestShortSequence() {
	labels, err := Generate(rowsFromCloses(100), DefaultConfig())
	suite.Require().NoError(err)
	suite.Equal([]types.Label{types.LabelUnknown}, labels)

	labels, err = Generate(nil, DefaultConfig())
	suite.Require().NoError(err)
	suite.Empty(labels)
}

func (suite *LabelTestSuite) TestCustomLookforward() {
	labels, err := Generate(rowsFromCloses(100, 110, 90), Config{LookforwardDays: 1, Threshold: 0.05})
	suite.Require().NoError(err)
	suite.Equal([]types.Label{types.LabelBuy, types.LabelSell, types.LabelUnknown}, labels)
}

func (suite *LabelTestSuite) TestZeroCloseIsUnknown() {
	labels, err := Generate(rowsFromCloses(0, 5), Config{LookforwardDays: 1, Threshold: 0.02})
	suite.Require().NoError(err)
	suite.Equal(types.LabelUnknown, labels[0])
}

func (suite *LabelTestSuite) TestInvalidConfig() {
	_, err := Generate(rowsFromCloses(1, 2), Config{LookforwardDays: 0, Threshold: 0.02})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidThreshold))

	_, err = Generate(rowsFromCloses(1, 2), Config{LookforwardDays: 5, Threshold: 0})
	suite.Error(err)
}

func (suite *LabelTestSuite) TestCounts() {
	counts := Counts([]types.Label{types.LabelBuy, types.LabelBuy, types.LabelHold, types.LabelUnknown})
	suite.Equal(2, counts[types.LabelBuy])
	suite.Equal(1, counts[types.LabelHold])
	suite.Equal(1, counts[types.LabelUnknown])
	suite.Zero(counts[types.LabelSell])
}
