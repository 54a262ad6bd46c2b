package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) TestLabelConstants() {
	suite.Equal(Label("Buy"), LabelBuy)
	suite.Equal(Label("Sell"), LabelSell)
	suite.Equal(Label("Hold"), LabelHold)
	suite.Equal(Label("Unknown"), LabelUnknown)
}

func (suite *SignalTestSuite) TestReportedOrder() {
	suite.Equal([]Label{LabelBuy, LabelSell, LabelHold}, ReportedLabels)
}

func (suite *SignalTestSuite) TestIsKnown() {
	suite.True(LabelBuy.IsKnown())
	suite.True(LabelSell.IsKnown())
	suite.True(LabelHold.IsKnown())
	suite.False(LabelUnknown.IsKnown())
	suite.False(Label("").IsKnown())
}

func (suite *SignalTestSuite) TestParseLabel() {
	label, err := ParseLabel("Sell")
	suite.NoError(err)
	suite.Equal(LabelSell, label)

	_, err = ParseLabel("Unknown")
	suite.Error(err)

	_, err = ParseLabel("buy")
	suite.Error(err)
}
