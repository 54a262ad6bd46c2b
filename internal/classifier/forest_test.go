package classifier

import (
	"testing"

	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ForestTestSuite struct {
	suite.Suite
}

func TestForestSuite(t *testing.T) {
	suite.Run(t, new(ForestTestSuite))
}

func smallForest() *RandomForest {
	config := DefaultForestConfig()
	config.Trees = 25

	return NewRandomForest(config)
}

func (suite *ForestTestSuite) TestClassesAreLexicographic() {
	X, y := separable(300, 1)
	forest := smallForest()

	suite.Require().NoError(forest.Fit(X, y))
	suite.Equal([]types.Label{types.LabelBuy, types.LabelHold, types.LabelSell}, forest.Classes())
}

func (suite *ForestTestSuite) TestLearnsSeparableData() {
	X, y := separable(600, 1)
	forest := smallForest()
	suite.Require().NoError(forest.Fit(X, y))

	testX, testY := separable(200, 2)
	correct := 0

	for i := range testX {
		proba, err := forest.PredictProba(testX[i])
		suite.Require().NoError(err)
		suite.Len(proba, 3)

		sum := 0.0
		for _, p := range proba {
			sum += p
		}

		suite.InDelta(1.0, sum, 1e-9)

		label, err := Predict(forest, testX[i])
		suite.Require().NoError(err)

		if label == testY[i] {
			correct++
		}
	}

	suite.Greater(float64(correct)/float64(len(testX)), 0.85)
}

func (suite *ForestTestSuite) TestDeterministicForSeed() {
	X, y := separable(200, 5)

	first := smallForest()
	suite.Require().NoError(first.Fit(X, y))

	second := smallForest()
	suite.Require().NoError(second.Fit(X, y))

	suite.Equal(first.Forest, second.Forest)
}

func (suite *ForestTestSuite) TestMaxDepth() {
	X, y := separable(200, 5)

	config := DefaultForestConfig()
	config.Trees = 5
	config.MaxDepth = 2

	forest := NewRandomForest(config)
	suite.Require().NoError(forest.Fit(X, y))

	for i := range forest.Forest {
		suite.LessOrEqual(forest.Forest[i].depth(), 2)
	}
}

func (suite *ForestTestSuite) TestSingleClass() {
	X := [][]float64{{1}, {2}, {3}}
	y := []types.Label{types.LabelHold, types.LabelHold, types.LabelHold}

	forest := smallForest()
	suite.Require().NoError(forest.Fit(X, y))
	suite.Equal([]types.Label{types.LabelHold}, forest.Classes())

	proba, err := forest.PredictProba([]float64{10})
	suite.Require().NoError(err)
	suite.Equal([]float64{1}, proba)
}

func (suite *ForestTestSuite) TestErrors() {
	forest := smallForest()

	_, err := forest.PredictProba([]float64{1})
	suite.True(errors.HasCode(err, errors.ErrCodeModelNotTrained))

	suite.True(errors.HasCode(forest.Fit(nil, nil), errors.ErrCodeInsufficientData))
	suite.True(errors.HasCode(forest.Fit([][]float64{{1}}, nil), errors.ErrCodeInvalidParameter))
	suite.True(errors.HasCode(forest.Fit([][]float64{{1}}, []types.Label{types.LabelUnknown}), errors.ErrCodeInvalidParameter))

	suite.Require().NoError(forest.Fit([][]float64{{1}, {2}}, []types.Label{types.LabelBuy, types.LabelSell}))
	_, err = forest.PredictProba([]float64{1, 2})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *ForestTestSuite) TestPredictTieUsesClassOrder() {
	c := &fixedClassifier{classes: []types.Label{types.LabelSell, types.LabelBuy}, proba: []float64{0.5, 0.5}}

	label, err := Predict(c, nil)
	suite.Require().NoError(err)
	suite.Equal(types.LabelSell, label)

	c.proba = []float64{1}
	_, err = Predict(c, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeModelStateInvalid))
}
