package classifier

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StateTestSuite struct {
	suite.Suite
	state *State
}

func TestStateSuite(t *testing.T) {
	suite.Run(t, new(StateTestSuite))
}

func (suite *StateTestSuite) SetupTest() {
	X, y := separable(200, 11)

	var scaler StandardScaler
	suite.Require().NoError(scaler.Fit(X))

	scaled, err := scaler.TransformAll(X)
	suite.Require().NoError(err)

	forest := smallForest()
	suite.Require().NoError(forest.Fit(scaled, y))

	suite.state = NewState(scaler, forest, []string{"AAPL"}, Report{Accuracy: 0.9})
}

func (suite *StateTestSuite) TestNewState() {
	_, err := uuid.Parse(suite.state.ID)
	suite.NoError(err)
	suite.Len(suite.state.FeatureNames, 14)
	suite.NotNil(suite.state.Forest)
	suite.Equal(suite.state.Forest, suite.state.Model())
}

func (suite *StateTestSuite) TestRoundTrip() {
	var buf bytes.Buffer
	suite.Require().NoError(suite.state.Save(&buf))

	loaded, err := LoadState(&buf)
	suite.Require().NoError(err)
	suite.Equal(suite.state.ID, loaded.ID)
	suite.Equal(suite.state.Scaler, loaded.Scaler)
	suite.Equal(suite.state.Forest.Classes(), loaded.Model().Classes())

	X, _ := separable(20, 12)
	for _, x := range X {
		want, err := suite.state.Model().PredictProba(x)
		suite.Require().NoError(err)

		got, err := loaded.Model().PredictProba(x)
		suite.Require().NoError(err)
		suite.Equal(want, got)
	}
}

func (suite *StateTestSuite) TestFileRoundTrip() {
	path := filepath.Join(suite.T().TempDir(), "models", "classifier.json")
	suite.Require().NoError(suite.state.SaveFile(path))

	loaded, err := LoadStateFile(path)
	suite.Require().NoError(err)
	suite.Equal(suite.state.ID, loaded.ID)
}

func (suite *StateTestSuite) TestMissingFileIsNotTrained() {
	_, err := LoadStateFile(filepath.Join(suite.T().TempDir(), "missing.json"))
	suite.True(IsNotTrained(err))
	suite.True(errors.IsUpstreamUnavailable(err))
}

func (suite *StateTestSuite) TestRejectsIncompatibleFormat() {
	suite.state.Format = "2.0.0"

	var buf bytes.Buffer
	suite.Require().NoError(suite.state.Save(&buf))

	_, err := LoadState(&buf)
	suite.True(errors.HasCode(err, errors.ErrCodeVersionMismatch))
}

func (suite *StateTestSuite) TestRejectsFeatureLayoutChange() {
	names := append([]string{}, suite.state.FeatureNames...)
	names[0], names[1] = names[1], names[0]
	suite.state.FeatureNames = names

	var buf bytes.Buffer
	suite.Require().NoError(suite.state.Save(&buf))

	_, err := LoadState(&buf)
	suite.True(errors.HasCode(err, errors.ErrCodeModelStateInvalid))
}

func (suite *StateTestSuite) TestRejectsGarbage() {
	_, err := LoadState(bytes.NewBufferString("{not json"))
	suite.True(errors.HasCode(err, errors.ErrCodeModelStateInvalid))

	raw, err := json.Marshal(map[string]any{"format": "1.0.0", "feature_names": suite.state.FeatureNames})
	suite.Require().NoError(err)

	_, err = LoadState(bytes.NewReader(raw))
	suite.True(errors.HasCode(err, errors.ErrCodeModelStateInvalid))
}

func (suite *StateTestSuite) TestCustomClassifierCannotBeSaved() {
	state := NewState(suite.state.Scaler, &fixedClassifier{classes: []types.Label{types.LabelBuy}, proba: []float64{1}}, nil, Report{})

	var buf bytes.Buffer
	suite.True(errors.HasCode(state.Save(&buf), errors.ErrCodeModelStateInvalid))
}
