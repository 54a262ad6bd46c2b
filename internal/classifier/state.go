package classifier

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-screener/internal/feature"
	"github.com/rxtech-lab/argo-screener/internal/version"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// State is a trained classifier together with everything needed to serve it.
// It is created by training, read-only while serving and replaced wholesale by retraining.
type State struct {
	ID           string         `json:"id"`
	Format       string         `json:"format"`
	CreatedAt    time.Time      `json:"created_at"`
	FeatureNames []string       `json:"feature_names"`
	Tickers      []string       `json:"tickers"`
	Scaler       StandardScaler `json:"scaler"`
	Forest       *RandomForest  `json:"forest"`
	Report       Report         `json:"report"`

	// model is what predictions run on. It is the forest for persisted states.
	model Classifier
}

// NewState wraps a fitted scaler and classifier in a fresh state.
func NewState(scaler StandardScaler, model Classifier, tickers []string, report Report) *State {
	state := &State{
		ID:           uuid.NewString(),
		Format:       version.StateFormat,
		CreatedAt:    time.Now().UTC(),
		FeatureNames: feature.Names[:],
		Tickers:      tickers,
		Scaler:       scaler,
		Report:       report,
		model:        model,
	}

	if forest, ok := model.(*RandomForest); ok {
		state.Forest = forest
	}

	return state
}

// Model returns the classifier predictions run on.
func (s *State) Model() Classifier {
	return s.model
}

// Save writes the state as JSON. Only forest-backed states can be persisted.
func (s *State) Save(w io.Writer) error {
	if s.Forest == nil {
		return errors.New(errors.ErrCodeModelStateInvalid, "only random forest states can be persisted")
	}

	encoder := json.NewEncoder(w)
	if err := encoder.Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to encode classifier state", err)
	}

	return nil
}

// SaveFile writes the state to path, replacing any previous file atomically.
func (s *State) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create state directory", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".state-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create temporary state file", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.Save(tmp); err != nil {
		tmp.Close()

		return err
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to close temporary state file", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to replace state file", err)
	}

	return nil
}

// LoadState reads a state and checks that it matches this binary's feature layout.
func LoadState(r io.Reader) (*State, error) {
	var state State
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return nil, errors.Wrap(errors.ErrCodeModelStateInvalid, "failed to decode classifier state", err)
	}

	if err := version.CheckStateCompatibility(version.StateFormat, state.Format); err != nil {
		return nil, err
	}

	if !slices.Equal(state.FeatureNames, feature.Names[:]) {
		return nil, errors.Newf(errors.ErrCodeModelStateInvalid, "state feature layout %v does not match %v", state.FeatureNames, feature.Names)
	}

	if state.Forest == nil || len(state.Forest.Forest) == 0 {
		return nil, errors.New(errors.ErrCodeModelStateInvalid, "state has no trained forest")
	}

	if len(state.Scaler.Mean) != feature.Width || len(state.Scaler.Scale) != feature.Width {
		return nil, errors.New(errors.ErrCodeModelStateInvalid, "state scaler does not match the feature width")
	}

	state.model = state.Forest

	return &state, nil
}

// LoadStateFile reads a state from path. A missing file means no model has been trained.
func LoadStateFile(path string) (*State, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrCodeModelNotTrained, err, "no classifier state at %s", path)
		}

		return nil, errors.Wrap(errors.ErrCodeModelStateInvalid, "failed to open classifier state", err)
	}
	defer file.Close()

	return LoadState(file)
}
