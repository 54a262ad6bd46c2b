package classifier

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-screener/internal/feature"
	"github.com/rxtech-lab/argo-screener/internal/label"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config configures training and serving.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset" json:"dataset" jsonschema:"title=Dataset,description=Which instruments and rows enter training"`
	Forest  ForestConfig  `yaml:"forest" json:"forest" jsonschema:"title=Forest,description=Random forest hyperparameters"`
	Label   label.Config  `yaml:"label" json:"label" jsonschema:"title=Label,description=Forward return labelling"`
	// TestSize is the share of samples held out for the evaluation report.
	TestSize float64 `yaml:"test_size" json:"test_size" jsonschema:"title=Test Size,minimum=0,exclusiveMaximum=1,default=0.2" validate:"gte=0,lt=1"`
	// StatePath is where the trained state is persisted. Empty keeps it in memory only.
	StatePath string `yaml:"state_path" json:"state_path" jsonschema:"title=State Path,description=File the trained classifier is written to"`
}

// DefaultConfig returns the training defaults.
func DefaultConfig() Config {
	return Config{
		Dataset:   DefaultDatasetConfig(),
		Forest:    DefaultForestConfig(),
		Label:     label.DefaultConfig(),
		TestSize:  0.2,
		StatePath: "models/classifier.json",
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid classifier config", err)
	}

	return nil
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithClassifier replaces the random forest with another classifier.
// States trained this way are served from memory but cannot be saved.
func WithClassifier(factory func() Classifier) Option {
	return func(a *Adapter) {
		a.newClassifier = factory
	}
}

// WithState starts the adapter with a previously trained state.
func WithState(state *State) Option {
	return func(a *Adapter) {
		a.state = state
	}
}

// Adapter trains classifier states and serves predictions from the current one.
// It is safe for concurrent use; retraining swaps the state atomically.
type Adapter struct {
	source        Source
	config        Config
	logger        *logger.Logger
	newClassifier func() Classifier

	mu    sync.RWMutex
	state *State
}

// NewAdapter creates an adapter reading history from source.
func NewAdapter(source Source, config Config, log *logger.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		source: source,
		config: config,
		logger: log,
	}

	a.newClassifier = func() Classifier {
		return NewRandomForest(a.config.Forest)
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// State returns the state predictions are served from, or nil.
func (a *Adapter) State() *State {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.state
}

// HasState reports whether a trained state is being served.
func (a *Adapter) HasState() bool {
	return a.State() != nil
}

// SetState replaces the served state.
func (a *Adapter) SetState(state *State) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state = state
}

// LoadStateFile loads and serves the state persisted at the configured path.
func (a *Adapter) LoadStateFile() error {
	state, err := LoadStateFile(a.config.StatePath)
	if err != nil {
		return err
	}

	a.SetState(state)
	a.logger.Info("Loaded classifier state",
		zap.String("id", state.ID),
		zap.String("format", state.Format),
		zap.Time("created_at", state.CreatedAt),
	)

	return nil
}

// Train fits a new state on the given instruments, evaluates it on a held
// out split and, when a state path is configured, persists it.
func (a *Adapter) Train(ctx context.Context, tickers []string) (*State, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	dataset, err := BuildDataset(ctx, a.source, tickers, a.config.Dataset, a.config.Label, a.logger)
	if err != nil {
		return nil, err
	}

	train, test, err := Split(dataset, a.config.TestSize, a.config.Forest.Seed)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Training classifier",
		zap.Strings("tickers", dataset.Tickers),
		zap.Int("train_samples", train.Len()),
		zap.Int("test_samples", test.Len()),
		zap.Any("label_counts", label.Counts(dataset.Y)),
	)

	var scaler StandardScaler
	if err := scaler.Fit(train.X); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTrainingFailed, "failed to fit scaler", err)
	}

	scaled, err := scaler.TransformAll(train.X)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTrainingFailed, "failed to scale training set", err)
	}

	model := a.newClassifier()
	if err := model.Fit(scaled, train.Y); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTrainingFailed, "failed to fit classifier", err)
	}

	report, err := a.evaluate(&scaler, model, test)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Classifier evaluation", zap.Float64("accuracy", report.Accuracy), zap.Int("samples", report.Samples))

	for _, l := range types.ReportedLabels {
		m := report.Classes[l]
		a.logger.Info("Class report",
			zap.String("class", l.String()),
			zap.Float64("precision", m.Precision),
			zap.Float64("recall", m.Recall),
			zap.Float64("f1", m.F1),
			zap.Int("support", m.Support),
		)
	}

	state := NewState(scaler, model, dataset.Tickers, report)

	switch {
	case a.config.StatePath == "":
	case state.Forest == nil:
		a.logger.Warn("Classifier state not saved: only random forest models can be persisted",
			zap.String("id", state.ID),
			zap.String("path", a.config.StatePath),
		)
	default:
		if err := state.SaveFile(a.config.StatePath); err != nil {
			return nil, err
		}

		a.logger.Info("Saved classifier state", zap.String("id", state.ID), zap.String("path", a.config.StatePath))
	}

	a.SetState(state)

	return state, nil
}

func (a *Adapter) evaluate(scaler *StandardScaler, model Classifier, test *Dataset) (Report, error) {
	predicted := make([]types.Label, test.Len())

	for i, x := range test.X {
		scaled, err := scaler.Transform(x)
		if err != nil {
			return Report{}, err
		}

		predicted[i], err = Predict(model, scaled)
		if err != nil {
			return Report{}, errors.Wrap(errors.ErrCodeTrainingFailed, "failed to evaluate classifier", err)
		}
	}

	return Evaluate(test.Y, predicted), nil
}

// Predict classifies the latest indicator row of ticker. Features are built
// over the full history so that the change and volatility features exist.
func (a *Adapter) Predict(ctx context.Context, ticker string) (types.Prediction, error) {
	state := a.State()
	if state == nil || state.Model() == nil {
		return types.Prediction{}, errors.New(errors.ErrCodeModelNotTrained, "no trained classifier is loaded")
	}

	rows, err := a.source.LoadIndicators(ctx, ticker, 0)
	if err != nil {
		return types.Prediction{}, err
	}

	if len(rows) == 0 {
		return types.Prediction{}, errors.Newf(errors.ErrCodeDataNotFound, "no indicator rows for %s", ticker)
	}

	bars, err := a.source.LoadBars(ctx, ticker)
	if err != nil {
		return types.Prediction{}, err
	}

	latest := feature.Latest(rows, bars)
	if latest.IsNone() {
		return types.Prediction{}, errors.Newf(errors.ErrCodePredictionUnavailable, "latest row of %s has no complete feature vector", ticker)
	}

	sample := latest.Unwrap()

	x, err := state.Scaler.Transform(sample.Vector[:])
	if err != nil {
		return types.Prediction{}, err
	}

	prediction, err := buildPrediction(ticker, state.Model(), x)
	if err != nil {
		return types.Prediction{}, err
	}

	a.logger.Debug("Predicted signal",
		zap.String("ticker", ticker),
		zap.String("signal", prediction.Signal.String()),
		zap.Float64("confidence", prediction.Confidence),
		zap.Time("as_of", sample.Time),
	)

	return prediction, nil
}

// buildPrediction maps the classifier's own class order onto the reported
// {Buy, Sell, Hold} percentages.
func buildPrediction(ticker string, model Classifier, x []float64) (types.Prediction, error) {
	proba, err := model.PredictProba(x)
	if err != nil {
		return types.Prediction{}, err
	}

	classes := model.Classes()
	if len(classes) == 0 || len(classes) != len(proba) {
		return types.Prediction{}, errors.Newf(errors.ErrCodeModelStateInvalid, "classifier returned %d probabilities for %d classes", len(proba), len(classes))
	}

	byClass := make(map[types.Label]float64, len(classes))
	signal := classes[0]

	for i, c := range classes {
		byClass[c] = proba[i]
		if proba[i] > byClass[signal] {
			signal = c
		}
	}

	probabilities := make(map[types.Label]float64, len(types.ReportedLabels))
	for _, l := range types.ReportedLabels {
		probabilities[l] = percent(byClass[l])
	}

	return types.Prediction{
		Ticker:        ticker,
		Signal:        signal,
		Confidence:    percent(byClass[signal]),
		Probabilities: probabilities,
	}, nil
}

func percent(p float64) float64 {
	return decimal.NewFromFloat(p).Shift(2).Round(2).InexactFloat64()
}
