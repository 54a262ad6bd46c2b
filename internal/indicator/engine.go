package indicator

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"go.uber.org/zap"
)

// Config holds the tunable warm-up rules of the engine.
type Config struct {
	// SignalWarmup is how many leading defined-MACD rows have no signal line.
	SignalWarmup int `yaml:"signal_warmup" json:"signal_warmup" jsonschema:"title=Signal Warm-up,description=Leading defined-MACD rows whose signal line is suppressed,minimum=0" validate:"min=0"`
	// FibonacciExtraWarmup also blanks the first full Fibonacci window row.
	FibonacciExtraWarmup bool `yaml:"fibonacci_extra_warmup" json:"fibonacci_extra_warmup" jsonschema:"title=Fibonacci Extra Warm-up,description=Suppress one more Fibonacci row after the window fills"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		SignalWarmup:         DefaultSignalWarmup,
		FibonacciExtraWarmup: false,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid indicator config", err)
	}

	return nil
}

// Engine derives indicator rows from price bars for one instrument at a time.
// It holds no per-instrument state, so a single Engine may be shared by
// concurrent workers.
type Engine struct {
	registry IndicatorRegistry
	logger   *logger.Logger
}

// NewEngine creates an engine with the standard indicator set:
// MA(5,20,50,200), EMA(12,26), MACD + signal(9), RSI(14), Fibonacci(60).
func NewEngine(config Config, log *logger.Logger) (*Engine, error) {
	registry := NewIndicatorRegistry()

	macd := NewMACD()
	if err := macd.Config(9, config.SignalWarmup); err != nil {
		return nil, fmt.Errorf("failed to configure MACD: %w", err)
	}

	fib := NewFibonacci()
	if err := fib.Config(60, config.FibonacciExtraWarmup); err != nil {
		return nil, fmt.Errorf("failed to configure Fibonacci: %w", err)
	}

	// MACD reads the EMA columns, so EMA must be registered first.
	for _, ind := range []Indicator{NewMA(), NewEMA(), macd, NewRSI(), fib} {
		if err := registry.RegisterIndicator(ind); err != nil {
			return nil, err
		}
	}

	return NewEngineWithRegistry(registry, log), nil
}

// NewEngineWithRegistry creates an engine running the given registry in order.
func NewEngineWithRegistry(registry IndicatorRegistry, log *logger.Logger) *Engine {
	return &Engine{
		registry: registry,
		logger:   log,
	}
}

// Compute returns one indicator row per bar, in the same order.
// Bars must be ascending by time with unique timestamps and finite closes.
func (e *Engine) Compute(symbol string, bars []types.PriceBar) ([]types.IndicatorRow, error) {
	if err := validateBars(symbol, bars); err != nil {
		return nil, err
	}

	frame := NewFrame(symbol, bars)

	for _, name := range e.registry.ListIndicators() {
		ind, err := e.registry.GetIndicator(name)
		if err != nil {
			return nil, err
		}

		if err := ind.Compute(frame); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "failed to compute %s for %s", name, symbol)
		}
	}

	e.logger.Debug("Computed indicators",
		zap.String("ticker", symbol),
		zap.Int("rows", frame.Len()),
	)

	return frame.Rows, nil
}

func validateBars(symbol string, bars []types.PriceBar) error {
	if len(bars) == 0 {
		return errors.NewInsufficientDataErrorf(1, 0, symbol, "no price bars for %s", symbol)
	}

	for i, bar := range bars {
		if math.IsNaN(bar.Close) || math.IsInf(bar.Close, 0) {
			return errors.Newf(errors.ErrCodeMalformedData, "%s: close at %s is not a finite number", symbol, bar.Time)
		}

		if i > 0 && !bar.Time.After(bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeMalformedData, "%s: bars are not strictly ascending at %s", symbol, bar.Time)
		}
	}

	return nil
}
