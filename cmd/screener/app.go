package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-screener/internal/classifier"
	"github.com/rxtech-lab/argo-screener/internal/config"
	"github.com/rxtech-lab/argo-screener/internal/indicator"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/metrics"
	"github.com/rxtech-lab/argo-screener/internal/pipeline"
	"github.com/rxtech-lab/argo-screener/internal/store"
)

// app holds the collaborators shared by the subcommands.
type app struct {
	config  *config.Config
	logger  *logger.Logger
	store   store.Store
	metrics *metrics.Metrics
}

func newApp(ctx context.Context, cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if level := cmd.String("log-level"); level != "" {
		cfg.LogLevel = level
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return nil, err
	}

	log.Debug("Opened store", zap.String("driver", string(cfg.Store.Driver)))

	return &app{
		config:  cfg,
		logger:  log,
		store:   s,
		metrics: metrics.NewMetrics(),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close store", zap.Error(err))
	}

	_ = a.logger.Sync()
}

func (a *app) runner() (*pipeline.Runner, error) {
	engine, err := indicator.NewEngine(a.config.Indicator, a.logger)
	if err != nil {
		return nil, err
	}

	return pipeline.NewRunner(a.store, engine, a.metrics, a.logger, a.config.Pipeline), nil
}

func (a *app) adapter() *classifier.Adapter {
	return classifier.NewAdapter(a.store, a.config.Classifier, a.logger)
}

// train fits and persists a classifier on the given tickers, or on every listed instrument.
func (a *app) train(ctx context.Context, adapter *classifier.Adapter, tickers []string) (*classifier.State, error) {
	if len(tickers) == 0 {
		var err error

		tickers, err = a.instrumentTickers(ctx)
		if err != nil {
			return nil, err
		}
	}

	state, err := adapter.Train(ctx, tickers)
	if err != nil {
		return nil, err
	}

	adapter.SetState(state)
	a.metrics.TrainingAccuracy.Set(state.Report.Accuracy)

	return state, nil
}

func (a *app) instrumentTickers(ctx context.Context) ([]string, error) {
	instruments, err := a.store.ListInstruments(ctx)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(instruments))
	for _, instrument := range instruments {
		tickers = append(tickers, instrument.Ticker)
	}

	return tickers, nil
}

func normalizeTickers(raw []string) []string {
	tickers := make([]string, 0, len(raw))

	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if ticker := strings.ToUpper(strings.TrimSpace(part)); ticker != "" {
				tickers = append(tickers, ticker)
			}
		}
	}

	return tickers
}
