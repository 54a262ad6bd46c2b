package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-screener/internal/api"
	"github.com/rxtech-lab/argo-screener/internal/config"
	"github.com/rxtech-lab/argo-screener/internal/scheduler"
	"github.com/rxtech-lab/argo-screener/internal/version"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata"
)

func tickerFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:    "ticker",
		Aliases: []string{"t"},
		Usage:   "Ticker to process (repeatable or comma separated). Defaults to every listed instrument",
	}
}

func fetchAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.config.MarketData
	if start := cmd.String("start"); start != "" {
		cfg.StartDate = start
	}

	if end := cmd.String("end"); end != "" {
		cfg.EndDate = end
	}

	client, err := marketdata.NewClient(cfg, a.store, a.metrics, a.logger)
	if err != nil {
		return err
	}

	report, err := client.FetchAll(ctx, normalizeTickers(cmd.StringSlice("ticker")), time.Now())
	if err != nil {
		return err
	}

	a.logger.Info("Fetch finished", zap.Int("fetched", len(report.Fetched)), zap.Int("failed", len(report.Failed)))

	return nil
}

func computeAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if workers := cmd.Int("workers"); workers > 0 {
		a.config.Pipeline.Workers = int(workers)
	}

	runner, err := a.runner()
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx, normalizeTickers(cmd.StringSlice("ticker")))
	if err != nil {
		return err
	}

	if len(report.Processed) == 0 && len(report.Failed) > 0 {
		return errors.Newf(errors.ErrCodeIndicatorCalculation, "all %d instruments failed", len(report.Failed))
	}

	return nil
}

func trainAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := a.train(ctx, a.adapter(), normalizeTickers(cmd.StringSlice("ticker")))
	if err != nil {
		return err
	}

	return printJSON(state.Report)
}

func predictAction(ctx context.Context, cmd *cli.Command) error {
	tickers := normalizeTickers(cmd.Args().Slice())
	if len(tickers) == 0 {
		return errors.New(errors.ErrCodeMissingParameter, "at least one ticker is required")
	}

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	adapter := a.adapter()
	if err := adapter.LoadStateFile(); err != nil {
		return err
	}

	for _, ticker := range tickers {
		prediction, err := adapter.Predict(ctx, ticker)
		if err != nil {
			a.logger.WithTicker(ticker).Warn("Prediction unavailable", zap.Error(err))
			continue
		}

		if err := printJSON(prediction); err != nil {
			return err
		}
	}

	return nil
}

// serveAction runs the HTTP API and the scheduled jobs until interrupted.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if addr := cmd.String("addr"); addr != "" {
		a.config.Server.Addr = addr
	}

	adapter := a.adapter()
	if err := adapter.LoadStateFile(); err != nil {
		a.logger.Warn("Serving without a classifier", zap.Error(err))
	}

	runner, err := a.runner()
	if err != nil {
		return err
	}

	jobs := scheduler.Jobs{
		Compute: func(ctx context.Context) error {
			_, err := runner.Run(ctx, nil)
			return err
		},
		Train: func(ctx context.Context) error {
			_, err := a.train(ctx, adapter, nil)
			return err
		},
	}

	if a.config.MarketData.ApiKey != "" {
		client, err := marketdata.NewClient(a.config.MarketData, a.store, a.metrics, a.logger)
		if err != nil {
			return err
		}

		jobs.Fetch = func(ctx context.Context) error {
			_, err := client.FetchAll(ctx, nil, time.Now())
			return err
		}
	}

	sched, err := scheduler.NewScheduler(ctx, a.config.Scheduler, jobs, a.logger)
	if err != nil {
		return err
	}

	server, err := api.NewServer(a.store, adapter, a.metrics, a.logger, a.config.Server)
	if err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	return server.Run(ctx)
}

func schemaAction(_ context.Context, _ *cli.Command) error {
	schema, err := config.Schema()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func defaultsAction(_ context.Context, _ *cli.Command) error {
	data, err := config.Default().Marshal()
	if err != nil {
		return err
	}

	fmt.Print(string(data))

	return nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func main() {
	cmd := &cli.Command{
		Name:    "screener",
		Usage:   "Compute technical indicators, screen stocks and predict trading signals",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "config.yaml",
				Sources: cli.EnvVars("SCREENER_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Download daily bars from Polygon.io into the store",
				Flags: []cli.Flag{
					tickerFlag(),
					&cli.StringFlag{Name: "start", Usage: "First day to download in `YYYY-MM-DD` format"},
					&cli.StringFlag{Name: "end", Usage: "Last day to download in `YYYY-MM-DD` format. Defaults to today"},
				},
				Action: fetchAction,
			},
			{
				Name:  "compute",
				Usage: "Recompute the indicator table of every instrument",
				Flags: []cli.Flag{
					tickerFlag(),
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Instruments processed concurrently"},
				},
				Action: computeAction,
			},
			{
				Name:   "train",
				Usage:  "Train the signal classifier and save its state",
				Flags:  []cli.Flag{tickerFlag()},
				Action: trainAction,
			},
			{
				Name:      "predict",
				Usage:     "Predict the signal of the latest row of each ticker",
				ArgsUsage: "TICKER [TICKER...]",
				Action:    predictAction,
			},
			{
				Name:  "serve",
				Usage: "Serve the HTTP API and run the scheduled jobs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "Listen address, overrides the configuration"},
				},
				Action: serveAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the configuration file",
				Action: schemaAction,
			},
			{
				Name:   "defaults",
				Usage:  "Print the default configuration as YAML",
				Action: defaultsAction,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Run(ctx, os.Args)

	stop()

	if err != nil {
		log.Fatal(err)
	}
}
