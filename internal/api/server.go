// Package api serves the screening HTTP API.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/metrics"
	"github.com/rxtech-lab/argo-screener/internal/store"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// Config configures the HTTP server.
type Config struct {
	Addr         string        `yaml:"addr" json:"addr" jsonschema:"title=Address,description=Listen address,default=:5000" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout" jsonschema:"title=Read Timeout,description=Request read timeout in nanoseconds (YAML accepts 10s)" validate:"min=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout" jsonschema:"title=Write Timeout,description=Response write timeout in nanoseconds (YAML accepts 30s)" validate:"min=0"`
	// DataLimit is the number of rows returned by the stock data endpoint.
	DataLimit int `yaml:"data_limit" json:"data_limit" jsonschema:"title=Data Limit,description=Rows returned per stock data request,minimum=1,default=100" validate:"min=1"`
	// SummarySample is how many instruments the market summary inspects.
	SummarySample int `yaml:"summary_sample" json:"summary_sample" jsonschema:"title=Summary Sample,description=Instruments inspected by the market summary,minimum=1,default=50" validate:"min=1"`
}

// DefaultConfig listens on :5000.
func DefaultConfig() Config {
	return Config{
		Addr:          ":5000",
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  30 * time.Second,
		DataLimit:     100,
		SummarySample: 50,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid server config", err)
	}

	return nil
}

// Predictor produces the signal of an instrument's latest row.
type Predictor interface {
	Predict(ctx context.Context, ticker string) (types.Prediction, error)
}

// Server wires the store and the classifier into HTTP handlers.
type Server struct {
	store     store.Store
	predictor Predictor
	metrics   *metrics.Metrics
	logger    *logger.Logger
	config    Config
	router    *mux.Router
	now       func() time.Time
}

// NewServer creates a server. A nil predictor makes every prediction answer 503.
func NewServer(s store.Store, predictor Predictor, m *metrics.Metrics, log *logger.Logger, config Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	if m == nil {
		m = metrics.NewMetrics()
	}

	server := &Server{
		store:     s,
		predictor: predictor,
		metrics:   m,
		logger:    log,
		config:    config,
		router:    mux.NewRouter(),
		now:       time.Now,
	}
	server.routes()

	return server, nil
}

func (s *Server) routes() {
	s.router.Use(s.instrument, cors)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stocks", s.handleStocks).Methods(http.MethodGet)
	api.HandleFunc("/stock/{ticker}/data", s.handleStockData).Methods(http.MethodGet)
	api.HandleFunc("/screener", s.handleScreener).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/predict/{ticker}", s.handlePredict).Methods(http.MethodGet)
	api.HandleFunc("/market-summary", s.handleMarketSummary).Methods(http.MethodGet)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to listen on %s", s.config.Addr)
	}

	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", listener.Addr().String()))

		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-errCh
}
