package api

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

type stocksResponse struct {
	Stocks []types.Instrument `json:"stocks"`
}

// stockDataPoint is one row of the stock data endpoint. Warming-up values are null.
type stockDataPoint struct {
	Timestamp  string   `json:"timestamp"`
	Close      float64  `json:"close"`
	Volume     *int64   `json:"volume"`
	MA5Day     *float64 `json:"ma_5day"`
	MA20Day    *float64 `json:"ma_20day"`
	MA50Day    *float64 `json:"ma_50day"`
	MA200Day   *float64 `json:"ma_200day"`
	EMA12Day   *float64 `json:"ema_12day"`
	EMA26Day   *float64 `json:"ema_26day"`
	MACD       *float64 `json:"macd"`
	SignalLine *float64 `json:"signal_line"`
	RSI        *float64 `json:"rsi"`
	Fib0       *float64 `json:"fib_0"`
	Fib236     *float64 `json:"fib_236"`
	Fib382     *float64 `json:"fib_382"`
	Fib500     *float64 `json:"fib_500"`
	Fib618     *float64 `json:"fib_618"`
	Fib100     *float64 `json:"fib_100"`
}

type stockDataResponse struct {
	Ticker string           `json:"ticker"`
	Data   []stockDataPoint `json:"data"`
}

type screenerResponse struct {
	Results []types.ScreenResult `json:"results"`
}

type marketSummaryResponse struct {
	TotalStocks  int    `json:"total_stocks"`
	ActiveStocks int    `json:"active_stocks"`
	TotalVolume  int64  `json:"total_volume"`
	LastUpdated  string `json:"last_updated"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	ModelLoaded bool   `json:"model_loaded"`
}

func tickerVar(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(mux.Vars(r)["ticker"]))
}

func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	instruments, err := s.store.ListInstruments(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if instruments == nil {
		instruments = []types.Instrument{}
	}

	writeJSON(w, http.StatusOK, stocksResponse{Stocks: instruments})
}

// handleStockData returns the latest rows newest first, joined with bar volume.
func (s *Server) handleStockData(w http.ResponseWriter, r *http.Request) {
	ticker := tickerVar(r)
	ctx := r.Context()

	rows, err := s.store.LoadIndicators(ctx, ticker, s.config.DataLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if len(rows) == 0 {
		s.writeError(w, r, errors.Newf(errors.ErrCodeDataNotFound, "no indicator data for %s", ticker))
		return
	}

	bars, err := s.store.LoadRecentBars(ctx, ticker, s.config.DataLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	volumes := make(map[int64]int64, len(bars))
	for _, bar := range bars {
		volumes[bar.Time.UnixNano()] = bar.Volume
	}

	data := make([]stockDataPoint, 0, len(rows))

	for _, row := range slices.Backward(rows) {
		point := stockDataPoint{
			Timestamp:  row.Time.UTC().Format(time.RFC3339),
			Close:      row.Close,
			Volume:     nil,
			MA5Day:     types.OptionPtr(row.MA5),
			MA20Day:    types.OptionPtr(row.MA20),
			MA50Day:    types.OptionPtr(row.MA50),
			MA200Day:   types.OptionPtr(row.MA200),
			EMA12Day:   types.OptionPtr(row.EMA12),
			EMA26Day:   types.OptionPtr(row.EMA26),
			MACD:       types.OptionPtr(row.MACD),
			SignalLine: types.OptionPtr(row.SignalLine),
			RSI:        types.OptionPtr(row.RSI),
			Fib0:       types.OptionPtr(row.Fib0),
			Fib236:     types.OptionPtr(row.Fib236),
			Fib382:     types.OptionPtr(row.Fib382),
			Fib500:     types.OptionPtr(row.Fib500),
			Fib618:     types.OptionPtr(row.Fib618),
			Fib100:     types.OptionPtr(row.Fib100),
		}

		if volume, ok := volumes[row.Time.UnixNano()]; ok {
			point.Volume = &volume
		}

		data = append(data, point)
	}

	writeJSON(w, http.StatusOK, stockDataResponse{Ticker: ticker, Data: data})
}

// handleScreener filters every instrument on its latest indicator row.
// Instruments without rows or whose rows cannot be read are left out.
func (s *Server) handleScreener(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var criteria types.ScreenCriteria
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid screening criteria: " + err.Error()})
			return
		}
	}

	ctx := r.Context()

	instruments, err := s.store.ListInstruments(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	results := make([]types.ScreenResult, 0)

	for _, instrument := range instruments {
		if ctx.Err() != nil {
			s.writeError(w, r, ctx.Err())
			return
		}

		log := s.logger.WithTicker(instrument.Ticker)

		latest, err := s.store.LatestIndicator(ctx, instrument.Ticker)
		if err != nil {
			log.Warn("Skipping instrument in screener", zap.Error(err))
			continue
		}

		if latest.IsNone() {
			continue
		}

		candidate := types.ScreenCandidate{Row: latest.Unwrap(), Volume: 0}

		bars, err := s.store.LoadRecentBars(ctx, instrument.Ticker, 1)
		if err != nil {
			log.Warn("Skipping instrument in screener", zap.Error(err))
			continue
		}

		if len(bars) > 0 {
			candidate.Volume = bars[len(bars)-1].Volume
		}

		if criteria.Matches(candidate) {
			results = append(results, types.NewScreenResult(candidate))
		}
	}

	writeJSON(w, http.StatusOK, screenerResponse{Results: results})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if s.predictor == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeModelNotTrained, "ML model not available"))
		return
	}

	prediction, err := s.predictor.Predict(r.Context(), tickerVar(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.metrics.Predictions.WithLabelValues(prediction.Signal.String()).Inc()
	writeJSON(w, http.StatusOK, prediction)
}

// handleMarketSummary counts instruments whose latest bar traded, over the first SummarySample instruments.
func (s *Server) handleMarketSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	instruments, err := s.store.ListInstruments(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary := marketSummaryResponse{
		TotalStocks:  len(instruments),
		ActiveStocks: 0,
		TotalVolume:  0,
		LastUpdated:  s.now().UTC().Format(time.RFC3339),
	}

	sample := instruments[:min(len(instruments), s.config.SummarySample)]

	for _, instrument := range sample {
		bars, err := s.store.LoadRecentBars(ctx, instrument.Ticker, 1)
		if err != nil {
			s.logger.WithTicker(instrument.Ticker).Debug("Skipping instrument in market summary", zap.Error(err))
			continue
		}

		if len(bars) == 0 || bars[0].Volume <= 0 {
			continue
		}

		summary.ActiveStocks++
		summary.TotalVolume += bars[0].Volume
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status:      "healthy",
		Timestamp:   s.now().UTC().Format(time.RFC3339),
		ModelLoaded: s.modelLoaded(),
	}

	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		response.Status = "unhealthy"
		writeJSON(w, http.StatusServiceUnavailable, response)

		return
	}

	writeJSON(w, http.StatusOK, response)
}

type stateHolder interface {
	HasState() bool
}

func (s *Server) modelLoaded() bool {
	if s.predictor == nil {
		return false
	}

	if holder, ok := s.predictor.(stateHolder); ok {
		return holder.HasState()
	}

	return true
}
