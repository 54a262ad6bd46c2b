// Package metrics holds the Prometheus instruments of the screener.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the batch pipeline, classifier and API.
type Metrics struct {
	registry *prometheus.Registry

	// Batch pipeline
	InstrumentsProcessed prometheus.Counter
	InstrumentsFailed    *prometheus.CounterVec // labels: reason
	IndicatorRowsWritten prometheus.Counter
	ComputeDuration      prometheus.Histogram
	LastRunTimestamp     prometheus.Gauge

	// Classifier
	Predictions      *prometheus.CounterVec // labels: signal
	TrainingAccuracy prometheus.Gauge

	// Market data
	BarsFetched *prometheus.CounterVec // labels: ticker

	// API
	RequestDuration *prometheus.HistogramVec // labels: route, code
}

// NewMetrics creates and registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		InstrumentsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_instruments_processed_total",
			Help: "Instruments whose indicator table was replaced",
		}),
		InstrumentsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_instruments_failed_total",
			Help: "Instruments skipped by the batch pipeline",
		}, []string{"reason"}),
		IndicatorRowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_indicator_rows_written_total",
			Help: "Indicator rows written by the batch pipeline",
		}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screener_indicator_compute_duration_seconds",
			Help:    "Time to load, compute and replace one instrument",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "screener_last_run_timestamp_seconds",
			Help: "Unix time the last batch run finished",
		}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_predictions_total",
			Help: "Predictions served by signal",
		}, []string{"signal"}),
		TrainingAccuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "screener_training_accuracy",
			Help: "Held out accuracy of the current classifier",
		}),
		BarsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_bars_fetched_total",
			Help: "Price bars fetched from the market data provider",
		}, []string{"ticker"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "screener_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		m.InstrumentsProcessed,
		m.InstrumentsFailed,
		m.IndicatorRowsWritten,
		m.ComputeDuration,
		m.LastRunTimestamp,
		m.Predictions,
		m.TrainingAccuracy,
		m.BarsFetched,
		m.RequestDuration,
	)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
