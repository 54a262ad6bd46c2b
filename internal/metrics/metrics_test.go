package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsAreIndependent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.InstrumentsProcessed.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.InstrumentsProcessed))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.InstrumentsProcessed))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.InstrumentsFailed.WithLabelValues("malformed").Add(2)
	m.Predictions.WithLabelValues("Buy").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `screener_instruments_failed_total{reason="malformed"} 2`)
	assert.Contains(t, string(body), `screener_predictions_total{signal="Buy"} 1`)
}
