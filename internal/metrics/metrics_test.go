package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveQuery(t *testing.T) {
	m := New()
	m.ObserveQuery("current", "success")
	m.ObserveQuery("current", "success")
	m.ObserveQuery("forecast", "query_failure")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.queries.WithLabelValues("current", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("forecast", "query_failure")))
}

func TestObserveStoreWrite(t *testing.T) {
	m := New()
	m.ObserveStoreWrite("theme", nil)
	m.ObserveStoreWrite("theme", errors.New("disk full"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeWrites.WithLabelValues("theme", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeWrites.WithLabelValues("theme", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveQuery("current", "success")
		m.ObserveSuperseded()
		m.ObserveStoreWrite("theme", nil)
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveSuperseded()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "weather_search_superseded_total 1"))
}
