package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	queries     *prometheus.CounterVec
	superseded  prometheus.Counter
	storeWrites *prometheus.CounterVec
}

// New creates the collectors on a private registry, so several instances can
// coexist (tests, embedded use).
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_queries_total",
			Help: "Weather provider queries by kind and outcome.",
		}, []string{"kind", "outcome"}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weather_search_superseded_total",
			Help: "Search responses discarded because a newer search was issued.",
		}),
		storeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_writes_total",
			Help: "Persistent store writes by key and result.",
		}, []string{"key", "result"}),
	}

	reg.MustRegister(
		m.queries,
		m.superseded,
		m.storeWrites,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveQuery counts one provider query.
func (m *Metrics) ObserveQuery(kind, outcome string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(kind, outcome).Inc()
}

// ObserveSuperseded counts one discarded search response.
func (m *Metrics) ObserveSuperseded() {
	if m == nil {
		return
	}
	m.superseded.Inc()
}

// ObserveStoreWrite counts one store write.
func (m *Metrics) ObserveStoreWrite(key string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeWrites.WithLabelValues(key, result).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
