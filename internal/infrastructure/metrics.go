package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments of the service.
type Metrics struct {
	registry *prometheus.Registry

	PipelineRuns    prometheus.Counter
	PipelineErrors  prometheus.Counter
	CacheHits       prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the metric set on its own registry, so tests can
// construct as many as they like without double-registration panics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		PipelineRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "stempulse_pipeline_runs_total",
			Help: "Completed pipeline recomputations.",
		}),
		PipelineErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "stempulse_pipeline_errors_total",
			Help: "Pipeline runs that failed to load or join the inputs.",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "stempulse_cache_hits_total",
			Help: "Requests served from the memoized pipeline result.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stempulse_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// Observe records one request's latency under its route and status.
func (m *Metrics) Observe(route, status string, seconds float64) {
	m.RequestDuration.WithLabelValues(route, status).Observe(seconds)
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
