package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Command metrics
	CommandCalls    *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	CommandErrors   *prometheus.CounterVec

	// Engine metrics
	SearchMatches prometheus.Histogram
	WalkEntries   prometheus.Counter

	// Worker pool
	PoolInFlight prometheus.Gauge
}

// NewMetrics creates a new metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workspace_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "workspace_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		CommandCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workspace_command_calls_total",
				Help: "Total number of commands executed",
			},
			[]string{"tool", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "workspace_command_duration_seconds",
				Help:    "Command duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"tool"},
		),
		CommandErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workspace_command_errors_total",
				Help: "Total number of failed commands by error kind",
			},
			[]string{"tool", "kind"},
		),

		SearchMatches: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "workspace_search_matches",
				Help:    "Number of matches returned per search",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200, 500, 1000},
			},
		),
		WalkEntries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "workspace_walk_entries_total",
				Help: "Total number of entries produced by directory walks",
			},
		),

		PoolInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "workspace_dispatch_in_flight",
				Help: "Number of commands currently running in the worker pool",
			},
		),
	}
}

// Handler exposes the registry in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer returns the underlying registry for tests and embedding
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCommand records a finished command. kind is empty on success.
func (m *Metrics) RecordCommand(tool, kind string, duration time.Duration) {
	status := "success"
	if kind != "" {
		status = "failure"
		m.CommandErrors.WithLabelValues(tool, kind).Inc()
	}
	m.CommandCalls.WithLabelValues(tool, status).Inc()
	m.CommandDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordSearch records the size of a search result
func (m *Metrics) RecordSearch(matches int) {
	m.SearchMatches.Observe(float64(matches))
}

// RecordWalk adds produced walk entries
func (m *Metrics) RecordWalk(entries int) {
	m.WalkEntries.Add(float64(entries))
}
