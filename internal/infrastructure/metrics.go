package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal counts requests by method, route and status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes request latency by method and route
	HTTPRequestDuration *prometheus.HistogramVec

	// DatasetRows reports the number of records in the loaded table
	DatasetRows prometheus.Gauge

	// DashboardQueries counts aggregate recomputations by resource
	DashboardQueries *prometheus.CounterVec
}

// NewMetrics creates a metrics container with its own registry,
// including the standard Go and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vcpulse",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests processed.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vcpulse",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vcpulse",
			Name:      "dataset_rows",
			Help:      "Number of records in the loaded dataset.",
		}),
		DashboardQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vcpulse",
			Name:      "dashboard_queries_total",
			Help:      "Dashboard aggregate computations by resource.",
		}, []string{"resource"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DatasetRows,
		m.DashboardQueries,
	)

	return m
}

// Handler returns the HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
