package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultPrefix = "doi_dashboard"

// Metrics owns a private registry so tests and multiple routers never clash
// on duplicate registration.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ViewRendersTotal    *prometheus.CounterVec
	ExplorerCacheTotal  *prometheus.CounterVec
	DatasetRows         prometheus.Gauge
}

func New(prefix string) *Metrics {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		ViewRendersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_view_renders_total",
				Help: "Total number of dashboard view renders",
			},
			[]string{"view"},
		),

		ExplorerCacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_explorer_cache_total",
				Help: "Explorer cache lookups by result",
			},
			[]string{"result"},
		),

		DatasetRows: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_dataset_rows",
				Help: "Rows in the loaded inventory dataset",
			},
		),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordRender(view string) {
	m.ViewRendersTotal.WithLabelValues(view).Inc()
}

// RecordCacheLookup counts explorer cache hits and misses.
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ExplorerCacheTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) SetDatasetRows(n int) {
	m.DatasetRows.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
