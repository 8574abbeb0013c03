package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Config configures metric registration.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	revisionsCommitted *prometheus.CounterVec
	writeConflicts     *prometheus.CounterVec
}

// New registers the domain instruments on the provided registry.
func New(cfg Config, registry *prometheus.Registry) (*Metrics, error) {
	labels := prometheus.Labels{
		"service": normalizeServiceName(cfg.ServiceName),
	}

	revisionsCommitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "tracera_revisions_committed_total",
		Help:        "Revisions committed to the store, by entity kind.",
		ConstLabels: labels,
	}, []string{"kind"})
	if err := registry.Register(revisionsCommitted); err != nil {
		return nil, err
	}

	writeConflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "tracera_write_conflicts_total",
		Help:        "Writes rejected due to uniqueness or revision conflicts, by entity kind.",
		ConstLabels: labels,
	}, []string{"kind"})
	if err := registry.Register(writeConflicts); err != nil {
		return nil, err
	}

	return &Metrics{
		revisionsCommitted: revisionsCommitted,
		writeConflicts:     writeConflicts,
	}, nil
}

// RecordRevisionCommitted increments the committed revision count for a kind.
func (m *Metrics) RecordRevisionCommitted(kind string) {
	if m == nil {
		return
	}
	m.revisionsCommitted.WithLabelValues(strings.TrimSpace(kind)).Inc()
}

// RecordWriteConflict increments the conflict count for a kind.
func (m *Metrics) RecordWriteConflict(kind string) {
	if m == nil {
		return
	}
	m.writeConflicts.WithLabelValues(strings.TrimSpace(kind)).Inc()
}

// HTTPMetrics instruments inbound HTTP traffic.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP instruments on the provided registry.
func NewHTTPMetrics(cfg Config, registry *prometheus.Registry) (*HTTPMetrics, error) {
	labels := prometheus.Labels{
		"service": normalizeServiceName(cfg.ServiceName),
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "tracera_http_requests_total",
		Help:        "HTTP requests served, by method, route and status.",
		ConstLabels: labels,
	}, []string{"method", "route", "status"})
	if err := registry.Register(requests); err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "tracera_http_request_duration_seconds",
		Help:        "HTTP request latency, by method and route.",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: labels,
	}, []string{"method", "route"})
	if err := registry.Register(duration); err != nil {
		return nil, err
	}

	return &HTTPMetrics{requests: requests, duration: duration}, nil
}

// GinMiddleware records request counts and latency per route.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(method, route, status).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// NewRegistry builds the process metric registry with standard collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func normalizeServiceName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "tracera"
	}
	return name
}
