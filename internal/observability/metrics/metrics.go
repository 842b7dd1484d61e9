// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obserrors "github.com/jobhuntos/jobhunt-api/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

const namespace = "jobhunt"

// Collector owns a private registry and the instruments registered on it.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	exports      *prometheus.CounterVec
	exportRows   prometheus.Counter
	cacheLookups *prometheus.CounterVec
}

// NewCollector builds a Collector with Go runtime and process metrics included.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "CSV exports by result and error class.",
		}, []string{"result", "error_class"}),
		exportRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_rows_total",
			Help:      "Data rows written by successful CSV exports.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Application cache lookups by outcome (hit, miss, error).",
		}, []string{"outcome"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests,
		c.latency,
		c.exports,
		c.exportRows,
		c.cacheLookups,
	)
	return c
}

// Registry returns the registry the instruments are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveRequest records one completed HTTP request. route should be the
// matched pattern, not the raw path, to keep label cardinality bounded.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordExport records the outcome of one CSV export.
func (c *Collector) RecordExport(rows int, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.exports.WithLabelValues(ResultError, obserrors.Classify(err)).Inc()
		return
	}
	c.exports.WithLabelValues(ResultSuccess, "").Inc()
	c.exportRows.Add(float64(rows))
}

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// RecordCacheLookup records a cache lookup outcome.
func (c *Collector) RecordCacheLookup(outcome string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(outcome).Inc()
}
