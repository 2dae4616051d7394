package reqflow

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request lifecycle and
// the cache bridge. All record methods are safe on a nil receiver, so an
// unconfigured controller pays no metric cost.
type MetricsCollector struct {
	firesTotal       *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	requestsInFlight *prometheus.GaugeVec
	requestDuration  *prometheus.HistogramVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheWrites *prometheus.CounterVec

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		firesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "reqflow_fires_total",
				Help: "Total number of fire invocations",
			},
			[]string{"trigger", "method", "tag"},
		),
		transitionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "reqflow_transitions_total",
				Help: "Total number of lifecycle transitions",
			},
			[]string{"status"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reqflow_requests_in_flight",
				Help: "Number of transport calls currently in flight",
			},
			[]string{"method", "tag"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reqflow_request_duration_seconds",
				Help:    "Duration of transport calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code"},
		),
		cacheHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "reqflow_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"tag"},
		),
		cacheMisses: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "reqflow_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"tag"},
		),
		cacheWrites: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "reqflow_cache_writes_total",
				Help: "Total number of cache write intents dispatched",
			},
			[]string{"tag"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "reqflow_errors_total",
				Help: "Total number of errors by type",
			},
			[]string{"type"},
		),
	}
}

// RecordFire counts a fire invocation by trigger source.
func (m *MetricsCollector) RecordFire(trigger, method, tag string) {
	if m == nil {
		return
	}
	m.firesTotal.WithLabelValues(trigger, method, tag).Inc()
}

// RecordTransition counts a lifecycle transition.
func (m *MetricsCollector) RecordTransition(status Status) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(status.String()).Inc()
}

// RecordRequestStart tracks a transport call entering flight.
func (m *MetricsCollector) RecordRequestStart(method, tag string) {
	if m == nil {
		return
	}
	m.requestsInFlight.WithLabelValues(method, tag).Inc()
}

// RecordRequestEnd tracks a transport call leaving flight.
func (m *MetricsCollector) RecordRequestEnd(method, tag string) {
	if m == nil {
		return
	}
	m.requestsInFlight.WithLabelValues(method, tag).Dec()
}

// RecordRequestDuration observes a completed transport call.
func (m *MetricsCollector) RecordRequestDuration(method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, strconv.Itoa(statusCode)).Observe(duration.Seconds())
}

// RecordCacheHit counts a cache hit for tag.
func (m *MetricsCollector) RecordCacheHit(tag string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(tag).Inc()
}

// RecordCacheMiss counts a cache miss for tag.
func (m *MetricsCollector) RecordCacheMiss(tag string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(tag).Inc()
}

// RecordCacheWrite counts a dispatched cache-write intent for tag.
func (m *MetricsCollector) RecordCacheWrite(tag string) {
	if m == nil {
		return
	}
	m.cacheWrites.WithLabelValues(tag).Inc()
}

// RecordError counts an error by type.
func (m *MetricsCollector) RecordError(errorType string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(errorType).Inc()
}
