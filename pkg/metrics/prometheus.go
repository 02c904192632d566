// Package metrics provides Prometheus metrics for the podium standings service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	recomputeBuckets []float64
	httpBuckets      []float64
	enabled          bool
	registry         prometheus.Registerer

	// Standings computation
	recomputeTotal    *prometheus.CounterVec
	recomputeDuration *prometheus.HistogramVec
	resultsReplaced   prometheus.Counter
	resultsRepaired   *prometheus.CounterVec
	seasonsTotal      prometheus.Gauge

	// Storage
	storeErrors *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Runtime, collected by hand since the custom registry skips Go collectors
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "standings",
		recomputeBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 100},
		httpBuckets:      []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recomputeTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recompute_total",
		Help:      "Total number of full standings recomputations by operation",
	}, []string{"operation"})

	m.recomputeDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recompute_duration_milliseconds",
		Help:      "Duration of a full recomputation in milliseconds",
		Buckets:   m.recomputeBuckets,
	}, []string{"operation"})

	m.resultsReplaced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_replaced_total",
		Help:      "Total number of event result grids replaced",
	})

	m.resultsRepaired = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_repaired_total",
		Help:      "Result fields coerced or dropped by the normalizer, by kind",
	}, []string{"kind"})

	m.seasonsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seasons_total",
		Help:      "Number of seasons held by the store",
	})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Season store failures by operation",
	}, []string{"op"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.httpBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.httpBuckets,
	})
}

// RecordRecompute counts one recomputation and its duration.
func (m *Manager) RecordRecompute(operation string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.recomputeTotal.WithLabelValues(operation).Inc()
	m.recomputeDuration.WithLabelValues(operation).Observe(durationMs)
}

// RecordResultsReplaced counts one bulk replace of an event grid.
func (m *Manager) RecordResultsReplaced() {
	if !m.enabled {
		return
	}
	m.resultsReplaced.Inc()
}

// RecordResultsRepaired adds n repairs of the given kind.
func (m *Manager) RecordResultsRepaired(kind string, n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.resultsRepaired.WithLabelValues(kind).Add(float64(n))
}

// UpdateSeasonsTotal sets the number of stored seasons.
func (m *Manager) UpdateSeasonsTotal(n int) {
	if !m.enabled {
		return
	}
	m.seasonsTotal.Set(float64(n))
}

// RecordStoreError counts a failed store operation.
func (m *Manager) RecordStoreError(op string) {
	if !m.enabled {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an error response.
func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(n int) {
	if !m.enabled {
		return
	}
	m.systemGoroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime observes an average GC pause.
func (m *Manager) RecordSystemGCPauseTime(ms float64) {
	if !m.enabled {
		return
	}
	m.systemGCPauseTime.Observe(ms)
}

// RecordRecompute records a recomputation on the global manager.
func RecordRecompute(operation string, durationMs float64) {
	globalManager.RecordRecompute(operation, durationMs)
}

// RecordResultsReplaced records a grid replacement on the global manager.
func RecordResultsReplaced() { globalManager.RecordResultsReplaced() }

// RecordResultsRepaired records normalizer repairs on the global manager.
func RecordResultsRepaired(kind string, n int) { globalManager.RecordResultsRepaired(kind, n) }

// UpdateSeasonsTotal sets the season gauge on the global manager.
func UpdateSeasonsTotal(n int) { globalManager.UpdateSeasonsTotal(n) }

// RecordStoreError records a store failure on the global manager.
func RecordStoreError(op string) { globalManager.RecordStoreError(op) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records an HTTP error on the global manager.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.RecordHTTPError(endpoint, method, errorType)
}

// UpdateSystemMemoryUsage sets heap allocation on the global manager.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the goroutine count on the global manager.
func UpdateSystemGoroutineCount(n int) { globalManager.UpdateSystemGoroutineCount(n) }

// RecordSystemGCPauseTime records a GC pause on the global manager.
func RecordSystemGCPauseTime(ms float64) { globalManager.RecordSystemGCPauseTime(ms) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
