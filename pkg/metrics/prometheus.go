// Package metrics provides Prometheus metrics for the forgewatch pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric for the service.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	enabled   bool
	registry  prometheus.Registerer

	// Pipeline metrics
	unitsProcessed   prometheus.Counter
	decisionsTotal   *prometheus.CounterVec
	degradedOutputs  *prometheus.CounterVec
	inferenceLatency *prometheus.HistogramVec
	tickDuration     prometheus.Histogram
	stateTransitions *prometheus.CounterVec

	// History buffer
	historySize     prometheus.Gauge
	historyCapacity prometheus.Gauge
	historyEvicted  prometheus.Counter

	// Downstream publishing
	publishedTotal prometheus.Counter
	publishDrops   *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "forgewatch",
		subsystem: "pipeline",
		buckets:   prometheus.DefBuckets,
		enabled:   true,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.register()
	return m
}

func (m *Manager) register() {
	factory := promauto.With(m.registry)

	m.unitsProcessed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "units_processed_total",
		Help: "Units that completed a full tick (inference plus decision).",
	})
	m.decisionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "decisions_total",
		Help: "Maintenance decisions by action.",
	}, []string{"action"})
	m.degradedOutputs = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "degraded_outputs_total",
		Help: "Model outputs replaced by a worst-case sentinel, by model.",
	}, []string{"model"})
	m.inferenceLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "inference_latency_seconds",
		Help:    "Per-adapter inference latency.",
		Buckets: m.buckets,
	}, []string{"model"})
	m.tickDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "tick_duration_seconds",
		Help:    "Duration of one full stream tick.",
		Buckets: m.buckets,
	})
	m.stateTransitions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "state_transitions_total",
		Help: "Orchestrator state transitions, by target state.",
	}, []string{"state"})

	m.historySize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "history",
		Name: "entries",
		Help: "Entries currently retained in the history buffer.",
	})
	m.historyCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "history",
		Name: "capacity",
		Help: "Configured history buffer capacity.",
	})
	m.historyEvicted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "history",
		Name: "evicted_total",
		Help: "Entries evicted from the history buffer (FIFO).",
	})

	m.publishedTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "publish",
		Name: "results_total",
		Help: "Results handed to downstream consumer queues.",
	})
	m.publishDrops = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "publish",
		Name: "drops_total",
		Help: "Results dropped because a consumer queue was full, by consumer.",
	}, []string{"consumer"})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name: "requests_total",
		Help: "HTTP requests by endpoint and status code.",
	}, []string{"endpoint", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name:    "request_duration_seconds",
		Help:    "HTTP request duration by endpoint.",
		Buckets: m.buckets,
	}, []string{"endpoint"})
}

// GetRegistry returns the custom registry backing the global manager, for
// serving via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers over the global manager.

func RecordUnitProcessed() {
	if globalManager.enabled {
		globalManager.unitsProcessed.Inc()
	}
}

func RecordDecision(action string) {
	if globalManager.enabled {
		globalManager.decisionsTotal.WithLabelValues(action).Inc()
	}
}

func RecordDegradedOutput(modelName string) {
	if globalManager.enabled {
		globalManager.degradedOutputs.WithLabelValues(modelName).Inc()
	}
}

func ObserveInferenceLatency(modelName string, seconds float64) {
	if globalManager.enabled {
		globalManager.inferenceLatency.WithLabelValues(modelName).Observe(seconds)
	}
}

func ObserveTickDuration(seconds float64) {
	if globalManager.enabled {
		globalManager.tickDuration.Observe(seconds)
	}
}

func RecordStateTransition(state string) {
	if globalManager.enabled {
		globalManager.stateTransitions.WithLabelValues(state).Inc()
	}
}

func UpdateHistorySize(n int) {
	if globalManager.enabled {
		globalManager.historySize.Set(float64(n))
	}
}

func UpdateHistoryCapacity(n int) {
	if globalManager.enabled {
		globalManager.historyCapacity.Set(float64(n))
	}
}

func RecordHistoryEviction() {
	if globalManager.enabled {
		globalManager.historyEvicted.Inc()
	}
}

func RecordPublished() {
	if globalManager.enabled {
		globalManager.publishedTotal.Inc()
	}
}

func RecordPublishDrop(consumer string) {
	if globalManager.enabled {
		globalManager.publishDrops.WithLabelValues(consumer).Inc()
	}
}

func RecordHTTPRequest(endpoint, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, status).Inc()
	}
}

func ObserveHTTPDuration(endpoint string, seconds float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint).Observe(seconds)
	}
}
