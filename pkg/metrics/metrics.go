package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all logistics-service metrics
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Kafka metrics
	KafkaEventsPublished *prometheus.CounterVec

	// Engine metrics
	EngineRunDuration   *prometheus.HistogramVec
	FlowsGenerated      *prometheus.CounterVec
	QuoteLinesEmitted   *prometheus.CounterVec
	RuleActionsProduced *prometheus.CounterVec
	CrateSpecsComputed  *prometheus.CounterVec

	// External collaborator metrics
	ExternalCalls        *prometheus.CounterVec
	ExternalCallDuration *prometheus.HistogramVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "logistics",
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	// Register standard Go metrics
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	m.KafkaEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "kafka_events_published_total",
			Help:      "Total number of Kafka events published",
		},
		[]string{"service", "topic", "event_type", "status"},
	)

	m.EngineRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "engine_run_duration_seconds",
			Help:      "Duration of a single engine run in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
		},
		[]string{"service", "engine"},
	)

	m.FlowsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "flows_generated_total",
			Help:      "Total number of logistics flows generated",
		},
		[]string{"service", "flow_type"},
	)

	m.QuoteLinesEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "quote_lines_emitted_total",
			Help:      "Total number of quote lines emitted",
		},
		[]string{"service", "category", "source"},
	)

	m.RuleActionsProduced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "rule_actions_produced_total",
			Help:      "Total number of constraint rule actions produced",
		},
		[]string{"service", "action_type"},
	)

	m.CrateSpecsComputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "crate_specs_computed_total",
			Help:      "Total number of crate specifications computed",
		},
		[]string{"service", "crate_type"},
	)

	m.ExternalCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "external_calls_total",
			Help:      "Total number of calls to external collaborators",
		},
		[]string{"service", "collaborator", "status"},
	)

	m.ExternalCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "external_call_duration_seconds",
			Help:      "Duration of external collaborator calls in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "collaborator"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.KafkaEventsPublished,
		m.EngineRunDuration,
		m.FlowsGenerated,
		m.QuoteLinesEmitted,
		m.RuleActionsProduced,
		m.CrateSpecsComputed,
		m.ExternalCalls,
		m.ExternalCallDuration,
	)

	return m
}

// Handler returns the HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records a completed HTTP request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveEngineRun records the duration of an engine run
func (m *Metrics) ObserveEngineRun(engine string, duration time.Duration) {
	m.EngineRunDuration.WithLabelValues(m.serviceName, engine).Observe(duration.Seconds())
}

// ObserveExternalCall records a call to an external collaborator
func (m *Metrics) ObserveExternalCall(collaborator string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ExternalCalls.WithLabelValues(m.serviceName, collaborator, status).Inc()
	m.ExternalCallDuration.WithLabelValues(m.serviceName, collaborator).Observe(duration.Seconds())
}

// ObserveKafkaPublish records a Kafka publish attempt
func (m *Metrics) ObserveKafkaPublish(topic, eventType string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.KafkaEventsPublished.WithLabelValues(m.serviceName, topic, eventType, status).Inc()
}
