// Package metrics wires Prometheus instrumentation for the funnel engine.
// All methods are nil-safe so components can run without metrics in tests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "funnelbot"

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	conversationTurns *prometheus.CounterVec
	escalations       *prometheus.CounterVec
	leadsCaptured     *prometheus.CounterVec
	followUps         prometheus.Counter
	assistantFailures *prometheus.CounterVec
	assistantLatency  prometheus.Histogram
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		conversationTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "conversation_turns_total",
			Help:      "Inbound messages processed, by channel.",
		}, []string{"channel"}),
		escalations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "escalations_total",
			Help:      "Turns flagged for human hand-off, by reason.",
		}, []string{"reason"}),
		leadsCaptured: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "captured_total",
			Help:      "Finalized leads emitted, by source tag.",
		}, []string{"source"}),
		followUps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "capture",
			Name:      "follow_up_questions_total",
			Help:      "Follow-up questions suggested by the capture policy.",
		}),
		assistantFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "provider_failures_total",
			Help:      "Generative provider failures, by kind.",
		}, []string{"kind"}),
		assistantLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "provider_latency_seconds",
			Help:      "Generative provider round-trip latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.conversationTurns,
		m.escalations,
		m.leadsCaptured,
		m.followUps,
		m.assistantFailures,
		m.assistantLatency,
	)
	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncTurn(channel string) {
	if m == nil {
		return
	}
	m.conversationTurns.WithLabelValues(channel).Inc()
}

func (m *Metrics) IncEscalation(reason string) {
	if m == nil || reason == "" {
		return
	}
	m.escalations.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncLeadCaptured(source string) {
	if m == nil {
		return
	}
	m.leadsCaptured.WithLabelValues(source).Inc()
}

func (m *Metrics) IncFollowUp() {
	if m == nil {
		return
	}
	m.followUps.Inc()
}

func (m *Metrics) IncAssistantFailure(kind string) {
	if m == nil {
		return
	}
	m.assistantFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveAssistantLatency(seconds float64) {
	if m == nil {
		return
	}
	m.assistantLatency.Observe(seconds)
}
