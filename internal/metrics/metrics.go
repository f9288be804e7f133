// Package metrics provides Prometheus metrics for the risk engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "anchor"

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	// Bus metrics
	EnvelopesPublished *prometheus.CounterVec
	EnvelopesDropped   *prometheus.CounterVec

	// Trigger metrics
	TriggersFired   prometheus.Counter
	TriggersStarved prometheus.Counter

	// Assessment metrics
	AssessmentsTotal *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram

	// Extractor metrics
	ExtractorDegraded *prometheus.CounterVec

	// Session metrics
	SessionsActive prometheus.Gauge

	// Bridge metrics
	BridgeForwarded *prometheus.CounterVec
}

// Default is the global metrics instance.
var Default = New()

// New creates and registers all engine metrics.
func New() *Metrics {
	return &Metrics{
		EnvelopesPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_published_total",
			Help:      "Envelopes delivered to a subscriber, by topic",
		}, []string{"topic"}),
		EnvelopesDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_dropped_total",
			Help:      "Envelopes dropped because a subscriber buffer was full, by topic",
		}, []string{"topic"}),

		TriggersFired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_fired_total",
			Help:      "Analysis triggers that produced an assessment",
		}),
		TriggersStarved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_starved_total",
			Help:      "Trigger checks that found too little accumulated text",
		}),

		AssessmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Risk assessments emitted, by level",
		}, []string{"level"}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one extract-and-aggregate pass",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}),

		ExtractorDegraded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractor_degraded_total",
			Help:      "Extractor runs scored as degraded zero, by extractor",
		}, []string{"extractor"}),

		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently held in the registry",
		}),

		BridgeForwarded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_forwarded_total",
			Help:      "Envelopes forwarded by the NATS bridge, by direction",
		}, []string{"direction"}),
	}
}

// RecordPublish records an envelope delivered to a subscriber.
func (m *Metrics) RecordPublish(topic string) {
	m.EnvelopesPublished.WithLabelValues(topic).Inc()
}

// RecordDrop records an envelope dropped at a full subscriber buffer.
func (m *Metrics) RecordDrop(topic string) {
	m.EnvelopesDropped.WithLabelValues(topic).Inc()
}

// RecordTrigger records the outcome of one trigger check.
func (m *Metrics) RecordTrigger(fired bool) {
	if fired {
		m.TriggersFired.Inc()
	} else {
		m.TriggersStarved.Inc()
	}
}

// RecordAssessment records an emitted assessment and its analysis latency.
func (m *Metrics) RecordAssessment(level string, seconds float64) {
	m.AssessmentsTotal.WithLabelValues(level).Inc()
	m.AnalysisDuration.Observe(seconds)
}

// RecordDegraded records an extractor treated as absent for one trigger.
func (m *Metrics) RecordDegraded(extractor string) {
	m.ExtractorDegraded.WithLabelValues(extractor).Inc()
}

// RecordBridge records a bridge forward ("inbound" or "outbound").
func (m *Metrics) RecordBridge(direction string) {
	m.BridgeForwarded.WithLabelValues(direction).Inc()
}
