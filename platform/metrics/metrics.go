// Package metrics exposes Prometheus counters for the lead pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "leadportal"

// Outcome labels.
const (
	OutcomeAccepted      = "accepted"
	OutcomeInvalid       = "invalid"
	OutcomePersistFailed = "persist_failed"

	OutcomeResolved = "resolved"
	OutcomeUnknown  = "unknown"
	OutcomeSkipped  = "skipped"

	OutcomeSent   = "sent"
	OutcomeFailed = "failed"

	OutcomeSuccess = "success"
)

// LeadMetrics counts pipeline outcomes. A nil *LeadMetrics is a no-op.
type LeadMetrics struct {
	intakeTotal       *prometheus.CounterVec
	geoLookupTotal    *prometheus.CounterVec
	notificationTotal *prometheus.CounterVec
	deletionTotal     *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		intakeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_intake_total",
			Help:      "Lead submissions by outcome",
		}, []string{"outcome"}),
		geoLookupTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_geo_lookup_total",
			Help:      "Country lookups by outcome",
		}, []string{"outcome"}),
		notificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_notification_total",
			Help:      "Lead notification emails by outcome",
		}, []string{"outcome"}),
		deletionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_deletion_total",
			Help:      "Lead deletion attempts by strategy and outcome",
		}, []string{"method", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.intakeTotal, m.geoLookupTotal, m.notificationTotal, m.deletionTotal)
	return m
}

func (m *LeadMetrics) ObserveIntake(outcome string) {
	if m == nil {
		return
	}
	m.intakeTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveGeoLookup(outcome string) {
	if m == nil {
		return
	}
	m.geoLookupTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveNotification(outcome string) {
	if m == nil {
		return
	}
	m.notificationTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveDeletion(method string, success bool) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailed
	}
	m.deletionTotal.WithLabelValues(method, outcome).Inc()
}
