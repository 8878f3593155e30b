package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RegistrationMetrics records counters around item submission.
type RegistrationMetrics struct {
	duration  *prometheus.HistogramVec
	submitted *prometheus.CounterVec
	replays   *prometheus.CounterVec
	soldOut   *prometheus.CounterVec
}

// NewRegistrationMetrics registers the submission metrics on the provided registerer.
func NewRegistrationMetrics(reg prometheus.Registerer) *RegistrationMetrics {
	if reg == nil {
		return &RegistrationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "item_submission_duration_seconds",
		Help:    "Duration of order item submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"offering"})
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "item_submissions_total",
		Help: "Order items accepted and stored.",
	}, []string{"offering"})
	replays := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "item_submission_replays_total",
		Help: "Duplicate submissions answered from the stored item.",
	}, []string{"offering"})
	soldOut := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "item_sold_out_conflicts_total",
		Help: "Submissions rejected because the offering ran out of inventory.",
	}, []string{"offering"})
	reg.MustRegister(duration, submitted, replays, soldOut)
	return &RegistrationMetrics{
		duration:  duration,
		submitted: submitted,
		replays:   replays,
		soldOut:   soldOut,
	}
}

// ObserveDuration records how long the named offering's submission took.
func (m *RegistrationMetrics) ObserveDuration(offering string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(offering)).Observe(duration.Seconds())
}

// IncSubmitted increments the accepted-submission counter.
func (m *RegistrationMetrics) IncSubmitted(offering string) {
	if m == nil || m.submitted == nil {
		return
	}
	m.submitted.WithLabelValues(normalizeLabel(offering)).Inc()
}

// IncReplayed increments the duplicate-replay counter.
func (m *RegistrationMetrics) IncReplayed(offering string) {
	if m == nil || m.replays == nil {
		return
	}
	m.replays.WithLabelValues(normalizeLabel(offering)).Inc()
}

// IncSoldOut increments the sold-out conflict counter.
func (m *RegistrationMetrics) IncSoldOut(offering string) {
	if m == nil || m.soldOut == nil {
		return
	}
	m.soldOut.WithLabelValues(normalizeLabel(offering)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
