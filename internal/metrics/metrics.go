// Package metrics holds the Prometheus instruments for admission decisions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decision labels.
const (
	DecisionAllowed     = "allowed"
	DecisionDenied      = "denied"
	DecisionFailedOpen  = "failed_open"
	DecisionFailedClose = "failed_closed"
)

// Metrics holds all Prometheus metrics for the admission gate.
// Pass to components that need to record metrics.
type Metrics struct {
	Decisions       *prometheus.CounterVec
	LimiterDuration prometheus.Histogram
	AuditPublishes  *prometheus.CounterVec
}

// New creates and registers all metrics with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Decisions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quota",
				Name:      "decisions_total",
				Help:      "Admission decisions taken by the rate limit gate",
			},
			[]string{"decision"},
		),
		LimiterDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "quota",
				Name:      "limiter_duration_seconds",
				Help:      "Time spent in the limiter, including counter store round trips",
				Buckets:   prometheus.DefBuckets,
			},
		),
		AuditPublishes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quota",
				Name:      "audit_publishes_total",
				Help:      "Rejection events handed to the message broker",
			},
			[]string{"status"}, // ok/error
		),
	}
}

// NewNop returns metrics registered on a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
