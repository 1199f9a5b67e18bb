// Package metrics provides Prometheus instrumentation for the moderator:
// check throughput and outcomes, detection confidence, and the success rate
// of alert writes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ChecksTotal counts moderated messages, labeled by result:
	// "clean" or "violation".
	ChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_checks_total",
		Help: "Total number of messages moderated",
	}, []string{"result"})

	// ViolationsTotal counts violations by type: "phone", "email", "both".
	ViolationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_violations_total",
		Help: "Total number of flagged messages by violation type",
	}, []string{"type"})

	// ActionsTotal counts review decisions: "deliver", "sanitize", "block".
	ActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_actions_total",
		Help: "Total number of review decisions by action",
	}, []string{"action"})

	// Confidence records the confidence score of flagged messages.
	Confidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "moderation_confidence",
		Help:    "Confidence score of flagged messages",
		Buckets: []float64{50, 70, 80, 90, 100},
	})

	// CheckLatency records engine latency in seconds.
	CheckLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "moderation_check_latency_seconds",
		Help:    "Content moderation latency in seconds",
		Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
	})

	// AlertWritesTotal counts fan-out writes by step and outcome ("ok", "error").
	AlertWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_alert_writes_total",
		Help: "Total number of alert and notification writes",
	}, []string{"step", "outcome"})

	// RateLimitedTotal counts HTTP requests rejected by the rate limiter.
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moderation_rate_limited_total",
		Help: "Total number of rate-limited moderation requests",
	})
)

func init() {
	prometheus.MustRegister(
		ChecksTotal,
		ViolationsTotal,
		ActionsTotal,
		Confidence,
		CheckLatency,
		AlertWritesTotal,
		RateLimitedTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
