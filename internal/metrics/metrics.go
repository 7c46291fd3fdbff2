// Package metrics exposes the service's prometheus collectors
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transitlink"

// Turn outcomes
const (
	OutcomeContinue    = "continue"
	OutcomeEnd         = "end"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
)

var (
	turns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ussd",
		Name:      "turns_total",
		Help:      "USSD callbacks handled, by outcome.",
	}, []string{"outcome"})

	turnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ussd",
		Name:      "turn_duration_seconds",
		Help:      "Time spent producing a USSD response.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	flowSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ussd",
		Name:      "flow_steps_total",
		Help:      "Feature flow steps executed, by feature.",
	}, []string{"feature"})

	tasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tasks",
		Name:      "processed_total",
		Help:      "Post-response tasks, by kind and result.",
	}, []string{"kind", "result"})
)

// ObserveTurn records one handled callback
func ObserveTurn(outcome string, elapsed time.Duration) {
	turns.WithLabelValues(outcome).Inc()
	turnDuration.Observe(elapsed.Seconds())
}

// CountRateLimited records a callback rejected by the limiter
func CountRateLimited() {
	turns.WithLabelValues(OutcomeRateLimited).Inc()
}

// CountFlowStep records one flow step for feature
func CountFlowStep(feature string) {
	flowSteps.WithLabelValues(feature).Inc()
}

// CountTask records a finished, failed or dropped task
func CountTask(kind, result string) {
	tasks.WithLabelValues(kind, result).Inc()
}
