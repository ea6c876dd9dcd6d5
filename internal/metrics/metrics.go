package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equiphire",
			Name:      "booking_transitions_total",
			Help:      "Successful booking transitions by target status.",
		},
		[]string{"to"},
	)

	transitionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equiphire",
			Name:      "booking_transition_failures_total",
			Help:      "Rejected booking transitions by failure kind.",
		},
		[]string{"reason"},
	)

	disputes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equiphire",
			Name:      "disputes_total",
			Help:      "Dispute lifecycle events.",
		},
		[]string{"event"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(transitions, transitionFailures, disputes)
	})
}

func IncTransition(to string) {
	transitions.WithLabelValues(to).Inc()
}

func IncTransitionFailure(reason string) {
	transitionFailures.WithLabelValues(reason).Inc()
}

func IncDispute(event string) {
	disputes.WithLabelValues(event).Inc()
}
