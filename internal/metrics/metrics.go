package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_sessions_started_total",
			Help: "Total number of intake sessions started",
		},
		[]string{"mode"},
	)

	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_turns_processed_total",
			Help: "Total number of user turns processed, by resulting action",
		},
		[]string{"mode", "action"},
	)

	ModelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_model_calls_total",
			Help: "Total number of next-question model calls",
		},
		[]string{"outcome"},
	)

	ModelLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "intake_model_call_duration_seconds",
			Help: "Duration of next-question model calls in seconds",
		},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of application submission attempts",
		},
		[]string{"outcome"},
	)

	TurnsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_turns_in_flight",
			Help: "Number of user turns currently being processed",
		},
	)
)
