// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HandlerRunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handler_runs_completed_total",
			Help: "Total number of handler runs completed per event",
		},
		[]string{"handler"},
	)

	HandlerRunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handler_runs_failed_total",
			Help: "Total number of handler runs that exhausted their retries",
		},
		[]string{"handler", "error_code"},
	)

	HandlerRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "handler_run_duration_seconds",
			Help: "Duration of handler runs in seconds",
		},
		[]string{"handler"},
	)

	StepsMemoized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_steps_memoized_total",
			Help: "Steps skipped on replay because a recorded result existed",
		},
		[]string{"step"},
	)

	EventsDispatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "workflow_events_dispatched_total",
			Help: "Status-change events handed to the dispatcher",
		},
	)
)
