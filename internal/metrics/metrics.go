// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QuizSubmissions counts scored quizzes by resulting level.
	QuizSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpath_quiz_submissions_total",
			Help: "Total number of scored quiz submissions",
		},
		[]string{"level"},
	)

	// TasksAssigned counts task assignments by description source.
	TasksAssigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpath_tasks_assigned_total",
			Help: "Total number of tasks assigned",
		},
		[]string{"source"}, // source: llm/offline
	)

	// TaskTransitions counts lifecycle operations by outcome.
	TaskTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpath_task_transitions_total",
			Help: "Total number of task lifecycle operations",
		},
		[]string{"op", "result"}, // result: ok/noop/rejected/error
	)

	// Notifications counts notification attempts per channel.
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpath_notifications_total",
			Help: "Total number of notification attempts",
		},
		[]string{"channel", "status"}, // status: sent/failed
	)

	// HTTPRequestDuration observes API latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "learnpath_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
