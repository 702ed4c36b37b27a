package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	DiagnosticClassifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_classifications_total",
			Help: "Completed quiz classifications by outcome and source",
		},
		[]string{"stage", "bottleneck", "source"},
	)

	// DiagnosticFallbackRecommendations counts results whose stage and
	// bottleneck pair has no dedicated offer and got the default one.
	DiagnosticFallbackRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_fallback_recommendations_total",
			Help: "Classifications served the default offer because their pair has none",
		},
		[]string{"stage", "bottleneck"},
	)

	RemoteClassifierRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_remote_classifier_requests_total",
			Help: "Remote classifier lookups by outcome (hit, cache_hit, error, incompatible)",
		},
		[]string{"outcome"},
	)

	NotificationDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_deliveries_total",
			Help: "Result notifications by channel (email, event) and status",
		},
		[]string{"channel", "status"},
	)
)
