// internal/common/metrics/metrics.go
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
)

// Staffing domain metrics.
var (
	ScreeningSurvivors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staffing_screening_survivors_total",
			Help: "Candidates remaining after each screening stage",
		},
		[]string{"stage"},
	)

	TeamCombinationsEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staffing_team_combinations_evaluated_total",
			Help: "Candidate teams scored by the proposal search",
		},
		[]string{"strategy"},
	)

	TeamSearchFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staffing_team_search_fallbacks_total",
			Help: "Searches that exceeded the combination ceiling and ran greedily",
		},
		[]string{"strategy"},
	)

	TeamProposals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staffing_team_proposals_total",
			Help: "Team proposals produced per strategy",
		},
		[]string{"strategy", "found"},
	)

	RepositoryCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staffing_repository_cache_lookups_total",
			Help: "Employee and project cache lookups by outcome",
		},
		[]string{"entity", "outcome"},
	)
)
