// Package metrics provides Prometheus metrics for roadmap and analysis activity.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// roadmapsGeneratedTotal counts newly generated roadmaps.
	// Labels:
	//   - target_role: role id (e.g., "frontend-developer")
	roadmapsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmaps_generated_total",
			Help: "Total number of roadmaps generated",
		},
		[]string{"target_role"},
	)

	// milestoneUpdatesTotal counts milestone progress changes.
	// Labels:
	//   - action: "complete" or "incomplete"
	milestoneUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_milestone_updates_total",
			Help: "Total number of milestone progress updates",
		},
		[]string{"action"},
	)

	// statusTransitionsTotal counts roadmap lifecycle changes.
	// Labels:
	//   - to: status reached (e.g., "active", "completed")
	statusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_status_transitions_total",
			Help: "Total number of roadmap status transitions",
		},
		[]string{"to"},
	)

	// analysesProcessedTotal counts finished analysis attempts.
	// Labels:
	//   - extractor: skill extractor used (e.g., "openai", "keyword")
	//   - status: "completed", "retry" or "failed"
	analysesProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyses_processed_total",
			Help: "Total number of resume analysis attempts",
		},
		[]string{"extractor", "status"},
	)

	// analysisDuration records time spent processing one analysis.
	// Buckets: 0.1s to 120s
	analysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_processing_duration_seconds",
			Help:    "Duration of resume analysis processing in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"extractor"},
	)
)

func init() {
	prometheus.MustRegister(roadmapsGeneratedTotal)
	prometheus.MustRegister(milestoneUpdatesTotal)
	prometheus.MustRegister(statusTransitionsTotal)
	prometheus.MustRegister(analysesProcessedTotal)
	prometheus.MustRegister(analysisDuration)
}

// RecordRoadmapGenerated records a newly persisted roadmap
func RecordRoadmapGenerated(targetRole string) {
	roadmapsGeneratedTotal.WithLabelValues(targetRole).Inc()
}

// RecordMilestoneUpdate records a milestone toggle.
// Parameters:
//   - completed: true when the milestone was marked done
func RecordMilestoneUpdate(completed bool) {
	action := "incomplete"
	if completed {
		action = "complete"
	}
	milestoneUpdatesTotal.WithLabelValues(action).Inc()
}

// RecordStatusTransition records a roadmap reaching status to
func RecordStatusTransition(to string) {
	statusTransitionsTotal.WithLabelValues(to).Inc()
}

// RecordAnalysisProcessed records one processing attempt and its duration
func RecordAnalysisProcessed(extractor, status string, durationSeconds float64) {
	analysesProcessedTotal.WithLabelValues(extractor, status).Inc()
	analysisDuration.WithLabelValues(extractor).Observe(durationSeconds)
}
