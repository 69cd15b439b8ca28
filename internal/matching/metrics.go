package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	discoveryActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_discovery_actions_total",
			Help: "Total like/pass/favorite actions recorded",
		},
		[]string{"action"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_mutual_matches_total",
			Help: "Total mutual matches created",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of compatibility scores served",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	candidatesFiltered = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_eligible_candidates",
			Help:    "Eligible candidates remaining after filtering, per request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	discoveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "matching_discovery_duration_seconds",
			Help: "End-to-end discovery request computation time",
		},
	)

	configDriftTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_config_drift_total",
			Help: "Matching config snapshots observed with weights not summing to 100",
		},
	)
)

func RecordDiscoveryAction(action string) {
	discoveryActionsTotal.WithLabelValues(action).Inc()
}

func RecordMatch() {
	matchesTotal.Inc()
}

func RecordCompatibilityScore(score int) {
	compatibilityScores.Observe(float64(score))
}

func RecordEligibleCandidates(count int) {
	candidatesFiltered.Observe(float64(count))
}

func RecordDiscoveryDuration(d time.Duration) {
	discoveryDuration.Observe(d.Seconds())
}

func RecordConfigDrift() {
	configDriftTotal.Inc()
}
