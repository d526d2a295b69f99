package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RescoresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podium_rescores_total",
		Help: "Completed participation recomputes, by contest format.",
	}, []string{"format"})

	RescoreFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "podium_rescore_failures_total",
		Help: "Participation recomputes that ended in an error.",
	})

	RescoreDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "podium_rescore_duration_seconds",
		Help:    "Wall time of a single participation recompute.",
		Buckets: prometheus.DefBuckets,
	})

	ScoreboardBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "podium_scoreboard_builds_total",
		Help: "Full scoreboard computations served.",
	})
)
