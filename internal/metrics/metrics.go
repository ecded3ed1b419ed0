package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsAnalyzed counts ingested sessions by verdict tier.
	SessionsAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "anticheat",
		Name:      "sessions_analyzed_total",
		Help:      "Number of gameplay sessions analyzed, by risk level.",
	}, []string{"risk_level"})

	// AnomaliesDetected counts sessions whose verdict was anomalous.
	AnomaliesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "anticheat",
		Name:      "anomalies_detected_total",
		Help:      "Number of sessions flagged anomalous, by risk level.",
	}, []string{"risk_level"})

	// BaselinesEstablished counts one-shot baseline transitions.
	BaselinesEstablished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anticheat",
		Name:      "baselines_established_total",
		Help:      "Number of player baselines established.",
	})

	// IngestConflicts counts optimistic-concurrency retries at the
	// persistence boundary.
	IngestConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anticheat",
		Name:      "ingest_conflicts_total",
		Help:      "Number of profile write conflicts encountered during ingest.",
	})
)
