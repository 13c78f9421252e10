// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuestionsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storebot_questions_resolved_total",
			Help: "Total number of questions resolved, by the rule that answered",
		},
		[]string{"rule"},
	)

	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storebot_resolve_duration_seconds",
			Help:    "Duration of question resolution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"rule"},
	)

	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storebot_lookup_duration_seconds",
			Help:    "Duration of store lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	LookupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storebot_lookup_failures_total",
			Help: "Total number of store lookups that could not reach the store",
		},
		[]string{"kind"},
	)

	LookupCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storebot_lookup_cache_hits_total",
			Help: "Total number of lookups answered from the cache",
		},
		[]string{"kind"},
	)

	ExtractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storebot_entity_extraction_failures_total",
			Help: "Total number of entity extraction failures",
		},
		[]string{"error_code"},
	)
)
