// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SelectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_requests_total",
			Help: "Total number of ranking requests by outcome",
		},
		[]string{"status"},
	)

	PumpsEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "selection_pumps_evaluated_total",
			Help: "Total number of pumps considered across ranking requests",
		},
	)

	ExclusionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_exclusions_total",
			Help: "Total number of pump exclusions by primary reason",
		},
		[]string{"reason"},
	)

	SelectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "selection_duration_seconds",
			Help:    "Duration of a full ranking pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_cache_requests_total",
			Help: "Ranking cache lookups by result",
		},
		[]string{"result"},
	)

	CatalogPumps = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_pumps",
			Help: "Number of pump models in the active catalog snapshot",
		},
	)

	CatalogRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refreshes_total",
			Help: "Catalog snapshot refreshes by outcome",
		},
		[]string{"status"},
	)
)
