// Package coremetrics exposes the Prometheus instrumentation surface of
// the temporal-data engine: entity allocation volume, observer-notification
// volume, storage-materialization volume, and operator latency. These are
// coarse, process-wide package-level promauto variables — the core does
// not require a metrics server or scrape endpoint to exist; the
// variables simply accumulate against prometheus.DefaultRegisterer.
package coremetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntitiesAllocated counts fresh EntityId allocations across every
	// entity.Registry in the process.
	EntitiesAllocated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "datacore",
		Name:      "entities_allocated_total",
		Help:      "Total number of fresh EntityIds allocated by EnsureID.",
	})

	// ObserverNotifications counts the notifications series containers
	// fire through their Hook, partitioned by the container kind.
	ObserverNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "datacore",
		Name:      "observer_notifications_total",
		Help:      "Total number of observer notifications fired, by container kind.",
	}, []string{"kind"})

	// SeriesMaterializations counts View/Lazy -> Owning materializations,
	// partitioned by the backend kind being replaced.
	SeriesMaterializations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "datacore",
		Name:      "series_materializations_total",
		Help:      "Total number of storage materializations, by source backend kind.",
	}, []string{"backend"})

	// OperatorDuration observes wall-clock duration of range-query and
	// aggregation operators, partitioned by operator name.
	OperatorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "datacore",
		Name:      "operator_duration_seconds",
		Help:      "Duration of core operators (boolean algebra, peak, aggregation).",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operator"})
)
