//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "depminer"

// PrometheusMetrics collects the counters of discovery runs. A nil
// *PrometheusMetrics is valid and records nothing.
type PrometheusMetrics struct {
	ErrorCalculations     *prometheus.CounterVec
	PartitionCacheLookups *prometheus.CounterVec
	Intersections         *prometheus.CounterVec
	PartitionCacheSize    prometheus.Gauge
	Dependencies          *prometheus.CounterVec
	NestedSearchSpaces    prometheus.Counter
	Resamples             prometheus.Counter
	SearchSpacesDone      prometheus.Counter
	PhaseDurations        *prometheus.HistogramVec
}

func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = NoopRegisterer
	}

	return &PrometheusMetrics{
		ErrorCalculations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "error_calculations_total",
			Help:      "Number of exact dependency error calculations",
		}, []string{"measure"}),
		PartitionCacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partition_cache_lookups_total",
			Help:      "Partition cache lookups by result",
		}, []string{"result"}), // hit, miss
		Intersections: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partition_intersections_total",
			Help:      "Partition intersections by kind",
		}, []string{"kind"}), // pairwise, nary
		PartitionCacheSize: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "partition_cache_size",
			Help:      "Number of cached partitions",
		}),
		Dependencies: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dependencies_discovered_total",
			Help:      "Registered minimal dependencies by kind",
		}, []string{"kind"}), // fd, ucc
		NestedSearchSpaces: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nested_search_spaces_total",
			Help:      "Number of nested search spaces created while trickling down",
		}),
		Resamples: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "focused_samples_total",
			Help:      "Number of focused agree set samples created",
		}),
		SearchSpacesDone: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_spaces_done_total",
			Help:      "Number of top level search spaces run to exhaustion",
		}),
		PhaseDurations: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_phase_duration_seconds",
			Help:      "Duration of search space phases",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"phase"}), // poll, ascend, trickle_down
	}
}

func (pm *PrometheusMetrics) ErrorCalculated(measure string) {
	if pm == nil {
		return
	}

	pm.ErrorCalculations.WithLabelValues(measure).Inc()
}

func (pm *PrometheusMetrics) PartitionCacheHit() {
	if pm == nil {
		return
	}

	pm.PartitionCacheLookups.WithLabelValues("hit").Inc()
}

func (pm *PrometheusMetrics) PartitionCacheMiss() {
	if pm == nil {
		return
	}

	pm.PartitionCacheLookups.WithLabelValues("miss").Inc()
}

func (pm *PrometheusMetrics) Intersected(kind string) {
	if pm == nil {
		return
	}

	pm.Intersections.WithLabelValues(kind).Inc()
}

func (pm *PrometheusMetrics) SetPartitionCacheSize(size int) {
	if pm == nil {
		return
	}

	pm.PartitionCacheSize.Set(float64(size))
}

func (pm *PrometheusMetrics) DependencyDiscovered(kind string) {
	if pm == nil {
		return
	}

	pm.Dependencies.WithLabelValues(kind).Inc()
}

func (pm *PrometheusMetrics) NestedSearchSpace() {
	if pm == nil {
		return
	}

	pm.NestedSearchSpaces.Inc()
}

func (pm *PrometheusMetrics) Resampled() {
	if pm == nil {
		return
	}

	pm.Resamples.Inc()
}

func (pm *PrometheusMetrics) SearchSpaceDone() {
	if pm == nil {
		return
	}

	pm.SearchSpacesDone.Inc()
}

// ObservePhase records the time spent in phase since start.
func (pm *PrometheusMetrics) ObservePhase(phase string, start time.Time) {
	if pm == nil {
		return
	}

	pm.PhaseDurations.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}
