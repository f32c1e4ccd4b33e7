// Package metrics exposes Prometheus instrumentation for sculpting and history.
//
// Collectors register with the default registry on package init, so the host
// only needs to mount promhttp.Handler() if it wants to scrape them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// History tier label values.
const (
	TierCommand  = "command"
	TierSnapshot = "snapshot"
)

var (
	StrokesCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sculpt_strokes_committed_total",
		Help: "Total number of brush strokes committed to command history",
	})

	StrokeVertices = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sculpt_stroke_vertices",
		Help:    "Number of vertices touched by a committed stroke",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	HistoryDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sculpt_history_depth",
		Help: "Current number of entries held by a history tier",
	}, []string{"tier"})

	HistoryOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sculpt_history_ops_total",
		Help: "Undo and redo operations applied per history tier",
	}, []string{"tier", "op"})

	HistoryEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sculpt_history_evictions_total",
		Help: "Entries dropped from the front of a full history tier",
	}, []string{"tier"})

	CommandPanics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sculpt_command_panics_total",
		Help: "Undo or redo closures that panicked and were recovered",
	})

	SnapshotDeduped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sculpt_snapshot_deduplicated_total",
		Help: "Snapshot requests skipped because the scene signature was unchanged",
	})

	RefresherSlices = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sculpt_spatial_refresh_slices_total",
		Help: "Time slices executed by the spatial index refresher",
	})

	RefresherRebuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sculpt_spatial_rebuild_duration_seconds",
		Help:    "Wall-clock duration of a single mesh BVH rebuild",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.05},
	})
)

// ObserveHistoryOp records an undo or redo on the given tier.
func ObserveHistoryOp(tier, op string) {
	HistoryOps.WithLabelValues(tier, op).Inc()
}

// SetHistoryDepth publishes the current length of a history tier.
func SetHistoryDepth(tier string, depth int) {
	HistoryDepth.WithLabelValues(tier).Set(float64(depth))
}
