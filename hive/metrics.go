package hive

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instrumentation a Merger reports through, in
// the field-of-pre-registered-collectors style pebble's wal.Metrics uses. A
// nil *Metrics disables instrumentation entirely; every call site nil-checks
// before touching it.
type Metrics struct {
	// StepLatency measures the wall-clock cost of one Next call.
	StepLatency prometheus.Histogram
	// CursorOpenLatency measures the cost of opening one source file
	// (base, delta, or an original-file fragment during compaction).
	CursorOpenLatency prometheus.Histogram
	// FilteredInvalid counts events skipped because their transaction
	// failed the ValidTxnList check.
	FilteredInvalid prometheus.Counter
	// Collapsed counts events skipped because a newer event for the same
	// row already won the merge.
	Collapsed prometheus.Counter
}

// NewMetrics constructs a Metrics with every collector registered under
// namespace/subsystem, ready to pass to prometheus.Registerer.MustRegister
// (or to leave unregistered for tests).
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		StepLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "step_latency_seconds",
			Help:      "Latency of a single merge step (one call to Merger.Next).",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
		CursorOpenLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cursor_open_latency_seconds",
			Help:      "Latency of opening one source file for merging.",
			Buckets:   prometheus.DefBuckets,
		}),
		FilteredInvalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "filtered_invalid_total",
			Help:      "Events skipped because their transaction was not in the valid-transaction list.",
		}),
		Collapsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "collapsed_total",
			Help:      "Events skipped because a newer event for the same row won the merge.",
		}),
	}
}

// Collectors returns every collector in m, for bulk registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.StepLatency, m.CursorOpenLatency, m.FilteredInvalid, m.Collapsed}
}
