package csmt

import "github.com/prometheus/client_golang/prometheus"

// Metrics is ambient instrumentation (SPEC_FULL.md §6), never required for
// correctness: a tree built with New/Import works identically whether or not
// a Metrics value is attached. Grounded on the shape of the teacher's own
// metrics/prometheus_exporter.go (counters for discrete events, a histogram
// for latency), rebuilt directly on prometheus/client_golang instead of the
// teacher's home-grown registry/exporter pair.
type Metrics struct {
	Gets             prometheus.Counter
	Updates          prometheus.Counter
	Deletes          prometheus.Counter
	ProofsGenerated  prometheus.Counter
	VerifyLatency    prometheus.Histogram
}

// NewMetrics constructs and registers a Metrics set on reg. Callers that
// don't want metrics simply never call this and never set Tree.metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Gets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csmt",
			Name:      "gets_total",
			Help:      "Number of Get/Has calls served.",
		}),
		Updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csmt",
			Name:      "updates_total",
			Help:      "Number of successful Update calls and UpdateAll batches that changed the tree.",
		}),
		Deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csmt",
			Name:      "deletes_total",
			Help:      "Number of successful Delete calls (no-ops excluded).",
		}),
		ProofsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csmt",
			Name:      "proofs_generated_total",
			Help:      "Number of Prove/ProveUpdatable/ProveCompact calls.",
		}),
		VerifyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "csmt",
			Name:      "verify_latency_seconds",
			Help:      "Wall-clock latency of host-side proof verification.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.Gets, m.Updates, m.Deletes, m.ProofsGenerated, m.VerifyLatency)
	return m
}

// WithMetrics attaches m to t; subsequent operations increment its counters.
// Passing nil detaches instrumentation.
func (t *Tree) WithMetrics(m *Metrics) *Tree {
	t.metrics = m
	return t
}
