package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects store-level prometheus metrics. A nil *Metrics is valid
// and records nothing, so instrumentation stays optional.
type Metrics struct {
	reads        *prometheus.CounterVec
	writes       *prometheus.CounterVec
	readRetries  *prometheus.CounterVec
	writeSeconds prometheus.Histogram
	lockWait     prometheus.Histogram
}

// NewMetrics creates a collector and registers it on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextclass_store_reads_total",
			Help: "Collection snapshot reads.",
		}, []string{"collection"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextclass_store_writes_total",
			Help: "Atomic collection writes.",
		}, []string{"collection"}),
		readRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextclass_store_read_retries_total",
			Help: "Read attempts retried after a transient failure.",
		}, []string{"collection"}),
		writeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nextclass_store_write_seconds",
			Help:    "Latency of atomic collection writes.",
			Buckets: prometheus.DefBuckets,
		}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nextclass_store_lock_wait_seconds",
			Help:    "Time spent waiting for a per-key lock.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.reads,
		m.writes,
		m.readRetries,
		m.writeSeconds,
		m.lockWait,
	)
	return m
}

func (m *Metrics) recordRead(collection string) {
	if m == nil {
		return
	}
	m.reads.WithLabelValues(collection).Inc()
}

func (m *Metrics) recordWrite(collection string, d time.Duration) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(collection).Inc()
	m.writeSeconds.Observe(d.Seconds())
}

func (m *Metrics) recordReadRetry(collection string) {
	if m == nil {
		return
	}
	m.readRetries.WithLabelValues(collection).Inc()
}

func (m *Metrics) recordLockWait(collection string, d time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.Observe(d.Seconds())
}
