package iometrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gnlineage"

// Metrics holds counters shared by the store and the ingester. Every
// Metrics value owns its own registry, so several stores in one process
// (for example in tests) never collide.
type Metrics struct {
	reg *prometheus.Registry

	// Inserted counts records written to the store, by entity
	// ("nodes" or "links").
	Inserted *prometheus.CounterVec

	// Skipped counts records that were already stored, by entity.
	Skipped *prometheus.CounterVec

	// Lookups counts read operations by kind ("id", "name", "accession")
	// and outcome ("found", "not_found", "error").
	Lookups *prometheus.CounterVec

	// Retries counts repeated attempts after transient store failures.
	Retries prometheus.Counter

	// Unavailable counts operations that exhausted their retry budget.
	Unavailable prometheus.Counter

	// IngestSeconds is the duration of the last ingestion run by entity.
	IngestSeconds *prometheus.GaugeVec

	// BatchSize observes the number of records per written batch.
	BatchSize prometheus.Histogram
}

// New creates Metrics registered in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	mr := Registry{R: reg}

	return &Metrics{
		reg: reg,
		Inserted: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "inserted_total",
			Help:      "Number of records inserted into the store.",
		}, []string{"entity"}),
		Skipped: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "skipped_total",
			Help:      "Number of records that already existed in the store.",
		}, []string{"entity"}),
		Lookups: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "lookups_total",
			Help:      "Number of store lookups by kind and outcome.",
		}, []string{"kind", "outcome"}),
		Retries: mr.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "retries_total",
			Help:      "Number of retried store operations.",
		}),
		Unavailable: mr.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "unavailable_total",
			Help:      "Number of store operations that ran out of attempts.",
		}),
		IngestSeconds: mr.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "Duration of the last ingestion run.",
		}, []string{"entity"}),
		BatchSize: mr.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "batch_records",
			Help:      "Number of records in written batches.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 7),
		}),
	}
}

// Gatherer exposes the registry, for example to an HTTP handler or to
// tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.reg
}

// WriteTextfile writes all metrics to path in the textfile collector
// format of node_exporter. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return WriteError(path, err)
	}
	return nil
}
