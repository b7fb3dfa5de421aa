// Package iometrics defines Prometheus metrics of the taxonomy store and
// ingestion runs, and exports them in node_exporter textfile format.
package iometrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry encapsulates metrics creation and registration.
type Registry struct {
	R prometheus.Registerer
}

// NewCounter returns a new created and registered Prometheus Counter.
func (mr Registry) NewCounter(c prometheus.CounterOpts) prometheus.Counter {
	pm := prometheus.NewCounter(c)
	mr.R.MustRegister(pm)
	return pm
}

// NewCounterVec returns a new created and registered Prometheus
// CounterVec.
func (mr Registry) NewCounterVec(
	c prometheus.CounterOpts,
	labels []string,
) *prometheus.CounterVec {
	pm := prometheus.NewCounterVec(c, labels)
	mr.R.MustRegister(pm)
	return pm
}

// NewGaugeVec returns a new created and registered Prometheus GaugeVec.
func (mr Registry) NewGaugeVec(
	g prometheus.GaugeOpts,
	labels []string,
) *prometheus.GaugeVec {
	pm := prometheus.NewGaugeVec(g, labels)
	mr.R.MustRegister(pm)
	return pm
}

// NewHistogram returns a new and registered Prometheus Histogram.
func (mr Registry) NewHistogram(h prometheus.HistogramOpts) prometheus.Histogram {
	pm := prometheus.NewHistogram(h)
	mr.R.MustRegister(pm)
	return pm
}
