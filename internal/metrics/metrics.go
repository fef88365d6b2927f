// Package metrics counts pipeline activity with Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scribe/internal/event"
)

// Observer implements the pipeline dispatch observer over a private
// registry, so tests and embedders never collide on global collector state.
type Observer struct {
	registry *prometheus.Registry
	records  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewObserver constructs an observer with registered collectors.
func NewObserver() *Observer {
	registry := prometheus.NewRegistry()
	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribe_records_dispatched_total",
			Help: "Total records dispatched, by sink and severity.",
		},
		[]string{"sink", "level"},
	)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribe_sink_write_failures_total",
			Help: "Total sink write failures, by sink.",
		},
		[]string{"sink"},
	)
	registry.MustRegister(records, failures)
	return &Observer{registry: registry, records: records, failures: failures}
}

func (o *Observer) Dispatched(sink string, level event.Severity) {
	o.records.WithLabelValues(sink, level.String()).Inc()
}

func (o *Observer) WriteFailed(sink string) {
	o.failures.WithLabelValues(sink).Inc()
}

// Handler serves the collected metrics in the Prometheus text format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}
