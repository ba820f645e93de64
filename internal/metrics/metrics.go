// Package metrics records conversion counters on a private Prometheus
// registry and writes them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for conversion runs.
type Metrics struct {
	registry *prometheus.Registry

	// Conversion outcomes by schema version and result ("ok" or an error kind)
	Conversions *prometheus.CounterVec

	// Registers emitted by schema version
	Registers *prometheus.CounterVec

	// Reserved fields excluded from the emitted documents
	ReservedFields prometheus.Counter

	// Full conversion latency, from opening the input to the renamed output
	ConvertLatency prometheus.Histogram
}

// New creates a Metrics instance on a fresh registry, so independent
// applications never share counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "irgen_conversions_total",
			Help: "Total conversions by schema version and result",
		}, []string{"version", "result"}),

		Registers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "irgen_registers_emitted_total",
			Help: "Total registers written to output documents",
		}, []string{"version"}),

		ReservedFields: factory.NewCounter(prometheus.CounterOpts{
			Name: "irgen_reserved_fields_total",
			Help: "Total reserved fields excluded from output documents",
		}),

		ConvertLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "irgen_convert_duration_seconds",
			Help:    "Duration of one input conversion",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveConversion records the outcome of one conversion.
func (m *Metrics) ObserveConversion(version, result string, d time.Duration) {
	if m != nil {
		m.Conversions.WithLabelValues(version, result).Inc()
		m.ConvertLatency.Observe(d.Seconds())
	}
}

// AddRegisters counts emitted registers.
func (m *Metrics) AddRegisters(version string, n int) {
	if m != nil {
		m.Registers.WithLabelValues(version).Add(float64(n))
	}
}

// AddReserved counts excluded reserved fields.
func (m *Metrics) AddReserved(n int) {
	if m != nil {
		m.ReservedFields.Add(float64(n))
	}
}

// Registry exposes the underlying registry, for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
