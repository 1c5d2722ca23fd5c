// Package metrics holds the Prometheus collectors of the compositing engine.
//
// Collectors live on a private registry. There is no HTTP listener: runs
// export the registry to a node_exporter textfile with WriteTextfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds all Prometheus metrics for a thumbforge process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	CompositionsTotal   *prometheus.CounterVec
	CompositionDuration prometheus.Histogram
	ImageDecodesTotal   *prometheus.CounterVec
	FontLoadsTotal      *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		CompositionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thumbforge_compositions_total",
				Help: "Compositions attempted",
			},
			[]string{"status"},
		),

		CompositionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "thumbforge_composition_duration_seconds",
				Help:    "Time to compose one thumbnail",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),

		ImageDecodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thumbforge_image_decodes_total",
				Help: "Background image decodes",
			},
			[]string{"status"},
		),

		FontLoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thumbforge_font_loads_total",
				Help: "Custom font loads",
			},
			[]string{"status"},
		),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveComposition records one composition attempt. Duration is only
// observed for successful compositions.
func (m *Metrics) ObserveComposition(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.CompositionsTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.CompositionDuration.Observe(d.Seconds())
	}
}

// ObserveDecode records one background decode.
func (m *Metrics) ObserveDecode(err error) {
	if m == nil {
		return
	}
	m.ImageDecodesTotal.WithLabelValues(status(err)).Inc()
}

// ObserveFontLoad records one font load.
func (m *Metrics) ObserveFontLoad(err error) {
	if m == nil {
		return
	}
	m.FontLoadsTotal.WithLabelValues(status(err)).Inc()
}

// WriteTextfile writes the registry in the text exposition format to path,
// atomically, for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
