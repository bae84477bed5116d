// Package metrics exports validation activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-formvalidate/pkg/validation"
)

const namespace = "formvalidate"

// Collector implements validation.Observer on top of Prometheus vectors.
type Collector struct {
	ValidationsTotal   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

var _ validation.Observer = (*Collector)(nil)

// New registers the collector on the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collector on reg.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		ValidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Finished validations by entry point and outcome",
			},
			[]string{"op", "outcome"},
		),
		ValidationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Time spent validating, excluding debounce waits",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"op"},
		),
	}
}

// Observe records one finished validation.
func (c *Collector) Observe(op validation.Op, outcome validation.Outcome, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.ValidationsTotal.WithLabelValues(string(op), string(outcome)).Inc()
	c.ValidationDuration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
}
