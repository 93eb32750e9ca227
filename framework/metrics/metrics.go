// Package metrics provides Prometheus instrumentation for the resolver.
//
// Attach the collector as an observer and expose it over HTTP:
//
//	collector := metrics.New(registry)
//	resolver := container.NewResolver(classes, container.WithObserver(collector))
//	router.Mount("/metrics", metrics.Handler(registry))
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/exception"
)

const namespace = "inject"

// Collector turns resolver events into Prometheus series. It implements
// container.Observer.
type Collector struct {
	// Resolutions counts instances handed out, by class, mode
	// ("singleton" | "forced") and source ("cache" | "constructed").
	Resolutions *prometheus.CounterVec

	// Failures counts failed top-level resolutions by class and error kind.
	Failures *prometheus.CounterVec

	// Duration tracks how long constructing a class took, dependencies
	// included. Cache hits are not observed.
	Duration *prometheus.HistogramVec
}

// New creates a Collector and registers its metrics with reg. A nil reg
// leaves the metrics unregistered.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "container",
				Name:      "resolutions_total",
				Help:      "Total number of instances handed out by the resolver.",
			},
			[]string{"class", "mode", "source"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "container",
				Name:      "failures_total",
				Help:      "Total number of failed resolutions.",
			},
			[]string{"class", "kind"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "container",
				Name:      "construction_duration_seconds",
				Help:      "Time spent constructing a class, including its dependencies.",
				Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"class"},
		),
	}

	if reg != nil {
		reg.MustRegister(c.Resolutions, c.Failures, c.Duration)
	}
	return c
}

// Observe implements container.Observer.
func (c *Collector) Observe(e container.Event) {
	if e.Err != nil {
		c.Failures.WithLabelValues(e.Class, exception.Kind(e.Err)).Inc()
		return
	}

	mode := "singleton"
	if e.Forced {
		mode = "forced"
	}
	source := "constructed"
	if e.Cached {
		source = "cache"
	}
	c.Resolutions.WithLabelValues(e.Class, mode, source).Inc()

	if !e.Cached {
		c.Duration.WithLabelValues(e.Class).Observe(e.Duration.Seconds())
	}
}

// Handler returns the Prometheus scrape handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
