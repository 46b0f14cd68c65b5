// Package metrics exposes the cup's Prometheus counters.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "football_cup"

// Cup holds the counters recorded by the progression services. A nil *Cup
// records nothing.
type Cup struct {
	registry *prometheus.Registry

	phasesGenerated *prometheus.CounterVec
	resultsRecorded *prometheus.CounterVec
	integrityErrors *prometheus.CounterVec
	groupDraws      prometheus.Counter
}

func New() *Cup {
	registry := prometheus.NewRegistry()
	c := &Cup{
		registry: registry,
		phasesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phases_generated_total",
			Help:      "Elimination rounds generated, by phase and pairing mode.",
		}, []string{"phase", "manual"}),
		resultsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_recorded_total",
			Help:      "Match results recorded, by phase.",
		}, []string{"phase"}),
		integrityErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrity_errors_total",
			Help:      "Engine data-integrity failures, by operation.",
		}, []string{"operation"}),
		groupDraws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_draws_total",
			Help:      "Group draws performed.",
		}),
	}
	registry.MustRegister(
		c.phasesGenerated,
		c.resultsRecorded,
		c.integrityErrors,
		c.groupDraws,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Cup) PhaseGenerated(phase string, manual bool) {
	if c == nil {
		return
	}
	c.phasesGenerated.WithLabelValues(phase, strconv.FormatBool(manual)).Inc()
}

func (c *Cup) ResultRecorded(phase string) {
	if c == nil {
		return
	}
	c.resultsRecorded.WithLabelValues(phase).Inc()
}

func (c *Cup) IntegrityError(operation string) {
	if c == nil {
		return
	}
	c.integrityErrors.WithLabelValues(operation).Inc()
}

func (c *Cup) GroupsDrawn() {
	if c == nil {
		return
	}
	c.groupDraws.Inc()
}

// Registry returns the registry backing the counters.
func (c *Cup) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Cup) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
