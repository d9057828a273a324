// Package metric exposes Prometheus instrumentation for the dispatch and
// publish paths.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the collectors and the Prometheus registry they live in.
type Registry struct {
	registry *prometheus.Registry

	interactionsTotal *prometheus.CounterVec
	dispatchSeconds   *prometheus.HistogramVec
	eventsTotal       *prometheus.CounterVec
	handlerErrors     *prometheus.CounterVec
	autocompleteTotal *prometheus.CounterVec
	publishTotal      *prometheus.CounterVec
}

// Outcome labels for the dispatch counters.
const (
	OutcomeHandled   = "handled"
	OutcomeInspected = "inspected"
	OutcomeUnmatched = "unmatched"
	OutcomeError     = "error"
)

// NewRegistry creates a Registry with all collectors registered on a fresh
// Prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.interactionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tescord_interactions_total",
		Help: "Interactions received, by kind and dispatch outcome.",
	}, []string{"kind", "outcome"})

	r.dispatchSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tescord_dispatch_duration_seconds",
		Help:    "Handler execution time for matched interactions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	r.eventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tescord_events_total",
		Help: "Platform events consumed from clients.",
	}, []string{"client"})

	r.handlerErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tescord_handler_errors_total",
		Help: "Handler panics and errors, by surface.",
	}, []string{"surface"})

	r.autocompleteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tescord_autocomplete_total",
		Help: "Autocomplete requests, by outcome.",
	}, []string{"outcome"})

	r.publishTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tescord_publish_total",
		Help: "Command publish attempts per client, by outcome.",
	}, []string{"client", "outcome"})

	r.registry.MustRegister(
		r.interactionsTotal,
		r.dispatchSeconds,
		r.eventsTotal,
		r.handlerErrors,
		r.autocompleteTotal,
		r.publishTotal,
	)
	return r
}

// ObserveInteraction records one dispatched interaction.
func (r *Registry) ObserveInteraction(kind, outcome string, seconds float64) {
	r.interactionsTotal.WithLabelValues(kind, outcome).Inc()
	if outcome == OutcomeHandled || outcome == OutcomeInspected {
		r.dispatchSeconds.WithLabelValues(kind).Observe(seconds)
	}
}

// IncEvent records one consumed platform event.
func (r *Registry) IncEvent(clientID string) {
	r.eventsTotal.WithLabelValues(clientID).Inc()
}

// IncHandlerError records a handler error or panic on the named surface
// (event, interaction, autocomplete).
func (r *Registry) IncHandlerError(surface string) {
	r.handlerErrors.WithLabelValues(surface).Inc()
}

// IncAutocomplete records one autocomplete round trip.
func (r *Registry) IncAutocomplete(outcome string) {
	r.autocompleteTotal.WithLabelValues(outcome).Inc()
}

// IncPublish records one publish attempt for a client.
func (r *Registry) IncPublish(clientID string, err error) {
	outcome := OutcomeHandled
	if err != nil {
		outcome = OutcomeError
	}
	r.publishTotal.WithLabelValues(clientID, outcome).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }
