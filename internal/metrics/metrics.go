// Package metrics records extraction outcomes for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK             = "ok"
	OutcomeFormatError    = "format_error"
	OutcomeNoText         = "no_text"
	OutcomeNoTransactions = "no_transactions"
	OutcomeError          = "error"
)

// Recorder holds the extraction collectors on a private registry so tests
// and multiple servers never collide on the default one.
type Recorder struct {
	registry     *prometheus.Registry
	extractions  *prometheus.CounterVec
	transactions prometheus.Counter
	duration     prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statement_ledger",
			Name:      "extractions_total",
			Help:      "Statement extractions by outcome.",
		}, []string{"outcome"}),
		transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "statement_ledger",
			Name:      "transactions_extracted_total",
			Help:      "Transactions recovered across all extractions.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "statement_ledger",
			Name:      "extraction_duration_seconds",
			Help:      "Wall time of one statement extraction.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	r.registry.MustRegister(
		r.extractions,
		r.transactions,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe records one extraction. A nil Recorder is a no-op.
func (r *Recorder) Observe(outcome string, transactions int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.extractions.WithLabelValues(outcome).Inc()
	r.transactions.Add(float64(transactions))
	r.duration.Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
