// Package observability wires structured logging and Prometheus metrics
// for the dashboard backend.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PollCycles counts poll cycles by outcome ("ok" or "error").
	PollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightme_poll_cycles_total",
		Help: "Poll cycles executed, labeled by outcome",
	}, []string{"outcome"})

	// FlightsReturned tracks how many aircraft the last cycles admitted.
	FlightsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flightme_flights_returned",
		Help:    "Aircraft admitted per successful poll cycle",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	// TokenRefreshes counts credential fetches against the OAuth endpoint.
	TokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightme_token_refreshes_total",
		Help: "New OAuth credentials fetched (cache misses)",
	})

	// LookupFailures counts per-aircraft metadata lookups that degraded
	// to Unknown.
	LookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightme_metadata_lookup_failures_total",
		Help: "Aircraft metadata lookups that failed or timed out",
	})

	// CycleDuration measures end-to-end poll cycle latency.
	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flightme_poll_cycle_seconds",
		Help:    "End-to-end poll cycle latency",
		Buckets: prometheus.DefBuckets,
	})
)
