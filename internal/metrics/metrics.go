// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchAttempts counts adapter invocations made by fallback chains.
	// result is "success" or the failure's error kind.
	FetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_fetch_attempts_total",
			Help: "Adapter invocations by domain, adapter and result",
		},
		[]string{"domain", "adapter", "result"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_fetch_duration_seconds",
			Help:    "Adapter invocation latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"domain", "adapter"},
	)

	// DomainOutcomes counts completed domain pipelines by source (live, fallback,
	// mock) or "failure".
	DomainOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_domain_outcomes_total",
			Help: "Completed domain refreshes by outcome source",
		},
		[]string{"domain", "source"},
	)

	DomainLastUpdated = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dashboard_domain_last_updated_timestamp_seconds",
			Help: "Unix time of the last completed refresh per domain",
		},
		[]string{"domain"},
	)

	RefreshCoalesced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_refresh_coalesced_total",
			Help: "Refresh requests ignored because the domain was already fetching",
		},
		[]string{"domain"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dashboard_circuit_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests served by route and status",
		},
		[]string{"method", "route", "status"},
	)
)
