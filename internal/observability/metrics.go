// Package observability defines the Prometheus metrics exposed at /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fuelbook", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fuelbook",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ProposalsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fuelbook", Name: "proposals_resolved_total", Help: "Proposals resolved by outcome"},
		[]string{"outcome"},
	)
)
