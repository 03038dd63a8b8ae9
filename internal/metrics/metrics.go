// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRequestsTotal counts handled HTTP requests by route, method and status.
var HTTPRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "matgateway_http_requests_total",
		Help: "Total number of HTTP requests handled by the gateway",
	},
	[]string{"path", "method", "status"},
)

// HTTPRequestDuration records request latency by route and method.
var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "matgateway_http_request_duration_seconds",
		Help:    "Latency in seconds of HTTP requests handled by the gateway",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"path", "method"},
)

// UpstreamRequestsTotal counts calls against the materials database by
// collection and outcome (ok, error).
var UpstreamRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "matgateway_upstream_requests_total",
		Help: "Total number of requests sent to the materials database",
	},
	[]string{"collection", "outcome"},
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		UpstreamRequestsTotal,
	)
}
