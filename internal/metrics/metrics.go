// Package metrics defines the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assetdesk_http_requests_total",
		Help: "Total number of HTTP requests handled.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assetdesk_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// OpenAssignments tracks the number of assignments without a return.
	OpenAssignments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "assetdesk_open_assignments",
		Help: "Number of assignments currently open.",
	})

	// OverdueAssignments tracks open assignments past their expected return.
	OverdueAssignments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "assetdesk_overdue_assignments",
		Help: "Number of open assignments past their expected return date.",
	})
)
