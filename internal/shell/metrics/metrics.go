// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the inventory workflows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests by route pattern, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	// HTTPDuration tracks request latency by route pattern and method.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"route", "method"})

	// WorkflowOutcomes counts workflow results, e.g.
	// {workflow="category_create", outcome="existing"}.
	WorkflowOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_workflow_outcomes_total",
		Help: "Total mutation workflow results by workflow and outcome",
	}, []string{"workflow", "outcome"})
)

// RecordOutcome increments the outcome counter for a workflow.
func RecordOutcome(workflow, outcome string) {
	WorkflowOutcomes.WithLabelValues(workflow, outcome).Inc()
}
