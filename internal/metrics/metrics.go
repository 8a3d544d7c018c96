// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClientRequestsTotal counts requests sent to the job service.
	ClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sprinkler_client_requests_total",
			Help: "Total number of requests sent to the sprinkler job service.",
		},
		[]string{"endpoint", "method", "code"}, // code is "error" when no response arrived
	)

	// ClientRequestDuration observes round-trip latency to the job service.
	ClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sprinkler_client_request_duration_seconds",
			Help:    "Latency of requests sent to the sprinkler job service.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// ListRefreshTotal counts view-model refreshes by outcome (ok/failed).
	ListRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sprinkler_list_refresh_total",
			Help: "Total number of list refreshes by list and result.",
		},
		[]string{"list", "result"},
	)

	// ListJobs is the number of entries a view-model currently holds.
	ListJobs = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sprinkler_list_jobs",
			Help: "Number of entries currently displayed per list.",
		},
		[]string{"list"},
	)

	// ConsoleRequestsTotal counts requests handled by the console server.
	ConsoleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sprinkler_console_requests_total",
			Help: "Total number of http requests handled by the console.",
		},
		[]string{"path", "method", "code"},
	)
)
