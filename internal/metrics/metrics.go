package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SummariesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_summaries_generated_total",
			Help: "Weekly summary generations by result",
		},
		[]string{"result"},
	)

	FilesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_files_skipped_total",
			Help: "Vault files skipped during aggregation, by pass and reason",
		},
		[]string{"pass", "reason"},
	)

	SummaryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_summary_duration_milliseconds",
			Help:    "Time spent reading the vault and rendering the weekly summary",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	WorkerQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_worker_queue_depth",
			Help: "Pending summary jobs",
		},
	)

	WorkerDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_worker_dropped_total",
			Help: "Summary jobs dropped because the queue was full",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
