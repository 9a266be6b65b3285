// Package metrics provides Prometheus metrics for LogStack.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "logstack"

// Ingestion metrics
var (
	// LogsIngestedTotal counts accepted log entries by level and environment.
	LogsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "logs_total",
			Help:      "Total number of log entries ingested",
		},
		[]string{"level", "environment"},
	)

	// IngestRejectedTotal counts rejected submissions by reason.
	IngestRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rejected_total",
			Help:      "Total number of rejected log submissions",
		},
		[]string{"reason"},
	)

	// AlertsFiredTotal counts alerts created by trigger matching.
	AlertsFiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "alerts_fired_total",
			Help:      "Total number of alerts created by trigger matching",
		},
	)

	// NotifyFailuresTotal counts failed notification hand-offs.
	NotifyFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "failures_total",
			Help:      "Total number of failed alert notifications",
		},
	)
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)
