// Package metrics holds the Prometheus collectors exported on /metrics.
//
// Metrics:
//   - finsight_http_requests_total{method, route, status}
//   - finsight_http_request_duration_seconds{method, route}
//   - finsight_storage_active_backend{backend} - 1 for the live backend, 0 otherwise
//   - finsight_storage_switches_total{to}
//   - finsight_ai_requests_total{operation, outcome}
//   - finsight_ai_fallbacks_total{operation}
//   - finsight_ws_connections
//   - finsight_ws_dropped_frames_total
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsight_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finsight_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	StorageActiveBackend = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "finsight_storage_active_backend",
			Help: "Which storage backend is serving requests (1 = active)",
		},
		[]string{"backend"},
	)

	StorageSwitchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsight_storage_switches_total",
			Help: "Total number of storage backend swaps",
		},
		[]string{"to"},
	)

	AIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsight_ai_requests_total",
			Help: "Total number of language model calls",
		},
		[]string{"operation", "outcome"},
	)

	AIFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsight_ai_fallbacks_total",
			Help: "Total number of AI results replaced by a static fallback",
		},
		[]string{"operation"},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "finsight_ws_connections",
			Help: "Number of open WebSocket connections",
		},
	)

	WSDroppedFrames = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "finsight_ws_dropped_frames_total",
			Help: "Frames dropped because a connection's send queue was full",
		},
	)
)

// SetActiveBackend flips the active backend gauge to name.
func SetActiveBackend(name string) {
	for _, b := range []string{"memory", "mongodb"} {
		v := 0.0
		if b == name {
			v = 1
		}
		StorageActiveBackend.WithLabelValues(b).Set(v)
	}
}
