// Package observability holds the Prometheus collectors and OpenTelemetry tracing setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinelog_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cinelog_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SocialOperations counts social graph operations by name and outcome.
	SocialOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinelog_social_operations_total",
		Help: "Social graph operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// DegradedReads counts read operations that answered empty because the store failed.
	DegradedReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinelog_degraded_reads_total",
		Help: "Reads answered with an empty result after a store failure",
	}, []string{"operation"})

	// MetadataCacheResults counts metadata cache lookups by result (hit, miss, error).
	MetadataCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinelog_metadata_cache_results_total",
		Help: "Metadata provider cache lookups by result",
	}, []string{"result"})

	// MetadataRequestLatency records upstream metadata provider latency by endpoint.
	MetadataRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cinelog_metadata_request_latency_seconds",
		Help:    "Metadata provider request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	// WebSocketConnectionsTotal is the gauge of total WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cinelog_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinelog_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinelog_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// Outcome labels for SocialOperations.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
	OutcomeDegraded = "degraded"
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordSocialOperation increments the operation counter.
func RecordSocialOperation(operation, outcome string) {
	SocialOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordDegradedRead marks a read that swallowed a store failure.
func RecordDegradedRead(operation string) {
	DegradedReads.WithLabelValues(operation).Inc()
	SocialOperations.WithLabelValues(operation, OutcomeDegraded).Inc()
}
