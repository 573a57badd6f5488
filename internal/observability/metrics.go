package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialnet_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// AggregationFailures counts aggregate operations aborted by a failed lookup.
	AggregationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialnet_aggregation_failures_total",
		Help: "Total number of follow-graph and feed aggregates that failed",
	}, []string{"operation"})

	// AggregationLatency records aggregate latency by operation.
	AggregationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialnet_aggregation_latency_seconds",
		Help:    "Latency of follow-graph and feed aggregates in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// UploadsTotal counts upload outcomes by target kind and result.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialnet_uploads_total",
		Help: "Total number of uploads by target and outcome",
	}, []string{"target", "outcome"})

	// AuthFailures counts rejected bearer tokens by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialnet_auth_failures_total",
		Help: "Total number of rejected authentication attempts by reason",
	}, []string{"reason"})
)
