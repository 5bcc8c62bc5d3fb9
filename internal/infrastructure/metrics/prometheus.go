// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "movieverse"

var (
	// CacheOperationsTotal tracks response-cache operations.
	// Labels:
	//   - operation: get, set, delete, invalidate
	//   - status: hit, miss, success, error
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of response cache operations",
		},
		[]string{"operation", "status"},
	)

	// QueueJobsTotal tracks background job lifecycle events.
	// Labels:
	//   - kind: create-movie, bulk-create-movies
	//   - status: enqueued, fallback, processed, failed
	QueueJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_jobs_total",
			Help:      "Total number of background queue jobs by lifecycle event",
		},
		[]string{"kind", "status"},
	)

	// MovieWritesTotal tracks write-path outcomes.
	// Labels:
	//   - operation: create, update, delete
	//   - path: direct, queued
	MovieWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movie_writes_total",
			Help:      "Total number of movie write operations by execution path",
		},
		[]string{"operation", "path"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet        = "get"
	CacheOpSet        = "set"
	CacheOpDelete     = "delete"
	CacheOpInvalidate = "invalidate"
)

// Queue job status constants.
const (
	JobStatusEnqueued  = "enqueued"
	JobStatusFallback  = "fallback"
	JobStatusProcessed = "processed"
	JobStatusFailed    = "failed"
)

// Write path constants.
const (
	WriteOpCreate = "create"
	WriteOpUpdate = "update"
	WriteOpDelete = "delete"

	WritePathDirect = "direct"
	WritePathQueued = "queued"
)
