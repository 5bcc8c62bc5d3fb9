package repository

import (
	"context"
	"time"

	"github.com/hszk-dev/movieverse/internal/domain/model"
)

// JobKind identifies the type of a background job.
type JobKind string

const (
	JobCreateMovie      JobKind = "create-movie"
	JobBulkCreateMovies JobKind = "bulk-create-movies"
)

// MovieJob is a deferred write submitted to the background queue.
// The submitting request hands ownership to the queue and keeps only the
// job identifier.
type MovieJob struct {
	ID         string         `json:"id"`
	Kind       JobKind        `json:"kind"`
	Movie      *model.Movie   `json:"movie,omitempty"`
	Movies     []*model.Movie `json:"movies,omitempty"`
	RetryCount int            `json:"retry_count"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

// JobHandle is the caller's reference to a submitted job.
type JobHandle struct {
	ID string
}

// JobQueue defines the interface for the optional background job queue.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type JobQueue interface {
	// IsAvailable reports best-effort backend availability. The flag may lag
	// the true backend state; enqueue calls can still fail while it reports
	// true, so callers must treat errors as a fallback signal rather than
	// relying on this check alone.
	IsAvailable() bool

	// EnqueueCreate submits a movie-creation job.
	// Returns ErrQueueUnavailable when the backend is not reachable, or
	// ErrEnqueueFailed (wrapped) when submission is rejected.
	EnqueueCreate(ctx context.Context, movie *model.Movie) (*JobHandle, error)

	// EnqueueBulkCreate submits a batch-creation job.
	EnqueueBulkCreate(ctx context.Context, movies []*model.Movie) (*JobHandle, error)

	// Consume drains jobs, invoking handler for each. Transient handler
	// failures are retried by the implementation; jobs that exhaust their
	// retry budget are reported as failed, not silently dropped.
	// Returns when the context is cancelled or the backend connection is lost.
	Consume(ctx context.Context, handler func(job MovieJob) error) error

	// Close gracefully closes the connection to the queue backend.
	Close() error
}
