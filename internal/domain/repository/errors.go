package repository

import "errors"

var (
	// ErrMovieNotFound is returned when a movie cannot be found.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrDuplicateMovie is returned when attempting to create a movie that already exists.
	ErrDuplicateMovie = errors.New("movie already exists")

	// ErrQueueUnavailable is returned when the job queue is not configured
	// or its backend is currently unreachable. Callers are expected to fall
	// back to the direct write path.
	ErrQueueUnavailable = errors.New("job queue unavailable")

	// ErrEnqueueFailed is returned when the queue backend rejected a job
	// submission. Callers are expected to fall back to the direct write path.
	ErrEnqueueFailed = errors.New("job submission failed")

	// ErrBucketNotFound is returned when the configured storage bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
