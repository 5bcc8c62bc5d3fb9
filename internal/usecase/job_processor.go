package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hszk-dev/movieverse/internal/domain/repository"
	"github.com/hszk-dev/movieverse/internal/infrastructure/cache"
)

// JobProcessor executes dequeued movie jobs. It performs the same direct
// persistence the synchronous path would have, off the request path, and
// invalidates the listing caches once the write has landed.
type JobProcessor struct {
	repo  repository.MovieRepository
	cache cache.ResponseCache
}

// NewJobProcessor creates a JobProcessor. responseCache is optional; a
// standalone worker without access to the API's cache passes nil (its
// listing entries then age out by TTL instead).
func NewJobProcessor(repo repository.MovieRepository, responseCache cache.ResponseCache) *JobProcessor {
	return &JobProcessor{
		repo:  repo,
		cache: responseCache,
	}
}

// Process handles a single dequeued job.
func (p *JobProcessor) Process(ctx context.Context, job repository.MovieJob) error {
	switch job.Kind {
	case repository.JobCreateMovie:
		if job.Movie == nil {
			return fmt.Errorf("job %s: missing movie payload", job.ID)
		}
		if err := p.repo.Create(ctx, job.Movie); err != nil {
			return fmt.Errorf("job %s: %w", job.ID, err)
		}

	case repository.JobBulkCreateMovies:
		if len(job.Movies) == 0 {
			return fmt.Errorf("job %s: empty bulk payload", job.ID)
		}
		count, err := p.repo.BulkCreate(ctx, job.Movies)
		if err != nil {
			return fmt.Errorf("job %s: %w", job.ID, err)
		}
		slog.Info("bulk creation completed", "job_id", job.ID, "count", count)

	default:
		return fmt.Errorf("job %s: unknown kind %q", job.ID, job.Kind)
	}

	p.invalidateListings(ctx)
	return nil
}

// invalidateListings clears the listing categories after a queued write
// lands, closing the staleness window opened at enqueue time.
func (p *JobProcessor) invalidateListings(ctx context.Context) {
	if p.cache == nil {
		return
	}
	if err := p.cache.DeleteByPrefix(ctx, cache.ListCategories()...); err != nil {
		slog.Warn("failed to invalidate listing caches after job", "error", err.Error())
	}
}
