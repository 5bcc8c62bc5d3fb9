package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hszk-dev/movieverse/internal/domain/model"
	"github.com/hszk-dev/movieverse/internal/domain/repository"
	"github.com/hszk-dev/movieverse/internal/infrastructure/metrics"
)

var (
	// ErrPosterStorageDisabled is returned when poster upload is requested
	// but no object storage is configured.
	ErrPosterStorageDisabled = errors.New("poster storage is not configured")

	// ErrPosterNotFound is returned when a movie has no poster object, either
	// because no upload URL was ever issued or because the client never
	// completed the upload.
	ErrPosterNotFound = errors.New("poster not found")
)

// ListMoviesInput contains listing query parameters as supplied by the caller.
type ListMoviesInput struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// normalize applies the listing defaults: page 1, limit 10, newest first.
func (in ListMoviesInput) normalize() ListMoviesInput {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 {
		in.Limit = 10
	}
	if in.Limit > 100 {
		in.Limit = 100
	}
	if in.SortBy == "" {
		in.SortBy = "createdAt"
	}
	if in.SortOrder != "asc" {
		in.SortOrder = "desc"
	}
	return in
}

// ListMoviesOutput is the paginated listing result.
type ListMoviesOutput struct {
	Movies      []*model.Movie
	CurrentPage int
	TotalPages  int
	TotalMovies int64
}

// CreateMovieOutput is the typed result of a creation request. Exactly one
// of the two branches is populated: Movie for a direct insert, JobID for a
// queued creation. The branch taken is observable by callers and tests.
type CreateMovieOutput struct {
	Movie  *model.Movie
	JobID  string
	Queued bool
}

// PosterUploadOutput carries a presigned upload URL and the object key the
// poster will live under.
type PosterUploadOutput struct {
	UploadURL string
	Key       string
}

// PosterDownloadOutput carries a presigned download URL for a stored poster.
type PosterDownloadOutput struct {
	DownloadURL string
	Key         string
}

// MovieService defines the interface for movie business logic operations.
type MovieService interface {
	// ListMovies returns a filtered, sorted page of the catalog.
	ListMovies(ctx context.Context, in ListMoviesInput) (*ListMoviesOutput, error)

	// GetMovie retrieves a single movie by ID.
	GetMovie(ctx context.Context, movieID uuid.UUID) (*model.Movie, error)

	// CreateMovie persists a new movie, asynchronously via the job queue
	// when one is configured and reachable, synchronously otherwise. Queue
	// failures never surface to the caller; they trigger the direct path.
	CreateMovie(ctx context.Context, createdBy uuid.UUID, in model.MovieInput) (*CreateMovieOutput, error)

	// UpdateMovie applies a partial patch to an existing movie.
	UpdateMovie(ctx context.Context, movieID uuid.UUID, patch model.MovieUpdate) (*model.Movie, error)

	// DeleteMovie removes a movie.
	DeleteMovie(ctx context.Context, movieID uuid.UUID) error

	// PosterUploadURL issues a presigned upload URL for the movie's poster
	// and records the object key on the movie.
	PosterUploadURL(ctx context.Context, movieID uuid.UUID) (*PosterUploadOutput, error)

	// PosterDownloadURL issues a presigned download URL for the movie's
	// stored poster. Returns ErrPosterNotFound when the object is absent.
	PosterDownloadURL(ctx context.Context, movieID uuid.UUID) (*PosterDownloadOutput, error)
}

// MovieServiceConfig holds configuration for MovieService.
type MovieServiceConfig struct {
	PosterURLExpiry time.Duration
}

// DefaultMovieServiceConfig returns the default configuration.
func DefaultMovieServiceConfig() MovieServiceConfig {
	return MovieServiceConfig{
		PosterURLExpiry: 15 * time.Minute,
	}
}

type movieService struct {
	repo    repository.MovieRepository
	queue   repository.JobQueue
	storage repository.ObjectStorage

	posterURLExpiry time.Duration
}

// NewMovieService creates a new MovieService instance.
// queue and storage are optional; nil disables the queued creation path and
// the poster upload surface respectively.
func NewMovieService(
	repo repository.MovieRepository,
	queue repository.JobQueue,
	storage repository.ObjectStorage,
	cfg MovieServiceConfig,
) MovieService {
	return &movieService{
		repo:            repo,
		queue:           queue,
		storage:         storage,
		posterURLExpiry: cfg.PosterURLExpiry,
	}
}

// ListMovies runs the page query and the total count concurrently.
func (s *movieService) ListMovies(ctx context.Context, in ListMoviesInput) (*ListMoviesOutput, error) {
	in = in.normalize()

	q := repository.ListQuery{
		Search:   in.Search,
		SortBy:   in.SortBy,
		SortDesc: in.SortOrder != "asc",
		Limit:    in.Limit,
		Offset:   (in.Page - 1) * in.Limit,
	}

	var (
		movies []*model.Movie
		total  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movies, err = s.repo.List(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	totalPages := int((total + int64(in.Limit) - 1) / int64(in.Limit))

	return &ListMoviesOutput{
		Movies:      movies,
		CurrentPage: in.Page,
		TotalPages:  totalPages,
		TotalMovies: total,
	}, nil
}

// GetMovie retrieves a single movie by ID.
func (s *movieService) GetMovie(ctx context.Context, movieID uuid.UUID) (*model.Movie, error) {
	return s.repo.GetByID(ctx, movieID)
}

// CreateMovie validates the input and persists it, preferring the queued
// path. The queue is strictly an optimization: any enqueue error falls
// through to the direct insert instead of failing the request.
func (s *movieService) CreateMovie(ctx context.Context, createdBy uuid.UUID, in model.MovieInput) (*CreateMovieOutput, error) {
	movie, err := model.NewMovie(createdBy, in)
	if err != nil {
		return nil, err
	}

	if s.queue != nil && s.queue.IsAvailable() {
		handle, err := s.queue.EnqueueCreate(ctx, movie)
		if err == nil {
			metrics.MovieWritesTotal.WithLabelValues(metrics.WriteOpCreate, metrics.WritePathQueued).Inc()
			return &CreateMovieOutput{JobID: handle.ID, Queued: true}, nil
		}

		// Explicit fallback branch: the availability flag was stale or the
		// submission was rejected. Absorb the error and insert directly.
		metrics.QueueJobsTotal.WithLabelValues(string(repository.JobCreateMovie), metrics.JobStatusFallback).Inc()
		slog.Warn("enqueue failed, using direct insertion",
			"movie_id", movie.ID,
			"error", err.Error(),
		)
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	metrics.MovieWritesTotal.WithLabelValues(metrics.WriteOpCreate, metrics.WritePathDirect).Inc()
	return &CreateMovieOutput{Movie: movie}, nil
}

// UpdateMovie applies a validated partial patch to an existing movie.
func (s *movieService) UpdateMovie(ctx context.Context, movieID uuid.UUID, patch model.MovieUpdate) (*model.Movie, error) {
	movie, err := s.repo.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if err := movie.ApplyUpdate(patch); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}

	metrics.MovieWritesTotal.WithLabelValues(metrics.WriteOpUpdate, metrics.WritePathDirect).Inc()
	return movie, nil
}

// DeleteMovie removes a movie and its poster object, if any. Poster cleanup
// is best effort: a storage failure leaves an orphaned object, never a
// failed delete.
func (s *movieService) DeleteMovie(ctx context.Context, movieID uuid.UUID) error {
	if err := s.repo.Delete(ctx, movieID); err != nil {
		return err
	}

	if s.storage != nil {
		if err := s.storage.Delete(ctx, s.generatePosterKey(movieID)); err != nil {
			slog.Warn("failed to delete poster object",
				"movie_id", movieID,
				"error", err.Error(),
			)
		}
	}

	metrics.MovieWritesTotal.WithLabelValues(metrics.WriteOpDelete, metrics.WritePathDirect).Inc()
	return nil
}

// PosterUploadURL issues a presigned upload URL and records the poster key.
func (s *movieService) PosterUploadURL(ctx context.Context, movieID uuid.UUID) (*PosterUploadOutput, error) {
	if s.storage == nil {
		return nil, ErrPosterStorageDisabled
	}

	movie, err := s.repo.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}

	key := s.generatePosterKey(movieID)

	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, key, s.posterURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate presigned upload URL: %w", err)
	}

	movie.SetPosterURL(key)
	if err := s.repo.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("record poster key: %w", err)
	}

	return &PosterUploadOutput{
		UploadURL: uploadURL,
		Key:       key,
	}, nil
}

// PosterDownloadURL issues a presigned download URL for the stored poster.
// The movie must carry a recorded poster key, and the object must actually
// exist: an issued upload URL does not guarantee the client completed the
// upload.
func (s *movieService) PosterDownloadURL(ctx context.Context, movieID uuid.UUID) (*PosterDownloadOutput, error) {
	if s.storage == nil {
		return nil, ErrPosterStorageDisabled
	}

	movie, err := s.repo.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie.PosterURL == "" {
		return nil, ErrPosterNotFound
	}

	exists, err := s.storage.Exists(ctx, movie.PosterURL)
	if err != nil {
		return nil, fmt.Errorf("check poster object: %w", err)
	}
	if !exists {
		return nil, ErrPosterNotFound
	}

	downloadURL, err := s.storage.GeneratePresignedDownloadURL(ctx, movie.PosterURL, s.posterURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate presigned download URL: %w", err)
	}

	return &PosterDownloadOutput{
		DownloadURL: downloadURL,
		Key:         movie.PosterURL,
	}, nil
}

// generatePosterKey creates the storage key for a movie poster.
// Format: posters/{movie_id}
func (s *movieService) generatePosterKey(movieID uuid.UUID) string {
	return path.Join("posters", movieID.String())
}
