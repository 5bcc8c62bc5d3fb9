package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/movieverse/internal/domain/model"
	"github.com/hszk-dev/movieverse/internal/infrastructure/cache"
	"github.com/hszk-dev/movieverse/internal/infrastructure/metrics"
)

// CachedMovieServiceConfig holds configuration for CachedMovieService.
type CachedMovieServiceConfig struct {
	// CacheTTL is the TTL for cached read payloads, global across categories.
	CacheTTL time.Duration
}

// DefaultCachedMovieServiceConfig returns the default configuration.
func DefaultCachedMovieServiceConfig() CachedMovieServiceConfig {
	return CachedMovieServiceConfig{
		CacheTTL: 5 * time.Minute,
	}
}

// cachedMovieService wraps MovieService with response caching.
// Reads are cache-aside over marshaled JSON payloads; writes delegate first
// and invalidate afterwards, so invalidation always happens-after the
// mutation (or after enqueue acknowledgment on the queued path).
//
// Concurrent misses on the same key may each hit the store and each write
// the cache; last writer wins. There is no per-key build deduplication.
type cachedMovieService struct {
	delegate MovieService
	cache    cache.ResponseCache

	cacheTTL time.Duration
}

// NewCachedMovieService creates a new CachedMovieService wrapping the provided MovieService.
func NewCachedMovieService(
	delegate MovieService,
	responseCache cache.ResponseCache,
	cfg CachedMovieServiceConfig,
) MovieService {
	return &cachedMovieService{
		delegate: delegate,
		cache:    responseCache,
		cacheTTL: cfg.CacheTTL,
	}
}

// ListMovies implements the cache-aside pattern over listing payloads.
func (s *cachedMovieService) ListMovies(ctx context.Context, in ListMoviesInput) (*ListMoviesOutput, error) {
	in = in.normalize()
	key := cache.ListKey(cache.ListParams{
		Page:      in.Page,
		Limit:     in.Limit,
		Search:    in.Search,
		SortBy:    in.SortBy,
		SortOrder: in.SortOrder,
	})

	var cached ListMoviesOutput
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	out, err := s.delegate.ListMovies(ctx, in)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, key, out)
	return out, nil
}

// GetMovie implements the cache-aside pattern over single-movie payloads.
func (s *cachedMovieService) GetMovie(ctx context.Context, movieID uuid.UUID) (*model.Movie, error) {
	key := cache.MovieKey(movieID)

	var cached model.Movie
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	movie, err := s.delegate.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, key, movie)
	return movie, nil
}

// CreateMovie delegates and then invalidates the listing categories.
// Invalidation runs on both branches: after a direct insert, and after a
// successful enqueue acknowledgment (the queued creation has not yet
// landed, which is an accepted staleness window).
func (s *cachedMovieService) CreateMovie(ctx context.Context, createdBy uuid.UUID, in model.MovieInput) (*CreateMovieOutput, error) {
	out, err := s.delegate.CreateMovie(ctx, createdBy, in)
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	return out, nil
}

// UpdateMovie delegates and then invalidates the movie's own entry plus the
// listing categories.
func (s *cachedMovieService) UpdateMovie(ctx context.Context, movieID uuid.UUID, patch model.MovieUpdate) (*model.Movie, error) {
	movie, err := s.delegate.UpdateMovie(ctx, movieID, patch)
	if err != nil {
		return nil, err
	}

	s.invalidateMovie(ctx, movieID)
	s.invalidateListings(ctx)
	return movie, nil
}

// DeleteMovie delegates and then invalidates the movie's own entry plus the
// listing categories. A failed delete (including not-found) leaves the
// cache untouched.
func (s *cachedMovieService) DeleteMovie(ctx context.Context, movieID uuid.UUID) error {
	if err := s.delegate.DeleteMovie(ctx, movieID); err != nil {
		return err
	}

	s.invalidateMovie(ctx, movieID)
	s.invalidateListings(ctx)
	return nil
}

// PosterUploadURL delegates and invalidates the movie entry, which now
// carries the recorded poster key.
func (s *cachedMovieService) PosterUploadURL(ctx context.Context, movieID uuid.UUID) (*PosterUploadOutput, error) {
	out, err := s.delegate.PosterUploadURL(ctx, movieID)
	if err != nil {
		return nil, err
	}

	s.invalidateMovie(ctx, movieID)
	s.invalidateListings(ctx)
	return out, nil
}

// PosterDownloadURL delegates without caching. Presigned URLs are
// time-limited credentials, so a cached copy would outlive its validity.
func (s *cachedMovieService) PosterDownloadURL(ctx context.Context, movieID uuid.UUID) (*PosterDownloadOutput, error) {
	return s.delegate.PosterDownloadURL(ctx, movieID)
}

// readCache attempts a cache read, reporting whether v was populated.
// Cache errors degrade to a miss.
func (s *cachedMovieService) readCache(ctx context.Context, key string, v any) bool {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		slog.Warn("cache get failed, falling back to store", "key", key, "error", err.Error())
		return false
	}
	if data == nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		slog.Warn("discarding undecodable cache entry", "key", key, "error", err.Error())
		return false
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
	return true
}

// writeCache stores a payload; failures are logged, never propagated.
func (s *cachedMovieService) writeCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("failed to marshal cache payload", "key", key, "error", err.Error())
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		slog.Warn("failed to cache payload", "key", key, "error", err.Error())
		return
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
}

func (s *cachedMovieService) invalidateListings(ctx context.Context) {
	if err := s.cache.DeleteByPrefix(ctx, cache.ListCategories()...); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpInvalidate, metrics.CacheStatusError).Inc()
		slog.Warn("failed to invalidate listing caches", "error", err.Error())
		return
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpInvalidate, metrics.CacheStatusSuccess).Inc()
}

func (s *cachedMovieService) invalidateMovie(ctx context.Context, movieID uuid.UUID) {
	if err := s.cache.Delete(ctx, cache.MovieKey(movieID)); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusError).Inc()
		slog.Warn("failed to invalidate movie cache", "movie_id", movieID, "error", err.Error())
	}
}
