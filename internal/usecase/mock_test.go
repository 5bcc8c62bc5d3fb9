package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/movieverse/internal/domain/model"
	"github.com/hszk-dev/movieverse/internal/domain/repository"
)

// mockMovieRepository provides a configurable mock for MovieRepository.
type mockMovieRepository struct {
	createFn     func(ctx context.Context, movie *model.Movie) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	listFn       func(ctx context.Context, q repository.ListQuery) ([]*model.Movie, error)
	countFn      func(ctx context.Context, q repository.ListQuery) (int64, error)
	updateFn     func(ctx context.Context, movie *model.Movie) error
	deleteFn     func(ctx context.Context, id uuid.UUID) error
	bulkCreateFn func(ctx context.Context, movies []*model.Movie) (int64, error)
}

func (m *mockMovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	if m.createFn != nil {
		return m.createFn(ctx, movie)
	}
	return nil
}

func (m *mockMovieRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrMovieNotFound
}

func (m *mockMovieRepository) List(ctx context.Context, q repository.ListQuery) ([]*model.Movie, error) {
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return nil, nil
}

func (m *mockMovieRepository) Count(ctx context.Context, q repository.ListQuery) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}

func (m *mockMovieRepository) Update(ctx context.Context, movie *model.Movie) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, movie)
	}
	return nil
}

func (m *mockMovieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockMovieRepository) BulkCreate(ctx context.Context, movies []*model.Movie) (int64, error) {
	if m.bulkCreateFn != nil {
		return m.bulkCreateFn(ctx, movies)
	}
	return int64(len(movies)), nil
}

// mockJobQueue provides a configurable mock for JobQueue.
type mockJobQueue struct {
	isAvailableFn       func() bool
	enqueueCreateFn     func(ctx context.Context, movie *model.Movie) (*repository.JobHandle, error)
	enqueueBulkCreateFn func(ctx context.Context, movies []*model.Movie) (*repository.JobHandle, error)
	consumeFn           func(ctx context.Context, handler func(job repository.MovieJob) error) error
}

func (m *mockJobQueue) IsAvailable() bool {
	if m.isAvailableFn != nil {
		return m.isAvailableFn()
	}
	return false
}

func (m *mockJobQueue) EnqueueCreate(ctx context.Context, movie *model.Movie) (*repository.JobHandle, error) {
	if m.enqueueCreateFn != nil {
		return m.enqueueCreateFn(ctx, movie)
	}
	return nil, repository.ErrQueueUnavailable
}

func (m *mockJobQueue) EnqueueBulkCreate(ctx context.Context, movies []*model.Movie) (*repository.JobHandle, error) {
	if m.enqueueBulkCreateFn != nil {
		return m.enqueueBulkCreateFn(ctx, movies)
	}
	return nil, repository.ErrQueueUnavailable
}

func (m *mockJobQueue) Consume(ctx context.Context, handler func(job repository.MovieJob) error) error {
	if m.consumeFn != nil {
		return m.consumeFn(ctx, handler)
	}
	return nil
}

func (m *mockJobQueue) Close() error { return nil }

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	generatePresignedUploadURLFn   func(ctx context.Context, key string, expiry time.Duration) (string, error)
	generatePresignedDownloadURLFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
	deleteFn                       func(ctx context.Context, key string) error
	existsFn                       func(ctx context.Context, key string) (bool, error)
}

func (m *mockObjectStorage) GeneratePresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedUploadURLFn != nil {
		return m.generatePresignedUploadURLFn(ctx, key, expiry)
	}
	return "http://example.com/upload", nil
}

func (m *mockObjectStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedDownloadURLFn != nil {
		return m.generatePresignedDownloadURLFn(ctx, key, expiry)
	}
	return "http://example.com/download", nil
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

// mockResponseCache is an in-memory ResponseCache recording operations.
type mockResponseCache struct {
	mu   sync.Mutex
	data map[string][]byte

	getErr error
	setErr error
}

func newMockResponseCache() *mockResponseCache {
	return &mockResponseCache{data: make(map[string][]byte)}
}

func (m *mockResponseCache) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *mockResponseCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockResponseCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockResponseCache) DeleteByPrefix(_ context.Context, prefixes ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				delete(m.data, key)
				break
			}
		}
	}
	return nil
}

func (m *mockResponseCache) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

func (m *mockResponseCache) Close() error { return nil }

func (m *mockResponseCache) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// validInput returns a MovieInput that passes model validation.
func validInput() model.MovieInput {
	return model.MovieInput{
		Title:       "The Shawshank Redemption",
		Description: "Two imprisoned men bond over a number of years.",
		Rating:      9.3,
		ReleaseDate: time.Date(1994, 9, 23, 0, 0, 0, 0, time.UTC),
		Duration:    142,
		Director:    "Frank Darabont",
		Genre:       []string{"Drama"},
		Cast:        []string{"Tim Robbins", "Morgan Freeman"},
	}
}
