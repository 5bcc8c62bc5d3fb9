package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/movieverse/internal/domain/model"
)

// ListQuery describes a filtered, sorted, paginated movie listing.
type ListQuery struct {
	// Search is a case-insensitive substring matched against title OR
	// description. Empty means no filter.
	Search string
	// SortBy is a whitelisted sort field. Empty means creation time.
	SortBy string
	// SortDesc selects descending order (the default for listings).
	SortDesc bool
	Limit    int
	Offset   int
}

// MovieRepository defines the interface for movie persistence operations.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type MovieRepository interface {
	// Create persists a new movie entity.
	// Returns ErrDuplicateMovie if the movie already exists.
	Create(ctx context.Context, movie *model.Movie) error

	// GetByID retrieves a movie by its unique identifier.
	// Returns nil and ErrMovieNotFound if the movie does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error)

	// List retrieves movies matching the query filter, in the query's sort
	// order, limited to the query's page window.
	List(ctx context.Context, q ListQuery) ([]*model.Movie, error)

	// Count returns the number of movies matching the query filter,
	// ignoring pagination.
	Count(ctx context.Context, q ListQuery) (int64, error)

	// Update persists changes to an existing movie entity.
	// Returns ErrMovieNotFound if the movie does not exist.
	Update(ctx context.Context, movie *model.Movie) error

	// Delete removes a movie by its identifier.
	// Returns ErrMovieNotFound if the movie does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// BulkCreate persists a batch of movies in a single operation.
	// Used by the background consumer and the seed command.
	BulkCreate(ctx context.Context, movies []*model.Movie) (int64, error)
}
