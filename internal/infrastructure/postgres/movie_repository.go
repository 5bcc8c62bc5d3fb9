package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/movieverse/internal/domain/model"
	"github.com/hszk-dev/movieverse/internal/domain/repository"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// sortColumns whitelists API sort fields against table columns. Anything
// outside this map falls back to the creation-time default.
var sortColumns = map[string]string{
	"title":       "title",
	"rating":      "rating",
	"releaseDate": "release_date",
	"duration":    "duration",
	"createdAt":   "created_at",
}

const movieColumns = `id, title, description, rating, release_date, duration, director, genre, cast_members, poster_url, imdb_id, created_by, created_at, updated_at`

// MovieRepository implements repository.MovieRepository using PostgreSQL.
type MovieRepository struct {
	db DBTX
}

// NewMovieRepository creates a new MovieRepository instance.
func NewMovieRepository(db DBTX) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create persists a new movie entity.
func (r *MovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	const query = `
		INSERT INTO movies (` + movieColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.Rating,
		movie.ReleaseDate,
		movie.Duration,
		movie.Director,
		movie.Genre,
		movie.Cast,
		nullString(movie.PosterURL),
		nullString(movie.IMDBID),
		nullUUID(movie.CreatedBy),
		movie.CreatedAt,
		movie.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateMovie
		}
		return fmt.Errorf("failed to create movie: %w", err)
	}

	return nil
}

// GetByID retrieves a movie by its unique identifier.
func (r *MovieRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	const query = `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE id = $1
	`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie by ID: %w", err)
	}

	return movie, nil
}

// List retrieves movies matching the query filter, sorted and paginated.
func (r *MovieRepository) List(ctx context.Context, q repository.ListQuery) ([]*model.Movie, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + movieColumns + ` FROM movies`)

	args := make([]any, 0, 3)
	if q.Search != "" {
		args = append(args, likePattern(q.Search))
		sb.WriteString(` WHERE title ILIKE $1 OR description ILIKE $1`)
	}

	sb.WriteString(` ORDER BY ` + sortColumn(q.SortBy))
	if q.SortDesc {
		sb.WriteString(` DESC`)
	} else {
		sb.WriteString(` ASC`)
	}

	args = append(args, q.Limit)
	sb.WriteString(fmt.Sprintf(` LIMIT $%d`, len(args)))
	args = append(args, q.Offset)
	sb.WriteString(fmt.Sprintf(` OFFSET $%d`, len(args)))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var movies []*model.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}

	return movies, nil
}

// Count returns the number of movies matching the query filter.
func (r *MovieRepository) Count(ctx context.Context, q repository.ListQuery) (int64, error) {
	query := `SELECT COUNT(*) FROM movies`
	args := []any{}
	if q.Search != "" {
		query += ` WHERE title ILIKE $1 OR description ILIKE $1`
		args = append(args, likePattern(q.Search))
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}

	return count, nil
}

// Update persists changes to an existing movie entity.
func (r *MovieRepository) Update(ctx context.Context, movie *model.Movie) error {
	const query = `
		UPDATE movies
		SET title = $2, description = $3, rating = $4, release_date = $5,
		    duration = $6, director = $7, genre = $8, cast_members = $9,
		    poster_url = $10, imdb_id = $11, updated_at = $12
		WHERE id = $1
	`

	movie.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.Rating,
		movie.ReleaseDate,
		movie.Duration,
		movie.Director,
		movie.Genre,
		movie.Cast,
		nullString(movie.PosterURL),
		nullString(movie.IMDBID),
		movie.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrMovieNotFound
	}

	return nil
}

// Delete removes a movie by its identifier.
func (r *MovieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM movies WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrMovieNotFound
	}

	return nil
}

// BulkCreate persists a batch of movies using COPY.
func (r *MovieRepository) BulkCreate(ctx context.Context, movies []*model.Movie) (int64, error) {
	columns := []string{
		"id", "title", "description", "rating", "release_date", "duration",
		"director", "genre", "cast_members", "poster_url", "imdb_id",
		"created_by", "created_at", "updated_at",
	}

	rows := make([][]any, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, []any{
			m.ID, m.Title, m.Description, m.Rating, m.ReleaseDate, m.Duration,
			m.Director, m.Genre, m.Cast, nullString(m.PosterURL),
			nullString(m.IMDBID), nullUUID(m.CreatedBy), m.CreatedAt, m.UpdatedAt,
		})
	}

	count, err := r.db.CopyFrom(ctx, pgx.Identifier{"movies"}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to bulk create movies: %w", err)
	}

	return count, nil
}

// sortColumn maps an API sort field to a table column, defaulting to
// creation time for unknown fields.
func sortColumn(sortBy string) string {
	if col, ok := sortColumns[sortBy]; ok {
		return col
	}
	return "created_at"
}

// likePattern builds an ILIKE substring pattern, escaping LIKE wildcards in
// the user-supplied term.
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(search)
	return "%" + escaped + "%"
}

// scanMovie scans a row into a Movie model. Works for both pgx.Row and
// pgx.Rows.
func scanMovie(row pgx.Row) (*model.Movie, error) {
	var (
		movie     model.Movie
		posterURL *string
		imdbID    *string
		createdBy *uuid.UUID
	)

	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Rating,
		&movie.ReleaseDate,
		&movie.Duration,
		&movie.Director,
		&movie.Genre,
		&movie.Cast,
		&posterURL,
		&imdbID,
		&createdBy,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if posterURL != nil {
		movie.PosterURL = *posterURL
	}
	if imdbID != nil {
		movie.IMDBID = *imdbID
	}
	if createdBy != nil {
		movie.CreatedBy = *createdBy
	}

	return &movie, nil
}

// nullString returns nil for empty strings, otherwise returns a pointer to the string.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullUUID returns nil for the zero UUID, otherwise returns a pointer to it.
func nullUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// Compile-time verification that MovieRepository implements repository.MovieRepository.
var _ repository.MovieRepository = (*MovieRepository)(nil)
