package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrEmptyDirector    = errors.New("director cannot be empty")
	ErrRatingOutOfRange = errors.New("rating must be between 0 and 10")
	ErrNoGenre          = errors.New("at least one genre is required")
	ErrInvalidDuration  = errors.New("duration must be a positive number of minutes")
	ErrZeroReleaseDate  = errors.New("release date is required")
	ErrTitleTooLong     = errors.New("title exceeds maximum length of 255 characters")
)

const (
	maxTitleLength = 255

	MinRating = 0.0
	MaxRating = 10.0
)

// Movie represents a catalog entry in the domain.
type Movie struct {
	ID          uuid.UUID
	Title       string
	Description string
	Rating      float64
	ReleaseDate time.Time
	Duration    int
	Director    string
	Genre       []string
	Cast        []string
	PosterURL   string
	IMDBID      string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MovieInput carries the writable fields for creating a movie.
type MovieInput struct {
	Title       string
	Description string
	Rating      float64
	ReleaseDate time.Time
	Duration    int
	Director    string
	Genre       []string
	Cast        []string
	PosterURL   string
	IMDBID      string
}

// MovieUpdate is a partial patch for an existing movie. Nil fields are
// left unchanged.
type MovieUpdate struct {
	Title       *string
	Description *string
	Rating      *float64
	ReleaseDate *time.Time
	Duration    *int
	Director    *string
	Genre       []string
	Cast        []string
	PosterURL   *string
	IMDBID      *string
}

// NewMovie constructs a validated Movie from input fields.
func NewMovie(createdBy uuid.UUID, in MovieInput) (*Movie, error) {
	now := time.Now()
	m := &Movie{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Rating:      in.Rating,
		ReleaseDate: in.ReleaseDate,
		Duration:    in.Duration,
		Director:    in.Director,
		Genre:       in.Genre,
		Cast:        in.Cast,
		PosterURL:   in.PosterURL,
		IMDBID:      in.IMDBID,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the movie's invariants.
func (m *Movie) Validate() error {
	if m.Title == "" {
		return ErrEmptyTitle
	}
	if len(m.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if m.Description == "" {
		return ErrEmptyDescription
	}
	if m.Director == "" {
		return ErrEmptyDirector
	}
	if m.Rating < MinRating || m.Rating > MaxRating {
		return ErrRatingOutOfRange
	}
	if len(m.Genre) == 0 {
		return ErrNoGenre
	}
	if m.Duration <= 0 {
		return ErrInvalidDuration
	}
	if m.ReleaseDate.IsZero() {
		return ErrZeroReleaseDate
	}
	return nil
}

// ApplyUpdate applies a partial patch and revalidates the result.
// The movie is left unmodified if the patched state is invalid.
func (m *Movie) ApplyUpdate(patch MovieUpdate) error {
	updated := *m
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Rating != nil {
		updated.Rating = *patch.Rating
	}
	if patch.ReleaseDate != nil {
		updated.ReleaseDate = *patch.ReleaseDate
	}
	if patch.Duration != nil {
		updated.Duration = *patch.Duration
	}
	if patch.Director != nil {
		updated.Director = *patch.Director
	}
	if patch.Genre != nil {
		updated.Genre = patch.Genre
	}
	if patch.Cast != nil {
		updated.Cast = patch.Cast
	}
	if patch.PosterURL != nil {
		updated.PosterURL = *patch.PosterURL
	}
	if patch.IMDBID != nil {
		updated.IMDBID = *patch.IMDBID
	}
	updated.UpdatedAt = time.Now()

	if err := updated.Validate(); err != nil {
		return err
	}
	*m = updated
	return nil
}

// SetPosterURL records the poster object reference.
func (m *Movie) SetPosterURL(url string) {
	m.PosterURL = url
	m.UpdatedAt = time.Now()
}
