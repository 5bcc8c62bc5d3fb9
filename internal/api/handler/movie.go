package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hszk-dev/movieverse/internal/api/middleware"
	"github.com/hszk-dev/movieverse/internal/domain/model"
	"github.com/hszk-dev/movieverse/internal/domain/repository"
	"github.com/hszk-dev/movieverse/internal/usecase"
)

var validate = validator.New()

// Request/Response types

type CreateMovieRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=10"`
	ReleaseDate string   `json:"releaseDate" validate:"required"`
	Duration    int      `json:"duration" validate:"required,gt=0"`
	Director    string   `json:"director" validate:"required"`
	Genre       []string `json:"genre" validate:"required,min=1"`
	Cast        []string `json:"cast"`
	PosterURL   string   `json:"posterUrl"`
	IMDBID      string   `json:"imdbId"`
}

type UpdateMovieRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=255"`
	Description *string  `json:"description"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`
	ReleaseDate *string  `json:"releaseDate"`
	Duration    *int     `json:"duration" validate:"omitempty,gt=0"`
	Director    *string  `json:"director"`
	Genre       []string `json:"genre" validate:"omitempty,min=1"`
	Cast        []string `json:"cast"`
	PosterURL   *string  `json:"posterUrl"`
	IMDBID      *string  `json:"imdbId"`
}

type MovieResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	ReleaseDate string   `json:"releaseDate"`
	Duration    int      `json:"duration"`
	Director    string   `json:"director"`
	Genre       []string `json:"genre"`
	Cast        []string `json:"cast"`
	PosterURL   string   `json:"posterUrl,omitempty"`
	IMDBID      string   `json:"imdbId,omitempty"`
	CreatedBy   string   `json:"createdBy"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

type ListMoviesResponse struct {
	Movies      []MovieResponse `json:"movies"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	TotalMovies int64           `json:"totalMovies"`
}

type QueuedMovieResponse struct {
	Message string `json:"message"`
	JobID   string `json:"jobId"`
	Queued  bool   `json:"queued"`
}

type DeleteMovieResponse struct {
	Message string `json:"message"`
}

type PosterUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

type PosterDownloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
	Key         string `json:"key"`
}

// MovieHandler handles movie-related HTTP requests.
type MovieHandler struct {
	svc usecase.MovieService

	// exposeErrors includes internal error messages in 500 bodies. Enabled
	// outside production only.
	exposeErrors bool
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc usecase.MovieService, exposeErrors bool) *MovieHandler {
	return &MovieHandler{svc: svc, exposeErrors: exposeErrors}
}

// List handles GET /v1/movies
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := usecase.ListMoviesInput{
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			Error(w, http.StatusBadRequest, "Page must be a number")
			return
		}
		in.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			Error(w, http.StatusBadRequest, "Limit must be a number")
			return
		}
		in.Limit = limit
	}

	out, err := h.svc.ListMovies(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	movies := make([]MovieResponse, 0, len(out.Movies))
	for _, m := range out.Movies {
		movies = append(movies, toMovieResponse(m))
	}

	JSON(w, http.StatusOK, ListMoviesResponse{
		Movies:      movies,
		CurrentPage: out.CurrentPage,
		TotalPages:  out.TotalPages,
		TotalMovies: out.TotalMovies,
	})
}

// Get handles GET /v1/movies/{id}
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "Movie ID must be a valid UUID")
		return
	}

	movie, err := h.svc.GetMovie(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toMovieResponse(movie))
}

// Create handles POST /v1/movies
func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		Error(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	releaseDate, err := parseReleaseDate(req.ReleaseDate)
	if err != nil {
		Error(w, http.StatusBadRequest, "Release date must be YYYY-MM-DD or RFC 3339")
		return
	}

	createdBy := uuid.Nil
	if principal, ok := middleware.PrincipalFromContext(r.Context()); ok {
		createdBy = principal.ID
	}

	out, err := h.svc.CreateMovie(r.Context(), createdBy, model.MovieInput{
		Title:       req.Title,
		Description: req.Description,
		Rating:      req.Rating,
		ReleaseDate: releaseDate,
		Duration:    req.Duration,
		Director:    req.Director,
		Genre:       req.Genre,
		Cast:        req.Cast,
		PosterURL:   req.PosterURL,
		IMDBID:      req.IMDBID,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if out.Queued {
		JSON(w, http.StatusAccepted, QueuedMovieResponse{
			Message: "Movie creation queued",
			JobID:   out.JobID,
			Queued:  true,
		})
		return
	}

	JSON(w, http.StatusCreated, toMovieResponse(out.Movie))
}

// Update handles PUT /v1/movies/{id}
func (h *MovieHandler) Update(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "Movie ID must be a valid UUID")
		return
	}

	var req UpdateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		Error(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	patch := model.MovieUpdate{
		Title:       req.Title,
		Description: req.Description,
		Rating:      req.Rating,
		Duration:    req.Duration,
		Director:    req.Director,
		Genre:       req.Genre,
		Cast:        req.Cast,
		PosterURL:   req.PosterURL,
		IMDBID:      req.IMDBID,
	}
	if req.ReleaseDate != nil {
		releaseDate, err := parseReleaseDate(*req.ReleaseDate)
		if err != nil {
			Error(w, http.StatusBadRequest, "Release date must be YYYY-MM-DD or RFC 3339")
			return
		}
		patch.ReleaseDate = &releaseDate
	}

	movie, err := h.svc.UpdateMovie(r.Context(), movieID, patch)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toMovieResponse(movie))
}

// Delete handles DELETE /v1/movies/{id}
func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "Movie ID must be a valid UUID")
		return
	}

	if err := h.svc.DeleteMovie(r.Context(), movieID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, DeleteMovieResponse{Message: "Movie deleted successfully"})
}

// PosterUpload handles POST /v1/movies/{id}/poster
func (h *MovieHandler) PosterUpload(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "Movie ID must be a valid UUID")
		return
	}

	out, err := h.svc.PosterUploadURL(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, PosterUploadResponse{
		UploadURL: out.UploadURL,
		Key:       out.Key,
	})
}

// PosterDownload handles GET /v1/movies/{id}/poster
func (h *MovieHandler) PosterDownload(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "Movie ID must be a valid UUID")
		return
	}

	out, err := h.svc.PosterDownloadURL(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, PosterDownloadResponse{
		DownloadURL: out.DownloadURL,
		Key:         out.Key,
	})
}

func (h *MovieHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrMovieNotFound):
		Error(w, http.StatusNotFound, "Movie not found")
	case errors.Is(err, repository.ErrDuplicateMovie):
		Error(w, http.StatusConflict, "Movie already exists")
	case errors.Is(err, model.ErrEmptyTitle),
		errors.Is(err, model.ErrTitleTooLong),
		errors.Is(err, model.ErrEmptyDescription),
		errors.Is(err, model.ErrEmptyDirector),
		errors.Is(err, model.ErrRatingOutOfRange),
		errors.Is(err, model.ErrNoGenre),
		errors.Is(err, model.ErrInvalidDuration),
		errors.Is(err, model.ErrZeroReleaseDate):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrPosterNotFound):
		Error(w, http.StatusNotFound, "Poster not found")
	case errors.Is(err, usecase.ErrPosterStorageDisabled):
		Error(w, http.StatusServiceUnavailable, "Poster storage is not configured")
	default:
		if h.exposeErrors {
			Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		Error(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// parseReleaseDate accepts a bare date or a full RFC 3339 timestamp.
func parseReleaseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "Invalid value for field " + verrs[0].Field()
	}
	return "Invalid request body"
}

func toMovieResponse(m *model.Movie) MovieResponse {
	return MovieResponse{
		ID:          m.ID.String(),
		Title:       m.Title,
		Description: m.Description,
		Rating:      m.Rating,
		ReleaseDate: m.ReleaseDate.Format("2006-01-02"),
		Duration:    m.Duration,
		Director:    m.Director,
		Genre:       m.Genre,
		Cast:        m.Cast,
		PosterURL:   m.PosterURL,
		IMDBID:      m.IMDBID,
		CreatedBy:   m.CreatedBy.String(),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   m.UpdatedAt.Format(time.RFC3339),
	}
}
