package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/movieverse/internal/config"
	"github.com/hszk-dev/movieverse/internal/domain/model"
	"github.com/hszk-dev/movieverse/internal/infrastructure/postgres"
	"github.com/hszk-dev/movieverse/internal/infrastructure/queue"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	seededBy := uuid.NewSHA1(uuid.NameSpaceOID, []byte("movieverse/seed"))

	movies := make([]*model.Movie, 0, len(sampleMovies))
	for _, in := range sampleMovies {
		movie, err := model.NewMovie(seededBy, in)
		if err != nil {
			return fmt.Errorf("invalid sample movie %q: %w", in.Title, err)
		}
		movies = append(movies, movie)
	}

	// Route through the queue when enabled, otherwise insert directly.
	if cfg.RabbitMQ.Enabled {
		queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer queueClient.Close()

		handle, err := queueClient.EnqueueBulkCreate(ctx, movies)
		if err != nil {
			return fmt.Errorf("failed to enqueue seed job: %w", err)
		}
		logger.Info("seed job enqueued",
			slog.String("job_id", handle.ID),
			slog.Int("count", len(movies)),
		)
		return nil
	}

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()

	movieRepo := postgres.NewMovieRepository(pgClient.Pool())
	count, err := movieRepo.BulkCreate(ctx, movies)
	if err != nil {
		return fmt.Errorf("failed to insert sample movies: %w", err)
	}

	logger.Info("sample movies inserted", slog.Int64("count", count))
	return nil
}

var sampleMovies = []model.MovieInput{
	{
		Title:       "The Shawshank Redemption",
		Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
		Rating:      9.3,
		ReleaseDate: time.Date(1994, 9, 23, 0, 0, 0, 0, time.UTC),
		Duration:    142,
		Director:    "Frank Darabont",
		Genre:       []string{"Drama"},
		Cast:        []string{"Tim Robbins", "Morgan Freeman"},
		IMDBID:      "tt0111161",
	},
	{
		Title:       "The Godfather",
		Description: "The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son.",
		Rating:      9.2,
		ReleaseDate: time.Date(1972, 3, 24, 0, 0, 0, 0, time.UTC),
		Duration:    175,
		Director:    "Francis Ford Coppola",
		Genre:       []string{"Crime", "Drama"},
		Cast:        []string{"Marlon Brando", "Al Pacino", "James Caan"},
		IMDBID:      "tt0068646",
	},
	{
		Title:       "The Dark Knight",
		Description: "When the menace known as the Joker wreaks havoc on Gotham, Batman must accept one of the greatest psychological tests of his ability to fight injustice.",
		Rating:      9.0,
		ReleaseDate: time.Date(2008, 7, 18, 0, 0, 0, 0, time.UTC),
		Duration:    152,
		Director:    "Christopher Nolan",
		Genre:       []string{"Action", "Crime", "Drama"},
		Cast:        []string{"Christian Bale", "Heath Ledger", "Aaron Eckhart"},
		IMDBID:      "tt0468569",
	},
	{
		Title:       "Pulp Fiction",
		Description: "The lives of two mob hitmen, a boxer, a gangster and his wife intertwine in four tales of violence and redemption.",
		Rating:      8.9,
		ReleaseDate: time.Date(1994, 10, 14, 0, 0, 0, 0, time.UTC),
		Duration:    154,
		Director:    "Quentin Tarantino",
		Genre:       []string{"Crime", "Drama"},
		Cast:        []string{"John Travolta", "Uma Thurman", "Samuel L. Jackson"},
		IMDBID:      "tt0110912",
	},
	{
		Title:       "Inception",
		Description: "A thief who steals corporate secrets through the use of dream-sharing technology is given the inverse task of planting an idea.",
		Rating:      8.8,
		ReleaseDate: time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC),
		Duration:    148,
		Director:    "Christopher Nolan",
		Genre:       []string{"Action", "Adventure", "Sci-Fi"},
		Cast:        []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page"},
		IMDBID:      "tt1375666",
	},
	{
		Title:       "Parasite",
		Description: "Greed and class discrimination threaten the newly formed symbiotic relationship between the wealthy Park family and the destitute Kim clan.",
		Rating:      8.5,
		ReleaseDate: time.Date(2019, 5, 30, 0, 0, 0, 0, time.UTC),
		Duration:    132,
		Director:    "Bong Joon Ho",
		Genre:       []string{"Drama", "Thriller"},
		Cast:        []string{"Song Kang-ho", "Lee Sun-kyun", "Cho Yeo-jeong"},
		IMDBID:      "tt6751668",
	},
}
