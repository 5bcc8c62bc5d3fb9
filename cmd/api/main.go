package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/movieverse/internal/api/handler"
	"github.com/hszk-dev/movieverse/internal/api/middleware"
	"github.com/hszk-dev/movieverse/internal/config"
	"github.com/hszk-dev/movieverse/internal/domain/repository"
	"github.com/hszk-dev/movieverse/internal/infrastructure/cache"
	"github.com/hszk-dev/movieverse/internal/infrastructure/postgres"
	"github.com/hszk-dev/movieverse/internal/infrastructure/queue"
	"github.com/hszk-dev/movieverse/internal/infrastructure/storage"
	"github.com/hszk-dev/movieverse/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	responseCache, err := newResponseCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer responseCache.Close()
	logger.Info("response cache initialized", slog.String("backend", cfg.Cache.Backend))

	// The queue is optional. Connection failure is not fatal: the API keeps
	// serving with synchronous writes only.
	var jobQueue repository.JobQueue
	var queueClient *queue.Client
	if cfg.RabbitMQ.Enabled {
		queueClient, err = queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
		if err != nil {
			logger.Warn("failed to connect to RabbitMQ, continuing without queue",
				slog.String("error", err.Error()),
			)
		} else {
			defer queueClient.Close()
			jobQueue = queueClient
			logger.Info("connected to RabbitMQ")
		}
	}

	var objectStorage repository.ObjectStorage
	if cfg.MinIO.Enabled {
		storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to MinIO: %w", err)
		}
		objectStorage = storageClient
		logger.Info("connected to MinIO")
	}

	movieRepo := postgres.NewMovieRepository(pgClient.Pool())
	movieSvc := usecase.NewMovieService(movieRepo, jobQueue, objectStorage, usecase.DefaultMovieServiceConfig())
	cachedSvc := usecase.NewCachedMovieService(movieSvc, responseCache, usecase.CachedMovieServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	})

	movieHandler := handler.NewMovieHandler(cachedSvc, !cfg.Server.IsProduction())
	healthHandler := handler.NewHealthHandler(jobQueue)
	auth := middleware.NewStaticAuthenticator(cfg.Auth.AdminToken, cfg.Auth.ReaderToken)

	r := setupRouter(logger, auth, movieHandler, healthHandler)

	// Queued creations are drained in-process so a deployment without a
	// dedicated worker still lands its jobs. The WaitGroup tracks the
	// consumer goroutine itself; Consume returns only after in-flight
	// handlers finish, so waiting for the goroutine drains the jobs too.
	var wg sync.WaitGroup
	consumerErrCh := make(chan error, 1)
	if jobQueue != nil {
		processor := usecase.NewJobProcessor(movieRepo, responseCache)
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("starting in-process job consumer")
			err := jobQueue.Consume(ctx, func(job repository.MovieJob) error {
				return processor.Process(ctx, job)
			})
			if err != nil && ctx.Err() == nil {
				consumerErrCh <- fmt.Errorf("consumer error: %w", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case err := <-consumerErrCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	// Stop the consumer and wait for it to drain in-flight jobs.
	cancel()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, some jobs may not have completed")
	}

	logger.Info("server stopped")
	return nil
}

// newResponseCache builds the configured cache backend. The in-process
// backend needs no external service; the Redis backend shares entries
// across replicas and with the standalone worker.
func newResponseCache(ctx context.Context, cfg *config.Config) (cache.ResponseCache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return cache.NewRedisCache(client), nil
	case "memory":
		return cache.NewMemoryCache(cfg.Cache.CheckPeriod), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

func setupRouter(
	logger *slog.Logger,
	auth middleware.Authenticator,
	movieHandler *handler.MovieHandler,
	healthHandler *handler.HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/movies", func(r chi.Router) {
		r.Use(middleware.RequireAuth(auth))

		r.Get("/", movieHandler.List)
		r.Get("/{id}", movieHandler.Get)
		r.Get("/{id}/poster", movieHandler.PosterDownload)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleAdmin))

			r.Post("/", movieHandler.Create)
			r.Put("/{id}", movieHandler.Update)
			r.Delete("/{id}", movieHandler.Delete)
			r.Post("/{id}/poster", movieHandler.PosterUpload)
		})
	})

	return r
}
