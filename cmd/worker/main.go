package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/movieverse/internal/config"
	"github.com/hszk-dev/movieverse/internal/domain/repository"
	"github.com/hszk-dev/movieverse/internal/infrastructure/cache"
	"github.com/hszk-dev/movieverse/internal/infrastructure/postgres"
	"github.com/hszk-dev/movieverse/internal/infrastructure/queue"
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

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	// The worker only invalidates listings when it shares the API's Redis
	// cache. With the in-process backend entries age out by TTL instead.
	var responseCache cache.ResponseCache
	if cfg.Cache.Backend == "redis" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		responseCache = cache.NewRedisCache(redisClient)
		logger.Info("connected to Redis")
	}

	movieRepo := postgres.NewMovieRepository(pgClient.Pool())
	processor := usecase.NewJobProcessor(movieRepo, responseCache)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// The WaitGroup tracks the consumer goroutine; Consume returns only
	// after in-flight handlers finish, so waiting for the goroutine drains
	// the jobs too.
	var wg sync.WaitGroup

	errCh := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting worker, consuming movie jobs")
		err := queueClient.Consume(ctx, func(job repository.MovieJob) error {
			logger.Info("processing job",
				slog.String("job_id", job.ID),
				slog.String("kind", string(job.Kind)),
				slog.Int("retry_count", job.RetryCount),
			)

			if err := processor.Process(ctx, job); err != nil {
				logger.Error("job processing failed",
					slog.String("job_id", job.ID),
					slog.String("error", err.Error()),
				)
				return err
			}

			logger.Info("job completed successfully", slog.String("job_id", job.ID))
			return nil
		})
		if err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("consumer error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
	defer shutdownCancel()

	// Stop consuming new jobs.
	cancel()

	// Wait for in-flight jobs to complete (or timeout).
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("all in-flight jobs completed")
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, some jobs may not have completed")
	}

	logger.Info("worker stopped")
	return nil
}
