package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"leadpulse_backend/internal/config"
	"leadpulse_backend/internal/events"
	"leadpulse_backend/internal/leads"
	"leadpulse_backend/internal/leads/scoring"
	"leadpulse_backend/internal/leads/summarizer"
	"leadpulse_backend/internal/scheduler"
	"leadpulse_backend/platform/db"
	"leadpulse_backend/platform/logger"
	"leadpulse_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if cfg.RedisURL == "" {
		panic("REDIS_URL is required for the scheduler worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Error("invalid REDIS_URL", "error", err)
		panic("invalid REDIS_URL: " + err.Error())
	}
	redisClient := redis.NewClient(opt)
	defer func() { _ = redisClient.Close() }()

	var summaries scoring.SummaryProvider
	if cfg.GeminiAPIKey != "" {
		sum, err := summarizer.New(ctx, summarizer.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.SummaryModel,
			Timeout: cfg.SummaryTimeout,
		})
		if err != nil {
			log.Error("failed to initialize summarizer; rescores run keyword-only", "error", err)
		} else {
			summaries = sum
		}
	}

	// Worker-side leads wiring (no HTTP handlers required).
	leadsModule := leads.NewModule(leads.Deps{
		Pool:      pool,
		Redis:     redisClient,
		Validator: validator.New(),
		Bus:       eventBus,
		Logger:    log,
		Summaries: summaries,
		Health:    scoring.HealthConfig{HotMin: cfg.ScoreHotMin, WarmMin: cfg.ScoreWarmMin},
		CacheTTL:  cfg.ScoreCacheTTL,
	})

	worker, err := scheduler.NewWorker(cfg, leadsModule.Service, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	log.Info("scheduler worker running", "queue", cfg.AsynqQueue, "concurrency", cfg.AsynqConcurrency)
	worker.Run(ctx)
	log.Info("scheduler worker stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
