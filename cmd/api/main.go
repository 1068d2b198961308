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
	"leadpulse_backend/internal/exports"
	apphttp "leadpulse_backend/internal/http"
	"leadpulse_backend/internal/http/router"
	"leadpulse_backend/internal/leads"
	"leadpulse_backend/internal/leads/scoring"
	"leadpulse_backend/internal/leads/summarizer"
	"leadpulse_backend/internal/scheduler"
	"leadpulse_backend/internal/webhook"
	"leadpulse_backend/migrations"
	"leadpulse_backend/platform/db"
	"leadpulse_backend/platform/logger"
	"leadpulse_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	rescoreQueue, closeQueue := initRescoreQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	summaries := initSummarizer(ctx, cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(leads.Deps{
		Pool:      pool,
		Redis:     redisClient,
		Validator: val,
		Bus:       eventBus,
		Logger:    log,
		Summaries: summaries,
		Queue:     rescoreQueue,
		Health:    scoring.HealthConfig{HotMin: cfg.ScoreHotMin, WarmMin: cfg.ScoreWarmMin},
		CacheTTL:  cfg.ScoreCacheTTL,
	})

	// Webhook module captures inbound channel events through the leads intake
	webhookModule := webhook.NewModule(pool, leadsModule.Service, leadsModule.Service, val, log)

	exportsModule := exports.NewModule(pool, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			webhookModule,
			exportsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not configured; score caching disabled")
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Error("invalid REDIS_URL; score caching disabled", "error", err)
		return nil
	}
	return redis.NewClient(opt)
}

func initRescoreQueue(cfg *config.Config, log *logger.Logger) (leads.RescoreQueue, func()) {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not configured; async rescoring disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize rescore queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func initSummarizer(ctx context.Context, cfg *config.Config, log *logger.Logger) scoring.SummaryProvider {
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not configured; scoring runs keyword-only")
		return nil
	}

	sum, err := summarizer.New(ctx, summarizer.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.SummaryModel,
		Timeout: cfg.SummaryTimeout,
	})
	if err != nil {
		log.Error("failed to initialize summarizer; scoring runs keyword-only", "error", err)
		return nil
	}

	log.Info("summarizer initialized", "model", cfg.SummaryModel)
	return sum
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
