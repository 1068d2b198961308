// Command lead-rescore-backfill walks every lead in batches and recomputes
// its health score, refreshing cached scores and stored summaries. Run it
// after a scoring model change or to warm a fresh cache.
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"leadpulse_backend/internal/config"
	"leadpulse_backend/internal/events"
	"leadpulse_backend/internal/leads"
	"leadpulse_backend/internal/leads/repository"
	"leadpulse_backend/internal/leads/scoring"
	"leadpulse_backend/platform/db"
	"leadpulse_backend/platform/logger"
	"leadpulse_backend/platform/validator"
)

const batchSize = 50

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead rescore backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		if opt, err := redis.ParseURL(cfg.RedisURL); err == nil {
			redisClient = redis.NewClient(opt)
			defer func() { _ = redisClient.Close() }()
		} else {
			log.Warn("invalid REDIS_URL; backfill will not warm the cache", "error", err)
		}
	}

	leadsModule := leads.NewModule(leads.Deps{
		Pool:      pool,
		Redis:     redisClient,
		Validator: validator.New(),
		Bus:       events.NewInMemoryBus(log),
		Logger:    log,
		Health:    scoring.HealthConfig{HotMin: cfg.ScoreHotMin, WarmMin: cfg.ScoreWarmMin},
		CacheTTL:  cfg.ScoreCacheTTL,
	})

	repo := repository.New(pool)

	var processed, failed int
	cursorTime := time.Time{}
	cursorID := uuid.Nil

	for {
		cursors, err := repo.ListIDs(ctx, cursorTime, cursorID, batchSize)
		if err != nil {
			log.Error("failed to list leads", "error", err)
			break
		}
		if len(cursors) == 0 {
			break
		}

		for _, cursor := range cursors {
			processed++
			cursorTime = cursor.CreatedAt
			cursorID = cursor.ID

			eval, err := leadsModule.Service.Rescore(ctx, cursor.ID)
			if err != nil {
				failed++
				log.Error("failed to rescore lead", "leadId", cursor.ID, "error", err)
				continue
			}

			log.Debug("lead rescored", "leadId", cursor.ID, "total", eval.Score.Total, "stage", eval.Stage)
		}
	}

	log.Info("lead rescore backfill completed", "processed", processed, "failed", failed)
}
