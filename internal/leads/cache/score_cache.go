// Package cache holds the best-effort Redis layer for computed evaluations.
// Cache failures are never surfaced to callers: a miss or a broken Redis just
// means the score is recomputed.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"leadpulse_backend/internal/leads/scoring"
	"leadpulse_backend/platform/logger"
)

const scoreKeyPrefix = "lead:score:"

// ScoreCache stores recent evaluations keyed by lead ID.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewScoreCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *ScoreCache {
	return &ScoreCache{client: client, ttl: ttl, log: log}
}

// Get returns the cached evaluation and whether it was present. Errors and
// decode failures read as misses.
func (c *ScoreCache) Get(ctx context.Context, leadID uuid.UUID) (scoring.Evaluation, bool) {
	if c == nil || c.client == nil {
		return scoring.Evaluation{}, false
	}

	raw, err := c.client.Get(ctx, scoreKey(leadID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.DatabaseError("cache.get", err)
		}
		return scoring.Evaluation{}, false
	}

	var eval scoring.Evaluation
	if err := json.Unmarshal(raw, &eval); err != nil {
		c.log.DatabaseError("cache.decode", err)
		return scoring.Evaluation{}, false
	}
	return eval, true
}

// Put stores an evaluation with the configured TTL. Failures are logged and
// swallowed.
func (c *ScoreCache) Put(ctx context.Context, eval scoring.Evaluation) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(eval)
	if err != nil {
		c.log.DatabaseError("cache.encode", err)
		return
	}
	if err := c.client.Set(ctx, scoreKey(eval.LeadID), raw, c.ttl).Err(); err != nil {
		c.log.DatabaseError("cache.set", err)
	}
}

// Invalidate drops the cached evaluation for a lead. Called whenever new
// activity lands so the next read recomputes.
func (c *ScoreCache) Invalidate(ctx context.Context, leadID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, scoreKey(leadID)).Err(); err != nil {
		c.log.DatabaseError("cache.del", err)
	}
}

func scoreKey(leadID uuid.UUID) string {
	return scoreKeyPrefix + leadID.String()
}
