package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"leadpulse_backend/internal/leads/scoring"
	"leadpulse_backend/platform/logger"
)

func testCache(t *testing.T) (*ScoreCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewScoreCache(client, time.Minute, logger.New("test")), mr
}

func TestScoreCacheRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	eval := scoring.Evaluation{
		LeadID:     uuid.New(),
		Score:      scoring.Result{Total: 72},
		Stage:      "High Intent",
		Health:     "Hot",
		Trend:      "Warming",
		ComputedAt: time.Now().UTC().Truncate(time.Second),
	}

	if _, ok := c.Get(ctx, eval.LeadID); ok {
		t.Fatal("unexpected hit before Put")
	}

	c.Put(ctx, eval)

	got, ok := c.Get(ctx, eval.LeadID)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if got.Score.Total != eval.Score.Total || got.Stage != eval.Stage || got.Health != eval.Health {
		t.Errorf("cached evaluation = %+v, want %+v", got, eval)
	}
}

func TestScoreCacheInvalidate(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	eval := scoring.Evaluation{LeadID: uuid.New(), Score: scoring.Result{Total: 40}}
	c.Put(ctx, eval)
	c.Invalidate(ctx, eval.LeadID)

	if _, ok := c.Get(ctx, eval.LeadID); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestScoreCacheTTL(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	eval := scoring.Evaluation{LeadID: uuid.New(), Score: scoring.Result{Total: 55}}
	c.Put(ctx, eval)

	mr.FastForward(2 * time.Minute)

	if _, ok := c.Get(ctx, eval.LeadID); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestScoreCacheNilSafe(t *testing.T) {
	var c *ScoreCache
	ctx := context.Background()

	if _, ok := c.Get(ctx, uuid.New()); ok {
		t.Error("nil cache should always miss")
	}
	c.Put(ctx, scoring.Evaluation{LeadID: uuid.New()})
	c.Invalidate(ctx, uuid.New())
}

func TestScoreCacheMalformedEntry(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	leadID := uuid.New()
	if err := mr.Set("lead:score:"+leadID.String(), "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, ok := c.Get(ctx, leadID); ok {
		t.Error("malformed entry should read as a miss")
	}
}
