package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	HTTPAddr     string
	DatabaseURL  string
	RedisURL     string
	JWTSecret    string
	CORSAllowAll bool
	CORSOrigins  []string

	// Optional LLM summary path for the text analyzer. Empty key disables it
	// and scoring runs keyword-only.
	GeminiAPIKey   string
	SummaryModel   string
	SummaryTimeout time.Duration

	// Presentation thresholds for the lead health label. The Hot/Warm/Cold
	// cut-points are a dashboard concern and arrive from the environment.
	ScoreHotMin   int
	ScoreWarmMin  int
	ScoreCacheTTL time.Duration

	AsynqQueue       string
	AsynqConcurrency int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		SummaryModel:     getEnv("SUMMARY_MODEL", "gemini-2.0-flash"),
		SummaryTimeout:   mustDuration(getEnv("SUMMARY_TIMEOUT", "30s")),
		ScoreHotMin:      mustInt(getEnv("SCORE_HOT_MIN", "70")),
		ScoreWarmMin:     mustInt(getEnv("SCORE_WARM_MIN", "40")),
		ScoreCacheTTL:    mustDuration(getEnv("SCORE_CACHE_TTL", "60s")),
		AsynqQueue:       getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ScoreWarmMin > cfg.ScoreHotMin {
		return nil, fmt.Errorf("SCORE_WARM_MIN must not exceed SCORE_HOT_MIN")
	}

	return cfg, nil
}

// Interface implementations for platform/config capability slices.

func (c *Config) GetEnv() string                 { return c.Env }
func (c *Config) GetHTTPAddr() string            { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string       { return c.CORSOrigins }
func (c *Config) GetCORSAllowAll() bool          { return c.CORSAllowAll }
func (c *Config) GetJWTSecret() string           { return c.JWTSecret }
func (c *Config) GetDatabaseURL() string         { return c.DatabaseURL }
func (c *Config) GetRedisURL() string            { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string      { return c.AsynqQueue }
func (c *Config) GetAsynqConcurrency() int       { return c.AsynqConcurrency }
func (c *Config) GetScoreHotMin() int            { return c.ScoreHotMin }
func (c *Config) GetScoreWarmMin() int           { return c.ScoreWarmMin }
func (c *Config) GetScoreCacheTTL() time.Duration { return c.ScoreCacheTTL }

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
