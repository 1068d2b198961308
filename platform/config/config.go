// Package config declares the narrow configuration interfaces consumed by the
// platform layer. The concrete loader lives in internal/config; platform code
// depends only on these capability slices.
package config

import "time"

// HTTPConfig exposes the settings needed to build the HTTP server and router.
type HTTPConfig interface {
	GetEnv() string
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetCORSAllowAll() bool
}

// JWTConfig exposes the secret used to verify dashboard bearer tokens.
type JWTConfig interface {
	GetJWTSecret() string
}

// DatabaseConfig exposes database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// SchedulerConfig exposes settings for the asynq client and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// ScoringConfig exposes presentation thresholds for the lead health label and
// the cache TTL for computed scores. Cut-points are configuration, not code.
type ScoringConfig interface {
	GetScoreHotMin() int
	GetScoreWarmMin() int
	GetScoreCacheTTL() time.Duration
}
