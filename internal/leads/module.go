// Package leads provides the leads domain module: intake, conversation
// logging, health scoring and pipeline stage management.
package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"leadpulse_backend/internal/events"
	apphttp "leadpulse_backend/internal/http"
	"leadpulse_backend/internal/leads/cache"
	"leadpulse_backend/internal/leads/handler"
	"leadpulse_backend/internal/leads/repository"
	"leadpulse_backend/internal/leads/scoring"
	"leadpulse_backend/internal/leads/service"
	"leadpulse_backend/platform/logger"
	"leadpulse_backend/platform/validator"
)

// RescoreQueue enqueues an asynchronous rescore for a lead. Implemented by
// the scheduler client; nil disables async rescoring.
type RescoreQueue interface {
	EnqueueRescore(ctx context.Context, leadID uuid.UUID) error
}

// Deps are the module's external dependencies, wired by the composition root.
type Deps struct {
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	Validator *validator.Validator
	Bus       events.Bus
	Logger    *logger.Logger

	// Summaries is the optional LLM summary provider.
	Summaries scoring.SummaryProvider
	// Queue is the optional async rescore queue.
	Queue RescoreQueue

	Health   scoring.HealthConfig
	CacheTTL time.Duration
}

// Module represents the leads domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
	Scorer  *scoring.Service

	queue RescoreQueue
	log   *logger.Logger
}

// NewModule creates a new leads module with all dependencies wired
func NewModule(deps Deps) *Module {
	repo := repository.New(deps.Pool)
	scorer := scoring.New(repo, deps.Summaries, deps.Health, deps.Logger)
	scoreCache := cache.NewScoreCache(deps.Redis, deps.CacheTTL, deps.Logger)
	svc := service.New(repo, scorer, scoreCache, deps.Bus, deps.Logger)
	h := handler.New(svc, deps.Validator)

	m := &Module{
		handler: h,
		Service: svc,
		Scorer:  scorer,
		queue:   deps.Queue,
		log:     deps.Logger,
	}
	m.subscribe(deps.Bus)
	return m
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes registers the module's routes under /api/v1/leads
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leads)
}

// subscribe wires the async rescore: every logged message queues a fresh
// evaluation so stored summaries and cached scores follow the conversation.
func (m *Module) subscribe(bus events.Bus) {
	if m.queue == nil {
		return
	}

	bus.Subscribe(events.MessageLogged{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		logged, ok := event.(events.MessageLogged)
		if !ok {
			return fmt.Errorf("unexpected event type %T", event)
		}
		return m.queue.EnqueueRescore(ctx, logged.LeadID)
	}))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
