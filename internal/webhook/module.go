package webhook

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "leadpulse_backend/internal/http"
	"leadpulse_backend/platform/logger"
	"leadpulse_backend/platform/validator"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

// NewModule creates and initializes the webhook module with all its dependencies.
func NewModule(pool *pgxpool.Pool, intake LeadIntake, recorder MessageRecorder, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	service := NewService(intake, recorder, log)
	handler := NewHandler(service, repo, val)

	return &Module{
		handler: handler,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public inbound endpoint (API key auth, no JWT)
	inbound := ctx.V1.Group("/webhook")
	inbound.Use(APIKeyAuthMiddleware(m.repo))
	inbound.POST("/inbound", m.handler.HandleInbound)

	// API key management (JWT auth)
	keys := ctx.Protected.Group("/webhook/keys")
	keys.POST("", m.handler.HandleCreateAPIKey)
	keys.GET("", m.handler.HandleListAPIKeys)
	keys.DELETE("/:keyId", m.handler.HandleRevokeAPIKey)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
