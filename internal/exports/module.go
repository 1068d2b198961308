package exports

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "leadpulse_backend/internal/http"
	"leadpulse_backend/internal/leads/repository"
	"leadpulse_backend/platform/logger"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the exports module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(repository.New(pool), log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/exports")
	group.GET("/leads.csv", m.handler.HandleLeadsCSV)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
