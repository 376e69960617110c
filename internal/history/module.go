// Package history provides the request history bounded context module.
package history

import (
	"roadsaver_backend/internal/history/handler"
	"roadsaver_backend/internal/history/repository"
	"roadsaver_backend/internal/history/service"
	apphttp "roadsaver_backend/internal/http"
	"roadsaver_backend/platform/logger"
	"roadsaver_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the history bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the history module keeping the newest keep rows per table.
func NewModule(pool *pgxpool.Pool, keep int, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), keep, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "history"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetPruneQueue makes admin prunes run on the background worker.
func (m *Module) SetPruneQueue(queue handler.PruneQueue) {
	m.handler.SetPruneQueue(queue)
}

// RegisterRoutes mounts history routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/history")
	group.GET("/users/:username", m.handler.ListForUser)
	group.GET("/employees/:name", m.handler.ListForEmployee)

	ctx.Admin.POST("/history/prune", m.handler.Prune)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
