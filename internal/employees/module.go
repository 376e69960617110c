// Package employees provides the simulated employee pool and the employee
// accounts managed by administrators.
package employees

import (
	"roadsaver_backend/internal/employees/handler"
	"roadsaver_backend/internal/employees/repository"
	"roadsaver_backend/internal/employees/service"
	apphttp "roadsaver_backend/internal/http"
	"roadsaver_backend/platform/config"
	"roadsaver_backend/platform/logger"
	"roadsaver_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the employees bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the employees module.
func NewModule(pool *pgxpool.Pool, cfg config.EmployeeConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), cfg.GetEmployeeBlacklist(), cfg.GetPhoneRegion(), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "employees"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts admin employee routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/employees")
	group.GET("/simulated", m.handler.ListSimulated)
	group.POST("/simulated/sync", m.handler.Sync)
	group.GET("/accounts", m.handler.ListAccounts)
	group.POST("/accounts", m.handler.CreateAccount)
	group.PATCH("/accounts/:id/status", m.handler.UpdateStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
