// Package requests provides the service request bounded context: the
// simulated negotiation between a user and roadside employees.
package requests

import (
	"roadsaver_backend/internal/events"
	apphttp "roadsaver_backend/internal/http"
	"roadsaver_backend/internal/requests/handler"
	"roadsaver_backend/internal/requests/service"
	"roadsaver_backend/platform/config"
	"roadsaver_backend/platform/logger"
	"roadsaver_backend/platform/validator"
)

// Module is the requests bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the simulation service and its HTTP handler.
func NewModule(
	cfg config.SimulationConfig,
	employees service.EmployeeSource,
	recorder service.CompletionRecorder,
	snapshots service.SnapshotStore,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
	opts ...service.Option,
) (*Module, error) {
	svc := service.New(cfg, employees, recorder, snapshots, bus, log, opts...)
	h, err := handler.New(svc, val)
	if err != nil {
		svc.Shutdown()
		return nil, err
	}
	return &Module{
		handler: h,
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "requests"
}

// Service returns the simulation service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Shutdown stops every pending simulation timer.
func (m *Module) Shutdown() {
	m.service.Shutdown()
}

// RegisterRoutes mounts request routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/service-types", m.handler.ServiceTypes)

	group := ctx.V1.Group("/requests")
	if ctx.SubmitRateLimiter != nil {
		group.POST("", ctx.SubmitRateLimiter.RateLimit(), m.handler.Submit)
	} else {
		group.POST("", m.handler.Submit)
	}
	group.GET("/active", m.handler.Active)
	group.GET("/:id", m.handler.Get)
	group.GET("/:id/quote", m.handler.Quote)
	group.POST("/:id/decline", m.handler.Decline)
	group.POST("/:id/accept", m.handler.Accept)
	group.POST("/:id/cancel", m.handler.Cancel)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
