package i18n

import (
	"context"

	apphttp "roadsaver_backend/internal/http"
	"roadsaver_backend/platform/config"
	"roadsaver_backend/platform/logger"
	"roadsaver_backend/platform/validator"
)

// Module serves translations and owns the override cache.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule builds the engine from the embedded resources. store may be nil.
func NewModule(cfg config.I18nConfig, store Store, val *validator.Validator, log *logger.Logger) (*Module, error) {
	static, err := DefaultResources()
	if err != nil {
		return nil, err
	}
	engine := NewEngine(static, Options{
		DefaultLanguage:  cfg.GetDefaultLanguage(),
		FallbackLanguage: cfg.GetFallbackLanguage(),
		Debug:            cfg.GetI18nDebug(),
	})
	svc := NewService(engine, store, log)
	return &Module{handler: NewHandler(svc, val), service: svc}, nil
}

func (m *Module) Name() string {
	return "i18n"
}

// Service returns the translation service.
func (m *Module) Service() *Service {
	return m.service
}

// Load refreshes the database overrides.
func (m *Module) Load(ctx context.Context) error {
	return m.service.Load(ctx)
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/i18n")
	group.GET("/languages", m.handler.Languages)
	group.GET("/bundle", m.handler.Bundle)
	group.GET("/translate", m.handler.Translate)

	admin := ctx.Admin.Group("/translations")
	admin.GET("", m.handler.ListOverrides)
	admin.PUT("/:key", m.handler.Upsert)
	admin.DELETE("/:key", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
