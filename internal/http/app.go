// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"roadsaver_backend/internal/events"
	"roadsaver_backend/platform/config"
	"roadsaver_backend/platform/logger"

	"golang.org/x/text/language"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.I18nConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and language settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks (DB ping).
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Languages are the UI languages offered during Accept-Language negotiation.
	Languages []language.Tag
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
