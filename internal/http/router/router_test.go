package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "roadsaver_backend/internal/http"
	"roadsaver_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

type stubConfig struct{}

func (stubConfig) GetHTTPAddr() string         { return ":0" }
func (stubConfig) GetCORSAllowAll() bool       { return false }
func (stubConfig) GetCORSOrigins() []string    { return []string{"http://localhost:5173"} }
func (stubConfig) GetCORSAllowCreds() bool     { return false }
func (stubConfig) GetDefaultLanguage() string  { return "en" }
func (stubConfig) GetFallbackLanguage() string { return "en" }
func (stubConfig) GetI18nDebug() bool          { return false }

type stubHealth struct{ err error }

func (s stubHealth) Ping(context.Context) error { return s.err }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/echo", func(c *gin.Context) {
		lang, _ := c.Get("lang")
		c.String(http.StatusOK, "%v", lang)
	})
}

func newTestApp(health apphttp.HealthChecker) *apphttp.App {
	gin.SetMode(gin.TestMode)
	return &apphttp.App{
		Config:    stubConfig{},
		Logger:    logger.Discard(),
		Health:    health,
		Languages: []language.Tag{language.English, language.Bulgarian},
		Modules:   []apphttp.Module{echoModule{}},
	}
}

func TestReadyReportsDatabaseFailure(t *testing.T) {
	engine := New(newTestApp(stubHealth{err: errors.New("down")}))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestModuleRoutesReceiveNegotiatedLanguage(t *testing.T) {
	engine := New(newTestApp(stubHealth{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil)
	req.Header.Set("Accept-Language", "bg-BG")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "bg" {
		t.Fatalf("expected negotiated language bg, got %q", w.Body.String())
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected security headers on module routes")
	}
}
