package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roadsaver_backend/internal/events"
	"roadsaver_backend/internal/requests/domain"
	"roadsaver_backend/internal/requests/repository"
	"roadsaver_backend/internal/requests/service"
	"roadsaver_backend/internal/requests/transport"
	"roadsaver_backend/platform/logger"
	"roadsaver_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type slowConfig struct{}

func (slowConfig) GetSubmitDelay() time.Duration { return time.Hour }
func (slowConfig) GetQuoteDelayRange() (time.Duration, time.Duration) {
	return time.Hour, time.Hour
}
func (slowConfig) GetRevisionDelay() time.Duration  { return time.Hour }
func (slowConfig) GetReassignDelay() time.Duration  { return time.Hour }
func (slowConfig) GetTickInterval() time.Duration   { return time.Hour }
func (slowConfig) GetMaxTravel() time.Duration      { return time.Hour }
func (slowConfig) GetArrivalDelay() time.Duration   { return time.Hour }
func (slowConfig) GetRetainFinished() time.Duration { return time.Hour }
func (slowConfig) GetTravelSpeedKmh() float64       { return 40 }

type noEmployees struct{}

func (noEmployees) ListAvailable(context.Context, []string) ([]domain.Employee, error) {
	return nil, nil
}

type noopRecorder struct{}

func (noopRecorder) RecordCompletion(context.Context, service.CompletionRecord) error { return nil }
func (noopRecorder) RecordDecline(context.Context, service.DeclineRecord) error       { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Discard()
	svc := service.New(
		slowConfig{},
		noEmployees{},
		noopRecorder{},
		repository.NewMemorySnapshotStore(time.Hour),
		events.NewInMemoryBus(log),
		log,
	)
	t.Cleanup(svc.Shutdown)

	h, err := New(svc, validator.New())
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	r := gin.New()
	r.GET("/service-types", h.ServiceTypes)
	r.POST("/requests", h.Submit)
	r.GET("/requests/active", h.Active)
	r.GET("/requests/:id", h.Get)
	r.GET("/requests/:id/quote", h.Quote)
	r.POST("/requests/:id/decline", h.Decline)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/requests", transport.SubmitRequest{
		Username:    "maria",
		ServiceType: "car-battery",
		Lat:         42.6977,
		Lng:         23.3219,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp transport.RequestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "pending" || resp.ServiceType != "car-battery" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.ServiceFeeCents != 500 {
		t.Fatalf("expected service fee 500, got %d", resp.ServiceFeeCents)
	}

	w = doJSON(r, http.MethodGet, "/requests/active?username=maria", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected active request, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/requests", transport.SubmitRequest{
		Username:    "maria",
		ServiceType: "tow-truck",
		Lat:         42.6977,
		Lng:         23.3219,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a second ongoing request, got %d", w.Code)
	}
}

func TestSubmitRejectsUnknownServiceType(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/requests", map[string]any{
		"username":    "maria",
		"serviceType": "helicopter",
		"lat":         42.0,
		"lng":         23.0,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Details["serviceType"] != "servicetype" {
		t.Fatalf("expected servicetype rule in details, got %v", resp.Details)
	}
}

func TestDeclineBeforeQuoteConflicts(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/requests", transport.SubmitRequest{
		Username:    "georgi",
		ServiceType: "flat-tyre",
		Lat:         42.1,
		Lng:         24.7,
	})
	var created transport.RequestResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(r, http.MethodPost, "/requests/"+created.ID.String()+"/decline", transport.ActionRequest{Username: "georgi"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/requests/"+created.ID.String()+"/decline", transport.ActionRequest{Username: "someone"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for another user, got %d", w.Code)
	}
}

func TestLookupsReportMissingResources(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		path string
		want int
	}{
		{"/requests/not-a-uuid", http.StatusBadRequest},
		{"/requests/6f1c1f7e-1d2a-4a8e-9b1e-2f9f9f3d0c11", http.StatusNotFound},
		{"/requests/6f1c1f7e-1d2a-4a8e-9b1e-2f9f9f3d0c11/quote", http.StatusNotFound},
		{"/requests/active", http.StatusBadRequest},
		{"/requests/active?username=nobody", http.StatusNotFound},
	}
	for _, tt := range tests {
		if w := doJSON(r, http.MethodGet, tt.path, nil); w.Code != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.path, tt.want, w.Code)
		}
	}
}

func TestServiceTypesListsCatalogue(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/service-types", nil)
	var resp struct {
		Items []transport.ServiceTypeResponse `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != len(domain.ServiceTypes()) {
		t.Fatalf("expected %d service types, got %d", len(domain.ServiceTypes()), len(resp.Items))
	}
	if resp.Items[0].Slug != "flat-tyre" || resp.Items[0].BasePriceCents != 3500 {
		t.Fatalf("unexpected first item %+v", resp.Items[0])
	}
}

func TestNewRegistersServiceTypeRuleOnSharedValidator(t *testing.T) {
	log := logger.Discard()
	svc := service.New(
		slowConfig{},
		noEmployees{},
		noopRecorder{},
		repository.NewMemorySnapshotStore(time.Hour),
		events.NewInMemoryBus(log),
		log,
	)
	t.Cleanup(svc.Shutdown)

	val := validator.New()
	if _, err := New(svc, val); err != nil {
		t.Fatalf("new handler: %v", err)
	}

	if err := val.Var("tow-truck", "servicetype"); err != nil {
		t.Fatalf("expected tow-truck to pass, got %v", err)
	}
	if err := val.Var("helicopter", "servicetype"); err == nil {
		t.Fatalf("expected helicopter to be rejected")
	}
}
