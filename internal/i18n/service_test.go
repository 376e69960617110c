package i18n

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roadsaver_backend/internal/http/middleware"
	"roadsaver_backend/platform/apperr"
	"roadsaver_backend/platform/logger"
	"roadsaver_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

type memoryStore struct {
	rows map[string]Override
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]Override)}
}

func (m *memoryStore) List(context.Context) ([]Override, error) {
	out := make([]Override, 0, len(m.rows))
	for _, o := range m.rows {
		out = append(out, o)
	}
	return out, nil
}

func (m *memoryStore) Upsert(_ context.Context, o Override) error {
	m.rows[o.Key] = o
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	if _, ok := m.rows[key]; !ok {
		return apperr.NotFound(translationNotFoundMessage)
	}
	delete(m.rows, key)
	return nil
}

func (m *memoryStore) InsertMissing(_ context.Context, overrides []Override) (int, error) {
	added := 0
	for _, o := range overrides {
		if _, ok := m.rows[o.Key]; !ok {
			m.rows[o.Key] = o
			added++
		}
	}
	return added, nil
}

func TestLoadSeedsRequiredKeysOnce(t *testing.T) {
	store := newMemoryStore()
	store.rows["settings.title"] = Override{Key: "settings.title", English: "Preferences", Bulgarian: "Предпочитания"}

	svc := NewService(newTestEngine(t, false), store, logger.Discard())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.rows) != len(requiredOverrides) {
		t.Fatalf("expected %d rows, got %d", len(requiredOverrides), len(store.rows))
	}
	if got := svc.Engine().Translate(English, "settings.title", nil, ""); got != "Preferences" {
		t.Fatalf("expected existing override to be kept, got %q", got)
	}
}

func TestUpsertSanitizesAndRefreshesCache(t *testing.T) {
	svc := NewService(newTestEngine(t, false), newMemoryStore(), logger.Discard())

	if _, err := svc.Upsert(context.Background(), Override{Key: "ui.actions.save", English: "<b>Store</b>  now"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.Engine().Translate(English, "ui.actions.save", nil, ""); got != "Store now" {
		t.Fatalf("expected sanitized override, got %q", got)
	}

	if _, err := svc.Upsert(context.Background(), Override{Key: "x", English: "  "}); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := svc.Delete(context.Background(), "ui.actions.save"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.Engine().Translate(English, "ui.actions.save", nil, ""); got != "Save" {
		t.Fatalf("expected static text after delete, got %q", got)
	}
	if err := svc.Delete(context.Background(), "ui.actions.save"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpsertSanitizesOptionalContext(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(newTestEngine(t, false), store, logger.Discard())

	note := "  shown on the <i>quote</i>\n screen "
	saved, err := svc.Upsert(context.Background(), Override{Key: "ui.actions.save", English: "Save", Context: &note})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Context == nil || *saved.Context != "shown on the quote screen" {
		t.Fatalf("expected sanitized context, got %v", saved.Context)
	}
	if stored := store.rows["ui.actions.save"].Context; stored == nil || *stored != "shown on the quote screen" {
		t.Fatalf("expected sanitized context in store, got %v", stored)
	}

	saved, err = svc.Upsert(context.Background(), Override{Key: "ui.actions.cancel", English: "Cancel"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Context != nil {
		t.Fatalf("expected nil context, got %q", *saved.Context)
	}
}

func TestServiceWithoutStore(t *testing.T) {
	svc := NewService(newTestEngine(t, false), nil, logger.Discard())

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("expected load to be a no-op, got %v", err)
	}
	if _, err := svc.Upsert(context.Background(), Override{Key: "a", English: "b"}); apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(NewService(newTestEngine(t, false), newMemoryStore(), logger.Discard()), validator.New())
	r := gin.New()
	r.Use(middleware.Language([]language.Tag{language.English, language.Bulgarian}))
	r.GET("/i18n/languages", h.Languages)
	r.GET("/i18n/bundle", h.Bundle)
	r.GET("/i18n/translate", h.Translate)
	r.PUT("/admin/translations/:key", h.Upsert)
	r.DELETE("/admin/translations/:key", h.Delete)
	return r
}

func TestTranslateEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/i18n/translate?key=requests.employeesAvailable&count=3", nil)
	req.Header.Set("Accept-Language", "bg")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Language string `json:"language"`
		Text     string `json:"text"`
		Found    bool   `json:"found"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Language != "bg" || resp.Text != "3 налични служители" || !resp.Found {
		t.Fatalf("unexpected response %+v", resp)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/i18n/translate", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without key, got %d", w.Code)
	}
}

func TestBundleEndpointUsesQueryLanguage(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/i18n/bundle?lang=bg", nil))

	var resp struct {
		Language     string            `json:"language"`
		Translations map[string]string `json:"translations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Language != "bg" || resp.Translations["app.error"] != "Грешка" {
		t.Fatalf("unexpected bundle %s", resp.Language)
	}
}

func TestAdminOverrideEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/translations/app.error",
		strings.NewReader(`{"english":"Oops","bulgarian":"Опа","category":"app"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/translations/app.error", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/translations/app.error", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
