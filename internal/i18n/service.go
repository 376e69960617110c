package i18n

import (
	"context"
	"strings"

	"roadsaver_backend/platform/apperr"
	"roadsaver_backend/platform/logger"
	"roadsaver_backend/platform/sanitize"
)

// requiredOverrides must exist in the database so administrators can edit
// them without creating rows by hand.
var requiredOverrides = []Override{
	{Key: "portal.subtitle", English: "Choose your access portal", Bulgarian: "Изберете вашия портал за достъп", Category: "portal"},
	{Key: "portal.user.title", English: "User App", Bulgarian: "Потребителско приложение", Category: "portal"},
	{Key: "portal.employee.title", English: "Employee App", Bulgarian: "Служебно приложение", Category: "portal"},
	{Key: "settings.title", English: "Settings", Bulgarian: "Настройки", Category: "settings"},
	{Key: "settings.tabs.history", English: "History", Bulgarian: "История", Category: "settings"},
	{Key: "ui.actions.cancel", English: "Cancel", Bulgarian: "Отказ", Category: "ui"},
	{Key: "requests.events.noEmployees", English: "No employees are available right now. Please try again later", Bulgarian: "В момента няма свободни служители. Моля, опитайте по-късно", Category: "requests"},
}

// Service keeps the engine's override cache in step with the store.
type Service struct {
	engine *Engine
	store  Store
	log    *logger.Logger
}

// NewService creates a translation service. store may be nil, in which
// case only the embedded resources are served.
func NewService(engine *Engine, store Store, log *logger.Logger) *Service {
	return &Service{engine: engine, store: store, log: log}
}

// Engine returns the translation engine.
func (s *Service) Engine() *Engine { return s.engine }

// Load inserts missing required keys and refreshes the override cache.
func (s *Service) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	added, err := s.store.InsertMissing(ctx, requiredOverrides)
	if err != nil {
		return err
	}
	if added > 0 {
		s.log.Info("seeded required translations", "count", added)
	}

	overrides, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	s.engine.SetOverrides(overrides)
	s.log.Info("translations loaded", "overrides", len(overrides))
	return nil
}

// Upsert stores an override and updates the cache.
func (s *Service) Upsert(ctx context.Context, o Override) (Override, error) {
	o.Key = strings.TrimSpace(o.Key)
	o.English = sanitize.Text(o.English)
	o.Bulgarian = sanitize.Text(o.Bulgarian)
	o.Context = sanitize.TextPtr(o.Context)
	if o.English == "" && o.Bulgarian == "" {
		return Override{}, apperr.Validation("at least one translation text is required")
	}
	if s.store == nil {
		return Override{}, apperr.Unavailable("translation storage is not configured")
	}

	if err := s.store.Upsert(ctx, o); err != nil {
		return Override{}, err
	}
	s.engine.PutOverride(o)
	s.log.Info("translation override saved", "key", o.Key)
	return o, nil
}

// Delete removes an override; the embedded text applies again.
func (s *Service) Delete(ctx context.Context, key string) error {
	if s.store == nil {
		return apperr.Unavailable("translation storage is not configured")
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	s.engine.RemoveOverride(key)
	s.log.Info("translation override deleted", "key", key)
	return nil
}
