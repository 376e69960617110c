// Package notification delivers request events to users in real time.
// It subscribes to the event bus and pushes localised messages to the
// user's SSE streams and movement updates to WebSocket tracking clients.
package notification

import (
	"context"
	"net/http"
	"strings"

	"roadsaver_backend/internal/events"
	apphttp "roadsaver_backend/internal/http"
	"roadsaver_backend/internal/http/middleware"
	"roadsaver_backend/internal/i18n"
	"roadsaver_backend/internal/notification/sse"
	"roadsaver_backend/internal/notification/tracking"
	"roadsaver_backend/internal/requests/domain"
	"roadsaver_backend/platform/apperr"
	"roadsaver_backend/platform/httpkit"
	"roadsaver_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Translator renders translation keys.
type Translator interface {
	Translate(lang, key string, params i18n.Params, ctxName string) string
}

// RequestOwners resolves the username that submitted a request.
type RequestOwners interface {
	Owner(ctx context.Context, requestID uuid.UUID) (string, error)
}

// msgRef is a parameter value that is itself a translation key.
type msgRef string

// Module handles all notification-related event subscriptions.
type Module struct {
	translator  Translator
	owners      RequestOwners
	sse         *sse.Service
	hub         *tracking.Hub
	defaultLang string
	log         *logger.Logger
}

// New creates the notification module. allowOrigin guards WebSocket
// upgrades; nil allows every origin.
func New(translator Translator, owners RequestOwners, defaultLang string, allowOrigin func(*http.Request) bool, log *logger.Logger) *Module {
	m := &Module{
		translator:  translator,
		owners:      owners,
		defaultLang: defaultLang,
		log:         log,
	}
	m.sse = sse.New(m.localize, log)
	m.hub = tracking.NewHub(m.localize, allowOrigin, log)
	return m
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// SSE returns the server-sent events service.
func (m *Module) SSE() *sse.Service { return m.sse }

// Hub returns the tracking hub.
func (m *Module) Hub() *tracking.Hub { return m.hub }

// RegisterRoutes registers the streaming endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/events", m.sse.Handler(usernameQuery, m.language))
	ctx.V1.GET("/requests/:id/track", m.track)
}

// Close disconnects every streaming client.
func (m *Module) Close() {
	m.sse.Close()
	m.hub.Close()
}

// RegisterHandlers subscribes to all request events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	for _, name := range []string{
		events.NameRequestSubmitted,
		events.NameEmployeeAssigned,
		events.NameQuoteSent,
		events.NameQuoteRevised,
		events.NameEmployeeBlacklisted,
		events.NameNoEmployeesAvailable,
		events.NameRequestAccepted,
		events.NameEmployeeMoved,
		events.NameEmployeeArrived,
		events.NameRequestCompleted,
		events.NameRequestCancelled,
	} {
		bus.Subscribe(name, m)
	}
	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the user's streams and the tracking hub.
func (m *Module) Handle(_ context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.RequestSubmitted:
		m.notify(e.RequestRef, "submitted", "requests.events.submitted", i18n.Params{"service": msgRef(e.ServiceType)}, e)
	case events.EmployeeAssigned:
		m.notify(e.RequestRef, "employee_assigned", "requests.events.employeeAssigned", i18n.Params{"employee": e.EmployeeName}, e)
	case events.QuoteSent:
		m.notify(e.RequestRef, "quote_sent", "requests.events.quoteSent", i18n.Params{
			"employee": e.EmployeeName,
			"price":    domain.Cents(e.PriceCents).String(),
		}, e)
	case events.QuoteRevised:
		m.notify(e.RequestRef, "quote_revised", "requests.events.quoteRevised", i18n.Params{
			"employee": e.EmployeeName,
			"price":    domain.Cents(e.PriceCents).String(),
		}, e)
	case events.EmployeeBlacklisted:
		m.notify(e.RequestRef, "employee_blacklisted", "requests.events.employeeBlacklisted", i18n.Params{"employee": e.EmployeeName}, e)
	case events.NoEmployeesAvailable:
		m.notify(e.RequestRef, "no_employees", "requests.events.noEmployees", nil, e)
		m.hub.CloseRoom(e.RequestID)
	case events.RequestAccepted:
		params := i18n.Params{"employee": e.EmployeeName, "eta": e.ETA}
		m.notify(e.RequestRef, "accepted", "requests.events.accepted", params, e)
		m.hub.Broadcast(e.RequestID, "accepted", "requests.events.accepted", params, e)
	case events.EmployeeMoved:
		params := i18n.Params{"employee": e.EmployeeName, "eta": e.ETA}
		m.notify(e.RequestRef, "employee_moved", "", nil, e)
		m.hub.Broadcast(e.RequestID, "employee_moved", "requests.events.moved", params, e)
	case events.EmployeeArrived:
		params := i18n.Params{"employee": e.EmployeeName}
		m.notify(e.RequestRef, "employee_arrived", "requests.events.arrived", params, e)
		m.hub.Broadcast(e.RequestID, "employee_arrived", "requests.events.arrived", params, e)
	case events.RequestCompleted:
		params := i18n.Params{"price": domain.Cents(e.TotalCents).String()}
		m.notify(e.RequestRef, "completed", "requests.events.completed", params, e)
		m.hub.Broadcast(e.RequestID, "completed", "requests.events.completed", params, e)
		m.hub.CloseRoom(e.RequestID)
	case events.RequestCancelled:
		m.notify(e.RequestRef, "cancelled", "requests.events.cancelled", nil, e)
		m.hub.Broadcast(e.RequestID, "cancelled", "requests.events.cancelled", nil, e)
		m.hub.CloseRoom(e.RequestID)
	default:
		return nil
	}
	return nil
}

func (m *Module) notify(ref events.RequestRef, eventType, key string, params i18n.Params, data any) {
	delivered := m.sse.Publish(ref.Username, sse.Notice{
		Type:      eventType,
		RequestID: ref.RequestID,
		Key:       key,
		Params:    params,
		Data:      data,
	})
	m.log.Debug("request event pushed", "type", eventType, "requestId", ref.RequestID, "streams", delivered)
}

// track serves the WebSocket tracking channel of a request to its owner.
// GET /api/v1/requests/:id/track?username=
func (m *Module) track(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request ID", nil)
		return
	}
	username, ok := usernameQuery(c)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, "username is required", nil)
		return
	}

	owner, err := m.owners.Owner(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	if owner != username {
		httpkit.HandleError(c, apperr.Forbidden("request belongs to another user"))
		return
	}

	if err := m.hub.Serve(c.Writer, c.Request, id, m.language(c)); err != nil {
		m.log.Warn("tracking upgrade failed", "requestId", id, "error", err)
	}
}

func (m *Module) language(c *gin.Context) string {
	return middleware.LanguageFrom(c, m.defaultLang)
}

func (m *Module) localize(lang, key string, params map[string]any) string {
	resolved := make(i18n.Params, len(params))
	for k, v := range params {
		if ref, ok := v.(msgRef); ok {
			resolved[k] = m.translator.Translate(lang, string(ref), nil, "")
			continue
		}
		resolved[k] = v
	}
	return m.translator.Translate(lang, key, resolved, "")
}

func usernameQuery(c *gin.Context) (string, bool) {
	username := strings.TrimSpace(c.Query("username"))
	return username, username != ""
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
