package handler

import (
	"context"
	"fmt"
	"net/http"

	"roadsaver_backend/internal/requests/domain"
	"roadsaver_backend/internal/requests/service"
	"roadsaver_backend/internal/requests/transport"
	"roadsaver_backend/platform/httpkit"
	"roadsaver_backend/platform/validator"

	"github.com/gin-gonic/gin"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid request ID"
)

// Handler handles HTTP requests for service requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new requests handler and registers the servicetype rule.
func New(svc *service.Service, val *validator.Validator) (*Handler, error) {
	if err := val.RegisterValidation("servicetype", validServiceType); err != nil {
		return nil, fmt.Errorf("register servicetype validation: %w", err)
	}
	return &Handler{svc: svc, val: val}, nil
}

func validServiceType(fl govalidator.FieldLevel) bool {
	return domain.ServiceType(fl.Field().String()).Valid()
}

// Submit files a new request.
// POST /api/v1/requests
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), service.SubmitInput{
		Username:    req.Username,
		ServiceType: domain.ServiceType(req.ServiceType),
		Message:     req.Message,
		Location:    domain.Location{Lat: req.Lat, Lng: req.Lng},
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToRequestResponse(result))
}

// Get returns a request by ID.
// GET /api/v1/requests/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToRequestResponse(result))
}

// Active returns the user's ongoing or most recent request.
// GET /api/v1/requests/active?username=
func (h *Handler) Active(c *gin.Context) {
	var q transport.ActiveQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	result, err := h.svc.Active(c.Request.Context(), q.Username)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToRequestResponse(result))
}

// Quote returns the stored price quote of a request.
// GET /api/v1/requests/:id/quote
func (h *Handler) Quote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	snap, err := h.svc.Snapshot(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToQuoteSnapshotResponse(snap))
}

// Decline rejects the current quote.
// POST /api/v1/requests/:id/decline
func (h *Handler) Decline(c *gin.Context) {
	h.respond(c, h.svc.Decline)
}

// Accept takes the current quote.
// POST /api/v1/requests/:id/accept
func (h *Handler) Accept(c *gin.Context) {
	h.respond(c, h.svc.Accept)
}

// Cancel abandons the request.
// POST /api/v1/requests/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	h.respond(c, h.svc.Cancel)
}

// ServiceTypes lists the services that can be requested.
// GET /api/v1/service-types
func (h *Handler) ServiceTypes(c *gin.Context) {
	httpkit.OK(c, gin.H{"items": transport.ToServiceTypeResponses()})
}

type actionFunc func(ctx context.Context, id uuid.UUID, username string) (domain.Request, error)

func (h *Handler) respond(c *gin.Context, action actionFunc) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := action(c.Request.Context(), id, req.Username)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToRequestResponse(result))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
