package handler

import (
	"context"
	"net/http"
	"strings"

	"roadsaver_backend/internal/history/service"
	"roadsaver_backend/internal/history/transport"
	"roadsaver_backend/platform/httpkit"
	"roadsaver_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// PruneQueue hands a prune to the background worker.
type PruneQueue interface {
	EnqueuePrune(ctx context.Context) error
}

// Handler handles HTTP requests for history listings.
type Handler struct {
	svc   *service.Service
	val   *validator.Validator
	queue PruneQueue
}

// New creates a new history handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListForUser returns a user's completed and declined requests.
// GET /api/v1/history/users/:username
func (h *Handler) ListForUser(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListForUser(c.Request.Context(), username, q.Limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToUserHistoryList(username, rows))
}

// ListForEmployee returns the jobs a simulated employee completed.
// GET /api/v1/history/employees/:name
func (h *Handler) ListForEmployee(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListForEmployee(c.Request.Context(), name, q.Limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToEmployeeHistoryList(name, rows))
}

// SetPruneQueue routes admin prunes through the background worker.
func (h *Handler) SetPruneQueue(queue PruneQueue) {
	h.queue = queue
}

// Prune trims both history tables to the retention limit. With a queue the
// prune runs on the worker and the response is 202.
// POST /api/v1/admin/history/prune
func (h *Handler) Prune(c *gin.Context) {
	ctx := c.Request.Context()
	if h.queue != nil {
		if httpkit.HandleError(c, h.queue.EnqueuePrune(ctx)) {
			return
		}
		httpkit.JSON(c, http.StatusAccepted, transport.PruneResponse{Queued: true})
		return
	}

	res, err := h.svc.Prune(ctx)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.PruneResponse{UserRows: res.UserRows, EmployeeRows: res.EmployeeRows})
}

func (h *Handler) bindQuery(c *gin.Context) (transport.ListQuery, bool) {
	var q transport.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return q, false
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return q, false
	}
	return q, true
}
