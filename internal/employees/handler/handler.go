package handler

import (
	"net/http"

	"roadsaver_backend/internal/employees/service"
	"roadsaver_backend/internal/employees/transport"
	"roadsaver_backend/platform/httpkit"
	"roadsaver_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Names files larger than this are rejected.
const maxNamesFileBytes = 1 << 20

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid account ID"
)

// Handler handles HTTP requests for employees.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new employees handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListSimulated returns the simulated employee pool.
// GET /api/v1/admin/employees/simulated
func (h *Handler) ListSimulated(c *gin.Context) {
	rows, err := h.svc.ListSimulated(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": transport.ToSimulatedEmployeeResponses(rows)})
}

// Sync upserts the names file sent as the request body.
// POST /api/v1/admin/employees/simulated/sync?dryRun=
func (h *Handler) Sync(c *gin.Context) {
	var q transport.SyncQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxNamesFileBytes)
	result, err := h.svc.Sync(c.Request.Context(), body, q.DryRun)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListAccounts returns employee accounts, optionally filtered by status.
// GET /api/v1/admin/employees/accounts
func (h *Handler) ListAccounts(c *gin.Context) {
	var q transport.ListAccountsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	rows, err := h.svc.ListAccounts(c.Request.Context(), q.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": transport.ToAccountResponses(rows)})
}

// CreateAccount adds an employee account.
// POST /api/v1/admin/employees/accounts
func (h *Handler) CreateAccount(c *gin.Context) {
	var req transport.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	account, err := h.svc.CreateAccount(c.Request.Context(), service.CreateAccountInput{
		Username:     req.Username,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		EmployeeRole: req.EmployeeRole,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToAccountResponse(account))
}

// UpdateStatus activates, deactivates or suspends an account.
// PATCH /api/v1/admin/employees/accounts/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	account, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToAccountResponse(account))
}
