package i18n

import (
	"net/http"
	"sort"
	"strings"

	"roadsaver_backend/internal/http/middleware"
	"roadsaver_backend/platform/httpkit"
	"roadsaver_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

var languageNames = map[string]string{
	English:   "English",
	Bulgarian: "Български",
}

// TranslateQuery is the query string of the translate endpoint.
type TranslateQuery struct {
	Key     string `form:"key" validate:"required,max=200"`
	Count   *int   `form:"count" validate:"omitempty,min=0"`
	Context string `form:"context" validate:"max=64"`
}

// UpsertRequest is the body of an override update.
type UpsertRequest struct {
	English   string  `json:"english" validate:"max=2000"`
	Bulgarian string  `json:"bulgarian" validate:"max=2000"`
	Category  string  `json:"category" validate:"max=64"`
	Context   *string `json:"context" validate:"omitempty,max=500"`
}

type LanguageResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type TranslationResponse struct {
	Key       string  `json:"key"`
	English   string  `json:"english"`
	Bulgarian string  `json:"bulgarian"`
	Category  string  `json:"category"`
	Context   *string `json:"context,omitempty"`
}

// Handler serves translations over HTTP.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a translations handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Languages lists the supported languages.
// GET /api/v1/i18n/languages
func (h *Handler) Languages(c *gin.Context) {
	engine := h.svc.Engine()
	langs := engine.Languages()
	items := make([]LanguageResponse, 0, len(langs))
	for _, code := range langs {
		items = append(items, LanguageResponse{Code: code, Name: languageNames[code]})
	}
	httpkit.OK(c, gin.H{
		"items":    items,
		"default":  engine.DefaultLanguage(),
		"fallback": engine.FallbackLanguage(),
	})
}

// Bundle returns every translation in the negotiated language.
// GET /api/v1/i18n/bundle
func (h *Handler) Bundle(c *gin.Context) {
	engine := h.svc.Engine()
	lang := middleware.LanguageFrom(c, engine.DefaultLanguage())
	httpkit.OK(c, gin.H{
		"language":     lang,
		"translations": engine.Bundle(lang),
	})
}

// Translate resolves one key, as a plural when count is given.
// GET /api/v1/i18n/translate?key=&count=&context=
func (h *Handler) Translate(c *gin.Context) {
	var q TranslateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	engine := h.svc.Engine()
	lang := middleware.LanguageFrom(c, engine.DefaultLanguage())

	var text string
	if q.Count != nil {
		text = engine.TranslatePlural(lang, q.Key, *q.Count, nil)
	} else {
		text = engine.Translate(lang, q.Key, nil, q.Context)
	}

	httpkit.OK(c, gin.H{
		"key":      q.Key,
		"language": lang,
		"text":     text,
		"found":    engine.HasKey(q.Key) || engine.HasKey(MigrateKey(q.Key)),
	})
}

// ListOverrides returns the database overrides.
// GET /api/v1/admin/translations
func (h *Handler) ListOverrides(c *gin.Context) {
	overrides := h.svc.Engine().Overrides()
	sort.Slice(overrides, func(i, j int) bool { return overrides[i].Key < overrides[j].Key })

	items := make([]TranslationResponse, 0, len(overrides))
	for _, o := range overrides {
		items = append(items, toTranslationResponse(o))
	}
	httpkit.OK(c, gin.H{"items": items})
}

// Upsert creates or replaces an override.
// PUT /api/v1/admin/translations/:key
func (h *Handler) Upsert(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	o, err := h.svc.Upsert(c.Request.Context(), Override{
		Key:       key,
		English:   req.English,
		Bulgarian: req.Bulgarian,
		Category:  req.Category,
		Context:   req.Context,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toTranslationResponse(o))
}

// Delete removes an override.
// DELETE /api/v1/admin/translations/:key
func (h *Handler) Delete(c *gin.Context) {
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), c.Param("key"))) {
		return
	}
	c.Status(http.StatusNoContent)
}

func toTranslationResponse(o Override) TranslationResponse {
	category := o.Category
	if category == "" {
		category = "general"
	}
	return TranslationResponse{
		Key:       o.Key,
		English:   o.English,
		Bulgarian: o.Bulgarian,
		Category:  category,
		Context:   o.Context,
	}
}
