package application

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"internhub/internal/pkg/response"
	"internhub/internal/pkg/validator"
)

// Handler maps the REST endpoints onto the application service.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /applications.
func (h *Handler) Create(c *gin.Context) {
	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	app, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// List handles GET /applications.
func (h *Handler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", defaultPageSize)

	result, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Search handles GET /applications/search.
func (h *Handler) Search(c *gin.Context) {
	filters := SearchFilters{
		Email:    c.Query("email"),
		FullName: c.Query("full_name"),
	}

	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "date_from must be YYYY-MM-DD")
			return
		}
		filters.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "date_to must be YYYY-MM-DD")
			return
		}
		filters.DateTo = &t
	}

	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", defaultPageSize)

	result, err := h.service.Search(c.Request.Context(), filters, page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetByID handles GET /applications/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	app, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// Update handles PATCH /applications/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	app, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// Delete handles DELETE /applications/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// CheckEmail handles POST /check-email.
func (h *Handler) CheckEmail(c *gin.Context) {
	var req CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_EMAIL", "A valid email is required")
		return
	}

	exists, err := h.service.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exists": exists})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if ve, ok := AsValidationError(err); ok {
		response.ValidationFailed(c, http.StatusBadRequest, ve.Messages)
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Application not found")
	case errors.Is(err, ErrDuplicateEmail):
		response.Error(c, http.StatusBadRequest, "DUPLICATE_EMAIL", "An application with this email already exists")
	case errors.Is(err, ErrNoFields):
		response.Error(c, http.StatusBadRequest, "NO_FIELDS", "No fields to update")
	default:
		response.Error(c, http.StatusInternalServerError, "DATABASE_ERROR", "Internal server error")
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid application ID")
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
