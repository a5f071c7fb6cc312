package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"internhub/internal/pkg/response"
	"internhub/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /admin/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS_FORMAT", "Email and password are required")
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DATABASE_ERROR", "Internal server error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}

// Stats handles GET /admin/stats (JWT protected).
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "DATABASE_ERROR", "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, stats)
}
