package storage

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the upload endpoint.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/upload", h.Upload)
}
