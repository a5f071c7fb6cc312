package admin

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers the unauthenticated login endpoint.
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/admin/login", h.Login)
}

// RegisterProtectedRoutes registers the JWT-guarded dashboard endpoints.
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/admin/stats", h.Stats)
}
