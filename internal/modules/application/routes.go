package application

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the public application endpoints.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	apps := r.Group("/applications")
	{
		apps.POST("", h.Create)
		apps.GET("", h.List)
		apps.GET("/search", h.Search)
		apps.GET("/:id", h.GetByID)
		apps.PATCH("/:id", h.Update)
		apps.DELETE("/:id", h.Delete)
	}

	r.POST("/check-email", h.CheckEmail)
}
