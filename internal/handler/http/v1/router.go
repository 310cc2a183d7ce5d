package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all API v1 routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Account routes
	api.POST("/signup", h.signup)
	api.POST("/login", h.login)

	// Report lifecycle routes
	reports := api.Group("/reports")
	{
		reports.POST("", h.createReport)
		reports.GET("", h.listReports)
		reports.GET("/:id", h.getReport)
		reports.DELETE("/:id", h.deleteReport)
		reports.PATCH("/:id/status", h.updateReportStatus)
	}

	// Admin routes behind the API key
	admin := api.Group("")
	admin.Use(APIKeyAuthMiddleware(h.cfg, h.logger))
	{
		admin.GET("/users", h.listUsers)
		admin.GET("/dashboard/stats", h.getStats)
	}

	// Health-check route
	api.GET("/system/health", h.healthCheck)
}
