package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"instaquote/middleware"
	"instaquote/models"
)

// getLogger retrieves the request logger set by the middleware chain.
func getLogger(c *gin.Context) *zap.Logger {
	return middleware.GetLogger(c)
}

// tenantFields are the log fields shared by every tenant-scoped event.
func tenantFields(c *gin.Context, t *models.TenantConfig) []zap.Field {
	slug := ""
	if t != nil {
		slug = t.Slug
	}
	return []zap.Field{
		zap.String("tenant", slug),
		zap.String("host", middleware.RequestHost(c)),
		zap.String("ip", middleware.ClientIP(c)),
	}
}
