package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"instaquote/middleware"
	"instaquote/services/tenant"
)

// GetTenant returns the public branding of the resolved tenant.
func GetTenant(c *gin.Context) {
	c.JSON(http.StatusOK, tenant.Branding(middleware.TenantFrom(c)))
}
