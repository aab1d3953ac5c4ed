package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"instaquote/models"
	"instaquote/services/tenant"
	"instaquote/utils"
)

// TenantKey is where the resolved tenant lives in the gin context.
const TenantKey = "tenant"

// TenantHeader lets an embedding page name its tenant explicitly.
const TenantHeader = "X-Tenant-Slug"

// ResolveTenant picks the tenant for every request and applies its embedding
// policy. A /t/<slug>/ path naming an unknown tenant is a 404; an unknown slug
// from the header or referer falls through to host resolution.
func ResolveTenant(reg *tenant.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Host")

		var t *models.TenantConfig
		if slug := tenant.SlugFromPath(c.Request.URL.Path); slug != "" {
			found, err := reg.BySlug(slug)
			if err != nil {
				utils.JSONError(c, http.StatusNotFound, "Unknown tenant", slug)
				c.Abort()
				return
			}
			t = found
		}
		if t == nil {
			for _, slug := range []string{c.GetHeader(TenantHeader), refererSlug(c.GetHeader("Referer"))} {
				if slug == "" {
					continue
				}
				if found, err := reg.BySlug(slug); err == nil {
					t = found
					break
				}
			}
		}
		if t == nil {
			t = reg.ByHost(RequestHost(c))
		}

		c.Set(TenantKey, t)
		c.Header("Content-Security-Policy", tenant.FrameAncestors(t))
		c.Next()
	}
}

func refererSlug(referer string) string {
	if referer == "" {
		return ""
	}
	u, err := url.Parse(referer)
	if err != nil {
		return ""
	}
	return tenant.SlugFromPath(u.Path)
}

// TenantFrom returns the tenant resolved for this request.
func TenantFrom(c *gin.Context) *models.TenantConfig {
	if v, ok := c.Get(TenantKey); ok {
		if t, ok := v.(*models.TenantConfig); ok {
			return t
		}
	}
	return nil
}
