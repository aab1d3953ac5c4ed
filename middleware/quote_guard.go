package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"instaquote/services/quote"
	"instaquote/services/ratelimit"
	"instaquote/services/tenant"
	"instaquote/utils"
)

// RequireAllowedOrigin rejects submissions whose Origin or Referer is not
// allowed for the tenant. selfOrigin is the app's public origin; when empty the
// request's own origin is used.
func RequireAllowedOrigin(selfOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := TenantFrom(c)
		self := selfOrigin
		if self == "" {
			self = RequestOrigin(c)
		}
		origin, referer := c.GetHeader("Origin"), c.GetHeader("Referer")
		if t == nil || !tenant.SubmissionAllowed(t, origin, referer, self) {
			slug := ""
			if t != nil {
				slug = t.Slug
			}
			GetLogger(c).Warn("quote_origin_rejected",
				zap.String("tenant", slug),
				zap.String("host", RequestHost(c)),
				zap.String("ip", ClientIP(c)),
				zap.String("origin", origin),
				zap.String("referer", referer),
			)
			utils.QuoteError(c, http.StatusForbidden, quote.MsgOriginRejected)
			return
		}
		c.Next()
	}
}

// QuoteRateLimit caps submissions per tenant and client IP.
func QuoteRateLimit(w *ratelimit.Window) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := ""
		if t := TenantFrom(c); t != nil {
			slug = t.Slug
		}
		ip := ClientIP(c)
		d := w.Allow(slug + ":" + ip)
		if !d.Allowed {
			GetLogger(c).Warn("quote_rate_limited",
				zap.String("tenant", slug),
				zap.String("host", RequestHost(c)),
				zap.String("ip", ip),
				zap.Int("retryAfter", d.RetryAfter),
			)
			c.Header("Retry-After", strconv.Itoa(d.RetryAfter))
			utils.QuoteError(c, http.StatusTooManyRequests, quote.MsgRateLimited)
			return
		}
		c.Next()
	}
}
