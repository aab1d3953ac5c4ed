package routes

import (
	"net/http"
	"time"

	"instaquote/handlers"
	"instaquote/middleware"
	"instaquote/services/tenant"
	"instaquote/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// registerQuoteRoutes registers the pricing and submission endpoints.
func registerQuoteRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/catalog", hb.GetCatalog)
	api.POST("/quote/preview", hb.PreviewQuote)
	api.POST("/fence-quote/preview", hb.PreviewFenceQuote)

	// Submissions pass the origin gate before they count against the limiter.
	guarded := api.Group("")
	guarded.Use(
		middleware.RequireAllowedOrigin(hb.SelfOrigin),
		middleware.QuoteRateLimit(hb.QuoteLimiter),
	)
	guarded.POST("/quote", hb.SubmitQuote)
	guarded.POST("/fence-quote", hb.SubmitFenceQuote)
}

// registerFunnelRoutes registers the wizard endpoints.
func registerFunnelRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/tenant", hb.GetTenant)

	api.POST("/measure", hb.Measure)
	api.POST("/measure/replay", hb.ReplayMeasure)
	api.GET("/geocode", hb.Geocode)

	api.POST("/session", hb.CreateSession)
	api.GET("/session", hb.GetSession)
	api.PATCH("/session", hb.UpdateSession)
	api.POST("/session/begin", hb.BeginSession)
	api.DELETE("/session", hb.DeleteSession)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.Health != nil {
		r.GET("/api/health", hb.Health)
		return
	}
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// tenantCORS accepts any origin some tenant allows to embed the funnel.
// Simple requests from other origins pass through untouched so the
// submission origin gate can reject them itself.
func tenantCORS(reg *tenant.Registry) gin.HandlerFunc {
	allowed := reg.AllOrigins()
	isAllowed := func(origin string) bool {
		o, ok := tenant.NormalizeOrigin(origin)
		return ok && allowed[o]
	}
	handler := cors.New(cors.Config{
		AllowOriginFunc:  isAllowed,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.TenantHeader},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && c.Request.Method != http.MethodOptions && !isAllowed(origin) {
			c.Next()
			return
		}
		handler(c)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
// Every API route is also served under /t/:slug for path-addressed tenants.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(tenantCORS(hb.Tenants))
	r.Use(middleware.ResolveTenant(hb.Tenants))

	for _, prefix := range []string{"/api", "/t/:slug/api"} {
		api := r.Group(prefix)
		registerFunnelRoutes(api, hb)
		registerQuoteRoutes(api, hb)
	}
	RegisterHealthRoute(r, hb)
}
