package handlers

import (
	"instaquote/services/ratelimit"
	"instaquote/services/tenant"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all your endpoint handlers into one struct.
type HandlerBundle struct {
	Tenants      *tenant.Registry
	QuoteLimiter *ratelimit.Window
	// SelfOrigin is the app's public origin; empty means derive it per request.
	SelfOrigin string

	// Quote endpoints
	SubmitQuote       gin.HandlerFunc
	PreviewQuote      gin.HandlerFunc
	SubmitFenceQuote  gin.HandlerFunc
	PreviewFenceQuote gin.HandlerFunc
	GetCatalog        gin.HandlerFunc

	// Tenant endpoints
	GetTenant gin.HandlerFunc

	// Measurement endpoints
	Measure       gin.HandlerFunc
	ReplayMeasure gin.HandlerFunc
	Geocode       gin.HandlerFunc

	// Session endpoints
	CreateSession gin.HandlerFunc
	GetSession    gin.HandlerFunc
	UpdateSession gin.HandlerFunc
	BeginSession  gin.HandlerFunc
	DeleteSession gin.HandlerFunc

	Health gin.HandlerFunc
}
