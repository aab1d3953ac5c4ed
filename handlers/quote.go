package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"instaquote/middleware"
	"instaquote/models"
	"instaquote/services/pricing"
	"instaquote/services/quote"
	"instaquote/utils"
)

// QuoteHandler serves pricing previews and lead submissions.
type QuoteHandler struct {
	svc *quote.Service
}

func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

// FencePreviewRequest prices a fence run without a lead.
type FencePreviewRequest struct {
	Feet  float64               `json:"feet" binding:"gte=0"`
	Fence models.FenceSelection `json:"fence"`
}

// CatalogResponse lists what a tenant sells.
type CatalogResponse struct {
	PricingModel string                    `json:"pricingModel"`
	Services     []pricing.ServiceMetadata `json:"services"`
	FenceTypes   []string                  `json:"fenceTypes,omitempty"`
}

func origin(c *gin.Context) quote.Origin {
	return quote.Origin{
		Tenant: middleware.TenantFrom(c),
		Host:   middleware.RequestHost(c),
		IP:     middleware.ClientIP(c),
	}
}

// SubmitQuote re-prices the claimed quote and emails the lead.
func (h *QuoteHandler) SubmitQuote(c *gin.Context) {
	var sub models.QuoteSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		utils.QuoteError(c, http.StatusBadRequest, quote.MsgInvalidPayload)
		return
	}
	o := origin(c)
	res, err := h.svc.Submit(c.Request.Context(), o, sub)
	if err != nil {
		h.fail(c, o, err)
		return
	}
	c.JSON(http.StatusOK, utils.QuoteResponse{OK: true, ID: res.ID})
}

// SubmitFenceQuote is SubmitQuote for the fence variant.
func (h *QuoteHandler) SubmitFenceQuote(c *gin.Context) {
	var sub models.FenceSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		utils.QuoteError(c, http.StatusBadRequest, quote.MsgInvalidPayload)
		return
	}
	o := origin(c)
	res, err := h.svc.SubmitFence(c.Request.Context(), o, sub)
	if err != nil {
		h.fail(c, o, err)
		return
	}
	c.JSON(http.StatusOK, utils.QuoteResponse{OK: true, ID: res.ID})
}

func (h *QuoteHandler) fail(c *gin.Context, o quote.Origin, err error) {
	var verr *quote.ValidationError
	if errors.As(err, &verr) {
		utils.QuoteError(c, http.StatusBadRequest, verr.Message)
		return
	}
	fields := append(tenantFields(c, o.Tenant), zap.Error(err))
	getLogger(c).Error("quote_submission_failed", fields...)
	utils.QuoteError(c, http.StatusInternalServerError, quote.MsgSendFailed)
}

// PreviewQuote prices a selection for the tenant's pricing model.
func (h *QuoteHandler) PreviewQuote(c *gin.Context) {
	var req models.QuotePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, quote.MsgInvalidPayload, err.Error())
		return
	}
	if req.Frequency == "" {
		req.Frequency = models.FrequencyWeekly
	}
	if !req.Frequency.Valid() {
		utils.JSONError(c, http.StatusBadRequest, quote.MsgInvalidFrequency, string(req.Frequency))
		return
	}
	c.JSON(http.StatusOK, h.svc.Preview(middleware.TenantFrom(c), req))
}

// PreviewFenceQuote prices a fence run.
func (h *QuoteHandler) PreviewFenceQuote(c *gin.Context) {
	var req FencePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, quote.MsgInvalidPayload, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.svc.PreviewFence(middleware.TenantFrom(c), req.Feet, req.Fence))
}

// GetCatalog lists the services and fence types the tenant can quote.
func (h *QuoteHandler) GetCatalog(c *gin.Context) {
	t := middleware.TenantFrom(c)
	resp := CatalogResponse{
		PricingModel: h.svc.Engine(t).Model(),
		Services:     pricing.Catalog(),
	}
	if t.Mode == models.ModeLength {
		resp.FenceTypes = pricing.FenceTypes(t.Fence)
	}
	c.JSON(http.StatusOK, resp)
}
