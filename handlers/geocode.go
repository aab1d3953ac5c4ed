package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"instaquote/services/measure"
	"instaquote/utils"
)

// GeocodeHandler resolves addresses for the measurement step.
type GeocodeHandler struct {
	geocoder measure.Geocoder
}

func NewGeocodeHandler(geocoder measure.Geocoder) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

// GeocodeAddress returns the map center for an address.
func (h *GeocodeHandler) GeocodeAddress(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing required query parameter: address", "")
		return
	}

	res, err := h.geocoder.Geocode(c.Request.Context(), address)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case errors.Is(err, measure.ErrAddressNotFound):
		utils.JSONError(c, http.StatusNotFound, measure.StatusAddressMissing, "")
	case errors.Is(err, measure.ErrGeocoderNotConfigured):
		getLogger(c).Error("geocoder not configured")
		utils.JSONError(c, http.StatusInternalServerError, "API authentication error", "")
	default:
		getLogger(c).Warn("geocoding failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Geocoding request failed", "Please try again later")
	}
}
