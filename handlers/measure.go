package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"instaquote/models"
	"instaquote/services/measure"
	"instaquote/utils"
)

const replayTimeout = 5 * time.Second

// MeasureHandler derives measurements from drawn shapes.
type MeasureHandler struct {
	geometry measure.Geometry
}

func NewMeasureHandler(geometry measure.Geometry) *MeasureHandler {
	if geometry == nil {
		geometry = measure.OrbGeometry{}
	}
	return &MeasureHandler{geometry: geometry}
}

func unitFor(mode models.MeasureMode) string {
	if mode == models.ModeLength {
		return "ft"
	}
	return "sqft"
}

// Measure sums the area or length of the submitted shapes.
func (h *MeasureHandler) Measure(c *gin.Context) {
	var req models.MeasureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid measurement request", err.Error())
		return
	}
	if !req.Mode.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "Invalid measurement mode", string(req.Mode))
		return
	}
	c.JSON(http.StatusOK, models.MeasureResponse{
		Mode:        req.Mode,
		Measurement: measure.Measure(req.Mode, req.Shapes, h.geometry),
		Unit:        unitFor(req.Mode),
		Shapes:      req.Shapes,
	})
}

// ReplayMeasure applies recorded drawing gestures and returns the resulting shapes.
func (h *MeasureHandler) ReplayMeasure(c *gin.Context) {
	var req measure.ReplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid replay request", err.Error())
		return
	}
	if !req.Mode.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "Invalid measurement mode", string(req.Mode))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), replayTimeout)
	defer cancel()
	snap, err := measure.Replay(ctx, req, h.geometry)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		utils.JSONError(c, status, "Could not replay drawing", err.Error())
		return
	}
	c.JSON(http.StatusOK, models.MeasureResponse{
		Mode:        snap.Mode,
		Measurement: snap.Measurement,
		Unit:        unitFor(snap.Mode),
		Shapes:      snap.Shapes,
	})
}
