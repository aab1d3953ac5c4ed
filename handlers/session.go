package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"instaquote/middleware"
	"instaquote/models"
	"instaquote/services/measure"
	"instaquote/services/pricing"
	"instaquote/services/quote"
	"instaquote/services/session"
	"instaquote/utils"
)

// SessionHandler keeps the wizard state between steps. The cookie holds only
// the session ID; the state lives in the store.
type SessionHandler struct {
	store    session.Store
	geometry measure.Geometry
}

func NewSessionHandler(store session.Store, geometry measure.Geometry) *SessionHandler {
	if geometry == nil {
		geometry = measure.OrbGeometry{}
	}
	return &SessionHandler{store: store, geometry: geometry}
}

// SessionUpdate is a batch of wizard edits applied in field order.
type SessionUpdate struct {
	Address        *string                `json:"address"`
	Center         *models.LatLng         `json:"center"`
	Shapes         *[][]models.LatLng     `json:"shapes"`
	Measurement    *float64               `json:"measurement"`
	AddServices    []models.ServiceKey    `json:"addServices"`
	RemoveServices []models.ServiceKey    `json:"removeServices"`
	ToggleServices []models.ServiceKey    `json:"toggleServices"`
	Frequency      *models.Frequency      `json:"frequency"`
	Fence          *models.FenceSelection `json:"fence"`
	Lead           map[string]string      `json:"lead"`
}

// SessionResponse wraps the state with whether an address change dropped the drawing.
type SessionResponse struct {
	*session.State
	GeometryReset bool `json:"geometryReset,omitempty"`
}

// BeginRequest marks arrival on the entry step.
type BeginRequest struct {
	Continue bool `json:"continue"`
}

func sessionID(c *gin.Context) string {
	id, _ := sessions.Default(c).Get(utils.SessionIDKey).(string)
	return id
}

// load returns the caller's state, or writes a 404 and returns nil.
func (h *SessionHandler) load(c *gin.Context) *session.State {
	id := sessionID(c)
	if id == "" {
		utils.JSONError(c, http.StatusNotFound, "No quote session", "")
		return nil
	}
	st, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, session.ErrSessionNotFound) {
		utils.JSONError(c, http.StatusNotFound, "No quote session", "")
		return nil
	}
	if err != nil {
		getLogger(c).Error("session load failed", zap.String("session", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load quote session", "")
		return nil
	}
	return st
}

func (h *SessionHandler) save(c *gin.Context, st *session.State) bool {
	if err := h.store.Save(c.Request.Context(), st); err != nil {
		getLogger(c).Error("session save failed", zap.String("session", st.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not save quote session", "")
		return false
	}
	return true
}

// CreateSession starts a new wizard for the resolved tenant.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	t := middleware.TenantFrom(c)
	mode := t.Mode
	if !mode.Valid() {
		mode = models.ModeArea
	}
	st := session.New(t.Slug, mode)
	if !h.save(c, st) {
		return
	}

	cookie := sessions.Default(c)
	cookie.Set(utils.SessionIDKey, st.ID)
	if err := cookie.Save(); err != nil {
		getLogger(c).Error("session cookie save failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not save quote session", "")
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{State: st})
}

// GetSession returns the caller's wizard state.
func (h *SessionHandler) GetSession(c *gin.Context) {
	st := h.load(c)
	if st == nil {
		return
	}
	c.JSON(http.StatusOK, SessionResponse{State: st})
}

// BeginSession resets the wizard unless the visitor continues a saved quote.
func (h *SessionHandler) BeginSession(c *gin.Context) {
	var req BeginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload.", err.Error())
		return
	}
	st := h.load(c)
	if st == nil {
		return
	}
	st.Begin(req.Continue)
	if !h.save(c, st) {
		return
	}
	c.JSON(http.StatusOK, SessionResponse{State: st})
}

// UpdateSession applies a batch of edits.
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var req SessionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload.", err.Error())
		return
	}
	st := h.load(c)
	if st == nil {
		return
	}

	for _, key := range append(append([]models.ServiceKey{}, req.AddServices...), req.ToggleServices...) {
		if !pricing.IsKnownService(key) {
			utils.JSONError(c, http.StatusBadRequest, quote.MsgInvalidServices, string(key))
			return
		}
	}

	reset := false
	switch {
	case req.Address != nil:
		reset = st.ChangeAddress(*req.Address, req.Center)
	case req.Center != nil:
		st.SetCenter(req.Center)
	}
	if req.Shapes != nil {
		st.SetShapes(*req.Shapes)
		if req.Measurement == nil {
			st.SetMeasurement(measure.Measure(st.Mode, *req.Shapes, h.geometry))
		}
	}
	if req.Measurement != nil {
		st.SetMeasurement(*req.Measurement)
	}
	for _, key := range req.AddServices {
		st.AddService(key)
	}
	for _, key := range req.RemoveServices {
		st.RemoveService(key)
	}
	for _, key := range req.ToggleServices {
		st.ToggleService(key)
	}
	if req.Frequency != nil {
		st.SetMowingFrequency(*req.Frequency)
	}
	if req.Fence != nil {
		st.SetFence(*req.Fence)
	}
	for field, value := range req.Lead {
		if err := st.SetLeadField(field, value); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Unknown lead field", field)
			return
		}
	}

	if !h.save(c, st) {
		return
	}
	c.JSON(http.StatusOK, SessionResponse{State: st, GeometryReset: reset})
}

// DeleteSession forgets the wizard state and the cookie.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if id := sessionID(c); id != "" {
		if err := h.store.Delete(c.Request.Context(), id); err != nil {
			getLogger(c).Warn("session delete failed", zap.String("session", id), zap.Error(err))
		}
	}
	cookie := sessions.Default(c)
	cookie.Clear()
	_ = cookie.Save()
	c.Status(http.StatusNoContent)
}
