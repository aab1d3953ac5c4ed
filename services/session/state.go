package session

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"instaquote/models"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 2

var ErrUnknownLeadField = errors.New("session: unknown lead field")

// Lead holds the contact fields typed into the lead form.
type Lead struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	PreferredDate string `json:"preferredDate"`
}

// State is the in-progress wizard for one visitor.
type State struct {
	ID          string                `json:"id"`
	Version     int                   `json:"version"`
	Tenant      string                `json:"tenant"`
	Address     string                `json:"address"`
	Center      *models.LatLng        `json:"center"`
	Mode        models.MeasureMode    `json:"mode"`
	Shapes      [][]models.LatLng     `json:"shapes"`
	Measurement float64               `json:"measurement"`
	Services    []models.ServiceKey   `json:"services"`
	Frequency   models.Frequency      `json:"frequency"`
	Fence       models.FenceSelection `json:"fence"`
	Lead        Lead                  `json:"lead"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// New returns a fresh state with the default selection.
func New(tenant string, mode models.MeasureMode) *State {
	now := time.Now().UTC()
	s := &State{
		ID:        uuid.NewString(),
		Tenant:    tenant,
		Mode:      mode,
		CreatedAt: now,
	}
	s.Reset()
	return s
}

// Reset restores the defaults. ID, tenant and mode are kept.
func (s *State) Reset() {
	s.Version = CurrentVersion
	s.Address = ""
	s.Center = nil
	s.Shapes = nil
	s.Measurement = 0
	s.Services = []models.ServiceKey{models.ServiceMowing}
	s.Frequency = models.FrequencyWeekly
	s.Fence = models.FenceSelection{}
	s.Lead = Lead{}
	s.touch()
}

// Begin runs when a visitor lands on the entry step. Arriving through a
// continue link keeps the saved state; anything else starts over.
func (s *State) Begin(continueFlow bool) {
	if continueFlow {
		s.touch()
		return
	}
	s.Reset()
}

func (s *State) touch() { s.UpdatedAt = time.Now().UTC() }

// NormalizeAddress is the form addresses are compared in.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func (s *State) SetAddress(address string) {
	s.Address = address
	s.touch()
}

func (s *State) SetCenter(center *models.LatLng) {
	s.Center = center
	s.touch()
}

// ChangeAddress sets a newly entered address. When it differs from the
// current one after normalization the drawn geometry and center are dropped.
// It reports whether that reset happened.
func (s *State) ChangeAddress(address string, center *models.LatLng) bool {
	changed := NormalizeAddress(address) != NormalizeAddress(s.Address)
	if changed {
		s.Shapes = nil
		s.Measurement = 0
		s.Center = nil
	}
	s.Address = address
	if center != nil {
		s.Center = center
	}
	s.touch()
	return changed
}

func (s *State) SetShapes(shapes [][]models.LatLng) {
	s.Shapes = shapes
	s.touch()
}

// SetMeasurement stores what the measuring surface reported. Area
// measurements are whole square feet and never negative.
func (s *State) SetMeasurement(m float64) {
	if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
		m = 0
	}
	if s.Mode != models.ModeLength {
		m = math.Round(m)
	}
	s.Measurement = m
	s.touch()
}

func (s *State) hasService(key models.ServiceKey) bool {
	for _, k := range s.Services {
		if k == key {
			return true
		}
	}
	return false
}

func (s *State) AddService(key models.ServiceKey) {
	if s.hasService(key) {
		return
	}
	s.Services = append(s.Services, key)
	s.touch()
}

func (s *State) RemoveService(key models.ServiceKey) {
	kept := s.Services[:0]
	for _, k := range s.Services {
		if k != key {
			kept = append(kept, k)
		}
	}
	s.Services = kept
	s.touch()
}

func (s *State) ToggleService(key models.ServiceKey) {
	if s.hasService(key) {
		s.RemoveService(key)
		return
	}
	s.AddService(key)
}

// SetMowingFrequency ignores values outside weekly and biweekly.
func (s *State) SetMowingFrequency(f models.Frequency) {
	if !f.Valid() {
		return
	}
	s.Frequency = f
	s.touch()
}

func (s *State) SetFence(sel models.FenceSelection) {
	s.Fence = sel
	s.touch()
}

// SetLeadField sets one lead form field by its JSON name.
func (s *State) SetLeadField(field, value string) error {
	switch field {
	case "name":
		s.Lead.Name = value
	case "phone":
		s.Lead.Phone = value
	case "email":
		s.Lead.Email = value
	case "preferredDate":
		s.Lead.PreferredDate = value
	default:
		return ErrUnknownLeadField
	}
	s.touch()
	return nil
}
