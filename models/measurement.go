package models

// LatLng is a geographic point in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MeasureMode selects polygon area or polyline length measurement.
type MeasureMode string

const (
	ModeArea   MeasureMode = "area"
	ModeLength MeasureMode = "length"
)

// Valid reports whether m is a known mode.
func (m MeasureMode) Valid() bool {
	return m == ModeArea || m == ModeLength
}

// MeasureRequest is the body of POST /api/measure.
type MeasureRequest struct {
	Mode   MeasureMode `json:"mode" binding:"required"`
	Shapes [][]LatLng  `json:"shapes"`
}

// MeasureResponse reports the derived scalar for a shape set.
type MeasureResponse struct {
	Mode        MeasureMode `json:"mode"`
	Measurement float64     `json:"measurement"`
	Unit        string      `json:"unit"`
	Shapes      [][]LatLng  `json:"shapes"`
}
