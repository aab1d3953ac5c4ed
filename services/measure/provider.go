package measure

import (
	"context"
	"errors"

	"instaquote/models"
)

// Event names raised by map and shape targets.
const (
	EventClick      = "click"
	EventDblClick   = "dblclick"
	EventRightClick = "rightclick"
	EventInsertAt   = "insert_at"
	EventSetAt      = "set_at"
	EventRemoveAt   = "remove_at"
)

var (
	ErrAddressRequired = errors.New("measure: enter an address first")
	ErrMapUnavailable  = errors.New("measure: map is unavailable")
	ErrSurfaceClosed   = errors.New("measure: surface closed")
	ErrShapeNotFound   = errors.New("measure: shape not found")
	ErrAddressNotFound = errors.New("measure: address not found")
	ErrSuperseded      = errors.New("measure: superseded by a newer locate")
)

// ShapeKind is the geometry type drawn in a given mode.
type ShapeKind int

const (
	KindPolygon ShapeKind = iota
	KindPolyline
)

// KindFor returns the shape kind drawn in mode.
func KindFor(mode models.MeasureMode) ShapeKind {
	if mode == models.ModeLength {
		return KindPolyline
	}
	return KindPolygon
}

// Style is the stroke/fill used for drawn shapes.
type Style struct {
	StrokeColor  string
	StrokeWeight int
	FillColor    string
	FillOpacity  float64
	Editable     bool
}

// MapOptions configures a freshly loaded map.
type MapOptions struct {
	Center  models.LatLng
	Zoom    int
	MapType string
}

// Event is delivered to handlers registered with OnEvent. Vertex is -1 when the
// event hit a shape body rather than a vertex handle.
type Event struct {
	Name   string
	Index  int
	Vertex int
	Point  models.LatLng
}

// MapHandle is a loaded map view.
type MapHandle interface {
	Center() models.LatLng
	SetCenter(center models.LatLng)
	Release()
}

// ShapeHandle is a drawn polygon or polyline owned by the provider.
type ShapeHandle interface {
	Path() []models.LatLng
	Append(p models.LatLng)
	InsertAt(i int, p models.LatLng)
	SetAt(i int, p models.LatLng)
	RemoveAt(i int)
	Release()
}

// GeocodeResult is the resolved location of an address.
type GeocodeResult struct {
	Location         models.LatLng `json:"location"`
	FormattedAddress string        `json:"formattedAddress"`
}

// Canvas renders maps and shapes and delivers their events.
type Canvas interface {
	LoadMap(ctx context.Context, container string, opts MapOptions) (MapHandle, error)
	CreateShape(kind ShapeKind, path []models.LatLng, style Style) (ShapeHandle, error)
	OnEvent(target any, name string, handler func(Event)) (unsubscribe func())
}

// Geocoder resolves an address to a map location.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (GeocodeResult, error)
}

// Geometry computes spherical measures of a path, in square meters and meters.
type Geometry interface {
	ComputeArea(path []models.LatLng) float64
	ComputeLength(path []models.LatLng) float64
}

// Provider is everything the surface needs from a map SDK.
type Provider interface {
	Canvas
	Geocoder
	Geometry
}

type provider struct {
	Canvas
	Geocoder
	Geometry
}

// NewProvider composes a provider from its three capabilities.
func NewProvider(canvas Canvas, geocoder Geocoder, geometry Geometry) Provider {
	return provider{Canvas: canvas, Geocoder: geocoder, Geometry: geometry}
}
