package measure

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"instaquote/models"
)

// Conversion constants for reported measurements.
const (
	SqFtPerSqMeter = 10.7639104
	FeetPerMeter   = 3.28084
)

// OrbGeometry measures paths on the WGS84 sphere with paulmach/orb.
type OrbGeometry struct{}

func toRing(path []models.LatLng) orb.Ring {
	ring := make(orb.Ring, 0, len(path)+1)
	for _, p := range path {
		ring = append(ring, orb.Point{p.Lng, p.Lat})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

func toLineString(path []models.LatLng) orb.LineString {
	ls := make(orb.LineString, 0, len(path))
	for _, p := range path {
		ls = append(ls, orb.Point{p.Lng, p.Lat})
	}
	return ls
}

// ComputeArea returns the spherical area enclosed by path in square meters.
func (OrbGeometry) ComputeArea(path []models.LatLng) float64 {
	if len(path) < 3 {
		return 0
	}
	return math.Abs(geo.Area(toRing(path)))
}

// ComputeLength returns the great-circle length of path in meters.
func (OrbGeometry) ComputeLength(path []models.LatLng) float64 {
	if len(path) < 2 {
		return 0
	}
	return geo.LengthHaversine(toLineString(path))
}

// Bounds returns the bounding box of every point in shapes.
func Bounds(shapes [][]models.LatLng) (min, max models.LatLng, ok bool) {
	var mp orb.MultiPoint
	for _, path := range shapes {
		for _, p := range path {
			mp = append(mp, orb.Point{p.Lng, p.Lat})
		}
	}
	if len(mp) == 0 {
		return models.LatLng{}, models.LatLng{}, false
	}
	b := mp.Bound()
	return models.LatLng{Lat: b.Min.Lat(), Lng: b.Min.Lon()}, models.LatLng{Lat: b.Max.Lat(), Lng: b.Max.Lon()}, true
}
