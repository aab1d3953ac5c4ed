package measure

import (
	"math"

	"github.com/golang/geo/s2"

	"instaquote/models"
)

// EarthRadiusMeters is the sphere radius used by the map provider's spherical math.
const EarthRadiusMeters = 6378137.0

// S2Geometry measures paths with golang/geo/s2 loops and polylines.
type S2Geometry struct{}

func toS2Points(path []models.LatLng) []s2.Point {
	pts := make([]s2.Point, 0, len(path))
	for _, p := range path {
		pt := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lng))
		if n := len(pts); n > 0 && pts[n-1] == pt {
			continue
		}
		pts = append(pts, pt)
	}
	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	if clockwise(path) {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	return pts
}

// clockwise reports the winding of path in plain lng/lat coordinates.
func clockwise(path []models.LatLng) bool {
	sum := 0.0
	for i := range path {
		j := (i + 1) % len(path)
		sum += path[i].Lng*path[j].Lat - path[j].Lng*path[i].Lat
	}
	return sum < 0
}

// ComputeArea returns the area enclosed by path in square meters, whatever the
// winding order of its vertices.
func (S2Geometry) ComputeArea(path []models.LatLng) float64 {
	pts := toS2Points(path)
	if len(pts) < 3 {
		return 0
	}
	steradians := s2.LoopFromPoints(pts).Area()
	if steradians > 2*math.Pi {
		steradians = 4*math.Pi - steradians
	}
	return steradians * EarthRadiusMeters * EarthRadiusMeters
}

// ComputeLength returns the great-circle length of path in meters.
func (S2Geometry) ComputeLength(path []models.LatLng) float64 {
	if len(path) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(path); i++ {
		a := s2.LatLngFromDegrees(path[i-1].Lat, path[i-1].Lng)
		b := s2.LatLngFromDegrees(path[i].Lat, path[i].Lng)
		total += a.Distance(b).Radians() * EarthRadiusMeters
	}
	return total
}
