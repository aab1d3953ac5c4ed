package measure

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"instaquote/models"
)

// ShapesFromGeoJSON reads drawable paths from a GeoJSON geometry, feature or
// feature collection. Area mode takes polygon outer rings; length mode takes
// line strings. Other geometry types are skipped.
func ShapesFromGeoJSON(data []byte, mode models.MeasureMode) ([][]models.LatLng, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	var geometries []orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature collection: %w", err)
		}
		for _, f := range fc.Features {
			geometries = append(geometries, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature: %w", err)
		}
		geometries = append(geometries, f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("decode geometry: %w", err)
		}
		geometries = append(geometries, g.Geometry())
	}

	var shapes [][]models.LatLng
	for _, g := range geometries {
		shapes = append(shapes, pathsOf(g, mode)...)
	}
	return shapes, nil
}

func pathsOf(g orb.Geometry, mode models.MeasureMode) [][]models.LatLng {
	var out [][]models.LatLng
	switch v := g.(type) {
	case orb.Polygon:
		if mode == models.ModeArea && len(v) > 0 {
			out = append(out, fromPoints(v[0], true))
		}
	case orb.MultiPolygon:
		for _, p := range v {
			out = append(out, pathsOf(p, mode)...)
		}
	case orb.LineString:
		if mode == models.ModeLength {
			out = append(out, fromPoints(v, false))
		}
	case orb.MultiLineString:
		for _, ls := range v {
			out = append(out, pathsOf(ls, mode)...)
		}
	case orb.Collection:
		for _, child := range v {
			out = append(out, pathsOf(child, mode)...)
		}
	}
	return out
}

// fromPoints converts orb points. Rings drop their closing point.
func fromPoints(points []orb.Point, ring bool) []models.LatLng {
	if ring && len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	path := make([]models.LatLng, 0, len(points))
	for _, p := range points {
		path = append(path, models.LatLng{Lat: p.Lat(), Lng: p.Lon()})
	}
	return path
}

// ToFeatureCollection renders shapes as GeoJSON polygons or line strings.
func ToFeatureCollection(mode models.MeasureMode, shapes [][]models.LatLng) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, path := range shapes {
		var g orb.Geometry
		if mode == models.ModeLength {
			g = toLineString(path)
		} else {
			g = orb.Polygon{toRing(path)}
		}
		fc.Append(geojson.NewFeature(g))
	}
	return fc
}
