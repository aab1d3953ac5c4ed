package measure

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaquote/models"
)

func rect(lat1, lng1, lat2, lng2 float64) []models.LatLng {
	return []models.LatLng{
		{Lat: lat1, Lng: lng1},
		{Lat: lat1, Lng: lng2},
		{Lat: lat2, Lng: lng2},
		{Lat: lat2, Lng: lng1},
	}
}

func reversed(path []models.LatLng) []models.LatLng {
	out := make([]models.LatLng, len(path))
	for i, p := range path {
		out[len(path)-1-i] = p
	}
	return out
}

func TestGeometry_AgreeOnSmallLot(t *testing.T) {
	lot := rect(40.0, -111.9, 40.001, -111.899)
	rad := math.Pi / 180
	want := EarthRadiusMeters * EarthRadiusMeters * (0.001 * rad) * (math.Sin(40.001*rad) - math.Sin(40.0*rad))

	for name, g := range map[string]Geometry{"orb": OrbGeometry{}, "s2": S2Geometry{}} {
		t.Run(name, func(t *testing.T) {
			assert.InEpsilon(t, want, g.ComputeArea(lot), 0.01)
			assert.InEpsilon(t, g.ComputeArea(lot), g.ComputeArea(reversed(lot)), 1e-6)

			closed := append(append([]models.LatLng(nil), lot...), lot[0])
			assert.InEpsilon(t, g.ComputeArea(lot), g.ComputeArea(closed), 1e-6)

			meridian := []models.LatLng{{Lat: 40.0, Lng: -111.9}, {Lat: 40.001, Lng: -111.9}}
			assert.InEpsilon(t, EarthRadiusMeters*0.001*rad, g.ComputeLength(meridian), 0.005)

			assert.Zero(t, g.ComputeArea(lot[:2]))
			assert.Zero(t, g.ComputeLength(lot[:1]))
		})
	}
}

func TestMeasure(t *testing.T) {
	square := []models.LatLng{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}

	t.Run("area sums shapes and skips degenerate ones", func(t *testing.T) {
		got := Measure(models.ModeArea, [][]models.LatLng{square, square, square[:2]}, planarGeometry{})
		assert.Equal(t, 2153.0, got)
	})

	t.Run("length rounds to a tenth of a foot", func(t *testing.T) {
		got := Measure(models.ModeLength, [][]models.LatLng{square[:2], square[:1]}, planarGeometry{})
		assert.Equal(t, 32.8, got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Zero(t, Measure(models.ModeArea, nil, planarGeometry{}))
		assert.Zero(t, Measure(models.ModeLength, nil, planarGeometry{}))
	})
}

func TestBounds(t *testing.T) {
	min, max, ok := Bounds([][]models.LatLng{{pt(1, 2), pt(-3, 5)}, {pt(4, -1)}})
	require.True(t, ok)
	assert.Equal(t, pt(-3, -1), min)
	assert.Equal(t, pt(4, 5), max)

	_, _, ok = Bounds(nil)
	assert.False(t, ok)
}

func TestReplay(t *testing.T) {
	p := func(x, y float64) *models.LatLng {
		v := pt(x, y)
		return &v
	}
	idx := func(i int) *int { return &i }

	t.Run("draw edit and remove", func(t *testing.T) {
		snap, err := Replay(context.Background(), ReplayRequest{
			Mode: models.ModeArea,
			Ops: []Op{
				{Kind: OpClick, Point: p(0, 0)},
				{Kind: OpClick, Point: p(10, 0)},
				{Kind: OpClick, Point: p(10, 10)},
				{Kind: OpClick, Point: p(0, 10)},
				{Kind: OpClick, Point: p(0, 0)},
				{Kind: OpClick, Point: p(50, 50)},
				{Kind: OpClick, Point: p(60, 50)},
				{Kind: OpClick, Point: p(60, 60)},
				{Kind: OpDoubleClick},
				{Kind: OpMove, Shape: 0, Vertex: idx(2), Point: p(20, 10)},
				{Kind: OpRightClick, Shape: 1},
			},
		}, planarGeometry{})
		require.NoError(t, err)
		assert.Len(t, snap.Shapes, 1)
		assert.Equal(t, 1615.0, snap.Measurement)
	})

	t.Run("initial shapes and open polyline", func(t *testing.T) {
		snap, err := Replay(context.Background(), ReplayRequest{
			Mode:    models.ModeLength,
			Initial: [][]models.LatLng{{pt(0, 0), pt(0, 10)}},
			Ops: []Op{
				{Kind: OpClick, Point: p(100, 0)},
				{Kind: OpClick, Point: p(110, 0)},
			},
		}, planarGeometry{})
		require.NoError(t, err)
		assert.Len(t, snap.Shapes, 2)
		assert.Equal(t, 65.6, snap.Measurement)
	})

	t.Run("rightclick without vertex removes the shape body", func(t *testing.T) {
		var req ReplayRequest
		require.NoError(t, json.Unmarshal([]byte(`{
			"mode": "area",
			"initial": [[{"lat":0,"lng":0},{"lat":0,"lng":10},{"lat":10,"lng":10}]],
			"ops": [{"op":"rightclick","shape":0}]
		}`), &req))

		snap, err := Replay(context.Background(), req, planarGeometry{})
		require.NoError(t, err)
		assert.Empty(t, snap.Shapes)
		assert.Zero(t, snap.Measurement)
	})

	t.Run("rightclick on a vertex keeps the shape", func(t *testing.T) {
		snap, err := Replay(context.Background(), ReplayRequest{
			Mode:    models.ModeArea,
			Initial: [][]models.LatLng{{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}},
			Ops:     []Op{{Kind: OpRightClick, Shape: 0, Vertex: idx(0)}},
		}, planarGeometry{})
		require.NoError(t, err)
		assert.Len(t, snap.Shapes, 1)
	})

	t.Run("clear", func(t *testing.T) {
		snap, err := Replay(context.Background(), ReplayRequest{
			Mode:    models.ModeArea,
			Initial: [][]models.LatLng{{pt(0, 0), pt(10, 0), pt(10, 10)}},
			Ops:     []Op{{Kind: OpClear}},
		}, planarGeometry{})
		require.NoError(t, err)
		assert.Empty(t, snap.Shapes)
		assert.Zero(t, snap.Measurement)
	})

	t.Run("bad ops", func(t *testing.T) {
		_, err := Replay(context.Background(), ReplayRequest{Mode: models.ModeArea, Ops: []Op{{Kind: "wave"}}}, planarGeometry{})
		assert.ErrorIs(t, err, ErrUnknownOp)

		_, err = Replay(context.Background(), ReplayRequest{Mode: models.ModeArea, Ops: []Op{{Kind: OpRemove, Shape: 3}}}, planarGeometry{})
		assert.ErrorIs(t, err, ErrShapeNotFound)

		_, err = Replay(context.Background(), ReplayRequest{Mode: models.ModeArea, Ops: []Op{{Kind: OpClick}}}, planarGeometry{})
		assert.Error(t, err)

		_, err = Replay(context.Background(), ReplayRequest{
			Mode:    models.ModeArea,
			Initial: [][]models.LatLng{{pt(0, 0), pt(10, 0), pt(10, 10)}},
			Ops:     []Op{{Kind: OpRemove, Shape: 0}},
		}, planarGeometry{})
		assert.ErrorContains(t, err, "vertex required")
	})
}

func TestGoogleGeocoder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("address") {
		case "1 Main St":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "OK",
				"results": []map[string]any{{
					"formatted_address": "1 Main St, Provo, UT",
					"geometry":          map[string]any{"location": map[string]float64{"lat": 40.23, "lng": -111.66}},
				}},
			})
		case "denied":
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "REQUEST_DENIED", "error_message": "bad key"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "ZERO_RESULTS", "results": []any{}})
		}
	}))
	defer srv.Close()

	g := NewGoogleGeocoder("secret").WithBaseURL(srv.URL)

	res, err := g.Geocode(context.Background(), " 1 Main St ")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St, Provo, UT", res.FormattedAddress)
	assert.Equal(t, models.LatLng{Lat: 40.23, Lng: -111.66}, res.Location)

	_, err = g.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = g.Geocode(context.Background(), "denied")
	assert.ErrorContains(t, err, "REQUEST_DENIED")

	_, err = NewGoogleGeocoder("").Geocode(context.Background(), "1 Main St")
	assert.ErrorIs(t, err, ErrGeocoderNotConfigured)
}
