package measure

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"instaquote/models"
)

// Measure aggregates shapes into square feet (area) or feet (length).
// Paths below the minimum vertex count for the mode contribute nothing.
func Measure(mode models.MeasureMode, shapes [][]models.LatLng, g Geometry) float64 {
	if mode == models.ModeLength {
		meters := 0.0
		for _, path := range shapes {
			if len(path) >= 2 {
				meters += g.ComputeLength(path)
			}
		}
		feet := meters * FeetPerMeter
		if math.IsNaN(feet) || math.IsInf(feet, 0) || feet <= 0 {
			return 0
		}
		return math.Round(feet*10) / 10
	}

	sqm := 0.0
	for _, path := range shapes {
		if len(path) >= 3 {
			sqm += g.ComputeArea(path)
		}
	}
	sqft := math.Round(sqm * SqFtPerSqMeter)
	if math.IsNaN(sqft) || math.IsInf(sqft, 0) || sqft < 0 {
		return 0
	}
	return sqft
}

// OpKind names a replayable drawing gesture.
type OpKind string

const (
	OpClick       OpKind = "click"
	OpDoubleClick OpKind = "dblclick"
	OpFinish      OpKind = "finish"
	OpInsert      OpKind = "insert"
	OpMove        OpKind = "move"
	OpRemove      OpKind = "remove"
	OpRightClick  OpKind = "rightclick"
	OpClear       OpKind = "clear"
)

var ErrUnknownOp = errors.New("measure: unknown drawing operation")

// Op is one drawing gesture. Shape indexes the completed shapes in drawing
// order at the time the op runs. A rightclick without Vertex, or with a
// negative one, targets the shape body.
type Op struct {
	Kind   OpKind         `json:"op" binding:"required"`
	Point  *models.LatLng `json:"point,omitempty"`
	Shape  int            `json:"shape"`
	Vertex *int           `json:"vertex,omitempty"`
}

// ReplayRequest seeds a headless surface and the gestures to apply to it.
type ReplayRequest struct {
	Mode    models.MeasureMode `json:"mode" binding:"required"`
	Center  models.LatLng      `json:"center"`
	Initial [][]models.LatLng  `json:"initial,omitempty"`
	Ops     []Op               `json:"ops"`
}

// replayStep advances the virtual clock between ops so cooldowns elapse.
const replayStep = time.Second

// Replay applies ops to a headless surface and returns the resulting shapes
// and measurement.
func Replay(ctx context.Context, req ReplayRequest, g Geometry) (Snapshot, error) {
	canvas := NewHeadless()
	clock := time.Unix(0, 0)
	s := NewSurface(NewProvider(canvas, nil, g), Options{
		Mode: req.Mode,
		Map:  MapOptions{Center: req.Center, Zoom: 20},
		Now:  func() time.Time { return clock },
	})
	defer s.Close()

	if err := s.Load(ctx); err != nil {
		return Snapshot{}, err
	}
	if err := s.SetLocation(req.Center); err != nil {
		return Snapshot{}, err
	}
	if err := s.Restore(req.Initial); err != nil {
		return Snapshot{}, err
	}

	for i, op := range req.Ops {
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}
		clock = clock.Add(replayStep)
		if err := applyOp(s, canvas, op); err != nil {
			return Snapshot{}, fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
	}
	if err := s.Finish(); err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

func applyOp(s *Surface, canvas *Headless, op Op) error {
	point := func() (models.LatLng, error) {
		if op.Point == nil {
			return models.LatLng{}, errors.New("point required")
		}
		return *op.Point, nil
	}
	vertex := func() (int, error) {
		if op.Vertex == nil {
			return 0, errors.New("vertex required")
		}
		return *op.Vertex, nil
	}
	shapeID := func() (int, error) {
		ids := s.ShapeIDs()
		if op.Shape < 0 || op.Shape >= len(ids) {
			return 0, ErrShapeNotFound
		}
		return ids[op.Shape], nil
	}

	switch op.Kind {
	case OpClick:
		p, err := point()
		if err != nil {
			return err
		}
		return s.Click(p)
	case OpDoubleClick, OpFinish:
		return s.Finish()
	case OpClear:
		return s.Clear()
	case OpInsert, OpMove:
		p, err := point()
		if err != nil {
			return err
		}
		id, err := shapeID()
		if err != nil {
			return err
		}
		v, err := vertex()
		if err != nil {
			return err
		}
		if op.Kind == OpInsert {
			return s.InsertVertex(id, v, p)
		}
		return s.MoveVertex(id, v, p)
	case OpRemove:
		id, err := shapeID()
		if err != nil {
			return err
		}
		v, err := vertex()
		if err != nil {
			return err
		}
		return s.RemoveVertex(id, v)
	case OpRightClick:
		id, err := shapeID()
		if err != nil {
			return err
		}
		h, err := s.handleFor(id)
		if err != nil {
			return err
		}
		v := -1
		if op.Vertex != nil && *op.Vertex >= 0 {
			v = *op.Vertex
		}
		canvas.RightClick(h, v)
		return nil
	default:
		return ErrUnknownOp
	}
}
