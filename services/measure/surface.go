package measure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"instaquote/models"
)

// Status messages shown next to the map.
const (
	StatusEnterAddress   = "Enter an address first."
	StatusAddressFound   = "Address found. Start drawing."
	StatusMapFailed      = "Map failed to load."
	StatusAddressMissing = "Address not found. Try again."
)

const (
	defaultCooldown   = 300 * time.Millisecond
	defaultSnapMeters = 1.0
)

// Status is the surface's user-visible state line.
type Status struct {
	Loading bool   `json:"loading"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Snapshot is the committed geometry and the measurement derived from it.
type Snapshot struct {
	Mode        models.MeasureMode `json:"mode"`
	Measurement float64            `json:"measurement"`
	Shapes      [][]models.LatLng  `json:"shapes"`
}

// Options configures a Surface.
type Options struct {
	Mode      models.MeasureMode
	Container string
	Map       MapOptions
	Style     Style
	// Cooldown is how long clicks are ignored after a shape completes.
	Cooldown time.Duration
	// SnapMeters is how close a click must land to the first vertex to close a polygon.
	SnapMeters float64
	Now        func() time.Time
	OnChange   func(Snapshot)
}

// Surface turns map gestures into shapes and keeps a running measurement.
// All state changes go through mu; provider callbacks re-enter through it too.
type Surface struct {
	provider Provider
	opts     Options
	kind     ShapeKind

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	m            MapHandle
	mapUnsubs    []func()
	shapes       []*shape
	active       *shape
	nextID       int
	addressReady bool
	resumeAt     time.Time
	generation   uint64
	closed       bool
	status       Status
	measurement  float64
}

// NewSurface builds a surface over provider. Call Load before drawing.
func NewSurface(provider Provider, opts Options) *Surface {
	if !opts.Mode.Valid() {
		opts.Mode = models.ModeArea
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = defaultCooldown
	}
	if opts.SnapMeters <= 0 {
		opts.SnapMeters = defaultSnapMeters
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Surface{
		provider: provider,
		opts:     opts,
		kind:     KindFor(opts.Mode),
		ctx:      ctx,
		cancel:   cancel,
		status:   Status{Message: StatusEnterAddress},
	}
}

// Load creates the map and wires its click events.
func (s *Surface) Load(ctx context.Context) error {
	m, err := s.provider.LoadMap(ctx, s.opts.Container, s.opts.Map)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		if m != nil {
			m.Release()
		}
		return ErrSurfaceClosed
	}
	if err != nil {
		s.status = Status{Error: StatusMapFailed}
		return fmt.Errorf("load map: %w", err)
	}
	s.m = m
	s.mapUnsubs = append(s.mapUnsubs,
		s.provider.OnEvent(m, EventClick, func(ev Event) { _ = s.Click(ev.Point) }),
		s.provider.OnEvent(m, EventDblClick, func(Event) { _ = s.Finish() }),
	)
	return nil
}

// apply runs fn under the lock and, when fn reports a change, recomputes the
// measurement and notifies OnChange outside the lock.
func (s *Surface) apply(fn func() (bool, error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSurfaceClosed
	}
	changed, err := fn()
	var snap Snapshot
	if changed {
		s.recomputeLocked()
		snap = s.snapshotLocked()
	}
	cb := s.opts.OnChange
	s.mu.Unlock()

	if changed && cb != nil {
		cb(snap)
	}
	return err
}

// Click adds a vertex to the shape being drawn, starting one if needed.
// Clicking the first vertex of a polygon with at least three vertices closes it.
func (s *Surface) Click(p models.LatLng) error {
	return s.apply(func() (bool, error) {
		if s.m == nil {
			s.status = Status{Error: StatusMapFailed}
			return false, ErrMapUnavailable
		}
		if !s.addressReady {
			s.status = Status{Message: StatusEnterAddress}
			return false, ErrAddressRequired
		}
		if s.opts.Now().Before(s.resumeAt) {
			return false, nil
		}

		if s.active == nil {
			h, err := s.provider.CreateShape(s.kind, nil, s.opts.Style)
			if err != nil {
				return false, fmt.Errorf("create shape: %w", err)
			}
			s.nextID++
			s.active = &shape{id: s.nextID, kind: s.kind, handle: h}
		}

		path := s.active.path()
		if n := len(path); n > 0 && path[n-1] == p {
			return false, nil
		}
		if s.kind == KindPolygon && len(path) >= 3 && s.snaps(p, path[0]) {
			return s.finishLocked(), nil
		}
		s.active.handle.Append(p)
		return s.kind == KindPolyline, nil
	})
}

// DoubleClick completes the shape being drawn.
func (s *Surface) DoubleClick() error { return s.Finish() }

// Finish completes the shape being drawn. Shapes with too few vertices are discarded.
func (s *Surface) Finish() error {
	return s.apply(func() (bool, error) {
		if s.active == nil {
			return false, nil
		}
		return s.finishLocked(), nil
	})
}

func (s *Surface) snaps(p, first models.LatLng) bool {
	return s.provider.ComputeLength([]models.LatLng{p, first}) <= s.opts.SnapMeters
}

func (s *Surface) finishLocked() bool {
	sh := s.active
	s.active = nil
	if !sh.valid() {
		sh.detach()
		return sh.kind == KindPolyline
	}
	s.commitLocked(sh)
	s.resumeAt = s.opts.Now().Add(s.opts.Cooldown)
	return true
}

func (s *Surface) commitLocked(sh *shape) {
	id := sh.id
	changed := func(Event) { s.pathChanged(id) }
	sh.listen(s.provider, EventInsertAt, changed)
	sh.listen(s.provider, EventSetAt, changed)
	sh.listen(s.provider, EventRemoveAt, changed)
	sh.listen(s.provider, EventRightClick, func(ev Event) {
		if ev.Vertex >= 0 {
			return
		}
		_ = s.RemoveShape(id)
	})
	s.shapes = append(s.shapes, sh)
}

// pathChanged recomputes after an edit and drops the shape if it fell below
// its minimum vertex count.
func (s *Surface) pathChanged(id int) {
	_ = s.apply(func() (bool, error) {
		i := s.indexLocked(id)
		if i < 0 {
			return false, nil
		}
		if !s.shapes[i].valid() {
			s.removeLocked(i)
		}
		return true, nil
	})
}

func (s *Surface) indexLocked(id int) int {
	for i, sh := range s.shapes {
		if sh.id == id {
			return i
		}
	}
	return -1
}

func (s *Surface) removeLocked(i int) {
	s.shapes[i].detach()
	s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
}

func (s *Surface) handleFor(id int) (ShapeHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrShapeNotFound
	}
	return s.shapes[i].handle, nil
}

// InsertVertex inserts p before vertex i of a completed shape.
func (s *Surface) InsertVertex(id, i int, p models.LatLng) error {
	h, err := s.handleFor(id)
	if err != nil {
		return err
	}
	h.InsertAt(i, p)
	return nil
}

// MoveVertex moves vertex i of a completed shape to p.
func (s *Surface) MoveVertex(id, i int, p models.LatLng) error {
	h, err := s.handleFor(id)
	if err != nil {
		return err
	}
	h.SetAt(i, p)
	return nil
}

// RemoveVertex deletes vertex i of a completed shape.
func (s *Surface) RemoveVertex(id, i int) error {
	h, err := s.handleFor(id)
	if err != nil {
		return err
	}
	h.RemoveAt(i)
	return nil
}

// RemoveShape deletes a completed shape.
func (s *Surface) RemoveShape(id int) error {
	return s.apply(func() (bool, error) {
		i := s.indexLocked(id)
		if i < 0 {
			return false, ErrShapeNotFound
		}
		s.removeLocked(i)
		return true, nil
	})
}

// Clear removes every shape and returns to the pre-draw mode.
func (s *Surface) Clear() error {
	return s.apply(func() (bool, error) {
		for _, sh := range s.shapes {
			sh.detach()
		}
		s.shapes = nil
		if s.active != nil {
			s.active.detach()
			s.active = nil
		}
		s.resumeAt = time.Time{}
		if s.addressReady {
			s.status = Status{Message: StatusAddressFound}
		} else {
			s.status = Status{Message: StatusEnterAddress}
		}
		return true, nil
	})
}

// Restore adds completed shapes, typically from a saved session. Paths with
// too few vertices are skipped.
func (s *Surface) Restore(paths [][]models.LatLng) error {
	return s.apply(func() (bool, error) {
		for _, path := range paths {
			if len(path) < minVertices(s.kind) {
				continue
			}
			h, err := s.provider.CreateShape(s.kind, path, s.opts.Style)
			if err != nil {
				return true, fmt.Errorf("restore shape: %w", err)
			}
			s.nextID++
			s.commitLocked(&shape{id: s.nextID, kind: s.kind, handle: h})
		}
		return true, nil
	})
}

// Locate geocodes address and recenters the map. Shapes are left alone.
func (s *Surface) Locate(ctx context.Context, address string) (GeocodeResult, error) {
	address = strings.TrimSpace(address)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return GeocodeResult{}, ErrSurfaceClosed
	}
	if address == "" {
		s.status = Status{Message: StatusEnterAddress}
		s.mu.Unlock()
		return GeocodeResult{}, ErrAddressRequired
	}
	s.generation++
	gen := s.generation
	s.status = Status{Loading: true}
	s.mu.Unlock()

	res, err := s.provider.Geocode(ctx, address)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return GeocodeResult{}, ErrSurfaceClosed
	}
	if gen != s.generation {
		return GeocodeResult{}, ErrSuperseded
	}
	if err != nil {
		s.status = Status{Error: StatusAddressMissing}
		return GeocodeResult{}, fmt.Errorf("locate %q: %w", address, err)
	}
	s.locateLocked(res.Location)
	return res, nil
}

// LocateAsync runs Locate in the background. done, when set, is not called
// for superseded lookups or after Close.
func (s *Surface) LocateAsync(address string, done func(GeocodeResult, error)) {
	go func() {
		res, err := s.Locate(s.ctx, address)
		if errors.Is(err, ErrSuperseded) || errors.Is(err, ErrSurfaceClosed) {
			return
		}
		if done != nil {
			done(res, err)
		}
	}()
}

// SetLocation enables drawing around an already geocoded center.
func (s *Surface) SetLocation(center models.LatLng) error {
	return s.apply(func() (bool, error) {
		s.generation++
		s.locateLocked(center)
		return false, nil
	})
}

func (s *Surface) locateLocked(center models.LatLng) {
	if s.m != nil {
		s.m.SetCenter(center)
	}
	s.addressReady = true
	s.status = Status{Message: StatusAddressFound}
}

// Close tears the surface down. Later calls return ErrSurfaceClosed.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	for _, sh := range s.shapes {
		sh.detach()
	}
	s.shapes = nil
	if s.active != nil {
		s.active.detach()
		s.active = nil
	}
	for _, unsub := range s.mapUnsubs {
		unsub()
	}
	s.mapUnsubs = nil
	if s.m != nil {
		s.m.Release()
		s.m = nil
	}
}

func (s *Surface) recomputeLocked() {
	paths := s.pathsLocked()
	if s.kind == KindPolyline && s.active != nil {
		paths = append(paths, s.active.path())
	}
	s.measurement = Measure(s.opts.Mode, paths, s.provider)
}

func (s *Surface) pathsLocked() [][]models.LatLng {
	paths := make([][]models.LatLng, 0, len(s.shapes))
	for _, sh := range s.shapes {
		paths = append(paths, sh.path())
	}
	return paths
}

func (s *Surface) snapshotLocked() Snapshot {
	return Snapshot{Mode: s.opts.Mode, Measurement: s.measurement, Shapes: s.pathsLocked()}
}

// Snapshot returns the completed shapes and current measurement.
func (s *Surface) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Measurement returns the current measurement in square feet or feet.
func (s *Surface) Measurement() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.measurement
}

func (s *Surface) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ShapeIDs lists completed shapes in drawing order.
func (s *Surface) ShapeIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.shapes))
	for _, sh := range s.shapes {
		ids = append(ids, sh.id)
	}
	return ids
}

// Drawing reports whether a shape is in progress.
func (s *Surface) Drawing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}
