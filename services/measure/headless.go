package measure

import (
	"context"
	"sync"

	"instaquote/models"
)

// Headless is an in-process Canvas. Path mutations fire their events
// synchronously, which lets the server replay drawing gestures.
type Headless struct {
	mu        sync.Mutex
	nextID    int
	listeners map[any]map[string]map[int]func(Event)
	// LoadErr, when set, is returned by LoadMap.
	LoadErr error
}

// NewHeadless returns an empty canvas.
func NewHeadless() *Headless {
	return &Headless{listeners: make(map[any]map[string]map[int]func(Event))}
}

type headlessMap struct {
	canvas *Headless
	mu     sync.Mutex
	center models.LatLng
}

func (m *headlessMap) Center() models.LatLng {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.center
}

func (m *headlessMap) SetCenter(center models.LatLng) {
	m.mu.Lock()
	m.center = center
	m.mu.Unlock()
}

func (m *headlessMap) Release() { m.canvas.drop(m) }

type headlessShape struct {
	canvas *Headless
	kind   ShapeKind
	mu     sync.Mutex
	path   []models.LatLng
}

func (s *headlessShape) Path() []models.LatLng {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LatLng(nil), s.path...)
}

func (s *headlessShape) Append(p models.LatLng) {
	s.mu.Lock()
	s.path = append(s.path, p)
	i := len(s.path) - 1
	s.mu.Unlock()
	s.canvas.fire(s, Event{Name: EventInsertAt, Index: i, Vertex: i, Point: p})
}

func (s *headlessShape) InsertAt(i int, p models.LatLng) {
	s.mu.Lock()
	if i < 0 || i > len(s.path) {
		s.mu.Unlock()
		return
	}
	s.path = append(s.path, models.LatLng{})
	copy(s.path[i+1:], s.path[i:])
	s.path[i] = p
	s.mu.Unlock()
	s.canvas.fire(s, Event{Name: EventInsertAt, Index: i, Vertex: i, Point: p})
}

func (s *headlessShape) SetAt(i int, p models.LatLng) {
	s.mu.Lock()
	if i < 0 || i >= len(s.path) {
		s.mu.Unlock()
		return
	}
	s.path[i] = p
	s.mu.Unlock()
	s.canvas.fire(s, Event{Name: EventSetAt, Index: i, Vertex: i, Point: p})
}

func (s *headlessShape) RemoveAt(i int) {
	s.mu.Lock()
	if i < 0 || i >= len(s.path) {
		s.mu.Unlock()
		return
	}
	p := s.path[i]
	s.path = append(s.path[:i], s.path[i+1:]...)
	s.mu.Unlock()
	s.canvas.fire(s, Event{Name: EventRemoveAt, Index: i, Vertex: i, Point: p})
}

func (s *headlessShape) Release() { s.canvas.drop(s) }

// LoadMap returns a map centered on opts.Center.
func (h *Headless) LoadMap(ctx context.Context, container string, opts MapOptions) (MapHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.LoadErr != nil {
		return nil, h.LoadErr
	}
	return &headlessMap{canvas: h, center: opts.Center}, nil
}

func (h *Headless) CreateShape(kind ShapeKind, path []models.LatLng, style Style) (ShapeHandle, error) {
	return &headlessShape{canvas: h, kind: kind, path: append([]models.LatLng(nil), path...)}, nil
}

func (h *Headless) OnEvent(target any, name string, handler func(Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	byName, ok := h.listeners[target]
	if !ok {
		byName = make(map[string]map[int]func(Event))
		h.listeners[target] = byName
	}
	if byName[name] == nil {
		byName[name] = make(map[int]func(Event))
	}
	byName[name][id] = handler
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if byName, ok := h.listeners[target]; ok {
			delete(byName[name], id)
		}
	}
}

// Click simulates a primary click on the map.
func (h *Headless) Click(m MapHandle, p models.LatLng) {
	h.fire(m, Event{Name: EventClick, Vertex: -1, Point: p})
}

// DoubleClick simulates a double click on the map.
func (h *Headless) DoubleClick(m MapHandle, p models.LatLng) {
	h.fire(m, Event{Name: EventDblClick, Vertex: -1, Point: p})
}

// RightClick simulates a secondary click on a shape. Pass vertex -1 for the body.
func (h *Headless) RightClick(s ShapeHandle, vertex int) {
	h.fire(s, Event{Name: EventRightClick, Vertex: vertex})
}

// Listeners reports how many handlers are registered across every target.
func (h *Headless) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, byName := range h.listeners {
		for _, handlers := range byName {
			n += len(handlers)
		}
	}
	return n
}

func (h *Headless) fire(target any, ev Event) {
	h.mu.Lock()
	var handlers []func(Event)
	for _, fn := range h.listeners[target][ev.Name] {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

func (h *Headless) drop(target any) {
	h.mu.Lock()
	delete(h.listeners, target)
	h.mu.Unlock()
}
