package measure

import "instaquote/models"

// shape owns a provider handle together with every listener attached to it.
type shape struct {
	id     int
	kind   ShapeKind
	handle ShapeHandle
	unsubs []func()
}

func (s *shape) listen(canvas Canvas, name string, fn func(Event)) {
	s.unsubs = append(s.unsubs, canvas.OnEvent(s.handle, name, fn))
}

// detach drops every listener and releases the handle.
func (s *shape) detach() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
}

func (s *shape) path() []models.LatLng {
	if s.handle == nil {
		return nil
	}
	return s.handle.Path()
}

func minVertices(kind ShapeKind) int {
	if kind == KindPolyline {
		return 2
	}
	return 3
}

func (s *shape) valid() bool {
	return len(s.path()) >= minVertices(s.kind)
}
