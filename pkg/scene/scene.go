package scene

import (
	"sort"

	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/geometry"
)

// Component is one placed item of a scene.
type Component struct {
	ID   geometry.ComponentID
	Type string
	Rect geometry.Rect
}

// Scene is a validated set of components on an optional canvas. It
// implements [geometry.Index] and [geometry.Canvas].
type Scene struct {
	canvas     geometry.Size
	components []Component
	positions  map[geometry.ComponentID]geometry.Position
	sizes      map[geometry.ComponentID]geometry.Size
}

// New validates components and builds a scene. A zero canvas means none.
// Components are kept in ascending id order.
func New(canvas geometry.Size, components []Component) (*Scene, error) {
	if !canvas.IsValid() {
		return nil, errors.New(errors.ErrCodeInvalidScene, "canvas size must be finite and non-negative")
	}
	s := &Scene{
		canvas:     canvas,
		components: make([]Component, len(components)),
		positions:  make(map[geometry.ComponentID]geometry.Position, len(components)),
		sizes:      make(map[geometry.ComponentID]geometry.Size, len(components)),
	}
	for i, c := range components {
		switch {
		case c.ID == 0:
			return nil, errors.New(errors.ErrCodeInvalidScene, "component %d: id must be non-zero", i)
		case !c.Rect.Min.IsFinite():
			return nil, errors.New(errors.ErrCodeInvalidScene, "component %d: position must be finite", c.ID)
		case !c.Rect.Size.IsValid():
			return nil, errors.New(errors.ErrCodeInvalidScene, "component %d: size must be finite and non-negative", c.ID)
		}
		if _, dup := s.positions[c.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidScene, "duplicate component id %d", c.ID)
		}
		s.components[i] = c
		s.positions[c.ID] = c.Rect.Min
		s.sizes[c.ID] = c.Rect.Size
	}
	sort.Slice(s.components, func(i, j int) bool { return s.components[i].ID < s.components[j].ID })
	return s, nil
}

// Len returns the number of components.
func (s *Scene) Len() int { return len(s.components) }

// Components returns the components in ascending id order.
func (s *Scene) Components() []Component {
	return append([]Component(nil), s.components...)
}

// Component returns the component with id.
func (s *Scene) Component(id geometry.ComponentID) (Component, bool) {
	i := sort.Search(len(s.components), func(i int) bool { return s.components[i].ID >= id })
	if i < len(s.components) && s.components[i].ID == id {
		return s.components[i], true
	}
	return Component{}, false
}

// IDs returns every component id in ascending order.
func (s *Scene) IDs() []geometry.ComponentID {
	ids := make([]geometry.ComponentID, len(s.components))
	for i, c := range s.components {
		ids[i] = c.ID
	}
	return ids
}

// Types returns the distinct component types of ids in first-seen order.
// Empty types are skipped. With no ids every component counts.
func (s *Scene) Types(ids ...geometry.ComponentID) []string {
	if len(ids) == 0 {
		ids = s.IDs()
	}
	seen := make(map[string]bool)
	var out []string
	for _, id := range ids {
		c, ok := s.Component(id)
		if !ok || c.Type == "" || seen[c.Type] {
			continue
		}
		seen[c.Type] = true
		out = append(out, c.Type)
	}
	return out
}

// Move returns a copy of the scene with the given components moved. Unknown
// ids are ignored.
func (s *Scene) Move(moves map[geometry.ComponentID]geometry.Position) (*Scene, error) {
	comps := s.Components()
	for i, c := range comps {
		if p, ok := moves[c.ID]; ok {
			comps[i].Rect.Min = p
		}
	}
	return New(s.canvas, comps)
}

// Positions implements [geometry.Index].
func (s *Scene) Positions() map[geometry.ComponentID]geometry.Position { return s.positions }

// Sizes implements [geometry.Index].
func (s *Scene) Sizes() map[geometry.ComponentID]geometry.Size { return s.sizes }

// CanvasSize implements [geometry.Canvas].
func (s *Scene) CanvasSize() geometry.Size { return s.canvas }

var (
	_ geometry.Index  = (*Scene)(nil)
	_ geometry.Canvas = (*Scene)(nil)
)
