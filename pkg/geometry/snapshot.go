package geometry

// Snapshot is an in-memory [Index]. Hosts that do not already keep
// positions and sizes in maps can build one per frame; tests use it to feed
// synthetic layouts.
type Snapshot struct {
	positions map[ComponentID]Position
	sizes     map[ComponentID]Size
	canvas    Size
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		positions: make(map[ComponentID]Position),
		sizes:     make(map[ComponentID]Size),
	}
}

// Add inserts or replaces a component and returns the snapshot for chaining.
func (s *Snapshot) Add(id ComponentID, x, y, w, h float64) *Snapshot {
	s.positions[id] = Position{X: x, Y: y}
	s.sizes[id] = Size{W: w, H: h}
	return s
}

// WithCanvas sets the canvas size reported through [Canvas].
func (s *Snapshot) WithCanvas(w, h float64) *Snapshot {
	s.canvas = Size{W: w, H: h}
	return s
}

// Len returns the number of components.
func (s *Snapshot) Len() int { return len(s.positions) }

// Positions implements [Index].
func (s *Snapshot) Positions() map[ComponentID]Position { return s.positions }

// Sizes implements [Index].
func (s *Snapshot) Sizes() map[ComponentID]Size { return s.sizes }

// CanvasSize implements [Canvas].
func (s *Snapshot) CanvasSize() Size { return s.canvas }

var (
	_ Index  = (*Snapshot)(nil)
	_ Canvas = (*Snapshot)(nil)
)
