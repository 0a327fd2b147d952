package align

import (
	"math"
	"sort"

	"github.com/matzehuels/snapline/pkg/geometry"
)

// maxGridLines bounds grid guide generation per direction.
const maxGridLines = 256

// Config controls guide generation.
type Config struct {
	Enabled        bool    `toml:"enabled" json:"enabled"`
	Threshold      float64 `toml:"threshold" json:"threshold"`             // activation distance in px
	MergeThreshold float64 `toml:"merge_threshold" json:"merge_threshold"` // same-direction merge distance in px
	EdgeStrength   float64 `toml:"edge_strength" json:"edge_strength"`
	CenterStrength float64 `toml:"center_strength" json:"center_strength"`

	// Canvas and grid guides need an Index that implements geometry.Canvas.
	CanvasGuides   bool    `toml:"canvas_guides" json:"canvas_guides"`
	CanvasStrength float64 `toml:"canvas_strength" json:"canvas_strength"`
	GridGuides     bool    `toml:"grid_guides" json:"grid_guides"`
	GridSize       float64 `toml:"grid_size" json:"grid_size"`
	GridStrength   float64 `toml:"grid_strength" json:"grid_strength"`
}

// DefaultConfig returns the standard guide settings.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Threshold:      5,
		MergeThreshold: 2,
		EdgeStrength:   1.0,
		CenterStrength: 0.8,
		CanvasStrength: 0.9,
		GridSize:       20,
		GridStrength:   0.3,
	}
}

// Manager generates and tracks the guides for one frame.
type Manager struct {
	cfg    Config
	guides []Guide
}

// NewManager creates a manager. Negative or non-finite thresholds fall back
// to the defaults.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if !(cfg.Threshold >= 0) || math.IsInf(cfg.Threshold, 0) {
		cfg.Threshold = def.Threshold
	}
	if !(cfg.MergeThreshold >= 0) || math.IsInf(cfg.MergeThreshold, 0) {
		cfg.MergeThreshold = def.MergeThreshold
	}
	if !(cfg.GridSize > 0) {
		cfg.GridSize = def.GridSize
	}
	return &Manager{cfg: cfg}
}

// Config returns the manager's settings.
func (m *Manager) Config() Config { return m.cfg }

// SetEnabled turns guide generation on or off.
func (m *Manager) SetEnabled(v bool) { m.cfg.Enabled = v }

// SetThreshold sets the activation distance. Negative values clamp to zero.
func (m *Manager) SetThreshold(px float64) {
	if math.IsNaN(px) || px < 0 {
		px = 0
	}
	m.cfg.Threshold = px
}

// Generate rebuilds the guide set from idx, skipping the excluded component
// (typically the one being dragged). The returned slice is a copy.
func (m *Manager) Generate(idx geometry.Index, excluding *geometry.ComponentID) []Guide {
	m.guides = m.guides[:0]
	if !m.cfg.Enabled {
		return nil
	}

	for _, e := range geometry.Entries(idx) {
		if excluding != nil && e.ID == *excluding {
			continue
		}
		m.guides = append(m.guides, componentGuides(e, m.cfg)...)
	}
	if canvas, ok := geometry.CanvasSize(idx); ok {
		if m.cfg.CanvasGuides {
			m.guides = append(m.guides, canvasGuides(canvas, m.cfg.CanvasStrength)...)
		}
		if m.cfg.GridGuides {
			m.guides = append(m.guides, gridGuides(canvas, m.cfg.GridSize, m.cfg.GridStrength)...)
		}
	}

	m.guides = Merge(m.guides, m.cfg.MergeThreshold)
	return m.Guides()
}

func componentGuides(e geometry.Entry, cfg Config) []Guide {
	r := e.Rect
	src := []geometry.ComponentID{e.ID}
	mk := func(pos float64, dir Direction, kind Kind, strength float64) Guide {
		return Guide{Position: pos, Direction: dir, Sources: src, Strength: strength, Kind: kind}
	}
	return []Guide{
		mk(r.Left(), Vertical, ComponentEdge, cfg.EdgeStrength),
		mk(r.Right(), Vertical, ComponentEdge, cfg.EdgeStrength),
		mk(r.CenterX(), Vertical, ComponentCenter, cfg.CenterStrength),
		mk(r.Top(), Horizontal, ComponentEdge, cfg.EdgeStrength),
		mk(r.Bottom(), Horizontal, ComponentEdge, cfg.EdgeStrength),
		mk(r.CenterY(), Horizontal, ComponentCenter, cfg.CenterStrength),
	}
}

func canvasGuides(canvas geometry.Size, strength float64) []Guide {
	return []Guide{
		{Position: 0, Direction: Vertical, Strength: strength, Kind: CanvasEdge},
		{Position: canvas.W, Direction: Vertical, Strength: strength, Kind: CanvasEdge},
		{Position: 0, Direction: Horizontal, Strength: strength, Kind: CanvasEdge},
		{Position: canvas.H, Direction: Horizontal, Strength: strength, Kind: CanvasEdge},
	}
}

func gridGuides(canvas geometry.Size, size, strength float64) []Guide {
	var out []Guide
	for i := 1; i < maxGridLines && float64(i)*size < canvas.W; i++ {
		out = append(out, Guide{Position: float64(i) * size, Direction: Vertical, Strength: strength, Kind: GridLine})
	}
	for i := 1; i < maxGridLines && float64(i)*size < canvas.H; i++ {
		out = append(out, Guide{Position: float64(i) * size, Direction: Horizontal, Strength: strength, Kind: GridLine})
	}
	return out
}

// Guides returns a copy of the current guide set including active flags.
func (m *Manager) Guides() []Guide {
	if len(m.guides) == 0 {
		return nil
	}
	out := make([]Guide, len(m.guides))
	copy(out, m.guides)
	return out
}

// ActiveGuides returns the guides within threshold of p, strongest first.
// As a side effect every stored guide's Active flag is set to whether it
// was returned.
func (m *Manager) ActiveGuides(p geometry.Position, threshold float64) []Guide {
	if !p.IsFinite() || math.IsNaN(threshold) || threshold < 0 {
		m.Deactivate()
		return nil
	}
	var active []Guide
	for i := range m.guides {
		g := &m.guides[i]
		g.Active = g.Distance(p) <= threshold
		if g.Active {
			active = append(active, *g)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Strength > active[j].Strength })
	return active
}

// Deactivate clears the Active flag on every stored guide.
func (m *Manager) Deactivate() {
	for i := range m.guides {
		m.guides[i].Active = false
	}
}

// Nearest returns the closest guide of the given direction to p.
func (m *Manager) Nearest(p geometry.Position, dir Direction) (Guide, bool) {
	best, bestDist, found := Guide{}, math.Inf(1), false
	for _, g := range m.guides {
		if g.Direction != dir {
			continue
		}
		if d := g.Distance(p); d < bestDist {
			best, bestDist, found = g, d, true
		}
	}
	return best, found
}

// Snap moves p onto the nearest guide on each axis independently when that
// guide lies within threshold. Vertical guides fix x; horizontal guides fix y.
func (m *Manager) Snap(p geometry.Position, threshold float64) geometry.Position {
	if !m.cfg.Enabled || !p.IsFinite() {
		return p
	}
	if g, ok := m.Nearest(p, Horizontal); ok && g.Distance(p) <= threshold {
		p.Y = g.Position
	}
	if g, ok := m.Nearest(p, Vertical); ok && g.Distance(p) <= threshold {
		p.X = g.Position
	}
	return p
}

// Statistics summarizes the current guide set.
type Statistics struct {
	Total      int          `json:"total"`
	Horizontal int          `json:"horizontal"`
	Vertical   int          `json:"vertical"`
	Active     int          `json:"active"`
	ByKind     map[Kind]int `json:"by_kind"`
}

// Statistics returns counts over the current guide set.
func (m *Manager) Statistics() Statistics {
	s := Statistics{Total: len(m.guides), ByKind: make(map[Kind]int)}
	for _, g := range m.guides {
		if g.Direction == Horizontal {
			s.Horizontal++
		} else {
			s.Vertical++
		}
		if g.Active {
			s.Active++
		}
		s.ByKind[g.Kind]++
	}
	return s
}
