package magnet

import (
	"math"

	"github.com/matzehuels/snapline/pkg/geometry"
)

const (
	minRadius   = 5.0
	maxRadius   = 50.0
	maxStrength = 2.0
)

// Config controls zone generation and scoring.
type Config struct {
	Enabled  bool    `toml:"enabled" json:"enabled"`
	Radius   float64 `toml:"radius" json:"radius"`     // detection radius in px
	Strength float64 `toml:"strength" json:"strength"` // global strength in [0,2]
	Margin   float64 `toml:"margin" json:"margin"`     // gap left between snapped edges

	EdgeZones   bool `toml:"edge_zones" json:"edge_zones"`
	CenterZones bool `toml:"center_zones" json:"center_zones"`
	CornerZones bool `toml:"corner_zones" json:"corner_zones"`
	GridZones   bool `toml:"grid_zones" json:"grid_zones"`
	CanvasZones bool `toml:"canvas_zones" json:"canvas_zones"`

	EdgeMultiplier     float64 `toml:"edge_multiplier" json:"edge_multiplier"`
	CenterFactor       float64 `toml:"center_factor" json:"center_factor"`
	CornerFactor       float64 `toml:"corner_factor" json:"corner_factor"`
	CornerRadiusFactor float64 `toml:"corner_radius_factor" json:"corner_radius_factor"`
	GridFactor         float64 `toml:"grid_factor" json:"grid_factor"`
	GridRadiusFactor   float64 `toml:"grid_radius_factor" json:"grid_radius_factor"`
	GridSize           float64 `toml:"grid_size" json:"grid_size"`
	MaxGridZones       int     `toml:"max_grid_zones" json:"max_grid_zones"`
}

// DefaultConfig returns the standard magnetism settings.
func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		Radius:             15,
		Strength:           1.0,
		EdgeZones:          true,
		CenterZones:        true,
		EdgeMultiplier:     1.5,
		CenterFactor:       0.8,
		CornerFactor:       0.6,
		CornerRadiusFactor: 0.7,
		GridFactor:         0.3,
		GridRadiusFactor:   0.5,
		GridSize:           20,
		MaxGridZones:       400,
	}
}

// Manager computes magnetic snaps. It keeps the zones of the last query for
// statistics only.
type Manager struct {
	cfg   Config
	zones []Zone
	point geometry.Position
}

// NewManager creates a manager, clamping out-of-range settings.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if !(cfg.Radius > 0) || math.IsInf(cfg.Radius, 0) {
		cfg.Radius = def.Radius
	}
	cfg.Strength = clampStrength(cfg.Strength)
	if !(cfg.GridSize > 0) {
		cfg.GridSize = def.GridSize
	}
	if cfg.MaxGridZones <= 0 {
		cfg.MaxGridZones = def.MaxGridZones
	}
	if !(cfg.Margin >= 0) {
		cfg.Margin = 0
	}
	return &Manager{cfg: cfg}
}

// Config returns the manager's settings.
func (m *Manager) Config() Config { return m.cfg }

// SetEnabled turns magnetism on or off.
func (m *Manager) SetEnabled(v bool) { m.cfg.Enabled = v }

// SetStrength sets the global strength, clamped to [0,2].
func (m *Manager) SetStrength(s float64) { m.cfg.Strength = clampStrength(s) }

// SetRadius sets the detection radius, clamped to [5,50].
func (m *Manager) SetRadius(r float64) {
	if math.IsNaN(r) {
		return
	}
	m.cfg.Radius = math.Max(minRadius, math.Min(maxRadius, r))
}

func clampStrength(s float64) float64 {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	return math.Min(s, maxStrength)
}

// Zones builds every zone relevant to dragging a component of the given
// size near p, in generation order. The dragged component itself does not
// produce zones.
func (m *Manager) Zones(idx geometry.Index, dragging *geometry.ComponentID, size geometry.Size, p geometry.Position) []Zone {
	return m.zonesScaled(idx, dragging, size, p, 1)
}

func (m *Manager) zonesScaled(idx geometry.Index, dragging *geometry.ComponentID, size geometry.Size, p geometry.Position, scale float64) []Zone {
	if !m.cfg.Enabled || !p.IsFinite() {
		return nil
	}
	if !size.IsValid() {
		size = geometry.Size{}
	}
	strength := clampStrength(m.cfg.Strength * scale)
	r := m.cfg.Radius
	w, h, gap := size.W, size.H, m.cfg.Margin

	var zones []Zone
	add := func(x, y, radius, s float64, kind Kind, src *geometry.ComponentID) {
		target := geometry.Pt(x, y)
		zones = append(zones, Zone{Center: target, Radius: radius, Strength: s, SnapTarget: target, Kind: kind, Source: src})
	}

	for _, e := range geometry.Entries(idx) {
		if dragging != nil && e.ID == *dragging {
			continue
		}
		id := e.ID
		o := e.Rect
		if m.cfg.EdgeZones {
			add(o.Left()-w-gap, o.Top(), r, strength, ComponentEdge, &id)
			add(o.Right()+gap, o.Top(), r, strength, ComponentEdge, &id)
			add(o.Left(), o.Top()-h-gap, r, strength, ComponentEdge, &id)
			add(o.Left(), o.Bottom()+gap, r, strength, ComponentEdge, &id)
		}
		if m.cfg.CenterZones {
			add(o.CenterX()-w/2, o.CenterY()-h/2, r, strength*m.cfg.CenterFactor, ComponentCenter, &id)
		}
		if m.cfg.CornerZones {
			cr, cs := r*m.cfg.CornerRadiusFactor, strength*m.cfg.CornerFactor
			add(o.Left()-w, o.Top()-h, cr, cs, Corner, &id)
			add(o.Right(), o.Top()-h, cr, cs, Corner, &id)
			add(o.Left()-w, o.Bottom(), cr, cs, Corner, &id)
			add(o.Right(), o.Bottom(), cr, cs, Corner, &id)
		}
	}

	canvas, hasCanvas := geometry.CanvasSize(idx)
	if m.cfg.GridZones {
		zones = append(zones, m.gridZones(p, canvas, hasCanvas, strength)...)
	}
	if m.cfg.CanvasZones && hasCanvas {
		add(0, p.Y, r, strength, CanvasEdge, nil)
		add(canvas.W-w, p.Y, r, strength, CanvasEdge, nil)
		add(p.X, 0, r, strength, CanvasEdge, nil)
		add(p.X, canvas.H-h, r, strength, CanvasEdge, nil)
	}
	return zones
}

// gridZones emits grid intersections within one detection radius of p,
// clipped to the canvas when it is known. Intersections are addressed by
// integer index so the walk is bounded even where a grid step is below the
// coordinate's float precision.
func (m *Manager) gridZones(p geometry.Position, canvas geometry.Size, clip bool, strength float64) []Zone {
	g, reach := m.cfg.GridSize, m.cfg.Radius
	if g <= 0 || m.cfg.MaxGridZones <= 0 {
		return nil
	}
	// a step that no longer moves the coordinate cannot address distinct points
	if p.X+g == p.X || p.Y+g == p.Y {
		return nil
	}
	radius := reach * m.cfg.GridRadiusFactor
	s := strength * m.cfg.GridFactor

	xlo, xhi := p.X-reach, p.X+reach
	ylo, yhi := p.Y-reach, p.Y+reach
	if clip {
		xlo, xhi = math.Max(xlo, 0), math.Min(xhi, canvas.W)
		ylo, yhi = math.Max(ylo, 0), math.Min(yhi, canvas.H)
	}
	if xlo > xhi || ylo > yhi {
		return nil
	}
	ix, iy := math.Floor(xlo/g), math.Floor(ylo/g)

	limit := m.cfg.MaxGridZones
	var zones []Zone
	for i := 0; i < limit; i++ {
		x := (ix + float64(i)) * g
		if x > xhi {
			break
		}
		for j := 0; j < limit; j++ {
			y := (iy + float64(j)) * g
			if y > yhi {
				break
			}
			if len(zones) >= limit {
				return zones
			}
			pt := geometry.Pt(x, y)
			zones = append(zones, Zone{Center: pt, Radius: radius, Strength: s, SnapTarget: pt, Kind: GridPoint})
		}
	}
	return zones
}

// Snap is the outcome of a successful snap computation.
type Snap struct {
	Target geometry.Position `json:"target"`
	Zone   Zone              `json:"zone"`
	// Strength is the winning zone's influence at the query point, without
	// the edge ranking multiplier.
	Strength float64 `json:"strength"`
}

// ComputeSnap returns the snap target of the highest-ranked zone that
// contains p, or false when no zone qualifies.
func (m *Manager) ComputeSnap(idx geometry.Index, dragging *geometry.ComponentID, size geometry.Size, p geometry.Position) (Snap, bool) {
	return m.ComputeSnapScaled(idx, dragging, size, p, 1)
}

// ComputeSnapScaled is ComputeSnap with every zone strength multiplied by
// scale before clamping to [0,2]. It lets callers apply a learned
// sensitivity without changing the configured strength.
func (m *Manager) ComputeSnapScaled(idx geometry.Index, dragging *geometry.ComponentID, size geometry.Size, p geometry.Position, scale float64) (Snap, bool) {
	if math.IsNaN(scale) || scale < 0 {
		scale = 0
	}
	m.zones = m.zonesScaled(idx, dragging, size, p, scale)
	m.point = p

	var best Snap
	bestScore, found := 0.0, false
	for _, z := range m.zones {
		inf := z.Influence(p)
		score := inf
		if z.Kind == ComponentEdge {
			score *= m.cfg.EdgeMultiplier
		}
		if score > bestScore {
			best = Snap{Target: z.SnapTarget, Zone: z, Strength: inf}
			bestScore, found = score, true
		}
	}
	return best, found
}

// Statistics summarizes the zones of the last query.
type Statistics struct {
	Total  int          `json:"total"`
	Active int          `json:"active"` // zones containing the last query point
	ByKind map[Kind]int `json:"by_kind"`
}

// Statistics returns counts over the zones built by the last ComputeSnap.
func (m *Manager) Statistics() Statistics {
	s := Statistics{Total: len(m.zones), ByKind: make(map[Kind]int)}
	for _, z := range m.zones {
		s.ByKind[z.Kind]++
		if z.Influence(m.point) > 0 {
			s.Active++
		}
	}
	return s
}
