package spacing

import (
	"math"
	"sort"

	"github.com/matzehuels/snapline/pkg/geometry"
)

// minTolerance keeps the confidence formula well defined.
const minTolerance = 0.5

// StandardLadder is the default list of standard gaps in px.
var StandardLadder = []float64{8, 16, 24, 32, 48, 64}

// Config controls spacing suggestions and analysis.
type Config struct {
	Enabled              bool      `toml:"enabled" json:"enabled"`
	Ladder               []float64 `toml:"ladder" json:"ladder"`
	Tolerance            float64   `toml:"tolerance" json:"tolerance"`
	BandTolerance        float64   `toml:"band_tolerance" json:"band_tolerance"`
	ConsistencyThreshold float64   `toml:"consistency_threshold" json:"consistency_threshold"`
	SeverityThreshold    float64   `toml:"severity_threshold" json:"severity_threshold"`
	MaxSuggestions       int       `toml:"max_suggestions" json:"max_suggestions"`
	MaxGap               float64   `toml:"max_gap" json:"max_gap"` // gaps above this are not neighbours
}

// DefaultConfig returns the standard spacing settings.
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		Ladder:               append([]float64(nil), StandardLadder...),
		Tolerance:            4,
		BandTolerance:        10,
		ConsistencyThreshold: 0.7,
		SeverityThreshold:    0.3,
		MaxSuggestions:       3,
		MaxGap:               200,
	}
}

// Manager produces spacing guides and analyses.
type Manager struct {
	cfg Config
}

// NewManager creates a manager. The ladder is copied and sorted; invalid
// values fall back to the defaults.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	ladder := make([]float64, 0, len(cfg.Ladder))
	for _, v := range cfg.Ladder {
		if v > 0 && !math.IsInf(v, 0) {
			ladder = append(ladder, v)
		}
	}
	if len(ladder) == 0 {
		ladder = def.Ladder
	}
	sort.Float64s(ladder)
	cfg.Ladder = ladder

	if !(cfg.Tolerance > 0) {
		cfg.Tolerance = def.Tolerance
	}
	if !(cfg.BandTolerance >= 0) {
		cfg.BandTolerance = def.BandTolerance
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = def.MaxSuggestions
	}
	if !(cfg.MaxGap > 0) {
		cfg.MaxGap = def.MaxGap
	}
	m := &Manager{cfg: cfg}
	m.SetTolerance(cfg.Tolerance)
	return m
}

// Config returns the manager's settings.
func (m *Manager) Config() Config { return m.cfg }

// SetEnabled turns spacing suggestions on or off.
func (m *Manager) SetEnabled(v bool) { m.cfg.Enabled = v }

// SetTolerance sets the match tolerance in px (minimum 0.5).
func (m *Manager) SetTolerance(px float64) {
	if math.IsNaN(px) || math.IsInf(px, 0) {
		return
	}
	m.cfg.Tolerance = math.Max(px, minTolerance)
}

// Confidence returns max(0, 1-|suggested-actual|/tolerance).
func Confidence(suggested, actual, tolerance float64) float64 {
	if !(tolerance > 0) {
		if suggested == actual {
			return 1
		}
		return 0
	}
	c := 1 - math.Abs(suggested-actual)/tolerance
	if !(c > 0) {
		return 0
	}
	return math.Min(c, 1)
}

// nearest returns the ladder value closest to gap when it lies strictly
// within tolerance. Ties go to the smaller value.
func (m *Manager) nearest(gap float64) (float64, bool) {
	best, bestDiff := 0.0, math.Inf(1)
	for _, s := range m.cfg.Ladder {
		if d := math.Abs(gap - s); d < bestDiff {
			best, bestDiff = s, d
		}
	}
	return best, bestDiff < m.cfg.Tolerance
}

// Suggest evaluates the gaps around component id placed at p. The
// component's size is read from idx; an unknown id is treated as a point.
func (m *Manager) Suggest(idx geometry.Index, id geometry.ComponentID, p geometry.Position) []Guide {
	var size geometry.Size
	if r, ok := geometry.Lookup(idx, id); ok {
		size = r.Size
	}
	return m.SuggestRect(idx, &id, geometry.RectOf(p, size))
}

// SuggestRect evaluates the gaps between candidate and every neighbour
// sharing a row or column with it. At most MaxSuggestions guides are
// returned, highest confidence first.
func (m *Manager) SuggestRect(idx geometry.Index, self *geometry.ComponentID, candidate geometry.Rect) []Guide {
	if !m.cfg.Enabled || !candidate.Min.IsFinite() || !candidate.Size.IsValid() {
		return nil
	}
	var selfID geometry.ComponentID
	if self != nil {
		selfID = *self
	}

	var out []Guide
	emit := func(g Guide) {
		s, ok := m.nearest(g.Actual)
		if !ok {
			return
		}
		g.Suggested = s
		g.Confidence = Confidence(s, g.Actual, m.cfg.Tolerance)
		out = append(out, g)
	}

	c := candidate
	for _, e := range geometry.Entries(idx) {
		if self != nil && e.ID == *self {
			continue
		}
		o := e.Rect
		if c.OverlapsY(o) {
			y := (math.Max(c.Top(), o.Top()) + math.Min(c.Bottom(), o.Bottom())) / 2
			switch {
			case o.Left() >= c.Right():
				if gap := o.Left() - c.Right(); m.inRange(gap) {
					emit(Guide{Start: geometry.Pt(c.Right(), y), End: geometry.Pt(o.Left(), y), Actual: gap,
						Components: [2]geometry.ComponentID{selfID, e.ID}, Kind: Horizontal})
				}
			case c.Left() >= o.Right():
				if gap := c.Left() - o.Right(); m.inRange(gap) {
					emit(Guide{Start: geometry.Pt(o.Right(), y), End: geometry.Pt(c.Left(), y), Actual: gap,
						Components: [2]geometry.ComponentID{e.ID, selfID}, Kind: Horizontal})
				}
			}
		}
		if c.OverlapsX(o) {
			x := (math.Max(c.Left(), o.Left()) + math.Min(c.Right(), o.Right())) / 2
			switch {
			case o.Top() >= c.Bottom():
				if gap := o.Top() - c.Bottom(); m.inRange(gap) {
					emit(Guide{Start: geometry.Pt(x, c.Bottom()), End: geometry.Pt(x, o.Top()), Actual: gap,
						Components: [2]geometry.ComponentID{selfID, e.ID}, Kind: Vertical})
				}
			case c.Top() >= o.Bottom():
				if gap := c.Top() - o.Bottom(); m.inRange(gap) {
					emit(Guide{Start: geometry.Pt(x, o.Bottom()), End: geometry.Pt(x, c.Top()), Actual: gap,
						Components: [2]geometry.ComponentID{e.ID, selfID}, Kind: Vertical})
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if len(out) > m.cfg.MaxSuggestions {
		out = out[:m.cfg.MaxSuggestions]
	}
	return out
}

func (m *Manager) inRange(gap float64) bool { return gap > 0 && gap <= m.cfg.MaxGap }

// distribution holds the sorted selection and the uniform gap.
type distribution struct {
	axis    Axis
	entries []geometry.Entry
	gap     float64
}

func (m *Manager) distribution(idx geometry.Index, ids []geometry.ComponentID) (distribution, bool) {
	seen := make(map[geometry.ComponentID]bool, len(ids))
	var es []geometry.Entry
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if r, ok := geometry.Lookup(idx, id); ok {
			es = append(es, geometry.Entry{ID: id, Rect: r})
		}
	}
	if len(es) < 3 {
		return distribution{}, false
	}

	minCX, maxCX := math.Inf(1), math.Inf(-1)
	minCY, maxCY := math.Inf(1), math.Inf(-1)
	for _, e := range es {
		minCX, maxCX = math.Min(minCX, e.Rect.CenterX()), math.Max(maxCX, e.Rect.CenterX())
		minCY, maxCY = math.Min(minCY, e.Rect.CenterY()), math.Max(maxCY, e.Rect.CenterY())
	}
	axis := Horizontal
	if maxCY-minCY > maxCX-minCX {
		axis = Vertical
	}

	lo, hi, length := geometry.Rect.Left, geometry.Rect.Right, func(r geometry.Rect) float64 { return r.Size.W }
	if axis == Vertical {
		lo, hi, length = geometry.Rect.Top, geometry.Rect.Bottom, func(r geometry.Rect) float64 { return r.Size.H }
	}
	sort.SliceStable(es, func(i, j int) bool {
		a, b := lo(es[i].Rect), lo(es[j].Rect)
		if a != b {
			return a < b
		}
		return es[i].ID < es[j].ID
	})

	start, end, total := math.Inf(1), math.Inf(-1), 0.0
	for _, e := range es {
		start = math.Min(start, lo(e.Rect))
		end = math.Max(end, hi(e.Rect))
		total += length(e.Rect)
	}
	gap := (end - start - total) / float64(len(es)-1)
	return distribution{axis: axis, entries: es, gap: gap}, true
}

// DistributeEvenly computes the uniform gap for spacing the selected
// components evenly along the axis on which their centers spread most.
// It returns one guide per adjacent pair, each suggesting that gap, or nil
// when fewer than three selected components are present in idx.
func (m *Manager) DistributeEvenly(idx geometry.Index, ids []geometry.ComponentID) []Guide {
	d, ok := m.distribution(idx, ids)
	if !ok {
		return nil
	}
	out := make([]Guide, 0, len(d.entries)-1)
	for i := 0; i+1 < len(d.entries); i++ {
		a, b := d.entries[i], d.entries[i+1]
		g := Guide{Suggested: d.gap, Components: [2]geometry.ComponentID{a.ID, b.ID}, Kind: d.axis}
		if d.axis == Horizontal {
			g.Start = geometry.Pt(a.Rect.Right(), a.Rect.CenterY())
			g.End = geometry.Pt(b.Rect.Left(), b.Rect.CenterY())
			g.Actual = b.Rect.Left() - a.Rect.Right()
		} else {
			g.Start = geometry.Pt(a.Rect.CenterX(), a.Rect.Bottom())
			g.End = geometry.Pt(b.Rect.CenterX(), b.Rect.Top())
			g.Actual = b.Rect.Top() - a.Rect.Bottom()
		}
		g.Confidence = Confidence(g.Suggested, g.Actual, m.cfg.Tolerance)
		out = append(out, g)
	}
	return out
}

// DistributionTargets returns the positions that realise DistributeEvenly:
// the first component stays put and each following one is placed one
// uniform gap after its predecessor.
func (m *Manager) DistributionTargets(idx geometry.Index, ids []geometry.ComponentID) map[geometry.ComponentID]geometry.Position {
	d, ok := m.distribution(idx, ids)
	if !ok {
		return nil
	}
	out := make(map[geometry.ComponentID]geometry.Position, len(d.entries))
	first := d.entries[0].Rect
	out[d.entries[0].ID] = first.Min
	cursor := first.Right()
	if d.axis == Vertical {
		cursor = first.Bottom()
	}
	for _, e := range d.entries[1:] {
		p := e.Rect.Min
		if d.axis == Horizontal {
			p.X = cursor + d.gap
			cursor = p.X + e.Rect.Size.W
		} else {
			p.Y = cursor + d.gap
			cursor = p.Y + e.Rect.Size.H
		}
		out[e.ID] = p
	}
	return out
}
