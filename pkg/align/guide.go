package align

import (
	"fmt"
	"math"
	"sort"

	"github.com/matzehuels/snapline/pkg/geometry"
)

// Direction is the orientation of a guide line.
type Direction int

const (
	// Horizontal guides are lines of constant y.
	Horizontal Direction = iota
	// Vertical guides are lines of constant x.
	Vertical
)

var directionNames = [...]string{"horizontal", "vertical"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	for i, name := range directionNames {
		if string(b) == name {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", b)
}

// Kind identifies the layout feature a guide was derived from.
type Kind int

const (
	ComponentEdge Kind = iota
	ComponentCenter
	CanvasEdge
	GridLine
)

var kindNames = [...]string{"component_edge", "component_center", "canvas_edge", "grid_line"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if string(b) == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown guide kind %q", b)
}

// Guide is a candidate alignment line.
type Guide struct {
	Position  float64                `json:"position"`
	Direction Direction              `json:"direction"`
	Sources   []geometry.ComponentID `json:"sources,omitempty"`
	Strength  float64                `json:"strength"`
	Kind      Kind                   `json:"kind"`
	Active    bool                   `json:"active"`
}

// Distance returns the perpendicular distance from p to the guide line.
func (g Guide) Distance(p geometry.Position) float64 {
	if g.Direction == Vertical {
		return math.Abs(p.X - g.Position)
	}
	return math.Abs(p.Y - g.Position)
}

// Merge combines same-direction guides whose positions lie within threshold
// of the running average of the current cluster. The input slice is not
// modified.
//
// A merged guide takes the average position of its members, the union of
// their sources, the kind of its strongest member and a strength of
// max(strength) * sqrt(members). Clusters that contain a single guide are
// returned unchanged, which makes Merge idempotent.
func Merge(guides []Guide, threshold float64) []Guide {
	if len(guides) == 0 {
		return nil
	}
	if threshold < 0 || math.IsNaN(threshold) {
		threshold = 0
	}

	sorted := make([]Guide, len(guides))
	copy(sorted, guides)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Direction != sorted[j].Direction {
			return sorted[i].Direction < sorted[j].Direction
		}
		return sorted[i].Position < sorted[j].Position
	})

	out := make([]Guide, 0, len(sorted))
	var c cluster
	for _, g := range sorted {
		if c.n > 0 && (g.Direction != c.dir || math.Abs(g.Position-c.avg()) > threshold) {
			out = append(out, c.guide())
			c = cluster{}
		}
		c.add(g)
	}
	if c.n > 0 {
		out = append(out, c.guide())
	}
	return out
}

type cluster struct {
	dir       Direction
	sum       float64
	n         int
	strongest Guide
	sources   map[geometry.ComponentID]struct{}
	active    bool
}

func (c *cluster) avg() float64 { return c.sum / float64(c.n) }

func (c *cluster) add(g Guide) {
	if c.n == 0 {
		c.dir = g.Direction
		c.strongest = g
		c.sources = make(map[geometry.ComponentID]struct{})
	} else if g.Strength > c.strongest.Strength {
		c.strongest = g
	}
	c.sum += g.Position
	c.n++
	c.active = c.active || g.Active
	for _, id := range g.Sources {
		c.sources[id] = struct{}{}
	}
}

func (c *cluster) guide() Guide {
	if c.n == 1 {
		return c.strongest
	}
	sources := make([]geometry.ComponentID, 0, len(c.sources))
	for id := range c.sources {
		sources = append(sources, id)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return Guide{
		Position:  c.avg(),
		Direction: c.dir,
		Sources:   sources,
		Strength:  c.strongest.Strength * math.Sqrt(float64(c.n)),
		Kind:      c.strongest.Kind,
		Active:    c.active,
	}
}
