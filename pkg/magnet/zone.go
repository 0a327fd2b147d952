package magnet

import (
	"fmt"

	"github.com/matzehuels/snapline/pkg/geometry"
)

// Kind identifies what produced a zone.
type Kind int

const (
	ComponentEdge Kind = iota
	ComponentCenter
	Corner
	GridPoint
	CanvasEdge
)

var kindNames = [...]string{"component_edge", "component_center", "corner", "grid_point", "canvas_edge"}

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
	return fmt.Errorf("unknown zone kind %q", b)
}

// Zone is one magnetic attraction area.
type Zone struct {
	Center     geometry.Position     `json:"center"`
	Radius     float64               `json:"radius"`
	Strength   float64               `json:"strength"`
	SnapTarget geometry.Position     `json:"snap_target"`
	Kind       Kind                  `json:"kind"`
	Source     *geometry.ComponentID `json:"source,omitempty"` // nil for grid and canvas zones
}

// Influence returns strength*(1-d/r) for a point at distance d from the
// zone center, or 0 outside the radius. The result is never negative.
func (z Zone) Influence(p geometry.Position) float64 {
	if !(z.Radius > 0) || !(z.Strength > 0) {
		return 0
	}
	d := z.Center.Distance(p)
	if !(d <= z.Radius) {
		return 0
	}
	return z.Strength * (1 - d/z.Radius)
}
