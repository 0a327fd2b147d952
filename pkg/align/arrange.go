package align

import (
	"fmt"
	"math"

	"github.com/matzehuels/snapline/pkg/geometry"
)

// Operation is a one-shot alignment applied to a selection.
type Operation int

const (
	AlignLeft Operation = iota
	AlignRight
	AlignCenterHorizontal // share the mean horizontal center
	AlignTop
	AlignBottom
	AlignCenterVertical // share the mean vertical center
)

var operationNames = [...]string{"left", "right", "center-h", "top", "bottom", "center-v"}

func (op Operation) String() string {
	if int(op) < len(operationNames) {
		return operationNames[op]
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// ParseOperation converts a name such as "left" or "center-v" to an Operation.
func ParseOperation(s string) (Operation, error) {
	for i, name := range operationNames {
		if s == name {
			return Operation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown alignment operation %q (want one of %v)", s, operationNames)
}

// Arrange computes the positions the selected components would take under
// op. Components missing from idx are ignored. The geometry is not modified;
// the host decides whether to apply the result.
func Arrange(idx geometry.Index, ids []geometry.ComponentID, op Operation) map[geometry.ComponentID]geometry.Position {
	var rects []geometry.Entry
	seen := make(map[geometry.ComponentID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if r, ok := geometry.Lookup(idx, id); ok {
			rects = append(rects, geometry.Entry{ID: id, Rect: r})
		}
	}
	if len(rects) == 0 {
		return nil
	}

	var target float64
	switch op {
	case AlignLeft:
		target = fold(rects, math.Inf(1), math.Min, geometry.Rect.Left)
	case AlignRight:
		target = fold(rects, math.Inf(-1), math.Max, geometry.Rect.Right)
	case AlignTop:
		target = fold(rects, math.Inf(1), math.Min, geometry.Rect.Top)
	case AlignBottom:
		target = fold(rects, math.Inf(-1), math.Max, geometry.Rect.Bottom)
	case AlignCenterHorizontal:
		target = mean(rects, geometry.Rect.CenterX)
	case AlignCenterVertical:
		target = mean(rects, geometry.Rect.CenterY)
	default:
		return nil
	}

	out := make(map[geometry.ComponentID]geometry.Position, len(rects))
	for _, e := range rects {
		p := e.Rect.Min
		switch op {
		case AlignLeft:
			p.X = target
		case AlignRight:
			p.X = target - e.Rect.Size.W
		case AlignCenterHorizontal:
			p.X = target - e.Rect.Size.W/2
		case AlignTop:
			p.Y = target
		case AlignBottom:
			p.Y = target - e.Rect.Size.H
		case AlignCenterVertical:
			p.Y = target - e.Rect.Size.H/2
		}
		out[e.ID] = p
	}
	return out
}

func fold(es []geometry.Entry, init float64, f func(a, b float64) float64, get func(geometry.Rect) float64) float64 {
	v := init
	for _, e := range es {
		v = f(v, get(e.Rect))
	}
	return v
}

func mean(es []geometry.Entry, get func(geometry.Rect) float64) float64 {
	var sum float64
	for _, e := range es {
		sum += get(e.Rect)
	}
	return sum / float64(len(es))
}
