// Package geometry defines the read-only component geometry consumed by the
// layout assistance engine.
//
// The host designer owns component identity, position and size. Each call
// into the engine borrows a fresh [Index] describing the current frame; the
// engine never mutates it and never keeps it past the call.
//
// # Coordinates
//
// Positions are top-left corners in canvas pixels with y growing downward.
// A component occupies [X, X+W] × [Y, Y+H].
//
// # Determinism
//
// Go map iteration order is random, so every consumer walks components via
// [Entries], which returns them sorted by [ComponentID] and drops entries
// with non-finite coordinates or negative sizes. Generation order derived
// from Entries is what makes tie-breaks reproducible.
package geometry

import (
	"math"
	"sort"
)

// ComponentID is an opaque handle supplied by the host, unique per session.
type ComponentID uint64

// Position is a point on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is a convenience function to create a Position.
func Pt(x, y float64) Position { return Position{X: x, Y: y} }

// Sub returns the vector from q to p.
func (p Position) Sub(q Position) Position { return Position{X: p.X - q.X, Y: p.Y - q.Y} }

// Distance returns the Euclidean distance between two positions.
func (p Position) Distance(q Position) float64 {
	d := p.Sub(q)
	return math.Sqrt(d.X*d.X + d.Y*d.Y)
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Position) IsFinite() bool { return finite(p.X) && finite(p.Y) }

// Size is a component's width and height.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// IsValid reports whether the size is finite and non-negative.
func (s Size) IsValid() bool { return finite(s.W) && finite(s.H) && s.W >= 0 && s.H >= 0 }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	Min  Position `json:"min"`
	Size Size     `json:"size"`
}

// RectOf builds a Rect from a position and size.
func RectOf(p Position, s Size) Rect { return Rect{Min: p, Size: s} }

// Left returns the x coordinate of the left edge.
func (r Rect) Left() float64 { return r.Min.X }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Min.X + r.Size.W }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Min.Y }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Min.Y + r.Size.H }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return r.Min.X + r.Size.W/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return r.Min.Y + r.Size.H/2 }

// Center returns the center point.
func (r Rect) Center() Position { return Position{X: r.CenterX(), Y: r.CenterY()} }

// OverlapsX reports whether the horizontal extents of r and o overlap with
// positive length.
func (r Rect) OverlapsX(o Rect) bool {
	return math.Max(r.Left(), o.Left()) < math.Min(r.Right(), o.Right())
}

// OverlapsY reports whether the vertical extents of r and o overlap with
// positive length.
func (r Rect) OverlapsY(o Rect) bool {
	return math.Max(r.Top(), o.Top()) < math.Min(r.Bottom(), o.Bottom())
}

// Index is the read-only geometry snapshot supplied by the host each call.
// Implementations must not change between the calls made within one engine
// operation.
type Index interface {
	Positions() map[ComponentID]Position
	Sizes() map[ComponentID]Size
}

// Canvas is optionally implemented by an Index that knows the canvas extent.
// Canvas-edge zones and guides are only produced when it is available.
type Canvas interface {
	CanvasSize() Size
}

// CanvasSize returns the canvas size of idx if it implements [Canvas] with a
// valid, non-empty size.
func CanvasSize(idx Index) (Size, bool) {
	c, ok := idx.(Canvas)
	if !ok {
		return Size{}, false
	}
	s := c.CanvasSize()
	if !s.IsValid() || s.W == 0 || s.H == 0 {
		return Size{}, false
	}
	return s, true
}

// Entry is one component of an Index.
type Entry struct {
	ID   ComponentID
	Rect Rect
}

// Entries returns the valid components of idx sorted by ID. Components
// without a size entry are treated as zero-sized, matching hosts that only
// report positions for point-like items.
func Entries(idx Index) []Entry {
	if idx == nil {
		return nil
	}
	positions := idx.Positions()
	if len(positions) == 0 {
		return nil
	}
	sizes := idx.Sizes()

	out := make([]Entry, 0, len(positions))
	for id, p := range positions {
		s := sizes[id]
		if !p.IsFinite() || !s.IsValid() {
			continue
		}
		out = append(out, Entry{ID: id, Rect: RectOf(p, s)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Lookup returns the rectangle for id, if present and valid.
func Lookup(idx Index, id ComponentID) (Rect, bool) {
	if idx == nil {
		return Rect{}, false
	}
	p, ok := idx.Positions()[id]
	if !ok {
		return Rect{}, false
	}
	s := idx.Sizes()[id]
	if !p.IsFinite() || !s.IsValid() {
		return Rect{}, false
	}
	return RectOf(p, s), true
}

// Bounds returns the bounding box of all entries. ok is false when entries
// is empty.
func Bounds(entries []Entry) (r Rect, ok bool) {
	if len(entries) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, e := range entries {
		minX = math.Min(minX, e.Rect.Left())
		minY = math.Min(minY, e.Rect.Top())
		maxX = math.Max(maxX, e.Rect.Right())
		maxY = math.Max(maxY, e.Rect.Bottom())
	}
	return Rect{Min: Pt(minX, minY), Size: Size{W: maxX - minX, H: maxY - minY}}, true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
