// Package magnet implements magnetic snapping of a dragged component.
//
// Magnetic zones are radius-bounded attraction areas around layout features:
// the four sides and the center of every other component, optionally their
// corners, grid intersections near the query point and the canvas edges.
//
// Zones live in the same coordinate space as the drag point, which is the
// dragged component's top-left corner. A zone's center is therefore the
// top-left position the dragged component would take when snapped, and its
// snap target is the same point. The right-of zone of a component spanning
// x ∈ [0,50] sits at x = 50 + margin, so the dragged left edge lands adjacent
// to the neighbour instead of overlapping it.
//
// # Scoring
//
// A zone's influence at distance d is strength*(1-d/r), falling linearly to
// zero at its radius. Component-edge zones are ranked with an extra
// multiplier (1.5 by default) so object-to-object snapping beats grid
// snapping when both qualify. The highest-ranked zone wins; ties go to the
// zone generated first, and generation order follows ascending component id.
//
// Zones are rebuilt on every query. Grid zones are only generated in a
// bounded neighborhood of the query point, so cost does not grow with the
// canvas area.
package magnet
