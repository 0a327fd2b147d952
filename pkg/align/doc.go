// Package align derives alignment guides from component geometry.
//
// # Overview
//
// Every component contributes six candidate lines: its left edge, right edge
// and horizontal center become vertical guides (x = const), and its top edge,
// bottom edge and vertical center become horizontal guides (y = const).
// Candidates of the same direction that lie within the merge threshold are
// then combined by [Merge] into a single guide. The merged guide sits at the
// running average of its members and its strength is the strongest member's
// strength multiplied by sqrt(n), which rewards popular lines without letting
// a crowded row dominate linearly.
//
// # Usage
//
//	m := align.NewManager(align.DefaultConfig())
//	m.Generate(snapshot, &draggingID)
//	active := m.ActiveGuides(point, 5)
//
// [Manager.ActiveGuides] marks each stored guide active or inactive as a side
// effect. Renderers read that flag through [Manager.Guides].
//
// # Determinism
//
// Components are visited in ascending id order and merging uses a stable sort,
// so the same snapshot always yields the same guides in the same order.
// Re-merging an already merged list is a no-op.
//
// A Manager is rebuilt from scratch on every Generate call and keeps no
// identity across frames. It is not safe for concurrent use.
package align
