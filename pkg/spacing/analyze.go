package spacing

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/matzehuels/snapline/pkg/geometry"
)

// Analyze groups components into rows and columns and reports spacing
// patterns, inconsistencies and fixes.
//
// A row is a run of components whose vertical centers lie within
// BandTolerance of the run's first member; columns are built the same way
// from horizontal centers. Bands with fewer than three members, or whose
// mean gap is not positive, are skipped.
func (m *Manager) Analyze(idx geometry.Index) Analysis {
	var a Analysis
	entries := geometry.Entries(idx)
	if len(entries) < 3 {
		return a
	}
	for _, band := range bands(entries, geometry.Rect.CenterY, m.cfg.BandTolerance) {
		m.analyzeBand(&a, band, Horizontal)
	}
	for _, band := range bands(entries, geometry.Rect.CenterX, m.cfg.BandTolerance) {
		m.analyzeBand(&a, band, Vertical)
	}
	return a
}

// bands clusters entries by key using the first member of each band as its
// anchor.
func bands(entries []geometry.Entry, key func(geometry.Rect) float64, tol float64) [][]geometry.Entry {
	sorted := make([]geometry.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return key(sorted[i].Rect) < key(sorted[j].Rect) })

	var out [][]geometry.Entry
	var cur []geometry.Entry
	var anchor float64
	for _, e := range sorted {
		k := key(e.Rect)
		if len(cur) > 0 && k-anchor > tol {
			out = append(out, cur)
			cur = nil
		}
		if len(cur) == 0 {
			anchor = k
		}
		cur = append(cur, e)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func (m *Manager) analyzeBand(a *Analysis, band []geometry.Entry, axis Axis) {
	if len(band) < 3 {
		return
	}
	lo, hi := geometry.Rect.Left, geometry.Rect.Right
	if axis == Vertical {
		lo, hi = geometry.Rect.Top, geometry.Rect.Bottom
	}
	members := make([]geometry.Entry, len(band))
	copy(members, band)
	sort.SliceStable(members, func(i, j int) bool {
		x, y := lo(members[i].Rect), lo(members[j].Rect)
		if x != y {
			return x < y
		}
		return members[i].ID < members[j].ID
	})

	gaps := make([]float64, len(members)-1)
	for i := range gaps {
		gaps[i] = lo(members[i+1].Rect) - hi(members[i].Rect)
	}
	mean, err := stats.Mean(gaps)
	if err != nil || !(mean > 0) {
		return
	}
	sd, err := stats.StandardDeviationPopulation(gaps)
	if err != nil {
		return
	}
	consistency := clamp01(1 - sd/mean)

	if consistency > m.cfg.ConsistencyThreshold {
		ids := make([]geometry.ComponentID, len(members))
		for i, e := range members {
			ids[i] = e.ID
		}
		a.Patterns = append(a.Patterns, Pattern{Components: ids, AverageSpacing: mean, Kind: axis, Consistency: consistency})
	}

	for i, gap := range gaps {
		diff := math.Abs(gap - mean)
		if diff <= m.cfg.Tolerance {
			continue
		}
		prev, next := members[i], members[i+1]
		inc := Inconsistency{
			Components: [2]geometry.ComponentID{prev.ID, next.ID},
			Expected:   mean,
			Actual:     gap,
			Kind:       axis,
			Severity:   math.Min(diff/mean, 1),
		}
		a.Inconsistencies = append(a.Inconsistencies, inc)

		if inc.Severity > m.cfg.SeverityThreshold {
			pos := next.Rect.Min
			if axis == Horizontal {
				pos.X = prev.Rect.Right() + mean
			} else {
				pos.Y = prev.Rect.Bottom() + mean
			}
			a.Suggestions = append(a.Suggestions, Suggestion{
				Component:         next.ID,
				SuggestedPosition: pos,
				Improvement:       ConsistentSpacing,
				Confidence:        1 - inc.Severity,
			})
		}
	}
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return math.Min(v, 1)
}
