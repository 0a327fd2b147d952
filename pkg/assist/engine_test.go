package assist

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/matzehuels/snapline/pkg/geometry"
	"github.com/matzehuels/snapline/pkg/learning"
	"github.com/matzehuels/snapline/pkg/observability"
)

func idPtr(id geometry.ComponentID) *geometry.ComponentID { return &id }

// pair is one fixed component and a 30x20 component being dragged.
func pair() *geometry.Snapshot {
	return geometry.NewSnapshot().
		Add(1, 0, 0, 50, 20).
		Add(2, 300, 300, 30, 20)
}

func TestEvaluateMagnetWins(t *testing.T) {
	e := New(DefaultConfig())
	res := e.Evaluate(context.Background(), pair(), Request{Dragging: idPtr(2), Point: geometry.Pt(52, 0)})

	if res.SnapPosition == nil || *res.SnapPosition != geometry.Pt(50, 0) {
		t.Fatalf("SnapPosition = %v, want (50,0)", res.SnapPosition)
	}
	if want := 1 - 2.0/15; math.Abs(res.MagnetismStrength-want) > 1e-9 {
		t.Errorf("MagnetismStrength = %v, want %v", res.MagnetismStrength, want)
	}
	if res.Snap == nil || res.Snap.Target != geometry.Pt(50, 0) {
		t.Errorf("Snap = %+v, want target (50,0)", res.Snap)
	}
	if len(res.ActiveGuides) != 2 {
		t.Errorf("len(ActiveGuides) = %d, want 2", len(res.ActiveGuides))
	}
}

func TestEvaluateGuideOverridePerAxis(t *testing.T) {
	e := New(DefaultConfig())
	e.Configure(Settings{GuidesEnabled: true, MagnetismEnabled: false, MagnetismStrength: 1, AlignmentThreshold: 5})

	res := e.Evaluate(context.Background(), pair(), Request{Dragging: idPtr(2), Point: geometry.Pt(52, 3)})
	if res.SnapPosition == nil || *res.SnapPosition != geometry.Pt(50, 0) {
		t.Fatalf("SnapPosition = %v, want (50,0)", res.SnapPosition)
	}
	if res.MagnetismStrength != 0 || res.Snap != nil {
		t.Errorf("magnetism reported while disabled: %v %+v", res.MagnetismStrength, res.Snap)
	}
}

func TestEvaluateSingleAxisOverride(t *testing.T) {
	e := New(DefaultConfig())
	res := e.Evaluate(context.Background(), pair(), Request{Dragging: idPtr(2), Point: geometry.Pt(68, 0)})

	if res.SnapPosition == nil || *res.SnapPosition != geometry.Pt(68, 0) {
		t.Fatalf("SnapPosition = %v, want (68,0)", res.SnapPosition)
	}
	if len(res.SpacingSuggestions) != 1 {
		t.Fatalf("len(SpacingSuggestions) = %d, want 1", len(res.SpacingSuggestions))
	}
	g := res.SpacingSuggestions[0]
	if g.Suggested != 16 || g.Actual != 18 || g.Confidence != 0.5 {
		t.Errorf("suggestion = %v/%v/%v, want 16/18/0.5", g.Suggested, g.Actual, g.Confidence)
	}
}

func TestEvaluateWeakMagnetDoesNotSnap(t *testing.T) {
	e := New(DefaultConfig())
	res := e.Evaluate(context.Background(), pair(), Request{Dragging: idPtr(2), Point: geometry.Pt(58, -6)})

	if res.SnapPosition != nil {
		t.Errorf("SnapPosition = %v, want nil", *res.SnapPosition)
	}
	if want := 1 - 10.0/15; math.Abs(res.MagnetismStrength-want) > 1e-9 {
		t.Errorf("MagnetismStrength = %v, want %v", res.MagnetismStrength, want)
	}
	if len(res.ActiveGuides) != 0 {
		t.Errorf("ActiveGuides = %v, want none", res.ActiveGuides)
	}
}

func TestEvaluateEmptyGeometry(t *testing.T) {
	tests := []struct {
		name string
		idx  geometry.Index
		req  Request
	}{
		{"empty snapshot", geometry.NewSnapshot(), Request{Point: geometry.Pt(10, 10), Size: geometry.Size{W: 10, H: 10}}},
		{"nil index", nil, Request{Point: geometry.Pt(1, 1)}},
		{"nil index with drag and selection", nil, Request{Dragging: idPtr(1), Point: geometry.Pt(1, 1), Selection: []geometry.ComponentID{1, 2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(DefaultConfig())
			res := e.Evaluate(context.Background(), tt.idx, tt.req)

			if res.SnapPosition != nil || res.MagnetismStrength != 0 {
				t.Errorf("Evaluate() on empty geometry = %+v, want no snap", res)
			}
			if res.ActiveGuides == nil || len(res.ActiveGuides) != 0 {
				t.Errorf("ActiveGuides = %v, want empty non-nil", res.ActiveGuides)
			}
			if res.SpacingSuggestions == nil || len(res.SpacingSuggestions) != 0 {
				t.Errorf("SpacingSuggestions = %v, want empty non-nil", res.SpacingSuggestions)
			}
			if len(res.Distribution) != 0 {
				t.Errorf("Distribution = %v, want empty", res.Distribution)
			}
		})
	}
}

func TestEvaluateNonFinitePoint(t *testing.T) {
	e := New(DefaultConfig())
	res := e.Evaluate(context.Background(), pair(), Request{Dragging: idPtr(2), Point: geometry.Pt(math.NaN(), 0)})
	if res.SnapPosition != nil || len(res.ActiveGuides) != 0 || len(res.SpacingSuggestions) != 0 {
		t.Errorf("Evaluate() with NaN point = %+v, want empty", res)
	}
}

func TestEvaluateDistribution(t *testing.T) {
	s := geometry.NewSnapshot().
		Add(1, 0, 0, 50, 20).
		Add(2, 100, 0, 50, 20).
		Add(3, 250, 0, 50, 20)
	e := New(DefaultConfig())

	res := e.Evaluate(context.Background(), s, Request{Point: geometry.Pt(500, 500), Selection: []geometry.ComponentID{1, 2, 3}})
	if len(res.Distribution) != 2 {
		t.Fatalf("len(Distribution) = %d, want 2", len(res.Distribution))
	}
	for _, g := range res.Distribution {
		if g.Suggested != 75 {
			t.Errorf("Distribution suggested = %v, want 75", g.Suggested)
		}
	}

	res = e.Evaluate(context.Background(), s, Request{Point: geometry.Pt(500, 500), Selection: []geometry.ComponentID{1, 2}})
	if res.Distribution != nil {
		t.Errorf("Distribution with two selected = %v, want nil", res.Distribution)
	}
}

func TestConfigureClamps(t *testing.T) {
	e := New(DefaultConfig())
	e.Configure(Settings{GuidesEnabled: false, MagnetismEnabled: true, MagnetismStrength: 5, AlignmentThreshold: -3})

	got := e.Settings()
	want := Settings{GuidesEnabled: false, MagnetismEnabled: true, MagnetismStrength: 2, AlignmentThreshold: 0}
	if got != want {
		t.Errorf("Settings() = %+v, want %+v", got, want)
	}
	if e.Config().Spacing.Enabled {
		t.Error("spacing guides still enabled after disabling guides")
	}

	res := e.Evaluate(context.Background(), pair(), Request{Dragging: idPtr(2), Point: geometry.Pt(68, 0)})
	if len(res.ActiveGuides) != 0 || len(res.SpacingSuggestions) != 0 {
		t.Errorf("guides produced while disabled: %+v", res)
	}
}

func rejected(gt learning.GuideType, n int) []learning.Activation {
	out := make([]learning.Activation, n)
	for i := range out {
		out[i] = learning.Activation{GuideType: gt, Action: learning.Rejected, Context: learning.Context{ComponentCount: 2}}
	}
	return out
}

func TestLearnedSpacingTolerance(t *testing.T) {
	tests := []struct {
		name     string
		adaptive bool
		want     float64
	}{
		{"adaptive", true, 0.75},
		{"fixed", false, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Adaptive = tt.adaptive
			e := New(cfg)
			for _, a := range rejected(learning.SpacingGuide, 10) {
				e.RecordActivation(context.Background(), a)
			}
			res := e.Evaluate(context.Background(), pair(), Request{Dragging: idPtr(2), Point: geometry.Pt(68, 0)})
			if len(res.SpacingSuggestions) != 1 {
				t.Fatalf("len(SpacingSuggestions) = %d, want 1", len(res.SpacingSuggestions))
			}
			if got := res.SpacingSuggestions[0].Confidence; math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Confidence = %v, want %v", got, tt.want)
			}
			if got := e.Config().Spacing.Tolerance; got != 4 {
				t.Errorf("Config().Spacing.Tolerance = %v, want configured 4", got)
			}
		})
	}
}

func TestLearnedMagnetSensitivity(t *testing.T) {
	e := New(DefaultConfig())
	for _, a := range rejected(learning.MagnetismZone, 10) {
		e.RecordActivation(context.Background(), a)
	}
	res := e.Evaluate(context.Background(), pair(), Request{Dragging: idPtr(2), Point: geometry.Pt(52, 0)})

	// sensitivity floors at 0.1, scaling strength by 0.1/0.5
	if want := 0.2 * (1 - 2.0/15); math.Abs(res.MagnetismStrength-want) > 1e-9 {
		t.Errorf("MagnetismStrength = %v, want %v", res.MagnetismStrength, want)
	}
	// the weakened magnet no longer wins, so the guides decide
	if res.SnapPosition == nil || *res.SnapPosition != geometry.Pt(50, 0) {
		t.Errorf("SnapPosition = %v, want (50,0) from guides", res.SnapPosition)
	}
}

func TestRecommendationsFresh(t *testing.T) {
	e := New(DefaultConfig())
	r := e.Recommendations(learning.Context{ComponentCount: 6})
	for _, gt := range learning.GuideTypes {
		if r.Sensitivity[gt] != 0.5 {
			t.Errorf("Sensitivity[%v] = %v, want 0.5", gt, r.Sensitivity[gt])
		}
	}
	want := []float64{8, 16, 24, 32}
	if len(r.Spacings) != len(want) {
		t.Fatalf("Spacings = %v, want %v", r.Spacings, want)
	}
	for i := range want {
		if r.Spacings[i] != want[i] {
			t.Errorf("Spacings = %v, want %v", r.Spacings, want)
		}
	}
}

func TestStatistics(t *testing.T) {
	e := New(DefaultConfig())
	e.Evaluate(context.Background(), pair(), Request{Dragging: idPtr(2), Point: geometry.Pt(52, 0)})
	for _, a := range rejected(learning.GridSnap, 3) {
		e.RecordActivation(context.Background(), a)
	}

	st := e.Statistics()
	if st.TotalActivations != 3 || st.RejectionRate != 1 {
		t.Errorf("learning statistics = %+v, want 3 rejected", st.Statistics)
	}
	if st.Guides.Total != 6 || st.Guides.Active != 2 {
		t.Errorf("Guides = %+v, want 6 total, 2 active", st.Guides)
	}
	if st.Zones.Total == 0 || st.Zones.Active == 0 {
		t.Errorf("Zones = %+v, want zones from the last evaluation", st.Zones)
	}
}

type countingHooks struct {
	observability.NoopEngineHooks
	evaluations int
	updates     int
	imports     int
	importErrs  int
}

func (h *countingHooks) OnEvaluate(context.Context, int, bool, time.Duration) { h.evaluations++ }
func (h *countingHooks) OnPreferencesUpdated(context.Context, int)            { h.updates++ }
func (h *countingHooks) OnImport(_ context.Context, _ int, err error) {
	h.imports++
	if err != nil {
		h.importErrs++
	}
}

func TestHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetEngineHooks(h)
	defer observability.Reset()

	ctx := context.Background()
	e := New(DefaultConfig())
	e.Evaluate(ctx, pair(), Request{Point: geometry.Pt(0, 0)})
	for _, a := range rejected(learning.GridSnap, 11) {
		e.RecordActivation(ctx, a)
	}
	data, err := e.ExportLearningData()
	if err != nil {
		t.Fatalf("ExportLearningData: %v", err)
	}
	if err := e.ImportLearningData(ctx, data); err != nil {
		t.Fatalf("ImportLearningData: %v", err)
	}
	if err := e.ImportLearningData(ctx, []byte("{")); err == nil {
		t.Fatal("ImportLearningData() accepted truncated data")
	}

	if h.evaluations != 1 || h.updates != 2 || h.imports != 2 || h.importErrs != 1 {
		t.Errorf("hooks = %+v, want 1 evaluation, 2 updates, 2 imports with 1 error", *h)
	}
}

func TestImportFailureKeepsState(t *testing.T) {
	e := New(DefaultConfig())
	for _, a := range rejected(learning.AlignmentGuide, 12) {
		e.RecordActivation(context.Background(), a)
	}
	before := e.Statistics().Statistics

	if err := e.ImportLearningData(context.Background(), []byte(`{"version":1,"activation_history":[{"guide_type":"nope"}]}`)); err == nil {
		t.Fatal("ImportLearningData() succeeded, want error")
	}
	if got := e.Statistics().Statistics; got != before {
		t.Errorf("Statistics() = %+v, want %+v", got, before)
	}

	e.ResetLearning()
	if got := e.Statistics().TotalActivations; got != 0 {
		t.Errorf("TotalActivations after reset = %d, want 0", got)
	}
}
