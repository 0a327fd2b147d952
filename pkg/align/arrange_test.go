package align

import (
	"testing"

	"github.com/matzehuels/snapline/pkg/geometry"
)

func TestArrange(t *testing.T) {
	s := geometry.NewSnapshot().
		Add(1, 10, 0, 20, 10).
		Add(2, 40, 30, 40, 20).
		Add(3, 0, 60, 30, 30)
	ids := []geometry.ComponentID{1, 2, 3}

	tests := []struct {
		op   Operation
		want map[geometry.ComponentID]geometry.Position
	}{
		{AlignLeft, map[geometry.ComponentID]geometry.Position{1: {X: 0, Y: 0}, 2: {X: 0, Y: 30}, 3: {X: 0, Y: 60}}},
		{AlignRight, map[geometry.ComponentID]geometry.Position{1: {X: 60, Y: 0}, 2: {X: 40, Y: 30}, 3: {X: 50, Y: 60}}},
		{AlignTop, map[geometry.ComponentID]geometry.Position{1: {X: 10, Y: 0}, 2: {X: 40, Y: 0}, 3: {X: 0, Y: 0}}},
		{AlignBottom, map[geometry.ComponentID]geometry.Position{1: {X: 10, Y: 80}, 2: {X: 40, Y: 70}, 3: {X: 0, Y: 60}}},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got := Arrange(s, ids, tt.op)
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("Arrange(%v)[%d] = %v, want %v", tt.op, id, got[id], want)
				}
			}
		})
	}
}

func TestArrangeCenters(t *testing.T) {
	s := geometry.NewSnapshot().
		Add(1, 0, 0, 20, 10).
		Add(2, 40, 40, 40, 30)

	got := Arrange(s, []geometry.ComponentID{1, 2}, AlignCenterHorizontal)
	// centers 10 and 60 -> 35
	if got[1].X != 25 || got[2].X != 15 {
		t.Errorf("center-h = %v", got)
	}

	got = Arrange(s, []geometry.ComponentID{1, 2}, AlignCenterVertical)
	// centers 5 and 55 -> 30
	if got[1].Y != 25 || got[2].Y != 15 {
		t.Errorf("center-v = %v", got)
	}
}

func TestArrangeIgnoresUnknown(t *testing.T) {
	s := geometry.NewSnapshot().Add(1, 5, 5, 10, 10)
	got := Arrange(s, []geometry.ComponentID{1, 99}, AlignLeft)
	if len(got) != 1 {
		t.Errorf("Arrange() returned %d positions, want 1", len(got))
	}
	if got := Arrange(s, nil, AlignLeft); got != nil {
		t.Errorf("Arrange(nil ids) = %v, want nil", got)
	}
}

func TestParseOperation(t *testing.T) {
	for _, name := range []string{"left", "right", "center-h", "top", "bottom", "center-v"} {
		op, err := ParseOperation(name)
		if err != nil {
			t.Errorf("ParseOperation(%q) error: %v", name, err)
			continue
		}
		if op.String() != name {
			t.Errorf("ParseOperation(%q).String() = %q", name, op.String())
		}
	}
	if _, err := ParseOperation("diagonal"); err == nil {
		t.Error("ParseOperation(diagonal) should fail")
	}
}
