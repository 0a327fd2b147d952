package geometry

import (
	"math"
	"testing"
)

func TestRectEdges(t *testing.T) {
	r := RectOf(Pt(10, 20), Size{W: 40, H: 60})

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"left", r.Left(), 10},
		{"right", r.Right(), 50},
		{"top", r.Top(), 20},
		{"bottom", r.Bottom(), 80},
		{"center x", r.CenterX(), 30},
		{"center y", r.CenterY(), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestRectOverlap(t *testing.T) {
	a := RectOf(Pt(0, 0), Size{W: 50, H: 20})

	tests := []struct {
		name  string
		other Rect
		wantX bool
		wantY bool
	}{
		{"same row to the right", RectOf(Pt(100, 5), Size{W: 10, H: 10}), false, true},
		{"same column below", RectOf(Pt(10, 40), Size{W: 10, H: 10}), true, false},
		{"touching edge only", RectOf(Pt(50, 20), Size{W: 10, H: 10}), false, false},
		{"overlapping", RectOf(Pt(25, 10), Size{W: 50, H: 20}), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.OverlapsX(tt.other); got != tt.wantX {
				t.Errorf("OverlapsX() = %v, want %v", got, tt.wantX)
			}
			if got := a.OverlapsY(tt.other); got != tt.wantY {
				t.Errorf("OverlapsY() = %v, want %v", got, tt.wantY)
			}
		})
	}
}

func TestEntriesSortedAndFiltered(t *testing.T) {
	s := NewSnapshot().
		Add(3, 0, 0, 10, 10).
		Add(1, 5, 5, 10, 10).
		Add(2, math.NaN(), 0, 10, 10).
		Add(4, 0, 0, -1, 10)

	entries := Entries(s)
	if len(entries) != 2 {
		t.Fatalf("Entries() returned %d entries, want 2", len(entries))
	}
	if entries[0].ID != 1 || entries[1].ID != 3 {
		t.Errorf("Entries() order = [%d %d], want [1 3]", entries[0].ID, entries[1].ID)
	}
}

func TestEntriesEmpty(t *testing.T) {
	if got := Entries(nil); got != nil {
		t.Errorf("Entries(nil) = %v, want nil", got)
	}
	if got := Entries(NewSnapshot()); got != nil {
		t.Errorf("Entries(empty) = %v, want nil", got)
	}
}

func TestLookup(t *testing.T) {
	s := NewSnapshot().Add(7, 1, 2, 3, 4)

	r, ok := Lookup(s, 7)
	if !ok {
		t.Fatal("Lookup(7) not found")
	}
	if r.Right() != 4 || r.Bottom() != 6 {
		t.Errorf("Lookup(7) = %+v", r)
	}
	if _, ok := Lookup(s, 8); ok {
		t.Error("Lookup(8) should not be found")
	}
}

func TestCanvasSize(t *testing.T) {
	s := NewSnapshot()
	if _, ok := CanvasSize(s); ok {
		t.Error("CanvasSize() without canvas should report false")
	}
	s.WithCanvas(800, 600)
	got, ok := CanvasSize(s)
	if !ok || got.W != 800 || got.H != 600 {
		t.Errorf("CanvasSize() = %v, %v, want {800 600}, true", got, ok)
	}
}

func TestBounds(t *testing.T) {
	entries := Entries(NewSnapshot().Add(1, 10, 10, 10, 10).Add(2, -5, 30, 20, 5))
	b, ok := Bounds(entries)
	if !ok {
		t.Fatal("Bounds() ok = false")
	}
	if b.Left() != -5 || b.Top() != 10 || b.Right() != 20 || b.Bottom() != 35 {
		t.Errorf("Bounds() = %+v", b)
	}
	if _, ok := Bounds(nil); ok {
		t.Error("Bounds(nil) ok = true, want false")
	}
}

func TestDistance(t *testing.T) {
	if got := Pt(0, 0).Distance(Pt(3, 4)); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}
