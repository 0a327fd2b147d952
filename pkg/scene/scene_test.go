package scene

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/geometry"
)

const sample = `{
  "canvas": {"width": 800, "height": 600},
  "components": [
    {"id": 3, "type": "Label", "x": 140, "y": 0, "width": 50, "height": 20},
    {"id": 1, "type": "Button", "x": 0, "y": 0, "width": 50, "height": 20},
    {"id": 2, "type": "Button", "x": 70, "y": 0, "width": 50, "height": 20}
  ]
}`

func TestReadJSON(t *testing.T) {
	s, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if got, want := s.IDs(), []geometry.ComponentID{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if got := s.Positions()[2]; got != geometry.Pt(70, 0) {
		t.Errorf("Positions()[2] = %v, want (70,0)", got)
	}
	if got := s.Sizes()[3]; got != (geometry.Size{W: 50, H: 20}) {
		t.Errorf("Sizes()[3] = %v, want 50x20", got)
	}
	if size, ok := geometry.CanvasSize(s); !ok || size != (geometry.Size{W: 800, H: 600}) {
		t.Errorf("CanvasSize() = %v, %v", size, ok)
	}
	if got, want := s.Types(), []string{"Button", "Label"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
	if got, want := s.Types(3), []string{"Label"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Types(3) = %v, want %v", got, want)
	}
	if _, ok := s.Component(9); ok {
		t.Error("Component(9) found a missing component")
	}
}

func TestReadJSONWithoutCanvas(t *testing.T) {
	s, err := ReadJSON(strings.NewReader(`{"components":[{"id":1,"x":0,"y":0,"width":1,"height":1}]}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if _, ok := geometry.CanvasSize(s); ok {
		t.Error("CanvasSize() reported a canvas for a scene without one")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"malformed", `{"components": [`, "decode scene"},
		{"unknown field", `{"components": [], "zoom": 2}`, "decode scene"},
		{"zero id", `{"components": [{"id": 0, "x": 0, "y": 0, "width": 1, "height": 1}]}`, "non-zero"},
		{"duplicate id", `{"components": [
			{"id": 1, "x": 0, "y": 0, "width": 1, "height": 1},
			{"id": 1, "x": 5, "y": 0, "width": 1, "height": 1}]}`, "duplicate component id 1"},
		{"negative size", `{"components": [{"id": 4, "x": 0, "y": 0, "width": -1, "height": 1}]}`, "component 4"},
		{"negative canvas", `{"canvas": {"width": -5, "height": 5}, "components": []}`, "canvas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadJSON() error = nil")
			}
			if !errors.Is(err, errors.ErrCodeInvalidScene) {
				t.Errorf("ReadJSON() code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidScene)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("ReadJSON() error = %q, want it to mention %q", err, tt.msg)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	s, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := ExportJSON(s, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	back, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if !reflect.DeepEqual(back.Components(), s.Components()) {
		t.Errorf("round trip components = %v, want %v", back.Components(), s.Components())
	}

	var a, b bytes.Buffer
	if err := WriteJSON(s, &a); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(back, &b); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("export not stable:\n%s\n---\n%s", a.String(), b.String())
	}
}

func TestImportJSONMissing(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestMove(t *testing.T) {
	s, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	moved, err := s.Move(map[geometry.ComponentID]geometry.Position{2: geometry.Pt(60, 10), 42: geometry.Pt(1, 1)})
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := moved.Positions()[2]; got != geometry.Pt(60, 10) {
		t.Errorf("moved position = %v, want (60,10)", got)
	}
	if got := s.Positions()[2]; got != geometry.Pt(70, 0) {
		t.Errorf("original position changed to %v", got)
	}
	if moved.Len() != 3 {
		t.Errorf("moved Len() = %d, want 3", moved.Len())
	}
}
