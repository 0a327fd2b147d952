package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/snapline/pkg/geometry"
)

// WriteJSON encodes s as JSON and writes it to w. Components are written in
// ascending id order; the canvas is omitted when the scene has none.
func WriteJSON(s *Scene, w io.Writer) error {
	doc := document{Components: make([]component, len(s.components))}
	if s.canvas != (geometry.Size{}) {
		canvas := s.canvas
		doc.Canvas = &canvas
	}
	for i, c := range s.components {
		doc.Components[i] = component{
			ID:     c.ID,
			Type:   c.Type,
			X:      c.Rect.Min.X,
			Y:      c.Rect.Min.Y,
			Width:  c.Rect.Size.W,
			Height: c.Rect.Size.H,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes s to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(s *Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
