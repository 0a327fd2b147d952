package scene

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/geometry"
)

type document struct {
	Canvas     *geometry.Size `json:"canvas,omitempty"`
	Components []component    `json:"components"`
}

type component struct {
	ID     geometry.ComponentID `json:"id"`
	Type   string               `json:"type,omitempty"`
	X      float64              `json:"x"`
	Y      float64              `json:"y"`
	Width  float64              `json:"width"`
	Height float64              `json:"height"`
}

// ReadJSON decodes a JSON scene from r.
//
// ReadJSON returns an error if the JSON is malformed, carries unknown
// fields or fails the validation of [New]. It does not close r.
func ReadJSON(r io.Reader) (*Scene, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}

	var canvas geometry.Size
	if doc.Canvas != nil {
		canvas = *doc.Canvas
	}
	comps := make([]Component, len(doc.Components))
	for i, c := range doc.Components {
		comps[i] = Component{
			ID:   c.ID,
			Type: c.Type,
			Rect: geometry.RectOf(geometry.Pt(c.X, c.Y), geometry.Size{W: c.Width, H: c.Height}),
		}
	}
	return New(canvas, comps)
}

// ImportJSON reads the scene file at path.
func ImportJSON(path string) (*Scene, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	s, err := ReadJSON(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return s, nil
}
