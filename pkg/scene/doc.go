// Package scene reads and writes layout scenes as JSON.
//
// # Overview
//
// A scene is the host document snapline works on: a canvas and the
// components placed on it. The CLI and the HTTP adapter load scenes from
// this format and hand them to the engine, which only ever sees them
// through [geometry.Index].
//
// # JSON Format
//
//	{
//	  "canvas": {"width": 800, "height": 600},
//	  "components": [
//	    {"id": 1, "type": "Button", "x": 0, "y": 0, "width": 50, "height": 20},
//	    {"id": 2, "type": "Label", "x": 70, "y": 0, "width": 50, "height": 20}
//	  ]
//	}
//
// The canvas is optional; without it no canvas-edge guides or zones are
// produced. Component fields:
//   - id: non-zero integer, unique within the scene (required)
//   - type: free-form component kind, fed to the learner (optional)
//   - x, y: top-left corner
//   - width, height: non-negative size
//
// # Validation
//
// [ReadJSON] and [New] reject duplicate or zero ids, non-finite numbers and
// negative sizes with an [errors.ErrCodeInvalidScene] error naming the
// offending component. Unknown fields are rejected too.
//
// # Round Trip
//
// [WriteJSON] emits components in ascending id order, so exporting an
// imported scene is stable.
package scene
