// Package pkg provides the core libraries of the snapline layout assistance
// engine.
//
// # Overview
//
// Snapline helps a visual editor place components. While a component is
// dragged it proposes alignment guides, magnetic snap targets and spacing
// hints, and it learns from how those suggestions are received. The pkg
// directory is organized into four areas:
//
//  1. Geometry and scenes: [geometry], [scene]
//  2. Managers: [align], [magnet], [spacing], [learning]
//  3. Orchestration: [assist] combines the managers into one engine
//  4. Infrastructure: [config], [profile], [observability], [errors], [buildinfo]
//
// # Architecture
//
// The data flow of one drag frame:
//
//	scene.json
//	     ↓
//	[scene] package (validated components, indexed by id)
//	     ↓
//	[assist] Engine.Evaluate
//	     ├── [align]    guides within threshold of the dragged edges
//	     ├── [magnet]   strongest zone containing the point
//	     └── [spacing]  ladder spacings to neighbours
//	     ↓
//	snap position + active guides + spacing suggestions
//
// Responses to suggestions are recorded with Engine.RecordActivation. The
// [learning] system turns them into per guide type sensitivities and
// recommended spacings, and the [profile] package persists them between
// sessions.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/snapline/pkg/assist"
//	    "github.com/matzehuels/snapline/pkg/geometry"
//	    "github.com/matzehuels/snapline/pkg/scene"
//	)
//
//	func main() {
//	    sc, _ := scene.ImportJSON("layout.json")
//	    engine := assist.New(assist.DefaultConfig())
//
//	    id := geometry.ComponentID(2)
//	    res := engine.Evaluate(ctx, sc, assist.Request{
//	        Dragging: &id,
//	        Point:    geometry.Pt(52, 0),
//	    })
//	    if res.SnapPosition != nil {
//	        // move the component to *res.SnapPosition
//	    }
//	}
//
// # Testing
//
//	go test ./pkg/...
//
// [geometry]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/geometry
// [scene]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/scene
// [align]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/align
// [magnet]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/magnet
// [spacing]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/spacing
// [learning]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/learning
// [assist]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/assist
// [config]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/config
// [profile]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/profile
// [observability]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/snapline/pkg/buildinfo
package pkg
