// Package pkg provides the core libraries for reelgraph canvas projection.
//
// # Overview
//
// Reelgraph maintains anchor-typed trees of narrative clips and derives two
// read-only projections from them on demand: a 2-D elastic-column canvas
// layout and a 1-D multi-lane timeline. Neither projection is ever stored;
// both are pure functions of the current node set.
//
// The typical data flow:
//
//	Canvas document / TOML manifest
//	         ↓
//	    [node] package (index the flat node set)
//	         ↓         ↘
//	    [layout]       [timeline]
//	         ↓              ↓
//	    [render/dot]   track view / JSON
//
// # Main Packages
//
// [node] - The clip node model: kinds, anchors, and the per-call index with
// its id→children adjacency map.
//
// [layout] - The 2-D spatial projection (elastic-column geometry, connection
// lines, bounding box) and the cursor→insertion drop-zone resolver.
//
// [timeline] - The 1-D temporal projection: lane-bucketed clips with
// anchor-driven time propagation.
//
// [timecode] - Stateless seconds→timecode formatting for display layers.
//
// [canvas] - The canonical JSON document format and its content hash.
//
// [manifest] - TOML manifests for hand-authored canvases.
//
// [render/dot] - Graphviz export of the anchor topology (DOT/SVG/PNG).
//
// [pipeline] - The load → project → encode flow shared by CLI and API,
// with content-hash-keyed artifact caching.
//
// [store] - Canvas persistence backends: memory, file, Redis, MongoDB.
//
// [cache] - Byte-level artifact caching (rendered SVG/PNG only).
//
// [api] - The HTTP projection API.
//
// [errors] - Structured error codes shared by CLI and API.
//
// # Quick Start
//
// Project a canvas and render it:
//
//	doc, _ := canvas.ReadFile("scene.json")
//	lay := layout.Compute(doc.Nodes)
//	seq := timeline.Project(doc.Nodes)
//	svg, _ := dot.RenderSVG(ctx, dot.ToDOT(doc.Nodes, dot.Options{}))
//
// [node]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/node
// [layout]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/layout
// [timeline]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/timeline
// [timecode]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/timecode
// [canvas]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/canvas
// [manifest]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/manifest
// [render/dot]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/render/dot
// [pipeline]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/pipeline
// [store]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/store
// [cache]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/cache
// [api]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/api
// [errors]: https://pkg.go.dev/github.com/storyreel/reelgraph/pkg/errors
package pkg
