// Package layout computes the 2-D spatial projection of a canvas: node
// positions and sizes, connection lines between parents and children, and
// the overall bounding box.
//
// The projection is a pure function of the structural node fields (parent,
// anchor, lane). It is recomputed on every call and never stored; calling
// Compute twice on the same node set yields identical output.
//
// # Elastic columns
//
// A node's elastic width is the maximum of the base width and the elastic
// widths of its TOP-anchored children, computed recursively. Only spine
// nodes render at their elastic width - the column stretches so that the
// wings stacked above it stay enclosed. All other kinds render at the base
// width.
//
// # Known limitation
//
// Multiple TOP children under one parent all resolve to the identical
// stacked position and overlap visually. This is preserved as observed
// behavior, not corrected here.
package layout

import (
	"math"
	"strconv"

	rgerrors "github.com/storyreel/reelgraph/pkg/errors"
	"github.com/storyreel/reelgraph/pkg/node"
)

// Layout constants, in canvas units. Fixed by design: they are named
// configuration constants rather than runtime-tunable parameters.
const (
	// BaseWidth is the default rendered width of a node.
	BaseWidth = 300.0
	// NodeHeight is the rendered height of every node.
	NodeHeight = 100.0
	// Gap is the spacing between adjacent nodes, horizontal and vertical.
	Gap = 40.0
	// Padding is the canvas margin around the laid-out tree.
	Padding = 80.0
)

// ConnectionKind selects the connector drawn for a parent→child edge.
type ConnectionKind string

// Connection kinds, one per child anchor.
const (
	// ConnectionCurve is a horizontal curve used for append edges.
	ConnectionCurve ConnectionKind = "curve"
	// ConnectionElbow is a right-angled vertical connector used for top edges.
	ConnectionElbow ConnectionKind = "elbow"
	// ConnectionStraight is a straight line used for prepend edges.
	ConnectionStraight ConnectionKind = "straight"
)

// RenderNode is the positioned, sized and styled form of a node. It is
// produced and discarded within a single Compute call.
type RenderNode struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Color     string  `json:"color"`
	LaneLabel string  `json:"lane_label"`
	Origin    bool    `json:"origin,omitempty"`
}

// Right returns the x coordinate of the node's right edge.
func (r RenderNode) Right() float64 { return r.X + r.Width }

// ConnectionLine joins a parent and child node visually.
type ConnectionLine struct {
	FromID string         `json:"from_id"`
	ToID   string         `json:"to_id"`
	Kind   ConnectionKind `json:"kind"`
	X1     float64        `json:"x1"`
	Y1     float64        `json:"y1"`
	X2     float64        `json:"x2"`
	Y2     float64        `json:"y2"`
}

// Result is the complete spatial projection of one canvas.
//
// Nodes is in emission order: each node precedes its children, append
// subtrees come first in chain order, then top subtrees, then prepend
// subtrees. The drop-zone resolver relies on this order as its tie-break.
type Result struct {
	Nodes       []RenderNode      `json:"render_nodes"`
	Connections []ConnectionLine  `json:"connections"`
	TotalWidth  float64           `json:"total_width"`
	TotalHeight float64           `json:"total_height"`
	Warnings    []*rgerrors.Error `json:"warnings,omitempty"`
}

// Empty reports whether the projection contains no nodes.
func (r Result) Empty() bool { return len(r.Nodes) == 0 }

// colors is the presentation palette, keyed by node kind. Styling is
// policy, not part of the geometric contract.
var colors = map[node.Kind]string{
	node.KindSpine:     "#4f8ef7",
	node.KindSatellite: "#a06ef7",
	node.KindContainer: "#f7b24f",
}

// colorFor returns the fill color for a node kind, falling back to the
// spine color for unknown kinds.
func colorFor(k node.Kind) string {
	if c, ok := colors[k]; ok {
		return c
	}
	return colors[node.KindSpine]
}

// LaneLabel derives the display lane from a y coordinate: "V1" on the
// spine row, "V2" one stack step above, and so on.
func LaneLabel(y float64) string {
	lane := int(math.Round(math.Abs(y)/(NodeHeight+Gap))) + 1
	return "V" + strconv.Itoa(lane)
}

// Compute projects nodes into render geometry. An empty node set, or one
// without an origin, yields a zero-valued Result - that is a valid empty
// state, not an error. Unreachable nodes (dangling parent references) are
// excluded and reported via Result.Warnings.
func Compute(nodes []node.Node) Result {
	idx := node.NewIndex(nodes)
	origin, ok := idx.Origin()
	if !ok {
		return Result{}
	}

	e := &engine{
		idx:     idx,
		elastic: make(map[string]float64, idx.Len()),
	}
	e.place(origin, Padding, 0)

	res := Result{
		Nodes:       e.nodes,
		Connections: e.connections,
		TotalWidth:  e.rightmost + Padding,
		TotalHeight: -e.minY + NodeHeight + Padding,
		Warnings:    integrityWarnings(idx),
	}
	return res
}

// engine holds per-call traversal state. A fresh engine is built for every
// Compute invocation, so nothing leaks between projections.
type engine struct {
	idx         *node.Index
	elastic     map[string]float64
	nodes       []RenderNode
	connections []ConnectionLine
	rightmost   float64
	minY        float64
}

// elasticWidth computes the elastic width of n: the base width stretched
// to enclose the elastic widths of its TOP-anchored children.
func (e *engine) elasticWidth(n node.Node) float64 {
	if w, ok := e.elastic[n.ID]; ok {
		return w
	}
	w := BaseWidth
	for _, c := range e.idx.ChildrenByAnchor(n.ID, node.AnchorTop) {
		if cw := e.elasticWidth(c); cw > w {
			w = cw
		}
	}
	e.elastic[n.ID] = w
	return w
}

// renderedWidth returns the width the node actually draws at. Only spine
// nodes use their elastic width.
func (e *engine) renderedWidth(n node.Node) float64 {
	if n.Kind == node.KindSpine {
		return e.elasticWidth(n)
	}
	return BaseWidth
}

// place positions n at (x, y), emits its render node, then processes its
// children in the fixed order: append chain, top stack, prepend row.
func (e *engine) place(n node.Node, x, y float64) {
	width := e.renderedWidth(n)

	e.nodes = append(e.nodes, RenderNode{
		ID:        n.ID,
		Label:     n.DisplayLabel(),
		X:         x,
		Y:         y,
		Width:     width,
		Height:    NodeHeight,
		Color:     colorFor(n.Kind),
		LaneLabel: LaneLabel(y),
		Origin:    n.IsOrigin(),
	})
	if right := x + width; right > e.rightmost {
		e.rightmost = right
	}
	if y < e.minY {
		e.minY = y
	}

	// Append children chain left to right: the first anchors off the
	// parent, each next sibling off the previous sibling's right edge.
	cursor := x + width + Gap
	for _, c := range e.idx.ChildrenByAnchor(n.ID, node.AnchorAppend) {
		cw := e.renderedWidth(c)
		e.connections = append(e.connections, ConnectionLine{
			FromID: n.ID, ToID: c.ID, Kind: ConnectionCurve,
			X1: x + width, Y1: y + NodeHeight/2,
			X2: cursor, Y2: y + NodeHeight/2,
		})
		e.place(c, cursor, y)
		cursor += cw + Gap
	}

	// Top children all stack directly above the parent at the same x.
	// Multiple top children overlap; preserved as observed.
	for _, c := range e.idx.ChildrenByAnchor(n.ID, node.AnchorTop) {
		cx, cy := x, y-NodeHeight-Gap
		cw := e.renderedWidth(c)
		e.connections = append(e.connections, ConnectionLine{
			FromID: n.ID, ToID: c.ID, Kind: ConnectionElbow,
			X1: x + width/2, Y1: y,
			X2: cx + cw/2, Y2: cy + NodeHeight,
		})
		e.place(c, cx, cy)
	}

	// Prepend children sit to the left of the parent, not chained to
	// each other.
	for _, c := range e.idx.ChildrenByAnchor(n.ID, node.AnchorPrepend) {
		cw := e.renderedWidth(c)
		cx := x - cw - Gap
		e.connections = append(e.connections, ConnectionLine{
			FromID: c.ID, ToID: n.ID, Kind: ConnectionStraight,
			X1: cx + cw, Y1: y + NodeHeight/2,
			X2: x, Y2: y + NodeHeight/2,
		})
		e.place(c, cx, y)
	}
}

// integrityWarnings collects non-fatal data precondition violations:
// dangling parent references and extra origins. They never abort a
// projection.
func integrityWarnings(idx *node.Index) []*rgerrors.Error {
	var warns []*rgerrors.Error
	for _, n := range idx.Dangling() {
		warns = append(warns, rgerrors.New(rgerrors.ErrCodeDanglingParent,
			"node %s references missing parent %s and is unreachable", n.ID, n.ParentID))
	}
	if origins := idx.Origins(); len(origins) > 1 {
		for _, n := range origins[1:] {
			warns = append(warns, rgerrors.New(rgerrors.ErrCodeDuplicateOrigin,
				"node %s is a second origin; %s wins", n.ID, origins[0].ID))
		}
	}
	return warns
}
