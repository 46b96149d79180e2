package layout

import "github.com/storyreel/reelgraph/pkg/node"

// HitMargin expands each node's bounding box for cursor hit testing, in
// canvas units.
const HitMargin = 20.0

// ZoneKind names the insertion slot the cursor is hovering.
type ZoneKind string

// Zone kinds and the anchors they map to on insertion.
const (
	ZoneAppend  ZoneKind = "append"
	ZoneStack   ZoneKind = "stack"
	ZonePrepend ZoneKind = "prepend"
)

// Anchor returns the node anchor an insertion into this zone produces.
func (z ZoneKind) Anchor() node.Anchor {
	switch z {
	case ZoneStack:
		return node.AnchorTop
	case ZonePrepend:
		return node.AnchorPrepend
	default:
		return node.AnchorAppend
	}
}

// DropZone is a proposed insertion: the target node, the zone kind, and
// the ghost rectangle previewing where the new clip would land. A zero
// TargetID marks the genesis zone of an empty canvas, signaling first-node
// creation.
type DropZone struct {
	TargetID string   `json:"target_node_id,omitempty"`
	Kind     ZoneKind `json:"kind"`
	GhostX   float64  `json:"ghost_x"`
	GhostY   float64  `json:"ghost_y"`
	GhostW   float64  `json:"ghost_w"`
	GhostH   float64  `json:"ghost_h"`
}

// Genesis reports whether the zone proposes creating the first node.
func (z DropZone) Genesis() bool { return z.TargetID == "" }

// ResolveZone maps a cursor position to an insertion proposal against a
// computed layout. Nodes are tested in emission order against their hit
// boxes expanded by HitMargin; the first hit wins (nodes are not expected
// to overlap, emission order is the defined tie-break). The ghost is
// always base-sized regardless of the media being inserted.
//
// When the cursor misses every node, the rightmost node receives a smart
// append zone. An empty layout yields the synthetic genesis zone at the
// canvas padding.
func ResolveZone(x, y float64, l Result) DropZone {
	if l.Empty() {
		return DropZone{
			Kind:   ZoneAppend,
			GhostX: Padding,
			GhostY: 0,
			GhostW: BaseWidth,
			GhostH: NodeHeight,
		}
	}

	for _, rn := range l.Nodes {
		if !hit(x, y, rn) {
			continue
		}
		return zoneWithin(x, y, rn)
	}

	// Smart append: fall back to the node reaching furthest right.
	best := l.Nodes[0]
	for _, rn := range l.Nodes[1:] {
		if rn.Right() > best.Right() {
			best = rn
		}
	}
	return appendZone(best)
}

// hit tests the cursor against the node's margin-expanded bounding box.
func hit(x, y float64, rn RenderNode) bool {
	return x >= rn.X-HitMargin && x <= rn.X+rn.Width+HitMargin &&
		y >= rn.Y-HitMargin && y <= rn.Y+rn.Height+HitMargin
}

// zoneWithin selects the zone inside a matched node. Order matters:
// the right band claims appends before the top band claims stacks, and
// the middle band defaults to append.
func zoneWithin(x, y float64, rn RenderNode) DropZone {
	switch {
	case x >= rn.X+rn.Width*0.7:
		return appendZone(rn)
	case y <= rn.Y+rn.Height*0.5:
		return DropZone{
			TargetID: rn.ID,
			Kind:     ZoneStack,
			GhostX:   rn.X,
			GhostY:   rn.Y - NodeHeight - Gap,
			GhostW:   BaseWidth,
			GhostH:   NodeHeight,
		}
	case x <= rn.X+rn.Width*0.2:
		return DropZone{
			TargetID: rn.ID,
			Kind:     ZonePrepend,
			GhostX:   rn.X - BaseWidth - Gap,
			GhostY:   rn.Y,
			GhostW:   BaseWidth,
			GhostH:   NodeHeight,
		}
	default:
		return appendZone(rn)
	}
}

func appendZone(rn RenderNode) DropZone {
	return DropZone{
		TargetID: rn.ID,
		Kind:     ZoneAppend,
		GhostX:   rn.X + rn.Width + Gap,
		GhostY:   rn.Y,
		GhostW:   BaseWidth,
		GhostH:   NodeHeight,
	}
}
