// Package node defines the clip node model and the per-call index built
// over a flat node collection.
//
// A canvas is stored as an unordered list of nodes with nullable parent
// back-references. The index turns that list into an arena keyed by id with
// an id→children adjacency map, so traversals never chase owned recursive
// pointers and dangling references stay explicit: a node whose parent does
// not resolve is simply unreachable from the origin, never a fatal error.
//
// The index is rebuilt for every projection call. Nothing derived from it
// is persisted - layout and timeline are recomputed live from the current
// node set.
package node

import (
	"cmp"
	"slices"
)

// Kind classifies a node for styling and width behavior.
type Kind string

// Node kinds.
const (
	KindSpine     Kind = "spine"
	KindSatellite Kind = "satellite"
	KindContainer Kind = "container"
)

// Valid reports whether k is one of the known node kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSpine, KindSatellite, KindContainer:
		return true
	}
	return false
}

// Anchor describes a node's topological relation to its parent. It fully
// determines both the spatial offset rule in the layout engine and the
// temporal offset rule in the timeline projector.
type Anchor string

// Anchor types.
const (
	// AnchorOrigin marks the root of the canvas. At most one node per
	// canvas carries it together with an empty parent id.
	AnchorOrigin Anchor = "origin"
	// AnchorAppend places the child after its parent, chained with any
	// append siblings into a contiguous sequence.
	AnchorAppend Anchor = "append"
	// AnchorPrepend places the child before its parent spatially. In time
	// it starts at the parent's own start - see the timeline package.
	AnchorPrepend Anchor = "prepend"
	// AnchorTop stacks the child above its parent as a satellite wing.
	AnchorTop Anchor = "top"
)

// Valid reports whether a is one of the known anchor types.
func (a Anchor) Valid() bool {
	switch a {
	case AnchorOrigin, AnchorAppend, AnchorPrepend, AnchorTop:
		return true
	}
	return false
}

// Node is a single clip on the editing surface. It is externally owned:
// the projection packages only ever read it.
//
// InPoint, OutPoint and Rate are pointers because absence carries meaning:
// a missing out point collapses the clip to zero length at its in point,
// and a missing rate defaults to 1. A present rate of zero is invalid, not
// a default.
type Node struct {
	ID       string `json:"id" bson:"id"`
	CanvasID string `json:"canvas_id,omitempty" bson:"canvas_id,omitempty"`
	Kind     Kind   `json:"type" bson:"type"`
	Label    string `json:"label,omitempty" bson:"label,omitempty"`

	// ParentID is a weak reference to another node in the same canvas.
	// Empty for the origin. A non-resolving id leaves the node unreachable.
	ParentID string `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Anchor   Anchor `json:"anchor_type,omitempty" bson:"anchor_type,omitempty"`

	// Lane is the track index: 0 is the spine (V1), 1 is V2 and so on.
	Lane int `json:"lane,omitempty" bson:"lane,omitempty"`

	// Drift is a millisecond offset applied on top of the anchor-implied
	// base time when the node attaches to its parent.
	Drift int `json:"drift,omitempty" bson:"drift,omitempty"`

	InPoint  *float64 `json:"media_in_point,omitempty" bson:"media_in_point,omitempty"`
	OutPoint *float64 `json:"media_out_point,omitempty" bson:"media_out_point,omitempty"`
	Rate     *float64 `json:"playback_rate,omitempty" bson:"playback_rate,omitempty"`
}

// IsOrigin reports whether the node is the canvas root: origin-anchored
// with no parent reference.
func (n Node) IsOrigin() bool {
	return n.Anchor == AnchorOrigin && n.ParentID == ""
}

// DisplayLabel returns the label if set, otherwise the id.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Index is an arena over one canvas's node set: nodes keyed by id plus a
// parent→children adjacency map. Build one per projection call with
// NewIndex; it is read-only afterwards and safe for concurrent reads.
type Index struct {
	byID     map[string]Node
	children map[string][]Node
	order    []string // ids in deterministic (sorted) order
}

// NewIndex builds an index over nodes. Duplicate ids keep the first
// occurrence after sorting by id, so the result does not depend on input
// ordering. Children lists are sorted by id within each parent.
func NewIndex(nodes []Node) *Index {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })

	idx := &Index{
		byID:     make(map[string]Node, len(sorted)),
		children: make(map[string][]Node),
	}
	for _, n := range sorted {
		if _, exists := idx.byID[n.ID]; exists {
			continue
		}
		idx.byID[n.ID] = n
		idx.order = append(idx.order, n.ID)
	}
	for _, id := range idx.order {
		n := idx.byID[id]
		if n.ParentID == "" {
			continue
		}
		if _, ok := idx.byID[n.ParentID]; !ok {
			continue // dangling - unreachable, reported via Dangling
		}
		idx.children[n.ParentID] = append(idx.children[n.ParentID], n)
	}
	return idx
}

// Len returns the number of distinct nodes in the index.
func (idx *Index) Len() int { return len(idx.byID) }

// IDs returns all node ids in sorted order.
func (idx *Index) IDs() []string { return slices.Clone(idx.order) }

// Node returns the node with the given id.
func (idx *Index) Node(id string) (Node, bool) {
	n, ok := idx.byID[id]
	return n, ok
}

// Origin returns the canvas root. When the data violates the single-origin
// invariant, the origin with the smallest id wins so that projections stay
// deterministic. The second return is false when no origin exists, which
// is a valid empty-graph state.
func (idx *Index) Origin() (Node, bool) {
	for _, id := range idx.order {
		if n := idx.byID[id]; n.IsOrigin() {
			return n, true
		}
	}
	return Node{}, false
}

// Origins returns every node satisfying the origin condition, in id order.
// More than one element signals a violated invariant upstream.
func (idx *Index) Origins() []Node {
	var out []Node
	for _, id := range idx.order {
		if n := idx.byID[id]; n.IsOrigin() {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the resolvable children of id, sorted by id.
// The returned slice is shared; treat it as read-only.
func (idx *Index) Children(id string) []Node { return idx.children[id] }

// ChildrenByAnchor returns the children of id carrying the given anchor,
// sorted by id.
func (idx *Index) ChildrenByAnchor(id string, a Anchor) []Node {
	var out []Node
	for _, c := range idx.children[id] {
		if c.Anchor == a {
			out = append(out, c)
		}
	}
	return out
}

// Dangling returns nodes whose parent reference does not resolve within
// the index, in id order. These nodes are unreachable from the origin and
// excluded from every projection; callers may surface them as non-fatal
// integrity warnings.
func (idx *Index) Dangling() []Node {
	var out []Node
	for _, id := range idx.order {
		n := idx.byID[id]
		if n.ParentID == "" {
			continue
		}
		if _, ok := idx.byID[n.ParentID]; !ok {
			out = append(out, n)
		}
	}
	return out
}
