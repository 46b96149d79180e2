// Package timeline projects a canvas's node set onto a linear, multi-lane
// clip sequence for the scrub/track view.
//
// The projection shares its input with the layout engine but is otherwise
// independent of it: same node set in, a different read-only view out.
// Nothing is cached between calls.
//
// # Time propagation
//
// Traversal starts at the origin at time zero. A TOP child starts at its
// parent's start plus drift and never advances the parent's end -
// satellites are expected to overlap their spine. APPEND children form a
// contiguous sequence: the first starts at the parent's end plus its own
// drift, each next sibling chains off the previous sibling's end. A
// PREPEND child starts at the same time as its parent; this is a
// simplification rather than a true insert-before and deliberately
// disagrees with the spatial prepend rule.
package timeline

import (
	"cmp"
	"errors"
	"slices"
	"strconv"

	rgerrors "github.com/storyreel/reelgraph/pkg/errors"
	"github.com/storyreel/reelgraph/pkg/node"
)

// MinVideoLanes is the number of video rows always present in a sequence,
// populated or not.
const MinVideoLanes = 3

// Clip is one node's interval on a lane.
type Clip struct {
	NodeID   string  `json:"node_id"`
	Label    string  `json:"label"`
	Lane     int     `json:"lane"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// Row is one display lane with its clips in start order.
type Row struct {
	Lane  int    `json:"lane"`
	Label string `json:"label"`
	Audio bool   `json:"audio,omitempty"`
	Clips []Clip `json:"clips"`
}

// Sequence is the complete temporal projection of one canvas.
// Rows are ordered highest video lane first, then the audio lane, matching
// the track view's top-to-bottom display.
type Sequence struct {
	Rows          []Row             `json:"rows"`
	TotalDuration float64           `json:"total_duration"`
	Warnings      []*rgerrors.Error `json:"warnings,omitempty"`
}

// VideoLaneLabel formats a zero-based lane index as its display label:
// lane 0 is V1, lane k is V(k+1).
func VideoLaneLabel(lane int) string { return "V" + strconv.Itoa(lane+1) }

// ClipDuration computes a node's playing time: (out − in) / rate, where a
// missing out point collapses to the in point (zero length) and a missing
// rate defaults to 1. A present rate that is not strictly positive is
// rejected - silently propagating an infinite or negative duration is
// worse than skipping the clip.
func ClipDuration(n node.Node) (float64, error) {
	var in float64
	if n.InPoint != nil {
		in = *n.InPoint
	}
	out := in
	if n.OutPoint != nil {
		out = *n.OutPoint
	}
	rate := 1.0
	if n.Rate != nil {
		rate = *n.Rate
	}
	if rate <= 0 {
		return 0, rgerrors.New(rgerrors.ErrCodeInvalidRate,
			"node %s: playback rate must be positive, got %v", n.ID, rate)
	}
	return (out - in) / rate, nil
}

// Project computes the sequence for nodes. Without an origin the rows come
// back empty (V3..V1 plus A1) with a zero total duration - a valid empty
// state. A node with an invalid playback rate contributes no clip and is
// reported as a warning; its subtree is still traversed with a zero-length
// stand-in so one malformed clip cannot take down the rest of the graph.
func Project(nodes []node.Node) Sequence {
	idx := node.NewIndex(nodes)
	p := &projector{idx: idx}

	if origin, ok := idx.Origin(); ok {
		p.visit(origin, 0)
	}
	p.warnings = append(p.warnings, integrityWarnings(idx)...)

	return Sequence{
		Rows:          p.rows(),
		TotalDuration: p.maxEnd,
		Warnings:      p.warnings,
	}
}

type projector struct {
	idx      *node.Index
	clips    []Clip
	warnings []*rgerrors.Error
	maxEnd   float64
}

// visit records n's clip at start and recurses into its children. It
// returns n's own end time, which append siblings chain off.
func (p *projector) visit(n node.Node, start float64) float64 {
	duration, err := ClipDuration(n)
	if err != nil {
		var werr *rgerrors.Error
		if !errors.As(err, &werr) {
			werr = rgerrors.Wrap(rgerrors.ErrCodeInvalidRate, err, "node %s", n.ID)
		}
		p.warnings = append(p.warnings, werr)
		duration = 0
	} else {
		p.clips = append(p.clips, Clip{
			NodeID:   n.ID,
			Label:    n.DisplayLabel(),
			Lane:     n.Lane,
			Start:    start,
			End:      start + duration,
			Duration: duration,
		})
	}

	end := start + duration
	if end > p.maxEnd {
		p.maxEnd = end
	}

	// Satellites ride on top of the parent's interval.
	for _, c := range p.idx.ChildrenByAnchor(n.ID, node.AnchorTop) {
		p.visit(c, start+drift(c))
	}

	// Appends form a drift-adjustable contiguous sequence.
	cursor := end
	for _, c := range p.idx.ChildrenByAnchor(n.ID, node.AnchorAppend) {
		cursor = p.visit(c, cursor+drift(c))
	}

	// Prepends start when the parent starts. No shifting of the parent
	// or its siblings happens.
	for _, c := range p.idx.ChildrenByAnchor(n.ID, node.AnchorPrepend) {
		p.visit(c, start)
	}

	return end
}

// rows buckets the recorded clips into display lanes. At least
// MinVideoLanes video rows are emitted, highest lane first, followed by
// the single audio lane A1, which is currently always empty. A negative
// stored lane has no row of its own and folds into V1 so the clip stays
// visible.
func (p *projector) rows() []Row {
	maxLane := MinVideoLanes - 1
	byLane := make(map[int][]Clip)
	for _, c := range p.clips {
		lane := c.Lane
		if lane < 0 {
			lane = 0
		}
		byLane[lane] = append(byLane[lane], c)
		if lane > maxLane {
			maxLane = lane
		}
	}

	rows := make([]Row, 0, maxLane+2)
	for lane := maxLane; lane >= 0; lane-- {
		clips := byLane[lane]
		slices.SortStableFunc(clips, func(a, b Clip) int {
			if c := cmp.Compare(a.Start, b.Start); c != 0 {
				return c
			}
			return cmp.Compare(a.NodeID, b.NodeID)
		})
		if clips == nil {
			clips = []Clip{}
		}
		rows = append(rows, Row{Lane: lane, Label: VideoLaneLabel(lane), Clips: clips})
	}
	rows = append(rows, Row{Lane: 0, Label: "A1", Audio: true, Clips: []Clip{}})
	return rows
}

func drift(n node.Node) float64 { return float64(n.Drift) / 1000 }

func integrityWarnings(idx *node.Index) []*rgerrors.Error {
	var warns []*rgerrors.Error
	for _, n := range idx.Dangling() {
		warns = append(warns, rgerrors.New(rgerrors.ErrCodeDanglingParent,
			"node %s references missing parent %s and is unreachable", n.ID, n.ParentID))
	}
	return warns
}
