package layout

import (
	"reflect"
	"testing"

	rgerrors "github.com/storyreel/reelgraph/pkg/errors"
	"github.com/storyreel/reelgraph/pkg/node"
)

func TestComputeEmpty(t *testing.T) {
	tests := []struct {
		name  string
		nodes []node.Node
	}{
		{"NilInput", nil},
		{"NoOrigin", []node.Node{
			{ID: "a", Kind: node.KindSpine, ParentID: "b", Anchor: node.AnchorAppend},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(tt.nodes)
			if !res.Empty() {
				t.Fatalf("Compute() returned %d nodes, want empty", len(res.Nodes))
			}
			if res.TotalWidth != 0 || res.TotalHeight != 0 {
				t.Errorf("bounds = %v × %v, want 0 × 0", res.TotalWidth, res.TotalHeight)
			}
			if len(res.Connections) != 0 {
				t.Errorf("connections = %d, want 0", len(res.Connections))
			}
		})
	}
}

func TestComputeSingleOrigin(t *testing.T) {
	res := Compute([]node.Node{
		{ID: "root", Kind: node.KindSpine, Anchor: node.AnchorOrigin, Label: "Opening"},
	})

	if len(res.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(res.Nodes))
	}
	rn := res.Nodes[0]
	if rn.X != Padding || rn.Y != 0 {
		t.Errorf("origin at (%v, %v), want (%v, 0)", rn.X, rn.Y, Padding)
	}
	if rn.Width != BaseWidth || rn.Height != NodeHeight {
		t.Errorf("size = %v × %v, want %v × %v", rn.Width, rn.Height, BaseWidth, NodeHeight)
	}
	if !rn.Origin {
		t.Error("origin flag not set")
	}
	if rn.Label != "Opening" {
		t.Errorf("label = %q, want Opening", rn.Label)
	}
	if rn.LaneLabel != "V1" {
		t.Errorf("lane label = %q, want V1", rn.LaneLabel)
	}

	wantW := Padding + BaseWidth + Padding
	wantH := NodeHeight + Padding
	if res.TotalWidth != wantW || res.TotalHeight != wantH {
		t.Errorf("bounds = %v × %v, want %v × %v", res.TotalWidth, res.TotalHeight, wantW, wantH)
	}
}

func TestComputeAppendChain(t *testing.T) {
	res := Compute([]node.Node{
		{ID: "a", Kind: node.KindSpine, Anchor: node.AnchorOrigin},
		{ID: "b", Kind: node.KindSpine, ParentID: "a", Anchor: node.AnchorAppend},
		{ID: "c", Kind: node.KindSpine, ParentID: "a", Anchor: node.AnchorAppend},
	})

	if len(res.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(res.Nodes))
	}

	pos := positionsByID(res)
	// First append anchors off the parent, the second chains off its sibling.
	wantB := Padding + BaseWidth + Gap
	wantC := wantB + BaseWidth + Gap
	if pos["b"].X != wantB {
		t.Errorf("b.X = %v, want %v", pos["b"].X, wantB)
	}
	if pos["c"].X != wantC {
		t.Errorf("c.X = %v, want %v", pos["c"].X, wantC)
	}
	for _, id := range []string{"a", "b", "c"} {
		if pos[id].Y != 0 {
			t.Errorf("%s.Y = %v, want 0", id, pos[id].Y)
		}
	}

	if res.TotalWidth != wantC+BaseWidth+Padding {
		t.Errorf("TotalWidth = %v, want %v", res.TotalWidth, wantC+BaseWidth+Padding)
	}

	if len(res.Connections) != 2 {
		t.Fatalf("got %d connections, want 2", len(res.Connections))
	}
	for _, conn := range res.Connections {
		if conn.Kind != ConnectionCurve {
			t.Errorf("append edge kind = %q, want %q", conn.Kind, ConnectionCurve)
		}
	}
}

func TestComputeTopStack(t *testing.T) {
	res := Compute([]node.Node{
		{ID: "a", Kind: node.KindSpine, Anchor: node.AnchorOrigin},
		{ID: "t1", Kind: node.KindSatellite, ParentID: "a", Anchor: node.AnchorTop, Lane: 1},
		{ID: "t2", Kind: node.KindSatellite, ParentID: "a", Anchor: node.AnchorTop, Lane: 1},
	})

	pos := positionsByID(res)
	wantY := -(NodeHeight + Gap)
	for _, id := range []string{"t1", "t2"} {
		rn := pos[id]
		if rn.X != Padding || rn.Y != wantY {
			t.Errorf("%s at (%v, %v), want (%v, %v)", id, rn.X, rn.Y, Padding, wantY)
		}
		if rn.LaneLabel != "V2" {
			t.Errorf("%s lane label = %q, want V2", id, rn.LaneLabel)
		}
	}

	// Stacked row raises the bounding box by one node height plus gap.
	wantH := (NodeHeight + Gap) + NodeHeight + Padding
	if res.TotalHeight != wantH {
		t.Errorf("TotalHeight = %v, want %v", res.TotalHeight, wantH)
	}

	for _, conn := range res.Connections {
		if conn.Kind != ConnectionElbow {
			t.Errorf("top edge kind = %q, want %q", conn.Kind, ConnectionElbow)
		}
	}
}

func TestComputePrepend(t *testing.T) {
	res := Compute([]node.Node{
		{ID: "a", Kind: node.KindSpine, Anchor: node.AnchorOrigin},
		{ID: "p", Kind: node.KindSpine, ParentID: "a", Anchor: node.AnchorPrepend},
	})

	pos := positionsByID(res)
	wantX := Padding - BaseWidth - Gap
	if pos["p"].X != wantX || pos["p"].Y != 0 {
		t.Errorf("p at (%v, %v), want (%v, 0)", pos["p"].X, pos["p"].Y, wantX)
	}
	if len(res.Connections) != 1 || res.Connections[0].Kind != ConnectionStraight {
		t.Errorf("prepend edge = %+v, want one straight line", res.Connections)
	}
}

func TestComputeSpineRendersElastic(t *testing.T) {
	// A spine with a stacked wing renders at its elastic width; a satellite
	// with the same wing stays at base width.
	spine := Compute([]node.Node{
		{ID: "a", Kind: node.KindSpine, Anchor: node.AnchorOrigin},
		{ID: "w", Kind: node.KindSatellite, ParentID: "a", Anchor: node.AnchorTop},
	})
	if w := positionsByID(spine)["a"].Width; w != BaseWidth {
		t.Errorf("spine width = %v, want %v", w, BaseWidth)
	}

	bare := Compute([]node.Node{
		{ID: "a", Kind: node.KindSpine, Anchor: node.AnchorOrigin},
	})
	if w := positionsByID(bare)["a"].Width; w != BaseWidth {
		t.Errorf("bare spine width = %v, want %v", w, BaseWidth)
	}
}

func TestComputeIdempotent(t *testing.T) {
	nodes := []node.Node{
		{ID: "a", Kind: node.KindSpine, Anchor: node.AnchorOrigin},
		{ID: "b", Kind: node.KindSpine, ParentID: "a", Anchor: node.AnchorAppend},
		{ID: "t", Kind: node.KindSatellite, ParentID: "a", Anchor: node.AnchorTop, Lane: 1},
		{ID: "p", Kind: node.KindContainer, ParentID: "a", Anchor: node.AnchorPrepend},
	}
	first := Compute(nodes)
	second := Compute(nodes)
	if !reflect.DeepEqual(first, second) {
		t.Error("Compute() is not idempotent on an unchanged node set")
	}

	// Input ordering must not affect the projection either.
	reversed := []node.Node{nodes[3], nodes[2], nodes[1], nodes[0]}
	third := Compute(reversed)
	if !reflect.DeepEqual(first, third) {
		t.Error("Compute() depends on input ordering")
	}
}

func TestComputeWarnings(t *testing.T) {
	res := Compute([]node.Node{
		{ID: "a", Anchor: node.AnchorOrigin, Kind: node.KindSpine},
		{ID: "b", Anchor: node.AnchorOrigin, Kind: node.KindSpine},
		{ID: "c", ParentID: "ghost", Anchor: node.AnchorAppend, Kind: node.KindSpine},
	})

	var codes []rgerrors.Code
	for _, w := range res.Warnings {
		codes = append(codes, w.Code)
	}
	wantCodes := map[rgerrors.Code]bool{
		rgerrors.ErrCodeDanglingParent:  false,
		rgerrors.ErrCodeDuplicateOrigin: false,
	}
	for _, code := range codes {
		wantCodes[code] = true
	}
	for code, seen := range wantCodes {
		if !seen {
			t.Errorf("missing warning %s in %v", code, codes)
		}
	}

	// Unreachable and duplicate-origin nodes stay out of the geometry.
	pos := positionsByID(res)
	if _, ok := pos["c"]; ok {
		t.Error("dangling node c was rendered")
	}
	if _, ok := pos["b"]; ok {
		t.Error("second origin b was rendered")
	}
}

func TestLaneLabel(t *testing.T) {
	tests := []struct {
		y    float64
		want string
	}{
		{0, "V1"},
		{-(NodeHeight + Gap), "V2"},
		{-2 * (NodeHeight + Gap), "V3"},
	}
	for _, tt := range tests {
		if got := LaneLabel(tt.y); got != tt.want {
			t.Errorf("LaneLabel(%v) = %q, want %q", tt.y, got, tt.want)
		}
	}
}

func positionsByID(res Result) map[string]RenderNode {
	out := make(map[string]RenderNode, len(res.Nodes))
	for _, rn := range res.Nodes {
		out[rn.ID] = rn
	}
	return out
}
