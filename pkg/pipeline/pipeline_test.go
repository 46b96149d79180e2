package pipeline

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/storyreel/reelgraph/pkg/canvas"
	"github.com/storyreel/reelgraph/pkg/node"
)

func f(v float64) *float64 { return &v }

func sampleDoc() canvas.Document {
	return canvas.Document{
		ID:   "c1",
		Name: "opening",
		Nodes: []node.Node{
			{ID: "a", Kind: node.KindSpine, Anchor: node.AnchorOrigin, InPoint: f(0), OutPoint: f(5)},
			{ID: "b", Kind: node.KindSpine, ParentID: "a", Anchor: node.AnchorAppend, InPoint: f(0), OutPoint: f(3)},
			{ID: "s", Kind: node.KindSatellite, ParentID: "a", Anchor: node.AnchorTop, Lane: 1, InPoint: f(0), OutPoint: f(2)},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatDOT, FormatSVG, FormatPNG} {
		if err := ValidateFormat(format); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", format, err)
		}
	}
	if err := ValidateFormat("gif"); err == nil {
		t.Error("ValidateFormat(gif) = nil, want error")
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("default formats = %v, want [json]", opts.Formats)
	}

	bad := Options{Formats: []string{"gif"}}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("invalid format accepted")
	}
}

func TestRunnerProject(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	doc := sampleDoc()
	proj := r.Project(doc)

	if proj.CanvasID != "c1" {
		t.Errorf("CanvasID = %q, want c1", proj.CanvasID)
	}
	if proj.Hash != doc.Hash() {
		t.Error("projection hash differs from document hash")
	}
	if len(proj.Layout.Nodes) != 3 {
		t.Errorf("layout has %d nodes, want 3", len(proj.Layout.Nodes))
	}
	if proj.Sequence.TotalDuration != 8 {
		t.Errorf("TotalDuration = %v, want 8", proj.Sequence.TotalDuration)
	}

	// Projections are always recomputed, never memoized.
	if !reflect.DeepEqual(proj, r.Project(doc)) {
		t.Error("repeated Project() calls disagree")
	}
}

func TestExecuteJSON(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), sampleDoc(), Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, ok := result.Artifacts[FormatJSON]
	if !ok {
		t.Fatal("json artifact missing")
	}
	var proj Projection
	if err := json.Unmarshal(data, &proj); err != nil {
		t.Fatalf("json artifact does not decode: %v", err)
	}
	if proj.CanvasID != "c1" || len(proj.Layout.Nodes) != 3 {
		t.Errorf("decoded projection = %+v", proj)
	}

	if result.Stats.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", result.Stats.NodeCount)
	}
	if result.Stats.ClipCount != 3 {
		t.Errorf("ClipCount = %d, want 3", result.Stats.ClipCount)
	}
}

func TestExecuteDOT(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), sampleDoc(), Options{
		Formats: []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := string(result.Artifacts[FormatDOT])
	if !strings.Contains(out, "digraph canvas") {
		t.Errorf("dot artifact is not a digraph:\n%s", out)
	}
	if !strings.Contains(out, `"a" -> "b"`) {
		t.Errorf("dot artifact missing append edge:\n%s", out)
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	if _, err := r.Execute(context.Background(), sampleDoc(), Options{
		Formats: []string{"gif"},
	}); err == nil {
		t.Error("Execute() accepted an invalid format")
	}
}

func TestExecuteEmptyCanvas(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), canvas.Document{ID: "empty"}, Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.Projection.Layout.Empty() {
		t.Error("empty canvas produced layout nodes")
	}
	if result.Projection.Sequence.TotalDuration != 0 {
		t.Error("empty canvas has a nonzero duration")
	}
}
