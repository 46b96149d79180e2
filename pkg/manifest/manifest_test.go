package manifest

import (
	"os"
	"path/filepath"
	"testing"

	rgerrors "github.com/storyreel/reelgraph/pkg/errors"
	"github.com/storyreel/reelgraph/pkg/node"
)

const sampleManifest = `
name = "opening-sequence"

[[node]]
id = "origin"
type = "spine"
anchor = "origin"
label = "Opening"
in = 0.0
out = 10.0

[[node]]
id = "title"
type = "satellite"
anchor = "top"
parent = "origin"
lane = 1
drift = 250
in = 0.0
out = 3.0
rate = 1.5
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.ID != "opening-sequence" || doc.Name != "opening-sequence" {
		t.Errorf("document identity = %q/%q, want opening-sequence", doc.ID, doc.Name)
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(doc.Nodes))
	}

	origin := doc.Nodes[0]
	if origin.ID != "origin" || origin.Kind != node.KindSpine || origin.Anchor != node.AnchorOrigin {
		t.Errorf("origin = %+v", origin)
	}
	if origin.CanvasID != doc.ID {
		t.Errorf("origin canvas id = %q, want %q", origin.CanvasID, doc.ID)
	}
	if origin.OutPoint == nil || *origin.OutPoint != 10 {
		t.Errorf("origin out point = %v, want 10", origin.OutPoint)
	}

	title := doc.Nodes[1]
	if title.Anchor != node.AnchorTop || title.ParentID != "origin" {
		t.Errorf("title anchor = %q parent = %q", title.Anchor, title.ParentID)
	}
	if title.Lane != 1 || title.Drift != 250 {
		t.Errorf("title lane = %d drift = %d, want 1/250", title.Lane, title.Drift)
	}
	if title.Rate == nil || *title.Rate != 1.5 {
		t.Errorf("title rate = %v, want 1.5", title.Rate)
	}
}

func TestParseDefaults(t *testing.T) {
	// No id, type, or anchor: id is generated, type defaults to spine, and
	// a parentless node defaults to the origin anchor.
	doc, err := Parse([]byte("[[node]]\nlabel = \"solo\"\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	n := doc.Nodes[0]
	if n.ID == "" {
		t.Error("missing id was not generated")
	}
	if n.Kind != node.KindSpine {
		t.Errorf("default kind = %q, want spine", n.Kind)
	}
	if n.Anchor != node.AnchorOrigin {
		t.Errorf("default anchor = %q, want origin", n.Anchor)
	}
	if doc.ID == "" {
		t.Error("unnamed manifest got no generated document id")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode rgerrors.Code
	}{
		{
			name:     "MalformedTOML",
			input:    "[[node\n",
			wantCode: rgerrors.ErrCodeInvalidManifest,
		},
		{
			name:     "UnknownType",
			input:    "[[node]]\ntype = \"hologram\"\n",
			wantCode: rgerrors.ErrCodeInvalidNodeType,
		},
		{
			name:     "UnknownAnchor",
			input:    "[[node]]\nparent = \"x\"\nanchor = \"sideways\"\n",
			wantCode: rgerrors.ErrCodeInvalidAnchor,
		},
		{
			name:     "ParentWithoutAnchor",
			input:    "[[node]]\nparent = \"x\"\n",
			wantCode: rgerrors.ErrCodeInvalidAnchor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if got := rgerrors.GetCode(err); got != tt.wantCode {
				t.Errorf("error code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(doc.Nodes) != 2 {
		t.Errorf("got %d nodes, want 2", len(doc.Nodes))
	}

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.toml"))
	if rgerrors.GetCode(err) != rgerrors.ErrCodeFileNotFound {
		t.Errorf("missing file error code = %s, want %s", rgerrors.GetCode(err), rgerrors.ErrCodeFileNotFound)
	}
}

func TestSupports(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"scene.toml", true},
		{"scene.TOML", true},
		{"scene.json", false},
		{"toml", false},
	}
	for _, tt := range tests {
		if got := Supports(tt.path); got != tt.want {
			t.Errorf("Supports(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
