// Package manifest parses hand-authored canvas manifests.
//
// A manifest is a TOML file describing a canvas's node set, convenient for
// composing scenes in an editor or checking fixtures into a repository:
//
//	name = "opening-sequence"
//
//	[[node]]
//	id = "origin"
//	type = "spine"
//	anchor = "origin"
//	in = 0.0
//	out = 10.0
//
//	[[node]]
//	type = "satellite"
//	anchor = "top"
//	parent = "origin"
//	lane = 1
//	drift = 250
//
// Ids are optional; missing ones are filled with generated UUIDs. Anchors
// and node types are validated against their closed enums at parse time.
package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/storyreel/reelgraph/pkg/canvas"
	rgerrors "github.com/storyreel/reelgraph/pkg/errors"
	"github.com/storyreel/reelgraph/pkg/node"
)

// manifestFile mirrors the TOML document structure.
type manifestFile struct {
	Name  string          `toml:"name"`
	Nodes []manifestEntry `toml:"node"`
}

type manifestEntry struct {
	ID     string   `toml:"id"`
	Type   string   `toml:"type"`
	Label  string   `toml:"label"`
	Parent string   `toml:"parent"`
	Anchor string   `toml:"anchor"`
	Lane   int      `toml:"lane"`
	Drift  int      `toml:"drift"`
	In     *float64 `toml:"in"`
	Out    *float64 `toml:"out"`
	Rate   *float64 `toml:"rate"`
}

// Parse decodes TOML bytes into a canvas document. The document id is
// derived from the manifest name when present, otherwise generated.
func Parse(data []byte) (canvas.Document, error) {
	var mf manifestFile
	if err := toml.Unmarshal(data, &mf); err != nil {
		return canvas.Document{}, rgerrors.Wrap(rgerrors.ErrCodeInvalidManifest, err, "decode manifest")
	}

	doc := canvas.Document{
		ID:   mf.Name,
		Name: mf.Name,
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	for i, entry := range mf.Nodes {
		n, err := entry.toNode(i, doc.ID)
		if err != nil {
			return canvas.Document{}, err
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	return doc, nil
}

// ParseFile reads and parses a manifest file.
func ParseFile(path string) (canvas.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return canvas.Document{}, rgerrors.Wrap(rgerrors.ErrCodeFileNotFound, err, "read manifest %s", path)
	}
	return Parse(data)
}

func (e manifestEntry) toNode(i int, canvasID string) (node.Node, error) {
	kind := node.Kind(e.Type)
	if e.Type == "" {
		kind = node.KindSpine
	}
	if !kind.Valid() {
		return node.Node{}, rgerrors.New(rgerrors.ErrCodeInvalidNodeType,
			"node %d: unknown type %q", i, e.Type)
	}

	anchor := node.Anchor(e.Anchor)
	if e.Anchor == "" && e.Parent == "" {
		anchor = node.AnchorOrigin
	}
	if !anchor.Valid() {
		return node.Node{}, rgerrors.New(rgerrors.ErrCodeInvalidAnchor,
			"node %d: unknown anchor %q", i, e.Anchor)
	}

	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}

	return node.Node{
		ID:       id,
		CanvasID: canvasID,
		Kind:     kind,
		Label:    e.Label,
		ParentID: e.Parent,
		Anchor:   anchor,
		Lane:     e.Lane,
		Drift:    e.Drift,
		InPoint:  e.In,
		OutPoint: e.Out,
		Rate:     e.Rate,
	}, nil
}

// Supports reports whether path looks like a TOML canvas manifest.
func Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
