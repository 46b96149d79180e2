// Package dot exports the anchor topology of a canvas as a Graphviz
// node-link diagram.
//
// This is an inspection view of the tree structure itself, independent of
// the elastic-column layout: every parent→child edge is drawn styled by
// its anchor kind, so overlapping TOP stacks and dangling subtrees are
// easy to spot.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/storyreel/reelgraph/pkg/node"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes lane, drift and media points in node labels.
	Detailed bool
}

// edgeStyles maps child anchors to Graphviz edge attributes.
var edgeStyles = map[node.Anchor]string{
	node.AnchorAppend:  `style=solid`,
	node.AnchorTop:     `style=dashed`,
	node.AnchorPrepend: `style=dotted, dir=back`,
}

// ToDOT converts a node set to Graphviz DOT format. Dangling nodes are
// included without an edge so they show up as disconnected boxes.
func ToDOT(nodes []node.Node, opts Options) string {
	idx := node.NewIndex(nodes)

	var buf bytes.Buffer
	buf.WriteString("digraph canvas {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	var edges []string
	for _, id := range sortedIDs(idx) {
		n, _ := idx.Node(id)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
		for _, c := range idx.Children(n.ID) {
			style, ok := edgeStyles[c.Anchor]
			if !ok {
				style = "style=solid"
			}
			edges = append(edges, fmt.Sprintf("  %q -> %q [%s];", n.ID, c.ID, style))
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e + "\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

func sortedIDs(idx *node.Index) []string {
	ids := make([]string, 0, idx.Len())
	seen := make(map[string]bool)
	var walk func(n node.Node)
	walk = func(n node.Node) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		ids = append(ids, n.ID)
		for _, c := range idx.Children(n.ID) {
			walk(c)
		}
	}
	if origin, ok := idx.Origin(); ok {
		walk(origin)
	}
	// Unreachable nodes come after the reachable tree, in id order.
	for _, id := range idx.IDs() {
		if n, ok := idx.Node(id); ok {
			walk(n)
		}
	}
	return ids
}

func nodeAttrs(n node.Node, detailed bool) []string {
	label := n.DisplayLabel()
	if detailed {
		parts := []string{fmt.Sprintf("lane: %d", n.Lane)}
		if n.Drift != 0 {
			parts = append(parts, fmt.Sprintf("drift: %dms", n.Drift))
		}
		if n.InPoint != nil && n.OutPoint != nil {
			parts = append(parts, fmt.Sprintf("media: %.2f-%.2f", *n.InPoint, *n.OutPoint))
		}
		label += "\n" + strings.Join(parts, "\n")
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.IsOrigin():
		attrs = append(attrs, `fillcolor=lightblue`, `penwidth=2`)
	case n.Kind == node.KindSatellite:
		attrs = append(attrs, `fillcolor=lavender`)
	case n.Kind == node.KindContainer:
		attrs = append(attrs, `fillcolor=cornsilk`)
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
