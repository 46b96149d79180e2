package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storyreel/reelgraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing the spatial
// projection of a canvas.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout <canvas.(json|toml)>",
		Short: "Compute the spatial canvas projection",
		Long: `Compute the spatial canvas projection of a node set.

The layout command loads a canvas document (JSON) or manifest (TOML) and
runs the elastic-column layout: node positions and sizes, connection lines
and the overall bounding box. Output formats:

  json   layout and timeline projections (default)
  dot    Graphviz source of the anchor topology
  svg    Graphviz-rendered diagram
  png    Graphviz-rendered diagram

The projection is recomputed from the node set on every run; only rendered
svg/png artifacts are cached, keyed by the canvas content hash.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, parseFormats(formats), noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file base (default: <input> without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatJSON, "comma-separated output formats: json, dot, svg, png")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, formats []string, noCache bool) error {
	doc, err := readCanvas(input)
	if err != nil {
		return fmt.Errorf("load canvas %s: %w", input, err)
	}

	runner := c.newRunner(noCache)
	defer runner.Close()

	result, err := runner.Execute(ctx, doc, pipeline.Options{Formats: formats})
	if err != nil {
		return fmt.Errorf("project canvas: %w", err)
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	printSuccess("Layout complete")
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}

	lay := result.Projection.Layout
	printStat("nodes", len(lay.Nodes))
	printStat("bounds", fmt.Sprintf("%.0f × %.0f", lay.TotalWidth, lay.TotalHeight))
	for _, warn := range lay.Warnings {
		printWarning("%s", warn.Message)
	}

	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	return strings.Split(s, ",")
}
