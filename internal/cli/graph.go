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

// graphCommand creates the graph command for exporting the anchor topology.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "graph <canvas.(json|toml)>",
		Short: "Export the anchor topology as DOT, SVG or PNG",
		Long: `Export the anchor topology of a canvas as a Graphviz diagram.

Append edges are solid, stack edges dashed and prepend edges dotted.
Use --detailed to include anchor, lane and drift attributes on each node.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args[0], output, format, detailed, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: dot, svg, png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include anchor, lane and drift attributes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input, output, format string, detailed, noCache bool) error {
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}
	if format == pipeline.FormatJSON {
		return fmt.Errorf("graph export supports dot, svg and png (use the layout command for json)")
	}

	doc, err := readCanvas(input)
	if err != nil {
		return fmt.Errorf("load canvas %s: %w", input, err)
	}

	runner := c.newRunner(noCache)
	defer runner.Close()

	result, err := runner.Execute(ctx, doc, pipeline.Options{
		Formats:  []string{format},
		Detailed: detailed,
	})
	if err != nil {
		return fmt.Errorf("render graph: %w", err)
	}

	path := output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Graph exported")
	printFile(path)
	if result.CacheInfo.Hits[format] {
		printStat("cache", "hit")
	}
	return nil
}
