package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storyreel/reelgraph/pkg/api"
)

// serveCommand creates the serve command for the HTTP projection API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	flags := &storeFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP projection API",
		Long: `Run the HTTP projection API.

Stored canvases come from the selected store backend; projections are
recomputed from the node set on every request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := flags.open(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			return api.NewServer(st, c.Logger).ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	flags.register(cmd)

	return cmd
}
