package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/storyreel/reelgraph/pkg/canvas"
	"github.com/storyreel/reelgraph/pkg/store"
)

// canvasCommand creates the canvas command group for managing stored
// canvases.
func (c *CLI) canvasCommand() *cobra.Command {
	flags := &storeFlags{}

	cmd := &cobra.Command{
		Use:   "canvas",
		Short: "Manage stored canvases",
		Long: `Manage canvases in the configured store backend.

The file backend keeps canvases under ~/.config/reelgraph/canvases;
redis and mongo backends are selected with --store.`,
	}

	cmd.AddCommand(c.canvasListCommand(flags))
	cmd.AddCommand(c.canvasShowCommand(flags))
	cmd.AddCommand(c.canvasImportCommand(flags))
	cmd.AddCommand(c.canvasDeleteCommand(flags))

	return cmd
}

func (c *CLI) canvasListCommand(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored canvases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCanvasList(cmd.Context(), flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) canvasShowCommand(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [canvas-id]",
		Short: "Print a stored canvas as JSON",
		Long: `Print a stored canvas as normalized JSON.

Without an id, an interactive picker lists the stored canvases.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return c.runCanvasShow(cmd.Context(), flags, id)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) canvasImportCommand(flags *storeFlags) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "import <canvas.(json|toml)>",
		Short: "Import a canvas file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCanvasImport(cmd.Context(), flags, args[0], id)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "canvas id (default: document id, file name or a fresh uuid)")
	flags.register(cmd)
	return cmd
}

func (c *CLI) canvasDeleteCommand(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <canvas-id>",
		Short: "Delete a stored canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCanvasDelete(cmd.Context(), flags, args[0])
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runCanvasList(ctx context.Context, flags *storeFlags) error {
	st, err := flags.open(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	infos, err := st.List(ctx)
	if err != nil {
		return fmt.Errorf("list canvases: %w", err)
	}
	if len(infos) == 0 {
		fmt.Println(StyleDim.Render("no canvases stored"))
		return nil
	}

	fmt.Println(StyleTitle.Render("Canvases"))
	for _, info := range infos {
		name := info.Name
		if name == "" {
			name = StyleDim.Render("(unnamed)")
		}
		fmt.Printf("  %s  %s %s\n",
			StyleValue.Render(info.ID),
			name,
			StyleDim.Render(fmt.Sprintf("(%d nodes)", info.NodeCount)))
	}
	return nil
}

func (c *CLI) runCanvasShow(ctx context.Context, flags *storeFlags, id string) error {
	st, err := flags.open(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if id == "" {
		id, err = pickCanvas(ctx, st)
		if err != nil {
			return err
		}
		if id == "" {
			return nil // picker dismissed
		}
	}

	doc, err := st.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load canvas %s: %w", id, err)
	}
	out, err := canvas.Marshal(doc)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func (c *CLI) runCanvasImport(ctx context.Context, flags *storeFlags, input, id string) error {
	doc, err := readCanvas(input)
	if err != nil {
		return fmt.Errorf("load canvas %s: %w", input, err)
	}

	switch {
	case id != "":
		doc.ID = id
	case doc.ID != "":
		// keep the document's own id
	default:
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if base != "" {
			doc.ID = base
		} else {
			doc.ID = uuid.NewString()
		}
	}

	st, err := flags.open(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Put(ctx, doc); err != nil {
		return fmt.Errorf("store canvas %s: %w", doc.ID, err)
	}
	printSuccess("Imported canvas %s", doc.ID)
	printStat("nodes", len(doc.Nodes))
	printStat("hash", doc.Hash()[:12])
	return nil
}

func (c *CLI) runCanvasDelete(ctx context.Context, flags *storeFlags, id string) error {
	st, err := flags.open(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete canvas %s: %w", id, err)
	}
	printSuccess("Deleted canvas %s", id)
	return nil
}

// pickCanvas runs the interactive canvas picker and returns the selected
// id, or "" when nothing is stored or the user dismissed the picker.
func pickCanvas(ctx context.Context, st store.Store) (string, error) {
	infos, err := st.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list canvases: %w", err)
	}
	if len(infos) == 0 {
		printError("No canvases stored")
		return "", nil
	}

	model := NewCanvasListModel(infos)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("run picker: %w", err)
	}
	picked, ok := final.(CanvasListModel)
	if !ok || picked.Selected == nil {
		return "", nil
	}
	return picked.Selected.ID, nil
}
