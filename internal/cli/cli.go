// Package cli implements the reelgraph command-line interface.
//
// Commands:
//   - layout: compute the spatial projection of a canvas
//   - timeline: compute the temporal projection and print a track view
//   - graph: export the anchor topology as DOT/SVG/PNG
//   - canvas: manage stored canvases (list, show, import, delete)
//   - serve: run the HTTP projection API
//   - completion: generate shell completions
//
// Canvases load from JSON documents or TOML manifests on disk, or from a
// configured store backend (file, redis, mongo). All commands support
// --verbose for debug-level logging via charmbracelet/log.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/storyreel/reelgraph/pkg/buildinfo"
	"github.com/storyreel/reelgraph/pkg/cache"
	"github.com/storyreel/reelgraph/pkg/canvas"
	"github.com/storyreel/reelgraph/pkg/manifest"
	"github.com/storyreel/reelgraph/pkg/pipeline"
	"github.com/storyreel/reelgraph/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "reelgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Reelgraph projects narrative clip trees onto canvases and timelines",
		Long:         `Reelgraph maintains anchor-typed trees of narrative clips and derives two read-only projections on demand: a 2-D elastic-column canvas layout and a 1-D multi-lane timeline.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.timelineCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.canvasCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(newCache(noCache), c.Logger)
}

func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG conventions
// (~/.cache/reelgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// storeFlags holds the store backend selection shared by canvas and serve.
type storeFlags struct {
	backend  string
	dir      string
	redis    string
	mongoURI string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "store", "file", "store backend: file, redis, mongo")
	cmd.Flags().StringVar(&f.dir, "store-dir", "", "directory for the file store (default: ~/.config/reelgraph/canvases)")
	cmd.Flags().StringVar(&f.redis, "redis-addr", "localhost:6379", "redis address for the redis store")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", "mongodb://localhost:27017", "connection URI for the mongo store")
}

// open creates the selected store backend.
func (f *storeFlags) open(ctx context.Context) (store.Store, error) {
	switch f.backend {
	case "file":
		return store.NewFileStore(f.dir)
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{Addr: f.redis})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{URI: f.mongoURI})
	default:
		return nil, fmt.Errorf("unknown store backend %q (must be file, redis or mongo)", f.backend)
	}
}

// readCanvas loads a canvas document from a path: TOML manifests go
// through the manifest parser, everything else is read as a canvas JSON
// document.
func readCanvas(path string) (canvas.Document, error) {
	if manifest.Supports(path) {
		return manifest.ParseFile(path)
	}
	return canvas.ReadFile(path)
}
