package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/storyreel/reelgraph/pkg/cache"
	"github.com/storyreel/reelgraph/pkg/canvas"
	"github.com/storyreel/reelgraph/pkg/layout"
	"github.com/storyreel/reelgraph/pkg/render/dot"
	"github.com/storyreel/reelgraph/pkg/timeline"
)

// Runner executes pipeline runs with artifact caching. It is stateless
// apart from the cache and logger, so one Runner can serve concurrent
// runs with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables artifact caching; a
// nil logger falls back to the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Close releases the runner's cache.
func (r *Runner) Close() error { return r.Cache.Close() }

// Project computes both projections for a document, without encoding any
// artifacts. Always fresh; never cached.
func (r *Runner) Project(doc canvas.Document) Projection {
	return Projection{
		CanvasID: doc.ID,
		Hash:     doc.Hash(),
		Layout:   layout.Compute(doc.Nodes),
		Sequence: timeline.Project(doc.Nodes),
	}
}

// Execute runs the complete project → encode pipeline.
func (r *Runner) Execute(ctx context.Context, doc canvas.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
		CacheInfo: CacheInfo{Hits: make(map[string]bool)},
	}
	result.Stats.NodeCount = len(doc.Nodes)

	layoutStart := time.Now()
	lay := layout.Compute(doc.Nodes)
	result.Stats.LayoutTime = time.Since(layoutStart)

	timelineStart := time.Now()
	seq := timeline.Project(doc.Nodes)
	result.Stats.TimelineTime = time.Since(timelineStart)
	for _, row := range seq.Rows {
		result.Stats.ClipCount += len(row.Clips)
	}

	result.Projection = Projection{
		CanvasID: doc.ID,
		Hash:     doc.Hash(),
		Layout:   lay,
		Sequence: seq,
	}

	logger.Info("projected canvas",
		"nodes", result.Stats.NodeCount,
		"clips", result.Stats.ClipCount,
		"layout", result.Stats.LayoutTime,
		"timeline", result.Stats.TimelineTime)

	renderStart := time.Now()
	if err := r.encode(ctx, doc, result, opts); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("encoded artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// encode produces each requested artifact. DOT generation and JSON
// encoding are cheap and always fresh; Graphviz renders go through the
// artifact cache keyed by canvas content hash.
func (r *Runner) encode(ctx context.Context, doc canvas.Document, result *Result, opts Options) error {
	dotOpts := dot.Options{Detailed: opts.Detailed}

	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			data, err := json.MarshalIndent(result.Projection, "", "  ")
			if err != nil {
				return fmt.Errorf("encode json: %w", err)
			}
			result.Artifacts[FormatJSON] = data

		case FormatDOT:
			result.Artifacts[FormatDOT] = []byte(dot.ToDOT(doc.Nodes, dotOpts))

		case FormatSVG, FormatPNG:
			data, hit, err := r.renderCached(ctx, doc, format, dotOpts, opts.Refresh)
			if err != nil {
				return err
			}
			result.Artifacts[format] = data
			result.CacheInfo.Hits[format] = hit

		default:
			return fmt.Errorf("invalid format: %q", format)
		}
	}
	return nil
}

func (r *Runner) renderCached(ctx context.Context, doc canvas.Document, format string, dotOpts dot.Options, refresh bool) ([]byte, bool, error) {
	key := cache.ArtifactKey(doc.Hash(), format)
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		}
	}

	dotSrc := dot.ToDOT(doc.Nodes, dotOpts)
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = dot.RenderSVG(ctx, dotSrc)
	case FormatPNG:
		data, err = dot.RenderPNG(ctx, dotSrc)
	}
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", format, err)
	}

	_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	return data, false, nil
}
