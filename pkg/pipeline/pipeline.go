// Package pipeline orchestrates the load → project → encode flow shared by
// the CLI and the HTTP API.
//
// # Architecture
//
// A pipeline run takes a canvas document and produces:
//
//  1. Layout: the 2-D spatial projection (elastic-column geometry)
//  2. Sequence: the 1-D temporal projection (multi-lane timeline)
//  3. Artifacts: encoded outputs (JSON always cheap; DOT/SVG/PNG via
//     Graphviz, optionally cached by canvas content hash)
//
// The two projections run from the same snapshot and are always computed
// fresh - only rendered artifacts are ever cached, keyed on the content
// hash so a topology mutation can never serve stale output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	})
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/storyreel/reelgraph/pkg/layout"
	"github.com/storyreel/reelgraph/pkg/timeline"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// Formats selects the artifacts to encode. Empty means JSON only.
	Formats []string `json:"formats,omitempty"`
	// Detailed includes lane/drift/media details in DOT labels.
	Detailed bool `json:"detailed,omitempty"`
	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this run (not serialized).
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults normalizes options in place.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	return ValidateFormats(o.Formats)
}

// Projection bundles both read-only views of one canvas. This is the JSON
// artifact payload and the API response body.
type Projection struct {
	CanvasID string            `json:"canvas_id,omitempty"`
	Hash     string            `json:"hash,omitempty"`
	Layout   layout.Result     `json:"layout"`
	Sequence timeline.Sequence `json:"timeline"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Projection holds both computed views.
	Projection Projection

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	ClipCount    int
	LayoutTime   time.Duration
	TimelineTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks artifact cache hits by format.
type CacheInfo struct {
	Hits map[string]bool
}
