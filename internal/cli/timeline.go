package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storyreel/reelgraph/pkg/timecode"
	"github.com/storyreel/reelgraph/pkg/timeline"
)

// trackViewWidth is the character width of the rendered track area.
const trackViewWidth = 72

// timelineCommand creates the timeline command for the temporal projection.
func (c *CLI) timelineCommand() *cobra.Command {
	var (
		asJSON bool
		fps    float64
	)

	cmd := &cobra.Command{
		Use:   "timeline <canvas.(json|toml)>",
		Short: "Project a canvas onto its multi-lane timeline",
		Long: `Project a canvas onto its multi-lane timeline.

Prints a lane-by-lane track view with frame-accurate timecodes. Satellites
overlap the spine in time; append chains run sequentially. Use --json for
the raw sequence instead of the track view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTimeline(args[0], asJSON, fps)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the sequence as JSON")
	cmd.Flags().Float64Var(&fps, "fps", 25, "frame rate for timecode display")

	return cmd
}

func (c *CLI) runTimeline(input string, asJSON bool, fps float64) error {
	doc, err := readCanvas(input)
	if err != nil {
		return fmt.Errorf("load canvas %s: %w", input, err)
	}

	seq := timeline.Project(doc.Nodes)

	if asJSON {
		out, err := json.MarshalIndent(seq, "", "  ")
		if err != nil {
			return fmt.Errorf("encode sequence: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	printTrackView(seq, fps)
	for _, warn := range seq.Warnings {
		printWarning("%s", warn.Message)
	}
	return nil
}

// printTrackView renders the sequence as fixed-width text tracks, one row
// per lane, clips scaled to the total duration.
func printTrackView(seq timeline.Sequence, fps float64) {
	fmt.Println(StyleTitle.Render("Timeline") + StyleDim.Render(
		fmt.Sprintf("  duration %s (%s)",
			timecode.MinSec(seq.TotalDuration),
			timecode.Frames(seq.TotalDuration, fps))))
	fmt.Println()

	for _, row := range seq.Rows {
		fmt.Printf("%s %s\n", StyleDim.Render(fmt.Sprintf("%3s", row.Label)), renderTrack(row, seq.TotalDuration))
	}

	fmt.Println()
	for _, row := range seq.Rows {
		for _, clip := range row.Clips {
			style := StyleSpine
			if clip.Lane > 0 {
				style = StyleSatellite
			}
			fmt.Printf("  %s %s %s\n",
				style.Render(clip.Label),
				StyleDim.Render("@"),
				StyleValue.Render(fmt.Sprintf("%s – %s",
					timecode.Frames(clip.Start, fps),
					timecode.Frames(clip.End, fps))))
		}
	}
}

// renderTrack draws one lane as a character strip. Empty lanes come out
// as dotted rules; clips are solid blocks proportional to their share of
// the total duration.
func renderTrack(row timeline.Row, total float64) string {
	strip := []rune(strings.Repeat("·", trackViewWidth))
	if total > 0 {
		for _, clip := range row.Clips {
			from := int(math.Floor(clip.Start / total * float64(trackViewWidth)))
			to := int(math.Ceil(clip.End / total * float64(trackViewWidth)))
			// Negative-drift satellites start before zero; clamp both ends
			// to the visible strip.
			if from < 0 {
				from = 0
			}
			if to > trackViewWidth {
				to = trackViewWidth
			}
			if to <= from {
				to = from + 1 // zero-length clips still show one cell
			}
			for i := from; i < to && i < trackViewWidth; i++ {
				strip[i] = '█'
			}
		}
	}

	out := string(strip)
	if row.Audio {
		return StyleDim.Render(out)
	}
	if row.Lane > 0 {
		return StyleSatellite.Render(out)
	}
	return StyleSpine.Render(out)
}
