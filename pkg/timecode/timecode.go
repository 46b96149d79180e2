// Package timecode provides stateless seconds→timecode conversions for
// display layers.
package timecode

import (
	"fmt"
	"math"
)

// Frames formats seconds as a frame-accurate "HH:MM:SS:FF" timecode at the
// given frame rate. Decomposition is floor-based with two-digit
// zero-padded fields. Negative inputs clamp to zero; a non-positive fps
// yields a zero frame field.
func Frames(seconds, fps float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := math.Floor(seconds)
	frames := 0
	if fps > 0 {
		frames = int(math.Floor((seconds - whole) * fps))
	}
	total := int(whole)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, secs, frames)
}

// MinSec formats seconds as "M:SS" using floor-based seconds. Negative
// inputs clamp to zero.
func MinSec(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
