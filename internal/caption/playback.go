package caption

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// default nudge applied by the editor's up/down controls
const TimeStep = 0.1

// Active returns the caption shown at position. Both ends are inclusive,
// so at a touching boundary the earlier caption wins.
func Active(s Set, position float64) (Caption, bool) {
	for _, c := range s {
		if position >= c.StartTime && position <= c.EndTime {
			return c, true
		}
	}
	return Caption{}, false
}

// AdjustTime nudges a typed time value by step, clamping at zero and
// rounding to one decimal place. Blank or invalid input counts as zero.
func AdjustTime(value string, step float64) float64 {
	current, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(current) || math.IsInf(current, 0) {
		current = 0
	}
	next := math.Max(0, current+step)
	return math.Round(next*10) / 10
}

// FormatClock renders seconds as m:ss for list rows and the player bar.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	mins := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// Length is the caption's on-screen time rounded to one decimal.
func (c Caption) Length() float64 {
	return math.Round((c.EndTime-c.StartTime)*10) / 10
}

// Sample returns the demonstration captions offered once a video is loaded.
func Sample() Set {
	return Set{
		{ID: newID(), Text: "Welcome to our video captioning demo!", StartTime: 0, EndTime: 3},
		{ID: newID(), Text: "This is a sample caption to show how the system works.", StartTime: 4, EndTime: 8},
		{ID: newID(), Text: "You can add, edit, and delete captions with precise timing.", StartTime: 9, EndTime: 13},
	}
}
