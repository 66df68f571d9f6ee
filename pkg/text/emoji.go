package text

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/enescakir/emoji"
)

const (
	Ellipsis = "…"
)

var (
	EmojiSaved    = emoji.FloppyDisk.String()
	EmojiFailed   = emoji.CrossMark.String()
	EmojiNotepad  = emoji.SpiralNotepad.String()
	EmojiUntitled = emoji.Notebook.String()
	EmojiNotFound = emoji.QuestionMark.String()
	EmojiThinking = emoji.ThinkingFace.String()
)

// Return the time in a human-readable format relative to the current time.
func RelativeTime(then time.Time) string {
	return relativeTime(then, time.Now())
}

func relativeTime(then, now time.Time) string {
	ago := now.Sub(then)
	if ago < time.Minute {
		return "just now"
	} else if ago < humanize.Week {
		return humanize.CustomRelTime(then, now, "ago", "from now", magnitudes)
	}
	return then.Format("02 Jan 2006 15:04 MST")
}

// Magnitudes for relative time.
var magnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "now", DivBy: time.Second},
	{D: 2 * time.Second, Format: "1 second %s", DivBy: 1},
	{D: time.Minute, Format: "%d seconds %s", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: humanize.Day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 day %s", DivBy: 1},
	{D: humanize.Week, Format: "%d days %s", DivBy: humanize.Day},
	{D: math.MaxInt64, Format: "a long while %s", DivBy: 1},
}

// Size renders a byte count the way the status bar shows it.
func Size(n int) string {
	return humanize.Bytes(uint64(n))
}
