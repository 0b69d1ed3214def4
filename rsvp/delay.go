package rsvp

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinWPM is the slowest supported reading speed.
	MinWPM = 100
	// MaxWPM is the fastest supported reading speed.
	MaxWPM = 800
	// DefaultWPM is the speed of a freshly constructed engine.
	DefaultWPM = 300
)

// Pause-shaping multipliers. Length and trailing-punctuation bonuses are each
// picked from a mutually exclusive ladder; the paragraph bonus stacks on top.
const (
	longWordBonus    = 0.3  // more than 8 runes
	mediumWordBonus  = 0.15 // more than 6 runes
	sentenceEndBonus = 0.5  // . ! ?
	clauseBreakBonus = 0.25 // , ; :
	closingBonus     = 0.15 // " ' )
	paragraphBonus   = 0.3  // embedded newline
)

// ClampWPM forces wpm into [MinWPM, MaxWPM].
func ClampWPM(wpm int) int {
	return max(MinWPM, min(MaxWPM, wpm))
}

// BaseDelay is how long every word is shown at wpm when pause shaping is off.
func BaseDelay(wpm int) time.Duration {
	return time.Duration(float64(time.Minute) / float64(ClampWPM(wpm)))
}

// DelayMultiplier returns the pause-shaping factor applied to the base delay.
func DelayMultiplier(word string) float64 {
	multiplier := 1.0

	n := utf8.RuneCountInString(word)
	if n > 8 {
		multiplier += longWordBonus
	} else if n > 6 {
		multiplier += mediumWordBonus
	}

	last, _ := utf8.DecodeLastRuneInString(word)
	switch last {
	case '.', '!', '?':
		multiplier += sentenceEndBonus
	case ',', ';', ':':
		multiplier += clauseBreakBonus
	case '"', '\'', ')':
		multiplier += closingBonus
	}

	if strings.Contains(word, "\n") {
		multiplier += paragraphBonus
	}

	return multiplier
}

// WordDelay returns how long word stays on screen at wpm. With smartPauses
// off every word gets the base delay.
func WordDelay(word string, wpm int, smartPauses bool) time.Duration {
	base := BaseDelay(wpm)
	if !smartPauses {
		return base
	}
	return time.Duration(math.Round(float64(base) * DelayMultiplier(word)))
}
