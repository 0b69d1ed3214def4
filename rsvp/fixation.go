package rsvp

import "unicode/utf8"

// FixationIndex returns the zero-based rune index the reader's eye should land
// on: roughly the first third of the word, nudged right for long words.
func FixationIndex(word string) int {
	n := utf8.RuneCountInString(word)
	switch {
	case n <= 1:
		return 0
	case n <= 9:
		return n / 3
	default:
		return n/3 + 1
	}
}

// WordDisplay is a word split around its fixation character.
type WordDisplay struct {
	Word          string
	Left          string
	Fixation      string
	Right         string
	FixationIndex int
}

// Display splits word at its fixation point. Indices count runes, so
// multi-byte characters are never cut in half.
func Display(word string) WordDisplay {
	idx := FixationIndex(word)
	runes := []rune(word)

	d := WordDisplay{Word: word, FixationIndex: idx}
	if idx >= len(runes) {
		// only reachable for the empty string
		d.Left = word
		return d
	}
	d.Left = string(runes[:idx])
	d.Fixation = string(runes[idx])
	d.Right = string(runes[idx+1:])
	return d
}
