package rsvp

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// "ended.That" -> "ended. That"
	runOnSentenceRegex = regexp.MustCompile(`([.!?])([A-Z])`)
	// "(note)The" -> "(note) The"
	closingBracketRegex = regexp.MustCompile(`([)\]])([A-Za-z])`)

	dashReplacer = strings.NewReplacer("—", " ", "--", " ")
)

// Tokenize splits raw text into the words shown one at a time. Punctuation
// stays attached to the word it touches. The result never contains empty
// strings.
func Tokenize(text string) []string {
	normalized := runOnSentenceRegex.ReplaceAllString(text, "${1} ${2}")
	normalized = closingBracketRegex.ReplaceAllString(normalized, "${1} ${2}")
	normalized = dashReplacer.Replace(normalized)

	return strings.FieldsFunc(normalized, isSpace)
}

// isSpace reports word separators: Unicode white space and the byte order
// mark, but not NEL (U+0085).
func isSpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\ufeff':
		return true
	}
	return unicode.IsSpace(r)
}
