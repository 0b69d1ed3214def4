package source

import (
	"bytes"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var frontmatterFence = []byte("---")

// Prepare turns raw source bytes into the text handed to the reader:
// frontmatter is dropped, Markdown is flattened to prose when markdown is
// set, and the result is NFC-normalised with uniform line endings.
func Prepare(b []byte, markdown bool) string {
	b = bytes.TrimPrefix(b, []byte("\ufeff"))
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = RemoveFrontmatter(b)

	var s string
	if markdown {
		s = PlainText(b)
	} else {
		s = string(b)
	}

	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u00a0', '\u2007', '\u202f': // no-break spaces
			return ' '
		case '\u00ad', '\u200b', '\u2060', '\ufeff': // soft hyphen and zero-width marks
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// RemoveFrontmatter strips a leading YAML frontmatter block.
func RemoveFrontmatter(b []byte) []byte {
	if !bytes.HasPrefix(b, frontmatterFence) {
		return b
	}
	rest := b[len(frontmatterFence):]
	if len(rest) == 0 || rest[0] != '\n' {
		return b
	}
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return b
	}
	rest = rest[end+len("\n---"):]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		return rest[i+1:]
	}
	return nil
}
