package ingest

import (
	"regexp"
	"strings"
)

var (
	horizontalWS   = regexp.MustCompile(`[ \t]+`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes extracted text before chunking: CR/CRLF become LF,
// non-printable control characters are stripped, runs of spaces and tabs
// collapse to a single space, runs of 3+ newlines collapse to exactly 2,
// and the result is trimmed. Clean is idempotent.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strippedControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	text = horizontalWS.ReplaceAllString(b.String(), " ")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func strippedControl(r rune) bool {
	switch {
	case r < 0x09:
		return true
	case r == 0x0B || r == 0x0C:
		return true
	case r >= 0x0E && r <= 0x1F:
		return true
	case r == 0x7F:
		return true
	}
	return false
}
