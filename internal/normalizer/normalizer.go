// Package normalizer strips noise from raw extracted document text.
package normalizer

import (
	"strings"
	"unicode"
)

// Normalize collapses runs of whitespace to a single space, preserves
// paragraph breaks (two or more line breaks) as a single newline, and
// drops non-printable characters. Characters are never translated or
// transliterated. Whitespace-only input yields an empty string; treating
// that as an empty document is the caller's job.
func Normalize(raw string) string {
	// CRLF is one line break, not two
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(raw))

	pendingSpace := false
	newlines := 0
	wrote := false

	for _, r := range raw {
		switch {
		case r == '\n', r == '\r', r == '\v', r == '\f', r == '\u0085', r == '\u2028':
			newlines++
		case r == '\u2029':
			// explicit paragraph separator
			newlines += 2
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsControl(r) || !unicode.IsPrint(r):
			// dropped
		default:
			if wrote {
				if newlines >= 2 {
					b.WriteByte('\n')
				} else if pendingSpace || newlines > 0 {
					b.WriteByte(' ')
				}
			}
			pendingSpace = false
			newlines = 0
			b.WriteRune(r)
			wrote = true
		}
	}
	return b.String()
}
