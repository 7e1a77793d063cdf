// Package normalize implements the single normalization function shared by
// indexing and querying (spec.md §4.8): Unicode NFD decomposition, stripped
// combining marks, ASCII lowercase, collapsed whitespace, trimmed. It must
// be deterministic and idempotent — the same byte sequence in, the same
// byte sequence out, every time, so that builder and query normalize
// identically.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// String normalizes s per spec.md §4.8. Running String twice produces the
// same result as running it once.
func String(s string) string {
	decomposed := norm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))
	lastWasSpace := true // swallow leading whitespace as we go
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue // strip combining marks left behind by NFD
		}
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasSpace = true
			continue
		}
		lastWasSpace = false
		b.WriteRune(asciiLower(r))
	}

	return strings.TrimSuffix(b.String(), " ")
}

// asciiLower lowercases only the ASCII range; spec.md §4.8 calls for ASCII
// lowercasing specifically; non-ASCII code points pass through unchanged.
func asciiLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
