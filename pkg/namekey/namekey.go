// Package namekey canonicalizes free-text person names so that two spellings of
// the same name compare equal. It backs the review authorization check, where a
// reviewer's claimed depositor name is matched against completed orders.
package namekey

import "strings"

// Canonical reduces a name to its comparison key: whitespace is stripped, every
// rune that is not an ASCII letter, ASCII digit, or Hangul syllable is removed,
// and the remainder is lowercased. The function is total and idempotent; an
// empty input yields an empty key. Callers must treat the empty key as
// non-matchable rather than comparing it against other empty keys.
func Canonical(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '가' && r <= '힣':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Match reports whether two names share the same non-empty canonical key.
func Match(a, b string) bool {
	ka := Canonical(a)
	if ka == "" {
		return false
	}
	return ka == Canonical(b)
}
