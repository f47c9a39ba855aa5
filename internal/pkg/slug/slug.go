// Package slug builds URL slugs for human readable identifiers.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is used when a title has no sluggable characters.
const Fallback = "item"

// Make lowercases value, strips accents and joins the remaining words with
// hyphens. The result is at most maxLen bytes long.
func Make(value string, maxLen int) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}

	s := b.String()
	if maxLen > 0 && len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	if s == "" {
		return Fallback
	}
	return s
}

// WithSuffix returns the n-th candidate for base: base itself for n <= 1,
// then base-2, base-3 ... truncated so the result still fits maxLen.
func WithSuffix(base string, n, maxLen int) string {
	if n <= 1 {
		return base
	}
	suffix := fmt.Sprintf("-%d", n)
	if maxLen > 0 && len(base)+len(suffix) > maxLen {
		base = strings.TrimRight(base[:maxLen-len(suffix)], "-")
	}
	return base + suffix
}
