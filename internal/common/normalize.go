package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// maxNormalizePasses bounds the fixed-point loop in Normalize.
const maxNormalizePasses = 4

// Normalize canonicalizes free-form user text for matching: full-width
// alphanumerics, symbols and spaces become half-width, letters are folded to
// lower case, every whitespace rune is removed and the result is put in NFKC
// form. The function is total and idempotent.
//
// One pass is not always stable (NFKC can emit capitals, e.g. "Ⅻ" -> "XII",
// and dropping whitespace can expose new compositions) so the pass is
// repeated until the output stops changing.
func Normalize(text string) string {
	s := text
	for i := 0; i < maxNormalizePasses; i++ {
		next := normalizePass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func normalizePass(text string) string {
	s := width.Fold.String(text)
	s = strings.ToLower(s)
	s = stripSpace(s)
	return norm.NFKC.String(s)
}

// stripSpace removes every whitespace rune and the byte-order mark.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\ufeff' {
			return -1
		}
		return r
	}, s)
}

// IsBlank reports whether text has no non-whitespace runes.
func IsBlank(text string) bool {
	return stripSpace(text) == ""
}
