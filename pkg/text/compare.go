package text

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Comparator reports whether two runes are equal under a matching policy.
// Comparators never change the length of what they compare, so a Match found
// with any of them always spans exactly len(query) runes.
type Comparator func(a, b rune) bool

// Exact is the literal, case sensitive comparator.
func Exact(a, b rune) bool { return a == b }

// FoldCase compares runes under Unicode simple case folding. It is not
// locale aware: Turkish dotless i and multi-rune foldings such as ß -> ss are
// not handled.
func FoldCase(a, b rune) bool { return a == b || foldCase(a) == foldCase(b) }

// FoldAccents ignores diacritics, so "é" matches "e". Case is still
// significant.
func FoldAccents(a, b rune) bool { return a == b || foldAccent(a) == foldAccent(b) }

// NewComparator builds the comparator for a find/replace dialog's options.
func NewComparator(caseSensitive, matchDiacritics bool) Comparator {
	switch {
	case caseSensitive && matchDiacritics:
		return Exact
	case caseSensitive:
		return FoldAccents
	case matchDiacritics:
		return FoldCase
	}
	return func(a, b rune) bool {
		return a == b || foldCase(foldAccent(a)) == foldCase(foldAccent(b))
	}
}

// foldCase maps r to the smallest rune of its simple folding orbit, which
// gives every member of the orbit the same canonical value.
func foldCase(r rune) rune {
	canonical := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < canonical {
			canonical = f
		}
	}
	return canonical
}

// foldAccent returns the base rune of r's canonical decomposition.
func foldAccent(r rune) rune {
	if r <= unicode.MaxASCII {
		return r
	}
	for _, d := range norm.NFD.String(string(r)) {
		if !unicode.Is(unicode.Mn, d) {
			return d
		}
	}
	return r
}
