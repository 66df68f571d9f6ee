package text

import (
	"sort"
	"strings"
	"unicode"

	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize text to aid in the filtering process. In particular, we remove
// diacritics, "ö" becomes "o". Note that Mn is the unicode key for nonspacing
// marks.
func Normalize(in string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, in)
	return out, err
}

// FuzzyFilter returns the candidates matching needle, best match first. An
// empty needle keeps every candidate in sorted order.
func FuzzyFilter(needle string, candidates []string) []string {
	if strings.TrimSpace(needle) == "" {
		out := append([]string(nil), candidates...)
		sort.Strings(out)
		return out
	}

	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		n, err := Normalize(c)
		if err != nil {
			n = c
		}
		normalized[i] = n
	}
	if n, err := Normalize(needle); err == nil {
		needle = n
	}

	matches := fuzzy.Find(needle, normalized)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, candidates[m.Index])
	}
	return out
}

func TruncateWithTail(txt string, width uint, ellipsis string) string {
	return truncate.StringWithTail(txt, width, ellipsis)
}
