package text

import "strings"

// Direction is the way FindNext walks the buffer.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "up"
	}
	return "down"
}

// Match is a half-open range [Start, End) of rune offsets into a buffer.
type Match struct {
	Start int
	End   int
}

// Len is the number of runes covered by the match.
func (m Match) Len() int { return m.End - m.Start }

// FindNext locates query in buffer starting from the rune offset from.
//
// Going forward it returns the first occurrence starting at or after from.
// Going backward it returns the last occurrence lying entirely before from.
// When nothing is found and wrap is set, the search is retried from the
// opposite end of the buffer. An empty query never matches. A nil comparator
// means Exact.
func FindNext(buffer, query string, from int, dir Direction, wrap bool, cmp Comparator) (Match, bool) {
	return findNext([]rune(buffer), []rune(query), from, dir, wrap, cmp)
}

// FindAll returns every non-overlapping occurrence of query, scanning left
// to right and resuming after the end of each match.
func FindAll(buffer, query string, cmp Comparator) []Match {
	return findAll([]rune(buffer), []rune(query), cmp)
}

// ReplaceAll replaces every occurrence FindAll would report and returns the
// new buffer and the number of replacements. Text outside the matches is
// copied through untouched, whatever the case policy.
func ReplaceAll(buffer, query, replacement string, caseSensitive bool) (string, int) {
	return ReplaceAllFunc(buffer, query, replacement, NewComparator(caseSensitive, true))
}

// ReplaceAllFunc is ReplaceAll with an explicit comparator.
func ReplaceAllFunc(buffer, query, replacement string, cmp Comparator) (string, int) {
	buf := []rune(buffer)
	matches := findAll(buf, []rune(query), cmp)
	if len(matches) == 0 {
		return buffer, 0
	}

	var b strings.Builder
	prev := 0
	for _, m := range matches {
		b.WriteString(string(buf[prev:m.Start]))
		b.WriteString(replacement)
		prev = m.End
	}
	b.WriteString(string(buf[prev:]))
	return b.String(), len(matches)
}

// ReplaceOne replaces the first occurrence of query counted from the start
// of the buffer. The returned Match covers the inserted replacement.
func ReplaceOne(buffer, query, replacement string, caseSensitive bool) (string, Match, bool) {
	return ReplaceOneFunc(buffer, query, replacement, NewComparator(caseSensitive, true))
}

// ReplaceOneFunc is ReplaceOne with an explicit comparator.
func ReplaceOneFunc(buffer, query, replacement string, cmp Comparator) (string, Match, bool) {
	buf := []rune(buffer)
	m, ok := findNext(buf, []rune(query), 0, Forward, false, cmp)
	if !ok {
		return buffer, Match{}, false
	}
	out := string(buf[:m.Start]) + replacement + string(buf[m.End:])
	return out, Match{Start: m.Start, End: m.Start + len([]rune(replacement))}, true
}

func findNext(buf, q []rune, from int, dir Direction, wrap bool, cmp Comparator) (Match, bool) {
	if len(q) == 0 || len(q) > len(buf) {
		return Match{}, false
	}
	if cmp == nil {
		cmp = Exact
	}
	if from < 0 {
		from = 0
	} else if from > len(buf) {
		from = len(buf)
	}
	last := len(buf) - len(q)

	if dir == Backward {
		start := from - len(q)
		if start > last {
			start = last
		}
		for i := start; i >= 0; i-- {
			if matchAt(buf, q, i, cmp) {
				return Match{Start: i, End: i + len(q)}, true
			}
		}
		if !wrap {
			return Match{}, false
		}
		for i := last; i >= 0; i-- {
			if matchAt(buf, q, i, cmp) {
				return Match{Start: i, End: i + len(q)}, true
			}
		}
		return Match{}, false
	}

	for i := from; i <= last; i++ {
		if matchAt(buf, q, i, cmp) {
			return Match{Start: i, End: i + len(q)}, true
		}
	}
	if !wrap {
		return Match{}, false
	}
	for i := 0; i <= last; i++ {
		if matchAt(buf, q, i, cmp) {
			return Match{Start: i, End: i + len(q)}, true
		}
	}
	return Match{}, false
}

func findAll(buf, q []rune, cmp Comparator) []Match {
	matches := []Match{}
	if len(q) == 0 {
		return matches
	}
	if cmp == nil {
		cmp = Exact
	}
	for i := 0; i+len(q) <= len(buf); {
		if matchAt(buf, q, i, cmp) {
			matches = append(matches, Match{Start: i, End: i + len(q)})
			i += len(q)
			continue
		}
		i++
	}
	return matches
}

func matchAt(buf, q []rune, i int, cmp Comparator) bool {
	for j, r := range q {
		if !cmp(buf[i+j], r) {
			return false
		}
	}
	return true
}
