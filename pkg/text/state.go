package text

import "fmt"

var (
	ErrEmptyQuery = fmt.Errorf("empty search query")
	ErrNotFound   = fmt.Errorf("no match found")
)

// SearchState carries the cursor of a find dialog between successive
// "find next" and "find previous" requests.
type SearchState struct {
	Query           string
	LastMatchOffset int
	Direction       Direction
	Compare         Comparator
	Wrap            bool
}

// NewSearchState starts a find session at the top of the buffer.
func NewSearchState() *SearchState {
	return &SearchState{Compare: Exact, Wrap: true}
}

// Reset forgets the previous match so the next search starts from offset.
func (s *SearchState) Reset(offset int) {
	s.LastMatchOffset = offset
	s.Direction = Forward
}

// Next runs FindNext from the last match and advances the cursor: to the
// end of the match going forward, to its start going backward.
func (s *SearchState) Next(buffer string, dir Direction) (Match, error) {
	if s.Query == "" {
		return Match{}, ErrEmptyQuery
	}
	m, ok := FindNext(buffer, s.Query, s.LastMatchOffset, dir, s.Wrap, s.Compare)
	if !ok {
		return Match{}, ErrNotFound
	}
	s.Direction = dir
	if dir == Backward {
		s.LastMatchOffset = m.Start
	} else {
		s.LastMatchOffset = m.End
	}
	return m, nil
}

// All runs FindAll for the current query.
func (s *SearchState) All(buffer string) ([]Match, error) {
	if s.Query == "" {
		return nil, ErrEmptyQuery
	}
	matches := FindAll(buffer, s.Query, s.Compare)
	if len(matches) == 0 {
		return matches, ErrNotFound
	}
	return matches, nil
}
