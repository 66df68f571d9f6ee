package editor

import (
	"unicode"

	"github.com/byxorna/notepad/pkg/text"
)

// Buffer is the editable text: runes, a cursor and an optional selection.
// Every offset is a rune offset, the same unit text.Match uses.
type Buffer struct {
	runes  []rune
	cursor int
	// anchor is the other end of the selection, -1 when nothing is selected
	anchor int
	// goal is the column vertical moves try to keep, -1 when unset
	goal    int
	history History
	version int
}

func NewBuffer(s string) *Buffer {
	return &Buffer{runes: []rune(s), anchor: -1, goal: -1}
}

func (b *Buffer) String() string { return string(b.runes) }
func (b *Buffer) Len() int       { return len(b.runes) }
func (b *Buffer) Cursor() int    { return b.cursor }

// Version changes whenever the text changes.
func (b *Buffer) Version() int { return b.version }

func (b *Buffer) History() *History { return &b.history }

// SetText replaces the whole buffer and forgets its undo history. Used when a
// file is opened or a new document is started.
func (b *Buffer) SetText(s string) {
	b.runes = []rune(s)
	b.cursor = 0
	b.anchor = -1
	b.goal = -1
	b.history.reset()
	b.version++
}

// ReplaceText swaps the whole content as a single undoable step, keeping the
// cursor where it was when possible.
func (b *Buffer) ReplaceText(s string) {
	if s == string(b.runes) {
		return
	}
	cursor := b.cursor
	b.history.close()
	b.replace(0, len(b.runes), []rune(s), false)
	b.setCursor(clamp(cursor, 0, len(b.runes)))
	b.anchor = -1
}

// SetCursor moves the cursor and drops the selection.
func (b *Buffer) SetCursor(pos int) {
	b.history.close()
	b.setCursor(clamp(pos, 0, len(b.runes)))
	b.anchor = -1
}

func (b *Buffer) setCursor(pos int) {
	b.cursor = pos
	b.goal = -1
}

// Selection returns the selected range in ascending order.
func (b *Buffer) Selection() (text.Match, bool) {
	if b.anchor < 0 || b.anchor == b.cursor {
		return text.Match{}, false
	}
	if b.anchor < b.cursor {
		return text.Match{Start: b.anchor, End: b.cursor}, true
	}
	return text.Match{Start: b.cursor, End: b.anchor}, true
}

func (b *Buffer) SelectedText() string {
	sel, ok := b.Selection()
	if !ok {
		return ""
	}
	return string(b.runes[sel.Start:sel.End])
}

// Select selects m and puts the cursor at its end.
func (b *Buffer) Select(m text.Match) {
	b.history.close()
	b.anchor = clamp(m.Start, 0, len(b.runes))
	b.setCursor(clamp(m.End, 0, len(b.runes)))
}

func (b *Buffer) SelectAll() {
	b.Select(text.Match{Start: 0, End: len(b.runes)})
}

func (b *Buffer) ClearSelection() { b.anchor = -1 }

// Insert types s at the cursor, replacing the selection if there is one.
func (b *Buffer) Insert(s string) {
	if s == "" {
		return
	}
	r := []rune(s)
	if sel, ok := b.Selection(); ok {
		b.history.close()
		b.replace(sel.Start, sel.End, r, false)
		return
	}
	b.replace(b.cursor, b.cursor, r, len(r) == 1 && !unicode.IsSpace(r[0]))
}

// DeleteSelection removes the selected text and reports whether there was any.
func (b *Buffer) DeleteSelection() bool {
	sel, ok := b.Selection()
	if !ok {
		return false
	}
	b.history.close()
	b.replace(sel.Start, sel.End, nil, false)
	return true
}

func (b *Buffer) DeleteBackward() {
	if b.DeleteSelection() || b.cursor == 0 {
		return
	}
	b.history.close()
	b.replace(b.cursor-1, b.cursor, nil, false)
}

func (b *Buffer) DeleteForward() {
	if b.DeleteSelection() || b.cursor == len(b.runes) {
		return
	}
	b.history.close()
	b.replace(b.cursor, b.cursor+1, nil, false)
}

// replace is the single mutation primitive; it records history and leaves the
// cursor after the inserted runes.
func (b *Buffer) replace(start, end int, r []rune, coalesce bool) {
	e := edit{
		Pos:      start,
		Deleted:  append([]rune(nil), b.runes[start:end]...),
		Inserted: append([]rune(nil), r...),
	}
	before := b.cursor
	b.apply(e.Pos, len(e.Deleted), e.Inserted)
	b.anchor = -1
	b.setCursor(start + len(r))
	b.history.record(transaction{edits: []edit{e}, cursorBefore: before, cursorAfter: b.cursor}, coalesce)
}

func (b *Buffer) apply(pos, n int, r []rune) {
	out := make([]rune, 0, len(b.runes)-n+len(r))
	out = append(out, b.runes[:pos]...)
	out = append(out, r...)
	out = append(out, b.runes[pos+n:]...)
	b.runes = out
	b.version++
}

// Undo reverts the last transaction and reports whether there was one.
func (b *Buffer) Undo() bool {
	tx, ok := b.history.popUndo()
	if !ok {
		return false
	}
	for i := len(tx.edits) - 1; i >= 0; i-- {
		e := tx.edits[i]
		b.apply(e.Pos, len(e.Inserted), e.Deleted)
	}
	b.anchor = -1
	b.setCursor(clamp(tx.cursorBefore, 0, len(b.runes)))
	return true
}

// Redo reapplies the last undone transaction.
func (b *Buffer) Redo() bool {
	tx, ok := b.history.popRedo()
	if !ok {
		return false
	}
	for _, e := range tx.edits {
		b.apply(e.Pos, len(e.Deleted), e.Inserted)
	}
	b.anchor = -1
	b.setCursor(clamp(tx.cursorAfter, 0, len(b.runes)))
	return true
}

// LineCol returns the zero based line and column of pos.
func (b *Buffer) LineCol(pos int) (int, int) {
	pos = clamp(pos, 0, len(b.runes))
	line, start := 0, 0
	for i := 0; i < pos; i++ {
		if b.runes[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return line, pos - start
}

func (b *Buffer) lineStart(pos int) int {
	for pos > 0 && b.runes[pos-1] != '\n' {
		pos--
	}
	return pos
}

func (b *Buffer) lineEnd(pos int) int {
	for pos < len(b.runes) && b.runes[pos] != '\n' {
		pos++
	}
	return pos
}

// move places the cursor at pos, extending the selection when extend is set.
func (b *Buffer) move(pos int, extend bool) {
	b.history.close()
	pos = clamp(pos, 0, len(b.runes))
	if extend {
		if b.anchor < 0 {
			b.anchor = b.cursor
		}
	} else {
		b.anchor = -1
	}
	b.cursor = pos
}

func (b *Buffer) MoveLeft(extend bool) {
	if sel, ok := b.Selection(); ok && !extend {
		b.move(sel.Start, false)
	} else {
		b.move(b.cursor-1, extend)
	}
	b.goal = -1
}

func (b *Buffer) MoveRight(extend bool) {
	if sel, ok := b.Selection(); ok && !extend {
		b.move(sel.End, false)
	} else {
		b.move(b.cursor+1, extend)
	}
	b.goal = -1
}

func (b *Buffer) MoveHome(extend bool) {
	b.move(b.lineStart(b.cursor), extend)
	b.goal = -1
}

func (b *Buffer) MoveEnd(extend bool) {
	b.move(b.lineEnd(b.cursor), extend)
	b.goal = -1
}

func (b *Buffer) MoveDocStart(extend bool) {
	b.move(0, extend)
	b.goal = -1
}

func (b *Buffer) MoveDocEnd(extend bool) {
	b.move(len(b.runes), extend)
	b.goal = -1
}

// MoveLines moves the cursor n lines down (up when negative), keeping the
// column of the first vertical move.
func (b *Buffer) MoveLines(n int, extend bool) {
	start := b.lineStart(b.cursor)
	if b.goal < 0 {
		b.goal = b.cursor - start
	}
	goal := b.goal
	for ; n < 0 && start > 0; n++ {
		start = b.lineStart(start - 1)
	}
	for ; n > 0; n-- {
		end := b.lineEnd(start)
		if end == len(b.runes) {
			break
		}
		start = end + 1
	}
	pos := start + goal
	if end := b.lineEnd(start); pos > end {
		pos = end
	}
	b.move(pos, extend)
	b.goal = goal
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
