package editor

import (
	"sort"
	"strings"
	"unicode"

	"github.com/byxorna/notepad/pkg/text"
	"github.com/byxorna/notepad/pkg/ui"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

const controlGlyph = "·"

// Model is the text area: a Buffer rendered with soft character wrap and
// scrolled so the cursor stays visible.
type Model struct {
	KeyMap    KeyMap
	Clipboard Clipboard
	Buffer    *Buffer

	styles   ui.Styles
	tabWidth int

	width  int
	height int
	top    int

	highlights []text.Match
	// highlights only hold for the buffer version they were computed on
	highlightVersion int
}

// row is one screen line: the runes [start, end) of the buffer. A newline
// ending a logical line is not part of any row.
type row struct {
	start int
	end   int
}

func New(styles ui.Styles, tabWidth int) *Model {
	if tabWidth < 1 {
		tabWidth = 4
	}
	return &Model{
		KeyMap:    DefaultKeyMap(),
		Clipboard: &SystemClipboard{},
		Buffer:    NewBuffer(""),
		styles:    styles,
		tabWidth:  tabWidth,
		width:     80,
		height:    20,
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) Value() string { return m.Buffer.String() }

func (m *Model) SetValue(s string) {
	m.Buffer.SetText(s)
	m.top = 0
	m.highlights = nil
}

// SetHighlights marks ranges to paint with the highlight style until the next
// change to the text.
func (m *Model) SetHighlights(matches []text.Match) {
	m.highlights = append([]text.Match(nil), matches...)
	sort.Slice(m.highlights, func(i, j int) bool { return m.highlights[i].Start < m.highlights[j].Start })
	m.highlightVersion = m.Buffer.Version()
}

func (m *Model) ClearHighlights() { m.highlights = nil }

func (m *Model) Highlights() []text.Match {
	if m.highlightVersion != m.Buffer.Version() {
		return nil
	}
	return m.highlights
}

// Cut moves the selection to the clipboard.
func (m *Model) Cut() {
	s := m.Buffer.SelectedText()
	if s == "" {
		return
	}
	if err := m.Clipboard.WriteAll(s); err != nil {
		return
	}
	m.Buffer.DeleteSelection()
}

func (m *Model) Copy() {
	if s := m.Buffer.SelectedText(); s != "" {
		_ = m.Clipboard.WriteAll(s)
	}
}

func (m *Model) Paste() {
	s, err := m.Clipboard.ReadAll()
	if err != nil || s == "" {
		return
	}
	m.Buffer.Insert(s)
}

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	b := m.Buffer
	switch {
	case key.Matches(keyMsg, m.KeyMap.Left):
		b.MoveLeft(false)
	case key.Matches(keyMsg, m.KeyMap.Right):
		b.MoveRight(false)
	case key.Matches(keyMsg, m.KeyMap.Up):
		b.MoveLines(-1, false)
	case key.Matches(keyMsg, m.KeyMap.Down):
		b.MoveLines(1, false)
	case key.Matches(keyMsg, m.KeyMap.ShiftLeft):
		b.MoveLeft(true)
	case key.Matches(keyMsg, m.KeyMap.ShiftRight):
		b.MoveRight(true)
	case key.Matches(keyMsg, m.KeyMap.ShiftUp):
		b.MoveLines(-1, true)
	case key.Matches(keyMsg, m.KeyMap.ShiftDown):
		b.MoveLines(1, true)
	case key.Matches(keyMsg, m.KeyMap.Home):
		b.MoveHome(false)
	case key.Matches(keyMsg, m.KeyMap.End):
		b.MoveEnd(false)
	case key.Matches(keyMsg, m.KeyMap.ShiftHome):
		b.MoveHome(true)
	case key.Matches(keyMsg, m.KeyMap.ShiftEnd):
		b.MoveEnd(true)
	case key.Matches(keyMsg, m.KeyMap.DocStart):
		b.MoveDocStart(false)
	case key.Matches(keyMsg, m.KeyMap.DocEnd):
		b.MoveDocEnd(false)
	case key.Matches(keyMsg, m.KeyMap.PageUp):
		b.MoveLines(-m.pageSize(), false)
	case key.Matches(keyMsg, m.KeyMap.PageDown):
		b.MoveLines(m.pageSize(), false)
	case key.Matches(keyMsg, m.KeyMap.Backspace):
		b.DeleteBackward()
	case key.Matches(keyMsg, m.KeyMap.Delete):
		b.DeleteForward()
	case key.Matches(keyMsg, m.KeyMap.Enter):
		b.Insert("\n")
	case key.Matches(keyMsg, m.KeyMap.Tab):
		b.Insert("\t")
	case key.Matches(keyMsg, m.KeyMap.Undo):
		b.Undo()
	case key.Matches(keyMsg, m.KeyMap.Redo):
		b.Redo()
	case key.Matches(keyMsg, m.KeyMap.Cut):
		m.Cut()
	case key.Matches(keyMsg, m.KeyMap.Copy):
		m.Copy()
	case key.Matches(keyMsg, m.KeyMap.Paste):
		m.Paste()
	case key.Matches(keyMsg, m.KeyMap.SelectAll):
		b.SelectAll()
	case keyMsg.Type == tea.KeySpace:
		b.Insert(" ")
	case keyMsg.Type == tea.KeyRunes && !keyMsg.Alt:
		b.Insert(string(keyMsg.Runes))
	}
	return m, nil
}

func (m *Model) pageSize() int {
	if m.height > 1 {
		return m.height - 1
	}
	return 1
}

// wrapWidth keeps one column free so a cursor at the end of a full row still
// has a cell to be drawn in.
func (m *Model) wrapWidth() int {
	if m.width > 1 {
		return m.width - 1
	}
	return 1
}

func (m *Model) cellWidth(r rune, col int) int {
	switch {
	case r == '\t':
		return m.tabWidth - col%m.tabWidth
	case unicode.IsControl(r):
		return 1
	}
	return runewidth.RuneWidth(r)
}

func (m *Model) glyph(r rune, col int) string {
	switch {
	case r == '\t':
		return strings.Repeat(" ", m.cellWidth(r, col))
	case unicode.IsControl(r):
		return controlGlyph
	}
	return string(r)
}

func (m *Model) layout() []row {
	runes := m.Buffer.runes
	width := m.wrapWidth()
	rows := []row{}
	start, col := 0, 0
	for i, r := range runes {
		if r == '\n' {
			rows = append(rows, row{start: start, end: i})
			start, col = i+1, 0
			continue
		}
		w := m.cellWidth(r, col)
		if col > 0 && col+w > width {
			rows = append(rows, row{start: start, end: i})
			start, col = i, 0
			w = m.cellWidth(r, 0)
		}
		col += w
	}
	return append(rows, row{start: start, end: len(runes)})
}

// rowOf finds the row holding pos. An offset shared by the end of a wrapped
// row and the start of the next belongs to the next one.
func rowOf(rows []row, pos int) int {
	i := sort.Search(len(rows), func(i int) bool { return rows[i].start > pos }) - 1
	if i < 0 {
		return 0
	}
	return i
}

// scroll moves the viewport the least needed to show the cursor row.
func (m *Model) scroll(rows []row) {
	height := m.height
	if height < 1 {
		height = 1
	}
	cur := rowOf(rows, m.Buffer.cursor)
	if cur < m.top {
		m.top = cur
	}
	if cur >= m.top+height {
		m.top = cur - height + 1
	}
	if last := len(rows) - height; m.top > last {
		m.top = last
	}
	if m.top < 0 {
		m.top = 0
	}
}

type styleKind int

const (
	kindText styleKind = iota
	kindHighlight
	kindSelection
	kindCursor
)

func (m *Model) style(k styleKind, s string) string {
	switch k {
	case kindCursor:
		return m.styles.Cursor.Render(s)
	case kindSelection:
		return m.styles.Selection.Render(s)
	case kindHighlight:
		return m.styles.Highlight.Render(s)
	}
	return m.styles.Text.Render(s)
}

func (m *Model) View() string {
	rows := m.layout()
	m.scroll(rows)

	sel, hasSel := m.Buffer.Selection()
	highlights := m.Highlights()

	lines := make([]string, 0, m.height)
	for i := m.top; i < len(rows) && i < m.top+m.height; i++ {
		lines = append(lines, m.renderRow(rows[i], sel, hasSel, highlights))
	}
	blank := m.styles.Text.Render(strings.Repeat(" ", m.width))
	for len(lines) < m.height {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(rw row, sel text.Match, hasSel bool, highlights []text.Match) string {
	runes := m.Buffer.runes
	cursor := m.Buffer.cursor

	// first highlight that ends after the row starts
	h := sort.Search(len(highlights), func(i int) bool { return highlights[i].End > rw.start })

	var out, seg strings.Builder
	kind := kindText
	flush := func() {
		if seg.Len() > 0 {
			out.WriteString(m.style(kind, seg.String()))
			seg.Reset()
		}
	}

	col := 0
	for i := rw.start; i < rw.end; i++ {
		for h < len(highlights) && highlights[h].End <= i {
			h++
		}
		k := kindText
		switch {
		case i == cursor:
			k = kindCursor
		case hasSel && i >= sel.Start && i < sel.End:
			k = kindSelection
		case h < len(highlights) && highlights[h].Start <= i:
			k = kindHighlight
		}
		if k != kind {
			flush()
			kind = k
		}
		seg.WriteString(m.glyph(runes[i], col))
		col += m.cellWidth(runes[i], col)
	}
	flush()

	if cursor == rw.end && (rw.end == len(runes) || runes[rw.end] == '\n') {
		out.WriteString(m.styles.Cursor.Render(" "))
		col++
	}
	if col < m.width {
		out.WriteString(m.styles.Text.Render(strings.Repeat(" ", m.width-col)))
	}
	return out.String()
}

// CursorPosition is the one based line and column shown in the status bar.
func (m *Model) CursorPosition() (int, int) {
	line, col := m.Buffer.LineCol(m.Buffer.cursor)
	return line + 1, col + 1
}
