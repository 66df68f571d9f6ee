package editor

import (
	"reflect"
	"strings"
	"testing"

	"github.com/byxorna/notepad/pkg/config"
	"github.com/byxorna/notepad/pkg/text"
	"github.com/byxorna/notepad/pkg/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newTestModel(width, height int) (*Model, *MemoryClipboard) {
	m := New(ui.NewStyles(config.Default.Theme), 4)
	clip := &MemoryClipboard{}
	m.Clipboard = clip
	m.SetSize(width, height)
	return m, clip
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestUpdateTyping(t *testing.T) {
	m, _ := newTestModel(20, 5)
	for _, msg := range []tea.Msg{
		runes("h"), runes("i"),
		tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
		runes("yo"),
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyBackspace},
		runes("!"),
	} {
		m, _ = m.Update(msg)
	}
	if got, want := m.Value(), "hi yo\n!"; got != want {
		t.Fatalf("expected %q but got %q", want, got)
	}
	if line, col := m.CursorPosition(); line != 2 || col != 2 {
		t.Fatalf("expected the cursor at 2:2 but got %d:%d", line, col)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s"), Alt: true})
	if strings.Contains(m.Value(), "s") {
		t.Fatal("alt chords must not insert text")
	}
}

func TestCutCopyPaste(t *testing.T) {
	m, clip := newTestModel(20, 5)
	m.SetValue("hello world")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	if m.Value() != "hello world" {
		t.Fatal("pasting an empty clipboard must not change the text")
	}

	for i := 0; i < 5; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if clip.Text != "hello" || m.Value() != "hello world" {
		t.Fatalf("copy should leave the text alone, clipboard=%q text=%q", clip.Text, m.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	if m.Value() != " world" {
		t.Fatalf("cut should remove the selection, got %q", m.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	if m.Value() != " worldhello" {
		t.Fatalf("unexpected text after paste %q", m.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	if m.Value() != " world" {
		t.Fatalf("paste should be undoable, got %q", m.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if m.Value() != " worldhello" {
		t.Fatalf("paste should be redoable, got %q", m.Value())
	}
}

func TestSelectAllAndType(t *testing.T) {
	m, _ := newTestModel(20, 5)
	m.SetValue("old text")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	m.Update(runes("new"))
	if m.Value() != "new" {
		t.Fatalf("expected typing to replace everything, got %q", m.Value())
	}
}

func TestLayoutWrapsByCells(t *testing.T) {
	m, _ := newTestModel(5, 5)
	m.SetValue("abcdefghij\n\nxy")
	want := []row{{0, 4}, {4, 8}, {8, 10}, {11, 11}, {12, 14}}
	if got := m.layout(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected rows %v but got %v", want, got)
	}

	m.SetValue("日本語")
	want = []row{{0, 2}, {2, 3}}
	if got := m.layout(); !reflect.DeepEqual(got, want) {
		t.Fatalf("wide runes should wrap by cell width, expected %v but got %v", want, got)
	}

	m.SetValue("\tab")
	if got := m.layout(); !reflect.DeepEqual(got, []row{{0, 1}, {1, 3}}) {
		t.Fatalf("a tab should fill the row, got %v", got)
	}
}

func TestRowOf(t *testing.T) {
	rows := []row{{0, 4}, {4, 8}, {9, 9}}
	testcases := map[int]int{0: 0, 3: 0, 4: 1, 8: 1, 9: 2, 50: 2}
	for pos, want := range testcases {
		if got := rowOf(rows, pos); got != want {
			t.Fatalf("rowOf(%d) expected %d but got %d", pos, want, got)
		}
	}
}

func TestViewScrollsToCursor(t *testing.T) {
	m, _ := newTestModel(10, 2)
	m.SetValue("a\nb\nc\nd")
	m.Buffer.MoveDocEnd(false)

	view := m.View()
	if m.top != 2 {
		t.Fatalf("expected the view to start at row 2 but got %d", m.top)
	}
	lines := strings.Split(view, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected exactly 2 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if w := lipgloss.Width(l); w != 10 {
			t.Fatalf("every line should be padded to 10 cells, got %d", w)
		}
	}

	m.Buffer.MoveDocStart(false)
	m.View()
	if m.top != 0 {
		t.Fatalf("expected to scroll back to the top, got %d", m.top)
	}
}

func TestViewFillsHeight(t *testing.T) {
	m, _ := newTestModel(8, 4)
	m.SetValue("one")
	if lines := strings.Split(m.View(), "\n"); len(lines) != 4 {
		t.Fatalf("expected the view to fill 4 lines, got %d", len(lines))
	}
}

func TestHighlightsDropAfterEdit(t *testing.T) {
	m, _ := newTestModel(30, 3)
	m.SetValue("the cat sat on the mat")
	m.SetHighlights(text.FindAll(m.Value(), "at", nil))
	if got := len(m.Highlights()); got != 3 {
		t.Fatalf("expected 3 highlights but got %d", got)
	}
	m.Update(runes("x"))
	if got := m.Highlights(); got != nil {
		t.Fatalf("highlights must not survive an edit, got %v", got)
	}
}
