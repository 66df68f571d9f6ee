package editor

import (
	"testing"

	"github.com/byxorna/notepad/pkg/text"
)

func typeString(b *Buffer, s string) {
	for _, r := range s {
		b.Insert(string(r))
	}
}

func TestTypingCoalescesIntoWords(t *testing.T) {
	b := NewBuffer("")
	typeString(b, "hi there")
	if b.String() != "hi there" {
		t.Fatalf("unexpected buffer %q", b.String())
	}

	steps := []string{"hi ", "hi", ""}
	for _, want := range steps {
		if !b.Undo() {
			t.Fatalf("expected something to undo before %q", want)
		}
		if b.String() != want {
			t.Fatalf("expected %q after undo but got %q", want, b.String())
		}
	}
	if b.Undo() {
		t.Fatal("history should be exhausted")
	}

	b.Redo()
	b.Redo()
	if b.String() != "hi " || b.Cursor() != 3 {
		t.Fatalf("unexpected state after redo %q cursor=%d", b.String(), b.Cursor())
	}

	b.Insert("x")
	if b.History().CanRedo() {
		t.Fatal("a new edit must drop the redo stack")
	}
}

func TestMovingBreaksCoalescing(t *testing.T) {
	b := NewBuffer("")
	typeString(b, "ab")
	b.MoveLeft(false)
	b.MoveRight(false)
	typeString(b, "cd")
	b.Undo()
	if b.String() != "ab" {
		t.Fatalf("expected only the typing after the move to be undone, got %q", b.String())
	}
}

func TestInsertReplacesSelection(t *testing.T) {
	b := NewBuffer("hello world")
	b.Select(text.Match{Start: 0, End: 5})
	if got := b.SelectedText(); got != "hello" {
		t.Fatalf("unexpected selection %q", got)
	}
	b.Insert("bye")
	if b.String() != "bye world" || b.Cursor() != 3 {
		t.Fatalf("unexpected state %q cursor=%d", b.String(), b.Cursor())
	}
	if _, ok := b.Selection(); ok {
		t.Fatal("selection should be gone after typing over it")
	}
	b.Undo()
	if b.String() != "hello world" {
		t.Fatalf("undo should restore the selected text, got %q", b.String())
	}
}

func TestDeleteAtEdges(t *testing.T) {
	b := NewBuffer("ab")
	b.DeleteBackward()
	if b.String() != "ab" {
		t.Fatalf("backspace at the start must do nothing, got %q", b.String())
	}
	b.MoveDocEnd(false)
	b.DeleteForward()
	if b.String() != "ab" {
		t.Fatalf("delete at the end must do nothing, got %q", b.String())
	}
	b.DeleteBackward()
	if b.String() != "a" || b.Cursor() != 1 {
		t.Fatalf("unexpected state %q cursor=%d", b.String(), b.Cursor())
	}
	b.MoveDocStart(false)
	b.DeleteForward()
	if b.String() != "" {
		t.Fatalf("expected an empty buffer, got %q", b.String())
	}
}

func TestReplaceTextIsOneUndoStep(t *testing.T) {
	b := NewBuffer("the cat sat")
	b.SetCursor(4)
	b.ReplaceText("the dog sat")
	if b.String() != "the dog sat" || b.Cursor() != 4 {
		t.Fatalf("unexpected state %q cursor=%d", b.String(), b.Cursor())
	}
	b.Undo()
	if b.String() != "the cat sat" {
		t.Fatalf("expected the old text back, got %q", b.String())
	}

	v := b.Version()
	b.ReplaceText("the cat sat")
	if b.Version() != v {
		t.Fatal("replacing with identical text must not count as a change")
	}
}

func TestSetTextForgetsHistory(t *testing.T) {
	b := NewBuffer("")
	typeString(b, "abc")
	b.SetText("fresh")
	if b.History().CanUndo() || b.Cursor() != 0 {
		t.Fatalf("expected a clean buffer, cursor=%d", b.Cursor())
	}
}

func TestShiftSelection(t *testing.T) {
	b := NewBuffer("abcdef")
	b.MoveRight(true)
	b.MoveRight(true)
	sel, ok := b.Selection()
	if !ok || sel != (text.Match{Start: 0, End: 2}) {
		t.Fatalf("unexpected selection %v %t", sel, ok)
	}
	b.MoveLeft(false)
	if _, ok := b.Selection(); ok || b.Cursor() != 0 {
		t.Fatalf("left should collapse the selection to its start, cursor=%d", b.Cursor())
	}

	b.MoveDocEnd(false)
	b.MoveLeft(true)
	b.MoveLeft(true)
	if got := b.SelectedText(); got != "ef" {
		t.Fatalf("expected a backwards selection of %q but got %q", "ef", got)
	}
	b.SelectAll()
	if got := b.SelectedText(); got != "abcdef" {
		t.Fatalf("select all gave %q", got)
	}
}

func TestMoveLinesKeepsGoalColumn(t *testing.T) {
	b := NewBuffer("abcdef\nab\nabcdef")
	b.SetCursor(5)
	b.MoveLines(1, false)
	if b.Cursor() != 9 {
		t.Fatalf("expected the end of the short line (9) but got %d", b.Cursor())
	}
	b.MoveLines(1, false)
	if b.Cursor() != 15 {
		t.Fatalf("expected to return to column 5 (15) but got %d", b.Cursor())
	}
	b.MoveLines(-10, false)
	if b.Cursor() != 5 {
		t.Fatalf("expected to stop on the first line at column 5, got %d", b.Cursor())
	}
	b.MoveEnd(false)
	b.MoveHome(false)
	if b.Cursor() != 0 {
		t.Fatalf("home should go to the line start, got %d", b.Cursor())
	}
}

func TestLineCol(t *testing.T) {
	b := NewBuffer("ab\ncd\n")
	testcases := map[int][2]int{
		0: {0, 0},
		2: {0, 2},
		3: {1, 0},
		4: {1, 1},
		6: {2, 0},
		9: {2, 0},
	}
	for pos, want := range testcases {
		line, col := b.LineCol(pos)
		if line != want[0] || col != want[1] {
			t.Fatalf("LineCol(%d) expected %v but got (%d, %d)", pos, want, line, col)
		}
	}
}
