package model

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/byxorna/notepad/pkg/autosave"
	"github.com/byxorna/notepad/pkg/config"
	"github.com/byxorna/notepad/pkg/db/fs"
	"github.com/byxorna/notepad/pkg/editor"
	"github.com/byxorna/notepad/pkg/session"
	"github.com/byxorna/notepad/pkg/text"
	"github.com/byxorna/notepad/pkg/websearch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kylelemons/godebug/diff"
)

const catSat = "the cat sat on the mat"

type harness struct {
	dir    string
	opened []string
}

func newTestModel(t *testing.T) (Model, *harness) {
	dir, err := ioutil.TempDir("", "notepad-model")
	if err != nil {
		t.Fatal(err)
	}
	store := fs.New()
	t.Cleanup(func() {
		store.Close()
		os.RemoveAll(dir)
	})

	h := &harness{dir: dir}
	cfg := config.Default
	sess := session.New(store, session.Options{
		AutosaveInterval: cfg.AutosaveInterval,
		TrimOnSave:       true,
		DefaultExtension: ".txt",
	})
	searcher := websearch.New(websearch.DefaultPrefix, false)
	searcher.Launch = func(u string) error {
		h.opened = append(h.opened, u)
		return nil
	}

	m := New(&cfg, sess, searcher)
	m.editor.Clipboard = &editor.MemoryClipboard{}
	m.now = func() time.Time { return time.Date(2021, 7, 1, 15, 4, 5, 0, time.UTC) }
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, h
}

func update(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func keyPress(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func alt(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true} }

func TestFindDownAndUp(t *testing.T) {
	m, _ := newTestModel(t)
	m.editor.SetValue(catSat)

	m = update(m, keyPress(tea.KeyCtrlF))
	if m.state != stateFind || m.session.Search == nil {
		t.Fatalf("expected an open find session, state is %s", m.state)
	}
	m = typeText(m, "at")

	steps := []struct {
		msg  tea.Msg
		want text.Match
	}{
		{keyPress(tea.KeyEnter), text.Match{Start: 5, End: 7}},
		{keyPress(tea.KeyDown), text.Match{Start: 9, End: 11}},
		{keyPress(tea.KeyUp), text.Match{Start: 9, End: 11}},
		{keyPress(tea.KeyUp), text.Match{Start: 5, End: 7}},
		{keyPress(tea.KeyUp), text.Match{Start: 20, End: 22}},
	}
	for i, step := range steps {
		m = update(m, step.msg)
		sel, ok := m.editor.Buffer.Selection()
		if !ok || sel != step.want {
			t.Fatalf("step %d: expected selection %v but got %v (%t)", i, step.want, sel, ok)
		}
	}

	m = update(m, keyPress(tea.KeyEsc))
	if m.state != stateEditing || m.session.Search != nil {
		t.Fatalf("esc should end the find session, state is %s", m.state)
	}
}

func TestFindMessages(t *testing.T) {
	m, _ := newTestModel(t)
	m.editor.SetValue(catSat)

	m = update(m, keyPress(tea.KeyCtrlF), keyPress(tea.KeyEnter))
	if m.find.message != "Empty search query." || !m.find.isError {
		t.Fatalf("unexpected message %q", m.find.message)
	}

	m = typeText(m, "dog")
	m = update(m, keyPress(tea.KeyEnter))
	if m.find.message != "No match found." {
		t.Fatalf("unexpected message %q", m.find.message)
	}
	m = update(m, keyPress(tea.KeyCtrlA))
	if m.find.message != "No matches found." {
		t.Fatalf("unexpected message %q", m.find.message)
	}
}

func TestFindAllHighlights(t *testing.T) {
	m, _ := newTestModel(t)
	m.editor.SetValue("The cat sat on the MAT")

	m = update(m, keyPress(tea.KeyCtrlF))
	m = typeText(m, "at")
	m = update(m, keyPress(tea.KeyCtrlA))
	if got := len(m.editor.Highlights()); got != 3 {
		t.Fatalf("expected 3 matches ignoring case but got %d", got)
	}
	if m.find.message != "3 matches highlighted." {
		t.Fatalf("unexpected message %q", m.find.message)
	}

	// tab toggles match case on
	m = update(m, keyPress(tea.KeyTab), keyPress(tea.KeyCtrlA))
	if got := len(m.editor.Highlights()); got != 2 {
		t.Fatalf("expected 2 case sensitive matches but got %d", got)
	}

	m = update(m, keyPress(tea.KeyEsc))
	if got := m.editor.Highlights(); len(got) != 0 {
		t.Fatalf("closing the dialog should clear highlights, got %v", got)
	}
}

func TestFindIgnoringDiacritics(t *testing.T) {
	m, _ := newTestModel(t)
	m.editor.SetValue("café cafe")

	m = update(m, keyPress(tea.KeyCtrlF))
	m = typeText(m, "cafe")
	m = update(m, keyPress(tea.KeyCtrlA))
	if got := len(m.editor.Highlights()); got != 1 {
		t.Fatalf("expected 1 exact match but got %d", got)
	}
	m = update(m, keyPress(tea.KeyCtrlT), keyPress(tea.KeyCtrlA))
	if got := len(m.editor.Highlights()); got != 2 {
		t.Fatalf("expected 2 matches ignoring accents but got %d", got)
	}
}

func TestReplaceAll(t *testing.T) {
	m, _ := newTestModel(t)
	m.editor.SetValue(catSat)

	m = update(m, keyPress(tea.KeyCtrlR))
	m = typeText(m, "at")
	m = update(m, keyPress(tea.KeyTab))
	m = typeText(m, "XX")
	m = update(m, keyPress(tea.KeyCtrlA))

	if want, got := "the cXX sXX on the mXX", m.editor.Value(); got != want {
		t.Fatalf("unexpected buffer:\n%s", diff.Diff(want, got))
	}
	if m.state != stateEditing {
		t.Fatalf("replace all should close the dialog, state is %s", m.state)
	}
	if m.statusMessage != "Replaced 3 occurrences." {
		t.Fatalf("unexpected status %q", m.statusMessage)
	}

	m = update(m, keyPress(tea.KeyCtrlZ))
	if m.editor.Value() != catSat {
		t.Fatalf("replace all should be a single undo step, got %q", m.editor.Value())
	}
}

func TestReplaceOne(t *testing.T) {
	m, _ := newTestModel(t)
	m.editor.SetValue("The CAT sat")

	m = update(m, keyPress(tea.KeyCtrlR))
	m = typeText(m, "cat")
	m = update(m, keyPress(tea.KeyTab))
	m = typeText(m, "dog")
	m = update(m, keyPress(tea.KeyEnter))

	if want, got := "The dog sat", m.editor.Value(); got != want {
		t.Fatalf("unexpected buffer:\n%s", diff.Diff(want, got))
	}
	if got := m.editor.Buffer.SelectedText(); got != "dog" {
		t.Fatalf("the replacement should be selected, got %q", got)
	}

	// match case on: "CAT" is gone and "cat" never existed
	m = update(m, keyPress(tea.KeyCtrlT), keyPress(tea.KeyEnter))
	if m.replace.message != "The text you want to replace was not found." {
		t.Fatalf("unexpected message %q", m.replace.message)
	}
	if m.state != stateReplace {
		t.Fatalf("replace one should keep the dialog open, state is %s", m.state)
	}
}

func TestSaveWithoutFilenameAsksForPath(t *testing.T) {
	m, h := newTestModel(t)
	m = typeText(m, "  Hello  ")
	if !m.modified() {
		t.Fatal("typing should mark the buffer modified")
	}

	m = update(m, keyPress(tea.KeyCtrlS))
	if m.state != statePrompt || m.prompt.kind != promptSaveAs {
		t.Fatalf("expected a save as prompt, state is %s", m.state)
	}

	path := filepath.Join(h.dir, "hello")
	m = typeText(m, path)
	m = update(m, keyPress(tea.KeyEnter))

	if m.state != stateEditing {
		t.Fatalf("expected to be back to editing, state is %s (%s)", m.state, m.prompt.message)
	}
	raw, err := ioutil.ReadFile(path + ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "Hello" {
		t.Fatalf("expected trimmed content on disk but got %q", raw)
	}
	if m.session.Autosave.State() != autosave.Bound {
		t.Fatal("save as should bind autosave")
	}
	if m.modified() {
		t.Fatal("the buffer should be clean after saving")
	}
	if !strings.HasSuffix(m.session.Title(), "hello.txt - "+session.AppName) {
		t.Fatalf("unexpected title %q", m.session.Title())
	}
}

func TestSaveAsErrorStaysInPrompt(t *testing.T) {
	m, h := newTestModel(t)
	m = typeText(m, "x")
	m = update(m, alt('s'))
	m = typeText(m, filepath.Join(h.dir, "missing", "dir", "x.txt"))
	m = update(m, keyPress(tea.KeyEnter))
	if m.state != statePrompt || !m.prompt.isError {
		t.Fatalf("a failed save should be reported in the prompt, state is %s", m.state)
	}
	if m.session.Filename() != "" {
		t.Fatal("a failed save must not bind the session")
	}
}

func TestQuitConfirmation(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(keyPress(tea.KeyCtrlQ))
	if cmd == nil || cmd() != tea.Quit() {
		t.Fatal("an empty buffer should quit without asking")
	}
	m = next.(Model)

	m = typeText(m, "unsaved")
	m = update(m, keyPress(tea.KeyCtrlQ))
	if m.state != stateConfirm || m.confirm.pending != actionQuit {
		t.Fatalf("expected a confirmation, state is %s", m.state)
	}
	m = update(m, keyPress(tea.KeyEsc))
	if m.state != stateEditing || m.editor.Value() != "unsaved" {
		t.Fatalf("cancel should return to the text, state is %s", m.state)
	}

	// yes asks for a path; cancelling that path cancels quitting too
	m = update(m, keyPress(tea.KeyCtrlQ), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if m.state != statePrompt || m.after != actionQuit {
		t.Fatalf("expected a save as prompt before quitting, state is %s", m.state)
	}
	next, cmd = m.Update(keyPress(tea.KeyEsc))
	m = next.(Model)
	if cmd != nil || m.after != actionNone {
		t.Fatal("cancelling the save should not quit")
	}

	m = update(m, keyPress(tea.KeyCtrlQ))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if cmd == nil || cmd() != tea.Quit() {
		t.Fatal("answering no should quit without saving")
	}
}

func TestSaveThenQuit(t *testing.T) {
	m, h := newTestModel(t)
	m = typeText(m, "keep me")
	m = update(m, keyPress(tea.KeyCtrlQ), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = typeText(m, filepath.Join(h.dir, "kept.txt"))

	next, cmd := m.Update(keyPress(tea.KeyEnter))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected commands after saving")
	}
	raw, err := ioutil.ReadFile(filepath.Join(h.dir, "kept.txt"))
	if err != nil || string(raw) != "keep me" {
		t.Fatalf("expected the text on disk, got %q (%v)", raw, err)
	}
	if m.session.Autosave.Current(autosave.TickMsg{}) {
		t.Fatal("quitting should stop autosave")
	}
}

func TestNewClearsBoundDocument(t *testing.T) {
	m, h := newTestModel(t)
	path := filepath.Join(h.dir, "doc.txt")
	if err := ioutil.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := m.OpenFile(path); err != nil {
		t.Fatal(err)
	}
	m = typeText(m, "more ")

	// bound documents are autosaved, so no confirmation
	m = update(m, keyPress(tea.KeyCtrlN))
	if m.state != stateEditing || m.editor.Value() != "" {
		t.Fatalf("expected an empty document, state is %s", m.state)
	}
	if m.session.Filename() != "" || m.session.Autosave.State() != autosave.Idle {
		t.Fatal("new should unbind the file")
	}
	if m.session.Title() != session.Untitled+" - "+session.AppName {
		t.Fatalf("unexpected title %q", m.session.Title())
	}
}

func TestOpenPrompt(t *testing.T) {
	m, h := newTestModel(t)
	path := filepath.Join(h.dir, "notes.md")
	if err := ioutil.WriteFile(path, []byte("# notes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m = update(m, keyPress(tea.KeyCtrlO))
	if m.state != statePrompt || m.prompt.kind != promptOpen {
		t.Fatalf("expected an open prompt, state is %s", m.state)
	}
	m = typeText(m, filepath.Join(h.dir, "nope.md"))
	m = update(m, keyPress(tea.KeyEnter))
	if m.state != statePrompt || !m.prompt.isError {
		t.Fatal("opening a missing file should report an error and keep the prompt")
	}

	m.prompt.input.SetValue(path)
	m = update(m, keyPress(tea.KeyEnter))
	if m.state != stateEditing || m.editor.Value() != "# notes\n" {
		t.Fatalf("expected the file loaded, state is %s", m.state)
	}
	if m.modified() || m.session.Filename() != path {
		t.Fatalf("expected a clean buffer bound to %s", path)
	}
}

func TestPromptSuggestions(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(m, keyPress(tea.KeyCtrlO))
	m.prompt.cwd = "/work"
	m.prompt.candidates = []string{"notes/todo.txt", "readme.md", "notes/ideas.md"}
	m = typeText(m, "nts")
	got := m.prompt.suggestions()
	if len(got) != 2 {
		t.Fatalf("expected the two notes files, got %v", got)
	}
	m = update(m, keyPress(tea.KeyDown), keyPress(tea.KeyTab))
	if m.prompt.input.Value() != got[1] {
		t.Fatalf("tab should complete the selected suggestion %q, got %q", got[1], m.prompt.input.Value())
	}
}

func TestInsertDateTime(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeText(m, "at ")
	m = update(m, keyPress(tea.KeyCtrlD))
	if want := "at 2021-07-01 15:04:05"; m.editor.Value() != want {
		t.Fatalf("expected %q but got %q", want, m.editor.Value())
	}
}

func TestWebSearchSelection(t *testing.T) {
	m, h := newTestModel(t)
	m.editor.SetValue("fish & chips")

	_, cmd := m.Update(keyPress(tea.KeyCtrlE))
	if cmd != nil {
		t.Fatal("searching without a selection should do nothing")
	}

	m = update(m, keyPress(tea.KeyCtrlA))
	_, cmd = m.Update(keyPress(tea.KeyCtrlE))
	if cmd == nil {
		t.Fatal("expected a search command")
	}
	m = update(m, cmd())
	if len(h.opened) != 1 || h.opened[0] != websearch.DefaultPrefix+"fish+%26+chips" {
		t.Fatalf("unexpected urls opened %v", h.opened)
	}
	if !strings.HasPrefix(m.statusMessage, "Opened ") {
		t.Fatalf("unexpected status %q", m.statusMessage)
	}
}

func TestAutosaveTick(t *testing.T) {
	m, h := newTestModel(t)
	path := filepath.Join(h.dir, "auto.txt")
	if err := m.session.SaveAs(path, "first"); err != nil {
		t.Fatal(err)
	}
	m.editor.SetValue("second\n")
	m = typeText(m, "!")

	m = update(m, autosave.TickMsg{Generation: 0, Time: time.Now()})
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "!second" {
		t.Fatalf("expected the autosaved buffer on disk, got %q", raw)
	}
	if m.modified() {
		t.Fatal("an autosave should leave the buffer clean")
	}

	// stale ticks are ignored
	m.session.Autosave.Stop()
	m = typeText(m, "?")
	m = update(m, autosave.TickMsg{Generation: 0, Time: time.Now()})
	if raw, _ := ioutil.ReadFile(path); string(raw) != "!second" {
		t.Fatalf("a stale tick must not write, got %q", raw)
	}
}

func TestExternalChangeNotice(t *testing.T) {
	m, h := newTestModel(t)
	path := filepath.Join(h.dir, "watched.txt")
	if err := m.session.SaveAs(path, "x"); err != nil {
		t.Fatal(err)
	}

	m = update(m, fileChangedMsg{Path: filepath.Join(h.dir, "other.txt")})
	if m.statusMessage != "" {
		t.Fatalf("events for other files should be ignored, got %q", m.statusMessage)
	}
	m = update(m, fileChangedMsg{Path: m.session.Filename()})
	if !strings.Contains(m.statusMessage, "watched.txt changed on disk") {
		t.Fatalf("unexpected status %q", m.statusMessage)
	}
	m = update(m, statusMessageTimeoutMsg{})
	if m.statusMessage != "" {
		t.Fatal("the status message should time out")
	}
}

func TestViewHeight(t *testing.T) {
	m, _ := newTestModel(t)
	m.editor.SetValue(strings.Repeat("line\n", 50))

	if got := strings.Count(m.View(), "\n") + 1; got != 24 {
		t.Fatalf("expected the editing view to fill 24 lines, got %d", got)
	}
	m = update(m, keyPress(tea.KeyCtrlF))
	if got := strings.Count(m.View(), "\n") + 1; got != 24 {
		t.Fatalf("expected the find view to fill 24 lines, got %d", got)
	}
}
