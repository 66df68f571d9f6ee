package model

import (
	"fmt"
	"strings"

	"github.com/byxorna/notepad/pkg/text"
	"github.com/byxorna/notepad/pkg/ui"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const queryCharacterLimit = 256

type findAction int

const (
	findNone findAction = iota
	findClose
	findDown
	findUp
	findEverything
)

type findKeyMap struct {
	Down, Up, All   key.Binding
	MatchCase       key.Binding
	MatchDiacritics key.Binding
	Close           key.Binding
}

func defaultFindKeyMap() findKeyMap {
	return findKeyMap{
		Down:            key.NewBinding(key.WithKeys("enter", "down"), key.WithHelp("enter/↓", "find down")),
		Up:              key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "find up")),
		All:             key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "find all")),
		MatchCase:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "match case")),
		MatchDiacritics: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "match diacritics")),
		Close:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// findModel is the find dialog. The search cursor itself lives in the
// session; the dialog only holds what the user typed and toggled.
type findModel struct {
	common *commonModel
	keys   findKeyMap
	input  textinput.Model

	matchCase       bool
	matchDiacritics bool

	message string
	isError bool
}

func newFindModel(common *commonModel) *findModel {
	ti := textinput.New()
	ti.Prompt = common.styles.Prompt
	ti.Placeholder = "text to find"
	ti.CharLimit = queryCharacterLimit

	return &findModel{
		common:          common,
		keys:            defaultFindKeyMap(),
		input:           ti,
		matchDiacritics: true,
	}
}

func (f *findModel) open() tea.Cmd {
	f.message = ""
	f.isError = false
	f.input.Focus()
	f.input.CursorEnd()
	return textinput.Blink
}

func (f *findModel) setSize(w int) {
	f.input.Width = w - 6
}

// comparator builds the rune comparison for the current toggles.
func (f *findModel) comparator() text.Comparator {
	return text.NewComparator(f.matchCase, f.matchDiacritics)
}

func (f *findModel) query() string { return f.input.Value() }

func (f *findModel) setMessage(msg string, isError bool) {
	f.message = msg
	f.isError = isError
}

func (f *findModel) update(msg tea.KeyMsg) (findAction, tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.Close):
		f.input.Blur()
		return findClose, nil
	case key.Matches(msg, f.keys.Down):
		return findDown, nil
	case key.Matches(msg, f.keys.Up):
		return findUp, nil
	case key.Matches(msg, f.keys.All):
		return findEverything, nil
	case key.Matches(msg, f.keys.MatchCase):
		f.matchCase = !f.matchCase
		return findNone, nil
	case key.Matches(msg, f.keys.MatchDiacritics):
		f.matchDiacritics = !f.matchDiacritics
		return findNone, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return findNone, cmd
}

func (f *findModel) view() string {
	s := f.common.styles
	var b strings.Builder
	fmt.Fprintln(&b, s.DialogTitle.Render("Find"))
	fmt.Fprintln(&b, f.input.View())
	fmt.Fprintf(&b, "%s  %s\n",
		checkbox(s, "Match case", f.matchCase),
		checkbox(s, "Match diacritics", f.matchDiacritics))
	fmt.Fprint(&b, dialogMessage(s, f.message, f.isError))
	return dialogView(f.common, b.String(), f.keys.Down, f.keys.Up, f.keys.All, f.keys.MatchCase, f.keys.MatchDiacritics, f.keys.Close)
}

func checkbox(s ui.Styles, label string, on bool) string {
	if on {
		return s.DialogActive.Render("[x] " + label)
	}
	return s.DialogOption.Render("[ ] " + label)
}

func dialogMessage(s ui.Styles, msg string, isError bool) string {
	if isError {
		return s.DialogError.Render(msg)
	}
	return s.Dialog.Render(msg)
}
