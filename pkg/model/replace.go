package model

import (
	"fmt"
	"strings"

	"github.com/byxorna/notepad/pkg/text"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type replaceAction int

const (
	replaceNone replaceAction = iota
	replaceClose
	replaceOnce
	replaceEverything
)

type replaceKeyMap struct {
	One, All    key.Binding
	SwitchFocus key.Binding
	MatchCase   key.Binding
	Close       key.Binding
}

func defaultReplaceKeyMap() replaceKeyMap {
	return replaceKeyMap{
		One:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "replace one")),
		All:         key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "replace all")),
		SwitchFocus: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch field")),
		MatchCase:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "match case")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// replaceModel is the find and replace dialog.
type replaceModel struct {
	common *commonModel
	keys   replaceKeyMap

	find        textinput.Model
	replacement textinput.Model
	focus       int

	matchCase bool

	message string
	isError bool
}

func newReplaceModel(common *commonModel) *replaceModel {
	find := textinput.New()
	find.Prompt = common.styles.Prompt
	find.Placeholder = "find"
	find.CharLimit = queryCharacterLimit

	replacement := textinput.New()
	replacement.Prompt = common.styles.Prompt
	replacement.Placeholder = "replace with"
	replacement.CharLimit = queryCharacterLimit

	return &replaceModel{
		common:      common,
		keys:        defaultReplaceKeyMap(),
		find:        find,
		replacement: replacement,
	}
}

func (r *replaceModel) open() tea.Cmd {
	r.message = ""
	r.isError = false
	r.focus = 0
	r.replacement.Blur()
	r.find.Focus()
	r.find.CursorEnd()
	return textinput.Blink
}

func (r *replaceModel) setSize(w int) {
	r.find.Width = w - 6
	r.replacement.Width = w - 6
}

func (r *replaceModel) comparator() text.Comparator {
	return text.NewComparator(r.matchCase, true)
}

func (r *replaceModel) setMessage(msg string, isError bool) {
	r.message = msg
	r.isError = isError
}

func (r *replaceModel) update(msg tea.KeyMsg) (replaceAction, tea.Cmd) {
	switch {
	case key.Matches(msg, r.keys.Close):
		return replaceClose, nil
	case key.Matches(msg, r.keys.One):
		return replaceOnce, nil
	case key.Matches(msg, r.keys.All):
		return replaceEverything, nil
	case key.Matches(msg, r.keys.MatchCase):
		r.matchCase = !r.matchCase
		return replaceNone, nil
	case key.Matches(msg, r.keys.SwitchFocus):
		r.focus = 1 - r.focus
		if r.focus == 0 {
			r.replacement.Blur()
			return replaceNone, r.find.Focus()
		}
		r.find.Blur()
		return replaceNone, r.replacement.Focus()
	}

	var cmd tea.Cmd
	if r.focus == 0 {
		r.find, cmd = r.find.Update(msg)
	} else {
		r.replacement, cmd = r.replacement.Update(msg)
	}
	return replaceNone, cmd
}

func (r *replaceModel) view() string {
	s := r.common.styles
	var b strings.Builder
	fmt.Fprintln(&b, s.DialogTitle.Render("Find and Replace"))
	fmt.Fprintln(&b, r.find.View())
	fmt.Fprintln(&b, r.replacement.View())
	fmt.Fprintln(&b, checkbox(s, "Match case", r.matchCase))
	fmt.Fprint(&b, dialogMessage(s, r.message, r.isError))
	return dialogView(r.common, b.String(), r.keys.One, r.keys.All, r.keys.SwitchFocus, r.keys.MatchCase, r.keys.Close)
}
