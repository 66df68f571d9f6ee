package model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// pendingAction is what runs once unsaved text has been dealt with.
type pendingAction int

const (
	actionNone pendingAction = iota
	actionNew
	actionOpen
	actionQuit
)

func (a pendingAction) String() string {
	return map[pendingAction]string{
		actionNone: "continuing",
		actionNew:  "starting a new document",
		actionOpen: "opening another file",
		actionQuit: "exiting",
	}[a]
}

type confirmAnswer int

const (
	answerNone confirmAnswer = iota
	answerYes
	answerNo
	answerCancel
)

type confirmKeyMap struct {
	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
}

// confirmModel asks whether to save unsaved text before a pending action.
type confirmModel struct {
	common  *commonModel
	keys    confirmKeyMap
	pending pendingAction
}

func newConfirmModel(common *commonModel) *confirmModel {
	return &confirmModel{
		common: common,
		keys: confirmKeyMap{
			Yes:    key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "save")),
			No:     key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "don't save")),
			Cancel: key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "cancel")),
		},
	}
}

func (c *confirmModel) ask(a pendingAction) {
	c.pending = a
}

func (c *confirmModel) update(msg tea.KeyMsg) confirmAnswer {
	switch {
	case key.Matches(msg, c.keys.Yes):
		return answerYes
	case key.Matches(msg, c.keys.No):
		return answerNo
	case key.Matches(msg, c.keys.Cancel):
		return answerCancel
	}
	return answerNone
}

func (c *confirmModel) view() string {
	s := c.common.styles
	var b strings.Builder
	fmt.Fprintln(&b, s.DialogTitle.Render("Save?"))
	fmt.Fprint(&b, s.Dialog.Render(fmt.Sprintf("Do you want to save before %s?", c.pending)))
	return dialogView(c.common, b.String(), c.keys.Yes, c.keys.No, c.keys.Cancel)
}
