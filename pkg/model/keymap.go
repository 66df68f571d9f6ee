package model

import (
	"github.com/byxorna/notepad/pkg/editor"
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines the application's menu bindings. To work for help it must
// satisfy key.Map. Editing keys are owned by the editor widget.
type keyMap struct {
	New     key.Binding
	Open    key.Binding
	Save    key.Binding
	SaveAs  key.Binding
	Quit    key.Binding
	Find    key.Binding
	Replace key.Binding
	Date    key.Binding
	Search  key.Binding
	Preview key.Binding
	Help    key.Binding

	edit editor.KeyMap
}

// ShortHelp returns keybindings to be shown in the mini help view. It's part
// of the key.Map interface.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Find, k.Replace, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view. It's part of the
// key.Map interface.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Open, k.Save, k.SaveAs, k.Quit},
		{k.edit.Undo, k.edit.Redo, k.edit.Cut, k.edit.Copy, k.edit.Paste},
		{k.edit.SelectAll, k.Date, k.Find, k.Replace, k.Search},
		{k.Preview, k.Help},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		New: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new"),
		),
		Open: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		// terminals can't tell ctrl+shift+s from ctrl+s
		SaveAs: key.NewBinding(
			key.WithKeys("alt+s"),
			key.WithHelp("alt+s", "save as"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "exit"),
		),
		Find: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "find"),
		),
		// ctrl+h arrives as backspace on most terminals
		Replace: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "replace"),
		),
		Date: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "date/time"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "search the web"),
		),
		Preview: key.NewBinding(
			key.WithKeys("alt+p"),
			key.WithHelp("alt+p", "markdown preview"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		edit: editor.DefaultKeyMap(),
	}
}
