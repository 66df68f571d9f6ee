package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// dialogView frames a dialog body above the status bar and appends a help
// line for its bindings.
func dialogView(common *commonModel, body string, bindings ...key.Binding) string {
	h := help.New()
	h.Width = common.width - 2
	h.ShortSeparator = " · "

	s := common.styles
	content := strings.TrimRight(body, "\n") + "\n" + h.ShortHelpView(bindings)
	return s.Dialog.Copy().
		Width(max(0, common.width)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(s.DialogTitle.GetForeground()).
		Render(content)
}

// dialogHeight is how many lines a dialog view takes.
func dialogHeight(view string) int {
	if view == "" {
		return 0
	}
	return strings.Count(view, "\n") + 1
}
