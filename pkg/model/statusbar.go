package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/byxorna/notepad/pkg/autosave"
	"github.com/byxorna/notepad/pkg/session"
	"github.com/byxorna/notepad/pkg/text"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/ansi"
)

const (
	statusBarHeight      = 1
	titleBarHeight       = 1
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "saved"
)

type statusMessageTimeoutMsg struct{}

// showStatusMessage puts msg in the status bar until the timeout passes.
// Note that the returned command must be handed back to the runtime.
func (m *Model) showStatusMessage(msg string, isError bool) tea.Cmd {
	m.statusMessage = msg
	m.statusIsError = isError
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(m.statusMessageTimer)
}

func waitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg{}
	}
}

func (m Model) titleBarView() string {
	s := m.common.styles
	title := m.session.Title()
	if m.modified() {
		title = "*" + title
	}
	title = text.TruncateWithTail(" "+text.EmojiNotepad+" "+title, uint(max(0, m.common.width-1)), text.Ellipsis)
	padding := max(0, m.common.width-ansi.PrintableRuneWidth(title))
	return s.MenuTitle.Render(title) + s.MenuBar.Render(strings.Repeat(" ", padding))
}

func (m Model) statusBarView() string {
	s := m.common.styles
	showStatusMessage := m.statusMessage != ""

	// Status indicator
	var indicator string
	switch {
	case m.session.Autosave.LastErr != nil:
		indicator = " " + text.EmojiFailed
	case m.session.Filename() == "":
		indicator = " " + text.EmojiUntitled
	default:
		indicator = " " + text.EmojiSaved
	}

	// Cursor, size and save age
	line, col := m.editor.CursorPosition()
	right := fmt.Sprintf(" Ln %d, Col %d  %s ", line, col, text.Size(len(m.editor.Value())))
	if saved := m.lastSaved(); !saved.IsZero() {
		right += fmt.Sprintf(" saved %s ", text.RelativeTime(saved))
	} else if m.session.Autosave.State() == autosave.Idle {
		right += fmt.Sprintf(" autosave %s ", m.session.Autosave.State())
	}

	// Note
	note := m.session.Filename()
	if note == "" {
		note = session.Untitled
	}
	if showStatusMessage {
		note = m.statusMessage
	}
	note = text.TruncateWithTail(" "+note+" ", uint(max(0,
		m.common.width-
			ansi.PrintableRuneWidth(indicator)-
			ansi.PrintableRuneWidth(right),
	)), text.Ellipsis)

	// Empty space
	padding := max(0,
		m.common.width-
			ansi.PrintableRuneWidth(indicator)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(right),
	)
	emptySpace := strings.Repeat(" ", padding)

	noteStyle := s.StatusBar
	switch {
	case showStatusMessage && m.statusIsError:
		noteStyle = s.StatusError
	case showStatusMessage:
		noteStyle = s.StatusOK
	}

	return s.StatusBar.Render(indicator) +
		noteStyle.Render(note) +
		s.StatusBar.Render(emptySpace) +
		s.StatusBar.Render(right)
}

// lastSaved is the most recent manual or automatic save.
func (m Model) lastSaved() time.Time {
	saved := m.session.LastSaved
	if a := m.session.Autosave.LastSaved; a.After(saved) {
		saved = a
	}
	return saved
}
