package model

import (
	"errors"
	"log"

	"github.com/byxorna/notepad/pkg/db"
	"github.com/byxorna/notepad/pkg/websearch"
	tea "github.com/charmbracelet/bubbletea"
)

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// fileChangedMsg is sent when the bound file is written by another program.
type fileChangedMsg db.Event

type webSearchMsg struct {
	url string
	err error
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return errMsg{err} }
}

// waitForFileEvent blocks on the store's watcher; every fileChangedMsg must
// be answered with a new waitForFileEvent to keep listening.
func waitForFileEvent(ch <-chan db.Event) tea.Cmd {
	return func() tea.Msg {
		return fileChangedMsg(<-ch)
	}
}

func webSearchCmd(s *websearch.Searcher, selection string) tea.Cmd {
	return func() tea.Msg {
		u, err := s.Search(selection)
		if err != nil && !errors.Is(err, websearch.ErrNoSelection) {
			log.Printf("web search for %q failed: %v", selection, err)
		}
		return webSearchMsg{url: u, err: err}
	}
}
