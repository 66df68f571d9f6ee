// Package session holds the state of the one document being edited: the
// bound file, the autosave policy and the find dialog's search state.
package session

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/byxorna/notepad/pkg/autosave"
	"github.com/byxorna/notepad/pkg/db"
	"github.com/byxorna/notepad/pkg/text"
	"github.com/byxorna/notepad/pkg/types/v1"
)

const (
	AppName  = "Cortex Notepad"
	Untitled = "Untitled"
)

var (
	ErrNoFilename = fmt.Errorf("no file name bound, use save as")
	ErrEmptyPath  = fmt.Errorf("no path given")
)

type Options struct {
	AutosaveInterval time.Duration
	TrimOnSave       bool
	DefaultExtension string
}

type Session struct {
	DB       db.DB
	Autosave *autosave.Policy

	// Search is the find dialog's state, nil while the dialog is closed.
	Search *text.SearchState

	LastSaved time.Time

	filename   string
	trim       bool
	defaultExt string
}

func New(store db.DB, opts Options) *Session {
	s := &Session{
		DB:         store,
		trim:       opts.TrimOnSave,
		defaultExt: opts.DefaultExtension,
	}
	s.Autosave = autosave.New(opts.AutosaveInterval, s.write)
	return s
}

func (s *Session) Filename() string { return s.filename }

// Title is the window title for the current document.
func (s *Session) Title() string {
	name := s.filename
	if name == "" {
		name = Untitled
	}
	return fmt.Sprintf("%s - %s", name, AppName)
}

// Prepare returns what gets written to disk for buffer: surrounding
// whitespace is stripped exactly once per save.
func (s *Session) Prepare(buffer string) string {
	if !s.trim {
		return buffer
	}
	return strings.TrimSpace(buffer)
}

// Open reads path and binds the session to it. On failure the session is
// left untouched.
func (s *Session) Open(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	doc, err := s.DB.Load(path)
	if err != nil {
		return "", err
	}
	s.bind(doc.Path)
	s.LastSaved = time.Time{}
	return doc.Content, nil
}

// Save writes buffer to the bound file. Without one it returns
// ErrNoFilename and the caller should ask for a path.
func (s *Session) Save(buffer string) error {
	if s.filename == "" {
		return ErrNoFilename
	}
	if err := s.write(s.filename, buffer); err != nil {
		return err
	}
	s.LastSaved = time.Now()
	return nil
}

// SaveAs writes buffer to path, adding the default extension when path has
// none, and binds the session to it.
func (s *Session) SaveAs(path, buffer string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrEmptyPath
	}
	if filepath.Ext(path) == "" && s.defaultExt != "" {
		path += s.defaultExt
	}
	doc := &v1.Document{Path: path, Content: s.Prepare(buffer)}
	if err := s.DB.Store(doc); err != nil {
		return fmt.Errorf("unable to save %s: %w", path, err)
	}
	s.bind(doc.Path)
	s.LastSaved = time.Now()
	return nil
}

// New forgets the bound file; autosave goes back to idle.
func (s *Session) New() {
	s.filename = ""
	s.LastSaved = time.Time{}
	s.Autosave.Unbind()
	if err := s.DB.Close(); err != nil {
		log.Printf("error closing watcher: %v", err)
	}
}

// NeedsConfirmation reports whether discarding buffer should be confirmed
// first: there is text and nowhere it was saved to.
func (s *Session) NeedsConfirmation(buffer string) bool {
	return strings.TrimSpace(buffer) != "" && s.filename == ""
}

// StartSearch opens a new find session. An existing one keeps its query but
// restarts from offset.
func (s *Session) StartSearch(offset int) *text.SearchState {
	if s.Search == nil {
		s.Search = text.NewSearchState()
	}
	s.Search.Reset(offset)
	return s.Search
}

// EndSearch discards the find session.
func (s *Session) EndSearch() { s.Search = nil }

func (s *Session) bind(path string) {
	s.filename = path
	s.Autosave.Bind(path)
	if err := s.DB.Watch(path); err != nil {
		log.Printf("unable to watch %s: %v", path, err)
	}
}

func (s *Session) write(path, buffer string) error {
	doc := &v1.Document{Path: path, Content: s.Prepare(buffer)}
	if err := s.DB.Store(doc); err != nil {
		return fmt.Errorf("unable to save %s: %w", path, err)
	}
	return nil
}
