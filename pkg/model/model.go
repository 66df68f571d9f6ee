// Package model is the bubbletea program of the editor: one text area, its
// dialogs and the status bar.
package model

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/byxorna/notepad/pkg/autosave"
	"github.com/byxorna/notepad/pkg/config"
	"github.com/byxorna/notepad/pkg/editor"
	"github.com/byxorna/notepad/pkg/session"
	"github.com/byxorna/notepad/pkg/text"
	"github.com/byxorna/notepad/pkg/ui"
	"github.com/byxorna/notepad/pkg/websearch"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize/english"
)

// state is the top-level application state.
type state int

const (
	stateEditing state = iota
	stateFind
	stateReplace
	statePrompt
	stateConfirm
	statePreview
)

func (s state) String() string {
	return map[state]string{
		stateEditing: "editing",
		stateFind:    "finding",
		stateReplace: "replacing",
		statePrompt:  "asking for a path",
		stateConfirm: "confirming",
		statePreview: "previewing markdown",
	}[s]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    *config.Config
	styles ui.Styles
	width  int
	height int
}

type Model struct {
	common   *commonModel
	session  *session.Session
	searcher *websearch.Searcher
	keys     keyMap
	help     help.Model
	showHelp bool

	state   state
	editor  *editor.Model
	find    *findModel
	replace *replaceModel
	prompt  *promptModel
	confirm *confirmModel
	preview *previewModel

	// buffer version at the last open or save
	savedVersion int
	// what to do once a save as started from the confirm dialog succeeds
	after pendingAction

	statusMessage      string
	statusIsError      bool
	statusMessageTimer *time.Timer

	initErr error
	now     func() time.Time
}

func New(cfg *config.Config, sess *session.Session, searcher *websearch.Searcher) Model {
	common := &commonModel{
		cfg:    cfg,
		styles: ui.NewStyles(cfg.Theme),
		width:  80,
		height: 24,
	}
	ed := editor.New(common.styles, cfg.TabWidth)

	m := Model{
		common:   common,
		session:  sess,
		searcher: searcher,
		keys:     defaultKeyMap(),
		help:     help.New(),
		editor:   ed,
		find:     newFindModel(common),
		replace:  newReplaceModel(common),
		prompt:   newPromptModel(common),
		confirm:  newConfirmModel(common),
		preview:  newPreviewModel(common),
		now:      time.Now,
	}
	m.savedVersion = ed.Buffer.Version()
	m.setSize()
	return m
}

// OpenFile loads path before the program starts. A failure is shown in the
// status bar once the program runs.
func (m *Model) OpenFile(path string) error {
	content, err := m.session.Open(path)
	if err != nil {
		m.initErr = err
		return err
	}
	m.editor.SetValue(content)
	m.savedVersion = m.editor.Buffer.Version()
	return nil
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle(m.session.Title()),
		waitForFileEvent(m.session.DB.Events()),
	}
	if cmd := m.session.Autosave.Schedule(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.initErr != nil {
		cmds = append(cmds, errCmd(m.initErr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.setSize()
		if m.state == statePreview {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.update(msg)
			return m, cmd
		}
		return m, nil

	case autosave.TickMsg:
		if !m.session.Autosave.Current(msg) {
			return m, nil
		}
		version := m.editor.Buffer.Version()
		if res, ok := m.session.Autosave.Tick(msg, m.editor.Value()); ok && res.Err == nil {
			m.savedVersion = version
		}
		return m, m.session.Autosave.Schedule()

	case fileChangedMsg:
		cmds := []tea.Cmd{waitForFileEvent(m.session.DB.Events())}
		if msg.Path != m.session.Filename() {
			return m, tea.Batch(cmds...)
		}
		if msg.Err != nil {
			cmds = append(cmds, m.showStatusMessage(fmt.Sprintf("Watching %s failed: %v", filepath.Base(msg.Path), msg.Err), true))
		} else {
			cmds = append(cmds, m.showStatusMessage(fmt.Sprintf("%s %s changed on disk", text.EmojiThinking, filepath.Base(msg.Path)), false))
		}
		return m, tea.Batch(cmds...)

	case statusMessageTimeoutMsg:
		m.statusMessage = ""
		m.statusIsError = false
		return m, nil

	case initLocalFileSearchMsg:
		m.prompt.startSearch(msg)
		return m, findNextLocalFile(msg.ch)

	case foundLocalFileMsg:
		m.prompt.addCandidate(msg)
		return m, findNextLocalFile(msg.ch)

	case localFileSearchFinished:
		return m, nil

	case webSearchMsg:
		switch {
		case errors.Is(msg.err, websearch.ErrNoSelection):
			return m, nil
		case msg.err != nil:
			return m, m.showStatusMessage(msg.err.Error(), true)
		}
		return m, m.showStatusMessage("Opened "+msg.url, false)

	case contentRenderedMsg:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.update(msg)
		return m, cmd

	case errMsg:
		log.Printf("error: %v", msg)
		return m, m.showStatusMessage(text.EmojiFailed+" "+msg.Error(), true)
	}

	// cursor blinks and the like go to whatever input has focus
	return m, m.updateFocusedInput(msg)
}

func (m Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.state {
	case stateFind:
		m.find.input, cmd = m.find.input.Update(msg)
	case stateReplace:
		if m.replace.focus == 0 {
			m.replace.find, cmd = m.replace.find.Update(msg)
		} else {
			m.replace.replacement, cmd = m.replace.replacement.Update(msg)
		}
	case statePrompt:
		m.prompt.input, cmd = m.prompt.input.Update(msg)
	case statePreview:
		m.preview, cmd = m.preview.update(msg)
	}
	return cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateFind:
		return m.updateFind(msg)
	case stateReplace:
		return m.updateReplace(msg)
	case statePrompt:
		return m.updatePrompt(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	case statePreview:
		if key.Matches(msg, m.preview.keys.Close) {
			m.state = stateEditing
			m.preview.unload()
			return m, nil
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.guard(actionQuit)
	case key.Matches(msg, m.keys.New):
		return m.guard(actionNew)
	case key.Matches(msg, m.keys.Open):
		return m.guard(actionOpen)
	case key.Matches(msg, m.keys.Save):
		return m.saveThen(actionNone)
	case key.Matches(msg, m.keys.SaveAs):
		return m.openPrompt(promptSaveAs, actionNone)
	case key.Matches(msg, m.keys.Find):
		m.session.StartSearch(0)
		m.state = stateFind
		return m, m.find.open()
	case key.Matches(msg, m.keys.Replace):
		m.state = stateReplace
		return m, m.replace.open()
	case key.Matches(msg, m.keys.Date):
		m.editor.Buffer.Insert(m.now().Format(m.common.cfg.DateTimeFormat))
		return m, nil
	case key.Matches(msg, m.keys.Search):
		sel := m.editor.Buffer.SelectedText()
		if sel == "" {
			return m, nil
		}
		return m, webSearchCmd(m.searcher, sel)
	case key.Matches(msg, m.keys.Preview):
		m.state = statePreview
		m.setSize()
		return m, m.preview.show(m.editor.Value())
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// guard runs a asking first whether to save text that was never saved.
func (m Model) guard(a pendingAction) (Model, tea.Cmd) {
	if m.session.NeedsConfirmation(m.editor.Value()) {
		m.confirm.ask(a)
		m.state = stateConfirm
		return m, nil
	}
	return m.perform(a)
}

func (m Model) perform(a pendingAction) (Model, tea.Cmd) {
	m.after = actionNone
	switch a {
	case actionNew:
		m.session.New()
		m.session.EndSearch()
		m.editor.SetValue("")
		m.savedVersion = m.editor.Buffer.Version()
		return m, tea.SetWindowTitle(m.session.Title())
	case actionOpen:
		return m.openPrompt(promptOpen, actionNone)
	case actionQuit:
		m.session.Autosave.Stop()
		if err := m.session.DB.Close(); err != nil {
			log.Printf("error closing store: %v", err)
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	a := m.confirm.pending
	switch m.confirm.update(msg) {
	case answerYes:
		m.state = stateEditing
		return m.saveThen(a)
	case answerNo:
		m.state = stateEditing
		return m.perform(a)
	case answerCancel:
		m.state = stateEditing
	}
	return m, nil
}

// saveThen saves to the bound file, asking for a path when there is none,
// and continues with a once the text is on disk.
func (m Model) saveThen(a pendingAction) (Model, tea.Cmd) {
	err := m.session.Save(m.editor.Value())
	if errors.Is(err, session.ErrNoFilename) {
		return m.openPrompt(promptSaveAs, a)
	}
	if err != nil {
		return m, m.showStatusMessage(text.EmojiFailed+" "+err.Error(), true)
	}
	m.savedVersion = m.editor.Buffer.Version()
	status := m.showStatusMessage(fmt.Sprintf("%s Saved %s", text.EmojiSaved, filepath.Base(m.session.Filename())), false)
	next, cmd := m.perform(a)
	return next, tea.Batch(status, cmd)
}

func (m Model) openPrompt(kind promptKind, after pendingAction) (Model, tea.Cmd) {
	m.after = after
	m.state = statePrompt
	value := ""
	if kind == promptSaveAs {
		value = defaultPromptValue(m.session.Filename())
	}
	return m, m.prompt.open(kind, value)
}

func (m Model) updatePrompt(msg tea.KeyMsg) (Model, tea.Cmd) {
	action, cmd := m.prompt.update(msg)
	switch action {
	case promptClose:
		// cancelling a save as also cancels what it was saving for
		m.state = stateEditing
		m.after = actionNone
		return m, nil
	case promptAccept:
		return m.acceptPrompt()
	}
	return m, cmd
}

func (m Model) acceptPrompt() (Model, tea.Cmd) {
	path := m.prompt.value()

	switch m.prompt.kind {
	case promptOpen:
		content, err := m.session.Open(path)
		if err != nil {
			m.prompt.setMessage(err.Error(), true)
			return m, nil
		}
		m.state = stateEditing
		m.session.EndSearch()
		m.editor.SetValue(content)
		m.savedVersion = m.editor.Buffer.Version()
		return m, tea.Batch(
			tea.SetWindowTitle(m.session.Title()),
			m.showStatusMessage("Opened "+filepath.Base(m.session.Filename()), false),
		)

	case promptSaveAs:
		if err := m.session.SaveAs(path, m.editor.Value()); err != nil {
			m.prompt.setMessage(err.Error(), true)
			return m, nil
		}
		m.state = stateEditing
		m.savedVersion = m.editor.Buffer.Version()
		cmds := []tea.Cmd{
			tea.SetWindowTitle(m.session.Title()),
			m.showStatusMessage(fmt.Sprintf("%s Saved %s", text.EmojiSaved, filepath.Base(m.session.Filename())), false),
		}
		next, cmd := m.perform(m.after)
		return next, tea.Batch(append(cmds, cmd)...)
	}
	return m, nil
}

func (m Model) updateFind(msg tea.KeyMsg) (Model, tea.Cmd) {
	action, cmd := m.find.update(msg)
	switch action {
	case findClose:
		m.state = stateEditing
		m.session.EndSearch()
		m.editor.ClearHighlights()
	case findDown:
		m.findNext(text.Forward)
	case findUp:
		m.findNext(text.Backward)
	case findEverything:
		m.findAll()
	}
	return m, cmd
}

func (m Model) searchState() *text.SearchState {
	s := m.session.Search
	if s == nil {
		s = m.session.StartSearch(0)
	}
	s.Query = m.find.query()
	s.Compare = m.find.comparator()
	return s
}

func (m Model) findNext(dir text.Direction) {
	m.editor.ClearHighlights()
	match, err := m.searchState().Next(m.editor.Value(), dir)
	switch {
	case errors.Is(err, text.ErrEmptyQuery):
		m.find.setMessage("Empty search query.", true)
	case err != nil:
		m.find.setMessage("No match found.", true)
	default:
		m.editor.Buffer.Select(match)
		m.find.setMessage("", false)
	}
}

func (m Model) findAll() {
	m.editor.ClearHighlights()
	matches, err := m.searchState().All(m.editor.Value())
	switch {
	case errors.Is(err, text.ErrEmptyQuery):
		m.find.setMessage("Empty search query.", true)
	case err != nil:
		m.find.setMessage("No matches found.", true)
	default:
		m.editor.SetHighlights(matches)
		m.find.setMessage(fmt.Sprintf("%s highlighted.", english.Plural(len(matches), "match", "matches")), false)
	}
}

func (m Model) updateReplace(msg tea.KeyMsg) (Model, tea.Cmd) {
	action, cmd := m.replace.update(msg)
	query := m.replace.find.Value()
	replacement := m.replace.replacement.Value()

	switch action {
	case replaceClose:
		m.state = stateEditing

	case replaceOnce:
		if query == "" {
			m.replace.setMessage("Empty search query.", true)
			return m, cmd
		}
		out, match, ok := text.ReplaceOneFunc(m.editor.Value(), query, replacement, m.replace.comparator())
		if !ok {
			m.replace.setMessage("The text you want to replace was not found.", true)
			return m, cmd
		}
		m.editor.Buffer.ReplaceText(out)
		m.editor.Buffer.Select(match)
		m.replace.setMessage("", false)

	case replaceEverything:
		if query == "" {
			m.replace.setMessage("Empty search query.", true)
			return m, cmd
		}
		out, n := text.ReplaceAllFunc(m.editor.Value(), query, replacement, m.replace.comparator())
		m.editor.Buffer.ReplaceText(out)
		m.state = stateEditing
		if n == 0 {
			return m, m.showStatusMessage("No matches found.", false)
		}
		return m, m.showStatusMessage(fmt.Sprintf("Replaced %s.", english.Plural(n, "occurrence", "occurrences")), false)
	}
	return m, cmd
}

func (m Model) modified() bool {
	return m.editor.Buffer.Version() != m.savedVersion
}

// setSize passes the window size on to the children. The editor height is
// settled in View, once the dialog's height is known.
func (m Model) setSize() {
	w, h := m.common.width, m.common.height
	m.find.setSize(w)
	m.replace.setSize(w)
	m.prompt.setSize(w)
	m.preview.setSize(w, max(0, h-titleBarHeight-statusBarHeight))
	m.editor.SetSize(w, max(1, h-titleBarHeight-statusBarHeight))
}

func (m Model) dialogView() string {
	switch m.state {
	case stateFind:
		return m.find.view()
	case stateReplace:
		return m.replace.view()
	case statePrompt:
		return m.prompt.view()
	case stateConfirm:
		return m.confirm.view()
	}
	return ""
}

func (m Model) helpView() string {
	m.help.Width = m.common.width
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintln(&b, m.titleBarView())

	if m.state == statePreview {
		fmt.Fprintln(&b, m.preview.view())
		fmt.Fprint(&b, m.statusBarView())
		return b.String()
	}

	footer := m.dialogView()
	if footer == "" {
		footer = m.helpView()
	}
	m.editor.SetSize(m.common.width, max(1, m.common.height-titleBarHeight-statusBarHeight-dialogHeight(footer)))

	fmt.Fprintln(&b, m.editor.View())
	fmt.Fprintln(&b, footer)
	fmt.Fprint(&b, m.statusBarView())
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
