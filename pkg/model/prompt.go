package model

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/byxorna/notepad/pkg/text"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/gitcha"
)

const (
	maxSuggestions     = 5
	pathCharacterLimit = 4096
)

type promptKind int

const (
	promptOpen promptKind = iota
	promptSaveAs
)

func (k promptKind) String() string {
	return map[promptKind]string{
		promptOpen:   "Open",
		promptSaveAs: "Save As",
	}[k]
}

type promptAction int

const (
	promptNone promptAction = iota
	promptClose
	promptAccept
)

type initLocalFileSearchMsg struct {
	cwd string
	ch  chan gitcha.SearchResult
}
type foundLocalFileMsg struct {
	ch  chan gitcha.SearchResult
	res gitcha.SearchResult
}
type localFileSearchFinished struct{}

type promptKeyMap struct {
	Accept   key.Binding
	Complete key.Binding
	Next     key.Binding
	Prev     key.Binding
	Close    key.Binding
}

func defaultPromptKeyMap() promptKeyMap {
	return promptKeyMap{
		Accept:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ok")),
		Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
		Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// promptModel asks for a file path, suggesting files found below the working
// directory.
type promptModel struct {
	common *commonModel
	keys   promptKeyMap
	input  textinput.Model
	kind   promptKind

	cwd        string
	search     chan gitcha.SearchResult
	candidates []string
	selected   int

	message string
	isError bool
}

func newPromptModel(common *commonModel) *promptModel {
	ti := textinput.New()
	ti.Prompt = common.styles.Prompt
	ti.Placeholder = "path"
	ti.CharLimit = pathCharacterLimit

	return &promptModel{
		common: common,
		keys:   defaultPromptKeyMap(),
		input:  ti,
	}
}

// open shows the prompt prefilled with value and starts looking for
// candidate files.
func (p *promptModel) open(kind promptKind, value string) tea.Cmd {
	p.kind = kind
	p.message = ""
	p.isError = false
	p.selected = 0
	p.candidates = nil
	p.search = nil
	p.input.SetValue(value)
	p.input.CursorEnd()
	return tea.Batch(p.input.Focus(), findLocalFiles(p.common.cfg.OpenPatterns))
}

func (p *promptModel) setSize(w int) {
	p.input.Width = w - 6
}

func (p *promptModel) setMessage(msg string, isError bool) {
	p.message = msg
	p.isError = isError
}

func (p *promptModel) value() string { return strings.TrimSpace(p.input.Value()) }

func (p *promptModel) suggestions() []string {
	s := text.FuzzyFilter(p.input.Value(), p.candidates)
	if len(s) > maxSuggestions {
		s = s[:maxSuggestions]
	}
	return s
}

// startSearch adopts the channel of a new file search; results of older
// searches are drained but not shown.
func (p *promptModel) startSearch(msg initLocalFileSearchMsg) {
	p.cwd = msg.cwd
	p.search = msg.ch
}

func (p *promptModel) addCandidate(msg foundLocalFileMsg) {
	if msg.ch != p.search {
		return
	}
	p.candidates = append(p.candidates, stripAbsolutePath(msg.res.Path, p.cwd))
}

func (p *promptModel) update(msg tea.KeyMsg) (promptAction, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Close):
		p.input.Blur()
		return promptClose, nil
	case key.Matches(msg, p.keys.Accept):
		if p.value() == "" {
			if s := p.suggestions(); len(s) > 0 {
				p.input.SetValue(s[min(p.selected, len(s)-1)])
			}
		}
		return promptAccept, nil
	case key.Matches(msg, p.keys.Complete):
		if s := p.suggestions(); len(s) > 0 {
			p.input.SetValue(s[min(p.selected, len(s)-1)])
			p.input.CursorEnd()
			p.selected = 0
		}
		return promptNone, nil
	case key.Matches(msg, p.keys.Next):
		if n := len(p.suggestions()); n > 0 {
			p.selected = (p.selected + 1) % n
		}
		return promptNone, nil
	case key.Matches(msg, p.keys.Prev):
		if n := len(p.suggestions()); n > 0 {
			p.selected = (p.selected + n - 1) % n
		}
		return promptNone, nil
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.selected = 0
	}
	return promptNone, cmd
}

func (p *promptModel) view() string {
	s := p.common.styles
	var b strings.Builder
	fmt.Fprintln(&b, s.DialogTitle.Render(p.kind.String()))
	fmt.Fprintln(&b, p.input.View())
	for i, sug := range p.suggestions() {
		line := text.TruncateWithTail("  "+sug, uint(max(0, p.common.width-4)), text.Ellipsis)
		if i == p.selected {
			fmt.Fprintln(&b, s.DialogActive.Render(line))
		} else {
			fmt.Fprintln(&b, s.DialogOption.Render(line))
		}
	}
	fmt.Fprint(&b, dialogMessage(s, p.message, p.isError))
	return dialogView(p.common, b.String(), p.keys.Accept, p.keys.Complete, p.keys.Next, p.keys.Prev, p.keys.Close)
}

// COMMANDS

func findLocalFiles(patterns []string) tea.Cmd {
	return func() tea.Msg {
		cwd, err := os.Getwd()
		if err != nil {
			log.Println("error finding local files:", err)
			return errMsg{err}
		}

		var ignore []string // ignore patterns

		ch, err := gitcha.FindFilesExcept(cwd, patterns, ignore)
		if err != nil {
			log.Println("error finding local files:", err)
			return errMsg{err}
		}

		return initLocalFileSearchMsg{ch: ch, cwd: cwd}
	}
}

func findNextLocalFile(ch chan gitcha.SearchResult) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if ok {
			// Okay now find the next one
			return foundLocalFileMsg{ch: ch, res: res}
		}
		// We're done
		log.Println("local file search finished")
		return localFileSearchFinished{}
	}
}

func stripAbsolutePath(fullPath, cwd string) string {
	return strings.Replace(fullPath, cwd+string(os.PathSeparator), "", -1)
}

// defaultPromptValue is what the prompt starts with for the bound filename.
func defaultPromptValue(filename string) string {
	if filename == "" {
		return ""
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filename
	}
	if rel, err := filepath.Rel(cwd, filename); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return filename
}
