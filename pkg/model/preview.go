package model

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

type contentRenderedMsg string

type previewKeyMap struct {
	Top    key.Binding
	Bottom key.Binding
	Close  key.Binding
}

// previewModel pages through the buffer rendered as markdown.
type previewModel struct {
	common   *commonModel
	keys     previewKeyMap
	viewport viewport.Model

	// markdown being rendered, kept so it can be re-rendered on resize
	source string
}

func newPreviewModel(common *commonModel) *previewModel {
	return &previewModel{
		common:   common,
		viewport: viewport.New(0, 0),
		keys: previewKeyMap{
			Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g/home", "top")),
			Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "bottom")),
			Close:  key.NewBinding(key.WithKeys("esc", "q", "alt+p"), key.WithHelp("esc", "back to editing")),
		},
	}
}

func (m *previewModel) setSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = h
}

// show starts rendering markdown; the content arrives as contentRenderedMsg.
func (m *previewModel) show(markdown string) tea.Cmd {
	m.source = markdown
	m.viewport.SetContent("")
	m.viewport.GotoTop()
	return renderWithGlamour(m, markdown)
}

func (m *previewModel) unload() {
	m.source = ""
	m.viewport.SetContent("")
	m.viewport.YOffset = 0
}

func (m *previewModel) update(msg tea.Msg) (*previewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}

	case contentRenderedMsg:
		m.viewport.SetContent(string(msg))
		return m, nil

	// We've received terminal dimensions after a resize
	case tea.WindowSizeMsg:
		return m, renderWithGlamour(m, m.source)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *previewModel) view() string {
	return m.viewport.View()
}

// COMMANDS

func renderWithGlamour(m *previewModel, md string) tea.Cmd {
	width := m.viewport.Width
	return func() tea.Msg {
		s, err := glamourRender(width, md)
		if err != nil {
			log.Println("error rendering with Glamour:", err)
			return errMsg{err}
		}
		return contentRenderedMsg(s)
	}
}

// This is where the magic happens.
func glamourRender(width int, markdown string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(max(0, width)))
	if err != nil {
		return "", err
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", err
	}

	// trim lines
	lines := strings.Split(out, "\n")

	var content string
	for i, s := range lines {
		content += strings.TrimSpace(s)

		// don't add an artificial newline after the last split
		if i+1 < len(lines) {
			content += "\n"
		}
	}

	return content, nil
}
