package ui

import (
	"github.com/byxorna/notepad/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	te "github.com/muesli/termenv"
)

const (
	DarkGrayHex = "#333333"
	blackHex    = "#000000"
	whiteHex    = "#FFFFFF"
	redHex      = "#FF5F87"
	greenHex    = "#04B575"
)

// Styles are the rendered forms of a config.Theme.
type Styles struct {
	Text         lipgloss.Style
	Cursor       lipgloss.Style
	Selection    lipgloss.Style
	Highlight    lipgloss.Style
	Dim          lipgloss.Style
	MenuBar      lipgloss.Style
	MenuTitle    lipgloss.Style
	StatusBar    lipgloss.Style
	StatusOK     lipgloss.Style
	StatusError  lipgloss.Style
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	DialogError  lipgloss.Style
	DialogOption lipgloss.Style
	DialogActive lipgloss.Style

	Prompt string
}

func NewStyles(t config.Theme) Styles {
	bg := lipgloss.Color(t.Background)
	fg := lipgloss.Color(t.Foreground)
	textBg := lipgloss.Color(t.TextBackground)
	textFg := lipgloss.Color(t.TextForeground)
	dim := lipgloss.Color(Blend(t.TextForeground, t.TextBackground, 0.5))

	return Styles{
		Text:         lipgloss.NewStyle().Foreground(textFg).Background(textBg),
		Cursor:       lipgloss.NewStyle().Foreground(textBg).Background(textFg),
		Selection:    lipgloss.NewStyle().Foreground(lipgloss.Color(Contrast(t.Selection))).Background(lipgloss.Color(t.Selection)),
		Highlight:    lipgloss.NewStyle().Foreground(lipgloss.Color(Contrast(t.Highlight))).Background(lipgloss.Color(t.Highlight)),
		Dim:          lipgloss.NewStyle().Foreground(dim).Background(textBg),
		MenuBar:      lipgloss.NewStyle().Foreground(fg).Background(bg),
		MenuTitle:    lipgloss.NewStyle().Foreground(fg).Background(bg).Bold(true),
		StatusBar:    lipgloss.NewStyle().Foreground(fg).Background(bg),
		StatusOK:     lipgloss.NewStyle().Foreground(lipgloss.Color(whiteHex)).Background(lipgloss.Color(greenHex)),
		StatusError:  lipgloss.NewStyle().Foreground(lipgloss.Color(whiteHex)).Background(lipgloss.Color(redHex)),
		Dialog:       lipgloss.NewStyle().Foreground(fg).Background(bg).Padding(0, 1),
		DialogTitle:  lipgloss.NewStyle().Foreground(fg).Background(bg).Bold(true),
		DialogError:  lipgloss.NewStyle().Foreground(lipgloss.Color(redHex)).Background(bg),
		DialogOption: lipgloss.NewStyle().Foreground(lipgloss.Color(Blend(t.Foreground, t.Background, 0.4))).Background(bg),
		DialogActive: lipgloss.NewStyle().Foreground(lipgloss.Color(Contrast(t.Highlight))).Background(lipgloss.Color(t.Highlight)),

		Prompt: te.String(" > ").
			Foreground(te.ColorProfile().Color(DarkGrayHex)).
			Background(te.ColorProfile().Color(t.Highlight)).
			String() + " ",
	}
}

// Blend mixes two hex colors in Luv space; t=0 gives a.
func Blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendLuv(cb, t).Clamped().Hex()
}

// Contrast picks black or white text for the given background color.
func Contrast(background string) string {
	c, err := colorful.Hex(background)
	if err != nil {
		return whiteHex
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return blackHex
	}
	return whiteHex
}
