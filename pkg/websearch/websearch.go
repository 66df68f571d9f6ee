// Package websearch looks up selected text with a web search engine.
package websearch

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

const DefaultPrefix = "https://www.bing.com/search?q="

var ErrNoSelection = fmt.Errorf("no text selected")

// Searcher builds search URLs and hands them to the desktop browser.
type Searcher struct {
	Prefix string
	// RawQuery appends the selection to Prefix as is, without percent
	// encoding. Queries containing '&', '#' or spaces then produce broken
	// URLs.
	RawQuery bool

	// Launch opens url, defaulting to the platform opener.
	Launch func(url string) error
}

func New(prefix string, rawQuery bool) *Searcher {
	return &Searcher{Prefix: prefix, RawQuery: rawQuery, Launch: Open}
}

// URL returns the search URL for query.
func (s *Searcher) URL(query string) string {
	if s.RawQuery {
		return s.Prefix + query
	}
	return s.Prefix + url.QueryEscape(query)
}

// Search opens a browser on the results for selection. An empty selection is
// rejected with ErrNoSelection.
func (s *Searcher) Search(selection string) (string, error) {
	if strings.TrimSpace(selection) == "" {
		return "", ErrNoSelection
	}
	u := s.URL(selection)
	launch := s.Launch
	if launch == nil {
		launch = Open
	}
	if err := launch(u); err != nil {
		return u, fmt.Errorf("unable to open browser: %w", err)
	}
	return u, nil
}

// Open starts the platform's URL handler without waiting for it.
func Open(u string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{u}
	case "windows":
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", u}
	default:
		cmd = "xdg-open"
		args = []string{u}
	}

	return exec.Command(cmd, args...).Start()
}
