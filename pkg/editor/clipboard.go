package editor

import (
	"log"

	"github.com/atotto/clipboard"
)

// Clipboard is where cut and copied text goes.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(string) error
}

// SystemClipboard uses the OS clipboard and falls back to an in-process one
// when no clipboard utility is available (e.g. a headless ssh session).
type SystemClipboard struct {
	fallback string
}

func (c *SystemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return c.fallback, nil
	}
	s, err := clipboard.ReadAll()
	if err != nil {
		log.Printf("system clipboard read failed, using local clipboard: %v", err)
		return c.fallback, nil
	}
	return s, nil
}

func (c *SystemClipboard) WriteAll(s string) error {
	c.fallback = s
	if clipboard.Unsupported {
		return nil
	}
	if err := clipboard.WriteAll(s); err != nil {
		log.Printf("system clipboard write failed, using local clipboard: %v", err)
	}
	return nil
}

// MemoryClipboard never leaves the process.
type MemoryClipboard struct {
	Text string
}

func (c *MemoryClipboard) ReadAll() (string, error) { return c.Text, nil }

func (c *MemoryClipboard) WriteAll(s string) error {
	c.Text = s
	return nil
}
