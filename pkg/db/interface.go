package db

import (
	"fmt"

	"github.com/byxorna/notepad/pkg/types/v1"
)

var (
	ErrNotUTF8     = fmt.Errorf("file is not valid UTF-8 text")
	ErrIsDirectory = fmt.Errorf("path is a directory")
)

// Event reports that a watched file was changed by someone other than us.
type Event struct {
	Path string
	Err  error
}

// DB is the interface a storage backend satisfies to load and persist the
// editor's document
type DB interface {
	Load(path string) (*v1.Document, error)
	Store(*v1.Document) error

	// Watch replaces any previous watch with one on path. Events arrive on
	// the channel returned by Events.
	Watch(path string) error
	Events() <-chan Event

	Status() v1.SyncStatus
	Close() error
}
