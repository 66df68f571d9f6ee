package fs

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/byxorna/notepad/pkg/db"
	"github.com/byxorna/notepad/pkg/types/v1"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
)

// Store keeps documents as plain UTF-8 files on the local filesystem.
type Store struct {
	*sync.Mutex
	status v1.SyncStatus

	// mtimes of the files as we last read or wrote them, so the watcher
	// can tell our own writes apart from someone else's
	mtimeMap map[string]time.Time

	watcher *fsnotify.Watcher
	watched string
	events  chan db.Event
}

func New() *Store {
	return &Store{
		Mutex:    &sync.Mutex{},
		status:   v1.StatusOK,
		mtimeMap: map[string]time.Time{},
		events:   make(chan db.Event, 8),
	}
}

// Expand resolves ~ and makes path absolute.
func Expand(path string) (string, error) {
	expandedPath, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expandedPath)
}

func (x *Store) Load(path string) (*v1.Document, error) {
	expandedPath, err := Expand(path)
	if err != nil {
		return nil, err
	}

	finfo, err := os.Stat(expandedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	if finfo.IsDir() {
		return nil, fmt.Errorf("unable to open %s: %w", path, db.ErrIsDirectory)
	}

	bytes, err := ioutil.ReadFile(expandedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	if !utf8.Valid(bytes) {
		return nil, fmt.Errorf("unable to read %s: %w", path, db.ErrNotUTF8)
	}

	x.Lock()
	x.mtimeMap[expandedPath] = finfo.ModTime()
	x.Unlock()

	return &v1.Document{
		Path:     expandedPath,
		Content:  string(bytes),
		Modified: finfo.ModTime(),
	}, nil
}

// Store overwrites the document's file with its content.
func (x *Store) Store(d *v1.Document) error {
	x.Lock()
	defer x.Unlock()
	x.status = v1.StatusSynchronizing

	if err := d.Validate(); err != nil {
		x.status = v1.StatusError
		return fmt.Errorf("invalid document: %w", err)
	}

	targetpath, err := Expand(d.Path)
	if err != nil {
		x.status = v1.StatusError
		return err
	}

	finfo, err := os.Stat(targetpath)
	if err == nil && finfo.IsDir() {
		x.status = v1.StatusError
		return fmt.Errorf("unable to write %s: %w", d.Path, db.ErrIsDirectory)
	}

	f, err := os.OpenFile(targetpath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		x.status = v1.StatusError
		return err
	}
	defer f.Close()

	_, err = f.WriteString(d.Content)
	if err != nil {
		x.status = v1.StatusError
		return fmt.Errorf("unable to write %s: %w", d.Path, err)
	}

	err = f.Sync()
	if err != nil {
		x.status = v1.StatusError
		return fmt.Errorf("unable to sync %s: %w", d.Path, err)
	}

	if finfo, err := f.Stat(); err == nil {
		x.mtimeMap[targetpath] = finfo.ModTime()
		d.Modified = finfo.ModTime()
	}
	d.Path = targetpath

	x.status = v1.StatusOK
	return nil
}

func (x *Store) Watch(path string) error {
	expandedPath, err := Expand(path)
	if err != nil {
		return err
	}

	x.Lock()
	defer x.Unlock()

	if x.watcher != nil {
		_ = x.watcher.Close()
		x.watcher = nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// watch the directory, editors commonly replace files by renaming over them
	dir := filepath.Dir(expandedPath)
	err = watcher.Add(dir)
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}

	x.watcher = watcher
	x.watched = expandedPath

	go x.watch(watcher, expandedPath)
	return nil
}

func (x *Store) watch(watcher *fsnotify.Watcher, target string) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !x.ShouldReloadFromDisk(target) {
				continue
			}
			x.send(db.Event{Path: target})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error on %s: %v", target, err)
			x.send(db.Event{Path: target, Err: err})
		}
	}
}

// send never blocks the watcher; if nobody is draining events the newest
// notification is dropped.
func (x *Store) send(e db.Event) {
	select {
	case x.events <- e:
	default:
	}
}

func (x *Store) Events() <-chan db.Event {
	return x.events
}

// ShouldReloadFromDisk stats the file and compares it with the mtime we last
// saw. It records the new mtime, so each external change is reported once.
func (x *Store) ShouldReloadFromDisk(path string) bool {
	finfo, err := os.Stat(path)
	if err != nil {
		return false
	}

	x.Lock()
	defer x.Unlock()
	if !x.mtimeMap[path].Before(finfo.ModTime()) {
		return false
	}
	x.mtimeMap[path] = finfo.ModTime()
	return true
}

func (x *Store) Status() v1.SyncStatus {
	x.Lock()
	defer x.Unlock()
	return x.status
}

func (x *Store) Close() error {
	x.Lock()
	defer x.Unlock()
	if x.watcher == nil {
		return nil
	}
	err := x.watcher.Close()
	x.watcher = nil
	x.watched = ""
	return err
}
