// Package watcher re-triggers analysis when a watched project's class files
// change on disk.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event represents a file change event.
type Event struct {
	Path string
	Op   string // "create", "write", "remove"
}

// DefaultDebounce is the default quiet period after the last detected change
// before onChange is invoked, absorbing the burst of events a single build
// step (e.g. a `javac`/`mvn package` run) produces.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches directories for file changes using fsnotify, debouncing
// bursts of events into a single onChange callback.
type Watcher struct {
	dirs       []string
	extensions []string // e.g. [".class", ".jar"]
	debounce   time.Duration
	onChange   func(events []Event)

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending []Event
	timer   *time.Timer
	stopCh  chan struct{}
}

// New creates a new file watcher. extensions restricts which file
// extensions produce events; debounce <= 0 uses DefaultDebounce.
func New(dirs []string, extensions []string, debounce time.Duration, onChange func(events []Event)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dirs:       dirs,
		extensions: extensions,
		debounce:   debounce,
		onChange:   onChange,
		stopCh:     make(chan struct{}),
	}
}

// Watch starts watching for file changes. This is a blocking call that runs
// until Stop() is called.
func (w *Watcher) Watch() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	w.fsw = fsw
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := addRecursive(fsw, dir); err != nil {
			return fmt.Errorf("failed to watch %q: %w", dir, err)
		}
	}

	for {
		select {
		case <-w.stopCh:
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return fmt.Errorf("file watcher error: %w", err)
			}
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			addRecursive(fsw, ev.Name)
			return
		}
	}
	if !w.matches(ev.Name) {
		return
	}

	op := opFor(ev)
	if op == "" {
		return
	}

	w.mu.Lock()
	w.pending = append(w.pending, Event{Path: ev.Name, Op: op})
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		pending := w.pending
		w.pending = nil
		w.mu.Unlock()
		if len(pending) > 0 && w.onChange != nil {
			w.onChange(pending)
		}
	})
	w.mu.Unlock()
}

func opFor(ev fsnotify.Event) string {
	switch {
	case ev.Has(fsnotify.Create):
		return "create"
	case ev.Has(fsnotify.Write):
		return "write"
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return "remove"
	default:
		return ""
	}
}

func (w *Watcher) matches(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// addRecursive registers dir and every subdirectory it contains, since
// fsnotify only watches the directories it is explicitly told about.
func addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
}
