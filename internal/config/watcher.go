package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher notifies when the config file changes on disk, so the UI can pick
// up new settings and refresh without restarting. Editors tend to emit
// bursts of write events, so changes are debounced.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(string)
	mu       sync.Mutex
	pending  *time.Timer
	done     chan struct{}
}

// NewWatcher starts watching path and calls onChange (from a background
// goroutine) after changes settle.
func NewWatcher(path string, onChange func(string)) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace files on save, which drops a
	// watch registered on the file itself.
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		path:     absPath,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	go w.watch()
	return w, nil
}

func (w *Watcher) watch() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.mu.Lock()
			if w.pending != nil {
				w.pending.Stop()
			}
			w.pending = time.AfterFunc(100*time.Millisecond, func() {
				if w.onChange != nil {
					w.onChange(w.path)
				}
			})
			w.mu.Unlock()

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Keep watching; a transient error should not kill refresh.

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
