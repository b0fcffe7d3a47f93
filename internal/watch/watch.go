// Package watch reloads board state when the data file changes on disk,
// e.g. when another process or a sync client writes it.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 250 * time.Millisecond

// Watcher observes a single data file and invokes a callback after
// writes settle.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// New starts watching path and calls onChange (on the watcher goroutine)
// after each settled burst of writes. The checksum sidecar written next
// to the data file triggers events too; they are folded into the same
// debounce window.
func New(path string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	// Watch the directory: atomic rename-into-place replaces the inode,
	// so watching the file itself would drop events after the first save.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	go w.loop(filepath.Base(path), onChange)
	return w, nil
}

func (w *Watcher) loop(base string, onChange func()) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			onChange()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
