// Package watcher reports files created under a directory tree after it
// has been scanned. Each platform supplies its own backend.
package watcher

import (
	"fmt"
	"os"
	"sync"
)

// eventBuffer bounds events waiting for the consumer
const eventBuffer = 256

// Event is a file that appeared under the watched root. Backends may report
// the same path more than once, and may report paths that are already gone.
type Event struct {
	Path string
}

// Watcher reports files created below one root
type Watcher struct {
	backend

	root     string
	events   chan Event
	done     chan struct{}
	wg       sync.WaitGroup
	started  bool
	stopOnce sync.Once
	stopErr  error
}

// New creates a watcher. Call AddRecursive, then Start.
func New() (*Watcher, error) {
	w := &Watcher{
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	if err := w.open(); err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return w, nil
}

// Events returns the channel created files are reported on. It is closed
// by Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// AddRecursive watches root and every directory below it
func (w *Watcher) AddRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", root)
	}
	w.root = root
	return w.watch(root)
}

// Start begins delivering events; it does nothing before AddRecursive
func (w *Watcher) Start() {
	if w.root == "" || w.started {
		return
	}
	w.started = true
	w.begin()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop()
	}()
}

// Stop releases the backend and closes Events. Later calls return the
// first result.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.done)
		w.stopErr = w.release()
		w.wg.Wait()
		close(w.events)
	})
	return w.stopErr
}

// emit delivers path without blocking the backend; a full buffer drops it
func (w *Watcher) emit(path string) {
	select {
	case w.events <- Event{Path: path}:
	default:
	}
}
