package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumipallolabs/treescan/internal/logging"
	"github.com/lumipallolabs/treescan/internal/model"
	"github.com/lumipallolabs/treescan/internal/watcher"
)

// startWatchingLocked starts the filesystem watcher for the completed tree
// (caller must hold mu)
func (c *Controller) startWatchingLocked() {
	if c.watcher != nil || c.scanRoot == "" {
		return
	}

	w, err := watcher.New()
	if err != nil {
		logging.Debug.Printf("[Controller] create watcher: %v", err)
		return
	}
	if err := w.AddRecursive(c.scanRoot); err != nil {
		logging.Debug.Printf("[Controller] watch %s: %v", c.scanRoot, err)
		_ = w.Stop()
		return
	}
	w.Start()
	logging.Debug.Printf("[Controller] watching %s", c.scanRoot)

	done := make(chan struct{})
	c.watcher, c.watchDone = w, done
	go c.watchLoop(w, done)
}

// stopWatching stops the watcher and waits for its loop. Must not be called
// with mu held.
func (c *Controller) stopWatching() {
	c.mu.Lock()
	w, done := c.watcher, c.watchDone
	c.watcher, c.watchDone = nil, nil
	c.mu.Unlock()

	if w == nil {
		return
	}
	if err := w.Stop(); err != nil {
		logging.Debug.Printf("[Controller] stop watcher: %v", err)
	}
	<-done
}

func (c *Controller) watchLoop(w *watcher.Watcher, done chan struct{}) {
	defer close(done)
	for ev := range w.Events() {
		c.handleCreated(w, ev.Path)
	}
}

// handleCreated feeds a file that appeared after completion through the
// matcher and into the tree
func (c *Controller) handleCreated(w *watcher.Watcher, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher != w || c.phase != PhaseCompleted || c.builder == nil {
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	rel, err := filepath.Rel(c.scanRoot, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return
	}
	if c.opts.Cursor.SkipHidden && hasHiddenSegment(rel) {
		return
	}

	p := *c.progress.Load()
	p.CurrentPath = path
	if c.matcher.Matches(rel) {
		if _, err := c.builder.Insert(model.SplitPath(rel)); err != nil {
			if errors.Is(err, model.ErrExists) {
				return
			}
			logging.Debug.Printf("[Controller] insert %s: %v", rel, err)
			return
		}
		p.Counts = p.Counts.WithFound()
	}
	p.Counts = p.Counts.WithScanned()

	c.progress.Store(&p)
	c.push(ScanProgressEvent{Progress: p})
}

func hasHiddenSegment(rel string) bool {
	for _, seg := range model.SplitPath(rel) {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
