//go:build !darwin && !windows

package watcher

import (
	"io/fs"
	"os"

	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"

	"github.com/lumipallolabs/treescan/internal/logging"
)

// backend uses fsnotify. inotify is not recursive, so every directory gets
// its own watch and new directories are added as they appear.
type backend struct {
	fs *fsnotify.Watcher
}

func (w *Watcher) open() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fs = fw
	return nil
}

func (w *Watcher) watch(root string) error {
	return w.addTree(root, false)
}

// addTree watches dir and every directory below it. With report set, files
// already present are emitted: they may have landed in a new directory
// before its watch existed.
func (w *Watcher) addTree(dir string, report bool) error {
	conf := fastwalk.Config{Follow: false}
	return fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logging.Debug.Printf("[Watcher] skip %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if err := w.fs.Add(path); err != nil {
				logging.Debug.Printf("[Watcher] add %s: %v", path, err)
				return fs.SkipDir
			}
			return nil
		}
		if report && d.Type().IsRegular() {
			w.emit(path)
		}
		return nil
	})
}

func (w *Watcher) begin() {}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.created(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.Debug.Printf("[Watcher] %v", err)
		}
	}
}

// created handles one inotify event; a move into the tree arrives as a create
func (w *Watcher) created(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) {
		return
	}
	info, err := os.Lstat(ev.Name)
	if err != nil {
		return
	}
	switch {
	case info.IsDir():
		if err := w.addTree(ev.Name, true); err != nil {
			logging.Debug.Printf("[Watcher] watch new dir %s: %v", ev.Name, err)
		}
	case info.Mode().IsRegular():
		w.emit(ev.Name)
	}
}

func (w *Watcher) release() error {
	return w.fs.Close()
}
