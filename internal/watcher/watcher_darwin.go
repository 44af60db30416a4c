//go:build darwin

package watcher

import (
	"time"

	"github.com/fsnotify/fsevents"
)

// latency is how long FSEvents coalesces changes before delivering them
const latency = 200 * time.Millisecond

// backend streams file-level FSEvents for the whole tree
type backend struct {
	stream *fsevents.EventStream
}

func (w *Watcher) open() error {
	return nil
}

func (w *Watcher) watch(root string) error {
	dev, err := fsevents.DeviceForPath(root)
	if err != nil {
		return err
	}
	w.stream = &fsevents.EventStream{
		Paths:   []string{root},
		Latency: latency,
		Device:  dev,
		Flags:   fsevents.FileEvents | fsevents.WatchRoot,
	}
	return nil
}

func (w *Watcher) begin() {
	w.stream.Start()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case batch, ok := <-w.stream.Events:
			if !ok {
				return
			}
			for _, ev := range batch {
				if path, ok := createdFile(ev); ok {
					w.emit(path)
				}
			}
		}
	}
}

// createdFile returns the path of a file that was created or moved in.
// A move arrives as a rename, so renames away are reported too and left
// to the consumer's stat.
func createdFile(ev fsevents.Event) (string, bool) {
	if ev.Flags&fsevents.ItemIsFile == 0 {
		return "", false
	}
	if ev.Flags&(fsevents.ItemCreated|fsevents.ItemRenamed) == 0 {
		return "", false
	}
	path := ev.Path
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	return path, true
}

func (w *Watcher) release() error {
	if w.started {
		w.stream.Stop()
	}
	return nil
}
