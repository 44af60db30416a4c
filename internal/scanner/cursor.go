package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/lumipallolabs/treescan/internal/logging"
)

// CursorOptions controls which entries the cursor yields
type CursorOptions struct {
	SkipHidden     bool // skip dot-prefixed files and directories
	FollowSymlinks bool
}

// Cursor is a resumable iterator over the files under a root.
// The walk runs on its own goroutine and hands over one path per Next call,
// so a consumer that stops calling Next leaves the walker parked in place.
type Cursor struct {
	root string
	opts CursorOptions

	paths  chan string
	walkCh chan error
	cancel context.CancelFunc
	done   chan struct{}

	last      string
	err       error
	exhausted bool
	closeOnce sync.Once
}

// NewCursor creates a cursor over root. Nothing is read until the first Next.
func NewCursor(root string, opts CursorOptions) *Cursor {
	return &Cursor{root: root, opts: opts}
}

// Root returns the absolute root the cursor enumerates
func (c *Cursor) Root() string {
	return c.root
}

// Next returns the next file path
func (c *Cursor) Next() (string, bool, error) {
	if c.err != nil {
		return "", false, c.err
	}
	if c.exhausted {
		return "", false, nil
	}
	if c.paths == nil {
		if err := c.open(); err != nil {
			c.err = err
			return "", false, err
		}
	}

	path, ok := <-c.paths
	if !ok {
		c.exhausted = true
		if err := <-c.walkCh; err != nil && !errors.Is(err, context.Canceled) {
			c.err = &PathUnavailableError{Path: c.root, Err: err}
			return "", false, c.err
		}
		return "", false, nil
	}

	c.last = path
	return path, true, nil
}

// open checks the root and starts the walker goroutine
func (c *Cursor) open() error {
	absRoot, err := filepath.Abs(c.root)
	if err != nil {
		return &PathUnavailableError{Path: c.root, Err: err}
	}
	if err := CheckRoot(absRoot); err != nil {
		return err
	}
	c.root = absRoot

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.paths = make(chan string)
	c.walkCh = make(chan error, 1)
	c.done = make(chan struct{})

	go c.walk(ctx)
	return nil
}

func (c *Cursor) walk(ctx context.Context) {
	defer close(c.done)
	defer close(c.paths)

	// One worker keeps the walk single-threaded and its order stable;
	// files of a directory come before its subdirectories.
	conf := &fastwalk.Config{
		Follow:     c.opts.FollowSymlinks,
		Sort:       fastwalk.SortFilesFirst,
		NumWorkers: 1,
	}

	err := fastwalk.Walk(conf, c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == c.root {
				return err
			}
			logging.Scanner.Printf("[Cursor] skipping %s: %v", path, err)
			return nil
		}
		if path == c.root {
			return nil
		}

		if c.opts.SkipHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		select {
		case c.paths <- path:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	c.walkCh <- err
}

// Close stops the walker and waits for it to exit
func (c *Cursor) Close() {
	c.closeOnce.Do(func() {
		c.exhausted = true
		if c.cancel == nil {
			return
		}
		c.cancel()
		<-c.done
		logging.Scanner.Printf("[Cursor] closed %s after %q", c.root, c.last)
	})
}

// CheckRoot verifies that root exists, is a directory and can be listed
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &PathUnavailableError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return &PathUnavailableError{Path: root, Err: fmt.Errorf("not a directory")}
	}
	f, err := os.Open(root)
	if err != nil {
		return &PathUnavailableError{Path: root, Err: err}
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return &PathUnavailableError{Path: root, Err: err}
	}
	return nil
}

// Ensure Cursor implements Source
var _ Source = (*Cursor)(nil)
