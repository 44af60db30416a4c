package scanner

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/lumipallolabs/treescan/internal/logging"
	"github.com/lumipallolabs/treescan/internal/matcher"
	"github.com/lumipallolabs/treescan/internal/model"
)

// ErrEngineClosed is returned by Step after Close
var ErrEngineClosed = errors.New("engine closed")

// EngineOptions configures an Engine
type EngineOptions struct {
	Cursor CursorOptions

	// Source overrides the file enumeration; nil means a Cursor over root
	Source Source

	// ProgressInterval limits how often OnProgress fires; 0 reports every path
	ProgressInterval time.Duration
	OnProgress       func(Progress)
}

// Engine pulls paths from a source one step at a time, filters them
// through a matcher and grows the match tree.
type Engine struct {
	root    string
	matcher *matcher.Matcher
	builder *model.Builder
	opts    EngineOptions

	source Source
	counts model.FindAndAll
	closed bool

	snapshot atomic.Pointer[Progress]
	every    rate.Sometimes
}

// NewEngine creates an engine for root. The source is opened lazily.
func NewEngine(root string, m *matcher.Matcher, b *model.Builder, opts EngineOptions) *Engine {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	e := &Engine{
		root:    root,
		matcher: m,
		builder: b,
		opts:    opts,
		source:  opts.Source,
		every:   rate.Sometimes{Interval: opts.ProgressInterval},
	}
	e.snapshot.Store(&Progress{})
	return e
}

// Root returns the absolute scan root
func (e *Engine) Root() string {
	return e.root
}

// Tree returns the root node of the match tree
func (e *Engine) Tree() *model.Node {
	return e.builder.Root()
}

// Snapshot returns the latest progress. Safe from any goroutine.
func (e *Engine) Snapshot() Progress {
	return *e.snapshot.Load()
}

// Step processes a single path. It returns io.EOF once every file has been
// seen and ErrCancelled when ctx is done; in the latter case at most the
// path of this call was processed after the signal.
func (e *Engine) Step(ctx context.Context) error {
	if e.closed {
		return ErrEngineClosed
	}
	if ctx.Err() != nil {
		e.flush()
		return ErrCancelled
	}
	if e.source == nil {
		e.source = NewCursor(e.root, e.opts.Cursor)
	}

	path, ok, err := e.source.Next()
	if err != nil {
		e.flush()
		return err
	}
	if !ok {
		e.flush()
		return io.EOF
	}

	rel, err := filepath.Rel(e.root, path)
	if err != nil {
		logging.Scanner.Printf("[Engine] relative path for %s: %v", path, err)
		rel = filepath.Base(path)
	}

	e.counts = e.counts.WithScanned()
	if e.matcher.Matches(rel) {
		e.counts = e.counts.WithFound()
		if _, err := e.builder.Insert(model.SplitPath(rel)); err != nil {
			logging.Scanner.Printf("[Engine] insert %s: %v", rel, err)
		}
	}
	e.publish(Progress{CurrentPath: path, Counts: e.counts})

	if ctx.Err() != nil {
		e.flush()
		return ErrCancelled
	}
	return nil
}

// Run steps until the scan finishes, fails or is cancelled
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := e.Step(ctx); err != nil {
			return err
		}
	}
}

// Close disposes the source. The tree is kept.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	if e.source != nil {
		e.source.Close()
		e.source = nil
	}
}

func (e *Engine) publish(p Progress) {
	e.snapshot.Store(&p)
	if e.opts.OnProgress == nil {
		return
	}
	if e.opts.ProgressInterval <= 0 {
		e.opts.OnProgress(p)
		return
	}
	e.every.Do(func() { e.opts.OnProgress(p) })
}

// flush reports the latest progress regardless of throttling
func (e *Engine) flush() {
	if e.opts.OnProgress != nil && e.opts.ProgressInterval > 0 {
		e.opts.OnProgress(e.Snapshot())
	}
}
