package core

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lumipallolabs/treescan/internal/logging"
	"github.com/lumipallolabs/treescan/internal/matcher"
	"github.com/lumipallolabs/treescan/internal/model"
	"github.com/lumipallolabs/treescan/internal/scanner"
	"github.com/lumipallolabs/treescan/internal/settings"
	"github.com/lumipallolabs/treescan/internal/watcher"
)

// Options configures a Controller
type Options struct {
	Root    string
	Pattern string // "" means the saved pattern, then matcher.DefaultPattern
	Syntax  matcher.Syntax
	Cursor  scanner.CursorOptions

	TickInterval     time.Duration
	ProgressInterval time.Duration

	// Watch keeps feeding newly created files into the tree after completion
	Watch bool

	// Settings, if set, supplies a missing root or pattern and records changes
	Settings *settings.Store
}

// Controller owns the scan lifecycle without UI dependencies
type Controller struct {
	mu sync.Mutex

	opts     Options
	root     string
	matcher  *matcher.Matcher
	phase    ScanPhase
	lastErr  error
	session  uuid.UUID
	started  time.Time
	scanRoot string // absolute root of the current tree
	tree     *model.Node
	builder  *model.Builder
	engine   *scanner.Engine
	progress atomic.Pointer[scanner.Progress]

	// Scan loop
	cancel context.CancelFunc
	done   chan struct{}

	clock *Clock

	// Watch mode
	watcher   *watcher.Watcher
	watchDone chan struct{}

	// Event delivery
	queue     *eventQueue
	out       chan Event
	subscribe sync.Once
}

// NewController creates a controller in the Idle phase. An explicit pattern
// that does not compile is an error; a saved one falls back to the default.
func NewController(opts Options) (*Controller, error) {
	if opts.Syntax == "" {
		opts.Syntax = matcher.SyntaxRegex
	}

	root, pattern := opts.Root, opts.Pattern
	var saved settings.Settings
	if opts.Settings != nil && (root == "" || pattern == "") {
		saved, _ = opts.Settings.Load()
	}
	if root == "" {
		root = saved.RootPath
	}

	var m *matcher.Matcher
	var err error
	switch {
	case pattern != "":
		if m, err = matcher.NewWithSyntax(pattern, opts.Syntax); err != nil {
			return nil, err
		}
	case saved.Pattern != "":
		if m, err = matcher.NewWithSyntax(saved.Pattern, opts.Syntax); err != nil {
			logging.Debug.Printf("[Controller] ignoring saved pattern: %v", err)
			m = nil
		}
	}
	if m == nil {
		if m, err = matcher.NewWithSyntax(matcher.DefaultPattern, opts.Syntax); err != nil {
			return nil, err
		}
	}

	c := &Controller{
		opts:    opts,
		root:    root,
		matcher: m,
		phase:   PhaseIdle,
		queue:   newEventQueue(),
		out:     make(chan Event),
	}
	c.progress.Store(&scanner.Progress{})
	c.clock = NewClock(opts.TickInterval, func(d time.Duration) {
		c.push(ElapsedEvent{Elapsed: d})
	})
	return c, nil
}

// State returns a read-only snapshot of the current state
func (c *Controller) State() ScanState {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.progress.Load()
	return ScanState{
		Phase:       c.phase,
		SessionID:   c.session,
		Root:        c.root,
		Pattern:     c.matcher.String(),
		Syntax:      c.matcher.Syntax(),
		CurrentPath: p.CurrentPath,
		Counts:      p.Counts,
		StartTime:   c.started,
		Elapsed:     c.clock.Elapsed(),
		Err:         c.lastErr,
		Watching:    c.watcher != nil,
	}
}

// Tree returns the root of the match tree, nil before the first scan.
// Only read it while the controller is not Running; use NodeCreatedEvent
// to follow a live scan.
func (c *Controller) Tree() *model.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree
}

// Events returns the channel all events are delivered on, in order.
// Events emitted before the first call are not retained.
func (c *Controller) Events() <-chan Event {
	c.subscribe.Do(func() {
		c.queue.Activate()
		go c.pump()
	})
	return c.out
}

func (c *Controller) pump() {
	defer close(c.out)
	for {
		ev, ok := c.queue.Pop()
		if !ok {
			return
		}
		c.out <- ev
	}
}

// Start begins a fresh scan, or continues a paused one
func (c *Controller) Start() error {
	c.stopWatching()

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhaseRunning:
		return nil
	case PhasePaused:
		if c.engine != nil {
			logging.Debug.Printf("[Controller] resuming scan of %s", c.scanRoot)
			c.launch()
			return nil
		}
	}

	root, err := filepath.Abs(c.root)
	if err != nil {
		return c.failLocked(&scanner.PathUnavailableError{Path: c.root, Err: err})
	}
	if err := scanner.CheckRoot(root); err != nil {
		return c.failLocked(err)
	}

	c.discardEngine()
	c.session = uuid.New()
	c.scanRoot = root
	c.tree = model.NewRoot(filepath.Base(root))
	c.builder = model.NewBuilder(c.tree, func(parent, node *model.Node) {
		c.push(NodeCreatedEvent{Parent: parent, Node: node})
	})
	c.progress.Store(&scanner.Progress{})
	c.clock.Reset()
	c.lastErr = nil
	c.started = time.Now()
	c.engine = scanner.NewEngine(root, c.matcher, c.builder, scanner.EngineOptions{
		Cursor:           c.opts.Cursor,
		ProgressInterval: c.opts.ProgressInterval,
		OnProgress:       c.onProgress,
	})

	logging.Debug.Printf("[Controller] starting scan %s of %s for %q", c.session, root, c.matcher)
	c.push(ScanStartedEvent{SessionID: c.session, Root: root, Pattern: c.matcher.String(), Tree: c.tree})
	c.launch()
	return nil
}

// launch spawns the scan loop (caller must hold mu)
func (c *Controller) launch() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel, c.done = cancel, done

	c.setPhase(PhaseRunning)
	c.clock.Start()
	go c.run(ctx, c.engine, done)
}

func (c *Controller) run(ctx context.Context, eng *scanner.Engine, done chan struct{}) {
	defer close(done)
	err := eng.Run(ctx)
	c.finish(eng, err)
}

// finish applies the outcome of a scan loop
func (c *Controller) finish(eng *scanner.Engine, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine != eng {
		return
	}

	switch {
	case errors.Is(err, io.EOF):
		c.clock.Stop()
		c.discardEngine()
		counts := c.progress.Load().Counts
		logging.Debug.Printf("[Controller] scan complete: %s in %v", counts, c.clock.Elapsed())
		c.setPhase(PhaseCompleted)
		c.push(ScanCompletedEvent{Root: c.tree, Counts: counts, Elapsed: c.clock.Elapsed()})
		if c.opts.Watch {
			c.startWatchingLocked()
		}
	case errors.Is(err, scanner.ErrCancelled):
		// Pause or Cancel applies the phase
	default:
		logging.Debug.Printf("[Controller] scan failed: %v", err)
		c.clock.Stop()
		c.discardEngine()
		c.lastErr = err
		c.setPhase(PhaseIdle)
		c.push(ErrorEvent{Err: err})
	}
}

// Pause stops a running scan after the path in progress
func (c *Controller) Pause() {
	c.halt(PhasePaused)
}

// Cancel stops a running or paused scan and discards its enumeration
func (c *Controller) Cancel() {
	c.halt(PhaseCancelled)
}

func (c *Controller) halt(target ScanPhase) {
	c.mu.Lock()
	phase, cancel, done := c.phase, c.cancel, c.done
	c.mu.Unlock()

	if phase == PhaseRunning {
		cancel()
		<-done
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhaseRunning:
		if c.done != done {
			// Another Start won the race
			return
		}
		c.clock.Stop()
		if target == PhaseCancelled {
			c.discardEngine()
		}
		c.setPhase(target)
	case PhasePaused:
		if target == PhaseCancelled {
			c.discardEngine()
			c.setPhase(PhaseCancelled)
		}
	}
}

// Wait blocks until the current scan loop has exited
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// SetRootPath changes the directory to scan. A different root cancels a
// running or paused scan.
func (c *Controller) SetRootPath(path string) {
	c.mu.Lock()
	unchanged := path == c.root
	c.mu.Unlock()
	if unchanged {
		return
	}

	c.Cancel()
	c.stopWatching()

	c.mu.Lock()
	c.root = path
	c.discardEngine()
	pattern := c.matcher.String()
	c.mu.Unlock()

	logging.Debug.Printf("[Controller] root set to %s", path)
	c.remember(path, pattern)
}

// SetPattern compiles and applies a new pattern. On error the previous
// pattern and the phase are kept.
func (c *Controller) SetPattern(text string) error {
	c.mu.Lock()
	if text == c.matcher.String() {
		c.mu.Unlock()
		return nil
	}
	syntax := c.matcher.Syntax()
	c.mu.Unlock()

	m, err := matcher.NewWithSyntax(text, syntax)
	if err != nil {
		return err
	}

	c.Cancel()
	c.stopWatching()

	c.mu.Lock()
	c.matcher = m
	c.discardEngine()
	root := c.root
	c.mu.Unlock()

	logging.Debug.Printf("[Controller] pattern set to %q", text)
	c.remember(root, text)
	return nil
}

// Close stops scanning and watching, saves settings and closes Events
func (c *Controller) Close() {
	c.Cancel()
	c.stopWatching()
	c.clock.Stop()

	c.mu.Lock()
	c.discardEngine()
	root, pattern := c.root, c.matcher.String()
	c.mu.Unlock()

	if c.opts.Settings != nil {
		c.opts.Settings.Save(root, pattern)
		if err := c.opts.Settings.Close(); err != nil {
			logging.Debug.Printf("[Controller] close settings: %v", err)
		}
	}
	c.queue.Close()
}

func (c *Controller) remember(root, pattern string) {
	if c.opts.Settings != nil {
		c.opts.Settings.Remember(root, pattern)
	}
}

func (c *Controller) onProgress(p scanner.Progress) {
	c.progress.Store(&p)
	c.push(ScanProgressEvent{Progress: p})
}

// failLocked records a start failure (caller must hold mu)
func (c *Controller) failLocked(err error) error {
	logging.Debug.Printf("[Controller] cannot start: %v", err)
	c.lastErr = err
	if c.phase != PhaseIdle {
		c.setPhase(PhaseIdle)
	}
	c.push(ErrorEvent{Err: err})
	return err
}

// discardEngine closes the engine and its cursor (caller must hold mu)
func (c *Controller) discardEngine() {
	if c.engine != nil {
		c.engine.Close()
		c.engine = nil
	}
}

// setPhase changes phase and emits the change (caller must hold mu)
func (c *Controller) setPhase(p ScanPhase) {
	c.phase = p
	c.push(PhaseChangedEvent{Phase: p, Label: p.ActionLabel()})
}

func (c *Controller) push(ev Event) {
	c.queue.Push(ev)
}
