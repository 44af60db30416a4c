package core

import (
	"sync"
	"time"
)

// DefaultTickInterval is how often the clock publishes elapsed time
const DefaultTickInterval = time.Second

// Clock is a stopwatch that accumulates time only while started and
// publishes the running total on its own goroutine.
type Clock struct {
	mu          sync.Mutex
	interval    time.Duration
	onTick      func(time.Duration)
	now         func() time.Time
	accumulated time.Duration
	startedAt   time.Time
	running     bool
	stop        chan struct{}
	wg          sync.WaitGroup
}

// NewClock creates a stopped clock. onTick may be nil.
func NewClock(interval time.Duration, onTick func(time.Duration)) *Clock {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Clock{
		interval: interval,
		onTick:   onTick,
		now:      time.Now,
	}
}

// Start resumes accumulation from the frozen value. A sample is
// published immediately and then once per interval.
func (c *Clock) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.startedAt = c.now()
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	c.wg.Add(1)
	go c.tick(stop)
}

func (c *Clock) tick(stop chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.publish()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.publish()
		}
	}
}

// Stop freezes the elapsed time and publishes the frozen value
func (c *Clock) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.accumulated += c.now().Sub(c.startedAt)
	c.running = false
	close(c.stop)
	c.stop = nil
	c.mu.Unlock()

	c.wg.Wait()
	c.publish()
}

// Reset stops the clock and zeroes it
func (c *Clock) Reset() {
	c.Stop()
	c.mu.Lock()
	c.accumulated = 0
	c.mu.Unlock()
}

// Elapsed returns the accumulated time, including the current run
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return c.accumulated + c.now().Sub(c.startedAt)
	}
	return c.accumulated
}

func (c *Clock) publish() {
	if c.onTick != nil {
		c.onTick(c.Elapsed())
	}
}
