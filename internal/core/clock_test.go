package core

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNow struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeNow) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeNow) advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newFakeClock(onTick func(time.Duration)) (*Clock, *fakeNow) {
	f := &fakeNow{t: time.Unix(1_700_000_000, 0)}
	c := NewClock(time.Hour, onTick)
	c.now = f.now
	return c, f
}

func TestClockAccumulatesOnlyWhileRunning(t *testing.T) {
	c, now := newFakeClock(nil)

	now.advance(time.Minute)
	assert.Zero(t, c.Elapsed())

	c.Start()
	now.advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, c.Elapsed())

	c.Stop()
	now.advance(time.Hour)
	assert.Equal(t, 3*time.Second, c.Elapsed(), "stopped clock is frozen")

	c.Start()
	now.advance(2 * time.Second)
	assert.Equal(t, 5*time.Second, c.Elapsed(), "restart continues from the frozen value")
	c.Stop()

	c.Reset()
	assert.Zero(t, c.Elapsed())
	assert.False(t, c.running)
}

func TestClockPublishes(t *testing.T) {
	ticks := make(chan time.Duration, 10)
	c, now := newFakeClock(func(d time.Duration) { ticks <- d })

	c.Start()
	select {
	case d := <-ticks:
		assert.Zero(t, d)
	case <-time.After(5 * time.Second):
		t.Fatal("no sample on start")
	}

	now.advance(7 * time.Second)
	c.Stop()
	require.Equal(t, 7*time.Second, <-ticks, "stop publishes the frozen value")
}

func TestClockTicksPeriodically(t *testing.T) {
	var mu sync.Mutex
	var samples int
	c := NewClock(5*time.Millisecond, func(time.Duration) {
		mu.Lock()
		samples++
		mu.Unlock()
	})

	c.Start()
	defer c.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return samples >= 3
	}, 5*time.Second, time.Millisecond)
}

func TestClockStartStopIdempotent(t *testing.T) {
	c, now := newFakeClock(nil)
	c.Stop()

	c.Start()
	c.Start()
	now.advance(time.Second)
	c.Stop()
	c.Stop()

	assert.Equal(t, time.Second, c.Elapsed())
}
