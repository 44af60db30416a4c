package core

import "sync"

// eventQueue is an unbounded FIFO of events. Producers never block, so a
// slow consumer cannot stall the scan loop and no event is dropped.
type eventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Event
	head   int // index of the next item to pop
	active bool
	closed bool
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Activate makes Push retain events. Until then they are discarded.
func (q *eventQueue) Activate() {
	q.mu.Lock()
	q.active = true
	q.mu.Unlock()
}

// Push appends an event. Returns false if it was discarded.
func (q *eventQueue) Push(ev Event) bool {
	q.mu.Lock()
	if !q.active || q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()
	q.cond.Signal()
	return true
}

// Pop blocks until an event is available or the queue is closed.
// Returns (nil, false) when the queue is closed and empty.
func (q *eventQueue) Pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head >= len(q.items) && !q.closed {
		q.cond.Wait()
	}
	if q.head >= len(q.items) {
		return nil, false
	}
	ev := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	if q.head >= 1000 && q.head >= len(q.items)/2 {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return ev, true
}

// Close stops accepting events. Pending events can still be popped.
func (q *eventQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
