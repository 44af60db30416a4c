package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrder(t *testing.T) {
	q := newEventQueue()
	q.Activate()

	for i := 0; i < 2500; i++ {
		require.True(t, q.Push(ElapsedEvent{Elapsed: time.Duration(i)}))
	}
	q.Close()
	assert.False(t, q.Push(ElapsedEvent{}), "closed queue rejects events")

	for i := 0; i < 2500; i++ {
		ev, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, time.Duration(i), ev.(ElapsedEvent).Elapsed)
	}
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestQueueDiscardsUntilActive(t *testing.T) {
	q := newEventQueue()
	assert.False(t, q.Push(ElapsedEvent{}))

	q.Activate()
	assert.True(t, q.Push(ElapsedEvent{Elapsed: 1}))
	q.Close()

	ev, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, ElapsedEvent{Elapsed: 1}, ev)
}

func TestQueuePopBlocks(t *testing.T) {
	q := newEventQueue()
	q.Activate()

	got := make(chan Event)
	go func() {
		ev, _ := q.Pop()
		got <- ev
	}()

	select {
	case <-got:
		t.Fatal("pop returned before push")
	case <-time.After(10 * time.Millisecond):
	}

	q.Push(ErrorEvent{})
	select {
	case ev := <-got:
		assert.IsType(t, ErrorEvent{}, ev)
	case <-time.After(5 * time.Second):
		t.Fatal("pop did not wake up")
	}
}
