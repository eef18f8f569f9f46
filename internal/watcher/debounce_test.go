package watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	fired  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 100)}
}

func (r *recorder) fire(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *recorder) get() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for debounced event")
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	rec := newRecorder()
	d := newDebouncer(30*time.Millisecond, rec.fire)

	d.add(Event{Path: "/a", Op: OpCreate})
	d.add(Event{Path: "/a", Op: OpWrite})
	d.add(Event{Path: "/a", Op: OpWrite})
	assert.Equal(t, 1, d.pendingCount())

	rec.wait(t)
	got := rec.get()
	require.Len(t, got, 1)
	assert.Equal(t, "/a", got[0].Path)
	assert.True(t, got[0].Op.Has(OpCreate|OpWrite))
	assert.Equal(t, 0, d.pendingCount())
}

func TestDebouncerSeparatePaths(t *testing.T) {
	rec := newRecorder()
	d := newDebouncer(20*time.Millisecond, rec.fire)

	d.add(Event{Path: "/a", Op: OpWrite})
	d.add(Event{Path: "/b", Op: OpWrite})

	rec.wait(t)
	rec.wait(t)
	assert.Len(t, rec.get(), 2)
}

func TestDebouncerFlush(t *testing.T) {
	rec := newRecorder()
	d := newDebouncer(time.Hour, rec.fire)

	d.add(Event{Path: "/a", Op: OpWrite})
	d.add(Event{Path: "/b", Op: OpRemove})
	d.flush()

	assert.Len(t, rec.get(), 2)
	assert.Equal(t, 0, d.pendingCount())
}

func TestDebouncerStop(t *testing.T) {
	rec := newRecorder()
	d := newDebouncer(10*time.Millisecond, rec.fire)

	d.add(Event{Path: "/a", Op: OpWrite})
	d.stop()
	d.add(Event{Path: "/b", Op: OpWrite})

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.get())
	assert.Equal(t, 0, d.pendingCount())
}
