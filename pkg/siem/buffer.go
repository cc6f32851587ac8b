package siem

import "sync"

// Buffer holds at most Cap events, newest first.
type Buffer struct {
	mu     sync.RWMutex
	cap    int
	events []Event
}

// NewBuffer creates a buffer. capacity must be positive.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		panic("siem: buffer capacity must be positive")
	}
	return &Buffer{cap: capacity, events: make([]Event, 0, capacity)}
}

// Push prepends ev, dropping the oldest event when full.
func (b *Buffer) Push(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) < b.cap {
		b.events = append(b.events, Event{})
	}
	copy(b.events[1:], b.events[:len(b.events)-1])
	b.events[0] = ev
}

// Snapshot returns a copy of the contents, newest first.
func (b *Buffer) Snapshot() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.events)
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int { return b.cap }

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.events = b.events[:0]
	b.mu.Unlock()
}
