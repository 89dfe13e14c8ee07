// Package detection holds the in-memory core of formguard: the pointer-click
// ring buffer, the time-window click correlator, and the submission
// classifier. Everything here is CPU-bound and free of I/O.
package detection

import (
	"sync"

	"github.com/jonesrussell/formguard/internal/domain"
)

// DefaultBufferCapacity is the pointer-click buffer capacity used when no
// explicit capacity is configured.
const DefaultBufferCapacity = 1000

// Buffer is a fixed-capacity FIFO of the most recent pointer clicks. Once
// full, each append evicts the oldest entry. It is the only mutable state
// shared across request handlers; appends are serialized under the lock so
// eviction order always matches arrival order, and scans may run
// concurrently with appends.
type Buffer struct {
	mu      sync.RWMutex
	entries []domain.PointerClick
	head    int // index of the oldest entry
	size    int
}

// NewBuffer creates a buffer with the given capacity.
// Non-positive capacities fall back to DefaultBufferCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &Buffer{
		entries: make([]domain.PointerClick, capacity),
	}
}

// Append adds a click at the tail, evicting the oldest entry when full.
func (b *Buffer) Append(click domain.PointerClick) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.entries)
	if b.size < capacity {
		b.entries[(b.head+b.size)%capacity] = click
		b.size++
		return
	}

	// Full: overwrite the head slot and advance it.
	b.entries[b.head] = click
	b.head = (b.head + 1) % capacity
}

// Len returns the current occupancy.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Capacity returns the fixed capacity.
func (b *Buffer) Capacity() int {
	return len(b.entries)
}

// ScanNewestFirst visits entries from newest to oldest until fn returns
// false. The scan holds a read lock for its duration; fn must not block.
func (b *Buffer) ScanNewestFirst(fn func(domain.PointerClick) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	capacity := len(b.entries)
	for i := b.size - 1; i >= 0; i-- {
		if !fn(b.entries[(b.head+i)%capacity]) {
			return
		}
	}
}

// Snapshot returns a copy of the buffer contents from newest to oldest.
func (b *Buffer) Snapshot() []domain.PointerClick {
	b.mu.RLock()
	defer b.mu.RUnlock()

	capacity := len(b.entries)
	out := make([]domain.PointerClick, 0, b.size)
	for i := b.size - 1; i >= 0; i-- {
		out = append(out, b.entries[(b.head+i)%capacity])
	}
	return out
}
