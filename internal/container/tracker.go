package container

import (
	"slices"
	"sync"
)

// Tracker records values pending teardown. It has its own lock so adding an
// entry never contends with resolution on the owning scope.
type Tracker[T any] struct {
	mu      sync.Mutex
	entries []T
	drained bool
}

// Add records entry. It reports false, leaving the entry to the caller, once
// the tracker has been drained.
func (t *Tracker[T]) Add(entry T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.drained {
		return false
	}
	t.entries = append(t.entries, entry)
	return true
}

// Drain removes every entry and returns them newest first. Later calls to
// Add are rejected.
func (t *Tracker[T]) Drain() []T {
	t.mu.Lock()
	entries := t.entries
	t.entries = nil
	t.drained = true
	t.mu.Unlock()

	slices.Reverse(entries)
	return entries
}

func (t *Tracker[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Snapshot returns a copy of the pending entries in insertion order.
func (t *Tracker[T]) Snapshot() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.entries)
}
