// Package tokens implements append-only deduplicating tables that assign
// dense ordinals to entities referenced from instruction streams.
//
// Ordinals start at 0, follow first-seen order and are never reused.
// Keys are compared with ==, so pointer keys are deduplicated by identity
// and string keys by value.
package tokens

import (
	"fmt"
	"slices"
	"sync"

	"fortio.org/safecast"
)

// Table maps keys to stable ordinals. It is safe for concurrent use.
type Table[K comparable] struct {
	mu    sync.RWMutex
	items []K
	index map[K]uint32
}

// New creates a table with an optional capacity hint.
func New[K comparable](capacity int) *Table[K] {
	if capacity <= 0 {
		capacity = 16
	}
	return &Table[K]{
		items: make([]K, 0, capacity),
		index: make(map[K]uint32, capacity),
	}
}

// GetOrAssign returns the ordinal of key, appending it on first sight.
func (t *Table[K]) GetOrAssign(key K) uint32 {
	t.mu.RLock()
	ord, ok := t.index[key]
	t.mu.RUnlock()
	if ok {
		return ord
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if ord, ok := t.index[key]; ok {
		return ord
	}
	next, err := safecast.Conv[uint32](len(t.items))
	if err != nil {
		panic(fmt.Errorf("token table overflow: %w", err))
	}
	t.items = append(t.items, key)
	t.index[key] = next
	return next
}

// Lookup returns the key assigned to ord.
func (t *Table[K]) Lookup(ord uint32) (K, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(ord) >= len(t.items) {
		var zero K
		return zero, false
	}
	return t.items[ord], true
}

// Ordinal returns the ordinal already assigned to key, if any.
func (t *Table[K]) Ordinal(key K) (uint32, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ord, ok := t.index[key]
	return ord, ok
}

// Len reports the number of assigned ordinals.
func (t *Table[K]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// Snapshot returns a copy of all keys in ordinal order.
func (t *Table[K]) Snapshot() []K {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.items)
}
