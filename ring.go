package atom

import "sync"

// ring is a thread-safe bounded buffer that keeps the most recent items.
// A nil ring is valid and discards everything.
type ring[T any] struct {
	mu    sync.RWMutex
	items []T
	head  int
	count int
}

// newRing creates a ring with the given capacity, or nil if size <= 0.
func newRing[T any](size int) *ring[T] {
	if size <= 0 {
		return nil
	}
	return &ring[T]{items: make([]T, size)}
}

// push adds an item, evicting the oldest when full.
func (r *ring[T]) push(v T) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.head] = v
	r.head = (r.head + 1) % len(r.items)
	if r.count < len(r.items) {
		r.count++
	}
}

// clear removes all items.
func (r *ring[T]) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.items)
	r.head = 0
	r.count = 0
}

// all returns all items, oldest first.
func (r *ring[T]) all() []T {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}

	size := len(r.items)
	result := make([]T, r.count)
	start := (r.head - r.count + size) % size
	for i := range r.count {
		result[i] = r.items[(start+i)%size]
	}
	return result
}
