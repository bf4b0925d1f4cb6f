// Package stabilize turns noisy per-sample classifier input into a
// stable gesture decision using low-pass averaging, a confidence gate
// and majority voting over fixed-size recent-history windows.
package stabilize

// Window is a fixed-capacity, insertion-ordered sequence of the most
// recent values pushed into it. When a push exceeds the capacity the
// oldest value is evicted. It is not safe for concurrent use; callers
// hold their own lock.
type Window[T any] struct {
	items    []T
	capacity int
}

// NewWindow creates a Window with the given capacity. Capacities below
// one are clamped to one.
func NewWindow[T any](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a value, evicting the oldest one if the window is full.
func (w *Window[T]) Push(value T) {
	if len(w.items) >= w.capacity {
		copy(w.items, w.items[1:])
		w.items = w.items[:w.capacity-1]
	}
	w.items = append(w.items, value)
}

// Len returns the number of values currently held.
func (w *Window[T]) Len() int {
	return len(w.items)
}

// Cap returns the configured capacity.
func (w *Window[T]) Cap() int {
	return w.capacity
}

// Full reports whether the window has reached its capacity.
func (w *Window[T]) Full() bool {
	return len(w.items) == w.capacity
}

// Items returns a copy of the window contents in insertion order,
// oldest first.
func (w *Window[T]) Items() []T {
	out := make([]T, len(w.items))
	copy(out, w.items)
	return out
}
