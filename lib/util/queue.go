// Package util provides an unbounded Multi-Producer Single-Consumer (MPSC) queue.
//
// Features and Guarantees:
//
//   - Non-Blocking Push: producers never wait for the consumer, which makes Push
//     safe to call from runtime cleanup functions
//   - Unbounded Size: the queue grows as needed, limited only by available memory
//   - Batched Consumption: the consumer takes everything queued so far with Drain
//   - Wakeup Channel: Notify() fires (coalesced) whenever new items are pushed
package util

import (
	"sync"
)

// Queue is an unbounded multi-producer single-consumer queue
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	notify chan struct{} // capacity 1, coalesces wakeups
	closed bool
}

// NewQueue creates a new empty queue
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		notify: make(chan struct{}, 1),
	}
}

// Push adds an item to the queue.
// Returns true if the item was added, or false if the queue is closed.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (q *Queue[T]) Push(value T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, value)
	q.mu.Unlock()

	// wake the consumer, a pending wakeup already covers this item
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Drain removes and returns all queued items in push order.
// Items that are pushed concurrently end up in this or the next batch.
//
// Thread-safety: This method is thread-safe, but meant for a single consumer.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	return items
}

// Notify returns a channel that receives a value after items have been pushed.
func (q *Queue[T]) Notify() <-chan struct{} {
	return q.notify
}

// Close closes the queue, preventing further pushes.
// Items already in the queue can still be drained.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

// IsClosed returns true if the queue is closed.
func (q *Queue[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
