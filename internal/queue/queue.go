// Package queue implements the double-buffered single-producer/many-consumer
// message buffer used for the command queue and the reactive-event queue.
// Producers append into the write buffer; Swap atomically exchanges the
// write and read buffers so a drain never observes a write that happens
// concurrently with it, and stale messages never leak across ticks.
package queue

import "sync"

// Queue is a generic double-buffered append/drain buffer.
type Queue[T any] struct {
	mu    sync.Mutex
	write []T
	read  []T
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends an item to the write buffer. Safe for concurrent producers.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	q.write = append(q.write, item)
	q.mu.Unlock()
}

// Swap atomically exchanges the write buffer into the read buffer and
// resets the write buffer to empty. Call once per tick at a phase
// transition; nothing may Push while Swap executes.
func (q *Queue[T]) Swap() {
	q.mu.Lock()
	q.read, q.write = q.write, q.read[:0]
	q.mu.Unlock()
}

// Drain returns the current read buffer (populated by the last Swap) in
// insertion order. The applicator iterates this directly; it is not safe
// to call concurrently with Swap.
func (q *Queue[T]) Drain() []T {
	return q.read
}

// Len reports the number of items currently in the write buffer (not yet
// swapped in for draining).
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.write)
}
