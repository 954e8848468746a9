// Package idgen mints monotonic 64-bit simulation ids.
package idgen

import "sync"

// Generator hands out strictly increasing ids, never reused.
type Generator struct {
	mu   sync.Mutex
	next uint64
}

// New creates a generator whose first minted id is seed.
func New(seed uint64) *Generator {
	return &Generator{next: seed}
}

// NextID returns the next id and advances the counter.
func (g *Generator) NextID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	return id
}

// Cursor returns the next id that would be minted, for snapshotting.
func (g *Generator) Cursor() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next
}

// Restore sets the cursor directly, used when loading a snapshot.
func (g *Generator) Restore(cursor uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next = cursor
}
