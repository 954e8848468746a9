// Package simrng provides named, independently seeded RNG streams so that
// reordering reads within a tick cannot cross-contaminate determinism.
package simrng

import (
	"hash/fnv"
	"math/rand"
)

// Stream is one named RNG stream. Every draw funnels through Float64 and
// is counted, so a snapshot can replay the stream back to its exact
// position on restore.
type Stream struct {
	rng   *rand.Rand
	draws uint64
}

// Float64 returns the next value in [0, 1).
func (s *Stream) Float64() float64 {
	s.draws++
	return s.rng.Float64()
}

// Intn returns an int in [0, n), derived from the same counted Float64
// primitive so replay stays exact.
func (s *Stream) Intn(n int) int {
	return int(s.Float64() * float64(n))
}

// Pool holds one Stream per named domain, each deterministically derived
// from a master seed and the domain's name. A domain system only ever
// draws from its own stream, so reordering reads across domains cannot
// shift another domain's outcomes.
type Pool struct {
	masterSeed int64
	streams    map[string]*Stream
}

// NewPool derives a fresh pool from a master seed. Streams are created
// lazily on first Stream() call so a scenario that never touches a domain
// never burns entropy on it.
func NewPool(masterSeed int64) *Pool {
	return &Pool{
		masterSeed: masterSeed,
		streams:    make(map[string]*Stream),
	}
}

// deriveSeed combines the master seed with a domain name via FNV-1a so two
// different domain names never collide and the derivation is stable across
// machines and Go versions.
func deriveSeed(master int64, domain string) int64 {
	h := fnv.New64a()
	h.Write([]byte(domain))
	mixed := h.Sum64() ^ uint64(master)
	return int64(mixed)
}

// Stream returns the stream for domain, creating it on first use.
func (p *Pool) Stream(domain string) *Stream {
	s, ok := p.streams[domain]
	if !ok {
		seed := deriveSeed(p.masterSeed, domain)
		s = &Stream{rng: rand.New(rand.NewSource(seed))}
		p.streams[domain] = s
	}
	return s
}

// Snapshot captures the master seed and each stream's draw count.
// math/rand.Rand does not expose its internal state portably across
// versions, so restore re-derives each stream from the seed and replays
// the counted draws to land on the identical position.
type Snapshot struct {
	MasterSeed int64             `json:"master_seed"`
	Draws      map[string]uint64 `json:"draws"`
}

// Snapshot returns a restorable snapshot of this pool.
func (p *Pool) Snapshot() Snapshot {
	draws := make(map[string]uint64, len(p.streams))
	for d, s := range p.streams {
		draws[d] = s.draws
	}
	return Snapshot{MasterSeed: p.masterSeed, Draws: draws}
}

// Restore rebuilds a pool from a snapshot, re-deriving each named stream
// and fast-forwarding it past the draws already consumed.
func Restore(s Snapshot) *Pool {
	p := NewPool(s.MasterSeed)
	for d, n := range s.Draws {
		stream := p.Stream(d)
		for i := uint64(0); i < n; i++ {
			stream.Float64()
		}
	}
	return p
}
