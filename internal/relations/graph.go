// Package relations implements the dense index of canonicalized entity
// pairs to symmetric diplomatic relationship metadata (ally, enemy, at-war,
// trade route).
package relations

import (
	"fmt"
	"sort"

	"github.com/talgya/mini-world/internal/simerr"
)

// Kind enumerates the relationship kinds tracked by the graph.
type Kind uint8

const (
	Ally Kind = iota
	Enemy
	AtWar
	TradeRoute
)

func (k Kind) String() string {
	switch k {
	case Ally:
		return "ally"
	case Enemy:
		return "enemy"
	case AtWar:
		return "at_war"
	case TradeRoute:
		return "trade_route"
	default:
		return "unknown"
	}
}

// Pair is a canonicalized (min, max) ordering of two entity ids, eliminating
// "did A tell B or B tell A?" ambiguity.
type Pair struct {
	A uint64
	B uint64
}

// CanonicalPair returns the canonical ordering of a and b.
func CanonicalPair(a, b uint64) Pair {
	if a <= b {
		return Pair{A: a, B: b}
	}
	return Pair{A: b, B: a}
}

// Row holds the time bounds of one relationship instance.
type Row struct {
	Start uint64
	End   *uint64 // nil while active
}

// Active reports whether the row has no end time.
func (r Row) Active() bool {
	return r.End == nil
}

// exclusiveGroup groups {ally, enemy, at_war}: at most one of these
// three may be simultaneously active for a given pair.
// TradeRoute is orthogonal and may coexist with any of them.
var exclusiveGroup = map[Kind]bool{Ally: true, Enemy: true, AtWar: true}

// Graph stores the four relationship maps, each indexed by canonical pair.
type Graph struct {
	tables map[Kind]map[Pair]*Row
}

// New creates an empty relationship graph.
func New() *Graph {
	return &Graph{
		tables: map[Kind]map[Pair]*Row{
			Ally:       make(map[Pair]*Row),
			Enemy:      make(map[Pair]*Row),
			AtWar:      make(map[Pair]*Row),
			TradeRoute: make(map[Pair]*Row),
		},
	}
}

// Add inserts kind for (a,b) at time now. If already present and active,
// it is a no-op. If present and ended, it resets start=now, end=nil. Fails
// with ConflictingRelationship-class error (wrapping PreconditionFailure) if
// another mutually exclusive kind is currently active for the pair.
func (g *Graph) Add(kind Kind, a, b uint64, now uint64) error {
	pair := CanonicalPair(a, b)

	if exclusiveGroup[kind] {
		for other := range exclusiveGroup {
			if other == kind {
				continue
			}
			if row, ok := g.tables[other][pair]; ok && row.Active() {
				return fmt.Errorf("relations: %s conflicts with active %s for pair %v: %w",
					kind, other, pair, simerr.PreconditionFailure)
			}
		}
	}

	row, exists := g.tables[kind][pair]
	if exists && row.Active() {
		return nil
	}
	if exists {
		row.Start = now
		row.End = nil
		return nil
	}
	g.tables[kind][pair] = &Row{Start: now}
	return nil
}

// End sets the end time for kind on (a,b) if active; otherwise a silent
// no-op. No effect is recorded here — the applicator decides whether to
// emit an audit effect for the caller.
func (g *Graph) End(kind Kind, a, b uint64, now uint64) {
	pair := CanonicalPair(a, b)
	row, ok := g.tables[kind][pair]
	if !ok || !row.Active() {
		return
	}
	end := now
	row.End = &end
}

// EndAllInvolving ends every active relationship of every kind that
// involves entity id, returning the (kind, other-party) pairs that were
// ended, used by EndEntity to clear diplomatic ties.
func (g *Graph) EndAllInvolving(id uint64, now uint64) []struct {
	Kind  Kind
	Other uint64
} {
	var ended []struct {
		Kind  Kind
		Other uint64
	}
	for kind, table := range g.tables {
		for pair, row := range table {
			if !row.Active() {
				continue
			}
			if pair.A != id && pair.B != id {
				continue
			}
			other := pair.A
			if other == id {
				other = pair.B
			}
			end := now
			row.End = &end
			ended = append(ended, struct {
				Kind  Kind
				Other uint64
			}{Kind: kind, Other: other})
		}
	}
	sort.Slice(ended, func(i, j int) bool {
		if ended[i].Kind != ended[j].Kind {
			return ended[i].Kind < ended[j].Kind
		}
		return ended[i].Other < ended[j].Other
	})
	return ended
}

// Are reports whether kind is currently active for (a,b).
func (g *Graph) Are(kind Kind, a, b uint64) bool {
	row, ok := g.tables[kind][CanonicalPair(a, b)]
	return ok && row.Active()
}

// AreAllies, AreEnemies, AreAtWar are convenience wrappers over Are.
func (g *Graph) AreAllies(a, b uint64) bool { return g.Are(Ally, a, b) }
func (g *Graph) AreEnemies(a, b uint64) bool { return g.Are(Enemy, a, b) }
func (g *Graph) AreAtWar(a, b uint64) bool   { return g.Are(AtWar, a, b) }

// AreConnected reports whether any of ally/enemy/at_war/trade_route is
// currently active between a and b.
func (g *Graph) AreConnected(a, b uint64) bool {
	pair := CanonicalPair(a, b)
	for _, table := range g.tables {
		if row, ok := table[pair]; ok && row.Active() {
			return true
		}
	}
	return false
}

// Partners returns, in stable (sorted) order, every other-party id
// connected to id by an active relationship of kind.
func (g *Graph) Partners(kind Kind, id uint64) []uint64 {
	var out []uint64
	for pair, row := range g.tables[kind] {
		if !row.Active() {
			continue
		}
		if pair.A == id {
			out = append(out, pair.B)
		} else if pair.B == id {
			out = append(out, pair.A)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Row returns the current row for kind/(a,b), if any exists (active or
// ended), used by snapshotting.
func (g *Graph) Row(kind Kind, a, b uint64) (Row, bool) {
	row, ok := g.tables[kind][CanonicalPair(a, b)]
	if !ok {
		return Row{}, false
	}
	return *row, true
}

// All returns every (kind, pair, row) triple in stable order, for
// snapshotting the full graph.
func (g *Graph) All() []struct {
	Kind Kind
	Pair Pair
	Row  Row
} {
	var out []struct {
		Kind Kind
		Pair Pair
		Row  Row
	}
	kinds := []Kind{Ally, Enemy, AtWar, TradeRoute}
	for _, kind := range kinds {
		var pairs []Pair
		for p := range g.tables[kind] {
			pairs = append(pairs, p)
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].A != pairs[j].A {
				return pairs[i].A < pairs[j].A
			}
			return pairs[i].B < pairs[j].B
		})
		for _, p := range pairs {
			out = append(out, struct {
				Kind Kind
				Pair Pair
				Row  Row
			}{Kind: kind, Pair: p, Row: *g.tables[kind][p]})
		}
	}
	return out
}

// Restore rebuilds a table row directly, used when loading a snapshot.
func (g *Graph) Restore(kind Kind, pair Pair, row Row) {
	g.tables[kind][pair] = &row
}
