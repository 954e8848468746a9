// Package entitymap provides a bidirectional mapping between stable
// simulation ids and runtime entity handles.
package entitymap

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/talgya/mini-world/internal/simerr"
)

// EntityKind tags which closed-set entity table a handle belongs to.
type EntityKind uint8

const (
	KindPerson EntityKind = iota
	KindFaction
	KindSettlement
	KindRegion
	KindArmy
	KindBuilding
	KindItem
	KindKnowledge
	KindManifestation
	KindReligion
	KindCulture
	KindDisease
)

// Handle identifies an entity's kind alongside its stable sim id, since ids
// are only unique within a kind's own sequence space in this implementation.
type Handle struct {
	Kind EntityKind
	SimID uint64
}

// Map is the bidirectional sim-id <-> handle index, keyed by EntityKind.
// Iteration surfaces are sorted, never hash order.
type Map struct {
	byHandle map[Handle]any
	handles  map[EntityKind]map[uint64]struct{}
}

// New creates an empty EntityMap.
func New() *Map {
	return &Map{
		byHandle: make(map[Handle]any),
		handles:  make(map[EntityKind]map[uint64]struct{}),
	}
}

// Insert records that simID (within kind) maps to handle value h. Insertion
// is idempotent for equal (kind, simID, h) triples; a conflicting mapping
// for the same (kind, simID) with a different value fails with IdCollision.
func (m *Map) Insert(kind EntityKind, simID uint64, h any) error {
	key := Handle{Kind: kind, SimID: simID}
	if existing, ok := m.byHandle[key]; ok {
		if existing != h {
			return fmt.Errorf("entitymap: kind=%d sim=%d: %w", kind, simID, simerr.IdCollision)
		}
		return nil
	}
	m.byHandle[key] = h
	if m.handles[kind] == nil {
		m.handles[kind] = make(map[uint64]struct{})
	}
	m.handles[kind][simID] = struct{}{}
	return nil
}

// Get returns the handle value for a (kind, simID) pair.
func (m *Map) Get(kind EntityKind, simID uint64) (any, bool) {
	v, ok := m.byHandle[Handle{Kind: kind, SimID: simID}]
	return v, ok
}

// SortedIDs returns every known simID for a kind in ascending order, the
// iteration order every tick-deterministic caller must use.
func (m *Map) SortedIDs(kind EntityKind) []uint64 {
	set := m.handles[kind]
	ids := maps.Keys(set)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
