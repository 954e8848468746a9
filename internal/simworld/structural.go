package simworld

import "sort"

// structRow is one structural-link instance: source -> target, time-bounded.
type structRow struct {
	Target uint64
	Start  uint64
	End    *uint64
}

func (r *structRow) active() bool { return r.End == nil }

// Structural indexes a 1-to-1-per-source structural relationship (e.g.
// Person MemberOf Faction, Person LocatedIn Settlement, Item HeldBy
// holder) with a back-index on the target so "which items does X hold?"
// is O(results). A source may have at most one active link at a time;
// establishing a new one does not automatically end a prior one — callers
// (the applicator) issue an explicit End before Add when a transition is
// intended.
type Structural struct {
	forward map[uint64]*structRow   // source id -> current link (nil if never set)
	reverse map[uint64]map[uint64]bool // target id -> set of source ids with an active link
}

// NewStructural creates an empty structural index.
func NewStructural() *Structural {
	return &Structural{
		forward: make(map[uint64]*structRow),
		reverse: make(map[uint64]map[uint64]bool),
	}
}

// Add establishes source -> target at time now. If source already has an
// active link to the same target, it is a no-op. If source has an active
// link to a different target, Add still creates the new link (callers are
// responsible for ending the old one first — see doc comment above); both
// remain queryable by id but only the most recently added row is returned
// by Get, matching "last write wins" for the forward pointer while the
// reverse index retains every active source for the affected targets.
func (s *Structural) Add(source, target uint64, now uint64) {
	if row, ok := s.forward[source]; ok && row.active() && row.Target == target {
		return
	}
	s.forward[source] = &structRow{Target: target, Start: now}
	if s.reverse[target] == nil {
		s.reverse[target] = make(map[uint64]bool)
	}
	s.reverse[target][source] = true
}

// End ends source's active link (to whatever target it currently points
// at), if any. No-op if source has no active link.
func (s *Structural) End(source uint64, now uint64) {
	row, ok := s.forward[source]
	if !ok || !row.active() {
		return
	}
	end := now
	row.End = &end
	if set, ok := s.reverse[row.Target]; ok {
		delete(set, source)
	}
}

// Get returns the active target for source, if any.
func (s *Structural) Get(source uint64) (uint64, bool) {
	row, ok := s.forward[source]
	if !ok || !row.active() {
		return 0, false
	}
	return row.Target, true
}

// Row returns the full current row for source (active or ended), for
// snapshotting.
func (s *Structural) Row(source uint64) (target uint64, start uint64, end *uint64, ok bool) {
	row, exists := s.forward[source]
	if !exists {
		return 0, 0, nil, false
	}
	return row.Target, row.Start, row.End, true
}

// SourcesOf returns, in sorted order, every source id with an active link
// to target.
func (s *Structural) SourcesOf(target uint64) []uint64 {
	set := s.reverse[target]
	out := make([]uint64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether source currently has an active link to target.
func (s *Structural) Has(source, target uint64) bool {
	t, ok := s.Get(source)
	return ok && t == target
}

// StructuralRow is one persisted structural link, for snapshotting.
type StructuralRow struct {
	Source uint64
	Target uint64
	Start  uint64
	End    *uint64
}

// AllRows returns every row (active or ended) in source-id order, for
// persistence.
func (s *Structural) AllRows() []StructuralRow {
	ids := make([]uint64, 0, len(s.forward))
	for id := range s.forward {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]StructuralRow, 0, len(ids))
	for _, id := range ids {
		row := s.forward[id]
		out = append(out, StructuralRow{Source: id, Target: row.Target, Start: row.Start, End: row.End})
	}
	return out
}

// Restore re-inserts a row exactly as persisted, bypassing Add's
// already-linked no-op check — used only when reloading a snapshot.
func (s *Structural) Restore(row StructuralRow) {
	s.forward[row.Source] = &structRow{Target: row.Target, Start: row.Start, End: row.End}
	if row.End == nil {
		if s.reverse[row.Target] == nil {
			s.reverse[row.Target] = make(map[uint64]bool)
		}
		s.reverse[row.Target][row.Source] = true
	}
}
