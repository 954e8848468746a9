package simworld

import (
	"testing"

	"github.com/talgya/mini-world/internal/eventlog"
)

func TestPopulationRescalePreservesSum(t *testing.T) {
	p := NewPopulationBreakdown(300)
	var sum uint64
	for _, c := range p.Counts {
		sum += c
	}
	if sum != 300 {
		t.Fatalf("initial breakdown sum = %d, want 300", sum)
	}

	p.Rescale(301) // deliberately odd to exercise rounding remainder
	sum = 0
	for _, c := range p.Counts {
		sum += c
	}
	if sum != 301 {
		t.Fatalf("rescaled breakdown sum = %d, want 301", sum)
	}
}

func TestStructuralAddEndSourcesOf(t *testing.T) {
	s := NewStructural()
	s.Add(1, 100, 0)
	s.Add(2, 100, 0)
	s.Add(3, 200, 0)

	got := s.SourcesOf(100)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected sources [1 2], got %v", got)
	}

	s.End(1, 10)
	got = s.SourcesOf(100)
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected sources [2] after ending source 1, got %v", got)
	}
}

func TestInvariantLeaderImpliesMember(t *testing.T) {
	w := New(1, 1)
	w.Persons[1] = NewPerson(1, "Aldric", 0)
	w.Factions[10] = NewFaction(10, "The Crown", 0, GovHereditary)
	w.LeaderOf.Add(1, 10, 0)
	// MemberOf deliberately not set — the leadership check should fire.
	if err := w.CheckInvariants(); err == nil {
		t.Fatalf("expected a LeaderOf-without-MemberOf violation, got none")
	}
	w.MemberOf.Add(1, 10, 0)
	if err := w.CheckInvariants(); err != nil {
		t.Fatalf("expected no violation once MemberOf is set: %v", err)
	}
}

func TestInvariantEffectReferencesEvent(t *testing.T) {
	w := New(1, 1)
	id := w.Events.Append(eventlog.KindDeath, 0, "x", nil, nil, nil)
	w.Events.AppendEffect(id, 1, eventlog.EntityEnded{})
	if err := w.CheckInvariants(); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}
}
