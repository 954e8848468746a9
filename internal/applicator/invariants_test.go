package applicator

import (
	"testing"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/relations"
	"github.com/talgya/mini-world/internal/simworld"
)

// TestEffectsAndParticipantsReferenceExistingEvents checks that every
// effect and participant row names an event id that is actually present
// in events[], across a mixed sequence of commands.
func TestEffectsAndParticipantsReferenceExistingEvents(t *testing.T) {
	a, w := newTestRig()
	w.Persons[1] = simworld.NewPerson(1, "Aldric", 0)
	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)
	w.MemberOf.Add(1, 10, 0)

	a.Queue.Push(commands.Command{
		Kind:        commands.EndEntity{EntityID: 1, EntityKind: uint8(entitymap.KindPerson)},
		EventKind:   eventlog.KindDeath,
		Description: "Aldric dies",
	})
	a.Queue.Push(commands.Command{
		Kind:        commands.DeclareWar{Attacker: 10, Defender: 20},
		EventKind:   eventlog.KindWarDeclared,
		Description: "Crown declares war on Duchy",
		Participants: []eventlog.Participant{
			{EntityID: 10, Role: eventlog.RoleAttacker},
			{EntityID: 20, Role: eventlog.RoleDefender},
		},
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("run: %v", err)
	}

	eventIDs := make(map[uint64]bool, len(w.Events.Events))
	for _, e := range w.Events.Events {
		eventIDs[e.ID] = true
	}
	for _, e := range w.Events.Effects {
		if !eventIDs[e.EventID] {
			t.Fatalf("effect references event id %d which does not exist in events[]", e.EventID)
		}
	}
	for _, p := range w.Events.Participants {
		if !eventIDs[p.EventID] {
			t.Fatalf("participant references event id %d which does not exist in events[]", p.EventID)
		}
	}
}

// TestRelationshipGraphNeverHoldsTwoExclusiveKindsAtOnce checks that
// declaring war on an active ally ends the Ally relation before AtWar is
// added, so at_war is the only active exclusive kind for the pair.
func TestRelationshipGraphNeverHoldsTwoExclusiveKindsAtOnce(t *testing.T) {
	a, w := newTestRig()
	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)

	if err := w.Relations.Add(relations.Ally, 10, 20, 0); err != nil {
		t.Fatalf("setup ally: %v", err)
	}

	a.Queue.Push(commands.Command{
		Kind:        commands.DeclareWar{Attacker: 10, Defender: 20},
		EventKind:   eventlog.KindWarDeclared,
		Description: "Crown declares war on its ally Duchy",
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !w.Relations.AreAtWar(10, 20) {
		t.Fatalf("expected at_war to be active after DeclareWar")
	}
	if w.Relations.AreAllies(10, 20) {
		t.Fatalf("ally relation still active alongside at_war")
	}
}

// TestLeaderOfAlwaysImpliesMemberOf checks that SucceedLeader
// establishes MemberOf before LeaderOf for a candidate who was not yet a
// member, so the invariant never observably breaks.
func TestLeaderOfAlwaysImpliesMemberOf(t *testing.T) {
	a, w := newTestRig()
	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Persons[5] = simworld.NewPerson(5, "Outsider Claimant", 0)

	a.Queue.Push(commands.Command{
		Kind:        commands.SucceedLeader{FactionID: 10, NewLeaderID: 5},
		EventKind:   eventlog.KindSuccession,
		Description: "an outsider claims the crown",
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("run: %v", err)
	}

	leaderFaction, isLeader := w.LeaderOf.Get(5)
	if !isLeader || leaderFaction != 10 {
		t.Fatalf("expected person 5 to be leader of faction 10")
	}
	memberFaction, isMember := w.MemberOf.Get(5)
	if !isMember || memberFaction != 10 {
		t.Fatalf("person 5 is LeaderOf(10) but not MemberOf(10)")
	}
}

// TestEndedEntityReceivesNoFurtherMutations checks that once
// an entity's End is set, a command targeting it again (here, a SetField
// on the same entity after EndEntity has ended it) must not alter its
// state further.
func TestEndedEntityReceivesNoFurtherMutations(t *testing.T) {
	a, w := newTestRig()
	f := simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	f.Stability = 0.5
	w.Factions[10] = f

	a.Queue.Push(commands.Command{
		Kind:        commands.EndEntity{EntityID: 10, EntityKind: uint8(entitymap.KindFaction)},
		EventKind:   eventlog.KindFactionDissolved,
		Description: "the Crown dissolves",
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("end entity run: %v", err)
	}
	if f.Alive() {
		t.Fatalf("expected the faction to be ended")
	}

	a.Queue.Push(commands.Command{
		Kind: commands.SetField{
			EntityID: 10, EntityKind: uint8(entitymap.KindFaction),
			Field: "stability", NewValue: "0.9",
		},
		IsBookkeeping: true,
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("set_field on an ended entity should fail-soft, not error: %v", err)
	}
	if f.Stability != 0.5 {
		t.Fatalf("an ended faction's stability changed from 0.5 to %v", f.Stability)
	}
}
