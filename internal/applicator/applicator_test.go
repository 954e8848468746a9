package applicator

import (
	"testing"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/relations"
	"github.com/talgya/mini-world/internal/simworld"
)

func newTestRig() (*Applicator, *simworld.World) {
	w := simworld.New(1, 42)
	cmdQ := queue.New[commands.Command]()
	reactQ := queue.New[commands.ReactiveEvent]()
	a := New(cmdQ, reactQ, 7)
	return a, w
}

func TestEndEntityIdempotentTwoEventsOneEffect(t *testing.T) {
	a, w := newTestRig()
	w.Persons[1] = simworld.NewPerson(1, "Aldric", 0)

	push := func() {
		a.Queue.Push(commands.Command{
			Kind:        commands.EndEntity{EntityID: 1, EntityKind: uint8(entitymap.KindPerson)},
			EventKind:   eventlog.KindDeath,
			Description: "Aldric dies",
		})
	}
	push()
	if err := a.Run(w); err != nil {
		t.Fatalf("first run: %v", err)
	}
	push()
	if err := a.Run(w); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(w.Events.Events) != 2 {
		t.Fatalf("expected 2 death events minted, got %d", len(w.Events.Events))
	}
	var endedEffects int
	for _, e := range w.Events.Effects {
		if _, ok := e.Change.(eventlog.EntityEnded); ok {
			endedEffects++
		}
	}
	if endedEffects != 1 {
		t.Fatalf("expected exactly 1 EntityEnded effect despite two EndEntity applications, got %d", endedEffects)
	}
	if w.Persons[1].Alive() {
		t.Fatalf("person 1 should be dead")
	}
}

func TestDeclareWarThenSignTreaty(t *testing.T) {
	a, w := newTestRig()
	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)

	a.Queue.Push(commands.Command{
		Kind:        commands.DeclareWar{Attacker: 10, Defender: 20},
		EventKind:   eventlog.KindWarDeclared,
		Description: "Crown declares war on Duchy",
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("declare war run: %v", err)
	}
	if !w.Relations.AreAtWar(10, 20) {
		t.Fatalf("expected factions to be at war after DeclareWar")
	}

	a.Queue.Push(commands.Command{
		Kind:        commands.SignTreaty{A: 10, B: 20, Winner: 10, Loser: 20, Decisive: true},
		EventKind:   eventlog.KindWarEnded,
		Description: "Crown defeats Duchy",
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("sign treaty run: %v", err)
	}
	if w.Relations.AreAtWar(10, 20) {
		t.Fatalf("expected war to be ended after SignTreaty")
	}
	if len(w.Factions[20].Diplomacy.TributeOwedTo) != 1 {
		t.Fatalf("expected the loser to owe tribute after a decisive treaty")
	}
}

// TestBookkeepingCommandAttributesToCausedByEvent exercises the causal
// chain preservation property: a bookkeeping command mints no event of its
// own, and its effect attaches to the event that caused it.
func TestBookkeepingCommandAttributesToCausedByEvent(t *testing.T) {
	a, w := newTestRig()
	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)

	a.Queue.Push(commands.Command{
		Kind:        commands.DeclareWar{Attacker: 10, Defender: 20},
		EventKind:   eventlog.KindWarDeclared,
		Description: "Crown declares war on Duchy",
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("declare war run: %v", err)
	}
	warEventID := w.Events.Events[0].ID
	eventsBefore := len(w.Events.Events)

	a.Queue.Push(commands.Command{
		Kind:          commands.AdjustFactionStats{FactionID: 10, TreasuryDelta: -500, StabilityDelta: -0.05},
		IsBookkeeping: true,
		CausedBy:      &warEventID,
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("bookkeeping run: %v", err)
	}
	if len(w.Events.Events) != eventsBefore {
		t.Fatalf("bookkeeping command must not mint a new event, have %d want %d", len(w.Events.Events), eventsBefore)
	}
	found := false
	for _, e := range w.Events.Effects {
		if e.EntityID == 10 {
			if c, ok := e.Change.(eventlog.PropertyChanged); ok && c.Field == "treasury" {
				if e.EventID != warEventID {
					t.Fatalf("bookkeeping effect event id = %d, want %d (caused_by)", e.EventID, warEventID)
				}
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected a treasury PropertyChanged effect attributed to the war event")
	}
}

// TestCaptureSettlementFlipsMembership exercises the capture-flips-
// membership scenario: a settlement owned by one faction is seized by
// another, ending the old MemberOf link and starting a new one.
func TestCaptureSettlementFlipsMembership(t *testing.T) {
	a, w := newTestRig()
	w.Factions[10] = simworld.NewFaction(10, "Old Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "New Crown", 0, simworld.GovHereditary)
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	w.MemberOf.Add(30, 10, 0)

	a.Queue.Push(commands.Command{
		Kind:        commands.CaptureSettlement{SettlementID: 30, NewFactionID: 20},
		EventKind:   eventlog.KindConquest,
		Description: "New Crown seizes Ashford",
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got, ok := w.MemberOf.Get(30); !ok || got != 20 {
		t.Fatalf("expected settlement 30 to be a member of faction 20, got %d (ok=%v)", got, ok)
	}
	if w.Settlements[30].OwnerFactionID != 20 {
		t.Fatalf("expected owner faction id to be updated, got %d", w.Settlements[30].OwnerFactionID)
	}
	var endedOld, startedNew bool
	for _, e := range w.Events.Effects {
		if e.EntityID != 30 {
			continue
		}
		if c, ok := e.Change.(eventlog.RelationshipEnded); ok && c.Kind == "member_of" && c.Other == 10 {
			endedOld = true
		}
		if c, ok := e.Change.(eventlog.RelationshipAdded); ok && c.Kind == "member_of" && c.Other == 20 {
			startedNew = true
		}
	}
	if !endedOld || !startedNew {
		t.Fatalf("expected both a RelationshipEnded(member_of,10) and RelationshipAdded(member_of,20) effect")
	}
	reactive := a.Reactive.Drain()
	if len(reactive) != 1 {
		t.Fatalf("expected exactly 1 reactive event, got %d", len(reactive))
	}
	if _, ok := reactive[0].Kind.(commands.SettlementCaptured); !ok {
		t.Fatalf("expected a SettlementCaptured reactive event, got %T", reactive[0].Kind)
	}
}

// TestMigratePopulationClampsToSourceTotal checks that moving
// more people than a settlement has clamps to its full population and
// both settlements' age brackets still sum correctly afterward.
func TestMigratePopulationClampsToSourceTotal(t *testing.T) {
	a, w := newTestRig()
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 200)
	w.Settlements[31] = simworld.NewSettlement(31, "Brackwater", 0, 10, 1, 50)

	a.Queue.Push(commands.Command{
		Kind:        commands.MigratePopulation{FromSettID: 30, ToSettID: 31, Count: 10_000},
		EventKind:   eventlog.KindMigration,
		Description: "Ashford empties into Brackwater",
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("run: %v", err)
	}

	from := w.Settlements[30]
	to := w.Settlements[31]
	if from.Population.Total != 0 {
		t.Fatalf("expected the source settlement to be fully drained, got %d", from.Population.Total)
	}
	if to.Population.Total != 250 {
		t.Fatalf("expected the destination to receive the full clamped count, got %d", to.Population.Total)
	}
	var fromSum, toSum uint64
	for _, c := range from.Population.Counts {
		fromSum += c
	}
	for _, c := range to.Population.Counts {
		toSum += c
	}
	if fromSum != from.Population.Total || toSum != to.Population.Total {
		t.Fatalf("age-bracket counts must still sum to the total: from %d/%d, to %d/%d",
			fromSum, from.Population.Total, toSum, to.Population.Total)
	}
}

// TestAddRelationshipIdempotentTwoEventsOneRow checks that applying
// AddRelationship(a,b,Ally) twice produces two events but exactly one
// ally row with one start time.
func TestAddRelationshipIdempotentTwoEventsOneRow(t *testing.T) {
	a, w := newTestRig()
	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)

	push := func() {
		a.Queue.Push(commands.Command{
			Kind:        commands.AddRelationship{Src: 10, Tgt: 20, Kind: commands.RelAlly},
			EventKind:   eventlog.KindAllianceFormed,
			Description: "Crown and Duchy become allies",
		})
	}
	push()
	if err := a.Run(w); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstRow, _ := w.Relations.Row(relations.Ally, 10, 20)

	push()
	if err := a.Run(w); err != nil {
		t.Fatalf("second run: %v", err)
	}
	secondRow, ok := w.Relations.Row(relations.Ally, 10, 20)
	if !ok {
		t.Fatalf("expected an ally row to exist after two applications")
	}

	if len(w.Events.Events) != 2 {
		t.Fatalf("expected 2 alliance_formed events minted, got %d", len(w.Events.Events))
	}
	if secondRow.Start != firstRow.Start {
		t.Fatalf("start time changed across idempotent re-application (%d -> %d)", firstRow.Start, secondRow.Start)
	}
	if !w.Relations.AreAllies(10, 20) {
		t.Fatalf("expected exactly one active ally row between 10 and 20")
	}
}

func TestReactiveQueueClearsBetweenEmptyTicks(t *testing.T) {
	a, w := newTestRig()
	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)

	a.Queue.Push(commands.Command{
		Kind:        commands.DeclareWar{Attacker: 10, Defender: 20},
		EventKind:   eventlog.KindWarDeclared,
		Description: "Crown declares war on Duchy",
	})
	if err := a.Run(w); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := len(a.Reactive.Drain()); got != 1 {
		t.Fatalf("expected 1 reactive event after DeclareWar, got %d", got)
	}

	if err := a.Run(w); err != nil {
		t.Fatalf("second (empty) run: %v", err)
	}
	if got := len(a.Reactive.Drain()); got != 0 {
		t.Fatalf("expected reactive queue to be empty on an empty tick, got %d", got)
	}
}
