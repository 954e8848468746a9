// Package politics is the succession/coup domain system: observes faction
// leadership and stability and enqueues AttemptCoup/SucceedLeader
// commands, plus dissolution of factions left with no settlements.
// Succession is reactive: a Reactions-phase consumer answers the
// applicator's RulerVacancy events with a SucceedLeader intent for the
// next tick, picking the highest-prestige living member — a deterministic
// choice so replays cannot diverge on a tie.
package politics

import (
	"fmt"
	"sort"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simworld"
)

const domainName = "politics"

type Domain struct {
	World    *simworld.World
	Out      *queue.Queue[commands.Command]
	Reactive *queue.Queue[commands.ReactiveEvent]
}

func New(w *simworld.World, out *queue.Queue[commands.Command], reactive *queue.Queue[commands.ReactiveEvent]) *Domain {
	return &Domain{World: w, Out: out, Reactive: reactive}
}

func (d *Domain) Register(s *scheduler.Scheduler) {
	s.Register(scheduler.System{
		Domain:    domainName,
		Phase:     scheduler.Update,
		Frequency: scheduler.Monthly,
		Run:       func(g scheduler.Gate) { d.Tick() },
	})
	s.Register(scheduler.System{
		Domain:    domainName + ".dissolution",
		Phase:     scheduler.Update,
		Frequency: scheduler.Yearly,
		After:     []string{domainName},
		Run:       func(g scheduler.Gate) { d.checkDissolutions() },
	})
	s.Register(scheduler.System{
		Domain:    domainName + ".reactions",
		Phase:     scheduler.Reactions,
		Frequency: scheduler.Always,
		Run:       func(g scheduler.Gate) { d.Reactions() },
	})
}

// Tick runs once per simulated month: checks whether low legitimacy and
// stability invite a coup attempt from the faction's most prestigious
// non-leader member. Vacant seats are not polled here — the Reactions
// consumer answers RulerVacancy events as they happen.
func (d *Domain) Tick() {
	w := d.World
	for _, factionID := range w.SortedFactionIDs() {
		f := w.Factions[factionID]
		if !f.Alive() {
			continue
		}

		members := w.MemberOf.SourcesOf(factionID)
		if len(members) == 0 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

		leaders := w.LeaderOf.SourcesOf(factionID)
		if len(leaders) == 0 {
			continue
		}

		d.checkCoup(f, leaders[0], members)
	}
}

// Reactions consumes the tick's reactive events after the applicator has
// run: each RulerVacancy is answered with a SucceedLeader intent for the
// next tick, attributed to the event that emptied the seat. Reading the
// drained buffer is share-safe — Drain does not consume, so other
// Reactions-phase systems see the same events.
func (d *Domain) Reactions() {
	w := d.World
	for _, ev := range d.Reactive.Drain() {
		vacancy, ok := ev.Kind.(commands.RulerVacancy)
		if !ok {
			continue
		}
		f, ok := w.Factions[vacancy.FactionID]
		if !ok || !f.Alive() {
			continue
		}
		if len(w.LeaderOf.SourcesOf(vacancy.FactionID)) > 0 {
			continue
		}
		members := w.MemberOf.SourcesOf(vacancy.FactionID)
		if len(members) == 0 {
			continue
		}
		var causedBy *uint64
		if ev.EventID != 0 {
			cause := ev.EventID
			causedBy = &cause
		}
		d.succeedLeader(f, members, causedBy)
	}
}

// succeedLeader picks the highest-prestige living member to fill a vacant
// seat, chaining the succession to the event that caused the vacancy.
func (d *Domain) succeedLeader(f *simworld.Faction, members []uint64, causedBy *uint64) {
	w := d.World
	candidate := highestPrestige(w, members)
	if candidate == 0 {
		return
	}
	d.push(commands.Command{
		Kind:        commands.SucceedLeader{FactionID: f.SimID, NewLeaderID: candidate},
		EventKind:   eventlog.KindSuccession,
		Description: fmt.Sprintf("a new leader is raised for %s", f.Name),
		CausedBy:    causedBy,
		Participants: []eventlog.Participant{
			{EntityID: candidate, Role: eventlog.RoleSubject},
			{EntityID: f.SimID, Role: eventlog.RoleObject},
		},
	})
}

// checkCoup fires an AttemptCoup once legitimacy and stability have both
// fallen below threshold and a rival of sufficient prestige exists,
// mirroring checkRevolution's governance-score-plus-rival-strength gate.
func (d *Domain) checkCoup(f *simworld.Faction, leaderID uint64, members []uint64) {
	const legitimacyFloor = 0.25
	const stabilityFloor = 0.3
	if f.Legitimacy >= legitimacyFloor || f.Stability >= stabilityFloor {
		return
	}

	w := d.World
	var rivals []uint64
	for _, m := range members {
		if m != leaderID {
			rivals = append(rivals, m)
		}
	}
	instigator := highestPrestige(w, rivals)
	if instigator == 0 {
		return
	}

	instigatorPrestige := w.Persons[instigator].Prestige
	succeeds := instigatorPrestige > 0.6 && f.Legitimacy < 0.15

	d.push(commands.Command{
		Kind: commands.AttemptCoup{
			FactionID:               f.SimID,
			InstigatorID:            instigator,
			Succeeded:               succeeds,
			ExecuteInstigatorOnFail: f.Government == simworld.GovBandit,
		},
		EventKind:   eventlog.KindCoupAttempted,
		Description: fmt.Sprintf("%s moves against the leadership of %s", w.Persons[instigator].Name, f.Name),
		Participants: []eventlog.Participant{
			{EntityID: instigator, Role: eventlog.RoleSubject},
			{EntityID: leaderID, Role: eventlog.RoleObject},
		},
	})
}

// checkDissolutions runs once a year: a faction holding no living
// settlement is dissolved via a generic EndEntity, matching the boundary
// condition that statelessness is terminal rather than a recoverable
// condition.
func (d *Domain) checkDissolutions() {
	w := d.World
	holders := make(map[uint64]bool)
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if sett.Alive() {
			holders[sett.OwnerFactionID] = true
		}
	}

	for _, factionID := range w.SortedFactionIDs() {
		f := w.Factions[factionID]
		if !f.Alive() || holders[factionID] {
			continue
		}
		d.push(commands.Command{
			Kind: commands.EndEntity{
				EntityID:   factionID,
				EntityKind: uint8(entitymap.KindFaction),
			},
			EventKind:   eventlog.KindFactionDissolved,
			Description: fmt.Sprintf("%s dissolves, holding no settlement", f.Name),
			Participants: []eventlog.Participant{
				{EntityID: factionID, Role: eventlog.RoleSubject},
			},
		})
	}
}

func highestPrestige(w *simworld.World, candidates []uint64) uint64 {
	var best uint64
	var bestPrestige float64 = -1
	for _, id := range candidates {
		p, ok := w.Persons[id]
		if !ok || !p.Alive() {
			continue
		}
		if p.Prestige > bestPrestige || (p.Prestige == bestPrestige && id < best) {
			best = id
			bestPrestige = p.Prestige
		}
	}
	return best
}

func (d *Domain) push(cmd commands.Command) {
	d.Out.Push(cmd)
}
