// Package actions is the population-lifecycle domain system: yearly aging
// checks that retire the elderly and spawn newcomers in prosperous
// settlements. Mortality and birth rolls draw from the domain's own named
// RNG stream. Coups and successions are produced by the politics domain,
// not here.
package actions

import (
	"fmt"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simclock"
	"github.com/talgya/mini-world/internal/simworld"
)

const domainName = "actions"

// oldAgeThreshold is the age past which yearly mortality risk accrues;
// elderMortalityPerYear is the per-year-past-threshold increment to that
// risk.
const (
	oldAgeThreshold       = 55
	elderMortalityPerYear = 0.015

	// birthsPerEligibleParent is the yearly odds of a birth per eligible
	// adult resident, scaled by settlement prosperity.
	birthsPerEligibleParent = 0.04
	minAdultAge             = 18
	maxParentAge            = 45
)

type Domain struct {
	World *simworld.World
	Out   *queue.Queue[commands.Command]
}

func New(w *simworld.World, out *queue.Queue[commands.Command]) *Domain {
	return &Domain{World: w, Out: out}
}

func (d *Domain) Register(s *scheduler.Scheduler) {
	s.Register(scheduler.System{
		Domain:    domainName,
		Phase:     scheduler.Update,
		Frequency: scheduler.Yearly,
		Run:       func(g scheduler.Gate) { d.Tick() },
	})
}

// Tick rolls one natural-death check per living person past the old-age
// threshold, then one birth check per settlement scaled by its prosperity
// and number of resident adults of childbearing age.
func (d *Domain) Tick() {
	w := d.World
	rng := w.RNG.Stream(domainName)

	d.checkDeaths(rng)
	d.checkBirths(rng)
}

func (d *Domain) checkDeaths(rng interface{ Float64() float64 }) {
	w := d.World
	now := w.Clock.Minute

	for _, personID := range w.SortedPersonIDs() {
		p := w.Persons[personID]
		if !p.Alive() {
			continue
		}
		age := (now - p.BirthTime) / simclock.MinutesPerYear
		if age <= oldAgeThreshold {
			continue
		}
		mortality := elderMortalityPerYear * float64(age-oldAgeThreshold)
		if mortality > 0.9 {
			mortality = 0.9
		}
		if rng.Float64() >= mortality {
			continue
		}
		d.push(commands.Command{
			Kind:        commands.PersonDied{PersonID: personID, Cause: "old_age"},
			EventKind:   eventlog.KindDeath,
			Description: fmt.Sprintf("%s dies of old age at %d", p.Name, age),
			Participants: []eventlog.Participant{
				{EntityID: personID, Role: eventlog.RoleSubject},
			},
		})
	}
}

func (d *Domain) checkBirths(rng interface{ Float64() float64 }) {
	w := d.World
	now := w.Clock.Minute

	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() {
			continue
		}
		eligibleParents := 0
		for _, personID := range w.LocatedIn.SourcesOf(settID) {
			p, ok := w.Persons[personID]
			if !ok || !p.Alive() {
				continue
			}
			age := (now - p.BirthTime) / simclock.MinutesPerYear
			if age >= minAdultAge && age <= maxParentAge {
				eligibleParents++
			}
		}
		if eligibleParents < 2 {
			continue
		}

		birthChance := float64(eligibleParents) * birthsPerEligibleParent * (0.3 + sett.Prosperity)
		if rng.Float64() >= birthChance {
			continue
		}

		childID := w.IDGen.NextID()
		name := fmt.Sprintf("Child of %s", sett.Name)
		d.push(commands.Command{
			Kind:        commands.PersonBorn{PersonID: childID, Name: name, HomeSettID: settID},
			EventKind:   eventlog.KindBirth,
			Description: fmt.Sprintf("%s is born at %s", name, sett.Name),
			Participants: []eventlog.Participant{
				{EntityID: childID, Role: eventlog.RoleSubject},
				{EntityID: settID, Role: eventlog.RoleLocation},
			},
		})
	}
}

func (d *Domain) push(cmd commands.Command) {
	d.Out.Push(cmd)
}
