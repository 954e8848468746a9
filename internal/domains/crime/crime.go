// Package crime is the bandit/raid domain system: a deterrence formula
// derived from guard strength, a deterministic "random" check combining
// the tick and an entity id in place of a shared RNG call, and a crime
// event emitted only once a precondition (here, low deterrence
// and a region's unrest) actually fires.
package crime

import (
	"fmt"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simworld"
)

const domainName = "crime"

// totality is the deterrence-curve half-saturation constant:
// guardStrength / (guardStrength + totality).
const totality = 8.0

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
		Frequency: scheduler.Always,
		Run:       func(g scheduler.Gate) { d.Tick() },
	})
}

// Tick checks every settlement's crime rate against its guard deterrence
// and spawns a bandit gang in an under-policed region; existing gangs are
// sent raiding the nearest reachable settlement or trade route.
func (d *Domain) Tick() {
	w := d.World
	day := w.Clock.Minute / 1440

	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() {
			continue
		}
		guardStrength := sett.GuardStrength
		deterrence := guardStrength / (guardStrength + totality)
		crimeChance := sett.CrimeRate * (1 - deterrence)
		threshold := float64((day*settID)%100) / 100.0
		if crimeChance < threshold {
			continue
		}
		d.push(commands.Command{
			Kind:        commands.FormBanditGang{HomeRegionID: sett.RegionID, Strength: 5 + sett.CrimeRate*15},
			EventKind:   eventlog.KindBanditGangFormed,
			Description: fmt.Sprintf("outlaws band together near %s", sett.Name),
			Participants: []eventlog.Participant{
				{EntityID: settID, Role: eventlog.RoleObject},
			},
		})
	}

	d.runGangs(day)
}

// runGangs sends every unowned (faction id 0), non-mercenary army — a
// bandit gang — against a trade route of a settlement in the region it
// currently occupies or, failing that, the lowest-id settlement there.
func (d *Domain) runGangs(day uint64) {
	w := d.World
	for _, armyID := range w.SortedArmyIDs() {
		gang := w.Armies[armyID]
		if !gang.Alive() || gang.FactionID != 0 || gang.Mercenary {
			continue
		}

		if a, b, ok := findRaidableRoute(w, gang.CurrentRegionID); ok {
			d.push(commands.Command{
				Kind:        commands.RaidTradeRoute{GangArmyID: gang.SimID, A: a, B: b},
				EventKind:   eventlog.KindTradeRouteRaided,
				Description: fmt.Sprintf("%s ambushes a caravan", gang.Name),
			})
			continue
		}

		target := nearestSettlementInRegion(w, gang.CurrentRegionID)
		if target == 0 {
			continue
		}
		d.push(commands.Command{
			Kind:        commands.BanditRaid{GangArmyID: gang.SimID, SettlementID: target},
			EventKind:   eventlog.KindBanditRaid,
			Description: fmt.Sprintf("%s raids %s", gang.Name, w.Settlements[target].Name),
			Participants: []eventlog.Participant{
				{EntityID: gang.SimID, Role: eventlog.RoleAttacker},
				{EntityID: target, Role: eventlog.RoleDefender},
			},
		})
	}
}

func findRaidableRoute(w *simworld.World, regionID uint64) (uint64, uint64, bool) {
	ids := w.SortedSettlementIDs()
	for _, id := range ids {
		s := w.Settlements[id]
		if !s.Alive() || s.RegionID != regionID {
			continue
		}
		for _, r := range s.TradeRoutes {
			if r.PartnerSettlementID > id {
				return id, r.PartnerSettlementID, true
			}
		}
	}
	return 0, 0, false
}

func nearestSettlementInRegion(w *simworld.World, regionID uint64) uint64 {
	for _, id := range w.SortedSettlementIDs() {
		s := w.Settlements[id]
		if s.Alive() && s.RegionID == regionID {
			return id
		}
	}
	return 0
}

func (d *Domain) push(cmd commands.Command) {
	d.Out.Push(cmd)
}
