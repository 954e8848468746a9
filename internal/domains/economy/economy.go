// Package economy is the production/trade/prestige domain system: a
// monthly settlement/faction-level treasury and trade-route producer.
// There is no per-agent inventory; prosperity and treasury are the
// economic state.
package economy

import (
	"fmt"
	"sort"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simworld"
)

const domainName = "economy"

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
		Frequency: scheduler.Monthly,
		Run:       func(g scheduler.Gate) { d.Tick() },
	})
}

// Tick produces monthly treasury income from settlement prosperity,
// proposes new trade routes between prospering settlements of
// non-warring factions, and decays routes whose partner has fallen on
// hard times.
func (d *Domain) Tick() {
	d.collectTaxes()
	d.proposeTradeRoutes()
	d.severDecayedRoutes()
}

// collectTaxes credits each faction a treasury delta proportional to the
// combined prosperity of settlements it owns.
func (d *Domain) collectTaxes() {
	w := d.World
	income := map[uint64]int64{}
	for _, settID := range w.SortedSettlementIDs() {
		s := w.Settlements[settID]
		if !s.Alive() {
			continue
		}
		base := float64(s.Population.Total) * s.Prosperity * 0.02
		income[s.OwnerFactionID] += int64(base * (1 + s.BuildingBonuses.ProsperityBonus))
	}
	var factionIDs []uint64
	for id := range income {
		factionIDs = append(factionIDs, id)
	}
	sort.Slice(factionIDs, func(i, j int) bool { return factionIDs[i] < factionIDs[j] })
	for _, factionID := range factionIDs {
		delta := income[factionID]
		if delta == 0 {
			continue
		}
		f, ok := w.Factions[factionID]
		if !ok || !f.Alive() {
			continue
		}
		d.push(commands.Command{
			Kind:        commands.AdjustFactionStats{FactionID: factionID, TreasuryDelta: delta},
			EventKind:   eventlog.KindStatAdjusted,
			Description: eventlog.DescribeTreasuryDelta(f.Name, delta),
			Participants: []eventlog.Participant{
				{EntityID: factionID, Role: eventlog.RoleSubject},
			},
		})
	}
}

// proposeTradeRoutes links pairs of prospering, non-warring settlements
// in neighboring regions that do not already share a route, capped to
// one new proposal per settlement per tick to keep growth gradual.
func (d *Domain) proposeTradeRoutes() {
	w := d.World
	const prosperityFloor = 0.4
	proposed := map[uint64]bool{}
	ids := w.SortedSettlementIDs()
	for i, aID := range ids {
		a := w.Settlements[aID]
		if !a.Alive() || a.Prosperity < prosperityFloor || proposed[aID] {
			continue
		}
		for _, bID := range ids[i+1:] {
			b := w.Settlements[bID]
			if !b.Alive() || b.Prosperity < prosperityFloor || proposed[bID] {
				continue
			}
			if !adjacentRegions(w, a.RegionID, b.RegionID) {
				continue
			}
			if w.Relations.AreAtWar(a.OwnerFactionID, b.OwnerFactionID) {
				continue
			}
			if hasRoute(a, bID) {
				continue
			}
			d.push(commands.Command{
				Kind:        commands.EstablishTradeRoute{A: aID, B: bID},
				EventKind:   eventlog.KindTradeEstablished,
				Description: fmt.Sprintf("merchants open a route between %s and %s", a.Name, b.Name),
				Participants: []eventlog.Participant{
					{EntityID: aID, Role: eventlog.RoleSubject},
					{EntityID: bID, Role: eventlog.RoleObject},
				},
			})
			proposed[aID] = true
			proposed[bID] = true
			break
		}
	}
}

// severDecayedRoutes cuts a trade route once its partner's prosperity has
// collapsed, the trade-side analog of checkRevolution's threshold gate.
func (d *Domain) severDecayedRoutes() {
	w := d.World
	const collapseFloor = 0.05
	for _, settID := range w.SortedSettlementIDs() {
		s := w.Settlements[settID]
		if !s.Alive() {
			continue
		}
		for _, route := range s.TradeRoutes {
			partner, ok := w.Settlements[route.PartnerSettlementID]
			if !ok || !partner.Alive() || partner.Prosperity < collapseFloor {
				d.push(commands.Command{
					Kind:        commands.SeverTradeRoute{A: settID, B: route.PartnerSettlementID},
					EventKind:   eventlog.KindTradeSevered,
					Description: fmt.Sprintf("the trade route from %s falls into disuse", s.Name),
				})
			}
		}
	}
}

func hasRoute(s *simworld.Settlement, partnerID uint64) bool {
	for _, r := range s.TradeRoutes {
		if r.PartnerSettlementID == partnerID {
			return true
		}
	}
	return false
}

func adjacentRegions(w *simworld.World, a, b uint64) bool {
	if a == b {
		return true
	}
	region, ok := w.Regions[a]
	if !ok {
		return false
	}
	for _, n := range region.Neighbors {
		if n == b {
			return true
		}
	}
	return false
}

func (d *Domain) push(cmd commands.Command) {
	d.Out.Push(cmd)
}
