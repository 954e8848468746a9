// Package settlements is the buildings/migration/abandonment domain
// system: capacity-triggered emigration expressed as bulk
// MigratePopulation commands, plus construction, upgrade, and decay of
// discrete Building entities.
package settlements

import (
	"fmt"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simworld"
)

const domainName = "settlements"

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

func (d *Domain) Tick() {
	d.checkOvermass()
	d.checkConstruction()
	d.checkAbandonment()
}

// checkOvermass emigrates roughly a quarter of an overcapacity
// settlement's population to the first under-capacity settlement in the
// same region or, failing that, a neighboring region, the
// settlement-to-settlement analog of
// processSettlementOvermass's golden-angle diaspora.
func (d *Domain) checkOvermass() {
	w := d.World
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() || sett.Capacity == 0 || sett.Population.Total <= sett.Capacity {
			continue
		}
		dest := d.findRoomyNeighbor(sett)
		if dest == 0 {
			continue
		}
		emigrants := sett.Population.Total / 4
		if emigrants == 0 {
			continue
		}
		d.push(commands.Command{
			Kind:        commands.MigratePopulation{FromSettID: settID, ToSettID: dest, Count: emigrants},
			EventKind:   eventlog.KindMigration,
			Description: fmt.Sprintf("overcrowding drives settlers from %s to %s", sett.Name, w.Settlements[dest].Name),
			Participants: []eventlog.Participant{
				{EntityID: settID, Role: eventlog.RoleSubject},
				{EntityID: dest, Role: eventlog.RoleObject},
			},
		})
	}
}

func (d *Domain) findRoomyNeighbor(sett *simworld.Settlement) uint64 {
	w := d.World
	region, ok := w.Regions[sett.RegionID]
	if !ok {
		return 0
	}
	for _, regionID := range append([]uint64{sett.RegionID}, region.Neighbors...) {
		for _, id := range w.SortedSettlementIDs() {
			other := w.Settlements[id]
			if other.Alive() && other.RegionID == regionID && id != sett.SimID && other.Population.Total < other.Capacity {
				return id
			}
		}
	}
	return 0
}

// checkConstruction proposes a new building once a settlement's
// prosperity exceeds a threshold and it has fewer than three buildings,
// and otherwise upgrades the first of its buildings that is below level 2
// and in good repair.
func (d *Domain) checkConstruction() {
	w := d.World
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() {
			continue
		}
		if sett.Prosperity < 0.3 {
			continue
		}
		if len(sett.Buildings) < 3 {
			kind := nextBuildingKind(w, sett)
			d.push(commands.Command{
				Kind:        commands.ConstructBuilding{SettlementID: settID, BuildingKind: uint8(kind)},
				EventKind:   eventlog.KindBuildingConstructed,
				Description: fmt.Sprintf("%s commissions new construction", sett.Name),
				Participants: []eventlog.Participant{
					{EntityID: settID, Role: eventlog.RoleSubject},
				},
			})
			continue
		}
		for _, buildingID := range sett.Buildings {
			b, ok := w.Buildings[buildingID]
			if ok && b.Alive() && b.Level < 2 && b.Condition > 0.8 {
				d.push(commands.Command{
					Kind:        commands.UpgradeBuilding{BuildingID: buildingID},
					EventKind:   eventlog.KindBuildingUpgraded,
					Description: fmt.Sprintf("%s's %s is expanded", sett.Name, b.Name),
				})
				break
			}
		}
	}
}

func nextBuildingKind(w *simworld.World, sett *simworld.Settlement) simworld.BuildingType {
	have := map[simworld.BuildingType]bool{}
	for _, id := range sett.Buildings {
		if b, ok := w.Buildings[id]; ok {
			have[b.Kind] = true
		}
	}
	priority := []simworld.BuildingType{
		simworld.BuildingWalls, simworld.BuildingMarket, simworld.BuildingGranary,
		simworld.BuildingTemple, simworld.BuildingBarracks, simworld.BuildingRoads,
		simworld.BuildingLibrary, simworld.BuildingHarbor,
	}
	for _, k := range priority {
		if !have[k] {
			return k
		}
	}
	return simworld.BuildingMarket
}

// checkAbandonment abandons a settlement whose population has fallen to
// zero but whose entity is still marked alive (the applicator's death
// cascade ends people individually; it does not itself decide a
// settlement is empty).
func (d *Domain) checkAbandonment() {
	w := d.World
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if sett.Alive() && sett.Population.Total == 0 {
			d.push(commands.Command{
				Kind:        commands.AbandonSettlement{SettlementID: settID},
				EventKind:   eventlog.KindSettlementAbandoned,
				Description: fmt.Sprintf("%s is abandoned", sett.Name),
			})
		}
	}
}

func (d *Domain) push(cmd commands.Command) {
	d.Out.Push(cmd)
}
