// Package disease is the plague/disaster domain system: outbreak starts,
// spread to settlements in neighboring regions, burnout, and one-off
// disasters, all expressed as enqueued commands against settlement-level
// risk checks. Persistent disasters are not started or ended here.
package disease

import (
	"fmt"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simworld"
)

const domainName = "disease"

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

func (d *Domain) Tick() {
	day := d.World.Clock.Minute / 1440
	d.spreadActive(day)
	d.checkOutbreaks(day)
	d.checkDisasters(day)
}

// spreadActive progresses every active plague to neighboring settlements
// and clears it once its disease's Duration has elapsed.
func (d *Domain) spreadActive(day uint64) {
	w := d.World
	for _, settID := range w.SortedSettlementIDs() {
		active, ok := w.ActiveDiseases[settID]
		if !ok {
			continue
		}
		disease, ok := w.Diseases[active.DiseaseID]
		if !ok {
			continue
		}
		sett := w.Settlements[settID]
		if !sett.Alive() {
			continue
		}

		elapsedMonths := (w.Clock.Minute - active.StartedAt) / (1440 * 30)
		if uint32(elapsedMonths) >= disease.Duration {
			d.push(commands.Command{
				Kind:        commands.EndPlague{SettlementID: settID},
				EventKind:   eventlog.KindPlagueEnded,
				Description: fmt.Sprintf("the plague in %s has run its course", sett.Name),
			})
			continue
		}

		region, ok := w.Regions[sett.RegionID]
		if !ok {
			continue
		}
		for _, neighborRegionID := range region.Neighbors {
			for _, neighborID := range w.SortedSettlementIDs() {
				neighbor := w.Settlements[neighborID]
				if !neighbor.Alive() || neighbor.RegionID != neighborRegionID {
					continue
				}
				if _, already := w.ActiveDiseases[neighborID]; already {
					continue
				}
				threshold := float64((day*neighborID)%100) / 100.0
				if disease.Virulence < threshold {
					continue
				}
				d.push(commands.Command{
					Kind:        commands.SpreadPlague{FromSettID: settID, ToSettID: neighborID, DiseaseID: active.DiseaseID},
					EventKind:   eventlog.KindPlagueSpread,
					Description: fmt.Sprintf("%s carries the plague to %s", sett.Name, neighbor.Name),
				})
			}
		}
	}
}

// checkOutbreaks starts a new plague in a crowded, low-prosperity
// settlement from a deterministically chosen existing disease profile.
func (d *Domain) checkOutbreaks(day uint64) {
	w := d.World
	if len(w.Diseases) == 0 {
		return
	}
	diseaseIDs := w.SortedDiseaseIDs()
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() {
			continue
		}
		if _, active := w.ActiveDiseases[settID]; active {
			continue
		}
		crowding := float64(sett.Population.Total) / float64(sett.Capacity+1)
		risk := crowding * (1 - sett.Prosperity) * 0.1
		threshold := float64((day*settID)%100) / 100.0
		if risk < threshold {
			continue
		}
		diseaseID := diseaseIDs[settID%uint64(len(diseaseIDs))]
		d.push(commands.Command{
			Kind:        commands.StartPlague{SettlementID: settID, DiseaseID: diseaseID},
			EventKind:   eventlog.KindPlagueStarted,
			Description: fmt.Sprintf("sickness breaks out in %s", sett.Name),
		})
	}
}

// checkDisasters fires a one-off disaster, of the kind the region's
// terrain dictates, in a settlement whose deterministic day/id threshold
// falls at or below 0.01. It never ends a disaster.
func (d *Domain) checkDisasters(day uint64) {
	w := d.World
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() {
			continue
		}
		region, ok := w.Regions[sett.RegionID]
		if !ok {
			continue
		}
		kind := disasterKindFor(region)
		if kind == "" {
			continue
		}
		threshold := float64((day*settID*7)%1000) / 1000.0
		if threshold > 0.01 {
			continue
		}
		d.push(commands.Command{
			Kind:        commands.TriggerDisaster{SettlementID: settID, Kind: kind},
			EventKind:   eventlog.KindDisasterTriggered,
			Description: fmt.Sprintf("%s strikes %s", kind, sett.Name),
		})
	}
}

func disasterKindFor(region *simworld.Region) string {
	switch {
	case region.Coastal:
		return "flood"
	case region.Arid:
		return "drought"
	case region.Rugged:
		return "earthquake"
	case region.Forested:
		return "wildfire"
	default:
		return ""
	}
}

func (d *Domain) push(cmd commands.Command) {
	d.Out.Push(cmd)
}
