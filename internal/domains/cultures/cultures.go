// Package cultures is the culture/religion diffusion domain system,
// producing gradual CulturalShift/SpreadReligion drift between neighboring
// settlements and occasional schisms/rebellions once orthodoxy or
// resistance is stressed past a threshold.
package cultures

import (
	"fmt"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simworld"
)

const domainName = "cultures"

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
	d.diffuseCulture()
	d.diffuseReligion()
	d.checkSchismsAndRebellions()
}

// diffuseCulture nudges a settlement's dominant neighboring culture's
// share upward by a small amount each month, the settlement-level analog
// of Culture.Blend's weighted-value merge.
func (d *Domain) diffuseCulture() {
	w := d.World
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() || len(sett.CultureMix) == 0 {
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
				for cultureID, share := range neighbor.CultureMix {
					if share < 0.5 {
						continue
					}
					if sett.CultureMix[cultureID] >= share {
						continue
					}
					d.push(commands.Command{
						Kind:        commands.CulturalShift{SettlementID: settID, CultureID: cultureID, Delta: 0.02},
						EventKind:   eventlog.KindCulturalShift,
						Description: fmt.Sprintf("ideas from %s take root in %s", neighbor.Name, sett.Name),
					})
				}
			}
		}
	}
}

func (d *Domain) diffuseReligion() {
	w := d.World
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() {
			continue
		}
		for religionID, share := range sett.ReligionMix {
			if share <= 0 || share >= 0.95 {
				continue
			}
			rel, ok := w.Religions[religionID]
			if !ok || !rel.Alive() {
				continue
			}
			d.push(commands.Command{
				Kind:        commands.SpreadReligion{SettlementID: settID, ReligionID: religionID, Strength: rel.Fervor * 0.05},
				EventKind:   eventlog.KindReligionSpread,
				Description: fmt.Sprintf("%s's faith gains converts in %s", rel.Name, sett.Name),
			})
		}
	}
}

// checkSchismsAndRebellions fires a religious schism once a religion's
// orthodoxy has collapsed under its own fervor, and a cultural rebellion
// once a settlement's dominant culture share has fallen below a cohesion
// floor while its prosperity has collapsed.
func (d *Domain) checkSchismsAndRebellions() {
	w := d.World
	for _, religionID := range w.SortedReligionIDs() {
		rel := w.Religions[religionID]
		if !rel.Alive() || rel.Orthodoxy > 0.2 || rel.Fervor < 0.6 {
			continue
		}
		newID := w.IDGen.NextID()
		d.push(commands.Command{
			Kind:        commands.ReligiousSchism{ReligionID: religionID, NewReligionID: newID},
			EventKind:   eventlog.KindReligiousSchism,
			Description: fmt.Sprintf("a reform movement splits from %s", rel.Name),
		})
	}

	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() {
			continue
		}
		var dominant float64
		for _, share := range sett.CultureMix {
			if share > dominant {
				dominant = share
			}
		}
		if dominant > 0 && dominant < 0.3 && sett.Prosperity < 0.2 {
			d.push(commands.Command{
				Kind:        commands.CulturalRebellion{SettlementID: settID},
				EventKind:   eventlog.KindCulturalRebellion,
				Description: fmt.Sprintf("unrest over identity boils over in %s", sett.Name),
			})
		}
	}
}

func (d *Domain) push(cmd commands.Command) {
	d.Out.Push(cmd)
}
