// Package craft is the items/knowledge domain system: crafting unique
// items, minting knowledge and its held manifestations, and the slow decay
// of oral transmission. Crafter selection among a settlement's residents
// takes the lowest-id resident with the needed role, with no RNG call.
package craft

import (
	"fmt"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simworld"
)

const domainName = "craft"

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
	d.craftForProsperousSettlements()
	d.scholarsRecordKnowledge()
	d.degradeOralManifestations()
}

// craftForProsperousSettlements has each prosperous settlement's resident
// merchant, or failing that its resident noble, produce one item per month,
// held by its crafter.
func (d *Domain) craftForProsperousSettlements() {
	w := d.World
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() || sett.Prosperity < 0.5 {
			continue
		}
		crafter := findByRole(w, settID, simworld.RoleMerchant)
		if crafter == 0 {
			crafter = findByRole(w, settID, simworld.RoleNoble)
		}
		if crafter == 0 {
			continue
		}
		kind := simworld.ItemType(settID % 6)
		material := simworld.Material((settID + sett.Population.Total) % 7)
		d.push(commands.Command{
			Kind: commands.CraftItem{
				CrafterID: crafter, HolderID: crafter, HolderKind: uint8(entitymap.KindPerson),
				ItemKind: uint8(kind), Material: uint8(material),
			},
			EventKind:   eventlog.KindItemCrafted,
			Description: fmt.Sprintf("a craftsman of %s finishes a new work", sett.Name),
			Participants: []eventlog.Participant{
				{EntityID: crafter, Role: eventlog.RoleSubject},
			},
		})
	}
}

// scholarsRecordKnowledge has a literate resident scholar of each living
// settlement record a new piece of knowledge. Only the knowledge is
// created; no manifestation of it is produced here.
func (d *Domain) scholarsRecordKnowledge() {
	w := d.World
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() {
			continue
		}
		scholar := findByRole(w, settID, simworld.RoleScholar)
		if scholar == 0 {
			continue
		}
		person := w.Persons[scholar]
		if person.Literacy < 0.5 {
			continue
		}
		d.push(commands.Command{
			Kind:        commands.CreateKnowledge{Category: uint8(simworld.KnowledgeHistorical), Significance: person.Literacy, Secret: false},
			EventKind:   eventlog.KindKnowledgeCreated,
			Description: fmt.Sprintf("%s sets down an account of recent events", person.Name),
			Participants: []eventlog.Participant{
				{EntityID: scholar, Role: eventlog.RoleSubject},
			},
		})
	}
}

// degradeOralManifestations reveals secrets that have traveled through
// enough degraded oral transmission that they can no longer stay hidden,
// surfacing them as RevealSecret commands.
func (d *Domain) degradeOralManifestations() {
	w := d.World
	for _, manID := range w.SortedManifestationIDs() {
		m := w.Manifestations[manID]
		if !m.Alive() || m.Medium != simworld.MediumOral {
			continue
		}
		k, ok := w.Knowledges[m.KnowledgeID]
		if !ok || !k.Secret || !k.Alive() {
			continue
		}
		if m.Completeness > 0.2 {
			continue
		}
		if m.HolderKind != uint8(entitymap.KindPerson) {
			continue
		}
		d.push(commands.Command{
			Kind:        commands.RevealSecret{KnowledgeID: m.KnowledgeID, RevealerID: m.HolderID},
			EventKind:   eventlog.KindSecretRevealed,
			Description: fmt.Sprintf("the secret of %s slips out in garbled retelling", k.Name),
			Participants: []eventlog.Participant{
				{EntityID: m.HolderID, Role: eventlog.RoleSubject},
			},
		})
	}
}

func findByRole(w *simworld.World, settID uint64, role simworld.PersonRole) uint64 {
	for _, personID := range w.SortedPersonIDs() {
		p := w.Persons[personID]
		if !p.Alive() || p.Role != role {
			continue
		}
		home, ok := w.LocatedIn.Get(personID)
		if !ok || home != settID {
			continue
		}
		return personID
	}
	return 0
}

func (d *Domain) push(cmd commands.Command) {
	d.Out.Push(cmd)
}
