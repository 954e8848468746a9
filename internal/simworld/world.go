package simworld

import (
	"fmt"
	"sort"

	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/idgen"
	"github.com/talgya/mini-world/internal/relations"
	"github.com/talgya/mini-world/internal/simclock"
	"github.com/talgya/mini-world/internal/simrng"
)

// World is the complete simulation state: entity tables, structural and
// diplomatic relationships, the audit trail, and the resources
// (clock/id-generator/RNG pool) the pipeline needs to run. Only the
// Applicator mutates entity tables and relationship state; everything else
// observes it read-only.
type World struct {
	Clock   *simclock.Clock
	IDGen   *idgen.Generator
	Entities *entitymap.Map
	Relations *relations.Graph
	Events  *eventlog.Log
	RNG     *simrng.Pool

	Persons        map[uint64]*Person
	Factions       map[uint64]*Faction
	Settlements    map[uint64]*Settlement
	Regions        map[uint64]*Region
	Armies         map[uint64]*Army
	Buildings      map[uint64]*Building
	Items          map[uint64]*Item
	Knowledges     map[uint64]*Knowledge
	Manifestations map[uint64]*Manifestation
	Religions      map[uint64]*Religion
	Cultures       map[uint64]*Culture
	Diseases       map[uint64]*Disease

	// Structural (1-to-1-per-source, back-indexed) relationships.
	MemberOf  *Structural // Person -> Faction
	LeaderOf  *Structural // Person -> Faction
	LocatedIn *Structural // Person -> Settlement (home/residence)
	HeldBy    *Structural // Item -> holder (Person or Settlement, see HolderKind)

	ActiveSieges   map[uint64]*ActiveSiege   // keyed by settlement id
	ActiveDiseases map[uint64]*ActiveDisease // keyed by settlement id
}

// New creates an empty world wired to fresh pipeline resources, with the
// clock starting at minute 0 and ids minted from idSeed.
func New(idSeed uint64, masterSeed int64) *World {
	return &World{
		Clock:     simclock.New(),
		IDGen:     idgen.New(idSeed),
		Entities:  entitymap.New(),
		Relations: relations.New(),
		Events:    eventlog.New(1),
		RNG:       simrng.NewPool(masterSeed),

		Persons:        make(map[uint64]*Person),
		Factions:       make(map[uint64]*Faction),
		Settlements:    make(map[uint64]*Settlement),
		Regions:        make(map[uint64]*Region),
		Armies:         make(map[uint64]*Army),
		Buildings:      make(map[uint64]*Building),
		Items:          make(map[uint64]*Item),
		Knowledges:     make(map[uint64]*Knowledge),
		Manifestations: make(map[uint64]*Manifestation),
		Religions:      make(map[uint64]*Religion),
		Cultures:       make(map[uint64]*Culture),
		Diseases:       make(map[uint64]*Disease),

		MemberOf:  NewStructural(),
		LeaderOf:  NewStructural(),
		LocatedIn: NewStructural(),
		HeldBy:    NewStructural(),

		ActiveSieges:   make(map[uint64]*ActiveSiege),
		ActiveDiseases: make(map[uint64]*ActiveDisease),
	}
}

// SortedPersonIDs returns every person id in ascending order, for
// deterministic iteration.
func (w *World) SortedPersonIDs() []uint64 { return sortedKeys(w.Persons) }

// SortedFactionIDs returns every faction id in ascending order.
func (w *World) SortedFactionIDs() []uint64 { return sortedKeys(w.Factions) }

// SortedSettlementIDs returns every settlement id in ascending order.
func (w *World) SortedSettlementIDs() []uint64 { return sortedKeys(w.Settlements) }

// SortedRegionIDs returns every region id in ascending order.
func (w *World) SortedRegionIDs() []uint64 { return sortedKeys(w.Regions) }

// SortedArmyIDs returns every army id in ascending order.
func (w *World) SortedArmyIDs() []uint64 { return sortedKeys(w.Armies) }

// SortedBuildingIDs returns every building id in ascending order.
func (w *World) SortedBuildingIDs() []uint64 { return sortedKeys(w.Buildings) }

// SortedItemIDs returns every item id in ascending order.
func (w *World) SortedItemIDs() []uint64 { return sortedKeys(w.Items) }

// SortedKnowledgeIDs returns every knowledge id in ascending order.
func (w *World) SortedKnowledgeIDs() []uint64 { return sortedKeys(w.Knowledges) }

// SortedManifestationIDs returns every manifestation id in ascending order.
func (w *World) SortedManifestationIDs() []uint64 { return sortedKeys(w.Manifestations) }

// SortedReligionIDs returns every religion id in ascending order.
func (w *World) SortedReligionIDs() []uint64 { return sortedKeys(w.Religions) }

// SortedCultureIDs returns every culture id in ascending order.
func (w *World) SortedCultureIDs() []uint64 { return sortedKeys(w.Cultures) }

// SortedDiseaseIDs returns every disease id in ascending order.
func (w *World) SortedDiseaseIDs() []uint64 { return sortedKeys(w.Diseases) }

func sortedKeys[V any](m map[uint64]V) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BaseOf returns a pointer to the embedded Base of the entity identified by
// (kind, id), for generic lifecycle handlers (EndEntity, RenameEntity) that
// must operate across every entity kind without a type switch at every call
// site. The returned pointer aliases the entity's own storage, so mutating
// it through this pointer is visible to every other holder of the entity.
func (w *World) BaseOf(kind entitymap.EntityKind, id uint64) (*Base, bool) {
	switch kind {
	case entitymap.KindPerson:
		if e, ok := w.Persons[id]; ok {
			return &e.Base, true
		}
	case entitymap.KindFaction:
		if e, ok := w.Factions[id]; ok {
			return &e.Base, true
		}
	case entitymap.KindSettlement:
		if e, ok := w.Settlements[id]; ok {
			return &e.Base, true
		}
	case entitymap.KindRegion:
		if e, ok := w.Regions[id]; ok {
			return &e.Base, true
		}
	case entitymap.KindArmy:
		if e, ok := w.Armies[id]; ok {
			return &e.Base, true
		}
	case entitymap.KindBuilding:
		if e, ok := w.Buildings[id]; ok {
			return &e.Base, true
		}
	case entitymap.KindItem:
		if e, ok := w.Items[id]; ok {
			return &e.Base, true
		}
	case entitymap.KindKnowledge:
		if e, ok := w.Knowledges[id]; ok {
			return &e.Base, true
		}
	case entitymap.KindManifestation:
		if e, ok := w.Manifestations[id]; ok {
			return &e.Base, true
		}
	case entitymap.KindReligion:
		if e, ok := w.Religions[id]; ok {
			return &e.Base, true
		}
	case entitymap.KindCulture:
		if e, ok := w.Cultures[id]; ok {
			return &e.Base, true
		}
	case entitymap.KindDisease:
		if e, ok := w.Diseases[id]; ok {
			return &e.Base, true
		}
	}
	return nil, false
}

// PersonIsLeaderOf reports whether p leads faction f — used to enforce
// the LeaderOf-implies-MemberOf invariant at write time in the applicator.
func (w *World) PersonIsLeaderOf(personID, factionID uint64) bool {
	return w.LeaderOf.Has(personID, factionID)
}

// CheckInvariants checks audit-trail referential integrity, leadership
// implies membership, and bracket sums, and returns the first violation
// found, or nil. Relationship exclusivity and mutation after an entity has
// ended are not checked here. Intended for test harnesses and debug
// builds, not the hot path.
func (w *World) CheckInvariants() error {
	for _, p := range w.Events.Participants {
		if !w.Events.EventExists(p.EventID) {
			return fmt.Errorf("participant references missing event %d", p.EventID)
		}
	}
	for _, e := range w.Events.Effects {
		if !w.Events.EventExists(e.EventID) {
			return fmt.Errorf("effect references missing event %d", e.EventID)
		}
	}
	for personID := range w.Persons {
		if factionID, ok := w.LeaderOf.Get(personID); ok {
			if !w.MemberOf.Has(personID, factionID) {
				return fmt.Errorf("person %d is LeaderOf %d without MemberOf", personID, factionID)
			}
		}
	}
	for id, s := range w.Settlements {
		var sum uint64
		for _, c := range s.Population.Counts {
			sum += c
		}
		if sum != s.Population.Total {
			return fmt.Errorf("settlement %d population counts sum to %d, want %d", id, sum, s.Population.Total)
		}
	}
	return nil
}
