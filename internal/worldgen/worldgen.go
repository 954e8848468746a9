// Package worldgen builds an initial simworld.World from the hex-grid
// terrain generator and settlement placer, translating a Hex grid and
// SettlementSeed list into Region/Settlement/Faction/Person/Army
// entities. internal/world stays the authority on terrain and placement;
// only the translation into simulation entities lives here.
package worldgen

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/simworld"
	"github.com/talgya/mini-world/internal/world"
)

// Config controls generation scale. A small hex radius is used by default
// because this module treats one hex as one Region directly rather than
// aggregating many hexes into a coarser region.
type Config struct {
	Radius       int
	Seed         int64
	NumFactions  int
	IdSeed       uint64
}

// DefaultConfig returns a modestly sized world: enough regions and
// settlements to exercise every domain system without a multi-thousand
// hex map.
func DefaultConfig() Config {
	return Config{Radius: 6, Seed: 42, NumFactions: 4, IdSeed: 1}
}

// Generate builds a fresh, fully-populated World: regions from the hex
// grid, settlements from the placer, cfg.NumFactions factions that take
// the settlements in turn, a founding population of persons, and a
// home-guard army per faction.
func Generate(cfg Config) *simworld.World {
	w := simworld.New(cfg.IdSeed, cfg.Seed)

	genCfg := world.GenConfig{Radius: cfg.Radius, Seed: cfg.Seed, SeaLevel: 0.25, MountainLvl: 0.72}
	hexMap := world.Generate(genCfg)

	coords := make([]world.HexCoord, 0, len(hexMap.Hexes))
	for coord := range hexMap.Hexes {
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Q != coords[j].Q {
			return coords[i].Q < coords[j].Q
		}
		return coords[i].R < coords[j].R
	})
	regionByCoord := make(map[world.HexCoord]uint64, len(hexMap.Hexes))
	for _, coord := range coords {
		hex := hexMap.Hexes[coord]
		id := w.IDGen.NextID()
		region := simworld.NewRegion(id, fmt.Sprintf("Region-%d-%d", coord.Q, coord.R), 0, hex.Terrain)
		region.ClimateLatitude = float64(coord.R) / float64(cfg.Radius+1)
		region.Coastal = hex.Terrain == world.TerrainCoast
		region.Forested = hex.Terrain == world.TerrainForest
		region.Arid = hex.Terrain == world.TerrainDesert
		region.Riverine = hex.Terrain == world.TerrainRiver
		region.Rugged = hex.Terrain == world.TerrainMountain
		w.Regions[id] = region
		if err := w.Entities.Insert(entitymap.KindRegion, id, region); err != nil {
			panic(err) // ids are freshly minted, collision is a generator bug
		}
		regionByCoord[coord] = id
	}
	for coord, regionID := range regionByCoord {
		region := w.Regions[regionID]
		for _, n := range coord.Neighbors() {
			if nid, ok := regionByCoord[n]; ok {
				region.Neighbors = append(region.Neighbors, nid)
			}
		}
	}

	seeds := world.PlaceSettlements(hexMap, cfg.Seed)
	rng := rand.New(rand.NewSource(cfg.Seed + 700))

	factions := make([]uint64, 0, cfg.NumFactions)
	for i := 0; i < cfg.NumFactions; i++ {
		id := w.IDGen.NextID()
		gov := []simworld.GovernmentType{simworld.GovHereditary, simworld.GovElective, simworld.GovChieftain}[i%3]
		f := simworld.NewFaction(id, fmt.Sprintf("Faction of %s", factionNames[i%len(factionNames)]), 0, gov)
		w.Factions[id] = f
		if err := w.Entities.Insert(entitymap.KindFaction, id, f); err != nil {
			panic(err)
		}
		factions = append(factions, id)
	}

	for i, seed := range seeds {
		regionID, ok := regionByCoord[seed.Coord]
		if !ok {
			continue
		}
		ownerFaction := factions[i%len(factions)]
		pop := uint64(world.PopulationForSize(seed.Size, rng))
		id := w.IDGen.NextID()
		sett := simworld.NewSettlement(id, seed.Name, 0, ownerFaction, regionID, pop)
		sett.GuardStrength = 0.3 + rng.Float64()*0.3
		sett.CrimeRate = 0.05 + rng.Float64()*0.1
		w.Settlements[id] = sett
		if err := w.Entities.Insert(entitymap.KindSettlement, id, sett); err != nil {
			panic(err)
		}

		spawnFoundingPopulation(w, sett, id, rng)
	}

	for _, factionID := range factions {
		home := factionHomeRegion(w, factionID)
		id := w.IDGen.NextID()
		army := simworld.NewArmy(id, fmt.Sprintf("Levy of faction %d", factionID), 0, factionID, home, 40+rng.Float64()*40)
		w.Armies[id] = army
		if err := w.Entities.Insert(entitymap.KindArmy, id, army); err != nil {
			panic(err)
		}
	}

	return w
}

var factionNames = []string{"the Vale", "the Reach", "the Crown", "the Marches", "the Isles", "the Steppe"}

// factionHomeRegion picks the region of that faction's first owned
// settlement, falling back to the lowest region id (0 if there are no
// regions) if the faction owns nothing yet.
func factionHomeRegion(w *simworld.World, factionID uint64) uint64 {
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if sett.OwnerFactionID == factionID {
			return sett.RegionID
		}
	}
	for _, regionID := range w.SortedRegionIDs() {
		return regionID
	}
	return 0
}

// spawnFoundingPopulation creates a small founding cast for a settlement:
// a leader, plus a handful of notables across every role the domain
// systems key off of, so conflicts/politics/economy/crime/craft all have
// someone to act on from tick one.
func spawnFoundingPopulation(w *simworld.World, sett *simworld.Settlement, settID uint64, rng *rand.Rand) {
	roles := []simworld.PersonRole{
		simworld.RoleLeader, simworld.RoleNoble, simworld.RoleMerchant,
		simworld.RoleCleric, simworld.RoleScholar, simworld.RoleSoldier,
	}
	var leaderID uint64
	for _, role := range roles {
		id := w.IDGen.NextID()
		p := simworld.NewPerson(id, fmt.Sprintf("%s of %s", roleName(role), sett.Name), 0)
		p.Role = role
		p.Prestige = rng.Float64() * 0.5
		p.Literacy = 0.2 + rng.Float64()*0.5
		if role == simworld.RoleScholar || role == simworld.RoleCleric {
			p.Literacy = 0.6 + rng.Float64()*0.4
		}
		w.Persons[id] = p
		if err := w.Entities.Insert(entitymap.KindPerson, id, p); err != nil {
			panic(err)
		}
		w.LocatedIn.Add(id, settID, 0)
		w.MemberOf.Add(id, sett.OwnerFactionID, 0)
		if role == simworld.RoleLeader {
			leaderID = id
		}
	}
	if leaderID != 0 && len(w.LeaderOf.SourcesOf(sett.OwnerFactionID)) == 0 {
		w.LeaderOf.Add(leaderID, sett.OwnerFactionID, 0)
	}
}

func roleName(r simworld.PersonRole) string {
	switch r {
	case simworld.RoleLeader:
		return "Lord"
	case simworld.RoleNoble:
		return "Lady"
	case simworld.RoleMerchant:
		return "Merchant"
	case simworld.RoleCleric:
		return "Cleric"
	case simworld.RoleScholar:
		return "Scholar"
	case simworld.RoleSoldier:
		return "Captain"
	default:
		return "Commoner"
	}
}
