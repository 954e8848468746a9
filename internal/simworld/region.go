package simworld

import "github.com/talgya/mini-world/internal/world"

// TerrainKind is a closed enumeration of region terrain, aliasing the
// world generator's Terrain enum at region scale.
type TerrainKind = world.Terrain

// Region is a territorial unit (worldgen builds one per hex of the
// world-generation collaborator's grid) with terrain, climate, and tags used
// by the conflicts domain's pathfinding and siege/terrain-bonus math.
type Region struct {
	Base

	Terrain         TerrainKind `json:"terrain"`
	ClimateLatitude float64     `json:"climate_latitude"` // -1.0 (pole) .. 1.0 (pole), 0 = equator

	Coastal   bool `json:"coastal"`
	Forested  bool `json:"forested"`
	Arid      bool `json:"arid"`
	Riverine  bool `json:"riverine"`
	Rugged    bool `json:"rugged"`

	// Neighbors are the sim ids of adjacent regions, used by the
	// conflicts domain's BFS pathfinding.
	Neighbors []uint64 `json:"neighbors,omitempty"`

	// Water reports whether this region blocks land-army movement,
	// mirroring world.TerrainOcean's impassability for land armies.
	Water bool `json:"water"`
}

// NewRegion constructs a region with no neighbors wired yet.
func NewRegion(simID uint64, name string, origin uint64, terrain TerrainKind) *Region {
	return &Region{
		Base:    Base{SimID: simID, Name: name, Origin: origin},
		Terrain: terrain,
		Water:   terrain == world.TerrainOcean,
	}
}

// DefenseBonus returns the terrain's multiplier on a defending army's
// power, used by the conflicts domain's battle resolution.
func (r *Region) DefenseBonus() float64 {
	switch {
	case r.Rugged:
		return 1.3
	case r.Forested:
		return 1.15
	case r.Riverine:
		return 1.1
	default:
		return 1.0
	}
}
