package simworld

// BuildingType is a closed enumeration of constructable building kinds.
type BuildingType uint8

const (
	BuildingWalls BuildingType = iota
	BuildingMarket
	BuildingTemple
	BuildingGranary
	BuildingBarracks
	BuildingRoads
	BuildingLibrary
	BuildingHarbor
)

// Building is a constructed improvement located at a settlement.
type Building struct {
	Base

	Kind         BuildingType `json:"kind"`
	SettlementID uint64       `json:"settlement_id"`
	Condition    float64      `json:"condition"` // 0.0-1.0
	Level        uint8        `json:"level"`      // 0,1,2
}

// NewBuilding constructs a building at full condition, level 0.
func NewBuilding(simID uint64, name string, origin uint64, kind BuildingType, settlementID uint64) *Building {
	return &Building{
		Base:         Base{SimID: simID, Name: name, Origin: origin},
		Kind:         kind,
		SettlementID: settlementID,
		Condition:    1.0,
	}
}

// Bonuses returns this building's contribution to settlement
// BuildingBonuses, scaled by level and condition.
func (b *Building) Bonuses() BuildingBonuses {
	scale := (float64(b.Level) + 1) * b.Condition / 3.0
	switch b.Kind {
	case BuildingWalls, BuildingBarracks:
		return BuildingBonuses{DefenseBonus: 0.3 * scale}
	case BuildingMarket, BuildingHarbor:
		return BuildingBonuses{ProsperityBonus: 0.2 * scale}
	case BuildingGranary, BuildingRoads:
		return BuildingBonuses{ProductionMult: 0.15 * scale}
	case BuildingTemple, BuildingLibrary:
		return BuildingBonuses{ProsperityBonus: 0.1 * scale}
	default:
		return BuildingBonuses{}
	}
}
