package simworld

// Army is a faction's mobilized military force.
type Army struct {
	Base

	Strength         float64 `json:"strength"`
	StartingStrength float64 `json:"starting_strength"`
	Morale           float64 `json:"morale"` // 0.0-1.0
	Supply           float64 `json:"supply"` // months of supply remaining

	HomeRegionID uint64 `json:"home_region_id"`
	FactionID    uint64 `json:"faction_id"`
	Mercenary    bool   `json:"mercenary"`

	CurrentRegionID   uint64  `json:"current_region_id"`
	BesiegingSettID   *uint64 `json:"besieging_settlement_id,omitempty"`
}

// NewArmy constructs an army at full starting strength, with morale 0.8
// and three months of supply.
func NewArmy(simID uint64, name string, origin uint64, faction, homeRegion uint64, strength float64) *Army {
	return &Army{
		Base:             Base{SimID: simID, Name: name, Origin: origin},
		Strength:         strength,
		StartingStrength: strength,
		Morale:           0.8,
		Supply:           3,
		HomeRegionID:     homeRegion,
		FactionID:        faction,
		CurrentRegionID:  homeRegion,
	}
}

// Power computes battle power: strength x morale x
// terrain_defense_bonus_if_defender x (1 + leader_prestige x 0.1).
func (a *Army) Power(defending bool, terrainBonus float64, leaderPrestige float64) float64 {
	power := a.Strength * a.Morale
	if defending {
		power *= terrainBonus
	}
	power *= 1 + leaderPrestige*0.1
	return power
}

// ActiveSiege tracks a besieging army's progress against a settlement by
// a monthly counter.
type ActiveSiege struct {
	SettlementID   uint64 `json:"settlement_id"`
	BesiegerArmyID uint64 `json:"besieger_army_id"`
	StartedAt      uint64 `json:"started_at"`
	MonthsElapsed  uint32 `json:"months_elapsed"`
}
