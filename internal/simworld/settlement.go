package simworld

// AgeBracket partitions a settlement's population for demographic
// tracking. Bracket counts and the scalar total are updated in lock-step;
// they must always sum to the same number.
type AgeBracket uint8

const (
	BracketChild  AgeBracket = iota // 0-14
	BracketAdult                    // 15-59
	BracketElder                    // 60+
)

// PopulationBreakdown holds the per-bracket counts that must sum to Total
// in lock-step.
type PopulationBreakdown struct {
	Counts map[AgeBracket]uint64 `json:"counts"`
	Total  uint64                `json:"total"`
}

// NewPopulationBreakdown creates a breakdown split across brackets using
// fixed demographic proportions, matching the total exactly (remainder
// assigned to the adult bracket so rounding never breaks the sum invariant).
func NewPopulationBreakdown(total uint64) PopulationBreakdown {
	child := total * 25 / 100
	elder := total * 15 / 100
	adult := total - child - elder
	return PopulationBreakdown{
		Counts: map[AgeBracket]uint64{
			BracketChild: child,
			BracketAdult: adult,
			BracketElder: elder,
		},
		Total: total,
	}
}

// Rescale proportionally scales every bracket to a new total, preserving
// the lock-step sum even after rounding (the remainder is
// assigned to the largest bracket).
func (p *PopulationBreakdown) Rescale(newTotal uint64) {
	if p.Total == 0 {
		*p = NewPopulationBreakdown(newTotal)
		return
	}
	scaled := make(map[AgeBracket]uint64, len(p.Counts))
	var sum uint64
	var largest AgeBracket
	var largestCount uint64
	for bracket, count := range p.Counts {
		v := count * newTotal / p.Total
		scaled[bracket] = v
		sum += v
		if count > largestCount {
			largestCount = count
			largest = bracket
		}
	}
	if sum != newTotal {
		scaled[largest] += newTotal - sum
	}
	p.Counts = scaled
	p.Total = newTotal
}

// TradeRoute links this settlement to a partner settlement by id.
type TradeRoute struct {
	PartnerSettlementID uint64
	EstablishedAt       uint64
	GoodFlow            string // dominant good traded, narrative label
}

// BuildingBonuses are precomputed aggregate effects of constructed
// buildings, refreshed by the applicator whenever a building is
// constructed/upgraded/damaged.
type BuildingBonuses struct {
	ProductionMult  float64 `json:"production_mult"`
	DefenseBonus    float64 `json:"defense_bonus"`
	ProsperityBonus float64 `json:"prosperity_bonus"`
}

// Settlement is a population center: age-bracket population, capacity,
// prestige, resource types, trade route list, fortification, guard
// strength, crime rate, and culture/religion mixtures.
type Settlement struct {
	Base

	Population PopulationBreakdown `json:"population"`
	Capacity   uint64              `json:"capacity"`
	Prosperity float64             `json:"prosperity"` // 0.0-1.0
	Prestige   float64             `json:"prestige"`

	OwnerFactionID uint64         `json:"owner_faction_id"`
	RegionID       uint64         `json:"region_id"`
	ResourceTypes  []string       `json:"resource_types,omitempty"`
	TradeRoutes    []TradeRoute   `json:"trade_routes,omitempty"`

	FortificationLevel uint8   `json:"fortification_level"` // 0-5
	GuardStrength      float64 `json:"guard_strength"`
	CrimeRate          float64 `json:"crime_rate"` // 0.0-1.0

	// CultureMix/ReligionMix map a culture/religion id to its share
	// [0,1] of the settlement's population; shares should sum to ~1.0.
	CultureMix  map[uint64]float64 `json:"culture_mix,omitempty"`
	ReligionMix map[uint64]float64 `json:"religion_mix,omitempty"`

	Buildings       []uint64        `json:"buildings,omitempty"` // building sim ids located here
	BuildingBonuses BuildingBonuses `json:"building_bonuses"`

	// PersistentDisaster names the ongoing disaster kind afflicting this
	// settlement, empty when none is active.
	PersistentDisaster string `json:"persistent_disaster,omitempty"`
}

// NewSettlement constructs a settlement with an initial population.
func NewSettlement(simID uint64, name string, origin uint64, ownerFaction, region uint64, initialPop uint64) *Settlement {
	return &Settlement{
		Base:           Base{SimID: simID, Name: name, Origin: origin},
		Population:     NewPopulationBreakdown(initialPop),
		Capacity:       initialPop * 2,
		Prosperity:     0.5,
		OwnerFactionID: ownerFaction,
		RegionID:       region,
		CultureMix:     make(map[uint64]float64),
		ReligionMix:    make(map[uint64]float64),
	}
}
