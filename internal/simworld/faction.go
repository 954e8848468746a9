package simworld

// GovernmentType is a closed enumeration of faction government forms.
type GovernmentType uint8

const (
	GovHereditary GovernmentType = iota
	GovElective
	GovChieftain
	GovBandit
	GovMercenary
)

// WarGoal is a closed enumeration of the aim a faction pursues in a war,
// set via the SetWarGoal command.
type WarGoal uint8

const (
	WarGoalConquest WarGoal = iota
	WarGoalTribute
	WarGoalIndependence
	WarGoalRevenge
	WarGoalHumiliation
)

// TributeAgreement records an obligation one faction owes another,
// established by a decisive SignTreaty. It is recorded but does not yet
// influence subsequent war resolution.
type TributeAgreement struct {
	OwedTo      uint64
	AmountPerYear uint64
	StartedAt   uint64
}

// DiplomacyState is a faction's diplomatic sub-state: tribute agreements,
// trade partners, and active war goals.
type DiplomacyState struct {
	TributeOwedTo []TributeAgreement `json:"tribute_owed_to,omitempty"`
	TradePartners []uint64           `json:"trade_partners,omitempty"`
	WarGoals      map[uint64]WarGoal `json:"war_goals,omitempty"` // enemy faction id -> goal
}

// Faction is a political/economic/military organization with treasury,
// stability, happiness, legitimacy, a primary culture and religion, and a
// diplomacy sub-state.
type Faction struct {
	Base

	Government GovernmentType `json:"government"`
	Treasury   uint64         `json:"treasury"`
	Stability  float64        `json:"stability"`  // 0.0-1.0
	Happiness  float64        `json:"happiness"`   // 0.0-1.0
	Legitimacy float64        `json:"legitimacy"`  // 0.0-1.0

	PrimaryCulture  uint64 `json:"primary_culture,omitempty"`
	PrimaryReligion uint64 `json:"primary_religion,omitempty"`

	Diplomacy DiplomacyState `json:"diplomacy"`
}

// NewFaction constructs a Faction with zeroed diplomacy state.
func NewFaction(simID uint64, name string, origin uint64, gov GovernmentType) *Faction {
	return &Faction{
		Base:       Base{SimID: simID, Name: name, Origin: origin},
		Government: gov,
		Stability:  0.5,
		Happiness:  0.5,
		Legitimacy: 0.5,
		Diplomacy: DiplomacyState{
			WarGoals: make(map[uint64]WarGoal),
		},
	}
}
