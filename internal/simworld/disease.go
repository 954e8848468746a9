package simworld

// Disease is a communicable-disease profile: virulence, lethality,
// duration, and per-age-bracket severity.
type Disease struct {
	Base

	Virulence float64 `json:"virulence"` // 0.0-1.0, spread probability per contact
	Lethality float64 `json:"lethality"` // 0.0-1.0, base death probability
	Duration  uint32  `json:"duration"`  // months an infection runs its course

	SeverityByBracket map[AgeBracket]float64 `json:"severity_by_bracket"`
}

// NewDisease constructs a disease profile with fixed per-bracket severity
// multipliers: children 1.3, adults 1.0, elders 1.6.
func NewDisease(simID uint64, name string, origin uint64, virulence, lethality float64, duration uint32) *Disease {
	return &Disease{
		Base:      Base{SimID: simID, Name: name, Origin: origin},
		Virulence: virulence,
		Lethality: lethality,
		Duration:  duration,
		SeverityByBracket: map[AgeBracket]float64{
			BracketChild: 1.3,
			BracketAdult: 1.0,
			BracketElder: 1.6,
		},
	}
}

// ActiveDisease attaches a Disease instance to a settlement, tracking
// progression, a monthly counter like ActiveSiege's.
type ActiveDisease struct {
	SettlementID  uint64 `json:"settlement_id"`
	DiseaseID     uint64 `json:"disease_id"`
	StartedAt     uint64 `json:"started_at"`
	MonthsElapsed uint32 `json:"months_elapsed"`
}
