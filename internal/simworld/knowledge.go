package simworld

// KnowledgeCategory is a closed enumeration of what a piece of Knowledge
// concerns.
type KnowledgeCategory uint8

const (
	KnowledgeCraft KnowledgeCategory = iota
	KnowledgeMilitary
	KnowledgeReligious
	KnowledgeHistorical
	KnowledgeArcane
)

// Knowledge is an abstract piece of know-how or lore that can be held by
// multiple entities via Manifestations.
type Knowledge struct {
	Base

	Category    KnowledgeCategory `json:"category"`
	Significance float64          `json:"significance"` // 0.0-1.0
	Secret      bool              `json:"secret"`
}

// NewKnowledge constructs a Knowledge entity.
func NewKnowledge(simID uint64, name string, origin uint64, category KnowledgeCategory, significance float64, secret bool) *Knowledge {
	return &Knowledge{
		Base:         Base{SimID: simID, Name: name, Origin: origin},
		Category:     category,
		Significance: significance,
		Secret:       secret,
	}
}

// ManifestationMedium is a closed enumeration of how a Knowledge instance
// is held/transmitted.
type ManifestationMedium uint8

const (
	MediumOral ManifestationMedium = iota
	MediumWritten
	MediumTattoo
	MediumMemory
)

// Manifestation is a held instance of a Knowledge in a medium, with
// accuracy/completeness that degrades across oral transmission.
type Manifestation struct {
	Base

	KnowledgeID uint64              `json:"knowledge_id"`
	Medium      ManifestationMedium `json:"medium"`
	HolderID    uint64              `json:"holder_id"`
	HolderKind  uint8               `json:"holder_kind"`

	Accuracy     float64 `json:"accuracy"`     // 0.0-1.0
	Completeness float64 `json:"completeness"` // 0.0-1.0
}

// NewManifestation constructs a manifestation at full accuracy/completeness.
func NewManifestation(simID uint64, origin uint64, knowledgeID uint64, medium ManifestationMedium, holderID uint64, holderKind uint8) *Manifestation {
	return &Manifestation{
		Base:         Base{SimID: simID, Origin: origin},
		KnowledgeID:  knowledgeID,
		Medium:       medium,
		HolderID:     holderID,
		HolderKind:   holderKind,
		Accuracy:     1.0,
		Completeness: 1.0,
	}
}

// Degrade applies oral-transmission decay to accuracy/completeness,
// clamped to zero.
func (m *Manifestation) Degrade(amount float64) {
	m.Accuracy -= amount
	m.Completeness -= amount
	if m.Accuracy < 0 {
		m.Accuracy = 0
	}
	if m.Completeness < 0 {
		m.Completeness = 0
	}
}
