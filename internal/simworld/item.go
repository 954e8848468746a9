package simworld

// ItemType is a closed enumeration of item kinds.
type ItemType uint8

const (
	ItemWeapon ItemType = iota
	ItemArmor
	ItemTool
	ItemJewelry
	ItemRelic
	ItemBook
)

// Material is a closed enumeration of the material an item is made from.
type Material uint8

const (
	MaterialIron Material = iota
	MaterialBronze
	MaterialSilver
	MaterialGold
	MaterialWood
	MaterialStone
	MaterialGem
)

// ResonanceTier buckets an item's accumulated narrative resonance into a
// discrete tier; crossing a tier boundary emits ItemTierPromoted.
type ResonanceTier uint8

const (
	ResonanceMundane ResonanceTier = iota
	ResonanceNotable
	ResonanceStoried
	ResonanceLegendary
)

// Item is a craftable, tradeable, holdable object: a unique instance with
// condition and resonance, not a fungible good.
type Item struct {
	Base

	Kind      ItemType      `json:"kind"`
	Material  Material      `json:"material"`
	Condition float64       `json:"condition"` // 0.0-1.0
	Resonance float64       `json:"resonance"` // accumulated narrative weight
	Tier      ResonanceTier `json:"tier"`

	HolderID   uint64 `json:"holder_id"`   // structural: ItemHeldBy(holder)
	HolderKind uint8  `json:"holder_kind"` // entitymap.EntityKind of holder
}

// NewItem constructs an item at full condition, mundane tier.
func NewItem(simID uint64, name string, origin uint64, kind ItemType, material Material, holderID uint64, holderKind uint8) *Item {
	return &Item{
		Base:       Base{SimID: simID, Name: name, Origin: origin},
		Kind:       kind,
		Material:   material,
		Condition:  1.0,
		HolderID:   holderID,
		HolderKind: holderKind,
	}
}

// ResonanceTierFor buckets a resonance value into its tier, used after
// AdjustResonance to decide whether ItemTierPromoted should fire.
func ResonanceTierFor(resonance float64) ResonanceTier {
	switch {
	case resonance >= 10:
		return ResonanceLegendary
	case resonance >= 5:
		return ResonanceStoried
	case resonance >= 2:
		return ResonanceNotable
	default:
		return ResonanceMundane
	}
}
