// Package commands defines the SimCommand tagged union — the sole way a
// domain system expresses an intent to mutate world state — and the
// SimReactiveEvent tagged union the applicator emits afterward.
// Closed-set polymorphism by tag + dispatch rather than open-set virtual
// calls: the legal intents are a fixed vocabulary.
package commands

import "github.com/talgya/mini-world/internal/eventlog"

// Kind is the tag interface every concrete command payload implements.
type Kind interface {
	commandKind() string
}

// Tag exposes a command's closed-set tag to packages outside commands,
// since commandKind() itself is unexported. The applicator's dispatch
// table keys on this string.
func Tag(k Kind) string {
	return k.commandKind()
}

// Command is one queued intent. Non-bookkeeping commands mint an event
// when applied; bookkeeping commands mutate state without minting one.
type Command struct {
	Kind          Kind
	EventKind     eventlog.EventKind
	Description   string
	Participants  []eventlog.Participant
	EventData     []byte
	CausedBy      *uint64
	IsBookkeeping bool

	// ProducerID/Sequence are carried for a producer-id-then-sequence
	// ordering key. No domain sets them and the applicator does not read
	// them: commands are applied in the order they were pushed.
	ProducerID uint32
	Sequence   uint64
}

// ---- Lifecycle ----

type EndEntity struct {
	EntityID   uint64
	EntityKind uint8
}

func (EndEntity) commandKind() string { return "end_entity" }

type RenameEntity struct {
	EntityID   uint64
	EntityKind uint8
	NewName    string
}

func (RenameEntity) commandKind() string { return "rename_entity" }

type PersonBorn struct {
	PersonID     uint64
	Name         string
	HomeSettID   uint64
}

func (PersonBorn) commandKind() string { return "person_born" }

type PersonDied struct {
	PersonID uint64
	Cause    string
}

func (PersonDied) commandKind() string { return "person_died" }

// ---- Relationships ----

type RelationshipKind uint8

const (
	RelAlly RelationshipKind = iota
	RelEnemy
	RelAtWar
	RelTradeRoute
)

type AddRelationship struct {
	Src, Tgt uint64
	Kind     RelationshipKind
}

func (AddRelationship) commandKind() string { return "add_relationship" }

type EndRelationship struct {
	Src, Tgt uint64
	Kind     RelationshipKind
}

func (EndRelationship) commandKind() string { return "end_relationship" }

// ---- Diplomacy ----

type DeclareWar struct {
	Attacker, Defender uint64
}

func (DeclareWar) commandKind() string { return "declare_war" }

type SignTreaty struct {
	A, B      uint64
	Winner    uint64
	Loser     uint64
	Decisive  bool
}

func (SignTreaty) commandKind() string { return "sign_treaty" }

type FormAlliance struct {
	A, B uint64
}

func (FormAlliance) commandKind() string { return "form_alliance" }

type BetrayAlliance struct {
	Betrayer, Betrayed uint64
}

func (BetrayAlliance) commandKind() string { return "betray_alliance" }

type SetWarGoal struct {
	Faction, Enemy uint64
	Goal           uint8
}

func (SetWarGoal) commandKind() string { return "set_war_goal" }

// ---- Military ----

type MusterArmy struct {
	FactionID, HomeRegionID uint64
	Strength                float64
}

func (MusterArmy) commandKind() string { return "muster_army" }

type DisbandArmy struct {
	ArmyID uint64
}

func (DisbandArmy) commandKind() string { return "disband_army" }

type MarchArmy struct {
	ArmyID, DestRegionID uint64
}

func (MarchArmy) commandKind() string { return "march_army" }

type BeginSiege struct {
	ArmyID, SettlementID uint64
}

func (BeginSiege) commandKind() string { return "begin_siege" }

type ResolveAssault struct {
	ArmyID, SettlementID uint64
}

func (ResolveAssault) commandKind() string { return "resolve_assault" }

type ResolveBattle struct {
	ArmyA, ArmyB uint64
}

func (ResolveBattle) commandKind() string { return "resolve_battle" }

type CaptureSettlement struct {
	SettlementID, NewFactionID uint64
}

func (CaptureSettlement) commandKind() string { return "capture_settlement" }

type HireMercenary struct {
	FactionID, CompanyArmyID uint64
}

func (HireMercenary) commandKind() string { return "hire_mercenary" }

type EndMercenaryContract struct {
	ArmyID uint64
}

func (EndMercenaryContract) commandKind() string { return "end_mercenary_contract" }

type CreateMercenaryCompany struct {
	ArmyID, HomeRegionID uint64
	Strength             float64
}

func (CreateMercenaryCompany) commandKind() string { return "create_mercenary_company" }

// ---- Economy ----

type EstablishTradeRoute struct {
	A, B uint64
}

func (EstablishTradeRoute) commandKind() string { return "establish_trade_route" }

type SeverTradeRoute struct {
	A, B uint64
}

func (SeverTradeRoute) commandKind() string { return "sever_trade_route" }

type AdjustFactionStats struct {
	FactionID                         uint64
	TreasuryDelta                     int64
	StabilityDelta, HappinessDelta    float64
}

func (AdjustFactionStats) commandKind() string { return "adjust_faction_stats" }

type AdjustPrestige struct {
	EntityID   uint64
	EntityKind uint8
	Delta      float64
}

func (AdjustPrestige) commandKind() string { return "adjust_prestige" }

// ---- Settlement ----

type ConstructBuilding struct {
	SettlementID uint64
	BuildingKind uint8
}

func (ConstructBuilding) commandKind() string { return "construct_building" }

type UpgradeBuilding struct {
	BuildingID uint64
}

func (UpgradeBuilding) commandKind() string { return "upgrade_building" }

type DamageBuilding struct {
	BuildingID uint64
	Amount     float64
}

func (DamageBuilding) commandKind() string { return "damage_building" }

type MigratePopulation struct {
	FromSettID, ToSettID uint64
	Count                uint64
}

func (MigratePopulation) commandKind() string { return "migrate_population" }

type RelocatePerson struct {
	PersonID, NewSettID uint64
}

func (RelocatePerson) commandKind() string { return "relocate_person" }

type AbandonSettlement struct {
	SettlementID uint64
}

func (AbandonSettlement) commandKind() string { return "abandon_settlement" }

// ---- Culture/Religion ----

type CulturalShift struct {
	SettlementID, CultureID uint64
	Delta                   float64
}

func (CulturalShift) commandKind() string { return "cultural_shift" }

type BlendCultures struct {
	SettlementID, SourceCultureID, TargetCultureID uint64
	Strength                                       float64
}

func (BlendCultures) commandKind() string { return "blend_cultures" }

type CulturalRebellion struct {
	SettlementID uint64
}

func (CulturalRebellion) commandKind() string { return "cultural_rebellion" }

type SpreadReligion struct {
	SettlementID, ReligionID uint64
	Strength                 float64
}

func (SpreadReligion) commandKind() string { return "spread_religion" }

type ReligiousSchism struct {
	ReligionID, NewReligionID uint64
}

func (ReligiousSchism) commandKind() string { return "religious_schism" }

type DeclareProphecy struct {
	PersonID, ReligionID uint64
}

func (DeclareProphecy) commandKind() string { return "declare_prophecy" }

// ---- Disease/Disaster ----

type StartPlague struct {
	SettlementID, DiseaseID uint64
}

func (StartPlague) commandKind() string { return "start_plague" }

type SpreadPlague struct {
	FromSettID, ToSettID, DiseaseID uint64
}

func (SpreadPlague) commandKind() string { return "spread_plague" }

type EndPlague struct {
	SettlementID uint64
}

func (EndPlague) commandKind() string { return "end_plague" }

type TriggerDisaster struct {
	SettlementID uint64
	Kind         string
}

func (TriggerDisaster) commandKind() string { return "trigger_disaster" }

type StartPersistentDisaster struct {
	SettlementID uint64
	Kind         string
}

func (StartPersistentDisaster) commandKind() string { return "start_persistent_disaster" }

type EndDisaster struct {
	SettlementID uint64
}

func (EndDisaster) commandKind() string { return "end_disaster" }

// ---- Crime ----

type FormBanditGang struct {
	HomeRegionID uint64
	Strength     float64
}

func (FormBanditGang) commandKind() string { return "form_bandit_gang" }

type DisbandBanditGang struct {
	GangArmyID uint64
}

func (DisbandBanditGang) commandKind() string { return "disband_bandit_gang" }

type BanditRaid struct {
	GangArmyID, SettlementID uint64
}

func (BanditRaid) commandKind() string { return "bandit_raid" }

type RaidTradeRoute struct {
	GangArmyID, A, B uint64
}

func (RaidTradeRoute) commandKind() string { return "raid_trade_route" }

// ---- Politics ----

type AttemptCoup struct {
	FactionID, InstigatorID  uint64
	Succeeded                bool
	ExecuteInstigatorOnFail  bool
}

func (AttemptCoup) commandKind() string { return "attempt_coup" }

type SucceedLeader struct {
	FactionID, NewLeaderID uint64
}

func (SucceedLeader) commandKind() string { return "succeed_leader" }

// ---- Items/Knowledge ----

type CraftItem struct {
	CrafterID, HolderID uint64
	HolderKind          uint8
	ItemKind, Material  uint8
}

func (CraftItem) commandKind() string { return "craft_item" }

type TransferItem struct {
	ItemID, NewHolderID uint64
	NewHolderKind       uint8
}

func (TransferItem) commandKind() string { return "transfer_item" }

type CreateKnowledge struct {
	Category     uint8
	Significance float64
	Secret       bool
}

func (CreateKnowledge) commandKind() string { return "create_knowledge" }

type CreateManifestation struct {
	KnowledgeID, HolderID uint64
	HolderKind            uint8
	Medium                uint8
}

func (CreateManifestation) commandKind() string { return "create_manifestation" }

type DestroyManifestation struct {
	ManifestationID uint64
}

func (DestroyManifestation) commandKind() string { return "destroy_manifestation" }

type RevealSecret struct {
	KnowledgeID, RevealerID uint64
}

func (RevealSecret) commandKind() string { return "reveal_secret" }

// ---- Generic ----

// SetField is the generic escape hatch: a closed enum of field identifiers
// per entity kind (Field), dispatched statically by the applicator. The
// symbolic name is retained only as a diagnostic label in the effect log.
type SetField struct {
	EntityID   uint64
	EntityKind uint8
	Field      string
	OldValue   string
	NewValue   string
}

func (SetField) commandKind() string { return "set_field" }
