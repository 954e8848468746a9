package commands

// ReactiveKind is the tag interface for SimReactiveEvent payloads.
type ReactiveKind interface {
	reactiveKind() string
}

// ReactiveTag exposes a reactive event's closed-set tag to packages
// outside commands, mirroring Tag for Kind.
func ReactiveTag(k ReactiveKind) string {
	return k.reactiveKind()
}

// ReactiveEvent describes what just happened, for Reactions-phase handlers
// to observe. Carries the originating event id and participant sim ids,
// never a mutable world reference.
type ReactiveEvent struct {
	Kind        ReactiveKind
	EventID     uint64
	Participants []uint64
}

type EntityDied struct{ EntityID uint64 }

func (EntityDied) reactiveKind() string { return "entity_died" }

type SettlementCaptured struct {
	SettlementID, OldFaction, NewFaction uint64
}

func (SettlementCaptured) reactiveKind() string { return "settlement_captured" }

type SiegeStarted struct{ SettlementID, ArmyID uint64 }

func (SiegeStarted) reactiveKind() string { return "siege_started" }

type SiegeEnded struct{ SettlementID uint64 }

func (SiegeEnded) reactiveKind() string { return "siege_ended" }

type PlagueStarted struct{ SettlementID, DiseaseID uint64 }

func (PlagueStarted) reactiveKind() string { return "plague_started" }

type PlagueEnded struct{ SettlementID uint64 }

func (PlagueEnded) reactiveKind() string { return "plague_ended" }

type DisasterStruck struct{ SettlementID uint64 }

func (DisasterStruck) reactiveKind() string { return "disaster_struck" }

type DisasterEnded struct{ SettlementID uint64 }

func (DisasterEnded) reactiveKind() string { return "disaster_ended" }

type RefugeesArrived struct{ FromSettID, ToSettID uint64 }

func (RefugeesArrived) reactiveKind() string { return "refugees_arrived" }

type WarStarted struct{ Attacker, Defender uint64 }

func (WarStarted) reactiveKind() string { return "war_started" }

type WarEnded struct{ Winner, Loser uint64 }

func (WarEnded) reactiveKind() string { return "war_ended" }

type TradeRouteEstablished struct{ A, B uint64 }

func (TradeRouteEstablished) reactiveKind() string { return "trade_route_established" }

type BuildingConstructed struct{ SettlementID, BuildingID uint64 }

func (BuildingConstructed) reactiveKind() string { return "building_constructed" }

type ReligionSchism struct{ ReligionID, NewReligionID uint64 }

func (ReligionSchism) reactiveKind() string { return "religion_schism" }

type FactionSplit struct{ OldFaction, NewFaction uint64 }

func (FactionSplit) reactiveKind() string { return "faction_split" }

type BanditRaidOccurred struct{ SettlementID uint64 }

func (BanditRaidOccurred) reactiveKind() string { return "bandit_raid" }

type ItemCrafted struct{ ItemID uint64 }

func (ItemCrafted) reactiveKind() string { return "item_crafted" }

type ItemTierPromoted struct {
	ItemID      uint64
	OldTier     uint8
	NewTier     uint8
}

func (ItemTierPromoted) reactiveKind() string { return "item_tier_promoted" }

type AllianceBetrayed struct{ Betrayer, Betrayed uint64 }

func (AllianceBetrayed) reactiveKind() string { return "alliance_betrayed" }

type SuccessionCrisis struct{ FactionID uint64 }

func (SuccessionCrisis) reactiveKind() string { return "succession_crisis" }

type FailedCoup struct{ FactionID, InstigatorID uint64 }

func (FailedCoup) reactiveKind() string { return "failed_coup" }

type RulerVacancy struct{ FactionID, FormerLeaderID uint64 }

func (RulerVacancy) reactiveKind() string { return "ruler_vacancy" }
