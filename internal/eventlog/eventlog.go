// Package eventlog is the append-only audit trail: events, their
// participants, and their effects. It is the sole source of truth for
// downstream tooling (narration, persistence, the read-only API).
package eventlog

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
)

// EventKind is a closed enumeration of narrative event categories. Modeled
// as a string so the log stays readable when dumped raw; the set is closed
// by convention (only the constants below are ever constructed by the
// applicator), not by the compiler.
type EventKind string

const (
	KindDeath              EventKind = "death"
	KindBirth              EventKind = "birth"
	KindRename             EventKind = "rename"
	KindWarDeclared        EventKind = "war_declared"
	KindWarEnded           EventKind = "war_ended"
	KindAllianceFormed     EventKind = "alliance_formed"
	KindAllianceBetrayed   EventKind = "alliance_betrayed"
	KindMuster             EventKind = "muster"
	KindArmyDisbanded      EventKind = "army_disbanded"
	KindArmyMarch          EventKind = "army_march"
	KindSiegeBegun         EventKind = "siege_begun"
	KindAssaultResolved    EventKind = "assault_resolved"
	KindBattleResolved     EventKind = "battle_resolved"
	KindConquest           EventKind = "conquest"
	KindMercenaryHired     EventKind = "mercenary_hired"
	KindMercenaryContractEnded EventKind = "mercenary_contract_ended"
	KindMercenaryCompanyFormed EventKind = "mercenary_company_formed"
	KindTradeEstablished   EventKind = "trade_established"
	KindTradeSevered       EventKind = "trade_severed"
	KindStatAdjusted       EventKind = "stat_adjusted"
	KindPrestigeAdjusted   EventKind = "prestige_adjusted"
	KindBuildingConstructed EventKind = "building_constructed"
	KindBuildingUpgraded   EventKind = "building_upgraded"
	KindBuildingDamaged    EventKind = "building_damaged"
	KindMigration          EventKind = "migration"
	KindRelocation         EventKind = "relocation"
	KindSettlementAbandoned EventKind = "settlement_abandoned"
	KindCulturalShift      EventKind = "cultural_shift"
	KindCultureBlended     EventKind = "culture_blended"
	KindCulturalRebellion  EventKind = "cultural_rebellion"
	KindReligionSpread     EventKind = "religion_spread"
	KindReligiousSchism    EventKind = "religious_schism"
	KindProphecy           EventKind = "prophecy"
	KindPlagueStarted      EventKind = "plague_started"
	KindPlagueSpread       EventKind = "plague_spread"
	KindPlagueEnded        EventKind = "plague_ended"
	KindDisasterTriggered  EventKind = "disaster_triggered"
	KindDisasterStarted    EventKind = "disaster_started"
	KindDisasterEnded      EventKind = "disaster_ended"
	KindBanditGangFormed   EventKind = "bandit_gang_formed"
	KindBanditGangDisbanded EventKind = "bandit_gang_disbanded"
	KindBanditRaid         EventKind = "bandit_raid"
	KindTradeRouteRaided   EventKind = "trade_route_raided"
	KindCoupAttempted      EventKind = "coup_attempted"
	KindSuccession         EventKind = "succession"
	KindFactionDissolved   EventKind = "faction_dissolved"
	KindItemCrafted        EventKind = "item_crafted"
	KindItemTransferred    EventKind = "item_transferred"
	KindKnowledgeCreated   EventKind = "knowledge_created"
	KindManifestationCreated EventKind = "manifestation_created"
	KindManifestationDestroyed EventKind = "manifestation_destroyed"
	KindSecretRevealed     EventKind = "secret_revealed"
	KindRelationshipAdded  EventKind = "relationship_added"
	KindRelationshipEnded  EventKind = "relationship_ended"
	KindGenericField       EventKind = "field_set"
)

// Role enumerates a participant's involvement in an event.
type Role uint8

const (
	RoleSubject Role = iota
	RoleObject
	RoleInstigator
	RoleAttacker
	RoleDefender
	RoleOrigin
	RoleDestination
	RoleLocation
	RoleWitness
	RoleParent
)

// Event is one append-only row of the audit trail.
type Event struct {
	ID          uint64    `json:"id"`
	Kind        EventKind `json:"kind"`
	Timestamp   uint64    `json:"timestamp"` // simclock minute
	Description string    `json:"description"`
	CausedBy    *uint64   `json:"caused_by,omitempty"`
	Data        []byte    `json:"data,omitempty"` // opaque JSON payload
}

// Participant links an entity to an event with a role.
type Participant struct {
	EventID  uint64 `json:"event_id"`
	EntityID uint64 `json:"entity_id"`
	Role     Role   `json:"role"`
}

// Change is the tagged union of state mutations recorded in effects[].
// Closed set of concrete types.
type Change interface {
	changeKind() string
}

type EntityEnded struct{}

func (EntityEnded) changeKind() string { return "entity_ended" }

type NameChanged struct {
	Old string
	New string
}

func (NameChanged) changeKind() string { return "name_changed" }

type PropertyChanged struct {
	Field string
	Old   string // stringified for audit-log uniformity
	New   string
}

func (PropertyChanged) changeKind() string { return "property_changed" }

type RelationshipAdded struct {
	Kind  string
	Other uint64
	Start uint64
}

func (RelationshipAdded) changeKind() string { return "relationship_added" }

type RelationshipEnded struct {
	Kind  string
	Other uint64
	End   uint64
}

func (RelationshipEnded) changeKind() string { return "relationship_ended" }

// Effect ties a Change to the event that caused it and the entity it
// mutated.
type Effect struct {
	EventID  uint64 `json:"event_id"`
	EntityID uint64 `json:"entity_id"`
	Change   Change `json:"change"`
}

// ChangeKind returns the closed-set tag for a Change, used by persistence.
func ChangeKind(c Change) string {
	return c.changeKind()
}

// DecodeChange reconstructs a Change from its closed-set tag and JSON
// payload, the inverse of ChangeKind + json.Marshal — used by
// internal/persistence when reloading the effects table.
func DecodeChange(kind string, payload []byte) (Change, error) {
	var c Change
	switch kind {
	case "entity_ended":
		c = EntityEnded{}
		return c, nil
	case "name_changed":
		var v NameChanged
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "property_changed":
		var v PropertyChanged
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "relationship_added":
		var v RelationshipAdded
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "relationship_ended":
		var v RelationshipEnded
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("eventlog: unknown change kind %q", kind)
	}
}

// Log is the append-only events/participants/effects triad.
type Log struct {
	Events       []Event
	Participants []Participant
	Effects      []Effect

	nextEventID uint64
}

// New creates an empty log whose first minted event id is seed.
func New(seed uint64) *Log {
	return &Log{nextEventID: seed}
}

// RestoreCursor sets the next event id to mint, used when loading a snapshot.
func (l *Log) RestoreCursor(next uint64) {
	l.nextEventID = next
}

// NextEventIDCursor returns the next id that would be minted, for
// snapshotting.
func (l *Log) NextEventIDCursor() uint64 {
	return l.nextEventID
}

// Append records a new event row plus its participants, returning the
// freshly minted event id.
func (l *Log) Append(kind EventKind, timestamp uint64, description string, causedBy *uint64, data []byte, participants []Participant) uint64 {
	id := l.nextEventID
	l.nextEventID++

	l.Events = append(l.Events, Event{
		ID:          id,
		Kind:        kind,
		Timestamp:   timestamp,
		Description: description,
		CausedBy:    causedBy,
		Data:        data,
	})
	for _, p := range participants {
		p.EventID = id
		l.Participants = append(l.Participants, p)
	}
	return id
}

// AppendEffect records one effect row for event id.
func (l *Log) AppendEffect(eventID uint64, entityID uint64, change Change) {
	l.Effects = append(l.Effects, Effect{EventID: eventID, EntityID: entityID, Change: change})
}

// EventExists reports whether an event with the given id has been recorded
// — used to check that every effect/participant references an
// existing event.
func (l *Log) EventExists(id uint64) bool {
	for _, e := range l.Events {
		if e.ID == id {
			return true
		}
	}
	return false
}

// ByID looks up an event by id.
func (l *Log) ByID(id uint64) (Event, bool) {
	for _, e := range l.Events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// DescribeTreasuryDelta formats a narrative description of a treasury
// change with thousands separators.
func DescribeTreasuryDelta(subject string, delta int64) string {
	if delta >= 0 {
		return fmt.Sprintf("%s gains %s crowns", subject, humanize.Comma(delta))
	}
	return fmt.Sprintf("%s loses %s crowns", subject, humanize.Comma(-delta))
}
