// Package persistence provides SQLite-based world state storage: a full
// snapshot/restore of the simulation core (clock, id generator, RNG pool,
// entity tables, structural indexes, relationship graph, event log
// triad). A save/load round trip followed by one tick must be bit-identical
// to ticking the original, so every cursor and RNG stream state is part of
// the snapshot. Uses sqlx over modernc.org/sqlite with one JSON blob per
// entity (every simworld entity type carries full json tags, so a blob
// column loses nothing a hand-columned table would have captured) plus a
// world_meta key-value table for the cursors.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/relations"
	"github.com/talgya/mini-world/internal/simrng"
	"github.com/talgya/mini-world/internal/simworld"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// entityTables names every entity-kind table, in the order a snapshot
// should apply them on restore (no cross-table ordering dependency exists
// today, but a stable order keeps diffs of the schema readable).
var entityTables = []string{
	"persons", "factions", "settlements", "regions", "armies", "buildings",
	"items", "knowledges", "manifestations", "religions", "cultures", "diseases",
}

func (db *DB) migrate() error {
	var schema string
	for _, t := range entityTables {
		schema += fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY,
			data TEXT NOT NULL
		);`, t)
	}

	schema += `
	CREATE TABLE IF NOT EXISTS structural_links (
		index_name TEXT NOT NULL,
		source_id  INTEGER NOT NULL,
		target_id  INTEGER NOT NULL,
		start_min  INTEGER NOT NULL,
		end_min    INTEGER,
		PRIMARY KEY (index_name, source_id)
	);

	CREATE TABLE IF NOT EXISTS relationships (
		kind     INTEGER NOT NULL,
		pair_a   INTEGER NOT NULL,
		pair_b   INTEGER NOT NULL,
		start_min INTEGER NOT NULL,
		end_min   INTEGER,
		PRIMARY KEY (kind, pair_a, pair_b)
	);

	CREATE TABLE IF NOT EXISTS active_sieges (
		settlement_id    INTEGER PRIMARY KEY,
		besieger_army_id INTEGER NOT NULL,
		started_at       INTEGER NOT NULL,
		months_elapsed   INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS active_diseases (
		settlement_id  INTEGER PRIMARY KEY,
		disease_id     INTEGER NOT NULL,
		started_at     INTEGER NOT NULL,
		months_elapsed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id          INTEGER PRIMARY KEY,
		kind        TEXT NOT NULL,
		timestamp   INTEGER NOT NULL,
		description TEXT NOT NULL,
		caused_by   INTEGER,
		data        BLOB
	);

	CREATE TABLE IF NOT EXISTS participants (
		event_id  INTEGER NOT NULL,
		entity_id INTEGER NOT NULL,
		role      INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS effects (
		event_id    INTEGER NOT NULL,
		entity_id   INTEGER NOT NULL,
		change_kind TEXT NOT NULL,
		change_data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_participants_event ON participants(event_id);
	CREATE INDEX IF NOT EXISTS idx_effects_event ON effects(event_id);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// HasWorldState returns true if the database contains a saved world
// (the clock_minute meta key that SaveWorld writes).
func (db *DB) HasWorldState() bool {
	var count int
	err := db.conn.Get(&count, "SELECT COUNT(*) FROM world_meta WHERE key = 'clock_minute'")
	return err == nil && count > 0
}

// RunID returns this database's stable run identifier, minting one with
// uuid.NewString on first call and persisting it to world_meta so every
// later save/load against the same file reports the same run.
func (db *DB) RunID() (string, error) {
	if id, err := db.GetMeta("run_id"); err == nil && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	if err := db.SaveMeta("run_id", id); err != nil {
		return "", fmt.Errorf("mint run id: %w", err)
	}
	return id, nil
}

// LastSnapshotID returns the identifier minted for the most recent
// SaveWorld call.
func (db *DB) LastSnapshotID() (string, error) {
	return db.GetMeta("snapshot_id")
}

type blobRow struct {
	ID   uint64 `db:"id"`
	Data string `db:"data"`
}

func saveBlobTable[V any](tx *sqlx.Tx, table string, rows map[uint64]V) error {
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return err
	}
	stmt, err := tx.Preparex(fmt.Sprintf("INSERT INTO %s (id, data) VALUES (?, ?)", table))
	if err != nil {
		return err
	}
	defer stmt.Close()
	for id, v := range rows {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s %d: %w", table, id, err)
		}
		if _, err := stmt.Exec(id, string(data)); err != nil {
			return fmt.Errorf("insert %s %d: %w", table, id, err)
		}
	}
	return nil
}

func loadBlobTable[V any](db *DB, table string) (map[uint64]V, error) {
	var rows []blobRow
	if err := db.conn.Select(&rows, fmt.Sprintf("SELECT id, data FROM %s", table)); err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	out := make(map[uint64]V, len(rows))
	for _, r := range rows {
		var v V
		if err := json.Unmarshal([]byte(r.Data), &v); err != nil {
			return nil, fmt.Errorf("unmarshal %s %d: %w", table, r.ID, err)
		}
		out[r.ID] = v
	}
	return out, nil
}

// SaveWorld performs a full replace-save of every table a snapshot needs:
// clock, id generator cursor, RNG pool, the twelve entity tables, the four
// structural indexes, the relationship graph, and the event log triad.
func (db *DB) SaveWorld(w *simworld.World) error {
	slog.Info("saving world state",
		"persons", len(w.Persons), "settlements", len(w.Settlements),
		"factions", len(w.Factions), "events", len(w.Events.Events))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveBlobTable(tx, "persons", w.Persons); err != nil {
		return err
	}
	if err := saveBlobTable(tx, "factions", w.Factions); err != nil {
		return err
	}
	if err := saveBlobTable(tx, "settlements", w.Settlements); err != nil {
		return err
	}
	if err := saveBlobTable(tx, "regions", w.Regions); err != nil {
		return err
	}
	if err := saveBlobTable(tx, "armies", w.Armies); err != nil {
		return err
	}
	if err := saveBlobTable(tx, "buildings", w.Buildings); err != nil {
		return err
	}
	if err := saveBlobTable(tx, "items", w.Items); err != nil {
		return err
	}
	if err := saveBlobTable(tx, "knowledges", w.Knowledges); err != nil {
		return err
	}
	if err := saveBlobTable(tx, "manifestations", w.Manifestations); err != nil {
		return err
	}
	if err := saveBlobTable(tx, "religions", w.Religions); err != nil {
		return err
	}
	if err := saveBlobTable(tx, "cultures", w.Cultures); err != nil {
		return err
	}
	if err := saveBlobTable(tx, "diseases", w.Diseases); err != nil {
		return err
	}

	if err := db.saveStructural(tx, "member_of", w.MemberOf); err != nil {
		return err
	}
	if err := db.saveStructural(tx, "leader_of", w.LeaderOf); err != nil {
		return err
	}
	if err := db.saveStructural(tx, "located_in", w.LocatedIn); err != nil {
		return err
	}
	if err := db.saveStructural(tx, "held_by", w.HeldBy); err != nil {
		return err
	}

	if err := db.saveRelations(tx, w.Relations); err != nil {
		return err
	}

	if err := db.saveActiveSieges(tx, w.ActiveSieges); err != nil {
		return err
	}
	if err := db.saveActiveDiseases(tx, w.ActiveDiseases); err != nil {
		return err
	}

	if err := db.saveEventLog(tx, w.Events); err != nil {
		return err
	}

	snap := w.RNG.Snapshot()
	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal rng snapshot: %w", err)
	}
	if _, err := db.RunID(); err != nil {
		return fmt.Errorf("ensure run id: %w", err)
	}
	meta := map[string]string{
		"clock_minute":  fmt.Sprintf("%d", w.Clock.Minute),
		"idgen_cursor":  fmt.Sprintf("%d", w.IDGen.Cursor()),
		"event_cursor":  fmt.Sprintf("%d", w.Events.NextEventIDCursor()),
		"rng_snapshot":  string(snapJSON),
		"snapshot_id":   uuid.NewString(),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("world state saved")
	return nil
}

func (db *DB) saveStructural(tx *sqlx.Tx, indexName string, s *simworld.Structural) error {
	if _, err := tx.Exec("DELETE FROM structural_links WHERE index_name = ?", indexName); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO structural_links
		(index_name, source_id, target_id, start_min, end_min) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, row := range s.AllRows() {
		if _, err := stmt.Exec(indexName, row.Source, row.Target, row.Start, row.End); err != nil {
			return fmt.Errorf("insert structural link %s/%d: %w", indexName, row.Source, err)
		}
	}
	return nil
}

func (db *DB) saveRelations(tx *sqlx.Tx, g *relations.Graph) error {
	if _, err := tx.Exec("DELETE FROM relationships"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO relationships
		(kind, pair_a, pair_b, start_min, end_min) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, row := range g.All() {
		if _, err := stmt.Exec(uint8(row.Kind), row.Pair.A, row.Pair.B, row.Row.Start, row.Row.End); err != nil {
			return fmt.Errorf("insert relationship %v: %w", row.Pair, err)
		}
	}
	return nil
}

func (db *DB) saveActiveSieges(tx *sqlx.Tx, sieges map[uint64]*simworld.ActiveSiege) error {
	if _, err := tx.Exec("DELETE FROM active_sieges"); err != nil {
		return err
	}
	for settID, siege := range sieges {
		_, err := tx.Exec(`INSERT INTO active_sieges
			(settlement_id, besieger_army_id, started_at, months_elapsed) VALUES (?, ?, ?, ?)`,
			settID, siege.BesiegerArmyID, siege.StartedAt, siege.MonthsElapsed)
		if err != nil {
			return fmt.Errorf("insert active siege %d: %w", settID, err)
		}
	}
	return nil
}

func (db *DB) saveActiveDiseases(tx *sqlx.Tx, diseases map[uint64]*simworld.ActiveDisease) error {
	if _, err := tx.Exec("DELETE FROM active_diseases"); err != nil {
		return err
	}
	for settID, ad := range diseases {
		_, err := tx.Exec(`INSERT INTO active_diseases
			(settlement_id, disease_id, started_at, months_elapsed) VALUES (?, ?, ?, ?)`,
			settID, ad.DiseaseID, ad.StartedAt, ad.MonthsElapsed)
		if err != nil {
			return fmt.Errorf("insert active disease %d: %w", settID, err)
		}
	}
	return nil
}

func (db *DB) saveEventLog(tx *sqlx.Tx, log *eventlog.Log) error {
	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM participants"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM effects"); err != nil {
		return err
	}

	evStmt, err := tx.Preparex(`INSERT INTO events
		(id, kind, timestamp, description, caused_by, data) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer evStmt.Close()
	for _, e := range log.Events {
		if _, err := evStmt.Exec(e.ID, string(e.Kind), e.Timestamp, e.Description, e.CausedBy, e.Data); err != nil {
			return fmt.Errorf("insert event %d: %w", e.ID, err)
		}
	}

	pStmt, err := tx.Preparex(`INSERT INTO participants (event_id, entity_id, role) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer pStmt.Close()
	for _, p := range log.Participants {
		if _, err := pStmt.Exec(p.EventID, p.EntityID, uint8(p.Role)); err != nil {
			return fmt.Errorf("insert participant for event %d: %w", p.EventID, err)
		}
	}

	eStmt, err := tx.Preparex(`INSERT INTO effects
		(event_id, entity_id, change_kind, change_data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer eStmt.Close()
	for _, eff := range log.Effects {
		kind := eventlog.ChangeKind(eff.Change)
		data, err := json.Marshal(eff.Change)
		if err != nil {
			return fmt.Errorf("marshal effect for event %d: %w", eff.EventID, err)
		}
		if _, err := eStmt.Exec(eff.EventID, eff.EntityID, kind, string(data)); err != nil {
			return fmt.Errorf("insert effect for event %d: %w", eff.EventID, err)
		}
	}

	return nil
}

// LoadWorld reconstructs a World from a saved snapshot. w must already be
// freshly constructed via simworld.New; its clock/idgen/rng/entities are
// overwritten in place rather than returning a second World value.
func (db *DB) LoadWorld(w *simworld.World) error {
	minuteStr, err := db.GetMeta("clock_minute")
	if err != nil {
		return fmt.Errorf("load clock: %w", err)
	}
	var minute uint64
	fmt.Sscanf(minuteStr, "%d", &minute)
	w.Clock.Advance(minute)

	idgenStr, err := db.GetMeta("idgen_cursor")
	if err != nil {
		return fmt.Errorf("load idgen cursor: %w", err)
	}
	var idgenCursor uint64
	fmt.Sscanf(idgenStr, "%d", &idgenCursor)
	w.IDGen.Restore(idgenCursor)

	eventCursorStr, err := db.GetMeta("event_cursor")
	if err != nil {
		return fmt.Errorf("load event cursor: %w", err)
	}
	var eventCursor uint64
	fmt.Sscanf(eventCursorStr, "%d", &eventCursor)
	w.Events.RestoreCursor(eventCursor)

	rngJSON, err := db.GetMeta("rng_snapshot")
	if err != nil {
		return fmt.Errorf("load rng snapshot: %w", err)
	}
	var snap simrng.Snapshot
	if err := json.Unmarshal([]byte(rngJSON), &snap); err != nil {
		return fmt.Errorf("unmarshal rng snapshot: %w", err)
	}
	w.RNG = simrng.Restore(snap)

	if err := loadEntities(db, w); err != nil {
		return err
	}
	if err := db.loadStructural(w); err != nil {
		return err
	}
	if err := db.loadRelations(w.Relations); err != nil {
		return err
	}
	if err := db.loadActiveSieges(w); err != nil {
		return err
	}
	if err := db.loadActiveDiseases(w); err != nil {
		return err
	}
	if err := db.loadEventLog(w.Events); err != nil {
		return err
	}

	slog.Info("world state restored",
		"persons", len(w.Persons), "settlements", len(w.Settlements),
		"clock_minute", w.Clock.Minute)
	return nil
}

// loadEntities loads all twelve entity tables and re-registers every
// loaded entity in w.Entities, mirroring the Insert call every applicator
// creation handler makes (handlers_lifecycle.go, handlers_military.go,
// handlers_settlement.go, handlers_items_knowledge.go,
// handlers_culture_religion.go, handlers_crime.go).
func loadEntities(db *DB, w *simworld.World) error {
	persons, err := loadBlobTable[*simworld.Person](db, "persons")
	if err != nil {
		return err
	}
	w.Persons = persons
	for id, p := range persons {
		if err := w.Entities.Insert(entitymap.KindPerson, id, p); err != nil {
			return fmt.Errorf("reinsert person %d: %w", id, err)
		}
	}

	factions, err := loadBlobTable[*simworld.Faction](db, "factions")
	if err != nil {
		return err
	}
	w.Factions = factions
	for id, f := range factions {
		if err := w.Entities.Insert(entitymap.KindFaction, id, f); err != nil {
			return fmt.Errorf("reinsert faction %d: %w", id, err)
		}
	}

	settlements, err := loadBlobTable[*simworld.Settlement](db, "settlements")
	if err != nil {
		return err
	}
	w.Settlements = settlements
	for id, s := range settlements {
		if err := w.Entities.Insert(entitymap.KindSettlement, id, s); err != nil {
			return fmt.Errorf("reinsert settlement %d: %w", id, err)
		}
	}

	regions, err := loadBlobTable[*simworld.Region](db, "regions")
	if err != nil {
		return err
	}
	w.Regions = regions
	for id, r := range regions {
		if err := w.Entities.Insert(entitymap.KindRegion, id, r); err != nil {
			return fmt.Errorf("reinsert region %d: %w", id, err)
		}
	}

	armies, err := loadBlobTable[*simworld.Army](db, "armies")
	if err != nil {
		return err
	}
	w.Armies = armies
	for id, a := range armies {
		if err := w.Entities.Insert(entitymap.KindArmy, id, a); err != nil {
			return fmt.Errorf("reinsert army %d: %w", id, err)
		}
	}

	buildings, err := loadBlobTable[*simworld.Building](db, "buildings")
	if err != nil {
		return err
	}
	w.Buildings = buildings
	for id, b := range buildings {
		if err := w.Entities.Insert(entitymap.KindBuilding, id, b); err != nil {
			return fmt.Errorf("reinsert building %d: %w", id, err)
		}
	}

	items, err := loadBlobTable[*simworld.Item](db, "items")
	if err != nil {
		return err
	}
	w.Items = items
	for id, it := range items {
		if err := w.Entities.Insert(entitymap.KindItem, id, it); err != nil {
			return fmt.Errorf("reinsert item %d: %w", id, err)
		}
	}

	knowledges, err := loadBlobTable[*simworld.Knowledge](db, "knowledges")
	if err != nil {
		return err
	}
	w.Knowledges = knowledges
	for id, k := range knowledges {
		if err := w.Entities.Insert(entitymap.KindKnowledge, id, k); err != nil {
			return fmt.Errorf("reinsert knowledge %d: %w", id, err)
		}
	}

	manifestations, err := loadBlobTable[*simworld.Manifestation](db, "manifestations")
	if err != nil {
		return err
	}
	w.Manifestations = manifestations
	for id, m := range manifestations {
		if err := w.Entities.Insert(entitymap.KindManifestation, id, m); err != nil {
			return fmt.Errorf("reinsert manifestation %d: %w", id, err)
		}
	}

	religions, err := loadBlobTable[*simworld.Religion](db, "religions")
	if err != nil {
		return err
	}
	w.Religions = religions
	for id, r := range religions {
		if err := w.Entities.Insert(entitymap.KindReligion, id, r); err != nil {
			return fmt.Errorf("reinsert religion %d: %w", id, err)
		}
	}

	cultures, err := loadBlobTable[*simworld.Culture](db, "cultures")
	if err != nil {
		return err
	}
	w.Cultures = cultures
	for id, c := range cultures {
		if err := w.Entities.Insert(entitymap.KindCulture, id, c); err != nil {
			return fmt.Errorf("reinsert culture %d: %w", id, err)
		}
	}

	diseases, err := loadBlobTable[*simworld.Disease](db, "diseases")
	if err != nil {
		return err
	}
	w.Diseases = diseases
	for id, d := range diseases {
		if err := w.Entities.Insert(entitymap.KindDisease, id, d); err != nil {
			return fmt.Errorf("reinsert disease %d: %w", id, err)
		}
	}

	return nil
}

type structuralLinkRow struct {
	IndexName string  `db:"index_name"`
	SourceID  uint64  `db:"source_id"`
	TargetID  uint64  `db:"target_id"`
	StartMin  uint64  `db:"start_min"`
	EndMin    *uint64 `db:"end_min"`
}

func (db *DB) loadStructural(w *simworld.World) error {
	var rows []structuralLinkRow
	if err := db.conn.Select(&rows, "SELECT * FROM structural_links"); err != nil {
		return fmt.Errorf("load structural links: %w", err)
	}
	byName := map[string]*simworld.Structural{
		"member_of":  w.MemberOf,
		"leader_of":  w.LeaderOf,
		"located_in": w.LocatedIn,
		"held_by":    w.HeldBy,
	}
	for _, r := range rows {
		idx, ok := byName[r.IndexName]
		if !ok {
			continue
		}
		idx.Restore(simworld.StructuralRow{Source: r.SourceID, Target: r.TargetID, Start: r.StartMin, End: r.EndMin})
	}
	return nil
}

type relationshipRow struct {
	Kind     uint8   `db:"kind"`
	PairA    uint64  `db:"pair_a"`
	PairB    uint64  `db:"pair_b"`
	StartMin uint64  `db:"start_min"`
	EndMin   *uint64 `db:"end_min"`
}

func (db *DB) loadRelations(g *relations.Graph) error {
	var rows []relationshipRow
	if err := db.conn.Select(&rows, "SELECT * FROM relationships"); err != nil {
		return fmt.Errorf("load relationships: %w", err)
	}
	for _, r := range rows {
		pair := relations.CanonicalPair(r.PairA, r.PairB)
		g.Restore(relations.Kind(r.Kind), pair, relations.Row{Start: r.StartMin, End: r.EndMin})
	}
	return nil
}

type siegeRow struct {
	SettlementID   uint64 `db:"settlement_id"`
	BesiegerArmyID uint64 `db:"besieger_army_id"`
	StartedAt      uint64 `db:"started_at"`
	MonthsElapsed  uint32 `db:"months_elapsed"`
}

func (db *DB) loadActiveSieges(w *simworld.World) error {
	var rows []siegeRow
	if err := db.conn.Select(&rows, "SELECT * FROM active_sieges"); err != nil {
		return fmt.Errorf("load active sieges: %w", err)
	}
	for _, r := range rows {
		w.ActiveSieges[r.SettlementID] = &simworld.ActiveSiege{
			SettlementID: r.SettlementID, BesiegerArmyID: r.BesiegerArmyID,
			StartedAt: r.StartedAt, MonthsElapsed: r.MonthsElapsed,
		}
	}
	return nil
}

type activeDiseaseRow struct {
	SettlementID  uint64 `db:"settlement_id"`
	DiseaseID     uint64 `db:"disease_id"`
	StartedAt     uint64 `db:"started_at"`
	MonthsElapsed uint32 `db:"months_elapsed"`
}

func (db *DB) loadActiveDiseases(w *simworld.World) error {
	var rows []activeDiseaseRow
	if err := db.conn.Select(&rows, "SELECT * FROM active_diseases"); err != nil {
		return fmt.Errorf("load active diseases: %w", err)
	}
	for _, r := range rows {
		w.ActiveDiseases[r.SettlementID] = &simworld.ActiveDisease{
			SettlementID: r.SettlementID, DiseaseID: r.DiseaseID,
			StartedAt: r.StartedAt, MonthsElapsed: r.MonthsElapsed,
		}
	}
	return nil
}

type eventRow struct {
	ID          uint64  `db:"id"`
	Kind        string  `db:"kind"`
	Timestamp   uint64  `db:"timestamp"`
	Description string  `db:"description"`
	CausedBy    *uint64 `db:"caused_by"`
	Data        []byte  `db:"data"`
}

type participantRow struct {
	EventID  uint64 `db:"event_id"`
	EntityID uint64 `db:"entity_id"`
	Role     uint8  `db:"role"`
}

type effectRow struct {
	EventID    uint64 `db:"event_id"`
	EntityID   uint64 `db:"entity_id"`
	ChangeKind string `db:"change_kind"`
	ChangeData string `db:"change_data"`
}

func (db *DB) loadEventLog(log *eventlog.Log) error {
	var events []eventRow
	if err := db.conn.Select(&events, "SELECT * FROM events ORDER BY id"); err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	for _, r := range events {
		log.Events = append(log.Events, eventlog.Event{
			ID: r.ID, Kind: eventlog.EventKind(r.Kind), Timestamp: r.Timestamp,
			Description: r.Description, CausedBy: r.CausedBy, Data: r.Data,
		})
	}

	var participants []participantRow
	if err := db.conn.Select(&participants, "SELECT * FROM participants"); err != nil {
		return fmt.Errorf("load participants: %w", err)
	}
	for _, r := range participants {
		log.Participants = append(log.Participants, eventlog.Participant{
			EventID: r.EventID, EntityID: r.EntityID, Role: eventlog.Role(r.Role),
		})
	}

	var effects []effectRow
	if err := db.conn.Select(&effects, "SELECT * FROM effects"); err != nil {
		return fmt.Errorf("load effects: %w", err)
	}
	for _, r := range effects {
		change, err := eventlog.DecodeChange(r.ChangeKind, []byte(r.ChangeData))
		if err != nil {
			return fmt.Errorf("decode effect for event %d: %w", r.EventID, err)
		}
		log.Effects = append(log.Effects, eventlog.Effect{EventID: r.EventID, EntityID: r.EntityID, Change: change})
	}

	return nil
}

// RecentEvents returns the most recent N saved events, newest first. No
// package in this module calls it.
func (db *DB) RecentEvents(limit int) ([]eventlog.Event, error) {
	var rows []eventRow
	if err := db.conn.Select(&rows, "SELECT * FROM events ORDER BY id DESC LIMIT ?", limit); err != nil {
		return nil, err
	}
	out := make([]eventlog.Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, eventlog.Event{
			ID: r.ID, Kind: eventlog.EventKind(r.Kind), Timestamp: r.Timestamp,
			Description: r.Description, CausedBy: r.CausedBy, Data: r.Data,
		})
	}
	return out, nil
}
