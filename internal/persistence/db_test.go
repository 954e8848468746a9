package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/relations"
	"github.com/talgya/mini-world/internal/simclock"
	"github.com/talgya/mini-world/internal/simworld"
)

// openTestDB creates a fresh SQLite database in a temp directory.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "world.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSaveAndLoadWorldRoundTrip exercises the snapshot round trip:
// every table a snapshot touches (entities, structural
// indexes, relationship graph, active-condition tables, event log triad,
// clock/idgen/RNG cursors) must come back identical to what was saved.
func TestSaveAndLoadWorldRoundTrip(t *testing.T) {
	db := openTestDB(t)

	w := simworld.New(1, 42)
	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 40, 500)
	w.Persons[50] = simworld.NewPerson(50, "Aldric Voss", 0)
	if err := w.Entities.Insert(entitymap.KindPerson, 50, w.Persons[50]); err != nil {
		t.Fatalf("insert person: %v", err)
	}
	w.MemberOf.Add(50, 10, 0)
	w.LocatedIn.Add(50, 30, 0)
	if err := w.Relations.Add(relations.Ally, 10, 20, 0); err != nil {
		t.Fatalf("add relation: %v", err)
	}
	w.ActiveSieges[30] = &simworld.ActiveSiege{SettlementID: 30, BesiegerArmyID: 99, StartedAt: 0, MonthsElapsed: 2}
	w.Clock.Advance(simclock.MinutesPerMonth)
	w.IDGen.NextID()
	w.IDGen.NextID()
	w.RNG.Stream("crime")
	w.RNG.Stream("disease")

	if err := db.SaveWorld(w); err != nil {
		t.Fatalf("save world: %v", err)
	}

	restored := simworld.New(1, 42)
	if err := db.LoadWorld(restored); err != nil {
		t.Fatalf("load world: %v", err)
	}

	if restored.Clock.Minute != w.Clock.Minute {
		t.Fatalf("clock minute = %d, want %d", restored.Clock.Minute, w.Clock.Minute)
	}
	if restored.IDGen.Cursor() != w.IDGen.Cursor() {
		t.Fatalf("idgen cursor = %d, want %d", restored.IDGen.Cursor(), w.IDGen.Cursor())
	}
	if len(restored.Persons) != len(w.Persons) {
		t.Fatalf("persons = %d, want %d", len(restored.Persons), len(w.Persons))
	}
	if restored.Persons[50].Name != "Aldric Voss" {
		t.Fatalf("expected person 50 to round-trip with its name intact, got %q", restored.Persons[50].Name)
	}
	if fac, ok := restored.MemberOf.Get(50); !ok || fac != 10 {
		t.Fatalf("expected person 50 to still be a member of faction 10 after restore")
	}
	if !restored.Relations.AreAllies(10, 20) {
		t.Fatalf("expected factions 10 and 20 to still be allies after restore")
	}
	siege, ok := restored.ActiveSieges[30]
	if !ok || siege.BesiegerArmyID != 99 || siege.MonthsElapsed != 2 {
		t.Fatalf("expected active siege on settlement 30 to round-trip, got %+v", siege)
	}
	if _, ok := restored.Entities.Get(entitymap.KindPerson, 50); !ok {
		t.Fatalf("expected person 50 to be reachable via the entity map after restore")
	}

	snap := w.RNG.Snapshot()
	restoredSnap := restored.RNG.Snapshot()
	if len(snap.Draws) != len(restoredSnap.Draws) {
		t.Fatalf("rng snapshot streams = %v, want %v", restoredSnap.Draws, snap.Draws)
	}
}

// TestSaveWorldOverwritesPreviousSnapshot confirms SaveWorld replaces
// (not appends to) every table, so a settlement removed between two saves
// does not linger in storage.
func TestSaveWorldOverwritesPreviousSnapshot(t *testing.T) {
	db := openTestDB(t)

	w := simworld.New(1, 42)
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 40, 500)
	w.Settlements[31] = simworld.NewSettlement(31, "Brackwater", 0, 10, 40, 300)
	if err := db.SaveWorld(w); err != nil {
		t.Fatalf("first save: %v", err)
	}

	delete(w.Settlements, 31)
	if err := db.SaveWorld(w); err != nil {
		t.Fatalf("second save: %v", err)
	}

	restored := simworld.New(1, 42)
	if err := db.LoadWorld(restored); err != nil {
		t.Fatalf("load world: %v", err)
	}
	if len(restored.Settlements) != 1 {
		t.Fatalf("expected exactly 1 settlement after the second save dropped one, got %d", len(restored.Settlements))
	}
	if _, ok := restored.Settlements[31]; ok {
		t.Fatalf("expected settlement 31 to be gone after the second save")
	}
}

// TestHasWorldStateReflectsSaves confirms the fresh-database and
// already-saved cases distinguish correctly, the check cmd/chronicle's
// main.go uses to decide whether to run worldgen or load a snapshot.
func TestHasWorldStateReflectsSaves(t *testing.T) {
	db := openTestDB(t)
	if db.HasWorldState() {
		t.Fatalf("expected a fresh database to report no saved world state")
	}

	w := simworld.New(1, 42)
	if err := db.SaveWorld(w); err != nil {
		t.Fatalf("save world: %v", err)
	}
	if !db.HasWorldState() {
		t.Fatalf("expected HasWorldState to be true after a save")
	}
}
