package disease

import (
	"testing"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/simworld"
	"github.com/talgya/mini-world/internal/world"
)

// drained swaps the queue's buffers and returns what producers pushed this
// tick, the way the applicator reads it.
func drained(q *queue.Queue[commands.Command]) []commands.Command {
	q.Swap()
	return q.Drain()
}

func newTestDomain() (*Domain, *simworld.World) {
	w := simworld.New(1, 42)
	out := queue.New[commands.Command]()
	return New(w, out), w
}

// TestExpiredPlagueEndsOnce confirms an active plague whose elapsed time
// has reached the disease's duration produces EndPlague.
func TestExpiredPlagueEndsOnce(t *testing.T) {
	d, w := newTestDomain()
	disease := simworld.NewDisease(100, "Red Fever", 0, 0.5, 0.1, 2)
	w.Diseases[100] = disease
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	w.ActiveDiseases[30] = &simworld.ActiveDisease{SettlementID: 30, DiseaseID: 100, StartedAt: 0, MonthsElapsed: 2}

	w.Clock.Advance(1440 * 30 * 3) // 3 months elapsed, past the 2-month duration

	d.spreadActive(w.Clock.Minute / 1440)

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	end, ok := cmds[0].Kind.(commands.EndPlague)
	if !ok {
		t.Fatalf("expected an EndPlague command, got %T", cmds[0].Kind)
	}
	if end.SettlementID != 30 {
		t.Fatalf("expected plague to end in settlement 30, got %d", end.SettlementID)
	}
}

// TestActivePlagueSpreadsToUninfectedNeighborOnDayZero confirms a highly
// virulent active plague reaches an adjacent, as-yet-uninfected settlement
// on day zero, where the deterministic threshold is zero.
func TestActivePlagueSpreadsToUninfectedNeighborOnDayZero(t *testing.T) {
	d, w := newTestDomain()
	w.Regions[1] = simworld.NewRegion(1, "Home", 0, world.TerrainPlains)
	w.Regions[2] = simworld.NewRegion(2, "Neighbor", 0, world.TerrainPlains)
	w.Regions[1].Neighbors = []uint64{2}
	w.Regions[2].Neighbors = []uint64{1}

	disease := simworld.NewDisease(100, "Red Fever", 0, 0.9, 0.1, 6)
	w.Diseases[100] = disease
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	w.Settlements[31] = simworld.NewSettlement(31, "Brackwater", 0, 10, 2, 500)
	w.ActiveDiseases[30] = &simworld.ActiveDisease{SettlementID: 30, DiseaseID: 100, StartedAt: 0}

	d.spreadActive(0)

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	spread, ok := cmds[0].Kind.(commands.SpreadPlague)
	if !ok {
		t.Fatalf("expected a SpreadPlague command, got %T", cmds[0].Kind)
	}
	if spread.FromSettID != 30 || spread.ToSettID != 31 {
		t.Fatalf("unexpected spread command: %+v", spread)
	}
}

// TestCrowdedImpoverishedSettlementOutbreaksOnDayZero confirms a settlement
// over its capacity with low prosperity starts a new plague from an
// existing disease profile when the deterministic threshold is zero.
func TestCrowdedImpoverishedSettlementOutbreaksOnDayZero(t *testing.T) {
	d, w := newTestDomain()
	disease := simworld.NewDisease(100, "Red Fever", 0, 0.9, 0.1, 6)
	w.Diseases[100] = disease

	sett := simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	sett.Population.Total = sett.Capacity * 2
	sett.Prosperity = 0.01
	w.Settlements[30] = sett

	d.checkOutbreaks(0)

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	start, ok := cmds[0].Kind.(commands.StartPlague)
	if !ok {
		t.Fatalf("expected a StartPlague command, got %T", cmds[0].Kind)
	}
	if start.SettlementID != 30 || start.DiseaseID != 100 {
		t.Fatalf("unexpected start command: %+v", start)
	}
}

// TestDisasterKindMatchesRegionTerrain confirms a coastal settlement's
// disaster, when triggered, is a flood rather than some other kind.
func TestDisasterKindMatchesRegionTerrain(t *testing.T) {
	d, w := newTestDomain()
	region := simworld.NewRegion(1, "Shoreline", 0, world.TerrainCoast)
	region.Coastal = true
	w.Regions[1] = region
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)

	d.checkDisasters(0)

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	disaster, ok := cmds[0].Kind.(commands.TriggerDisaster)
	if !ok {
		t.Fatalf("expected a TriggerDisaster command, got %T", cmds[0].Kind)
	}
	if disaster.Kind != "flood" {
		t.Fatalf("expected a flood for a coastal settlement, got %q", disaster.Kind)
	}
}
