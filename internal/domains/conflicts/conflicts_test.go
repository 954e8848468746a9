package conflicts

import (
	"testing"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/relations"
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

func linkRegions(w *simworld.World, a, b uint64) {
	w.Regions[a].Neighbors = append(w.Regions[a].Neighbors, b)
	w.Regions[b].Neighbors = append(w.Regions[b].Neighbors, a)
}

// TestArmyMarchesTowardEnemySettlementAcrossRegions confirms an army not
// yet adjacent to its target enqueues a MarchArmy step rather than jumping
// straight to a siege.
func TestArmyMarchesTowardEnemySettlementAcrossRegions(t *testing.T) {
	d, w := newTestDomain()
	w.Regions[1] = simworld.NewRegion(1, "Home", 0, world.TerrainPlains)
	w.Regions[2] = simworld.NewRegion(2, "Midway", 0, world.TerrainPlains)
	w.Regions[3] = simworld.NewRegion(3, "Enemy Land", 0, world.TerrainPlains)
	linkRegions(w, 1, 2)
	linkRegions(w, 2, 3)

	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)
	if err := w.Relations.Add(relations.AtWar, 10, 20, 0); err != nil {
		t.Fatalf("declare war: %v", err)
	}

	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 20, 3, 500)
	w.Armies[40] = simworld.NewArmy(40, "Royal Host", 0, 10, 1, 50)

	d.Tick()

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	march, ok := cmds[0].Kind.(commands.MarchArmy)
	if !ok {
		t.Fatalf("expected a MarchArmy command, got %T", cmds[0].Kind)
	}
	if march.DestRegionID != 2 {
		t.Fatalf("expected army to step into region 2 first, got %d", march.DestRegionID)
	}
}

// TestArmyBeginsSiegeWhenCoLocatedWithEnemySettlement confirms an army
// already in the target's region enqueues BeginSiege instead of marching.
func TestArmyBeginsSiegeWhenCoLocatedWithEnemySettlement(t *testing.T) {
	d, w := newTestDomain()
	w.Regions[1] = simworld.NewRegion(1, "Border", 0, world.TerrainPlains)

	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)
	if err := w.Relations.Add(relations.AtWar, 10, 20, 0); err != nil {
		t.Fatalf("declare war: %v", err)
	}

	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 20, 1, 500)
	w.Armies[40] = simworld.NewArmy(40, "Royal Host", 0, 10, 1, 50)

	d.Tick()

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	if _, ok := cmds[0].Kind.(commands.BeginSiege); !ok {
		t.Fatalf("expected a BeginSiege command, got %T", cmds[0].Kind)
	}
}

// TestBattleEnqueuedOnceForCoLocatedEnemyArmies confirms two opposing
// armies sharing a region produce exactly one ResolveBattle command (not
// one per army), deduplicated by comparing sim ids.
func TestBattleEnqueuedOnceForCoLocatedEnemyArmies(t *testing.T) {
	d, w := newTestDomain()
	w.Regions[1] = simworld.NewRegion(1, "Battlefield", 0, world.TerrainPlains)

	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)
	if err := w.Relations.Add(relations.AtWar, 10, 20, 0); err != nil {
		t.Fatalf("declare war: %v", err)
	}

	w.Armies[40] = simworld.NewArmy(40, "Royal Host", 0, 10, 1, 50)
	w.Armies[41] = simworld.NewArmy(41, "Ducal Guard", 0, 20, 1, 45)

	d.Tick()

	cmds := drained(d.Out)
	var battles int
	for _, c := range cmds {
		if _, ok := c.Kind.(commands.ResolveBattle); ok {
			battles++
		}
	}
	if battles != 1 {
		t.Fatalf("expected exactly 1 ResolveBattle command, got %d", battles)
	}
}

// TestWarExhaustionForcesDecisivePeace confirms a faction whose combined
// living army strength has collapsed below the exhaustion floor triggers a
// SignTreaty in the stronger side's favor.
func TestWarExhaustionForcesDecisivePeace(t *testing.T) {
	d, w := newTestDomain()
	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)
	if err := w.Relations.Add(relations.AtWar, 10, 20, 0); err != nil {
		t.Fatalf("declare war: %v", err)
	}
	w.Regions[1] = simworld.NewRegion(1, "Home", 0, world.TerrainPlains)
	w.Regions[2] = simworld.NewRegion(2, "Far Home", 0, world.TerrainPlains)
	w.Armies[40] = simworld.NewArmy(40, "Royal Host", 0, 10, 1, 0.1)
	w.Armies[41] = simworld.NewArmy(41, "Ducal Guard", 0, 20, 2, 80)

	d.Tick()

	cmds := drained(d.Out)
	var found bool
	for _, c := range cmds {
		treaty, ok := c.Kind.(commands.SignTreaty)
		if !ok {
			continue
		}
		found = true
		if treaty.Winner != 20 || treaty.Loser != 10 {
			t.Fatalf("expected faction 20 to win the exhausted war, got winner=%d loser=%d", treaty.Winner, treaty.Loser)
		}
	}
	if !found {
		t.Fatalf("expected a SignTreaty command from war exhaustion")
	}
}

// TestYearlyMusterRaisesALevyForABelligerentWithoutAnArmy confirms the
// strategic review musters a levy, based out of the faction's first
// settlement, for a faction at war with no living army.
func TestYearlyMusterRaisesALevyForABelligerentWithoutAnArmy(t *testing.T) {
	d, w := newTestDomain()
	w.Regions[1] = simworld.NewRegion(1, "Border", 0, world.TerrainPlains)

	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	w.Factions[20] = simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)
	if err := w.Relations.Add(relations.AtWar, 10, 20, 0); err != nil {
		t.Fatalf("declare war: %v", err)
	}

	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 20, 1, 500)
	w.Armies[40] = simworld.NewArmy(40, "Royal Host", 0, 10, 1, 50)

	d.YearlyTick()

	var musters []commands.MusterArmy
	for _, c := range drained(d.Out) {
		if m, ok := c.Kind.(commands.MusterArmy); ok {
			musters = append(musters, m)
		}
	}
	if len(musters) != 1 {
		t.Fatalf("expected exactly 1 MusterArmy command, got %d", len(musters))
	}
	if musters[0].FactionID != 20 || musters[0].HomeRegionID != 1 {
		t.Fatalf("expected a levy for faction 20 in region 1, got faction %d region %d",
			musters[0].FactionID, musters[0].HomeRegionID)
	}
}

// TestSupplyBurnsDownInTheField confirms an army campaigning outside its
// home region enqueues a bookkeeping supply decrement each month.
func TestSupplyBurnsDownInTheField(t *testing.T) {
	d, w := newTestDomain()
	w.Regions[1] = simworld.NewRegion(1, "Home", 0, world.TerrainPlains)
	w.Regions[2] = simworld.NewRegion(2, "Hostile March", 0, world.TerrainPlains)

	w.Factions[10] = simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	army := simworld.NewArmy(40, "Royal Host", 0, 10, 1, 50)
	army.CurrentRegionID = 2
	w.Armies[40] = army

	d.Tick()

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	set, ok := cmds[0].Kind.(commands.SetField)
	if !ok {
		t.Fatalf("expected a SetField command, got %T", cmds[0].Kind)
	}
	if set.Field != "supply" || set.NewValue != "2" {
		t.Fatalf("expected supply to drop to 2, got field %q new %q", set.Field, set.NewValue)
	}
	if !cmds[0].IsBookkeeping {
		t.Fatalf("expected the supply write to be bookkeeping")
	}
}

// TestUnstableBorderingEnemiesEventuallyDeclareWar confirms the yearly
// declaration check escalates an active enemy relation between bordering,
// unstable factions into a DeclareWar command within a bounded number of
// strategic reviews.
func TestUnstableBorderingEnemiesEventuallyDeclareWar(t *testing.T) {
	d, w := newTestDomain()
	w.Regions[1] = simworld.NewRegion(1, "Border", 0, world.TerrainPlains)

	a := simworld.NewFaction(10, "Crown", 0, simworld.GovHereditary)
	b := simworld.NewFaction(20, "Duchy", 0, simworld.GovHereditary)
	a.Stability = 0.1
	b.Stability = 0.3
	w.Factions[10] = a
	w.Factions[20] = b
	if err := w.Relations.Add(relations.Enemy, 10, 20, 0); err != nil {
		t.Fatalf("set enmity: %v", err)
	}

	w.Settlements[30] = simworld.NewSettlement(30, "Kingsport", 0, 10, 1, 400)
	w.Settlements[31] = simworld.NewSettlement(31, "Ashford", 0, 20, 1, 400)

	for year := 0; year < 50; year++ {
		d.YearlyTick()
		for _, c := range drained(d.Out) {
			if war, ok := c.Kind.(commands.DeclareWar); ok {
				if war.Attacker != 10 {
					t.Fatalf("expected the shakier faction 10 to attack, got attacker %d", war.Attacker)
				}
				return
			}
		}
	}
	t.Fatalf("expected a DeclareWar command within 50 strategic reviews")
}
