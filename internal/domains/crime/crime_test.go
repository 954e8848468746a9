package crime

import (
	"testing"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/simworld"
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

// TestUnderPolicedSettlementFormsBanditGangOnDayZero confirms the
// deterministic threshold check (day*settlement_id mod 100) never
// suppresses a nonzero crime chance on day zero, since the threshold is
// zero there.
func TestUnderPolicedSettlementFormsBanditGangOnDayZero(t *testing.T) {
	d, w := newTestDomain()
	sett := simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	sett.GuardStrength = 0.1
	sett.CrimeRate = 0.2
	w.Settlements[30] = sett

	d.Tick()

	var formed int
	for _, c := range drained(d.Out) {
		if _, ok := c.Kind.(commands.FormBanditGang); ok {
			formed++
		}
	}
	if formed != 1 {
		t.Fatalf("expected exactly 1 FormBanditGang command, got %d", formed)
	}
}

// TestBanditGangRaidsTradeRouteWhenAvailable confirms an unowned army
// sharing a region with a settlement that has a trade route raids the
// route rather than the settlement directly.
func TestBanditGangRaidsTradeRouteWhenAvailable(t *testing.T) {
	d, w := newTestDomain()
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	w.Settlements[31] = simworld.NewSettlement(31, "Brackwater", 0, 20, 2, 500)
	w.Settlements[30].TradeRoutes = []simworld.TradeRoute{{PartnerSettlementID: 31}}
	w.Settlements[30].GuardStrength = 1.0 // runGangs alone runs no settlement-side check
	w.Settlements[31].GuardStrength = 1.0

	gang := simworld.NewArmy(40, "Outlaw Band", 0, 0, 1, 10)
	w.Armies[40] = gang

	d.runGangs(0)

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	raid, ok := cmds[0].Kind.(commands.RaidTradeRoute)
	if !ok {
		t.Fatalf("expected a RaidTradeRoute command, got %T", cmds[0].Kind)
	}
	if raid.GangArmyID != 40 || raid.A != 30 || raid.B != 31 {
		t.Fatalf("unexpected raid command: %+v", raid)
	}
}

// TestBanditGangRaidsSettlementWhenNoRouteAvailable confirms a gang falls
// back to raiding the nearest settlement in its region when none has a
// raidable trade route.
func TestBanditGangRaidsSettlementWhenNoRouteAvailable(t *testing.T) {
	d, w := newTestDomain()
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)

	gang := simworld.NewArmy(40, "Outlaw Band", 0, 0, 1, 10)
	w.Armies[40] = gang

	d.runGangs(0)

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	raid, ok := cmds[0].Kind.(commands.BanditRaid)
	if !ok {
		t.Fatalf("expected a BanditRaid command, got %T", cmds[0].Kind)
	}
	if raid.GangArmyID != 40 || raid.SettlementID != 30 {
		t.Fatalf("unexpected raid command: %+v", raid)
	}
}

// TestMercenaryArmyNeverTreatedAsBanditGang confirms an unowned-but-
// mercenary army is excluded from the gang-raiding sweep.
func TestMercenaryArmyNeverTreatedAsBanditGang(t *testing.T) {
	d, w := newTestDomain()
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	merc := simworld.NewArmy(40, "Sellsword Company", 0, 0, 1, 10)
	merc.Mercenary = true
	w.Armies[40] = merc

	d.runGangs(0)

	if cmds := drained(d.Out); len(cmds) != 0 {
		t.Fatalf("expected no commands for a mercenary army, got %d", len(cmds))
	}
}
