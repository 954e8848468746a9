package simcore

import (
	"testing"

	"github.com/talgya/mini-world/internal/applicator"
	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simclock"
	"github.com/talgya/mini-world/internal/simworld"
)

func newTestCore() (*Core, *int, *int, *int) {
	w := simworld.New(1, 42)
	sched := scheduler.New()
	cmdQ := queue.New[commands.Command]()
	reactQ := queue.New[commands.ReactiveEvent]()
	app := applicator.New(cmdQ, reactQ, 7)

	always, monthly, yearly := 0, 0, 0
	sched.Register(scheduler.System{
		Domain: "always", Phase: scheduler.Update, Frequency: scheduler.Always,
		Run: func(g scheduler.Gate) { always++ },
	})
	sched.Register(scheduler.System{
		Domain: "monthly", Phase: scheduler.Update, Frequency: scheduler.Monthly,
		Run: func(g scheduler.Gate) { monthly++ },
	})
	sched.Register(scheduler.System{
		Domain: "yearly", Phase: scheduler.Update, Frequency: scheduler.Yearly,
		Run: func(g scheduler.Gate) { yearly++ },
	})

	return &Core{World: w, Scheduler: sched, Applicator: app}, &always, &monthly, &yearly
}

func TestAdvanceOneTickAdvancesClockByOneMonth(t *testing.T) {
	c, _, _, _ := newTestCore()
	if c.World.Clock.Minute != 0 {
		t.Fatalf("expected fresh clock at minute 0, got %d", c.World.Clock.Minute)
	}
	if err := c.AdvanceOneTick(); err != nil {
		t.Fatalf("advance one tick: %v", err)
	}
	if c.World.Clock.Minute != simclock.MinutesPerMonth {
		t.Fatalf("expected clock at minute %d after one tick, got %d", simclock.MinutesPerMonth, c.World.Clock.Minute)
	}
}

// TestMonthlyAndYearlySystemsGateOnTickBoundary exercises tick gating:
// every tick is a month boundary (so monthly systems fire every
// tick), but yearly systems fire only when the tick also starts a new year.
func TestMonthlyAndYearlySystemsGateOnTickBoundary(t *testing.T) {
	c, always, monthly, yearly := newTestCore()

	if err := c.AdvanceMonths(12); err != nil {
		t.Fatalf("advance 12 months: %v", err)
	}
	if *always != 12 {
		t.Fatalf("expected always system to run every tick, got %d runs over 12 ticks", *always)
	}
	if *monthly != 12 {
		t.Fatalf("expected monthly system to run every tick (every tick is a month start), got %d", *monthly)
	}
	// The clock starts at minute 0 (year 1, month 1), so the very first
	// tick's gate is computed before the clock advances: year start is true
	// on tick 1 and then again only after 12 more months (tick 13).
	if *yearly != 1 {
		t.Fatalf("expected yearly system to fire exactly once across 12 ticks starting at year 1, got %d", *yearly)
	}
}

func TestAdvanceYearsRunsTwelveTimesTheMonths(t *testing.T) {
	c, _, monthly, yearly := newTestCore()
	if err := c.AdvanceYears(2); err != nil {
		t.Fatalf("advance 2 years: %v", err)
	}
	if got := c.World.Clock.Minute; got != simclock.MinutesPerYear*2 {
		t.Fatalf("expected clock at %d minutes after 2 years, got %d", simclock.MinutesPerYear*2, got)
	}
	if *monthly != 24 {
		t.Fatalf("expected monthly system to run 24 times over 2 years, got %d", *monthly)
	}
	if *yearly != 2 {
		t.Fatalf("expected yearly system to run twice over 2 years, got %d", *yearly)
	}
}

// TestApplicatorRunsBetweenUpdateAndPostUpdate confirms a command enqueued
// by a PreUpdate/Update-phase system is applied before PostUpdate/Reactions
// systems observe the world, matching the fixed phase order.
func TestApplicatorRunsBetweenUpdateAndPostUpdate(t *testing.T) {
	c, _, _, _ := newTestCore()
	c.World.Persons[1] = simworld.NewPerson(1, "Aldric", 0)

	var sawDeadAtPostUpdate bool
	c.Scheduler.Register(scheduler.System{
		Domain: "reaper", Phase: scheduler.Update, Frequency: scheduler.Always,
		Run: func(g scheduler.Gate) {
			c.Applicator.Queue.Push(commands.Command{
				Kind:        commands.EndEntity{EntityID: 1, EntityKind: uint8(entitymap.KindPerson)},
				EventKind:   eventlog.KindDeath,
				Description: "Aldric dies",
			})
		},
	})
	c.Scheduler.Register(scheduler.System{
		Domain: "obituary", Phase: scheduler.PostUpdate, Frequency: scheduler.Always,
		Run: func(g scheduler.Gate) { sawDeadAtPostUpdate = !c.World.Persons[1].Alive() },
	})

	if err := c.AdvanceOneTick(); err != nil {
		t.Fatalf("advance one tick: %v", err)
	}
	if !sawDeadAtPostUpdate {
		t.Fatalf("expected PostUpdate system to observe the applicator's effect from this same tick")
	}
}
