// Package simcore wires the scheduler and applicator into the three tick
// drivers: AdvanceOneTick, AdvanceMonths, AdvanceYears. One tick advances
// the clock by exactly one month, so monthly systems fire every tick and
// yearly systems fire on the ticks that also start a new year.
package simcore

import (
	"github.com/talgya/mini-world/internal/applicator"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simclock"
	"github.com/talgya/mini-world/internal/simworld"
)

// Core bundles the scheduler and applicator a driver needs to advance a
// World. Both are constructed once and reused across every tick.
type Core struct {
	World      *simworld.World
	Scheduler  *scheduler.Scheduler
	Applicator *applicator.Applicator
}

// AdvanceOneTick runs the scheduler exactly once and returns. Phases run
// in fixed order (PreUpdate, Update) before the
// applicator drains the command queue, then PostUpdate and Reactions run
// against the now-mutated world — domain systems that read world state in
// PostUpdate (e.g. a reaction-consuming narrator) see this tick's effects.
func (c *Core) AdvanceOneTick() error {
	gate := scheduler.Gate{
		IsMonthStart: c.World.Clock.IsMonthStart(),
		IsYearStart:  c.World.Clock.IsYearStart(),
	}

	if err := c.Scheduler.RunPhase(scheduler.PreUpdate, gate); err != nil {
		return err
	}
	if err := c.Scheduler.RunPhase(scheduler.Update, gate); err != nil {
		return err
	}
	if err := c.Applicator.Run(c.World); err != nil {
		return err
	}
	if err := c.Scheduler.RunPhase(scheduler.PostUpdate, gate); err != nil {
		return err
	}
	if err := c.Scheduler.RunPhase(scheduler.Reactions, gate); err != nil {
		return err
	}

	c.World.Clock.Advance(simclock.MinutesPerMonth)
	return nil
}

// AdvanceMonths runs n ticks in sequence, stopping at the first error.
func (c *Core) AdvanceMonths(n int) error {
	for i := 0; i < n; i++ {
		if err := c.AdvanceOneTick(); err != nil {
			return err
		}
	}
	return nil
}

// AdvanceYears runs n*12 ticks in sequence, stopping at the first error.
func (c *Core) AdvanceYears(n int) error {
	return c.AdvanceMonths(n * int(simclock.MonthsPerYear))
}
