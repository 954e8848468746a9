// Package environment is the coastal-disaster domain system: a monthly,
// RNG-gated check that starts or ends a storm surge in coastal
// settlements. Kept collaborator internal/weather.Client (OpenWeatherMap)
// is adapted here from a per-agent food-decay modifier into a
// narration-only flavor source — it supplies the descriptive text for an
// event the RNG has already decided to fire, and is never consulted to
// decide whether a tick produces a command, so tick outcomes stay
// reproducible from a fixed seed, independent of live external state.
package environment

import (
	"fmt"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simworld"
	"github.com/talgya/mini-world/internal/weather"
)

const domainName = "environment"

// stormStartChance/stormEndChance are the monthly odds, drawn from the
// domain's own named RNG stream, that a coastal settlement's weather
// crosses into or out of a storm surge.
const (
	stormStartChance = 0.06
	stormEndChance   = 0.35
)

type Domain struct {
	World   *simworld.World
	Out     *queue.Queue[commands.Command]
	Weather *weather.Client // nil disables narration flavor, never gates logic
}

func New(w *simworld.World, out *queue.Queue[commands.Command], wc *weather.Client) *Domain {
	return &Domain{World: w, Out: out, Weather: wc}
}

func (d *Domain) Register(s *scheduler.Scheduler) {
	s.Register(scheduler.System{
		Domain:    domainName,
		Phase:     scheduler.Update,
		Frequency: scheduler.Monthly,
		Run:       func(g scheduler.Gate) { d.Tick() },
	})
}

// Tick rolls the environment RNG stream once per coastal settlement:
// an unaffected settlement may start a storm surge, an afflicted one may
// see it subside. The roll alone decides the outcome; a configured
// weather.Client only supplies descriptive narration for whichever
// outcome the roll already picked.
func (d *Domain) Tick() {
	w := d.World
	rng := w.RNG.Stream(domainName)
	flavor := d.flavorText()

	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() {
			continue
		}
		region, ok := w.Regions[sett.RegionID]
		if !ok || !region.Coastal {
			continue
		}

		if sett.PersistentDisaster == "storm_surge" {
			if rng.Float64() < stormEndChance {
				d.push(commands.Command{
					Kind:        commands.EndDisaster{SettlementID: settID},
					EventKind:   eventlog.KindDisasterEnded,
					Description: fmt.Sprintf("the storm surge at %s subsides (%s)", sett.Name, flavor),
				})
			}
			continue
		}

		if rng.Float64() < stormStartChance {
			d.push(commands.Command{
				Kind:        commands.StartPersistentDisaster{SettlementID: settID, Kind: "storm_surge"},
				EventKind:   eventlog.KindDisasterStarted,
				Description: fmt.Sprintf("storm surge batters the coast at %s (%s)", sett.Name, flavor),
			})
		}
	}
}

// flavorText asks the live weather feed, if configured, for a short
// description to decorate this tick's narration; it never influences
// which commands are produced.
func (d *Domain) flavorText() string {
	if d.Weather == nil {
		return "conditions unrecorded"
	}
	conditions, err := d.Weather.Fetch()
	if err != nil || conditions == nil {
		return "conditions unrecorded"
	}
	return conditions.Description
}

func (d *Domain) push(cmd commands.Command) {
	d.Out.Push(cmd)
}
