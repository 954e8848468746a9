package environment

import (
	"testing"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
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
	return New(w, out, nil), w
}

// TestTickEventuallyStartsAStormSurgeWithoutAWeatherClient confirms storm
// decisions are driven by the domain's own RNG stream, not gated on a
// configured weather.Client: over enough monthly rolls a coastal
// settlement sees a storm surge even with live-weather coupling disabled.
func TestTickEventuallyStartsAStormSurgeWithoutAWeatherClient(t *testing.T) {
	d, w := newTestDomain()
	region := simworld.NewRegion(1, "Shoreline", 0, 0)
	region.Coastal = true
	w.Regions[1] = region
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)

	started := false
	for i := 0; i < 200 && !started; i++ {
		d.Tick()
		for _, cmd := range drained(d.Out) {
			if _, ok := cmd.Kind.(commands.StartPersistentDisaster); ok {
				started = true
			}
		}
	}
	if !started {
		t.Fatalf("expected a storm surge to start within 200 monthly rolls at a 6%% chance")
	}
}

// TestTickIsANoOpInland confirms a non-coastal settlement never produces a
// storm-surge command regardless of RNG draws.
func TestTickIsANoOpInland(t *testing.T) {
	d, w := newTestDomain()
	region := simworld.NewRegion(1, "Heartland", 0, 0)
	w.Regions[1] = region
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)

	for i := 0; i < 50; i++ {
		d.Tick()
		if cmds := drained(d.Out); len(cmds) != 0 {
			t.Fatalf("expected no commands for a non-coastal settlement, got %d", len(cmds))
		}
	}
}

// TestRegisterDoesNotPanicWithoutAWeatherClient confirms the domain can be
// wired into a live scheduler and run through the Update phase on any
// gate without a configured weather API key, the default deployment.
func TestRegisterDoesNotPanicWithoutAWeatherClient(t *testing.T) {
	d, _ := newTestDomain()
	s := scheduler.New()
	d.Register(s)

	if err := s.RunPhase(scheduler.Update, scheduler.Gate{IsMonthStart: true}); err != nil {
		t.Fatalf("RunPhase: %v", err)
	}
	if cmds := drained(d.Out); len(cmds) != 0 {
		t.Fatalf("expected no commands from a world with no settlements, got %d", len(cmds))
	}
}
