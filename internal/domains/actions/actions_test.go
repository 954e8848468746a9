package actions

import (
	"testing"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/simclock"
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

// TestCheckDeathsEventuallyRetiresAnElderlyPerson confirms a person well
// past the old-age threshold is eventually carried off by a PersonDied
// command, driven by the domain's own RNG stream.
func TestCheckDeathsEventuallyRetiresAnElderlyPerson(t *testing.T) {
	d, w := newTestDomain()
	w.Clock.Advance(80 * simclock.MinutesPerYear)
	w.Persons[1] = simworld.NewPerson(1, "Old Lord", 0) // age 80 at tick time

	died := false
	for i := 0; i < 200 && !died; i++ {
		d.Tick()
		for _, cmd := range drained(d.Out) {
			if pd, ok := cmd.Kind.(commands.PersonDied); ok && pd.PersonID == 1 {
				died = true
			}
		}
	}
	if !died {
		t.Fatalf("expected person 1 to die of old age within 200 yearly rolls")
	}
}

// TestCheckDeathsLeavesYoungPeopleAlone confirms a person under the
// old-age threshold never produces a PersonDied command.
func TestCheckDeathsLeavesYoungPeopleAlone(t *testing.T) {
	d, w := newTestDomain()
	w.Clock.Advance(30 * simclock.MinutesPerYear)
	w.Persons[1] = simworld.NewPerson(1, "Young Noble", 0) // age 30

	for i := 0; i < 100; i++ {
		d.Tick()
		for _, cmd := range drained(d.Out) {
			if _, ok := cmd.Kind.(commands.PersonDied); ok {
				t.Fatalf("expected no death for a person under the old-age threshold")
			}
		}
	}
}

// TestCheckBirthsEventuallyBearsAChildInAProsperousSettlement confirms a
// settlement with enough resident adults of childbearing age eventually
// produces a PersonBorn command.
func TestCheckBirthsEventuallyBearsAChildInAProsperousSettlement(t *testing.T) {
	d, w := newTestDomain()
	w.Clock.Advance(25 * simclock.MinutesPerYear)
	w.Settlements[10] = simworld.NewSettlement(10, "Ashford", 0, 1, 1, 500)
	w.Settlements[10].Prosperity = 0.9

	for i := uint64(1); i <= 5; i++ {
		w.Persons[i] = simworld.NewPerson(i, "Resident", 0) // age 25
		w.LocatedIn.Add(i, 10, 0)
	}

	born := false
	for i := 0; i < 200 && !born; i++ {
		d.Tick()
		for _, cmd := range drained(d.Out) {
			if pb, ok := cmd.Kind.(commands.PersonBorn); ok && pb.HomeSettID == 10 {
				born = true
			}
		}
	}
	if !born {
		t.Fatalf("expected a birth at a prosperous settlement within 200 yearly rolls")
	}
}

// TestCheckBirthsSkipsSettlementsWithoutEnoughEligibleParents confirms a
// settlement with fewer than two eligible adults never produces a birth.
func TestCheckBirthsSkipsSettlementsWithoutEnoughEligibleParents(t *testing.T) {
	d, w := newTestDomain()
	w.Clock.Advance(25 * simclock.MinutesPerYear)
	w.Settlements[10] = simworld.NewSettlement(10, "Ashford", 0, 1, 1, 500)
	w.Settlements[10].Prosperity = 0.9
	w.Persons[1] = simworld.NewPerson(1, "Lone Resident", 0)
	w.LocatedIn.Add(1, 10, 0)

	for i := 0; i < 100; i++ {
		d.Tick()
		for _, cmd := range drained(d.Out) {
			if _, ok := cmd.Kind.(commands.PersonBorn); ok {
				t.Fatalf("expected no birth with only one eligible parent")
			}
		}
	}
}
