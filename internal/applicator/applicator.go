// Package applicator is the exclusive-access stage that drains the command
// queue, mutates world state, writes the audit trail, and produces
// reactive events. It is the only component allowed to mutate world state;
// mutation logic lives in per-command-kind handlers dispatched by tag.
package applicator

import (
	"errors"
	"log/slog"
	"math/rand"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/simerr"
	"github.com/talgya/mini-world/internal/simworld"
)

// Context is passed to every per-kind handler: mutable world handles, the
// minted event id for this command (0 for bookkeeping commands with no
// CausedBy), the reactive-event sink, and the applicator's own dedicated
// RNG stream. Handlers never borrow a domain system's stream.
type Context struct {
	World    *simworld.World
	EventID  uint64
	Reactive *queue.Queue[commands.ReactiveEvent]
	RNG      *rand.Rand
}

// Handler validates preconditions and, on success, mutates world state,
// appends effects, and optionally enqueues reactive events. On
// precondition failure it returns an error wrapping simerr.PreconditionFailure
// and must not have mutated anything yet.
type Handler func(ctx *Context, kind commands.Kind) error

// Applicator drains a command queue each tick and applies it exclusively.
type Applicator struct {
	Queue    *queue.Queue[commands.Command]
	Reactive *queue.Queue[commands.ReactiveEvent]
	handlers map[string]Handler
	rng      *rand.Rand
}

// New creates an applicator wired to the given command/reactive queues,
// with its own dedicated RNG stream seeded from masterSeed.
func New(cmdQueue *queue.Queue[commands.Command], reactiveQueue *queue.Queue[commands.ReactiveEvent], masterSeed int64) *Applicator {
	a := &Applicator{
		Queue:    cmdQueue,
		Reactive: reactiveQueue,
		handlers: make(map[string]Handler),
		rng:      rand.New(rand.NewSource(masterSeed ^ 0x4170706c6963)), // "Applic" ASCII salt
	}
	registerAllHandlers(a)
	return a
}

// register associates a command tag with its handler. Called from each
// handlers_*.go file's init-style registration function.
func (a *Applicator) register(tag string, h Handler) {
	a.handlers[tag] = h
}

// tagOf extracts the closed-set tag from a command payload via the
// unexported commandKind() method — mirrored here through a tiny type
// assertion helper since commands.Kind only exposes the interface.
func tagOf(k commands.Kind) string {
	return commands.Tag(k)
}

// Run performs one swap-and-drain cycle: swaps the command queue, iterates
// the drained buffer in insertion order, and dispatches each command to
// its handler. Returns on the first InvariantViolation (fail-fast);
// PreconditionFailure and Unimplemented are logged and skipped (fail-soft).
func (a *Applicator) Run(w *simworld.World) error {
	a.Queue.Swap()
	drained := a.Queue.Drain()

	for _, cmd := range drained {
		var eventID uint64
		if !cmd.IsBookkeeping {
			eventID = w.Events.Append(cmd.EventKind, w.Clock.Minute, cmd.Description, cmd.CausedBy, cmd.EventData, cmd.Participants)
		} else if cmd.CausedBy != nil {
			// Bookkeeping: no new event minted, but effects attribute to
			// the causing event, so the causal chain stays intact in the
			// effect rows.
			eventID = *cmd.CausedBy
		}

		ctx := &Context{World: w, EventID: eventID, Reactive: a.Reactive, RNG: a.rng}

		tag := tagOf(cmd.Kind)
		handler, ok := a.handlers[tag]
		if !ok {
			slog.Warn("applicator: unimplemented command kind", "kind", tag, "error", simerr.Unimplemented)
			continue
		}

		if err := handler(ctx, cmd.Kind); err != nil {
			if errors.Is(err, simerr.InvariantViolation) {
				return err
			}
			slog.Warn("applicator: command skipped", "kind", tag, "error", err)
			continue
		}
	}

	a.Reactive.Swap()
	return nil
}

// recordEffect is a small convenience used by handlers to append one
// effect row for the current event.
func recordEffect(ctx *Context, entityID uint64, change eventlog.Change) {
	if ctx.EventID == 0 {
		return
	}
	ctx.World.Events.AppendEffect(ctx.EventID, entityID, change)
}

func emit(ctx *Context, kind commands.ReactiveKind, participants ...uint64) {
	ctx.Reactive.Push(commands.ReactiveEvent{Kind: kind, EventID: ctx.EventID, Participants: participants})
}
