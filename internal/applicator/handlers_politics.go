package applicator

import (
	"fmt"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/simerr"
)

func registerPoliticsHandlers(a *Applicator) {
	a.register("attempt_coup", handleAttemptCoup)
	a.register("succeed_leader", handleSucceedLeader)
}

// handleAttemptCoup either installs the instigator as leader (success) or
// leaves the incumbent in place while applying a stability hit and, if the
// producer asked for it, executing the instigator (failure). The succeeded
// flag is decided upstream by the politics domain system's own RNG draw;
// the applicator only ever acts on the outcome, never computes it.
func handleAttemptCoup(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.AttemptCoup)
	f, ok := ctx.World.Factions[cmd.FactionID]
	if !ok || !f.Alive() {
		return fmt.Errorf("attempt_coup: unknown or dead faction %d: %w", cmd.FactionID, simerr.PreconditionFailure)
	}
	if _, ok := ctx.World.Persons[cmd.InstigatorID]; !ok {
		return fmt.Errorf("attempt_coup: unknown instigator %d: %w", cmd.InstigatorID, simerr.PreconditionFailure)
	}

	if cmd.Succeeded {
		if err := installLeader(ctx, cmd.FactionID, cmd.InstigatorID); err != nil {
			return err
		}
		old := f.Legitimacy
		f.Legitimacy = clamp01(f.Legitimacy - 0.3)
		recordEffect(ctx, cmd.FactionID, eventlog.PropertyChanged{Field: "legitimacy", Old: ftoa(old), New: ftoa(f.Legitimacy)})
		return nil
	}

	old := f.Stability
	f.Stability = clamp01(f.Stability - 0.1)
	recordEffect(ctx, cmd.FactionID, eventlog.PropertyChanged{Field: "stability", Old: ftoa(old), New: ftoa(f.Stability)})

	if cmd.ExecuteInstigatorOnFail {
		p := ctx.World.Persons[cmd.InstigatorID]
		if p.Alive() {
			now := ctx.World.Clock.Minute
			p.End = &now
			recordEffect(ctx, cmd.InstigatorID, eventlog.EntityEnded{})
		}
	}
	emit(ctx, commands.FailedCoup{FactionID: cmd.FactionID, InstigatorID: cmd.InstigatorID})
	return nil
}

// installLeader ends the faction's current leader link (if any), ensures
// the new leader carries MemberOf first (LeaderOf implies
// MemberOf), then sets LeaderOf.
func installLeader(ctx *Context, factionID, newLeaderID uint64) error {
	now := ctx.World.Clock.Minute
	for _, personID := range ctx.World.MemberOf.SourcesOf(factionID) {
		if ctx.World.LeaderOf.Has(personID, factionID) {
			ctx.World.LeaderOf.End(personID, now)
			recordEffect(ctx, personID, eventlog.RelationshipEnded{Kind: "leader_of", Other: factionID, End: now})
		}
	}
	if !ctx.World.MemberOf.Has(newLeaderID, factionID) {
		ctx.World.MemberOf.Add(newLeaderID, factionID, now)
		recordEffect(ctx, newLeaderID, eventlog.RelationshipAdded{Kind: "member_of", Other: factionID, Start: now})
	}
	ctx.World.LeaderOf.Add(newLeaderID, factionID, now)
	recordEffect(ctx, newLeaderID, eventlog.RelationshipAdded{Kind: "leader_of", Other: factionID, Start: now})
	return nil
}

func handleSucceedLeader(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.SucceedLeader)
	if _, ok := ctx.World.Factions[cmd.FactionID]; !ok {
		return fmt.Errorf("succeed_leader: unknown faction %d: %w", cmd.FactionID, simerr.PreconditionFailure)
	}
	if p, ok := ctx.World.Persons[cmd.NewLeaderID]; !ok || !p.Alive() {
		return fmt.Errorf("succeed_leader: unknown or dead person %d: %w", cmd.NewLeaderID, simerr.PreconditionFailure)
	}
	return installLeader(ctx, cmd.FactionID, cmd.NewLeaderID)
}
