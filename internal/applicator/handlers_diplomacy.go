package applicator

import (
	"fmt"
	"strconv"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/relations"
	"github.com/talgya/mini-world/internal/simerr"
	"github.com/talgya/mini-world/internal/simworld"
)

func registerDiplomacyHandlers(a *Applicator) {
	a.register("declare_war", handleDeclareWar)
	a.register("sign_treaty", handleSignTreaty)
	a.register("form_alliance", handleFormAlliance)
	a.register("betray_alliance", handleBetrayAlliance)
	a.register("set_war_goal", handleSetWarGoal)
}

func handleDeclareWar(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.DeclareWar)
	if ctx.World.Relations.AreAtWar(cmd.Attacker, cmd.Defender) {
		return nil
	}
	now := ctx.World.Clock.Minute
	// War supersedes whatever stood before: an alliance is broken, an
	// enmity escalates. Both must end before at_war can become active.
	for _, prior := range []relations.Kind{relations.Ally, relations.Enemy} {
		if !ctx.World.Relations.Are(prior, cmd.Attacker, cmd.Defender) {
			continue
		}
		ctx.World.Relations.End(prior, cmd.Attacker, cmd.Defender, now)
		recordEffect(ctx, cmd.Attacker, eventlog.RelationshipEnded{Kind: prior.String(), Other: cmd.Defender, End: now})
		recordEffect(ctx, cmd.Defender, eventlog.RelationshipEnded{Kind: prior.String(), Other: cmd.Attacker, End: now})
	}
	if err := ctx.World.Relations.Add(relations.AtWar, cmd.Attacker, cmd.Defender, now); err != nil {
		return err
	}
	recordEffect(ctx, cmd.Attacker, eventlog.RelationshipAdded{Kind: "at_war", Other: cmd.Defender, Start: now})
	recordEffect(ctx, cmd.Defender, eventlog.RelationshipAdded{Kind: "at_war", Other: cmd.Attacker, Start: now})
	emit(ctx, commands.WarStarted{Attacker: cmd.Attacker, Defender: cmd.Defender})
	return nil
}

func handleSignTreaty(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.SignTreaty)
	if !ctx.World.Relations.AreAtWar(cmd.A, cmd.B) {
		return fmt.Errorf("sign_treaty: %d and %d are not at war: %w", cmd.A, cmd.B, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	ctx.World.Relations.End(relations.AtWar, cmd.A, cmd.B, now)
	recordEffect(ctx, cmd.A, eventlog.RelationshipEnded{Kind: "at_war", Other: cmd.B, End: now})
	recordEffect(ctx, cmd.B, eventlog.RelationshipEnded{Kind: "at_war", Other: cmd.A, End: now})

	if cmd.Decisive && cmd.Winner != 0 && cmd.Loser != 0 {
		loser, ok := ctx.World.Factions[cmd.Loser]
		if ok {
			loser.Diplomacy.TributeOwedTo = append(loser.Diplomacy.TributeOwedTo, simworld.TributeAgreement{
				OwedTo:        cmd.Winner,
				AmountPerYear: 100,
				StartedAt:     now,
			})
			recordEffect(ctx, cmd.Loser, eventlog.PropertyChanged{
				Field: "tribute_owed_to",
				New:   strconv.FormatUint(cmd.Winner, 10),
			})
		}
	}
	emit(ctx, commands.WarEnded{Winner: cmd.Winner, Loser: cmd.Loser})
	return nil
}

func handleFormAlliance(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.FormAlliance)
	if ctx.World.Relations.AreAllies(cmd.A, cmd.B) {
		return nil
	}
	now := ctx.World.Clock.Minute
	if err := ctx.World.Relations.Add(relations.Ally, cmd.A, cmd.B, now); err != nil {
		return err
	}
	recordEffect(ctx, cmd.A, eventlog.RelationshipAdded{Kind: "ally", Other: cmd.B, Start: now})
	recordEffect(ctx, cmd.B, eventlog.RelationshipAdded{Kind: "ally", Other: cmd.A, Start: now})
	return nil
}

func handleBetrayAlliance(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.BetrayAlliance)
	if !ctx.World.Relations.AreAllies(cmd.Betrayer, cmd.Betrayed) {
		return fmt.Errorf("betray_alliance: %d and %d are not allies: %w", cmd.Betrayer, cmd.Betrayed, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	ctx.World.Relations.End(relations.Ally, cmd.Betrayer, cmd.Betrayed, now)
	recordEffect(ctx, cmd.Betrayer, eventlog.RelationshipEnded{Kind: "ally", Other: cmd.Betrayed, End: now})
	recordEffect(ctx, cmd.Betrayed, eventlog.RelationshipEnded{Kind: "ally", Other: cmd.Betrayer, End: now})

	if err := ctx.World.Relations.Add(relations.Enemy, cmd.Betrayer, cmd.Betrayed, now); err == nil {
		recordEffect(ctx, cmd.Betrayer, eventlog.RelationshipAdded{Kind: "enemy", Other: cmd.Betrayed, Start: now})
		recordEffect(ctx, cmd.Betrayed, eventlog.RelationshipAdded{Kind: "enemy", Other: cmd.Betrayer, Start: now})
	}
	emit(ctx, commands.AllianceBetrayed{Betrayer: cmd.Betrayer, Betrayed: cmd.Betrayed})
	return nil
}

func handleSetWarGoal(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.SetWarGoal)
	f, ok := ctx.World.Factions[cmd.Faction]
	if !ok {
		return fmt.Errorf("set_war_goal: unknown faction %d: %w", cmd.Faction, simerr.PreconditionFailure)
	}
	if f.Diplomacy.WarGoals == nil {
		f.Diplomacy.WarGoals = make(map[uint64]simworld.WarGoal)
	}
	old := f.Diplomacy.WarGoals[cmd.Enemy]
	f.Diplomacy.WarGoals[cmd.Enemy] = simworld.WarGoal(cmd.Goal)
	recordEffect(ctx, cmd.Faction, eventlog.PropertyChanged{
		Field: "war_goal:" + strconv.FormatUint(cmd.Enemy, 10),
		Old:   strconv.Itoa(int(old)),
		New:   strconv.Itoa(int(cmd.Goal)),
	})
	return nil
}
