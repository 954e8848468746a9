package applicator

import (
	"fmt"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/relations"
	"github.com/talgya/mini-world/internal/simerr"
	"github.com/talgya/mini-world/internal/simworld"
)

func registerLifecycleHandlers(a *Applicator) {
	a.register("end_entity", handleEndEntity)
	a.register("rename_entity", handleRenameEntity)
	a.register("person_born", handlePersonBorn)
	a.register("person_died", handlePersonDied)
	a.register("add_relationship", handleAddRelationship)
	a.register("end_relationship", handleEndRelationship)
}

// handleEndEntity is idempotent: a second EndEntity for an
// already-ended entity still mints an event (Run always mints one for a
// non-bookkeeping command) but writes no further effect and takes no
// further action, so two applications of EndEntity against the same
// entity leave exactly one EntityEnded effect in the log.
func handleEndEntity(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.EndEntity)
	entKind := entitymap.EntityKind(cmd.EntityKind)
	base, ok := ctx.World.BaseOf(entKind, cmd.EntityID)
	if !ok {
		return fmt.Errorf("end_entity: unknown entity kind=%d id=%d: %w", entKind, cmd.EntityID, simerr.PreconditionFailure)
	}
	if !base.Alive() {
		return nil
	}
	now := ctx.World.Clock.Minute
	base.End = &now
	recordEffect(ctx, cmd.EntityID, eventlog.EntityEnded{})

	for _, ended := range ctx.World.Relations.EndAllInvolving(cmd.EntityID, now) {
		recordEffect(ctx, cmd.EntityID, eventlog.RelationshipEnded{Kind: ended.Kind.String(), Other: ended.Other, End: now})
	}
	if factionID, ok := ctx.World.MemberOf.Get(cmd.EntityID); ok {
		ctx.World.MemberOf.End(cmd.EntityID, now)
		recordEffect(ctx, cmd.EntityID, eventlog.RelationshipEnded{Kind: "member_of", Other: factionID, End: now})
	}
	if factionID, ok := ctx.World.LeaderOf.Get(cmd.EntityID); ok {
		ctx.World.LeaderOf.End(cmd.EntityID, now)
		recordEffect(ctx, cmd.EntityID, eventlog.RelationshipEnded{Kind: "leader_of", Other: factionID, End: now})
		if entKind == entitymap.KindPerson {
			emit(ctx, commands.RulerVacancy{FactionID: factionID, FormerLeaderID: cmd.EntityID})
		}
	}

	if entKind == entitymap.KindPerson {
		if settID, ok := ctx.World.LocatedIn.Get(cmd.EntityID); ok {
			ctx.World.LocatedIn.End(cmd.EntityID, now)
			recordEffect(ctx, cmd.EntityID, eventlog.RelationshipEnded{Kind: "located_in", Other: settID, End: now})
		}
	}
	if entKind == entitymap.KindItem {
		if holderID, ok := ctx.World.HeldBy.Get(cmd.EntityID); ok {
			ctx.World.HeldBy.End(cmd.EntityID, now)
			recordEffect(ctx, cmd.EntityID, eventlog.RelationshipEnded{Kind: "held_by", Other: holderID, End: now})
		}
	}

	emit(ctx, commands.EntityDied{EntityID: cmd.EntityID})
	return nil
}

func handleRenameEntity(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.RenameEntity)
	entKind := entitymap.EntityKind(cmd.EntityKind)
	base, ok := ctx.World.BaseOf(entKind, cmd.EntityID)
	if !ok {
		return fmt.Errorf("rename_entity: unknown entity kind=%d id=%d: %w", entKind, cmd.EntityID, simerr.PreconditionFailure)
	}
	if base.Name == cmd.NewName {
		return nil
	}
	old := base.Name
	base.Name = cmd.NewName
	recordEffect(ctx, cmd.EntityID, eventlog.NameChanged{Old: old, New: cmd.NewName})
	return nil
}

func handlePersonBorn(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.PersonBorn)
	if _, exists := ctx.World.Persons[cmd.PersonID]; exists {
		return fmt.Errorf("person_born: id %d already exists: %w", cmd.PersonID, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	p := simworld.NewPerson(cmd.PersonID, cmd.Name, now)
	ctx.World.Persons[cmd.PersonID] = p
	if err := ctx.World.Entities.Insert(entitymap.KindPerson, cmd.PersonID, p); err != nil {
		return err
	}
	if cmd.HomeSettID != 0 {
		ctx.World.LocatedIn.Add(cmd.PersonID, cmd.HomeSettID, now)
	}
	recordEffect(ctx, cmd.PersonID, eventlog.PropertyChanged{Field: "born", New: cmd.Name})
	return nil
}

// handlePersonDied cascades a person's death into faction membership and
// leadership: MemberOf/LeaderOf are closed out, and losing a faction's
// sole leader emits RulerVacancy for the politics domain to resolve on a
// later tick; lifecycle cascades never resolve succession inline, so
// PersonDied's handler stays free of politics-domain policy.
func handlePersonDied(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.PersonDied)
	p, ok := ctx.World.Persons[cmd.PersonID]
	if !ok {
		return fmt.Errorf("person_died: unknown person %d: %w", cmd.PersonID, simerr.PreconditionFailure)
	}
	if !p.Alive() {
		return nil
	}
	now := ctx.World.Clock.Minute
	p.End = &now
	recordEffect(ctx, cmd.PersonID, eventlog.EntityEnded{})
	recordEffect(ctx, cmd.PersonID, eventlog.PropertyChanged{Field: "cause_of_death", New: cmd.Cause})

	if factionID, ok := ctx.World.MemberOf.Get(cmd.PersonID); ok {
		ctx.World.MemberOf.End(cmd.PersonID, now)
		recordEffect(ctx, cmd.PersonID, eventlog.RelationshipEnded{Kind: "member_of", Other: factionID, End: now})
	}
	if factionID, ok := ctx.World.LeaderOf.Get(cmd.PersonID); ok {
		ctx.World.LeaderOf.End(cmd.PersonID, now)
		recordEffect(ctx, cmd.PersonID, eventlog.RelationshipEnded{Kind: "leader_of", Other: factionID, End: now})
		emit(ctx, commands.RulerVacancy{FactionID: factionID, FormerLeaderID: cmd.PersonID})
	}
	if settID, ok := ctx.World.LocatedIn.Get(cmd.PersonID); ok {
		ctx.World.LocatedIn.End(cmd.PersonID, now)
		recordEffect(ctx, cmd.PersonID, eventlog.RelationshipEnded{Kind: "located_in", Other: settID, End: now})
	}
	emit(ctx, commands.EntityDied{EntityID: cmd.PersonID})
	return nil
}

func relKindOf(k commands.RelationshipKind) relations.Kind {
	switch k {
	case commands.RelAlly:
		return relations.Ally
	case commands.RelEnemy:
		return relations.Enemy
	case commands.RelAtWar:
		return relations.AtWar
	default:
		return relations.TradeRoute
	}
}

func handleAddRelationship(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.AddRelationship)
	rk := relKindOf(cmd.Kind)
	now := ctx.World.Clock.Minute
	if err := ctx.World.Relations.Add(rk, cmd.Src, cmd.Tgt, now); err != nil {
		return err
	}
	recordEffect(ctx, cmd.Src, eventlog.RelationshipAdded{Kind: rk.String(), Other: cmd.Tgt, Start: now})
	recordEffect(ctx, cmd.Tgt, eventlog.RelationshipAdded{Kind: rk.String(), Other: cmd.Src, Start: now})
	return nil
}

func handleEndRelationship(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.EndRelationship)
	rk := relKindOf(cmd.Kind)
	now := ctx.World.Clock.Minute
	if !ctx.World.Relations.Are(rk, cmd.Src, cmd.Tgt) {
		return nil
	}
	ctx.World.Relations.End(rk, cmd.Src, cmd.Tgt, now)
	recordEffect(ctx, cmd.Src, eventlog.RelationshipEnded{Kind: rk.String(), Other: cmd.Tgt, End: now})
	recordEffect(ctx, cmd.Tgt, eventlog.RelationshipEnded{Kind: rk.String(), Other: cmd.Src, End: now})
	return nil
}
