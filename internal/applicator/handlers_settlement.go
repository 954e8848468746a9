package applicator

import (
	"fmt"
	"strconv"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/simerr"
	"github.com/talgya/mini-world/internal/simworld"
)

func registerSettlementHandlers(a *Applicator) {
	a.register("construct_building", handleConstructBuilding)
	a.register("upgrade_building", handleUpgradeBuilding)
	a.register("damage_building", handleDamageBuilding)
	a.register("migrate_population", handleMigratePopulation)
	a.register("relocate_person", handleRelocatePerson)
	a.register("abandon_settlement", handleAbandonSettlement)
}

// refreshBuildingBonuses recomputes a settlement's aggregate bonuses from
// every still-standing building located there. BuildingBonuses is a derived
// cache refreshed on construct/upgrade/damage.
func refreshBuildingBonuses(w *simworld.World, sett *simworld.Settlement) {
	var agg simworld.BuildingBonuses
	for _, buildingID := range sett.Buildings {
		b, ok := w.Buildings[buildingID]
		if !ok || !b.Alive() {
			continue
		}
		bonus := b.Bonuses()
		agg.ProductionMult += bonus.ProductionMult
		agg.DefenseBonus += bonus.DefenseBonus
		agg.ProsperityBonus += bonus.ProsperityBonus
	}
	sett.BuildingBonuses = agg
}

func handleConstructBuilding(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.ConstructBuilding)
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("construct_building: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	id := ctx.World.IDGen.NextID()
	b := simworld.NewBuilding(id, "", now, simworld.BuildingType(cmd.BuildingKind), cmd.SettlementID)
	ctx.World.Buildings[id] = b
	if err := ctx.World.Entities.Insert(entitymap.KindBuilding, id, b); err != nil {
		return err
	}
	sett.Buildings = append(sett.Buildings, id)
	refreshBuildingBonuses(ctx.World, sett)
	recordEffect(ctx, id, eventlog.PropertyChanged{Field: "constructed_at", New: strconv.FormatUint(cmd.SettlementID, 10)})
	emit(ctx, commands.BuildingConstructed{SettlementID: cmd.SettlementID, BuildingID: id})
	return nil
}

func handleUpgradeBuilding(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.UpgradeBuilding)
	b, ok := ctx.World.Buildings[cmd.BuildingID]
	if !ok || !b.Alive() {
		return fmt.Errorf("upgrade_building: unknown or dead building %d: %w", cmd.BuildingID, simerr.PreconditionFailure)
	}
	if b.Level >= 2 {
		return fmt.Errorf("upgrade_building: building %d already at max level: %w", cmd.BuildingID, simerr.PreconditionFailure)
	}
	old := b.Level
	b.Level++
	if sett, ok := ctx.World.Settlements[b.SettlementID]; ok {
		refreshBuildingBonuses(ctx.World, sett)
	}
	recordEffect(ctx, cmd.BuildingID, eventlog.PropertyChanged{
		Field: "level", Old: strconv.Itoa(int(old)), New: strconv.Itoa(int(b.Level)),
	})
	return nil
}

func handleDamageBuilding(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.DamageBuilding)
	b, ok := ctx.World.Buildings[cmd.BuildingID]
	if !ok || !b.Alive() {
		return fmt.Errorf("damage_building: unknown or dead building %d: %w", cmd.BuildingID, simerr.PreconditionFailure)
	}
	old := b.Condition
	b.Condition = clamp01(b.Condition - cmd.Amount)
	if sett, ok := ctx.World.Settlements[b.SettlementID]; ok {
		refreshBuildingBonuses(ctx.World, sett)
	}
	recordEffect(ctx, cmd.BuildingID, eventlog.PropertyChanged{Field: "condition", Old: ftoa(old), New: ftoa(b.Condition)})
	if b.Condition == 0 {
		now := ctx.World.Clock.Minute
		b.End = &now
		recordEffect(ctx, cmd.BuildingID, eventlog.EntityEnded{})
	}
	return nil
}

func handleMigratePopulation(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.MigratePopulation)
	from, ok := ctx.World.Settlements[cmd.FromSettID]
	if !ok || !from.Alive() {
		return fmt.Errorf("migrate_population: unknown or dead settlement %d: %w", cmd.FromSettID, simerr.PreconditionFailure)
	}
	to, ok := ctx.World.Settlements[cmd.ToSettID]
	if !ok || !to.Alive() {
		return fmt.Errorf("migrate_population: unknown or dead settlement %d: %w", cmd.ToSettID, simerr.PreconditionFailure)
	}
	count := cmd.Count
	if count > from.Population.Total {
		count = from.Population.Total
	}
	fromBefore, toBefore := from.Population.Total, to.Population.Total
	from.Population.Rescale(fromBefore - count)
	to.Population.Rescale(toBefore + count)
	recordEffect(ctx, cmd.FromSettID, eventlog.PropertyChanged{
		Field: "population", Old: strconv.FormatUint(fromBefore, 10), New: strconv.FormatUint(from.Population.Total, 10),
	})
	recordEffect(ctx, cmd.ToSettID, eventlog.PropertyChanged{
		Field: "population", Old: strconv.FormatUint(toBefore, 10), New: strconv.FormatUint(to.Population.Total, 10),
	})
	emit(ctx, commands.RefugeesArrived{FromSettID: cmd.FromSettID, ToSettID: cmd.ToSettID})
	return nil
}

func handleRelocatePerson(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.RelocatePerson)
	p, ok := ctx.World.Persons[cmd.PersonID]
	if !ok || !p.Alive() {
		return fmt.Errorf("relocate_person: unknown or dead person %d: %w", cmd.PersonID, simerr.PreconditionFailure)
	}
	if _, ok := ctx.World.Settlements[cmd.NewSettID]; !ok {
		return fmt.Errorf("relocate_person: unknown settlement %d: %w", cmd.NewSettID, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	old, hadOld := ctx.World.LocatedIn.Get(cmd.PersonID)
	if hadOld && old == cmd.NewSettID {
		return nil
	}
	if hadOld {
		ctx.World.LocatedIn.End(cmd.PersonID, now)
		recordEffect(ctx, cmd.PersonID, eventlog.RelationshipEnded{Kind: "located_in", Other: old, End: now})
	}
	ctx.World.LocatedIn.Add(cmd.PersonID, cmd.NewSettID, now)
	recordEffect(ctx, cmd.PersonID, eventlog.RelationshipAdded{Kind: "located_in", Other: cmd.NewSettID, Start: now})
	return nil
}

func handleAbandonSettlement(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.AbandonSettlement)
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("abandon_settlement: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	sett.End = &now
	sett.Population.Rescale(0)
	for _, source := range ctx.World.LocatedIn.SourcesOf(cmd.SettlementID) {
		ctx.World.LocatedIn.End(source, now)
		recordEffect(ctx, source, eventlog.RelationshipEnded{Kind: "located_in", Other: cmd.SettlementID, End: now})
	}
	recordEffect(ctx, cmd.SettlementID, eventlog.EntityEnded{})
	return nil
}
