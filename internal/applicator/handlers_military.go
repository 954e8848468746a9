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

func registerMilitaryHandlers(a *Applicator) {
	a.register("muster_army", handleMusterArmy)
	a.register("disband_army", handleDisbandArmy)
	a.register("march_army", handleMarchArmy)
	a.register("begin_siege", handleBeginSiege)
	a.register("resolve_assault", handleResolveAssault)
	a.register("resolve_battle", handleResolveBattle)
	a.register("capture_settlement", handleCaptureSettlement)
	a.register("hire_mercenary", handleHireMercenary)
	a.register("end_mercenary_contract", handleEndMercenaryContract)
	a.register("create_mercenary_company", handleCreateMercenaryCompany)
}

func handleMusterArmy(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.MusterArmy)
	if _, ok := ctx.World.Factions[cmd.FactionID]; !ok {
		return fmt.Errorf("muster_army: unknown faction %d: %w", cmd.FactionID, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	id := ctx.World.IDGen.NextID()
	army := simworld.NewArmy(id, fmt.Sprintf("Levy of %d", cmd.FactionID), now, cmd.FactionID, cmd.HomeRegionID, cmd.Strength)
	ctx.World.Armies[id] = army
	if err := ctx.World.Entities.Insert(entitymap.KindArmy, id, army); err != nil {
		return err
	}
	recordEffect(ctx, id, eventlog.PropertyChanged{Field: "mustered_for", New: strconv.FormatUint(cmd.FactionID, 10)})
	return nil
}

func handleDisbandArmy(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.DisbandArmy)
	army, ok := ctx.World.Armies[cmd.ArmyID]
	if !ok {
		return fmt.Errorf("disband_army: unknown army %d: %w", cmd.ArmyID, simerr.PreconditionFailure)
	}
	if !army.Alive() {
		return nil
	}
	now := ctx.World.Clock.Minute
	army.End = &now
	if army.BesiegingSettID != nil {
		delete(ctx.World.ActiveSieges, *army.BesiegingSettID)
	}
	recordEffect(ctx, cmd.ArmyID, eventlog.EntityEnded{})
	return nil
}

func handleMarchArmy(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.MarchArmy)
	army, ok := ctx.World.Armies[cmd.ArmyID]
	if !ok || !army.Alive() {
		return fmt.Errorf("march_army: unknown or dead army %d: %w", cmd.ArmyID, simerr.PreconditionFailure)
	}
	dest, ok := ctx.World.Regions[cmd.DestRegionID]
	if !ok || dest.Water {
		return fmt.Errorf("march_army: army %d cannot enter region %d: %w", cmd.ArmyID, cmd.DestRegionID, simerr.PreconditionFailure)
	}
	current, ok := ctx.World.Regions[army.CurrentRegionID]
	if !ok {
		return fmt.Errorf("march_army: army %d has unknown current region %d: %w", cmd.ArmyID, army.CurrentRegionID, simerr.PreconditionFailure)
	}
	adjacent := false
	for _, n := range current.Neighbors {
		if n == cmd.DestRegionID {
			adjacent = true
			break
		}
	}
	if !adjacent {
		return fmt.Errorf("march_army: region %d is not adjacent to army %d's region %d: %w",
			cmd.DestRegionID, cmd.ArmyID, army.CurrentRegionID, simerr.PreconditionFailure)
	}
	old := army.CurrentRegionID
	army.CurrentRegionID = cmd.DestRegionID
	recordEffect(ctx, cmd.ArmyID, eventlog.PropertyChanged{
		Field: "current_region_id",
		Old:   strconv.FormatUint(old, 10),
		New:   strconv.FormatUint(cmd.DestRegionID, 10),
	})
	return nil
}

func handleBeginSiege(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.BeginSiege)
	army, ok := ctx.World.Armies[cmd.ArmyID]
	if !ok || !army.Alive() {
		return fmt.Errorf("begin_siege: unknown or dead army %d: %w", cmd.ArmyID, simerr.PreconditionFailure)
	}
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("begin_siege: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	if !ctx.World.Relations.AreAtWar(army.FactionID, sett.OwnerFactionID) {
		return fmt.Errorf("begin_siege: army %d's faction is not at war with settlement %d's owner: %w",
			cmd.ArmyID, cmd.SettlementID, simerr.PreconditionFailure)
	}
	if _, already := ctx.World.ActiveSieges[cmd.SettlementID]; already {
		return nil
	}
	now := ctx.World.Clock.Minute
	ctx.World.ActiveSieges[cmd.SettlementID] = &simworld.ActiveSiege{
		SettlementID:   cmd.SettlementID,
		BesiegerArmyID: cmd.ArmyID,
		StartedAt:      now,
	}
	army.BesiegingSettID = &cmd.SettlementID
	recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "under_siege_by", New: strconv.FormatUint(cmd.ArmyID, 10)})

	oldProsperity := sett.Prosperity
	sett.Prosperity = clamp01(sett.Prosperity - 0.1)
	recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "prosperity", Old: ftoa(oldProsperity), New: ftoa(sett.Prosperity)})

	emit(ctx, commands.SiegeStarted{SettlementID: cmd.SettlementID, ArmyID: cmd.ArmyID})
	return nil
}

// defenderPower computes a besieged settlement's defense power from guard
// strength, fortification, accumulated building bonuses, and the region's
// terrain bonus, mirroring Army.Power's shape.
func defenderPower(w *simworld.World, sett *simworld.Settlement) float64 {
	power := sett.GuardStrength * (1 + float64(sett.FortificationLevel)*0.2)
	power *= 1 + sett.BuildingBonuses.DefenseBonus
	if region, ok := w.Regions[sett.RegionID]; ok {
		power *= region.DefenseBonus()
	}
	return power
}

func handleResolveAssault(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.ResolveAssault)
	army, ok := ctx.World.Armies[cmd.ArmyID]
	if !ok || !army.Alive() {
		return fmt.Errorf("resolve_assault: unknown or dead army %d: %w", cmd.ArmyID, simerr.PreconditionFailure)
	}
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("resolve_assault: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	siege, besieged := ctx.World.ActiveSieges[cmd.SettlementID]
	if !besieged || siege.BesiegerArmyID != cmd.ArmyID {
		return fmt.Errorf("resolve_assault: army %d is not besieging settlement %d: %w", cmd.ArmyID, cmd.SettlementID, simerr.PreconditionFailure)
	}

	attackPower := army.Power(false, 1.0, 0)
	defendPower := defenderPower(ctx.World, sett)

	// Storming walls takes overwhelming force, not a slight edge.
	if attackPower >= 1.5*defendPower {
		return captureSettlement(ctx, sett, army.FactionID)
	}

	army.Strength *= 0.85
	army.Morale -= 0.1
	if army.Morale < 0 {
		army.Morale = 0
	}
	recordEffect(ctx, cmd.ArmyID, eventlog.PropertyChanged{Field: "assault_repelled", New: "true"})

	oldProsperity := sett.Prosperity
	sett.Prosperity = clamp01(sett.Prosperity - 0.05)
	recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "prosperity", Old: ftoa(oldProsperity), New: ftoa(sett.Prosperity)})
	return nil
}

func handleResolveBattle(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.ResolveBattle)
	armyA, ok := ctx.World.Armies[cmd.ArmyA]
	if !ok || !armyA.Alive() {
		return fmt.Errorf("resolve_battle: unknown or dead army %d: %w", cmd.ArmyA, simerr.PreconditionFailure)
	}
	armyB, ok := ctx.World.Armies[cmd.ArmyB]
	if !ok || !armyB.Alive() {
		return fmt.Errorf("resolve_battle: unknown or dead army %d: %w", cmd.ArmyB, simerr.PreconditionFailure)
	}

	powerA := armyA.Power(false, 1.0, 0)
	powerB := armyB.Power(false, 1.0, 0)

	winner, loser := armyA, armyB
	if powerB > powerA {
		winner, loser = armyB, armyA
	}
	loser.Strength *= 0.5
	loser.Morale -= 0.25
	if loser.Morale < 0 {
		loser.Morale = 0
	}
	winner.Morale += 0.05
	if winner.Morale > 1 {
		winner.Morale = 1
	}
	recordEffect(ctx, winner.SimID, eventlog.PropertyChanged{Field: "battle_outcome", New: "won"})
	recordEffect(ctx, loser.SimID, eventlog.PropertyChanged{Field: "battle_outcome", New: "lost"})
	if loser.Strength < 0.1 {
		now := ctx.World.Clock.Minute
		loser.End = &now
		recordEffect(ctx, loser.SimID, eventlog.EntityEnded{})
	}
	return nil
}

// captureSettlement is shared by handleResolveAssault (siege victory) and
// handleCaptureSettlement (the standalone command domain systems can issue
// directly, e.g. when a garrison-less settlement is simply occupied).
func captureSettlement(ctx *Context, sett *simworld.Settlement, newFactionID uint64) error {
	old := sett.OwnerFactionID
	if old == newFactionID {
		return nil
	}
	sett.OwnerFactionID = newFactionID
	sett.GuardStrength *= 0.5
	delete(ctx.World.ActiveSieges, sett.SimID)
	recordEffect(ctx, sett.SimID, eventlog.PropertyChanged{
		Field: "owner_faction_id",
		Old:   strconv.FormatUint(old, 10),
		New:   strconv.FormatUint(newFactionID, 10),
	})

	now := ctx.World.Clock.Minute
	if _, hadOwner := ctx.World.MemberOf.Get(sett.SimID); hadOwner {
		ctx.World.MemberOf.End(sett.SimID, now)
		recordEffect(ctx, sett.SimID, eventlog.RelationshipEnded{Kind: "member_of", Other: old, End: now})
	}
	ctx.World.MemberOf.Add(sett.SimID, newFactionID, now)
	recordEffect(ctx, sett.SimID, eventlog.RelationshipAdded{Kind: "member_of", Other: newFactionID, Start: now})

	emit(ctx, commands.SettlementCaptured{SettlementID: sett.SimID, OldFaction: old, NewFaction: newFactionID})
	return nil
}

func handleCaptureSettlement(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.CaptureSettlement)
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("capture_settlement: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	return captureSettlement(ctx, sett, cmd.NewFactionID)
}

func handleHireMercenary(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.HireMercenary)
	army, ok := ctx.World.Armies[cmd.CompanyArmyID]
	if !ok || !army.Alive() || !army.Mercenary {
		return fmt.Errorf("hire_mercenary: %d is not a live mercenary company: %w", cmd.CompanyArmyID, simerr.PreconditionFailure)
	}
	old := army.FactionID
	army.FactionID = cmd.FactionID
	recordEffect(ctx, cmd.CompanyArmyID, eventlog.PropertyChanged{
		Field: "faction_id", Old: strconv.FormatUint(old, 10), New: strconv.FormatUint(cmd.FactionID, 10),
	})
	return nil
}

func handleEndMercenaryContract(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.EndMercenaryContract)
	army, ok := ctx.World.Armies[cmd.ArmyID]
	if !ok || !army.Alive() || !army.Mercenary {
		return fmt.Errorf("end_mercenary_contract: %d is not a live mercenary company: %w", cmd.ArmyID, simerr.PreconditionFailure)
	}
	old := army.FactionID
	army.FactionID = 0
	recordEffect(ctx, cmd.ArmyID, eventlog.PropertyChanged{
		Field: "faction_id", Old: strconv.FormatUint(old, 10), New: "0",
	})
	return nil
}

func handleCreateMercenaryCompany(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.CreateMercenaryCompany)
	id := cmd.ArmyID
	if id == 0 {
		// Producers cannot mint ids; a zero ArmyID asks the applicator to.
		id = ctx.World.IDGen.NextID()
	} else if _, exists := ctx.World.Armies[id]; exists {
		return fmt.Errorf("create_mercenary_company: id %d already exists: %w", id, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	army := simworld.NewArmy(id, "Free Company", now, 0, cmd.HomeRegionID, cmd.Strength)
	army.Mercenary = true
	ctx.World.Armies[id] = army
	if err := ctx.World.Entities.Insert(entitymap.KindArmy, id, army); err != nil {
		return err
	}
	recordEffect(ctx, id, eventlog.PropertyChanged{Field: "formed_as", New: "mercenary_company"})
	return nil
}
