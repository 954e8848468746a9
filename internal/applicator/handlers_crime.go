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

func registerCrimeHandlers(a *Applicator) {
	a.register("form_bandit_gang", handleFormBanditGang)
	a.register("disband_bandit_gang", handleDisbandBanditGang)
	a.register("bandit_raid", handleBanditRaid)
	a.register("raid_trade_route", handleRaidTradeRoute)
}

func handleFormBanditGang(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.FormBanditGang)
	now := ctx.World.Clock.Minute
	id := ctx.World.IDGen.NextID()
	gang := simworld.NewArmy(id, "Bandit Gang", now, 0, cmd.HomeRegionID, cmd.Strength)
	ctx.World.Armies[id] = gang
	if err := ctx.World.Entities.Insert(entitymap.KindArmy, id, gang); err != nil {
		return err
	}
	recordEffect(ctx, id, eventlog.PropertyChanged{Field: "formed_as", New: "bandit_gang"})
	return nil
}

func handleDisbandBanditGang(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.DisbandBanditGang)
	gang, ok := ctx.World.Armies[cmd.GangArmyID]
	if !ok || !gang.Alive() {
		return fmt.Errorf("disband_bandit_gang: unknown or dead gang %d: %w", cmd.GangArmyID, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	gang.End = &now
	recordEffect(ctx, cmd.GangArmyID, eventlog.EntityEnded{})
	return nil
}

func handleBanditRaid(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.BanditRaid)
	gang, ok := ctx.World.Armies[cmd.GangArmyID]
	if !ok || !gang.Alive() {
		return fmt.Errorf("bandit_raid: unknown or dead gang %d: %w", cmd.GangArmyID, simerr.PreconditionFailure)
	}
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("bandit_raid: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}

	raidPower := gang.Power(false, 1.0, 0)
	guardPower := defenderPower(ctx.World, sett)

	if raidPower > guardPower {
		old := sett.Prosperity
		sett.Prosperity = clamp01(sett.Prosperity - 0.1)
		gang.Strength += 0.05
		recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "prosperity", Old: ftoa(old), New: ftoa(sett.Prosperity)})
		if f, ok := ctx.World.Factions[sett.OwnerFactionID]; ok && f.Treasury > 0 {
			old := f.Treasury
			loot := f.Treasury / 20
			f.Treasury -= loot
			recordEffect(ctx, sett.OwnerFactionID, eventlog.PropertyChanged{Field: "treasury", Old: ftoa(float64(old)), New: ftoa(float64(f.Treasury))})
		}
		emit(ctx, commands.BanditRaidOccurred{SettlementID: cmd.SettlementID})
	} else {
		gang.Strength *= 0.7
		gang.Morale = clamp01(gang.Morale - 0.15)
	}
	return nil
}

func handleRaidTradeRoute(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.RaidTradeRoute)
	gang, ok := ctx.World.Armies[cmd.GangArmyID]
	if !ok || !gang.Alive() {
		return fmt.Errorf("raid_trade_route: unknown or dead gang %d: %w", cmd.GangArmyID, simerr.PreconditionFailure)
	}
	if !ctx.World.Relations.Are(relations.TradeRoute, cmd.A, cmd.B) {
		return fmt.Errorf("raid_trade_route: no trade route between %d and %d: %w", cmd.A, cmd.B, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	ctx.World.Relations.End(relations.TradeRoute, cmd.A, cmd.B, now)
	removeTradeRoute(ctx.World.Settlements[cmd.A], cmd.B)
	removeTradeRoute(ctx.World.Settlements[cmd.B], cmd.A)
	recordEffect(ctx, cmd.A, eventlog.RelationshipEnded{Kind: "trade_route", Other: cmd.B, End: now})
	recordEffect(ctx, cmd.B, eventlog.RelationshipEnded{Kind: "trade_route", Other: cmd.A, End: now})
	gang.Strength += 0.05
	emit(ctx, commands.BanditRaidOccurred{SettlementID: cmd.A})
	return nil
}
