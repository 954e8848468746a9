package applicator

import (
	"fmt"
	"strconv"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/relations"
	"github.com/talgya/mini-world/internal/simerr"
	"github.com/talgya/mini-world/internal/simworld"
)

func registerEconomyHandlers(a *Applicator) {
	a.register("establish_trade_route", handleEstablishTradeRoute)
	a.register("sever_trade_route", handleSeverTradeRoute)
	a.register("adjust_faction_stats", handleAdjustFactionStats)
	a.register("adjust_prestige", handleAdjustPrestige)
}

func handleEstablishTradeRoute(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.EstablishTradeRoute)
	a, ok := ctx.World.Settlements[cmd.A]
	if !ok || !a.Alive() {
		return fmt.Errorf("establish_trade_route: unknown or dead settlement %d: %w", cmd.A, simerr.PreconditionFailure)
	}
	b, ok := ctx.World.Settlements[cmd.B]
	if !ok || !b.Alive() {
		return fmt.Errorf("establish_trade_route: unknown or dead settlement %d: %w", cmd.B, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	if err := ctx.World.Relations.Add(relations.TradeRoute, cmd.A, cmd.B, now); err != nil {
		return err
	}
	a.TradeRoutes = append(a.TradeRoutes, simworld.TradeRoute{PartnerSettlementID: cmd.B, EstablishedAt: now})
	b.TradeRoutes = append(b.TradeRoutes, simworld.TradeRoute{PartnerSettlementID: cmd.A, EstablishedAt: now})
	recordEffect(ctx, cmd.A, eventlog.RelationshipAdded{Kind: "trade_route", Other: cmd.B, Start: now})
	recordEffect(ctx, cmd.B, eventlog.RelationshipAdded{Kind: "trade_route", Other: cmd.A, Start: now})
	emit(ctx, commands.TradeRouteEstablished{A: cmd.A, B: cmd.B})
	return nil
}

func handleSeverTradeRoute(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.SeverTradeRoute)
	if !ctx.World.Relations.Are(relations.TradeRoute, cmd.A, cmd.B) {
		return nil
	}
	now := ctx.World.Clock.Minute
	ctx.World.Relations.End(relations.TradeRoute, cmd.A, cmd.B, now)
	removeTradeRoute(ctx.World.Settlements[cmd.A], cmd.B)
	removeTradeRoute(ctx.World.Settlements[cmd.B], cmd.A)
	recordEffect(ctx, cmd.A, eventlog.RelationshipEnded{Kind: "trade_route", Other: cmd.B, End: now})
	recordEffect(ctx, cmd.B, eventlog.RelationshipEnded{Kind: "trade_route", Other: cmd.A, End: now})
	return nil
}

func removeTradeRoute(sett *simworld.Settlement, partner uint64) {
	if sett == nil {
		return
	}
	kept := sett.TradeRoutes[:0]
	for _, r := range sett.TradeRoutes {
		if r.PartnerSettlementID != partner {
			kept = append(kept, r)
		}
	}
	sett.TradeRoutes = kept
}

func handleAdjustFactionStats(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.AdjustFactionStats)
	f, ok := ctx.World.Factions[cmd.FactionID]
	if !ok || !f.Alive() {
		return fmt.Errorf("adjust_faction_stats: unknown or dead faction %d: %w", cmd.FactionID, simerr.PreconditionFailure)
	}
	if cmd.TreasuryDelta != 0 {
		old := f.Treasury
		if cmd.TreasuryDelta < 0 && uint64(-cmd.TreasuryDelta) > f.Treasury {
			f.Treasury = 0
		} else {
			f.Treasury = uint64(int64(f.Treasury) + cmd.TreasuryDelta)
		}
		recordEffect(ctx, cmd.FactionID, eventlog.PropertyChanged{
			Field: "treasury", Old: strconv.FormatUint(old, 10), New: strconv.FormatUint(f.Treasury, 10),
		})
	}
	f.Stability = clamp01(f.Stability + cmd.StabilityDelta)
	f.Happiness = clamp01(f.Happiness + cmd.HappinessDelta)
	return nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func handleAdjustPrestige(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.AdjustPrestige)
	entKind := entitymap.EntityKind(cmd.EntityKind)
	switch entKind {
	case entitymap.KindPerson:
		p, ok := ctx.World.Persons[cmd.EntityID]
		if !ok {
			return fmt.Errorf("adjust_prestige: unknown person %d: %w", cmd.EntityID, simerr.PreconditionFailure)
		}
		old := p.Prestige
		p.Prestige += cmd.Delta
		recordEffect(ctx, cmd.EntityID, eventlog.PropertyChanged{Field: "prestige", Old: ftoa(old), New: ftoa(p.Prestige)})
	case entitymap.KindSettlement:
		s, ok := ctx.World.Settlements[cmd.EntityID]
		if !ok {
			return fmt.Errorf("adjust_prestige: unknown settlement %d: %w", cmd.EntityID, simerr.PreconditionFailure)
		}
		old := s.Prestige
		s.Prestige += cmd.Delta
		recordEffect(ctx, cmd.EntityID, eventlog.PropertyChanged{Field: "prestige", Old: ftoa(old), New: ftoa(s.Prestige)})
	default:
		return fmt.Errorf("adjust_prestige: entity kind %d has no prestige field: %w", entKind, simerr.PreconditionFailure)
	}
	return nil
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
