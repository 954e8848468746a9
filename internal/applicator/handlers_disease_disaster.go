package applicator

import (
	"fmt"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/simerr"
	"github.com/talgya/mini-world/internal/simworld"
)

func registerDiseaseDisasterHandlers(a *Applicator) {
	a.register("start_plague", handleStartPlague)
	a.register("spread_plague", handleSpreadPlague)
	a.register("end_plague", handleEndPlague)
	a.register("trigger_disaster", handleTriggerDisaster)
	a.register("start_persistent_disaster", handleStartPersistentDisaster)
	a.register("end_disaster", handleEndDisaster)
}

func handleStartPlague(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.StartPlague)
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("start_plague: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	if _, ok := ctx.World.Diseases[cmd.DiseaseID]; !ok {
		return fmt.Errorf("start_plague: unknown disease %d: %w", cmd.DiseaseID, simerr.PreconditionFailure)
	}
	if _, already := ctx.World.ActiveDiseases[cmd.SettlementID]; already {
		return nil
	}
	now := ctx.World.Clock.Minute
	ctx.World.ActiveDiseases[cmd.SettlementID] = &simworld.ActiveDisease{
		SettlementID: cmd.SettlementID,
		DiseaseID:    cmd.DiseaseID,
		StartedAt:    now,
	}
	recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "plague_started", New: "true"})
	emit(ctx, commands.PlagueStarted{SettlementID: cmd.SettlementID, DiseaseID: cmd.DiseaseID})
	return nil
}

func handleSpreadPlague(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.SpreadPlague)
	if _, active := ctx.World.ActiveDiseases[cmd.FromSettID]; !active {
		return fmt.Errorf("spread_plague: settlement %d has no active plague: %w", cmd.FromSettID, simerr.PreconditionFailure)
	}
	to, ok := ctx.World.Settlements[cmd.ToSettID]
	if !ok || !to.Alive() {
		return fmt.Errorf("spread_plague: unknown or dead settlement %d: %w", cmd.ToSettID, simerr.PreconditionFailure)
	}
	if _, already := ctx.World.ActiveDiseases[cmd.ToSettID]; already {
		return nil
	}
	now := ctx.World.Clock.Minute
	ctx.World.ActiveDiseases[cmd.ToSettID] = &simworld.ActiveDisease{
		SettlementID: cmd.ToSettID,
		DiseaseID:    cmd.DiseaseID,
		StartedAt:    now,
	}
	recordEffect(ctx, cmd.ToSettID, eventlog.PropertyChanged{Field: "plague_started", New: "true"})
	emit(ctx, commands.PlagueStarted{SettlementID: cmd.ToSettID, DiseaseID: cmd.DiseaseID})
	return nil
}

func handleEndPlague(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.EndPlague)
	if _, active := ctx.World.ActiveDiseases[cmd.SettlementID]; !active {
		return nil
	}
	delete(ctx.World.ActiveDiseases, cmd.SettlementID)
	recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "plague_started", New: "false"})
	emit(ctx, commands.PlagueEnded{SettlementID: cmd.SettlementID})
	return nil
}

func handleTriggerDisaster(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.TriggerDisaster)
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("trigger_disaster: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	old := sett.Prosperity
	sett.Prosperity = clamp01(sett.Prosperity - 0.2)
	recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "prosperity", Old: ftoa(old), New: ftoa(sett.Prosperity)})
	emit(ctx, commands.DisasterStruck{SettlementID: cmd.SettlementID})
	return nil
}

func handleStartPersistentDisaster(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.StartPersistentDisaster)
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("start_persistent_disaster: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	sett.PersistentDisaster = cmd.Kind
	recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "persistent_disaster", New: cmd.Kind})
	emit(ctx, commands.DisasterStruck{SettlementID: cmd.SettlementID})
	return nil
}

func handleEndDisaster(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.EndDisaster)
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok {
		return fmt.Errorf("end_disaster: unknown settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	sett.PersistentDisaster = ""
	recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "persistent_disaster", New: ""})
	emit(ctx, commands.DisasterEnded{SettlementID: cmd.SettlementID})
	return nil
}
