package applicator

import (
	"fmt"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/simerr"
	"github.com/talgya/mini-world/internal/simworld"
)

func registerCultureReligionHandlers(a *Applicator) {
	a.register("cultural_shift", handleCulturalShift)
	a.register("blend_cultures", handleBlendCultures)
	a.register("cultural_rebellion", handleCulturalRebellion)
	a.register("spread_religion", handleSpreadReligion)
	a.register("religious_schism", handleReligiousSchism)
	a.register("declare_prophecy", handleDeclareProphecy)
}

func handleCulturalShift(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.CulturalShift)
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("cultural_shift: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	old := sett.CultureMix[cmd.CultureID]
	sett.CultureMix[cmd.CultureID] = clamp01(old + cmd.Delta)
	recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "culture_mix", Old: ftoa(old), New: ftoa(sett.CultureMix[cmd.CultureID])})
	return nil
}

func handleBlendCultures(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.BlendCultures)
	target, ok := ctx.World.Cultures[cmd.TargetCultureID]
	if !ok || !target.Alive() {
		return fmt.Errorf("blend_cultures: unknown or dead culture %d: %w", cmd.TargetCultureID, simerr.PreconditionFailure)
	}
	source, ok := ctx.World.Cultures[cmd.SourceCultureID]
	if !ok {
		return fmt.Errorf("blend_cultures: unknown source culture %d: %w", cmd.SourceCultureID, simerr.PreconditionFailure)
	}
	target.Blend(source, cmd.Strength)
	if sett, ok := ctx.World.Settlements[cmd.SettlementID]; ok {
		old := sett.CultureMix[cmd.SourceCultureID]
		sett.CultureMix[cmd.SourceCultureID] = clamp01(old + cmd.Strength*0.1)
		recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "culture_mix", Old: ftoa(old), New: ftoa(sett.CultureMix[cmd.SourceCultureID])})
	}
	recordEffect(ctx, cmd.TargetCultureID, eventlog.PropertyChanged{Field: "blended_from", New: ftoa(cmd.Strength)})
	return nil
}

func handleCulturalRebellion(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.CulturalRebellion)
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("cultural_rebellion: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	old := sett.CrimeRate
	sett.CrimeRate = clamp01(sett.CrimeRate + 0.15)
	sett.Prosperity = clamp01(sett.Prosperity - 0.1)
	recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "crime_rate", Old: ftoa(old), New: ftoa(sett.CrimeRate)})
	return nil
}

func handleSpreadReligion(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.SpreadReligion)
	sett, ok := ctx.World.Settlements[cmd.SettlementID]
	if !ok || !sett.Alive() {
		return fmt.Errorf("spread_religion: unknown or dead settlement %d: %w", cmd.SettlementID, simerr.PreconditionFailure)
	}
	if _, ok := ctx.World.Religions[cmd.ReligionID]; !ok {
		return fmt.Errorf("spread_religion: unknown religion %d: %w", cmd.ReligionID, simerr.PreconditionFailure)
	}
	old := sett.ReligionMix[cmd.ReligionID]
	sett.ReligionMix[cmd.ReligionID] = clamp01(old + cmd.Strength)
	recordEffect(ctx, cmd.SettlementID, eventlog.PropertyChanged{Field: "religion_mix", Old: ftoa(old), New: ftoa(sett.ReligionMix[cmd.ReligionID])})
	return nil
}

func handleReligiousSchism(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.ReligiousSchism)
	parent, ok := ctx.World.Religions[cmd.ReligionID]
	if !ok || !parent.Alive() {
		return fmt.Errorf("religious_schism: unknown or dead religion %d: %w", cmd.ReligionID, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	splinter := simworld.NewReligion(cmd.NewReligionID, parent.Name+" Reform", now)
	for v, val := range parent.Values {
		splinter.Values[v] = val
	}
	splinter.Orthodoxy = parent.Orthodoxy * 0.5
	ctx.World.Religions[cmd.NewReligionID] = splinter
	if err := ctx.World.Entities.Insert(entitymap.KindReligion, cmd.NewReligionID, splinter); err != nil {
		return err
	}
	recordEffect(ctx, cmd.ReligionID, eventlog.PropertyChanged{Field: "schism_spawned", New: "true"})
	emit(ctx, commands.ReligionSchism{ReligionID: cmd.ReligionID, NewReligionID: cmd.NewReligionID})
	return nil
}

func handleDeclareProphecy(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.DeclareProphecy)
	p, ok := ctx.World.Persons[cmd.PersonID]
	if !ok || !p.Alive() {
		return fmt.Errorf("declare_prophecy: unknown or dead person %d: %w", cmd.PersonID, simerr.PreconditionFailure)
	}
	rel, ok := ctx.World.Religions[cmd.ReligionID]
	if !ok || !rel.Alive() {
		return fmt.Errorf("declare_prophecy: unknown or dead religion %d: %w", cmd.ReligionID, simerr.PreconditionFailure)
	}
	old := p.Prestige
	p.Prestige += 1.5
	old2 := rel.Fervor
	rel.Fervor = clamp01(rel.Fervor + 0.2)
	recordEffect(ctx, cmd.PersonID, eventlog.PropertyChanged{Field: "prestige", Old: ftoa(old), New: ftoa(p.Prestige)})
	recordEffect(ctx, cmd.ReligionID, eventlog.PropertyChanged{Field: "fervor", Old: ftoa(old2), New: ftoa(rel.Fervor)})
	return nil
}
