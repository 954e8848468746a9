package applicator

import (
	"fmt"
	"strconv"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/simerr"
)

func registerGenericHandlers(a *Applicator) {
	a.register("set_field", handleSetField)
}

// handleSetField is the generic escape hatch: a closed set of
// (EntityKind, Field) pairs dispatched statically here rather than
// through reflection. cmd.Field is a diagnostic label only — the case
// chosen below is what actually decides which struct field is written.
func handleSetField(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.SetField)
	entKind := entitymap.EntityKind(cmd.EntityKind)

	if base, ok := ctx.World.BaseOf(entKind, cmd.EntityID); ok && !base.Alive() {
		return nil // no entity receives mutations after end is set
	}

	switch entKind {
	case entitymap.KindFaction:
		f, ok := ctx.World.Factions[cmd.EntityID]
		if !ok {
			return fmt.Errorf("set_field: unknown faction %d: %w", cmd.EntityID, simerr.PreconditionFailure)
		}
		v, err := strconv.ParseFloat(cmd.NewValue, 64)
		if err != nil {
			return fmt.Errorf("set_field: faction field %q: %w", cmd.Field, simerr.PreconditionFailure)
		}
		switch cmd.Field {
		case "stability":
			f.Stability = clamp01(v)
		case "happiness":
			f.Happiness = clamp01(v)
		case "legitimacy":
			f.Legitimacy = clamp01(v)
		default:
			return fmt.Errorf("set_field: unknown faction field %q: %w", cmd.Field, simerr.Unimplemented)
		}

	case entitymap.KindSettlement:
		s, ok := ctx.World.Settlements[cmd.EntityID]
		if !ok {
			return fmt.Errorf("set_field: unknown settlement %d: %w", cmd.EntityID, simerr.PreconditionFailure)
		}
		v, err := strconv.ParseFloat(cmd.NewValue, 64)
		if err != nil {
			return fmt.Errorf("set_field: settlement field %q: %w", cmd.Field, simerr.PreconditionFailure)
		}
		switch cmd.Field {
		case "prosperity":
			s.Prosperity = clamp01(v)
		case "crime_rate":
			s.CrimeRate = clamp01(v)
		case "guard_strength":
			s.GuardStrength = v
		case "fortification_level":
			s.FortificationLevel = uint8(v)
		default:
			return fmt.Errorf("set_field: unknown settlement field %q: %w", cmd.Field, simerr.Unimplemented)
		}

	case entitymap.KindArmy:
		army, ok := ctx.World.Armies[cmd.EntityID]
		if !ok {
			return fmt.Errorf("set_field: unknown army %d: %w", cmd.EntityID, simerr.PreconditionFailure)
		}
		v, err := strconv.ParseFloat(cmd.NewValue, 64)
		if err != nil {
			return fmt.Errorf("set_field: army field %q: %w", cmd.Field, simerr.PreconditionFailure)
		}
		switch cmd.Field {
		case "morale":
			army.Morale = clamp01(v)
		case "supply":
			army.Supply = v
		case "strength":
			army.Strength = v
		default:
			return fmt.Errorf("set_field: unknown army field %q: %w", cmd.Field, simerr.Unimplemented)
		}

	default:
		return fmt.Errorf("set_field: entity kind %d has no registered fields: %w", entKind, simerr.Unimplemented)
	}

	recordEffect(ctx, cmd.EntityID, eventlog.PropertyChanged{Field: cmd.Field, Old: cmd.OldValue, New: cmd.NewValue})
	return nil
}
