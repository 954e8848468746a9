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

func registerItemsKnowledgeHandlers(a *Applicator) {
	a.register("craft_item", handleCraftItem)
	a.register("transfer_item", handleTransferItem)
	a.register("create_knowledge", handleCreateKnowledge)
	a.register("create_manifestation", handleCreateManifestation)
	a.register("destroy_manifestation", handleDestroyManifestation)
	a.register("reveal_secret", handleRevealSecret)
}

func handleCraftItem(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.CraftItem)
	if p, ok := ctx.World.Persons[cmd.CrafterID]; !ok || !p.Alive() {
		return fmt.Errorf("craft_item: unknown or dead crafter %d: %w", cmd.CrafterID, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	id := ctx.World.IDGen.NextID()
	item := simworld.NewItem(id, "", now, simworld.ItemType(cmd.ItemKind), simworld.Material(cmd.Material), cmd.HolderID, cmd.HolderKind)
	ctx.World.Items[id] = item
	if err := ctx.World.Entities.Insert(entitymap.KindItem, id, item); err != nil {
		return err
	}
	ctx.World.HeldBy.Add(id, cmd.HolderID, now)
	recordEffect(ctx, id, eventlog.PropertyChanged{Field: "crafted_by", New: strconv.FormatUint(cmd.CrafterID, 10)})
	emit(ctx, commands.ItemCrafted{ItemID: id})
	return nil
}

func handleTransferItem(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.TransferItem)
	item, ok := ctx.World.Items[cmd.ItemID]
	if !ok || !item.Alive() {
		return fmt.Errorf("transfer_item: unknown or dead item %d: %w", cmd.ItemID, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	old := item.HolderID
	ctx.World.HeldBy.End(cmd.ItemID, now)
	ctx.World.HeldBy.Add(cmd.ItemID, cmd.NewHolderID, now)
	item.HolderID = cmd.NewHolderID
	item.HolderKind = cmd.NewHolderKind
	recordEffect(ctx, cmd.ItemID, eventlog.PropertyChanged{
		Field: "holder_id", Old: strconv.FormatUint(old, 10), New: strconv.FormatUint(cmd.NewHolderID, 10),
	})
	return nil
}

func handleCreateKnowledge(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.CreateKnowledge)
	now := ctx.World.Clock.Minute
	id := ctx.World.IDGen.NextID()
	k := simworld.NewKnowledge(id, "", now, simworld.KnowledgeCategory(cmd.Category), cmd.Significance, cmd.Secret)
	ctx.World.Knowledges[id] = k
	if err := ctx.World.Entities.Insert(entitymap.KindKnowledge, id, k); err != nil {
		return err
	}
	recordEffect(ctx, id, eventlog.PropertyChanged{Field: "significance", New: ftoa(cmd.Significance)})
	return nil
}

func handleCreateManifestation(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.CreateManifestation)
	if _, ok := ctx.World.Knowledges[cmd.KnowledgeID]; !ok {
		return fmt.Errorf("create_manifestation: unknown knowledge %d: %w", cmd.KnowledgeID, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	id := ctx.World.IDGen.NextID()
	m := simworld.NewManifestation(id, now, cmd.KnowledgeID, simworld.ManifestationMedium(cmd.Medium), cmd.HolderID, cmd.HolderKind)
	ctx.World.Manifestations[id] = m
	if err := ctx.World.Entities.Insert(entitymap.KindManifestation, id, m); err != nil {
		return err
	}
	recordEffect(ctx, id, eventlog.PropertyChanged{Field: "manifests", New: strconv.FormatUint(cmd.KnowledgeID, 10)})
	return nil
}

func handleDestroyManifestation(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.DestroyManifestation)
	m, ok := ctx.World.Manifestations[cmd.ManifestationID]
	if !ok || !m.Alive() {
		return fmt.Errorf("destroy_manifestation: unknown or dead manifestation %d: %w", cmd.ManifestationID, simerr.PreconditionFailure)
	}
	now := ctx.World.Clock.Minute
	m.End = &now
	recordEffect(ctx, cmd.ManifestationID, eventlog.EntityEnded{})
	return nil
}

func handleRevealSecret(ctx *Context, kind commands.Kind) error {
	cmd := kind.(commands.RevealSecret)
	k, ok := ctx.World.Knowledges[cmd.KnowledgeID]
	if !ok || !k.Alive() {
		return fmt.Errorf("reveal_secret: unknown or dead knowledge %d: %w", cmd.KnowledgeID, simerr.PreconditionFailure)
	}
	if !k.Secret {
		return nil
	}
	k.Secret = false
	recordEffect(ctx, cmd.KnowledgeID, eventlog.PropertyChanged{Field: "secret", Old: "true", New: "false"})
	if p, ok := ctx.World.Persons[cmd.RevealerID]; ok && p.Alive() {
		old := p.Prestige
		p.Prestige += 0.5
		recordEffect(ctx, cmd.RevealerID, eventlog.PropertyChanged{Field: "prestige", Old: ftoa(old), New: ftoa(p.Prestige)})
	}
	return nil
}
