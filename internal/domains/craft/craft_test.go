package craft

import (
	"testing"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/simworld"
)

// drained swaps the queue's buffers and returns what producers pushed this
// tick, the way the applicator reads it.
func drained(q *queue.Queue[commands.Command]) []commands.Command {
	q.Swap()
	return q.Drain()
}

func newTestDomain() (*Domain, *simworld.World) {
	w := simworld.New(1, 42)
	out := queue.New[commands.Command]()
	return New(w, out), w
}

// TestProsperousSettlementMerchantCraftsAnItem confirms a prosperous
// settlement with a resident merchant produces exactly one CraftItem
// command held by that merchant.
func TestProsperousSettlementMerchantCraftsAnItem(t *testing.T) {
	d, w := newTestDomain()
	sett := simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	sett.Prosperity = 0.9
	w.Settlements[30] = sett

	merchant := simworld.NewPerson(1, "Merchant of Ashford", 0)
	merchant.Role = simworld.RoleMerchant
	w.Persons[1] = merchant
	w.LocatedIn.Add(1, 30, 0)

	d.craftForProsperousSettlements()

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	craft, ok := cmds[0].Kind.(commands.CraftItem)
	if !ok {
		t.Fatalf("expected a CraftItem command, got %T", cmds[0].Kind)
	}
	if craft.CrafterID != 1 || craft.HolderID != 1 {
		t.Fatalf("expected the merchant to craft and hold the item, got %+v", craft)
	}
	if craft.HolderKind != uint8(entitymap.KindPerson) {
		t.Fatalf("expected holder kind to be a person, got %d", craft.HolderKind)
	}
}

// TestPoorSettlementProducesNoCraftCommand confirms a settlement below the
// prosperity floor produces nothing even with a resident merchant.
func TestPoorSettlementProducesNoCraftCommand(t *testing.T) {
	d, w := newTestDomain()
	sett := simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	sett.Prosperity = 0.1
	w.Settlements[30] = sett
	merchant := simworld.NewPerson(1, "Merchant of Ashford", 0)
	merchant.Role = simworld.RoleMerchant
	w.Persons[1] = merchant
	w.LocatedIn.Add(1, 30, 0)

	d.craftForProsperousSettlements()

	if cmds := drained(d.Out); len(cmds) != 0 {
		t.Fatalf("expected no craft commands below the prosperity floor, got %d", len(cmds))
	}
}

// TestLiterateScholarRecordsKnowledge confirms a scholar resident with
// sufficient literacy records a new piece of knowledge.
func TestLiterateScholarRecordsKnowledge(t *testing.T) {
	d, w := newTestDomain()
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	scholar := simworld.NewPerson(1, "Scholar of Ashford", 0)
	scholar.Role = simworld.RoleScholar
	scholar.Literacy = 0.9
	w.Persons[1] = scholar
	w.LocatedIn.Add(1, 30, 0)

	d.scholarsRecordKnowledge()

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	know, ok := cmds[0].Kind.(commands.CreateKnowledge)
	if !ok {
		t.Fatalf("expected a CreateKnowledge command, got %T", cmds[0].Kind)
	}
	if know.Significance != scholar.Literacy {
		t.Fatalf("expected significance to equal the scholar's literacy, got %v", know.Significance)
	}
}

// TestIlliterateScholarRecordsNothing confirms a scholar below the
// literacy floor produces no command.
func TestIlliterateScholarRecordsNothing(t *testing.T) {
	d, w := newTestDomain()
	w.Settlements[30] = simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	scholar := simworld.NewPerson(1, "Scholar of Ashford", 0)
	scholar.Role = simworld.RoleScholar
	scholar.Literacy = 0.1
	w.Persons[1] = scholar
	w.LocatedIn.Add(1, 30, 0)

	d.scholarsRecordKnowledge()

	if cmds := drained(d.Out); len(cmds) != 0 {
		t.Fatalf("expected no knowledge command below the literacy floor, got %d", len(cmds))
	}
}

// TestDegradedOralSecretIsRevealed confirms a secret knowledge manifested
// orally and worn down past its completeness floor gets RevealSecret.
func TestDegradedOralSecretIsRevealed(t *testing.T) {
	d, w := newTestDomain()
	k := simworld.NewKnowledge(100, "A Forbidden Rite", 0, simworld.KnowledgeHistorical, 0.8, true)
	w.Knowledges[100] = k
	m := simworld.NewManifestation(200, 0, 100, simworld.MediumOral, 1, uint8(entitymap.KindPerson))
	m.Completeness = 0.05
	w.Manifestations[200] = m

	d.degradeOralManifestations()

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	reveal, ok := cmds[0].Kind.(commands.RevealSecret)
	if !ok {
		t.Fatalf("expected a RevealSecret command, got %T", cmds[0].Kind)
	}
	if reveal.KnowledgeID != 100 || reveal.RevealerID != 1 {
		t.Fatalf("unexpected reveal command: %+v", reveal)
	}
}

// TestIntactOralSecretIsNotRevealed confirms a secret still largely intact
// (completeness above the degradation floor) stays hidden.
func TestIntactOralSecretIsNotRevealed(t *testing.T) {
	d, w := newTestDomain()
	k := simworld.NewKnowledge(100, "A Forbidden Rite", 0, simworld.KnowledgeHistorical, 0.8, true)
	w.Knowledges[100] = k
	m := simworld.NewManifestation(200, 0, 100, simworld.MediumOral, 1, uint8(entitymap.KindPerson))
	m.Completeness = 0.9
	w.Manifestations[200] = m

	d.degradeOralManifestations()

	if cmds := drained(d.Out); len(cmds) != 0 {
		t.Fatalf("expected no reveal while the secret is still mostly intact, got %d", len(cmds))
	}
}
