package cultures

import (
	"testing"

	"github.com/talgya/mini-world/internal/commands"
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

// TestReligionSpreadsInSettlementWithPartialShare confirms a settlement
// with a partial (not yet dominant, not yet zero) adherent share of a
// living religion gets a SpreadReligion command proportional to fervor.
func TestReligionSpreadsInSettlementWithPartialShare(t *testing.T) {
	d, w := newTestDomain()
	rel := simworld.NewReligion(100, "The Lantern Faith", 0)
	rel.Fervor = 0.8
	w.Religions[100] = rel

	sett := simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	sett.ReligionMix[100] = 0.4
	w.Settlements[30] = sett

	d.diffuseReligion()

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	spread, ok := cmds[0].Kind.(commands.SpreadReligion)
	if !ok {
		t.Fatalf("expected a SpreadReligion command, got %T", cmds[0].Kind)
	}
	if spread.SettlementID != 30 || spread.ReligionID != 100 {
		t.Fatalf("unexpected spread command: %+v", spread)
	}
	if spread.Strength != rel.Fervor*0.05 {
		t.Fatalf("expected strength proportional to fervor, got %v", spread.Strength)
	}
}

// TestFullyConvertedSettlementStopsSpreading confirms a settlement where a
// religion already holds a near-total (>=0.95) share produces no further
// SpreadReligion commands.
func TestFullyConvertedSettlementStopsSpreading(t *testing.T) {
	d, w := newTestDomain()
	rel := simworld.NewReligion(100, "The Lantern Faith", 0)
	w.Religions[100] = rel

	sett := simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	sett.ReligionMix[100] = 0.98
	w.Settlements[30] = sett

	d.diffuseReligion()

	if cmds := drained(d.Out); len(cmds) != 0 {
		t.Fatalf("expected no further spread once a religion dominates, got %d", len(cmds))
	}
}

// TestHighFervorLowOrthodoxyReligionSchisms confirms a religion whose
// orthodoxy has collapsed while fervor remains high produces a
// ReligiousSchism minting a fresh religion id.
func TestHighFervorLowOrthodoxyReligionSchisms(t *testing.T) {
	d, w := newTestDomain()
	rel := simworld.NewReligion(100, "The Lantern Faith", 0)
	rel.Fervor = 0.9
	rel.Orthodoxy = 0.1
	w.Religions[100] = rel

	d.checkSchismsAndRebellions()

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	schism, ok := cmds[0].Kind.(commands.ReligiousSchism)
	if !ok {
		t.Fatalf("expected a ReligiousSchism command, got %T", cmds[0].Kind)
	}
	if schism.ReligionID != 100 {
		t.Fatalf("expected schism on religion 100, got %d", schism.ReligionID)
	}
	if schism.NewReligionID == 0 {
		t.Fatalf("expected a freshly minted id for the splinter religion")
	}
}

// TestImpoverishedFracturedSettlementRebels confirms a settlement with a
// weak dominant culture share and collapsed prosperity produces a
// CulturalRebellion.
func TestImpoverishedFracturedSettlementRebels(t *testing.T) {
	d, w := newTestDomain()
	sett := simworld.NewSettlement(30, "Ashford", 0, 10, 1, 500)
	sett.Prosperity = 0.05
	sett.CultureMix[200] = 0.25
	w.Settlements[30] = sett

	d.checkSchismsAndRebellions()

	cmds := drained(d.Out)
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %d", len(cmds))
	}
	if _, ok := cmds[0].Kind.(commands.CulturalRebellion); !ok {
		t.Fatalf("expected a CulturalRebellion command, got %T", cmds[0].Kind)
	}
}
