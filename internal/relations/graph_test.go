package relations

import "testing"

func TestCanonicalPair(t *testing.T) {
	if CanonicalPair(5, 2) != (Pair{A: 2, B: 5}) {
		t.Fatalf("expected canonical ordering")
	}
	if CanonicalPair(2, 5) != CanonicalPair(5, 2) {
		t.Fatalf("canonicalization must be order-independent")
	}
}

func TestAddIdempotentAndReactivation(t *testing.T) {
	g := New()
	if err := g.Add(Ally, 1, 2, 10); err != nil {
		t.Fatal(err)
	}
	if err := g.Add(Ally, 1, 2, 20); err != nil {
		t.Fatal(err)
	}
	row, _ := g.Row(Ally, 1, 2)
	if row.Start != 10 {
		t.Fatalf("re-adding an active row must be a no-op, got start=%d", row.Start)
	}

	g.End(Ally, 1, 2, 30)
	if g.AreAllies(1, 2) {
		t.Fatalf("expected ally relation ended")
	}

	// Reactivating an ended row resets start time.
	if err := g.Add(Ally, 1, 2, 40); err != nil {
		t.Fatal(err)
	}
	row, _ = g.Row(Ally, 1, 2)
	if row.Start != 40 || !row.Active() {
		t.Fatalf("expected reset start=40 active, got %+v", row)
	}
}

func TestMutualExclusion(t *testing.T) {
	g := New()
	if err := g.Add(AtWar, 1, 2, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Add(Ally, 1, 2, 0); err == nil {
		t.Fatalf("expected conflict error adding ally while at war")
	}
	// Trade route is orthogonal, must coexist.
	if err := g.Add(TradeRoute, 1, 2, 0); err != nil {
		t.Fatalf("trade route should coexist with at_war: %v", err)
	}
}

func TestEndAlreadyEndedIsSilent(t *testing.T) {
	g := New()
	g.End(Ally, 1, 2, 5) // never added — must not panic
	if g.AreAllies(1, 2) {
		t.Fatalf("should not be allies")
	}

	g.Add(Ally, 1, 2, 10)
	g.End(Ally, 1, 2, 20)
	g.End(Ally, 1, 2, 30) // already ended — must keep the first end time
	if row, _ := g.Row(Ally, 1, 2); row.End == nil || *row.End != 20 {
		t.Fatalf("expected ending an ended row to leave end=20, got %+v", row)
	}
}

func TestEndAllInvolving(t *testing.T) {
	g := New()
	g.Add(Ally, 1, 2, 0)
	g.Add(TradeRoute, 1, 3, 0)
	ended := g.EndAllInvolving(1, 100)
	if len(ended) != 2 {
		t.Fatalf("expected 2 ended relations, got %d", len(ended))
	}
	if g.AreConnected(1, 2) || g.AreConnected(1, 3) {
		t.Fatalf("expected all relations involving 1 to be ended")
	}
}

func TestPartnersSortedOrder(t *testing.T) {
	g := New()
	g.Add(TradeRoute, 5, 9, 0)
	g.Add(TradeRoute, 5, 1, 0)
	g.Add(TradeRoute, 5, 3, 0)
	got := g.Partners(TradeRoute, 5)
	want := []uint64{1, 3, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
