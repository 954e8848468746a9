package eventlog

import "testing"

func TestAppendMintsSequentialIDs(t *testing.T) {
	l := New(1)
	id1 := l.Append(KindWarDeclared, 0, "war", nil, nil, []Participant{
		{EntityID: 1, Role: RoleAttacker},
		{EntityID: 2, Role: RoleDefender},
	})
	id2 := l.Append(KindDeath, 10, "death", nil, nil, nil)
	if id1 != 1 || id2 != 2 {
		t.Fatalf("expected sequential ids 1,2 got %d,%d", id1, id2)
	}
	if len(l.Participants) != 2 {
		t.Fatalf("expected 2 participants recorded")
	}
	if l.Participants[0].EventID != id1 {
		t.Fatalf("participant event id must match minted event id")
	}
}

func TestEventExists(t *testing.T) {
	l := New(1)
	id := l.Append(KindBirth, 0, "born", nil, nil, nil)
	if !l.EventExists(id) {
		t.Fatalf("expected event to exist")
	}
	if l.EventExists(id + 999) {
		t.Fatalf("unexpected event found")
	}
}

func TestAppendEffectReferencesExistingEvent(t *testing.T) {
	l := New(1)
	id := l.Append(KindDeath, 0, "death", nil, nil, nil)
	l.AppendEffect(id, 42, EntityEnded{})
	if len(l.Effects) != 1 {
		t.Fatalf("expected 1 effect")
	}
	if !l.EventExists(l.Effects[0].EventID) {
		t.Fatalf("effect references missing event")
	}
}

func TestDescribeTreasuryDelta(t *testing.T) {
	got := DescribeTreasuryDelta("The Crown", 1234567)
	want := "The Crown gains 1,234,567 crowns"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
