package idgen

import "testing"

func TestMonotonic(t *testing.T) {
	g := New(100)
	a := g.NextID()
	b := g.NextID()
	if a != 100 || b != 101 {
		t.Fatalf("expected 100,101 got %d,%d", a, b)
	}
	if g.Cursor() != 102 {
		t.Fatalf("expected cursor 102, got %d", g.Cursor())
	}
}

func TestRestore(t *testing.T) {
	g := New(0)
	g.NextID()
	g.NextID()
	cursor := g.Cursor()

	g2 := New(0)
	g2.Restore(cursor)
	if g2.NextID() != cursor {
		t.Fatalf("restored generator should resume at saved cursor")
	}
}
