package ecs

import "testing"

type lookupPosition struct{ X, Y float64 }
type lookupVelocity struct{ X, Y float64 }

func TestLookupWithGroupingIsCopyOnWrite(t *testing.T) {
	arch, _ := NewArchetype(TypeOf[lookupPosition]())
	g := newGrouping(arch)

	before := newLookup()
	after := before.withGrouping(g)

	if before.Count() != 0 {
		t.Fatalf("expected the original snapshot to be unaffected, got count %d", before.Count())
	}
	if after.Count() != 1 {
		t.Fatalf("expected the new snapshot to contain the grouping, got count %d", after.Count())
	}
	if _, ok := before.TryGet(arch); ok {
		t.Fatalf("expected original snapshot to not observe the new grouping")
	}
	if _, ok := after.TryGet(arch); !ok {
		t.Fatalf("expected new snapshot to observe the grouping")
	}
}

// Republishing a grouping with its last table removed must not shrink or
// reorder Count(): EntityQuery indexes the lookup by absolute position, and
// a later grouping's index must never shift because an earlier one emptied.
func TestLookupRepublishingEmptyGroupingKeepsItsSlot(t *testing.T) {
	arch, _ := NewArchetype(TypeOf[lookupPosition]())
	other, _ := NewArchetype(TypeOf[lookupPosition](), TypeOf[lookupVelocity]())

	tbl, err := newTable(arch, nil, 4)
	if err != nil {
		t.Fatalf("newTable: %v", err)
	}

	lk := newLookup()
	lk = lk.withGrouping(newGrouping(arch).withAppended(tbl))
	lk = lk.withGrouping(newGrouping(other))
	if lk.Count() != 2 {
		t.Fatalf("expected two groupings, got %d", lk.Count())
	}

	emptied := lk.withGrouping(lk.groupings[arch.bits].withRemoved(tbl))
	if emptied.Count() != 2 {
		t.Fatalf("expected Count to stay stable after emptying a grouping, got %d", emptied.Count())
	}
	g, ok := emptied.groupingForBits(arch.bits)
	if !ok {
		t.Fatalf("expected the emptied grouping's slot to still resolve")
	}
	if g.Count() != 0 {
		t.Fatalf("expected the emptied grouping to have no tables, got %d", g.Count())
	}
	if !emptied.At(1).Key().Equal(other) {
		t.Fatalf("expected the second grouping's position to be unaffected by the first emptying")
	}
}

func TestLookupOrderIsInsertionOrder(t *testing.T) {
	a1, _ := NewArchetype()
	a2, _ := NewArchetype(TypeOf[lookupPosition]())

	lk := newLookup()
	lk = lk.withGrouping(newGrouping(a1))
	lk = lk.withGrouping(newGrouping(a2))

	if !lk.At(0).Key().Equal(a1) {
		t.Fatalf("expected first-inserted archetype at index 0")
	}
	if !lk.At(1).Key().Equal(a2) {
		t.Fatalf("expected second-inserted archetype at index 1")
	}
}
