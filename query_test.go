package ecs

import "testing"

type queryPosition struct{ X, Y float64 }
type queryDead struct{}
type queryName struct{ Value string }

type fakeSource struct {
	lk EntityLookup
}

func (f *fakeSource) Lookup() EntityLookup { return f.lk }

func TestQueryTablesMatchesFilter(t *testing.T) {
	pos := TypeOf[queryPosition]()
	dead := TypeOf[queryDead]()

	alive, _ := NewArchetype(pos)
	deadArch, _ := NewArchetype(pos, dead)

	aliveTable, err := newTable(alive, nil, 4)
	if err != nil {
		t.Fatalf("newTable: %v", err)
	}
	deadTable, err := newTable(deadArch, nil, 4)
	if err != nil {
		t.Fatalf("newTable: %v", err)
	}

	lk := newLookup()
	lk = lk.withGrouping(newGrouping(alive).withAppended(aliveTable))
	lk = lk.withGrouping(newGrouping(deadArch).withAppended(deadTable))

	source := &fakeSource{lk: lk}
	filter := NewFilterBuilder().Require(pos).Exclude(dead).Build()
	query := NewQuery(source, filter)

	var matched []*EntityTable
	for tbl := range query.Tables() {
		matched = append(matched, tbl)
	}

	if len(matched) != 1 || matched[0] != aliveTable {
		t.Fatalf("expected only the alive table to match, got %v", matched)
	}
}

func TestQueryPicksUpNewlyPublishedGroupings(t *testing.T) {
	pos := TypeOf[queryPosition]()
	alive, _ := NewArchetype(pos)

	source := &fakeSource{lk: newLookup()}
	query := NewQuery(source, Universal)

	var firstPass int
	for range query.Tables() {
		firstPass++
	}
	if firstPass != 0 {
		t.Fatalf("expected no matches before any grouping is published")
	}

	tbl, err := newTable(alive, nil, 4)
	if err != nil {
		t.Fatalf("newTable: %v", err)
	}
	source.lk = source.lk.withGrouping(newGrouping(alive).withAppended(tbl))

	var secondPass []*EntityTable
	for t := range query.Tables() {
		secondPass = append(secondPass, t)
	}
	if len(secondPass) != 1 || secondPass[0] != tbl {
		t.Fatalf("expected the newly published table to be picked up on refresh, got %v", secondPass)
	}
}

// A table appended to a grouping the query already matched on a prior pass
// must still show up: the query caches grouping identity, not a frozen
// snapshot of its table list.
func TestQuerySeesTableAppendedToAlreadyCachedGrouping(t *testing.T) {
	pos := TypeOf[queryPosition]()
	alive, _ := NewArchetype(pos)

	first, err := newTable(alive, nil, 4)
	if err != nil {
		t.Fatalf("newTable: %v", err)
	}

	source := &fakeSource{lk: newLookup().withGrouping(newGrouping(alive).withAppended(first))}
	query := NewQuery(source, Universal)

	var firstPass []*EntityTable
	for tbl := range query.Tables() {
		firstPass = append(firstPass, tbl)
	}
	if len(firstPass) != 1 || firstPass[0] != first {
		t.Fatalf("expected only the first table on the first pass, got %v", firstPass)
	}

	second, err := newTable(alive, nil, 4)
	if err != nil {
		t.Fatalf("newTable: %v", err)
	}
	existing, _ := source.lk.TryGet(alive)
	source.lk = source.lk.withGrouping(existing.withAppended(second))

	var secondPass []*EntityTable
	for tbl := range query.Tables() {
		secondPass = append(secondPass, tbl)
	}
	if len(secondPass) != 2 {
		t.Fatalf("expected both tables once the grouping grew, got %v", secondPass)
	}
}

// Unpublishing one archetype's last table must not misalign a query's
// cursor against groupings published afterward: the lookup's order is
// stable, so a grouping created after an earlier one emptied is still seen.
func TestQuerySeesGroupingCreatedAfterAnotherEmptied(t *testing.T) {
	pos := TypeOf[queryPosition]()
	dead := TypeOf[queryDead]()

	x, _ := NewArchetype(pos)
	y, _ := NewArchetype(pos, dead)

	xTable, err := newTable(x, nil, 4)
	if err != nil {
		t.Fatalf("newTable: %v", err)
	}
	yTable, err := newTable(y, nil, 4)
	if err != nil {
		t.Fatalf("newTable: %v", err)
	}

	source := &fakeSource{lk: newLookup()}
	source.lk = source.lk.withGrouping(newGrouping(x).withAppended(xTable))
	source.lk = source.lk.withGrouping(newGrouping(y).withAppended(yTable))

	query := NewQuery(source, Universal)
	var firstPass []*EntityTable
	for tbl := range query.Tables() {
		firstPass = append(firstPass, tbl)
	}
	if len(firstPass) != 2 {
		t.Fatalf("expected both tables on the first pass, got %v", firstPass)
	}

	xGrouping, _ := source.lk.TryGet(x)
	source.lk = source.lk.withGrouping(xGrouping.withRemoved(xTable))

	z, _ := NewArchetype(pos, dead, TypeOf[queryName]())
	zTable, err := newTable(z, nil, 4)
	if err != nil {
		t.Fatalf("newTable: %v", err)
	}
	source.lk = source.lk.withGrouping(newGrouping(z).withAppended(zTable))

	var secondPass []*EntityTable
	for tbl := range query.Tables() {
		secondPass = append(secondPass, tbl)
	}
	if len(secondPass) != 2 || secondPass[0] != yTable || secondPass[1] != zTable {
		t.Fatalf("expected y's and z's tables after x emptied, got %v", secondPass)
	}
}
