package ecs

import (
	"iter"

	"github.com/TheBitDrifter/mask"
	"github.com/kamstrup/intmap"
)

// EntityGrouping is the insertion-ordered list of tables sharing one key
// archetype. Appending or removing a table produces a new EntityGrouping
// value so a published lookup snapshot is never mutated in place.
type EntityGrouping struct {
	key    EntityArchetype
	tables []*EntityTable
	edges  *groupingEdges
}

// groupingEdges caches this grouping's with(ct)/without(ct) archetype-bits
// transitions, keyed by the component's dense id. It is shared by pointer
// across every copy-on-write revision of its EntityGrouping, since the
// transitions it records never change once derived. It is only ever touched
// while the owning registry's lock is held, so it needs no mutex of its own.
type groupingEdges struct {
	with    *intmap.Map[uint32, mask.Mask]
	without *intmap.Map[uint32, mask.Mask]
}

func newGroupingEdges() *groupingEdges {
	return &groupingEdges{
		with:    intmap.New[uint32, mask.Mask](8),
		without: intmap.New[uint32, mask.Mask](8),
	}
}

func newGrouping(key EntityArchetype) EntityGrouping {
	return EntityGrouping{key: key, edges: newGroupingEdges()}
}

// Key returns the archetype shared by every table in this grouping.
func (g EntityGrouping) Key() EntityArchetype { return g.key }

// Count returns the number of tables in this grouping.
func (g EntityGrouping) Count() int { return len(g.tables) }

// At returns the table at index i.
func (g EntityGrouping) At(i int) *EntityTable { return g.tables[i] }

// All iterates the grouping's tables in insertion order.
func (g EntityGrouping) All() iter.Seq[*EntityTable] {
	return func(yield func(*EntityTable) bool) {
		for _, t := range g.tables {
			if !yield(t) {
				return
			}
		}
	}
}

func (g EntityGrouping) withAppended(t *EntityTable) EntityGrouping {
	tables := make([]*EntityTable, len(g.tables)+1)
	copy(tables, g.tables)
	tables[len(g.tables)] = t
	return EntityGrouping{key: g.key, tables: tables, edges: g.edges}
}

func (g EntityGrouping) withRemoved(t *EntityTable) EntityGrouping {
	idx := -1
	for i, tbl := range g.tables {
		if tbl == t {
			idx = i
			break
		}
	}
	if idx == -1 {
		return g
	}
	tables := make([]*EntityTable, 0, len(g.tables)-1)
	tables = append(tables, g.tables[:idx]...)
	tables = append(tables, g.tables[idx+1:]...)
	return EntityGrouping{key: g.key, tables: tables, edges: g.edges}
}

func (g EntityGrouping) firstWithFreeRow() *EntityTable {
	for _, t := range g.tables {
		if !t.IsFull() {
			return t
		}
	}
	return nil
}

func (g EntityGrouping) cachedWith(ct ComponentType) (mask.Mask, bool) {
	return g.edges.with.Get(ct.id)
}

func (g EntityGrouping) cacheWith(ct ComponentType, bits mask.Mask) {
	g.edges.with.Put(ct.id, bits)
}

func (g EntityGrouping) cachedWithout(ct ComponentType) (mask.Mask, bool) {
	return g.edges.without.Get(ct.id)
}

func (g EntityGrouping) cacheWithout(ct ComponentType, bits mask.Mask) {
	g.edges.without.Put(ct.id, bits)
}
