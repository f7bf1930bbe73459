package ecs

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

// EntityLookup is an immutable snapshot of archetype groupings, indexed by
// bitset and ordered by the archetype's first-insertion order. A registry
// publishes a new EntityLookup value on every structural change; readers
// observe whichever snapshot was current when they looked, without
// blocking on the registry's mutator.
type EntityLookup struct {
	order     []mask.Mask
	groupings map[mask.Mask]EntityGrouping
}

func newLookup() EntityLookup {
	return EntityLookup{groupings: map[mask.Mask]EntityGrouping{}}
}

// Count returns the number of groupings ever published to this lookup's
// lineage. It never shrinks: an archetype whose last table empties keeps its
// slot, now holding a grouping with zero tables, so a cursor indexing this
// snapshot by position stays valid across removals.
func (l EntityLookup) Count() int { return len(l.order) }

// At returns the grouping at index i, in insertion order.
func (l EntityLookup) At(i int) EntityGrouping {
	return l.groupings[l.order[i]]
}

// TryGet returns the grouping for archetype a, if one exists.
func (l EntityLookup) TryGet(a EntityArchetype) (EntityGrouping, bool) {
	g, ok := l.groupings[a.bits]
	return g, ok
}

func (l EntityLookup) archetypeForBits(b mask.Mask) (EntityArchetype, bool) {
	g, ok := l.groupings[b]
	return g.key, ok
}

// groupingForBits returns the grouping published at bits, if any. Used to
// re-resolve a grouping identity cached earlier against the current
// snapshot, rather than trusting a possibly-stale cached value.
func (l EntityLookup) groupingForBits(b mask.Mask) (EntityGrouping, bool) {
	g, ok := l.groupings[b]
	return g, ok
}

// All iterates every grouping in this snapshot, in insertion order.
func (l EntityLookup) All() iter.Seq[EntityGrouping] {
	return func(yield func(EntityGrouping) bool) {
		for _, b := range l.order {
			if !yield(l.groupings[b]) {
				return
			}
		}
	}
}

// withGrouping returns a new snapshot with g published in place of whatever
// grouping previously occupied its archetype's bits.
func (l EntityLookup) withGrouping(g EntityGrouping) EntityLookup {
	_, existed := l.groupings[g.key.bits]

	groupings := make(map[mask.Mask]EntityGrouping, len(l.groupings)+1)
	for k, v := range l.groupings {
		groupings[k] = v
	}
	groupings[g.key.bits] = g

	order := l.order
	if !existed {
		order = make([]mask.Mask, len(l.order)+1)
		copy(order, l.order)
		order[len(l.order)] = g.key.bits
	}

	return EntityLookup{order: order, groupings: groupings}
}

