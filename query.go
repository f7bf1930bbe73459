package ecs

import (
	"iter"
	"sync"

	"github.com/TheBitDrifter/mask"
)

// LookupSource supplies the current archetype lookup snapshot. EntityRegistry
// implements it; a query holds one so it can refresh without coupling to
// the rest of the registry's surface.
type LookupSource interface {
	Lookup() EntityLookup
}

// EntityQuery incrementally matches groupings from a LookupSource against a
// filter, caching matches across calls so a grouping is only tested against
// the filter once, the first time it appears in the lookup. The cache holds
// each matched grouping's archetype bits rather than the grouping value
// itself: groupings are copy-on-write (grouping.go's withAppended publishes
// a new value on every table added), so a cached value would freeze the
// grouping's table list at the moment it first matched. Caching the bits and
// re-resolving against the live snapshot at enumeration time means a table
// added later to an already-matched grouping is still picked up. Its own
// mutex is independent of the source registry's lock: refreshing never
// blocks a concurrent mutation, it just observes whatever snapshot is current.
type EntityQuery struct {
	mu     sync.Mutex
	source LookupSource
	filter EntityFilter
	cache  []mask.Mask
	cursor int
}

// NewQuery builds a query over source's groupings, restricted to filter.
func NewQuery(source LookupSource, filter EntityFilter) *EntityQuery {
	return &EntityQuery{source: source, filter: filter}
}

// refresh advances the cursor over snap's stable, append-only order,
// recording the bits of every grouping matching the filter. snap is
// supplied by the caller so a single Tables call refreshes against and
// enumerates the same snapshot.
func (q *EntityQuery) refresh(snap EntityLookup) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.cursor < snap.Count() {
		g := snap.At(q.cursor)
		if q.filter.Matches(g.Key()) {
			q.cache = append(q.cache, g.Key().bits)
		}
		q.cursor++
	}
}

// Tables refreshes against the current lookup snapshot and iterates every
// table in every matched grouping, re-resolving each matched grouping from
// that snapshot rather than from whatever value was cached when it first matched.
func (q *EntityQuery) Tables() iter.Seq[*EntityTable] {
	return func(yield func(*EntityTable) bool) {
		snap := q.source.Lookup()
		q.refresh(snap)

		q.mu.Lock()
		matched := make([]mask.Mask, len(q.cache))
		copy(matched, q.cache)
		q.mu.Unlock()

		for _, bits := range matched {
			g, ok := snap.groupingForBits(bits)
			if !ok {
				continue
			}
			for i := 0; i < g.Count(); i++ {
				if !yield(g.At(i)) {
					return
				}
			}
		}
	}
}
