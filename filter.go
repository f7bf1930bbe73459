package ecs

import "github.com/TheBitDrifter/mask"

// EntityFilter is a declarative predicate over an archetype's member bits:
// every required type must be present, at least one included type must be
// present (if any were named), and no excluded type may be present.
type EntityFilter struct {
	requireAll mask.Mask
	requireAny mask.Mask
	excludeAny mask.Mask
}

// Universal matches every archetype.
var Universal = EntityFilter{}

// Matches reports whether archetype a satisfies this filter.
func (f EntityFilter) Matches(a EntityArchetype) bool {
	if !a.bits.ContainsAll(f.requireAll) {
		return false
	}
	if !f.requireAny.IsEmpty() && !a.bits.ContainsAny(f.requireAny) {
		return false
	}
	if !a.bits.ContainsNone(f.excludeAny) {
		return false
	}
	return true
}

// FilterBuilder assembles an EntityFilter from require-all, require-any, and
// exclude-any component sets.
type FilterBuilder struct {
	requireAll []ComponentType
	requireAny []ComponentType
	excludeAny []ComponentType
}

// NewFilterBuilder starts an empty filter builder.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// Require adds types that must all be present.
func (b *FilterBuilder) Require(types ...ComponentType) *FilterBuilder {
	b.requireAll = append(b.requireAll, types...)
	return b
}

// Include adds types of which at least one must be present.
func (b *FilterBuilder) Include(types ...ComponentType) *FilterBuilder {
	b.requireAny = append(b.requireAny, types...)
	return b
}

// Exclude adds types that must all be absent.
func (b *FilterBuilder) Exclude(types ...ComponentType) *FilterBuilder {
	b.excludeAny = append(b.excludeAny, types...)
	return b
}

// Build produces the immutable EntityFilter.
func (b *FilterBuilder) Build() EntityFilter {
	return EntityFilter{
		requireAll: bitsFor(b.requireAll...),
		requireAny: bitsFor(b.requireAny...),
		excludeAny: bitsFor(b.excludeAny...),
	}
}
