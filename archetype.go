package ecs

import (
	"sort"
	"strings"
	"unsafe"

	"github.com/TheBitDrifter/mask"
)

// EntityArchetype is the canonical, ordered set of component types an
// entity carries. Two archetypes describing the same members compare equal
// via Equal regardless of the order their types were supplied in.
type EntityArchetype struct {
	types          []ComponentType
	bits           mask.Mask
	managedCount   int
	unmanagedCount int
	tagCount       int
	entitySize     uintptr
}

// Base is the process-wide singleton archetype with no components. Building
// it from a nil type list can never fail, so there is no error to guard here.
var Base, _ = buildArchetype(nil)

// NewArchetype builds the canonical archetype for a set of component types.
// Duplicate and null (zero-value) types are discarded.
func NewArchetype(types ...ComponentType) (EntityArchetype, error) {
	return buildArchetype(types)
}

func buildArchetype(in []ComponentType) (EntityArchetype, error) {
	filtered := make([]ComponentType, 0, len(in))
	for _, ct := range in {
		if ct.rtype == nil {
			continue
		}
		filtered = append(filtered, ct)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return componentLess(filtered[i], filtered[j])
	})

	deduped := filtered[:0]
	var lastID uint32
	haveLast := false
	for _, ct := range filtered {
		if haveLast && ct.id == lastID {
			continue
		}
		deduped = append(deduped, ct)
		lastID = ct.id
		haveLast = true
	}

	var bits mask.Mask
	var managed, unmanaged, tag int
	entitySize := unsafe.Sizeof(Entity{})

	for _, ct := range deduped {
		if ct.id >= maxComponentBits {
			return EntityArchetype{}, ErrComponentSpaceExhausted{Limit: maxComponentBits}
		}
		bits.Mark(ct.id)
		switch ct.category {
		case CategoryManaged:
			managed++
		case CategoryUnmanaged:
			unmanaged++
		case CategoryTag:
			tag++
		}
		entitySize += ct.size
	}

	return EntityArchetype{
		types:          deduped,
		bits:           bits,
		managedCount:   managed,
		unmanagedCount: unmanaged,
		tagCount:       tag,
		entitySize:     entitySize,
	}, nil
}

// componentLess orders component types by partition (managed, unmanaged,
// tag) and then by ascending id within a partition. Both EntityArchetype's
// member slice and EntityTable's storedTypes slice are built in this order,
// so table.go's two-finger column merge can rely on it as a shared sort key.
func componentLess(a, b ComponentType) bool {
	ra, rb := categoryRank(a.category), categoryRank(b.category)
	if ra != rb {
		return ra < rb
	}
	return a.id < b.id
}

func categoryRank(c Category) int {
	switch c {
	case CategoryManaged:
		return 0
	case CategoryUnmanaged:
		return 1
	default:
		return 2
	}
}

// Contains reports whether ct is a member of this archetype.
func (a EntityArchetype) Contains(ct ComponentType) bool {
	if ct.rtype == nil {
		return false
	}
	return a.bits.ContainsAll(singleBit(ct))
}

// Equal reports whether two archetypes describe the same member set.
func (a EntityArchetype) Equal(o EntityArchetype) bool {
	return a.bits == o.bits
}

// Add returns the archetype with ct added, or the receiver unchanged if ct
// is already a member.
func (a EntityArchetype) Add(ct ComponentType) (EntityArchetype, error) {
	if ct.rtype == nil || a.Contains(ct) {
		return a, nil
	}
	types := make([]ComponentType, len(a.types)+1)
	copy(types, a.types)
	types[len(a.types)] = ct
	return buildArchetype(types)
}

// Remove returns the archetype with ct removed, or the receiver unchanged if
// ct is not a member. Removing the last component yields Base.
func (a EntityArchetype) Remove(ct ComponentType) (EntityArchetype, error) {
	if ct.rtype == nil || !a.Contains(ct) {
		return a, nil
	}
	types := make([]ComponentType, 0, len(a.types))
	for _, t := range a.types {
		if t.id != ct.id {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return Base, nil
	}
	return buildArchetype(types)
}

// Types returns the archetype's members in partition order (managed,
// unmanaged, tag; ascending id within each partition).
func (a EntityArchetype) Types() []ComponentType {
	out := make([]ComponentType, len(a.types))
	copy(out, a.types)
	return out
}

// ManagedCount, UnmanagedCount, and TagCount report the per-category member counts.
func (a EntityArchetype) ManagedCount() int   { return a.managedCount }
func (a EntityArchetype) UnmanagedCount() int { return a.unmanagedCount }
func (a EntityArchetype) TagCount() int       { return a.tagCount }

// EntitySize reports the size, in bytes, of one row of this archetype: the
// entity identifier plus the sum of its components' sizes.
func (a EntityArchetype) EntitySize() uintptr { return a.entitySize }

// IsEmpty reports whether this archetype has no components (i.e. is Base).
func (a EntityArchetype) IsEmpty() bool { return len(a.types) == 0 }

// String renders a sorted, bracketed list of member type names for debugging.
func (a EntityArchetype) String() string {
	if len(a.types) == 0 {
		return "[]"
	}
	names := make([]string, len(a.types))
	for i, ct := range a.types {
		names[i] = ct.String()
	}
	sort.Strings(names)
	return "[" + strings.Join(names, ", ") + "]"
}
