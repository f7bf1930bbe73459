package ecs

import "fmt"

// ErrNullArgument reports a required argument that was nil or its zero value
// where a concrete value was required.
type ErrNullArgument struct {
	Field string
}

func (e ErrNullArgument) Error() string {
	return fmt.Sprintf("ecs: %s must not be null", e.Field)
}

// ErrOutOfRange reports an index outside [0, Count).
type ErrOutOfRange struct {
	Index int
	Count int
}

func (e ErrOutOfRange) Error() string {
	return fmt.Sprintf("ecs: index %d out of range [0,%d)", e.Index, e.Count)
}

// ErrTableFull reports an insert into a table already at capacity.
type ErrTableFull struct{}

func (e ErrTableFull) Error() string {
	return "ecs: table is full"
}

// ErrTableReadOnly reports a mutating call on a table outside its owning
// registry's critical section.
type ErrTableReadOnly struct{}

func (e ErrTableReadOnly) Error() string {
	return "ecs: table is read-only outside the owning registry's critical section"
}

// ErrUnmodifiableTable reports a table supplied to a registry that does not own it.
type ErrUnmodifiableTable struct{}

func (e ErrUnmodifiableTable) Error() string {
	return "ecs: table is not owned by this registry"
}

// ErrEntityNotFound reports an entity whose record no longer resolves
// (destroyed, or a stale handle from a recycled slot).
type ErrEntityNotFound struct {
	Entity Entity
}

func (e ErrEntityNotFound) Error() string {
	return fmt.Sprintf("ecs: entity %+v not found", e.Entity)
}

// ErrComponentTypeMissing reports a component type absent from a table's archetype.
type ErrComponentTypeMissing struct {
	Component ComponentType
}

func (e ErrComponentTypeMissing) Error() string {
	return fmt.Sprintf("ecs: component type %s missing from table", e.Component)
}

// ErrComponentSpaceExhausted reports an archetype that would need a component
// bit beyond the fixed bitset width.
type ErrComponentSpaceExhausted struct {
	Limit int
}

func (e ErrComponentSpaceExhausted) Error() string {
	return fmt.Sprintf("ecs: component id space exhausted (limit %d)", e.Limit)
}

// ErrRecordCorrupted reports an entity record that no longer matches an
// entity the registry itself just swap-moved into it. Unlike
// ErrEntityNotFound, this is never a normal outcome of a caller's handle
// going stale; it means the registry's own bookkeeping disagrees with itself.
type ErrRecordCorrupted struct {
	Entity Entity
}

func (e ErrRecordCorrupted) Error() string {
	return fmt.Sprintf("ecs: record corrupted for entity %+v", e.Entity)
}
