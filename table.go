package ecs

import "reflect"

// EntityTable is a column-oriented store for rows of entities sharing one
// archetype: one implicit entity column plus one reflect-backed column per
// non-tag component, all sized to the same fixed capacity.
type EntityTable struct {
	archetype   EntityArchetype
	owner       *EntityRegistry
	entities    []Entity
	storedTypes []ComponentType // archetype.types minus tags, same relative order
	columns     []reflect.Value // one reflect.Value slice per storedTypes entry
	count       int
	capacity    int
	version     uint64
}

func newTable(a EntityArchetype, owner *EntityRegistry, capacity int) (*EntityTable, error) {
	if capacity <= 0 {
		capacity = minTableCapacity
	}

	var storedTypes []ComponentType
	var columns []reflect.Value
	for _, ct := range a.types {
		if ct.category == CategoryTag {
			continue
		}
		storedTypes = append(storedTypes, ct)
		columns = append(columns, reflect.MakeSlice(reflect.SliceOf(ct.rtype), capacity, capacity))
	}

	return &EntityTable{
		archetype:   a,
		owner:       owner,
		entities:    make([]Entity, 0, capacity),
		storedTypes: storedTypes,
		columns:     columns,
		capacity:    capacity,
	}, nil
}

// tableCapacityFor sizes a fresh table to roughly targetTableBytes, floored
// at minTableCapacity.
func tableCapacityFor(a EntityArchetype) int {
	if a.entitySize == 0 {
		return minTableCapacity
	}
	n := int(targetTableBytes / a.entitySize)
	if n < minTableCapacity {
		return minTableCapacity
	}
	return n
}

// Archetype returns the archetype this table stores rows for.
func (t *EntityTable) Archetype() EntityArchetype { return t.archetype }

// Count returns the number of live rows.
func (t *EntityTable) Count() int { return t.count }

// Capacity returns the fixed row capacity.
func (t *EntityTable) Capacity() int { return t.capacity }

// IsFull reports whether the table has no free rows.
func (t *EntityTable) IsFull() bool { return t.count == t.capacity }

// IsEmpty reports whether the table has no live rows.
func (t *EntityTable) IsEmpty() bool { return t.count == 0 }

// Version returns a counter bumped on every structural mutation, for
// detecting whether a previously obtained row index is still valid.
func (t *EntityTable) Version() uint64 { return t.version }

// Entities returns the live entity identifiers, in row order.
func (t *EntityTable) Entities() []Entity { return t.entities[:t.count] }

func (t *EntityTable) columnFor(ct ComponentType) (reflect.Value, bool) {
	for i, st := range t.storedTypes {
		if st.id == ct.id {
			return t.columns[i], true
		}
	}
	return reflect.Value{}, false
}

// Components returns a slice over T's column, sharing storage with the
// table so in-place writes through the returned slice mutate stored data.
func Components[T any](t *EntityTable) ([]T, error) {
	ct := TypeOf[T]()
	if ct.category == CategoryTag {
		return nil, ErrComponentTypeMissing{Component: ct}
	}
	col, ok := t.columnFor(ct)
	if !ok {
		return nil, ErrComponentTypeMissing{Component: ct}
	}
	return col.Slice(0, t.count).Interface().([]T), nil
}

// TryComponents is Components without the error: ok is false if T has no
// column in this table.
func TryComponents[T any](t *EntityTable) ([]T, bool) {
	s, err := Components[T](t)
	return s, err == nil
}

// add appends e as a new row, zero-initializing its component columns.
// Assumes the caller holds the owning registry's lock.
func (t *EntityTable) add(e Entity) error {
	if t.count == t.capacity {
		return ErrTableFull{}
	}
	idx := t.count
	t.entities = append(t.entities, e)
	for i := range t.columns {
		elemType := t.columns[i].Type().Elem()
		t.columns[i].Index(idx).Set(reflect.Zero(elemType))
	}
	t.count++
	t.version++
	return nil
}

// removeAt swaps the last row into i (unless i is already last) and shrinks
// the table by one row, clearing managed columns at the vacated slot so the
// GC can reclaim what they referenced. It reports the entity that was moved
// into i, if any, so the caller can patch that entity's record. Assumes the
// caller holds the owning registry's lock.
func (t *EntityTable) removeAt(i int) (Entity, bool) {
	last := t.count - 1
	moved := i != last
	var movedEntity Entity
	if moved {
		movedEntity = t.entities[last]
		t.entities[i] = movedEntity
		for _, col := range t.columns {
			col.Index(i).Set(col.Index(last))
		}
	}
	for ci, st := range t.storedTypes {
		if st.category == CategoryManaged {
			col := t.columns[ci]
			col.Index(last).Set(reflect.Zero(col.Type().Elem()))
		}
	}
	t.entities = t.entities[:last]
	t.count--
	t.version++
	return movedEntity, moved
}

// copyRange two-finger merges length rows starting at srcStart in src into
// dst starting at dstStart: columns present in both tables are bit-copied,
// columns present only in dst are zero-filled. Entities are always copied.
func copyRange(dst, src *EntityTable, dstStart, srcStart, length int, growing bool) {
	for k := 0; k < length; k++ {
		e := src.entities[srcStart+k]
		if growing {
			dst.entities = append(dst.entities, e)
		} else {
			dst.entities[dstStart+k] = e
		}
	}

	si := 0
	for di, dstType := range dst.storedTypes {
		for si < len(src.storedTypes) && componentLess(src.storedTypes[si], dstType) {
			si++
		}
		dstCol := dst.columns[di]
		if si < len(src.storedTypes) && src.storedTypes[si].id == dstType.id {
			srcCol := src.columns[si]
			for k := 0; k < length; k++ {
				dstCol.Index(dstStart + k).Set(srcCol.Index(srcStart + k))
			}
		} else {
			zero := reflect.Zero(dstCol.Type().Elem())
			for k := 0; k < length; k++ {
				dstCol.Index(dstStart + k).Set(zero)
			}
		}
	}
}

// addRange appends length rows copied from src starting at srcIndex.
// Assumes the caller holds the owning registry's lock.
func (t *EntityTable) addRange(src *EntityTable, srcIndex, length int) error {
	if t.count+length > t.capacity {
		return ErrTableFull{}
	}
	copyRange(t, src, t.count, srcIndex, length, true)
	t.count += length
	t.version++
	return nil
}

// setRange overwrites length existing rows starting at dstIndex with rows
// copied from src starting at srcIndex. Assumes the caller holds the
// owning registry's lock.
func (t *EntityTable) setRange(dstIndex int, src *EntityTable, srcIndex, length int) error {
	if dstIndex < 0 || dstIndex+length > t.count {
		return ErrOutOfRange{Index: dstIndex, Count: t.count}
	}
	copyRange(t, src, dstIndex, srcIndex, length, false)
	t.version++
	return nil
}

// importRow appends one row copied from src at srcIndex, returning the new
// row's index. Assumes the caller holds the owning registry's lock.
func (t *EntityTable) importRow(src *EntityTable, srcIndex int) (int, error) {
	if t.count >= t.capacity {
		return -1, ErrTableFull{}
	}
	dstIndex := t.count
	copyRange(t, src, dstIndex, srcIndex, 1, true)
	t.count++
	t.version++
	return dstIndex, nil
}
