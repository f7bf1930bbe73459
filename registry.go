package ecs

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/TheBitDrifter/bark"
)

// record is a registry's bookkeeping for one entity slot: which table holds
// its row, which row, and the generation counter guarding against stale
// handles from a recycled slot.
type record struct {
	table   *EntityTable
	index   int32
	version int32
}

type containerState struct {
	records   []record
	size      int
	nextIndex int
	freeList  []int32
}

// EntityRegistry is the single-writer facade coordinating entity creation,
// destruction, archetype transformation, and component mutation. All
// mutating methods serialize on mu; read-only observers (Contains,
// HasComponent, Find, TryGetComponent) take a brief read lock rather than
// being fully lock-free — a deliberate strengthening of "volatile" field
// reads to satisfy Go's memory model, see DESIGN.md. The archetype lookup
// itself is published through a separate atomic pointer so EntityQuery can
// refresh without contending this lock at all.
type EntityRegistry struct {
	mu        sync.RWMutex
	container containerState
	lookupPtr atomic.Pointer[EntityLookup]
}

// NewRegistry creates an empty registry.
func NewRegistry() *EntityRegistry {
	r := &EntityRegistry{}
	empty := newLookup()
	r.lookupPtr.Store(&empty)
	return r
}

// Lookup returns the current archetype lookup snapshot without blocking on
// in-flight mutations.
func (r *EntityRegistry) Lookup() EntityLookup {
	return *r.lookupPtr.Load()
}

// Create makes a new entity with no components, in Base.
func (r *EntityRegistry) Create() (Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createNew(Base)
}

// CreateInArchetype makes a new entity in archetype a, routing to an
// existing table with a free row or creating one.
func (r *EntityRegistry) CreateInArchetype(a EntityArchetype) (Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createNew(a)
}

// CreateInTable makes a new entity directly in table t, which must be owned
// by this registry and have a free row.
func (r *EntityRegistry) CreateInTable(t *EntityTable) (Entity, error) {
	if t == nil {
		return Entity{}, ErrNullArgument{Field: "table"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.owner != r {
		return Entity{}, ErrUnmodifiableTable{}
	}
	if t.IsFull() {
		return Entity{}, ErrTableFull{}
	}
	if t.count == 0 {
		r.publishTable(t)
	}
	return r.createIn(t)
}

func (r *EntityRegistry) createNew(a EntityArchetype) (Entity, error) {
	t, err := r.findOrCreateDestination(a)
	if err != nil {
		return Entity{}, err
	}
	return r.createIn(t)
}

func (r *EntityRegistry) createIn(t *EntityTable) (Entity, error) {
	idx := r.allocIndex()
	version := r.container.records[idx].version
	row := t.count
	ent := Entity{Index: idx, Version: version}
	if err := t.add(ent); err != nil {
		r.freeIndex(idx)
		return Entity{}, err
	}
	r.container.records[idx] = record{table: t, index: int32(row), version: version}
	return ent, nil
}

// Destroy removes the entity, reporting false if it did not resolve.
func (r *EntityRegistry) Destroy(e Entity) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.recordForLocked(e)
	if !ok {
		return false, nil
	}
	t := rec.table
	idx := int(rec.index)

	r.invalidate(e.Index)
	movedEntity, moved := t.removeAt(idx)
	if moved {
		r.patchIndex(movedEntity, int32(idx))
	}
	r.freeIndex(e.Index)

	if t.count == 0 {
		r.unpublishTable(t)
	}
	return true, nil
}

// Transform moves the entity into archetype a, a no-op if it is already there.
func (r *EntityRegistry) Transform(e Entity, a EntityArchetype) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.recordForLocked(e)
	if !ok {
		return ErrEntityNotFound{Entity: e}
	}
	if rec.table.archetype.Equal(a) {
		return nil
	}
	dst, err := r.findOrCreateDestination(a)
	if err != nil {
		return err
	}
	return r.moveRow(e, rec, dst)
}

// Move relocates the entity into a caller-supplied table of the same or
// different archetype. dst must be owned by this registry and have a free row.
func (r *EntityRegistry) Move(e Entity, dst *EntityTable) error {
	if dst == nil {
		return ErrNullArgument{Field: "destination"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if dst.owner != r {
		return ErrUnmodifiableTable{}
	}
	if dst.IsFull() {
		return ErrTableFull{}
	}
	rec, ok := r.recordForLocked(e)
	if !ok {
		return ErrEntityNotFound{Entity: e}
	}
	if dst.count == 0 {
		r.publishTable(dst)
	}
	return r.moveRow(e, rec, dst)
}

// AddComponent adds ct to the entity's archetype, moving it to (or creating)
// the destination table. It reports false if ct was already present.
func (r *EntityRegistry) AddComponent(e Entity, ct ComponentType) (bool, error) {
	if ct.rtype == nil {
		return false, ErrNullArgument{Field: "component"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addComponent(e, ct)
}

// RemoveComponent removes ct from the entity's archetype. It reports false
// if ct was not present.
func (r *EntityRegistry) RemoveComponent(e Entity, ct ComponentType) (bool, error) {
	if ct.rtype == nil {
		return false, ErrNullArgument{Field: "component"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeComponent(e, ct)
}

// HasComponent reports whether the entity's archetype includes ct.
func (r *EntityRegistry) HasComponent(e Entity, ct ComponentType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recordForLocked(e)
	if !ok {
		return false
	}
	return rec.table.archetype.Contains(ct)
}

// Contains reports whether the entity currently resolves to a live row.
func (r *EntityRegistry) Contains(e Entity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.recordForLocked(e)
	return ok
}

// Find returns the table and row index backing the entity.
func (r *EntityRegistry) Find(e Entity) (*EntityTable, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recordForLocked(e)
	if !ok {
		return nil, 0, ErrEntityNotFound{Entity: e}
	}
	return rec.table, int(rec.index), nil
}

// AddComponent adds a typed component with an initial value, creating the
// data column transition if needed. A no-op write (same T already present)
// still overwrites the value.
func AddComponent[T any](r *EntityRegistry, e Entity, value T) error {
	ct := TypeOf[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.addComponent(e, ct); err != nil {
		return err
	}
	return r.setComponentLocked(e, ct, value)
}

// SetComponent overwrites an existing component's value. It is a no-op for
// tag components, which carry no data.
func SetComponent[T any](r *EntityRegistry, e Entity, value T) error {
	ct := TypeOf[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setComponentLocked(e, ct, value)
}

// RemoveComponent removes a typed component, returning the value it held.
func RemoveComponent[T any](r *EntityRegistry, e Entity) (T, error) {
	var zero T
	ct := TypeOf[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.recordForLocked(e)
	if !ok {
		return zero, ErrEntityNotFound{Entity: e}
	}
	value := zero
	if col, ok := rec.table.columnFor(ct); ok {
		value = col.Index(int(rec.index)).Interface().(T)
	}
	if _, err := r.removeComponent(e, ct); err != nil {
		return zero, err
	}
	return value, nil
}

// TryGetComponent reads a typed component's current value without taking
// the registry's write lock.
func TryGetComponent[T any](r *EntityRegistry, e Entity) (T, bool) {
	var zero T
	ct := TypeOf[T]()

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.recordForLocked(e)
	if !ok {
		return zero, false
	}
	col, ok := rec.table.columnFor(ct)
	if !ok {
		return zero, false
	}
	return col.Index(int(rec.index)).Interface().(T), true
}

func (r *EntityRegistry) setComponentLocked(e Entity, ct ComponentType, value any) error {
	if ct.category == CategoryTag {
		return nil
	}
	rec, ok := r.recordForLocked(e)
	if !ok {
		return ErrEntityNotFound{Entity: e}
	}
	col, ok := rec.table.columnFor(ct)
	if !ok {
		return ErrComponentTypeMissing{Component: ct}
	}
	col.Index(int(rec.index)).Set(reflect.ValueOf(value))
	return nil
}

func (r *EntityRegistry) addComponent(e Entity, ct ComponentType) (bool, error) {
	rec, ok := r.recordForLocked(e)
	if !ok {
		return false, ErrEntityNotFound{Entity: e}
	}
	src := rec.table
	if src.archetype.Contains(ct) {
		return false, nil
	}
	target, err := r.archetypeWith(src, ct)
	if err != nil {
		return false, err
	}
	dst, err := r.findOrCreateDestination(target)
	if err != nil {
		return false, err
	}
	if err := r.moveRow(e, rec, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *EntityRegistry) removeComponent(e Entity, ct ComponentType) (bool, error) {
	rec, ok := r.recordForLocked(e)
	if !ok {
		return false, ErrEntityNotFound{Entity: e}
	}
	src := rec.table
	if !src.archetype.Contains(ct) {
		return false, nil
	}
	target, err := r.archetypeWithout(src, ct)
	if err != nil {
		return false, err
	}
	dst, err := r.findOrCreateDestination(target)
	if err != nil {
		return false, err
	}
	if err := r.moveRow(e, rec, dst); err != nil {
		return false, err
	}
	return true, nil
}

// archetypeWith derives the destination archetype for adding ct to t's
// archetype, preferring a cached edge over a fresh bitset derivation.
func (r *EntityRegistry) archetypeWith(t *EntityTable, ct ComponentType) (EntityArchetype, error) {
	lk := r.Lookup()
	g, hasGrouping := lk.TryGet(t.archetype)
	if hasGrouping {
		if bits, found := g.cachedWith(ct); found {
			if target, ok := lk.archetypeForBits(bits); ok {
				return target, nil
			}
		}
	}
	target, err := t.archetype.Add(ct)
	if err != nil {
		return EntityArchetype{}, err
	}
	if hasGrouping {
		g.cacheWith(ct, target.bits)
	}
	return target, nil
}

// archetypeWithout is archetypeWith's mirror for component removal.
func (r *EntityRegistry) archetypeWithout(t *EntityTable, ct ComponentType) (EntityArchetype, error) {
	lk := r.Lookup()
	g, hasGrouping := lk.TryGet(t.archetype)
	if hasGrouping {
		if bits, found := g.cachedWithout(ct); found {
			if target, ok := lk.archetypeForBits(bits); ok {
				return target, nil
			}
		}
	}
	target, err := t.archetype.Remove(ct)
	if err != nil {
		return EntityArchetype{}, err
	}
	if hasGrouping {
		g.cacheWithout(ct, target.bits)
	}
	return target, nil
}

// findOrCreateDestination returns a table of archetype a with a free row,
// reusing one from the current grouping if available, otherwise building
// and publishing a fresh one.
func (r *EntityRegistry) findOrCreateDestination(a EntityArchetype) (*EntityTable, error) {
	lk := r.Lookup()
	if g, ok := lk.TryGet(a); ok {
		if t := g.firstWithFreeRow(); t != nil {
			return t, nil
		}
	}
	t, err := newTable(a, r, tableCapacityFor(a))
	if err != nil {
		return nil, err
	}
	r.publishTable(t)
	return t, nil
}

// moveRow transplants the entity's row from its current table into dst,
// patching whichever entity was swapped into the vacated source slot, and
// unpublishing the source table if it is now empty.
func (r *EntityRegistry) moveRow(e Entity, rec record, dst *EntityTable) error {
	src := rec.table
	srcIndex := int(rec.index)

	newIndex, err := dst.importRow(src, srcIndex)
	if err != nil {
		return err
	}
	r.container.records[e.Index] = record{table: dst, index: int32(newIndex), version: rec.version}

	movedEntity, moved := src.removeAt(srcIndex)
	if moved {
		r.patchIndex(movedEntity, int32(srcIndex))
	}
	if src.count == 0 {
		r.unpublishTable(src)
	}
	return nil
}

func (r *EntityRegistry) publishTable(t *EntityTable) {
	lk := r.Lookup()
	g, ok := lk.TryGet(t.archetype)
	if !ok {
		g = newGrouping(t.archetype)
	}
	newLk := lk.withGrouping(g.withAppended(t))
	r.lookupPtr.Store(&newLk)
}

// unpublishTable removes t from its grouping and republishes the result,
// even if the grouping is now empty. The grouping's slot in the lookup's
// order is never dropped: EntityQuery caches matched groupings by their
// bits and indexes the lookup by position, so a table emptying must leave
// something in place rather than shift every later grouping's index down.
func (r *EntityRegistry) unpublishTable(t *EntityTable) {
	lk := r.Lookup()
	g, ok := lk.TryGet(t.archetype)
	if !ok {
		return
	}
	newLk := lk.withGrouping(g.withRemoved(t))
	r.lookupPtr.Store(&newLk)
}

func (r *EntityRegistry) recordForLocked(e Entity) (record, bool) {
	c := &r.container
	if e.Index < 0 || int(e.Index) >= c.nextIndex {
		return record{}, false
	}
	rec := c.records[e.Index]
	if rec.table == nil || rec.index < 0 || rec.version != e.Version {
		return record{}, false
	}
	return rec, true
}

func (r *EntityRegistry) invalidate(idx int32) {
	rec := &r.container.records[idx]
	rec.table = nil
	rec.index = -1
	rec.version++
}

// patchIndex updates the row index recorded for an entity the caller just
// swap-moved into a vacated slot. The record must still resolve to e: this
// entity was read out of a live table a moment ago under the same lock, so
// if its own record has gone stale or vanished in between, the registry's
// bookkeeping has corrupted itself somewhere upstream.
func (r *EntityRegistry) patchIndex(e Entity, newIndex int32) {
	rec := &r.container.records[e.Index]
	if rec.table == nil || rec.version != e.Version {
		panic(bark.AddTrace(ErrRecordCorrupted{Entity: e}))
	}
	rec.index = newIndex
}

func (r *EntityRegistry) allocIndex() int32 {
	c := &r.container
	if n := len(c.freeList); n > 0 {
		idx := c.freeList[n-1]
		c.freeList = c.freeList[:n-1]
		c.size++
		return idx
	}
	if c.nextIndex == len(c.records) {
		r.growContainer()
	}
	idx := int32(c.nextIndex)
	c.nextIndex++
	c.size++
	return idx
}

func (r *EntityRegistry) freeIndex(idx int32) {
	c := &r.container
	c.freeList = append(c.freeList, idx)
	c.size--
}

func (r *EntityRegistry) growContainer() {
	c := &r.container
	newCap := 2 * len(c.records)
	if newCap < defaultContainerCapacity {
		newCap = defaultContainerCapacity
	}
	records := make([]record, newCap)
	copy(records, c.records[:c.size])
	c.records = records
	c.nextIndex = c.size
	c.freeList = c.freeList[:0]
}
