package ecs

// targetTableBytes is the rough per-table byte budget used to size a fresh
// table's row capacity: capacity = max(targetTableBytes/entitySize, minTableCapacity).
const targetTableBytes = 16 * 1024

// minTableCapacity is the floor applied to every table regardless of entity size.
const minTableCapacity = 128

// defaultContainerCapacity is the initial size of a registry's entity record store.
const defaultContainerCapacity = 4

// maxComponentBits bounds how many distinct ComponentType ids an archetype's
// bitset can address. mask.Mask is a fixed-width word array; an archetype
// that would need a bit beyond this width fails construction with
// ErrComponentSpaceExhausted rather than silently truncating.
const maxComponentBits = 256
