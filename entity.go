package ecs

// Entity identifies a row in some table by a recycled slot index and a
// generation counter. It is a plain value type: equality is component-wise
// (Go's == already does this for a struct of comparable fields), and a
// stale handle from a recycled slot is detected by version mismatch, not by
// any flag on the Entity value itself.
type Entity struct {
	Index   int32
	Version int32
}
