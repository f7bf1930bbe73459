package ecs

import "github.com/TheBitDrifter/mask"

// bitsFor derives the archetype bitset for a set of component types.
func bitsFor(types ...ComponentType) mask.Mask {
	var m mask.Mask
	for _, t := range types {
		m.Mark(t.id)
	}
	return m
}

// singleBit derives the single-component bitset used for membership tests.
func singleBit(ct ComponentType) mask.Mask {
	var m mask.Mask
	m.Mark(ct.id)
	return m
}
