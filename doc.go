/*
Package ecs provides the data plane of an archetype-based Entity-Component-System
store for games and real-time simulations.

Entities with the same set of component types are stored together in
column-oriented tables so that a scheduler can iterate homogeneous batches
with minimal indirection. The package covers component-type identity,
archetype descriptors, the column tables themselves, the archetype lookup
index, filters, queries, and the single-writer registry facade that
coordinates entity creation, destruction, archetype transformation, and
component mutation.

Core Concepts:

  - ComponentType: a process-unique identity for a Go type used as a component.
  - Entity: an opaque (index, version) identifier naming a row in some table.
  - EntityArchetype: the canonical, ordered set of component types an entity carries.
  - EntityTable: the column store holding rows of entities of one archetype.
  - EntityLookup: the archetype-keyed index of groupings of tables.
  - EntityFilter / EntityQuery: a declarative predicate over archetypes and
    an incremental enumerator of the tables that satisfy it.

Basic usage:

	registry := ecs.NewRegistry()

	position := ecs.TypeOf[Position]()
	velocity := ecs.TypeOf[Velocity]()

	archetype, _ := ecs.NewArchetype(position, velocity)
	e, _ := registry.CreateInArchetype(archetype)
	_ = ecs.SetComponent(registry, e, Position{X: 3, Y: 4})

	filter := ecs.NewFilterBuilder().Require(position, velocity).Build()
	query := ecs.NewQuery(registry, filter)

	for table := range query.Tables() {
		positions, _ := ecs.Components[Position](table)
		velocities, _ := ecs.Components[Velocity](table)
		for i := range positions {
			positions[i].X += velocities[i].X
			positions[i].Y += velocities[i].Y
		}
	}

This package has no outer scheduler, no serialization, no networking, and no
CLI — those are left to the caller.
*/
package ecs
