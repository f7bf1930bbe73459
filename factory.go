package ecs

// Factory gathers the package's constructors under one namespace, mirroring
// the teacher's convenience entry point for wiring up a fresh store.
var Factory factory

type factory struct{}

// NewRegistry creates an empty registry.
func (factory) NewRegistry() *EntityRegistry { return NewRegistry() }

// NewFilterBuilder starts an empty filter builder.
func (factory) NewFilterBuilder() *FilterBuilder { return NewFilterBuilder() }

// NewQuery builds a query over source's groupings, restricted to filter.
func (factory) NewQuery(source LookupSource, filter EntityFilter) *EntityQuery {
	return NewQuery(source, filter)
}
