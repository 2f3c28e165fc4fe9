package graph

import "github.com/bindgraph/core/key"

// Snapshot is the canonical ordered form of a ResolvedGraph: every record in
// first-insertion order, plus the entry-point keys and transitive module
// closure, with no map left to iterate. A Snapshot rebuilt into a graph via
// FromSnapshot preserves entry-point order and per-key binding order.
type Snapshot struct {
	Descriptor         string
	EntryPointRequests []key.BindingKey
	Records            []ResolvedBindings
	TransitiveModules  []ModuleRef
}

// Snapshot freezes g into its canonical ordered form. Bindings are shared,
// not copied: a Snapshot is an ordering artifact, not a deep clone.
func (g *ResolvedGraph) Snapshot() Snapshot {
	return Snapshot{
		Descriptor:         g.Descriptor,
		EntryPointRequests: append([]key.BindingKey(nil), g.EntryPointRequests...),
		Records:            g.ResolvedBindingsInOrder(),
		TransitiveModules:  append([]ModuleRef(nil), g.TransitiveModules...),
	}
}

// FromSnapshot rebuilds a ResolvedGraph from s. Records re-enter the map in
// slice order, so the rebuilt graph's insertion order, entry-point order and
// per-key binding order all match the graph s was taken from.
func FromSnapshot(s Snapshot) *ResolvedGraph {
	g := NewResolvedGraph(s.Descriptor)
	g.EntryPointRequests = append([]key.BindingKey(nil), s.EntryPointRequests...)
	g.TransitiveModules = append([]ModuleRef(nil), s.TransitiveModules...)
	for _, rb := range s.Records {
		g.Put(rb)
	}
	return g
}
