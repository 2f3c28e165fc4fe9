// Package graph defines the resolver's outbound value types: ResolvedGraph,
// ResolvedBindings and State. It sits below both resolver and the root
// driver package so neither needs the other — resolver produces a
// graph.ResolvedGraph, driver and validate consume it.
package graph

import (
	"github.com/bindgraph/core/binding"
	"github.com/bindgraph/core/key"
)

// State is the lattice a resolved BindingKey settles into.
type State int

const (
	// Complete means every transitive dependency resolved to a usable
	// binding.
	Complete State = iota
	// Incomplete means some transitive dependency did not settle Complete
	// (it is Missing, Malformed, duplicated or of mixed kinds), but no cycle
	// was found among Instance-kind edges.
	Incomplete
	// Cycle means this key participates in a dependency cycle with no
	// Provider/Lazy edge breaking it.
	Cycle
	// Missing means lookup produced zero candidate bindings.
	Missing
	// DuplicateBindings means lookup produced more than one unique
	// contribution binding for the same key.
	DuplicateBindings
	// MultipleBindingKinds means the candidate set mixes unique/set/map
	// contribution kinds for the same key.
	MultipleBindingKinds
	// Malformed means lookup itself failed: the key's type exists but its
	// binding could not be constructed (e.g. an ill-formed injection
	// constructor). The failure is carried on ResolvedBindings.Err.
	Malformed
)

func (s State) String() string {
	switch s {
	case Complete:
		return "complete"
	case Incomplete:
		return "incomplete"
	case Cycle:
		return "cycle"
	case Missing:
		return "missing"
	case DuplicateBindings:
		return "duplicate-bindings"
	case MultipleBindingKinds:
		return "multiple-binding-kinds"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ResolvedBindings is the per-key record the resolver installs into its
// growing map: the settled State plus the candidate bindings that produced
// it, and (for Missing/Cycle records) the declaration-order path that led
// the resolver there, for diagnostic rendering.
type ResolvedBindings struct {
	Key      key.BindingKey
	StateVal State
	Bindings []binding.Binding
	Path     []key.BindingKey
	// Err is the lookup failure behind a Malformed record; nil otherwise.
	Err error
}

func (r ResolvedBindings) State() State { return r.StateVal }

// IsClean reports whether this record requires no diagnostic of its own —
// Complete or Incomplete are not themselves errors (Incomplete only matters
// if its *cause*, a Missing or Cycle record elsewhere in the map, is
// reported).
func (r ResolvedBindings) IsClean() bool {
	return r.StateVal == Complete || r.StateVal == Incomplete
}

// ModuleRef names a module type and the modules it directly includes, in
// declaration order, for ResolvedGraph.TransitiveModules.
type ModuleRef struct {
	Module   string
	Includes []string
}

// ResolvedGraph is the per-component outbound value: the resolved map,
// insertion-ordered, plus the entry-point requests that seeded resolution
// and the transitive module closure.
type ResolvedGraph struct {
	Descriptor         string
	EntryPointRequests []key.BindingKey
	order              []key.Canonical
	index              map[key.Canonical]ResolvedBindings
	TransitiveModules  []ModuleRef
}

// NewResolvedGraph builds an empty graph for the named component descriptor.
func NewResolvedGraph(descriptor string) *ResolvedGraph {
	return &ResolvedGraph{
		Descriptor: descriptor,
		index:      map[key.Canonical]ResolvedBindings{},
	}
}

// Put inserts or overwrites rb under its own key, recording first-insertion
// order.
func (g *ResolvedGraph) Put(rb ResolvedBindings) {
	c := rb.Key.Canonical()
	if _, exists := g.index[c]; !exists {
		g.order = append(g.order, c)
	}
	g.index[c] = rb
}

// Get looks up the record for bk.
func (g *ResolvedGraph) Get(bk key.BindingKey) (ResolvedBindings, bool) {
	rb, ok := g.index[bk.Canonical()]
	return rb, ok
}

// Len is the number of distinct keys resolved so far.
func (g *ResolvedGraph) Len() int { return len(g.order) }

// ResolvedBindingsInOrder returns every record in first-insertion order.
func (g *ResolvedGraph) ResolvedBindingsInOrder() []ResolvedBindings {
	out := make([]ResolvedBindings, 0, len(g.order))
	for _, c := range g.order {
		out = append(out, g.index[c])
	}
	return out
}

