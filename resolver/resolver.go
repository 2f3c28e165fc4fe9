// Package resolver implements the graph resolver — the heart of the
// system: given a component's explicit bindings and the inject-binding
// registry, it recursively resolves every entry-point request into an
// insertion-ordered map of BindingKey → ResolvedBindings.
//
// Resolution is a depth-first walk with an explicit cycle stack. User
// errors never abort it: a key that cannot be satisfied settles into a
// state (Missing, Cycle, Malformed, ...) so the validator can report every
// problem in one pass.
package resolver

import (
	"sort"

	"github.com/bindgraph/core/binding"
	"github.com/bindgraph/core/graph"
	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/registry"
	"github.com/bindgraph/core/request"
)

// Resolver holds the state of one resolution run over one component
// descriptor: the explicit-bindings multimap built once up front, the
// shared registry for on-demand injection/members-injection bindings, the
// growing resolved map, and the current cycle-detection stack. It carries
// no internal lock — the single-threaded cooperative model applies.
type Resolver struct {
	explicit       map[key.Canonical][]binding.Binding
	registry       *registry.Registry
	graph          *graph.ResolvedGraph
	cycleStack     []key.BindingKey
	stackBreaking  []bool // whether the edge that pushed cycleStack[i] breaks cycles
	stackIndex     map[key.Canonical]int
}

// New builds a Resolver for one component descriptor's explicit bindings.
// explicit must already group every contribution by its BindingKey
// (component-self, component-dependency provision methods, and every
// @Provides/@Produces method of every transitively included module).
func New(descriptorName string, explicit map[key.Canonical][]binding.Binding, reg *registry.Registry) *Resolver {
	return &Resolver{
		explicit:   explicit,
		registry:   reg,
		graph:      graph.NewResolvedGraph(descriptorName),
		stackIndex: map[key.Canonical]int{},
	}
}

// ResolveEntryPoints runs resolve for each entry-point request in
// declaration order (insertion order follows first-encountered order from
// the declared entry-point list), records the entry-point keys onto the
// graph, and returns the accumulated graph.
func (r *Resolver) ResolveEntryPoints(requests []request.Request) *graph.ResolvedGraph {
	entryKeys := make([]key.BindingKey, 0, len(requests))
	for _, req := range requests {
		entryKeys = append(entryKeys, req.BindingKey())
		r.resolve(req.BindingKey(), false)
	}
	r.graph.EntryPointRequests = entryKeys
	return r.graph
}

// resolve implements the resolution algorithm for a single BindingKey.
// enteredVia is true when the dependency edge that triggered this call is a
// Provider/Lazy/ProviderOfLazy edge: such an edge legally breaks any cycle
// it closes, so long as at least one edge along the path back to the
// repeated key is of that kind.
func (r *Resolver) resolve(bk key.BindingKey, enteredVia bool) graph.State {
	if rb, ok := r.graph.Get(bk); ok {
		return rb.StateVal
	}
	c := bk.Canonical()
	if idx, onStack := r.stackIndex[c]; onStack {
		broken := enteredVia
		for i := idx + 1; i < len(r.stackBreaking); i++ {
			if r.stackBreaking[i] {
				broken = true
			}
		}
		if broken {
			return graph.Complete
		}
		return graph.Cycle
	}

	r.cycleStack = append(r.cycleStack, bk)
	r.stackBreaking = append(r.stackBreaking, enteredVia)
	r.stackIndex[c] = len(r.cycleStack) - 1
	defer func() {
		r.cycleStack = r.cycleStack[:len(r.cycleStack)-1]
		r.stackBreaking = r.stackBreaking[:len(r.stackBreaking)-1]
		delete(r.stackIndex, c)
	}()

	bindings, lookupErr := r.lookup(bk)
	depState := r.resolveDependencies(bindings)
	state, overridden := r.validate(bindings)
	if !overridden {
		state = depState
	}
	if lookupErr != nil {
		state = graph.Malformed
	}

	rb := graph.ResolvedBindings{
		Key:      bk,
		StateVal: state,
		Bindings: bindings,
		Err:      lookupErr,
	}
	if state == graph.Missing || state == graph.Cycle || state == graph.Malformed {
		rb.Path = append([]key.BindingKey(nil), r.cycleStack...)
	}
	r.graph.Put(rb)
	return state
}

// lookup resolves a single BindingKey against the explicit multimap first,
// then the registry's on-demand injection lookup. A non-nil error means the
// key's binding exists in principle but could not be constructed — the
// caller records it as a Malformed state rather than Missing.
func (r *Resolver) lookup(bk key.BindingKey) ([]binding.Binding, error) {
	if bk.Kind() == key.MembersInjection {
		b, err := r.registry.GetOrFindMembersInjection(bk.Key())
		if err != nil {
			return nil, err
		}
		return []binding.Binding{b}, nil
	}

	k := bk.Key()
	contribs := r.explicit[bk.Canonical()]
	if len(contribs) > 0 {
		if implicitKey, ok := key.ImplicitMapProviderKey(k); ok {
			implicitBK := key.ContributionKey(implicitKey)
			if extra := r.explicit[implicitBK.Canonical()]; len(extra) > 0 {
				contribs = append(append([]binding.Binding(nil), contribs...), extra...)
			}
		}
		return r.collapseHomogeneous(bk, contribs), nil
	}

	if providerKey, ok := key.ImplicitMapProviderKey(k); ok {
		providerBK := key.ContributionKey(providerKey)
		if providerContribs := r.explicit[providerBK.Canonical()]; len(providerContribs) > 0 {
			return []binding.Binding{binding.NewSyntheticMapOfProvider(bk, providerBK)}, nil
		}
	}

	b, found, err := r.registry.GetOrFindProvision(k)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return []binding.Binding{b}, nil
}

// collapseHomogeneous groups multiple contributions sharing bk into a
// single binding.SyntheticMultibinding when they are all the same non-Unique
// contribution kind (Set/SetValues/Map), sorted by declaration order. A
// single contribution, or a mixed/Unique set, passes through unchanged so
// validate can apply the homogeneity/duplicate rules.
func (r *Resolver) collapseHomogeneous(bk key.BindingKey, contribs []binding.Binding) []binding.Binding {
	if len(contribs) <= 1 {
		return contribs
	}
	first, ok := contribs[0].ContributionType()
	if !ok || first == key.Unique {
		return contribs
	}
	for _, c := range contribs[1:] {
		ct, ok := c.ContributionType()
		if !ok || ct != first {
			return contribs
		}
	}
	sorted := append([]binding.Binding(nil), contribs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DeclarationOrder().Less(sorted[j].DeclarationOrder())
	})
	return []binding.Binding{binding.NewSyntheticMultibinding(bk, first, sorted)}
}

// resolveDependencies recurses into every binding's implicit dependencies
// and aggregates via the state lattice (Cycle beats Incomplete beats
// Complete).
//
// A Provider/Lazy/ProviderOfLazy edge legally defers construction, so a
// Cycle signaled purely by recursing back through such an edge does not
// itself make this binding a Cycle — only an Instance-kind path back to an
// ancestor does. Missing/Incomplete still propagate through a deferred
// edge: a Provider<B> whose B can never be built is still a real problem,
// just not a cycle.
func (r *Resolver) resolveDependencies(bindings []binding.Binding) graph.State {
	state := graph.Complete
	any := false
	for _, b := range bindings {
		for _, dep := range b.ImplicitDependencies() {
			any = true
			depState := r.resolve(dep.BindingKey(), dep.Kind().BreaksCycles())
			if depState == graph.Cycle && dep.Kind().BreaksCycles() {
				continue
			}
			switch {
			case depState == graph.Cycle:
				state = graph.Cycle
			case state != graph.Cycle && depState != graph.Complete:
				state = graph.Incomplete
			}
		}
	}
	if !any {
		return graph.Complete
	}
	return state
}

// validate returns an override state for an ill-formed candidate set, or
// (false) no override.
func (r *Resolver) validate(bindings []binding.Binding) (graph.State, bool) {
	if len(bindings) == 0 {
		return graph.Missing, true
	}
	if len(bindings) == 1 {
		return graph.Complete, false
	}

	kinds := map[string]bool{}
	uniqueCount := 0
	membersInjectionCount := 0
	for _, b := range bindings {
		if b.BindingType() == binding.MembersInjectionType {
			membersInjectionCount++
			continue
		}
		ct, ok := b.ContributionType()
		if !ok || ct == key.Unique {
			uniqueCount++
		}
		if ok {
			kinds[ct.String()] = true
		}
	}
	if membersInjectionCount > 0 && membersInjectionCount != len(bindings) {
		// Invariant violation: never a user error, but the resolver still
		// must settle on a state rather than panic.
		return graph.DuplicateBindings, true
	}
	if len(kinds) > 1 {
		return graph.MultipleBindingKinds, true
	}
	if uniqueCount > 1 {
		return graph.DuplicateBindings, true
	}
	if membersInjectionCount > 1 {
		return graph.DuplicateBindings, true
	}
	return graph.Complete, false
}
