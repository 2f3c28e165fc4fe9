// Package registry implements the inject-binding registry: the
// stateful, on-demand cache that discovers provision bindings from
// constructor-injected types and members-injection bindings from types with
// injection sites, memoizing both so a driver round never re-derives the
// same binding twice. Implicit bindings are discovered on demand as the
// resolver asks for them, not up front.
package registry

import (
	"github.com/bindgraph/core/binding"
	"github.com/bindgraph/core/key"
)

// InjectionFinder locates the @Inject constructor (if any) for a concrete,
// unqualified key's type and builds the resulting Injection binding. The
// source.Model adapter supplies the concrete implementation; registry only
// orchestrates caching.
type InjectionFinder interface {
	FindInjectionBinding(k key.Key) (binding.Binding, bool, error)
}

// MembersInjectionFinder builds the (possibly empty) MembersInjection
// binding for a key's type, walking its supertype chain.
type MembersInjectionFinder interface {
	FindMembersInjectionBinding(k key.Key) (binding.Binding, error)
}

// Registry is the two-cache component. It carries no internal lock: the
// single-threaded cooperative model applies — the driver owns exclusive
// access.
type Registry struct {
	injections InjectionFinder
	members    MembersInjectionFinder

	provisionBindings        map[key.Canonical]binding.Binding
	membersInjectionBindings map[key.Canonical]binding.Binding

	emissionQueue []binding.Binding
}

// New builds a Registry backed by the given finders.
func New(injections InjectionFinder, members MembersInjectionFinder) *Registry {
	return &Registry{
		injections:               injections,
		members:                  members,
		provisionBindings:        map[key.Canonical]binding.Binding{},
		membersInjectionBindings: map[key.Canonical]binding.Binding{},
	}
}

// GetOrFindProvision returns the cached provision binding for k, or attempts
// to locate an injection constructor on k's type. Only valid for unqualified
// keys on concrete types — the caller (resolver) is responsible for not
// invoking this on a qualified key. The second return is false when no
// injection constructor exists; this is not itself an error.
func (r *Registry) GetOrFindProvision(k key.Key) (binding.Binding, bool, error) {
	if b, ok := r.provisionBindings[k.Canonical()]; ok {
		return b, true, nil
	}
	b, found, err := r.injections.FindInjectionBinding(k)
	if err != nil {
		return binding.Binding{}, false, err
	}
	if !found {
		return binding.Binding{}, false, nil
	}
	b = r.linkUnresolved(k, b)
	r.provisionBindings[k.Canonical()] = b
	return b, true, nil
}

// linkUnresolved attaches the type-parameter-free origin binding to a
// resolved generic instantiation: the erasure's own binding is materialized
// (and cached) under the unresolved key, and the instantiated binding
// carries a pointer back to it.
func (r *Registry) linkUnresolved(k key.Key, b binding.Binding) binding.Binding {
	t := k.Type()
	if t == nil {
		return b
	}
	erased := t.Erasure()
	if erased == nil || erased.Same(t) {
		return b
	}
	uk := key.ForType(erased)
	ub, ok := r.provisionBindings[uk.Canonical()]
	if !ok {
		found := false
		var err error
		ub, found, err = r.injections.FindInjectionBinding(uk)
		if err != nil || !found {
			return b
		}
		r.provisionBindings[uk.Canonical()] = ub
	}
	return b.WithUnresolved(ub)
}

// GetOrFindMembersInjection always yields a binding (possibly with zero
// injection sites), memoized by key.
func (r *Registry) GetOrFindMembersInjection(k key.Key) (binding.Binding, error) {
	if b, ok := r.membersInjectionBindings[k.Canonical()]; ok {
		return b, nil
	}
	b, err := r.members.FindMembersInjectionBinding(k)
	if err != nil {
		return binding.Binding{}, err
	}
	r.membersInjectionBindings[k.Canonical()] = b
	return b, nil
}

// MarkForEmission enqueues b as generated code that must be emitted on
// driver completion.
func (r *Registry) MarkForEmission(b binding.Binding) {
	r.emissionQueue = append(r.emissionQueue, b)
}

// DrainEmissionQueue returns and clears the pending emission work, for the
// driver's post-round step. If the caller cannot emit every item it
// receives (e.g. the emitter fails partway through), it must hand the
// unconsumed remainder back via Requeue rather than let it vanish.
func (r *Registry) DrainEmissionQueue() []binding.Binding {
	pending := r.emissionQueue
	r.emissionQueue = nil
	return pending
}

// Requeue restores items a caller drained but did not emit, at the front of
// the queue so they are retried before anything marked for emission since.
func (r *Registry) Requeue(items []binding.Binding) {
	if len(items) == 0 {
		return
	}
	r.emissionQueue = append(append([]binding.Binding(nil), items...), r.emissionQueue...)
}
