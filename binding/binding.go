// Package binding implements the tagged-variant binding model: the unit
// the resolver and validator operate on, uniformly across constructor
// injection, @Provides/@Produces methods, component-self and
// component-method bindings, synthetic multibindings, synthetic
// map-of-provider bindings, and members-injection.
//
// A single Binding struct carries the shared contract (key, dependencies,
// scope, origin) plus a Variant payload; capability checks are type
// switches on the Variant rather than an interface hierarchy.
package binding

import (
	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/request"
	"github.com/bindgraph/core/source"
)

// Type distinguishes the three binding families.
type Type int

const (
	Provision Type = iota
	Production
	MembersInjectionType
)

func (t Type) String() string {
	switch t {
	case Provision:
		return "provision"
	case Production:
		return "production"
	case MembersInjectionType:
		return "members-injection"
	default:
		return "unknown"
	}
}

// Variant is the payload that distinguishes a Binding's concrete shape.
// Only the types declared in this package implement it.
type Variant interface {
	isVariant()
}

// Binding is a single node of the dependency graph: a BindingKey it
// satisfies, the set of further requests it introduces, and a Variant
// describing how it is actually realized.
type Binding struct {
	key           key.BindingKey
	origin        source.Element
	explicitDeps  []request.Request
	frameworkDeps []request.Request
	scope         Scope
	pkg           string
	bindingType   Type
	order         Order
	unresolved    *Binding
	variant       Variant
}

// Key is the BindingKey this binding satisfies.
func (b Binding) Key() key.BindingKey { return b.key }

// BindingElementOrigin is the source element this binding was derived from
// (a constructor, a @Provides/@Produces method, a component method, ...)
// — used for diagnostic anchors.
func (b Binding) BindingElementOrigin() source.Element { return b.origin }

// ExplicitDependencies are the requests read directly off the origin
// element (constructor parameters, method parameters, injected fields).
func (b Binding) ExplicitDependencies() []request.Request { return b.explicitDeps }

// FrameworkDependencies are synthesized requests this binding itself
// introduces (e.g. a SyntheticMultibinding's per-contribution dependencies).
func (b Binding) FrameworkDependencies() []request.Request { return b.frameworkDeps }

// ImplicitDependencies is the union explicit ∪ framework, in that order —
// the full dependency edge-set the resolver must walk.
func (b Binding) ImplicitDependencies() []request.Request {
	out := make([]request.Request, 0, len(b.explicitDeps)+len(b.frameworkDeps))
	out = append(out, b.explicitDeps...)
	out = append(out, b.frameworkDeps...)
	return out
}

// Scope is the binding's declared lifetime qualifier, if any.
func (b Binding) Scope() Scope { return b.scope }

// BindingPackage is the package/namespace the binding's origin belongs to —
// used by private/static member validation.
func (b Binding) BindingPackage() string { return b.pkg }

// BindingType is the coarse family this binding belongs to.
func (b Binding) BindingType() Type { return b.bindingType }

// DeclarationOrder is this binding's (module, method) declaration position,
// used to order multibinding contributions deterministically.
func (b Binding) DeclarationOrder() Order { return b.order }

// Unresolved returns the type-parameter-free origin binding, present iff
// this binding's generic parameters were substituted from a non-default
// assignment at the request site.
func (b Binding) Unresolved() (Binding, bool) {
	if b.unresolved == nil {
		return Binding{}, false
	}
	return *b.unresolved, true
}

// WithUnresolved returns a copy of b linked to its unparameterized origin.
func (b Binding) WithUnresolved(origin Binding) Binding {
	b.unresolved = &origin
	return b
}

// Unwrap returns the underlying Variant payload.
func (b Binding) Unwrap() Variant { return b.variant }

// ContributionType reports the multibinding contribution kind (Unique, Set,
// SetValues, Map) this binding declares, if it is a Provision or Production
// variant. The second return is false for any other variant.
func (b Binding) ContributionType() (key.ContributionType, bool) {
	switch v := b.variant.(type) {
	case Provision:
		return v.Contribution, true
	case Production:
		return v.Contribution, true
	default:
		return key.Unique, false
	}
}

// MapKey reports the @MapKey-annotated key type of a Map contribution, if
// present.
func (b Binding) MapKey() (source.Type, bool) {
	switch v := b.variant.(type) {
	case Provision:
		if v.MapKey != nil {
			return v.MapKey, true
		}
	case Production:
		if v.MapKey != nil {
			return v.MapKey, true
		}
	}
	return nil, false
}

// Nullable reports whether a Provision binding's return may be nil: a
// nullable binding may not feed a non-nullable request without a validator
// diagnostic.
func (b Binding) Nullable() bool {
	if v, ok := b.variant.(Provision); ok {
		return v.Nullable
	}
	return false
}
