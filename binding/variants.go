package binding

import (
	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/request"
	"github.com/bindgraph/core/source"
)

// Injection is the variant for a type injected via an @Inject constructor
// or field-only injection.
type Injection struct {
	Constructor source.Element
}

func (Injection) isVariant() {}

// NewInjection builds the binding for a single @Inject-annotated
// constructor, with its parameters as explicit dependencies.
func NewInjection(k key.BindingKey, ctor source.Element, deps []request.Request, scope Scope, pkg string) Binding {
	return Binding{
		key:          k,
		origin:       ctor,
		explicitDeps: deps,
		scope:        scope,
		pkg:          pkg,
		bindingType:  Provision,
		variant:      Injection{Constructor: ctor},
	}
}

// Provision is the variant for an @Provides module method.
type Provision struct {
	Method       source.Element
	Contribution key.ContributionType
	MapKey       source.Type
	Nullable     bool
}

func (Provision) isVariant() {}

// NewProvision builds the binding for a single @Provides method.
func NewProvision(k key.BindingKey, method source.Element, deps []request.Request, scope Scope, pkg string, contribution key.ContributionType, mapKey source.Type, nullable bool, order Order) Binding {
	return Binding{
		key:          k,
		origin:       method,
		explicitDeps: deps,
		scope:        scope,
		pkg:          pkg,
		bindingType:  Provision,
		order:        order,
		variant: Provision{
			Method:       method,
			Contribution: contribution,
			MapKey:       mapKey,
			Nullable:     nullable,
		},
	}
}

// Production is the variant for an @Produces module method.
type Production struct {
	Method       source.Element
	Contribution key.ContributionType
	MapKey       source.Type
}

func (Production) isVariant() {}

// NewProduction builds the binding for a single @Produces method. Its
// parameters may legally request production-family kinds (Producer,
// Produced, Future) — callers should have classified them with
// allowProduction=true.
func NewProduction(k key.BindingKey, method source.Element, deps []request.Request, pkg string, contribution key.ContributionType, mapKey source.Type, order Order) Binding {
	return Binding{
		key:          k,
		origin:       method,
		explicitDeps: deps,
		pkg:          pkg,
		bindingType:  Production,
		order:        order,
		variant: Production{
			Method:       method,
			Contribution: contribution,
			MapKey:       mapKey,
		},
	}
}

// ComponentSelf is the variant binding a component interface to its own
// running instance — requestable by components/subcomponents that depend
// on "the component itself".
type ComponentSelf struct{}

func (ComponentSelf) isVariant() {}

// NewComponentSelf builds the self-referential component binding.
func NewComponentSelf(k key.BindingKey, origin source.Element, pkg string) Binding {
	return Binding{key: k, origin: origin, pkg: pkg, bindingType: Provision, variant: ComponentSelf{}}
}

// ComponentMethod is the variant for a component entry-point method that
// merely delegates to a dependency already bound elsewhere — e.g. a
// subcomponent factory method.
type ComponentMethod struct {
	Method   source.Element
	Delegate source.Element
}

func (ComponentMethod) isVariant() {}

// NewComponentMethod builds a component-method delegation binding.
func NewComponentMethod(k key.BindingKey, method, delegate source.Element, deps []request.Request, pkg string) Binding {
	return Binding{
		key:          k,
		origin:       method,
		explicitDeps: deps,
		pkg:          pkg,
		bindingType:  Provision,
		variant:      ComponentMethod{Method: method, Delegate: delegate},
	}
}

// SyntheticMultibinding is the variant the resolver synthesizes when it
// discovers two or more Set/SetValues or Map contributions sharing the same
// BindingKey (Glossary "Multibinding"): every individual contributing
// method shares one key by construction (key.ForProvidesMethod
// wraps all Set contributions into Set<T>, all Map contributions into
// Map<K, Provider<V>>), so the aggregate cannot depend on its contributions
// *by key* without requesting itself. Instead it absorbs each
// contribution's own element origin (for diagnostics/ordering) and flattens
// their dependencies directly as its own framework dependencies.
type SyntheticMultibinding struct {
	Contribution        key.ContributionType
	ContributionOrigins []source.Element
	// ContributionMapKeys parallels ContributionOrigins with each
	// contribution's own @MapKey type (nil where absent), preserved past
	// aggregation so the validator can still check map-key uniqueness even
	// though every Map contribution collapses onto one BindingKey
	// (DESIGN.md decision 4).
	ContributionMapKeys []source.Type
}

func (SyntheticMultibinding) isVariant() {}

// NewSyntheticMultibinding builds an aggregate Set/Map binding from its
// ordered individual contributions (already sorted by declaration Order).
// Its framework dependencies are the concatenation of each contribution's
// own implicit dependencies, in contribution order — the iteration order
// callers will observe when the bound collection is constructed.
func NewSyntheticMultibinding(k key.BindingKey, contribution key.ContributionType, contributions []Binding) Binding {
	var deps []request.Request
	origins := make([]source.Element, 0, len(contributions))
	mapKeys := make([]source.Type, 0, len(contributions))
	for _, c := range contributions {
		deps = append(deps, c.ImplicitDependencies()...)
		origins = append(origins, c.BindingElementOrigin())
		mk, _ := c.MapKey()
		mapKeys = append(mapKeys, mk)
	}
	return Binding{
		key:           k,
		frameworkDeps: deps,
		bindingType:   Provision,
		variant: SyntheticMultibinding{
			Contribution:        contribution,
			ContributionOrigins: origins,
			ContributionMapKeys: mapKeys,
		},
	}
}

// SyntheticMapOfProvider is the variant for a raw Map<K, V> request with no
// explicit binding of its own, satisfied by deferring to the implicit
// Map<K, Provider<V>> form that the actual @IntoMap contributions are keyed
// under.
type SyntheticMapOfProvider struct {
	// ProviderMapKey is the BindingKey of the Map<K, Provider<V>> binding
	// this raw-map binding defers to.
	ProviderMapKey key.BindingKey
}

func (SyntheticMapOfProvider) isVariant() {}

// NewSyntheticMapOfProvider builds the Map<K, V> binding whose sole
// dependency is a request for the Map<K, Provider<V>> form.
func NewSyntheticMapOfProvider(k key.BindingKey, providerMapKey key.BindingKey) Binding {
	return Binding{
		key:           k,
		frameworkDeps: []request.Request{request.Framework(providerMapKey)},
		bindingType:   Provision,
		variant:       SyntheticMapOfProvider{ProviderMapKey: providerMapKey},
	}
}

// InjectionSite is a single field or method that members-injection must
// populate.
type InjectionSite struct {
	Element  source.Element
	Requests []request.Request
}

// MembersInjection is the variant describing everything that must be
// injected into an already-constructed instance of a type: every @Inject
// field and @Inject method, walking the supertype chain.
type MembersInjection struct {
	Type   source.Element
	Sites  []InjectionSite
	Parent *key.BindingKey
}

func (MembersInjection) isVariant() {}

// NewMembersInjection builds the members-injection binding for typ, with
// parent set to the BindingKey of the supertype's own members-injection
// binding when typ has an injected supertype (nil otherwise).
func NewMembersInjection(k key.BindingKey, typ source.Element, sites []InjectionSite, parent *key.BindingKey, pkg string) Binding {
	var deps []request.Request
	for _, s := range sites {
		deps = append(deps, s.Requests...)
	}
	return Binding{
		key:          k,
		origin:       typ,
		explicitDeps: deps,
		pkg:          pkg,
		bindingType:  MembersInjectionType,
		variant:      MembersInjection{Type: typ, Sites: sites, Parent: parent},
	}
}
