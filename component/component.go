// Package component implements the component descriptor factory: reading a
// component type's declared modules and dependencies, expanding module
// includes into a closed set, and enumerating entry points.
//
// Two include-paths reaching the same module type (a diamond) are accepted
// if their configuration is identical or one is the zero value, otherwise
// rejected as ambiguous.
package component

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/jinzhu/copier"

	"github.com/bindgraph/core/binding"
	"github.com/bindgraph/core/graph"
	"github.com/bindgraph/core/source"
)

// ErrMalformedComponentMethod is returned when an abstract component method
// matches neither the provision shape (no args, non-void return) nor the
// members-injection shape (one arg, void or self-return).
var ErrMalformedComponentMethod = errors.New("component: method is neither a provision nor a members-injection entry point")

// ErrAmbiguousModuleInstantiation is returned when two include-paths reach
// the same module type with unequal, non-zero configuration.
var ErrAmbiguousModuleInstantiation = errors.New("component: ambiguous module instantiation")

// EntryPointKind distinguishes the two legal abstract-method shapes.
type EntryPointKind int

const (
	Provision EntryPointKind = iota
	MembersInjection
)

func (k EntryPointKind) String() string {
	if k == Provision {
		return "provision"
	}
	return "members-injection"
}

// EntryPoint is a single abstract method on a component interface.
type EntryPoint struct {
	Method source.Element
	Kind   EntryPointKind
}

// ModuleDescriptor names a module type, its (possibly zero-value)
// configuration instance, and its declared @Provides/@Produces methods in
// declaration order. Instance is the module's configuration value (an
// ordinary Go struct), compared with reflect.DeepEqual.
type ModuleDescriptor struct {
	Type            source.Element
	Instance        any
	ProviderMethods []source.Element
}

// Descriptor is the immutable result of reading one component type: its
// modules (transitively expanded), component dependencies, entry points,
// declared scopes, and child subcomponent descriptors.
type Descriptor struct {
	ComponentType source.Element
	Kind          Kind
	Modules       []ModuleDescriptor
	Dependencies  []source.Element
	EntryPoints   []EntryPoint
	Scopes        []binding.Scope
	Subcomponents []*Descriptor
	// ModuleRefs is ExpandModules's module/includes closure, carried forward
	// for the driver to copy onto ResolvedGraph.TransitiveModules.
	ModuleRefs []graph.ModuleRef
}

// DeclaredScopes returns the scopes d's component declares, for the
// scope-consistency checks.
func (d *Descriptor) DeclaredScopes() []binding.Scope { return d.Scopes }

// ClassifyEntryPoint applies the component method shape rules to an
// abstract component method: (no args, non-void return) ⇒ Provision; (one
// arg, void or self-return) ⇒ MembersInjection; anything else is malformed.
func ClassifyEntryPoint(method source.Element, selfType source.Type) (EntryPoint, error) {
	params := paramsOf(method)
	ret := method.Type()

	switch len(params) {
	case 0:
		if ret == nil || ret.Kind() == source.KindVoidType {
			return EntryPoint{}, ErrMalformedComponentMethod
		}
		return EntryPoint{Method: method, Kind: Provision}, nil
	case 1:
		if ret == nil || ret.Kind() == source.KindVoidType || (selfType != nil && ret.Same(selfType)) {
			return EntryPoint{Method: method, Kind: MembersInjection}, nil
		}
		return EntryPoint{}, ErrMalformedComponentMethod
	default:
		return EntryPoint{}, ErrMalformedComponentMethod
	}
}

func paramsOf(method source.Element) []source.Element {
	var params []source.Element
	for _, e := range method.Enclosed() {
		if e.Kind() == source.KindParameter {
			params = append(params, e)
		}
	}
	return params
}

// ExpandModules walks roots and every module they transitively include
// (via the includes callback), producing a closed, order-stable list with
// diamond duplicates merged per handleDuplicate below, plus the direct
// include edges of every module visited (for ResolvedGraph.TransitiveModules).
// includes must return a module's direct includes in declaration order.
func ExpandModules(roots []ModuleDescriptor, includes func(source.Element) []ModuleDescriptor) ([]ModuleDescriptor, []graph.ModuleRef, error) {
	seen := map[string]int{} // qualified type name -> index into out
	var out []ModuleDescriptor
	var refs []graph.ModuleRef

	var visit func(m ModuleDescriptor) error
	visit = func(m ModuleDescriptor) error {
		name := m.Type.QualifiedName()
		if idx, ok := seen[name]; ok {
			merged, err := handleDuplicate(out[idx].Instance, m.Instance)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrAmbiguousModuleInstantiation, name)
			}
			out[idx].Instance = merged
			return nil
		}
		seen[name] = len(out)
		out = append(out, m)

		included := includes(m.Type)
		ref := graph.ModuleRef{Module: name}
		for _, inc := range included {
			ref.Includes = append(ref.Includes, inc.Type.QualifiedName())
		}
		refs = append(refs, ref)

		for _, inc := range included {
			if err := visit(inc); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range roots {
		if err := visit(r); err != nil {
			return nil, nil, err
		}
	}
	return out, refs, nil
}

// handleDuplicate merges two instances of the same module type: they are
// accepted if they are
// reflect.DeepEqual, or if either is the zero value (in which case the
// non-zero one wins, copied via copier so the merged value is independent
// of both inputs); otherwise they are rejected as ambiguous.
func handleDuplicate(existing, incoming any) (any, error) {
	if existing == nil || incoming == nil {
		return nil, errors.New("component: nil module instance")
	}
	if reflect.DeepEqual(existing, incoming) {
		return existing, nil
	}
	zero := reflect.New(reflect.TypeOf(incoming)).Elem().Interface()
	if reflect.DeepEqual(incoming, zero) {
		return existing, nil
	}
	if reflect.DeepEqual(existing, zero) {
		merged := reflect.New(reflect.TypeOf(incoming)).Interface()
		if err := copier.Copy(merged, incoming); err != nil {
			return nil, err
		}
		return reflect.ValueOf(merged).Elem().Interface(), nil
	}
	return nil, fmt.Errorf("duplicate unequal module: %#v != %#v", incoming, existing)
}
