package component

import (
	"fmt"

	"github.com/bindgraph/core/binding"
	"github.com/bindgraph/core/request"
	"github.com/bindgraph/core/source"
)

// Kind classifies a component declaration.
type Kind int

const (
	Component Kind = iota
	Subcomponent
	ProductionComponent
)

func (k Kind) String() string {
	switch k {
	case Component:
		return "component"
	case Subcomponent:
		return "subcomponent"
	case ProductionComponent:
		return "production-component"
	default:
		return "unknown"
	}
}

// IsProduction reports whether bindings resolved for this component may
// legally carry production-family dependency requests.
func (k Kind) IsProduction() bool { return k == ProductionComponent }

// Config carries the host-supplied pieces ReadDescriptor cannot derive from
// the component element alone: the module instances declared on the
// component, the include relation between module types, declared component
// dependencies, and eagerly-built child subcomponent descriptors.
type Config struct {
	Modules       []ModuleDescriptor
	Includes      func(source.Element) []ModuleDescriptor
	Dependencies  []source.Element
	Subcomponents []*Descriptor
}

// ReadDescriptor reads one component type into an immutable Descriptor:
// classifies its kind from the component marker annotation, expands the
// declared modules into their transitive closure, collects declared scopes,
// and enumerates entry points from the component's abstract methods. Any
// method violating the entry-point shape rules fails the whole read with
// ErrMalformedComponentMethod.
func ReadDescriptor(componentType source.Element, cfg Config) (*Descriptor, error) {
	includes := cfg.Includes
	if includes == nil {
		includes = func(source.Element) []ModuleDescriptor { return nil }
	}
	modules, refs, err := ExpandModules(cfg.Modules, includes)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		ComponentType: componentType,
		Kind:          kindOf(componentType),
		Modules:       modules,
		ModuleRefs:    refs,
		Dependencies:  cfg.Dependencies,
		Scopes:        declaredScopes(componentType),
		Subcomponents: cfg.Subcomponents,
	}

	selfType := componentType.Type()
	for _, m := range componentType.Enclosed() {
		if m.Kind() != source.KindMethod || !m.Modifiers().Abstract {
			continue
		}
		ep, err := ClassifyEntryPoint(m, selfType)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, m.QualifiedName())
		}
		d.EntryPoints = append(d.EntryPoints, ep)
	}
	return d, nil
}

// EntryPointRequests classifies every entry point into the dependency
// request that seeds resolution: a provision method's return becomes an
// ordinary classified request (production kinds allowed only on a
// production component), a members-injection method's single parameter
// becomes a MembersInjection request on the parameter's type.
func (d *Descriptor) EntryPointRequests() ([]request.Request, error) {
	reqs := make([]request.Request, 0, len(d.EntryPoints))
	for _, ep := range d.EntryPoints {
		switch ep.Kind {
		case Provision:
			r, err := request.Classify(ep.Method, d.Kind.IsProduction())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ep.Method.QualifiedName(), err)
			}
			reqs = append(reqs, r)
		case MembersInjection:
			params := paramsOf(ep.Method)
			if len(params) != 1 {
				return nil, fmt.Errorf("%w: %s", ErrMalformedComponentMethod, ep.Method.QualifiedName())
			}
			reqs = append(reqs, request.ForMembersInjection(params[0]))
		}
	}
	return reqs, nil
}

func kindOf(componentType source.Element) Kind {
	anns := componentType.Annotations()
	switch {
	case source.FindAnnotation(anns, source.AnnotationSubcomponent) != nil:
		return Subcomponent
	case source.FindAnnotation(anns, source.AnnotationProduction) != nil:
		return ProductionComponent
	default:
		return Component
	}
}

func declaredScopes(componentType source.Element) []binding.Scope {
	var scopes []binding.Scope
	for _, a := range componentType.Annotations() {
		if a.Name() != source.AnnotationScope {
			continue
		}
		if name, ok := a.Values()["value"].(string); ok && name != "" {
			scopes = append(scopes, binding.ScopeOf(name))
		}
	}
	return scopes
}
