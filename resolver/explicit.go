package resolver

import (
	"github.com/bindgraph/core/binding"
	"github.com/bindgraph/core/component"
	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/request"
	"github.com/bindgraph/core/source"
)

// ExplicitBindings accumulates the explicit multimap for one component,
// then freezes into the plain map New consumes. Mirrors the
// builder-then-freeze shape of report.Builder: populated imperatively
// within a bounded scope, immutable once Build returns.
type ExplicitBindings struct {
	m map[key.Canonical][]binding.Binding
}

// NewExplicitBindings starts an empty index.
func NewExplicitBindings() *ExplicitBindings {
	return &ExplicitBindings{m: map[key.Canonical][]binding.Binding{}}
}

// Add indexes b under its own BindingKey.
func (e *ExplicitBindings) Add(b binding.Binding) {
	c := b.Key().Canonical()
	e.m[c] = append(e.m[c], b)
}

// Build freezes the index. The builder must not be reused afterwards.
func (e *ExplicitBindings) Build() map[key.Canonical][]binding.Binding {
	m := e.m
	e.m = nil
	return m
}

// BuildExplicit assembles the full explicit-bindings index for desc: the
// component-self binding, a binding for each declared component dependency
// plus one per provision method it exposes, and every @Provides/@Produces
// method of every transitively included module, ordered by
// (module-declaration, method-declaration) position.
func BuildExplicit(desc *component.Descriptor) (map[key.Canonical][]binding.Binding, error) {
	e := NewExplicitBindings()

	if ct := desc.ComponentType; ct != nil && ct.Type() != nil {
		bk := key.ContributionKey(key.ForType(ct.Type()))
		e.Add(binding.NewComponentSelf(bk, ct, ct.Package()))
	}

	for _, dep := range desc.Dependencies {
		if dep.Type() != nil {
			bk := key.ContributionKey(key.ForType(dep.Type()))
			e.Add(binding.NewComponentSelf(bk, dep, dep.Package()))
		}
		for _, m := range dep.Enclosed() {
			if m.Kind() != source.KindMethod || m.Type() == nil || m.Type().Kind() == source.KindVoidType {
				continue
			}
			if len(paramsOf(m)) != 0 {
				continue
			}
			q, err := request.SiteQualifier(m)
			if err != nil {
				return nil, err
			}
			bk := key.ContributionKey(key.ForQualified(q, m.Type()))
			e.Add(binding.NewComponentMethod(bk, m, dep, nil, dep.Package()))
		}
	}

	for i, mod := range desc.Modules {
		for j, pm := range mod.ProviderMethods {
			b, ok, err := binding.ParseProviderMethod(pm, binding.Order{Module: i, Method: j})
			if err != nil {
				return nil, err
			}
			if ok {
				e.Add(b)
			}
		}
	}
	return e.Build(), nil
}

func paramsOf(method source.Element) []source.Element {
	var params []source.Element
	for _, p := range method.Enclosed() {
		if p.Kind() == source.KindParameter {
			params = append(params, p)
		}
	}
	return params
}
