package gotypes

import (
	"go/types"

	"github.com/bindgraph/core/source"
)

// Model implements source.Model over go/types.
type Model struct{}

// New returns the shared stateless go/types-backed source.Model.
func New() source.Model { return Model{} }

// AllMembers returns t's enclosed elements followed by the methods declared
// on t's named type, deduplicated by name (the first occurrence wins).
// Fields and methods promoted from embedded types are not included.
func (Model) AllMembers(t source.Element) []source.Element {
	ge, ok := t.(*Element)
	if !ok {
		return t.Enclosed()
	}
	named, ok := ge.obj.Type().(*types.Named)
	if !ok {
		return t.Enclosed()
	}
	seen := map[string]bool{}
	out := make([]source.Element, 0, named.NumMethods())
	for _, m := range t.Enclosed() {
		if !seen[m.Name()] {
			seen[m.Name()] = true
			out = append(out, m)
		}
	}
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if seen[m.Name()] {
			continue
		}
		seen[m.Name()] = true
		out = append(out, NewElement(m, source.KindMethod, source.Modifiers{}, t, nil))
	}
	return out
}

// Overrides reports whether m1, viewed as a member of container, overrides
// m2.
func (Model) Overrides(m1, m2, container source.Element) bool {
	if m1.Name() != m2.Name() {
		return false
	}
	g1, ok1 := m1.(*Element)
	g2, ok2 := m2.(*Element)
	if !ok1 || !ok2 {
		return false
	}
	f1, ok1 := g1.obj.(*types.Func)
	f2, ok2 := g2.obj.(*types.Func)
	if !ok1 || !ok2 {
		return false
	}
	gc, ok := container.(*Element)
	if !ok {
		return false
	}
	named, ok := gc.obj.Type().(*types.Named)
	if !ok {
		return false
	}
	return types.Identical(f1.Type(), f2.Type()) && named.NumMethods() > 0
}

// AsMemberOf substitutes container's type arguments into member's declared
// type. Since the shipped Element already stores the fully instantiated
// go/types.Object for each member (go/types performs substitution eagerly
// when it builds a *types.Named's method/field set), this is the identity
// on member.Type() for concrete instantiations.
func (Model) AsMemberOf(container source.Type, member source.Element) source.Type {
	return member.Type()
}
