// Package gotypes is a concrete source.Model backed by go/types and go/ast,
// in the manner of golang.org/x/tools-based static analyzers: it plays the
// "type mirror" role a source.Model implementation is asked to play, for
// the full binding vocabulary (qualifiers, multibindings, members-injection,
// scopes).
package gotypes

import (
	"go/types"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/bindgraph/core/source"
)

// wellKnownNames maps the Obj().Name() of a named generic type to the
// WellKnown shape it represents. Set, Provider, Lazy, MembersInjector,
// Producer, Produced and Future are all expected to be single-type-argument
// generics declared by whatever runtime package a given codebase pairs with
// bindgraph; this adapter recognizes them by name so it stays agnostic of
// which import path that runtime package lives at.
var wellKnownNames = map[string]source.WellKnown{
	"Set":             source.WellKnownSet,
	"Provider":        source.WellKnownProvider,
	"Lazy":            source.WellKnownLazy,
	"MembersInjector": source.WellKnownMembersInjector,
	"Producer":        source.WellKnownProducer,
	"Produced":        source.WellKnownProduced,
	"Future":          source.WellKnownFuture,
}

// Type adapts a go/types.Type to source.Type. The zero value is not usable;
// construct with TypeOf.
type Type struct {
	t types.Type
}

// typeOfCache hash-conses the Type wrappers TypeOf hands out, keyed by
// go/types' structural identity for a types.Type rather than pointer
// identity. Two instantiations of the same generic type that go/types did
// not itself unify still collapse to one wrapper here.
var typeOfCache = func() *typeutil.Map {
	m := new(typeutil.Map)
	m.SetHasher(typeutil.MakeHasher())
	return m
}()

// TypeOf wraps t, or returns nil if t is nil.
func TypeOf(t types.Type) source.Type {
	if t == nil {
		return nil
	}
	if cached := typeOfCache.At(t); cached != nil {
		return cached.(Type)
	}
	wrapped := Type{t: t}
	typeOfCache.Set(t, wrapped)
	return wrapped
}

// Underlying exposes the wrapped go/types.Type for the rare caller (e.g.
// driver wiring code) that needs to hand a type back to go/types-based
// tooling.
func (t Type) Underlying() types.Type { return t.t }

func (t Type) Kind() source.TypeKind {
	switch u := t.t.Underlying().(type) {
	case *types.Array, *types.Slice:
		return source.KindArray
	case *types.Basic:
		if u.Kind() == types.UntypedNil || u.Info()&types.IsBoolean != 0 ||
			u.Info()&types.IsNumeric != 0 || u.Info()&types.IsString != 0 {
			if u.Name() == "invalid type" {
				return source.KindErrorType
			}
			return source.KindPrimitive
		}
		if u.Kind() == types.UntypedNil {
			return source.KindErrorType
		}
	case *types.Interface:
		if u.Empty() {
			return source.KindDeclared
		}
	}
	if _, ok := t.t.(*types.TypeParam); ok {
		return source.KindTypeVariable
	}
	if _, ok := t.t.Underlying().(*types.Interface); ok {
		return source.KindDeclared
	}
	if t.t == types.Typ[types.Invalid] {
		return source.KindErrorType
	}
	return source.KindDeclared
}

func (t Type) WellKnown() source.WellKnown {
	if _, ok := t.t.Underlying().(*types.Map); ok {
		return source.WellKnownMap
	}
	named, ok := t.t.(*types.Named)
	if !ok {
		return source.NotWellKnown
	}
	if wk, ok := wellKnownNames[named.Obj().Name()]; ok && named.TypeArgs() != nil && named.TypeArgs().Len() > 0 {
		return wk
	}
	return source.NotWellKnown
}

// String is the canonical structural representation used for binding
// identity: go/types already canonicalizes named types by package path plus
// name, and types.TypeString renders type arguments structurally, so two
// syntactically distinct but structurally identical types always render
// identically here.
func (t Type) String() string {
	return types.TypeString(t.t, nil)
}

func (t Type) Erasure() source.Type {
	named, ok := t.t.(*types.Named)
	if !ok {
		return t
	}
	if named.TypeArgs() == nil || named.TypeArgs().Len() == 0 {
		return t
	}
	return TypeOf(named.Origin())
}

func (t Type) TypeArgs() []source.Type {
	if m, ok := t.t.Underlying().(*types.Map); ok {
		return []source.Type{TypeOf(m.Key()), TypeOf(m.Elem())}
	}
	named, ok := t.t.(*types.Named)
	if !ok || named.TypeArgs() == nil {
		return nil
	}
	args := make([]source.Type, named.TypeArgs().Len())
	for i := range args {
		args[i] = TypeOf(named.TypeArgs().At(i))
	}
	return args
}

func (t Type) AssignableTo(other source.Type) bool {
	o, ok := other.(Type)
	if !ok {
		return false
	}
	return types.AssignableTo(t.t, o.t)
}

func (t Type) Same(other source.Type) bool {
	o, ok := other.(Type)
	if !ok {
		return false
	}
	return types.Identical(t.t, o.t)
}

func (t Type) ComponentType() source.Type {
	switch u := t.t.Underlying().(type) {
	case *types.Array:
		return TypeOf(u.Elem())
	case *types.Slice:
		return TypeOf(u.Elem())
	default:
		return nil
	}
}

func (t Type) Bounds() []source.Type {
	tp, ok := t.t.(*types.TypeParam)
	if !ok {
		return nil
	}
	iface, ok := tp.Constraint().Underlying().(*types.Interface)
	if !ok {
		return nil
	}
	bounds := make([]source.Type, 0, iface.NumEmbeddeds())
	for i := 0; i < iface.NumEmbeddeds(); i++ {
		bounds = append(bounds, TypeOf(iface.EmbeddedType(i)))
	}
	return bounds
}

// Box is the identity on every Go type: Go has no unboxed/boxed split for
// this adapter to bridge.
func (t Type) Box() source.Type { return t }
