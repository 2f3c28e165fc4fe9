package key

import (
	"fmt"
	"strings"

	"github.com/bindgraph/core/source"
)

// synthType is a host-independent source.Type the key algebra manufactures
// for desugared forms (Set<T>, Map<K,V>, Provider<T>) that the source model
// never declared directly. It never needs Kind()-sensitive behavior beyond
// reporting itself as a declared generic shape, since nothing resolves a
// synthetic type's members — only its WellKnown()/TypeArgs() are consulted.
type synthType struct {
	wk   source.WellKnown
	args []source.Type
}

func (s synthType) Kind() source.TypeKind   { return source.KindDeclared }
func (s synthType) WellKnown() source.WellKnown { return s.wk }

func (s synthType) String() string {
	parts := make([]string, len(s.args))
	for i, a := range s.args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", s.wk, strings.Join(parts, ", "))
}

func (s synthType) Erasure() source.Type      { return s }
func (s synthType) TypeArgs() []source.Type   { return s.args }
func (s synthType) AssignableTo(o source.Type) bool { return s.Same(o) }
func (s synthType) Same(o source.Type) bool   { return o != nil && s.String() == o.String() }
func (s synthType) ComponentType() source.Type { return nil }
func (s synthType) Bounds() []source.Type      { return nil }
func (s synthType) Box() source.Type           { return s }

// SetOf returns the synthesized Set<elem> type.
func SetOf(elem source.Type) source.Type {
	return synthType{wk: source.WellKnownSet, args: []source.Type{elem}}
}

// MapOf returns the synthesized Map<k,v> type.
func MapOf(k, v source.Type) source.Type {
	return synthType{wk: source.WellKnownMap, args: []source.Type{k, v}}
}

// ProviderOf returns the synthesized Provider<elem> type.
func ProviderOf(elem source.Type) source.Type {
	return synthType{wk: source.WellKnownProvider, args: []source.Type{elem}}
}

// LazyOf returns the synthesized Lazy<elem> type.
func LazyOf(elem source.Type) source.Type {
	return synthType{wk: source.WellKnownLazy, args: []source.Type{elem}}
}
