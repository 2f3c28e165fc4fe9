package key

import (
	"errors"
	"fmt"

	"github.com/bindgraph/core/source"
)

// ErrQualifierOnConstructor is returned by ForInjectConstructor when the
// enclosing type's constructor site carries a qualifier, which is
// disallowed: a concrete type's injected identity is its type alone.
var ErrQualifierOnConstructor = errors.New("key: qualifier not allowed on an injection constructor")

// ErrSetValuesMustReturnSet is returned by ForProvidesMethod when a
// SET_VALUES contribution's declared return type is not already Set<T>.
var ErrSetValuesMustReturnSet = errors.New("key: SET_VALUES provider must return Set<T>")

// ErrMapKeyRequired is returned by ForProvidesMethod when a Map
// contribution is requested without a map-key annotation to supply K.
var ErrMapKeyRequired = errors.New("key: map contribution requires a map-key annotation")

// ContributionType classifies how a @Provides/@Produces method's return
// value feeds its binding key.
type ContributionType int

const (
	Unique ContributionType = iota
	Set
	SetValues
	Map
)

func (c ContributionType) String() string {
	switch c {
	case Unique:
		return "unique"
	case Set:
		return "set"
	case SetValues:
		return "set-values"
	case Map:
		return "map"
	default:
		return "unknown"
	}
}

// Key is a (Qualifier, Type) pair under structural equivalence. The zero
// value is not a valid key.
type Key struct {
	qualifier Qualifier
	typ       source.Type
}

// Canonical is a comparable handle for a Key, suitable as a Go map key.
// Two Keys compare Equal iff their Canonical values are equal.
type Canonical string

func normalize(t source.Type) source.Type {
	if t == nil {
		return nil
	}
	if t.Kind() == source.KindPrimitive {
		return t.Box()
	}
	return t
}

// ForType builds an unqualified Key for t, normalizing primitives to their
// boxed form.
func ForType(t source.Type) Key {
	return Key{typ: normalize(t)}
}

// ForQualified builds a Key for (q, t), normalizing primitives.
func ForQualified(q Qualifier, t source.Type) Key {
	return Key{qualifier: q, typ: normalize(t)}
}

// ForProvidesMethod derives a Key from a provider method's return type,
// transforming it per its contribution type:
//   - Unique wraps nothing.
//   - Set wraps the (normalized) return type in Set<T>.
//   - SetValues requires the return type already be Set<T>.
//   - Map wraps the return type in Map<K, Provider<V>> using mapKeyType as K.
func ForProvidesMethod(q Qualifier, returnType source.Type, contribution ContributionType, mapKeyType source.Type) (Key, error) {
	switch contribution {
	case Unique:
		return ForQualified(q, returnType), nil
	case Set:
		return ForQualified(q, SetOf(normalize(returnType))), nil
	case SetValues:
		if returnType == nil || returnType.WellKnown() != source.WellKnownSet {
			return Key{}, ErrSetValuesMustReturnSet
		}
		return ForQualified(q, returnType), nil
	case Map:
		if mapKeyType == nil {
			return Key{}, ErrMapKeyRequired
		}
		return ForQualified(q, MapOf(mapKeyType, ProviderOf(normalize(returnType)))), nil
	default:
		return Key{}, fmt.Errorf("key: unknown contribution type %d", contribution)
	}
}

// ForInjectConstructor builds the Key for a constructor-injected type: the
// enclosing type, unqualified. A qualifier on the constructor is a user
// error.
func ForInjectConstructor(q Qualifier, enclosingType source.Type) (Key, error) {
	if q.Present() {
		return Key{}, ErrQualifierOnConstructor
	}
	return ForType(enclosingType), nil
}

// ImplicitMapProviderKey returns the implicit Map<K, Provider<V>> form of
// k, and true, iff k's type is Map<K,V> with V not itself a Provider.
func ImplicitMapProviderKey(k Key) (Key, bool) {
	if k.typ == nil || k.typ.WellKnown() != source.WellKnownMap {
		return Key{}, false
	}
	args := k.typ.TypeArgs()
	if len(args) != 2 {
		return Key{}, false
	}
	v := args[1]
	if v != nil && v.WellKnown() == source.WellKnownProvider {
		return Key{}, false
	}
	return ForQualified(k.qualifier, MapOf(args[0], ProviderOf(v))), true
}

// Qualifier returns k's qualifier (zero value if none).
func (k Key) Qualifier() Qualifier { return k.qualifier }

// Type returns k's underlying (normalized) type.
func (k Key) Type() source.Type { return k.typ }

// Canonical returns a comparable handle for k.
func (k Key) Canonical() Canonical {
	typeStr := ""
	if k.typ != nil {
		typeStr = k.typ.String()
	}
	return Canonical("\x00" + k.qualifier.canonical() + "\x00" + typeStr)
}

// Equal reports structural equivalence between k and o.
func (k Key) Equal(o Key) bool { return k.Canonical() == o.Canonical() }

func (k Key) String() string {
	if k.qualifier.Present() {
		return k.qualifier.String() + " " + k.typeString()
	}
	return k.typeString()
}

func (k Key) typeString() string {
	if k.typ == nil {
		return "<nil>"
	}
	return k.typ.String()
}

// BindingKind distinguishes a value-producing Contribution key from a
// MembersInjection key.
type BindingKind int

const (
	Contribution BindingKind = iota
	MembersInjection
)

func (k BindingKind) String() string {
	if k == MembersInjection {
		return "members-injection"
	}
	return "contribution"
}

// BindingKey is the identity under which a binding is indexed in a
// component.
type BindingKey struct {
	kind BindingKind
	key  Key
}

// ContributionKey builds a Contribution BindingKey.
func ContributionKey(k Key) BindingKey { return BindingKey{kind: Contribution, key: k} }

// MembersInjectionKey builds a MembersInjection BindingKey.
func MembersInjectionKey(k Key) BindingKey { return BindingKey{kind: MembersInjection, key: k} }

func (b BindingKey) Kind() BindingKind { return b.kind }
func (b BindingKey) Key() Key          { return b.key }

// Canonical returns a comparable handle for b.
func (b BindingKey) Canonical() Canonical {
	return Canonical(fmt.Sprintf("%d:%s", b.kind, b.key.Canonical()))
}

// Equal reports structural equivalence between b and o.
func (b BindingKey) Equal(o BindingKey) bool { return b.Canonical() == o.Canonical() }

func (b BindingKey) String() string {
	if b.kind == MembersInjection {
		return "members-injection " + b.key.String()
	}
	return b.key.String()
}
