// Package key implements the key algebra: canonical (qualifier, type)
// identity, including the Map/Set/Provider desugarings the resolver needs.
package key

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bindgraph/core/source"
)

// Qualifier disambiguates bindings of the same type (Glossary). The zero
// value is "no qualifier".
type Qualifier struct {
	ann source.Annotation
}

// QualifierOf wraps ann as a Qualifier. Passing nil is equivalent to
// NoQualifier.
func QualifierOf(ann source.Annotation) Qualifier { return Qualifier{ann: ann} }

// NoQualifier is the absent qualifier, modeled as a genuine zero value
// rather than a magic sentinel.
func NoQualifier() Qualifier { return Qualifier{} }

// Present reports whether a qualifier annotation is attached.
func (q Qualifier) Present() bool { return q.ann != nil }

// Annotation returns the wrapped annotation, or nil if absent.
func (q Qualifier) Annotation() source.Annotation { return q.ann }

// canonical renders q as a deterministic string: two structurally equal
// qualifiers always render identically, regardless of map iteration order
// in Values().
func (q Qualifier) canonical() string {
	if q.ann == nil {
		return ""
	}
	values := q.ann.Values()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(q.ann.Name())
	for _, k := range keys {
		fmt.Fprintf(&b, ";%s=%v", k, values[k])
	}
	return b.String()
}

// Equal reports whether q and o are structurally equivalent.
func (q Qualifier) Equal(o Qualifier) bool { return q.canonical() == o.canonical() }

func (q Qualifier) String() string {
	if q.ann == nil {
		return "<none>"
	}
	return "@" + q.canonical()
}
