package gotypes

import (
	"go/types"
	"strconv"
	"strings"

	"github.com/bindgraph/core/source"
)

// Element adapts a go/types.Object (plus annotations gathered separately,
// since go/types carries no notion of them) to source.Element.
type Element struct {
	obj         types.Object
	kind        source.ElementKind
	modifiers   source.Modifiers
	enclosing   source.Element
	enclosed    []source.Element
	annotations []source.Annotation
	typ         source.Type
}

// NewElement builds an Element with no fixed enclosed list; Enclosed then
// derives it on demand from obj's underlying struct/interface shape unless
// WithEnclosed supplies one.
func NewElement(obj types.Object, kind source.ElementKind, modifiers source.Modifiers, enclosing source.Element, annotations []source.Annotation) *Element {
	return &Element{
		obj:         obj,
		kind:        kind,
		modifiers:   modifiers,
		enclosing:   enclosing,
		annotations: annotations,
		typ:         TypeOf(obj.Type()),
	}
}

// WithEnclosed returns a copy of e with its enclosed-elements list fixed to
// enclosed, preserving declaration order as the caller provides it.
func (e *Element) WithEnclosed(enclosed []source.Element) *Element {
	c := *e
	c.enclosed = enclosed
	return &c
}

func (e *Element) Kind() source.ElementKind { return e.kind }
func (e *Element) Name() string             { return e.obj.Name() }

func (e *Element) QualifiedName() string {
	if e.obj.Pkg() == nil {
		return e.obj.Name()
	}
	if e.enclosing != nil {
		return e.enclosing.QualifiedName() + "." + e.obj.Name()
	}
	return e.obj.Pkg().Path() + "." + e.obj.Name()
}

func (e *Element) Modifiers() source.Modifiers { return e.modifiers }
func (e *Element) Enclosing() source.Element   { return e.enclosing }

func (e *Element) Enclosed() []source.Element {
	if e.enclosed != nil {
		return e.enclosed
	}
	return e.deriveEnclosed()
}

// deriveEnclosed walks obj's underlying type for struct fields or interface
// methods when the caller never supplied an explicit (possibly
// annotation-enriched) list via WithEnclosed.
func (e *Element) deriveEnclosed() []source.Element {
	switch u := e.obj.Type().Underlying().(type) {
	case *types.Struct:
		out := make([]source.Element, 0, u.NumFields())
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			out = append(out, NewElement(f, source.KindField, source.Modifiers{
				Private: !f.Exported(),
			}, e, parseTag(u.Tag(i))))
		}
		return out
	case *types.Interface:
		out := make([]source.Element, 0, u.NumExplicitMethods())
		for i := 0; i < u.NumExplicitMethods(); i++ {
			m := u.ExplicitMethod(i)
			out = append(out, NewElement(m, source.KindMethod, source.Modifiers{
				Abstract: true,
			}, e, nil))
		}
		return out
	default:
		return nil
	}
}

func (e *Element) Annotations() []source.Annotation { return e.annotations }
func (e *Element) Type() source.Type                { return e.typ }

func (e *Element) Package() string {
	if e.obj.Pkg() == nil {
		return ""
	}
	return e.obj.Pkg().Path()
}

// annotation is the concrete source.Annotation parsed from a Go struct tag
// entry or built by NewAnnotation.
type annotation struct {
	name   string
	values map[string]any
	typ    source.Type
}

func (a annotation) Name() string             { return a.name }
func (a annotation) Values() map[string]any    { return a.values }
func (a annotation) Type() source.Type         { return a.typ }

// NewAnnotation constructs a source.Annotation with an explicit type, for
// qualifier annotations whose own generic shape matters (e.g. a map-key
// annotation's type parameter on a @Provides-style method).
func NewAnnotation(name string, values map[string]any, typ source.Type) source.Annotation {
	return annotation{name: name, values: values, typ: typ}
}

// parseTag extracts bindgraph-recognized struct tag entries. The
// recognized tag key is "bindgraph"; its value is a comma-separated list of
// name[=value] pairs, the first of which becomes the Annotation's Name and
// the rest become its Values, e.g. `bindgraph:"qualifier,value=prod"`.
func parseTag(tag string) []source.Annotation {
	raw, ok := lookupTag(tag, "bindgraph")
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	name := parts[0]
	values := map[string]any{}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) == 2 {
			values[kv[0]] = kv[1]
		} else {
			values[kv[0]] = true
		}
	}
	return []source.Annotation{annotation{name: name, values: values}}
}

// lookupTag is a small reimplementation of reflect.StructTag.Lookup that
// operates on the raw tag string go/types exposes, since go/types does not
// hand out a reflect.StructTag.
func lookupTag(tag, key string) (string, bool) {
	for tag != "" {
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}
		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			break
		}
		name := tag[:i]
		tag = tag[i+1:]
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		qvalue := tag[:i+1]
		tag = tag[i+1:]
		if key == name {
			value, err := strconv.Unquote(qvalue)
			if err != nil {
				return "", false
			}
			return value, true
		}
	}
	return "", false
}
