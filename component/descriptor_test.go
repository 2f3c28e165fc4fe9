package component

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/request"
	"github.com/bindgraph/core/source"
)

type fakeAnnotation struct {
	name   string
	values map[string]any
}

func (a fakeAnnotation) Name() string           { return a.name }
func (a fakeAnnotation) Values() map[string]any { return a.values }
func (a fakeAnnotation) Type() source.Type      { return nil }

// annoElement extends the plain fakeElement fixture with annotations and
// modifiers, which ReadDescriptor inspects.
type annoElement struct {
	fakeElement
	anns []source.Annotation
	mods source.Modifiers
}

func (e annoElement) Annotations() []source.Annotation { return e.anns }
func (e annoElement) Modifiers() source.Modifiers      { return e.mods }

func abstractMethod(name string, typ source.Type, params ...source.Element) annoElement {
	return annoElement{
		fakeElement: fakeElement{name: name, kind: source.KindMethod, typ: typ, enclosed: params},
		mods:        source.Modifiers{Abstract: true},
	}
}

func TestReadDescriptorClassifiesKindAndScopes(t *testing.T) {
	comp := annoElement{
		fakeElement: fakeElement{name: "AppComponent", kind: source.KindInterface, typ: fakeType{name: "AppComponent"}},
		anns: []source.Annotation{
			fakeAnnotation{name: source.AnnotationComponent},
			fakeAnnotation{name: source.AnnotationScope, values: map[string]any{"value": "Singleton"}},
		},
	}

	d, err := ReadDescriptor(comp, Config{})
	require.NoError(t, err)
	require.Equal(t, Component, d.Kind)
	require.False(t, d.Kind.IsProduction())
	require.Len(t, d.Scopes, 1)
	require.Equal(t, "Singleton", d.Scopes[0].Name())
}

func TestReadDescriptorSubcomponentAndProductionKinds(t *testing.T) {
	sub := annoElement{
		fakeElement: fakeElement{name: "Sub", kind: source.KindInterface, typ: fakeType{name: "Sub"}},
		anns:        []source.Annotation{fakeAnnotation{name: source.AnnotationSubcomponent}},
	}
	d, err := ReadDescriptor(sub, Config{})
	require.NoError(t, err)
	require.Equal(t, Subcomponent, d.Kind)

	prod := annoElement{
		fakeElement: fakeElement{name: "Prod", kind: source.KindInterface, typ: fakeType{name: "Prod"}},
		anns:        []source.Annotation{fakeAnnotation{name: source.AnnotationProduction}},
	}
	d, err = ReadDescriptor(prod, Config{})
	require.NoError(t, err)
	require.Equal(t, ProductionComponent, d.Kind)
	require.True(t, d.Kind.IsProduction())
}

func TestReadDescriptorEnumeratesEntryPoints(t *testing.T) {
	foo := fakeType{name: "Foo", kind: source.KindDeclared}
	void := fakeType{name: "void", kind: source.KindVoidType}
	getFoo := abstractMethod("foo", foo)
	injectFoo := abstractMethod("injectFoo", void, param("f", foo))
	// Concrete (default) methods are not entry points.
	defaulted := annoElement{fakeElement: fakeElement{name: "helper", kind: source.KindMethod, typ: foo}}

	comp := annoElement{
		fakeElement: fakeElement{
			name: "AppComponent", kind: source.KindInterface,
			typ:      fakeType{name: "AppComponent"},
			enclosed: []source.Element{getFoo, injectFoo, defaulted},
		},
	}

	d, err := ReadDescriptor(comp, Config{})
	require.NoError(t, err)
	require.Len(t, d.EntryPoints, 2)
	require.Equal(t, Provision, d.EntryPoints[0].Kind)
	require.Equal(t, MembersInjection, d.EntryPoints[1].Kind)
}

func TestReadDescriptorFailsOnMalformedEntryPoint(t *testing.T) {
	foo := fakeType{name: "Foo", kind: source.KindDeclared}
	bogus := abstractMethod("bogus", foo, param("a", foo), param("b", foo))
	comp := annoElement{
		fakeElement: fakeElement{
			name: "BadComponent", kind: source.KindInterface,
			typ:      fakeType{name: "BadComponent"},
			enclosed: []source.Element{bogus},
		},
	}
	_, err := ReadDescriptor(comp, Config{})
	require.ErrorIs(t, err, ErrMalformedComponentMethod)
}

func TestReadDescriptorExpandsModules(t *testing.T) {
	inner := ModuleDescriptor{Type: fakeElement{name: "InnerModule", kind: source.KindClass}, Instance: netModule{}}
	outer := ModuleDescriptor{Type: fakeElement{name: "OuterModule", kind: source.KindClass}, Instance: netModule{}}

	comp := annoElement{
		fakeElement: fakeElement{name: "AppComponent", kind: source.KindInterface, typ: fakeType{name: "AppComponent"}},
	}
	d, err := ReadDescriptor(comp, Config{
		Modules: []ModuleDescriptor{outer},
		Includes: func(m source.Element) []ModuleDescriptor {
			if m.Name() == "OuterModule" {
				return []ModuleDescriptor{inner}
			}
			return nil
		},
	})
	require.NoError(t, err)
	require.Len(t, d.Modules, 2)
	require.Len(t, d.ModuleRefs, 2)
	require.Equal(t, []string{"InnerModule"}, d.ModuleRefs[0].Includes)
}

func TestEntryPointRequestsClassifiesBothShapes(t *testing.T) {
	foo := fakeType{name: "Foo", kind: source.KindDeclared}
	void := fakeType{name: "void", kind: source.KindVoidType}
	comp := annoElement{
		fakeElement: fakeElement{
			name: "AppComponent", kind: source.KindInterface,
			typ: fakeType{name: "AppComponent"},
			enclosed: []source.Element{
				abstractMethod("foo", foo),
				abstractMethod("injectFoo", void, param("f", foo)),
			},
		},
	}

	d, err := ReadDescriptor(comp, Config{})
	require.NoError(t, err)

	reqs, err := d.EntryPointRequests()
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	require.Equal(t, request.Instance, reqs[0].Kind())
	require.Equal(t, key.Contribution, reqs[0].BindingKey().Kind())
	require.Equal(t, request.MembersInjector, reqs[1].Kind())
	require.Equal(t, key.MembersInjection, reqs[1].BindingKey().Kind())
}
