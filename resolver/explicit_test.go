package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bindgraph/core/binding"
	"github.com/bindgraph/core/component"
	"github.com/bindgraph/core/graph"
	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/registry"
	"github.com/bindgraph/core/request"
	"github.com/bindgraph/core/source"
)

type fakeAnnotation struct {
	name   string
	values map[string]any
	typ    source.Type
}

func (a fakeAnnotation) Name() string           { return a.name }
func (a fakeAnnotation) Values() map[string]any { return a.values }
func (a fakeAnnotation) Type() source.Type      { return a.typ }

// declElement is a fixture rich enough for descriptors: annotations,
// parameters, element kind. The fakeElement in resolver_test.go predates
// those needs.
type declElement struct {
	name     string
	kind     source.ElementKind
	typ      source.Type
	anns     []source.Annotation
	enclosed []source.Element
}

func (e declElement) Kind() source.ElementKind         { return e.kind }
func (e declElement) Name() string                     { return e.name }
func (e declElement) QualifiedName() string            { return e.name }
func (e declElement) Modifiers() source.Modifiers      { return source.Modifiers{} }
func (e declElement) Enclosing() source.Element        { return nil }
func (e declElement) Enclosed() []source.Element       { return e.enclosed }
func (e declElement) Annotations() []source.Annotation { return e.anns }
func (e declElement) Type() source.Type                { return e.typ }
func (e declElement) Package() string                  { return "fake" }

func TestBuildExplicitIndexesComponentSelfBinding(t *testing.T) {
	compType := fakeType{name: "AppComponent"}
	desc := &component.Descriptor{
		ComponentType: declElement{name: "AppComponent", kind: source.KindInterface, typ: compType},
	}

	explicit, err := BuildExplicit(desc)
	require.NoError(t, err)

	selfBK := key.ContributionKey(key.ForType(compType))
	require.Len(t, explicit[selfBK.Canonical()], 1)
	_, ok := explicit[selfBK.Canonical()][0].Unwrap().(binding.ComponentSelf)
	require.True(t, ok)
}

func TestBuildExplicitIndexesDependencyProvisionMethods(t *testing.T) {
	foo := fakeType{name: "Foo"}
	depType := fakeType{name: "DepComponent"}
	getFoo := declElement{name: "getFoo", kind: source.KindMethod, typ: foo}
	dep := declElement{
		name: "DepComponent", kind: source.KindInterface, typ: depType,
		enclosed: []source.Element{getFoo},
	}
	desc := &component.Descriptor{
		ComponentType: declElement{name: "AppComponent", kind: source.KindInterface, typ: fakeType{name: "AppComponent"}},
		Dependencies:  []source.Element{dep},
	}

	explicit, err := BuildExplicit(desc)
	require.NoError(t, err)

	depBK := key.ContributionKey(key.ForType(depType))
	require.Len(t, explicit[depBK.Canonical()], 1)

	fooBK := key.ContributionKey(key.ForType(foo))
	require.Len(t, explicit[fooBK.Canonical()], 1)
	cm, ok := explicit[fooBK.Canonical()][0].Unwrap().(binding.ComponentMethod)
	require.True(t, ok)
	require.Equal(t, "getFoo", cm.Method.Name())
}

func TestBuildExplicitIndexesModuleProviderMethodsInDeclarationOrder(t *testing.T) {
	foo := fakeType{name: "Foo"}
	setOne := declElement{name: "provideOne", kind: source.KindMethod, typ: foo, anns: []source.Annotation{
		fakeAnnotation{name: source.AnnotationProvides},
		fakeAnnotation{name: source.AnnotationIntoSet},
	}}
	setTwo := declElement{name: "provideTwo", kind: source.KindMethod, typ: foo, anns: []source.Annotation{
		fakeAnnotation{name: source.AnnotationProvides},
		fakeAnnotation{name: source.AnnotationIntoSet},
	}}
	desc := &component.Descriptor{
		ComponentType: declElement{name: "AppComponent", kind: source.KindInterface, typ: fakeType{name: "AppComponent"}},
		Modules: []component.ModuleDescriptor{
			{Type: declElement{name: "ModA", kind: source.KindClass}, ProviderMethods: []source.Element{setOne}},
			{Type: declElement{name: "ModB", kind: source.KindClass}, ProviderMethods: []source.Element{setTwo}},
		},
	}

	explicit, err := BuildExplicit(desc)
	require.NoError(t, err)

	setKey, err := key.ForProvidesMethod(key.NoQualifier(), foo, key.Set, nil)
	require.NoError(t, err)
	contribs := explicit[key.ContributionKey(setKey).Canonical()]
	require.Len(t, contribs, 2)
	require.Equal(t, binding.Order{Module: 0, Method: 0}, contribs[0].DeclarationOrder())
	require.Equal(t, binding.Order{Module: 1, Method: 0}, contribs[1].DeclarationOrder())
}

func TestBuildExplicitSurfacesProviderMethodErrors(t *testing.T) {
	badSetValues := declElement{name: "provideSetValues", kind: source.KindMethod, typ: fakeType{name: "Foo"}, anns: []source.Annotation{
		fakeAnnotation{name: source.AnnotationProvides},
		fakeAnnotation{name: source.AnnotationElementsIntoSet},
	}}
	desc := &component.Descriptor{
		Modules: []component.ModuleDescriptor{
			{Type: declElement{name: "Mod", kind: source.KindClass}, ProviderMethods: []source.Element{badSetValues}},
		},
	}

	_, err := BuildExplicit(desc)
	require.ErrorIs(t, err, key.ErrSetValuesMustReturnSet)
}

type erroringInjectionFinder struct{ err error }

func (f erroringInjectionFinder) FindInjectionBinding(k key.Key) (binding.Binding, bool, error) {
	return binding.Binding{}, false, f.err
}

func TestResolveMalformedInjectionBinding(t *testing.T) {
	errBad := errors.New("constructor has an abstract enclosing type")
	reg := registry.New(erroringInjectionFinder{err: errBad}, noFindMembers{})

	bar := fakeType{name: "Bar"}
	r := New("C", map[key.Canonical][]binding.Binding{}, reg)
	g := r.ResolveEntryPoints([]request.Request{requestFor(bar)})

	rb, ok := g.Get(key.ContributionKey(key.ForType(bar)))
	require.True(t, ok)
	require.Equal(t, graph.Malformed, rb.StateVal)
	require.ErrorIs(t, rb.Err, errBad)
	require.NotEmpty(t, rb.Path)
}

func TestResolveIsIdempotentAcrossRuns(t *testing.T) {
	foo := fakeType{name: "Foo"}
	bar := fakeType{name: "Bar"}
	fooKey := key.ContributionKey(key.ForType(foo))
	barKey := key.ContributionKey(key.ForType(bar))

	explicit := map[key.Canonical][]binding.Binding{
		fooKey.Canonical(): {binding.NewInjection(fooKey, fakeElement{name: "NewFoo"}, []request.Request{requestFor(bar)}, binding.NoScope(), "pkg")},
		barKey.Canonical(): {binding.NewProvision(barKey, fakeElement{name: "provideBar"}, nil, binding.NoScope(), "pkg", key.Unique, nil, false, binding.Order{})},
	}
	reg := newTestRegistry()

	first := New("C", explicit, reg).ResolveEntryPoints([]request.Request{requestFor(foo)})
	second := New("C", explicit, reg).ResolveEntryPoints([]request.Request{requestFor(foo)})

	require.Equal(t, first.Snapshot(), second.Snapshot())
}
