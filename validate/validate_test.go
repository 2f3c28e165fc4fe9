package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bindgraph/core/binding"
	"github.com/bindgraph/core/component"
	"github.com/bindgraph/core/graph"
	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/report"
	"github.com/bindgraph/core/request"
	"github.com/bindgraph/core/source"
)

type fakeType struct {
	name string
	kind source.TypeKind
	wk   source.WellKnown
	args []source.Type
}

func (f fakeType) Kind() source.TypeKind           { return f.kind }
func (f fakeType) WellKnown() source.WellKnown     { return f.wk }
func (f fakeType) String() string                  { return f.name }
func (f fakeType) Erasure() source.Type            { return f }
func (f fakeType) TypeArgs() []source.Type         { return f.args }
func (f fakeType) AssignableTo(o source.Type) bool { return f.Same(o) }
func (f fakeType) Same(o source.Type) bool         { return o != nil && f.String() == o.String() }
func (f fakeType) ComponentType() source.Type      { return nil }
func (f fakeType) Bounds() []source.Type           { return nil }
func (f fakeType) Box() source.Type                { return f }

type fakeElement struct {
	name string
	kind source.ElementKind
	typ  source.Type
}

func (e fakeElement) Kind() source.ElementKind         { return e.kind }
func (e fakeElement) Name() string                     { return e.name }
func (e fakeElement) QualifiedName() string            { return e.name }
func (e fakeElement) Modifiers() source.Modifiers      { return source.Modifiers{} }
func (e fakeElement) Enclosing() source.Element        { return nil }
func (e fakeElement) Enclosed() []source.Element       { return nil }
func (e fakeElement) Annotations() []source.Annotation { return nil }
func (e fakeElement) Type() source.Type                { return e.typ }
func (e fakeElement) Package() string                  { return "fake" }

func newDesc(name string, scopes ...binding.Scope) *component.Descriptor {
	return &component.Descriptor{
		ComponentType: fakeElement{name: name, kind: source.KindInterface},
		Scopes:        scopes,
	}
}

func run(t *testing.T, g *graph.ResolvedGraph, desc *component.Descriptor, opts Options) report.Report {
	t.Helper()
	b := report.NewBuilder(desc.ComponentType)
	Validate(g, desc, opts, b)
	return b.Build()
}

// S2: a Missing interface key yields RequiresProviderFormat.
func TestValidateMissingInterfaceEmitsRequiresProvider(t *testing.T) {
	baz := fakeType{name: "Baz", kind: source.KindInterface}
	bazKey := key.ContributionKey(key.ForType(baz))

	g := graph.NewResolvedGraph("C")
	g.Put(graph.ResolvedBindings{Key: bazKey, StateVal: graph.Missing, Path: []key.BindingKey{bazKey}})

	rep := run(t, g, newDesc("C"), DefaultOptions())
	require.False(t, rep.IsClean())
	require.Len(t, rep.Errors(), 1)
	require.Contains(t, rep.Errors()[0].Message, "cannot be provided without an @Provides-annotated method")
}

// a Missing concrete-class key yields RequiresInjectConstructorFormat.
func TestValidateMissingConcreteEmitsRequiresInjectConstructor(t *testing.T) {
	bar := fakeType{name: "Bar", kind: source.KindDeclared}
	barKey := key.ContributionKey(key.ForType(bar))

	g := graph.NewResolvedGraph("C")
	g.Put(graph.ResolvedBindings{Key: barKey, StateVal: graph.Missing})

	rep := run(t, g, newDesc("C"), DefaultOptions())
	require.Len(t, rep.Errors(), 1)
	require.Contains(t, rep.Errors()[0].Message, "@Inject constructor")
}

// S3: a Cycle record renders the declaration-site path with its formatted
// arrows.
func TestValidateCycleFormatsPath(t *testing.T) {
	a := fakeType{name: "A"}
	b := fakeType{name: "B"}
	aKey := key.ContributionKey(key.ForType(a))
	bKey := key.ContributionKey(key.ForType(b))

	g := graph.NewResolvedGraph("C")
	g.Put(graph.ResolvedBindings{Key: aKey, StateVal: graph.Cycle, Path: []key.BindingKey{aKey, bKey}})

	rep := run(t, g, newDesc("C"), DefaultOptions())
	require.Len(t, rep.Errors(), 1)
	require.Contains(t, rep.Errors()[0].Message, "A → B")
}

// S5: DuplicateBindings lists every competing declaration's signature.
func TestValidateDuplicateBindingsListsSignatures(t *testing.T) {
	foo := fakeType{name: "Foo"}
	fooKey := key.ContributionKey(key.ForType(foo))

	p1 := binding.NewProvision(fooKey, fakeElement{name: "provideFooA", kind: source.KindMethod}, nil, binding.NoScope(), "pkg", key.Unique, nil, false, binding.Order{})
	p2 := binding.NewProvision(fooKey, fakeElement{name: "provideFooB", kind: source.KindMethod}, nil, binding.NoScope(), "pkg", key.Unique, nil, false, binding.Order{})

	g := graph.NewResolvedGraph("C")
	g.Put(graph.ResolvedBindings{Key: fooKey, StateVal: graph.DuplicateBindings, Bindings: []binding.Binding{p1, p2}})

	rep := run(t, g, newDesc("C"), DefaultOptions())
	require.Len(t, rep.Errors(), 1)
	require.Contains(t, rep.Errors()[0].Message, "provideFooA")
	require.Contains(t, rep.Errors()[0].Message, "provideFooB")
}

// S6: MultipleBindingKinds names both contribution kinds.
func TestValidateMultipleBindingKindsNamesBothKinds(t *testing.T) {
	foo := fakeType{name: "Foo"}
	fooKey := key.ContributionKey(key.ForType(foo))

	unique := binding.NewProvision(fooKey, fakeElement{name: "provideFoo", kind: source.KindMethod}, nil, binding.NoScope(), "pkg", key.Unique, nil, false, binding.Order{})
	set := binding.NewProvision(fooKey, fakeElement{name: "provideFooIntoSet", kind: source.KindMethod}, nil, binding.NoScope(), "pkg", key.Set, nil, false, binding.Order{})

	g := graph.NewResolvedGraph("C")
	g.Put(graph.ResolvedBindings{Key: fooKey, StateVal: graph.MultipleBindingKinds, Bindings: []binding.Binding{unique, set}})

	rep := run(t, g, newDesc("C"), DefaultOptions())
	require.Len(t, rep.Errors(), 1)
	require.Contains(t, rep.Errors()[0].Message, "unique")
	require.Contains(t, rep.Errors()[0].Message, "set")
}

func TestValidateScopeNotDeclaredIsFlagged(t *testing.T) {
	foo := fakeType{name: "Foo"}
	fooKey := key.ContributionKey(key.ForType(foo))
	scoped := binding.NewProvision(fooKey, fakeElement{name: "provideFoo", kind: source.KindMethod}, nil, binding.ScopeOf("Singleton"), "pkg", key.Unique, nil, false, binding.Order{})

	g := graph.NewResolvedGraph("C")
	g.Put(graph.ResolvedBindings{Key: fooKey, StateVal: graph.Complete, Bindings: []binding.Binding{scoped}})

	rep := run(t, g, newDesc("C"), DefaultOptions())
	require.False(t, rep.IsClean())
	require.Contains(t, rep.Errors()[0].Message, "Singleton")
}

func TestValidateScopeDeclaredIsClean(t *testing.T) {
	foo := fakeType{name: "Foo"}
	fooKey := key.ContributionKey(key.ForType(foo))
	scoped := binding.NewProvision(fooKey, fakeElement{name: "provideFoo", kind: source.KindMethod}, nil, binding.ScopeOf("Singleton"), "pkg", key.Unique, nil, false, binding.Order{})

	g := graph.NewResolvedGraph("C")
	g.Put(graph.ResolvedBindings{Key: fooKey, StateVal: graph.Complete, Bindings: []binding.Binding{scoped}})

	rep := run(t, g, newDesc("C", binding.ScopeOf("Singleton")), DefaultOptions())
	require.True(t, rep.IsClean())
}

func TestValidateScopeValidationNoneSkipsCheck(t *testing.T) {
	foo := fakeType{name: "Foo"}
	fooKey := key.ContributionKey(key.ForType(foo))
	scoped := binding.NewProvision(fooKey, fakeElement{name: "provideFoo", kind: source.KindMethod}, nil, binding.ScopeOf("Singleton"), "pkg", key.Unique, nil, false, binding.Order{})

	g := graph.NewResolvedGraph("C")
	g.Put(graph.ResolvedBindings{Key: fooKey, StateVal: graph.Complete, Bindings: []binding.Binding{scoped}})

	opts := Options{ScopeValidation: SeverityNone, NullableValidation: SeverityError}
	rep := run(t, g, newDesc("C"), opts)
	require.True(t, rep.IsClean())
}

func TestValidateNullableMismatchIsFlagged(t *testing.T) {
	foo := fakeType{name: "Foo"}
	bar := fakeType{name: "Bar"}
	fooKey := key.ContributionKey(key.ForType(foo))
	barKey := key.ContributionKey(key.ForType(bar))

	dep, err := request.Classify(fakeElement{name: "bar", kind: source.KindParameter, typ: bar}, false)
	require.NoError(t, err)

	consumer := binding.NewProvision(fooKey, fakeElement{name: "provideFoo", kind: source.KindMethod}, []request.Request{dep}, binding.NoScope(), "pkg", key.Unique, nil, false, binding.Order{})
	nullableProvider := binding.NewProvision(barKey, fakeElement{name: "provideBar", kind: source.KindMethod}, nil, binding.NoScope(), "pkg", key.Unique, nil, true, binding.Order{})

	g := graph.NewResolvedGraph("C")
	g.Put(graph.ResolvedBindings{Key: fooKey, StateVal: graph.Complete, Bindings: []binding.Binding{consumer}})
	g.Put(graph.ResolvedBindings{Key: barKey, StateVal: graph.Complete, Bindings: []binding.Binding{nullableProvider}})

	rep := run(t, g, newDesc("C"), DefaultOptions())
	require.False(t, rep.IsClean())
	require.Contains(t, rep.Errors()[0].Message, "provideBar")
}

func TestValidateProvisionDependsOnProducerIsFlagged(t *testing.T) {
	foo := fakeType{name: "Foo"}
	bar := fakeType{name: "Bar"}
	producerOfBar := fakeType{name: "Producer<Bar>", wk: source.WellKnownProducer, args: []source.Type{bar}}
	fooKey := key.ContributionKey(key.ForType(foo))

	producerReq, err := request.Classify(fakeElement{name: "bar", kind: source.KindParameter, typ: producerOfBar}, true)
	require.NoError(t, err)

	badBind := binding.NewProvision(fooKey, fakeElement{name: "provideFoo", kind: source.KindMethod}, []request.Request{producerReq}, binding.NoScope(), "pkg", key.Unique, nil, false, binding.Order{})

	g := graph.NewResolvedGraph("C")
	g.Put(graph.ResolvedBindings{Key: fooKey, StateVal: graph.Complete, Bindings: []binding.Binding{badBind}})

	rep := run(t, g, newDesc("C"), DefaultOptions())
	require.False(t, rep.IsClean())
	require.Contains(t, rep.Errors()[0].Message, "provideFoo")
}

func TestValidateScopeHierarchyRedeclarationIsFlagged(t *testing.T) {
	child := newDesc("Child", binding.ScopeOf("Singleton"))
	parent := newDesc("Parent", binding.ScopeOf("Singleton"))
	parent.Subcomponents = []*component.Descriptor{child}

	g := graph.NewResolvedGraph("Parent")
	rep := run(t, g, parent, DefaultOptions())
	require.False(t, rep.IsClean())
	require.Contains(t, rep.Errors()[0].Message, "Singleton")
	require.Contains(t, rep.Errors()[0].Message, "Child")
	require.Contains(t, rep.Errors()[0].Message, "Parent")
}

func TestValidateScopeHierarchyDistinctScopesIsClean(t *testing.T) {
	child := newDesc("Child", binding.ScopeOf("ChildScope"))
	parent := newDesc("Parent", binding.ScopeOf("Singleton"))
	parent.Subcomponents = []*component.Descriptor{child}

	g := graph.NewResolvedGraph("Parent")
	rep := run(t, g, parent, DefaultOptions())
	require.True(t, rep.IsClean())
}

func TestValidateScopeCycleValidationNoneSkipsCheck(t *testing.T) {
	child := newDesc("Child", binding.ScopeOf("Singleton"))
	parent := newDesc("Parent", binding.ScopeOf("Singleton"))
	parent.Subcomponents = []*component.Descriptor{child}

	opts := DefaultOptions()
	opts.ScopeCycleValidation = SeverityNone
	g := graph.NewResolvedGraph("Parent")
	rep := run(t, g, parent, opts)
	require.True(t, rep.IsClean())
}

func TestValidateMapKeyDuplicateIsFlagged(t *testing.T) {
	strT := fakeType{name: "string"}
	mapBK := key.ContributionKey(key.ForType(fakeType{name: "Map<string, Provider<int>>", wk: source.WellKnownMap}))

	c1 := binding.NewProvision(mapBK, fakeElement{name: "provideOne", kind: source.KindMethod}, nil, binding.NoScope(), "pkg", key.Map, strT, false, binding.Order{Module: 0, Method: 0})
	c2 := binding.NewProvision(mapBK, fakeElement{name: "provideTwo", kind: source.KindMethod}, nil, binding.NoScope(), "pkg", key.Map, strT, false, binding.Order{Module: 0, Method: 1})

	multi := binding.NewSyntheticMultibinding(mapBK, key.Map, []binding.Binding{c1, c2})

	g := graph.NewResolvedGraph("C")
	g.Put(graph.ResolvedBindings{Key: mapBK, StateVal: graph.Complete, Bindings: []binding.Binding{multi}})

	rep := run(t, g, newDesc("C"), DefaultOptions())
	require.False(t, rep.IsClean())
	require.Contains(t, rep.Errors()[0].Message, "provideOne")
	require.Contains(t, rep.Errors()[0].Message, "provideTwo")
}
