package binding

import (
	"errors"

	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/request"
	"github.com/bindgraph/core/source"
)

// ErrBindingMethodMustReturnValue is returned for a @Provides/@Produces
// method declared with a void return.
var ErrBindingMethodMustReturnValue = errors.New("binding: binding method must return a value")

// ErrProducesRawFuture is returned for a @Produces method returning a raw
// (unparameterized) Future.
var ErrProducesRawFuture = errors.New("binding: @Produces method may not return a raw Future")

// ParseProviderMethod reads one module method and, if it carries a
// @Provides or @Produces mark, builds the corresponding binding. The second
// return is false for a plain method with neither mark — not an error, the
// method just contributes nothing.
//
// The method's non-directive annotation (at most one) is its qualifier; its
// parameters become explicit dependencies, classified with production
// requests allowed only under @Produces. A @Produces method returning
// Future<T> binds T, the same way its parameters may unwrap Produced<T>.
func ParseProviderMethod(method source.Element, order Order) (Binding, bool, error) {
	anns := method.Annotations()
	provides := source.FindAnnotation(anns, source.AnnotationProvides) != nil
	produces := source.FindAnnotation(anns, source.AnnotationProduces) != nil
	if !provides && !produces {
		return Binding{}, false, nil
	}

	ret := method.Type()
	if ret == nil || ret.Kind() == source.KindVoidType {
		return Binding{}, false, ErrBindingMethodMustReturnValue
	}
	if produces && ret.WellKnown() == source.WellKnownFuture {
		args := ret.TypeArgs()
		if len(args) != 1 {
			return Binding{}, false, ErrProducesRawFuture
		}
		ret = args[0]
	}

	q, err := methodQualifier(anns)
	if err != nil {
		return Binding{}, false, err
	}

	contribution := key.Unique
	switch {
	case source.FindAnnotation(anns, source.AnnotationIntoSet) != nil:
		contribution = key.Set
	case source.FindAnnotation(anns, source.AnnotationElementsIntoSet) != nil:
		contribution = key.SetValues
	case source.FindAnnotation(anns, source.AnnotationIntoMap) != nil:
		contribution = key.Map
	}

	var mapKeyType source.Type
	if mk := source.FindAnnotation(anns, source.AnnotationMapKey); mk != nil {
		mapKeyType = mk.Type()
	}

	k, err := key.ForProvidesMethod(q, ret, contribution, mapKeyType)
	if err != nil {
		return Binding{}, false, err
	}
	bk := key.ContributionKey(k)

	deps, err := classifyParams(method, produces)
	if err != nil {
		return Binding{}, false, err
	}

	if produces {
		return NewProduction(bk, method, deps, method.Package(), contribution, mapKeyType, order), true, nil
	}

	scope := NoScope()
	if sc := source.FindAnnotation(anns, source.AnnotationScope); sc != nil {
		if name, ok := sc.Values()["value"].(string); ok && name != "" {
			scope = ScopeOf(name)
		}
	}
	nullable := source.FindAnnotation(anns, source.AnnotationNullable) != nil
	return NewProvision(bk, method, deps, scope, method.Package(), contribution, mapKeyType, nullable, order), true, nil
}

func classifyParams(method source.Element, allowProduction bool) ([]request.Request, error) {
	var deps []request.Request
	for _, p := range method.Enclosed() {
		if p.Kind() != source.KindParameter {
			continue
		}
		r, err := request.Classify(p, allowProduction)
		if err != nil {
			return nil, err
		}
		deps = append(deps, r)
	}
	return deps, nil
}

// methodQualifier picks the (at most one) non-directive annotation off a
// binding method.
func methodQualifier(anns []source.Annotation) (key.Qualifier, error) {
	var qualifiers []source.Annotation
	for _, a := range anns {
		if source.IsDirective(a.Name()) {
			continue
		}
		qualifiers = append(qualifiers, a)
	}
	switch len(qualifiers) {
	case 0:
		return key.NoQualifier(), nil
	case 1:
		return key.QualifierOf(qualifiers[0]), nil
	default:
		return key.Qualifier{}, request.ErrMultipleQualifiers
	}
}
