package validate

import (
	"errors"
	"fmt"

	"github.com/bindgraph/core/binding"
	"github.com/bindgraph/core/component"
	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/report"
	"github.com/bindgraph/core/request"
	"github.com/bindgraph/core/source"
)

// Source-level message formats, applied before any graph is resolved.
const (
	BindingMethodMustReturnValueFormat = "binding method %s must return a value"
	ProducesRawFutureFormat            = "@Produces method %s may not return a raw Future"
	ProvidesSetValuesReturnSetFormat   = "SET_VALUES method %s must return a Set"
	MapKeyRequiredFormat               = "@IntoMap method %s requires a @MapKey annotation"
	MultipleQualifiersFormat           = "%s carries more than one qualifier annotation"
	PrivateInjectFormat                = "injection into a private %s is not supported: %s"
	StaticInjectFormat                 = "injection into a static %s is not supported: %s"
	AbstractInjectFormat               = "@Inject is not valid on an abstract %s: %s"
	PrivateConstructorFormat           = "@Inject constructor %s must not be private"
	ScopeOnInjectSiteFormat            = "scope annotation is not valid on injection site %s; scope the enclosing binding instead"
	InnerClassConstructorFormat        = "@Inject constructor %s is on an inner class"
	MalformedComponentMethodFormat     = "component method %s is neither a provision method (no args, non-void return) nor a members-injection method (one arg)"
)

// ValidateInjectConstructor applies the shape rules for a constructor
// carrying an @Inject mark: it must not be private, and its enclosing type
// must be a concrete, non-abstract class.
func ValidateInjectConstructor(ctor source.Element, b *report.Builder) {
	if ctor.Modifiers().Private {
		b.Error(fmt.Sprintf(PrivateConstructorFormat, ctor.QualifiedName()), ctor)
	}
	if enclosing := ctor.Enclosing(); enclosing != nil {
		if enclosing.Modifiers().Abstract || enclosing.Kind() == source.KindInterface {
			b.Error(fmt.Sprintf(AbstractInjectFormat, "class", enclosing.QualifiedName()), ctor)
		}
		if outer := enclosing.Enclosing(); outer != nil && outer.Kind() == source.KindClass {
			b.Error(fmt.Sprintf(InnerClassConstructorFormat, ctor.QualifiedName()), ctor)
		}
	}
	if _, err := request.SiteQualifier(ctor); errors.Is(err, request.ErrMultipleQualifiers) {
		b.Error(fmt.Sprintf(MultipleQualifiersFormat, ctor.QualifiedName()), ctor)
	}
	checkNoScopeOnSite(ctor, b)
}

// checkNoScopeOnSite flags a scope annotation on an injection site: scopes
// qualify bindings (components, provider methods, injected types), never the
// individual field/method/constructor being populated.
func checkNoScopeOnSite(e source.Element, b *report.Builder) {
	if sc := source.FindAnnotation(e.Annotations(), source.AnnotationScope); sc != nil {
		b.ErrorAt(fmt.Sprintf(ScopeOnInjectSiteFormat, e.QualifiedName()), e, sc)
	}
}

// ValidateInjectField applies the private/static member rules to an @Inject
// field, at the configured severities.
func ValidateInjectField(f source.Element, opts Options, b *report.Builder) {
	mods := f.Modifiers()
	if mods.Private {
		b.At(opts.PrivateMemberValidation.reportSeverity(), fmt.Sprintf(PrivateInjectFormat, "field", f.QualifiedName()), f)
	}
	if mods.Static {
		b.At(opts.StaticMemberValidation.reportSeverity(), fmt.Sprintf(StaticInjectFormat, "field", f.QualifiedName()), f)
	}
	checkNoScopeOnSite(f, b)
}

// ValidateInjectMethod applies the private/static/abstract member rules to
// an @Inject method.
func ValidateInjectMethod(m source.Element, opts Options, b *report.Builder) {
	mods := m.Modifiers()
	if mods.Abstract {
		b.Error(fmt.Sprintf(AbstractInjectFormat, "method", m.QualifiedName()), m)
	}
	if mods.Private {
		b.At(opts.PrivateMemberValidation.reportSeverity(), fmt.Sprintf(PrivateInjectFormat, "method", m.QualifiedName()), m)
	}
	if mods.Static {
		b.At(opts.StaticMemberValidation.reportSeverity(), fmt.Sprintf(StaticInjectFormat, "method", m.QualifiedName()), m)
	}
	checkNoScopeOnSite(m, b)
}

// ValidateModule runs the provider-method shape rules over every provider
// method a module declares. It is a pure structural pass: the bindings it
// parses are discarded, only the diagnostics survive. Returns whether every
// method was clean.
func ValidateModule(mod component.ModuleDescriptor, b *report.Builder) bool {
	clean := true
	for _, m := range mod.ProviderMethods {
		if !ValidateProviderMethod(m, b) {
			clean = false
		}
	}
	return clean
}

// ValidateProviderMethod checks one @Provides/@Produces method's shape:
// non-void return, no raw Future under @Produces, a Set return under
// SET_VALUES, a @MapKey on every @IntoMap method, at most one qualifier.
// A method with neither mark passes vacuously.
func ValidateProviderMethod(m source.Element, b *report.Builder) bool {
	_, _, err := binding.ParseProviderMethod(m, binding.Order{})
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, binding.ErrBindingMethodMustReturnValue):
		b.Error(fmt.Sprintf(BindingMethodMustReturnValueFormat, m.QualifiedName()), m)
	case errors.Is(err, binding.ErrProducesRawFuture):
		b.Error(fmt.Sprintf(ProducesRawFutureFormat, m.QualifiedName()), m)
	case errors.Is(err, key.ErrSetValuesMustReturnSet):
		b.Error(fmt.Sprintf(ProvidesSetValuesReturnSetFormat, m.QualifiedName()), m)
	case errors.Is(err, key.ErrMapKeyRequired):
		b.Error(fmt.Sprintf(MapKeyRequiredFormat, m.QualifiedName()), m)
	case errors.Is(err, request.ErrMultipleQualifiers):
		b.Error(fmt.Sprintf(MultipleQualifiersFormat, m.QualifiedName()), m)
	default:
		b.Error(err.Error(), m)
	}
	return false
}

// ValidateComponentMethods checks every abstract method on a component type
// against the two legal entry-point shapes, without building a descriptor.
func ValidateComponentMethods(componentType source.Element, b *report.Builder) bool {
	clean := true
	selfType := componentType.Type()
	for _, m := range componentType.Enclosed() {
		if m.Kind() != source.KindMethod || !m.Modifiers().Abstract {
			continue
		}
		if _, err := component.ClassifyEntryPoint(m, selfType); err != nil {
			b.Error(fmt.Sprintf(MalformedComponentMethodFormat, m.QualifiedName()), m)
			clean = false
		}
	}
	return clean
}
