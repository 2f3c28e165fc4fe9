// Package validate implements the graph validator: semantic checks over a
// resolver's already-built graph.ResolvedGraph, pushing every finding
// through a report.Builder so the driver can decide whether the component
// is clean enough to hand off to the emitter. Cycle and missing-binding
// messages render the declaration-site path the resolver recorded rather
// than re-deriving it.
package validate

import (
	"fmt"
	"strings"

	"github.com/bindgraph/core/binding"
	"github.com/bindgraph/core/component"
	"github.com/bindgraph/core/graph"
	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/report"
	"github.com/bindgraph/core/request"
	"github.com/bindgraph/core/source"
)

// Severity is the configurable lattice for checks that may be downgraded to
// a warning or switched off outright. It is distinct from source.Severity
// because "None" never produces a report.Item at all.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNone
)

// ParseSeverity maps an option value (case-insensitively) to a Severity,
// falling back to def — and recording a self-diagnostic into b — on
// anything unrecognized.
func ParseSeverity(raw string, def Severity, anchor source.Element, b *report.Builder) Severity {
	switch strings.ToLower(raw) {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	case "none":
		return SeverityNone
	case "":
		return def
	default:
		b.Warning(fmt.Sprintf("unrecognized severity option %q, using default", raw), anchor)
		return def
	}
}

func (s Severity) reportSeverity() source.Severity {
	if s == SeverityWarning {
		return source.SeverityWarning
	}
	return source.SeverityError
}

// Options is the recognized configuration surface.
// PrivateMemberValidation/StaticMemberValidation drive the source-level
// inject-site checks in elements.go; the rest drive graph-level checks.
type Options struct {
	ScopeValidation         Severity
	NullableValidation      Severity
	ScopeCycleValidation    Severity
	PrivateMemberValidation Severity
	StaticMemberValidation  Severity
}

// DefaultOptions are the documented defaults: all Error.
func DefaultOptions() Options {
	return Options{
		ScopeValidation:         SeverityError,
		NullableValidation:      SeverityError,
		ScopeCycleValidation:    SeverityError,
		PrivateMemberValidation: SeverityError,
		StaticMemberValidation:  SeverityError,
	}
}

// Error-message format templates.
const (
	RequiresProviderFormat        = "%s cannot be provided without an @Provides-annotated method."
	RequiresInjectConstructorFormat = "%s cannot be provided without an @Inject constructor or an @Provides-annotated method."
	ContainsDependencyCycleFormat = "Found a dependency cycle: %s"
	DuplicateBindingsFormat       = "%s is bound multiple times: %s"
	MultipleBindingKindsFormat    = "%s is bound as %s"
	DuplicateMapKeysFormat        = "Duplicate map keys for %s: %s"
	ScopeNotDeclaredFormat        = "%s is scoped %s but %s does not declare that scope"
	NullableMismatchFormat        = "%s is not @Nullable but is provided by %s, which is @Nullable"
	ProvisionDependsOnProducerFormat = "%s is a provision binding but depends on producer %s"
	ScopeCycleFormat              = "%s declares scope %s, which %s already declares in this component hierarchy"
	MalformedBindingFormat        = "%s has a malformed binding"
)

// Validate walks every record in g, in insertion order, and records a
// diagnostic for each semantic violation into b. It never mutates g; desc
// supplies the component's declared scopes for the scope-consistency check
// and its subcomponent tree for the scope-hierarchy check.
func Validate(g *graph.ResolvedGraph, desc *component.Descriptor, opts Options, b *report.Builder) {
	v := &validator{g: g, desc: desc, opts: opts, b: b}
	for _, rb := range g.ResolvedBindingsInOrder() {
		v.checkOne(rb)
	}
	v.checkScopeHierarchy()
}

type validator struct {
	g    *graph.ResolvedGraph
	desc *component.Descriptor
	opts Options
	b    *report.Builder
}

func (v *validator) anchor() source.Element {
	if v.desc != nil {
		return v.desc.ComponentType
	}
	return nil
}

func (v *validator) checkOne(rb graph.ResolvedBindings) {
	switch rb.StateVal {
	case graph.Missing:
		v.reportMissing(rb)
	case graph.DuplicateBindings:
		v.reportDuplicates(rb)
	case graph.MultipleBindingKinds:
		v.reportMultipleKinds(rb)
	case graph.Cycle:
		v.reportCycle(rb)
	case graph.Malformed:
		v.reportMalformed(rb)
	}
	for _, bnd := range rb.Bindings {
		v.checkScope(bnd)
		v.checkNullable(bnd)
		v.checkProvisionDependsOnProducer(bnd)
		v.checkMapKeyUniqueness(rb.Key, bnd)
	}
}

// reportMissing splits missing-binding diagnostics: an abstract type with no
// @Provides method gets RequiresProviderFormat; a concrete type missing an
// injection constructor gets RequiresInjectConstructorFormat. Either way
// the message carries the declaration-site path the resolver recorded.
func (v *validator) reportMissing(rb graph.ResolvedBindings) {
	if rb.Key.Kind() == key.MembersInjection {
		return
	}
	t := rb.Key.Key().Type()
	name := rb.Key.String()
	format := RequiresInjectConstructorFormat
	if t == nil || t.Kind() == source.KindInterface {
		format = RequiresProviderFormat
	}
	msg := fmt.Sprintf(format, name)
	if path := formatPath(rb.Path); path != "" {
		msg += " Requested by: " + path
	}
	v.b.Error(msg, v.anchor())
}

func (v *validator) reportDuplicates(rb graph.ResolvedBindings) {
	var sigs []string
	for _, bnd := range rb.Bindings {
		sigs = append(sigs, originSignature(bnd))
	}
	v.b.Error(fmt.Sprintf(DuplicateBindingsFormat, rb.Key.String(), strings.Join(sigs, ", ")), v.anchor())
}

func (v *validator) reportMultipleKinds(rb graph.ResolvedBindings) {
	kinds := map[string]bool{}
	var ordered []string
	for _, bnd := range rb.Bindings {
		name := "unique"
		if ct, ok := bnd.ContributionType(); ok {
			name = ct.String()
		}
		if !kinds[name] {
			kinds[name] = true
			ordered = append(ordered, name)
		}
	}
	v.b.Error(fmt.Sprintf(MultipleBindingKindsFormat, rb.Key.String(), strings.Join(ordered, " and ")), v.anchor())
}

func (v *validator) reportCycle(rb graph.ResolvedBindings) {
	v.b.Error(fmt.Sprintf(ContainsDependencyCycleFormat, formatPath(rb.Path)), v.anchor())
}

// reportMalformed surfaces a lookup failure the resolver recorded: the
// binding exists in principle but could not be constructed.
func (v *validator) reportMalformed(rb graph.ResolvedBindings) {
	msg := fmt.Sprintf(MalformedBindingFormat, rb.Key.String())
	if rb.Err != nil {
		msg += ": " + rb.Err.Error()
	}
	if path := formatPath(rb.Path); path != "" {
		msg += " Requested by: " + path
	}
	v.b.Error(msg, v.anchor())
}

// checkScope implements the scope-consistency rule: a binding carrying a
// scope the component never declares.
func (v *validator) checkScope(bnd binding.Binding) {
	if v.opts.ScopeValidation == SeverityNone {
		return
	}
	sc := bnd.Scope()
	if !sc.Present() || v.desc == nil {
		return
	}
	for _, declared := range v.desc.DeclaredScopes() {
		if declared.Equal(sc) {
			return
		}
	}
	msg := fmt.Sprintf(ScopeNotDeclaredFormat, originSignature(bnd), sc.Name(), v.componentName())
	v.b.At(v.opts.ScopeValidation.reportSeverity(), msg, bnd.BindingElementOrigin())
}

// checkScopeHierarchy walks desc's subcomponent tree looking for a scope
// name declared by more than one component along the same root-to-leaf
// path: a component and one of its own subcomponents (however deeply
// nested) must never claim the same scope, since that would leave it
// ambiguous which component's instance the scope caches against.
func (v *validator) checkScopeHierarchy() {
	if v.opts.ScopeCycleValidation == SeverityNone || v.desc == nil {
		return
	}
	v.walkScopeHierarchy(v.desc, map[string]*component.Descriptor{})
}

func (v *validator) walkScopeHierarchy(d *component.Descriptor, declaredBy map[string]*component.Descriptor) {
	if d == nil {
		return
	}
	next := make(map[string]*component.Descriptor, len(declaredBy))
	for name, owner := range declaredBy {
		next[name] = owner
	}
	for _, sc := range d.DeclaredScopes() {
		if owner, ok := next[sc.Name()]; ok {
			msg := fmt.Sprintf(ScopeCycleFormat, componentNameOf(d), sc.Name(), componentNameOf(owner))
			v.b.At(v.opts.ScopeCycleValidation.reportSeverity(), msg, d.ComponentType)
			continue
		}
		next[sc.Name()] = d
	}
	for _, sub := range d.Subcomponents {
		v.walkScopeHierarchy(sub, next)
	}
}

// checkNullable implements the nullable/non-nullable contract: any
// Instance-kind dependency edge into a binding whose sole resolved
// provider is @Nullable is a mismatch, since an Instance request promises a
// non-null value. A request site marked @Nullable accepts the null, and a
// Provider<T>/Lazy<T> edge defers the check to the caller; both are exempt.
func (v *validator) checkNullable(bnd binding.Binding) {
	if v.opts.NullableValidation == SeverityNone {
		return
	}
	for _, dep := range bnd.ImplicitDependencies() {
		if dep.Kind() != request.Instance || dep.AllowsNull() {
			continue
		}
		target, ok := v.g.Get(dep.BindingKey())
		if !ok || len(target.Bindings) != 1 {
			continue
		}
		if !target.Bindings[0].Nullable() {
			continue
		}
		msg := fmt.Sprintf(NullableMismatchFormat, originSignature(bnd), originSignature(target.Bindings[0]))
		v.b.At(v.opts.NullableValidation.reportSeverity(), msg, bnd.BindingElementOrigin())
	}
}

// checkProvisionDependsOnProducer is a graph-level backstop for the
// "provision depending on production" rule. request.Classify already
// rejects a production-family request on a non-production call site, so
// this only fires if a caller assembled a Binding by hand without going
// through Classify — still worth catching rather than silently trusting
// construction-time discipline.
func (v *validator) checkProvisionDependsOnProducer(bnd binding.Binding) {
	if bnd.BindingType() != binding.Provision {
		return
	}
	for _, dep := range bnd.ImplicitDependencies() {
		if dep.Kind().IsProductionFamily() {
			v.b.Error(fmt.Sprintf(ProvisionDependsOnProducerFormat, originSignature(bnd), dep.BindingKey().String()), bnd.BindingElementOrigin())
		}
	}
}

// checkMapKeyUniqueness implements the map-key uniqueness rule: two Map
// contributions collapsed into the same SyntheticMultibinding that declare
// the same @MapKey value.
func (v *validator) checkMapKeyUniqueness(bk key.BindingKey, bnd binding.Binding) {
	sm, ok := bnd.Unwrap().(binding.SyntheticMultibinding)
	if !ok || sm.Contribution != key.Map {
		return
	}
	seenKeys := map[string][]source.Element{}
	var order []string
	for i, mk := range sm.ContributionMapKeys {
		if mk == nil {
			continue
		}
		s := mk.String()
		if _, ok := seenKeys[s]; !ok {
			order = append(order, s)
		}
		seenKeys[s] = append(seenKeys[s], sm.ContributionOrigins[i])
	}
	for _, mkStr := range order {
		origins := seenKeys[mkStr]
		if len(origins) <= 1 {
			continue
		}
		var names []string
		for _, o := range origins {
			names = append(names, o.QualifiedName())
		}
		v.b.Error(fmt.Sprintf(DuplicateMapKeysFormat, bk.String(), mkStr+": "+strings.Join(names, ", ")), v.anchor())
	}
}

func (v *validator) componentName() string {
	return componentNameOf(v.desc)
}

func componentNameOf(d *component.Descriptor) string {
	if d == nil || d.ComponentType == nil {
		return "<component>"
	}
	return d.ComponentType.QualifiedName()
}

// originSignature renders a binding's origin element as a method-signature
// style string for duplicate/nullable diagnostics.
func originSignature(bnd binding.Binding) string {
	origin := bnd.BindingElementOrigin()
	if origin == nil {
		return bnd.Key().String()
	}
	return origin.QualifiedName()
}

// formatPath renders a declaration-site path as "A → B → C".
func formatPath(path []key.BindingKey) string {
	if len(path) == 0 {
		return ""
	}
	parts := make([]string, len(path))
	for i, bk := range path {
		parts[i] = bk.String()
	}
	return strings.Join(parts, " → ")
}
