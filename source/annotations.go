package source

// Canonical names of the marker annotations the core recognizes. A
// source.Model adapter maps whatever concrete syntax its host uses (Java
// annotations, Go struct tags, magic comments) onto these names; the core
// never matches on host-specific spellings.
const (
	AnnotationInject          = "Inject"
	AnnotationProvides        = "Provides"
	AnnotationProduces        = "Produces"
	AnnotationIntoSet         = "IntoSet"
	AnnotationElementsIntoSet = "ElementsIntoSet"
	AnnotationIntoMap         = "IntoMap"
	AnnotationMapKey          = "MapKey"
	AnnotationScope           = "Scope"
	AnnotationNullable        = "Nullable"
	AnnotationComponent       = "Component"
	AnnotationSubcomponent    = "Subcomponent"
	AnnotationProduction      = "ProductionComponent"
	AnnotationModule          = "Module"
)

// IsDirective reports whether name is one of the framework marker
// annotations above, as opposed to a user-defined qualifier. Request-site
// classification must skip directives when scanning for a qualifier.
func IsDirective(name string) bool {
	switch name {
	case AnnotationInject, AnnotationProvides, AnnotationProduces,
		AnnotationIntoSet, AnnotationElementsIntoSet, AnnotationIntoMap,
		AnnotationMapKey, AnnotationScope, AnnotationNullable,
		AnnotationComponent, AnnotationSubcomponent, AnnotationProduction,
		AnnotationModule:
		return true
	}
	return false
}

// FindAnnotation returns the first annotation on anns with the given
// canonical name, or nil.
func FindAnnotation(anns []Annotation, name string) Annotation {
	for _, a := range anns {
		if a.Name() == name {
			return a
		}
	}
	return nil
}
