package bindgraph

import (
	"github.com/bindgraph/core/binding"
	"github.com/bindgraph/core/component"
	"github.com/bindgraph/core/graph"
	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/registry"
	"github.com/bindgraph/core/report"
	"github.com/bindgraph/core/request"
	"github.com/bindgraph/core/resolver"
	"github.com/bindgraph/core/source"
	"github.com/bindgraph/core/validate"
)

// ComponentInput is one component's work for a single driver round. Only
// Descriptor is required: Run derives the entry-point requests and the
// explicit-bindings index from it when EntryPoints/Explicit are nil. A host
// that already classified them (or that has no descriptor, only raw
// bindings) may supply them directly. LeafReport carries the host's own
// element-discovery diagnostics, so Driver can honor the rule that a
// component advances only while all its predecessor reports are clean.
type ComponentInput struct {
	Descriptor  *component.Descriptor
	EntryPoints []request.Request
	Explicit    map[key.Canonical][]binding.Binding
	LeafReport  report.Report
}

// Emitter is the external collaborator the core never implements itself:
// it turns a clean ResolvedGraph, or an individually emission-pending
// Binding, into generated source. The core itself never formats or writes
// output.
type Emitter interface {
	EmitComponent(g *graph.ResolvedGraph) error
	EmitBinding(b binding.Binding) error
}

// ComponentResult is one component's outcome for a round: its resolved
// graph (nil if leaf validation never let it reach resolution) and the
// graph-validator's report.
type ComponentResult struct {
	Name   string
	Graph  *graph.ResolvedGraph
	Report report.Report
}

// Driver implements the processing driver: it runs one round over a batch
// of ComponentInputs — resolve, graph-validate, emit clean components —
// then drains the registry's cross-round emission queue exactly once.
//
// Driver carries no internal lock: the single-threaded cooperative model
// applies. A host invoking it from multiple goroutines must provide its
// own exclusion.
type Driver struct {
	registry *registry.Registry
	opts     validate.Options
	emitter  Emitter
}

// New builds a Driver sharing reg across every round it runs (the registry
// outlives any single Run call — its caches and emission queue are exactly
// the state that crosses round boundaries).
func New(reg *registry.Registry, opts validate.Options, emitter Emitter) *Driver {
	return &Driver{registry: reg, opts: opts, emitter: emitter}
}

// Run executes one processing round over inputs, in order. A component
// whose LeafReport is not clean never reaches resolution — its result
// simply carries that report forward, since a component advances only
// while all its predecessor reports are clean. A component that does
// resolve but fails graph validation is not handed to Emitter, but
// siblings still proceed: a graph-level error prevents emission but not
// other components' progress.
//
// Run returns an *InvariantError immediately, aborting the round, if the
// resolver ever produces a BindingKey whose candidate set mixes
// Contribution and MembersInjection bindings.
func (d *Driver) Run(inputs []ComponentInput) ([]ComponentResult, error) {
	results := make([]ComponentResult, 0, len(inputs))
	for _, in := range inputs {
		name := componentName(in.Descriptor)
		if !in.LeafReport.IsClean() {
			results = append(results, ComponentResult{Name: name, Report: in.LeafReport})
			continue
		}

		leaf := d.validateLeaves(in.Descriptor)
		if !leaf.IsClean() {
			results = append(results, ComponentResult{Name: name, Report: leaf})
			continue
		}

		entryPoints := in.EntryPoints
		explicit := in.Explicit
		if in.Descriptor != nil {
			var err error
			if entryPoints == nil {
				entryPoints, err = in.Descriptor.EntryPointRequests()
			}
			if err == nil && explicit == nil {
				explicit, err = resolver.BuildExplicit(in.Descriptor)
			}
			if err != nil {
				b := report.NewBuilder(componentAnchor(in.Descriptor))
				b.Error(err.Error(), componentAnchor(in.Descriptor))
				results = append(results, ComponentResult{Name: name, Report: b.Build()})
				continue
			}
		}

		r := resolver.New(name, explicit, d.registry)
		g := r.ResolveEntryPoints(entryPoints)
		if in.Descriptor != nil {
			g.TransitiveModules = in.Descriptor.ModuleRefs
		}

		if err := checkInvariants(name, g); err != nil {
			return results, err
		}

		b := report.NewBuilder(componentAnchor(in.Descriptor))
		validate.Validate(g, in.Descriptor, d.opts, b)
		rep := b.Build()

		if rep.IsClean() && d.emitter != nil {
			if err := d.emitter.EmitComponent(g); err != nil {
				return results, err
			}
		}
		results = append(results, ComponentResult{Name: name, Graph: g, Report: rep})
	}

	if d.emitter != nil {
		pending := d.registry.DrainEmissionQueue()
		for i, b := range pending {
			if err := d.emitter.EmitBinding(b); err != nil {
				d.registry.Requeue(pending[i:])
				return results, err
			}
		}
	}
	return results, nil
}

// MustRun is Run's panicking convenience wrapper.
func (d *Driver) MustRun(inputs []ComponentInput) []ComponentResult {
	results, err := d.Run(inputs)
	if err != nil {
		panic(err)
	}
	return results
}

// validateLeaves is the structural pass the driver owns before a component
// may resolve: every transitively included module's provider methods, and
// the component's own abstract-method shapes. Element-level inject-site
// validation is the host's discovery-time job (it sees fields and
// constructors the descriptor never carries), but the descriptor-reachable
// structure is checked here so a malformed module can never feed the
// resolver.
func (d *Driver) validateLeaves(desc *component.Descriptor) report.Report {
	b := report.NewBuilder(componentAnchor(desc))
	if desc != nil {
		for _, mod := range desc.Modules {
			validate.ValidateModule(mod, b)
		}
		if desc.ComponentType != nil {
			validate.ValidateComponentMethods(desc.ComponentType, b)
		}
	}
	return b.Build()
}

func componentName(d *component.Descriptor) string {
	if d == nil || d.ComponentType == nil {
		return "<component>"
	}
	return d.ComponentType.QualifiedName()
}

func componentAnchor(d *component.Descriptor) source.Element {
	if d == nil {
		return nil
	}
	return d.ComponentType
}

// checkInvariants implements the invariant check: a BindingKey whose
// candidate set mixes MembersInjection bindings with any other binding
// type is a contradiction no well-formed host can produce (a single key
// is either a members-injection site or a provision target, never both).
// The resolver already settles such a key to DuplicateBindings so it never
// panics mid-resolution (resolver.validate); checkInvariants is the
// driver-level backstop that turns that settled state into an aborting
// *InvariantError, rather than silently reporting it as an ordinary
// duplicate-binding diagnostic.
func checkInvariants(name string, g *graph.ResolvedGraph) error {
	for _, rb := range g.ResolvedBindingsInOrder() {
		membersInjection := 0
		other := 0
		for _, bnd := range rb.Bindings {
			if bnd.BindingType() == binding.MembersInjectionType {
				membersInjection++
			} else {
				other++
			}
		}
		if membersInjection > 0 && other > 0 {
			return &InvariantError{
				Component: name,
				Key:       rb.Key,
				Reason:    "a single BindingKey mixes Contribution and MembersInjection bindings",
			}
		}
	}
	return nil
}
