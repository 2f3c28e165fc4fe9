// Package bindgraph is the compile-time core of a dependency-injection code
// generator: given a component's modules and entry points, it resolves a
// full dependency graph of bindings and validates it, handing the clean
// result to an external emitter.
//
// The interesting work lives in the lower packages — key (binding
// identity), request (dependency-request classification), binding (the
// tagged binding variants), registry (on-demand injection-binding
// discovery), component (component/module descriptors), resolver (the
// graph resolution algorithm) and validate (semantic graph checks). This
// package is the thin round-structured orchestrator tying them together,
// plus the Driver API a host program actually calls.
//
// A minimal host loop looks like:
//
//	reg := registry.New(myInjectionFinder, myMembersInjectionFinder)
//	drv := bindgraph.New(reg, validate.DefaultOptions(), myEmitter)
//
//	for !done {
//		inputs := discoverComponentsThisRound() // host-specific: source.Model
//		results, err := drv.Run(inputs)
//		if err != nil {
//			return err
//		}
//		done = noMoreWorkPending(results)
//	}
//
// Discovery of annotated elements is host-specific — it feeds the
// ComponentInput the caller builds for each round (inject-site validation
// happens there too, with validate's element validators). Driver owns the
// rest: structural validation of each descriptor's modules and component
// methods, resolution, graph validation, emission, and draining the
// registry's pending-emission queue.
package bindgraph
