package bindgraph

import (
	"fmt"

	"github.com/bindgraph/core/key"
)

// InvariantError reports an invariant violation: a contradiction the core
// never expects a well-formed host to produce (e.g. a single BindingKey
// carrying both Contribution and MembersInjection bindings). Unlike
// graph-level diagnostics, which accumulate into a report.Report, an
// InvariantError aborts the current round — callers can errors.As it
// apart from an ordinary emission failure.
type InvariantError struct {
	Component string
	Key       key.BindingKey
	Reason    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("bindgraph: invariant violated in %s for %s: %s", e.Component, e.Key, e.Reason)
}
