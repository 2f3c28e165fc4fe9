package request

import (
	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/source"
)

// Framework builds a synthesized dependency request that has no source
// request site: the framework dependency a binding.SyntheticMapOfProvider
// declares on the Map<K, Provider<V>> key it defers to.
func Framework(bk key.BindingKey) Request {
	return Request{kind: Instance, bindingKey: bk}
}

// IsSynthesized reports whether r was built by Framework rather than
// Classify (i.e. it has no originating source site).
func (r Request) IsSynthesized() bool { return r.site == nil }

// ForMembersInjection builds the request a members-injection entry point
// (`void inject(Foo f)`) declares: a MembersInjection key on the parameter's
// type. Classify cannot produce this shape — the parameter's declared type
// is the target itself, not a MembersInjector<T> wrapper.
func ForMembersInjection(site source.Element) Request {
	return Request{
		kind:       MembersInjector,
		bindingKey: key.MembersInjectionKey(key.ForType(site.Type())),
		site:       site,
	}
}
