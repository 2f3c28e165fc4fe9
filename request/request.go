// Package request implements the dependency request model: classifying a
// request site (a constructor/method parameter, an injected field, or a
// provider method's own return) into a request kind plus the BindingKey
// it ultimately resolves against.
package request

import (
	"errors"
	"fmt"

	"github.com/bindgraph/core/key"
	"github.com/bindgraph/core/source"
)

// Kind is the request-kind lattice.
type Kind int

const (
	Instance Kind = iota
	Provider
	Lazy
	ProviderOfLazy
	MembersInjector
	Producer
	Produced
	Future
)

func (k Kind) String() string {
	switch k {
	case Instance:
		return "Instance"
	case Provider:
		return "Provider"
	case Lazy:
		return "Lazy"
	case ProviderOfLazy:
		return "ProviderOfLazy"
	case MembersInjector:
		return "MembersInjector"
	case Producer:
		return "Producer"
	case Produced:
		return "Produced"
	case Future:
		return "Future"
	default:
		return "unknown"
	}
}

// IsProductionFamily reports whether k is one of the production request
// kinds (Producer, Produced, Future).
func (k Kind) IsProductionFamily() bool {
	return k == Producer || k == Produced || k == Future
}

// BreaksCycles reports whether an edge of this kind legally breaks a
// dependency cycle: Provider, Lazy and ProviderOfLazy edges defer
// construction, so a cycle through only such edges is not an error.
func (k Kind) BreaksCycles() bool {
	return k == Provider || k == Lazy || k == ProviderOfLazy
}

// ErrMultipleQualifiers is returned when a request site carries more than
// one qualifier annotation.
var ErrMultipleQualifiers = errors.New("request: site carries more than one qualifier")

// ErrProvisionDependsOnProducer is returned when a non-production binding
// site requests a production-family kind.
var ErrProvisionDependsOnProducer = errors.New("request: provision binding may not depend on a producer")

// Request is a single dependency request: a request-kind, the BindingKey it
// resolves to, and the site it was read from (for diagnostics).
type Request struct {
	kind       Kind
	bindingKey key.BindingKey
	site       source.Element
	allowsNull bool
}

func (r Request) Kind() Kind               { return r.kind }
func (r Request) BindingKey() key.BindingKey { return r.bindingKey }
func (r Request) Site() source.Element      { return r.site }

// AllowsNull reports whether the request site tolerates a null value: the
// site carries a Nullable marker, or the request kind defers construction
// (Provider/Lazy hand the null check to the caller).
func (r Request) AllowsNull() bool { return r.allowsNull || r.kind.BreaksCycles() }

func (r Request) String() string {
	if r.kind == Instance {
		return r.bindingKey.String()
	}
	return fmt.Sprintf("%s<%s>", r.kind, r.bindingKey)
}

// Classify reads site's type and annotations and produces the matching
// (kind, BindingKey) pair:
//   - the outermost framework wrapper (Provider/Lazy/Provider<Lazy<T>>/
//     MembersInjector/Producer/Produced/Future) is stripped to determine
//     kind; otherwise kind is Instance
//   - the site's qualifier (if any) flows through to the underlying key
//   - allowProduction must be true for the request to legally carry a
//     production-family kind; a provision binding site passes false.
func Classify(site source.Element, allowProduction bool) (Request, error) {
	q, nullable, err := qualifierOf(site)
	if err != nil {
		return Request{}, err
	}

	t := site.Type()
	kind := Instance
	underlying := t
	wk := source.NotWellKnown
	if t != nil {
		wk = t.WellKnown()
	}
	switch wk {
	case source.WellKnownProvider:
		args := t.TypeArgs()
		if len(args) == 1 && args[0] != nil && args[0].WellKnown() == source.WellKnownLazy {
			inner := args[0].TypeArgs()
			if len(inner) == 1 {
				kind, underlying = ProviderOfLazy, inner[0]
				break
			}
		}
		if len(args) == 1 {
			kind, underlying = Provider, args[0]
		}
	case source.WellKnownLazy:
		if args := t.TypeArgs(); len(args) == 1 {
			kind, underlying = Lazy, args[0]
		}
	case source.WellKnownMembersInjector:
		if args := t.TypeArgs(); len(args) == 1 {
			kind, underlying = MembersInjector, args[0]
		}
	case source.WellKnownProducer:
		if args := t.TypeArgs(); len(args) == 1 {
			kind, underlying = Producer, args[0]
		}
	case source.WellKnownProduced:
		if args := t.TypeArgs(); len(args) == 1 {
			kind, underlying = Produced, args[0]
		}
	case source.WellKnownFuture:
		if args := t.TypeArgs(); len(args) == 1 {
			kind, underlying = Future, args[0]
		}
	}

	if kind.IsProductionFamily() && !allowProduction {
		return Request{}, ErrProvisionDependsOnProducer
	}

	var bk key.BindingKey
	if kind == MembersInjector {
		bk = key.MembersInjectionKey(key.ForType(underlying))
	} else {
		bk = key.ContributionKey(key.ForQualified(q, underlying))
	}
	return Request{kind: kind, bindingKey: bk, site: site, allowsNull: nullable}, nil
}

// SiteQualifier exposes the qualifier rule for callers that need a site's
// qualifier without a full request classification (e.g. keying a component
// dependency's provision methods).
func SiteQualifier(site source.Element) (key.Qualifier, error) {
	q, _, err := qualifierOf(site)
	return q, err
}

// qualifierOf scans site's annotations for the (at most one) qualifier,
// skipping framework directives — an @Inject mark or a @Nullable on the site
// is not a qualifier. The second return reports whether a Nullable marker
// was among the skipped directives.
func qualifierOf(site source.Element) (key.Qualifier, bool, error) {
	var qualifiers []source.Annotation
	nullable := false
	for _, a := range site.Annotations() {
		if a.Name() == source.AnnotationNullable {
			nullable = true
			continue
		}
		if source.IsDirective(a.Name()) {
			continue
		}
		qualifiers = append(qualifiers, a)
	}
	switch len(qualifiers) {
	case 0:
		return key.NoQualifier(), nullable, nil
	case 1:
		return key.QualifierOf(qualifiers[0]), nullable, nil
	default:
		return key.Qualifier{}, nullable, ErrMultipleQualifiers
	}
}
