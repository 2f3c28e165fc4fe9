// Package report implements the validation reporter: a builder keyed by a
// root source anchor that accumulates diagnostic Items and can nest
// sub-reports which flatten on render. It is the single sink for
// user-visible diagnostics.
package report

import (
	"github.com/bindgraph/core/source"
)

// Item is a single diagnostic: a severity, a rendered message, the source
// element it anchors to, and an optional narrower sub-anchor (an
// annotation mirror, e.g. a single @IntoMap on a method with several
// annotations).
type Item struct {
	Severity  source.Severity
	Message   string
	Anchor    source.Element
	SubAnchor source.Annotation
}

// Builder accumulates Items against a root anchor and supports nested
// sub-reports that flatten into the parent on Build.
type Builder struct {
	root  source.Element
	items []Item
	subs  []*Builder
}

// NewBuilder starts a report rooted at anchor — typically the component or
// module element being validated.
func NewBuilder(anchor source.Element) *Builder {
	return &Builder{root: anchor}
}

// Root is the anchor this builder (and its nested sub-reports) was opened
// against.
func (b *Builder) Root() source.Element { return b.root }

// Error records an error-severity item.
func (b *Builder) Error(message string, anchor source.Element) {
	b.add(source.SeverityError, message, anchor, nil)
}

// ErrorAt records an error-severity item with a narrower sub-anchor.
func (b *Builder) ErrorAt(message string, anchor source.Element, subAnchor source.Annotation) {
	b.add(source.SeverityError, message, anchor, subAnchor)
}

// Warning records a warning-severity item.
func (b *Builder) Warning(message string, anchor source.Element) {
	b.add(source.SeverityWarning, message, anchor, nil)
}

// Note records a note-severity item.
func (b *Builder) Note(message string, anchor source.Element) {
	b.add(source.SeverityNote, message, anchor, nil)
}

// At records an item at an explicit severity, for validators that compute
// severity dynamically (e.g. from a configuration option).
func (b *Builder) At(severity source.Severity, message string, anchor source.Element) {
	b.add(severity, message, anchor, nil)
}

func (b *Builder) add(severity source.Severity, message string, anchor source.Element, subAnchor source.Annotation) {
	b.items = append(b.items, Item{Severity: severity, Message: message, Anchor: anchor, SubAnchor: subAnchor})
}

// SubReport opens a nested builder rooted at anchor. Its items flatten into
// the parent's rendered Report when Build is called; the sub-report is
// otherwise an ordinary Builder the caller accumulates into independently.
func (b *Builder) SubReport(anchor source.Element) *Builder {
	sub := NewBuilder(anchor)
	b.subs = append(b.subs, sub)
	return sub
}

// Build freezes the accumulated items (including all nested sub-reports,
// flattened in the order they were opened) into an immutable Report.
func (b *Builder) Build() Report {
	items := make([]Item, 0, len(b.items))
	items = append(items, b.items...)
	for _, sub := range b.subs {
		items = append(items, sub.Build().Items...)
	}
	return Report{Root: b.root, Items: items}
}

// Report is the frozen, render-ready output of a Builder: builders freeze
// into immutable values once Build is called.
type Report struct {
	Root  source.Element
	Items []Item
}

// IsClean reports whether no error-severity item was recorded anywhere in
// the report.
func (r Report) IsClean() bool {
	for _, it := range r.Items {
		if it.Severity == source.SeverityError {
			return false
		}
	}
	return true
}

// Errors returns only the error-severity items, in recorded order.
func (r Report) Errors() []Item {
	var out []Item
	for _, it := range r.Items {
		if it.Severity == source.SeverityError {
			out = append(out, it)
		}
	}
	return out
}

// Emit pushes every item in r to messager, in recorded order — the bridge
// between the in-memory Report and the host's diagnostic channel
// (source.Messager).
func (r Report) Emit(messager source.Messager) {
	for _, it := range r.Items {
		messager.Print(it.Severity, it.Message, it.Anchor, it.SubAnchor)
	}
}
