package gotypes

import (
	"fmt"
	"go/token"
	"io"

	"github.com/bindgraph/core/source"
)

// Messager formats diagnostics against a *token.FileSet, rendering each
// anchored element's token.Pos as a human-readable position.
type Messager struct {
	fset *token.FileSet
	out  io.Writer
	pos  map[source.Element]token.Pos
}

// NewMessager builds a Messager. pos supplies the source position for
// elements that have one; elements absent from pos are rendered without a
// line/column.
func NewMessager(fset *token.FileSet, out io.Writer, pos map[source.Element]token.Pos) *Messager {
	return &Messager{fset: fset, out: out, pos: pos}
}

func (m *Messager) Print(severity source.Severity, message string, anchor source.Element, subAnchor source.Annotation) {
	loc := "<unknown>"
	if anchor != nil {
		if p, ok := m.pos[anchor]; ok {
			loc = m.fset.Position(p).String()
		} else {
			loc = anchor.QualifiedName()
		}
	}
	sub := ""
	if subAnchor != nil {
		sub = fmt.Sprintf(" (on @%s)", subAnchor.Name())
	}
	fmt.Fprintf(m.out, "%s: %s: %s%s\n", loc, severity, message, sub)
}
