package validate

import (
	"fmt"
	"strings"

	"github.com/bindgraph/core/report"
	"github.com/bindgraph/core/source"
)

// Recognized option names, matched case-insensitively.
const (
	OptionScopeValidation         = "scopevalidation"
	OptionNullableValidation      = "nullablevalidation"
	OptionPrivateMemberValidation = "privatemembervalidation"
	OptionStaticMemberValidation  = "staticmembervalidation"
	OptionScopeCycleValidation    = "scopecyclevalidation"
)

// ParseOptions reads the recognized configuration surface out of raw,
// starting from DefaultOptions. Option names and values are
// case-insensitive; an unrecognized value produces a self-diagnostic into b
// and falls back to that option's default. Unrecognized option names are the
// host's business and are ignored.
func ParseOptions(raw map[string]string, anchor source.Element, b *report.Builder) Options {
	opts := DefaultOptions()
	for name, value := range raw {
		switch strings.ToLower(name) {
		case OptionScopeValidation:
			opts.ScopeValidation = ParseSeverity(value, opts.ScopeValidation, anchor, b)
		case OptionNullableValidation:
			opts.NullableValidation = parseErrorOrWarning(value, opts.NullableValidation, anchor, b)
		case OptionPrivateMemberValidation:
			opts.PrivateMemberValidation = parseErrorOrWarning(value, opts.PrivateMemberValidation, anchor, b)
		case OptionStaticMemberValidation:
			opts.StaticMemberValidation = parseErrorOrWarning(value, opts.StaticMemberValidation, anchor, b)
		case OptionScopeCycleValidation:
			opts.ScopeCycleValidation = ParseSeverity(value, opts.ScopeCycleValidation, anchor, b)
		}
	}
	return opts
}

// parseErrorOrWarning is ParseSeverity restricted to the two-valued options
// (nullable, private-member, static-member), which may not be switched off.
func parseErrorOrWarning(raw string, def Severity, anchor source.Element, b *report.Builder) Severity {
	switch strings.ToLower(raw) {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	case "":
		return def
	default:
		b.Warning(fmt.Sprintf("unrecognized severity option %q, using default", raw), anchor)
		return def
	}
}
