package diagnostic

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"mapper-generator/internal/common"
)

// Kind classifies diagnostics raised by the mapping core.
type Kind int

const (
	// KindUnspecified is used by configuration diagnostics identified by Code.
	KindUnspecified Kind = iota
	// UnresolvableMapping means no strategy converts a required type pair.
	UnresolvableMapping
	// MemberNotFound means a directive references an absent member.
	MemberNotFound
	// NullMismatchPolicyConflict means incompatible null fallback options
	// were configured together.
	NullMismatchPolicyConflict
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUnspecified:
		return "unspecified"
	case UnresolvableMapping:
		return "unresolvable_mapping"
	case MemberNotFound:
		return "member_not_found"
	case NullMismatchPolicyConflict:
		return "null_mismatch_policy_conflict"
	default:
		return common.UnknownStr
	}
}

// Severity returns the default severity of the kind.
func (k Kind) Severity() DiagnosticSeverity {
	if k == UnresolvableMapping {
		return DiagnosticError
	}

	return DiagnosticWarning
}

// Diagnostics holds all diagnostic information from resolution.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Kind is set for diagnostics raised by the mapping core.
	Kind Kind
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// TypePair identifies which type mapping this relates to (if any).
	TypePair string
	// Member identifies which member this relates to (if any).
	Member string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// New builds a core diagnostic with the default severity of kind.
func New(kind Kind, typePair, member, message string) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: kind.Severity(),
		Code:     kind.String(),
		Message:  message,
		TypePair: typePair,
		Member:   member,
	}
}

// Pair renders a type pair as "source -> target".
func Pair(source, target fmt.Stringer) string {
	return source.String() + " -> " + target.String()
}

// Add files d under its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typePair, member string) {
	d.Add(Diagnostic{Severity: DiagnosticError, Code: code, Message: message, TypePair: typePair, Member: member})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typePair, member string) {
	d.Add(Diagnostic{Severity: DiagnosticWarning, Code: code, Message: message, TypePair: typePair, Member: member})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typePair, member string) {
	d.Add(Diagnostic{Severity: DiagnosticInfo, Code: code, Message: message, TypePair: typePair, Member: member})
}

// HasErrors returns true if there are any error diagnostics.
func (d Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsEmpty reports whether nothing was recorded.
func (d Diagnostics) IsEmpty() bool {
	return len(d.Errors)+len(d.Warnings)+len(d.Infos) == 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// OfKind returns all diagnostics of the given kind, errors first.
func (d Diagnostics) OfKind(kind Kind) []Diagnostic {
	var out []Diagnostic

	for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range group {
			if diag.Kind == kind {
				out = append(out, diag)
			}
		}
	}

	return out
}

// Err combines the error diagnostics into one error, or returns nil.
func (d Diagnostics) Err() error {
	var err error
	for _, e := range d.Errors {
		err = multierr.Append(err, e)
	}

	return err
}

// Error implements error so diagnostics can be combined with multierr.
func (d Diagnostic) Error() string {
	return d.String()
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.TypePair != "" {
		prefix = append(prefix, "["+d.TypePair+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
