package descriptor

import (
	"mapper-generator/internal/analyze"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/syntax"
)

type assignMode int

const (
	assignDirect assignMode = iota
	assignConvert
	assignUnresolved
)

// SimpleAssignment passes the source through, converts it, or stands in for
// an unresolvable pair.
type SimpleAssignment struct {
	source *analyze.TypeInfo
	target *analyze.TypeInfo
	mode   assignMode
}

// NewDirectAssignment creates a synthetic pass-through.
func NewDirectAssignment(source, target *analyze.TypeInfo) *SimpleAssignment {
	return &SimpleAssignment{source: source, target: target, mode: assignDirect}
}

// NewConversion creates an explicit conversion to the target type.
func NewConversion(source, target *analyze.TypeInfo) *SimpleAssignment {
	return &SimpleAssignment{source: source, target: target, mode: assignConvert}
}

// NewUnresolved creates the placeholder of an unresolvable pair. It builds a
// not implemented runtime failure.
func NewUnresolved(source, target *analyze.TypeInfo) *SimpleAssignment {
	return &SimpleAssignment{source: source, target: target, mode: assignUnresolved}
}

func (m *SimpleAssignment) Kind() Kind                    { return KindSimpleAssignment }
func (m *SimpleAssignment) SourceType() *analyze.TypeInfo { return m.source }
func (m *SimpleAssignment) TargetType() *analyze.TypeInfo { return m.target }
func (m *SimpleAssignment) IsSynthetic() bool             { return m.mode == assignDirect }
func (m *SimpleAssignment) CallableByOthers() bool        { return true }

// Unresolved reports whether the node is a placeholder.
func (m *SimpleAssignment) Unresolved() bool {
	return m.mode == assignUnresolved
}

// Build implements Mapping.
func (m *SimpleAssignment) Build(ctx *BuildContext) syntax.Expr {
	switch m.mode {
	case assignConvert:
		return syntax.Cast{Type: m.target.String(), X: ctx.Source}
	case assignUnresolved:
		return syntax.Throw{Kind: syntax.ThrowNotImplemented, Subject: diagnostic.Pair(m.source, m.target)}
	default:
		return ctx.Source
	}
}
