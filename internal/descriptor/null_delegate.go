package descriptor

import (
	"mapper-generator/internal/analyze"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/syntax"
)

// NullDelegate adapts an inner mapping between non-nullable forms to a
// possibly nullable source and target.
type NullDelegate struct {
	source *analyze.TypeInfo
	target *analyze.TypeInfo
	inner  NodeID
	nodes  *arena
	policy mapping.NullPolicy
}

func newNullDelegate(
	source, target *analyze.TypeInfo,
	inner NodeID,
	nodes *arena,
	policy mapping.NullPolicy,
) *NullDelegate {
	return &NullDelegate{source: source, target: target, inner: inner, nodes: nodes, policy: policy}
}

func (m *NullDelegate) Kind() Kind                    { return KindNullDelegate }
func (m *NullDelegate) SourceType() *analyze.TypeInfo { return m.source }
func (m *NullDelegate) TargetType() *analyze.TypeInfo { return m.target }
func (m *NullDelegate) CallableByOthers() bool        { return true }

// Inner returns the edge to the decorated mapping.
func (m *NullDelegate) Inner() NodeID {
	return m.inner
}

// Policy returns the fallback policy applied to a nil source.
func (m *NullDelegate) Policy() mapping.NullPolicy {
	return m.policy
}

func (m *NullDelegate) innerMapping() Mapping {
	return m.nodes.get(m.inner)
}

// IsSynthetic is derived from the inner mapping's own source type.
func (m *NullDelegate) IsSynthetic() bool {
	inner := m.innerMapping()

	return inner.IsSynthetic() &&
		(inner.SourceType().IsNullable() || (!m.source.IsNullable() && !m.target.IsNullableValue()))
}

// Build implements Mapping.
func (m *NullDelegate) Build(ctx *BuildContext) syntax.Expr {
	inner := m.innerMapping()

	// inner already accepts null
	if inner.SourceType().IsNullable() {
		return inner.Build(ctx)
	}

	if !m.source.IsNullable() {
		expr := inner.Build(ctx)
		if m.target.IsNullableValue() {
			return syntax.Cast{Type: m.target.String(), X: expr}
		}

		return expr
	}

	// The source is tested and unwrapped, so a non-identifier is bound once.
	value, bound := ctx.Source, ""
	if !syntax.IsPure(value) {
		bound = ctx.Temp()
		value = syntax.Ident{Name: bound}
	}

	unwrapped := unwrap(m.source, value)
	if _, ok := ctx.Source.(syntax.Index); ok {
		unwrapped = syntax.SuppressNull{X: unwrapped}
	}

	expr := syntax.Conditional{
		Cond: syntax.IsNull{X: value},
		Then: NullSubstitute(m.target.NonNullable(), ctx.Source, m.policy),
		Else: inner.Build(ctx.WithSource(unwrapped)),
	}

	if bound == "" {
		return expr
	}

	return syntax.Let{Name: bound, Value: ctx.Source, Body: expr}
}

// unwrap extracts the value of a nullable value type and passes nullable
// references through.
func unwrap(t *analyze.TypeInfo, x syntax.Expr) syntax.Expr {
	if t.IsNullableValue() {
		return syntax.Unwrap{X: x}
	}

	return x
}

// NullSubstitute returns the value produced for a nil source under policy.
// The throwing form names the source expression.
func NullSubstitute(target *analyze.TypeInfo, source syntax.Expr, policy mapping.NullPolicy) syntax.Expr {
	switch policy.Fallback {
	case mapping.FallbackThrow:
		return syntax.Throw{Kind: syntax.ThrowArgumentNull, Subject: syntax.Sprint(source)}
	case mapping.FallbackSubstitute:
		return syntax.Raw{Text: policy.Substitute}
	default:
		return syntax.Default{Type: target.String()}
	}
}
