package descriptor

import (
	"mapper-generator/internal/syntax"
)

// BuildContext carries the source expression and the reference handler
// through Build calls. Derived contexts share the temporary name space and
// the call log of their parent.
type BuildContext struct {
	// Source is the expression being converted.
	Source syntax.Expr
	// ReferenceHandler is the handler expression in scope, or nil.
	ReferenceHandler syntax.Expr

	names *syntax.Stem
	calls *callLog
}

type callLog struct {
	seen  map[MethodMapping]struct{}
	order []MethodMapping
}

// NewBuildContext creates a root context. namespace lists names already in
// use by the surrounding function.
func NewBuildContext(source syntax.Expr, namespace map[string]struct{}) *BuildContext {
	if namespace == nil {
		namespace = reservedNames()
	}

	return &BuildContext{
		Source: source,
		names:  syntax.NewStem(tempStem, namespace),
		calls:  &callLog{seen: make(map[MethodMapping]struct{})},
	}
}

// WithSource derives a context converting source.
func (c *BuildContext) WithSource(source syntax.Expr) *BuildContext {
	derived := *c
	derived.Source = source

	return &derived
}

// WithReferenceHandler derives a context threading handler.
func (c *BuildContext) WithReferenceHandler(handler syntax.Expr) *BuildContext {
	derived := *c
	derived.ReferenceHandler = handler

	return &derived
}

// Temp returns a fresh local name.
func (c *BuildContext) Temp() string {
	return c.names.Next()
}

// handlerArg returns the handler to pass to a callee that requires one,
// creating a fresh handler when none is in scope.
func (c *BuildContext) handlerArg() syntax.Expr {
	if c.ReferenceHandler != nil {
		return c.ReferenceHandler
	}

	return syntax.Invoke(newHandlerFunc)
}

// recordCall notes that the built code calls m.
func (c *BuildContext) recordCall(m MethodMapping) {
	if _, ok := c.calls.seen[m]; ok {
		return
	}

	c.calls.seen[m] = struct{}{}
	c.calls.order = append(c.calls.order, m)
}

// Calls returns the method mappings called by code built so far, in first
// call order.
func (c *BuildContext) Calls() []MethodMapping {
	return c.calls.order
}
