package descriptor

import (
	"sync"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/syntax"
)

// Contract is a user declared mapping method.
type Contract struct {
	// Name of the method. Derived from the type pair when empty.
	Name   string
	Source *analyze.TypeInfo
	Target *analyze.TypeInfo
	// ReferenceHandlerParam declares an explicit reference handler parameter.
	ReferenceHandlerParam bool
	// Implemented marks a method whose body the user writes.
	Implemented bool
	// Directives steer the member mapping of the contract's type pair.
	Directives Directives
}

// Directives are per-contract member rules.
type Directives struct {
	Ignore       []string         // target members left untouched
	IgnoreSource []string         // source members never read
	Renames      []mapping.Rename // source -> target member renames
	// Policy overrides the mapper null policy for the pair, if set.
	Policy *mapping.NullPolicy
	// MemberPolicies override the null policy per target member.
	MemberPolicies map[string]mapping.NullPolicy
}

// IsEmpty reports whether no rule is set.
func (d Directives) IsEmpty() bool {
	return len(d.Ignore) == 0 && len(d.IgnoreSource) == 0 && len(d.Renames) == 0 &&
		d.Policy == nil && len(d.MemberPolicies) == 0
}

// UserDeclaredMethod is the node of a user contract. It starts unresolved,
// receives its delegate once through SetDelegateMapping and is assembled
// into a method body.
type UserDeclaredMethod struct {
	contract Contract
	name     string
	nodes    *arena

	mu                sync.Mutex
	state             State
	delegate          NodeID
	referenceHandling bool
}

func newUserDeclaredMethod(c Contract, name string, referenceHandling bool, nodes *arena) *UserDeclaredMethod {
	m := &UserDeclaredMethod{
		contract:          c,
		name:              name,
		nodes:             nodes,
		delegate:          NoNode,
		referenceHandling: referenceHandling,
	}

	if c.Implemented {
		m.state = StateAssembled
	}

	return m
}

func (m *UserDeclaredMethod) Kind() Kind                    { return KindUserDeclaredMethod }
func (m *UserDeclaredMethod) SourceType() *analyze.TypeInfo { return m.contract.Source }
func (m *UserDeclaredMethod) TargetType() *analyze.TypeInfo { return m.contract.Target }
func (m *UserDeclaredMethod) IsSynthetic() bool             { return false }
func (m *UserDeclaredMethod) Name() string                  { return m.name }
func (m *UserDeclaredMethod) HasHandlerParam() bool         { return m.contract.ReferenceHandlerParam }

// Contract returns the declaration of the method.
func (m *UserDeclaredMethod) Contract() Contract {
	return m.contract
}

// Implemented reports whether the user writes the body.
func (m *UserDeclaredMethod) Implemented() bool {
	return m.contract.Implemented
}

// State returns the assembly state.
func (m *UserDeclaredMethod) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Delegate returns the bound delegate edge or NoNode.
func (m *UserDeclaredMethod) Delegate() NodeID {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.delegate
}

// CallableByOthers is false when the method would create its own reference
// handler: inlining it into a larger graph would open a second cycle
// tracking scope.
func (m *UserDeclaredMethod) CallableByOthers() bool {
	if m.contract.Implemented {
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return !m.referenceHandling || m.contract.ReferenceHandlerParam
}

// SetDelegateMapping binds the delegate. It may be called once.
func (m *UserDeclaredMethod) SetDelegateMapping(delegate NodeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.contract.Implemented {
		return ErrUserImplemented
	}

	if m.delegate != NoNode {
		return ErrDelegateAlreadySet
	}

	m.delegate = delegate
	m.state = StateDelegateFound

	return nil
}

// EnableReferenceHandling turns reference handling on and forwards it to a
// method shaped delegate. Leaf delegates have no scope to thread a handler
// through and are left untouched.
func (m *UserDeclaredMethod) EnableReferenceHandling() {
	m.mu.Lock()
	m.referenceHandling = true
	delegate := m.delegate
	m.mu.Unlock()

	if mm, ok := m.nodes.get(delegate).(MethodMapping); ok {
		mm.EnableReferenceHandling()
	}
}

// Build emits a call to the method.
func (m *UserDeclaredMethod) Build(ctx *BuildContext) syntax.Expr {
	ctx.recordCall(m)

	args := []syntax.Expr{ctx.Source}
	if m.contract.ReferenceHandlerParam {
		args = append(args, ctx.handlerArg())
	}

	return syntax.Invoke(m.name, args...)
}

// BuildBody assembles the method body.
func (m *UserDeclaredMethod) BuildBody(ctx *BuildContext) []syntax.Stmt {
	m.mu.Lock()
	delegate := m.nodes.get(m.delegate)
	referenceHandling := m.referenceHandling

	if !m.contract.Implemented && delegate != nil {
		m.state = StateAssembled
	}
	m.mu.Unlock()

	if delegate == nil {
		return []syntax.Stmt{
			syntax.ExprStmt{X: syntax.Throw{Kind: syntax.ThrowNotImplemented, Subject: m.name}},
		}
	}

	if referenceHandling && !m.contract.ReferenceHandlerParam {
		handler := syntax.Ident{Name: handlerParam}

		return []syntax.Stmt{
			syntax.Define{Names: []string{handlerParam}, Value: syntax.Invoke(newHandlerFunc)},
			syntax.Return{Results: []syntax.Expr{delegate.Build(ctx.WithReferenceHandler(handler))}},
		}
	}

	if mm, ok := delegate.(MethodMapping); ok {
		return mm.BuildBody(ctx)
	}

	return []syntax.Stmt{syntax.Return{Results: []syntax.Expr{delegate.Build(ctx)}}}
}
