package descriptor

import (
	"sync"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/match"
	"mapper-generator/internal/syntax"
)

// suggestLimit caps the suggestions attached to a MemberNotFound diagnostic.
const suggestLimit = 3

// CompositeMethod maps an object into a new object member by member.
type CompositeMethod struct {
	source     *analyze.TypeInfo
	target     *analyze.TypeInfo
	factory    *GenericSourceTargetFactory
	directives Directives
	policy     mapping.NullPolicy
	nodes      *arena

	// name is assigned by the graph when the node is published.
	name string

	mu                sync.Mutex
	members           []memberMapping
	referenceHandling bool
}

// memberMapping is one resolved target member assignment.
type memberMapping struct {
	source analyze.MemberInfo
	target analyze.MemberInfo
	// node converts the full member pair. NoNode when guarded.
	node NodeID
	// inner converts the unwrapped source of a guarded assignment.
	inner  NodeID
	policy mapping.NullPolicy
}

func (mm memberMapping) guarded() bool {
	return mm.inner != NoNode
}

func newCompositeMethod(
	source, target *analyze.TypeInfo,
	factory *GenericSourceTargetFactory,
	directives Directives,
	policy mapping.NullPolicy,
	nodes *arena,
) *CompositeMethod {
	return &CompositeMethod{
		source:     source,
		target:     target,
		factory:    factory,
		directives: directives,
		policy:     policy,
		nodes:      nodes,
	}
}

func (m *CompositeMethod) Kind() Kind                    { return KindCompositeMethod }
func (m *CompositeMethod) SourceType() *analyze.TypeInfo { return m.source }
func (m *CompositeMethod) TargetType() *analyze.TypeInfo { return m.target }
func (m *CompositeMethod) IsSynthetic() bool             { return false }
func (m *CompositeMethod) CallableByOthers() bool        { return true }
func (m *CompositeMethod) Name() string                  { return m.name }

// Factory returns the factory creating the target, or nil.
func (m *CompositeMethod) Factory() *GenericSourceTargetFactory {
	return m.factory
}

// HasHandlerParam implements MethodMapping. The handler is threaded through
// every composite once reference handling is on.
func (m *CompositeMethod) HasHandlerParam() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.referenceHandling
}

// EnableReferenceHandling implements MethodMapping.
func (m *CompositeMethod) EnableReferenceHandling() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.referenceHandling = true
}

// MemberNames returns the assigned target member names in assignment
// order. Members whose pair could not be resolved are left out.
func (m *CompositeMethod) MemberNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.members))

	for _, mm := range m.members {
		id := mm.node
		if mm.guarded() {
			id = mm.inner
		}

		if isResolved(m.nodes, id) {
			names = append(names, mm.target.Name)
		}
	}

	return names
}

// resolveMembers matches target members to source members and resolves
// every member pair through g. It runs after the node is published.
func (m *CompositeMethod) resolveMembers(g *Graph) {
	pair := diagnostic.Pair(m.source, m.target)
	sourceMembers := g.provider.Members(m.source)
	targetMembers := g.provider.Members(m.target)
	sourceNames := match.NewNames(memberNames(sourceMembers)...)
	targetNames := match.NewNames(memberNames(targetMembers)...)

	ignore := g.knownMembers(pair, "ignore", m.directives.Ignore, targetNames)
	ignoreSource := g.knownMembers(pair, "ignore_source", m.directives.IgnoreSource, sourceNames)

	renamed := make(map[string]string, len(m.directives.Renames))
	for _, r := range m.directives.Renames {
		src, srcOK := g.knownMember(pair, "rename", r.Source, sourceNames)
		tgt, tgtOK := g.knownMember(pair, "rename", r.Target, targetNames)

		if srcOK && tgtOK {
			renamed[tgt] = src
		}
	}

	policies := make(map[string]mapping.NullPolicy, len(m.directives.MemberPolicies))
	for name, p := range m.directives.MemberPolicies {
		if tgt, ok := g.knownMember(pair, "field options", name, targetNames); ok {
			policies[tgt] = p
		}
	}

	var members []memberMapping

	for _, tm := range targetMembers {
		if !tm.Writable {
			continue
		}

		if _, skip := ignore[tm.Name]; skip {
			continue
		}

		name, ok := renamed[tm.Name]
		if !ok {
			name, ok = sourceNames.Find(tm.Name)
		}

		if !ok {
			continue
		}

		if _, skip := ignoreSource[name]; skip {
			continue
		}

		sm, _ := m.source.FindMember(name)
		if !sm.Readable {
			continue
		}

		mm := memberMapping{source: sm, target: tm, node: NoNode, inner: NoNode, policy: m.policy}
		if p, ok := policies[tm.Name]; ok {
			mm.policy = p
		}

		if sm.Type.IsNullable() && !tm.Type.IsNullable() {
			mm.inner = g.resolve(sm.Type.NonNullable(), tm.Type, tm.Name)
		} else {
			mm.node = g.resolve(sm.Type, tm.Type, tm.Name)
		}

		members = append(members, mm)
	}

	m.mu.Lock()
	m.members = members
	m.mu.Unlock()
}

func memberNames(members []analyze.MemberInfo) []string {
	names := make([]string, len(members))
	for i, mem := range members {
		names[i] = mem.Name
	}

	return names
}

// Build emits a call to the method.
func (m *CompositeMethod) Build(ctx *BuildContext) syntax.Expr {
	ctx.recordCall(m)

	args := []syntax.Expr{ctx.Source}
	if m.HasHandlerParam() {
		args = append(args, ctx.handlerArg())
	}

	return syntax.Invoke(m.name, args...)
}

// BuildBody assembles the method body:
//
//	if existing, ok := maprt.TryGetReference[T](refHandler, source); ok {
//		return existing
//	}
//	target := <create>
//	maprt.SetReference(refHandler, source, target)
//	target.M = ...
//	return target
//
// Reference tracking applies to pointer sources only.
func (m *CompositeMethod) BuildBody(ctx *BuildContext) []syntax.Stmt {
	m.mu.Lock()
	members := m.members
	track := m.referenceHandling && ctx.ReferenceHandler != nil && m.source.Kind == analyze.TypeKindPointer
	m.mu.Unlock()

	target := syntax.Ident{Name: targetLocal}

	var body []syntax.Stmt

	if track {
		body = append(body, syntax.If{
			Init: syntax.Define{
				Names: []string{existingLocal, okLocal},
				Value: syntax.Call{
					Func:     tryGetReference,
					TypeArgs: []string{m.target.String()},
					Args:     []syntax.Expr{ctx.ReferenceHandler, ctx.Source},
				},
			},
			Cond: syntax.Ident{Name: okLocal},
			Then: []syntax.Stmt{syntax.Return{Results: []syntax.Expr{syntax.Ident{Name: existingLocal}}}},
		})
	}

	body = append(body, syntax.Define{Names: []string{targetLocal}, Value: m.create(ctx)})

	if track {
		body = append(body, syntax.ExprStmt{X: syntax.Invoke(setReference, ctx.ReferenceHandler, ctx.Source, target)})
	}

	for _, mm := range members {
		body = append(body, m.buildMember(ctx, mm, target)...)
	}

	return append(body, syntax.Return{Results: []syntax.Expr{target}})
}

func (m *CompositeMethod) create(ctx *BuildContext) syntax.Expr {
	if m.factory != nil {
		return m.factory.BuildCreateType(m.source.NonNullable(), m.target.NonNullable(), ctx.Source)
	}

	if m.target.Kind == analyze.TypeKindPointer && m.target.Elem != nil {
		return syntax.New{Type: m.target.Elem.String(), Pointer: true}
	}

	return syntax.New{Type: m.target.String()}
}

// buildMember emits the assignment of one member. Unresolved pairs are
// skipped; the graph has reported them already.
func (m *CompositeMethod) buildMember(ctx *BuildContext, mm memberMapping, target syntax.Expr) []syntax.Stmt {
	src := syntax.Sel(ctx.Source, mm.source.Name)
	dst := syntax.Sel(target, mm.target.Name)

	if !mm.guarded() {
		node := m.nodes.get(mm.node)
		if node == nil || !isResolved(m.nodes, mm.node) {
			return nil
		}

		return []syntax.Stmt{syntax.Assign{Lhs: dst, Rhs: node.Build(ctx.WithSource(src))}}
	}

	inner := m.nodes.get(mm.inner)
	if inner == nil || !isResolved(m.nodes, mm.inner) {
		return nil
	}

	guard := syntax.If{
		Cond: syntax.NotNull{X: src},
		Then: []syntax.Stmt{
			syntax.Assign{Lhs: dst, Rhs: inner.Build(ctx.WithSource(unwrap(mm.source.Type, src)))},
		},
	}

	switch mm.policy.Fallback {
	case mapping.FallbackThrow:
		guard.Else = []syntax.Stmt{
			syntax.ExprStmt{X: syntax.Throw{Kind: syntax.ThrowArgumentNull, Subject: syntax.Sprint(src)}},
		}
	case mapping.FallbackSubstitute:
		guard.Else = []syntax.Stmt{syntax.Assign{Lhs: dst, Rhs: syntax.Raw{Text: mm.policy.Substitute}}}
	}

	return []syntax.Stmt{guard}
}
