package descriptor

import (
	"sync"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/syntax"
)

func TestGraph_Resolve_Memoized(t *testing.T) {
	f := newFixture()
	g, _ := newTestGraph(t, f, DefaultConfig())

	first, err := g.Resolve(f.src, f.tgt)
	require.NoError(t, err)

	n := g.Len()

	second, err := g.Resolve(f.src, f.tgt)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Same(t, g.Node(first), g.Node(second))
	assert.Equal(t, n, g.Len(), "second resolution must not add nodes")

	id, ok := g.Lookup(f.src, f.tgt)
	assert.True(t, ok)
	assert.Equal(t, first, id)

	_, ok = g.Lookup(f.tgt, f.src)
	assert.False(t, ok)
}

func TestGraph_Strategy(t *testing.T) {
	f := newFixture()
	int64T := f.tg.Basic("int64")
	create, err := NewGenericSourceTargetFactory(f.tg, createFunc(), 0)
	require.NoError(t, err)

	tests := []struct {
		name      string
		cfg       func(*Config)
		source    *analyze.TypeInfo
		target    *analyze.TypeInfo
		kind      Kind
		synthetic bool
	}{
		{name: "identical", source: f.intT, target: f.intT, kind: KindSimpleAssignment, synthetic: true},
		{name: "convertible", source: f.intT, target: int64T, kind: KindSimpleAssignment},
		{name: "nullable source", source: f.intT.Nullable(), target: f.intT, kind: KindNullDelegate},
		{name: "nullable target", source: f.intT, target: f.intT.Nullable(), kind: KindNullDelegate},
		{name: "object", source: f.src, target: f.tgt, kind: KindCompositeMethod},
		{name: "same object", source: f.src, target: f.src, kind: KindSimpleAssignment, synthetic: true},
		{
			name:   "same object deep cloned",
			cfg:    func(c *Config) { c.DeepCloning = true },
			source: f.src,
			target: f.src,
			kind:   KindCompositeMethod,
		},
		{
			name:   "factory",
			cfg:    func(c *Config) { c.Factories = []*GenericSourceTargetFactory{create} },
			source: f.stringT,
			target: f.intT,
			kind:   KindObjectFactoryCreate,
		},
		{
			name:   "factory creates object",
			cfg:    func(c *Config) { c.Factories = []*GenericSourceTargetFactory{create} },
			source: f.src,
			target: f.tgt,
			kind:   KindCompositeMethod,
		},
		{name: "unresolvable", source: f.stringT, target: f.intT, kind: KindSimpleAssignment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}

			g, _ := newTestGraph(t, f, cfg)

			id, err := g.Resolve(tt.source, tt.target)
			require.NoError(t, err)

			node := g.Node(id)
			require.NotNil(t, node)
			assert.Equal(t, tt.kind, node.Kind())
			assert.Equal(t, tt.synthetic, node.IsSynthetic())
		})
	}
}

func TestGraph_Unresolvable(t *testing.T) {
	f := newFixture()
	g, collector := newTestGraph(t, f, DefaultConfig())

	id, err := g.Resolve(f.stringT, f.intT)
	require.NoError(t, err)
	assert.False(t, g.IsResolved(id))

	nullable, err := g.Resolve(f.stringT.Nullable(), f.intT)
	require.NoError(t, err)
	assert.False(t, g.IsResolved(nullable), "a null delegate over a placeholder is unresolved")

	diags := collector.Diagnostics()
	require.Len(t, diags.OfKind(diagnostic.UnresolvableMapping), 1, "reported once per pair")
	assert.Equal(t, "string -> int", diags.Errors[0].TypePair)

	out := syntax.Sprint(g.Node(id).Build(NewBuildContext(syntax.Ident{Name: "source"}, nil)))
	assert.Equal(t, `panic(maprt.NotImplemented("string -> int"))`, out)
}

func TestGraph_Factory_TypeArguments(t *testing.T) {
	f := newFixture()

	for _, tt := range []struct {
		sourceIndex int
		want        string
	}{
		{0, "factory.Create[string, int](source)"},
		{1, "factory.Create[int, string](source)"},
	} {
		create, err := NewGenericSourceTargetFactory(f.tg, createFunc(), tt.sourceIndex)
		require.NoError(t, err)

		cfg := DefaultConfig()
		cfg.Factories = []*GenericSourceTargetFactory{create}
		g, _ := newTestGraph(t, f, cfg)

		id, err := g.Resolve(f.stringT, f.intT)
		require.NoError(t, err)

		got := g.Node(id).Build(NewBuildContext(syntax.Ident{Name: "source"}, nil))
		assert.Equal(t, tt.want, syntax.Sprint(got))
	}
}

func TestGenericSourceTargetFactory(t *testing.T) {
	f := newFixture()

	_, err := NewGenericSourceTargetFactory(f.tg, createFunc(), 2)
	require.Error(t, err)

	_, err = NewGenericSourceTargetFactory(f.tg, &analyze.FuncInfo{}, 0)
	require.Error(t, err)

	fn := createFunc()
	fn.TypeParams[0].NotNull = true

	create, err := NewGenericSourceTargetFactory(f.tg, fn, 0)
	require.NoError(t, err)

	assert.True(t, create.CanCreate(f.stringT, f.intT))
	assert.False(t, create.CanCreate(f.stringT.Nullable(), f.intT), "not-null slot rejects nullable sources")

	fn.ParamNullability = analyze.NullableReference
	assert.True(t, create.CanCreate(f.stringT.Nullable(), f.intT), "nullable parameter context admits them")
}

func TestGraph_ShadowedDirectives(t *testing.T) {
	f := newFixture()
	g, collector := newTestGraph(t, f, DefaultConfig())

	declare(t, g, Contract{Name: "MapSrc", Source: f.src, Target: f.tgt, Directives: Directives{Ignore: []string{"Count"}}})
	declare(t, g, Contract{Name: "MapSrcPlain", Source: f.src, Target: f.tgt})
	assert.True(t, collector.Diagnostics().IsEmpty(), "a contract without directives shadows nothing")

	declare(t, g, Contract{Name: "MapSrcAgain", Source: f.src, Target: f.tgt, Directives: Directives{Ignore: []string{"Value"}}})

	warnings := collector.Diagnostics().Warnings
	require.Len(t, warnings, 1)
	assert.Equal(t, "shadowed_directives", warnings[0].Code)
	assert.Equal(t, "a.Src -> b.Tgt", warnings[0].TypePair)
	assert.Contains(t, warnings[0].Message, "MapSrcAgain")

	out := assemble(t, g)
	assert.Contains(t, out, "target.Value = *source.Value", "the first contract's directives apply")
	assert.NotContains(t, out, "target.Count")
}

func TestGraph_ContractPreferred(t *testing.T) {
	f := newFixture()
	g, _ := newTestGraph(t, f, DefaultConfig())

	contract := declare(t, g, Contract{Name: "MapSrc", Source: f.src, Target: f.tgt})
	declare(t, g, Contract{Name: "MapSrcAgain", Source: f.src, Target: f.tgt})

	id, err := g.Resolve(f.src, f.tgt)
	require.NoError(t, err)
	assert.Equal(t, contract, id, "the first declared contract wins")

	outer, err := g.Resolve(f.outerA, f.outerB)
	require.NoError(t, err)
	require.NoError(t, g.ResolveContracts(t.Context()))

	composite, ok := g.Node(outer).(*CompositeMethod)
	require.True(t, ok)

	ctx := NewBuildContext(syntax.Ident{Name: "source"}, nil)
	body := syntax.Sprint(composite.BuildBody(ctx))
	assert.Contains(t, body, "target.Inner = MapSrc(source.Inner)")
}

func TestGraph_NullableContractIsInner(t *testing.T) {
	f := newFixture()
	g, _ := newTestGraph(t, f, DefaultConfig())

	contract := declare(t, g, Contract{Name: "MapMaybe", Source: f.src.Nullable(), Target: f.tgt})

	id, err := g.Resolve(f.src.Nullable(), f.tgt.Nullable())
	require.NoError(t, err)

	d, ok := g.Node(id).(*NullDelegate)
	require.True(t, ok)
	assert.Equal(t, contract, d.Inner())
	assert.Equal(t, "MapMaybe(source)", syntax.Sprint(d.Build(NewBuildContext(syntax.Ident{Name: "source"}, nil))))
}

func TestGraph_Declare(t *testing.T) {
	f := newFixture()
	g, _ := newTestGraph(t, f, DefaultConfig())

	id := declare(t, g, Contract{Source: f.src, Target: f.tgt})
	assert.Equal(t, "ASrcToBTgt", g.Node(id).(*UserDeclaredMethod).Name())

	_, err := g.Declare(Contract{Name: "ASrcToBTgt", Source: f.tgt, Target: f.src})
	require.ErrorIs(t, err, ErrDuplicateName)

	_, err = g.Declare(Contract{Name: "Broken"})
	require.Error(t, err)

	g.Freeze()

	_, err = g.Declare(Contract{Name: "Late", Source: f.src, Target: f.tgt})
	require.ErrorIs(t, err, ErrFrozen)

	_, err = g.Resolve(f.src, f.tgt)
	require.ErrorIs(t, err, ErrFrozen)

	require.ErrorIs(t, g.ResolveContracts(t.Context()), ErrFrozen)
}

func TestGraph_MemberNotFound(t *testing.T) {
	f := newFixture()
	g, collector := newTestGraph(t, f, DefaultConfig())

	declare(t, g, Contract{
		Name:   "MapSrc",
		Source: f.src,
		Target: f.tgt,
		Directives: Directives{
			Ignore:  []string{"Count", "Valeu"},
			Renames: []mapping.Rename{{Source: "FulName", Target: "Name"}},
		},
	})

	out := assemble(t, g)
	assert.NotContains(t, out, "target.Count")
	assert.NotContains(t, out, "target.Name")

	missing := collector.Diagnostics().OfKind(diagnostic.MemberNotFound)
	require.Len(t, missing, 2)

	assert.Equal(t, "Valeu", missing[0].Member)
	assert.Equal(t, []string{"Value"}, missing[0].Suggestions)
	assert.Equal(t, "a.Src -> b.Tgt", missing[0].TypePair)

	assert.Equal(t, "FulName", missing[1].Member)
	assert.Contains(t, missing[1].Suggestions, "FullName")
}

func TestGraph_Concurrent_OneNodePerPair(t *testing.T) {
	f := newFixture()
	g, _ := newTestGraph(t, f, DefaultConfig())

	const workers = 32

	ids := make([]NodeID, workers)

	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			source, target := f.tg.PointerTo(f.nodeA), f.tg.PointerTo(f.nodeB)
			if i%2 == 1 {
				source, target = source.Nullable(), target.Nullable()
			}

			id, err := g.Resolve(source, target)
			assert.NoError(t, err)

			ids[i] = id
		}()
	}

	wg.Wait()

	for i := 2; i < workers; i++ {
		assert.Equal(t, ids[i%2], ids[i])
	}

	seen := make(map[string]int)
	for _, node := range g.Nodes() {
		seen[pairKey(node.SourceType(), node.TargetType())]++
	}

	for key, n := range seen {
		assert.Equal(t, 1, n, key)
	}

	composites := 0
	for _, node := range g.Nodes() {
		if node.Kind() == KindCompositeMethod {
			composites++
		}
	}

	assert.Equal(t, 1, composites)
}

func TestGraph_Cycle_Terminates(t *testing.T) {
	f := newFixture()
	g, _ := newTestGraph(t, f, DefaultConfig())

	id, err := g.Resolve(f.tg.PointerTo(f.nodeA), f.tg.PointerTo(f.nodeB))
	require.NoError(t, err)

	composite, ok := g.Node(id).(*CompositeMethod)
	require.True(t, ok)
	assert.Equal(t, []string{"Name", "Next"}, composite.MemberNames())

	next, ok := g.Lookup(f.tg.PointerTo(f.nodeA).Nullable(), f.tg.PointerTo(f.nodeB).Nullable())
	require.True(t, ok)
	assert.Equal(t, id, g.Node(next).(*NullDelegate).Inner(), "the cycle closes on the published node")
}

func TestMethodName(t *testing.T) {
	f := newFixture()

	assert.Equal(t, "ASrcToBTgt", MethodName(f.src, f.tgt))
	assert.Equal(t, "ANodePtrToBNodePtr", MethodName(f.tg.PointerTo(f.nodeA), f.tg.PointerTo(f.nodeB).Nullable()))
	assert.Equal(t, "IntToString", MethodName(f.intT, f.stringT))

	taken := map[string]struct{}{"Map": {}}
	assert.Equal(t, "Map1", uniqueName(taken, "Map"))
	assert.Equal(t, "Other", uniqueName(taken, "Other"))
}

func TestGraph_ScenarioA_GuardedMember(t *testing.T) {
	f := newFixture()
	g, collector := newTestGraph(t, f, DefaultConfig())

	declare(t, g, Contract{Name: "MapSrc", Source: f.src, Target: f.tgt, Directives: Directives{Ignore: []string{"Count"}}})

	want := heredoc.Doc(`
		func MapSrc(source a.Src) b.Tgt {
			target := b.Tgt{}
			if source.Value != nil {
				target.Value = *source.Value
			}
			return target
		}
	`)

	assert.Equal(t, want, assemble(t, g))
	assert.True(t, collector.Diagnostics().IsEmpty())
}

func TestGraph_ScenarioB_ThrowingMember(t *testing.T) {
	f := newFixture()

	cfg := DefaultConfig()
	cfg.NullPolicy = mapping.NullPolicy{Fallback: mapping.FallbackThrow}
	g, _ := newTestGraph(t, f, cfg)

	declare(t, g, Contract{
		Name:   "MapSrc",
		Source: f.src,
		Target: f.tgt,
		Directives: Directives{
			Ignore:  []string{"Count"},
			Renames: []mapping.Rename{{Source: "FullName", Target: "Name"}},
		},
	})

	want := heredoc.Doc(`
		func MapSrc(source a.Src) b.Tgt {
			target := b.Tgt{}
			if source.Value != nil {
				target.Value = *source.Value
			} else {
				panic(maprt.ArgumentNull("source.Value"))
			}
			target.Name = source.FullName
			return target
		}
	`)

	assert.Equal(t, want, assemble(t, g))
}

func TestGraph_MemberPolicyOverride(t *testing.T) {
	f := newFixture()

	cfg := DefaultConfig()
	cfg.NullPolicy = mapping.NullPolicy{Fallback: mapping.FallbackThrow}
	g, _ := newTestGraph(t, f, cfg)

	declare(t, g, Contract{
		Name:   "MapSrc",
		Source: f.src,
		Target: f.tgt,
		Directives: Directives{
			Ignore:         []string{"Count", "Name"},
			MemberPolicies: map[string]mapping.NullPolicy{"Value": {Fallback: mapping.FallbackSubstitute, Substitute: "-1"}},
		},
	})

	want := heredoc.Doc(`
		func MapSrc(source a.Src) b.Tgt {
			target := b.Tgt{}
			if source.Value != nil {
				target.Value = *source.Value
			} else {
				target.Value = -1
			}
			return target
		}
	`)

	assert.Equal(t, want, assemble(t, g))
}

func TestGraph_ScenarioC_FactoryCreatesTarget(t *testing.T) {
	f := newFixture()
	create, err := NewGenericSourceTargetFactory(f.tg, createFunc(), 0)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Factories = []*GenericSourceTargetFactory{create}
	g, _ := newTestGraph(t, f, cfg)

	declare(t, g, Contract{Name: "MapSrc", Source: f.src, Target: f.tgt, Directives: Directives{Ignore: []string{"Count", "Value", "Name"}}})

	want := heredoc.Doc(`
		func MapSrc(source a.Src) b.Tgt {
			target := factory.Create[a.Src, b.Tgt](source)
			return target
		}
	`)

	assert.Equal(t, want, assemble(t, g))
}

func TestGraph_ScenarioD_ReferenceHandling(t *testing.T) {
	f := newFixture()

	cfg := DefaultConfig()
	cfg.ReferenceHandling = true
	g, _ := newTestGraph(t, f, cfg)

	declare(t, g, Contract{Name: "MapNode", Source: f.tg.PointerTo(f.nodeA), Target: f.tg.PointerTo(f.nodeB)})

	want := heredoc.Doc(`
		func MapNode(source *a.Node) *b.Node {
			refHandler := maprt.NewReferenceHandler()
			return ANodePtrToBNodePtr(source, refHandler)
		}
		func ANodePtrToBNodePtr(source *a.Node, refHandler *maprt.ReferenceHandler) *b.Node {
			if existing, ok := maprt.TryGetReference[*b.Node](refHandler, source); ok {
				return existing
			}
			target := &b.Node{}
			maprt.SetReference(refHandler, source, target)
			target.Name = source.Name
			target.Next = (tmp1 := source.Next; (tmp1 == nil ? zero[*b.Node] : ANodePtrToBNodePtr(tmp1, refHandler)))
			return target
		}
	`)

	assert.Equal(t, want, assemble(t, g))
}

func TestGraph_ReferenceHandlerParam(t *testing.T) {
	f := newFixture()

	cfg := DefaultConfig()
	cfg.ReferenceHandling = true
	g, _ := newTestGraph(t, f, cfg)

	id := declare(t, g, Contract{
		Name:                  "MapNode",
		Source:                f.tg.PointerTo(f.nodeA),
		Target:                f.tg.PointerTo(f.nodeB),
		ReferenceHandlerParam: true,
	})

	out := assemble(t, g)

	assert.Contains(t, out, "func MapNode(source *a.Node, refHandler *maprt.ReferenceHandler) *b.Node {")
	assert.Contains(t, out, "if existing, ok := maprt.TryGetReference[*b.Node](refHandler, source); ok {")
	assert.Contains(t, out, "MapNode(tmp1, refHandler)", "the callable contract resolves the cycle")
	assert.NotContains(t, out, "NewReferenceHandler")
	assert.Equal(t, StateAssembled, g.Node(id).(*UserDeclaredMethod).State())
}

func TestGraph_Cycle_WithoutReferenceHandling(t *testing.T) {
	f := newFixture()
	g, _ := newTestGraph(t, f, DefaultConfig())

	declare(t, g, Contract{Name: "MapNode", Source: f.tg.PointerTo(f.nodeA), Target: f.tg.PointerTo(f.nodeB)})

	want := heredoc.Doc(`
		func MapNode(source *a.Node) *b.Node {
			target := &b.Node{}
			target.Name = source.Name
			target.Next = (tmp1 := source.Next; (tmp1 == nil ? zero[*b.Node] : MapNode(tmp1)))
			return target
		}
	`)

	assert.Equal(t, want, assemble(t, g))
}

func TestGraph_ImplementedContract(t *testing.T) {
	f := newFixture()
	g, _ := newTestGraph(t, f, DefaultConfig())

	custom := declare(t, g, Contract{Name: "CustomSrc", Source: f.src, Target: f.tgt, Implemented: true})
	declare(t, g, Contract{Name: "MapOuter", Source: f.outerA, Target: f.outerB})

	want := heredoc.Doc(`
		func MapOuter(source a.Outer) b.Outer {
			target := b.Outer{}
			target.Inner = CustomSrc(source.Inner)
			return target
		}
	`)

	assert.Equal(t, want, assemble(t, g))
	assert.Equal(t, NoNode, g.Node(custom).(*UserDeclaredMethod).Delegate())
}

func TestGraph_GeneratedMethodsFollowContracts(t *testing.T) {
	f := newFixture()
	g, _ := newTestGraph(t, f, DefaultConfig())

	declare(t, g, Contract{Name: "MapOuter", Source: f.outerA, Target: f.outerB})

	decls := func() []string {
		require.NoError(t, g.ResolveContracts(t.Context()))

		var names []string
		for _, d := range Assemble(g) {
			names = append(names, d.Name)
		}

		return names
	}()

	assert.Equal(t, []string{"MapOuter", "ASrcToBTgt"}, decls)
}
