package descriptor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/match"
)

// ErrDuplicateName is returned when two contracts claim the same method name.
var ErrDuplicateName = errors.New("duplicate method name")

// Config holds the mapper wide settings of a graph.
type Config struct {
	// ReferenceHandling preserves object identity and cycles in generated code.
	ReferenceHandling bool
	// DeepCloning maps identical object types member by member.
	DeepCloning bool
	// NullPolicy is the fallback for a nil source flowing into a non-nullable
	// target, unless a contract or member overrides it.
	NullPolicy mapping.NullPolicy
	// Factories are tried in order when creating targets.
	Factories []*GenericSourceTargetFactory
	// Workers bounds parallel contract resolution (<= 0 = GOMAXPROCS).
	Workers int
	// Logger receives debug traces (nil = discard).
	Logger *slog.Logger
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		NullPolicy: mapping.DefaultNullPolicy(),
		Workers:    runtime.GOMAXPROCS(0),
	}
}

// Graph is the mapping descriptor graph. It owns every node and resolves
// each distinct (source, target) pair at most once. Resolution is safe for
// concurrent use; nodes are read without locking once the graph is frozen.
type Graph struct {
	provider analyze.Provider
	cfg      Config
	reporter diagnostic.Reporter
	logger   *slog.Logger
	nodes    arena

	mu sync.Mutex
	// pairs is the public resolution index: callable user contracts.
	pairs map[string]NodeID
	// generated holds the nodes built by the resolution strategy.
	generated map[string]NodeID
	// directives are keyed by the non-nullable pair of their contract.
	directives map[string]Directives
	contracts  []NodeID
	names      map[string]struct{}
	frozen     bool
}

// NewGraph creates an empty graph. Diagnostics are sent to reporter.
func NewGraph(provider analyze.Provider, cfg Config, reporter diagnostic.Reporter) *Graph {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if reporter == nil {
		reporter = diagnostic.NewCollector(nil)
	}

	return &Graph{
		provider:   provider,
		cfg:        cfg,
		reporter:   reporter,
		logger:     logger,
		pairs:      make(map[string]NodeID),
		generated:  make(map[string]NodeID),
		directives: make(map[string]Directives),
		names:      make(map[string]struct{}),
	}
}

// Config returns the graph settings.
func (g *Graph) Config() Config {
	return g.cfg
}

// Declare adds a user contract as an unresolved placeholder. The first
// callable contract declared for a pair becomes its public resolution, and
// the first contract declared for a pair supplies its member directives.
// Directives of later contracts for the pair are reported and ignored.
func (g *Graph) Declare(c Contract) (NodeID, error) {
	if c.Source == nil || c.Target == nil {
		return NoNode, errors.New("contract needs a source and a target type")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return NoNode, ErrFrozen
	}

	name := c.Name
	if name == "" {
		name = uniqueName(g.names, MethodName(c.Source, c.Target))
	} else if _, taken := g.names[name]; taken {
		return NoNode, fmt.Errorf("contract %s: %w", name, ErrDuplicateName)
	} else {
		g.names[name] = struct{}{}
	}

	m := newUserDeclaredMethod(c, name, g.cfg.ReferenceHandling, &g.nodes)
	id := g.nodes.add(m)
	g.contracts = append(g.contracts, id)

	key := pairKey(c.Source, c.Target)
	if _, ok := g.pairs[key]; !ok && m.CallableByOthers() {
		g.pairs[key] = id
	}

	dkey := pairKey(c.Source.NonNullable(), c.Target.NonNullable())
	if _, ok := g.directives[dkey]; !ok {
		g.directives[dkey] = c.Directives
	} else if !c.Directives.IsEmpty() {
		g.reporter.Report(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticWarning,
			Code:     "shadowed_directives",
			Message:  fmt.Sprintf("member directives of %s are ignored, the first contract for the pair wins", name),
			TypePair: diagnostic.Pair(c.Source.NonNullable(), c.Target.NonNullable()),
		})
	}

	g.logger.Debug("contract declared",
		slog.String("name", name),
		slog.String("pair", diagnostic.Pair(c.Source, c.Target)),
		slog.Bool("callable", m.CallableByOthers()),
	)

	return id, nil
}

// Resolve returns the node converting source into target, building it on
// first request. Later requests for the same pair return the same node.
func (g *Graph) Resolve(source, target *analyze.TypeInfo) (NodeID, error) {
	g.mu.Lock()
	frozen := g.frozen
	g.mu.Unlock()

	if frozen {
		return NoNode, ErrFrozen
	}

	return g.resolve(source, target, ""), nil
}

// resolve prefers a callable user contract over the strategy.
func (g *Graph) resolve(source, target *analyze.TypeInfo, site string) NodeID {
	g.mu.Lock()
	id, ok := g.pairs[pairKey(source, target)]
	g.mu.Unlock()

	if ok {
		return id
	}

	return g.resolveGenerated(source, target, site)
}

// resolveGenerated returns the strategy built node of the pair. Strategies
// are selected outside the lock; the first goroutine to publish a node for a
// pair wins and the others adopt it.
func (g *Graph) resolveGenerated(source, target *analyze.TypeInfo, site string) NodeID {
	key := pairKey(source, target)

	g.mu.Lock()
	id, ok := g.generated[key]
	g.mu.Unlock()

	if ok {
		return id
	}

	node, diag := g.strategy(source, target, site)

	g.mu.Lock()
	if id, ok := g.generated[key]; ok {
		g.mu.Unlock()
		return id
	}

	composite, isComposite := node.(*CompositeMethod)
	if isComposite {
		composite.name = uniqueName(g.names, MethodName(source, target))
	}

	id = g.nodes.add(node)
	g.generated[key] = id
	g.mu.Unlock()

	g.logger.Debug("mapping resolved",
		slog.String("pair", diagnostic.Pair(source, target)),
		slog.String("kind", node.Kind().String()),
	)

	if diag != nil {
		g.reporter.Report(*diag)
	}

	if isComposite {
		composite.resolveMembers(g)
	}

	return id
}

// strategy selects the node for a pair. site names the member requiring
// the pair, if any.
func (g *Graph) strategy(source, target *analyze.TypeInfo, site string) (Mapping, *diagnostic.Diagnostic) {
	objects := source.IsObject() && target.IsObject()
	compat := g.provider.Compatibility(source, target)

	// A nullable source never passes unchecked into a non-nullable target.
	narrowing := source.IsNullable() && !target.IsNullable()

	if !narrowing && (compat == analyze.Identical || compat == analyze.Assignable) &&
		(!g.cfg.DeepCloning || !objects) {
		return NewDirectAssignment(source, target), nil
	}

	if source.IsNullable() || target.IsNullable() {
		return g.nullDelegate(source, target, site), nil
	}

	if compat == analyze.Convertible {
		return NewConversion(source, target), nil
	}

	for _, f := range g.cfg.Factories {
		if !f.CanCreate(source, target) {
			continue
		}

		if objects {
			return g.newComposite(source, target, f), nil
		}

		return NewObjectFactoryCreate(source, target, f), nil
	}

	if objects {
		return g.newComposite(source, target, nil), nil
	}

	d := diagnostic.New(diagnostic.UnresolvableMapping, diagnostic.Pair(source, target), site,
		fmt.Sprintf("no mapping converts %s into %s", source, target))

	return NewUnresolved(source, target), &d
}

// nullDelegate wraps the mapping between the non-nullable forms. When both
// sides are nullable a callable contract accepting the nullable source is
// preferred as the inner mapping.
func (g *Graph) nullDelegate(source, target *analyze.TypeInfo, site string) *NullDelegate {
	inner := NoNode

	if source.IsNullable() && target.IsNullable() {
		g.mu.Lock()
		if id, ok := g.pairs[pairKey(source, target.NonNullable())]; ok {
			inner = id
		}
		g.mu.Unlock()
	}

	if inner == NoNode {
		inner = g.resolve(source.NonNullable(), target.NonNullable(), site)
	}

	return newNullDelegate(source, target, inner, &g.nodes, g.policyFor(source, target))
}

func (g *Graph) newComposite(source, target *analyze.TypeInfo, factory *GenericSourceTargetFactory) *CompositeMethod {
	g.mu.Lock()
	d := g.directives[pairKey(source, target)]
	g.mu.Unlock()

	policy := g.cfg.NullPolicy
	if d.Policy != nil {
		policy = *d.Policy
	}

	return newCompositeMethod(source, target, factory, d, policy, &g.nodes)
}

// policyFor returns the contract policy of the non-nullable pair, falling
// back to the mapper policy.
func (g *Graph) policyFor(source, target *analyze.TypeInfo) mapping.NullPolicy {
	g.mu.Lock()
	d, ok := g.directives[pairKey(source.NonNullable(), target.NonNullable())]
	g.mu.Unlock()

	if ok && d.Policy != nil {
		return *d.Policy
	}

	return g.cfg.NullPolicy
}

// knownMember resolves a directive member name against names, reporting
// MemberNotFound with suggestions when it is absent.
func (g *Graph) knownMember(pair, directive, name string, names *match.Names) (string, bool) {
	if found, ok := names.Find(name); ok {
		return found, true
	}

	d := diagnostic.New(diagnostic.MemberNotFound, pair, name,
		fmt.Sprintf("%s directive names unknown member %q", directive, name))
	d.Suggestions = names.Suggest(name, suggestLimit)
	g.reporter.Report(d)

	return "", false
}

func (g *Graph) knownMembers(pair, directive string, list []string, names *match.Names) map[string]struct{} {
	out := make(map[string]struct{}, len(list))

	for _, name := range list {
		if found, ok := g.knownMember(pair, directive, name, names); ok {
			out[found] = struct{}{}
		}
	}

	return out
}

// ResolveContracts binds every declared contract to its delegate. Contracts
// are resolved in parallel, bounded by Config.Workers. Cancellation is
// observed between contracts.
func (g *Graph) ResolveContracts(ctx context.Context) error {
	g.mu.Lock()
	if g.frozen {
		g.mu.Unlock()
		return ErrFrozen
	}

	contracts := slices.Clone(g.contracts)
	g.mu.Unlock()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())

	for _, id := range contracts {
		m, ok := g.nodes.get(id).(*UserDeclaredMethod)
		if !ok || m.Implemented() || m.Delegate() != NoNode {
			continue
		}

		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			delegate := g.resolveGenerated(m.SourceType(), m.TargetType(), "")
			if err := m.SetDelegateMapping(delegate); err != nil {
				return fmt.Errorf("contract %s: %w", m.Name(), err)
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("failed to resolve contracts: %w", err)
	}

	return nil
}

func (g *Graph) workers() int {
	if g.cfg.Workers > 0 {
		return g.cfg.Workers
	}

	return runtime.GOMAXPROCS(0)
}

// Freeze rejects further resolution and, when configured, switches every
// method shaped node to reference handling. It is idempotent.
func (g *Graph) Freeze() {
	g.mu.Lock()
	if g.frozen {
		g.mu.Unlock()
		return
	}

	g.frozen = true
	g.mu.Unlock()

	if !g.cfg.ReferenceHandling {
		return
	}

	for _, node := range g.nodes.all() {
		if mm, ok := node.(MethodMapping); ok {
			mm.EnableReferenceHandling()
		}
	}
}

// Frozen reports whether Freeze was called.
func (g *Graph) Frozen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.frozen
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id NodeID) Mapping {
	return g.nodes.get(id)
}

// Lookup returns the node currently resolving the pair without building one.
func (g *Graph) Lookup(source, target *analyze.TypeInfo) (NodeID, bool) {
	key := pairKey(source, target)

	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.pairs[key]; ok {
		return id, true
	}

	id, ok := g.generated[key]

	return id, ok
}

// IsResolved reports whether the node converts its pair. Unresolvable
// placeholders, and null delegates over them, are not resolved.
func (g *Graph) IsResolved(id NodeID) bool {
	return isResolved(&g.nodes, id)
}

func isResolved(nodes *arena, id NodeID) bool {
	switch n := nodes.get(id).(type) {
	case nil:
		return false
	case *SimpleAssignment:
		return !n.Unresolved()
	case *NullDelegate:
		return isResolved(nodes, n.Inner())
	default:
		return true
	}
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return g.nodes.len()
}

// Contracts returns the declared contracts in declaration order.
func (g *Graph) Contracts() []NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return slices.Clone(g.contracts)
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []Mapping {
	return g.nodes.all()
}
