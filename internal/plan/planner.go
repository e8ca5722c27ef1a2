package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/descriptor"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/mapping"
)

// Planner runs the planning pipeline.
type Planner struct {
	graph      *analyze.TypeGraph
	mappingDef *mapping.MappingFile
	config     Config
	logger     *slog.Logger
	collector  *diagnostic.Collector
}

// NewPlanner creates a new Planner.
func NewPlanner(
	graph *analyze.TypeGraph,
	mappingDef *mapping.MappingFile,
	config Config,
) *Planner {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Planner{
		graph:      graph,
		mappingDef: mappingDef,
		config:     config,
		logger:     logger,
		collector:  diagnostic.NewCollector(logger),
	}
}

// Build runs the full pipeline and returns the Plan. Invalid mapping files
// and infrastructure failures are errors; unresolvable mappings are
// diagnostics unless StrictMode is set. The plan is returned alongside a
// strict mode error so callers can report its diagnostics.
func (p *Planner) Build(ctx context.Context) (*Plan, error) {
	if p.mappingDef == nil {
		return nil, errors.New("mapping definition is required")
	}

	plan := &Plan{}

	validation := mapping.Validate(p.mappingDef, p.graph)
	plan.Diagnostics.Merge(*validation)

	if validation.HasErrors() {
		return plan, fmt.Errorf("invalid mapping file: %w", validation.Err())
	}

	cfg, err := p.graphConfig()
	if err != nil {
		return plan, err
	}

	g := descriptor.NewGraph(p.graph, cfg, p.collector)
	plan.Graph = g

	for i := range p.mappingDef.TypeMappings {
		tm := &p.mappingDef.TypeMappings[i]

		id, err := g.Declare(p.contract(tm))
		if err != nil {
			return plan, fmt.Errorf("declaring %s->%s: %w", tm.Source, tm.Target, err)
		}

		plan.Contracts = append(plan.Contracts, PlannedContract{Mapping: tm, Node: id})
	}

	if err := g.ResolveContracts(ctx); err != nil {
		return plan, err
	}

	plan.Funcs = descriptor.Assemble(g)
	plan.Diagnostics.Merge(p.collector.Diagnostics())

	p.logger.Info("plan built",
		slog.Int("contracts", len(plan.Contracts)),
		slog.Int("funcs", len(plan.Funcs)),
		slog.Int("nodes", g.Len()),
		slog.Int("errors", len(plan.Diagnostics.Errors)),
		slog.Int("warnings", len(plan.Diagnostics.Warnings)),
	)

	// In strict mode, fail if any mapping could not be resolved
	if p.config.StrictMode && plan.Diagnostics.HasErrors() {
		return plan, fmt.Errorf("strict mode: planning failed with errors: %w", plan.Diagnostics.Err())
	}

	return plan, nil
}

// graphConfig derives the mapper wide graph settings.
func (p *Planner) graphConfig() (descriptor.Config, error) {
	mapper := p.mappingDef.Mapper

	cfg := descriptor.DefaultConfig()
	cfg.ReferenceHandling = mapper.ReferenceHandlingEnabled()
	cfg.DeepCloning = mapper.DeepCloningEnabled()
	cfg.NullPolicy = p.nullPolicy("", "", mapper)
	cfg.Logger = p.logger

	if p.config.Workers > 0 {
		cfg.Workers = p.config.Workers
	}

	for _, def := range p.mappingDef.Factories {
		fn := mapping.ResolveFactory(def.Func, p.graph)

		factory, err := descriptor.NewGenericSourceTargetFactory(p.graph, fn, def.SourceIndex)
		if err != nil {
			return cfg, fmt.Errorf("factory %s: %w", def.Func, err)
		}

		cfg.Factories = append(cfg.Factories, factory)
	}

	return cfg, nil
}

// contract converts a mapping entry. Options are layered member over
// contract over mapper.
func (p *Planner) contract(tm *mapping.TypeMapping) descriptor.Contract {
	source := mapping.ResolveTypeID(tm.Source, p.graph)
	target := mapping.ResolveTypeID(tm.Target, p.graph)
	pair := diagnostic.Pair(source, target)

	c := descriptor.Contract{
		Name:                  tm.Name,
		Source:                source,
		Target:                target,
		ReferenceHandlerParam: tm.ReferenceHandler,
		Implemented:           tm.Implemented,
		Directives: descriptor.Directives{
			Ignore:       tm.Ignore,
			IgnoreSource: tm.IgnoreSource,
			Renames:      tm.Renames(),
		},
	}

	if setsNullPolicy(tm.Options) {
		policy := p.nullPolicy(pair, "", tm.Options, p.mappingDef.Mapper)
		c.Directives.Policy = &policy
	}

	for _, f := range tm.Fields {
		if _, seen := c.Directives.MemberPolicies[f.Target]; seen || !setsNullPolicy(f.Options) {
			continue
		}

		if c.Directives.MemberPolicies == nil {
			c.Directives.MemberPolicies = make(map[string]mapping.NullPolicy)
		}

		c.Directives.MemberPolicies[f.Target] = p.nullPolicy(pair, f.Target,
			f.Options, tm.Options, p.mappingDef.Mapper)
	}

	return c
}

// nullPolicy resolves the effective policy of layers, most specific first,
// and reports a conflicting configuration.
func (p *Planner) nullPolicy(pair, member string, layers ...mapping.Options) mapping.NullPolicy {
	policy, conflict := mapping.ResolveNullPolicy(layers...)
	if conflict {
		p.collector.Report(diagnostic.New(diagnostic.NullMismatchPolicyConflict, pair, member,
			"both a throwing and a substituting null fallback are configured, the throw wins"))
	}

	return policy
}

// setsNullPolicy reports whether the layer itself configures null handling.
func setsNullPolicy(o mapping.Options) bool {
	return o.NullFallback != mapping.FallbackUnset || o.Substitute != nil || o.ThrowOnPropertyMappingNullMismatch != nil
}
