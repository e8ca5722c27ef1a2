package plan

import (
	"log/slog"
	"runtime"

	"mapper-generator/internal/descriptor"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/syntax"
)

// Config holds configuration for the planning process.
type Config struct {
	// StrictMode fails the plan when any error diagnostic is reported.
	StrictMode bool
	// Workers bounds parallel contract resolution.
	Workers int
	// Logger receives pipeline traces (nil = discard).
	Logger *slog.Logger
}

// DefaultConfig returns the default planning configuration.
func DefaultConfig() Config {
	return Config{
		StrictMode: false,
		Workers:    runtime.GOMAXPROCS(0),
	}
}

// Plan is the output of the planning pipeline.
type Plan struct {
	// Funcs are the generated mapping functions in emission order.
	Funcs []syntax.FuncDecl
	// Contracts pairs every mapping entry with its graph node.
	Contracts []PlannedContract
	// Graph is the frozen mapping graph.
	Graph *descriptor.Graph
	// Diagnostics contains validation and resolution reports.
	Diagnostics diagnostic.Diagnostics
}

// PlannedContract is a declared mapping entry.
type PlannedContract struct {
	Mapping *mapping.TypeMapping
	Node    descriptor.NodeID
}

// Method returns the contract's method node.
func (p *Plan) Method(c PlannedContract) *descriptor.UserDeclaredMethod {
	m, _ := p.Graph.Node(c.Node).(*descriptor.UserDeclaredMethod)
	return m
}

// Func returns the generated function with the given name.
func (p *Plan) Func(name string) (syntax.FuncDecl, bool) {
	for _, f := range p.Funcs {
		if f.Name == name {
			return f, true
		}
	}

	return syntax.FuncDecl{}, false
}
