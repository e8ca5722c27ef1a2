package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/plan"
	"mapper-generator/internal/syntax"
)

type planFlags struct {
	Mapping string
	Export  string
	Dir     string
	Workers int
	Strict  bool
	Dump    bool
}

func newPlanCommand(root *rootFlagsDefinition) *cobra.Command {
	f := &planFlags{}

	command := &cobra.Command{
		Use:   "plan <packages...>",
		Short: "Resolve the mapping file and print the planned functions",
		Long: `Loads the given Go packages, resolves every mapping declared in the
mapping file and prints the assembled mapping functions. Unresolvable
members are reported as diagnostics; --strict turns them into a failure.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args, f, root)
		},
	}

	command.Flags().StringVarP(&f.Mapping, "mapping", "m", "", "Path to the YAML mapping file")
	command.Flags().StringVar(&f.Export, "export", "", "Write a reviewed mapping file with suggested ignores to this path")
	command.Flags().StringVar(&f.Dir, "dir", "", "Directory used to resolve package patterns")
	command.Flags().IntVar(&f.Workers, "workers", 0, "Parallel contract resolution (0 = GOMAXPROCS)")
	command.Flags().BoolVar(&f.Strict, "strict", false, "Fail when any mapping cannot be resolved")
	command.Flags().BoolVar(&f.Dump, "dump", false, "Dump the mapping graph nodes")
	_ = command.MarkFlagRequired("mapping")

	return command
}

func runPlan(cmd *cobra.Command, patterns []string, f *planFlags, root *rootFlagsDefinition) error {
	logger := newLogger(cmd.ErrOrStderr(), root.Verbose)

	mf, err := mapping.LoadFile(f.Mapping)
	if err != nil {
		return err
	}

	a := analyze.NewAnalyzer()
	a.Dir = f.Dir

	graph, err := a.LoadPackages(patterns...)
	if err != nil {
		return err
	}

	cfg := plan.DefaultConfig()
	cfg.StrictMode = f.Strict
	cfg.Logger = logger

	if f.Workers > 0 {
		cfg.Workers = f.Workers
	}

	p, err := plan.NewPlanner(graph, mf, cfg).Build(cmd.Context())
	if p != nil {
		printDiagnostics(cmd.ErrOrStderr(), p.Diagnostics)
	}

	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, fn := range p.Funcs {
		if err := syntax.Fprint(out, fn); err != nil {
			return err
		}
	}

	if f.Dump {
		spew.Fdump(out, p.Graph.Nodes())
	}

	if f.Export != "" {
		data, err := plan.ExportSuggestionsYAML(p, mf)
		if err != nil {
			return err
		}

		if err := os.WriteFile(f.Export, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Export, err)
		}
	}

	return nil
}

func printDiagnostics(w io.Writer, diags diagnostic.Diagnostics) {
	for _, group := range [][]diagnostic.Diagnostic{diags.Errors, diags.Warnings, diags.Infos} {
		for _, d := range group {
			fmt.Fprintln(w, d.String())
		}
	}
}
