package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

type rootFlagsDefinition struct {
	Verbose bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlagsDefinition{}

	rootCmd := &cobra.Command{
		Use:           "mapper-generator <command> [options]",
		Short:         "Plan type mapping functions from a YAML mapping file",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().BoolVarP(
		&flags.Verbose,
		"verbose",
		"v",
		false,
		"Log resolution details to stderr",
	)

	rootCmd.AddCommand(newPlanCommand(flags))

	return rootCmd
}

// newLogger writes text records to w. Plan summaries are logged at info,
// strategy selection at debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
