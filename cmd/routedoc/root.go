package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Execute runs the routedoc CLI.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCmd constructs the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "routedoc",
		Short:         "Generate OpenAPI 3.0 documents from route manifests",
		Long:          "routedoc turns a route manifest and type declarations into an OpenAPI 3.0 document, validates documents and serves them with an interactive UI.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flagError := func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	}
	cmd.SetFlagErrorFunc(flagError)

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Config file path (YAML or JSON)")
	flags.String("log-level", "info", "Log level (trace|debug|info|warn|error)")
	flags.Bool("pretty", false, "Human readable console logs")

	for _, sub := range []*cobra.Command{newGenerateCmd(), newValidateCmd(), newServeCmd()} {
		sub.SetFlagErrorFunc(flagError)
		cmd.AddCommand(sub)
	}

	return cmd
}

// newLogger builds the diagnostics logger from the persistent flags. Logs
// go to the command's stderr so generated output on stdout stays clean.
func newLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	levelName, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return zerolog.Nop(), err
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelName)))
	if err != nil {
		return zerolog.Nop(), newUsageError(fmt.Sprintf("--log-level: %v", err))
	}

	pretty, err := cmd.Flags().GetBool("pretty")
	if err != nil {
		return zerolog.Nop(), err
	}

	var w io.Writer = cmd.ErrOrStderr()
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
