package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vitalvas/routedoc/openapi"
)

var validateRunner = runValidate

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate an OpenAPI document",
		Long:  "Validate an OpenAPI 3 document in JSON or YAML form against the OpenAPI 3.0 rules.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return newUsageError(err.Error())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			return validateRunner(cmd.Context(), args[0], logger)
		},
	}
}

func runValidate(ctx context.Context, path string, logger zerolog.Logger) error {
	if err := openapi.ValidateFile(ctx, path); err != nil {
		return err
	}
	logger.Info().Str("file", path).Msg("document is valid")
	return nil
}
