package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vitalvas/routedoc/generator"
	"github.com/vitalvas/routedoc/openapi"
	"github.com/vitalvas/routedoc/routes"
	"github.com/vitalvas/routedoc/typeschema"
)

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an OpenAPI document from a route manifest",
		Long: "Generate an OpenAPI document from a route manifest and type declarations. " +
			"Options can be provided via flags, a config file, or defaults.",
		Example: strings.TrimSpace(`  routedoc generate --manifest routes.yaml --schemas 'schemas/*.json' --out openapi.json
  routedoc --config routedoc.yaml generate --format yaml --validate`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := resolveGenerateConfig(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
		},
	}

	flags := cmd.Flags()
	registerGenerateFlags(flags)
	flags.String("out", "", "Output file (stdout when omitted)")
	flags.String("format", "", "Output format (json|yaml); inferred from --out when omitted")
	flags.Bool("validate", false, "Validate the generated document before writing it")

	return cmd
}

func runGenerate(ctx context.Context, cfg *GenerateConfig, stdout io.Writer, logger zerolog.Logger) error {
	doc, err := buildDocument(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Validate {
		if err := openapi.Validate(ctx, doc); err != nil {
			return err
		}
		logger.Info().Msg("document is valid")
	}

	if cfg.Output == "" {
		return openapi.Encode(stdout, doc, cfg.Format)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := openapi.Encode(f, doc, cfg.Format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logger.Info().
		Str("output", cfg.Output).
		Str("format", string(cfg.Format)).
		Int("paths", len(doc.Paths)).
		Msg("document written")
	return nil
}

// buildDocument loads the manifest and type declarations named by cfg and
// generates the document.
func buildDocument(ctx context.Context, cfg *GenerateConfig, logger zerolog.Logger) (*openapi.Document, error) {
	manifest, err := routes.LoadManifest(cfg.Manifest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, newUsageError(err.Error())
		}
		return nil, err
	}
	snap, err := manifest.Snapshot()
	if err != nil {
		return nil, err
	}

	opts := manifest.Options()
	if cfg.RoutePrefix != nil {
		opts.RoutePrefix = *cfg.RoutePrefix
	}
	if cfg.DefaultParamRequired != nil {
		opts.DefaultParamRequired = *cfg.DefaultParamRequired
	}

	provider, err := typeschema.Load(typeschema.Sources{
		GoPattern:     cfg.Pattern,
		SchemaPattern: cfg.Schemas,
	}, typeschema.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	info := openapi.Info{
		Title:       manifest.Info.Title,
		Version:     manifest.Info.Version,
		Description: manifest.Info.Description,
	}
	if cfg.Title != "" {
		info.Title = cfg.Title
	}
	if cfg.Version != "" {
		info.Version = cfg.Version
	}

	var additional any
	if fields := manifest.AdditionalFields(); fields != nil {
		additional = fields
	}

	return generator.Generate(ctx, snap, provider, generator.Config{
		Info:             info,
		Routes:           opts,
		RefPointerPrefix: cfg.RefPointerPrefix,
		TagStyle:         cfg.TagStyle,
		DedupPolicy:      cfg.Dedup,
		Additional:       additional,
		Logger:           logger,
	})
}
