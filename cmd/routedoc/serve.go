package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vitalvas/routedoc/docserver"
)

// DefaultAddr is the listen address of the serve command.
const DefaultAddr = ":8080"

const shutdownTimeout = 10 * time.Second

// ServeConfig holds the listener and page settings of the serve command.
type ServeConfig struct {
	Addr     string
	BasePath string
	UI       docserver.UI
}

var serveRunner = runServe

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Generate a document and serve it with an interactive UI",
		Long: "Generate an OpenAPI document from a route manifest and serve it over HTTP " +
			"together with an interactive page and Prometheus metrics.",
		Example: strings.TrimSpace(`  routedoc serve --manifest routes.yaml --schemas 'schemas/*.json' --addr :9000 --ui redoc`),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, fc, err := resolveGenerateConfig(cmd.Flags())
			if err != nil {
				return err
			}
			serveCfg, err := resolveServeConfig(cmd.Flags(), fc)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			return serveRunner(cmd.Context(), cfg, serveCfg, logger)
		},
	}

	flags := cmd.Flags()
	registerGenerateFlags(flags)
	flags.String("addr", DefaultAddr, "Listen address")
	flags.String("base-path", docserver.DefaultBasePath, "Mount point of the documentation routes")
	flags.String("ui", "swagger", "Interactive page (swagger|rapidoc|redoc)")

	return cmd
}

// resolveServeConfig merges the serve block of the config file with the
// flags. Flags win when set.
func resolveServeConfig(flags *pflag.FlagSet, fc *fileConfig) (*ServeConfig, error) {
	cfg := &ServeConfig{
		Addr:     DefaultAddr,
		BasePath: docserver.DefaultBasePath,
		UI:       docserver.UISwagger,
	}

	addr, base, ui := fc.Serve.Addr, fc.Serve.BasePath, fc.Serve.UI
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"addr", &addr},
		{"base-path", &base},
		{"ui", &ui},
	} {
		if !flags.Changed(f.name) {
			continue
		}
		value, err := flags.GetString(f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = strings.TrimSpace(value)
	}

	if addr != "" {
		cfg.Addr = addr
	}
	if base != "" {
		cfg.BasePath = base
	}
	if ui != "" {
		parsed, err := docserver.ParseUI(ui)
		if err != nil {
			return nil, newUsageError(fmt.Sprintf("--ui: %v", err))
		}
		cfg.UI = parsed
	}
	return cfg, nil
}

func runServe(ctx context.Context, cfg *GenerateConfig, serveCfg *ServeConfig, logger zerolog.Logger) error {
	doc, err := buildDocument(ctx, cfg, logger)
	if err != nil {
		return err
	}

	handler, err := docserver.New(doc, docserver.Config{
		BasePath: serveCfg.BasePath,
		UI:       serveCfg.UI,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", serveCfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", serveCfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info().
		Str("addr", ln.Addr().String()).
		Str("base_path", serveCfg.BasePath).
		Str("ui", serveCfg.UI.String()).
		Msg("serving documentation")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
