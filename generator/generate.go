// Package generator builds OpenAPI 3.0 documents from a route snapshot and
// a type schema provider.
//
// Generation runs in a fixed order: the schema registry is collected from
// every documented parameter and return type, each action becomes one
// operation, aggregate query and header placeholders are expanded against
// the registry, and the registry is attached as components.schemas.
//
//	doc, err := generator.Generate(ctx, snap, provider, generator.Config{
//	    Info:   openapi.Info{Title: "Widgets", Version: "1.2.0"},
//	    Logger: logger,
//	})
package generator

import (
	"context"
	"slices"
	"strings"

	"github.com/vitalvas/routedoc/openapi"
	"github.com/vitalvas/routedoc/pathtpl"
	"github.com/vitalvas/routedoc/routes"
	"github.com/vitalvas/routedoc/typeschema"
)

// Generate returns the document describing every action of snap. provider
// may be nil, in which case no component schemas are emitted.
func Generate(ctx context.Context, snap *routes.Snapshot, provider typeschema.Provider, cfg Config) (*openapi.Document, error) {
	cfg = cfg.withDefaults()
	logger := cfg.Logger

	resolver := NewResolver(cfg.RefPointerPrefix, logger)
	registry, err := BuildSchemas(provider, snap, resolver)
	if err != nil {
		return nil, err
	}

	overlays := snap.Overlays.Clone()
	if cfg.ResponseTransform != nil {
		for _, c := range snap.Controllers {
			overlays.PrependController(c.Target, responseTransform(cfg.ResponseTransform))
		}
	}
	synth := NewSynthesizer(resolver, overlays, cfg.TagStyle)

	doc := &openapi.Document{
		OpenAPI:    openapi.Version,
		Info:       cfg.Info,
		Paths:      make(map[string]*openapi.PathItem),
		Components: &openapi.Components{Schemas: make(map[string]*openapi.Schema)},
	}

	assembled := routes.Assemble(snap, cfg.Routes)
	for i := range assembled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		route := &assembled[i]
		verb := strings.ToLower(route.Action.Verb)
		if !slices.Contains(openapi.Methods, verb) {
			logger.Warn().
				Str("route", route.ID()).
				Str("verb", route.Action.Verb).
				Msg("unsupported http verb, route skipped")
			continue
		}

		if err := addOperation(doc, synth, route, verb); err != nil {
			return nil, err
		}
	}

	out, err := Reconcile(doc, registry, cfg.DedupPolicy)
	if err != nil {
		return nil, err
	}
	if out.Components == nil {
		out.Components = &openapi.Components{}
	}
	out.Components.Schemas = registry

	if cfg.Additional != nil {
		if err := openapi.Merge(out, cfg.Additional); err != nil {
			return nil, err
		}
	}

	logger.Debug().
		Int("paths", len(out.Paths)).
		Int("schemas", len(registry)).
		Msg("document generated")
	return out, nil
}

func addOperation(doc *openapi.Document, synth *Synthesizer, route *routes.Route, verb string) error {
	full, err := route.FullPath()
	if err != nil {
		return &RouteError{Route: route.ID(), Err: err}
	}
	path, err := pathtpl.ToOpenAPI(full)
	if err != nil {
		return &RouteError{Route: route.ID(), Path: full, Err: err}
	}

	op, err := synth.Operation(route)
	if err != nil {
		return err
	}

	item, ok := doc.Paths[path]
	if !ok {
		item = &openapi.PathItem{}
		doc.Paths[path] = item
	}
	if existing := item.Operation(verb); existing != nil {
		if err := openapi.Merge(existing, op); err != nil {
			return &RouteError{Route: route.ID(), Path: full, Err: err}
		}
		return nil
	}
	item.SetOperation(verb, op)
	return nil
}
