package generator

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vitalvas/routedoc/openapi"
	"github.com/vitalvas/routedoc/routes"
)

// Default info block values.
const (
	DefaultTitle   = "routing-controllers to openapi3"
	DefaultVersion = "1.0.0"
)

// TagStyle controls how controller names become operation tags.
type TagStyle string

const (
	// TagStyleVerbatim keeps the controller name without its Controller suffix.
	TagStyleVerbatim TagStyle = ""
	// TagStyleStartCase splits words and title cases them: "WidgetStore" becomes "Widget Store".
	TagStyleStartCase TagStyle = "start-case"
	// TagStyleKebab lower cases and joins words with dashes: "widget-store".
	TagStyleKebab TagStyle = "kebab"
)

// ParseTagStyle maps a configuration value to a TagStyle.
func ParseTagStyle(s string) (TagStyle, error) {
	switch style := TagStyle(strings.ToLower(strings.TrimSpace(s))); style {
	case TagStyleVerbatim, TagStyleStartCase, TagStyleKebab:
		return style, nil
	case "verbatim":
		return TagStyleVerbatim, nil
	default:
		return "", fmt.Errorf("generator: unknown tag style %q", s)
	}
}

// DedupPolicy picks the survivor when a declared parameter and a
// parameter expanded from an aggregate share a location and name.
type DedupPolicy string

const (
	// ExpandedWins keeps the expanded parameter.
	ExpandedWins DedupPolicy = "expanded"
	// DeclaredWins keeps the declared parameter.
	DeclaredWins DedupPolicy = "declared"
)

// ParseDedupPolicy maps a configuration value to a DedupPolicy. Empty
// selects ExpandedWins.
func ParseDedupPolicy(s string) (DedupPolicy, error) {
	switch policy := DedupPolicy(strings.ToLower(strings.TrimSpace(s))); policy {
	case "":
		return ExpandedWins, nil
	case ExpandedWins, DeclaredWins:
		return policy, nil
	default:
		return "", fmt.Errorf("generator: unknown dedup policy %q", s)
	}
}

// ResponseTransformFunc rewrites the success response schema of an operation.
type ResponseTransformFunc func(schema *openapi.Schema, op *openapi.Operation, route *routes.Route) *openapi.Schema

// Config controls document generation.
type Config struct {
	// Info is the document info block. Empty title and version take the
	// package defaults.
	Info openapi.Info

	// Routes holds the framework options shared by every route.
	Routes routes.Options

	// RefPointerPrefix prefixes every registry reference. Defaults to
	// openapi.ComponentsPrefix.
	RefPointerPrefix string

	TagStyle    TagStyle
	DedupPolicy DedupPolicy

	// ResponseTransform, when set, rewrites the success response schema of
	// every operation. It runs ahead of all controller and method overlays,
	// so an overlay replacing the response schema is not wrapped.
	ResponseTransform ResponseTransformFunc

	// Additional is deep-merged over the finished document. It may be a
	// map, raw JSON or an *openapi.Document.
	Additional any

	// Logger receives diagnostics. The zero Logger discards them.
	Logger zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.Info.Title == "" {
		c.Info.Title = DefaultTitle
	}
	if c.Info.Version == "" {
		c.Info.Version = DefaultVersion
	}
	if c.RefPointerPrefix == "" {
		c.RefPointerPrefix = openapi.ComponentsPrefix
	}
	if c.DedupPolicy == "" {
		c.DedupPolicy = ExpandedWins
	}
	return c
}
