// Package openapi holds the OpenAPI v3.0 document model produced by the
// generator, plus the helpers shared across the module: schema reference
// walking, JSON deep merge, JSON/YAML encoding and validation.
//
// See: https://spec.openapis.org/oas/v3.0.3
//
// # References
//
// A Schema whose only set field is Ref is a reference. Generated documents
// point at components with the "#/components/schemas/" prefix; schemas read
// from JSON Schema generators use "#/definitions/" and are rewritten with
// RewriteRefs before they enter the registry:
//
//	s := openapi.NewRef("#/definitions/Widget")
//	s.RewriteRefs(openapi.DefinitionsPrefix, openapi.ComponentsPrefix)
//	s.RefTarget() // "Widget"
//
// # Merge
//
// Merge applies JSON-shaped patches to any value of this package. Objects
// merge key by key, the later value wins, arrays are replaced:
//
//	op := &openapi.Operation{Summary: "list"}
//	if err := openapi.Merge(op, map[string]any{"description": "List widgets"}); err != nil {
//		return err
//	}
//
// # Encoding and validation
//
//	data, _ := openapi.MarshalYAML(doc)
//	err := openapi.Validate(ctx, doc)
package openapi
