package generator

import (
	"strings"

	"github.com/stoewer/go-strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vitalvas/routedoc/openapi"
	"github.com/vitalvas/routedoc/pathtpl"
	"github.com/vitalvas/routedoc/routes"
)

// Default response values.
const (
	DefaultStatusCode      = "200"
	DefaultJSONContentType = "application/json"
	DefaultContentType     = "text/html; charset=utf-8"

	successDescription = "Successful response"
)

// StatusCode returns the success status of route: the first success-code
// annotation, or "200".
func StatusCode(route *routes.Route) string {
	if code, ok := route.ResponseHandler(routes.HandlerSuccessCode); ok {
		return code
	}
	return DefaultStatusCode
}

// ContentType returns the response content type of route: the first
// content-type annotation, else JSON for json controllers and HTML
// otherwise.
func ContentType(route *routes.Route) string {
	if ct, ok := route.ResponseHandler(routes.HandlerContentType); ok {
		return ct
	}
	if route.Controller != nil && route.Controller.Type == routes.ControllerJSON {
		return DefaultJSONContentType
	}
	return DefaultContentType
}

// Synthesizer turns assembled routes into operations.
type Synthesizer struct {
	resolver *Resolver
	overlays *routes.OverlayRegistry
	tagStyle TagStyle
}

// NewSynthesizer returns a synthesizer applying overlays from reg. reg may
// be nil.
func NewSynthesizer(r *Resolver, reg *routes.OverlayRegistry, style TagStyle) *Synthesizer {
	return &Synthesizer{resolver: r, overlays: reg, tagStyle: style}
}

// Operation builds the operation of route and applies its overlays.
func (s *Synthesizer) Operation(route *routes.Route) (*openapi.Operation, error) {
	path, err := route.FullPath()
	if err != nil {
		return nil, &RouteError{Route: route.ID(), Err: err}
	}

	pathParams, err := s.pathParams(route, path)
	if err != nil {
		return nil, &RouteError{Route: route.ID(), Path: path, Err: err}
	}

	var params []*openapi.Parameter
	params = append(params, s.locationParams(route, routes.InQuery, routes.InQueries, "query")...)
	params = append(params, s.locationParams(route, routes.InHeader, routes.InHeaders, "header")...)
	params = append(params, pathParams...)

	op := &openapi.Operation{
		Tags:        s.tags(route),
		Summary:     route.Action.Method,
		OperationID: route.ID(),
		RequestBody: s.requestBody(route),
		Responses:   s.responses(route),
	}
	if len(params) > 0 {
		op.Parameters = params
	}

	op, err = routes.Apply(op, route, s.overlays.For(route.Action.Target, route.Action.Method))
	if err != nil {
		return nil, &RouteError{Route: route.ID(), Path: path, Err: err}
	}
	return op, nil
}

func (s *Synthesizer) tags(route *routes.Route) []string {
	name := strings.TrimSuffix(route.Controller.Target, "Controller")

	switch s.tagStyle {
	case TagStyleStartCase:
		words := strings.ReplaceAll(strcase.KebabCase(name), "-", " ")
		name = cases.Title(language.English).String(words)
	case TagStyleKebab:
		name = strcase.KebabCase(name)
	}
	return []string{name}
}

func (s *Synthesizer) paramSchema(route *routes.Route, p routes.Param) *openapi.Schema {
	return s.resolver.Resolve(route.ParamType(p), &p)
}

// locationParams emits the single parameters captured at single, unique
// by name, plus one placeholder for the first aggregate parameter when its
// type is a reference. The placeholder is named after the referenced type.
func (s *Synthesizer) locationParams(route *routes.Route, single, aggregate routes.ParamIn, in string) []*openapi.Parameter {
	defaultRequired := route.Options.DefaultParamRequired

	var out []*openapi.Parameter
	seen := make(map[string]struct{})
	for _, p := range route.ParamsIn(single) {
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}

		out = append(out, &openapi.Parameter{
			In:          in,
			Name:        p.Name,
			Description: p.Description,
			Required:    p.IsRequired(defaultRequired),
			Schema:      s.paramSchema(route, p),
		})
	}

	if agg, ok := route.Param(aggregate); ok {
		schema := s.paramSchema(route, agg)
		if schema.Ref != "" {
			out = append(out, &openapi.Parameter{
				In:       in,
				Name:     openapi.RefName(schema.Ref),
				Required: agg.IsRequired(defaultRequired),
				Schema:   schema,
			})
		}
	}
	return out
}

// pathParams emits one parameter per named key of the full path template.
func (s *Synthesizer) pathParams(route *routes.Route, path string) ([]*openapi.Parameter, error) {
	keys, err := pathtpl.Keys(path)
	if err != nil {
		return nil, err
	}

	var out []*openapi.Parameter
	seen := make(map[string]struct{})
	for _, key := range keys {
		if _, dup := seen[key.Name]; dup {
			continue
		}
		seen[key.Name] = struct{}{}

		schema := openapi.NewType("string")
		if key.Pattern != "" {
			schema.Pattern = key.Pattern
		}

		param := &openapi.Parameter{In: "path", Name: key.Name, Required: !key.Optional()}
		if meta, ok := findParam(route, routes.InPath, key.Name); ok {
			param.Description = meta.Description
			declared := s.paramSchema(route, meta)
			if !declared.Type.IsZero() && declared.Pattern == "" {
				declared.Pattern = schema.Pattern
			}
			schema = declared
		}
		param.Schema = schema
		out = append(out, param)
	}
	return out, nil
}

func findParam(route *routes.Route, in routes.ParamIn, name string) (routes.Param, bool) {
	for _, p := range route.Params {
		if p.In == in && p.Name == name {
			return p, true
		}
	}
	return routes.Param{}, false
}

// requestBody combines the whole body parameter with the object built from
// body field parameters. Both present yields allOf.
func (s *Synthesizer) requestBody(route *routes.Route) *openapi.RequestBody {
	defaultRequired := route.Options.DefaultParamRequired

	var fields *openapi.Schema
	for _, p := range route.ParamsIn(routes.InBodyField) {
		if fields == nil {
			fields = &openapi.Schema{
				Type:       openapi.TypeString("object"),
				Properties: make(map[string]*openapi.Schema),
			}
		}
		if p.Name == "" {
			continue
		}
		fields.Properties[p.Name] = s.paramSchema(route, p)
		if p.IsRequired(defaultRequired) {
			fields.Required = append(fields.Required, p.Name)
		}
	}

	body, ok := route.Param(routes.InBody)
	if !ok {
		if fields == nil {
			return nil
		}
		return &openapi.RequestBody{Content: jsonContent(fields)}
	}

	schema := s.paramSchema(route, body)
	rb := &openapi.RequestBody{
		Description: schema.RefTarget(),
		Required:    body.IsRequired(defaultRequired),
	}
	if fields != nil {
		schema = &openapi.Schema{AllOf: []*openapi.Schema{schema, fields}}
	}
	rb.Content = jsonContent(schema)
	return rb
}

func jsonContent(schema *openapi.Schema) map[string]*openapi.MediaType {
	return map[string]*openapi.MediaType{
		DefaultJSONContentType: {Schema: schema},
	}
}

func (s *Synthesizer) responses(route *routes.Route) map[string]*openapi.Response {
	return map[string]*openapi.Response{
		StatusCode(route): {
			Description: successDescription,
			Content: map[string]*openapi.MediaType{
				ContentType(route): {Schema: s.resolver.ResolveReturn(route)},
			},
		},
	}
}

// responseTransform wraps fn as an overlay rewriting the success response
// schema, when one exists.
func responseTransform(fn ResponseTransformFunc) routes.Overlay {
	return routes.Transform(func(op *openapi.Operation, route *routes.Route) *openapi.Operation {
		resp := op.Responses[StatusCode(route)]
		if resp == nil {
			return op
		}
		media := resp.Content[ContentType(route)]
		if media == nil || media.Schema == nil {
			return op
		}
		if schema := fn(media.Schema, op, route); schema != nil {
			media.Schema = schema
		}
		return op
	})
}
