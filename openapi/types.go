package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Version is the OpenAPI version written into generated documents.
const Version = "3.0.0"

// Document represents the root of an OpenAPI v3.0 document.
//
// See: https://spec.openapis.org/oas/v3.0.3#openapi-object
type Document struct {
	OpenAPI      string                `json:"openapi"`
	Info         Info                  `json:"info"`
	Servers      []Server              `json:"servers,omitempty"`
	Paths        map[string]*PathItem  `json:"paths"`
	Components   *Components           `json:"components,omitempty"`
	Security     []SecurityRequirement `json:"security,omitempty"`
	Tags         []Tag                 `json:"tags,omitempty"`
	ExternalDocs *ExternalDocs         `json:"externalDocs,omitempty"`
}

// Info provides metadata about the API.
//
// See: https://spec.openapis.org/oas/v3.0.3#info-object
type Info struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	TermsOfService string   `json:"termsOfService,omitempty"`
	Contact        *Contact `json:"contact,omitempty"`
	License        *License `json:"license,omitempty"`
	Version        string   `json:"version"`
}

// Contact represents contact information for the API.
type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// License represents license information for the API.
type License struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Server represents a server.
//
// See: https://spec.openapis.org/oas/v3.0.3#server-object
type Server struct {
	URL         string                     `json:"url"`
	Description string                     `json:"description,omitempty"`
	Variables   map[string]*ServerVariable `json:"variables,omitempty"`
}

// ServerVariable represents a server variable for URL template substitution.
type ServerVariable struct {
	Enum        []string `json:"enum,omitempty"`
	Default     string   `json:"default"`
	Description string   `json:"description,omitempty"`
}

// Methods lists the HTTP verbs a PathItem can hold, in document order.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// PathItem describes the operations available on a single path.
//
// See: https://spec.openapis.org/oas/v3.0.3#path-item-object
type PathItem struct {
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	Get         *Operation   `json:"get,omitempty"`
	Put         *Operation   `json:"put,omitempty"`
	Post        *Operation   `json:"post,omitempty"`
	Delete      *Operation   `json:"delete,omitempty"`
	Options     *Operation   `json:"options,omitempty"`
	Head        *Operation   `json:"head,omitempty"`
	Patch       *Operation   `json:"patch,omitempty"`
	Trace       *Operation   `json:"trace,omitempty"`
	Servers     []Server     `json:"servers,omitempty"`
	Parameters  []*Parameter `json:"parameters,omitempty"`
}

// Operation returns the operation stored under the lower-case verb, or nil.
func (p *PathItem) Operation(verb string) *Operation {
	if slot := p.slot(verb); slot != nil {
		return *slot
	}
	return nil
}

// SetOperation stores op under the lower-case verb. It reports false when
// the verb has no slot in a path item.
func (p *PathItem) SetOperation(verb string, op *Operation) bool {
	slot := p.slot(verb)
	if slot == nil {
		return false
	}
	*slot = op
	return true
}

// Operations calls fn for every set operation in document verb order.
func (p *PathItem) Operations(fn func(verb string, op *Operation)) {
	for _, verb := range Methods {
		if op := p.Operation(verb); op != nil {
			fn(verb, op)
		}
	}
}

func (p *PathItem) slot(verb string) **Operation {
	switch strings.ToLower(verb) {
	case "get":
		return &p.Get
	case "put":
		return &p.Put
	case "post":
		return &p.Post
	case "delete":
		return &p.Delete
	case "options":
		return &p.Options
	case "head":
		return &p.Head
	case "patch":
		return &p.Patch
	case "trace":
		return &p.Trace
	default:
		return nil
	}
}

// Operation describes a single API operation on a path.
// Keys starting with "x-" are kept in Extensions and written inline.
//
// See: https://spec.openapis.org/oas/v3.0.3#operation-object
type Operation struct {
	Tags         []string              `json:"tags,omitempty"`
	Summary      string                `json:"summary,omitempty"`
	Description  string                `json:"description,omitempty"`
	ExternalDocs *ExternalDocs         `json:"externalDocs,omitempty"`
	OperationID  string                `json:"operationId,omitempty"`
	Parameters   []*Parameter          `json:"parameters,omitempty"`
	RequestBody  *RequestBody          `json:"requestBody,omitempty"`
	Responses    map[string]*Response  `json:"responses,omitempty"`
	Deprecated   bool                  `json:"deprecated,omitempty"`
	Security     []SecurityRequirement `json:"security,omitempty"`
	Servers      []Server              `json:"servers,omitempty"`
	Extensions   map[string]any        `json:"-"`
}

type operationFields Operation

// MarshalJSON writes the operation fields followed by its extensions.
func (o Operation) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(operationFields(o))
	if err != nil || len(o.Extensions) == 0 {
		return data, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for key, value := range o.Extensions {
		if !strings.HasPrefix(key, "x-") {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("openapi: extension %q: %w", key, err)
		}
		fields[key] = raw
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads the operation fields and collects "x-" keys into Extensions.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var fields operationFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if !strings.HasPrefix(key, "x-") {
			continue
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		if fields.Extensions == nil {
			fields.Extensions = make(map[string]any)
		}
		fields.Extensions[key] = v
	}

	*o = Operation(fields)
	return nil
}

// Parameter describes a single operation parameter.
// The "in" field is one of "query", "header", "path" or "cookie".
//
// See: https://spec.openapis.org/oas/v3.0.3#parameter-object
type Parameter struct {
	Name            string                `json:"name"`
	In              string                `json:"in"`
	Description     string                `json:"description,omitempty"`
	Required        bool                  `json:"required,omitempty"`
	Deprecated      bool                  `json:"deprecated,omitempty"`
	AllowEmptyValue bool                  `json:"allowEmptyValue,omitempty"`
	Style           string                `json:"style,omitempty"`
	Explode         *bool                 `json:"explode,omitempty"`
	Schema          *Schema               `json:"schema,omitempty"`
	Example         any                   `json:"example,omitempty"`
	Content         map[string]*MediaType `json:"content,omitempty"`
}

// RequestBody describes a single request body.
//
// See: https://spec.openapis.org/oas/v3.0.3#request-body-object
type RequestBody struct {
	Description string                `json:"description,omitempty"`
	Required    bool                  `json:"required,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

// Response describes a single response from an API operation.
//
// See: https://spec.openapis.org/oas/v3.0.3#response-object
type Response struct {
	Description string                `json:"description"`
	Headers     map[string]*Header    `json:"headers,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

// MediaType describes a media type with a schema and optional example.
//
// See: https://spec.openapis.org/oas/v3.0.3#media-type-object
type MediaType struct {
	Schema  *Schema `json:"schema,omitempty"`
	Example any     `json:"example,omitempty"`
}

// Header describes a single response header.
type Header struct {
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`
}

// SchemaType is the "type" keyword of a schema. Generated schemas carry a
// single name; a list is accepted on input for JSON Schema sources.
type SchemaType struct {
	value []string
}

// TypeString creates a SchemaType with a single type.
func TypeString(t string) SchemaType {
	return SchemaType{value: []string{t}}
}

// TypeArray creates a SchemaType with multiple types.
func TypeArray(types ...string) SchemaType {
	return SchemaType{value: types}
}

// Values returns the underlying type values.
func (st SchemaType) Values() []string {
	return st.value
}

// Is reports whether the type is exactly the single name t.
func (st SchemaType) Is(t string) bool {
	return len(st.value) == 1 && st.value[0] == t
}

// IsZero reports whether the schema type is unset.
func (st SchemaType) IsZero() bool {
	return len(st.value) == 0
}

// MarshalJSON encodes a single type as a string and several as an array.
func (st SchemaType) MarshalJSON() ([]byte, error) {
	if len(st.value) == 1 {
		return json.Marshal(st.value[0])
	}
	return json.Marshal(st.value)
}

// UnmarshalJSON decodes the schema type from either a JSON string or array.
func (st *SchemaType) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		st.value = []string{single}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("openapi: schema type: %w", err)
	}
	st.value = arr
	return nil
}

// Schema represents an OpenAPI v3.0 Schema Object. A schema whose only set
// field is Ref is a reference. Definitions holds nested named schemas as
// emitted by JSON Schema generators; it is stripped before a schema enters
// the component registry.
//
// Keywords without a field are kept in Extra and written back unchanged,
// so definitions from schema generators survive a decode and encode.
// A draft-07 tuple ("items" holding an array) is kept in TupleItems.
//
// See: https://spec.openapis.org/oas/v3.0.3#schema-object
type Schema struct {
	Ref         string             `json:"$ref,omitempty"`
	Definitions map[string]*Schema `json:"definitions,omitempty"`

	Type        SchemaType `json:"type,omitzero"`
	Format      string     `json:"format,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Default     any        `json:"default,omitempty"`
	Example     any        `json:"example,omitempty"`
	Examples    []any      `json:"examples,omitempty"`
	Nullable    bool       `json:"nullable,omitempty"`
	Deprecated  bool       `json:"deprecated,omitempty"`
	ReadOnly    bool       `json:"readOnly,omitempty"`
	WriteOnly   bool       `json:"writeOnly,omitempty"`

	// ExclusiveMinimum and ExclusiveMaximum are booleans in OpenAPI 3.0 and
	// numbers in later JSON Schema drafts; both shapes pass through.
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum any      `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum any      `json:"exclusiveMaximum,omitempty"`

	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	Items       *Schema   `json:"items,omitempty"`
	TupleItems  []*Schema `json:"-"`
	PrefixItems []*Schema `json:"prefixItems,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`
	UniqueItems bool      `json:"uniqueItems,omitempty"`

	Properties           map[string]*Schema    `json:"properties,omitempty"`
	PatternProperties    map[string]*Schema    `json:"patternProperties,omitempty"`
	AdditionalProperties *AdditionalProperties `json:"additionalProperties,omitempty"`
	Required             []string              `json:"required,omitempty"`
	MinProperties        *int                  `json:"minProperties,omitempty"`
	MaxProperties        *int                  `json:"maxProperties,omitempty"`

	Enum  []any `json:"enum,omitempty"`
	Const any   `json:"const,omitzero"`

	AllOf []*Schema `json:"allOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	Not   *Schema   `json:"not,omitempty"`

	Discriminator *Discriminator `json:"discriminator,omitempty"`
	ExternalDocs  *ExternalDocs  `json:"externalDocs,omitempty"`

	Extra map[string]any `json:"-"`
}

type schemaFields Schema

// schemaOut and schemaIn shadow the embedded items field so it can hold
// either a schema or a tuple.
type schemaOut struct {
	schemaFields
	Items any `json:"items,omitempty"`
}

type schemaIn struct {
	schemaFields
	Items json.RawMessage `json:"items,omitempty"`
}

// schemaKeywords lists the keys decoded into Schema fields.
var schemaKeywords = func() map[string]struct{} {
	keys := map[string]struct{}{"items": {}}
	t := reflect.TypeFor[schemaFields]()
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = struct{}{}
		}
	}
	return keys
}()

// MarshalJSON writes the schema fields, the items schema or tuple, and the
// passthrough keywords of Extra.
func (s Schema) MarshalJSON() ([]byte, error) {
	out := schemaOut{schemaFields: schemaFields(s)}
	switch {
	case s.Items != nil:
		out.Items = s.Items
	case s.TupleItems != nil:
		out.Items = s.TupleItems
	}

	data, err := json.Marshal(out)
	if err != nil || len(s.Extra) == 0 {
		return data, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for key, value := range s.Extra {
		if _, known := schemaKeywords[key]; known {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("openapi: schema keyword %q: %w", key, err)
		}
		fields[key] = raw
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads the schema fields, accepts "items" as a schema or a
// tuple, and keeps every other keyword in Extra.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var in schemaIn
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Schema(in.schemaFields)

	if items := bytes.TrimSpace(in.Items); len(items) > 0 && !bytes.Equal(items, []byte("null")) {
		if items[0] == '[' {
			if err := json.Unmarshal(items, &s.TupleItems); err != nil {
				return fmt.Errorf("openapi: items: %w", err)
			}
		} else {
			s.Items = new(Schema)
			if err := json.Unmarshal(items, s.Items); err != nil {
				return fmt.Errorf("openapi: items: %w", err)
			}
		}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if _, known := schemaKeywords[key]; known {
			continue
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[key] = v
	}
	return nil
}

// AdditionalProperties is either a boolean or a schema.
type AdditionalProperties struct {
	Allowed *bool
	Schema  *Schema
}

// MarshalJSON writes the schema when set, otherwise the boolean.
func (ap AdditionalProperties) MarshalJSON() ([]byte, error) {
	if ap.Schema != nil {
		return json.Marshal(ap.Schema)
	}
	if ap.Allowed != nil {
		return json.Marshal(*ap.Allowed)
	}
	return []byte("true"), nil
}

// UnmarshalJSON accepts either a boolean or a schema object.
func (ap *AdditionalProperties) UnmarshalJSON(data []byte) error {
	var allowed bool
	if err := json.Unmarshal(data, &allowed); err == nil {
		ap.Allowed = &allowed
		ap.Schema = nil
		return nil
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return fmt.Errorf("openapi: additionalProperties: %w", err)
	}
	ap.Allowed = nil
	ap.Schema = &schema
	return nil
}

// Components holds reusable OpenAPI objects.
//
// See: https://spec.openapis.org/oas/v3.0.3#components-object
type Components struct {
	Schemas         map[string]*Schema         `json:"schemas"`
	Responses       map[string]*Response       `json:"responses,omitempty"`
	Parameters      map[string]*Parameter      `json:"parameters,omitempty"`
	RequestBodies   map[string]*RequestBody    `json:"requestBodies,omitempty"`
	Headers         map[string]*Header         `json:"headers,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `json:"securitySchemes,omitempty"`
}

// Tag adds metadata to a single tag used by Operation Objects.
type Tag struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	ExternalDocs *ExternalDocs `json:"externalDocs,omitempty"`
}

// SecurityRequirement lists required security schemes for an operation.
type SecurityRequirement map[string][]string

// ExternalDocs allows referencing external documentation.
type ExternalDocs struct {
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// Discriminator aids in serialization when payloads may be one of several schemas.
type Discriminator struct {
	PropertyName string            `json:"propertyName"`
	Mapping      map[string]string `json:"mapping,omitempty"`
}

// SecurityScheme defines a security scheme used by API operations.
//
// See: https://spec.openapis.org/oas/v3.0.3#security-scheme-object
type SecurityScheme struct {
	Type             string `json:"type"`
	Description      string `json:"description,omitempty"`
	Name             string `json:"name,omitempty"`
	In               string `json:"in,omitempty"`
	Scheme           string `json:"scheme,omitempty"`
	BearerFormat     string `json:"bearerFormat,omitempty"`
	OpenIDConnectURL string `json:"openIdConnectUrl,omitempty"`
}
