package typeschema

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/vitalvas/routedoc/openapi"
	"github.com/vitalvas/routedoc/routes"
)

// Exampler can be implemented by types to provide an example value for
// their definition.
//
//	func (w Widget) OpenAPIExample() any {
//	    return Widget{ID: "w-1", Name: "sprocket"}
//	}
type Exampler interface {
	OpenAPIExample() any
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	rawJSONType  = reflect.TypeFor[json.RawMessage]()
)

// ReflectProvider builds definitions from Go values. Named struct types
// become definitions under their routes.TypeName, so they match the names
// produced by routes.TypeOf.
type ReflectProvider struct {
	*MapProvider

	visited   map[reflect.Type]bool
	typeNames map[reflect.Type]string
	nameTypes map[string]reflect.Type
}

// NewReflectProvider returns a provider with the types of values registered.
func NewReflectProvider(values ...any) *ReflectProvider {
	p := &ReflectProvider{
		MapProvider: NewMapProvider(nil),
		visited:     make(map[reflect.Type]bool),
		typeNames:   make(map[reflect.Type]string),
		nameTypes:   make(map[string]reflect.Type),
	}
	p.Register(values...)
	return p
}

// Register adds the types of values and every named struct they reach.
// Values that are not named structs, or pointers to them, only contribute
// the named types they reference.
func (p *ReflectProvider) Register(values ...any) {
	for _, v := range values {
		if v == nil {
			continue
		}
		p.RegisterType(reflect.TypeOf(v))
	}
}

// RegisterType adds t and every named struct it reaches.
func (p *ReflectProvider) RegisterType(t reflect.Type) {
	p.generateType(t)
}

func (p *ReflectProvider) generateType(t reflect.Type) *openapi.Schema {
	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}

	if t.Kind() == reflect.Struct && t != timeType {
		if name := p.schemaName(t); name != "" {
			if !p.visited[t] {
				p.visited[t] = true
				schema := p.structSchema(t)
				if ex, ok := reflect.New(t).Interface().(Exampler); ok {
					schema.Example = ex.OpenAPIExample()
				}
				p.Add(name, schema)
			}
			return openapi.NewRef(openapi.DefinitionsPrefix + name)
		}
	}

	schema := p.inlineType(t)
	if nullable && schema != nil && schema.Ref == "" && !schema.Type.IsZero() {
		schema.Nullable = true
	}
	return schema
}

func (p *ReflectProvider) inlineType(t reflect.Type) *openapi.Schema {
	switch t {
	case timeType:
		return &openapi.Schema{Type: openapi.TypeString("string"), Format: "date-time"}
	case durationType:
		return &openapi.Schema{Type: openapi.TypeString("integer"), Format: "int64"}
	case rawJSONType:
		return &openapi.Schema{}
	}

	switch t.Kind() {
	case reflect.Bool:
		return openapi.NewType("boolean")

	case reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return &openapi.Schema{Type: openapi.TypeString("integer"), Format: "int32"}

	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return &openapi.Schema{Type: openapi.TypeString("integer"), Format: "int64"}

	case reflect.Float32:
		return &openapi.Schema{Type: openapi.TypeString("number"), Format: "float"}

	case reflect.Float64:
		return &openapi.Schema{Type: openapi.TypeString("number"), Format: "double"}

	case reflect.String:
		return openapi.NewType("string")

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &openapi.Schema{Type: openapi.TypeString("string"), Format: "byte"}
		}
		return &openapi.Schema{Type: openapi.TypeString("array"), Items: p.itemsType(t.Elem())}

	case reflect.Array:
		return &openapi.Schema{Type: openapi.TypeString("array"), Items: p.itemsType(t.Elem())}

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return openapi.NewType("object")
		}
		schema := openapi.NewType("object")
		if elem := p.generateType(t.Elem()); elem != nil {
			schema.AdditionalProperties = &openapi.AdditionalProperties{Schema: elem}
		}
		return schema

	case reflect.Struct:
		return p.structSchema(t)

	case reflect.Interface:
		return &openapi.Schema{}
	}

	return nil
}

func (p *ReflectProvider) itemsType(t reflect.Type) *openapi.Schema {
	if items := p.generateType(t); items != nil {
		return items
	}
	return &openapi.Schema{}
}

func (p *ReflectProvider) structSchema(t reflect.Type) *openapi.Schema {
	schema := &openapi.Schema{
		Type:       openapi.TypeString("object"),
		Properties: make(map[string]*openapi.Schema),
	}

	p.collectFields(t, schema, false)

	if len(schema.Properties) == 0 {
		schema.Properties = nil
	}
	return schema
}

// collectFields adds the exported fields of t to schema. Embedded structs
// without a json name are inlined; when embedded by pointer all of their
// fields are optional.
func (p *ReflectProvider) collectFields(t reflect.Type, schema *openapi.Schema, allOptional bool) {
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		if field.Anonymous {
			jsonName, _ := parseJSONTag(field.Tag.Get("json"))
			if jsonName == "" {
				ft := field.Type
				isPtr := ft.Kind() == reflect.Pointer
				if isPtr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					p.collectFields(ft, schema, allOptional || isPtr)
					continue
				}
			}
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, opts := parseJSONTag(jsonTag)
		if name == "" {
			name = field.Name
		}

		fieldSchema := p.generateType(field.Type)
		if fieldSchema == nil {
			continue
		}

		if tag := field.Tag.Get("openapi"); tag != "" {
			if fieldSchema.Ref != "" {
				fieldSchema = &openapi.Schema{AllOf: []*openapi.Schema{fieldSchema}}
			}
			applyOpenAPITag(fieldSchema, tag)
		}
		if opts.stringEncode {
			applyStringEncoding(fieldSchema)
		}

		schema.Properties[name] = fieldSchema

		if !opts.omitempty && !allOptional && field.Type.Kind() != reflect.Pointer {
			schema.Required = append(schema.Required, name)
		}
	}
}

// schemaName returns a unique definition name for t. A second type with
// the same simple name from another package gets its package name as a
// prefix, then a numeric suffix if that still collides.
func (p *ReflectProvider) schemaName(t reflect.Type) string {
	simple := routes.TypeName(t)
	if simple == "" || t.PkgPath() == "" {
		return ""
	}

	if name, ok := p.typeNames[t]; ok {
		return name
	}

	name := simple
	if existing, ok := p.nameTypes[name]; ok && existing != t {
		name = pkgPrefix(t.PkgPath()) + simple
		if existing, ok := p.nameTypes[name]; ok && existing != t {
			base := name
			for i := 2; ; i++ {
				candidate := base + strconv.Itoa(i)
				if _, ok := p.nameTypes[candidate]; !ok {
					name = candidate
					break
				}
			}
		}
	}

	p.typeNames[t] = name
	p.nameTypes[name] = t
	return name
}

// pkgPrefix turns the last segment of a package path into a name prefix,
// "net/http" becomes "Http".
func pkgPrefix(pkgPath string) string {
	if idx := strings.LastIndexByte(pkgPath, '/'); idx >= 0 {
		pkgPath = pkgPath[idx+1:]
	}
	if pkgPath == "" {
		return ""
	}
	pkgPath = strings.ReplaceAll(pkgPath, "-", "_")
	pkgPath = strings.ReplaceAll(pkgPath, ".", "_")
	return strings.ToUpper(pkgPath[:1]) + pkgPath[1:]
}
