package typeschema

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vitalvas/routedoc/openapi"
)

// NewGoSourceProvider parses the Go files matched by pattern and turns
// their type declarations into definitions. Struct fields follow the
// encoding/json rules used by ReflectProvider, doc comments become
// descriptions, and types from other packages become empty schemas except
// for the time package.
func NewGoSourceProvider(pattern string, opts ...Option) (*MapProvider, error) {
	o := newOptions(opts)

	files, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("typeschema: glob %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSources, pattern)
	}
	sort.Strings(files)

	fset := token.NewFileSet()
	specs := make(map[string]*typeDecl)
	var order []string

	for _, path := range files {
		if !strings.HasSuffix(path, ".go") {
			continue
		}
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("typeschema: parse %s: %w", path, err)
		}

		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if ts.TypeParams != nil {
					o.logger.Debug().Str("type", ts.Name.Name).Str("file", path).Msg("skipping generic type")
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				if _, dup := specs[ts.Name.Name]; !dup {
					order = append(order, ts.Name.Name)
				}
				specs[ts.Name.Name] = &typeDecl{spec: ts, doc: doc}
			}
		}
		o.logger.Debug().Str("file", path).Msg("parsed type declarations")
	}

	conv := &astConverter{decls: specs}
	provider := NewMapProvider(nil, opts...)
	for _, name := range order {
		decl := specs[name]
		schema := conv.typeExpr(decl.spec.Type)
		if schema.Ref != "" {
			schema = &openapi.Schema{AllOf: []*openapi.Schema{schema}}
		}
		if text := commentText(decl.doc); text != "" {
			schema.Description = text
		}
		provider.Add(name, schema)
	}

	o.logger.Debug().Int("files", len(files)).Int("types", provider.Len()).Msg("loaded go source definitions")
	return provider, nil
}

type typeDecl struct {
	spec *ast.TypeSpec
	doc  *ast.CommentGroup
}

type astConverter struct {
	decls map[string]*typeDecl
}

func (c *astConverter) typeExpr(expr ast.Expr) *openapi.Schema {
	switch t := expr.(type) {
	case *ast.Ident:
		return c.ident(t.Name)

	case *ast.StarExpr:
		return c.typeExpr(t.X)

	case *ast.ParenExpr:
		return c.typeExpr(t.X)

	case *ast.ArrayType:
		if ident, ok := t.Elt.(*ast.Ident); ok && ident.Name == "byte" && t.Len == nil {
			return &openapi.Schema{Type: openapi.TypeString("string"), Format: "byte"}
		}
		return &openapi.Schema{Type: openapi.TypeString("array"), Items: c.typeExpr(t.Elt)}

	case *ast.MapType:
		schema := openapi.NewType("object")
		if key, ok := t.Key.(*ast.Ident); ok && key.Name == "string" {
			schema.AdditionalProperties = &openapi.AdditionalProperties{Schema: c.typeExpr(t.Value)}
		}
		return schema

	case *ast.StructType:
		return c.structType(t)

	case *ast.SelectorExpr:
		return selectorType(t)

	default:
		return &openapi.Schema{}
	}
}

func (c *astConverter) ident(name string) *openapi.Schema {
	switch name {
	case "string":
		return openapi.NewType("string")
	case "bool":
		return openapi.NewType("boolean")
	case "int8", "int16", "int32", "uint8", "uint16", "uint32", "byte", "rune":
		return &openapi.Schema{Type: openapi.TypeString("integer"), Format: "int32"}
	case "int", "int64", "uint", "uint64", "uintptr":
		return &openapi.Schema{Type: openapi.TypeString("integer"), Format: "int64"}
	case "float32":
		return &openapi.Schema{Type: openapi.TypeString("number"), Format: "float"}
	case "float64":
		return &openapi.Schema{Type: openapi.TypeString("number"), Format: "double"}
	case "error":
		return openapi.NewType("string")
	case "any":
		return &openapi.Schema{}
	}

	if _, ok := c.decls[name]; ok {
		return openapi.NewRef(openapi.DefinitionsPrefix + name)
	}
	return &openapi.Schema{}
}

func selectorType(t *ast.SelectorExpr) *openapi.Schema {
	pkg, ok := t.X.(*ast.Ident)
	if !ok {
		return &openapi.Schema{}
	}

	switch pkg.Name + "." + t.Sel.Name {
	case "time.Time":
		return &openapi.Schema{Type: openapi.TypeString("string"), Format: "date-time"}
	case "time.Duration":
		return &openapi.Schema{Type: openapi.TypeString("integer"), Format: "int64"}
	case "uuid.UUID":
		return &openapi.Schema{Type: openapi.TypeString("string"), Format: "uuid"}
	default:
		return &openapi.Schema{}
	}
}

func (c *astConverter) structType(st *ast.StructType) *openapi.Schema {
	schema := &openapi.Schema{
		Type:       openapi.TypeString("object"),
		Properties: make(map[string]*openapi.Schema),
	}

	c.collectFields(st, schema, false, make(map[string]bool))

	if len(schema.Properties) == 0 {
		schema.Properties = nil
	}
	return schema
}

// collectFields mirrors ReflectProvider.collectFields on syntax. seen
// guards against embedding cycles.
func (c *astConverter) collectFields(st *ast.StructType, schema *openapi.Schema, allOptional bool, seen map[string]bool) {
	for _, field := range st.Fields.List {
		tag := fieldTag(field)
		jsonTag := tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		jsonName, opts := parseJSONTag(jsonTag)

		if len(field.Names) == 0 {
			if jsonName == "" {
				if embedded, isPtr := c.embeddedStruct(field.Type); embedded != "" {
					if !seen[embedded] {
						seen[embedded] = true
						inner := c.decls[embedded].spec.Type.(*ast.StructType)
						c.collectFields(inner, schema, allOptional || isPtr, seen)
					}
					continue
				}
			}
			name := embeddedName(field.Type)
			if name == "" || !ast.IsExported(name) {
				continue
			}
			c.addField(schema, field, name, jsonName, opts, tag, allOptional)
			continue
		}

		for _, ident := range field.Names {
			if !ident.IsExported() {
				continue
			}
			c.addField(schema, field, ident.Name, jsonName, opts, tag, allOptional)
		}
	}
}

func (c *astConverter) addField(schema *openapi.Schema, field *ast.Field, goName, jsonName string, opts jsonTagOpts, tag reflect.StructTag, allOptional bool) {
	name := jsonName
	if name == "" {
		name = goName
	}

	fieldSchema := c.typeExpr(field.Type)
	openapiTag := tag.Get("openapi")
	text := commentText(field.Doc)
	if text == "" {
		text = commentText(field.Comment)
	}

	if fieldSchema.Ref != "" && (openapiTag != "" || text != "") {
		fieldSchema = &openapi.Schema{AllOf: []*openapi.Schema{fieldSchema}}
	}
	if text != "" {
		fieldSchema.Description = text
	}
	applyOpenAPITag(fieldSchema, openapiTag)
	if opts.stringEncode {
		applyStringEncoding(fieldSchema)
	}

	schema.Properties[name] = fieldSchema

	_, isPtr := field.Type.(*ast.StarExpr)
	if !opts.omitempty && !allOptional && !isPtr {
		schema.Required = append(schema.Required, name)
	}
}

// embeddedStruct returns the local struct type embedded by expr.
func (c *astConverter) embeddedStruct(expr ast.Expr) (string, bool) {
	isPtr := false
	if star, ok := expr.(*ast.StarExpr); ok {
		isPtr = true
		expr = star.X
	}
	ident, ok := expr.(*ast.Ident)
	if !ok {
		return "", false
	}
	decl, ok := c.decls[ident.Name]
	if !ok {
		return "", false
	}
	if _, ok := decl.spec.Type.(*ast.StructType); !ok {
		return "", false
	}
	return ident.Name, isPtr
}

func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	default:
		return ""
	}
}

func fieldTag(field *ast.Field) reflect.StructTag {
	if field.Tag == nil {
		return ""
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return ""
	}
	return reflect.StructTag(raw)
}

func commentText(group *ast.CommentGroup) string {
	if group == nil {
		return ""
	}
	return strings.TrimSpace(group.Text())
}
