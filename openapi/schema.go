package openapi

import (
	"maps"
	"slices"
	"strings"
)

// DefinitionsPrefix is the pointer prefix used by JSON Schema generators
// for nested definitions.
const DefinitionsPrefix = "#/definitions/"

// ComponentsPrefix is the default pointer prefix for registry entries.
const ComponentsPrefix = "#/components/schemas/"

// NewRef returns a reference schema pointing at pointer.
func NewRef(pointer string) *Schema {
	return &Schema{Ref: pointer}
}

// NewType returns a schema with a single type name.
func NewType(name string) *Schema {
	return &Schema{Type: TypeString(name)}
}

// RefName returns the last path segment of a reference pointer.
func RefName(pointer string) string {
	if i := strings.LastIndexByte(pointer, '/'); i >= 0 {
		return pointer[i+1:]
	}
	return pointer
}

// RefTarget returns the name referenced by s itself or, for arrays, by its
// items. It returns "" when neither is a reference.
func (s *Schema) RefTarget() string {
	if s == nil {
		return ""
	}
	if s.Ref != "" {
		return RefName(s.Ref)
	}
	if s.Items != nil && s.Items.Ref != "" {
		return RefName(s.Items.Ref)
	}
	return ""
}

// Clone returns a deep copy of s. Values held in any-typed keywords are
// copied when they are JSON maps or arrays and shared otherwise.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}

	out := *s
	out.Type = SchemaType{value: slices.Clone(s.Type.value)}
	out.Definitions = cloneSchemaMap(s.Definitions)
	out.Default = cloneValue(s.Default)
	out.Example = cloneValue(s.Example)
	out.Examples = cloneValues(s.Examples)
	out.ExclusiveMinimum = cloneValue(s.ExclusiveMinimum)
	out.ExclusiveMaximum = cloneValue(s.ExclusiveMaximum)
	out.MultipleOf = clonePtr(s.MultipleOf)
	out.Minimum = clonePtr(s.Minimum)
	out.Maximum = clonePtr(s.Maximum)
	out.MinLength = clonePtr(s.MinLength)
	out.MaxLength = clonePtr(s.MaxLength)
	out.Items = s.Items.Clone()
	out.TupleItems = cloneSchemas(s.TupleItems)
	out.PrefixItems = cloneSchemas(s.PrefixItems)
	out.MinItems = clonePtr(s.MinItems)
	out.MaxItems = clonePtr(s.MaxItems)
	out.Properties = cloneSchemaMap(s.Properties)
	out.PatternProperties = cloneSchemaMap(s.PatternProperties)
	if s.AdditionalProperties != nil {
		out.AdditionalProperties = &AdditionalProperties{
			Allowed: clonePtr(s.AdditionalProperties.Allowed),
			Schema:  s.AdditionalProperties.Schema.Clone(),
		}
	}
	out.Required = slices.Clone(s.Required)
	out.MinProperties = clonePtr(s.MinProperties)
	out.MaxProperties = clonePtr(s.MaxProperties)
	out.Enum = cloneValues(s.Enum)
	out.Const = cloneValue(s.Const)
	out.AllOf = cloneSchemas(s.AllOf)
	out.OneOf = cloneSchemas(s.OneOf)
	out.AnyOf = cloneSchemas(s.AnyOf)
	out.Not = s.Not.Clone()
	if s.Discriminator != nil {
		out.Discriminator = &Discriminator{
			PropertyName: s.Discriminator.PropertyName,
			Mapping:      maps.Clone(s.Discriminator.Mapping),
		}
	}
	out.ExternalDocs = clonePtr(s.ExternalDocs)
	if s.Extra != nil {
		out.Extra = cloneValue(s.Extra).(map[string]any)
	}
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSchemas(in []*Schema) []*Schema {
	if in == nil {
		return nil
	}
	out := make([]*Schema, len(in))
	for i, sub := range in {
		out[i] = sub.Clone()
	}
	return out
}

func cloneSchemaMap(in map[string]*Schema) map[string]*Schema {
	if in == nil {
		return nil
	}
	out := make(map[string]*Schema, len(in))
	for name, sub := range in {
		out[name] = sub.Clone()
	}
	return out
}

func cloneValues(in []any) []any {
	if in == nil {
		return nil
	}
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, sub := range v {
			out[key] = cloneValue(sub)
		}
		return out
	case []any:
		return cloneValues(v)
	default:
		return v
	}
}

// Walk calls fn for s and every schema nested under it, depth first.
// Returning false from fn stops descent into that schema's children.
// Keywords kept in Extra are not schemas and are not visited.
func (s *Schema) Walk(fn func(*Schema) bool) {
	if s == nil || !fn(s) {
		return
	}

	s.Items.Walk(fn)
	s.Not.Walk(fn)
	if s.AdditionalProperties != nil {
		s.AdditionalProperties.Schema.Walk(fn)
	}
	for _, list := range [][]*Schema{s.TupleItems, s.PrefixItems, s.AllOf, s.OneOf, s.AnyOf} {
		for _, sub := range list {
			sub.Walk(fn)
		}
	}
	for _, sub := range s.Properties {
		sub.Walk(fn)
	}
	for _, sub := range s.PatternProperties {
		sub.Walk(fn)
	}
	for _, sub := range s.Definitions {
		sub.Walk(fn)
	}
}

// walkPointers calls fn with every $ref under s, including refs inside
// passthrough keywords, and stores the pointer fn returns.
func (s *Schema) walkPointers(fn func(string) string) {
	s.Walk(func(sub *Schema) bool {
		if sub.Ref != "" {
			sub.Ref = fn(sub.Ref)
		}
		for _, key := range slices.Sorted(maps.Keys(sub.Extra)) {
			valuePointers(sub.Extra[key], fn)
		}
		return true
	})
}

func valuePointers(v any, fn func(string) string) {
	switch v := v.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			v["$ref"] = fn(ref)
		}
		for _, key := range slices.Sorted(maps.Keys(v)) {
			if key != "$ref" {
				valuePointers(v[key], fn)
			}
		}
	case []any:
		for _, sub := range v {
			valuePointers(sub, fn)
		}
	}
}

// RewriteRefs replaces the from prefix with to in every $ref under s, in place.
func (s *Schema) RewriteRefs(from, to string) {
	if from == to {
		return
	}
	s.walkPointers(func(ref string) string {
		if strings.HasPrefix(ref, from) {
			return to + strings.TrimPrefix(ref, from)
		}
		return ref
	})
}

// Pointers returns every $ref pointer under s, in walk order, without
// duplicates.
func (s *Schema) Pointers() []string {
	var pointers []string
	seen := make(map[string]struct{})
	s.walkPointers(func(ref string) string {
		if _, ok := seen[ref]; !ok {
			seen[ref] = struct{}{}
			pointers = append(pointers, ref)
		}
		return ref
	})
	return pointers
}

// Refs returns the names referenced anywhere under s, in walk order,
// without duplicates.
func (s *Schema) Refs() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, pointer := range s.Pointers() {
		name := RefName(pointer)
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// IsRequired reports whether the property name is listed as required.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
