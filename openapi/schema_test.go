package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"#/components/schemas/Widget", "Widget"},
		{"#/definitions/Gadget", "Gadget"},
		{"Plain", "Plain"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, RefName(tt.input))
		})
	}
}

func TestSchemaRefTarget(t *testing.T) {
	t.Run("direct reference", func(t *testing.T) {
		assert.Equal(t, "Widget", NewRef(ComponentsPrefix+"Widget").RefTarget())
	})

	t.Run("array items", func(t *testing.T) {
		s := &Schema{Type: TypeString("array"), Items: NewRef(ComponentsPrefix + "Widget")}
		assert.Equal(t, "Widget", s.RefTarget())
	})

	t.Run("no reference", func(t *testing.T) {
		assert.Empty(t, NewType("string").RefTarget())
		assert.Empty(t, (*Schema)(nil).RefTarget())
	})
}

func TestSchemaRewriteRefs(t *testing.T) {
	s := &Schema{
		Type: TypeString("object"),
		Properties: map[string]*Schema{
			"owner": NewRef(DefinitionsPrefix + "User"),
			"tags": {
				Type:  TypeString("array"),
				Items: NewRef(DefinitionsPrefix + "Tag"),
			},
			"meta": {
				Type:                 TypeString("object"),
				AdditionalProperties: &AdditionalProperties{Schema: NewRef(DefinitionsPrefix + "Meta")},
			},
			"either": {
				AnyOf: []*Schema{NewRef(DefinitionsPrefix + "A"), NewRef("#/other/B")},
			},
		},
	}

	s.RewriteRefs(DefinitionsPrefix, ComponentsPrefix)

	assert.Equal(t, ComponentsPrefix+"User", s.Properties["owner"].Ref)
	assert.Equal(t, ComponentsPrefix+"Tag", s.Properties["tags"].Items.Ref)
	assert.Equal(t, ComponentsPrefix+"Meta", s.Properties["meta"].AdditionalProperties.Schema.Ref)
	assert.Equal(t, ComponentsPrefix+"A", s.Properties["either"].AnyOf[0].Ref)
	assert.Equal(t, "#/other/B", s.Properties["either"].AnyOf[1].Ref)
}

func TestSchemaRefs(t *testing.T) {
	s := &Schema{
		AllOf: []*Schema{
			NewRef(DefinitionsPrefix + "A"),
			{Items: NewRef(DefinitionsPrefix + "B")},
			NewRef(DefinitionsPrefix + "A"),
		},
	}
	assert.Equal(t, []string{"A", "B"}, s.Refs())
}

func TestSchemaClone(t *testing.T) {
	orig := &Schema{
		Type:       TypeString("object"),
		Required:   []string{"id"},
		Properties: map[string]*Schema{"id": NewType("string")},
	}

	clone := orig.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, orig, clone)

	clone.Properties["id"].Description = "changed"
	clone.Required[0] = "other"
	assert.Empty(t, orig.Properties["id"].Description)
	assert.Equal(t, []string{"id"}, orig.Required)

	assert.Nil(t, (*Schema)(nil).Clone())
}

func TestSchemaIsRequired(t *testing.T) {
	s := &Schema{Required: []string{"a", "b"}}
	assert.True(t, s.IsRequired("b"))
	assert.False(t, s.IsRequired("c"))
	assert.False(t, (*Schema)(nil).IsRequired("a"))
}

func TestSchemaPassthroughKeywords(t *testing.T) {
	t.Run("tuple items", func(t *testing.T) {
		input := `{"type":"array","items":[{"type":"string"},{"$ref":"#/definitions/Kind"}],"minItems":2,"additionalItems":false}`

		var s Schema
		require.NoError(t, json.Unmarshal([]byte(input), &s))
		assert.Nil(t, s.Items)
		require.Len(t, s.TupleItems, 2)
		assert.True(t, s.TupleItems[0].Type.Is("string"))
		assert.Equal(t, "#/definitions/Kind", s.TupleItems[1].Ref)
		assert.Equal(t, map[string]any{"additionalItems": false}, s.Extra)
		assert.Equal(t, []string{"Kind"}, s.Refs())

		out, err := json.Marshal(s)
		require.NoError(t, err)
		assert.JSONEq(t, input, string(out))
	})

	t.Run("single items schema", func(t *testing.T) {
		var s Schema
		require.NoError(t, json.Unmarshal([]byte(`{"type":"array","items":{"type":"number"}}`), &s))
		require.NotNil(t, s.Items)
		assert.True(t, s.Items.Type.Is("number"))
		assert.Nil(t, s.TupleItems)
		assert.Nil(t, s.Extra)
	})

	t.Run("known and unknown keywords", func(t *testing.T) {
		input := `{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"type": "object",
			"propertyOrder": ["kind", "labels"],
			"properties": {
				"kind": {"type": "string", "const": "widget", "examples": ["widget"]},
				"labels": {"type": "object", "patternProperties": {"^x-": {"type": "string"}}}
			}
		}`

		var s Schema
		require.NoError(t, json.Unmarshal([]byte(input), &s))
		assert.Equal(t, "widget", s.Properties["kind"].Const)
		assert.Equal(t, []any{"widget"}, s.Properties["kind"].Examples)
		assert.Contains(t, s.Properties["labels"].PatternProperties, "^x-")
		assert.Equal(t, "http://json-schema.org/draft-07/schema#", s.Extra["$schema"])
		assert.Equal(t, []any{"kind", "labels"}, s.Extra["propertyOrder"])

		out, err := json.Marshal(s)
		require.NoError(t, err)
		assert.JSONEq(t, input, string(out))
	})

	t.Run("malformed items", func(t *testing.T) {
		var s Schema
		assert.Error(t, json.Unmarshal([]byte(`{"items":[1]}`), &s))
	})
}

func TestSchemaExtraRefs(t *testing.T) {
	s := &Schema{
		Type: TypeString("object"),
		Extra: map[string]any{
			"dependencies": map[string]any{
				"owner": map[string]any{"$ref": DefinitionsPrefix + "User"},
			},
			"additionalItems": []any{map[string]any{"$ref": DefinitionsPrefix + "Tag"}},
		},
	}

	assert.ElementsMatch(t, []string{DefinitionsPrefix + "User", DefinitionsPrefix + "Tag"}, s.Pointers())
	assert.ElementsMatch(t, []string{"User", "Tag"}, s.Refs())

	s.RewriteRefs(DefinitionsPrefix, ComponentsPrefix)
	deps := s.Extra["dependencies"].(map[string]any)
	assert.Equal(t, ComponentsPrefix+"User", deps["owner"].(map[string]any)["$ref"])
	items := s.Extra["additionalItems"].([]any)
	assert.Equal(t, ComponentsPrefix+"Tag", items[0].(map[string]any)["$ref"])
}

func TestSchemaCloneDeep(t *testing.T) {
	orig := &Schema{
		Type:       TypeString("array"),
		TupleItems: []*Schema{NewType("string")},
		Const:      map[string]any{"a": []any{1.0}},
		Minimum:    new(float64),
		AdditionalProperties: &AdditionalProperties{
			Schema: NewRef(DefinitionsPrefix + "Meta"),
		},
		Extra: map[string]any{"propertyOrder": []any{"a"}},
	}

	clone := orig.Clone()
	assert.Equal(t, orig, clone)

	clone.TupleItems[0].Description = "changed"
	clone.Const.(map[string]any)["a"].([]any)[0] = 2.0
	*clone.Minimum = 5
	clone.AdditionalProperties.Schema.Ref = "changed"
	clone.Extra["propertyOrder"].([]any)[0] = "b"
	clone.Type.value[0] = "object"

	assert.Empty(t, orig.TupleItems[0].Description)
	assert.Equal(t, 1.0, orig.Const.(map[string]any)["a"].([]any)[0])
	assert.Zero(t, *orig.Minimum)
	assert.Equal(t, DefinitionsPrefix+"Meta", orig.AdditionalProperties.Schema.Ref)
	assert.Equal(t, "a", orig.Extra["propertyOrder"].([]any)[0])
	assert.True(t, orig.Type.Is("array"))
}
