package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/routedoc/openapi"
	"github.com/vitalvas/routedoc/routes"
	"github.com/vitalvas/routedoc/typeschema"
)

func registryNames(registry map[string]*openapi.Schema) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestBuildSchemas(t *testing.T) {
	t.Run("collects params, returns and nested types", func(t *testing.T) {
		registry, err := BuildSchemas(widgetProvider(), widgetSnapshot(), NewResolver("", zerolog.Nop()))
		require.NoError(t, err)

		assert.Equal(t, []string{"Owner", "Widget", "WidgetInput", "WidgetQuery"}, registryNames(registry))

		widget := registry["Widget"]
		assert.Nil(t, widget.Definitions)
		assert.Equal(t, "#/components/schemas/Owner", widget.Properties["owner"].Ref)
		assert.Equal(t, []string{"id", "name"}, widget.Required)
	})

	t.Run("custom prefix rewrites nested refs", func(t *testing.T) {
		registry, err := BuildSchemas(widgetProvider(), widgetSnapshot(), NewResolver("#/x/", zerolog.Nop()))
		require.NoError(t, err)
		assert.Equal(t, "#/x/Owner", registry["Widget"].Properties["owner"].Ref)
	})

	t.Run("tuple and passthrough keywords survive", func(t *testing.T) {
		var pair openapi.Schema
		require.NoError(t, json.Unmarshal([]byte(`{
			"type": "array",
			"items": [{"type": "string"}, {"$ref": "#/definitions/Owner"}],
			"additionalItems": false,
			"x-order": [{"$ref": "#/definitions/Owner"}]
		}`), &pair))

		provider := widgetProvider()
		provider.Add("Widget", &pair)

		registry, err := BuildSchemas(provider, widgetSnapshot(), NewResolver("", zerolog.Nop()))
		require.NoError(t, err)

		widget := registry["Widget"]
		require.Len(t, widget.TupleItems, 2)
		assert.Equal(t, "#/components/schemas/Owner", widget.TupleItems[1].Ref)
		assert.Equal(t, false, widget.Extra["additionalItems"])
		order := widget.Extra["x-order"].([]any)
		assert.Equal(t, "#/components/schemas/Owner", order[0].(map[string]any)["$ref"])
		assert.Contains(t, registry, "Owner")
	})

	t.Run("nil provider yields empty registry", func(t *testing.T) {
		var buf bytes.Buffer
		registry, err := BuildSchemas(nil, widgetSnapshot(), NewResolver("", zerolog.New(&buf)))
		require.NoError(t, err)
		assert.NotNil(t, registry)
		assert.Empty(t, registry)
		assert.Contains(t, buf.String(), `"level":"info"`)
	})

	t.Run("unknown symbol is fatal", func(t *testing.T) {
		snap := widgetSnapshot()
		snap.Types.SetReturnType(widgetController, "getOne", routes.Named("Ghost"))

		_, err := BuildSchemas(widgetProvider(), snap, NewResolver("", zerolog.Nop()))
		require.Error(t, err)

		var symErr *SymbolError
		require.True(t, errors.As(err, &symErr))
		assert.Equal(t, "Ghost", symErr.Name)
		assert.ErrorIs(t, err, ErrUnknownSymbol)
		assert.ErrorIs(t, err, typeschema.ErrSymbolNotFound)
	})

	t.Run("undocumented locations are ignored", func(t *testing.T) {
		snap := widgetSnapshot()
		snap.AddParam(routes.Param{Target: widgetController, Method: "getOne", In: routes.InSession, Index: 1})
		snap.Types.SetParamType(widgetController, "getOne", 1, routes.Named("Session"))

		registry, err := BuildSchemas(widgetProvider(), snap, NewResolver("", zerolog.Nop()))
		require.NoError(t, err)
		assert.NotContains(t, registry, "Session")
	})

	t.Run("explicit type is collected", func(t *testing.T) {
		snap := routes.NewSnapshot()
		snap.AddController(routes.Controller{Target: widgetController, Route: "/widgets"})
		snap.AddAction(routes.Action{Target: widgetController, Method: "search", Verb: "get", Route: "/"})
		snap.AddParam(routes.Param{Target: widgetController, Method: "search", In: routes.InQueries, ExplicitType: "WidgetQuery"})
		snap.Types.SetParamTypes(widgetController, "search", routes.UntypedObject())

		registry, err := BuildSchemas(widgetProvider(), snap, NewResolver("", zerolog.Nop()))
		require.NoError(t, err)
		assert.Equal(t, []string{"WidgetQuery"}, registryNames(registry))
	})

	t.Run("cycles terminate", func(t *testing.T) {
		provider := typeschema.NewMapProvider(map[string]*openapi.Schema{
			"Node": objectSchema(nil, map[string]*openapi.Schema{
				"next": openapi.NewRef(openapi.DefinitionsPrefix + "Node"),
				"children": {
					Type:  openapi.TypeString("array"),
					Items: openapi.NewRef(openapi.DefinitionsPrefix + "Edge"),
				},
			}),
			"Edge": objectSchema(nil, map[string]*openapi.Schema{
				"to": openapi.NewRef(openapi.DefinitionsPrefix + "Node"),
			}),
		})

		snap := routes.NewSnapshot()
		snap.AddController(routes.Controller{Target: "GraphController", Route: "/graph"})
		snap.AddAction(routes.Action{Target: "GraphController", Method: "root", Verb: "get", Route: "/"})
		snap.Types.SetReturnType("GraphController", "root", routes.Named("Node"))

		registry, err := BuildSchemas(provider, snap, NewResolver("", zerolog.Nop()))
		require.NoError(t, err)
		assert.Equal(t, []string{"Edge", "Node"}, registryNames(registry))
		assert.Equal(t, "#/components/schemas/Node", registry["Node"].Properties["next"].Ref)
		assert.Equal(t, "#/components/schemas/Node", registry["Edge"].Properties["to"].Ref)
	})

	t.Run("idempotent", func(t *testing.T) {
		r := NewResolver("", zerolog.Nop())
		first, err := BuildSchemas(widgetProvider(), widgetSnapshot(), r)
		require.NoError(t, err)
		second, err := BuildSchemas(widgetProvider(), widgetSnapshot(), r)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("resolution diagnostics are not repeated", func(t *testing.T) {
		var buf bytes.Buffer
		snap := widgetSnapshot()
		snap.Types.SetReturnType(widgetController, "create", routes.UntypedObject())

		_, err := BuildSchemas(widgetProvider(), snap, NewResolver("", zerolog.New(&buf).Level(zerolog.WarnLevel)))
		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}
