package routes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetManifest = `
info:
  title: Widgets
  version: 2.0.0
routePrefix: /api
defaults:
  paramRequired: true
controllers:
  - target: WidgetController
    route: /widgets
    openapi:
      - tags: [Inventory]
    actions:
      - method: getOne
        verb: GET
        route: /:id
        returns: Widget
        params:
          - in: param
            name: id
            type: string
          - in: query
            name: expand
            required: false
            type: boolean
        responses:
          - kind: success-code
            value: "202"
        openapi:
          - responses:
              404:
                description: not found
actions:
  - target: WidgetController
    method: list
    verb: get
    returns: Widget[]
    params:
      - in: queries
        index: 3
        type: WidgetFilter
additional:
  servers:
    - url: https://example.com
  x-meta:
    200: ok
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(widgetManifest))
	require.NoError(t, err)

	assert.Equal(t, "Widgets", m.Info.Title)
	assert.Equal(t, "2.0.0", m.Info.Version)
	assert.Equal(t, Options{RoutePrefix: "/api", DefaultParamRequired: true}, m.Options())

	t.Run("snapshot", func(t *testing.T) {
		snap, err := m.Snapshot()
		require.NoError(t, err)

		require.Len(t, snap.Controllers, 1)
		assert.Equal(t, ControllerJSON, snap.Controllers[0].Type)

		require.Len(t, snap.Actions, 2)
		assert.Equal(t, Action{Target: "WidgetController", Method: "getOne", Verb: "get", Route: "/:id"}, snap.Actions[0])
		assert.Equal(t, "list", snap.Actions[1].Method)

		params := snap.ParamsFor("WidgetController", "getOne")
		require.Len(t, params, 2)
		assert.Equal(t, 1, params[1].Index)
		require.NotNil(t, params[1].Required)
		assert.False(t, *params[1].Required)
		assert.Nil(t, params[0].Required)

		list := snap.ParamsFor("WidgetController", "list")
		require.Len(t, list, 1)
		assert.Equal(t, 3, list[0].Index)

		assert.Equal(t, Named("Widget"), snap.Types.ReturnType("WidgetController", "getOne"))
		assert.Equal(t, ArrayOf(Named("Widget")), snap.Types.ReturnType("WidgetController", "list"))
		assert.Equal(t, Boolean(), snap.Types.ParamType("WidgetController", "getOne", 1))
		assert.Equal(t, Named("WidgetFilter"), snap.Types.ParamType("WidgetController", "list", 3))

		handlers := snap.ResponseHandlersFor("WidgetController", "getOne")
		require.Len(t, handlers, 1)
		assert.Equal(t, "202", handlers[0].Value)
	})

	t.Run("overlays", func(t *testing.T) {
		snap, err := m.Snapshot()
		require.NoError(t, err)

		overlays := snap.Overlays.For("WidgetController", "getOne")
		require.Len(t, overlays, 2)
		assert.Equal(t, map[string]any{"tags": []any{"Inventory"}}, overlays[0].Patch)

		patch, ok := overlays[1].Patch.(map[string]any)
		require.True(t, ok)
		responses, ok := patch["responses"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, responses, "404")

		assert.Len(t, snap.Overlays.For("WidgetController", "list"), 1)
	})

	t.Run("additional", func(t *testing.T) {
		extra := m.AdditionalFields()
		require.NotNil(t, extra)
		assert.Equal(t, map[string]any{"200": "ok"}, extra["x-meta"])
		assert.Len(t, extra["servers"], 1)
	})
}

func TestManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"controller target", "controllers:\n  - route: /x\n", "controllers[0]: target is required"},
		{"action method", "controllers:\n  - target: C\n    actions:\n      - verb: get\n", "controllers[0].actions[0]: method is required"},
		{"action verb", "actions:\n  - target: C\n    method: m\n", "actions[0]: verb is required"},
		{"loose action target", "actions:\n  - method: m\n    verb: get\n", "actions[0]: target is required"},
		{"param location", "actions:\n  - target: C\n    method: m\n    verb: get\n    params:\n      - name: x\n", "actions[0].params[0]: in is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.input))
			require.NoError(t, err)

			_, err = m.Snapshot()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrManifest)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	t.Run("decode", func(t *testing.T) {
		_, err := ParseManifest([]byte("controllers: {"))
		assert.ErrorIs(t, err, ErrManifest)
	})
}

func TestLoadManifest(t *testing.T) {
	t.Run("json file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "routes.json")
		data := `{"controllers":[{"target":"C","route":"/c","actions":[{"method":"m","verb":"post"}]}]}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		m, err := LoadManifest(path)
		require.NoError(t, err)
		snap, err := m.Snapshot()
		require.NoError(t, err)
		require.Len(t, snap.Actions, 1)
		assert.Equal(t, "post", snap.Actions[0].Verb)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrManifest)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("decode error carries path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("controllers: {"), 0o600))

		_, err := LoadManifest(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}
