package generator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitalvas/routedoc/openapi"
	"github.com/vitalvas/routedoc/routes"
	"github.com/vitalvas/routedoc/typeschema"
)

const widgetController = "WidgetController"

// widgetSnapshot declares a JSON controller mounted at /widgets:
//
//	getAll  GET  /       WidgetQuery aggregate query, limit query   -> Widget[]
//	getOne  GET  /:id    id path                                    -> Widget
//	create  POST /       WidgetInput body, success code 201         -> Widget
func widgetSnapshot() *routes.Snapshot {
	snap := routes.NewSnapshot()
	snap.AddController(routes.Controller{Target: widgetController, Route: "/widgets", Type: routes.ControllerJSON})

	snap.AddAction(routes.Action{Target: widgetController, Method: "getAll", Verb: "get", Route: "/"})
	snap.AddParam(routes.Param{Target: widgetController, Method: "getAll", In: routes.InQueries, Index: 0})
	snap.AddParam(routes.Param{Target: widgetController, Method: "getAll", In: routes.InQuery, Name: "limit", Index: 1})
	snap.Types.SetParamTypes(widgetController, "getAll", routes.Named("WidgetQuery"), routes.Number())
	snap.Types.SetReturnType(widgetController, "getAll", routes.ArrayOf(routes.Named("Widget")))

	snap.AddAction(routes.Action{Target: widgetController, Method: "getOne", Verb: "get", Route: "/:id"})
	snap.AddParam(routes.Param{Target: widgetController, Method: "getOne", In: routes.InPath, Name: "id", Index: 0, Description: "widget id"})
	snap.Types.SetParamTypes(widgetController, "getOne", routes.String())
	snap.Types.SetReturnType(widgetController, "getOne", routes.Named("Widget"))

	snap.AddAction(routes.Action{Target: widgetController, Method: "create", Verb: "post", Route: "/"})
	snap.AddParam(routes.Param{Target: widgetController, Method: "create", In: routes.InBody, Index: 0, Required: routes.Bool(true)})
	snap.AddResponseHandler(routes.ResponseHandler{Target: widgetController, Method: "create", Kind: routes.HandlerSuccessCode, Value: "201"})
	snap.Types.SetParamTypes(widgetController, "create", routes.Named("WidgetInput"))
	snap.Types.SetReturnType(widgetController, "create", routes.Named("Widget"))

	return snap
}

func objectSchema(required []string, props map[string]*openapi.Schema) *openapi.Schema {
	return &openapi.Schema{
		Type:       openapi.TypeString("object"),
		Properties: props,
		Required:   required,
	}
}

func widgetProvider() *typeschema.MapProvider {
	return typeschema.NewMapProvider(map[string]*openapi.Schema{
		"Widget": objectSchema([]string{"id", "name"}, map[string]*openapi.Schema{
			"id":    openapi.NewType("string"),
			"name":  openapi.NewType("string"),
			"owner": openapi.NewRef(openapi.DefinitionsPrefix + "Owner"),
		}),
		"Owner": objectSchema(nil, map[string]*openapi.Schema{
			"name": openapi.NewType("string"),
		}),
		"WidgetInput": objectSchema([]string{"name"}, map[string]*openapi.Schema{
			"name": openapi.NewType("string"),
		}),
		"WidgetQuery": objectSchema([]string{"tag"}, map[string]*openapi.Schema{
			"limit": {Type: openapi.TypeString("number"), Description: "page size"},
			"tag":   openapi.NewType("string"),
		}),
	})
}

// assembledRoute returns the assembled route of target.method.
func assembledRoute(t *testing.T, snap *routes.Snapshot, opts routes.Options, method string) *routes.Route {
	t.Helper()

	for _, route := range routes.Assemble(snap, opts) {
		if route.Action.Method == method {
			return &route
		}
	}
	require.Failf(t, "route not found", "method %s", method)
	return nil
}

func paramNames(params []*openapi.Parameter) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		out = append(out, p.In+":"+p.Name)
	}
	return out
}
