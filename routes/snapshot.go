// Package routes models the route registry of a decorator style web
// framework as a plain snapshot: controllers, actions, parameter
// declarations and response handler annotations, plus the declared
// parameter and return types and the operation overlays attached to
// controllers and methods.
//
// A Snapshot is built once, either in code or from a manifest file, and
// read by Assemble to produce one Route per action:
//
//	snap := routes.NewSnapshot()
//	snap.AddController(routes.Controller{Target: "WidgetController", Route: "/widgets", Type: routes.ControllerJSON})
//	snap.AddAction(routes.Action{Target: "WidgetController", Method: "getOne", Verb: "get", Route: "/:id"})
//	snap.AddParam(routes.Param{Target: "WidgetController", Method: "getOne", In: routes.InPath, Name: "id", Index: 0})
//	snap.Types.SetReturnType("WidgetController", "getOne", routes.Named("Widget"))
//
//	for _, route := range routes.Assemble(snap, routes.Options{}) {
//	    ...
//	}
package routes

// ParamIn is the capture location of a parameter declaration.
type ParamIn string

const (
	InQuery     ParamIn = "query"
	InQueries   ParamIn = "queries"
	InHeader    ParamIn = "header"
	InHeaders   ParamIn = "headers"
	InPath      ParamIn = "param"
	InBody      ParamIn = "body"
	InBodyField ParamIn = "body-param"

	// Locations recorded by the framework that carry no schema.
	InCookie     ParamIn = "cookie"
	InCookies    ParamIn = "cookies"
	InSession    ParamIn = "session"
	InState      ParamIn = "state"
	InRequest    ParamIn = "request"
	InResponse   ParamIn = "response"
	InContext    ParamIn = "context"
	InUploadFile ParamIn = "file"
	InUploadMany ParamIn = "files"
)

// Documented reports whether parameters at this location contribute to
// operations and to the schema registry.
func (in ParamIn) Documented() bool {
	switch in {
	case InQuery, InQueries, InHeader, InHeaders, InPath, InBody, InBodyField:
		return true
	default:
		return false
	}
}

// ControllerType is the response flavor of a controller.
type ControllerType string

const (
	ControllerJSON    ControllerType = "json"
	ControllerDefault ControllerType = "default"
)

// Controller groups actions under a base route.
type Controller struct {
	Target string
	Route  string
	Type   ControllerType
}

// Action is one HTTP handler method. Verb is the lower-case HTTP method.
type Action struct {
	Target string
	Method string
	Verb   string
	Route  string
}

// Param is one parameter declaration of an action. Required is nil when
// the declaration does not state it. ExplicitType names a type that
// replaces the inferred one.
type Param struct {
	Target       string
	Method       string
	In           ParamIn
	Name         string
	Index        int
	Required     *bool
	ExplicitType string
	Description  string
}

// IsRequired resolves Required against the global default.
func (p Param) IsRequired(defaultRequired bool) bool {
	if defaultRequired {
		return p.Required == nil || *p.Required
	}
	return p.Required != nil && *p.Required
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

// ResponseHandlerKind names a response handler annotation.
type ResponseHandlerKind string

const (
	HandlerSuccessCode      ResponseHandlerKind = "success-code"
	HandlerContentType      ResponseHandlerKind = "content-type"
	HandlerHeader           ResponseHandlerKind = "header"
	HandlerLocation         ResponseHandlerKind = "location"
	HandlerRedirect         ResponseHandlerKind = "redirect"
	HandlerRenderedTemplate ResponseHandlerKind = "rendered-template"
	HandlerOnNull           ResponseHandlerKind = "on-null"
	HandlerOnUndefined      ResponseHandlerKind = "on-undefined"
)

// ResponseHandler is a response annotation on an action.
type ResponseHandler struct {
	Target string
	Method string
	Kind   ResponseHandlerKind
	Value  string
}

// Snapshot is a read-only view of a route registry.
type Snapshot struct {
	Controllers      []Controller
	Actions          []Action
	Params           []Param
	ResponseHandlers []ResponseHandler
	Types            *TypeTable
	Overlays         *OverlayRegistry
}

// NewSnapshot returns an empty snapshot with its tables allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Types:    NewTypeTable(),
		Overlays: NewOverlayRegistry(),
	}
}

// AddController appends a controller.
func (s *Snapshot) AddController(c Controller) {
	s.Controllers = append(s.Controllers, c)
}

// AddAction appends an action.
func (s *Snapshot) AddAction(a Action) {
	s.Actions = append(s.Actions, a)
}

// AddParam appends a parameter declaration.
func (s *Snapshot) AddParam(p Param) {
	s.Params = append(s.Params, p)
}

// AddResponseHandler appends a response handler annotation.
func (s *Snapshot) AddResponseHandler(h ResponseHandler) {
	s.ResponseHandlers = append(s.ResponseHandlers, h)
}

// Controller returns the controller registered for target, or nil.
func (s *Snapshot) Controller(target string) *Controller {
	for i := range s.Controllers {
		if s.Controllers[i].Target == target {
			return &s.Controllers[i]
		}
	}
	return nil
}

// ParamsFor returns the declarations of target.method in discovery order.
func (s *Snapshot) ParamsFor(target, method string) []Param {
	var out []Param
	for _, p := range s.Params {
		if p.Target == target && p.Method == method {
			out = append(out, p)
		}
	}
	return out
}

// ResponseHandlersFor returns the annotations of target.method.
func (s *Snapshot) ResponseHandlersFor(target, method string) []ResponseHandler {
	var out []ResponseHandler
	for _, h := range s.ResponseHandlers {
		if h.Target == target && h.Method == method {
			out = append(out, h)
		}
	}
	return out
}
