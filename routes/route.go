package routes

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMissingController is returned when an action's target has no
// registered controller.
var ErrMissingController = errors.New("routes: missing controller for action")

// Options are the framework-wide settings shared by every route.
type Options struct {
	// RoutePrefix is prepended to every controller route.
	RoutePrefix string
	// DefaultParamRequired makes parameters required unless they say otherwise.
	DefaultParamRequired bool
}

// Route is the assembled, read-only view of one action.
type Route struct {
	Action           Action
	Controller       *Controller
	Options          Options
	Params           []Param
	ResponseHandlers []ResponseHandler
	Types            *TypeTable
}

// Assemble builds one Route per action in snapshot order. Parameters are
// ordered by Index, ties keep discovery order.
func Assemble(snap *Snapshot, opts Options) []Route {
	out := make([]Route, 0, len(snap.Actions))
	for _, action := range snap.Actions {
		params := snap.ParamsFor(action.Target, action.Method)
		sort.SliceStable(params, func(i, j int) bool {
			return params[i].Index < params[j].Index
		})

		out = append(out, Route{
			Action:           action,
			Controller:       snap.Controller(action.Target),
			Options:          opts,
			Params:           params,
			ResponseHandlers: snap.ResponseHandlersFor(action.Target, action.Method),
			Types:            snap.Types,
		})
	}
	return out
}

// ID returns "<target>.<method>".
func (r *Route) ID() string {
	return r.Action.Target + "." + r.Action.Method
}

// FullPath joins the route prefix, the controller route and the action route.
func (r *Route) FullPath() (string, error) {
	if r.Controller == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingController, r.ID())
	}
	return r.Options.RoutePrefix + r.Controller.Route + r.Action.Route, nil
}

// ParamType returns the declared type of p.
func (r *Route) ParamType(p Param) TypeRef {
	return r.Types.ParamType(p.Target, p.Method, p.Index)
}

// ReturnType returns the declared return type of the action.
func (r *Route) ReturnType() TypeRef {
	return r.Types.ReturnType(r.Action.Target, r.Action.Method)
}

// ParamsIn returns the parameters captured at in, in index order.
func (r *Route) ParamsIn(in ParamIn) []Param {
	var out []Param
	for _, p := range r.Params {
		if p.In == in {
			out = append(out, p)
		}
	}
	return out
}

// Param returns the first parameter captured at in, if any.
func (r *Route) Param(in ParamIn) (Param, bool) {
	for _, p := range r.Params {
		if p.In == in {
			return p, true
		}
	}
	return Param{}, false
}

// ResponseHandler returns the value of the first annotation of kind.
func (r *Route) ResponseHandler(kind ResponseHandlerKind) (string, bool) {
	for _, h := range r.ResponseHandlers {
		if h.Kind == kind {
			return h.Value, true
		}
	}
	return "", false
}
