package routes

import (
	"fmt"

	"github.com/vitalvas/routedoc/openapi"
)

// TransformFunc rewrites an operation with access to its route.
type TransformFunc func(op *openapi.Operation, route *Route) *openapi.Operation

// Overlay is either a static patch deep-merged into an operation or a
// transform function. Exactly one field is set.
type Overlay struct {
	Patch     any
	Transform TransformFunc
}

// Patch returns an overlay that deep-merges p into the operation. p may
// be an *openapi.Operation, a map or raw JSON.
func Patch(p any) Overlay {
	return Overlay{Patch: p}
}

// Transform returns an overlay that calls fn.
func Transform(fn TransformFunc) Overlay {
	return Overlay{Transform: fn}
}

// OverlayRegistry stores overlays per controller and per method in
// registration order.
type OverlayRegistry struct {
	controllers map[string][]Overlay
	methods     map[methodKey][]Overlay
}

// NewOverlayRegistry returns an empty registry.
func NewOverlayRegistry() *OverlayRegistry {
	return &OverlayRegistry{
		controllers: make(map[string][]Overlay),
		methods:     make(map[methodKey][]Overlay),
	}
}

// Controller appends overlays applied to every action of target.
func (r *OverlayRegistry) Controller(target string, overlays ...Overlay) {
	r.controllers[target] = append(r.controllers[target], overlays...)
}

// PrependController inserts overlays ahead of the existing controller
// overlays of target, keeping their given order.
func (r *OverlayRegistry) PrependController(target string, overlays ...Overlay) {
	r.controllers[target] = append(append([]Overlay(nil), overlays...), r.controllers[target]...)
}

// Method appends overlays applied to target.method.
func (r *OverlayRegistry) Method(target, method string, overlays ...Overlay) {
	key := methodKey{target, method}
	r.methods[key] = append(r.methods[key], overlays...)
}

// Clone returns a registry holding the same entries. Appending to the
// clone leaves r unchanged.
func (r *OverlayRegistry) Clone() *OverlayRegistry {
	out := NewOverlayRegistry()
	if r == nil {
		return out
	}
	for target, overlays := range r.controllers {
		out.controllers[target] = append([]Overlay(nil), overlays...)
	}
	for key, overlays := range r.methods {
		out.methods[key] = append([]Overlay(nil), overlays...)
	}
	return out
}

// For returns the controller overlays of target followed by the method
// overlays of target.method.
func (r *OverlayRegistry) For(target, method string) []Overlay {
	if r == nil {
		return nil
	}
	ctrl := r.controllers[target]
	meth := r.methods[methodKey{target, method}]

	out := make([]Overlay, 0, len(ctrl)+len(meth))
	out = append(out, ctrl...)
	return append(out, meth...)
}

// Apply folds overlays over op in order. A transform returning nil keeps
// the operation it received.
func Apply(op *openapi.Operation, route *Route, overlays []Overlay) (*openapi.Operation, error) {
	for i, o := range overlays {
		switch {
		case o.Transform != nil:
			if next := o.Transform(op, route); next != nil {
				op = next
			}
		case o.Patch != nil:
			if err := openapi.Merge(op, o.Patch); err != nil {
				return nil, fmt.Errorf("routes: overlay %d for %s: %w", i, route.ID(), err)
			}
		}
	}
	return op, nil
}
