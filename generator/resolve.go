package generator

import (
	"github.com/rs/zerolog"

	"github.com/vitalvas/routedoc/openapi"
	"github.com/vitalvas/routedoc/routes"
)

// Resolver maps declared types to schemas. Named types become references
// under the configured prefix.
type Resolver struct {
	prefix string
	logger zerolog.Logger
}

// NewResolver returns a resolver emitting references under prefix. An
// empty prefix selects openapi.ComponentsPrefix.
func NewResolver(prefix string, logger zerolog.Logger) *Resolver {
	if prefix == "" {
		prefix = openapi.ComponentsPrefix
	}
	return &Resolver{prefix: prefix, logger: logger}
}

// Prefix returns the reference prefix.
func (r *Resolver) Prefix() string {
	return r.prefix
}

// Ref returns a reference to the named registry entry.
func (r *Resolver) Ref(name string) *openapi.Schema {
	return openapi.NewRef(r.prefix + name)
}

// Resolve returns the schema of t declared for parameter p. p may be nil
// for return types. An explicit type on p replaces t, keeping only whether
// t is an array. Unsupported declarations degrade to a loose schema and
// log a warning.
func (r *Resolver) Resolve(t routes.TypeRef, p *routes.Param) *openapi.Schema {
	if p != nil && p.ExplicitType != "" {
		ref := r.Ref(p.ExplicitType)
		if t.IsArray() {
			return &openapi.Schema{Type: openapi.TypeString("array"), Items: ref}
		}
		return ref
	}

	switch t.Kind {
	case routes.KindArray:
		var elem routes.TypeRef
		if t.Elem != nil {
			elem = *t.Elem
		}
		return &openapi.Schema{Type: openapi.TypeString("array"), Items: r.Resolve(elem, p)}

	case routes.KindPrimitive:
		return openapi.NewType(t.Name)

	case routes.KindUntypedArray:
		r.unsupported("type Array not support", p)
		return openapi.NewType("array")

	case routes.KindUntypedObject:
		r.unsupported("type Object not support", p)
		return openapi.NewType("object")

	case routes.KindNamed:
		return r.Ref(t.Name)

	default:
		r.unsupported("type Any not support", p)
		return openapi.NewType("any")
	}
}

// ResolveReturn resolves the declared return type of route.
func (r *Resolver) ResolveReturn(route *routes.Route) *openapi.Schema {
	logger := r.logger.With().
		Str("controller", route.Action.Target).
		Str("method", route.Action.Method).
		Str("in", "return").
		Logger()
	return r.withLogger(logger).Resolve(route.ReturnType(), nil)
}

func (r *Resolver) unsupported(msg string, p *routes.Param) {
	event := r.logger.Warn()
	if p != nil {
		event = event.
			Int("index", p.Index).
			Str("in", string(p.In)).
			Str("method", p.Method).
			Str("controller", p.Target)
	}
	event.Msg(msg)
}

func (r *Resolver) withLogger(logger zerolog.Logger) *Resolver {
	return &Resolver{prefix: r.prefix, logger: logger}
}

// silent returns a copy that logs nothing.
func (r *Resolver) silent() *Resolver {
	return r.withLogger(zerolog.Nop())
}
