package generator

import (
	"sort"

	"github.com/vitalvas/routedoc/openapi"
	"github.com/vitalvas/routedoc/routes"
	"github.com/vitalvas/routedoc/typeschema"
)

// BuildSchemas collects the registry entries for every named type
// referenced by a documented parameter or a return type in snap, together
// with the types they reference. A nil provider yields an empty registry.
func BuildSchemas(provider typeschema.Provider, snap *routes.Snapshot, r *Resolver) (map[string]*openapi.Schema, error) {
	registry := make(map[string]*openapi.Schema)
	if provider == nil {
		r.logger.Info().Msg("no type schema provider, schema registry left empty")
		return registry, nil
	}

	b := &registryBuilder{provider: provider, registry: registry, resolver: r}
	quiet := r.silent()

	for i := range snap.Params {
		p := snap.Params[i]
		if !p.In.Documented() {
			continue
		}
		schema := quiet.Resolve(snap.Types.ParamType(p.Target, p.Method, p.Index), &p)
		if err := b.expand(schema.RefTarget()); err != nil {
			return nil, err
		}
	}

	for _, action := range snap.Actions {
		schema := quiet.Resolve(snap.Types.ReturnType(action.Target, action.Method), nil)
		if err := b.expand(schema.RefTarget()); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

type registryBuilder struct {
	provider typeschema.Provider
	registry map[string]*openapi.Schema
	resolver *Resolver
}

type pendingSchema struct {
	name string
	def  *openapi.Schema
}

// expand inserts name and its nested definitions. Names already present
// are skipped, which also ends reference cycles.
func (b *registryBuilder) expand(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := b.registry[name]; ok {
		return nil
	}

	def, err := b.provider.SchemaForSymbol(name)
	if err != nil {
		return &SymbolError{Name: name, Err: err}
	}

	queue := []pendingSchema{{name: name, def: def}}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next.def == nil {
			continue
		}
		if _, ok := b.registry[next.name]; ok {
			continue
		}

		nested := next.def.Definitions
		entry := next.def.Clone()
		entry.Definitions = nil
		entry.RewriteRefs(openapi.DefinitionsPrefix, b.resolver.Prefix())
		b.registry[next.name] = entry
		b.resolver.logger.Debug().Str("schema", next.name).Msg("registered schema")

		names := make([]string, 0, len(nested))
		for n := range nested {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			queue = append(queue, pendingSchema{name: n, def: nested[n]})
		}
	}
	return nil
}
