package generator

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vitalvas/routedoc/openapi"
)

// Reconcile returns a copy of doc in which every aggregate placeholder
// parameter is expanded into one parameter per property of its registry
// entry. Parameters sharing a location and name are then reduced to one,
// picked by policy. doc is left untouched.
func Reconcile(doc *openapi.Document, registry map[string]*openapi.Schema, policy DedupPolicy) (*openapi.Document, error) {
	out, err := cloneDocument(doc)
	if err != nil {
		return nil, err
	}

	for _, item := range out.Paths {
		if item == nil {
			continue
		}
		item.Operations(func(_ string, op *openapi.Operation) {
			op.Parameters = reconcileParams(op.Parameters, registry, policy)
		})
	}
	return out, nil
}

func cloneDocument(doc *openapi.Document) (*openapi.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("generator: copy document: %w", err)
	}
	out := new(openapi.Document)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("generator: copy document: %w", err)
	}
	return out, nil
}

type paramGroup struct {
	plain    []*openapi.Parameter
	expanded []*openapi.Parameter
}

func reconcileParams(params []*openapi.Parameter, registry map[string]*openapi.Schema, policy DedupPolicy) []*openapi.Parameter {
	var order []string
	groups := make(map[string]*paramGroup)

	for _, p := range params {
		if p == nil {
			continue
		}
		g, ok := groups[p.In]
		if !ok {
			g = &paramGroup{}
			groups[p.In] = g
			order = append(order, p.In)
		}

		if def, ok := placeholderDef(p, registry); ok {
			g.expanded = append(g.expanded, expandPlaceholder(p.In, def)...)
			continue
		}
		if p.Description == "" && p.Schema != nil {
			p.Description = p.Schema.Description
		}
		g.plain = append(g.plain, p)
	}

	var out []*openapi.Parameter
	for _, in := range order {
		g := groups[in]
		merged := append(append([]*openapi.Parameter{}, g.plain...), g.expanded...)
		out = append(out, dedupParams(merged, policy)...)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// placeholderDef returns the registry entry p stands for. A placeholder
// is named after the type its schema references.
func placeholderDef(p *openapi.Parameter, registry map[string]*openapi.Schema) (*openapi.Schema, bool) {
	if p.Schema == nil || p.Schema.Ref == "" {
		return nil, false
	}
	if openapi.RefName(p.Schema.Ref) != p.Name {
		return nil, false
	}
	def, ok := registry[p.Name]
	if !ok || def == nil {
		return nil, false
	}
	return def, true
}

func expandPlaceholder(in string, def *openapi.Schema) []*openapi.Parameter {
	names := make([]string, 0, len(def.Properties))
	for name := range def.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*openapi.Parameter, 0, len(names))
	for _, name := range names {
		prop := def.Properties[name]
		param := &openapi.Parameter{
			In:       in,
			Name:     name,
			Required: def.IsRequired(name),
			Schema:   prop.Clone(),
		}
		if prop != nil {
			param.Description = prop.Description
		}
		out = append(out, param)
	}
	return out
}

// dedupParams keeps one parameter per name. ExpandedWins keeps the last
// occurrence, DeclaredWins the first. Survivors keep their relative order.
func dedupParams(params []*openapi.Parameter, policy DedupPolicy) []*openapi.Parameter {
	keep := make(map[string]int, len(params))
	for i, p := range params {
		if _, seen := keep[p.Name]; seen && policy == DeclaredWins {
			continue
		}
		keep[p.Name] = i
	}

	out := make([]*openapi.Parameter, 0, len(keep))
	for i, p := range params {
		if keep[p.Name] == i {
			out = append(out, p)
		}
	}
	return out
}
