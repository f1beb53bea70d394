// Package typeschema supplies the named type definitions referenced by
// routes. A Provider answers one symbol at a time with a JSON Schema whose
// definitions map holds every named type it transitively references, using
// "#/definitions/<name>" pointers.
//
// Definitions come from JSON or YAML schema files, from Go source parsed
// with go/parser, or from Go values by reflection. All three end up in a
// MapProvider.
package typeschema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vitalvas/routedoc/openapi"
)

var (
	// ErrSymbolNotFound is returned when a provider has no definition for a symbol.
	ErrSymbolNotFound = errors.New("typeschema: symbol not found")
	// ErrNoSources is returned when a glob matches no files.
	ErrNoSources = errors.New("typeschema: no sources matched")
)

// Provider resolves a symbol name to its schema.
type Provider interface {
	SchemaForSymbol(name string) (*openapi.Schema, error)
}

// Option configures provider construction.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// MapProvider serves definitions from an in-memory table.
type MapProvider struct {
	defs   map[string]*openapi.Schema
	logger zerolog.Logger
}

// NewMapProvider returns a provider over defs. Nested definitions are
// flattened into the table.
func NewMapProvider(defs map[string]*openapi.Schema, opts ...Option) *MapProvider {
	o := newOptions(opts)
	p := &MapProvider{
		defs:   make(map[string]*openapi.Schema, len(defs)),
		logger: o.logger,
	}
	for name, def := range defs {
		p.Add(name, def)
	}
	return p
}

// Add stores a definition under name, replacing any previous one. Its
// nested definitions are added too, and component pointers are rewritten
// to definition pointers.
func (p *MapProvider) Add(name string, def *openapi.Schema) {
	if def == nil {
		return
	}
	def = def.Clone()
	nested := def.Definitions
	def.Definitions = nil
	def.RewriteRefs(openapi.ComponentsPrefix, openapi.DefinitionsPrefix)
	p.defs[name] = def

	for sub, subDef := range nested {
		p.Add(sub, subDef)
	}
}

// AddAll copies every definition of other into p.
func (p *MapProvider) AddAll(other *MapProvider) {
	for name, def := range other.defs {
		p.defs[name] = def.Clone()
	}
}

// Len returns the number of stored definitions.
func (p *MapProvider) Len() int {
	return len(p.defs)
}

// Names returns the stored names, sorted.
func (p *MapProvider) Names() []string {
	names := make([]string, 0, len(p.defs))
	for name := range p.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SchemaForSymbol returns a copy of the definition of name with the
// closure of its references in Definitions. References to names missing
// from the table are left dangling and logged.
func (p *MapProvider) SchemaForSymbol(name string) (*openapi.Schema, error) {
	def, ok := p.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, name)
	}

	out := def.Clone()
	closure := make(map[string]*openapi.Schema)
	queue := localRefs(out)
	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]
		if _, done := closure[ref]; done {
			continue
		}

		dep, ok := p.defs[ref]
		if !ok {
			p.logger.Warn().Str("symbol", name).Str("ref", ref).Msg("reference to unknown definition")
			continue
		}
		dep = dep.Clone()
		closure[ref] = dep
		queue = append(queue, localRefs(dep)...)
	}

	if len(closure) > 0 {
		out.Definitions = closure
	}
	return out, nil
}

func localRefs(s *openapi.Schema) []string {
	var names []string
	for _, pointer := range s.Pointers() {
		if name, ok := strings.CutPrefix(pointer, openapi.DefinitionsPrefix); ok {
			names = append(names, name)
		}
	}
	return names
}
