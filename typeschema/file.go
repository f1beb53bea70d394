package typeschema

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vitalvas/routedoc/openapi"
)

// definitionFile holds the components.schemas of an OpenAPI document. A
// schema file is a JSON Schema with a definitions map, a single schema
// named by its title, an OpenAPI document with components.schemas, or any
// mix of them.
type definitionFile struct {
	Components *struct {
		Schemas map[string]*openapi.Schema `json:"schemas"`
	} `json:"components,omitempty"`
}

// NewFileProvider loads every JSON or YAML schema file matched by pattern.
func NewFileProvider(pattern string, opts ...Option) (*MapProvider, error) {
	o := newOptions(opts)

	files, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("typeschema: glob %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSources, pattern)
	}
	sort.Strings(files)

	provider := NewMapProvider(nil, opts...)
	for _, path := range files {
		n, err := loadDefinitionFile(provider, path)
		if err != nil {
			return nil, err
		}
		o.logger.Debug().Str("file", path).Int("definitions", n).Msg("loaded schema file")
	}
	return provider, nil
}

func loadDefinitionFile(provider *MapProvider, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("typeschema: read %s: %w", path, err)
	}

	var root openapi.Schema
	if err := openapi.DecodeYAML(data, &root); err != nil {
		return 0, fmt.Errorf("typeschema: %s: %w", path, err)
	}
	var file definitionFile
	if err := openapi.DecodeYAML(data, &file); err != nil {
		return 0, fmt.Errorf("typeschema: %s: %w", path, err)
	}

	if len(root.Definitions) == 0 && root.Title == "" &&
		(file.Components == nil || len(file.Components.Schemas) == 0) {
		return 0, fmt.Errorf("typeschema: %s: no definitions, components or title", path)
	}

	before := provider.Len()
	for name, def := range root.Definitions {
		provider.Add(name, def)
	}
	if file.Components != nil {
		for name, def := range file.Components.Schemas {
			provider.Add(name, def)
		}
	}
	if root.Title != "" {
		root.Definitions = nil
		provider.Add(root.Title, &root)
	}
	return provider.Len() - before, nil
}
