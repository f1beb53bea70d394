package typeschema

import "errors"

// Sources names where definitions are loaded from. Empty patterns are
// skipped.
type Sources struct {
	// GoPattern matches Go files whose type declarations become definitions.
	GoPattern string
	// SchemaPattern matches JSON or YAML schema files. Schema files win
	// over Go declarations of the same name.
	SchemaPattern string
}

// Load builds a provider from src. When no pattern matches any file it
// returns a nil Provider and no error, and generation proceeds without a
// schema registry.
func Load(src Sources, opts ...Option) (Provider, error) {
	o := newOptions(opts)
	combined := NewMapProvider(nil, opts...)
	matched := false

	if src.GoPattern != "" {
		p, err := NewGoSourceProvider(src.GoPattern, opts...)
		switch {
		case errors.Is(err, ErrNoSources):
			o.logger.Info().Str("pattern", src.GoPattern).Msg("no go sources matched")
		case err != nil:
			return nil, err
		default:
			matched = true
			combined.AddAll(p)
		}
	}

	if src.SchemaPattern != "" {
		p, err := NewFileProvider(src.SchemaPattern, opts...)
		switch {
		case errors.Is(err, ErrNoSources):
			o.logger.Info().Str("pattern", src.SchemaPattern).Msg("no schema files matched")
		case err != nil:
			return nil, err
		default:
			matched = true
			combined.AddAll(p)
		}
	}

	if !matched {
		o.logger.Info().Msg("type schema provider unavailable")
		return nil, nil
	}

	o.logger.Debug().Int("definitions", combined.Len()).Msg("type schema provider ready")
	return combined, nil
}
