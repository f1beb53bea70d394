package openapi

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user supplied name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("openapi: unknown format %q", s)
	}
}

// MarshalJSON encodes v as indented JSON.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// MarshalYAML encodes v as YAML with the same key order as its JSON form.
func MarshalYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

// blockStyle clears the flow and quoting styles the JSON input left on the
// tree. Scalars keep their tags, so strings that would resolve to another
// type stay quoted.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Encode writes v to w in the given format.
func Encode(w io.Writer, v any, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = MarshalYAML(v)
	default:
		data, err = MarshalJSON(v)
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("openapi: encode %s: %w", format, err)
	}

	_, err = w.Write(data)
	return err
}

// DecodeYAML decodes YAML or JSON data into v through its JSON form, so v
// only needs json tags.
func DecodeYAML(data []byte, v any) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("openapi: decode yaml: %w", err)
	}

	js, err := json.Marshal(NormalizeYAML(raw))
	if err != nil {
		return fmt.Errorf("openapi: decode yaml: %w", err)
	}
	if err := json.Unmarshal(js, v); err != nil {
		return fmt.Errorf("openapi: decode yaml: %w", err)
	}
	return nil
}

// NormalizeYAML rewrites map[any]any values produced by yaml.v3 for
// non-string keys, such as bare status codes, into map[string]any.
func NormalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = NormalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = NormalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = NormalizeYAML(item)
		}
		return out
	default:
		return v
	}
}
