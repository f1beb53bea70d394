package routes

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/routedoc/openapi"
)

// ErrManifest is matched by every manifest error.
var ErrManifest = errors.New("routes: invalid manifest")

// ManifestError reports a problem at a location inside a manifest.
type ManifestError struct {
	Location string
	Message  string
	Cause    error
}

func (e *ManifestError) Error() string {
	msg := "routes: manifest"
	if e.Location != "" {
		msg += " " + e.Location
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ManifestError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrManifest.
func (e *ManifestError) Is(target error) bool {
	return target == ErrManifest
}

// Manifest is the file form of a route registry. It is read as YAML, so
// JSON manifests work as well.
type Manifest struct {
	Info        ManifestInfo         `yaml:"info"`
	RoutePrefix string               `yaml:"routePrefix"`
	Defaults    ManifestDefaults     `yaml:"defaults"`
	Controllers []ManifestController `yaml:"controllers"`
	// Actions lists actions outside any controller block. Their target
	// must name a controller or generation fails.
	Actions    []ManifestAction `yaml:"actions"`
	Additional map[string]any   `yaml:"additional"`
}

// ManifestInfo is the document info block.
type ManifestInfo struct {
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// ManifestDefaults holds framework-wide parameter defaults.
type ManifestDefaults struct {
	ParamRequired bool `yaml:"paramRequired"`
}

// ManifestController describes a controller and its actions.
type ManifestController struct {
	Target  string           `yaml:"target"`
	Route   string           `yaml:"route"`
	Type    ControllerType   `yaml:"type"`
	OpenAPI []map[string]any `yaml:"openapi"`
	Actions []ManifestAction `yaml:"actions"`
}

// ManifestAction describes one action.
type ManifestAction struct {
	Target    string             `yaml:"target"`
	Method    string             `yaml:"method"`
	Verb      string             `yaml:"verb"`
	Route     string             `yaml:"route"`
	Returns   TypeRef            `yaml:"returns"`
	OpenAPI   []map[string]any   `yaml:"openapi"`
	Params    []ManifestParam    `yaml:"params"`
	Responses []ManifestResponse `yaml:"responses"`
}

// ManifestParam describes a parameter declaration. Index defaults to the
// position in the list.
type ManifestParam struct {
	In           ParamIn `yaml:"in"`
	Name         string  `yaml:"name"`
	Index        *int    `yaml:"index"`
	Required     *bool   `yaml:"required"`
	Type         TypeRef `yaml:"type"`
	ExplicitType string  `yaml:"explicitType"`
	Description  string  `yaml:"description"`
}

// ManifestResponse describes a response handler annotation.
type ManifestResponse struct {
	Kind  ResponseHandlerKind `yaml:"kind"`
	Value string              `yaml:"value"`
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ManifestError{Location: path, Message: "read", Cause: err}
	}
	m, err := ParseManifest(data)
	if err != nil {
		var merr *ManifestError
		if errors.As(err, &merr) && merr.Location == "" {
			merr.Location = path
		}
		return nil, err
	}
	return m, nil
}

// ParseManifest decodes a YAML or JSON manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ManifestError{Message: "decode", Cause: err}
	}
	return &m, nil
}

// AdditionalFields returns the document override fragment with every
// nested map keyed by string.
func (m *Manifest) AdditionalFields() map[string]any {
	if m.Additional == nil {
		return nil
	}
	return openapi.NormalizeYAML(m.Additional).(map[string]any)
}

// Options returns the framework options declared by the manifest.
func (m *Manifest) Options() Options {
	return Options{
		RoutePrefix:          m.RoutePrefix,
		DefaultParamRequired: m.Defaults.ParamRequired,
	}
}

// Snapshot flattens the manifest into a snapshot.
func (m *Manifest) Snapshot() (*Snapshot, error) {
	snap := NewSnapshot()

	for ci, c := range m.Controllers {
		loc := fmt.Sprintf("controllers[%d]", ci)
		if c.Target == "" {
			return nil, &ManifestError{Location: loc, Message: "target is required"}
		}

		typ := c.Type
		if typ == "" {
			typ = ControllerJSON
		}
		snap.AddController(Controller{Target: c.Target, Route: c.Route, Type: typ})
		for _, patch := range c.OpenAPI {
			snap.Overlays.Controller(c.Target, Patch(openapi.NormalizeYAML(patch)))
		}

		for ai, a := range c.Actions {
			if a.Target == "" {
				a.Target = c.Target
			}
			if err := addManifestAction(snap, a, fmt.Sprintf("%s.actions[%d]", loc, ai)); err != nil {
				return nil, err
			}
		}
	}

	for ai, a := range m.Actions {
		loc := fmt.Sprintf("actions[%d]", ai)
		if a.Target == "" {
			return nil, &ManifestError{Location: loc, Message: "target is required"}
		}
		if err := addManifestAction(snap, a, loc); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

func addManifestAction(snap *Snapshot, a ManifestAction, loc string) error {
	if a.Method == "" {
		return &ManifestError{Location: loc, Message: "method is required"}
	}
	if a.Verb == "" {
		return &ManifestError{Location: loc, Message: "verb is required"}
	}

	snap.AddAction(Action{
		Target: a.Target,
		Method: a.Method,
		Verb:   strings.ToLower(a.Verb),
		Route:  a.Route,
	})
	if !a.Returns.IsZero() {
		snap.Types.SetReturnType(a.Target, a.Method, a.Returns)
	}
	for _, patch := range a.OpenAPI {
		snap.Overlays.Method(a.Target, a.Method, Patch(openapi.NormalizeYAML(patch)))
	}

	for pi, p := range a.Params {
		if p.In == "" {
			return &ManifestError{Location: fmt.Sprintf("%s.params[%d]", loc, pi), Message: "in is required"}
		}
		index := pi
		if p.Index != nil {
			index = *p.Index
		}
		snap.AddParam(Param{
			Target:       a.Target,
			Method:       a.Method,
			In:           p.In,
			Name:         p.Name,
			Index:        index,
			Required:     p.Required,
			ExplicitType: p.ExplicitType,
			Description:  p.Description,
		})
		if !p.Type.IsZero() {
			snap.Types.SetParamType(a.Target, a.Method, index, p.Type)
		}
	}

	for _, r := range a.Responses {
		snap.AddResponseHandler(ResponseHandler{
			Target: a.Target,
			Method: a.Method,
			Kind:   r.Kind,
			Value:  r.Value,
		})
	}
	return nil
}
