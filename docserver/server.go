// Package docserver serves one generated OpenAPI document over HTTP: the
// document as JSON and YAML, an interactive documentation page and the
// server's own request metrics.
//
//	h, err := docserver.New(doc, docserver.Config{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	http.ListenAndServe(":8080", h)
//
// With the default base path the routes are:
//
//	/docs/              - interactive page (Swagger UI, RapiDoc or Redoc)
//	/docs/openapi.json  - document as JSON
//	/docs/openapi.yaml  - document as YAML
//	/metrics            - Prometheus metrics
package docserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/vitalvas/routedoc/openapi"
)

// DefaultBasePath is the mount point of the documentation routes.
const DefaultBasePath = "/docs"

// Config configures the documentation server.
type Config struct {
	// BasePath prefixes the documentation routes. Defaults to "/docs".
	BasePath string

	// UI selects the interactive page. Defaults to Swagger UI.
	UI UI

	// Title overrides the page title. Defaults to the document title.
	Title string

	// SwaggerUIConfig adds SwaggerUIBundle options next to url and dom_id.
	SwaggerUIConfig map[string]any

	RequestID RequestIDConfig

	// Registry receives the request metrics. Nil selects a private
	// registry served on /metrics.
	Registry *prometheus.Registry

	// DisableMetrics drops the metrics middleware and the /metrics route.
	DisableMetrics bool

	Logger zerolog.Logger
}

func (c Config) basePath() string {
	base := strings.TrimRight(c.BasePath, "/")
	if c.BasePath == "" {
		base = DefaultBasePath
	}
	return base
}

// New returns a handler serving doc. The document is encoded once; later
// changes to doc are not reflected.
func New(doc *openapi.Document, cfg Config) (http.Handler, error) {
	if doc == nil {
		return nil, fmt.Errorf("docserver: nil document")
	}

	jsonData, err := openapi.MarshalJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("docserver: encode json: %w", err)
	}
	yamlData, err := openapi.MarshalYAML(doc)
	if err != nil {
		return nil, fmt.Errorf("docserver: encode yaml: %w", err)
	}

	base := cfg.basePath()
	jsonPath := base + "/openapi.json"
	yamlPath := base + "/openapi.yaml"

	title := cfg.Title
	if title == "" {
		title = doc.Info.Title
	}
	page := []byte(cfg.UI.page(title, jsonPath, cfg.SwaggerUIConfig))

	r := chi.NewRouter()

	var metrics *Metrics
	if !cfg.DisableMetrics {
		if metrics, err = NewMetrics(cfg.Registry); err != nil {
			return nil, fmt.Errorf("docserver: register metrics: %w", err)
		}
		r.Use(metrics.Middleware)
	}
	r.Use(RequestIDMiddleware(cfg.RequestID))
	r.Use(RequestLogger(cfg.Logger))

	r.Get(jsonPath, serveBytes("application/json", jsonData))
	r.Get(yamlPath, serveBytes("application/x-yaml", yamlData))

	pageHandler := serveBytes("text/html; charset=utf-8", page)
	if base == "" {
		r.Get("/", pageHandler)
	} else {
		r.Get(base, pageHandler)
		r.Get(base+"/", pageHandler)
	}

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	cfg.Logger.Debug().
		Str("base_path", base).
		Int("json_bytes", len(jsonData)).
		Int("yaml_bytes", len(yamlData)).
		Msg("documentation routes registered")
	return r, nil
}

func serveBytes(contentType string, data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
