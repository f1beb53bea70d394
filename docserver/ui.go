package docserver

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"
)

// UI selects the interactive documentation page.
type UI int

const (
	UISwagger UI = iota
	UIRapiDoc
	UIRedoc
)

// ParseUI maps a configuration value to a UI. Empty selects Swagger UI.
func ParseUI(s string) (UI, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "swagger", "swagger-ui":
		return UISwagger, nil
	case "rapidoc":
		return UIRapiDoc, nil
	case "redoc":
		return UIRedoc, nil
	default:
		return 0, fmt.Errorf("docserver: unknown ui %q", s)
	}
}

func (ui UI) String() string {
	switch ui {
	case UISwagger:
		return "swagger"
	case UIRapiDoc:
		return "rapidoc"
	case UIRedoc:
		return "redoc"
	default:
		return fmt.Sprintf("UI(%d)", int(ui))
	}
}

func (ui UI) page(title, specURL string, swaggerConfig map[string]any) string {
	switch ui {
	case UIRapiDoc:
		return rapidocPage(title, specURL)
	case UIRedoc:
		return redocPage(title, specURL)
	default:
		return swaggerUIPage(title, specURL, swaggerConfig)
	}
}

func swaggerUIPage(title, specURL string, config map[string]any) string {
	var extra strings.Builder
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := json.Marshal(config[k])
		if err != nil {
			continue
		}
		fmt.Fprintf(&extra, ", %q: %s", k, v)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"%s});
</script>
</body>
</html>`, html.EscapeString(title), specURL, extra.String())
}

func rapidocPage(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
</head>
<body>
<rapi-doc spec-url=%q render-style="read"></rapi-doc>
</body>
</html>`, html.EscapeString(title), specURL)
}

func redocPage(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
<redoc spec-url=%q></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), specURL)
}
