package typeschema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetSource = `package api

import "time"

// Widget is a thing for sale.
type Widget struct {
	Base
	*Meta

	// Name is the display name.
	Name  string            ` + "`json:\"name\" openapi:\"minLength=1\"`" + `
	Price float64           ` + "`json:\"price\" openapi:\"exclusiveMinimum=0\"`" + `
	Color Color             ` + "`json:\"color,omitempty\"`" + `
	Parts []Part            ` + "`json:\"parts\"`" + `
	Attrs map[string]string ` + "`json:\"attrs,omitempty\"`" + `
	Owner *User             ` + "`json:\"owner\"`" + ` // Owner may be unset.
	Blob  []byte            ` + "`json:\"blob,omitempty\"`" + `
	Seen  time.Time         ` + "`json:\"seen\"`" + `
	Extra interface{}       ` + "`json:\"extra,omitempty\"`" + `
	Dep   other.Thing       ` + "`json:\"dep,omitempty\"`" + `
	Skip  string            ` + "`json:\"-\"`" + `
	X, Y  int
	hidden string
}

type Base struct {
	ID string ` + "`json:\"id\"`" + `
}

type Meta struct {
	Version int ` + "`json:\"version\"`" + `
}

// Color of a widget.
type Color string

type (
	// Part is a component.
	Part struct {
		SKU string ` + "`json:\"sku\"`" + `
	}

	User struct {
		Name    string ` + "`json:\"name\"`" + `
		Manager *User  ` + "`json:\"manager,omitempty\"`" + `
	}
)

type Alias = Part

type Box[T any] struct {
	Item T
}
`

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestGoSourceProvider(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "api/widget.go", widgetSource)
	writeSource(t, dir, "api/notes.txt", "not go")

	p, err := NewGoSourceProvider(filepath.Join(dir, "**", "*"))
	require.NoError(t, err)

	t.Run("declared types", func(t *testing.T) {
		assert.Equal(t, []string{"Alias", "Base", "Color", "Meta", "Part", "User", "Widget"}, p.Names())
	})

	t.Run("struct", func(t *testing.T) {
		s, err := p.SchemaForSymbol("Widget")
		require.NoError(t, err)

		assert.Equal(t, "Widget is a thing for sale.", s.Description)
		assert.Equal(t, []string{"id", "name", "price", "parts", "seen", "X", "Y"}, s.Required)

		props := s.Properties
		assert.Contains(t, props, "id")
		assert.Contains(t, props, "version")
		assert.NotContains(t, props, "Skip")
		assert.NotContains(t, props, "hidden")

		assert.Equal(t, "Name is the display name.", props["name"].Description)
		require.NotNil(t, props["name"].MinLength)
		assert.Equal(t, 1, *props["name"].MinLength)

		require.NotNil(t, props["price"].Minimum)
		assert.Equal(t, 0.0, *props["price"].Minimum)
		assert.Equal(t, true, props["price"].ExclusiveMinimum)
		assert.Equal(t, "double", props["price"].Format)

		assert.Equal(t, "#/definitions/Color", props["color"].Ref)
		assert.Equal(t, "#/definitions/Part", props["parts"].Items.Ref)
		assert.True(t, props["attrs"].AdditionalProperties.Schema.Type.Is("string"))

		require.Len(t, props["owner"].AllOf, 1)
		assert.Equal(t, "#/definitions/User", props["owner"].AllOf[0].Ref)
		assert.Equal(t, "Owner may be unset.", props["owner"].Description)

		assert.Equal(t, "byte", props["blob"].Format)
		assert.Equal(t, "date-time", props["seen"].Format)
		assert.True(t, props["extra"].Type.IsZero())
		assert.True(t, props["dep"].Type.IsZero())
		assert.Equal(t, "int64", props["X"].Format)
	})

	t.Run("closure", func(t *testing.T) {
		s, err := p.SchemaForSymbol("Widget")
		require.NoError(t, err)
		assert.Len(t, s.Definitions, 3)
		assert.Contains(t, s.Definitions, "Color")
		assert.Contains(t, s.Definitions, "Part")
		assert.Contains(t, s.Definitions, "User")
	})

	t.Run("named primitive", func(t *testing.T) {
		s, err := p.SchemaForSymbol("Color")
		require.NoError(t, err)
		assert.True(t, s.Type.Is("string"))
		assert.Equal(t, "Color of a widget.", s.Description)
	})

	t.Run("grouped declaration docs", func(t *testing.T) {
		s, err := p.SchemaForSymbol("Part")
		require.NoError(t, err)
		assert.Equal(t, "Part is a component.", s.Description)

		user, err := p.SchemaForSymbol("User")
		require.NoError(t, err)
		assert.Empty(t, user.Description)
		assert.Equal(t, []string{"name"}, user.Required)
	})

	t.Run("alias", func(t *testing.T) {
		s, err := p.SchemaForSymbol("Alias")
		require.NoError(t, err)
		require.Len(t, s.AllOf, 1)
		assert.Equal(t, "#/definitions/Part", s.AllOf[0].Ref)
	})

	t.Run("generic types skipped", func(t *testing.T) {
		_, err := p.SchemaForSymbol("Box")
		assert.ErrorIs(t, err, ErrSymbolNotFound)
	})
}

func TestGoSourceProviderErrors(t *testing.T) {
	t.Run("no match", func(t *testing.T) {
		_, err := NewGoSourceProvider(filepath.Join(t.TempDir(), "*.go"))
		assert.ErrorIs(t, err, ErrNoSources)
	})

	t.Run("syntax error", func(t *testing.T) {
		dir := t.TempDir()
		writeSource(t, dir, "bad.go", "package api\n\ntype Broken struct {")

		_, err := NewGoSourceProvider(filepath.Join(dir, "*.go"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.go")
	})
}
