package openapi

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid document", func(t *testing.T) {
		require.NoError(t, Validate(ctx, sampleDocument()))
	})

	t.Run("missing title", func(t *testing.T) {
		doc := sampleDocument()
		doc.Info.Title = ""

		err := Validate(ctx, doc)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDocument)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.NotNil(t, verr.Cause)
	})

	t.Run("unresolved reference", func(t *testing.T) {
		doc := sampleDocument()
		delete(doc.Components.Schemas, "Widget")
		assert.ErrorIs(t, Validate(ctx, doc), ErrInvalidDocument)
	})
}

func TestValidateFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("yaml file", func(t *testing.T) {
		data, err := MarshalYAML(sampleDocument())
		require.NoError(t, err)
		path := filepath.Join(dir, "openapi.yaml")
		require.NoError(t, os.WriteFile(path, data, 0o600))

		assert.NoError(t, ValidateFile(ctx, path))
	})

	t.Run("missing file", func(t *testing.T) {
		err := ValidateFile(ctx, filepath.Join(dir, "absent.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "absent.json")
	})
}
