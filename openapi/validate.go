package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrInvalidDocument is matched by every ValidationError.
var ErrInvalidDocument = errors.New("openapi: invalid document")

// ValidationError reports a document that failed to load or validate.
type ValidationError struct {
	Location string
	Cause    error
}

func (e *ValidationError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("openapi: invalid document: %v", e.Cause)
	}
	return fmt.Sprintf("openapi: invalid document %s: %v", e.Location, e.Cause)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrInvalidDocument.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDocument
}

// Validate checks doc against the OpenAPI 3.0 rules implemented by kin-openapi.
func Validate(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("openapi: encode for validation: %w", err)
	}
	return ValidateData(ctx, data, "")
}

// ValidateData loads a JSON or YAML document and validates it. location is
// used in error messages only.
func ValidateData(ctx context.Context, data []byte, location string) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return &ValidationError{Location: location, Cause: err}
	}
	if err := doc.Validate(ctx); err != nil {
		return &ValidationError{Location: location, Cause: err}
	}
	return nil
}

// ValidateFile loads and validates the document stored at path.
func ValidateFile(ctx context.Context, path string) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return &ValidationError{Location: path, Cause: err}
	}
	if err := doc.Validate(ctx); err != nil {
		return &ValidationError{Location: path, Cause: err}
	}
	return nil
}
