package generator

import (
	"errors"
	"fmt"

	"github.com/vitalvas/routedoc/routes"
)

var (
	// ErrMissingController is returned when an action names a controller
	// that is not registered.
	ErrMissingController = routes.ErrMissingController

	// ErrUnknownSymbol is matched by every SymbolError.
	ErrUnknownSymbol = errors.New("generator: unknown symbol")
)

// RouteError reports a route that could not be turned into an operation.
type RouteError struct {
	Route string
	Path  string
	Err   error
}

func (e *RouteError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("generator: route %s (%s): %v", e.Route, e.Path, e.Err)
	}
	return fmt.Sprintf("generator: route %s: %v", e.Route, e.Err)
}

func (e *RouteError) Unwrap() error { return e.Err }

// SymbolError reports a referenced type the provider could not supply.
type SymbolError struct {
	Name string
	Err  error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("generator: symbol %q: %v", e.Name, e.Err)
}

func (e *SymbolError) Unwrap() error { return e.Err }

// Is reports whether target is ErrUnknownSymbol.
func (e *SymbolError) Is(target error) bool {
	return target == ErrUnknownSymbol
}
