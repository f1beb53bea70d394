package routes

import (
	"reflect"
	"strings"
	"time"
)

// Kind tags the active variant of a TypeRef.
type Kind int

const (
	// KindUnknown is an undeclared or unrecognized type.
	KindUnknown Kind = iota
	// KindPrimitive is one of string, number, boolean, null or any.
	KindPrimitive
	// KindArray is an array of exactly one element type.
	KindArray
	// KindNamed is a named type resolved against the schema registry.
	KindNamed
	// KindUntypedArray is an array declared without an element type.
	KindUntypedArray
	// KindUntypedObject is an object declared without a named type.
	KindUntypedObject
)

// Primitive type names.
const (
	PrimitiveString  = "string"
	PrimitiveNumber  = "number"
	PrimitiveBoolean = "boolean"
	PrimitiveNull    = "null"
	PrimitiveAny     = "any"
)

// TypeRef is a declared parameter or return type.
type TypeRef struct {
	Kind Kind
	Name string
	Elem *TypeRef
}

func String() TypeRef  { return TypeRef{Kind: KindPrimitive, Name: PrimitiveString} }
func Number() TypeRef  { return TypeRef{Kind: KindPrimitive, Name: PrimitiveNumber} }
func Boolean() TypeRef { return TypeRef{Kind: KindPrimitive, Name: PrimitiveBoolean} }
func Null() TypeRef    { return TypeRef{Kind: KindPrimitive, Name: PrimitiveNull} }
func Any() TypeRef     { return TypeRef{Kind: KindPrimitive, Name: PrimitiveAny} }

// ArrayOf returns an array of elem.
func ArrayOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindArray, Elem: &elem}
}

// Named returns a reference to the named type.
func Named(name string) TypeRef {
	return TypeRef{Kind: KindNamed, Name: name}
}

// UntypedArray returns an array type with no element information.
func UntypedArray() TypeRef {
	return TypeRef{Kind: KindUntypedArray}
}

// UntypedObject returns an object type with no name.
func UntypedObject() TypeRef {
	return TypeRef{Kind: KindUntypedObject}
}

// IsZero reports whether t is the unknown type.
func (t TypeRef) IsZero() bool {
	return t.Kind == KindUnknown
}

// IsArray reports whether t is declared as an array, typed or not.
func (t TypeRef) IsArray() bool {
	return t.Kind == KindArray || t.Kind == KindUntypedArray
}

// String renders t in the manifest syntax accepted by ParseTypeRef.
func (t TypeRef) String() string {
	switch t.Kind {
	case KindPrimitive, KindNamed:
		return t.Name
	case KindArray:
		if t.Elem == nil {
			return "array"
		}
		return t.Elem.String() + "[]"
	case KindUntypedArray:
		return "array"
	case KindUntypedObject:
		return "object"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t TypeRef) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TypeRef) UnmarshalText(text []byte) error {
	*t = ParseTypeRef(string(text))
	return nil
}

// ParseTypeRef parses a type expression: a primitive name, a type name,
// "T[]" or "[]T" for arrays, "array" or "object" for untyped containers.
// An empty expression is the unknown type.
func ParseTypeRef(expr string) TypeRef {
	expr = strings.TrimSpace(expr)

	switch {
	case expr == "":
		return TypeRef{}
	case strings.HasSuffix(expr, "[]"):
		return ArrayOf(ParseTypeRef(strings.TrimSuffix(expr, "[]")))
	case strings.HasPrefix(expr, "[]"):
		return ArrayOf(ParseTypeRef(strings.TrimPrefix(expr, "[]")))
	}

	switch expr {
	case PrimitiveString, "symbol":
		return String()
	case PrimitiveNumber:
		return Number()
	case PrimitiveBoolean:
		return Boolean()
	case PrimitiveNull:
		return Null()
	case PrimitiveAny:
		return Any()
	case "array", "Array":
		return UntypedArray()
	case "object", "Object":
		return UntypedObject()
	default:
		return Named(expr)
	}
}

// TypeFor returns the TypeRef of the Go type T.
func TypeFor[T any]() TypeRef {
	return TypeOf(reflect.TypeFor[T]())
}

var timeType = reflect.TypeFor[time.Time]()

// TypeOf maps a Go type to a TypeRef. Named structs become named types,
// interfaces are unknown.
func TypeOf(rt reflect.Type) TypeRef {
	if rt == nil {
		return TypeRef{}
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == timeType {
		return String()
	}

	switch rt.Kind() {
	case reflect.String:
		return String()
	case reflect.Bool:
		return Boolean()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number()
	case reflect.Slice, reflect.Array:
		if rt.Elem().Kind() == reflect.Interface {
			return UntypedArray()
		}
		return ArrayOf(TypeOf(rt.Elem()))
	case reflect.Map:
		return UntypedObject()
	case reflect.Struct:
		if rt.Name() == "" {
			return UntypedObject()
		}
		return Named(TypeName(rt))
	default:
		return TypeRef{}
	}
}

// TypeName returns the schema name of a named Go type. Generic
// instantiations are flattened: Page[pkg.Widget] becomes PageWidget and
// Page[[]pkg.Widget] becomes PageWidgetList.
func TypeName(rt reflect.Type) string {
	name := rt.Name()
	open := strings.IndexByte(name, '[')
	if open < 0 || !strings.HasSuffix(name, "]") {
		return name
	}

	base := name[:open]
	inner := name[open+1 : len(name)-1]

	list := strings.HasPrefix(inner, "[]")
	inner = strings.TrimPrefix(inner, "[]")
	if dot := strings.LastIndexByte(inner, '.'); dot >= 0 {
		inner = inner[dot+1:]
	}

	if list {
		return base + inner + "List"
	}
	return base + inner
}
