package routes

type methodKey struct {
	target string
	method string
}

// TypeTable holds declared parameter types by position and declared return
// types, keyed by target and method.
type TypeTable struct {
	params  map[methodKey]map[int]TypeRef
	returns map[methodKey]TypeRef
}

// NewTypeTable returns an empty table.
func NewTypeTable() *TypeTable {
	return &TypeTable{
		params:  make(map[methodKey]map[int]TypeRef),
		returns: make(map[methodKey]TypeRef),
	}
}

// SetParamTypes sets the parameter types of target.method by position.
// A zero TypeRef leaves that position unchanged.
func (t *TypeTable) SetParamTypes(target, method string, types ...TypeRef) {
	for i, typ := range types {
		if typ.IsZero() {
			continue
		}
		t.SetParamType(target, method, i, typ)
	}
}

// SetParamType sets the type of the parameter at index.
func (t *TypeTable) SetParamType(target, method string, index int, typ TypeRef) {
	key := methodKey{target, method}
	byIndex, ok := t.params[key]
	if !ok {
		byIndex = make(map[int]TypeRef)
		t.params[key] = byIndex
	}
	byIndex[index] = typ
}

// SetReturnType sets the declared return type of target.method.
func (t *TypeTable) SetReturnType(target, method string, typ TypeRef) {
	t.returns[methodKey{target, method}] = typ
}

// ParamType returns the type at index, or the unknown type.
func (t *TypeTable) ParamType(target, method string, index int) TypeRef {
	if t == nil {
		return TypeRef{}
	}
	return t.params[methodKey{target, method}][index]
}

// ReturnType returns the declared return type, or the unknown type.
func (t *TypeTable) ReturnType(target, method string) TypeRef {
	if t == nil {
		return TypeRef{}
	}
	return t.returns[methodKey{target, method}]
}
