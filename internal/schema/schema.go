package schema

// Schema is the client-side view of a GraphQL API, decoded from the result
// of an introspection query. It is immutable once decoded and is shared by
// reference across synthesis calls.
type Schema struct {
	QueryType    string
	MutationType string
	Types        []*Type
}

// Type is a named GraphQL type (object, interface, union, scalar, enum, input)
type Type struct {
	Kind        TypeKind      `json:"kind"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Fields      []*Field      `json:"fields"`      // For OBJECT and INTERFACE
	InputFields []*InputValue `json:"inputFields"` // For INPUT_OBJECT
	EnumValues  []*EnumValue  `json:"enumValues"`  // For ENUM
}

// Field represents a field on an object or interface
type Field struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Args        []*InputValue `json:"args"`
	Type        *TypeRef      `json:"type"`
}

// InputValue represents an input value (a field argument or an input field)
type InputValue struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        *TypeRef `json:"type"`
}

type EnumValue struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TypeKind represents the kind of GraphQL type
type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
	TypeKindList        TypeKind = "LIST"
	TypeKindNonNull     TypeKind = "NON_NULL"
)

// TypeRef is a reference to a type, possibly wrapped with LIST/NON_NULL layers.
type TypeRef struct {
	Kind   TypeKind `json:"kind"`
	Name   string   `json:"name"`
	OfType *TypeRef `json:"ofType"`
}

func (t *TypeRef) IsNonNull() bool {
	return t != nil && t.Kind == TypeKindNonNull
}

func (t *TypeRef) IsList() bool {
	if t == nil {
		return false
	}
	if t.Kind == TypeKindList {
		return true
	}
	if t.Kind == TypeKindNonNull && t.OfType != nil {
		return t.OfType.Kind == TypeKindList
	}
	return false
}

// Unwrap removes one layer of Non-Null or List wrapping and returns the inner type.
func (t *TypeRef) Unwrap() *TypeRef {
	if t.Kind == TypeKindNonNull || t.Kind == TypeKindList {
		return t.OfType
	}
	return t
}

// Leaf strips every LIST/NON_NULL wrapper and returns the innermost reference.
func (t *TypeRef) Leaf() *TypeRef {
	current := t
	for current != nil && (current.Kind == TypeKindList || current.Kind == TypeKindNonNull) {
		current = current.OfType
	}
	return current
}

// NamedType returns the innermost type name for the given reference.
func (t *TypeRef) NamedType() string {
	current := t
	for current != nil {
		if current.Name != "" {
			return current.Name
		}
		current = current.OfType
	}
	return ""
}

func NonNullType(t *TypeRef) *TypeRef { return &TypeRef{Kind: TypeKindNonNull, OfType: t} }
func ListType(t *TypeRef) *TypeRef    { return &TypeRef{Kind: TypeKindList, OfType: t} }

// Named builds a reference to a named type of the given kind.
func Named(kind TypeKind, name string) *TypeRef { return &TypeRef{Kind: kind, Name: name} }

// FieldByName returns the field with the given name, or nil.
func (t *Type) FieldByName(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
