package schema

import "fmt"

// Index is a name-keyed lookup over a schema's type list. It is built once
// per schema value and shared by reference across synthesis calls.
type Index map[string]*Type

// BuildIndex flattens the schema's type list into a name-keyed map.
// Unnamed entries (wrapper refs leaking into the type list) are skipped.
func BuildIndex(s *Schema) Index {
	idx := make(Index, len(s.Types))
	for _, t := range s.Types {
		if t.Name == "" {
			continue
		}
		idx[t.Name] = t
	}
	return idx
}

// Lookup returns the named type. A missing entry means the schema itself is
// inconsistent (a field referenced a type the introspection result never
// declared), which is an internal fault rather than a configuration error.
func (idx Index) Lookup(name string) (*Type, error) {
	t, ok := idx[name]
	if !ok {
		return nil, fmt.Errorf("schema is malformed: no type named %q", name)
	}
	return t, nil
}

// QueryType resolves the schema's root query type. It must be an OBJECT.
func (idx Index) QueryType(s *Schema) (*Type, error) {
	if s.QueryType == "" {
		return nil, Configf("schema declares no query root type")
	}
	root, err := idx.Lookup(s.QueryType)
	if err != nil {
		return nil, err
	}
	if root.Kind != TypeKindObject {
		return nil, Configf("query root type %q is %s, not an object", root.Name, root.Kind)
	}
	return root, nil
}

// ResolveField resolves fieldName on objType and follows the field's declared
// type through NON_NULL/LIST wrappers to its named type.
//
// The resolved type is nil when the field is a scalar leaf: scalars have no
// index entry and cannot be selected into. Deciding whether a scalar target
// is acceptable is the caller's job, since only the caller knows whether
// further structure (another path hop, a nested selection) follows.
func (idx Index) ResolveField(objType *Type, fieldName string) (*Field, *Type, error) {
	field := objType.FieldByName(fieldName)
	if field == nil {
		return nil, nil, Configf("no field %q on type %q", fieldName, objType.Name)
	}
	leaf := field.Type.Leaf()
	if leaf == nil {
		return nil, nil, fmt.Errorf("schema is malformed: field %q on type %q has no resolvable type", fieldName, objType.Name)
	}
	if leaf.Kind == TypeKindScalar {
		return field, nil, nil
	}
	resolved, err := idx.Lookup(leaf.NamedType())
	if err != nil {
		return nil, nil, err
	}
	return field, resolved, nil
}
