package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return &Schema{
		QueryType: "Query",
		Types: []*Type{
			{
				Kind: TypeKindObject,
				Name: "Query",
				Fields: []*Field{
					{
						Name: "patients",
						Type: Named(TypeKindObject, "PatientConnection"),
						Args: []*InputValue{
							{Name: "search", Type: Named(TypeKindScalar, "String")},
						},
					},
					{Name: "version", Type: NonNullType(Named(TypeKindScalar, "String"))},
				},
			},
			{
				Kind: TypeKindObject,
				Name: "PatientConnection",
				Fields: []*Field{
					{Name: "edges", Type: ListType(Named(TypeKindObject, "PatientEdge"))},
				},
			},
			{
				Kind: TypeKindObject,
				Name: "PatientEdge",
				Fields: []*Field{
					{Name: "node", Type: Named(TypeKindObject, "Patient")},
				},
			},
			{
				Kind: TypeKindObject,
				Name: "Patient",
				Fields: []*Field{
					{Name: "id", Type: NonNullType(Named(TypeKindScalar, "ID"))},
					{Name: "name", Type: Named(TypeKindScalar, "String")},
					{Name: "sex", Type: Named(TypeKindEnum, "Sex")},
				},
			},
			{
				Kind:       TypeKindEnum,
				Name:       "Sex",
				EnumValues: []*EnumValue{{Name: "MALE"}, {Name: "FEMALE"}},
			},
			{Kind: TypeKindScalar, Name: "String"},
			{Kind: TypeKindScalar, Name: "ID"},
		},
	}
}

func TestBuildIndexSkipsUnnamed(t *testing.T) {
	s := testSchema()
	s.Types = append(s.Types, &Type{Kind: TypeKindObject})
	idx := BuildIndex(s)
	require.Len(t, idx, 7)
	require.Contains(t, idx, "Patient")
}

func TestQueryType(t *testing.T) {
	s := testSchema()
	idx := BuildIndex(s)

	root, err := idx.QueryType(s)
	require.NoError(t, err)
	require.Equal(t, "Query", root.Name)

	s.QueryType = "Sex"
	_, err = idx.QueryType(s)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)

	s.QueryType = ""
	_, err = idx.QueryType(s)
	require.ErrorAs(t, err, &cfgErr)
}

func TestResolveFieldThroughWrappers(t *testing.T) {
	idx := BuildIndex(testSchema())
	conn := idx["PatientConnection"]

	field, resolved, err := idx.ResolveField(conn, "edges")
	require.NoError(t, err)
	require.Equal(t, "edges", field.Name)
	require.Equal(t, "PatientEdge", resolved.Name)
	require.Equal(t, TypeKindObject, resolved.Kind)
}

func TestResolveFieldScalarLeaf(t *testing.T) {
	idx := BuildIndex(testSchema())
	patient := idx["Patient"]

	field, resolved, err := idx.ResolveField(patient, "id")
	require.NoError(t, err)
	require.Equal(t, "id", field.Name)
	require.Nil(t, resolved, "scalar targets have no named resolution")
}

func TestResolveFieldEnum(t *testing.T) {
	idx := BuildIndex(testSchema())
	patient := idx["Patient"]

	_, resolved, err := idx.ResolveField(patient, "sex")
	require.NoError(t, err)
	require.Equal(t, TypeKindEnum, resolved.Kind)
}

func TestResolveFieldUnknown(t *testing.T) {
	idx := BuildIndex(testSchema())
	patient := idx["Patient"]

	_, _, err := idx.ResolveField(patient, "nope")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Contains(t, err.Error(), `no field "nope" on type "Patient"`)
}

func TestResolveFieldMissingNamedTypeIsInternalFault(t *testing.T) {
	s := testSchema()
	s.Types[0].Fields = append(s.Types[0].Fields, &Field{
		Name: "ghost",
		Type: Named(TypeKindObject, "Ghost"),
	})
	idx := BuildIndex(s)

	_, _, err := idx.ResolveField(idx["Query"], "ghost")
	require.Error(t, err)
	var cfgErr *ConfigError
	require.False(t, errors.As(err, &cfgErr), "malformed schema is not a config error")
}

func TestTypeRefHelpers(t *testing.T) {
	ref := NonNullType(ListType(NonNullType(Named(TypeKindObject, "Patient"))))
	require.True(t, ref.IsNonNull())
	require.True(t, ref.IsList())
	require.Equal(t, "Patient", ref.NamedType())
	require.Equal(t, TypeKindObject, ref.Leaf().Kind)
	require.Equal(t, TypeKindList, ref.Unwrap().Kind)
}
