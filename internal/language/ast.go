package language

import "github.com/vektah/gqlparser/v2/ast"

type (
	QueryDocument          = ast.QueryDocument
	OperationDefinition    = ast.OperationDefinition
	SelectionSet           = ast.SelectionSet
	Selection              = ast.Selection
	Field                  = ast.Field
	Argument               = ast.Argument
	ArgumentList           = ast.ArgumentList
	Value                  = ast.Value
	VariableDefinition     = ast.VariableDefinition
	VariableDefinitionList = ast.VariableDefinitionList
	Type                   = ast.Type
)

type Operation = ast.Operation

type ValueKind = ast.ValueKind

const (
	Query    Operation = ast.Query
	Mutation Operation = ast.Mutation

	Variable ValueKind = ast.Variable
)

// NamedType builds an unwrapped type node referencing name.
func NamedType(name string) *Type { return ast.NamedType(name, nil) }

// ListType wraps elem in a list type node.
func ListType(elem *Type) *Type { return ast.ListType(elem, nil) }

// NonNullType marks t as non-null. gqlparser models non-null as a flag on
// the type node rather than a wrapper node.
func NonNullType(t *Type) *Type {
	t.NonNull = true
	return t
}
