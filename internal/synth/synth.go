// Package synth builds GraphQL query documents from an introspected schema,
// a dotted traversal path, and a field specification tree. The resulting
// document is a value object: assembled once, printed, never mutated.
package synth

import (
	"fmt"
	"strings"

	fieldspec "github.com/MechanicalRabbit/RexDB/internal/fieldspec"
	language "github.com/MechanicalRabbit/RexDB/internal/language"
	schema "github.com/MechanicalRabbit/RexDB/internal/schema"
)

// Result carries the synthesized document together with the ordered variable
// definitions collected along the way, a human-readable description taken
// from the last traversed field, and the canonicalized field specs.
type Result struct {
	Document    *language.QueryDocument
	Variables   language.VariableDefinitionList
	Description string
	Specs       fieldspec.Specs
	SpecOrder   []string
}

// Text prints the document as GraphQL query text.
func (r *Result) Text() string {
	return language.FormatQuery(r.Document)
}

// Variable returns the first variable definition with the given name, or
// nil. Sorting-config derivation downstream keys off these handles.
func (r *Result) Variable(name string) *language.VariableDefinition {
	for _, v := range r.Variables {
		if v.Variable == name {
			return v
		}
	}
	return nil
}

// Synthesize walks path hop by hop from the schema's root query type,
// accumulating every argument encountered as a query variable, then expands
// cfg (or an implicitly derived spec set) into the target type's selection
// set.
//
// All schema/path/spec mismatches surface as *schema.ConfigError before any
// network access. Arguments of the same name collected from different hops
// are deliberately not deduplicated by name; each contributes its own
// variable definition in first-seen order.
func Synthesize(sch *schema.Schema, path string, cfg fieldspec.Config) (*Result, error) {
	idx := schema.BuildIndex(sch)
	root, err := idx.QueryType(sch)
	if err != nil {
		return nil, err
	}
	hops, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	b := &builder{idx: idx}
	sel, last, err := b.buildPath(root, hops, cfg)
	if err != nil {
		return nil, err
	}

	op := &language.OperationDefinition{
		Operation:           language.Query,
		VariableDefinitions: b.vars,
		SelectionSet:        sel,
	}
	doc := &language.QueryDocument{
		Operations: []*language.OperationDefinition{op},
	}
	description := ""
	if last != nil {
		description = last.Description
	}
	return &Result{
		Document:    doc,
		Variables:   b.vars,
		Description: description,
		Specs:       b.specs,
		SpecOrder:   b.order,
	}, nil
}

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	hops := strings.Split(path, ".")
	for _, hop := range hops {
		if hop == "" {
			return nil, schema.Configf("path %q contains an empty hop", path)
		}
	}
	return hops, nil
}

type builder struct {
	idx   schema.Index
	vars  language.VariableDefinitionList
	specs fieldspec.Specs
	order []string
}

// buildPath recurses down the remaining hops. The returned field is the
// deepest hop traversed (nil when hops is empty), whose description labels
// the whole query.
func (b *builder) buildPath(typ *schema.Type, hops []string, cfg fieldspec.Config) (language.SelectionSet, *schema.Field, error) {
	if len(hops) == 0 {
		specs, order, err := fieldspec.Normalize(cfg, typ)
		if err != nil {
			return nil, nil, err
		}
		b.specs, b.order = specs, order
		sel := language.SelectionSet{}
		for _, key := range order {
			node, err := b.buildRequirement(typ, specs[key].Require)
			if err != nil {
				return nil, nil, err
			}
			sel = append(sel, node)
		}
		return sel, nil, nil
	}

	hop := hops[0]
	field, resolved, err := b.idx.ResolveField(typ, hop)
	if err != nil {
		return nil, nil, err
	}
	if resolved == nil || resolved.Kind != schema.TypeKindObject {
		return nil, nil, schema.Configf(
			"path hop %q on type %q does not resolve to an object type", hop, typ.Name)
	}
	args, err := b.collectArgs(field)
	if err != nil {
		return nil, nil, err
	}
	inner, last, err := b.buildPath(resolved, hops[1:], cfg)
	if err != nil {
		return nil, nil, err
	}
	if last == nil {
		last = field
	}
	node := &language.Field{Name: hop, Arguments: args, SelectionSet: inner}
	return language.SelectionSet{node}, last, nil
}

// buildRequirement expands one spec requirement into a field selection,
// recursing into nested requirements. Depth is bounded only by the spec
// tree itself.
func (b *builder) buildRequirement(typ *schema.Type, req fieldspec.Requirement) (*language.Field, error) {
	field, resolved, err := b.idx.ResolveField(typ, req.Field)
	if err != nil {
		return nil, err
	}
	args, err := b.collectArgs(field)
	if err != nil {
		return nil, err
	}
	node := &language.Field{Name: req.Field, Arguments: args}
	if len(req.Require) == 0 {
		return node, nil
	}
	if resolved == nil || resolved.Kind != schema.TypeKindObject {
		return nil, schema.Configf(
			"field %q on type %q has nested requirements but does not resolve to an object type",
			req.Field, typ.Name)
	}
	sel := make(language.SelectionSet, 0, len(req.Require))
	for _, sub := range req.Require {
		child, err := b.buildRequirement(resolved, sub)
		if err != nil {
			return nil, err
		}
		sel = append(sel, child)
	}
	node.SelectionSet = sel
	return node, nil
}

// collectArgs records each of the field's declared arguments as a query
// variable and returns the argument list wiring them into the selection.
func (b *builder) collectArgs(field *schema.Field) (language.ArgumentList, error) {
	if len(field.Args) == 0 {
		return nil, nil
	}
	args := make(language.ArgumentList, 0, len(field.Args))
	for _, arg := range field.Args {
		typ, err := convertType(arg.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %q of field %q: %w", arg.Name, field.Name, err)
		}
		b.vars = append(b.vars, &language.VariableDefinition{
			Variable: arg.Name,
			Type:     typ,
		})
		args = append(args, &language.Argument{
			Name:  arg.Name,
			Value: &language.Value{Kind: language.Variable, Raw: arg.Name},
		})
	}
	return args, nil
}

// convertType rebuilds an introspected type reference as a typed AST node,
// preserving NON_NULL/LIST wrapping.
func convertType(ref *schema.TypeRef) (*language.Type, error) {
	if ref == nil {
		return nil, fmt.Errorf("schema is malformed: nil type reference")
	}
	switch ref.Kind {
	case schema.TypeKindNonNull:
		inner, err := convertType(ref.OfType)
		if err != nil {
			return nil, err
		}
		return language.NonNullType(inner), nil
	case schema.TypeKindList:
		inner, err := convertType(ref.OfType)
		if err != nil {
			return nil, err
		}
		return language.ListType(inner), nil
	default:
		if ref.Name == "" {
			return nil, fmt.Errorf("schema is malformed: unnamed %s type reference", ref.Kind)
		}
		return language.NamedType(ref.Name), nil
	}
}
