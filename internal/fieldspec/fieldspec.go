// Package fieldspec models the declarative field configuration consumed by
// the query synthesizer: which fields of a target type to select, under what
// user-facing title, and which nested sub-selections each field needs.
package fieldspec

import (
	"sort"
	"strings"

	schema "github.com/MechanicalRabbit/RexDB/internal/schema"
)

// Requirement names one field to select and, optionally, the sub-selections
// needed to render it (e.g. a relation's display label).
type Requirement struct {
	Field   string
	Require []Requirement
}

// Spec is one canonicalized output field.
type Spec struct {
	Title   string
	Require Requirement
}

// Config is the user-declared form, keyed by a user-facing name such as
// "primaryText". A nil or empty Config asks for implicit derivation from the
// target type's scalar-like fields.
type Config map[string]Spec

// Specs is the canonical form produced by Normalize and returned from
// synthesis.
type Specs map[string]Spec

// priorityFields are emitted first, in this order, when deriving an implicit
// spec set. The remaining scalar-like fields follow in declaration order.
var priorityFields = []string{
	"id", "name", "first_name", "last_name", "title", "display_name", "gender", "sex",
}

// Normalize produces the canonical name→Spec mapping for typ along with the
// key emission order. Go maps carry no order, so the ordered key slice is
// part of the contract.
//
// With an explicit config every entry's Require.Field must name a field of
// typ; the implicit "id" spec is merged in front when typ has an id field
// that no entry already requires. Without a config all scalar-like fields of
// typ become specs, priority names first.
func Normalize(cfg Config, typ *schema.Type) (Specs, []string, error) {
	if len(cfg) == 0 {
		return derive(typ)
	}

	specs := make(Specs, len(cfg)+1)
	order := make([]string, 0, len(cfg)+1)

	hasID := false
	for _, spec := range cfg {
		if spec.Require.Field == "id" {
			hasID = true
		}
	}
	if !hasID && typ.FieldByName("id") != nil {
		// The user may hold the "id" key for an unrelated field; the merged
		// spec then takes the nearest free key so neither entry is lost.
		idKey := "id"
		for {
			if _, taken := cfg[idKey]; !taken {
				break
			}
			idKey += "_"
		}
		specs[idKey] = Spec{Title: GuessTitle("id"), Require: Requirement{Field: "id"}}
		order = append(order, idKey)
	}

	keys := make([]string, 0, len(cfg))
	for key := range cfg {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		spec := cfg[key]
		if spec.Require.Field == "" {
			return nil, nil, schema.Configf("field spec %q names no field", key)
		}
		if typ.FieldByName(spec.Require.Field) == nil {
			return nil, nil, schema.Configf(
				"field spec %q requires field %q which does not exist on type %q",
				key, spec.Require.Field, typ.Name)
		}
		if spec.Title == "" {
			spec.Title = GuessTitle(spec.Require.Field)
		}
		specs[key] = spec
		order = append(order, key)
	}
	return specs, order, nil
}

// derive selects all scalar-like fields of typ, titled by a guess from the
// field name, priority names first.
func derive(typ *schema.Type) (Specs, []string, error) {
	scalarLike := func(f *schema.Field) bool {
		ref := f.Type
		if ref == nil {
			return false
		}
		if ref.Kind == schema.TypeKindScalar {
			return true
		}
		return ref.Kind == schema.TypeKindNonNull && ref.OfType != nil &&
			ref.OfType.Kind == schema.TypeKindScalar
	}

	specs := make(Specs)
	order := []string{}
	emit := func(name string) {
		specs[name] = Spec{Title: GuessTitle(name), Require: Requirement{Field: name}}
		order = append(order, name)
	}

	emitted := make(map[string]bool)
	for _, name := range priorityFields {
		if f := typ.FieldByName(name); f != nil && scalarLike(f) {
			emit(name)
			emitted[name] = true
		}
	}
	for _, f := range typ.Fields {
		if emitted[f.Name] || !scalarLike(f) {
			continue
		}
		emit(f.Name)
	}
	if len(order) == 0 {
		return nil, nil, schema.Configf("type %q has no scalar fields to derive specs from", typ.Name)
	}
	return specs, order, nil
}

// GuessTitle produces a human-readable title from a snake_case field name:
// "display_name" becomes "Display Name". The word "id" is upcased.
func GuessTitle(name string) string {
	words := strings.Split(name, "_")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if w == "id" {
			out = append(out, "ID")
			continue
		}
		out = append(out, strings.ToUpper(w[:1])+w[1:])
	}
	return strings.Join(out, " ")
}
