package introspection

import (
	"encoding/json"
	"fmt"

	schema "github.com/MechanicalRabbit/RexDB/internal/schema"
)

// payload mirrors the JSON shape of an introspection result. The decoder
// accepts either a full response body ({"data": {"__schema": ...}}) or the
// bare data object ({"__schema": ...}).
type payload struct {
	Data   *body `json:"data"`
	Schema *root `json:"__schema"`
}

type body struct {
	Schema *root `json:"__schema"`
}

type root struct {
	QueryType    *namedRef      `json:"queryType"`
	MutationType *namedRef      `json:"mutationType"`
	Types        []*schema.Type `json:"types"`
}

type namedRef struct {
	Name string `json:"name"`
}

// Decode parses an introspection response into a Schema.
func Decode(data []byte) (*schema.Schema, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding introspection result: %w", err)
	}
	r := p.Schema
	if r == nil && p.Data != nil {
		r = p.Data.Schema
	}
	if r == nil {
		return nil, fmt.Errorf("introspection result has no __schema object")
	}
	s := &schema.Schema{Types: r.Types}
	if r.QueryType != nil {
		s.QueryType = r.QueryType.Name
	}
	if r.MutationType != nil {
		s.MutationType = r.MutationType.Name
	}
	return s, nil
}
