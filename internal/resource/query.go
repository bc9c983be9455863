package resource

import (
	"context"
	"encoding/json"
	"fmt"

	transport "github.com/MechanicalRabbit/RexDB/internal/transport"
)

// QueryConfig defines a resource or mutation whose fetch posts a GraphQL
// query (typically a printed synthesizer document) to an endpoint.
type QueryConfig[V any] struct {
	Name   string
	Client *transport.Client
	// Query is the GraphQL document text; params become its variables.
	Query string
	// Map decodes the raw data object into V. When nil the data object is
	// unmarshaled into V directly.
	Map    func(data json.RawMessage) (V, error)
	Policy Policy
}

// DefineQuery creates a resource whose fetch runs cfg.Query over the
// transport client. Reported GraphQL errors fail the fetch with a
// *transport.FetchError.
func DefineQuery[V any](reg *Registry, cfg QueryConfig[V]) *Resource[V] {
	return Define(reg, Config[V]{
		Name:   cfg.Name,
		Fetch:  cfg.fetch(),
		Policy: cfg.Policy,
	})
}

func (cfg QueryConfig[V]) fetch() func(ctx context.Context, params any) (V, error) {
	if cfg.Client == nil {
		panic("resource: QueryConfig.Client is nil")
	}
	return func(ctx context.Context, params any) (V, error) {
		var zero V
		vars, err := toVariables(params)
		if err != nil {
			return zero, err
		}
		data, err := cfg.Client.Do(ctx, cfg.Query, vars)
		if err != nil {
			return zero, err
		}
		if cfg.Map != nil {
			return cfg.Map(data)
		}
		var v V
		if err := json.Unmarshal(data, &v); err != nil {
			return zero, fmt.Errorf("decoding GraphQL data: %w", err)
		}
		return v, nil
	}
}

// toVariables coerces arbitrary params into a GraphQL variables object.
func toVariables(params any) (map[string]any, error) {
	if params == nil {
		return nil, nil
	}
	if m, ok := params.(map[string]any); ok {
		return m, nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("serializing query variables: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("query params must serialize to an object: %w", err)
	}
	return m, nil
}
