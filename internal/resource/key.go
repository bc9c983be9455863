package resource

import (
	"encoding/json"
	"fmt"
)

// Key canonicalizes fetch parameters into a cache key. Object keys are
// serialized in sorted order, so two structurally distinct values with the
// same content share one cache slot. Nil params key as the empty object.
func Key(params any) (string, error) {
	if params == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("serializing resource params: %w", err)
	}
	// Round-trip through an untyped value: encoding/json emits map keys in
	// sorted order, which makes the serialization canonical regardless of
	// the params' Go type.
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("canonicalizing resource params: %w", err)
	}
	canon, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canonicalizing resource params: %w", err)
	}
	return string(canon), nil
}
