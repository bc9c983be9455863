package schema

import "fmt"

// ConfigError reports a mismatch between caller-supplied configuration (a
// traversal path, a field spec) and the introspected schema. It is always
// raised synchronously, before any network access, and indicates a caller
// bug rather than a runtime fault.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// Configf builds a ConfigError from a format string.
func Configf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}
