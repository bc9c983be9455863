package transport

import (
	"fmt"
	"strings"
)

// FetchError is a failed GraphQL fetch: a transport fault or a non-empty
// errors list in the response. The resource cache stores it verbatim in the
// Error state; it is retryable only through explicit invalidation.
type FetchError struct {
	Query    string
	Messages []string
	cause    error
}

func (e *FetchError) Error() string {
	reason := strings.Join(e.Messages, "; ")
	if reason == "" && e.cause != nil {
		reason = e.cause.Error()
	}
	return fmt.Sprintf("error fetching GraphQL query: %s\nquery:\n%s", reason, e.Query)
}

func (e *FetchError) Unwrap() error { return e.cause }
