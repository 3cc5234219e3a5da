// Package apierr defines error types that are reused across the engine
// packages. These sentinel and typed values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrAuthMissing indicates that an operation requiring a
// resolved backend identity was attempted without one, while a
// NetworkError wraps a transport or HTTP-level failure talking to one
// of the downstream services.
package apierr

import (
	"errors"
	"fmt"
)

// ErrAuthMissing is returned when an operation that requires a resolved
// user identity is invoked without one. The check happens before any
// network call is issued. Handlers should translate this into an HTTP
// 401 response.
var ErrAuthMissing = errors.New("auth missing: no resolved user identity")

// ErrNotFound is returned when a referenced transaction or ticket does
// not exist downstream. Handlers should translate this into an HTTP
// 404 response.
var ErrNotFound = errors.New("not found")

// NetworkError reports a transport or HTTP failure against one of the
// downstream services. Status is the HTTP status code when a response
// was received, zero otherwise.
type NetworkError struct {
	Op     string // logical operation, e.g. "inventory.lock"
	URL    string // request URL
	Status int    // HTTP status code, 0 when the request never completed
	Err    error  // underlying transport error, may be nil
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s returned status %d", e.Op, e.URL, e.Status)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports a caller-supplied parameter that is out of
// range, such as a quantity exceeding availability. Handlers should
// translate this into an HTTP 422 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
