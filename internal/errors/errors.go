// Package errors defines the typed domain errors returned by the API.
// Every error body carries a machine-readable code so clients can
// branch without string matching.
package errors

import "fmt"

// DomainError is a typed, client-visible error. Status is the HTTP
// status the handler layer should respond with; Retryable marks errors
// the client may meaningfully retry (after RetryAfter seconds when set).
type DomainError struct {
	Code       string `json:"type"`
	Message    string `json:"error"`
	Status     int    `json:"-"`
	Retryable  bool   `json:"retryable,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches by code so wrapped domain errors compare with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// ErrInternal is the opaque 500 returned when nothing more specific
// applies. The underlying cause is logged server-side, never sent.
var ErrInternal = &DomainError{
	Code:    "INTERNAL",
	Message: "internal server error",
	Status:  500,
}
