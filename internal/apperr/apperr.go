package apperr

import "fmt"

// Kind classifies an application error for HTTP status mapping.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindInternal
)

// Error is a terminal request failure with an externally visible message.
// Fields carries per-field validation detail; Err holds the underlying
// cause and is logged, never serialized.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a 400 error with per-field detail.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// Authentication builds a 401 error.
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Authorization builds a 403 error.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound builds a 404 error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a 409 error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal builds a 500 error. The cause is kept for logging only; the
// message exposed to clients stays generic.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}
