// Package apperr holds the sentinel errors that handlers map to HTTP status codes.
package apperr

import "errors"

var (
	ErrValidation         = errors.New("invalid request")
	ErrUnauthorized       = errors.New("authorization token is required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Error carries a client-facing message on top of one of the sentinel kinds.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) error { return New(ErrValidation, message) }

func NotFound(message string) error { return New(ErrNotFound, message) }

func Forbidden(message string) error { return New(ErrForbidden, message) }

func Conflict(message string) error { return New(ErrConflict, message) }

// Message returns the client-facing message of err, or "" when err carries none.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
