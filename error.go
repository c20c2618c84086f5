package bookshelf

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL      = "internal"
	EINVALID       = "invalid"
	ENOTFOUND      = "not_found"
	EMISCONFIGURED = "misconfigured"
	EINVALIDPATH   = "invalid_path"
	EUNAVAILABLE   = "unavailable"
	EUNAUTHORIZED  = "unauthorized"
	ERATELIMIT     = "rate_limit_exceeded"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string

	// err is the cause when the message was built with %w.
	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("bookshelf error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Errorf is a helper function to return an Error with a given code and
// formatted message. A %w verb in format wraps the matching argument.
func Errorf(code string, format string, args ...any) *Error {
	wrapped := fmt.Errorf(format, args...)
	return &Error{
		Code:    code,
		Message: wrapped.Error(),
		err:     errors.Unwrap(wrapped),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}
