package api

import "errors"

// Error is a backend failure converted to a value. Code is the HTTP status
// when the failure came over the wire, zero otherwise.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds an Error with a message.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// ErrorMessage extracts the human-readable message from err, falling back to
// fallback when err carries nothing usable. Slices store the result in their
// Err field instead of propagating the error object.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
