package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a business-rule failure reported by the backend inside a
// well-formed envelope (ex: "username already taken"). The message is
// passed through verbatim to the caller; only specific flows (username
// availability) interpret it.
type Error struct {
	// StatusCode is the HTTP status of the failed call.
	StatusCode int
	// Message is the server-provided message, verbatim.
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// IsNotFound reports whether the backend said the resource is missing.
func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsConflict reports a uniqueness violation (taken username).
func (e *Error) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

// IsUnauthorized reports an invalid or expired credential.
func (e *Error) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// AsError unwraps err into an *Error when the failure came from the
// backend rather than from transport or validation.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// parseError extracts the server message from an error response body.
// The backend uses the same {message} envelope for failures; anything
// else falls back to the raw body.
func parseError(statusCode int, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return &Error{StatusCode: statusCode, Message: envelope.Message}
	}
	return &Error{StatusCode: statusCode, Message: string(body)}
}

// shapeError wraps an aggregated validation failure for a response that
// decoded but did not match its declared shape.
func shapeError(err error) error {
	return fmt.Errorf("data validation failed: %w", err)
}
