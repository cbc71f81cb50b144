package todoist

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any APIError carrying a 404 status.
var ErrNotFound = errors.New("not found")

// maxErrorBody bounds how much of a failed response body ends up in an error.
const maxErrorBody = 512

// APIError represents a non-2xx response from the Todoist REST API
type APIError struct {
	// StatusCode is the HTTP status returned by Todoist
	StatusCode int

	// Method and Path identify the failed request (path without query)
	Method string
	Path   string

	// Message is the (truncated) response body
	Message string

	// RequestID is the X-Request-Id sent with the request, if any
	RequestID string
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := fmt.Sprintf("todoist %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target is ErrNotFound and this is a 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsAuth reports whether Todoist rejected the credential.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// ConfigurationError is returned when no usable API token is available
type ConfigurationError struct {
	// Variable is the environment variable the token is read from
	Variable string

	// Err is the underlying cause, if any
	Err error
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s not found in environment. This token is required for the Todoist MCP server to function", e.Variable)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements the errors.Unwrap interface
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
