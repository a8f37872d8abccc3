// Package apierror provides the classified error taxonomy for the Meridian
// API client. Every failed request is classified exactly once, at the
// transport boundary; no other component re-derives HTTP semantics.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Kind classifies a failed request into the closed taxonomy.
type Kind string

const (
	KindNetwork      Kind = "NETWORK_ERROR"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindNotFound     Kind = "NOT_FOUND"
	KindValidation   Kind = "VALIDATION"
	KindServer       Kind = "SERVER_ERROR"
	KindUnknown      Kind = "UNKNOWN"
)

// Exit codes for CLI rendering.
const (
	ExitSuccess    = 0 // Operation completed successfully
	ExitGeneral    = 1 // Unknown/unhandled error
	ExitAuth       = 2 // Not authenticated, token expired
	ExitNotFound   = 4 // Resource doesn't exist
	ExitValidation = 5 // Request rejected by the server
)

// Error is the classified form of a failed API request.
type Error struct {
	Kind      Kind   `json:"kind"`
	Message   string `json:"message"`
	Status    int    `json:"status,omitempty"`
	Hint      string `json:"hint,omitempty"`
	Retryable bool   `json:"retryable"`

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// ExitCode maps the error kind to a CLI exit code.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindUnauthorized:
		return ExitAuth
	case KindNotFound:
		return ExitNotFound
	case KindValidation:
		return ExitValidation
	default:
		return ExitGeneral
	}
}

// Network creates an error for a request that received no response.
func Network(cause error) *Error {
	msg := "could not reach the server"
	if cause != nil {
		msg = fmt.Sprintf("could not reach the server: %s", cause.Error())
	}
	return &Error{
		Kind:      KindNetwork,
		Message:   msg,
		Hint:      "Check network connectivity and the configured server URL",
		Retryable: true,
		cause:     cause,
	}
}

// Decode creates an error for a 2xx response whose body could not be
// parsed as the declared result type.
func Decode(cause error) *Error {
	return &Error{
		Kind:    KindUnknown,
		Message: fmt.Sprintf("failed to decode response: %s", cause.Error()),
		cause:   cause,
	}
}

// serverMessage is the error envelope the backend uses for failures.
// Older endpoints use "error", newer ones use "message".
type serverMessage struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FromResponse classifies a non-2xx HTTP response. The body is consumed.
// The server-supplied message, when present, is carried verbatim.
func FromResponse(resp *http.Response) *Error {
	var msg string
	if resp.Body != nil {
		body, err := io.ReadAll(resp.Body)
		if err == nil && len(body) > 0 {
			var env serverMessage
			if json.Unmarshal(body, &env) == nil {
				if env.Error != "" {
					msg = env.Error
				} else if env.Message != "" {
					msg = env.Message
				}
			}
			if msg == "" {
				// Some endpoints return a bare string body.
				var s string
				if json.Unmarshal(body, &s) == nil && s != "" {
					msg = s
				}
			}
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("server returned %d", resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &Error{
			Kind:      KindUnauthorized,
			Message:   msg,
			Status:    resp.StatusCode,
			Hint:      "Re-authenticate with 'mctl login'",
			Retryable: false,
		}
	case resp.StatusCode == http.StatusNotFound:
		return &Error{
			Kind:      KindNotFound,
			Message:   msg,
			Status:    resp.StatusCode,
			Retryable: false,
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &Error{
			Kind:      KindValidation,
			Message:   msg,
			Status:    resp.StatusCode,
			Retryable: false,
		}
	case resp.StatusCode >= 500 && resp.StatusCode < 600:
		return &Error{
			Kind:      KindServer,
			Message:   msg,
			Status:    resp.StatusCode,
			Hint:      "The server failed to process the request; try again later",
			Retryable: true,
		}
	default:
		return &Error{
			Kind:    KindUnknown,
			Message: msg,
			Status:  resp.StatusCode,
		}
	}
}

// AsError returns the classified error inside err, or nil.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether err is a classified error of the given kind.
func IsKind(err error, kind Kind) bool {
	e := AsError(err)
	return e != nil && e.Kind == kind
}

// IsUnauthorized reports whether err is an Unauthorized classification.
func IsUnauthorized(err error) bool { return IsKind(err, KindUnauthorized) }

// IsNotFound reports whether err is a NotFound classification.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsValidation reports whether err is a Validation classification.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// FormatError returns the error formatted for the given output format.
// Supported formats: "json" for JSON output, anything else for human-readable text.
func FormatError(err *Error, outputFormat string) string {
	if outputFormat == "json" {
		data, jsonErr := json.MarshalIndent(err, "", "  ")
		if jsonErr != nil {
			return fmt.Sprintf(`{"kind":"%s","message":"%s"}`, err.Kind, err.Message)
		}
		return string(data)
	}

	output := fmt.Sprintf("Error [%s]: %s", err.Kind, err.Message)
	if err.Hint != "" {
		output += fmt.Sprintf("\nHint: %s", err.Hint)
	}
	return output
}

// PrintError prints the error to stderr in the appropriate format.
func PrintError(err *Error, outputFormat string) {
	fmt.Fprintln(os.Stderr, FormatError(err, outputFormat))
}
