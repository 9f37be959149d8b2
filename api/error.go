package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// StatusTransport marks failures that happened before a response arrived
// (DNS, connection refused, malformed response body).
const StatusTransport = 0

// StatusTimeout is reported when the client-enforced deadline aborts the
// request, regardless of what the transport says.
const StatusTimeout = http.StatusRequestTimeout

const timeoutMessage = "Request timed out"

// Error is the single failure shape produced by this package.
//
// Status follows a fixed convention: 0 means the request never produced a
// response (Cause holds the transport error), 408 means the client-side
// timeout fired, anything else is the HTTP status reported by the server.
type Error struct {
	Method string
	URL    string

	// Status is 0 for transport failures, 408 for timeouts, otherwise the
	// HTTP status code of the response.
	Status int

	// Message is human readable. For server failures it is the body's
	// "message" field when the body was a JSON object carrying one,
	// otherwise "Request failed with status {code}".
	Message string

	// Data is the decoded response body of a failed request, kept for
	// diagnostics. Nil for transport failures.
	Data any

	// RawBody is a truncated copy of the failed response body.
	RawBody []byte

	// Cause is the underlying error, if any (transport error, context
	// cancellation, JSON decode failure).
	Cause error

	// Retryable indicates whether the configured retry policy considers
	// this failure safe to retry.
	Retryable bool
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "request failed"
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsTimeout reports whether err is the client-enforced timeout.
func IsTimeout(err error) bool {
	ae, ok := AsError(err)
	return ok && ae.Status == StatusTimeout && ae.Message == timeoutMessage
}

// IsTransport reports whether err is a transport-level failure (status 0).
func IsTransport(err error) bool {
	ae, ok := AsError(err)
	return ok && ae.Status == StatusTransport
}

// IsStatus reports whether err carries the given HTTP status.
func IsStatus(err error, code int) bool {
	ae, ok := AsError(err)
	return ok && ae.Status == code
}

func IsRetryable(err error) bool {
	ae, ok := AsError(err)
	return ok && ae.Retryable
}

// newTimeoutError reports a client-enforced deadline as the fixed 408 shape.
func newTimeoutError(method, url string, cause error) *Error {
	return &Error{
		Method:  method,
		URL:     url,
		Status:  StatusTimeout,
		Message: timeoutMessage,
		Cause:   cause,
	}
}

// newTransportError wraps a failure that produced no response.
func newTransportError(method, url string, cause error, retryable bool) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Method:    method,
		URL:       url,
		Status:    StatusTransport,
		Message:   msg,
		Cause:     cause,
		Retryable: retryable,
	}
}

// newStatusError builds the server-failure shape from a non-2xx response
// whose body has already been captured into raw.
func newStatusError(method, url string, status int, jsonBody bool, raw []byte, retryable bool) *Error {
	e := &Error{
		Method:    method,
		URL:       url,
		Status:    status,
		Message:   fmt.Sprintf("Request failed with status %d", status),
		RawBody:   raw,
		Retryable: retryable,
	}
	if jsonBody && len(raw) > 0 {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			e.Data = decoded
			if obj, ok := decoded.(map[string]any); ok {
				if msg, ok := obj["message"].(string); ok && msg != "" {
					e.Message = msg
				}
			}
		}
	}
	return e
}
