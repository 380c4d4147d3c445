package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrTransport is returned when the exchange fails before a response
	// is received (DNS, connection refused, TLS handshake, timeout).
	ErrTransport = errors.New("transport error")

	// ErrHTTPStatus is returned when the backend responds with a non-2xx status.
	ErrHTTPStatus = errors.New("http status error")
)

// TransportError wraps a network-level failure. No HTTP response was received.
type TransportError struct {
	// Cause is the underlying error from the HTTP client.
	Cause error
}

// Error returns a human-readable description of the transport failure.
func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transport error: %v", e.Cause)
	}
	return "transport error"
}

// Unwrap returns the underlying error cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrTransport).
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// StatusError is returned for any non-2xx response. Detail carries the
// backend's human-readable explanation when one could be extracted from
// the JSON error body.
type StatusError struct {
	// Status is the HTTP status code.
	Status int
	// StatusText is the standard reason phrase for Status.
	StatusText string
	// Detail is the backend's "detail" field, or a templated fallback.
	Detail string
}

// Error returns the extracted detail, or the templated fallback message.
func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP error: %d %s", e.Status, e.StatusText)
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrHTTPStatus).
func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}
