package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrBodyTooLarge is returned when a page response body exceeds the
	// configured size cap.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")
)

// ConfigError reports an invalid client configuration. It is returned
// synchronously from New, before any network activity.
type ConfigError struct {
	Option string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Option, e.Reason)
}

// StatusError reports a page response with status >= 300. The body has been
// drained and discarded by the time this error is returned.
type StatusError struct {
	StatusCode int
	Status     string
	Endpoint   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.Endpoint, e.Status)
}

// TransportError reports a network-level failure issuing or completing a
// page request.
type TransportError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error fetching %s: %v", e.Endpoint, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}
