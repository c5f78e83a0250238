// Package errs defines the sentinel errors and error types shared across
// the tsline packages.
//
// Sentinels are compared with errors.Is; call sites wrap them with
// fmt.Errorf("%w: ...") to attach detail. ClientError and ServerError carry
// server-reported failures and are extracted with errors.As.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTimestamp indicates a point time that is not an integer
	// epoch, a parseable date/time string, or a time.Time.
	ErrInvalidTimestamp = errors.New("tsline: invalid timestamp value")

	// ErrInvalidPrecision indicates a precision string outside n/u/ms/s/m/h.
	ErrInvalidPrecision = errors.New("tsline: invalid precision")

	// ErrInvalidAddress indicates a server address that is not a usable
	// http or https URL.
	ErrInvalidAddress = errors.New("tsline: invalid server address")

	// ErrNoViableServer indicates that every host of a cluster client
	// failed with a server or network error.
	ErrNoViableServer = errors.New("tsline: no viable server")

	// ErrClosed indicates a write on a client that has been closed.
	ErrClosed = errors.New("tsline: client is closed")
)

// ClientError is a failure the server attributes to the request: an HTTP 4xx
// status, or an "error" field embedded in an otherwise successful query
// response. Retrying the same request elsewhere cannot succeed.
type ClientError struct {
	// Code is the HTTP status code, or 0 when the error was embedded in a
	// response body rather than signaled by the status line.
	Code int

	// Message is the server-reported error text.
	Message string
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%d: %s", e.Code, e.Message)
	}

	return e.Message
}

// ServerError is a failure on the server side (HTTP 5xx). Another host of a
// cluster may be able to serve the same request.
type ServerError struct {
	// Code is the HTTP status code.
	Code int

	// Message is the server-reported error text, or the raw body when the
	// response carried no structured error.
	Message string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%d: %s", e.Code, e.Message)
	}

	return e.Message
}
