package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure by where it occurred.
type Kind string

const (
	KindNetwork    Kind = "NETWORK"    // transport/connection failure, no response
	KindHTTP       Kind = "HTTP"       // non-2xx status from the backend
	KindDecode     Kind = "DECODE"     // malformed response body
	KindValidation Kind = "VALIDATION" // client-side precondition failed
)

// Error is a classified failure returned by the API client and flows.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status for KindHTTP, 0 otherwise
	Message string
	Detail  string // server-provided detail text, if any
	Err     error  // underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewNetwork classifies a transport failure (connection refused, DNS, EOF).
func NewNetwork(op string, err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("%s: request failed", op),
		Err:     err,
	}
}

// NewHTTP classifies a non-2xx response. detail is the server's error text
// when the body carried one, empty otherwise.
func NewHTTP(op string, status int, detail string) *Error {
	return &Error{
		Kind:    KindHTTP,
		Status:  status,
		Message: fmt.Sprintf("%s: unexpected status %d", op, status),
		Detail:  detail,
	}
}

// NewDecode classifies an unparsable response body.
func NewDecode(op string, err error) *Error {
	return &Error{
		Kind:    KindDecode,
		Message: fmt.Sprintf("%s: malformed response", op),
		Err:     err,
	}
}

// NewValidation classifies a client-side precondition failure.
func NewValidation(msg string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: msg,
	}
}

// Is reports whether err (or anything it wraps) is an Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsUnauthorized reports whether err is an HTTP failure with status 401.
// The calendar flow reverts its connected belief on this and nothing else.
func IsUnauthorized(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == KindHTTP && e.Status == 401
	}
	return false
}

// DetailOf returns the server-provided detail text of an HTTP failure,
// falling back to the error's message.
func DetailOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		if e.Detail != "" {
			return e.Detail
		}
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
