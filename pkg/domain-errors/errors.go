// Package domainerrors provides coded errors for the ticket engine.
//
// Services attach a Code to every error they return so the transport layer
// can translate failures into HTTP statuses without string matching, and so
// callers can distinguish "not your ticket" from "counter busy" without
// depending on message text.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for callers and for HTTP translation.
type Code string

const (
	// CodeValidation marks malformed or missing input; the client must
	// correct and resubmit.
	CodeValidation Code = "validation"
	// CodeBadRequest marks a request that could not be parsed at all.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks an unknown service, branch, or ticket id.
	CodeNotFound Code = "not_found"
	// CodeNotAssigned marks an operator acting on a ticket that is not
	// bound to their counter. Not retryable without reassignment.
	CodeNotAssigned Code = "not_assigned"
	// CodeConflict marks a counter already serving another ticket.
	// Transient; safe to retry once the current service ends.
	CodeConflict Code = "conflict"
	// CodeUnauthorized marks a missing or invalid operator identity.
	CodeUnauthorized Code = "unauthorized"
	// CodeInvariantViolation marks a domain rule break detected by a model
	// constructor or transition check.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal marks infrastructure failures and exhausted retries.
	CodeInternal Code = "internal"
	// CodeTimeout marks a cancelled or deadline-exceeded operation.
	CodeTimeout Code = "timeout"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its reference HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotAssigned:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
