// Package domainerrors defines the coded error type shared by services and
// transport. Services create errors with New/Wrap; transport translates codes
// to HTTP statuses and passes the message through verbatim, since the message
// text is part of the operation contract.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure for callers. Codes are stable; messages are not.
type Code string

const (
	// CodeNotFound: the addressed transaction, document, or payment does not exist.
	CodeNotFound Code = "not_found"
	// CodeInvalidState: operation not legal in the transaction's current phase.
	CodeInvalidState Code = "invalid_state"
	// CodeInvalidInput: bad argument or an already-consumed one-way flag
	// (re-verify, re-confirm, duplicate escrow open, non-positive amount).
	CodeInvalidInput Code = "invalid_input"
	// CodeConflict: operation against a closed transaction (cancel on
	// COMPLETED, dispute on COMPLETED/CANCELLED).
	CodeConflict Code = "conflict"

	CodeUnauthorized Code = "unauthorized"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// DomainError carries a code plus a caller-facing message. It wraps an
// optional cause for errors.Is/As chains.
type DomainError struct {
	Code    Code
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.cause }

// New creates a coded error with a fixed message.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return &DomainError{Code: code, Message: message, cause: err}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors so transport never guesses.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto its transport-level status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidState, CodeInvalidInput:
		return http.StatusBadRequest
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
