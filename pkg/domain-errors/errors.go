// Package domainerrors provides coded errors for business-rule violations.
// Every rejected operation carries a Code so callers can branch on the
// invariant that blocked it, and a message operators can act on.
//
// Stores return sentinel errors (pkg/platform/sentinel) for infrastructure
// facts; services translate those into coded errors at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	CodeValidation            Code = "validation"
	CodeBadRequest            Code = "bad_request"
	CodeNotFound              Code = "not_found"
	CodeConflict              Code = "conflict"
	CodeDuplicateIdentity     Code = "duplicate_identity"
	CodeIdentitySoftDeleted   Code = "identity_soft_deleted"
	CodeQuotaExceeded         Code = "quota_exceeded"
	CodeInvalidRoleTransition Code = "invalid_role_transition"
	CodeHasDependents         Code = "has_dependents"
	CodeScopeMismatch         Code = "scope_mismatch"
	CodeInvariantViolation    Code = "invariant_violation"
	CodeForbidden             Code = "forbidden"
	CodeUnauthorized          Code = "unauthorized"
	CodeInternal              Code = "internal"
)

// Error is a coded domain error. It may wrap an underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal if err is not a
// domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the operator-facing message carried by err. Non-domain
// errors map to a generic message so internals never leak to callers.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// ToHTTPStatus maps a code to the status the HTTP layer should respond with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest, CodeInvariantViolation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeScopeMismatch:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeDuplicateIdentity, CodeIdentitySoftDeleted,
		CodeQuotaExceeded, CodeHasDependents:
		return http.StatusConflict
	case CodeInvalidRoleTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
