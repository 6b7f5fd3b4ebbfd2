// Package errors defines the structured errors surfaced by the API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a rejection kind. Codes are string-based so they serialize
// naturally into the response envelope.
type Code string

const (
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeConflict         Code = "CONFLICT"
	CodeInvalidReference Code = "INVALID_REFERENCE"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInternal         Code = "INTERNAL"
)

// ServiceError carries a rejection code, a human-readable message and the
// HTTP status it maps to at the handler boundary.
type ServiceError struct {
	Code       Code
	Message    string
	HTTPStatus int
	// Details holds field-level validation messages, when present.
	Details []string
	// Err is the wrapped cause. Never serialized to clients.
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// WithDetails appends field-level detail messages.
func (e *ServiceError) WithDetails(details ...string) *ServiceError {
	e.Details = append(e.Details, details...)
	return e
}

// Unauthenticated indicates a missing, malformed, expired or otherwise
// unverifiable credential.
func Unauthenticated(message string) *ServiceError {
	return &ServiceError{Code: CodeUnauthenticated, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// InvalidToken is the single rejection for every token verification failure.
// Malformed, expired and bad-signature tokens are deliberately
// indistinguishable to callers.
func InvalidToken(err error) *ServiceError {
	return &ServiceError{
		Code:       CodeUnauthenticated,
		Message:    "invalid token",
		HTTPStatus: http.StatusUnauthorized,
		Err:        err,
	}
}

// ValidationFailed indicates malformed or incomplete input.
func ValidationFailed(message string) *ServiceError {
	return &ServiceError{Code: CodeValidationFailed, Message: message, HTTPStatus: http.StatusBadRequest}
}

// Conflict indicates a uniqueness or referential-deletion guard violation.
func Conflict(message string) *ServiceError {
	return &ServiceError{Code: CodeConflict, Message: message, HTTPStatus: http.StatusBadRequest}
}

// InvalidReference indicates a dangling foreign reference.
func InvalidReference(message string) *ServiceError {
	return &ServiceError{Code: CodeInvalidReference, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NotFound indicates the requested entity does not exist.
func NotFound(message string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// Internal indicates an unexpected fault. The cause is logged, never exposed.
func Internal(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// GetServiceError extracts a *ServiceError from err's chain, or nil.
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}
