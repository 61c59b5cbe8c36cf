package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Response bodies existing clients match on.
const (
	UnauthenticatedBody = "Unauthorized access"
	ForbiddenMessage    = "forbidden access"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	// Body, when set, is written to the client verbatim instead of the error envelope.
	Body any
	Err  error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewUnauthenticated is returned when no credential was presented.
func NewUnauthenticated(reason string) error {
	return &DomainError{
		Code:       "UNAUTHENTICATED",
		Message:    reason,
		HTTPStatus: http.StatusUnauthorized,
		Body:       UnauthenticatedBody,
	}
}

// NewForbidden is returned for invalid or expired credentials and insufficient roles.
func NewForbidden(reason string) error {
	return &DomainError{
		Code:       "FORBIDDEN",
		Message:    reason,
		HTTPStatus: http.StatusForbidden,
		Body:       map[string]any{"message": ForbiddenMessage},
	}
}

// NewStoreUnavailable wraps a failed document store call.
func NewStoreUnavailable(err error) error {
	return &DomainError{
		Code:       "STORE_UNAVAILABLE",
		Message:    "document store unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsForbidden reports whether err renders as a 403.
func IsForbidden(err error) bool {
	de := ToDomainError(err)
	return de != nil && de.HTTPStatus == http.StatusForbidden
}
