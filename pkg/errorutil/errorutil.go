package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hackdesk/helpdesk-service/internal/domain"
)

// DomainError standardizes application errors for the HTTP layer.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
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

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// sentinelMappings translates lifecycle precondition violations into
// user-facing codes. Every validation error names the precondition that
// failed; infrastructure errors stay generic.
var sentinelMappings = []struct {
	sentinel error
	code     string
	message  string
	status   int
}{
	{domain.ErrTooManyOpenTickets, "TOO_MANY_OPEN_TICKETS", "you already have the maximum number of open tickets", http.StatusConflict},
	{domain.ErrNotOpen, "NOT_OPEN", "ticket is not open", http.StatusConflict},
	{domain.ErrAlreadyAssigned, "ALREADY_ASSIGNED", "ticket is already assigned to a mentor", http.StatusConflict},
	{domain.ErrNotYourTicket, "NOT_YOUR_TICKET", "ticket is assigned to a different mentor", http.StatusForbidden},
	{domain.ErrAlreadyClosed, "ALREADY_CLOSED", "ticket is already closed", http.StatusConflict},
	{domain.ErrForbidden, "FORBIDDEN", "you may not perform this operation", http.StatusForbidden},
	{domain.ErrInvalidCredentials, "UNAUTHORIZED", "invalid credentials", http.StatusUnauthorized},
	{domain.ErrEmailAlreadyInUse, "CONFLICT", "email already registered", http.StatusConflict},
	{domain.ErrAccountDeactivated, "FORBIDDEN", "account deactivated", http.StatusForbidden},
}

// ToDomainError converts any error into a DomainError, mapping domain
// sentinels to their codes and everything else to a generic 5xx.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	for _, m := range sentinelMappings {
		if errors.Is(err, m.sentinel) {
			return &DomainError{Code: m.code, Message: m.message, HTTPStatus: m.status, Err: err}
		}
	}
	if errors.Is(err, domain.ErrNotFound) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return &DomainError{
			Code:       "STORE_UNAVAILABLE",
			Message:    "service temporarily unavailable, try again",
			HTTPStatus: http.StatusServiceUnavailable,
			Err:        err,
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
