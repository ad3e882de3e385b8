package domain

import "errors"

// Lifecycle precondition violations. These are expected results, returned
// to the presentation layer as typed errors, never faults.
var (
	ErrTooManyOpenTickets = errors.New("requester has too many open tickets")
	ErrNotOpen            = errors.New("ticket is not open")
	ErrAlreadyAssigned    = errors.New("ticket is already assigned to a mentor")
	ErrNotYourTicket      = errors.New("ticket is assigned to a different mentor")
	ErrAlreadyClosed      = errors.New("ticket is already closed")
	ErrForbidden          = errors.New("caller may not perform this operation")
)

// Absence and infrastructure signals.
var (
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("stored state did not match expectation")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyInUse  = errors.New("email already registered")
	ErrAccountDeactivated = errors.New("account deactivated")
)
