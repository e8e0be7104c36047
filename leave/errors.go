/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  All failure modes in one place. Core operations return these instead of
  raising; the HTTP layer translates them into status codes and messages.

ERROR CATEGORIES:
  1. Validation errors - bad date ranges, missing required fields
  2. Balance errors    - deduction would go negative
  3. Lifecycle errors  - illegal status transitions, unknown records

USAGE:
  Sentinels work with errors.Is, structured errors with errors.As:

    if errors.Is(err, leave.ErrInsufficientBalance) { ... }

    var missing *leave.MissingFieldError
    if errors.As(err, &missing) {
        fmt.Println(missing.Field, missing.LeaveType)
    }
*/
package leave

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when an application's end date precedes
	// its start date.
	ErrInvalidRange = errors.New("invalid range: end date before start date")

	// ErrMissingRequiredField is returned when a leave type's policy requires
	// a field (reason, document) that the draft does not carry.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInsufficientBalance is returned when a requested or deducted amount
	// exceeds the available balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidTransition is returned when a status change is not permitted
	// from the application's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound is returned for unknown application or employee ids.
	ErrNotFound = errors.New("not found")

	// ErrInvalidLeaveType is returned when a draft names an unknown leave type.
	ErrInvalidLeaveType = errors.New("invalid leave type")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingFieldError names the field a leave type's policy requires.
type MissingFieldError struct {
	Field     string // "reason" or "document"
	LeaveType LeaveType
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required for %s leave", e.Field, e.LeaveType)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingRequiredField }

// InsufficientBalanceError carries the available and requested amounts.
type InsufficientBalanceError struct {
	EmployeeID string
	LeaveType  LeaveType
	Available  decimal.Decimal
	Requested  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance for %s: available %s days, requested %s days",
		e.LeaveType, e.EmployeeID, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// InvalidTransitionError carries the current and attempted statuses.
type InvalidTransitionError struct {
	ApplicationID string
	From          Status
	To            Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("application %s: cannot transition from %s to %s",
		e.ApplicationID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrMissingRequiredField) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInvalidLeaveType)
}
