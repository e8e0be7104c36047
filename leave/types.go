/*
Package leave implements the core of the leave-management system: leave
applications and their lifecycle, per-employee balances, the public-holiday
calendar, and the duration/policy rules that tie them together.

KEY CONCEPTS:
  - LeaveApplication: a request for time off with a pending → approved /
    rejected / cancelled lifecycle. Owned exclusively by the Ledger.
  - LeaveBalance: per-employee, per-leave-type day balances plus carry-over.
    The BalanceStore is the sole authority; applications only record the
    duration they consume, never a derived balance.
  - Holiday: a dated public holiday excluded from chargeable durations.
  - Engine: composes calculator, balances, and ledger to validate and admit
    new applications and to drive status transitions.

DESIGN PRINCIPLES:
  1. Explicit state: no ambient singletons; stores are constructed once and
     passed to whoever needs them.
  2. Precision: decimal.Decimal for day amounts (half days must be exact).
  3. Closed enumerations: leave types and statuses are fixed sets, validated
     at the boundary.
  4. Typed failures: every operation returns a tagged error, nothing panics
     across the package boundary.

SEE ALSO:
  - duration.go: chargeable-day calculation
  - policy.go: submission validation and the Engine
  - ledger.go: application lifecycle state machine
  - balance.go: balance store
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEAVE TYPE
// =============================================================================

// LeaveType is the closed set of leave categories.
type LeaveType string

const (
	Annual        LeaveType = "annual"
	Sick          LeaveType = "sick"
	Maternity     LeaveType = "maternity"
	Paternity     LeaveType = "paternity"
	Unpaid        LeaveType = "unpaid"
	Compassionate LeaveType = "compassionate"
	Study         LeaveType = "study"
)

// LeaveTypes lists every valid leave type.
var LeaveTypes = []LeaveType{Annual, Sick, Maternity, Paternity, Unpaid, Compassionate, Study}

// Valid reports whether t is a known leave type.
func (t LeaveType) Valid() bool {
	for _, lt := range LeaveTypes {
		if t == lt {
			return true
		}
	}
	return false
}

// =============================================================================
// STATUS - Application lifecycle
// =============================================================================

// Status is an application's lifecycle state. Pending is the only initial
// state; approved, rejected, and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool { return s != StatusPending }

// =============================================================================
// LEAVE APPLICATION
// =============================================================================

// LeaveApplication is a single leave request. Mutated only through the
// Ledger's transition operations; never deleted, only marked cancelled.
type LeaveApplication struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	LeaveType     LeaveType       `json:"leave_type"`
	StartDate     Date            `json:"start_date"`
	EndDate       Date            `json:"end_date"`
	IsHalfDay     bool            `json:"is_half_day"`
	Reason        string          `json:"reason,omitempty"`
	Documents     []string        `json:"documents,omitempty"`
	Status        Status          `json:"status"`
	Duration      decimal.Decimal `json:"duration"` // chargeable days, fixed at submission
	ApproverNotes string          `json:"approver_notes,omitempty"`
	ApprovedBy    string          `json:"approved_by,omitempty"`
	Department    string          `json:"department"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Overlaps reports whether the application's date range includes day.
func (a *LeaveApplication) Overlaps(day Date) bool {
	return !day.Before(a.StartDate) && !day.After(a.EndDate)
}

// =============================================================================
// LEAVE BALANCE
// =============================================================================

// LeaveBalance holds one day-count per leave type for an employee, plus days
// carried over from the prior period. Balances never go negative: a deduction
// that would cross zero is rejected before commit, not clamped after.
type LeaveBalance struct {
	EmployeeID    string          `json:"employee_id"`
	Annual        decimal.Decimal `json:"annual"`
	Sick          decimal.Decimal `json:"sick"`
	Maternity     decimal.Decimal `json:"maternity"`
	Paternity     decimal.Decimal `json:"paternity"`
	Unpaid        decimal.Decimal `json:"unpaid"`
	Compassionate decimal.Decimal `json:"compassionate"`
	Study         decimal.Decimal `json:"study"`
	CarryOver     decimal.Decimal `json:"carry_over"`
}

// Days returns the balance for a leave type.
func (b *LeaveBalance) Days(t LeaveType) decimal.Decimal {
	switch t {
	case Annual:
		return b.Annual
	case Sick:
		return b.Sick
	case Maternity:
		return b.Maternity
	case Paternity:
		return b.Paternity
	case Unpaid:
		return b.Unpaid
	case Compassionate:
		return b.Compassionate
	case Study:
		return b.Study
	}
	return decimal.Zero
}

// SetDays sets the balance for a leave type.
func (b *LeaveBalance) SetDays(t LeaveType, v decimal.Decimal) {
	switch t {
	case Annual:
		b.Annual = v
	case Sick:
		b.Sick = v
	case Maternity:
		b.Maternity = v
	case Paternity:
		b.Paternity = v
	case Unpaid:
		b.Unpaid = v
	case Compassionate:
		b.Compassionate = v
	case Study:
		b.Study = v
	}
}

// =============================================================================
// HOLIDAY
// =============================================================================

// Holiday is a public holiday. Immutable once created; looked up by exact
// calendar date when computing durations.
type Holiday struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Date       Date   `json:"date"`
	IsNational bool   `json:"is_national"`
}
