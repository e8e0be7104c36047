/*
policy.go - Leave policy engine

PURPOSE:
  Validates a draft application against the leave-type policy table and the
  employee's balance, and drives the lifecycle transitions that have balance
  side effects. This is the only writer of the ledger and the balance store.

VALIDATION ORDER (first failure wins):
  1. Date range validity (end >= start)
  2. Leave-type requirements: reason checked before document
  3. Annual leave only: duration must fit the annual balance

BALANCE SEMANTICS:
  Nothing is deducted at submission. Approving an annual application debits
  the annual balance atomically with the status change; if the balance no
  longer covers the duration the approval fails and the application stays
  pending. Rejection and cancellation never touch balances. Once a decision
  is made the balance must not be adjusted twice - terminal states have no
  outgoing transitions, so there is no second adjustment path.

PERSISTENCE:
  Every successful mutation is committed to the Repository explicitly before
  returning. There is no implicit reactive persistence.
*/
package leave

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// POLICY TABLE
// =============================================================================

// typePolicy declares the extra fields a leave type requires at submission.
type typePolicy struct {
	requiresReason   bool
	requiresDocument bool
}

// policyTable is fixed: it mirrors the product's leave catalogue and is not
// configurable at runtime.
var policyTable = map[LeaveType]typePolicy{
	Annual:        {},
	Sick:          {requiresReason: true, requiresDocument: true},
	Compassionate: {requiresReason: true},
	Maternity:     {requiresDocument: true},
	Paternity:     {},
	Study:         {requiresReason: true, requiresDocument: true},
	Unpaid:        {requiresReason: true},
}

// =============================================================================
// DRAFT
// =============================================================================

// Draft is a not-yet-admitted leave application as submitted by the caller.
// Identity fields are advisory context from the caller; the engine never
// verifies roles.
type Draft struct {
	EmployeeID   string
	EmployeeName string
	LeaveType    LeaveType
	StartDate    Date
	EndDate      Date
	IsHalfDay    bool
	Reason       string
	Documents    []string
	Department   string
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine composes the duration calculator, balance store, holiday calendar
// and ledger. Construct one per process and pass it by reference; there is no
// ambient singleton.
type Engine struct {
	Balances *BalanceStore
	Ledger   *Ledger
	Calendar *Calendar

	// mu serializes mutating operations so a status check and its balance
	// effect commit as one step.
	mu   sync.Mutex
	repo Repository
}

// NewEngine creates an engine backed by repo. A nil repo is valid and keeps
// all state in memory only.
func NewEngine(repo Repository) *Engine {
	return &Engine{
		Balances: NewBalanceStore(),
		Ledger:   NewLedger(),
		Calendar: NewCalendar(nil),
		repo:     repo,
	}
}

// Load hydrates the engine from the repository. Call once at startup.
func (e *Engine) Load(ctx context.Context) error {
	if e.repo == nil {
		return nil
	}

	apps, err := e.repo.ListApplications(ctx)
	if err != nil {
		return err
	}
	for _, a := range apps {
		e.Ledger.Add(a)
	}

	balances, err := e.repo.ListBalances(ctx)
	if err != nil {
		return err
	}
	for _, b := range balances {
		e.Balances.Set(b)
	}

	holidays, err := e.repo.ListHolidays(ctx)
	if err != nil {
		return err
	}
	for _, h := range holidays {
		e.Calendar.Add(h)
	}
	return nil
}

// Submit validates a draft and, on success, admits it to the ledger in
// pending state. Failures are typed: ErrInvalidRange, MissingFieldError,
// InsufficientBalanceError.
func (e *Engine) Submit(ctx context.Context, d Draft) (LeaveApplication, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !d.LeaveType.Valid() {
		return LeaveApplication{}, ErrInvalidLeaveType
	}
	if d.EndDate.Before(d.StartDate) {
		return LeaveApplication{}, ErrInvalidRange
	}

	policy := policyTable[d.LeaveType]
	if policy.requiresReason && d.Reason == "" {
		return LeaveApplication{}, &MissingFieldError{Field: "reason", LeaveType: d.LeaveType}
	}
	if policy.requiresDocument && len(d.Documents) == 0 {
		return LeaveApplication{}, &MissingFieldError{Field: "document", LeaveType: d.LeaveType}
	}

	duration, err := CalculateDuration(d.StartDate, d.EndDate, d.IsHalfDay, e.Calendar.All())
	if err != nil {
		return LeaveApplication{}, err
	}

	// Only annual leave is balance-checked at submission; other types follow
	// the product's catalogue and are admitted regardless of balance.
	if d.LeaveType == Annual {
		balance, err := e.Balances.Get(d.EmployeeID)
		if err != nil {
			return LeaveApplication{}, err
		}
		if duration.GreaterThan(balance.Annual) {
			return LeaveApplication{}, &InsufficientBalanceError{
				EmployeeID: d.EmployeeID,
				LeaveType:  Annual,
				Available:  balance.Annual,
				Requested:  duration,
			}
		}
	}

	now := time.Now().UTC()
	app := LeaveApplication{
		ID:           uuid.NewString(),
		EmployeeID:   d.EmployeeID,
		EmployeeName: d.EmployeeName,
		LeaveType:    d.LeaveType,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		IsHalfDay:    d.IsHalfDay,
		Reason:       d.Reason,
		Documents:    d.Documents,
		Status:       StatusPending,
		Duration:     duration,
		Department:   d.Department,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	e.Ledger.Add(app)
	if err := e.commitApplication(ctx, app); err != nil {
		return LeaveApplication{}, err
	}
	return app, nil
}

// Approve transitions a pending application to approved. For annual leave
// the recorded duration is debited from the annual balance in the same step;
// if the debit fails the application stays pending.
func (e *Engine) Approve(ctx context.Context, id, notes, approverID string) (LeaveApplication, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	app, err := e.Ledger.Get(id)
	if err != nil {
		return LeaveApplication{}, err
	}
	if app.Status != StatusPending {
		return LeaveApplication{}, &InvalidTransitionError{ApplicationID: id, From: app.Status, To: StatusApproved}
	}

	var balance *LeaveBalance
	if app.LeaveType == Annual {
		b, err := e.Balances.Adjust(app.EmployeeID, Annual, app.Duration.Neg())
		if err != nil {
			return LeaveApplication{}, err
		}
		balance = &b
	}

	updated, err := e.Ledger.SetStatus(id, StatusApproved, notes, approverID)
	if err != nil {
		// Unreachable while e.mu serializes writers; restore so the debit
		// cannot leak if that ever changes.
		if balance != nil {
			e.Balances.Adjust(app.EmployeeID, Annual, app.Duration)
		}
		return LeaveApplication{}, err
	}

	if balance != nil {
		if err := e.commitBalance(ctx, *balance); err != nil {
			return LeaveApplication{}, err
		}
	}
	if err := e.commitApplication(ctx, updated); err != nil {
		return LeaveApplication{}, err
	}
	return updated, nil
}

// Reject transitions a pending application to rejected. No balance effect:
// nothing was deducted at submission.
func (e *Engine) Reject(ctx context.Context, id, notes, approverID string) (LeaveApplication, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	updated, err := e.Ledger.SetStatus(id, StatusRejected, notes, approverID)
	if err != nil {
		return LeaveApplication{}, err
	}
	if err := e.commitApplication(ctx, updated); err != nil {
		return LeaveApplication{}, err
	}
	return updated, nil
}

// Cancel withdraws a pending application. Decided applications cannot be
// cancelled.
func (e *Engine) Cancel(ctx context.Context, id string) (LeaveApplication, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	updated, err := e.Ledger.Cancel(id)
	if err != nil {
		return LeaveApplication{}, err
	}
	if err := e.commitApplication(ctx, updated); err != nil {
		return LeaveApplication{}, err
	}
	return updated, nil
}

// =============================================================================
// ADMIN OPERATIONS
// =============================================================================

// SetBalance upserts an employee's balance record.
func (e *Engine) SetBalance(ctx context.Context, b LeaveBalance) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Balances.Set(b)
	return e.commitBalance(ctx, b)
}

// RolloverAnnual moves an employee's remaining annual days into carry-over,
// capped at maxCarryover.
func (e *Engine) RolloverAnnual(ctx context.Context, employeeID string, maxCarryover decimal.Decimal) (LeaveBalance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.Balances.Rollover(employeeID, maxCarryover)
	if err != nil {
		return LeaveBalance{}, err
	}
	if err := e.commitBalance(ctx, b); err != nil {
		return LeaveBalance{}, err
	}
	return b, nil
}

// AddHoliday registers a new public holiday.
func (e *Engine) AddHoliday(ctx context.Context, name string, date Date, national bool) (Holiday, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := Holiday{ID: uuid.NewString(), Name: name, Date: date, IsNational: national}
	e.Calendar.Add(h)
	if e.repo != nil {
		if err := e.repo.SaveHoliday(ctx, h); err != nil {
			return Holiday{}, err
		}
	}
	return h, nil
}

// RemoveHoliday deletes a holiday by id.
func (e *Engine) RemoveHoliday(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.Calendar.Remove(id) {
		return ErrNotFound
	}
	if e.repo != nil {
		return e.repo.DeleteHoliday(ctx, id)
	}
	return nil
}

// =============================================================================
// COMMIT HELPERS
// =============================================================================

func (e *Engine) commitApplication(ctx context.Context, app LeaveApplication) error {
	if e.repo == nil {
		return nil
	}
	return e.repo.SaveApplication(ctx, app)
}

func (e *Engine) commitBalance(ctx context.Context, b LeaveBalance) error {
	if e.repo == nil {
		return nil
	}
	return e.repo.SaveBalance(ctx, b)
}
