/*
balance.go - Per-employee leave balance store

PURPOSE:
  The sole authority for leave balances. Applications record the duration
  they consume; they never carry a derived balance that could drift.

INVARIANTS:
  - Balances are non-negative after any committed adjustment. A deduction
    that would cross zero is rejected before commit, leaving the balance
    unchanged (all-or-nothing).
  - At most one mutation is in flight at a time; reads see either the state
    before or after an adjustment, never a partial update.
*/
package leave

import (
	"sync"

	"github.com/shopspring/decimal"
)

// BalanceStore holds the leave balances for all employees.
type BalanceStore struct {
	mu       sync.RWMutex
	balances map[string]*LeaveBalance
}

// NewBalanceStore creates an empty store.
func NewBalanceStore() *BalanceStore {
	return &BalanceStore{balances: make(map[string]*LeaveBalance)}
}

// Get returns a copy of the employee's balance, or ErrNotFound.
func (s *BalanceStore) Get(employeeID string) (LeaveBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.balances[employeeID]
	if !ok {
		return LeaveBalance{}, ErrNotFound
	}
	return *b, nil
}

// Set upserts an employee's balance wholesale. Used by bootstrap and the
// admin surface.
func (s *BalanceStore) Set(b LeaveBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := b
	s.balances[b.EmployeeID] = &copied
}

// Adjust applies delta (negative for consumption, positive for restoration)
// to one leave-type balance. If the result would be negative the balance is
// left untouched and an InsufficientBalanceError is returned.
func (s *BalanceStore) Adjust(employeeID string, t LeaveType, delta decimal.Decimal) (LeaveBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.balances[employeeID]
	if !ok {
		return LeaveBalance{}, ErrNotFound
	}

	next := b.Days(t).Add(delta)
	if next.IsNegative() {
		return LeaveBalance{}, &InsufficientBalanceError{
			EmployeeID: employeeID,
			LeaveType:  t,
			Available:  b.Days(t),
			Requested:  delta.Neg(),
		}
	}

	b.SetDays(t, next)
	return *b, nil
}

// Rollover moves the employee's remaining annual days into carry-over at
// period end, capped at maxCarryover; anything above the cap expires. The
// annual balance resets to zero and is expected to be re-granted for the new
// period by the admin surface.
func (s *BalanceStore) Rollover(employeeID string, maxCarryover decimal.Decimal) (LeaveBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.balances[employeeID]
	if !ok {
		return LeaveBalance{}, ErrNotFound
	}

	carried := b.Annual
	if carried.GreaterThan(maxCarryover) {
		carried = maxCarryover
	}
	if carried.IsNegative() {
		carried = decimal.Zero
	}

	b.CarryOver = b.CarryOver.Add(carried)
	b.Annual = decimal.Zero
	return *b, nil
}

// All returns a copy of every balance, for persistence and admin listings.
func (s *BalanceStore) All() []LeaveBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LeaveBalance, 0, len(s.balances))
	for _, b := range s.balances {
		out = append(out, *b)
	}
	return out
}
