/*
ledger.go - Leave application ledger and lifecycle state machine

PURPOSE:
  The authoritative collection of leave applications. Every application is
  created here in pending state and mutated only through the transition
  operations below.

STATE MACHINE:
  pending -> approved   (manager decision, may carry notes)
  pending -> rejected   (manager decision, may carry notes)
  pending -> cancelled  (employee withdrawal)

  approved, rejected and cancelled are terminal: no transition leaves them.
  Applications are never deleted, only marked cancelled.

CONCURRENCY:
  A single mutex serializes mutations, giving at-most-one in-flight change
  per application. Reads return copies so callers can never alias ledger
  state.

SEE ALSO:
  - policy.go: the Engine that validates drafts before they enter the ledger
  - balance.go: balance effects of the approved transition live in the Engine
*/
package leave

import (
	"sort"
	"sync"
	"time"
)

// Ledger owns all LeaveApplication records.
type Ledger struct {
	mu    sync.RWMutex
	byID  map[string]*LeaveApplication
	order []string // insertion order, for stable listings
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{byID: make(map[string]*LeaveApplication)}
}

// Add inserts a new application. The Engine is the only expected caller;
// drafts must already be validated.
func (l *Ledger) Add(app LeaveApplication) {
	l.mu.Lock()
	defer l.mu.Unlock()

	copied := app
	if _, exists := l.byID[app.ID]; !exists {
		l.order = append(l.order, app.ID)
	}
	l.byID[app.ID] = &copied
}

// Get returns a copy of an application, or ErrNotFound.
func (l *Ledger) Get(id string) (LeaveApplication, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	app, ok := l.byID[id]
	if !ok {
		return LeaveApplication{}, ErrNotFound
	}
	return *app, nil
}

// SetStatus transitions an application from pending to approved or rejected,
// recording approver notes and identity when given. Any other source or
// target status is an InvalidTransitionError.
func (l *Ledger) SetStatus(id string, status Status, notes, approverID string) (LeaveApplication, error) {
	if status != StatusApproved && status != StatusRejected {
		cur, err := l.Get(id)
		if err != nil {
			return LeaveApplication{}, err
		}
		return LeaveApplication{}, &InvalidTransitionError{ApplicationID: id, From: cur.Status, To: status}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	app, ok := l.byID[id]
	if !ok {
		return LeaveApplication{}, ErrNotFound
	}
	if app.Status != StatusPending {
		return LeaveApplication{}, &InvalidTransitionError{ApplicationID: id, From: app.Status, To: status}
	}

	app.Status = status
	if notes != "" {
		app.ApproverNotes = notes
	}
	if approverID != "" {
		app.ApprovedBy = approverID
	}
	app.UpdatedAt = time.Now().UTC()
	return *app, nil
}

// Cancel transitions an application from pending to cancelled. Cancelling an
// already-decided application is not a modeled operation.
func (l *Ledger) Cancel(id string) (LeaveApplication, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	app, ok := l.byID[id]
	if !ok {
		return LeaveApplication{}, ErrNotFound
	}
	if app.Status != StatusPending {
		return LeaveApplication{}, &InvalidTransitionError{ApplicationID: id, From: app.Status, To: StatusCancelled}
	}

	app.Status = StatusCancelled
	app.UpdatedAt = time.Now().UTC()
	return *app, nil
}

// =============================================================================
// READ-ONLY QUERIES
// =============================================================================

// All returns every application in insertion order.
func (l *Ledger) All() []LeaveApplication {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]LeaveApplication, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.byID[id])
	}
	return out
}

// ByEmployee returns an employee's applications in insertion order.
func (l *Ledger) ByEmployee(employeeID string) []LeaveApplication {
	return l.filter(func(a *LeaveApplication) bool { return a.EmployeeID == employeeID })
}

// ByStatus returns applications with the given status.
func (l *Ledger) ByStatus(status Status) []LeaveApplication {
	return l.filter(func(a *LeaveApplication) bool { return a.Status == status })
}

// Pending returns the applications awaiting a decision, oldest first.
func (l *Ledger) Pending() []LeaveApplication {
	apps := l.ByStatus(StatusPending)
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].CreatedAt.Before(apps[j].CreatedAt)
	})
	return apps
}

// OverlappingDate returns applications whose date range includes day. Used by
// calendar rendering.
func (l *Ledger) OverlappingDate(day Date) []LeaveApplication {
	return l.filter(func(a *LeaveApplication) bool { return a.Overlaps(day) })
}

func (l *Ledger) filter(keep func(*LeaveApplication) bool) []LeaveApplication {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []LeaveApplication
	for _, id := range l.order {
		if app := l.byID[id]; keep(app) {
			out = append(out, *app)
		}
	}
	return out
}
