package leave_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ist-hq/leave-engine/leave"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func pendingApp(id, employeeID string, start, end leave.Date, createdAt time.Time) leave.LeaveApplication {
	return leave.LeaveApplication{
		ID:         id,
		EmployeeID: employeeID,
		LeaveType:  leave.Annual,
		StartDate:  start,
		EndDate:    end,
		Status:     leave.StatusPending,
		Duration:   decimal.NewFromInt(int64(start.DaysUntil(end) + 1)),
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

// =============================================================================
// STATE MACHINE TESTS
// =============================================================================

func TestLedger_ApprovePending(t *testing.T) {
	ledger := leave.NewLedger()
	ledger.Add(pendingApp("app-1", "emp-1", date(2025, time.June, 2), date(2025, time.June, 6), time.Now()))

	got, err := ledger.SetStatus("app-1", leave.StatusApproved, "ok", "mgr-1")
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, got.Status)
	assert.Equal(t, "ok", got.ApproverNotes)
	assert.Equal(t, "mgr-1", got.ApprovedBy)
}

func TestLedger_DoubleApproveRejected(t *testing.T) {
	// GIVEN: An already-approved application
	// WHEN: Approving it again
	// THEN: InvalidTransitionError, approved is terminal

	ledger := leave.NewLedger()
	ledger.Add(pendingApp("app-1", "emp-1", date(2025, time.June, 2), date(2025, time.June, 6), time.Now()))

	_, err := ledger.SetStatus("app-1", leave.StatusApproved, "", "")
	require.NoError(t, err)

	_, err = ledger.SetStatus("app-1", leave.StatusApproved, "", "")
	var transition *leave.InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, leave.StatusApproved, transition.From)
	assert.Equal(t, leave.StatusApproved, transition.To)
}

func TestLedger_RejectAfterRejectFails(t *testing.T) {
	ledger := leave.NewLedger()
	ledger.Add(pendingApp("app-1", "emp-1", date(2025, time.June, 2), date(2025, time.June, 6), time.Now()))

	_, err := ledger.SetStatus("app-1", leave.StatusRejected, "no", "mgr-1")
	require.NoError(t, err)

	_, err = ledger.SetStatus("app-1", leave.StatusRejected, "no again", "mgr-1")
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)
}

func TestLedger_CancelAfterApproveFails(t *testing.T) {
	ledger := leave.NewLedger()
	ledger.Add(pendingApp("app-1", "emp-1", date(2025, time.June, 2), date(2025, time.June, 6), time.Now()))

	_, err := ledger.SetStatus("app-1", leave.StatusApproved, "", "")
	require.NoError(t, err)

	_, err = ledger.Cancel("app-1")
	var transition *leave.InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, leave.StatusApproved, transition.From)
	assert.Equal(t, leave.StatusCancelled, transition.To)
}

func TestLedger_PendingIsNotATarget(t *testing.T) {
	// Nothing transitions back to pending, not even pending itself.
	ledger := leave.NewLedger()
	ledger.Add(pendingApp("app-1", "emp-1", date(2025, time.June, 2), date(2025, time.June, 6), time.Now()))

	_, err := ledger.SetStatus("app-1", leave.StatusPending, "", "")
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)
}

func TestLedger_UnknownID(t *testing.T) {
	ledger := leave.NewLedger()

	_, err := ledger.Get("missing")
	assert.ErrorIs(t, err, leave.ErrNotFound)

	_, err = ledger.SetStatus("missing", leave.StatusApproved, "", "")
	assert.ErrorIs(t, err, leave.ErrNotFound)

	_, err = ledger.Cancel("missing")
	assert.ErrorIs(t, err, leave.ErrNotFound)
}

func TestLedger_TransitionBumpsUpdatedAt(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	ledger := leave.NewLedger()
	ledger.Add(pendingApp("app-1", "emp-1", date(2025, time.June, 2), date(2025, time.June, 6), created))

	got, err := ledger.SetStatus("app-1", leave.StatusApproved, "", "")
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(created))
	assert.Equal(t, created, got.CreatedAt)
}

func TestLedger_CancelledNeverDeleted(t *testing.T) {
	ledger := leave.NewLedger()
	ledger.Add(pendingApp("app-1", "emp-1", date(2025, time.June, 2), date(2025, time.June, 6), time.Now()))

	_, err := ledger.Cancel("app-1")
	require.NoError(t, err)

	got, err := ledger.Get("app-1")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, got.Status)
	assert.Len(t, ledger.All(), 1)
}

// =============================================================================
// QUERY TESTS
// =============================================================================

func TestLedger_ByEmployee(t *testing.T) {
	ledger := leave.NewLedger()
	ledger.Add(pendingApp("app-1", "emp-1", date(2025, time.June, 2), date(2025, time.June, 6), time.Now()))
	ledger.Add(pendingApp("app-2", "emp-2", date(2025, time.June, 2), date(2025, time.June, 6), time.Now()))
	ledger.Add(pendingApp("app-3", "emp-1", date(2025, time.July, 7), date(2025, time.July, 11), time.Now()))

	got := ledger.ByEmployee("emp-1")
	require.Len(t, got, 2)
	assert.Equal(t, "app-1", got[0].ID)
	assert.Equal(t, "app-3", got[1].ID)
}

func TestLedger_PendingSortedOldestFirst(t *testing.T) {
	now := time.Now()
	ledger := leave.NewLedger()
	ledger.Add(pendingApp("app-new", "emp-1", date(2025, time.June, 2), date(2025, time.June, 6), now))
	ledger.Add(pendingApp("app-old", "emp-2", date(2025, time.June, 2), date(2025, time.June, 6), now.Add(-time.Hour)))
	ledger.Add(pendingApp("app-decided", "emp-3", date(2025, time.June, 2), date(2025, time.June, 6), now.Add(-2*time.Hour)))

	_, err := ledger.SetStatus("app-decided", leave.StatusApproved, "", "")
	require.NoError(t, err)

	got := ledger.Pending()
	require.Len(t, got, 2)
	assert.Equal(t, "app-old", got[0].ID)
	assert.Equal(t, "app-new", got[1].ID)
}

func TestLedger_OverlappingDate(t *testing.T) {
	ledger := leave.NewLedger()
	ledger.Add(pendingApp("app-1", "emp-1", date(2025, time.June, 2), date(2025, time.June, 6), time.Now()))
	ledger.Add(pendingApp("app-2", "emp-2", date(2025, time.June, 9), date(2025, time.June, 13), time.Now()))

	got := ledger.OverlappingDate(date(2025, time.June, 4))
	require.Len(t, got, 1)
	assert.Equal(t, "app-1", got[0].ID)

	// Boundary days are included
	got = ledger.OverlappingDate(date(2025, time.June, 9))
	require.Len(t, got, 1)
	assert.Equal(t, "app-2", got[0].ID)

	assert.Empty(t, ledger.OverlappingDate(date(2025, time.June, 7)))
}

func TestLedger_ReadsReturnCopies(t *testing.T) {
	ledger := leave.NewLedger()
	ledger.Add(pendingApp("app-1", "emp-1", date(2025, time.June, 2), date(2025, time.June, 6), time.Now()))

	got, err := ledger.Get("app-1")
	require.NoError(t, err)
	got.Status = leave.StatusApproved

	again, err := ledger.Get("app-1")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, again.Status, "mutating a returned copy must not affect the ledger")
}
