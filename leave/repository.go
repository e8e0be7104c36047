package leave

import "context"

// =============================================================================
// PERSISTENCE COLLABORATOR
// =============================================================================

// Repository is the persistence surface the engine commits to after every
// successful mutation. It is a keyed-record store, not a query engine: the
// engine loads everything at startup and answers queries from memory.
//
// Implementations: store/sqlite (production), store/memory (tests).
type Repository interface {
	SaveApplication(ctx context.Context, app LeaveApplication) error
	ListApplications(ctx context.Context) ([]LeaveApplication, error)

	SaveBalance(ctx context.Context, b LeaveBalance) error
	ListBalances(ctx context.Context) ([]LeaveBalance, error)

	SaveHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, id string) error
	ListHolidays(ctx context.Context) ([]Holiday, error)
}
