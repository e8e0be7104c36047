// Package memory provides an in-memory leave.Repository for testing and dev.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ist-hq/leave-engine/leave"
)

// Store keeps every record in maps. Safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	applications map[string]leave.LeaveApplication
	balances     map[string]leave.LeaveBalance
	holidays     map[string]leave.Holiday
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		applications: make(map[string]leave.LeaveApplication),
		balances:     make(map[string]leave.LeaveBalance),
		holidays:     make(map[string]leave.Holiday),
	}
}

func (s *Store) SaveApplication(_ context.Context, app leave.LeaveApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applications[app.ID] = app
	return nil
}

func (s *Store) ListApplications(_ context.Context) ([]leave.LeaveApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]leave.LeaveApplication, 0, len(s.applications))
	for _, app := range s.applications {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SaveBalance(_ context.Context, b leave.LeaveBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[b.EmployeeID] = b
	return nil
}

func (s *Store) ListBalances(_ context.Context) ([]leave.LeaveBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]leave.LeaveBalance, 0, len(s.balances))
	for _, b := range s.balances {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (s *Store) SaveHoliday(_ context.Context, h leave.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.holidays[h.ID] = h
	return nil
}

func (s *Store) DeleteHoliday(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.holidays, id)
	return nil
}

// Reset clears all records.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applications = make(map[string]leave.LeaveApplication)
	s.balances = make(map[string]leave.LeaveBalance)
	s.holidays = make(map[string]leave.Holiday)
	return nil
}

func (s *Store) ListHolidays(_ context.Context) ([]leave.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]leave.Holiday, 0, len(s.holidays))
	for _, h := range s.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
