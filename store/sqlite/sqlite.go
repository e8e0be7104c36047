/*
Package sqlite provides a SQLite-backed implementation of leave.Repository.

PURPOSE:
  Durable keyed-record storage for applications, balances and holidays. The
  engine holds the working set in memory and commits every successful
  mutation here; on startup it reloads everything via the List methods. The
  store is deliberately not a query engine.

KEY TABLES:
  applications: One row per leave application, upserted on status change
  balances:     One row per employee
  holidays:     One row per public holiday

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - leave/repository.go: Interface definition
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ist-hq/leave-engine/leave"
)

// Store implements leave.Repository using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Leave applications (never deleted, upserted on status change)
	CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		is_half_day BOOLEAN NOT NULL DEFAULT FALSE,
		reason TEXT,
		documents_json TEXT,
		status TEXT NOT NULL,
		duration TEXT NOT NULL,
		approver_notes TEXT,
		approved_by TEXT,
		department TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_applications_employee
		ON applications(employee_id);
	CREATE INDEX IF NOT EXISTS idx_applications_status
		ON applications(status);
	CREATE INDEX IF NOT EXISTS idx_applications_dates
		ON applications(start_date, end_date);

	-- Balances (one row per employee)
	CREATE TABLE IF NOT EXISTS balances (
		employee_id TEXT PRIMARY KEY,
		annual TEXT NOT NULL,
		sick TEXT NOT NULL,
		maternity TEXT NOT NULL,
		paternity TEXT NOT NULL,
		unpaid TEXT NOT NULL,
		compassionate TEXT NOT NULL,
		study TEXT NOT NULL,
		carry_over TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Public holidays
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		is_national BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date
		ON holidays(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// APPLICATIONS
// =============================================================================

// SaveApplication upserts an application row. Only the decision fields change
// after insert; identity and range fields are written once.
func (s *Store) SaveApplication(ctx context.Context, app leave.LeaveApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	documentsJSON, _ := json.Marshal(app.Documents)

	query := `
		INSERT INTO applications
		(id, employee_id, employee_name, leave_type, start_date, end_date, is_half_day,
		 reason, documents_json, status, duration, approver_notes, approved_by,
		 department, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			approver_notes = excluded.approver_notes,
			approved_by = excluded.approved_by,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		app.ID,
		app.EmployeeID,
		app.EmployeeName,
		string(app.LeaveType),
		app.StartDate.String(),
		app.EndDate.String(),
		app.IsHalfDay,
		app.Reason,
		string(documentsJSON),
		string(app.Status),
		app.Duration.String(),
		app.ApproverNotes,
		app.ApprovedBy,
		app.Department,
		app.CreatedAt.UTC().Format(time.RFC3339),
		app.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save application: %w", err)
	}
	return nil
}

// ListApplications returns every stored application, oldest first.
func (s *Store) ListApplications(ctx context.Context) ([]leave.LeaveApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, employee_name, leave_type, start_date, end_date, is_half_day,
		       reason, documents_json, status, duration, approver_notes, approved_by,
		       department, created_at, updated_at
		FROM applications
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var apps []leave.LeaveApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func scanApplication(rows *sql.Rows) (leave.LeaveApplication, error) {
	var (
		app           leave.LeaveApplication
		leaveType     string
		startDate     string
		endDate       string
		reason        sql.NullString
		documentsJSON sql.NullString
		status        string
		duration      string
		approverNotes sql.NullString
		approvedBy    sql.NullString
		department    sql.NullString
		createdAt     string
		updatedAt     string
	)

	err := rows.Scan(
		&app.ID, &app.EmployeeID, &app.EmployeeName, &leaveType,
		&startDate, &endDate, &app.IsHalfDay,
		&reason, &documentsJSON, &status, &duration,
		&approverNotes, &approvedBy, &department, &createdAt, &updatedAt,
	)
	if err != nil {
		return app, fmt.Errorf("failed to scan application: %w", err)
	}

	app.LeaveType = leave.LeaveType(leaveType)
	app.StartDate, _ = leave.ParseDate(startDate)
	app.EndDate, _ = leave.ParseDate(endDate)
	app.Reason = reason.String
	app.Status = leave.Status(status)
	app.Duration, _ = decimal.NewFromString(duration)
	app.ApproverNotes = approverNotes.String
	app.ApprovedBy = approvedBy.String
	app.Department = department.String
	app.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	app.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	if documentsJSON.Valid && documentsJSON.String != "" {
		json.Unmarshal([]byte(documentsJSON.String), &app.Documents)
	}

	return app, nil
}

// =============================================================================
// BALANCES
// =============================================================================

// SaveBalance upserts an employee's balance row.
func (s *Store) SaveBalance(ctx context.Context, b leave.LeaveBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO balances
		(employee_id, annual, sick, maternity, paternity, unpaid, compassionate, study, carry_over, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET
			annual = excluded.annual,
			sick = excluded.sick,
			maternity = excluded.maternity,
			paternity = excluded.paternity,
			unpaid = excluded.unpaid,
			compassionate = excluded.compassionate,
			study = excluded.study,
			carry_over = excluded.carry_over,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		b.EmployeeID,
		b.Annual.String(),
		b.Sick.String(),
		b.Maternity.String(),
		b.Paternity.String(),
		b.Unpaid.String(),
		b.Compassionate.String(),
		b.Study.String(),
		b.CarryOver.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save balance: %w", err)
	}
	return nil
}

// ListBalances returns every stored balance.
func (s *Store) ListBalances(ctx context.Context) ([]leave.LeaveBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, annual, sick, maternity, paternity, unpaid, compassionate, study, carry_over
		 FROM balances ORDER BY employee_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.LeaveBalance
	for rows.Next() {
		var b leave.LeaveBalance
		var annual, sick, maternity, paternity, unpaid, compassionate, study, carryOver string
		if err := rows.Scan(&b.EmployeeID, &annual, &sick, &maternity, &paternity,
			&unpaid, &compassionate, &study, &carryOver); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		b.Annual, _ = decimal.NewFromString(annual)
		b.Sick, _ = decimal.NewFromString(sick)
		b.Maternity, _ = decimal.NewFromString(maternity)
		b.Paternity, _ = decimal.NewFromString(paternity)
		b.Unpaid, _ = decimal.NewFromString(unpaid)
		b.Compassionate, _ = decimal.NewFromString(compassionate)
		b.Study, _ = decimal.NewFromString(study)
		b.CarryOver, _ = decimal.NewFromString(carryOver)
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday upserts a holiday row.
func (s *Store) SaveHoliday(ctx context.Context, h leave.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, name, date, is_national, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			date = excluded.date,
			is_national = excluded.is_national
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID, h.Name, h.Date.String(), h.IsNational,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// DeleteHoliday removes a holiday by id.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	return err
}

// ListHolidays returns every stored holiday, earliest first.
func (s *Store) ListHolidays(ctx context.Context) ([]leave.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, date, is_national FROM holidays ORDER BY date ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []leave.Holiday
	for rows.Next() {
		var h leave.Holiday
		var date string
		if err := rows.Scan(&h.ID, &h.Name, &date, &h.IsNational); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		h.Date, _ = leave.ParseDate(date)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"applications", "balances", "holidays"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
