/*
handlers.go - HTTP API handlers for the leave management system

PURPOSE:
  Exposes the leave engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Applications:
    POST   /api/applications                 Submit a leave application
    GET    /api/applications                 List (filters: employee_id, status, date)
    GET    /api/applications/{id}            Get one application
    POST   /api/applications/{id}/approve    Approve a pending application
    POST   /api/applications/{id}/reject     Reject a pending application
    POST   /api/applications/{id}/cancel     Cancel a pending application

  Approvals:
    GET    /api/approvals/pending            Pending applications, oldest first

  Balances:
    GET    /api/balances                     List all balances
    GET    /api/balances/{employeeID}        Get an employee's balances
    PUT    /api/balances/{employeeID}        Upsert an employee's balances
    POST   /api/balances/{employeeID}/rollover  Roll annual into carry-over

  Holidays:
    GET    /api/holidays                     List holidays
    POST   /api/holidays                     Register a holiday
    POST   /api/holidays/defaults            Seed the national holiday calendar
    DELETE /api/holidays/{id}                Remove a holiday

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Invalid lifecycle transition
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. Approver identity is taken
  from the request body and recorded, not verified.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ist-hq/leave-engine/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *leave.Engine
}

// NewHandler creates a new handler around an engine.
func NewHandler(engine *leave.Engine) *Handler {
	return &Handler{Engine: engine}
}

// =============================================================================
// APPLICATION HANDLERS
// =============================================================================

// SubmitApplication validates and records a new leave application.
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", nil)
		return
	}

	start, err := leave.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	end, err := leave.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}

	app, err := h.Engine.Submit(r.Context(), leave.Draft{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		LeaveType:    leave.LeaveType(req.LeaveType),
		StartDate:    start,
		EndDate:      end,
		IsHalfDay:    req.IsHalfDay,
		Reason:       req.Reason,
		Documents:    req.Documents,
		Department:   req.Department,
	})
	if err != nil {
		writeDomainError(w, "Failed to submit application", err)
		return
	}

	writeJSON(w, http.StatusCreated, toApplicationDTO(app))
}

// ListApplications returns applications, optionally filtered by employee_id,
// status, or a date the leave range must include.
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var apps []leave.LeaveApplication
	switch {
	case q.Get("employee_id") != "":
		apps = h.Engine.Ledger.ByEmployee(q.Get("employee_id"))
	case q.Get("status") != "":
		status := leave.Status(q.Get("status"))
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown status: %s", q.Get("status")), nil)
			return
		}
		apps = h.Engine.Ledger.ByStatus(status)
	case q.Get("date") != "":
		day, err := leave.ParseDate(q.Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		apps = h.Engine.Ledger.OverlappingDate(day)
	default:
		apps = h.Engine.Ledger.All()
	}

	writeJSON(w, http.StatusOK, toApplicationDTOs(apps))
}

// GetApplication returns a single application by id.
func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	app, err := h.Engine.Ledger.Get(id)
	if err != nil {
		writeDomainError(w, "Failed to get application", err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationDTO(app))
}

// ApproveApplication approves a pending application, debiting annual balance.
func (h *Handler) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req DecisionRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	app, err := h.Engine.Approve(r.Context(), id, req.Notes, req.ApproverID)
	if err != nil {
		writeDomainError(w, "Failed to approve application", err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationDTO(app))
}

// RejectApplication rejects a pending application.
func (h *Handler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req DecisionRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	app, err := h.Engine.Reject(r.Context(), id, req.Notes, req.ApproverID)
	if err != nil {
		writeDomainError(w, "Failed to reject application", err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationDTO(app))
}

// CancelApplication withdraws a pending application.
func (h *Handler) CancelApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	app, err := h.Engine.Cancel(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to cancel application", err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationDTO(app))
}

// ListPendingApprovals returns pending applications, oldest first.
func (h *Handler) ListPendingApprovals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toApplicationDTOs(h.Engine.Ledger.Pending()))
}

// =============================================================================
// BALANCE HANDLERS
// =============================================================================

// ListBalances returns balances for all employees.
func (h *Handler) ListBalances(w http.ResponseWriter, r *http.Request) {
	balances := h.Engine.Balances.All()
	dtos := make([]BalanceDTO, len(balances))
	for i, b := range balances {
		dtos[i] = toBalanceDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBalance returns one employee's balances.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	b, err := h.Engine.Balances.Get(employeeID)
	if err != nil {
		writeDomainError(w, "Failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, toBalanceDTO(b))
}

// UpdateBalance upserts an employee's balance record.
func (h *Handler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	var req BalanceDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	b := leave.LeaveBalance{
		EmployeeID:    employeeID,
		Annual:        decimalFrom(req.Annual),
		Sick:          decimalFrom(req.Sick),
		Maternity:     decimalFrom(req.Maternity),
		Paternity:     decimalFrom(req.Paternity),
		Unpaid:        decimalFrom(req.Unpaid),
		Compassionate: decimalFrom(req.Compassionate),
		Study:         decimalFrom(req.Study),
		CarryOver:     decimalFrom(req.CarryOver),
	}
	if err := h.Engine.SetBalance(r.Context(), b); err != nil {
		writeDomainError(w, "Failed to update balance", err)
		return
	}

	writeJSON(w, http.StatusOK, toBalanceDTO(b))
}

// RolloverBalance rolls an employee's remaining annual days into carry-over.
func (h *Handler) RolloverBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	var req RolloverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.MaxCarryover < 0 {
		writeError(w, http.StatusBadRequest, "max_carryover must be non-negative", nil)
		return
	}

	b, err := h.Engine.RolloverAnnual(r.Context(), employeeID, decimalFrom(req.MaxCarryover))
	if err != nil {
		writeDomainError(w, "Failed to roll over balance", err)
		return
	}

	writeJSON(w, http.StatusOK, toBalanceDTO(b))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all holidays, optionally limited to a from/to range.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("from") == "" && q.Get("to") == "" {
		writeJSON(w, http.StatusOK, toHolidayDTOs(h.Engine.Calendar.All()))
		return
	}

	from := leave.NewDate(1, time.January, 1)
	if q.Get("from") != "" {
		var err error
		if from, err = leave.ParseDate(q.Get("from")); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
	}
	to := leave.NewDate(9999, time.December, 31)
	if q.Get("to") != "" {
		var err error
		if to, err = leave.ParseDate(q.Get("to")); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, toHolidayDTOs(h.Engine.Calendar.InRange(from, to)))
}

// CreateHoliday registers a holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	date, err := leave.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday, err := h.Engine.AddHoliday(r.Context(), req.Name, date, req.IsNational)
	if err != nil {
		writeDomainError(w, "Failed to create holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// AddDefaultHolidays seeds the national holiday calendar for the current year.
// POST /api/holidays/defaults
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	defaults := []struct {
		month time.Month
		day   int
		name  string
	}{
		{time.January, 1, "New Year's Day"},
		{time.February, 1, "National Heroes Day"},
		{time.April, 18, "Good Friday"},
		{time.April, 21, "Easter Monday"},
		{time.May, 1, "Labor Day"},
		{time.July, 1, "Independence Day"},
		{time.July, 4, "Liberation Day"},
		{time.August, 2, "Umuganura Day"},
		{time.December, 25, "Christmas Day"},
		{time.December, 26, "Boxing Day"},
	}

	year := time.Now().Year()
	created := make([]HolidayDTO, 0, len(defaults))
	for _, d := range defaults {
		if h.Engine.Calendar.IsHoliday(leave.NewDate(year, d.month, d.day)) {
			continue
		}
		holiday, err := h.Engine.AddHoliday(r.Context(), d.name, leave.NewDate(year, d.month, d.day), true)
		if err != nil {
			writeDomainError(w, "Failed to seed holidays", err)
			return
		}
		created = append(created, toHolidayDTO(holiday))
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":   "created",
		"count":    len(created),
		"holidays": created,
	})
}

// DeleteHoliday removes a holiday by id.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Engine.RemoveHoliday(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete holiday", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, leave.ErrNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, leave.ErrInvalidTransition):
		writeError(w, http.StatusConflict, message, err)
	case leave.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
