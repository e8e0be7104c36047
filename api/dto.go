/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation (parse errors, bad dates) happens in handlers.
  Domain validation (policy rules, balances) happens in the engine.

SEE ALSO:
  - handlers.go: Uses these types
  - leave/types.go: Domain model
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ist-hq/leave-engine/leave"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// SubmitApplicationRequest is the request to submit a leave application.
type SubmitApplicationRequest struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	LeaveType    string   `json:"leave_type"`
	StartDate    string   `json:"start_date"` // YYYY-MM-DD
	EndDate      string   `json:"end_date"`   // YYYY-MM-DD
	IsHalfDay    bool     `json:"is_half_day"`
	Reason       string   `json:"reason,omitempty"`
	Documents    []string `json:"documents,omitempty"`
	Department   string   `json:"department,omitempty"`
}

// ApplicationDTO represents a leave application in API responses.
type ApplicationDTO struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	EmployeeName  string   `json:"employee_name"`
	LeaveType     string   `json:"leave_type"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	IsHalfDay     bool     `json:"is_half_day"`
	Reason        string   `json:"reason,omitempty"`
	Documents     []string `json:"documents,omitempty"`
	Status        string   `json:"status"`
	Duration      float64  `json:"duration"`
	ApproverNotes string   `json:"approver_notes,omitempty"`
	ApprovedBy    string   `json:"approved_by,omitempty"`
	Department    string   `json:"department,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// DecisionRequest carries an approve/reject decision.
type DecisionRequest struct {
	ApproverID string `json:"approver_id,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// BalanceDTO represents an employee's balances.
type BalanceDTO struct {
	EmployeeID    string  `json:"employee_id"`
	Annual        float64 `json:"annual"`
	Sick          float64 `json:"sick"`
	Maternity     float64 `json:"maternity"`
	Paternity     float64 `json:"paternity"`
	Unpaid        float64 `json:"unpaid"`
	Compassionate float64 `json:"compassionate"`
	Study         float64 `json:"study"`
	CarryOver     float64 `json:"carry_over"`
}

// RolloverRequest is the request to roll annual days into carry-over.
type RolloverRequest struct {
	MaxCarryover float64 `json:"max_carryover"`
}

// HolidayDTO represents a public holiday.
type HolidayDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Date       string `json:"date"`
	IsNational bool   `json:"is_national"`
}

// CreateHolidayRequest is the request to register a holiday.
type CreateHolidayRequest struct {
	Name       string `json:"name"`
	Date       string `json:"date"` // YYYY-MM-DD
	IsNational bool   `json:"is_national"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toApplicationDTO(app leave.LeaveApplication) ApplicationDTO {
	duration, _ := app.Duration.Float64()
	return ApplicationDTO{
		ID:            app.ID,
		EmployeeID:    app.EmployeeID,
		EmployeeName:  app.EmployeeName,
		LeaveType:     string(app.LeaveType),
		StartDate:     app.StartDate.String(),
		EndDate:       app.EndDate.String(),
		IsHalfDay:     app.IsHalfDay,
		Reason:        app.Reason,
		Documents:     app.Documents,
		Status:        string(app.Status),
		Duration:      duration,
		ApproverNotes: app.ApproverNotes,
		ApprovedBy:    app.ApprovedBy,
		Department:    app.Department,
		CreatedAt:     app.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     app.UpdatedAt.Format(time.RFC3339),
	}
}

func toApplicationDTOs(apps []leave.LeaveApplication) []ApplicationDTO {
	dtos := make([]ApplicationDTO, len(apps))
	for i, app := range apps {
		dtos[i] = toApplicationDTO(app)
	}
	return dtos
}

func toBalanceDTO(b leave.LeaveBalance) BalanceDTO {
	return BalanceDTO{
		EmployeeID:    b.EmployeeID,
		Annual:        asFloat(b.Annual),
		Sick:          asFloat(b.Sick),
		Maternity:     asFloat(b.Maternity),
		Paternity:     asFloat(b.Paternity),
		Unpaid:        asFloat(b.Unpaid),
		Compassionate: asFloat(b.Compassionate),
		Study:         asFloat(b.Study),
		CarryOver:     asFloat(b.CarryOver),
	}
}

func asFloat(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func decimalFrom(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func toHolidayDTO(h leave.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:         h.ID,
		Name:       h.Name,
		Date:       h.Date.String(),
		IsNational: h.IsNational,
	}
}

func toHolidayDTOs(hs []leave.Holiday) []HolidayDTO {
	dtos := make([]HolidayDTO, len(hs))
	for i, h := range hs {
		dtos[i] = toHolidayDTO(h)
	}
	return dtos
}
