package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ist-hq/leave-engine/api"
	"github.com/ist-hq/leave-engine/leave"
	"github.com/ist-hq/leave-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	engine := leave.NewEngine(memory.New())
	router := api.NewRouter(api.NewHandler(engine), api.RouterOptions{Env: "test"})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func seedBalance(t *testing.T, srv *httptest.Server, employeeID string, annual float64) {
	t.Helper()
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/balances/"+employeeID, api.BalanceDTO{
		Annual: annual,
		Sick:   15,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func submitAnnual(t *testing.T, srv *httptest.Server, employeeID string) api.ApplicationDTO {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/applications", api.SubmitApplicationRequest{
		EmployeeID:   employeeID,
		EmployeeName: "Alice Uwase",
		LeaveType:    "annual",
		StartDate:    "2025-06-02",
		EndDate:      "2025-06-09",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var dto api.ApplicationDTO
	decodeInto(t, resp, &dto)
	return dto
}

// =============================================================================
// APPLICATION ENDPOINT TESTS
// =============================================================================

func TestSubmitApplication(t *testing.T) {
	srv := newTestServer(t)
	seedBalance(t, srv, "emp-1", 18)

	dto := submitAnnual(t, srv, "emp-1")

	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, 6.0, dto.Duration)
	assert.Equal(t, "2025-06-02", dto.StartDate)
}

func TestSubmitApplication_MissingReason(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/applications", api.SubmitApplicationRequest{
		EmployeeID: "emp-1",
		LeaveType:  "sick",
		StartDate:  "2025-06-02",
		EndDate:    "2025-06-03",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp api.ErrorResponse
	decodeInto(t, resp, &errResp)
	assert.Contains(t, errResp.Details, "reason is required")
}

func TestSubmitApplication_BadDate(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/applications", api.SubmitApplicationRequest{
		EmployeeID: "emp-1",
		LeaveType:  "annual",
		StartDate:  "02/06/2025",
		EndDate:    "2025-06-03",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitApplication_InvalidRange(t *testing.T) {
	srv := newTestServer(t)
	seedBalance(t, srv, "emp-1", 18)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/applications", api.SubmitApplicationRequest{
		EmployeeID: "emp-1",
		LeaveType:  "annual",
		StartDate:  "2025-06-09",
		EndDate:    "2025-06-02",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetApplication_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/applications/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListApplications_StatusFilter(t *testing.T) {
	srv := newTestServer(t)
	seedBalance(t, srv, "emp-1", 18)
	app := submitAnnual(t, srv, "emp-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/applications/"+app.ID+"/reject", api.DecisionRequest{ApproverID: "mgr-1"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rejected []api.ApplicationDTO
	listResp, err := http.Get(srv.URL + "/api/applications?status=rejected")
	require.NoError(t, err)
	decodeInto(t, listResp, &rejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, app.ID, rejected[0].ID)

	var pending []api.ApplicationDTO
	listResp, err = http.Get(srv.URL + "/api/applications?status=pending")
	require.NoError(t, err)
	decodeInto(t, listResp, &pending)
	assert.Empty(t, pending)
}

func TestListApplications_UnknownStatus(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/applications?status=limbo")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// APPROVAL WORKFLOW TESTS
// =============================================================================

func TestApproveFlow_DebitsBalance(t *testing.T) {
	srv := newTestServer(t)
	seedBalance(t, srv, "emp-1", 18)
	app := submitAnnual(t, srv, "emp-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/applications/"+app.ID+"/approve",
		api.DecisionRequest{ApproverID: "mgr-1", Notes: "enjoy"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var approved api.ApplicationDTO
	decodeInto(t, resp, &approved)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, "mgr-1", approved.ApprovedBy)
	assert.Equal(t, "enjoy", approved.ApproverNotes)

	balResp, err := http.Get(srv.URL + "/api/balances/emp-1")
	require.NoError(t, err)
	var bal api.BalanceDTO
	decodeInto(t, balResp, &bal)
	assert.Equal(t, 12.0, bal.Annual)
}

func TestApproveFlow_DoubleApproveConflicts(t *testing.T) {
	srv := newTestServer(t)
	seedBalance(t, srv, "emp-1", 18)
	app := submitAnnual(t, srv, "emp-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/applications/"+app.ID+"/approve", api.DecisionRequest{})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/applications/"+app.ID+"/approve", api.DecisionRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCancelFlow(t *testing.T) {
	srv := newTestServer(t)
	seedBalance(t, srv, "emp-1", 18)
	app := submitAnnual(t, srv, "emp-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/applications/"+app.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cancelled api.ApplicationDTO
	decodeInto(t, resp, &cancelled)
	assert.Equal(t, "cancelled", cancelled.Status)

	// Cancelled applications cannot be decided
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/applications/"+app.ID+"/reject", api.DecisionRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPendingApprovalsQueue(t *testing.T) {
	srv := newTestServer(t)
	seedBalance(t, srv, "emp-1", 18)
	submitAnnual(t, srv, "emp-1")

	resp, err := http.Get(srv.URL + "/api/approvals/pending")
	require.NoError(t, err)

	var pending []api.ApplicationDTO
	decodeInto(t, resp, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, "pending", pending[0].Status)
}

// =============================================================================
// BALANCE ENDPOINT TESTS
// =============================================================================

func TestGetBalance_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/balances/nobody")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRolloverBalance(t *testing.T) {
	srv := newTestServer(t)
	seedBalance(t, srv, "emp-1", 18)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/balances/emp-1/rollover",
		api.RolloverRequest{MaxCarryover: 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var bal api.BalanceDTO
	decodeInto(t, resp, &bal)
	assert.Equal(t, 0.0, bal.Annual)
	assert.Equal(t, 5.0, bal.CarryOver)
}

func TestRolloverBalance_NegativeCap(t *testing.T) {
	srv := newTestServer(t)
	seedBalance(t, srv, "emp-1", 18)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/balances/emp-1/rollover",
		api.RolloverRequest{MaxCarryover: -1})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// HOLIDAY ENDPOINT TESTS
// =============================================================================

func TestHolidayLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/holidays", api.CreateHolidayRequest{
		Name:       "Founders Day",
		Date:       "2025-06-04",
		IsNational: false,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.HolidayDTO
	decodeInto(t, resp, &created)
	assert.NotEmpty(t, created.ID)

	// The calendar now affects duration calculation
	seedBalance(t, srv, "emp-1", 18)
	app := doJSON(t, http.MethodPost, srv.URL+"/api/applications", api.SubmitApplicationRequest{
		EmployeeID: "emp-1",
		LeaveType:  "annual",
		StartDate:  "2025-06-02",
		EndDate:    "2025-06-06",
	})
	require.Equal(t, http.StatusCreated, app.StatusCode)
	var dto api.ApplicationDTO
	decodeInto(t, app, &dto)
	assert.Equal(t, 4.0, dto.Duration)

	// Delete and confirm it is gone
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/holidays/"+created.ID, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusOK, delResp.StatusCode)

	delResp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, delResp.StatusCode)
}

func TestDefaultHolidays_SeedOnceIdempotent(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/holidays/defaults", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var first struct {
		Count int `json:"count"`
	}
	decodeInto(t, resp, &first)
	assert.Equal(t, 10, first.Count)

	// Seeding again adds nothing new
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/holidays/defaults", nil)
	var second struct {
		Count int `json:"count"`
	}
	decodeInto(t, resp, &second)
	assert.Equal(t, 0, second.Count)

	listResp, err := http.Get(fmt.Sprintf("%s/api/holidays", srv.URL))
	require.NoError(t, err)
	var holidays []api.HolidayDTO
	decodeInto(t, listResp, &holidays)
	assert.Len(t, holidays, 10)
}
