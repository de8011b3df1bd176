package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hostelflow-api/internal/dto"
	"github.com/noah-isme/hostelflow-api/internal/models"
)

func TestDashboardSummary(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	rec := app.do(t, http.MethodGet, "/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res dto.DashboardResponse
	decodeData(t, rec, &res)
	assert.Equal(t, 4, res.Stats.TotalStudents)
	assert.Equal(t, 2, res.Stats.PresentToday)
	assert.Equal(t, 1, res.Stats.AbsentToday)
	assert.Equal(t, 1, res.Stats.OnLeave)
	assert.Equal(t, 50, res.Stats.OccupancyRate)
	assert.Len(t, res.Departments, 4)
	assert.True(t, res.State.Authenticated)
}

func TestNavigateRejectsUnknownView(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)
	rec := app.do(t, http.MethodPost, "/dashboard/view", token, dto.NavigateRequest{View: "settings"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNavigateToReportsGeneratesInsight(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	rec := app.do(t, http.MethodPost, "/dashboard/view", token, dto.NavigateRequest{View: "reports"})
	require.Equal(t, http.StatusOK, rec.Code)
	var state models.ConsoleState
	decodeData(t, rec, &state)
	assert.Equal(t, models.ViewReports, state.ActiveView)

	require.Eventually(t, func() bool {
		_, ok := app.controller.Report()
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	rec = app.do(t, http.MethodGet, "/reports/insight", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res dto.InsightResponse
	decodeData(t, rec, &res)
	require.NotNil(t, res.Report)
	assert.Equal(t, "Attendance is steady.", res.Report.Text)
}

func TestDashboardFiltersPersistInConsoleState(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	department := "AI&DS"
	rec := app.do(t, http.MethodPut, "/dashboard/filters", token, dto.FilterRequest{Department: &department})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var state models.ConsoleState
	decodeData(t, rec, &state)
	assert.Equal(t, "AI&DS", state.DepartmentFilter)
	assert.Empty(t, state.Search)

	rec = app.do(t, http.MethodGet, "/dashboard/students", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var students []models.Student
	decodeData(t, rec, &students)
	require.Len(t, students, 1)
	assert.Equal(t, "AD21-042", students[0].RollNumber)

	rec = app.do(t, http.MethodGet, "/students", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &students)
	assert.Len(t, students, 4)

	unknown := "MECH"
	search := "sarah"
	rec = app.do(t, http.MethodPut, "/dashboard/filters", token, dto.FilterRequest{Search: &search, Department: &unknown})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	state = app.controller.Snapshot()
	assert.Equal(t, "AI&DS", state.DepartmentFilter)
	assert.Empty(t, state.Search)
}
