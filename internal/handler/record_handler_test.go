package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hostelflow-api/internal/dto"
	"github.com/noah-isme/hostelflow-api/internal/models"
)

func TestCreateAndListRecords(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	rec := app.do(t, http.MethodPost, "/records", token, dto.RecordRequest{
		StudentID: "3",
		Status:    "present",
		Method:    "ai-scan",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved models.AttendanceRecord
	decodeData(t, rec, &saved)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "3", saved.StudentID)

	app.do(t, http.MethodPost, "/students/1/toggle", token, nil)

	rec = app.do(t, http.MethodGet, "/records", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var records []models.AttendanceRecord
	decodeData(t, rec, &records)
	assert.Len(t, records, 2)

	rec = app.do(t, http.MethodGet, "/records?studentId=3", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &records)
	require.Len(t, records, 1)
	assert.Equal(t, saved.ID, records[0].ID)
}

func TestCreateRecordInvalidPayload(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)
	rec := app.do(t, http.MethodPost, "/records", token, map[string]string{"studentId": "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
