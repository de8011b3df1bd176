package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostelflow-api/internal/dto"
	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
	"github.com/noah-isme/hostelflow-api/pkg/response"
)

type recordConsole interface {
	Records() []models.AttendanceRecord
	RecordAttendance(ctx context.Context, record models.AttendanceRecord) (*models.AttendanceRecord, error)
}

// RecordHandler exposes the append-only attendance history.
type RecordHandler struct {
	console recordConsole
}

// NewRecordHandler constructs the handler.
func NewRecordHandler(console recordConsole) *RecordHandler {
	return &RecordHandler{console: console}
}

// List godoc
// @Summary Attendance history
// @Tags Records
// @Security BearerAuth
// @Produce json
// @Param studentId query string false "Only records for this student"
// @Success 200 {object} response.Envelope
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	records := h.console.Records()
	if studentID := c.Query("studentId"); studentID != "" {
		filtered := make([]models.AttendanceRecord, 0, len(records))
		for _, r := range records {
			if r.StudentID == studentID {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"total": len(records)})
}

// Create godoc
// @Summary Append attendance record
// @Tags Records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.RecordRequest true "Record"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /records [post]
func (h *RecordHandler) Create(c *gin.Context) {
	var req dto.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}
	saved, err := h.console.RecordAttendance(c.Request.Context(), req.ToModel())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, saved)
}
