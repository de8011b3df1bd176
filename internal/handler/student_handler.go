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

type studentConsole interface {
	FilteredStudents(filter models.StudentFilter) ([]models.Student, error)
	UploadRoster(ctx context.Context, text string, department models.Department) ([]models.Student, error)
	ToggleStatus(ctx context.Context, studentID string) (*models.Student, error)
	SetStatus(ctx context.Context, studentID string, status models.StudentStatus) (*models.Student, error)
}

// StudentHandler manages roster endpoints.
type StudentHandler struct {
	console studentConsole
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(console studentConsole) *StudentHandler {
	return &StudentHandler{console: console}
}

// List godoc
// @Summary List students
// @Description Case-insensitive search on name or roll number combined with a department filter. Filters apply to this request only.
// @Tags Students
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name or roll number fragment"
// @Param department query string false "AI&DS, CSE, EEE, ECE or All"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.console.FilteredStudents(models.StudentFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"total": len(students)})
}

// BulkUpload godoc
// @Summary Bulk add students
// @Description One student per line as "name, rollNumber, roomNumber, floor". A malformed line rejects the whole batch.
// @Tags Students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.BulkUploadRequest true "Roster upload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/bulk [post]
func (h *StudentHandler) BulkUpload(c *gin.Context) {
	var req dto.BulkUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid upload payload"))
		return
	}
	added, err := h.console.UploadRoster(c.Request.Context(), req.Text, models.Department(req.Department))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, added, map[string]interface{}{"count": len(added)})
}

// Toggle godoc
// @Summary Toggle attendance
// @Description Flips present and absent, appends a manual record and resynchronises
// @Tags Students
// @Security BearerAuth
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /students/{id}/toggle [post]
func (h *StudentHandler) Toggle(c *gin.Context) {
	student, err := h.console.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// UpdateStatus godoc
// @Summary Set student status
// @Tags Students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.StatusUpdateRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/status [put]
func (h *StudentHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	student, err := h.console.SetStatus(c.Request.Context(), c.Param("id"), models.StudentStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}
