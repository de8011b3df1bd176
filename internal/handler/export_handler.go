package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostelflow-api/internal/models"
	"github.com/noah-isme/hostelflow-api/internal/service"
	"github.com/noah-isme/hostelflow-api/pkg/response"
)

type exportConsole interface {
	Students() []models.Student
	Records() []models.AttendanceRecord
}

type exportRenderer interface {
	Render(kind service.ExportDataset, format service.ExportFormat, students []models.Student, records []models.AttendanceRecord) (*service.ExportResult, error)
}

// ExportHandler streams roster and history downloads.
type ExportHandler struct {
	console  exportConsole
	renderer exportRenderer
}

// NewExportHandler constructs the handler.
func NewExportHandler(console exportConsole, renderer exportRenderer) *ExportHandler {
	return &ExportHandler{console: console, renderer: renderer}
}

// Attendance godoc
// @Summary Download attendance export
// @Tags Exports
// @Security BearerAuth
// @Produce text/csv
// @Produce application/pdf
// @Param dataset query string false "students (default) or records"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/attendance [get]
func (h *ExportHandler) Attendance(c *gin.Context) {
	result, err := h.renderer.Render(
		service.ExportDataset(c.Query("dataset")),
		service.ExportFormat(c.Query("format")),
		h.console.Students(),
		h.console.Records(),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
