package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostelflow-api/internal/dto"
	"github.com/noah-isme/hostelflow-api/internal/models"
	"github.com/noah-isme/hostelflow-api/pkg/response"
)

type reportConsole interface {
	Report() (models.InsightResult, bool)
	GenerateReport(ctx context.Context) models.InsightResult
	Snapshot() models.ConsoleState
}

// ReportHandler exposes the attendance insight summary.
type ReportHandler struct {
	console reportConsole
}

// NewReportHandler constructs handler.
func NewReportHandler(console reportConsole) *ReportHandler {
	return &ReportHandler{console: console}
}

// Get godoc
// @Summary Latest insight summary
// @Description Returns the last generated summary, null while none exists
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/insight [get]
func (h *ReportHandler) Get(c *gin.Context) {
	payload := dto.InsightResponse{Generating: h.console.Snapshot().GeneratingReport}
	if report, ok := h.console.Report(); ok {
		payload.Report = &report
	}
	response.JSON(c, http.StatusOK, payload, nil)
}

// Generate godoc
// @Summary Regenerate insight summary
// @Description Always regenerates. Generation failures return fallback text, never an error.
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/insight [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	report := h.console.GenerateReport(c.Request.Context())
	response.JSON(c, http.StatusOK, dto.InsightResponse{Report: &report}, nil)
}
