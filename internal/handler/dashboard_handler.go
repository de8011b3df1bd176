package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostelflow-api/internal/dto"
	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
	"github.com/noah-isme/hostelflow-api/pkg/response"
)

type dashboardConsole interface {
	Stats() models.HostelStats
	Departments() []models.DepartmentStats
	Snapshot() models.ConsoleState
	Navigate(view models.ViewType) error
	SetSearch(term string)
	SetDepartmentFilter(department string) error
	VisibleStudents() []models.Student
}

// DashboardHandler exposes the dashboard summary and view navigation.
type DashboardHandler struct {
	console dashboardConsole
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(console dashboardConsole) *DashboardHandler {
	return &DashboardHandler{console: console}
}

// Summary godoc
// @Summary Dashboard summary
// @Description Occupancy counters, per-department presence and console state
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	response.JSON(c, http.StatusOK, dto.DashboardResponse{
		Stats:       h.console.Stats(),
		Departments: h.console.Departments(),
		State:       h.console.Snapshot(),
	}, nil)
}

// State godoc
// @Summary Console state
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/state [get]
func (h *DashboardHandler) State(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.console.Snapshot(), nil)
}

// Navigate godoc
// @Summary Switch active view
// @Description Opening the reports view for the first time schedules an insight summary
// @Tags Dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.NavigateRequest true "Target view"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/view [post]
func (h *DashboardHandler) Navigate(c *gin.Context) {
	var req dto.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid view payload"))
		return
	}
	if err := h.console.Navigate(models.ViewType(req.View)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.console.Snapshot(), nil)
}

// UpdateFilters godoc
// @Summary Update console roster filters
// @Description Sets the search term and department filter kept in console state. Omitted fields are unchanged.
// @Tags Dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.FilterRequest true "Filters"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/filters [put]
func (h *DashboardHandler) UpdateFilters(c *gin.Context) {
	var req dto.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter payload"))
		return
	}
	if req.Department != nil {
		if err := h.console.SetDepartmentFilter(*req.Department); err != nil {
			response.Error(c, err)
			return
		}
	}
	if req.Search != nil {
		h.console.SetSearch(*req.Search)
	}
	response.JSON(c, http.StatusOK, h.console.Snapshot(), nil)
}

// Students godoc
// @Summary Roster under the console filters
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/students [get]
func (h *DashboardHandler) Students(c *gin.Context) {
	students := h.console.VisibleStudents()
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"total": len(students)})
}
