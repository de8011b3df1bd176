package dto

import "github.com/noah-isme/hostelflow-api/internal/models"

// DashboardResponse is the full warden dashboard payload.
type DashboardResponse struct {
	Stats       models.HostelStats       `json:"stats"`
	Departments []models.DepartmentStats `json:"departments"`
	State       models.ConsoleState      `json:"state"`
}

// NavigateRequest switches the active console view.
type NavigateRequest struct {
	View string `json:"view" binding:"required"`
}

// FilterRequest updates the console roster filters. Nil fields are left as they are.
type FilterRequest struct {
	Search     *string `json:"search"`
	Department *string `json:"department"`
}
