package models

import "time"

// ViewType enumerates the console views.
type ViewType string

const (
	ViewDashboard  ViewType = "dashboard"
	ViewAttendance ViewType = "attendance"
	ViewStudents   ViewType = "students"
	ViewAIScanner  ViewType = "ai-scanner"
	ViewReports    ViewType = "reports"
)

// Valid returns true for known views.
func (v ViewType) Valid() bool {
	switch v {
	case ViewDashboard, ViewAttendance, ViewStudents, ViewAIScanner, ViewReports:
		return true
	default:
		return false
	}
}

// InsightResult is the rendered attendance summary. Available is false when the
// fallback text was used.
type InsightResult struct {
	Text        string    `json:"text"`
	Available   bool      `json:"available"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// ConsoleState is a read-only snapshot of the controller.
type ConsoleState struct {
	Authenticated    bool           `json:"authenticated"`
	User             *User          `json:"user,omitempty"`
	ActiveView       ViewType       `json:"activeView"`
	Loaded           bool           `json:"loaded"`
	Syncing          bool           `json:"syncing"`
	GeneratingReport bool           `json:"generatingReport"`
	Report           *InsightResult `json:"report,omitempty"`
	Search           string         `json:"search"`
	DepartmentFilter string         `json:"departmentFilter"`
}
