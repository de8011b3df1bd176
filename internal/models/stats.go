package models

// HostelStats is derived from the current roster on every read.
type HostelStats struct {
	TotalStudents int `json:"totalStudents"`
	PresentToday  int `json:"presentToday"`
	AbsentToday   int `json:"absentToday"`
	OnLeave       int `json:"onLeave"`
	OccupancyRate int `json:"occupancyRate"`
}

// DepartmentStats captures per-department presence.
type DepartmentStats struct {
	Name    Department `json:"name"`
	Present int        `json:"present"`
	Total   int        `json:"total"`
	Rate    int        `json:"rate"`
}
