package dto

import "github.com/noah-isme/hostelflow-api/internal/models"

// RecordRequest appends an attendance record captured outside the toggle flow.
type RecordRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	Date      string `json:"date"`
	Status    string `json:"status" binding:"required"`
	Method    string `json:"method" binding:"required"`
	Timestamp string `json:"timestamp"`
}

// ToModel converts the request into a record; id and missing times are filled by the service.
func (r RecordRequest) ToModel() models.AttendanceRecord {
	return models.AttendanceRecord{
		StudentID: r.StudentID,
		Date:      r.Date,
		Status:    models.RecordStatus(r.Status),
		Method:    models.RecordMethod(r.Method),
		Timestamp: r.Timestamp,
	}
}
