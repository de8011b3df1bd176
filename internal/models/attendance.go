package models

// RecordStatus is the historical status captured on an attendance record.
type RecordStatus string

const (
	RecordStatusPresent RecordStatus = "present"
	RecordStatusAbsent  RecordStatus = "absent"
	RecordStatusLate    RecordStatus = "late"
)

// RecordMethod tags how an attendance record was captured.
type RecordMethod string

const (
	RecordMethodManual RecordMethod = "manual"
	RecordMethodAIScan RecordMethod = "ai-scan"
	RecordMethodQRCode RecordMethod = "qr-code"
)

// AttendanceRecord is an append-only attendance event.
type AttendanceRecord struct {
	ID        string       `json:"id"`
	StudentID string       `json:"studentId" validate:"required"`
	Date      string       `json:"date" validate:"required,datetime=2006-01-02"`
	Status    RecordStatus `json:"status" validate:"required,oneof=present absent late"`
	Method    RecordMethod `json:"method" validate:"required,oneof=manual ai-scan qr-code"`
	Timestamp string       `json:"timestamp"`
}

// RecordStatusFor maps a student status onto the record history vocabulary.
// On-leave has no record equivalent and reports false.
func RecordStatusFor(status StudentStatus) (RecordStatus, bool) {
	switch status {
	case StudentStatusPresent:
		return RecordStatusPresent, true
	case StudentStatusAbsent:
		return RecordStatusAbsent, true
	case StudentStatusLate:
		return RecordStatusLate, true
	default:
		return "", false
	}
}
