package models

// Department is the fixed engineering branch a student belongs to.
type Department string

const (
	DepartmentAIDS Department = "AI&DS"
	DepartmentCSE  Department = "CSE"
	DepartmentEEE  Department = "EEE"
	DepartmentECE  Department = "ECE"
)

// Departments lists every department in display order.
var Departments = []Department{DepartmentAIDS, DepartmentCSE, DepartmentEEE, DepartmentECE}

// Valid returns true when the department is part of the fixed enumeration.
func (d Department) Valid() bool {
	switch d {
	case DepartmentAIDS, DepartmentCSE, DepartmentEEE, DepartmentECE:
		return true
	default:
		return false
	}
}

// StudentStatus is the current presence classification of a student.
type StudentStatus string

const (
	StudentStatusPresent StudentStatus = "present"
	StudentStatusAbsent  StudentStatus = "absent"
	StudentStatusLate    StudentStatus = "late"
	StudentStatusOnLeave StudentStatus = "on-leave"
)

// Valid returns true when the status is a supported value.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusPresent, StudentStatusAbsent, StudentStatusLate, StudentStatusOnLeave:
		return true
	default:
		return false
	}
}

// Toggled flips present to absent; every other status becomes present.
func (s StudentStatus) Toggled() StudentStatus {
	if s == StudentStatusPresent {
		return StudentStatusAbsent
	}
	return StudentStatusPresent
}

// Student is a hostel resident.
type Student struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	RoomNumber  string        `json:"roomNumber" yaml:"roomNumber"`
	Floor       int           `json:"floor" yaml:"floor"`
	RollNumber  string        `json:"rollNumber" yaml:"rollNumber"`
	Department  Department    `json:"department" yaml:"department"`
	PhotoURL    string        `json:"photoUrl" yaml:"photoUrl"`
	Status      StudentStatus `json:"status" yaml:"status"`
	LastCheckIn string        `json:"lastCheckIn" yaml:"lastCheckIn"`
}

// NewStudent is a bulk-upload entry; the service fills in the remaining fields.
type NewStudent struct {
	Name       string     `json:"name" validate:"required"`
	RollNumber string     `json:"rollNumber" validate:"required"`
	RoomNumber string     `json:"roomNumber" validate:"required"`
	Floor      int        `json:"floor"`
	Department Department `json:"department" validate:"required"`
}

// StudentFilter narrows the roster by free-text search and department.
type StudentFilter struct {
	Search     string
	Department string
}
