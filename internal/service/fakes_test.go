package service

import (
	"context"
	"sync"

	"github.com/noah-isme/hostelflow-api/internal/models"
)

type fakeAttendanceStore struct {
	mu              sync.Mutex
	students        []models.Student
	studentsSet     bool
	records         []models.AttendanceRecord
	recordsSet      bool
	getStudentsErr  error
	getRecordsErr   error
	saveStudentsErr error
	saveRecordsErr  error
	studentSaves    int
	recordSaves     int
}

func (f *fakeAttendanceStore) GetStudents(ctx context.Context) ([]models.Student, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getStudentsErr != nil {
		return nil, false, f.getStudentsErr
	}
	if !f.studentsSet {
		return nil, false, nil
	}
	return append([]models.Student{}, f.students...), true, nil
}

func (f *fakeAttendanceStore) SaveStudents(ctx context.Context, students []models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveStudentsErr != nil {
		return f.saveStudentsErr
	}
	f.students = append([]models.Student{}, students...)
	f.studentsSet = true
	f.studentSaves++
	return nil
}

func (f *fakeAttendanceStore) GetRecords(ctx context.Context) ([]models.AttendanceRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getRecordsErr != nil {
		return nil, false, f.getRecordsErr
	}
	if !f.recordsSet {
		return nil, false, nil
	}
	return append([]models.AttendanceRecord{}, f.records...), true, nil
}

func (f *fakeAttendanceStore) SaveRecords(ctx context.Context, records []models.AttendanceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveRecordsErr != nil {
		return f.saveRecordsErr
	}
	f.records = append([]models.AttendanceRecord{}, records...)
	f.recordsSet = true
	f.recordSaves++
	return nil
}

type fakeSessionStore struct {
	mu     sync.Mutex
	user   *models.User
	setErr error
}

func (f *fakeSessionStore) GetUser(ctx context.Context) (*models.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return nil, false, nil
	}
	u := *f.user
	return &u, true, nil
}

func (f *fakeSessionStore) SetUser(ctx context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.user = &user
	return nil
}

func (f *fakeSessionStore) ClearUser(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = nil
	return nil
}

type stubGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
	block   chan struct{}
}

func (s *stubGenerator) GenerateContent(ctx context.Context, model, prompt string, temperature float64) (string, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

func (s *stubGenerator) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func sampleRoster() []models.Student {
	return []models.Student{
		{ID: "1", Name: "Alex Thompson", Department: models.DepartmentCSE, RoomNumber: "101", Floor: 1, RollNumber: "CS21-001", Status: models.StudentStatusPresent},
		{ID: "2", Name: "Sarah Miller", Department: models.DepartmentAIDS, RoomNumber: "102", Floor: 1, RollNumber: "AD21-042", Status: models.StudentStatusAbsent},
		{ID: "3", Name: "John Davis", Department: models.DepartmentEEE, RoomNumber: "201", Floor: 2, RollNumber: "EE21-015", Status: models.StudentStatusPresent},
		{ID: "4", Name: "Emily Chen", Department: models.DepartmentECE, RoomNumber: "205", Floor: 2, RollNumber: "EC21-088", Status: models.StudentStatusOnLeave},
	}
}
