package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

// Display layouts for check-in and record timestamps.
const (
	CheckInLayout    = "2006-01-02 15:04"
	RecordDateLayout = "2006-01-02"
	RecordTimeLayout = "03:04:05 PM"
)

type attendanceStore interface {
	GetStudents(ctx context.Context) ([]models.Student, bool, error)
	SaveStudents(ctx context.Context, students []models.Student) error
	GetRecords(ctx context.Context) ([]models.AttendanceRecord, bool, error)
	SaveRecords(ctx context.Context, records []models.AttendanceRecord) error
}

type sessionStore interface {
	GetUser(ctx context.Context) (*models.User, bool, error)
	SetUser(ctx context.Context, user models.User) error
	ClearUser(ctx context.Context) error
}

// DataService is the CRUD facade over the attendance and session stores.
type DataService struct {
	store       attendanceStore
	sessions    sessionStore
	credentials CredentialVerifier
	validator   *validator.Validate
	logger      *zap.Logger
	delays      Delays
	now         func() time.Time

	// serializes read-modify-write cycles on the collections
	mu          sync.Mutex
	lastIDMilli int64
}

// NewDataService constructs a DataService.
func NewDataService(store attendanceStore, sessions sessionStore, credentials CredentialVerifier, validate *validator.Validate, logger *zap.Logger, delays Delays) *DataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DataService{
		store:       store,
		sessions:    sessions,
		credentials: credentials,
		validator:   validate,
		logger:      logger,
		delays:      delays,
		now:         time.Now,
	}
}

// Login checks the credential pair and persists the session on success.
func (s *DataService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := simulateLatency(ctx, s.delays.Login); err != nil {
		return nil, err
	}
	user, err := s.credentials.Verify(ctx, email, password)
	if err != nil {
		s.logger.Info("login rejected", zap.String("email", email))
		return nil, err
	}
	user.SessionID = ulid.Make().String()
	if err := s.sessions.SetUser(ctx, *user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	s.logger.Info("warden logged in", zap.String("user_id", user.ID))
	return user, nil
}

// Logout clears the active session.
func (s *DataService) Logout(ctx context.Context) error {
	if err := s.sessions.ClearUser(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	return nil
}

// CurrentUser restores the persisted session.
func (s *DataService) CurrentUser(ctx context.Context) (*models.User, error) {
	user, found, err := s.sessions.GetUser(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "no active session")
	}
	return user, nil
}

// FetchStudents returns the roster, empty when never initialised.
func (s *DataService) FetchStudents(ctx context.Context) ([]models.Student, error) {
	if err := simulateLatency(ctx, s.delays.FetchStudents); err != nil {
		return nil, err
	}
	students, _, err := s.store.GetStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// FetchRecords returns the attendance history, empty when never initialised.
func (s *DataService) FetchRecords(ctx context.Context) ([]models.AttendanceRecord, error) {
	if err := simulateLatency(ctx, s.delays.FetchRecords); err != nil {
		return nil, err
	}
	records, _, err := s.store.GetRecords(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, nil
}

// BulkAddStudents appends the entries in order with a single save.
func (s *DataService) BulkAddStudents(ctx context.Context, entries []models.NewStudent) ([]models.Student, error) {
	if len(entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "please enter student details")
	}
	for i, entry := range entries {
		if err := s.validator.Struct(entry); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid student at position %d", i+1))
		}
		if !entry.Department.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown department %q", entry.Department))
		}
	}
	if err := simulateLatency(ctx, s.delays.BulkAdd); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, _, err := s.store.GetStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}

	now := s.now()
	idMilli := s.nextIDMilli(now, current, len(entries))
	prepared := make([]models.Student, 0, len(entries))
	for i, entry := range entries {
		prepared = append(prepared, models.Student{
			ID:          formatStudentID(idMilli, i),
			Name:        entry.Name,
			RoomNumber:  entry.RoomNumber,
			Floor:       entry.Floor,
			RollNumber:  entry.RollNumber,
			Department:  entry.Department,
			PhotoURL:    "https://picsum.photos/200?random=" + uuid.NewString(),
			Status:      models.StudentStatusPresent,
			LastCheckIn: now.Format(CheckInLayout),
		})
	}

	merged := make([]models.Student, 0, len(current)+len(prepared))
	merged = append(merged, current...)
	merged = append(merged, prepared...)
	if err := s.store.SaveStudents(ctx, merged); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save students")
	}
	s.logger.Info("students added", zap.Int("count", len(prepared)))
	return prepared, nil
}

func formatStudentID(milli int64, index int) string {
	return fmt.Sprintf("std-%d-%d", milli, index)
}

// nextIDMilli picks the id millisecond for a batch of n students. It never reuses
// a millisecond handed out earlier by this service and skips any value whose ids
// already exist in the roster. Callers hold s.mu.
func (s *DataService) nextIDMilli(now time.Time, current []models.Student, n int) int64 {
	taken := make(map[string]struct{}, len(current))
	for _, st := range current {
		taken[st.ID] = struct{}{}
	}
	milli := now.UnixMilli()
	if milli <= s.lastIDMilli {
		milli = s.lastIDMilli + 1
	}
	for collides(taken, milli, n) {
		milli++
	}
	s.lastIDMilli = milli
	return milli
}

func collides(taken map[string]struct{}, milli int64, n int) bool {
	for i := 0; i < n; i++ {
		if _, ok := taken[formatStudentID(milli, i)]; ok {
			return true
		}
	}
	return false
}

// UpdateStudentStatus rewrites the status and check-in time of one student.
func (s *DataService) UpdateStudentStatus(ctx context.Context, studentID string, status models.StudentStatus) (*models.Student, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid status %q", status))
	}
	if err := simulateLatency(ctx, s.delays.UpdateStatus); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	students, _, err := s.store.GetStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}

	idx := -1
	for i := range students {
		if students[i].ID == studentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	students[idx].Status = status
	students[idx].LastCheckIn = s.now().Format(CheckInLayout)
	if err := s.store.SaveStudents(ctx, students); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save students")
	}
	updated := students[idx]
	return &updated, nil
}

// ApplyStatusChange sets a student's status and, when the status has a record
// equivalent, appends a manual attendance record in the same critical section.
// Records are written first; a failed student save restores the previous history
// so either both collections change or neither does.
func (s *DataService) ApplyStatusChange(ctx context.Context, studentID string, status models.StudentStatus) (*models.Student, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid status %q", status))
	}
	if err := simulateLatency(ctx, s.delays.UpdateStatus); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	students, _, err := s.store.GetStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	idx := -1
	for i := range students {
		if students[i].ID == studentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	now := s.now()
	var previous []models.AttendanceRecord
	recordWritten := false
	if recordStatus, ok := models.RecordStatusFor(status); ok {
		record := models.AttendanceRecord{
			ID:        ulid.Make().String(),
			StudentID: studentID,
			Date:      now.UTC().Format(RecordDateLayout),
			Status:    recordStatus,
			Method:    models.RecordMethodManual,
			Timestamp: now.Format(RecordTimeLayout),
		}
		if err := s.validator.Struct(record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance record")
		}
		previous, _, err = s.store.GetRecords(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
		}
		next := make([]models.AttendanceRecord, 0, len(previous)+1)
		next = append(next, previous...)
		next = append(next, record)
		if err := s.store.SaveRecords(ctx, next); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save records")
		}
		recordWritten = true
	}

	students[idx].Status = status
	students[idx].LastCheckIn = now.Format(CheckInLayout)
	if err := s.store.SaveStudents(ctx, students); err != nil {
		if recordWritten {
			if previous == nil {
				previous = []models.AttendanceRecord{}
			}
			if rbErr := s.store.SaveRecords(ctx, previous); rbErr != nil {
				s.logger.Error("failed to restore attendance records", zap.String("student_id", studentID), zap.Error(rbErr))
			}
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save students")
	}
	updated := students[idx]
	return &updated, nil
}

// SaveAttendanceRecord appends one record. Missing id and timestamp are generated.
func (s *DataService) SaveAttendanceRecord(ctx context.Context, record models.AttendanceRecord) (*models.AttendanceRecord, error) {
	now := s.now()
	if record.ID == "" {
		record.ID = ulid.Make().String()
	}
	if record.Date == "" {
		record.Date = now.UTC().Format(RecordDateLayout)
	}
	if record.Timestamp == "" {
		record.Timestamp = now.Format(RecordTimeLayout)
	}
	if err := s.validator.Struct(record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance record")
	}
	if err := simulateLatency(ctx, s.delays.SaveRecord); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, _, err := s.store.GetRecords(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}
	records = append(records, record)
	if err := s.store.SaveRecords(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save records")
	}
	return &record, nil
}

// SeedIfAbsent writes the roster only when no student collection was ever persisted.
func (s *DataService) SeedIfAbsent(ctx context.Context, roster []models.Student) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found, err := s.store.GetStudents(ctx)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	if found {
		return false, nil
	}
	if err := s.store.SaveStudents(ctx, roster); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed students")
	}
	s.logger.Info("seeded example roster", zap.Int("count", len(roster)))
	return true, nil
}
