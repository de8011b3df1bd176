package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

// Fixed keys for the persisted collections.
const (
	StudentsKey = "hostelflow_students"
	RecordsKey  = "hostelflow_records"
	SessionKey  = "hostelflow_user"
)

// AttendanceStore persists the student and attendance record collections as JSON.
// Every save replaces the whole collection.
type AttendanceStore struct {
	kv KeyValueStore
}

// NewAttendanceStore constructs the store on top of a key-value backend.
func NewAttendanceStore(kv KeyValueStore) *AttendanceStore {
	return &AttendanceStore{kv: kv}
}

// GetStudents returns the roster. found is false when the key was never written.
func (s *AttendanceStore) GetStudents(ctx context.Context) ([]models.Student, bool, error) {
	var students []models.Student
	found, err := s.load(ctx, StudentsKey, &students)
	if err != nil || !found {
		return nil, found, err
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, true, nil
}

// SaveStudents overwrites the roster.
func (s *AttendanceStore) SaveStudents(ctx context.Context, students []models.Student) error {
	if students == nil {
		students = []models.Student{}
	}
	return s.save(ctx, StudentsKey, students)
}

// GetRecords returns the attendance history. found is false when the key was never written.
func (s *AttendanceStore) GetRecords(ctx context.Context) ([]models.AttendanceRecord, bool, error) {
	var records []models.AttendanceRecord
	found, err := s.load(ctx, RecordsKey, &records)
	if err != nil || !found {
		return nil, found, err
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, true, nil
}

// SaveRecords overwrites the attendance history.
func (s *AttendanceStore) SaveRecords(ctx context.Context, records []models.AttendanceRecord) error {
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return s.save(ctx, RecordsKey, records)
}

func (s *AttendanceStore) load(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, appErrors.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *AttendanceStore) save(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, payload)
}
