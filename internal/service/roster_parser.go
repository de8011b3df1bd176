package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

// ParseRoster reads one student per line as "name, rollNumber, roomNumber, floor"
// and applies department to every entry. Any malformed line rejects the whole batch.
func ParseRoster(text string, department models.Department) ([]models.NewStudent, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "please enter student details")
	}
	if !department.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown department %q", department))
	}

	lines := strings.Split(trimmed, "\n")
	entries := make([]models.NewStudent, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		fields := strings.Split(line, ",")
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}
		if len(fields) < 4 || fields[0] == "" || fields[1] == "" || fields[2] == "" || fields[3] == "" {
			return nil, formatError(i, line)
		}
		floor, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, formatError(i, line)
		}
		entries = append(entries, models.NewStudent{
			Name:       fields[0],
			RollNumber: fields[1],
			RoomNumber: fields[2],
			Floor:      floor,
			Department: department,
		})
	}
	return entries, nil
}

func formatError(index int, line string) error {
	return appErrors.Clone(appErrors.ErrFormat, fmt.Sprintf("invalid format on line %d: %s", index+1, line))
}
