package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

func TestParseRoster(t *testing.T) {
	entries, err := ParseRoster("  Priya Nair , CS22-010, 301 , 3\r\nRahul Verma,CS22-011,302,3\n", models.DepartmentCSE)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.NewStudent{Name: "Priya Nair", RollNumber: "CS22-010", RoomNumber: "301", Floor: 3, Department: models.DepartmentCSE}, entries[0])
	assert.Equal(t, "Rahul Verma", entries[1].Name)
}

func TestParseRosterRejectsBatch(t *testing.T) {
	cases := []struct {
		name  string
		input string
		line  string
	}{
		{name: "missing field", input: "A,R1,1,1\nB,R2,2", line: "line 2"},
		{name: "empty field", input: "A,,1,1", line: "line 1"},
		{name: "non integer floor", input: "A,R1,1,first", line: "line 1"},
		{name: "blank middle line", input: "A,R1,1,1\n\nB,R2,2,2", line: "line 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := ParseRoster(tc.input, models.DepartmentEEE)
			require.Error(t, err)
			assert.Nil(t, entries)
			assert.True(t, errors.Is(err, appErrors.ErrFormat))
			assert.Contains(t, err.Error(), tc.line)
		})
	}
}

func TestParseRosterInputChecks(t *testing.T) {
	_, err := ParseRoster("   \n ", models.DepartmentCSE)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Contains(t, err.Error(), "please enter student details")

	_, err = ParseRoster("A,R1,1,1", models.Department("MECH"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
