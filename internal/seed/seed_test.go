package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hostelflow-api/internal/models"
)

func TestStudentsEmbeddedRoster(t *testing.T) {
	students, err := Students()
	require.NoError(t, err)
	require.Len(t, students, 4)

	assert.Equal(t, "Alex Thompson", students[0].Name)
	assert.Equal(t, models.DepartmentAIDS, students[1].Department)
	assert.Equal(t, models.StudentStatusOnLeave, students[3].Status)
	assert.Equal(t, 2, students[2].Floor)
	assert.Equal(t, "101", students[0].RoomNumber)
}

func TestParseRejectsUnknownDepartment(t *testing.T) {
	_, err := Parse([]byte("students:\n  - id: x\n    department: MECH\n    status: present\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MECH")
}

func TestParseEmptyDocument(t *testing.T) {
	students, err := Parse([]byte("students: []\n"))
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}
