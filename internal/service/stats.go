package service

import (
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/noah-isme/hostelflow-api/internal/models"
)

// AllDepartments disables the department filter.
const AllDepartments = "All"

// ComputeStats derives the headline counters from the roster.
func ComputeStats(students []models.Student) models.HostelStats {
	stats := models.HostelStats{TotalStudents: len(students)}
	for _, s := range students {
		switch s.Status {
		case models.StudentStatusPresent:
			stats.PresentToday++
		case models.StudentStatusAbsent:
			stats.AbsentToday++
		case models.StudentStatusOnLeave:
			stats.OnLeave++
		}
	}
	stats.OccupancyRate = percentage(stats.PresentToday, stats.TotalStudents)
	return stats
}

// DepartmentBreakdown returns presence per department in enumeration order.
func DepartmentBreakdown(students []models.Student) []models.DepartmentStats {
	out := make([]models.DepartmentStats, 0, len(models.Departments))
	for _, dept := range models.Departments {
		row := models.DepartmentStats{Name: dept}
		for _, s := range students {
			if s.Department != dept {
				continue
			}
			row.Total++
			if s.Status == models.StudentStatusPresent {
				row.Present++
			}
		}
		row.Rate = percentage(row.Present, row.Total)
		out = append(out, row)
	}
	return out
}

// FilterStudents matches the search term against name or roll number ignoring case,
// combined with an exact department match.
func FilterStudents(students []models.Student, filter models.StudentFilter) []models.Student {
	folder := cases.Fold()
	term := folder.String(filter.Search)
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if filter.Department != "" && filter.Department != AllDepartments && string(s.Department) != filter.Department {
			continue
		}
		if term != "" && !strings.Contains(folder.String(s.Name), term) && !strings.Contains(folder.String(s.RollNumber), term) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
