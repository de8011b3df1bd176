// Package seed provides the example roster written to an empty store.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/hostelflow-api/internal/models"
)

//go:embed students.yaml
var studentsYAML []byte

type roster struct {
	Students []models.Student `yaml:"students"`
}

// Students returns a fresh copy of the embedded example roster.
func Students() ([]models.Student, error) {
	return Parse(studentsYAML)
}

// Parse decodes a YAML roster document and checks every entry.
func Parse(raw []byte) ([]models.Student, error) {
	var doc roster
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode seed roster: %w", err)
	}
	for i, s := range doc.Students {
		if s.ID == "" {
			return nil, fmt.Errorf("seed student %d: missing id", i+1)
		}
		if !s.Department.Valid() {
			return nil, fmt.Errorf("seed student %s: unknown department %q", s.ID, s.Department)
		}
		if !s.Status.Valid() {
			return nil, fmt.Errorf("seed student %s: unknown status %q", s.ID, s.Status)
		}
	}
	if doc.Students == nil {
		doc.Students = []models.Student{}
	}
	return doc.Students, nil
}
