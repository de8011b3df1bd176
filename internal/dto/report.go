package dto

import "github.com/noah-isme/hostelflow-api/internal/models"

// InsightResponse reports the latest summary and whether one is being generated.
type InsightResponse struct {
	Report     *models.InsightResult `json:"report"`
	Generating bool                  `json:"generating"`
}
