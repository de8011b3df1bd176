package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

// Texts shown instead of a generated summary.
const (
	InsightFallbackText = "Could not generate AI insights at this time."
	InsightEmptyText    = "No insights available."
)

// TextGenerator produces prose from a single prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, model, prompt string, temperature float64) (string, error)
}

type insightRecorder interface {
	RecordInsight(available bool, duration time.Duration)
}

// InsightConfig configures generation parameters.
type InsightConfig struct {
	Model       string
	Temperature float64
}

// InsightService summarises the current attendance snapshot through a TextGenerator.
type InsightService struct {
	generator TextGenerator
	metrics   insightRecorder
	logger    *zap.Logger
	cfg       InsightConfig
	now       func() time.Time
}

// NewInsightService constructs an InsightService. metrics may be nil.
func NewInsightService(generator TextGenerator, cfg InsightConfig, metrics insightRecorder, logger *zap.Logger) *InsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-3-flash-preview"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	return &InsightService{generator: generator, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
}

// Summarize never fails: generator errors degrade to the fallback text.
func (s *InsightService) Summarize(ctx context.Context, students []models.Student, records []models.AttendanceRecord) models.InsightResult {
	start := s.now()
	result := models.InsightResult{Text: InsightFallbackText}

	text, err := s.generate(ctx, students, records)
	if err != nil {
		s.logger.Warn("insight generation unavailable", zap.Error(err))
	} else {
		result.Available = true
		result.Text = text
		if strings.TrimSpace(text) == "" {
			result.Text = InsightEmptyText
		}
	}

	result.GeneratedAt = s.now().UTC()
	if s.metrics != nil {
		s.metrics.RecordInsight(result.Available, s.now().Sub(start))
	}
	return result
}

// generate returns the raw summary. Every failure is an ErrInsightUnavailable.
func (s *InsightService) generate(ctx context.Context, students []models.Student, records []models.AttendanceRecord) (string, error) {
	if s.generator == nil {
		return "", appErrors.Clone(appErrors.ErrInsightUnavailable, "no text generator configured")
	}
	prompt, err := BuildInsightPrompt(students, records)
	if err != nil {
		return "", unavailable(err)
	}
	text, err := s.generator.GenerateContent(ctx, s.cfg.Model, prompt, s.cfg.Temperature)
	if err != nil {
		return "", unavailable(err)
	}
	return text, nil
}

func unavailable(err error) error {
	return appErrors.Wrap(err, appErrors.ErrInsightUnavailable.Code, appErrors.ErrInsightUnavailable.Status, appErrors.ErrInsightUnavailable.Message)
}

type promptStudent struct {
	Name   string               `json:"name"`
	Dept   models.Department    `json:"dept"`
	Status models.StudentStatus `json:"status"`
}

// BuildInsightPrompt renders the analysis prompt for the roster. Records are accepted
// for future trend analysis and are not embedded yet.
func BuildInsightPrompt(students []models.Student, _ []models.AttendanceRecord) (string, error) {
	rows := make([]promptStudent, 0, len(students))
	for _, st := range students {
		rows = append(rows, promptStudent{Name: st.Name, Dept: st.Department, Status: st.Status})
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rows); err != nil {
		return "", fmt.Errorf("encode prompt data: %w", err)
	}
	payload := bytes.TrimRight(buf.Bytes(), "\n")

	depts := make([]string, 0, len(models.Departments))
	for _, d := range models.Departments {
		depts = append(depts, string(d))
	}

	var b strings.Builder
	b.WriteString("Analyze the following hostel attendance data and provide a professional, concise executive summary for the warden.\n")
	fmt.Fprintf(&b, "Consider the performance across different engineering departments (%s).\n\n", strings.Join(depts, ", "))
	b.WriteString("Data:\n")
	fmt.Fprintf(&b, "Total Students: %d\n", len(students))
	b.WriteString("Current Attendance State:\n")
	b.Write(payload)
	b.WriteString("\n\nInstructions:\n")
	b.WriteString("1. Identify trends (e.g., which department has the most absences).\n")
	b.WriteString("2. Highlight any critical patterns.\n")
	b.WriteString("3. Suggest operational improvements for specific departments if needed.\n")
	b.WriteString("4. Provide the response as a clear, formatted report.\n")
	return b.String(), nil
}
