package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
	"github.com/noah-isme/hostelflow-api/pkg/export"
)

// ExportFormat enumerates supported download formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportDataset selects which collection is exported.
type ExportDataset string

const (
	ExportStudents ExportDataset = "students"
	ExportRecords  ExportDataset = "records"
)

// ExportResult carries a rendered export ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportService renders the roster or the attendance history as CSV or PDF.
type ExportService struct {
	csv    tableRenderer
	pdf    tableRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(logger *zap.Logger, csv, pdf tableRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Render builds the dataset and encodes it in the requested format.
func (s *ExportService) Render(kind ExportDataset, format ExportFormat, students []models.Student, records []models.AttendanceRecord) (*ExportResult, error) {
	var table export.Table
	switch kind {
	case ExportStudents, "":
		kind = ExportStudents
		table = studentTable(students)
		table.Title = "Hostel Roster"
	case ExportRecords:
		table = recordTable(records, students)
		table.Title = "Attendance History"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported dataset %q", kind))
	}
	now := s.now().UTC()
	table.Subtitle = "Generated " + now.Format(CheckInLayout) + " UTC"
	table.Tints = statusTints

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case ExportFormatCSV, "":
		format = ExportFormatCSV
		payload, err = s.csv.Render(table)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(table)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("hostelflow_%s_%s.%s", kind, now.Format("20060102_150405"), format)
	s.logger.Debug("export rendered", zap.String("file", filename), zap.Int("bytes", len(payload)))
	return &ExportResult{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

var statusTints = map[string]export.RGB{
	"PRESENT":  {R: 223, G: 245, B: 227},
	"ABSENT":   {R: 252, G: 226, B: 226},
	"LATE":     {R: 254, G: 243, B: 199},
	"ON-LEAVE": {R: 237, G: 237, B: 237},
}

func studentTable(students []models.Student) export.Table {
	rows := make([][]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, []string{
			st.ID,
			st.Name,
			st.RollNumber,
			string(st.Department),
			st.RoomNumber,
			strconv.Itoa(st.Floor),
			strings.ToUpper(string(st.Status)),
			st.LastCheckIn,
		})
	}
	return export.Table{
		Columns: []export.Column{
			{Header: "ID", Weight: 1.6},
			{Header: "Name", Weight: 2.2},
			{Header: "Roll Number", Weight: 1.4},
			{Header: "Department"},
			{Header: "Room", Weight: 0.7},
			{Header: "Floor", Weight: 0.6},
			{Header: "Status"},
			{Header: "Last Check-In", Weight: 1.5},
		},
		Rows:       rows,
		TintColumn: 6,
	}
}

func recordTable(records []models.AttendanceRecord, students []models.Student) export.Table {
	names := make(map[string]string, len(students))
	for _, st := range students {
		names[st.ID] = st.Name
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID,
			r.StudentID,
			names[r.StudentID],
			r.Date,
			r.Timestamp,
			strings.ToUpper(string(r.Status)),
			string(r.Method),
		})
	}
	return export.Table{
		Columns: []export.Column{
			{Header: "Record ID", Weight: 2.2},
			{Header: "Student ID", Weight: 1.5},
			{Header: "Student", Weight: 2},
			{Header: "Date", Weight: 1.1},
			{Header: "Time", Weight: 1.1},
			{Header: "Status", Weight: 0.9},
			{Header: "Method", Weight: 0.9},
		},
		Rows:       rows,
		TintColumn: 5,
	}
}
