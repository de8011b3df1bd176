package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
	"github.com/noah-isme/hostelflow-api/pkg/jobs"
)

const reportJobType = "attendance_insight"

type dataService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	FetchStudents(ctx context.Context) ([]models.Student, error)
	FetchRecords(ctx context.Context) ([]models.AttendanceRecord, error)
	BulkAddStudents(ctx context.Context, entries []models.NewStudent) ([]models.Student, error)
	ApplyStatusChange(ctx context.Context, studentID string, status models.StudentStatus) (*models.Student, error)
	SaveAttendanceRecord(ctx context.Context, record models.AttendanceRecord) (*models.AttendanceRecord, error)
	SeedIfAbsent(ctx context.Context, roster []models.Student) (bool, error)
}

type insightGenerator interface {
	Summarize(ctx context.Context, students []models.Student, records []models.AttendanceRecord) models.InsightResult
}

type attendanceRecorder interface {
	RecordToggle(status models.StudentStatus)
	RecordStudentsAdded(n int)
}

// ControllerConfig tunes the controller.
type ControllerConfig struct {
	// Seed is written to the store on Init when no roster was ever persisted. Nil disables seeding.
	Seed          []models.Student
	ReportWorkers int
}

// DashboardController holds the warden console state and orchestrates data operations.
type DashboardController struct {
	data    dataService
	insight insightGenerator
	metrics attendanceRecorder
	logger  *zap.Logger
	cfg     ControllerConfig
	reports *jobs.Queue

	// held for the whole toggle so sync cycles never interleave
	syncMu sync.Mutex

	mu         sync.RWMutex
	user       *models.User
	view       models.ViewType
	students   []models.Student
	records    []models.AttendanceRecord
	loaded     bool
	syncing    bool
	generating int
	report     *models.InsightResult
	search     string
	department string
}

// NewDashboardController constructs the controller. metrics may be nil.
func NewDashboardController(data dataService, insight insightGenerator, metrics attendanceRecorder, logger *zap.Logger, cfg ControllerConfig) *DashboardController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReportWorkers <= 0 {
		cfg.ReportWorkers = 1
	}
	c := &DashboardController{
		data:       data,
		insight:    insight,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
		view:       models.ViewDashboard,
		students:   []models.Student{},
		records:    []models.AttendanceRecord{},
		department: AllDepartments,
	}
	c.reports = jobs.NewQueue("reports", c.handleReportJob, jobs.QueueConfig{
		Workers:    cfg.ReportWorkers,
		MaxRetries: -1,
		Logger:     logger,
	})
	return c
}

// Start launches the background report workers.
func (c *DashboardController) Start(ctx context.Context) {
	c.reports.Start(ctx)
}

// Stop waits for the report workers to exit.
func (c *DashboardController) Stop() {
	c.reports.Stop()
}

// Init seeds an empty store, restores the session and loads both collections concurrently.
func (c *DashboardController) Init(ctx context.Context) {
	if c.cfg.Seed != nil {
		seeded, err := c.data.SeedIfAbsent(ctx, c.cfg.Seed)
		if err != nil {
			c.logger.Error("seed roster failed", zap.Error(err))
		} else if seeded {
			c.logger.Info("example roster written", zap.Int("students", len(c.cfg.Seed)))
		}
	}

	user, err := c.data.CurrentUser(ctx)
	switch {
	case err == nil:
		c.mu.Lock()
		c.user = user
		c.mu.Unlock()
	case !errors.Is(err, appErrors.ErrUnauthorized):
		c.logger.Error("restore session failed", zap.Error(err))
	}

	if err := c.fetchAll(ctx); err != nil {
		c.logger.Error("initial load failed", zap.Error(err))
	}

	c.mu.Lock()
	c.loaded = true
	c.mu.Unlock()
}

// Login authenticates the warden and moves the console into the authenticated state.
func (c *DashboardController) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := c.data.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
	c.scheduleReportIfDue()
	return user, nil
}

// Logout clears the session and the generated report.
func (c *DashboardController) Logout(ctx context.Context) error {
	if err := c.data.Logout(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.user = nil
	c.report = nil
	c.mu.Unlock()
	return nil
}

// CurrentUser returns the persisted session user.
func (c *DashboardController) CurrentUser(ctx context.Context) (*models.User, error) {
	return c.data.CurrentUser(ctx)
}

// Refresh reloads both collections from the store.
func (c *DashboardController) Refresh(ctx context.Context) error {
	return c.fetchAll(ctx)
}

func (c *DashboardController) fetchAll(ctx context.Context) error {
	var (
		students []models.Student
		records  []models.AttendanceRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = c.data.FetchStudents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = c.data.FetchRecords(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	c.students = students
	c.records = records
	c.mu.Unlock()
	return nil
}

// ToggleStatus flips a student between present and absent, appends a manual record
// mirroring the new status and reloads everything. Failures surface as sync errors.
func (c *DashboardController) ToggleStatus(ctx context.Context, studentID string) (*models.Student, error) {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	c.mu.Lock()
	var current *models.Student
	for i := range c.students {
		if c.students[i].ID == studentID {
			s := c.students[i]
			current = &s
			break
		}
	}
	if current == nil {
		c.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	c.syncing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.syncing = false
		c.mu.Unlock()
	}()

	next := current.Status.Toggled()
	updated, err := c.applyStatus(ctx, studentID, next)
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.RecordToggle(next)
	}
	return updated, nil
}

// SetStatus assigns any status to a student. Statuses with a record equivalent
// also append a manual record.
func (c *DashboardController) SetStatus(ctx context.Context, studentID string, status models.StudentStatus) (*models.Student, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid status %q", status))
	}
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	c.mu.Lock()
	c.syncing = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.syncing = false
		c.mu.Unlock()
	}()

	return c.applyStatus(ctx, studentID, status)
}

func (c *DashboardController) applyStatus(ctx context.Context, studentID string, status models.StudentStatus) (*models.Student, error) {
	updated, err := c.data.ApplyStatusChange(ctx, studentID, status)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) || errors.Is(err, appErrors.ErrValidation) {
			return nil, err
		}
		return nil, syncError(err, "failed to update student status")
	}

	if err := c.fetchAll(ctx); err != nil {
		return nil, syncError(err, "failed to reload attendance data")
	}
	c.logger.Info("student status synced", zap.String("student_id", studentID), zap.String("status", string(status)))
	return updated, nil
}

// RecordAttendance appends a record captured elsewhere (scanner, QR) and reloads.
func (c *DashboardController) RecordAttendance(ctx context.Context, record models.AttendanceRecord) (*models.AttendanceRecord, error) {
	saved, err := c.data.SaveAttendanceRecord(ctx, record)
	if err != nil {
		return nil, err
	}
	if err := c.fetchAll(ctx); err != nil {
		return nil, syncError(err, "failed to reload attendance data")
	}
	return saved, nil
}

// UploadRoster parses and appends a batch of students, then reloads.
func (c *DashboardController) UploadRoster(ctx context.Context, text string, department models.Department) ([]models.Student, error) {
	entries, err := ParseRoster(text, department)
	if err != nil {
		return nil, err
	}
	added, err := c.data.BulkAddStudents(ctx, entries)
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.RecordStudentsAdded(len(added))
	}
	if err := c.fetchAll(ctx); err != nil {
		c.logger.Warn("reload after upload failed", zap.Error(err))
	}
	return added, nil
}

// Navigate switches the active view. Opening reports for the first time queues a summary.
func (c *DashboardController) Navigate(view models.ViewType) error {
	if !view.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown view %q", view))
	}

	c.mu.Lock()
	c.view = view
	c.mu.Unlock()
	c.scheduleReportIfDue()
	return nil
}

// scheduleReportIfDue queues a summary when the reports view is open for a signed-in
// user with loaded data and no report exists or is being generated.
func (c *DashboardController) scheduleReportIfDue() {
	c.mu.Lock()
	due := c.view == models.ViewReports && c.report == nil && c.generating == 0 && c.loaded && c.user != nil
	if due {
		c.generating++
	}
	c.mu.Unlock()

	if !due {
		return
	}
	if err := c.reports.TryEnqueue(jobs.Job{Type: reportJobType}); err != nil {
		c.logger.Warn("report generation not scheduled", zap.Error(err))
		c.mu.Lock()
		c.generating--
		c.mu.Unlock()
	}
}

// GenerateReport always regenerates the summary from the current snapshot.
func (c *DashboardController) GenerateReport(ctx context.Context) models.InsightResult {
	c.mu.Lock()
	c.generating++
	c.mu.Unlock()
	return c.generate(ctx)
}

func (c *DashboardController) handleReportJob(ctx context.Context, _ jobs.Job) error {
	c.generate(ctx)
	return nil
}

// generate expects the caller to have incremented the generating counter.
func (c *DashboardController) generate(ctx context.Context) models.InsightResult {
	c.mu.RLock()
	students := append([]models.Student(nil), c.students...)
	records := append([]models.AttendanceRecord(nil), c.records...)
	c.mu.RUnlock()

	result := c.insight.Summarize(ctx, students, records)

	c.mu.Lock()
	c.report = &result
	c.generating--
	c.mu.Unlock()
	return result
}

// Report returns the last generated summary, if any.
func (c *DashboardController) Report() (models.InsightResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.report == nil {
		return models.InsightResult{}, false
	}
	return *c.report, true
}

// SetSearch updates the free-text roster search.
func (c *DashboardController) SetSearch(term string) {
	c.mu.Lock()
	c.search = term
	c.mu.Unlock()
}

// SetDepartmentFilter narrows the roster to one department; "All" or empty clears it.
func (c *DashboardController) SetDepartmentFilter(department string) error {
	department, err := normalizeDepartmentFilter(department)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.department = department
	c.mu.Unlock()
	return nil
}

// VisibleStudents applies the current search and department filter.
func (c *DashboardController) VisibleStudents() []models.Student {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FilterStudents(c.students, models.StudentFilter{Search: c.search, Department: c.department})
}

// FilteredStudents applies a caller supplied filter to the loaded roster. The
// console's own search and department filter are left untouched.
func (c *DashboardController) FilteredStudents(filter models.StudentFilter) ([]models.Student, error) {
	department, err := normalizeDepartmentFilter(filter.Department)
	if err != nil {
		return nil, err
	}
	filter.Department = department
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FilterStudents(c.students, filter), nil
}

func normalizeDepartmentFilter(department string) (string, error) {
	if department == "" {
		return AllDepartments, nil
	}
	if department != AllDepartments && !models.Department(department).Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown department %q", department))
	}
	return department, nil
}

// Students returns a copy of the loaded roster.
func (c *DashboardController) Students() []models.Student {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Student{}, c.students...)
}

// Records returns a copy of the loaded attendance history.
func (c *DashboardController) Records() []models.AttendanceRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.AttendanceRecord{}, c.records...)
}

// Stats recomputes the headline counters from the loaded roster.
func (c *DashboardController) Stats() models.HostelStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ComputeStats(c.students)
}

// Departments recomputes the per-department breakdown.
func (c *DashboardController) Departments() []models.DepartmentStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return DepartmentBreakdown(c.students)
}

// Snapshot returns the console state.
func (c *DashboardController) Snapshot() models.ConsoleState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state := models.ConsoleState{
		Authenticated:    c.user != nil,
		ActiveView:       c.view,
		Loaded:           c.loaded,
		Syncing:          c.syncing,
		GeneratingReport: c.generating > 0,
		Search:           c.search,
		DepartmentFilter: c.department,
	}
	if c.user != nil {
		u := *c.user
		state.User = &u
	}
	if c.report != nil {
		r := *c.report
		state.Report = &r
	}
	return state
}

func syncError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrSync.Code, appErrors.ErrSync.Status, message)
}
