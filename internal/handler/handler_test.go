package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/hostelflow-api/internal/middleware"
	"github.com/noah-isme/hostelflow-api/internal/models"
	"github.com/noah-isme/hostelflow-api/internal/repository"
	"github.com/noah-isme/hostelflow-api/internal/seed"
	"github.com/noah-isme/hostelflow-api/internal/service"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) GenerateContent(context.Context, string, string, float64) (string, error) {
	return s.text, s.err
}

type testApp struct {
	router     *gin.Engine
	controller *service.DashboardController
	tokens     *service.TokenService
	metrics    *service.MetricsService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kv := repository.NewMemoryKV()
	store := repository.NewAttendanceStore(kv)
	sessions := repository.NewSessionStore(kv)
	creds, err := service.NewStaticCredentials(service.StaticAccount{
		ID:       "admin-1",
		Email:    "admin@hostelflow.com",
		Password: "admin123",
		Name:     "Warden Admin",
		Role:     models.RoleWarden,
	})
	require.NoError(t, err)

	metrics := service.NewMetricsService()
	data := service.NewDataService(store, sessions, creds, nil, zap.NewNop(), service.Delays{})
	insight := service.NewInsightService(stubGenerator{text: "Attendance is steady."}, service.InsightConfig{}, metrics, zap.NewNop())
	roster, err := seed.Students()
	require.NoError(t, err)
	controller := service.NewDashboardController(data, insight, metrics, zap.NewNop(), service.ControllerConfig{Seed: roster})
	controller.Start(context.Background())
	t.Cleanup(controller.Stop)
	controller.Init(context.Background())

	tokens := service.NewTokenService(service.TokenConfig{Secret: "test-secret", Issuer: "hostelflow"})

	authHandler := NewAuthHandler(controller, tokens)
	dashboardHandler := NewDashboardHandler(controller)
	studentHandler := NewStudentHandler(controller)
	recordHandler := NewRecordHandler(controller)
	reportHandler := NewReportHandler(controller)
	exportHandler := NewExportHandler(controller, service.NewExportService(zap.NewNop(), nil, nil))
	metricsHandler := NewMetricsHandler(metrics, controller)

	r := gin.New()
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.POST("/auth/login", authHandler.Login)

	secured := r.Group("/")
	secured.Use(middleware.JWT(tokens, controller))
	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/me", authHandler.Me)
	secured.GET("/dashboard", dashboardHandler.Summary)
	secured.GET("/dashboard/state", dashboardHandler.State)
	secured.POST("/dashboard/view", dashboardHandler.Navigate)
	secured.PUT("/dashboard/filters", dashboardHandler.UpdateFilters)
	secured.GET("/dashboard/students", dashboardHandler.Students)
	secured.GET("/students", studentHandler.List)
	secured.POST("/students/bulk", studentHandler.BulkUpload)
	secured.POST("/students/:id/toggle", studentHandler.Toggle)
	secured.PUT("/students/:id/status", studentHandler.UpdateStatus)
	secured.GET("/records", recordHandler.List)
	secured.POST("/records", recordHandler.Create)
	secured.GET("/reports/insight", reportHandler.Get)
	secured.POST("/reports/insight", reportHandler.Generate)
	secured.GET("/exports/attendance", exportHandler.Attendance)
	secured.GET("/metrics/summary", metricsHandler.Summary)

	return &testApp{router: r, controller: controller, tokens: tokens, metrics: metrics}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: "admin@hostelflow.com", Password: "admin123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res models.LoginResponse
	decodeData(t, rec, &res)
	require.NotEmpty(t, res.AccessToken)
	return res.AccessToken
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if target != nil {
		require.NoError(t, json.Unmarshal(env.Data, target))
	}
	return env
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	return env.Error.Code
}
