package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/hostelflow-api/api/swagger"
	"github.com/noah-isme/hostelflow-api/internal/handler"
	internalmiddleware "github.com/noah-isme/hostelflow-api/internal/middleware"
	"github.com/noah-isme/hostelflow-api/internal/models"
	"github.com/noah-isme/hostelflow-api/internal/repository"
	"github.com/noah-isme/hostelflow-api/internal/seed"
	"github.com/noah-isme/hostelflow-api/internal/service"
	"github.com/noah-isme/hostelflow-api/pkg/config"
	"github.com/noah-isme/hostelflow-api/pkg/gemini"
	"github.com/noah-isme/hostelflow-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/hostelflow-api/pkg/middleware/cors"
	"github.com/noah-isme/hostelflow-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/hostelflow-api/pkg/middleware/requestid"
)

// @title HostelFlow API
// @version 1.0.0
// @description Hostel attendance console for a single warden
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsService := service.NewMetricsService()

	kv, closeStore, err := openStore(ctx, cfg, metricsService, logr)
	if err != nil {
		logr.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()

	attendanceStore := repository.NewAttendanceStore(kv)
	sessionStore := repository.NewSessionStore(kv)

	credentials, err := service.NewStaticCredentials(service.StaticAccount{
		ID:       "u1",
		Email:    cfg.Auth.Email,
		Password: cfg.Auth.Password,
		Name:     cfg.Auth.Name,
		Avatar:   cfg.Auth.Avatar,
		Role:     models.RoleWarden,
	})
	if err != nil {
		logr.Fatal("invalid warden credentials", zap.Error(err))
	}

	delays := service.Delays{}
	if cfg.Latency.Enabled {
		delays = service.Delays{
			Login:         cfg.Latency.Login,
			FetchStudents: cfg.Latency.FetchStudents,
			FetchRecords:  cfg.Latency.FetchRecords,
			BulkAdd:       cfg.Latency.BulkAdd,
			UpdateStatus:  cfg.Latency.UpdateStatus,
			SaveRecord:    cfg.Latency.SaveRecord,
		}
	}

	dataService := service.NewDataService(attendanceStore, sessionStore, credentials, validator.New(), logr, delays)

	if cfg.Insight.APIKey == "" {
		logr.Warn("GEMINI_API_KEY not set; insight reports will use the fallback text")
	}
	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:  cfg.Insight.APIKey,
		BaseURL: cfg.Insight.BaseURL,
		Timeout: cfg.Insight.Timeout,
	})
	insightService := service.NewInsightService(geminiClient, service.InsightConfig{
		Model:       cfg.Insight.Model,
		Temperature: cfg.Insight.Temperature,
	}, metricsService, logr)

	controllerCfg := service.ControllerConfig{ReportWorkers: cfg.Reports.Workers}
	if cfg.Store.SeedOnStart {
		roster, err := seed.Students()
		if err != nil {
			logr.Fatal("invalid seed roster", zap.Error(err))
		}
		controllerCfg.Seed = roster
	}
	controller := service.NewDashboardController(dataService, insightService, metricsService, logr, controllerCfg)
	controller.Start(ctx)
	defer controller.Stop()
	go controller.Init(ctx)

	tokenService := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	exportService := service.NewExportService(logr, nil, nil)

	authHandler := handler.NewAuthHandler(controller, tokenService)
	dashboardHandler := handler.NewDashboardHandler(controller)
	studentHandler := handler.NewStudentHandler(controller)
	recordHandler := handler.NewRecordHandler(controller)
	reportHandler := handler.NewReportHandler(controller)
	exportHandler := handler.NewExportHandler(controller, exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService, controller)

	loginLimiter := ratelimit.NewTokenBucket(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginPerMinute)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(tokenService, controller))
	secured.Use(internalmiddleware.RequireRoles(models.RoleWarden, models.RoleAdmin))

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

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
