package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostelflow-api/internal/models"
	"github.com/noah-isme/hostelflow-api/internal/service"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
	"github.com/noah-isme/hostelflow-api/pkg/response"
)

type readinessSource interface {
	Snapshot() models.ConsoleState
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics   *service.MetricsService
	readiness readinessSource
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, readiness readinessSource) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, readiness: readiness}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Summary returns aggregated counters as JSON.
func (h *MetricsHandler) Summary(c *gin.Context) {
	if h.metrics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports ready once the initial load has completed.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.readiness == nil || !h.readiness.Snapshot().Loaded {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "initial load in progress"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
