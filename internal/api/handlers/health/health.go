package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Checker reports whether one dependency is usable.
type Checker func(ctx context.Context) error

// Response is the /health body.
type Response struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	AI        bool                   `json:"ai_configured"`
	Checks    map[string]string      `json:"checks"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler serves the health, readiness and liveness probes.
type Handler struct {
	version      string
	aiConfigured bool
	checks       map[string]Checker
}

// NewHandler registers named dependency checks, such as "store" or "remote".
func NewHandler(version string, aiConfigured bool, checks map[string]Checker) *Handler {
	return &Handler{version: version, aiConfigured: aiConfigured, checks: checks}
}

func (h *Handler) runChecks(ctx context.Context) (map[string]string, bool) {
	results := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}
	return results, healthy
}

// HealthCheck reports dependency and runtime state. It answers 503 when a
// dependency check fails.
func (h *Handler) HealthCheck(c *gin.Context) {
	checks, healthy := h.runChecks(c.Request.Context())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	resp := Response{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		AI:        h.aiConfigured,
		Checks:    checks,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	status := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
		common.LogWarn("health check failed", zap.Any("checks", checks))
	}
	c.JSON(status, resp)
}

// ReadinessCheck is ready once every dependency answers.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	checks, healthy := h.runChecks(c.Request.Context())
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// LivenessCheck always answers while the process serves requests.
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
