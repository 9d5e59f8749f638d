package api

import (
	"net/http"
	"time"

	"island-npc-engine/backend/pkg/health"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports component status from the periodic checker.
type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	overall := "ok"
	if h.checker != nil && !h.checker.IsSystemHealthy() {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	resp := gin.H{
		"status":    overall,
		"timestamp": time.Now(),
	}
	if h.checker != nil {
		resp["components"] = h.checker.GetStatus()
	}

	c.JSON(status, resp)
}
