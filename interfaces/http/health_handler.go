package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type IHealthHandler interface {
	Healthz(ctx *gin.Context)
}

type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler reports 503 when any named check fails.
func NewHealthHandler(checks map[string]HealthCheck) IHealthHandler {
	return &HealthHandler{checks: checks}
}

// Healthz returns OK for health checks
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	c, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	deps := gin.H{}
	for _, name := range names {
		if err := h.checks[name](c); err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = err.Error()
			continue
		}
		deps[name] = "ok"
	}
	if status == http.StatusOK {
		ctx.JSON(status, gin.H{"status": "ok", "dependencies": deps})
		return
	}
	ctx.JSON(status, gin.H{"status": "degraded", "dependencies": deps})
}
