package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks         map[string]Check
	isShuttingDown func() bool
}

// create a new instance of the health handler; isShuttingDown may be nil
func NewHealthHandler(checks map[string]Check, isShuttingDown func() bool) *HealthHandler {
	return &HealthHandler{checks: checks, isShuttingDown: isShuttingDown}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.isShuttingDown != nil && h.isShuttingDown() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 1*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(gin.H, len(h.checks))

	for name, check := range h.checks {
		if check == nil {
			continue
		}

		if err := check(cctx); err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = "down"
			continue
		}

		deps[name] = "up"
	}

	if status != http.StatusOK {
		ctx.JSON(status, gin.H{"status": "not_ready", "deps": deps})
		return
	}

	ctx.JSON(status, gin.H{"status": "ready", "deps": deps})
}
