package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is any store the health check should reach.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	res := gin.H{"status": "healthy"}
	status := http.StatusOK

	for name, p := range h.checks {
		if err := p.PingContext(c.Request.Context()); err != nil {
			res[name] = "disconnected"
			res["status"] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		res[name] = "connected"
	}

	c.JSON(status, res)
}
