package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	serviceName string
	checks      map[string]HealthCheck
	timeout     time.Duration
}

func NewHealthHandler(serviceName string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		checks:      checks,
		timeout:     3 * time.Second,
	}
}

// Health handles GET /health. Any failing check turns the response into 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	results := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": h.serviceName,
		"checks":  results,
	})
}
