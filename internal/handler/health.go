package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check and service index requests.
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a HealthHandler that reports the given version.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// HealthCheck returns service health status.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Index lists the API surface for quick manual discovery.
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "formguard",
		"version": h.version,
		"endpoints": gin.H{
			"submissions":      "/api/submissions",
			"human":            "/api/submissions/human",
			"human_background": "/api/submissions/human/background",
			"bot":              "/api/submissions/bot",
			"stats":            "/api/stats",
			"classification":   "/api/stats/classification",
			"whitelist":        "/api/whitelist",
			"pointer_clicks":   "/api/clicks/pointer",
			"page_clicks":      "/api/clicks/page",
			"click_stats":      "/api/clicks/stats",
			"health":           "/health",
		},
	})
}
