package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	startTime time.Time
	version   string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		version:   version,
	}
}

// Health returns the health status and uptime of the API.
//
// This endpoint is used by load balancers and monitoring systems
// to verify the service is running.
func (h *HealthHandler) Health(c *gin.Context) {
	resp := gin.H{
		"status": "healthy",
		"uptime": time.Since(h.startTime).String(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if h.version != "" {
		resp["version"] = h.version
	}
	c.JSON(http.StatusOK, resp)
}
