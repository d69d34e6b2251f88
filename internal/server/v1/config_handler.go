package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/app-config-api/internal/core/ports"
)

const jsonContentType = "application/json; charset=utf-8"

type ConfigHandler struct {
	provider ports.SettingsProvider
}

func NewConfigHandler(provider ports.SettingsProvider) *ConfigHandler {
	return &ConfigHandler{provider: provider}
}

// RegisterRoutes binds the handler to GET / of r.
func (h *ConfigHandler) RegisterRoutes(r gin.IRoutes) gin.IRoutes {
	return r.GET("/", h.Get)
}

// Get returns the application settings as JSON.
//
// GET /
//
// The body is encoded before anything is written, so an encoding failure
// reaches the error middleware and the client sees a 500, never a partial body.
func (h *ConfigHandler) Get(c *gin.Context) {
	body, err := h.provider.Settings().Encode()
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Data(http.StatusOK, jsonContentType, body)
}
