package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Check the health status of the service and the warehouse connection
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string  "Service health status"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	status := gin.H{
		"status":    "healthy",
		"warehouse": "not_connected",
	}
	if h.warehouse != nil && h.warehouse.IsConnected() {
		status["warehouse"] = "connected"
	}
	c.JSON(http.StatusOK, status)
}
