package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datadeck/models"
)

// ChatHandler handles conversational follow-ups about query results
// @Summary      Chat about the current results
// @Description  Multi-turn conversation about the current query results; can also modify the currently displayed chart in place. The caller owns all conversation state and must resend history each turn.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChatRequest  true  "Message with conversation context"
// @Success      200      {object}  models.ChatResponse  "Reply, follow-ups, and optionally an updated chart spec"
// @Failure      400      {object}  map[string]string  "Invalid request"
// @Router       /api/genie/chat [post]
func (h *Handlers) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: message is required"})
		return
	}

	response := h.chat.Chat(c.Request.Context(), &req)
	c.JSON(http.StatusOK, response)
}
