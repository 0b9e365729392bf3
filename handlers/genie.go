package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"datadeck/models"
	"datadeck/service"
)

// AskQuestionHandler answers a natural-language question
// @Summary      Ask a natural language question
// @Description  Generates SQL from the question, executes it on the warehouse, and enriches the results with an AI summary, follow-up questions and a chart specification
// @Tags         Genie
// @Accept       json
// @Produce      json
// @Param        request  body      models.AskQuestionRequest  true  "Question request"
// @Success      200      {object}  models.AskQuestionResponse  "Answer with results and AI insights"
// @Failure      400      {object}  map[string]string  "Invalid request"
// @Failure      502      {object}  map[string]string  "SQL generation failed"
// @Failure      500      {object}  map[string]string  "Query execution failed"
// @Router       /api/genie/ask [post]
func (h *Handlers) AskQuestionHandler(c *gin.Context) {
	var req models.AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: question is required"})
		return
	}

	answer, err := h.genie.Ask(c.Request.Context(), req.Question, req.SkipCache)
	if err != nil {
		var genErr *service.SQLGenerationError
		if errors.As(err, &genErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":       "Could not generate a SQL query for this question",
				"question":    genErr.Question,
				"genieAnswer": genErr.Answer,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "question": req.Question})
		return
	}

	// AI enrichment runs on every request, cache hits included; neither
	// branch can fail the request.
	enrichment := h.coordinator.Enrich(c.Request.Context(), req.Question, answer)

	c.JSON(http.StatusOK, models.AskQuestionResponse{
		Question:           answer.Question,
		SQL:                answer.SQL,
		GenieAnswer:        answer.GenieAnswer,
		Results:            answer.Results,
		AISummary:          enrichment.Analysis.Summary,
		Insights:           enrichment.Analysis.Insights,
		SuggestedFollowups: enrichment.Analysis.FollowupQuestions,
		Visualization:      enrichment.Visualization,
		ExecutionTimeMs:    answer.ExecutionTimeMs,
		QueryID:            answer.QueryID,
		Cached:             answer.Cached,
	})
}

// SuggestionsHandler lists predefined starter questions
// @Summary      List suggested questions
// @Description  Get a small static list of suggested questions to ask
// @Tags         Genie
// @Produce      json
// @Success      200  {array}  models.SuggestedQuestion  "Suggested questions"
// @Router       /api/genie/suggestions [get]
func (h *Handlers) SuggestionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.genie.SuggestedQuestions())
}

// CancelQueryHandler requests cancellation of a running query
// @Summary      Cancel a running query
// @Description  Placeholder cancellation endpoint; query tracking exists but cancellation of in-flight questions is not guaranteed
// @Tags         Genie
// @Produce      json
// @Param        query_id  path      string  true  "Query ID"
// @Success      200       {object}  map[string]interface{}  "Cancellation requested"
// @Router       /api/genie/cancel/{query_id} [post]
func (h *Handlers) CancelQueryHandler(c *gin.Context) {
	queryID := c.Param("query_id")
	cancelled := h.warehouse.CancelQuery(queryID)

	h.log.Info("query cancellation requested", "query_id", queryID, "cancelled", cancelled)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Query " + queryID + " cancellation requested",
		"query_id": queryID,
	})
}
