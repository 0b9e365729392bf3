// Package agents contains the AI post-processing adapters that run on top
// of executed query results, and the coordinator that fans them out. The
// adapters never return errors: every failure mode degrades to a
// deterministic fallback value.
package agents

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"datadeck/ai"
	"datadeck/models"
	"datadeck/tools"
)

const (
	maxFollowupQuestions = 5
	maxInsights          = 3
)

// ChatCompleter is the chat-completion capability consumed by the agents.
type ChatCompleter interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error)
}

// AnalysisAgent turns query results into a business summary, follow-up
// questions and insights.
type AnalysisAgent struct {
	llm     ChatCompleter
	timeout time.Duration
	log     *slog.Logger
}

func NewAnalysisAgent(llm ChatCompleter, timeout time.Duration, log *slog.Logger) *AnalysisAgent {
	return &AnalysisAgent{llm: llm, timeout: timeout, log: log}
}

// FallbackAnalysis is the static result substituted when the AI path
// fails; it is also used by the coordinator's defensive recover path.
func FallbackAnalysis() models.AnalysisResult {
	return models.AnalysisResult{
		Summary: "Query executed successfully. Results are displayed in the table below.",
		FollowupQuestions: []string{
			"Show the breakdown by region",
			"Compare with previous period",
			"Show trends over time",
		},
		Insights: []string{},
	}
}

// Analyze produces an AnalysisResult for the given question and results.
// It always succeeds: timeouts, endpoint failures and unparseable output
// all yield the static fallback.
func (a *AnalysisAgent) Analyze(ctx context.Context, question, sqlQuery string, results *models.QueryResults) models.AnalysisResult {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := ai.BuildAnalysisPrompt(question, sqlQuery, results)
	messages := []ai.Message{{Role: "user", Content: prompt}}

	response, err := a.completeWithTools(ctx, messages)
	if err != nil {
		if isAuthError(err) {
			// Expected when the inference endpoint is unreachable from a
			// local environment; the rest of the pipeline still works.
			a.log.Warn("analysis endpoint rejected credentials, using fallback", "error", err)
		} else {
			a.log.Error("analysis call failed, using fallback", "error", err)
		}
		return FallbackAnalysis()
	}

	parsed, ok := parseAnalysis(response)
	if !ok {
		a.log.Error("failed to parse analysis response, using fallback")
		return FallbackAnalysis()
	}
	return parsed
}

// completeWithTools calls the model with the mock-lookup tools attached,
// executes any requested tool calls, and asks the model for a final answer.
// Endpoints that reject the tools parameter get one retry without tools.
func (a *AnalysisAgent) completeWithTools(ctx context.Context, messages []ai.Message) (string, error) {
	req := ai.CompletionRequest{
		Messages:    messages,
		Tools:       tools.Definitions(),
		MaxTokens:   2000,
		Temperature: 0.7,
	}

	response, err := a.llm.Complete(ctx, req)
	if errors.Is(err, ai.ErrToolsUnsupported) {
		a.log.Warn("tools parameter not supported by endpoint, retrying without tools")
		req.Tools = nil
		response, err = a.llm.Complete(ctx, req)
	}
	if err != nil {
		return "", err
	}

	if len(response.ToolCalls) == 0 {
		return response.Content, nil
	}

	a.log.Info("model requested tool calls", "count", len(response.ToolCalls))
	messages = append(messages, ai.Message{
		Role:      "assistant",
		Content:   response.Content,
		ToolCalls: response.ToolCalls,
	})
	for _, call := range response.ToolCalls {
		var args map[string]interface{}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			args = map[string]interface{}{}
		}
		result, err := tools.Execute(call.Function.Name, args)
		if err != nil {
			result = map[string]interface{}{"error": err.Error()}
		}
		encoded, _ := json.Marshal(result)
		messages = append(messages, ai.Message{
			Role:       "tool",
			Content:    string(encoded),
			ToolCallID: call.ID,
		})
	}

	final, err := a.llm.Complete(ctx, ai.CompletionRequest{
		Messages:    messages,
		MaxTokens:   2000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return final.Content, nil
}

func parseAnalysis(response string) (models.AnalysisResult, bool) {
	cleaned := ai.StripCodeFence(response)

	var parsed struct {
		Summary           string   `json:"summary"`
		FollowupQuestions []string `json:"followup_questions"`
		Insights          []string `json:"insights"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return models.AnalysisResult{}, false
	}

	result := models.AnalysisResult{
		Summary:           parsed.Summary,
		FollowupQuestions: parsed.FollowupQuestions,
		Insights:          parsed.Insights,
	}
	if result.Summary == "" {
		result.Summary = "Query executed successfully."
	}
	if len(result.FollowupQuestions) > maxFollowupQuestions {
		result.FollowupQuestions = result.FollowupQuestions[:maxFollowupQuestions]
	}
	if len(result.Insights) > maxInsights {
		result.Insights = result.Insights[:maxInsights]
	}
	if result.FollowupQuestions == nil {
		result.FollowupQuestions = []string{}
	}
	if result.Insights == nil {
		result.Insights = []string{}
	}
	return result, true
}

func isAuthError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"401", "403", "unauthorized", "forbidden", "permission"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
