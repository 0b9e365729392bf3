package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"datadeck/ai"
	"datadeck/models"
)

const modifyVisualizationTool = "modify_visualization"

// VisualizationModifier is the chart-modification capability consumed by
// the chat router.
type VisualizationModifier interface {
	Modify(ctx context.Context, current *models.VisualizationSpec, results *models.QueryResults, modificationRequest string) *models.VisualizationSpec
}

// ChatService routes conversational follow-ups: a message is either an
// analytical question about the current results or a request to mutate the
// currently displayed chart. Routing is done by the model via an explicit
// tool call, with a keyword router as fallback for endpoints without
// tool-call support.
type ChatService struct {
	llm     ChatCompleter
	viz     VisualizationModifier
	timeout time.Duration
	log     *slog.Logger
}

// ChatCompleter mirrors the agents' completion dependency; redeclared here
// so the chat router does not import the agents package for one interface.
type ChatCompleter interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error)
}

func NewChatService(llm ChatCompleter, viz VisualizationModifier, timeout time.Duration, log *slog.Logger) *ChatService {
	return &ChatService{llm: llm, viz: viz, timeout: timeout, log: log}
}

var cannedFollowups = []string{
	"Can you explain this in more detail?",
	"What are the key insights?",
	"What should I do next?",
}

// Chat handles one conversational turn. It never returns an error: every
// failure mode degrades to a well-formed response, and a failed chart
// modification leaves the caller's current spec untouched (no spec in the
// reply means keep the old one).
func (s *ChatService) Chat(ctx context.Context, req *models.ChatRequest) *models.ChatResponse {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	results := req.Context.CurrentQueryResults
	currentSpec := req.Context.CurrentVisualization

	messages := []ai.Message{{Role: "system", Content: ai.BuildChatSystemContext(results)}}
	for _, turn := range req.Context.ConversationHistory {
		role := "user"
		if turn.Role == "assistant" {
			role = "assistant"
		}
		messages = append(messages, ai.Message{Role: role, Content: turn.Content})
	}
	messages = append(messages, ai.Message{Role: "user", Content: req.Message})

	completionReq := ai.CompletionRequest{
		Messages:    messages,
		MaxTokens:   1500,
		Temperature: 0.7,
	}
	if currentSpec != nil {
		completionReq.Tools = []ai.Tool{modifyVisualizationToolDef()}
	}

	toolsUnsupported := false
	response, err := s.llm.Complete(ctx, completionReq)
	if errors.Is(err, ai.ErrToolsUnsupported) {
		s.log.Warn("endpoint rejected tools parameter, retrying without tools")
		toolsUnsupported = true
		completionReq.Tools = nil
		response, err = s.llm.Complete(ctx, completionReq)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &models.ChatResponse{
				Message:            "This is taking longer than expected. Please try again.",
				SuggestedFollowups: []string{},
				Confidence:         1.0,
			}
		}
		s.log.Error("chat completion failed", "error", err)
		return &models.ChatResponse{
			Message:            "I'm currently unavailable. Please try again later.",
			SuggestedFollowups: []string{},
			Confidence:         1.0,
		}
	}

	// Native tool-call routing.
	if currentSpec != nil {
		for _, call := range response.ToolCalls {
			if call.Function.Name != modifyVisualizationTool {
				continue
			}
			var args struct {
				ModificationRequest string `json:"modification_request"`
			}
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil || args.ModificationRequest == "" {
				args.ModificationRequest = req.Message
			}
			return s.modifyChart(ctx, currentSpec, results, args.ModificationRequest)
		}
	}

	// Secondary, best-effort router for endpoints without tool-call
	// support: decide after the fact from the message vocabulary.
	if toolsUnsupported && currentSpec != nil && isVisualizationRequest(req.Message) {
		return s.modifyChart(ctx, currentSpec, results, req.Message)
	}

	return parseChatReply(response.Content)
}

func (s *ChatService) modifyChart(ctx context.Context, currentSpec *models.VisualizationSpec, results *models.QueryResults, request string) *models.ChatResponse {
	s.log.Info("routing chat turn to chart modification", "request", request)

	modified := s.viz.Modify(ctx, currentSpec, results, request)
	if modified == nil {
		return &models.ChatResponse{
			Message:            "Sorry, I wasn't able to apply that change to the chart. The current chart is unchanged.",
			SuggestedFollowups: []string{},
			Confidence:         1.0,
		}
	}
	return &models.ChatResponse{
		Message:            "I've updated the chart as requested.",
		SuggestedFollowups: []string{},
		Visualization:      modified,
		Confidence:         1.0,
	}
}

// parseChatReply parses the model's analytical answer; replies that are
// not the expected JSON are returned verbatim with canned follow-ups. A
// blank reply (e.g. a tool call this router does not recognize and no
// accompanying text) gets a rephrase prompt instead of an empty message.
func parseChatReply(content string) *models.ChatResponse {
	cleaned := ai.StripCodeFence(content)

	var parsed struct {
		Message            string   `json:"message"`
		SuggestedFollowups []string `json:"suggested_followups"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil || parsed.Message == "" {
		message := strings.TrimSpace(content)
		if message == "" {
			message = "I wasn't able to come up with an answer for that. Could you rephrase your question?"
		}
		return &models.ChatResponse{
			Message:            message,
			SuggestedFollowups: cannedFollowups,
			Confidence:         1.0,
		}
	}
	if parsed.SuggestedFollowups == nil {
		parsed.SuggestedFollowups = []string{}
	}
	return &models.ChatResponse{
		Message:            parsed.Message,
		SuggestedFollowups: parsed.SuggestedFollowups,
		Confidence:         1.0,
	}
}

func modifyVisualizationToolDef() ai.Tool {
	return ai.Tool{
		Type: "function",
		Function: ai.FunctionDef{
			Name:        modifyVisualizationTool,
			Description: "Modify the currently displayed chart. Use this whenever the user asks to change the chart's type, colors, title, labels, annotations, fonts, sizes or layout.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"modification_request": map[string]interface{}{
						"type":        "string",
						"description": "Free-text description of the requested chart change",
					},
				},
				"required": []string{"modification_request"},
			},
		},
	}
}

var visualizationKeywords = []string{
	"chart", "graph", "plot", "visualize", "visualization",
	"color", "colour", "blue", "red", "green", "yellow", "orange", "purple",
	"black", "white", "pink", "cyan", "magenta", "gray", "grey", "brown",
	"pie", "bar", "line", "scatter", "make it", "show as", "change to", "convert",
	"annotation", "label", "title", "axis", "legend", "layout", "font", "bigger", "smaller",
}

// isVisualizationRequest matches the chart-editing vocabulary in a user
// message.
func isVisualizationRequest(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range visualizationKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
