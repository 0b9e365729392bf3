package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrToolsUnsupported is returned when the completion endpoint rejects the
// tools parameter. Callers retry the same request without tools.
var ErrToolsUnsupported = errors.New("ai: tools parameter not supported by endpoint")

// Message is one role-tagged turn sent to the completion endpoint.
type Message struct {
	Role       string     `json:"role"` // system, user, assistant, tool
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded
}

// Tool is a function definition offered to the model.
type Tool struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

type FunctionDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// CompletionRequest is a single chat-completion call.
type CompletionRequest struct {
	Messages    []Message
	Tools       []Tool
	MaxTokens   int
	Temperature float64
}

// CompletionResponse carries the model's text and any requested tool calls.
type CompletionResponse struct {
	Content   string
	ToolCalls []ToolCall
}

type apiRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Tools       []Tool    `json:"tools,omitempty"`
}

type apiResponse struct {
	Choices []struct {
		Message struct {
			Role      string     `json:"role"`
			Content   string     `json:"content"`
			ToolCalls []ToolCall `json:"tool_calls,omitempty"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code,omitempty"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
	Param   string `json:"param,omitempty"`
}

// Client calls an OpenAI-compatible chat-completions endpoint. The
// underlying connection is shared and reused across requests; every call is
// stateless, the caller supplies full history each time.
type Client struct {
	apiURL             string
	apiKey             string
	modelName          string
	httpClient         *http.Client
	log                *slog.Logger
	lastRequestTime    time.Time
	requestMutex       sync.Mutex
	minRequestInterval time.Duration
}

func New(apiURL, apiKey, modelName string, log *slog.Logger) *Client {
	return &Client{
		apiURL:    apiURL,
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		log:                log,
		minRequestInterval: 200 * time.Millisecond,
	}
}

// rateLimit enforces a minimum interval between requests to avoid burst
// rate errors from the endpoint.
func (c *Client) rateLimit() {
	c.requestMutex.Lock()
	defer c.requestMutex.Unlock()

	elapsed := time.Since(c.lastRequestTime)
	if elapsed < c.minRequestInterval {
		time.Sleep(c.minRequestInterval - elapsed)
	}
	c.lastRequestTime = time.Now()
}

// Complete sends one chat-completion request. The context bounds the whole
// call; exceeding it surfaces as a context error for the caller to map to
// its own timeout policy.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	body := apiRequest{
		Model:       c.modelName,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Tools:       req.Tools,
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Retry with exponential backoff on rate limits and transient
	// network errors. Tool-unsupported and other API errors are not
	// retried here; the caller owns that policy.
	maxRetries := 2
	baseDelay := 1 * time.Second

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			c.log.Warn("retrying completion call", "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		c.rateLimit()

		resp, retryable, err := c.doRequest(ctx, jsonData, len(req.Tools) > 0)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, jsonData []byte, withTools bool) (*CompletionResponse, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("API returned status 429: %s", string(respBody))
	}

	var parsed apiResponse
	if jsonErr := json.Unmarshal(respBody, &parsed); jsonErr == nil && parsed.Error != nil {
		if withTools && isToolsRejection(parsed.Error) {
			return nil, false, ErrToolsUnsupported
		}
		return nil, false, fmt.Errorf("API error (status %d): %s %s", httpResp.StatusCode, parsed.Error.Code, parsed.Error.Message)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("API returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	if len(parsed.Choices) == 0 {
		return nil, false, fmt.Errorf("no response from AI model")
	}

	msg := parsed.Choices[0].Message
	return &CompletionResponse{
		Content:   msg.Content,
		ToolCalls: msg.ToolCalls,
	}, false, nil
}

// isToolsRejection recognizes the error signature an endpoint produces when
// it does not understand the tools parameter, as opposed to any other
// request failure.
func isToolsRejection(e *apiError) bool {
	if strings.Contains(strings.ToLower(e.Param), "tool") {
		return true
	}
	msg := strings.ToLower(e.Message)
	if !strings.Contains(msg, "tool") {
		return false
	}
	for _, marker := range []string{"unsupported", "unknown", "unexpected", "invalid", "not supported"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
