package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datadeck/ai"
)

func TestAnalyzeParsesModelResponse(t *testing.T) {
	llm := &scriptedCompleter{
		responses: []*ai.CompletionResponse{{
			Content: "```json\n{\"summary\": \"West leads revenue.\", \"followup_questions\": [\"Why is North behind?\"], \"insights\": [\"West is 26% ahead of East\"]}\n```",
		}},
	}
	agent := NewAnalysisAgent(llm, time.Second, testLogger())

	result := agent.Analyze(context.Background(), "revenue by region", "SELECT region, revenue FROM sales", salesResults())

	assert.Equal(t, "West leads revenue.", result.Summary)
	assert.Equal(t, []string{"Why is North behind?"}, result.FollowupQuestions)
	assert.Equal(t, []string{"West is 26% ahead of East"}, result.Insights)
}

func TestAnalyzeFallsBackOnError(t *testing.T) {
	llm := &scriptedCompleter{errs: []error{errors.New("connection refused")}}
	agent := NewAnalysisAgent(llm, time.Second, testLogger())

	result := agent.Analyze(context.Background(), "q", "SELECT 1", salesResults())

	assert.Equal(t, FallbackAnalysis(), result)
}

func TestAnalyzeFallsBackOnAuthError(t *testing.T) {
	llm := &scriptedCompleter{errs: []error{errors.New("API returned status 401: unauthorized")}}
	agent := NewAnalysisAgent(llm, time.Second, testLogger())

	result := agent.Analyze(context.Background(), "q", "SELECT 1", salesResults())

	assert.Equal(t, FallbackAnalysis(), result)
	assert.NotEmpty(t, result.FollowupQuestions)
	assert.Empty(t, result.Insights)
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, isAuthError(errors.New("API returned status 401: unauthorized")))
	assert.True(t, isAuthError(errors.New("API returned status 403: Forbidden")))
	assert.True(t, isAuthError(errors.New("API error (status 403): permission denied for model")))
	assert.False(t, isAuthError(errors.New("connection refused")))
	assert.False(t, isAuthError(errors.New("API returned status 429: rate limited")))
}

func TestAnalyzeFallsBackOnMalformedResponse(t *testing.T) {
	llm := &scriptedCompleter{
		responses: []*ai.CompletionResponse{{Content: "The data shows strong sales in the West."}},
	}
	agent := NewAnalysisAgent(llm, time.Second, testLogger())

	result := agent.Analyze(context.Background(), "q", "SELECT 1", salesResults())

	assert.Equal(t, FallbackAnalysis(), result)
}

func TestAnalyzeRetriesWithoutToolsWhenRejected(t *testing.T) {
	llm := &scriptedCompleter{
		errs: []error{ai.ErrToolsUnsupported, nil},
		responses: []*ai.CompletionResponse{nil, {
			Content: "{\"summary\": \"done\", \"followup_questions\": [], \"insights\": []}",
		}},
	}
	agent := NewAnalysisAgent(llm, time.Second, testLogger())

	result := agent.Analyze(context.Background(), "q", "SELECT 1", salesResults())

	require.Len(t, llm.requests, 2)
	assert.NotEmpty(t, llm.requests[0].Tools)
	assert.Empty(t, llm.requests[1].Tools, "retry must drop the tools parameter")
	assert.Equal(t, "done", result.Summary)
}

func TestAnalyzeExecutesToolCalls(t *testing.T) {
	llm := &scriptedCompleter{
		responses: []*ai.CompletionResponse{
			{ToolCalls: []ai.ToolCall{{
				ID:   "call_1",
				Type: "function",
				Function: ai.FunctionCall{
					Name:      "get_competitor_pricing",
					Arguments: "{\"product\": \"Widget\"}",
				},
			}}},
			{Content: "{\"summary\": \"Competitors price Widget higher.\", \"followup_questions\": [], \"insights\": []}"},
		},
	}
	agent := NewAnalysisAgent(llm, time.Second, testLogger())

	result := agent.Analyze(context.Background(), "q", "SELECT 1", salesResults())

	require.Len(t, llm.requests, 2)
	final := llm.requests[1].Messages
	require.GreaterOrEqual(t, len(final), 3)
	assert.Equal(t, "assistant", final[len(final)-2].Role)
	assert.Equal(t, "tool", final[len(final)-1].Role)
	assert.Equal(t, "call_1", final[len(final)-1].ToolCallID)
	assert.Contains(t, final[len(final)-1].Content, "product")
	assert.Equal(t, "Competitors price Widget higher.", result.Summary)
}

func TestParseAnalysisClampsLists(t *testing.T) {
	response := `{
		"summary": "ok",
		"followup_questions": ["a", "b", "c", "d", "e", "f", "g"],
		"insights": ["1", "2", "3", "4", "5"]
	}`

	result, ok := parseAnalysis(response)

	require.True(t, ok)
	assert.Len(t, result.FollowupQuestions, maxFollowupQuestions)
	assert.Len(t, result.Insights, maxInsights)
}

func TestParseAnalysisDefaultsMissingFields(t *testing.T) {
	result, ok := parseAnalysis(`{"summary": ""}`)

	require.True(t, ok)
	assert.Equal(t, "Query executed successfully.", result.Summary)
	assert.NotNil(t, result.FollowupQuestions)
	assert.NotNil(t, result.Insights)
	assert.Empty(t, result.FollowupQuestions)
	assert.Empty(t, result.Insights)
}
