package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datadeck/agents"
	"datadeck/ai"
	"datadeck/cache"
	"datadeck/config"
	"datadeck/models"
	"datadeck/service"
	"datadeck/warehouse"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	sql    string
	answer string
	err    error
}

func (f *fakeGenerator) GenerateSQL(context.Context, string) (string, string, error) {
	return f.sql, f.answer, f.err
}

type fakeExecutor struct {
	results *models.QueryResults
	err     error
}

func (f *fakeExecutor) ExecuteQuery(context.Context, string) (*models.QueryResults, error) {
	return f.results, f.err
}

type staticCompleter struct {
	content string
}

func (s *staticCompleter) Complete(context.Context, ai.CompletionRequest) (*ai.CompletionResponse, error) {
	return &ai.CompletionResponse{Content: s.content}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, gen *fakeGenerator, exec *fakeExecutor) *gin.Engine {
	t.Helper()
	log := testLogger()

	llm := &staticCompleter{content: `{"summary": "Looks good.", "followup_questions": ["Next?"], "insights": ["One insight"]}`}
	vizLLM := &staticCompleter{content: `{"chartType": "bar", "title": "Test Chart"}`}

	analysisAgent := agents.NewAnalysisAgent(llm, time.Second, log)
	vizAgent := agents.NewVisualizationAgent(vizLLM, time.Second, log)
	coordinator := agents.NewCoordinator(analysisAgent, vizAgent, log)

	genieService := service.NewGenieService(gen, exec, cache.New(10, time.Minute, true), time.Second, log)
	chatService := service.NewChatService(llm, vizAgent, time.Second, log)

	wh, err := warehouse.New(config.WarehouseConfig{Server: "localhost", Port: "1433", Database: "test"}, 100, time.Second, log)
	require.NoError(t, err)
	t.Cleanup(func() { wh.Close() })

	h := New(genieService, chatService, coordinator, wh, log)

	r := gin.New()
	r.GET("/health", h.HealthHandler)
	r.POST("/api/genie/ask", h.AskQuestionHandler)
	r.GET("/api/genie/suggestions", h.SuggestionsHandler)
	r.POST("/api/genie/cancel/:query_id", h.CancelQueryHandler)
	r.POST("/api/genie/chat", h.ChatHandler)
	r.GET("/api/tools/competitor-pricing", h.CompetitorPricingHandler)
	r.GET("/api/tools/market-trend", h.MarketTrendHandler)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAskQuestionReturnsEnrichedAnswer(t *testing.T) {
	gen := &fakeGenerator{sql: "SELECT region, revenue FROM sales", answer: "Revenue by region."}
	exec := &fakeExecutor{results: &models.QueryResults{
		Columns:  []string{"region", "revenue"},
		Rows:     [][]interface{}{{"West", "1200"}},
		RowCount: 1,
	}}
	r := newTestRouter(t, gen, exec)

	w := doRequest(r, http.MethodPost, "/api/genie/ask", `{"question": "Show revenue by region"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AskQuestionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, gen.sql, resp.SQL)
	assert.Equal(t, "Looks good.", resp.AISummary)
	assert.Equal(t, []string{"Next?"}, resp.SuggestedFollowups)
	assert.Equal(t, []string{"One insight"}, resp.Insights)
	require.NotNil(t, resp.Visualization)
	assert.Equal(t, "bar", resp.Visualization.ChartType)
	assert.NotEmpty(t, resp.QueryID)
	assert.False(t, resp.Cached)
}

func TestAskQuestionRequiresQuestion(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{}, &fakeExecutor{})

	w := doRequest(r, http.MethodPost, "/api/genie/ask", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskQuestionSQLGenerationFailureIs502(t *testing.T) {
	gen := &fakeGenerator{answer: "No matching table found.", err: errors.New("no SQL in response")}
	r := newTestRouter(t, gen, &fakeExecutor{})

	w := doRequest(r, http.MethodPost, "/api/genie/ask", `{"question": "gibberish"}`)

	require.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "No matching table found.", body["genieAnswer"])
	assert.Equal(t, "gibberish", body["question"])
}

func TestAskQuestionExecutionFailureIs500(t *testing.T) {
	gen := &fakeGenerator{sql: "SELECT bad FROM sales"}
	exec := &fakeExecutor{err: errors.New("invalid column name 'bad'")}
	r := newTestRouter(t, gen, exec)

	w := doRequest(r, http.MethodPost, "/api/genie/ask", `{"question": "q"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSuggestionsHandler(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{}, &fakeExecutor{})

	w := doRequest(r, http.MethodGet, "/api/genie/suggestions", "")

	require.Equal(t, http.StatusOK, w.Code)
	var suggestions []models.SuggestedQuestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suggestions))
	assert.Len(t, suggestions, 3)
}

func TestCancelQueryAlwaysAcknowledges(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{}, &fakeExecutor{})

	w := doRequest(r, http.MethodPost, "/api/genie/cancel/some-id", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "some-id", body["query_id"])
}

func TestChatHandler(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{}, &fakeExecutor{})

	w := doRequest(r, http.MethodPost, "/api/genie/chat", `{"message": "what does this mean?", "context": {}}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)
}

func TestChatHandlerRequiresMessage(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{}, &fakeExecutor{})

	w := doRequest(r, http.MethodPost, "/api/genie/chat", `{"context": {}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToolHandlers(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{}, &fakeExecutor{})

	w := doRequest(r, http.MethodGet, "/api/tools/competitor-pricing?product=Widget", "")
	require.Equal(t, http.StatusOK, w.Code)
	var pricing map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pricing))
	assert.Equal(t, "Widget", pricing["product"])

	w = doRequest(r, http.MethodGet, "/api/tools/competitor-pricing", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/api/tools/market-trend?category=Toys", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/tools/market-trend", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthHandler(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{}, &fakeExecutor{})

	w := doRequest(r, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, []string{"connected", "not_connected"}, body["warehouse"])
}
