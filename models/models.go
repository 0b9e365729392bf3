package models

// AskQuestionRequest is the payload for the ask endpoint.
type AskQuestionRequest struct {
	Question  string `json:"question" binding:"required"`
	SkipCache bool   `json:"skip_cache,omitempty"`
}

// QueryResults holds the column/row data returned by the warehouse.
// Rows are positionally aligned to Columns; the struct is never mutated
// after creation and is shared read-only by the downstream agents.
type QueryResults struct {
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	RowCount  int             `json:"rowCount"`
	Truncated bool            `json:"truncated"`
}

// GenieResponse is the SQL-path answer before AI enrichment.
type GenieResponse struct {
	Question        string        `json:"question"`
	SQL             string        `json:"sql"`
	GenieAnswer     string        `json:"genieAnswer"`
	Results         *QueryResults `json:"results"`
	ExecutionTimeMs int64         `json:"executionTimeMs"`
	QueryID         string        `json:"queryId"`
	Cached          bool          `json:"cached"`
}

// AnalysisResult is the analysis agent's output. It is either fully
// derived from a parsed model response or fully replaced by the static
// fallback, never partially populated.
type AnalysisResult struct {
	Summary           string   `json:"summary"`
	FollowupQuestions []string `json:"followup_questions"`
	Insights          []string `json:"insights"`
}

// AskQuestionResponse is the merged response for the ask endpoint.
type AskQuestionResponse struct {
	Question           string             `json:"question"`
	SQL                string             `json:"sql"`
	GenieAnswer        string             `json:"genieAnswer"`
	Results            *QueryResults      `json:"results"`
	AISummary          string             `json:"aiSummary"`
	Insights           []string           `json:"insights"`
	SuggestedFollowups []string           `json:"suggestedFollowups"`
	Visualization      *VisualizationSpec `json:"visualization,omitempty"`
	ExecutionTimeMs    int64              `json:"executionTimeMs"`
	QueryID            string             `json:"queryId"`
	Cached             bool               `json:"cached"`
}

// AxisConfig describes one chart axis.
type AxisConfig struct {
	Column string    `json:"column"`
	Label  string    `json:"label,omitempty"`
	Type   string    `json:"type,omitempty"` // category, linear, time, log
	Range  []float64 `json:"range,omitempty"`
	Format string    `json:"format,omitempty"`
	Grid   bool      `json:"grid,omitempty"`
	Font   *Font     `json:"font,omitempty"`
}

type Font struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Annotation is a text callout placed on a chart.
type Annotation struct {
	Text     string      `json:"text"`
	X        interface{} `json:"x,omitempty"`
	Y        interface{} `json:"y,omitempty"`
	Color    string      `json:"color,omitempty"`
	Font     *Font       `json:"font,omitempty"`
	Position string      `json:"position,omitempty"` // top, bottom, left, right
}

// Layout holds chart-level presentation settings.
type Layout struct {
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	ShowLegend *bool   `json:"showLegend,omitempty"`
	Margins    []int   `json:"margins,omitempty"` // top, right, bottom, left
	Font       *Font   `json:"font,omitempty"`
	Background string  `json:"background,omitempty"`
	BarGap     float64 `json:"barGap,omitempty"`
}

// VisualizationSpec is a typed chart specification. ChartType is the only
// required field; everything else is optional and renderer-dependent.
type VisualizationSpec struct {
	ChartType   string       `json:"chartType"`
	Title       string       `json:"title,omitempty"`
	XAxis       *AxisConfig  `json:"xAxis,omitempty"`
	YAxis       *AxisConfig  `json:"yAxis,omitempty"`
	GroupBy     string       `json:"groupBy,omitempty"`
	Aggregation string       `json:"aggregation,omitempty"` // sum, avg, count, min, max
	Colors      []string     `json:"colors,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Layout      *Layout      `json:"layout,omitempty"`
	Reasoning   string       `json:"reasoning,omitempty"`
}

// ConversationTurn is one prior message in a chat conversation.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationContext is supplied fresh by the caller on every chat turn;
// the server holds no session state.
type ConversationContext struct {
	ConversationHistory  []ConversationTurn `json:"conversationHistory"`
	CurrentQueryResults  *QueryResults      `json:"currentQueryResults,omitempty"`
	CurrentVisualization *VisualizationSpec `json:"currentVisualization,omitempty"`
}

// ChatRequest is the payload for the chat endpoint.
type ChatRequest struct {
	Message string              `json:"message" binding:"required"`
	Context ConversationContext `json:"context"`
}

// ChatResponse is the chat endpoint's reply.
type ChatResponse struct {
	Message            string             `json:"message"`
	SuggestedFollowups []string           `json:"suggestedFollowups"`
	Visualization      *VisualizationSpec `json:"visualization,omitempty"`
	Confidence         float64            `json:"confidence"`
}

// SuggestedQuestion is a predefined question shown to new users.
type SuggestedQuestion struct {
	Question    string `json:"question"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}
