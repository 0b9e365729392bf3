package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"datadeck/models"
)

// sampleRowsAsJSON renders the first maxRows rows as one JSON object per
// line, keyed by column name.
func sampleRowsAsJSON(results *models.QueryResults, maxRows int) string {
	if results == nil || len(results.Rows) == 0 || len(results.Columns) == 0 {
		return "(No data returned)"
	}
	var b strings.Builder
	for i, row := range results.Rows {
		if i >= maxRows {
			break
		}
		rowMap := make(map[string]interface{}, len(results.Columns))
		for j, col := range results.Columns {
			if j < len(row) {
				rowMap[col] = row[j]
			}
		}
		encoded, err := json.Marshal(rowMap)
		if err != nil {
			continue
		}
		b.Write(encoded)
		b.WriteString("\n")
	}
	return b.String()
}

// BuildAnalysisPrompt constructs the prompt asking the model to analyze
// query results and return a JSON object with summary, follow-up questions
// and insights.
func BuildAnalysisPrompt(question, sql string, results *models.QueryResults) string {
	var b strings.Builder
	b.WriteString("You are an expert data analyst helping a business user understand their sales data query results.\n\n")
	b.WriteString("**User's Question:**\n")
	b.WriteString(question)
	b.WriteString("\n\n**Generated SQL:**\n```sql\n")
	b.WriteString(sql)
	b.WriteString("\n```\n\n**Results Summary:**\n")
	if results != nil {
		b.WriteString(fmt.Sprintf("- Total rows returned: %d\n", results.RowCount))
		b.WriteString(fmt.Sprintf("- Columns: %s\n", strings.Join(results.Columns, ", ")))
	} else {
		b.WriteString("- No results available\n")
	}
	b.WriteString("\n**Sample Data (first 5 rows):**\n")
	b.WriteString(sampleRowsAsJSON(results, 5))
	b.WriteString(`
**Your Task:**
Provide a JSON response with the following structure:
{
  "summary": "A clear, business-focused 2-3 sentence summary of what the data shows.",
  "followup_questions": ["3-5 relevant follow-up questions specific to the data shown, not generic"],
  "insights": ["1-3 proactive observations about trends, anomalies, or noteworthy patterns"]
}

**Important:**
- Be concise and business-focused
- Use specific numbers from the data
- If no data was returned, explain why that might be
- Return ONLY valid JSON, no other text
`)
	return b.String()
}

// BuildChartPrompt constructs the prompt asking the model for a chart
// specification for the given results.
func BuildChartPrompt(results *models.QueryResults, question, analysisContext string) string {
	var b strings.Builder
	b.WriteString("You are a data visualization expert. Generate an optimal visualization specification for the following query results.\n\n")
	b.WriteString(fmt.Sprintf("**User Question:** %q\n\n", question))
	b.WriteString("**Data Structure:**\n")
	b.WriteString(fmt.Sprintf("- Total rows: %d\n", results.RowCount))
	b.WriteString(fmt.Sprintf("- Columns (%d):\n", len(results.Columns)))
	for _, col := range results.Columns {
		b.WriteString("- " + col + "\n")
	}
	b.WriteString("\n**Sample Data:**\n")
	b.WriteString(sampleRowsAsJSON(results, 3))
	if analysisContext != "" {
		b.WriteString("\n**Analytics Context:** ")
		b.WriteString(analysisContext)
		b.WriteString("\n")
	}
	b.WriteString(`
**Guidelines:**
- Bar charts: comparing categories (< 10 categories)
- Line charts: trends over time or continuous data
- Pie charts: part-to-whole (< 7 segments)
- Scatter plots: correlation between two numeric variables

Return ONLY a JSON object with this structure:
{
  "chartType": "bar|line|scatter|pie|heatmap|histogram|box|area|bubble",
  "title": "Descriptive chart title",
  "xAxis": {"column": "column_name", "label": "X Label", "type": "category|linear|time"},
  "yAxis": {"column": "column_name", "label": "Y Label", "type": "linear|log"},
  "groupBy": "optional column for grouping/series",
  "aggregation": "sum|avg|count|min|max if needed",
  "colors": ["#3b82f6"],
  "reasoning": "Brief explanation of why this chart type"
}

Return ONLY the JSON, no other text.`)
	return b.String()
}

// BuildChartModifyPrompt constructs the prompt asking the model to rewrite
// an existing chart specification per the user's request.
func BuildChartModifyPrompt(currentSpecJSON string, results *models.QueryResults, modificationRequest string) string {
	var b strings.Builder
	b.WriteString("You are a data visualization expert. Modify the current visualization based on the user's request.\n\n")
	b.WriteString("**Current Visualization:**\n```json\n")
	b.WriteString(currentSpecJSON)
	b.WriteString("\n```\n\n**Data Available:**\n")
	b.WriteString(fmt.Sprintf("- Columns: %s\n", strings.Join(results.Columns, ", ")))
	b.WriteString(fmt.Sprintf("- Row count: %d\n\n", results.RowCount))
	b.WriteString(fmt.Sprintf("**User Modification Request:** %q\n", modificationRequest))
	b.WriteString(`
Common modifications:
- Color changes: "make it blue" -> Update colors array
- Chart type: "show as pie chart" -> Change chartType
- Annotations: "add label at peak" -> Add annotations array
- Title, fonts, sizes, legend, margins -> Update title / layout block

Color guidelines:
- "blue" -> ["#3b82f6"]
- "red" -> ["#ef4444"]
- "green" -> ["#10b981"]
- "red and green" -> ["#ef4444", "#10b981"]
- "traffic light" -> ["#ef4444", "#f59e0b", "#10b981"]

Return ONLY a JSON object with the complete modified specification (same structure as current). No other text.`)
	return b.String()
}

// BuildChatSystemContext constructs the system message for conversational
// follow-ups, including a compact description of the current result set.
func BuildChatSystemContext(results *models.QueryResults) string {
	var b strings.Builder
	b.WriteString("You are an expert data analyst helping a business user understand their sales data.\n")
	b.WriteString("Reply with a JSON object: {\"message\": \"your answer\", \"suggested_followups\": [\"2-3 short follow-up questions\"]}.\n")
	if results != nil {
		b.WriteString("\nCurrent query results context:\n")
		b.WriteString(fmt.Sprintf("- Total rows: %d\n", results.RowCount))
		b.WriteString(fmt.Sprintf("- Columns: %s\n", strings.Join(results.Columns, ", ")))
		b.WriteString("\nSample data:\n")
		b.WriteString(sampleRowsAsJSON(results, 3))
	}
	return b.String()
}
