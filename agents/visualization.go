package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"datadeck/ai"
	"datadeck/models"
)

// defaultPalette is attached to heuristically generated charts.
var defaultPalette = []string{"#3b82f6", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6"}

// pieDowngradeLimit is the maximum number of distinct categories for which
// a bar chart is downgraded to a pie chart.
const pieDowngradeLimit = 6

// VisualizationAgent generates and modifies chart specifications. Like the
// analysis agent it never returns an error; a nil spec means no chart.
type VisualizationAgent struct {
	llm     ChatCompleter
	timeout time.Duration
	log     *slog.Logger
}

func NewVisualizationAgent(llm ChatCompleter, timeout time.Duration, log *slog.Logger) *VisualizationAgent {
	return &VisualizationAgent{llm: llm, timeout: timeout, log: log}
}

// Generate produces a chart specification for the results, falling back to
// a deterministic shape-based heuristic when the AI path fails. Returns nil
// for empty result sets: no chart is better than a meaningless one.
func (v *VisualizationAgent) Generate(ctx context.Context, results *models.QueryResults, question, analysisContext string) *models.VisualizationSpec {
	if results == nil || len(results.Columns) == 0 || len(results.Rows) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	prompt := ai.BuildChartPrompt(results, question, analysisContext)
	response, err := v.llm.Complete(ctx, ai.CompletionRequest{
		Messages:    []ai.Message{{Role: "user", Content: prompt}},
		MaxTokens:   2000,
		Temperature: 0.3,
	})
	if err != nil {
		v.log.Warn("visualization call failed, using heuristic fallback", "error", err)
		return v.heuristicSpec(results)
	}

	spec, ok := parseVisualizationSpec(response.Content)
	if !ok {
		v.log.Warn("unparseable visualization response, using heuristic fallback")
		return v.heuristicSpec(results)
	}

	v.log.Info("generated visualization", "chart_type", spec.ChartType)
	return spec
}

// Modify rewrites an existing spec per the user's free-text request.
// Returns nil on any failure; the caller keeps the prior spec.
func (v *VisualizationAgent) Modify(ctx context.Context, current *models.VisualizationSpec, results *models.QueryResults, modificationRequest string) *models.VisualizationSpec {
	if current == nil || results == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return nil
	}

	prompt := ai.BuildChartModifyPrompt(string(currentJSON), results, modificationRequest)
	response, err := v.llm.Complete(ctx, ai.CompletionRequest{
		Messages:    []ai.Message{{Role: "user", Content: prompt}},
		MaxTokens:   2000,
		Temperature: 0.3,
	})
	if err != nil {
		v.log.Warn("visualization modification failed", "error", err)
		return nil
	}

	spec, ok := parseVisualizationSpec(response.Content)
	if !ok {
		v.log.Warn("unparseable modification response")
		return nil
	}

	v.log.Info("modified visualization", "chart_type", spec.ChartType)
	return spec
}

// parseVisualizationSpec parses a model reply into a typed spec. A spec
// without chartType is rejected.
func parseVisualizationSpec(response string) (*models.VisualizationSpec, bool) {
	cleaned := ai.StripCodeFence(response)

	var probe map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, false
	}
	if chartType, _ := probe["chartType"].(string); chartType == "" {
		return nil, false
	}

	var spec models.VisualizationSpec
	if err := json.Unmarshal([]byte(cleaned), &spec); err != nil {
		return nil, false
	}
	return &spec, true
}

type columnKind int

const (
	kindCategorical columnKind = iota
	kindNumeric
	kindDate
)

var dateKeywords = []string{"date", "time", "year", "month", "week", "day"}

// classifyColumn buckets a column as date-like (by name), numeric (every
// sampled value parses as a number) or categorical.
func classifyColumn(name string, samples []interface{}) columnKind {
	lower := strings.ToLower(name)
	for _, keyword := range dateKeywords {
		if strings.Contains(lower, keyword) {
			return kindDate
		}
	}

	sawValue := false
	for _, value := range samples {
		if value == nil {
			continue
		}
		sawValue = true
		if _, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(value)), 64); err != nil {
			return kindCategorical
		}
	}
	if sawValue {
		return kindNumeric
	}
	return kindCategorical
}

// heuristicSpec picks a chart deterministically from the result shape. It
// is a pure function of the result set, so repeated invocations on the
// same input always choose the same chart.
func (v *VisualizationAgent) heuristicSpec(results *models.QueryResults) *models.VisualizationSpec {
	if results == nil || len(results.Columns) == 0 || len(results.Rows) == 0 {
		return nil
	}

	kinds := make([]columnKind, len(results.Columns))
	for i, name := range results.Columns {
		kinds[i] = classifyColumn(name, columnSamples(results, i, 10))
	}

	dateIdx, numericIdx, categoricalIdx := -1, -1, -1
	secondNumericIdx := -1
	for i, kind := range kinds {
		switch kind {
		case kindDate:
			if dateIdx < 0 {
				dateIdx = i
			}
		case kindNumeric:
			if numericIdx < 0 {
				numericIdx = i
			} else if secondNumericIdx < 0 {
				secondNumericIdx = i
			}
		case kindCategorical:
			if categoricalIdx < 0 {
				categoricalIdx = i
			}
		}
	}

	const reasoning = "Chart chosen by a deterministic heuristic from column names and value shapes because AI generation was unavailable."

	switch {
	case dateIdx >= 0 && numericIdx >= 0:
		x, y := results.Columns[dateIdx], results.Columns[numericIdx]
		return &models.VisualizationSpec{
			ChartType: "line",
			Title:     fmt.Sprintf("%s over %s", y, x),
			XAxis:     &models.AxisConfig{Column: x, Label: x, Type: "time"},
			YAxis:     &models.AxisConfig{Column: y, Label: y, Type: "linear"},
			Colors:    defaultPalette,
			Reasoning: reasoning,
		}

	case categoricalIdx >= 0 && numericIdx >= 0:
		x, y := results.Columns[categoricalIdx], results.Columns[numericIdx]
		chartType := "bar"
		if distinctValues(results, categoricalIdx) <= pieDowngradeLimit {
			chartType = "pie"
		}
		return &models.VisualizationSpec{
			ChartType: chartType,
			Title:     fmt.Sprintf("%s by %s", y, x),
			XAxis:     &models.AxisConfig{Column: x, Label: x, Type: "category"},
			YAxis:     &models.AxisConfig{Column: y, Label: y, Type: "linear"},
			Colors:    defaultPalette,
			Reasoning: reasoning,
		}

	case numericIdx >= 0 && secondNumericIdx >= 0:
		x, y := results.Columns[numericIdx], results.Columns[secondNumericIdx]
		return &models.VisualizationSpec{
			ChartType: "scatter",
			Title:     fmt.Sprintf("%s by %s", y, x),
			XAxis:     &models.AxisConfig{Column: x, Label: x, Type: "linear"},
			YAxis:     &models.AxisConfig{Column: y, Label: y, Type: "linear"},
			Colors:    defaultPalette,
			Reasoning: reasoning,
		}

	default:
		x := results.Columns[0]
		y := results.Columns[0]
		if len(results.Columns) > 1 {
			y = results.Columns[1]
		}
		return &models.VisualizationSpec{
			ChartType: "bar",
			Title:     fmt.Sprintf("%s by %s", y, x),
			XAxis:     &models.AxisConfig{Column: x, Label: x, Type: "category"},
			YAxis:     &models.AxisConfig{Column: y, Label: y, Type: "linear"},
			Colors:    defaultPalette,
			Reasoning: reasoning,
		}
	}
}

func columnSamples(results *models.QueryResults, col, limit int) []interface{} {
	var samples []interface{}
	for i, row := range results.Rows {
		if i >= limit {
			break
		}
		if col < len(row) {
			samples = append(samples, row[col])
		}
	}
	return samples
}

func distinctValues(results *models.QueryResults, col int) int {
	seen := make(map[string]struct{})
	for _, row := range results.Rows {
		if col < len(row) {
			seen[fmt.Sprint(row[col])] = struct{}{}
		}
	}
	return len(seen)
}
