package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datadeck/ai"
	"datadeck/models"
)

func TestGenerateParsesModelSpec(t *testing.T) {
	llm := &scriptedCompleter{
		responses: []*ai.CompletionResponse{{
			Content: "```json\n{\"chartType\": \"bar\", \"title\": \"Revenue by Region\", \"xAxis\": {\"column\": \"region\"}, \"yAxis\": {\"column\": \"revenue\"}}\n```",
		}},
	}
	agent := NewVisualizationAgent(llm, time.Second, testLogger())

	spec := agent.Generate(context.Background(), salesResults(), "revenue by region", "")

	require.NotNil(t, spec)
	assert.Equal(t, "bar", spec.ChartType)
	assert.Equal(t, "Revenue by Region", spec.Title)
	assert.Equal(t, "region", spec.XAxis.Column)
	assert.Equal(t, "revenue", spec.YAxis.Column)
}

func TestGenerateReturnsNilForEmptyResults(t *testing.T) {
	llm := &scriptedCompleter{}
	agent := NewVisualizationAgent(llm, time.Second, testLogger())

	empty := &models.QueryResults{Columns: []string{"region", "revenue"}, Rows: [][]interface{}{}}

	assert.Nil(t, agent.Generate(context.Background(), empty, "q", ""))
	assert.Nil(t, agent.Generate(context.Background(), nil, "q", ""))
	assert.Empty(t, llm.requests, "no model call for empty results")
}

func TestGenerateHeuristicFallbackOnError(t *testing.T) {
	llm := &scriptedCompleter{errs: []error{errors.New("timeout")}}
	agent := NewVisualizationAgent(llm, time.Second, testLogger())

	results := &models.QueryResults{
		Columns: []string{"year", "revenue"},
		Rows: [][]interface{}{
			{"2021", "1000"},
			{"2022", "1250"},
			{"2023", "1600"},
		},
		RowCount: 3,
	}

	spec := agent.Generate(context.Background(), results, "revenue over time", "")

	require.NotNil(t, spec)
	assert.Equal(t, "line", spec.ChartType)
	assert.Equal(t, "year", spec.XAxis.Column)
	assert.Equal(t, "time", spec.XAxis.Type)
	assert.Equal(t, "revenue", spec.YAxis.Column)
	assert.Equal(t, "linear", spec.YAxis.Type)
	assert.Equal(t, defaultPalette, spec.Colors)
}

func TestGenerateHeuristicFallbackOnUnparseableResponse(t *testing.T) {
	llm := &scriptedCompleter{
		responses: []*ai.CompletionResponse{{Content: "a bar chart would look nice here"}},
	}
	agent := NewVisualizationAgent(llm, time.Second, testLogger())

	spec := agent.Generate(context.Background(), salesResults(), "q", "")

	require.NotNil(t, spec)
	assert.NotEmpty(t, spec.Reasoning)
}

func TestHeuristicPieForFewCategories(t *testing.T) {
	agent := NewVisualizationAgent(&scriptedCompleter{}, time.Second, testLogger())

	spec := agent.heuristicSpec(salesResults())

	require.NotNil(t, spec)
	assert.Equal(t, "pie", spec.ChartType, "3 distinct categories should downgrade bar to pie")
}

func TestHeuristicBarForManyCategories(t *testing.T) {
	agent := NewVisualizationAgent(&scriptedCompleter{}, time.Second, testLogger())

	results := &models.QueryResults{
		Columns: []string{"product", "units"},
		Rows: [][]interface{}{
			{"A", "1"}, {"B", "2"}, {"C", "3"}, {"D", "4"},
			{"E", "5"}, {"F", "6"}, {"G", "7"},
		},
		RowCount: 7,
	}

	spec := agent.heuristicSpec(results)

	require.NotNil(t, spec)
	assert.Equal(t, "bar", spec.ChartType)
	assert.Equal(t, "units by product", spec.Title)
}

func TestHeuristicScatterForTwoNumerics(t *testing.T) {
	agent := NewVisualizationAgent(&scriptedCompleter{}, time.Second, testLogger())

	results := &models.QueryResults{
		Columns: []string{"price", "units"},
		Rows: [][]interface{}{
			{"9.99", "120"},
			{"14.99", "80"},
		},
		RowCount: 2,
	}

	spec := agent.heuristicSpec(results)

	require.NotNil(t, spec)
	assert.Equal(t, "scatter", spec.ChartType)
	assert.Equal(t, "price", spec.XAxis.Column)
	assert.Equal(t, "units", spec.YAxis.Column)
}

func TestHeuristicIsDeterministic(t *testing.T) {
	agent := NewVisualizationAgent(&scriptedCompleter{}, time.Second, testLogger())
	results := salesResults()

	first := agent.heuristicSpec(results)
	second := agent.heuristicSpec(results)

	assert.Equal(t, first, second)
}

func TestClassifyColumn(t *testing.T) {
	assert.Equal(t, kindDate, classifyColumn("order_date", []interface{}{"2024-01-01"}))
	assert.Equal(t, kindDate, classifyColumn("Year", []interface{}{"2024"}))
	assert.Equal(t, kindNumeric, classifyColumn("revenue", []interface{}{"100", "250.5"}))
	assert.Equal(t, kindCategorical, classifyColumn("region", []interface{}{"West", "East"}))
	assert.Equal(t, kindCategorical, classifyColumn("notes", nil))
}

func TestModifyReturnsNilOnFailure(t *testing.T) {
	llm := &scriptedCompleter{errs: []error{errors.New("unavailable")}}
	agent := NewVisualizationAgent(llm, time.Second, testLogger())

	current := &models.VisualizationSpec{ChartType: "bar"}

	assert.Nil(t, agent.Modify(context.Background(), current, salesResults(), "make it blue"))
	assert.Nil(t, agent.Modify(context.Background(), nil, salesResults(), "make it blue"))
}

func TestModifyReturnsUpdatedSpec(t *testing.T) {
	llm := &scriptedCompleter{
		responses: []*ai.CompletionResponse{{
			Content: "{\"chartType\": \"bar\", \"colors\": [\"#3b82f6\"]}",
		}},
	}
	agent := NewVisualizationAgent(llm, time.Second, testLogger())

	spec := agent.Modify(context.Background(), &models.VisualizationSpec{ChartType: "bar"}, salesResults(), "make it blue")

	require.NotNil(t, spec)
	assert.Equal(t, []string{"#3b82f6"}, spec.Colors)
}

func TestParseVisualizationSpecRejectsMissingChartType(t *testing.T) {
	_, ok := parseVisualizationSpec(`{"title": "no type"}`)
	assert.False(t, ok)

	_, ok = parseVisualizationSpec("not json at all")
	assert.False(t, ok)

	spec, ok := parseVisualizationSpec("```json\n{\"chartType\": \"line\"}\n```")
	require.True(t, ok)
	assert.Equal(t, "line", spec.ChartType)
}
