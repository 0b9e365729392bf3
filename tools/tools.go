// Package tools provides the mock external lookups (competitor pricing and
// market trends) offered to the analysis model as callable tools, and
// exposed as plain HTTP stubs.
package tools

import (
	"fmt"
	"hash/fnv"
	"strings"

	"datadeck/ai"
)

const (
	CompetitorPricingTool = "get_competitor_pricing"
	MarketTrendTool       = "get_market_trend"
)

// Definitions returns the tool definitions offered to the analysis model.
func Definitions() []ai.Tool {
	return []ai.Tool{
		{
			Type: "function",
			Function: ai.FunctionDef{
				Name:        CompetitorPricingTool,
				Description: "Fetch competitor pricing data for a product. Use this when analyzing product performance to provide market context.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"product": map[string]interface{}{
							"type":        "string",
							"description": "The product name to look up pricing for",
						},
					},
					"required": []string{"product"},
				},
			},
		},
		{
			Type: "function",
			Function: ai.FunctionDef{
				Name:        MarketTrendTool,
				Description: "Get market trend information for a product category. Useful for understanding broader market dynamics.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"category": map[string]interface{}{
							"type":        "string",
							"description": "The product category to analyze trends for",
						},
					},
					"required": []string{"category"},
				},
			},
		},
	}
}

// Execute dispatches a tool call by name.
func Execute(name string, args map[string]interface{}) (map[string]interface{}, error) {
	switch name {
	case CompetitorPricingTool:
		product, _ := args["product"].(string)
		return CompetitorPricing(product), nil
	case MarketTrendTool:
		category, _ := args["category"].(string)
		return MarketTrend(category), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// CompetitorPricing returns deterministic mock pricing for a product.
func CompetitorPricing(product string) map[string]interface{} {
	base := 4.0 + float64(stableHash(product)%600)/100.0
	return map[string]interface{}{
		"product":          product,
		"competitor_price": fmt.Sprintf("%.2f", base),
		"our_price":        fmt.Sprintf("%.2f", base*0.95),
		"currency":         "USD",
		"source":           "mock",
	}
}

// MarketTrend returns a deterministic mock trend for a category.
func MarketTrend(category string) map[string]interface{} {
	trends := []string{"growing", "stable", "declining"}
	trend := trends[stableHash(category)%uint32(len(trends))]
	return map[string]interface{}{
		"category":       category,
		"trend":          trend,
		"yoy_change_pct": float64(stableHash(category)%150)/10.0 - 5.0,
		"confidence":     "low",
		"source":         "mock",
	}
}

func stableHash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(s))))
	return h.Sum32()
}
